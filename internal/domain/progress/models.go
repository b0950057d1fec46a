// Package progress derives an employee's evaluation progress from the rows
// other packages write. Nothing here is stored; every report is rebuilt from
// committed state on each call.
package progress

import (
	"time"

	"github.com/GTD-web/ems-backend-sub025/internal/domain/criteria"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/directory"
)

const (
	StatusNone       = "none"
	StatusInProgress = "in_progress"
	StatusComplete   = "complete"
)

// StageSummary counts the records of one stage that satisfy its predicate
// against the number expected.
type StageSummary struct {
	Status       string `json:"status"`
	Total        int    `json:"totalCount"`
	Completed    int    `json:"completedCount"`
	AllSubmitted bool   `json:"allSubmitted"`
}

type CriteriaStatus struct {
	Status               string `json:"status"`
	TotalWbsCount        int    `json:"totalWbsCount"`
	WbsWithCriteriaCount int    `json:"wbsWithCriteriaCount"`
}

type Summary struct {
	TotalProjects     int          `json:"totalProjects"`
	TotalWbs          int          `json:"totalWbs"`
	SelfToEvaluator   StageSummary `json:"selfEvaluationToEvaluator"`
	SelfToManager     StageSummary `json:"selfEvaluationToManager"`
	DownwardPrimary   StageSummary `json:"primaryDownwardEvaluation"`
	DownwardSecondary StageSummary `json:"secondaryDownwardEvaluation"`
	Peer              StageSummary `json:"peerEvaluation"`
	Final             StageSummary `json:"finalEvaluation"`
}

type PeriodInfo struct {
	ID                    string    `json:"id"`
	Name                  string    `json:"name"`
	Status                string    `json:"status"`
	StartDate             time.Time `json:"startDate"`
	EndDate               time.Time `json:"endDate"`
	MaxSelfEvaluationRate int       `json:"maxSelfEvaluationRate"`
}

type SelfState struct {
	EvaluationID           string     `json:"evaluationId"`
	Score                  *int       `json:"score,omitempty"`
	SubmittedToEvaluator   bool       `json:"submittedToEvaluator"`
	SubmittedToEvaluatorAt *time.Time `json:"submittedToEvaluatorAt,omitempty"`
	SubmittedToManager     bool       `json:"submittedToManager"`
	SubmittedToManagerAt   *time.Time `json:"submittedToManagerAt,omitempty"`
	IsCompleted            bool       `json:"isCompleted"`
}

// DownwardState is one evaluation tier of a WBS item: who is bound to it and
// how far their evaluation has got.
type DownwardState struct {
	EvaluatorID  *string    `json:"evaluatorId,omitempty"`
	EvaluationID string     `json:"evaluationId,omitempty"`
	Score        *int       `json:"score,omitempty"`
	IsCompleted  bool       `json:"isCompleted"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

type WbsData struct {
	WbsItemID         string                  `json:"wbsItemId"`
	WbsCode           string                  `json:"wbsCode"`
	Title             string                  `json:"title"`
	AssignedDate      time.Time               `json:"assignedDate"`
	Criteria          []criteria.Criteria     `json:"criteria"`
	SelfEvaluation    *SelfState              `json:"selfEvaluation,omitempty"`
	PrimaryDownward   DownwardState           `json:"primaryDownwardEvaluation"`
	SecondaryDownward DownwardState           `json:"secondaryDownwardEvaluation"`
	Deliverables      []directory.Deliverable `json:"deliverables"`
}

type ProjectData struct {
	ProjectID    string    `json:"projectId"`
	ProjectName  string    `json:"projectName"`
	ProjectCode  string    `json:"projectCode"`
	AssignedDate time.Time `json:"assignedDate"`
	WbsList      []WbsData `json:"wbsList"`
}

type AssignedData struct {
	Period   PeriodInfo         `json:"evaluationPeriod"`
	Employee directory.Employee `json:"employee"`
	Projects []ProjectData      `json:"projects"`
	Summary  Summary            `json:"summary"`
}

// LineConfig reports which evaluator roles are bound across the employee's
// assigned WBS items.
type LineConfig struct {
	HasPrimaryEvaluator   bool     `json:"hasPrimaryEvaluator"`
	HasSecondaryEvaluator bool     `json:"hasSecondaryEvaluator"`
	PrimaryEvaluatorIDs   []string `json:"primaryEvaluatorIds"`
	SecondaryEvaluatorIDs []string `json:"secondaryEvaluatorIds"`
}

type EmployeeStatus struct {
	PeriodID           string         `json:"periodId"`
	EmployeeID         string         `json:"employeeId"`
	EmployeeName       string         `json:"employeeName"`
	IsEvaluationTarget bool           `json:"isEvaluationTarget"`
	IsExcluded         bool           `json:"isExcluded"`
	ExcludeReason      *string        `json:"excludeReason,omitempty"`
	EvaluationLine     LineConfig     `json:"evaluationLine"`
	WbsCriteria        CriteriaStatus `json:"wbsCriteria"`
	Summary            Summary        `json:"summary"`
}

// Report bundles the two views rendered into the progress PDF.
type Report struct {
	Data   AssignedData   `json:"assignedData"`
	Status EmployeeStatus `json:"status"`
}
