// Package evaluation stores the four evaluation records written during a
// cycle: self, downward, peer and final. Content is authored with upserts;
// every state change is an explicit submit or confirm call.
package evaluation

import (
	"strings"
	"time"

	"github.com/GTD-web/ems-backend-sub025/internal/domain/entity"
)

type SelfEvaluation struct {
	entity.Meta
	PeriodID               string     `json:"periodId"`
	EmployeeID             string     `json:"employeeId"`
	WbsItemID              string     `json:"wbsItemId"`
	Content                string     `json:"selfEvaluationContent"`
	Score                  *int       `json:"selfEvaluationScore,omitempty"`
	PerformanceResult      string     `json:"performanceResult"`
	SubmittedToEvaluator   bool       `json:"submittedToEvaluator"`
	SubmittedToEvaluatorAt *time.Time `json:"submittedToEvaluatorAt,omitempty"`
	SubmittedToManager     bool       `json:"submittedToManager"`
	SubmittedToManagerAt   *time.Time `json:"submittedToManagerAt,omitempty"`
	IsCompleted            bool       `json:"isCompleted"`
	CompletedAt            *time.Time `json:"completedAt,omitempty"`
}

type SelfUpsertInput struct {
	PeriodID          string  `json:"periodId"`
	EmployeeID        string  `json:"employeeId"`
	WbsItemID         string  `json:"wbsItemId"`
	Content           *string `json:"selfEvaluationContent,omitempty"`
	Score             *int    `json:"selfEvaluationScore,omitempty"`
	PerformanceResult *string `json:"performanceResult,omitempty"`
}

func (in SelfUpsertInput) Validate() error {
	var v entity.Violations
	v.ID("periodId", in.PeriodID)
	v.ID("employeeId", in.EmployeeID)
	v.ID("wbsItemId", in.WbsItemID)
	return v.Err()
}

func (e *SelfEvaluation) merge(in SelfUpsertInput) {
	if in.Content != nil {
		e.Content = *in.Content
	}
	if in.Score != nil {
		score := *in.Score
		e.Score = &score
	}
	if in.PerformanceResult != nil {
		e.PerformanceResult = *in.PerformanceResult
	}
}

type DownwardEvaluation struct {
	entity.Meta
	PeriodID       string     `json:"periodId"`
	EmployeeID     string     `json:"employeeId"`
	EvaluatorID    string     `json:"evaluatorId"`
	WbsID          string     `json:"wbsId"`
	EvaluationType string     `json:"evaluationType"`
	Content        string     `json:"downwardEvaluationContent"`
	Score          *int       `json:"downwardEvaluationScore,omitempty"`
	IsCompleted    bool       `json:"isCompleted"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
}

type DownwardUpsertInput struct {
	EvaluationType string  `json:"-"`
	PeriodID       string  `json:"periodId"`
	EvaluateeID    string  `json:"evaluateeId"`
	WbsID          string  `json:"wbsId"`
	EvaluatorID    string  `json:"evaluatorId"`
	Content        *string `json:"downwardEvaluationContent,omitempty"`
	Score          *int    `json:"downwardEvaluationScore,omitempty"`
}

func (in DownwardUpsertInput) Validate() error {
	var v entity.Violations
	if in.EvaluationType != TypePrimary && in.EvaluationType != TypeSecondary {
		v.Add("evaluationType", "must be one of primary, secondary")
	}
	v.ID("periodId", in.PeriodID)
	v.ID("evaluateeId", in.EvaluateeID)
	v.ID("wbsId", in.WbsID)
	v.ID("evaluatorId", in.EvaluatorID)
	return v.Err()
}

type PeerEvaluation struct {
	entity.Meta
	PeriodID        string         `json:"periodId"`
	EvaluatorID     string         `json:"evaluatorId"`
	EvaluateeID     string         `json:"evaluateeId"`
	Status          string         `json:"status"`
	IsCompleted     bool           `json:"isCompleted"`
	CompletedAt     *time.Time     `json:"completedAt,omitempty"`
	RequestDeadline *time.Time     `json:"requestDeadline,omitempty"`
	Questions       []PeerQuestion `json:"questions"`
}

// PeerQuestion is one question put to the evaluator and its recorded answer.
type PeerQuestion struct {
	entity.Meta
	PeerEvaluationID string     `json:"peerEvaluationId"`
	QuestionID       string     `json:"questionId"`
	QuestionText     string     `json:"questionText"`
	DisplayOrder     int        `json:"displayOrder"`
	Answer           *string    `json:"answer,omitempty"`
	Score            *int       `json:"score,omitempty"`
	AnsweredAt       *time.Time `json:"answeredAt,omitempty"`
}

func (q PeerQuestion) Answered() bool {
	return q.AnsweredAt != nil
}

type PeerRequestInput struct {
	PeriodID        string     `json:"periodId"`
	EvaluatorID     string     `json:"evaluatorId"`
	EvaluateeID     string     `json:"evaluateeId"`
	QuestionIDs     []string   `json:"questionIds"`
	RequestDeadline *time.Time `json:"requestDeadline,omitempty"`
}

func (in PeerRequestInput) Validate() error {
	var v entity.Violations
	v.ID("periodId", in.PeriodID)
	v.ID("evaluatorId", in.EvaluatorID)
	v.ID("evaluateeId", in.EvaluateeID)
	if in.EvaluatorID != "" && in.EvaluatorID == in.EvaluateeID {
		v.Add("evaluateeId", "must differ from evaluatorId")
	}
	seen := make(map[string]bool, len(in.QuestionIDs))
	for _, id := range in.QuestionIDs {
		v.ID("questionIds", id)
		if seen[id] {
			v.Add("questionIds", "must not repeat "+id)
		}
		seen[id] = true
	}
	return v.Err()
}

type PeerAnswerInput struct {
	QuestionID string `json:"questionId"`
	Answer     string `json:"answer"`
	Score      *int   `json:"score,omitempty"`
}

type FinalEvaluation struct {
	entity.Meta
	PeriodID         string     `json:"periodId"`
	EmployeeID       string     `json:"employeeId"`
	EvaluationGrade  string     `json:"evaluationGrade"`
	JobGrade         string     `json:"jobGrade"`
	JobDetailedGrade string     `json:"jobDetailedGrade"`
	FinalComments    string     `json:"finalComments"`
	IsConfirmed      bool       `json:"isConfirmed"`
	ConfirmedBy      *string    `json:"confirmedBy,omitempty"`
	ConfirmedAt      *time.Time `json:"confirmedAt,omitempty"`
}

type FinalUpsertInput struct {
	PeriodID         string  `json:"periodId"`
	EmployeeID       string  `json:"employeeId"`
	EvaluationGrade  *string `json:"evaluationGrade,omitempty"`
	JobGrade         *string `json:"jobGrade,omitempty"`
	JobDetailedGrade *string `json:"jobDetailedGrade,omitempty"`
	FinalComments    *string `json:"finalComments,omitempty"`
}

func (in FinalUpsertInput) Validate() error {
	var v entity.Violations
	v.ID("periodId", in.PeriodID)
	v.ID("employeeId", in.EmployeeID)
	if in.EvaluationGrade != nil {
		v.Required("evaluationGrade", *in.EvaluationGrade)
	}
	if in.JobGrade != nil {
		v.Required("jobGrade", *in.JobGrade)
		v.OneOf("jobGrade", *in.JobGrade, JobGrades...)
	}
	if in.JobDetailedGrade != nil {
		v.Required("jobDetailedGrade", *in.JobDetailedGrade)
		v.OneOf("jobDetailedGrade", *in.JobDetailedGrade, JobDetailedGrades...)
	}
	return v.Err()
}

func (e *FinalEvaluation) merge(in FinalUpsertInput) {
	if in.EvaluationGrade != nil {
		e.EvaluationGrade = strings.TrimSpace(*in.EvaluationGrade)
	}
	if in.JobGrade != nil {
		e.JobGrade = *in.JobGrade
	}
	if in.JobDetailedGrade != nil {
		e.JobDetailedGrade = *in.JobDetailedGrade
	}
	if in.FinalComments != nil {
		e.FinalComments = *in.FinalComments
	}
}

// missingGrades lists the grade fields a new final evaluation still lacks.
func (e FinalEvaluation) missingGrades() error {
	var v entity.Violations
	v.Required("evaluationGrade", e.EvaluationGrade)
	v.Required("jobGrade", e.JobGrade)
	v.Required("jobDetailedGrade", e.JobDetailedGrade)
	return v.Err()
}
