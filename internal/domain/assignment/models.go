// Package assignment maintains project and WBS assignments inside a period
// and the evaluator lines provisioned for every assigned WBS item.
package assignment

import (
	"time"

	"github.com/GTD-web/ems-backend-sub025/internal/domain/entity"
)

type ProjectAssignment struct {
	entity.Meta
	PeriodID     string    `json:"periodId"`
	EmployeeID   string    `json:"employeeId"`
	ProjectID    string    `json:"projectId"`
	ProjectName  string    `json:"projectName,omitempty"`
	AssignedBy   string    `json:"assignedBy"`
	AssignedDate time.Time `json:"assignedDate"`
}

type WbsAssignment struct {
	entity.Meta
	PeriodID     string    `json:"periodId"`
	EmployeeID   string    `json:"employeeId"`
	ProjectID    string    `json:"projectId"`
	WbsItemID    string    `json:"wbsItemId"`
	AssignedBy   string    `json:"assignedBy"`
	AssignedDate time.Time `json:"assignedDate"`
}

// Line is a global evaluator role. One live row exists per role.
type Line struct {
	entity.Meta
	EvaluatorType  string `json:"evaluatorType"`
	Order          int    `json:"order"`
	IsRequired     bool   `json:"isRequired"`
	IsAutoAssigned bool   `json:"isAutoAssigned"`
}

// LineMapping binds an evaluator to one employee, WBS item and role.
// EvaluatorID stays nil until someone is configured.
type LineMapping struct {
	entity.Meta
	EmployeeID       string  `json:"employeeId"`
	WbsItemID        string  `json:"wbsItemId"`
	EvaluationLineID string  `json:"evaluationLineId"`
	EvaluatorType    string  `json:"evaluatorType"`
	EvaluatorID      *string `json:"evaluatorId"`
}

type ProjectInput struct {
	EmployeeID string `json:"employeeId"`
	ProjectID  string `json:"projectId"`
}

type WbsInput struct {
	PeriodID   string
	EmployeeID string
	ProjectID  string
	WbsItemID  string
}

func (in WbsInput) Validate() error {
	var v entity.Violations
	v.ID("periodId", in.PeriodID)
	v.ID("employeeId", in.EmployeeID)
	v.ID("projectId", in.ProjectID)
	v.ID("wbsItemId", in.WbsItemID)
	return v.Err()
}

// AssignWbsResult carries the new assignment and the primary and secondary
// mappings that exist for it afterwards.
type AssignWbsResult struct {
	Assignment WbsAssignment `json:"assignment"`
	Mappings   []LineMapping `json:"mappings"`
}

type SetEvaluatorInput struct {
	Role        string
	EmployeeID  string
	WbsItemID   string
	PeriodID    string
	EvaluatorID string
}

func (in SetEvaluatorInput) Validate() error {
	var v entity.Violations
	if in.Role != RolePrimary && in.Role != RoleSecondary {
		v.Add("role", "must be one of primary, secondary")
	}
	v.ID("employeeId", in.EmployeeID)
	v.ID("wbsItemId", in.WbsItemID)
	v.ID("periodId", in.PeriodID)
	v.ID("evaluatorId", in.EvaluatorID)
	return v.Err()
}
