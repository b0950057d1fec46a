// Package target tracks which employees are evaluated in a period and
// whether each one is currently excluded.
package target

import (
	"time"

	"github.com/GTD-web/ems-backend-sub025/internal/domain/entity"
)

// Membership is one employee's registration in a period. The four exclusion
// fields are all set or all empty.
type Membership struct {
	entity.Meta
	PeriodID      string     `json:"periodId"`
	EmployeeID    string     `json:"employeeId"`
	IsExcluded    bool       `json:"isExcluded"`
	ExcludeReason *string    `json:"excludeReason"`
	ExcludedBy    *string    `json:"excludedBy"`
	ExcludedAt    *time.Time `json:"excludedAt"`
}

// Target is a membership joined with the directory fields listings show.
type Target struct {
	Membership
	EmployeeName   string `json:"employeeName"`
	EmployeeNumber string `json:"employeeNumber"`
	DepartmentName string `json:"departmentName,omitempty"`
}

func (m *Membership) exclude(reason, actor string, now time.Time) {
	m.IsExcluded = true
	m.ExcludeReason = &reason
	m.ExcludedBy = &actor
	m.ExcludedAt = &now
	m.Touch(actor, now)
}

func (m *Membership) include(actor string, now time.Time) {
	m.IsExcluded = false
	m.ExcludeReason = nil
	m.ExcludedBy = nil
	m.ExcludedAt = nil
	m.Touch(actor, now)
}
