// Package period owns the evaluation period lifecycle and the write guard
// every other evaluation writer consults.
package period

import (
	"time"

	"github.com/GTD-web/ems-backend-sub025/internal/domain/entity"
)

type Period struct {
	entity.Meta
	Name                          string    `json:"name"`
	Description                   string    `json:"description"`
	StartDate                     time.Time `json:"startDate"`
	EndDate                       time.Time `json:"endDate"`
	Status                        string    `json:"status"`
	CriteriaSettingEnabled        bool      `json:"criteriaSettingEnabled"`
	SelfEvaluationSettingEnabled  bool      `json:"selfEvaluationSettingEnabled"`
	FinalEvaluationSettingEnabled bool      `json:"finalEvaluationSettingEnabled"`
	MaxSelfEvaluationRate         int       `json:"maxSelfEvaluationRate"`
}

func (p Period) IsCompleted() bool {
	return p.Status == StatusCompleted
}

type CreateInput struct {
	Name                          string
	Description                   string
	StartDate                     time.Time
	EndDate                       time.Time
	CriteriaSettingEnabled        bool
	SelfEvaluationSettingEnabled  bool
	FinalEvaluationSettingEnabled bool
	MaxSelfEvaluationRate         *int
}

func (in CreateInput) Validate() error {
	var v entity.Violations
	v.Required("name", in.Name)
	if in.StartDate.IsZero() {
		v.Add("startDate", "is required")
	}
	if in.EndDate.IsZero() {
		v.Add("endDate", "is required")
	}
	if !in.StartDate.IsZero() && !in.EndDate.IsZero() && in.EndDate.Before(in.StartDate) {
		v.Add("endDate", "must not be before startDate")
	}
	v.IntRange("maxSelfEvaluationRate", in.MaxSelfEvaluationRate, MinSelfEvaluationRate, MaxSelfEvaluationRate)
	return v.Err()
}

// SettingsInput changes phase flags; nil fields are left as they are.
type SettingsInput struct {
	CriteriaSettingEnabled        *bool
	SelfEvaluationSettingEnabled  *bool
	FinalEvaluationSettingEnabled *bool
	MaxSelfEvaluationRate         *int
}

func (in SettingsInput) Validate() error {
	var v entity.Violations
	v.IntRange("maxSelfEvaluationRate", in.MaxSelfEvaluationRate, MinSelfEvaluationRate, MaxSelfEvaluationRate)
	return v.Err()
}
