// Package criteria manages the evaluation criteria attached to WBS items.
package criteria

import (
	"strings"

	"github.com/GTD-web/ems-backend-sub025/internal/domain/entity"
)

const (
	MinImportance     = 1
	MaxImportance     = 10
	DefaultImportance = 5
)

type Criteria struct {
	entity.Meta
	WbsItemID  string `json:"wbsItemId"`
	Criteria   string `json:"criteria"`
	Importance int    `json:"importance"`
}

type CreateInput struct {
	WbsItemID  string `json:"wbsItemId"`
	Criteria   string `json:"criteria"`
	Importance *int   `json:"importance,omitempty"`
}

func (in CreateInput) Validate() error {
	var v entity.Violations
	v.ID("wbsItemId", in.WbsItemID)
	v.Required("criteria", strings.TrimSpace(in.Criteria))
	v.IntRange("importance", in.Importance, MinImportance, MaxImportance)
	return v.Err()
}

// UpdateInput carries the fields to change; nil keeps the stored value.
type UpdateInput struct {
	Criteria   *string `json:"criteria,omitempty"`
	Importance *int    `json:"importance,omitempty"`
}

func (in UpdateInput) Validate() error {
	var v entity.Violations
	if in.Criteria != nil {
		v.Required("criteria", strings.TrimSpace(*in.Criteria))
	}
	v.IntRange("importance", in.Importance, MinImportance, MaxImportance)
	return v.Err()
}
