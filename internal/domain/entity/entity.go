package entity

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/GTD-web/ems-backend-sub025/internal/domain/apperr"
)

// Meta is embedded by every persisted evaluation entity.
type Meta struct {
	ID        string     `json:"id"`
	CreatedBy string     `json:"createdBy,omitempty"`
	UpdatedBy string     `json:"updatedBy,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
	Version   int        `json:"version"`
}

// NewMeta stamps a fresh row created by actor at now.
func NewMeta(actor string, now time.Time) Meta {
	return Meta{
		ID:        NewID(),
		CreatedBy: actor,
		UpdatedBy: actor,
		CreatedAt: now,
		UpdatedAt: now,
		Version:   1,
	}
}

// Touch records a mutation by actor.
func (m *Meta) Touch(actor string, now time.Time) {
	m.UpdatedBy = actor
	m.UpdatedAt = now
	m.Version++
}

func NewID() string {
	return uuid.NewString()
}

// IsID reports whether value is a well-formed identifier.
func IsID(value string) bool {
	if strings.TrimSpace(value) == "" {
		return false
	}
	_, err := uuid.Parse(value)
	return err == nil
}

// Now is the clock used for every timestamp written by the domain.
var Now = func() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// Violation is a single failed field check.
type Violation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Violations accumulates field checks. The zero value is ready to use.
type Violations []Violation

func (v *Violations) Add(field, reason string) {
	*v = append(*v, Violation{Field: field, Reason: reason})
}

func (v *Violations) ID(field, value string) {
	if !IsID(value) {
		v.Add(field, "must be a valid UUID")
	}
}

func (v *Violations) OptionalID(field, value string) {
	if value != "" {
		v.ID(field, value)
	}
}

func (v *Violations) Required(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, "is required")
	}
}

func (v *Violations) IntRange(field string, value *int, minValue, maxValue int) {
	if value == nil {
		return
	}
	if *value < minValue || *value > maxValue {
		v.Add(field, "must be between "+strconv.Itoa(minValue)+" and "+strconv.Itoa(maxValue))
	}
}

func (v *Violations) OneOf(field, value string, allowed ...string) {
	if value == "" {
		return
	}
	for _, candidate := range allowed {
		if value == candidate {
			return
		}
	}
	v.Add(field, "must be one of "+strings.Join(allowed, ", "))
}

// Err converts the collected violations into a Validation error, or nil.
func (v Violations) Err() error {
	if len(v) == 0 {
		return nil
	}
	fields := make([]string, 0, len(v))
	for _, violation := range v {
		fields = append(fields, violation.Field+" "+violation.Reason)
	}
	return apperr.Validation("VALIDATION_FAILED", strings.Join(fields, "; "), "fields", []Violation(v))
}
