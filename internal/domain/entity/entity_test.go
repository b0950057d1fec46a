package entity

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTD-web/ems-backend-sub025/internal/domain/apperr"
	"github.com/GTD-web/ems-backend-sub025/internal/platform/db"
)

func TestIsID(t *testing.T) {
	assert.True(t, IsID(NewID()))
	assert.False(t, IsID(""))
	assert.False(t, IsID("not-a-uuid"))
	assert.False(t, IsID("  "))
}

func TestMetaTouchBumpsVersion(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	meta := NewMeta("admin", created)
	require.Equal(t, 1, meta.Version)
	require.True(t, IsID(meta.ID))

	later := created.Add(time.Hour)
	meta.Touch("hr", later)
	assert.Equal(t, 2, meta.Version)
	assert.Equal(t, "hr", meta.UpdatedBy)
	assert.Equal(t, "admin", meta.CreatedBy)
	assert.Equal(t, later, meta.UpdatedAt)
}

func TestViolations(t *testing.T) {
	var v Violations
	require.NoError(t, v.Err())

	score := 130
	v.ID("employeeId", "bad")
	v.Required("name", " ")
	v.IntRange("score", &score, 0, 120)
	v.IntRange("unset", nil, 0, 1)
	v.OneOf("jobGrade", "T9", "T1", "T2", "T3")
	v.OptionalID("evaluatorId", "")

	err := v.Err()
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	appErr, _ := apperr.As(err)
	fields := appErr.Context["fields"].([]Violation)
	require.Len(t, fields, 4)
	assert.Equal(t, "employeeId", fields[0].Field)
	assert.Equal(t, "must be between 0 and 120", fields[2].Reason)
}

func TestStoreErrorTranslation(t *testing.T) {
	assert.NoError(t, StoreError(nil, "op", "DUP"))

	stale := StoreError(db.ErrStaleWrite, "update period", "")
	appErr, ok := apperr.As(stale)
	require.True(t, ok)
	assert.Equal(t, "CONCURRENT_MODIFICATION", appErr.Code)
	assert.ErrorIs(t, stale, db.ErrStaleWrite)

	dup := StoreError(errors.New("UNIQUE constraint failed: evaluation_periods.name"), "insert period", "PERIOD_NAME_TAKEN", "name", "2026 H1")
	appErr, ok = apperr.As(dup)
	require.True(t, ok)
	assert.Equal(t, apperr.KindConflict, appErr.Kind)
	assert.Equal(t, "2026 H1", appErr.Context["name"])

	passthrough := apperr.NotFound("PERIOD_NOT_FOUND", "missing")
	assert.Same(t, passthrough, StoreError(passthrough, "op", "DUP"))

	plain := StoreError(errors.New("disk full"), "insert period", "DUP")
	assert.EqualError(t, plain, "insert period: disk full")
}
