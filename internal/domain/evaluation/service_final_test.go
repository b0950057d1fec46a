package evaluation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTD-web/ems-backend-sub025/internal/domain/apperr"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/period"
	"github.com/GTD-web/ems-backend-sub025/internal/testutil"
)

func (f fixture) finalInput(grade, job, detailed, comments string) FinalUpsertInput {
	return FinalUpsertInput{
		PeriodID: f.periodID, EmployeeID: f.employee,
		EvaluationGrade: strPtr(grade), JobGrade: strPtr(job), JobDetailedGrade: strPtr(detailed), FinalComments: strPtr(comments),
	}
}

func TestFinalConfirmRoundTrip(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	e, err := f.svc.UpsertFinal(ctx, f.finalInput("A", "T2", "n", "steady year"), "hr")
	require.NoError(t, err)
	assert.Equal(t, 1, e.Version)

	confirmed, err := f.svc.ConfirmFinal(ctx, e.ID, "director")
	require.NoError(t, err)
	assert.True(t, confirmed.IsConfirmed)
	require.NotNil(t, confirmed.ConfirmedBy)
	assert.Equal(t, "director", *confirmed.ConfirmedBy)
	require.NotNil(t, confirmed.ConfirmedAt)
	assert.Equal(t, 2, confirmed.Version)

	_, err = f.svc.ConfirmFinal(ctx, e.ID, "director")
	requireCode(t, err, apperr.KindDomainPolicy, "ALREADY_CONFIRMED")

	cancelled, err := f.svc.CancelFinalConfirmation(ctx, e.ID, "director")
	require.NoError(t, err)
	assert.Equal(t, 3, cancelled.Version)

	stored, err := f.svc.GetFinal(ctx, e.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsConfirmed)
	assert.Nil(t, stored.ConfirmedBy)
	assert.Nil(t, stored.ConfirmedAt)
	assert.Equal(t, e.EvaluationGrade, stored.EvaluationGrade)
	assert.Equal(t, e.JobGrade, stored.JobGrade)
	assert.Equal(t, e.JobDetailedGrade, stored.JobDetailedGrade)
	assert.Equal(t, e.FinalComments, stored.FinalComments)
	assert.Equal(t, 3, stored.Version)

	_, err = f.svc.CancelFinalConfirmation(ctx, e.ID, "director")
	requireCode(t, err, apperr.KindDomainPolicy, "NOT_CONFIRMED")
}

func TestFinalUpsertRules(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.UpsertFinal(ctx, f.finalInput("A", "T4", "n", ""), "hr")
	assert.True(t, apperr.IsValidation(err))
	_, err = f.svc.UpsertFinal(ctx, f.finalInput("A", "T1", "x", ""), "hr")
	assert.True(t, apperr.IsValidation(err))
	_, err = f.svc.UpsertFinal(ctx, FinalUpsertInput{PeriodID: f.periodID, EmployeeID: f.employee, FinalComments: strPtr("no grades")}, "hr")
	assert.True(t, apperr.IsValidation(err), "a new final evaluation needs grades")

	e, err := f.svc.UpsertFinal(ctx, f.finalInput("B", "T1", "a", ""), "hr")
	require.NoError(t, err)
	updated, err := f.svc.UpsertFinal(ctx, FinalUpsertInput{PeriodID: f.periodID, EmployeeID: f.employee, FinalComments: strPtr("revisited")}, "hr")
	require.NoError(t, err)
	assert.Equal(t, e.ID, updated.ID)
	assert.Equal(t, "B", updated.EvaluationGrade)
	assert.Equal(t, "revisited", updated.FinalComments)

	_, err = f.svc.ConfirmFinal(ctx, e.ID, "director")
	require.NoError(t, err)
	_, err = f.svc.UpsertFinal(ctx, f.finalInput("S", "T3", "u", ""), "hr")
	requireCode(t, err, apperr.KindDomainPolicy, "FINAL_EVALUATION_CONFIRMED")
}

func TestFinalConfirmationOnCompletedPeriod(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	e, err := f.svc.UpsertFinal(ctx, f.finalInput("A", "T2", "n", ""), "hr")
	require.NoError(t, err)

	testutil.SetPeriodStatus(t, f.db, f.periodID, period.StatusCompleted)
	_, err = f.svc.ConfirmFinal(ctx, e.ID, "director")
	require.NoError(t, err)
	_, err = f.svc.CancelFinalConfirmation(ctx, e.ID, "director")
	require.NoError(t, err)

	_, err = f.svc.UpsertFinal(ctx, f.finalInput("B", "T2", "n", ""), "hr")
	assert.True(t, apperr.IsDomainPolicy(err))
}
