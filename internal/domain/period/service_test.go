package period

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTD-web/ems-backend-sub025/internal/domain/apperr"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/entity"
	"github.com/GTD-web/ems-backend-sub025/internal/testutil"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	database := testutil.NewTestDB(t)
	return NewService(database, testutil.NewTestUoW(database))
}

func validInput(name string) CreateInput {
	return CreateInput{
		Name:      name,
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
	}
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func TestCreateDefaultsToWaiting(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, validInput("2026 H1"), "admin")
	require.NoError(t, err)
	assert.Equal(t, StatusWaiting, p.Status)
	assert.Equal(t, DefaultMaxSelfEvaluationRate, p.MaxSelfEvaluationRate)
	assert.Equal(t, 1, p.Version)

	loaded, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "2026 H1", loaded.Name)
	assert.True(t, p.StartDate.Equal(loaded.StartDate))
	assert.Equal(t, "admin", loaded.CreatedBy)
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	in := validInput("")
	in.EndDate = in.StartDate.AddDate(0, 0, -1)
	in.MaxSelfEvaluationRate = intPtr(500)
	_, err := svc.Create(ctx, in, "admin")
	require.True(t, apperr.IsValidation(err))

	appErr, _ := apperr.As(err)
	fields, ok := appErr.Context["fields"].([]entity.Violation)
	require.True(t, ok)
	assert.Len(t, fields, 3)
}

func TestCreateRejectsDuplicateName(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, validInput("2026 H1"), "admin")
	require.NoError(t, err)
	_, err = svc.Create(ctx, validInput("2026 H1"), "admin")
	assert.True(t, apperr.IsConflict(err))
}

func TestLifecycleTransitions(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, validInput("2026 H1"), "admin")
	require.NoError(t, err)

	_, err = svc.Complete(ctx, p.ID, "admin")
	assert.True(t, apperr.IsDomainPolicy(err), "waiting period cannot complete")

	started, err := svc.Start(ctx, p.ID, "admin")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, started.Status)
	assert.Equal(t, 2, started.Version)

	_, err = svc.Start(ctx, p.ID, "admin")
	assert.True(t, apperr.IsDomainPolicy(err))

	completed, err := svc.Complete(ctx, p.ID, "hr")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, completed.Status)
	assert.Equal(t, 3, completed.Version)
	assert.Equal(t, "hr", completed.UpdatedBy)

	_, err = svc.UpdateSettings(ctx, p.ID, SettingsInput{CriteriaSettingEnabled: boolPtr(true)}, "hr")
	assert.True(t, apperr.IsDomainPolicy(err))

	err = svc.Delete(ctx, p.ID, "hr")
	assert.True(t, apperr.IsDomainPolicy(err))
}

func TestUpdateSettingsMergesFlags(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, validInput("2026 H1"), "admin")
	require.NoError(t, err)

	updated, err := svc.UpdateSettings(ctx, p.ID, SettingsInput{
		SelfEvaluationSettingEnabled: boolPtr(true),
		MaxSelfEvaluationRate:        intPtr(150),
	}, "hr")
	require.NoError(t, err)
	assert.True(t, updated.SelfEvaluationSettingEnabled)
	assert.False(t, updated.CriteriaSettingEnabled)
	assert.Equal(t, 150, updated.MaxSelfEvaluationRate)

	_, err = svc.UpdateSettings(ctx, p.ID, SettingsInput{MaxSelfEvaluationRate: intPtr(0)}, "hr")
	assert.True(t, apperr.IsValidation(err))
}

func TestDeleteFreesName(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, validInput("2026 H1"), "admin")
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, p.ID, "admin"))

	_, err = svc.Get(ctx, p.ID)
	assert.True(t, apperr.IsNotFound(err))

	_, err = svc.Create(ctx, validInput("2026 H1"), "admin")
	assert.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestGetRejectsMalformedID(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Get(context.Background(), "period-1")
	assert.True(t, apperr.IsValidation(err))
}

func TestEnsureWritable(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	open := testutil.InsertPeriod(t, database)
	closed := testutil.InsertPeriod(t, database, testutil.WithStatus(StatusCompleted))

	p, err := EnsureWritable(ctx, database, open)
	require.NoError(t, err)
	assert.Equal(t, 120, p.MaxSelfEvaluationRate)

	_, err = EnsureWritable(ctx, database, closed)
	assert.True(t, apperr.IsDomainPolicy(err))

	_, err = EnsureWritable(ctx, database, entity.NewID())
	assert.True(t, apperr.IsNotFound(err))
}

func TestStaleUpdateIsConflict(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	id := testutil.InsertPeriod(t, database)

	store := NewStore(database)
	p, err := store.Get(ctx, id)
	require.NoError(t, err)
	p.Touch("a", entity.Now())
	err = store.Update(ctx, p, p.Version+5)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, "CONCURRENT_MODIFICATION", appErr.Code)
}
