package criteria

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTD-web/ems-backend-sub025/internal/domain/apperr"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/entity"
	"github.com/GTD-web/ems-backend-sub025/internal/testutil"
)

func newService(t *testing.T) (*Service, string) {
	t.Helper()
	database := testutil.NewTestDB(t)
	project := testutil.InsertProject(t, database, "Billing")
	wbs := testutil.InsertWbsItem(t, database, project, "Design")
	return NewService(database, testutil.NewTestUoW(database)), wbs
}

func intPtr(v int) *int { return &v }

func TestCreateAndList(t *testing.T) {
	svc, wbs := newService(t)
	ctx := context.Background()

	low, err := svc.Create(ctx, CreateInput{WbsItemID: wbs, Criteria: "  ship on time "}, "hr")
	require.NoError(t, err)
	assert.Equal(t, "ship on time", low.Criteria)
	assert.Equal(t, DefaultImportance, low.Importance)

	high, err := svc.Create(ctx, CreateInput{WbsItemID: wbs, Criteria: "no regressions", Importance: intPtr(9)}, "hr")
	require.NoError(t, err)

	list, err := svc.List(ctx, wbs)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, high.ID, list[0].ID, "ordered by importance")
}

func TestCreateValidation(t *testing.T) {
	svc, wbs := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{WbsItemID: wbs, Criteria: " "}, "hr")
	assert.True(t, apperr.IsValidation(err))

	_, err = svc.Create(ctx, CreateInput{WbsItemID: wbs, Criteria: "x", Importance: intPtr(11)}, "hr")
	assert.True(t, apperr.IsValidation(err))

	_, err = svc.Create(ctx, CreateInput{WbsItemID: entity.NewID(), Criteria: "x"}, "hr")
	assert.True(t, apperr.IsNotFound(err))
}

func TestUpdateAndDelete(t *testing.T) {
	svc, wbs := newService(t)
	ctx := context.Background()
	c, err := svc.Create(ctx, CreateInput{WbsItemID: wbs, Criteria: "draft"}, "hr")
	require.NoError(t, err)

	text := "final wording"
	updated, err := svc.Update(ctx, c.ID, UpdateInput{Criteria: &text}, "lead")
	require.NoError(t, err)
	assert.Equal(t, text, updated.Criteria)
	assert.Equal(t, DefaultImportance, updated.Importance)
	assert.Equal(t, 2, updated.Version)
	assert.Equal(t, "lead", updated.UpdatedBy)

	_, err = svc.Update(ctx, c.ID, UpdateInput{Importance: intPtr(0)}, "lead")
	assert.True(t, apperr.IsValidation(err))

	require.NoError(t, svc.Delete(ctx, c.ID, "lead"))
	assert.True(t, apperr.IsNotFound(svc.Delete(ctx, c.ID, "lead")))

	_, err = svc.Update(ctx, c.ID, UpdateInput{Criteria: &text}, "lead")
	assert.True(t, apperr.IsNotFound(err))

	list, err := svc.List(ctx, wbs)
	require.NoError(t, err)
	assert.Empty(t, list)
}
