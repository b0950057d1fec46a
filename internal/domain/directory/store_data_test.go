package directory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTD-web/ems-backend-sub025/internal/domain/apperr"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/entity"
	"github.com/GTD-web/ems-backend-sub025/internal/testutil"
)

func TestEmployeeLookupIncludesDepartment(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	dept := testutil.InsertDepartment(t, database, "Platform")
	empID := testutil.InsertEmployee(t, database, "Kim", testutil.InDepartment(dept), testutil.WithPosition("lead"))

	store := NewStore(database)
	emp, err := store.GetEmployee(ctx, empID)
	require.NoError(t, err)
	assert.Equal(t, "Kim", emp.Name)
	assert.Equal(t, "Platform", emp.DepartmentName)
	assert.Equal(t, "lead", emp.Position)

	_, err = store.GetEmployee(ctx, entity.NewID())
	assert.True(t, apperr.IsNotFound(err))
}

func TestListWbsItemsByProjectSkipsOtherProjects(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	project := testutil.InsertProject(t, database, "Billing")
	other := testutil.InsertProject(t, database, "Search")
	testutil.InsertWbsItem(t, database, project, "Design")
	testutil.InsertWbsItem(t, database, project, "Build")
	testutil.InsertWbsItem(t, database, other, "Index")

	items, err := NewStore(database).ListWbsItemsByProject(ctx, project)
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, item := range items {
		assert.Equal(t, project, item.ProjectID)
	}
}

func TestListDeliverablesFiltersByEmployee(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	project := testutil.InsertProject(t, database, "Billing")
	wbs := testutil.InsertWbsItem(t, database, project, "Design")
	alice := testutil.InsertEmployee(t, database, "Alice")
	bob := testutil.InsertEmployee(t, database, "Bob")
	testutil.InsertDeliverable(t, database, wbs, alice, "Spec")
	testutil.InsertDeliverable(t, database, wbs, bob, "Mockups")

	store := NewStore(database)
	all, err := store.ListDeliverables(ctx, []string{wbs}, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := store.ListDeliverables(ctx, []string{wbs}, alice)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Spec", mine[0].Name)

	none, err := store.ListDeliverables(ctx, nil, alice)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGetQuestion(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	id := testutil.InsertQuestion(t, database, "Communicates clearly?")

	q, err := NewStore(database).GetQuestion(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, q.MaxScore)
	assert.Equal(t, 5, *q.MaxScore)
}
