package evaluation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/GTD-web/ems-backend-sub025/internal/domain/apperr"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/assignment"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/target"
	"github.com/GTD-web/ems-backend-sub025/internal/platform/db"
	"github.com/GTD-web/ems-backend-sub025/internal/testutil"
)

type fixture struct {
	db          *db.DB
	svc         *Service
	assignments *assignment.Service
	targets     *target.Service
	periodID    string
	employee    string
	projectID   string
	wbs         []string
}

func setup(t *testing.T, opts ...testutil.PeriodOption) fixture {
	t.Helper()
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	f := fixture{
		db:          database,
		svc:         NewService(database, uow),
		assignments: assignment.NewService(database, uow),
		targets:     target.NewService(database, uow),
		periodID:    testutil.InsertPeriod(t, database, opts...),
		employee:    testutil.InsertEmployee(t, database, "Alice"),
		projectID:   testutil.InsertProject(t, database, "Billing"),
	}
	_, err := f.targets.Register(ctx, f.periodID, f.employee, "hr")
	require.NoError(t, err)
	_, err = f.assignments.AssignProject(ctx, f.periodID, assignment.ProjectInput{EmployeeID: f.employee, ProjectID: f.projectID}, "hr")
	require.NoError(t, err)
	for _, title := range []string{"Design", "Build"} {
		wbs := testutil.InsertWbsItem(t, database, f.projectID, title)
		_, err := f.assignments.AssignWbs(ctx, assignment.WbsInput{
			PeriodID: f.periodID, EmployeeID: f.employee, ProjectID: f.projectID, WbsItemID: wbs,
		}, "hr")
		require.NoError(t, err)
		f.wbs = append(f.wbs, wbs)
	}
	return f
}

func (f fixture) setEvaluator(t *testing.T, role, wbs, evaluator string) {
	t.Helper()
	_, err := f.assignments.SetEvaluator(context.Background(), assignment.SetEvaluatorInput{
		Role: role, EmployeeID: f.employee, WbsItemID: wbs, PeriodID: f.periodID, EvaluatorID: evaluator,
	}, "hr")
	require.NoError(t, err)
}

func strPtr(v string) *string { return &v }

func intPtr(v int) *int { return &v }

func requireCode(t *testing.T, err error, kind apperr.Kind, code string) {
	t.Helper()
	appErr, ok := apperr.As(err)
	require.True(t, ok, "expected an application error, got %v", err)
	require.Equal(t, kind, appErr.Kind)
	require.Equal(t, code, appErr.Code)
}
