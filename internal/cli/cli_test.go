package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTD-web/ems-backend-sub025/internal/auth"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/progress"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/target"
	"github.com/GTD-web/ems-backend-sub025/internal/platform/db"
	"github.com/GTD-web/ems-backend-sub025/internal/testutil"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_CONFIG_FILE", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("LOG_LEVEL", "")
}

func TestVersion(t *testing.T) {
	isolateEnv(t)
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, Version+"\n", out)
}

func TestTokenCommand(t *testing.T) {
	isolateEnv(t)
	_, err := execute(t, "token", "--actor", "actor-1")
	assert.Error(t, err, "secret required")

	t.Setenv("JWT_SECRET", "cli-secret")
	out, err := execute(t, "token", "--actor", "actor-1", "--name", "Ops")
	require.NoError(t, err)
	claims, err := auth.ParseToken("cli-secret", strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "actor-1", claims.ActorID())
}

func TestMigrateAndStatus(t *testing.T) {
	isolateEnv(t)
	color.NoColor = true
	path := filepath.Join(t.TempDir(), "eval.db")
	t.Setenv("DATABASE_URL", "sqlite:"+path)

	out, err := execute(t, "migrate", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "migrations applied")

	out, err = execute(t, "migrate", "--log-level", "error")
	require.NoError(t, err, "migrations are idempotent")
	assert.Contains(t, out, "migrations applied")

	database, err := db.OpenSQLite(context.Background(), path)
	require.NoError(t, err)
	periodID := testutil.InsertPeriod(t, database.DB)
	emptyPeriodID := testutil.InsertPeriod(t, database.DB)
	employee := testutil.InsertEmployee(t, database.DB, "Choi Target")
	targets := target.NewService(database.DB, db.NewUnitOfWork(database.DB))
	_, err = targets.Register(context.Background(), periodID, employee, testutil.Actor)
	require.NoError(t, err)
	require.NoError(t, database.Close())

	out, err = execute(t, "status", "--period", emptyPeriodID)
	require.NoError(t, err)
	assert.Contains(t, out, "no evaluation targets")

	out, err = execute(t, "status", "--period", periodID)
	require.NoError(t, err)
	assert.Contains(t, out, "Choi Target ("+employee+")")
	assert.Contains(t, out, "criteria")
	assert.Contains(t, out, "final")
	assert.NotContains(t, out, "[excluded]")

	out, err = execute(t, "status", "--period", periodID, "--employee", employee)
	require.NoError(t, err)
	assert.Contains(t, out, "Choi Target")

	_, err = execute(t, "status", "--period", "not-a-uuid")
	assert.Error(t, err)
}

func TestPrintStatusesMarksExcluded(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	require.NoError(t, printStatuses(&buf, []progress.EmployeeStatus{{
		EmployeeID:   "e1",
		EmployeeName: "Kang",
		IsExcluded:   true,
		Summary: progress.Summary{
			SelfToEvaluator: progress.StageSummary{Status: progress.StatusInProgress, Total: 2, Completed: 1},
		},
	}}))
	out := buf.String()
	assert.Contains(t, out, "Kang (e1) [excluded]")
	assert.Contains(t, out, "in_progress (1/2)")
}
