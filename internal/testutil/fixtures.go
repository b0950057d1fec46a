package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/GTD-web/ems-backend-sub025/internal/platform/db"
)

// Actor is the createdBy/updatedBy value fixtures write.
const Actor = "fixture"

var fixtureCounter atomic.Int64

func next() int64 {
	return fixtureCounter.Add(1)
}

func mustExec(t *testing.T, q db.DBTX, query string, args ...any) {
	t.Helper()
	if _, err := q.ExecContext(context.Background(), query, args...); err != nil {
		t.Fatalf("fixture insert failed: %v\n%s", err, query)
	}
}

func InsertDepartment(t *testing.T, q db.DBTX, name string) string {
	t.Helper()
	id := uuid.NewString()
	mustExec(t, q, `INSERT INTO departments (id, name, code) VALUES ($1, $2, $3)`,
		id, name, fmt.Sprintf("D%03d", next()))
	return id
}

// EmployeeOption customises InsertEmployee.
type EmployeeOption func(*employeeRow)

type employeeRow struct {
	departmentID *string
	position     string
}

func InDepartment(departmentID string) EmployeeOption {
	return func(e *employeeRow) { e.departmentID = &departmentID }
}

func WithPosition(position string) EmployeeOption {
	return func(e *employeeRow) { e.position = position }
}

func InsertEmployee(t *testing.T, q db.DBTX, name string, opts ...EmployeeOption) string {
	t.Helper()
	row := employeeRow{position: "engineer"}
	for _, opt := range opts {
		opt(&row)
	}
	id := uuid.NewString()
	n := next()
	mustExec(t, q, `INSERT INTO employees (id, employee_number, name, email, department_id, position)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		id, fmt.Sprintf("E%05d", n), name, fmt.Sprintf("employee%d@example.com", n), db.Nullable(row.departmentID), row.position)
	return id
}

func InsertProject(t *testing.T, q db.DBTX, name string) string {
	t.Helper()
	id := uuid.NewString()
	mustExec(t, q, `INSERT INTO projects (id, name, code) VALUES ($1, $2, $3)`,
		id, name, fmt.Sprintf("P%03d", next()))
	return id
}

func InsertWbsItem(t *testing.T, q db.DBTX, projectID, title string) string {
	t.Helper()
	id := uuid.NewString()
	mustExec(t, q, `INSERT INTO wbs_items (id, project_id, wbs_code, title) VALUES ($1, $2, $3, $4)`,
		id, projectID, fmt.Sprintf("WBS-%03d", next()), title)
	return id
}

func InsertDeliverable(t *testing.T, q db.DBTX, wbsItemID, employeeID, name string) string {
	t.Helper()
	id := uuid.NewString()
	mustExec(t, q, `INSERT INTO deliverables (id, wbs_item_id, employee_id, name) VALUES ($1, $2, $3, $4)`,
		id, wbsItemID, employeeID, name)
	return id
}

func InsertQuestion(t *testing.T, q db.DBTX, text string) string {
	t.Helper()
	id := uuid.NewString()
	mustExec(t, q, `INSERT INTO evaluation_questions (id, text, min_score, max_score) VALUES ($1, $2, $3, $4)`,
		id, text, 1, 5)
	return id
}

// PeriodOption customises InsertPeriod.
type PeriodOption func(*periodRow)

type periodRow struct {
	status  string
	maxRate int
}

func WithStatus(status string) PeriodOption {
	return func(p *periodRow) { p.status = status }
}

func WithMaxSelfEvaluationRate(rate int) PeriodOption {
	return func(p *periodRow) { p.maxRate = rate }
}

// InsertPeriod writes an in-progress period directly, bypassing the registry.
func InsertPeriod(t *testing.T, q db.DBTX, opts ...PeriodOption) string {
	t.Helper()
	row := periodRow{status: "in-progress", maxRate: 120}
	for _, opt := range opts {
		opt(&row)
	}
	id := uuid.NewString()
	now := time.Now().UTC().Truncate(time.Microsecond)
	start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	mustExec(t, q, `INSERT INTO evaluation_periods
		(id, name, description, start_date, end_date, status, criteria_setting_enabled, self_evaluation_setting_enabled,
		 final_evaluation_setting_enabled, max_self_evaluation_rate, created_by, updated_by, created_at, updated_at, version)
		VALUES ($1, $2, '', $3, $4, $5, $6, $6, $6, $7, $8, $8, $9, $9, 1)`,
		id, fmt.Sprintf("Period %d", next()), start, start.AddDate(0, 6, 0), row.status, true, row.maxRate, Actor, now)
	return id
}

// SetPeriodStatus moves a fixture period without going through the registry.
func SetPeriodStatus(t *testing.T, q db.DBTX, periodID, status string) {
	t.Helper()
	mustExec(t, q, `UPDATE evaluation_periods SET status = $1 WHERE id = $2`, status, periodID)
}

// Count returns the number of live rows in table matching where.
func Count(t *testing.T, q db.DBTX, table, where string, args ...any) int {
	t.Helper()
	query := "SELECT COUNT(1) FROM " + table + " WHERE deleted_at IS NULL"
	if where != "" {
		query += " AND " + where
	}
	var n int
	if err := q.QueryRowContext(context.Background(), query, args...).Scan(&n); err != nil {
		t.Fatalf("count %s failed: %v", table, err)
	}
	return n
}

// FailingUoW runs work through the real unit of work but makes the nth write
// (counting from 1) return err, so callers can check that a multi-write
// operation leaves nothing behind. Reads are never failed.
func FailingUoW(database *db.DB, nth int, err error) db.UnitOfWork {
	return failingUoW{inner: db.NewUnitOfWork(database.DB), nth: nth, err: err}
}

type failingUoW struct {
	inner db.UnitOfWork
	nth   int
	err   error
}

func (u failingUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return u.inner.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &failingTx{DBTX: tx, nth: u.nth, err: u.err})
	})
}

type failingTx struct {
	db.DBTX
	writes int
	nth    int
	err    error
}

func (t *failingTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	t.writes++
	if t.writes == t.nth {
		return nil, t.err
	}
	return t.DBTX.ExecContext(ctx, query, args...)
}
