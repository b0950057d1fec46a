package assignment

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/GTD-web/ems-backend-sub025/internal/domain/directory"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/entity"
	"github.com/GTD-web/ems-backend-sub025/internal/platform/db"
)

type Store struct {
	DB db.DBTX
}

func NewStore(q db.DBTX) *Store {
	return &Store{DB: q}
}

type scanner interface{ Scan(...any) error }

const projectAssignmentColumns = `
    a.id, a.period_id, a.employee_id, a.project_id, COALESCE(p.name, ''), a.assigned_by, a.assigned_date,
    a.created_by, a.updated_by, a.created_at, a.updated_at, a.version
  `

func scanProjectAssignment(row scanner) (ProjectAssignment, error) {
	var (
		a                          ProjectAssignment
		assigned, created, updated db.Timestamp
	)
	if err := row.Scan(&a.ID, &a.PeriodID, &a.EmployeeID, &a.ProjectID, &a.ProjectName, &a.AssignedBy, &assigned,
		&a.CreatedBy, &a.UpdatedBy, &created, &updated, &a.Version); err != nil {
		return ProjectAssignment{}, err
	}
	a.AssignedDate = assigned.Time
	a.CreatedAt = created.Time
	a.UpdatedAt = updated.Time
	return a, nil
}

func (s *Store) InsertProjectAssignment(ctx context.Context, a ProjectAssignment) error {
	_, err := s.DB.ExecContext(ctx, `
    INSERT INTO evaluation_project_assignments
      (id, period_id, employee_id, project_id, assigned_by, assigned_date, created_by, updated_by, created_at, updated_at, version)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
  `, a.ID, a.PeriodID, a.EmployeeID, a.ProjectID, a.AssignedBy, a.AssignedDate,
		a.CreatedBy, a.UpdatedBy, a.CreatedAt, a.UpdatedAt, a.Version)
	return entity.StoreError(err, "insert project assignment", "PROJECT_ALREADY_ASSIGNED",
		"periodId", a.PeriodID, "employeeId", a.EmployeeID, "projectId", a.ProjectID)
}

func (s *Store) GetProjectAssignment(ctx context.Context, id string) (ProjectAssignment, bool, error) {
	row := s.DB.QueryRowContext(ctx, `
    SELECT`+projectAssignmentColumns+`
    FROM evaluation_project_assignments a
    LEFT JOIN projects p ON p.id = a.project_id
    WHERE a.id = $1 AND a.deleted_at IS NULL
  `, id)
	a, err := scanProjectAssignment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ProjectAssignment{}, false, nil
	}
	if err != nil {
		return ProjectAssignment{}, false, entity.StoreError(err, "load project assignment", "")
	}
	return a, true, nil
}

func (s *Store) FindProjectAssignment(ctx context.Context, periodID, employeeID, projectID string) (ProjectAssignment, bool, error) {
	row := s.DB.QueryRowContext(ctx, `
    SELECT`+projectAssignmentColumns+`
    FROM evaluation_project_assignments a
    LEFT JOIN projects p ON p.id = a.project_id
    WHERE a.period_id = $1 AND a.employee_id = $2 AND a.project_id = $3 AND a.deleted_at IS NULL
  `, periodID, employeeID, projectID)
	a, err := scanProjectAssignment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ProjectAssignment{}, false, nil
	}
	if err != nil {
		return ProjectAssignment{}, false, entity.StoreError(err, "load project assignment", "")
	}
	return a, true, nil
}

func (s *Store) ListProjectAssignments(ctx context.Context, periodID, employeeID string) ([]ProjectAssignment, error) {
	rows, err := s.DB.QueryContext(ctx, `
    SELECT`+projectAssignmentColumns+`
    FROM evaluation_project_assignments a
    LEFT JOIN projects p ON p.id = a.project_id
    WHERE a.period_id = $1 AND a.employee_id = $2 AND a.deleted_at IS NULL
    ORDER BY a.assigned_date, a.id
  `, periodID, employeeID)
	if err != nil {
		return nil, entity.StoreError(err, "list project assignments", "")
	}
	defer rows.Close()

	var out []ProjectAssignment
	for rows.Next() {
		a, err := scanProjectAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

const wbsAssignmentColumns = `
    id, period_id, employee_id, project_id, wbs_item_id, assigned_by, assigned_date,
    created_by, updated_by, created_at, updated_at, version
  `

func scanWbsAssignment(row scanner) (WbsAssignment, error) {
	var (
		a                          WbsAssignment
		assigned, created, updated db.Timestamp
	)
	if err := row.Scan(&a.ID, &a.PeriodID, &a.EmployeeID, &a.ProjectID, &a.WbsItemID, &a.AssignedBy, &assigned,
		&a.CreatedBy, &a.UpdatedBy, &created, &updated, &a.Version); err != nil {
		return WbsAssignment{}, err
	}
	a.AssignedDate = assigned.Time
	a.CreatedAt = created.Time
	a.UpdatedAt = updated.Time
	return a, nil
}

func (s *Store) InsertWbsAssignment(ctx context.Context, a WbsAssignment) error {
	_, err := s.DB.ExecContext(ctx, `
    INSERT INTO evaluation_wbs_assignments
      (id, period_id, employee_id, project_id, wbs_item_id, assigned_by, assigned_date,
       created_by, updated_by, created_at, updated_at, version)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
  `, a.ID, a.PeriodID, a.EmployeeID, a.ProjectID, a.WbsItemID, a.AssignedBy, a.AssignedDate,
		a.CreatedBy, a.UpdatedBy, a.CreatedAt, a.UpdatedAt, a.Version)
	return entity.StoreError(err, "insert wbs assignment", "WBS_ALREADY_ASSIGNED",
		"periodId", a.PeriodID, "employeeId", a.EmployeeID, "wbsItemId", a.WbsItemID)
}

func (s *Store) GetWbsAssignment(ctx context.Context, id string) (WbsAssignment, bool, error) {
	row := s.DB.QueryRowContext(ctx, "SELECT "+wbsAssignmentColumns+" FROM evaluation_wbs_assignments WHERE id = $1 AND deleted_at IS NULL", id)
	return s.oneWbsAssignment(row)
}

func (s *Store) FindWbsAssignment(ctx context.Context, periodID, employeeID, wbsItemID string) (WbsAssignment, bool, error) {
	row := s.DB.QueryRowContext(ctx, `
    SELECT `+wbsAssignmentColumns+`
    FROM evaluation_wbs_assignments
    WHERE period_id = $1 AND employee_id = $2 AND wbs_item_id = $3 AND deleted_at IS NULL
  `, periodID, employeeID, wbsItemID)
	return s.oneWbsAssignment(row)
}

func (s *Store) oneWbsAssignment(row scanner) (WbsAssignment, bool, error) {
	a, err := scanWbsAssignment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return WbsAssignment{}, false, nil
	}
	if err != nil {
		return WbsAssignment{}, false, entity.StoreError(err, "load wbs assignment", "")
	}
	return a, true, nil
}

// ListWbsAssignments returns the employee's live WBS assignments in the
// period, optionally limited to one project.
func (s *Store) ListWbsAssignments(ctx context.Context, periodID, employeeID, projectID string) ([]WbsAssignment, error) {
	query := "SELECT " + wbsAssignmentColumns + " FROM evaluation_wbs_assignments WHERE period_id = $1 AND employee_id = $2 AND deleted_at IS NULL"
	args := []any{periodID, employeeID}
	if projectID != "" {
		query += " AND project_id = $3"
		args = append(args, projectID)
	}
	query += " ORDER BY assigned_date, id"

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, entity.StoreError(err, "list wbs assignments", "")
	}
	defer rows.Close()

	var out []WbsAssignment
	for rows.Next() {
		a, err := scanWbsAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListUnassignedWbs returns the project's WBS items with no live assignment
// in the period. Assignments held by excluded targets do not count.
func (s *Store) ListUnassignedWbs(ctx context.Context, projectID, periodID, employeeID string) ([]directory.WbsItem, error) {
	query := `
    SELECT w.id, w.project_id, w.wbs_code, w.title, w.level, w.status, w.progress_percentage
    FROM wbs_items w
    WHERE w.project_id = $1 AND w.deleted_at IS NULL
      AND NOT EXISTS (
        SELECT 1
        FROM evaluation_wbs_assignments a
        JOIN evaluation_period_employee_mappings m
          ON m.period_id = a.period_id AND m.employee_id = a.employee_id
         AND m.deleted_at IS NULL AND m.is_excluded = $3
        WHERE a.wbs_item_id = w.id AND a.period_id = $2 AND a.deleted_at IS NULL`
	args := []any{projectID, periodID, false}
	if employeeID != "" {
		query += " AND a.employee_id = $4"
		args = append(args, employeeID)
	}
	query += `
      )
    ORDER BY w.wbs_code, w.id`

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, entity.StoreError(err, "list unassigned wbs", "")
	}
	defer rows.Close()

	out := []directory.WbsItem{}
	for rows.Next() {
		var item directory.WbsItem
		if err := rows.Scan(&item.ID, &item.ProjectID, &item.WbsCode, &item.Title, &item.Level, &item.Status, &item.ProgressPercentage); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (s *Store) CountActiveWbsUnderProject(ctx context.Context, periodID, employeeID, projectID string) (int, error) {
	var n int
	err := s.DB.QueryRowContext(ctx, `
    SELECT COUNT(1) FROM evaluation_wbs_assignments
    WHERE period_id = $1 AND employee_id = $2 AND project_id = $3 AND deleted_at IS NULL
  `, periodID, employeeID, projectID).Scan(&n)
	if err != nil {
		return 0, entity.StoreError(err, "count wbs assignments", "")
	}
	return n, nil
}

func (s *Store) SoftDelete(ctx context.Context, table, id, actor string, now time.Time) (bool, error) {
	ok, err := db.SoftDelete(ctx, s.DB, table, id, actor, now)
	if err != nil {
		return false, entity.StoreError(err, "delete "+table, "")
	}
	return ok, nil
}
