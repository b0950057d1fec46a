package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/GTD-web/ems-backend-sub025/internal/domain/apperr"
	"github.com/GTD-web/ems-backend-sub025/internal/platform/db"
)

type Store struct {
	DB db.DBTX
}

func NewStore(q db.DBTX) *Store {
	return &Store{DB: q}
}

const employeeColumns = `
    e.id, e.employee_number, e.name, e.email, COALESCE(e.department_id, ''), COALESCE(d.name, ''), e.position, e.status
  `

func scanEmployee(row interface{ Scan(...any) error }) (Employee, error) {
	var emp Employee
	err := row.Scan(&emp.ID, &emp.EmployeeNumber, &emp.Name, &emp.Email, &emp.DepartmentID, &emp.DepartmentName, &emp.Position, &emp.Status)
	return emp, err
}

func (s *Store) GetEmployee(ctx context.Context, id string) (Employee, error) {
	row := s.DB.QueryRowContext(ctx, `
    SELECT`+employeeColumns+`
    FROM employees e
    LEFT JOIN departments d ON d.id = e.department_id
    WHERE e.id = $1 AND e.deleted_at IS NULL
  `, id)
	emp, err := scanEmployee(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Employee{}, apperr.NotFound("EMPLOYEE_NOT_FOUND", "employee not found", "employeeId", id)
	}
	if err != nil {
		return Employee{}, fmt.Errorf("load employee: %w", err)
	}
	return emp, nil
}

func (s *Store) ListEmployees(ctx context.Context, ids []string) ([]Employee, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := s.DB.QueryContext(ctx, `
    SELECT`+employeeColumns+`
    FROM employees e
    LEFT JOIN departments d ON d.id = e.department_id
    WHERE e.deleted_at IS NULL AND e.id IN (`+db.Placeholders(1, len(ids))+`)
    ORDER BY e.employee_number
  `, args...)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}

func (s *Store) GetProject(ctx context.Context, id string) (Project, error) {
	var (
		project    Project
		start, end db.Timestamp
	)
	err := s.DB.QueryRowContext(ctx, `
    SELECT id, name, code, status, COALESCE(manager_id, ''), start_date, end_date
    FROM projects
    WHERE id = $1 AND deleted_at IS NULL
  `, id).Scan(&project.ID, &project.Name, &project.Code, &project.Status, &project.ManagerID, &start, &end)
	if errors.Is(err, sql.ErrNoRows) {
		return Project{}, apperr.NotFound("PROJECT_NOT_FOUND", "project not found", "projectId", id)
	}
	if err != nil {
		return Project{}, fmt.Errorf("load project: %w", err)
	}
	project.StartDate = start.Ptr()
	project.EndDate = end.Ptr()
	return project, nil
}

const wbsColumns = `id, project_id, wbs_code, title, level, status, start_date, end_date, progress_percentage`

func scanWbsItem(row interface{ Scan(...any) error }) (WbsItem, error) {
	var (
		item       WbsItem
		start, end db.Timestamp
	)
	if err := row.Scan(&item.ID, &item.ProjectID, &item.WbsCode, &item.Title, &item.Level, &item.Status, &start, &end, &item.ProgressPercentage); err != nil {
		return WbsItem{}, err
	}
	item.StartDate = start.Ptr()
	item.EndDate = end.Ptr()
	return item, nil
}

func (s *Store) GetWbsItem(ctx context.Context, id string) (WbsItem, error) {
	row := s.DB.QueryRowContext(ctx, "SELECT "+wbsColumns+" FROM wbs_items WHERE id = $1 AND deleted_at IS NULL", id)
	item, err := scanWbsItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return WbsItem{}, apperr.NotFound("WBS_ITEM_NOT_FOUND", "wbs item not found", "wbsItemId", id)
	}
	if err != nil {
		return WbsItem{}, fmt.Errorf("load wbs item: %w", err)
	}
	return item, nil
}

func (s *Store) ListWbsItemsByProject(ctx context.Context, projectID string) ([]WbsItem, error) {
	rows, err := s.DB.QueryContext(ctx, `
    SELECT `+wbsColumns+`
    FROM wbs_items
    WHERE project_id = $1 AND deleted_at IS NULL
    ORDER BY wbs_code, id
  `, projectID)
	if err != nil {
		return nil, fmt.Errorf("list wbs items: %w", err)
	}
	defer rows.Close()

	var out []WbsItem
	for rows.Next() {
		item, err := scanWbsItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// ListDeliverables returns active deliverables for the given WBS items,
// optionally limited to one employee's.
func (s *Store) ListDeliverables(ctx context.Context, wbsItemIDs []string, employeeID string) ([]Deliverable, error) {
	if len(wbsItemIDs) == 0 {
		return nil, nil
	}
	args := make([]any, 0, len(wbsItemIDs)+1)
	for _, id := range wbsItemIDs {
		args = append(args, id)
	}
	query := `
    SELECT id, wbs_item_id, COALESCE(employee_id, ''), name, description, type, file_path, is_active, created_at
    FROM deliverables
    WHERE deleted_at IS NULL AND is_active = $1 AND wbs_item_id IN (` + db.Placeholders(2, len(wbsItemIDs)) + `)`
	args = append([]any{true}, args...)
	if employeeID != "" {
		args = append(args, employeeID)
		query += fmt.Sprintf(" AND employee_id = $%d", len(args))
	}
	query += " ORDER BY created_at, id"

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list deliverables: %w", err)
	}
	defer rows.Close()

	var out []Deliverable
	for rows.Next() {
		var (
			d       Deliverable
			created db.Timestamp
		)
		if err := rows.Scan(&d.ID, &d.WbsItemID, &d.EmployeeID, &d.Name, &d.Description, &d.Type, &d.FilePath, &d.IsActive, &created); err != nil {
			return nil, err
		}
		d.CreatedAt = created.Time
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) GetQuestion(ctx context.Context, id string) (Question, error) {
	var (
		q                  Question
		minScore, maxScore sql.NullInt64
	)
	err := s.DB.QueryRowContext(ctx, `
    SELECT id, text, min_score, max_score
    FROM evaluation_questions
    WHERE id = $1 AND deleted_at IS NULL
  `, id).Scan(&q.ID, &q.Text, &minScore, &maxScore)
	if errors.Is(err, sql.ErrNoRows) {
		return Question{}, apperr.NotFound("QUESTION_NOT_FOUND", "evaluation question not found", "questionId", id)
	}
	if err != nil {
		return Question{}, fmt.Errorf("load question: %w", err)
	}
	q.MinScore = db.IntPtr(minScore)
	q.MaxScore = db.IntPtr(maxScore)
	return q, nil
}
