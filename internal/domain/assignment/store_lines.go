package assignment

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/GTD-web/ems-backend-sub025/internal/domain/entity"
	"github.com/GTD-web/ems-backend-sub025/internal/platform/db"
)

func (s *Store) FindLine(ctx context.Context, role string) (Line, bool, error) {
	var (
		l                Line
		created, updated db.Timestamp
	)
	err := s.DB.QueryRowContext(ctx, `
    SELECT id, evaluator_type, line_order, is_required, is_auto_assigned, created_by, updated_by, created_at, updated_at, version
    FROM evaluation_lines
    WHERE evaluator_type = $1 AND deleted_at IS NULL
  `, role).Scan(&l.ID, &l.EvaluatorType, &l.Order, &l.IsRequired, &l.IsAutoAssigned,
		&l.CreatedBy, &l.UpdatedBy, &created, &updated, &l.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return Line{}, false, nil
	}
	if err != nil {
		return Line{}, false, entity.StoreError(err, "load evaluation line", "")
	}
	l.CreatedAt = created.Time
	l.UpdatedAt = updated.Time
	return l, true, nil
}

func (s *Store) InsertLine(ctx context.Context, l Line) error {
	_, err := s.DB.ExecContext(ctx, `
    INSERT INTO evaluation_lines
      (id, evaluator_type, line_order, is_required, is_auto_assigned, created_by, updated_by, created_at, updated_at, version)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
  `, l.ID, l.EvaluatorType, l.Order, l.IsRequired, l.IsAutoAssigned, l.CreatedBy, l.UpdatedBy, l.CreatedAt, l.UpdatedAt, l.Version)
	return entity.StoreError(err, "insert evaluation line", "CONCURRENT_MODIFICATION", "evaluatorType", l.EvaluatorType)
}

const mappingColumns = `
    m.id, m.employee_id, m.wbs_item_id, m.evaluation_line_id, l.evaluator_type, m.evaluator_id,
    m.created_by, m.updated_by, m.created_at, m.updated_at, m.version
  `

const mappingFrom = `
    FROM evaluation_line_mappings m
    JOIN evaluation_lines l ON l.id = m.evaluation_line_id
  `

func scanMapping(row scanner) (LineMapping, error) {
	var (
		m                LineMapping
		evaluator        sql.NullString
		created, updated db.Timestamp
	)
	if err := row.Scan(&m.ID, &m.EmployeeID, &m.WbsItemID, &m.EvaluationLineID, &m.EvaluatorType, &evaluator,
		&m.CreatedBy, &m.UpdatedBy, &created, &updated, &m.Version); err != nil {
		return LineMapping{}, err
	}
	m.EvaluatorID = db.StringPtr(evaluator)
	m.CreatedAt = created.Time
	m.UpdatedAt = updated.Time
	return m, nil
}

func (s *Store) FindMapping(ctx context.Context, employeeID, wbsItemID, lineID string) (LineMapping, bool, error) {
	row := s.DB.QueryRowContext(ctx, `
    SELECT`+mappingColumns+mappingFrom+`
    WHERE m.employee_id = $1 AND m.wbs_item_id = $2 AND m.evaluation_line_id = $3 AND m.deleted_at IS NULL
  `, employeeID, wbsItemID, lineID)
	m, err := scanMapping(row)
	if errors.Is(err, sql.ErrNoRows) {
		return LineMapping{}, false, nil
	}
	if err != nil {
		return LineMapping{}, false, entity.StoreError(err, "load line mapping", "")
	}
	return m, true, nil
}

func (s *Store) InsertMapping(ctx context.Context, m LineMapping) error {
	_, err := s.DB.ExecContext(ctx, `
    INSERT INTO evaluation_line_mappings
      (id, employee_id, wbs_item_id, evaluation_line_id, evaluator_id, created_by, updated_by, created_at, updated_at, version)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
  `, m.ID, m.EmployeeID, m.WbsItemID, m.EvaluationLineID, db.Nullable(m.EvaluatorID),
		m.CreatedBy, m.UpdatedBy, m.CreatedAt, m.UpdatedAt, m.Version)
	return entity.StoreError(err, "insert line mapping", "CONCURRENT_MODIFICATION",
		"employeeId", m.EmployeeID, "wbsItemId", m.WbsItemID)
}

// SetMappingEvaluator rebinds the evaluator in place. Concurrent writers are
// not rejected; the last one wins and every write bumps the version.
func (s *Store) SetMappingEvaluator(ctx context.Context, id, evaluatorID, actor string, now time.Time) error {
	err := db.ExpectOne(s.DB.ExecContext(ctx, `
    UPDATE evaluation_line_mappings
    SET evaluator_id = $1, updated_by = $2, updated_at = $3, version = version + 1
    WHERE id = $4 AND deleted_at IS NULL
  `, evaluatorID, actor, now, id))
	return entity.StoreError(err, "update line mapping", "", "mappingId", id)
}

func (s *Store) ListMappings(ctx context.Context, employeeID, wbsItemID, evaluatorID string) ([]LineMapping, error) {
	query := "SELECT" + mappingColumns + mappingFrom + " WHERE m.deleted_at IS NULL"
	var args []any
	add := func(clause, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		query += " AND " + clause + " = " + db.Placeholders(len(args), 1)
	}
	add("m.employee_id", employeeID)
	add("m.wbs_item_id", wbsItemID)
	add("m.evaluator_id", evaluatorID)
	query += " ORDER BY m.employee_id, m.wbs_item_id, l.line_order"

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, entity.StoreError(err, "list line mappings", "")
	}
	defer rows.Close()

	var out []LineMapping
	for rows.Next() {
		m, err := scanMapping(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
