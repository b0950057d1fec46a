package target

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/GTD-web/ems-backend-sub025/internal/domain/apperr"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/entity"
	"github.com/GTD-web/ems-backend-sub025/internal/platform/db"
)

type Store struct {
	DB db.DBTX
}

func NewStore(q db.DBTX) *Store {
	return &Store{DB: q}
}

const membershipColumns = `
    m.id, m.period_id, m.employee_id, m.is_excluded, m.exclude_reason, m.excluded_by, m.excluded_at,
    m.created_by, m.updated_by, m.created_at, m.updated_at, m.version
  `

func scanMembership(row interface{ Scan(...any) error }, extra ...any) (Membership, error) {
	var (
		m                            Membership
		reason, excludedBy           sql.NullString
		excludedAt, created, updated db.Timestamp
	)
	dest := []any{&m.ID, &m.PeriodID, &m.EmployeeID, &m.IsExcluded, &reason, &excludedBy, &excludedAt,
		&m.CreatedBy, &m.UpdatedBy, &created, &updated, &m.Version}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return Membership{}, err
	}
	m.ExcludeReason = db.StringPtr(reason)
	m.ExcludedBy = db.StringPtr(excludedBy)
	m.ExcludedAt = excludedAt.Ptr()
	m.CreatedAt = created.Time
	m.UpdatedAt = updated.Time
	return m, nil
}

func (s *Store) Insert(ctx context.Context, m Membership) error {
	_, err := s.DB.ExecContext(ctx, `
    INSERT INTO evaluation_period_employee_mappings
      (id, period_id, employee_id, is_excluded, exclude_reason, excluded_by, excluded_at,
       created_by, updated_by, created_at, updated_at, version)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
  `, m.ID, m.PeriodID, m.EmployeeID, m.IsExcluded, db.Nullable(m.ExcludeReason), db.Nullable(m.ExcludedBy),
		db.NullableTime(m.ExcludedAt), m.CreatedBy, m.UpdatedBy, m.CreatedAt, m.UpdatedAt, m.Version)
	return entity.StoreError(err, "insert membership", "TARGET_ALREADY_REGISTERED",
		"periodId", m.PeriodID, "employeeId", m.EmployeeID)
}

func (s *Store) Find(ctx context.Context, periodID, employeeID string) (Membership, bool, error) {
	row := s.DB.QueryRowContext(ctx, `
    SELECT`+membershipColumns+`
    FROM evaluation_period_employee_mappings m
    WHERE m.period_id = $1 AND m.employee_id = $2 AND m.deleted_at IS NULL
  `, periodID, employeeID)
	m, err := scanMembership(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Membership{}, false, nil
	}
	if err != nil {
		return Membership{}, false, entity.StoreError(err, "load membership", "")
	}
	return m, true, nil
}

func (s *Store) Update(ctx context.Context, m Membership, expectedVersion int) error {
	err := db.ExpectOne(s.DB.ExecContext(ctx, `
    UPDATE evaluation_period_employee_mappings
    SET is_excluded = $1, exclude_reason = $2, excluded_by = $3, excluded_at = $4,
        updated_by = $5, updated_at = $6, version = $7
    WHERE id = $8 AND version = $9 AND deleted_at IS NULL
  `, m.IsExcluded, db.Nullable(m.ExcludeReason), db.Nullable(m.ExcludedBy), db.NullableTime(m.ExcludedAt),
		m.UpdatedBy, m.UpdatedAt, m.Version, m.ID, expectedVersion))
	return entity.StoreError(err, "update membership", "", "membershipId", m.ID)
}

// List returns the period's memberships. excludedOnly wins over
// includeExcluded.
func (s *Store) List(ctx context.Context, periodID string, includeExcluded, excludedOnly bool) ([]Target, error) {
	query := `
    SELECT` + membershipColumns + `, e.name, e.employee_number, COALESCE(d.name, '')
    FROM evaluation_period_employee_mappings m
    JOIN employees e ON e.id = m.employee_id
    LEFT JOIN departments d ON d.id = e.department_id
    WHERE m.period_id = $1 AND m.deleted_at IS NULL`
	args := []any{periodID}
	switch {
	case excludedOnly:
		query += " AND m.is_excluded = $2"
		args = append(args, true)
	case !includeExcluded:
		query += " AND m.is_excluded = $2"
		args = append(args, false)
	}
	query += " ORDER BY e.employee_number"

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, entity.StoreError(err, "list targets", "")
	}
	defer rows.Close()

	var out []Target
	for rows.Next() {
		var t Target
		m, err := scanMembership(rows, &t.EmployeeName, &t.EmployeeNumber, &t.DepartmentName)
		if err != nil {
			return nil, err
		}
		t.Membership = m
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) SoftDelete(ctx context.Context, id, actor string, now time.Time) (bool, error) {
	ok, err := db.SoftDelete(ctx, s.DB, "evaluation_period_employee_mappings", id, actor, now)
	if err != nil {
		return false, entity.StoreError(err, "delete membership", "")
	}
	return ok, nil
}

// RequireActiveTarget rejects employees that are unregistered or excluded in
// the period.
func RequireActiveTarget(ctx context.Context, q db.DBTX, periodID, employeeID string) error {
	m, found, err := NewStore(q).Find(ctx, periodID, employeeID)
	if err != nil {
		return err
	}
	if !found || m.IsExcluded {
		return apperr.DomainPolicy("EMPLOYEE_NOT_EVALUATION_TARGET", "employee is not an active evaluation target",
			"periodId", periodID, "employeeId", employeeID)
	}
	return nil
}
