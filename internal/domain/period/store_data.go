package period

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

const periodColumns = `
    id, name, description, start_date, end_date, status,
    criteria_setting_enabled, self_evaluation_setting_enabled, final_evaluation_setting_enabled,
    max_self_evaluation_rate, created_by, updated_by, created_at, updated_at, version
  `

func scanPeriod(row interface{ Scan(...any) error }) (Period, error) {
	var (
		p                                Period
		start, end, createdAt, updatedAt db.Timestamp
	)
	err := row.Scan(&p.ID, &p.Name, &p.Description, &start, &end, &p.Status,
		&p.CriteriaSettingEnabled, &p.SelfEvaluationSettingEnabled, &p.FinalEvaluationSettingEnabled,
		&p.MaxSelfEvaluationRate, &p.CreatedBy, &p.UpdatedBy, &createdAt, &updatedAt, &p.Version)
	if err != nil {
		return Period{}, err
	}
	p.StartDate = start.Time
	p.EndDate = end.Time
	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time
	return p, nil
}

func (s *Store) Insert(ctx context.Context, p Period) error {
	_, err := s.DB.ExecContext(ctx, `
    INSERT INTO evaluation_periods (`+periodColumns+`)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
  `, p.ID, p.Name, p.Description, p.StartDate, p.EndDate, p.Status,
		p.CriteriaSettingEnabled, p.SelfEvaluationSettingEnabled, p.FinalEvaluationSettingEnabled,
		p.MaxSelfEvaluationRate, p.CreatedBy, p.UpdatedBy, p.CreatedAt, p.UpdatedAt, p.Version)
	return entity.StoreError(err, "insert period", "PERIOD_NAME_TAKEN", "name", p.Name)
}

func (s *Store) Get(ctx context.Context, id string) (Period, error) {
	row := s.DB.QueryRowContext(ctx, "SELECT "+periodColumns+" FROM evaluation_periods WHERE id = $1 AND deleted_at IS NULL", id)
	p, err := scanPeriod(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Period{}, apperr.NotFound("PERIOD_NOT_FOUND", "evaluation period not found", "periodId", id)
	}
	if err != nil {
		return Period{}, entity.StoreError(err, "load period", "")
	}
	return p, nil
}

func (s *Store) List(ctx context.Context) ([]Period, error) {
	rows, err := s.DB.QueryContext(ctx, "SELECT "+periodColumns+" FROM evaluation_periods WHERE deleted_at IS NULL ORDER BY start_date DESC, name")
	if err != nil {
		return nil, entity.StoreError(err, "list periods", "")
	}
	defer rows.Close()

	var out []Period
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) NameTaken(ctx context.Context, name, exceptID string) (bool, error) {
	var count int
	err := s.DB.QueryRowContext(ctx, `
    SELECT COUNT(1) FROM evaluation_periods
    WHERE name = $1 AND id <> $2 AND deleted_at IS NULL
  `, name, exceptID).Scan(&count)
	if err != nil {
		return false, entity.StoreError(err, "check period name", "")
	}
	return count > 0, nil
}

// Update writes p if the stored version still equals expectedVersion.
func (s *Store) Update(ctx context.Context, p Period, expectedVersion int) error {
	err := db.ExpectOne(s.DB.ExecContext(ctx, `
    UPDATE evaluation_periods
    SET name = $1, description = $2, start_date = $3, end_date = $4, status = $5,
        criteria_setting_enabled = $6, self_evaluation_setting_enabled = $7, final_evaluation_setting_enabled = $8,
        max_self_evaluation_rate = $9, updated_by = $10, updated_at = $11, version = $12
    WHERE id = $13 AND version = $14 AND deleted_at IS NULL
  `, p.Name, p.Description, p.StartDate, p.EndDate, p.Status,
		p.CriteriaSettingEnabled, p.SelfEvaluationSettingEnabled, p.FinalEvaluationSettingEnabled,
		p.MaxSelfEvaluationRate, p.UpdatedBy, p.UpdatedAt, p.Version, p.ID, expectedVersion))
	return entity.StoreError(err, "update period", "PERIOD_NAME_TAKEN", "periodId", p.ID)
}

func (s *Store) SoftDelete(ctx context.Context, id, actor string, now time.Time) (bool, error) {
	ok, err := db.SoftDelete(ctx, s.DB, "evaluation_periods", id, actor, now)
	if err != nil {
		return false, entity.StoreError(err, "delete period", "")
	}
	return ok, nil
}

// Load returns the live period or NotFound.
func Load(ctx context.Context, q db.DBTX, id string) (Period, error) {
	return NewStore(q).Get(ctx, id)
}

// EnsureWritable loads the period and rejects writes against a completed one.
func EnsureWritable(ctx context.Context, q db.DBTX, id string) (Period, error) {
	p, err := Load(ctx, q, id)
	if err != nil {
		return Period{}, err
	}
	if p.IsCompleted() {
		return Period{}, apperr.DomainPolicy("PERIOD_COMPLETED", "evaluation period is completed", "periodId", id)
	}
	return p, nil
}
