package criteria

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

const criteriaColumns = "id, wbs_item_id, criteria, importance, created_by, updated_by, created_at, updated_at, version"

func scanCriteria(row interface{ Scan(...any) error }) (Criteria, error) {
	var (
		c                Criteria
		created, updated db.Timestamp
	)
	if err := row.Scan(&c.ID, &c.WbsItemID, &c.Criteria, &c.Importance,
		&c.CreatedBy, &c.UpdatedBy, &created, &updated, &c.Version); err != nil {
		return Criteria{}, err
	}
	c.CreatedAt = created.Time
	c.UpdatedAt = updated.Time
	return c, nil
}

func (s *Store) Insert(ctx context.Context, c Criteria) error {
	_, err := s.DB.ExecContext(ctx, `
    INSERT INTO wbs_evaluation_criteria (`+criteriaColumns+`)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
  `, c.ID, c.WbsItemID, c.Criteria, c.Importance, c.CreatedBy, c.UpdatedBy, c.CreatedAt, c.UpdatedAt, c.Version)
	return entity.StoreError(err, "insert criteria", "", "wbsItemId", c.WbsItemID)
}

func (s *Store) Get(ctx context.Context, id string) (Criteria, error) {
	row := s.DB.QueryRowContext(ctx, "SELECT "+criteriaColumns+" FROM wbs_evaluation_criteria WHERE id = $1 AND deleted_at IS NULL", id)
	c, err := scanCriteria(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Criteria{}, apperr.NotFound("CRITERIA_NOT_FOUND", "evaluation criteria not found", "criteriaId", id)
	}
	if err != nil {
		return Criteria{}, entity.StoreError(err, "load criteria", "")
	}
	return c, nil
}

// ListByWbsItems returns the live criteria of the given items, grouped by item.
func (s *Store) ListByWbsItems(ctx context.Context, wbsItemIDs []string) ([]Criteria, error) {
	if len(wbsItemIDs) == 0 {
		return nil, nil
	}
	args := make([]any, len(wbsItemIDs))
	for i, id := range wbsItemIDs {
		args[i] = id
	}
	rows, err := s.DB.QueryContext(ctx, `
    SELECT `+criteriaColumns+`
    FROM wbs_evaluation_criteria
    WHERE wbs_item_id IN (`+db.Placeholders(1, len(args))+`) AND deleted_at IS NULL
    ORDER BY wbs_item_id, importance DESC, created_at, id
  `, args...)
	if err != nil {
		return nil, entity.StoreError(err, "list criteria", "")
	}
	defer rows.Close()

	var out []Criteria
	for rows.Next() {
		c, err := scanCriteria(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) Update(ctx context.Context, c Criteria, expectedVersion int) error {
	err := db.ExpectOne(s.DB.ExecContext(ctx, `
    UPDATE wbs_evaluation_criteria
    SET criteria = $1, importance = $2, updated_by = $3, updated_at = $4, version = $5
    WHERE id = $6 AND version = $7 AND deleted_at IS NULL
  `, c.Criteria, c.Importance, c.UpdatedBy, c.UpdatedAt, c.Version, c.ID, expectedVersion))
	return entity.StoreError(err, "update criteria", "", "criteriaId", c.ID)
}

func (s *Store) SoftDelete(ctx context.Context, id, actor string, now time.Time) (bool, error) {
	ok, err := db.SoftDelete(ctx, s.DB, "wbs_evaluation_criteria", id, actor, now)
	if err != nil {
		return false, entity.StoreError(err, "delete criteria", "")
	}
	return ok, nil
}
