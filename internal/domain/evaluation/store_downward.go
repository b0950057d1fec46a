package evaluation

import (
	"context"
	"database/sql"
	"errors"

	"github.com/GTD-web/ems-backend-sub025/internal/domain/apperr"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/entity"
	"github.com/GTD-web/ems-backend-sub025/internal/platform/db"
)

const downwardColumns = `
    id, period_id, employee_id, evaluator_id, wbs_id, evaluation_type,
    downward_evaluation_content, downward_evaluation_score, is_completed, completed_at,
    created_by, updated_by, created_at, updated_at, version
  `

func scanDownward(row scanner) (DownwardEvaluation, error) {
	var (
		e                             DownwardEvaluation
		score                         sql.NullInt64
		completedAt, created, updated db.Timestamp
	)
	if err := row.Scan(&e.ID, &e.PeriodID, &e.EmployeeID, &e.EvaluatorID, &e.WbsID, &e.EvaluationType,
		&e.Content, &score, &e.IsCompleted, &completedAt,
		&e.CreatedBy, &e.UpdatedBy, &created, &updated, &e.Version); err != nil {
		return DownwardEvaluation{}, err
	}
	e.Score = db.IntPtr(score)
	e.CompletedAt = completedAt.Ptr()
	e.CreatedAt = created.Time
	e.UpdatedAt = updated.Time
	return e, nil
}

func (s *Store) InsertDownward(ctx context.Context, e DownwardEvaluation) error {
	_, err := s.DB.ExecContext(ctx, `
    INSERT INTO downward_evaluations (`+downwardColumns+`)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
  `, e.ID, e.PeriodID, e.EmployeeID, e.EvaluatorID, e.WbsID, e.EvaluationType,
		e.Content, db.Nullable(e.Score), e.IsCompleted, db.NullableTime(e.CompletedAt),
		e.CreatedBy, e.UpdatedBy, e.CreatedAt, e.UpdatedAt, e.Version)
	return entity.StoreError(err, "insert downward evaluation", "CONCURRENT_MODIFICATION",
		"periodId", e.PeriodID, "employeeId", e.EmployeeID, "wbsId", e.WbsID, "evaluationType", e.EvaluationType)
}

func (s *Store) GetDownward(ctx context.Context, id string) (DownwardEvaluation, error) {
	row := s.DB.QueryRowContext(ctx, "SELECT "+downwardColumns+" FROM downward_evaluations WHERE id = $1 AND deleted_at IS NULL", id)
	e, err := scanDownward(row)
	if errors.Is(err, sql.ErrNoRows) {
		return DownwardEvaluation{}, apperr.NotFound("DOWNWARD_EVALUATION_NOT_FOUND", "downward evaluation not found", "evaluationId", id)
	}
	if err != nil {
		return DownwardEvaluation{}, entity.StoreError(err, "load downward evaluation", "")
	}
	return e, nil
}

func (s *Store) FindDownward(ctx context.Context, periodID, employeeID, evaluatorID, wbsID, evaluationType string) (DownwardEvaluation, bool, error) {
	row := s.DB.QueryRowContext(ctx, `
    SELECT `+downwardColumns+`
    FROM downward_evaluations
    WHERE period_id = $1 AND employee_id = $2 AND evaluator_id = $3 AND wbs_id = $4 AND evaluation_type = $5
      AND deleted_at IS NULL
  `, periodID, employeeID, evaluatorID, wbsID, evaluationType)
	e, err := scanDownward(row)
	if errors.Is(err, sql.ErrNoRows) {
		return DownwardEvaluation{}, false, nil
	}
	if err != nil {
		return DownwardEvaluation{}, false, entity.StoreError(err, "load downward evaluation", "")
	}
	return e, true, nil
}

// ListDownward returns the evaluations written about employeeID in the period.
func (s *Store) ListDownward(ctx context.Context, periodID, employeeID string) ([]DownwardEvaluation, error) {
	rows, err := s.DB.QueryContext(ctx, `
    SELECT `+downwardColumns+`
    FROM downward_evaluations
    WHERE period_id = $1 AND employee_id = $2 AND deleted_at IS NULL
    ORDER BY wbs_id, evaluation_type, created_at
  `, periodID, employeeID)
	if err != nil {
		return nil, entity.StoreError(err, "list downward evaluations", "")
	}
	defer rows.Close()

	var out []DownwardEvaluation
	for rows.Next() {
		e, err := scanDownward(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) UpdateDownward(ctx context.Context, e DownwardEvaluation, expectedVersion int) error {
	err := db.ExpectOne(s.DB.ExecContext(ctx, `
    UPDATE downward_evaluations
    SET downward_evaluation_content = $1, downward_evaluation_score = $2, is_completed = $3, completed_at = $4,
        updated_by = $5, updated_at = $6, version = $7
    WHERE id = $8 AND version = $9 AND deleted_at IS NULL
  `, e.Content, db.Nullable(e.Score), e.IsCompleted, db.NullableTime(e.CompletedAt),
		e.UpdatedBy, e.UpdatedAt, e.Version, e.ID, expectedVersion))
	return entity.StoreError(err, "update downward evaluation", "", "evaluationId", e.ID)
}
