package evaluation

import (
	"context"
	"database/sql"
	"errors"

	"github.com/GTD-web/ems-backend-sub025/internal/domain/apperr"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/entity"
	"github.com/GTD-web/ems-backend-sub025/internal/platform/db"
)

const selfColumns = `
    id, period_id, employee_id, wbs_item_id, self_evaluation_content, self_evaluation_score, performance_result,
    submitted_to_evaluator, submitted_to_evaluator_at, submitted_to_manager, submitted_to_manager_at,
    is_completed, completed_at, created_by, updated_by, created_at, updated_at, version
  `

func scanSelf(row scanner) (SelfEvaluation, error) {
	var (
		e                                       SelfEvaluation
		score                                   sql.NullInt64
		toEvaluatorAt, toManagerAt, completedAt db.Timestamp
		created, updated                        db.Timestamp
	)
	if err := row.Scan(&e.ID, &e.PeriodID, &e.EmployeeID, &e.WbsItemID, &e.Content, &score, &e.PerformanceResult,
		&e.SubmittedToEvaluator, &toEvaluatorAt, &e.SubmittedToManager, &toManagerAt,
		&e.IsCompleted, &completedAt, &e.CreatedBy, &e.UpdatedBy, &created, &updated, &e.Version); err != nil {
		return SelfEvaluation{}, err
	}
	e.Score = db.IntPtr(score)
	e.SubmittedToEvaluatorAt = toEvaluatorAt.Ptr()
	e.SubmittedToManagerAt = toManagerAt.Ptr()
	e.CompletedAt = completedAt.Ptr()
	e.CreatedAt = created.Time
	e.UpdatedAt = updated.Time
	return e, nil
}

func (s *Store) InsertSelf(ctx context.Context, e SelfEvaluation) error {
	_, err := s.DB.ExecContext(ctx, `
    INSERT INTO wbs_self_evaluations (`+selfColumns+`)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
  `, e.ID, e.PeriodID, e.EmployeeID, e.WbsItemID, e.Content, db.Nullable(e.Score), e.PerformanceResult,
		e.SubmittedToEvaluator, db.NullableTime(e.SubmittedToEvaluatorAt), e.SubmittedToManager, db.NullableTime(e.SubmittedToManagerAt),
		e.IsCompleted, db.NullableTime(e.CompletedAt), e.CreatedBy, e.UpdatedBy, e.CreatedAt, e.UpdatedAt, e.Version)
	return entity.StoreError(err, "insert self evaluation", "CONCURRENT_MODIFICATION",
		"periodId", e.PeriodID, "employeeId", e.EmployeeID, "wbsItemId", e.WbsItemID)
}

func (s *Store) GetSelf(ctx context.Context, id string) (SelfEvaluation, error) {
	row := s.DB.QueryRowContext(ctx, "SELECT "+selfColumns+" FROM wbs_self_evaluations WHERE id = $1 AND deleted_at IS NULL", id)
	e, err := scanSelf(row)
	if errors.Is(err, sql.ErrNoRows) {
		return SelfEvaluation{}, apperr.NotFound("SELF_EVALUATION_NOT_FOUND", "self evaluation not found", "evaluationId", id)
	}
	if err != nil {
		return SelfEvaluation{}, entity.StoreError(err, "load self evaluation", "")
	}
	return e, nil
}

func (s *Store) FindSelf(ctx context.Context, periodID, employeeID, wbsItemID string) (SelfEvaluation, bool, error) {
	row := s.DB.QueryRowContext(ctx, `
    SELECT `+selfColumns+`
    FROM wbs_self_evaluations
    WHERE period_id = $1 AND employee_id = $2 AND wbs_item_id = $3 AND deleted_at IS NULL
  `, periodID, employeeID, wbsItemID)
	e, err := scanSelf(row)
	if errors.Is(err, sql.ErrNoRows) {
		return SelfEvaluation{}, false, nil
	}
	if err != nil {
		return SelfEvaluation{}, false, entity.StoreError(err, "load self evaluation", "")
	}
	return e, true, nil
}

func (s *Store) ListSelf(ctx context.Context, periodID, employeeID string) ([]SelfEvaluation, error) {
	return s.listSelf(ctx, `
    SELECT `+selfColumns+`
    FROM wbs_self_evaluations
    WHERE period_id = $1 AND employee_id = $2 AND deleted_at IS NULL
    ORDER BY created_at, id
  `, periodID, employeeID)
}

// ListAssignedSelf is ListSelf limited to records whose WBS assignment is
// still live. Records left behind by a cancelled assignment are skipped.
func (s *Store) ListAssignedSelf(ctx context.Context, periodID, employeeID string) ([]SelfEvaluation, error) {
	return s.listSelf(ctx, `
    SELECT `+selfColumns+`
    FROM wbs_self_evaluations e
    WHERE e.period_id = $1 AND e.employee_id = $2 AND e.deleted_at IS NULL
      AND EXISTS (
        SELECT 1 FROM evaluation_wbs_assignments a
        WHERE a.period_id = e.period_id AND a.employee_id = e.employee_id
          AND a.wbs_item_id = e.wbs_item_id AND a.deleted_at IS NULL
      )
    ORDER BY e.created_at, e.id
  `, periodID, employeeID)
}

func (s *Store) listSelf(ctx context.Context, query string, args ...any) ([]SelfEvaluation, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, entity.StoreError(err, "list self evaluations", "")
	}
	defer rows.Close()

	var out []SelfEvaluation
	for rows.Next() {
		e, err := scanSelf(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) UpdateSelf(ctx context.Context, e SelfEvaluation, expectedVersion int) error {
	err := db.ExpectOne(s.DB.ExecContext(ctx, `
    UPDATE wbs_self_evaluations
    SET self_evaluation_content = $1, self_evaluation_score = $2, performance_result = $3,
        submitted_to_evaluator = $4, submitted_to_evaluator_at = $5,
        submitted_to_manager = $6, submitted_to_manager_at = $7,
        is_completed = $8, completed_at = $9, updated_by = $10, updated_at = $11, version = $12
    WHERE id = $13 AND version = $14 AND deleted_at IS NULL
  `, e.Content, db.Nullable(e.Score), e.PerformanceResult,
		e.SubmittedToEvaluator, db.NullableTime(e.SubmittedToEvaluatorAt),
		e.SubmittedToManager, db.NullableTime(e.SubmittedToManagerAt),
		e.IsCompleted, db.NullableTime(e.CompletedAt), e.UpdatedBy, e.UpdatedAt, e.Version, e.ID, expectedVersion))
	return entity.StoreError(err, "update self evaluation", "", "evaluationId", e.ID)
}
