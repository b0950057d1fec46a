package evaluation

import (
	"context"
	"database/sql"
	"errors"

	"github.com/GTD-web/ems-backend-sub025/internal/domain/apperr"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/entity"
	"github.com/GTD-web/ems-backend-sub025/internal/platform/db"
)

const finalColumns = `
    id, period_id, employee_id, evaluation_grade, job_grade, job_detailed_grade, final_comments,
    is_confirmed, confirmed_by, confirmed_at, created_by, updated_by, created_at, updated_at, version
  `

func scanFinal(row scanner) (FinalEvaluation, error) {
	var (
		e                             FinalEvaluation
		confirmedBy                   sql.NullString
		confirmedAt, created, updated db.Timestamp
	)
	if err := row.Scan(&e.ID, &e.PeriodID, &e.EmployeeID, &e.EvaluationGrade, &e.JobGrade, &e.JobDetailedGrade, &e.FinalComments,
		&e.IsConfirmed, &confirmedBy, &confirmedAt, &e.CreatedBy, &e.UpdatedBy, &created, &updated, &e.Version); err != nil {
		return FinalEvaluation{}, err
	}
	e.ConfirmedBy = db.StringPtr(confirmedBy)
	e.ConfirmedAt = confirmedAt.Ptr()
	e.CreatedAt = created.Time
	e.UpdatedAt = updated.Time
	return e, nil
}

func (s *Store) InsertFinal(ctx context.Context, e FinalEvaluation) error {
	_, err := s.DB.ExecContext(ctx, `
    INSERT INTO final_evaluations (`+finalColumns+`)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
  `, e.ID, e.PeriodID, e.EmployeeID, e.EvaluationGrade, e.JobGrade, e.JobDetailedGrade, e.FinalComments,
		e.IsConfirmed, db.Nullable(e.ConfirmedBy), db.NullableTime(e.ConfirmedAt),
		e.CreatedBy, e.UpdatedBy, e.CreatedAt, e.UpdatedAt, e.Version)
	return entity.StoreError(err, "insert final evaluation", "CONCURRENT_MODIFICATION",
		"periodId", e.PeriodID, "employeeId", e.EmployeeID)
}

func (s *Store) GetFinal(ctx context.Context, id string) (FinalEvaluation, error) {
	row := s.DB.QueryRowContext(ctx, "SELECT "+finalColumns+" FROM final_evaluations WHERE id = $1 AND deleted_at IS NULL", id)
	e, err := scanFinal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return FinalEvaluation{}, apperr.NotFound("FINAL_EVALUATION_NOT_FOUND", "final evaluation not found", "evaluationId", id)
	}
	if err != nil {
		return FinalEvaluation{}, entity.StoreError(err, "load final evaluation", "")
	}
	return e, nil
}

func (s *Store) FindFinal(ctx context.Context, periodID, employeeID string) (FinalEvaluation, bool, error) {
	row := s.DB.QueryRowContext(ctx, `
    SELECT `+finalColumns+`
    FROM final_evaluations
    WHERE period_id = $1 AND employee_id = $2 AND deleted_at IS NULL
  `, periodID, employeeID)
	e, err := scanFinal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return FinalEvaluation{}, false, nil
	}
	if err != nil {
		return FinalEvaluation{}, false, entity.StoreError(err, "load final evaluation", "")
	}
	return e, true, nil
}

func (s *Store) UpdateFinal(ctx context.Context, e FinalEvaluation, expectedVersion int) error {
	err := db.ExpectOne(s.DB.ExecContext(ctx, `
    UPDATE final_evaluations
    SET evaluation_grade = $1, job_grade = $2, job_detailed_grade = $3, final_comments = $4,
        is_confirmed = $5, confirmed_by = $6, confirmed_at = $7, updated_by = $8, updated_at = $9, version = $10
    WHERE id = $11 AND version = $12 AND deleted_at IS NULL
  `, e.EvaluationGrade, e.JobGrade, e.JobDetailedGrade, e.FinalComments,
		e.IsConfirmed, db.Nullable(e.ConfirmedBy), db.NullableTime(e.ConfirmedAt),
		e.UpdatedBy, e.UpdatedAt, e.Version, e.ID, expectedVersion))
	return entity.StoreError(err, "update final evaluation", "", "evaluationId", e.ID)
}
