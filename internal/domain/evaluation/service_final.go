package evaluation

import (
	"context"
	"log/slog"

	"github.com/GTD-web/ems-backend-sub025/internal/domain/apperr"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/entity"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/period"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/target"
	"github.com/GTD-web/ems-backend-sub025/internal/platform/db"
)

// UpsertFinal writes the employee's final grades. A confirmed evaluation has
// to be un-confirmed before it can change.
func (s *Service) UpsertFinal(ctx context.Context, in FinalUpsertInput, actor string) (FinalEvaluation, error) {
	if err := in.Validate(); err != nil {
		return FinalEvaluation{}, err
	}
	var out FinalEvaluation
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := period.EnsureWritable(ctx, tx, in.PeriodID); err != nil {
			return err
		}
		if err := target.RequireActiveTarget(ctx, tx, in.PeriodID, in.EmployeeID); err != nil {
			return err
		}
		store := NewStore(tx)
		e, found, err := store.FindFinal(ctx, in.PeriodID, in.EmployeeID)
		if err != nil {
			return err
		}
		if !found {
			e = FinalEvaluation{
				Meta:       entity.NewMeta(actor, entity.Now()),
				PeriodID:   in.PeriodID,
				EmployeeID: in.EmployeeID,
			}
			e.merge(in)
			if err := e.missingGrades(); err != nil {
				return err
			}
			out = e
			return store.InsertFinal(ctx, e)
		}
		if e.IsConfirmed {
			return apperr.DomainPolicy("FINAL_EVALUATION_CONFIRMED", "cancel the confirmation before editing", "evaluationId", e.ID)
		}
		expected := e.Version
		e.merge(in)
		e.Touch(actor, entity.Now())
		out = e
		return store.UpdateFinal(ctx, e, expected)
	})
	if err != nil {
		return FinalEvaluation{}, err
	}
	return out, nil
}

// ConfirmFinal locks the grades. Confirmation is allowed after the period has
// been completed.
func (s *Service) ConfirmFinal(ctx context.Context, id, confirmedBy string) (FinalEvaluation, error) {
	return s.setConfirmation(ctx, id, confirmedBy, true)
}

// CancelFinalConfirmation reverses ConfirmFinal. Grades are left as they were.
func (s *Service) CancelFinalConfirmation(ctx context.Context, id, updatedBy string) (FinalEvaluation, error) {
	return s.setConfirmation(ctx, id, updatedBy, false)
}

func (s *Service) setConfirmation(ctx context.Context, id, actor string, confirm bool) (FinalEvaluation, error) {
	var v entity.Violations
	v.ID("evaluationId", id)
	v.Required("actor", actor)
	if err := v.Err(); err != nil {
		return FinalEvaluation{}, err
	}
	var out FinalEvaluation
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		store := NewStore(tx)
		e, err := store.GetFinal(ctx, id)
		if err != nil {
			return err
		}
		if _, err := period.Load(ctx, tx, e.PeriodID); err != nil {
			return err
		}
		if confirm && e.IsConfirmed {
			return apperr.DomainPolicy("ALREADY_CONFIRMED", "final evaluation is already confirmed", "evaluationId", id)
		}
		if !confirm && !e.IsConfirmed {
			return apperr.DomainPolicy("NOT_CONFIRMED", "final evaluation is not confirmed", "evaluationId", id)
		}

		expected := e.Version
		now := entity.Now()
		if confirm {
			by := actor
			e.IsConfirmed = true
			e.ConfirmedBy = &by
			e.ConfirmedAt = &now
		} else {
			e.IsConfirmed = false
			e.ConfirmedBy = nil
			e.ConfirmedAt = nil
		}
		e.Touch(actor, now)
		out = e
		return store.UpdateFinal(ctx, e, expected)
	})
	if err != nil {
		return FinalEvaluation{}, err
	}
	slog.Info("final evaluation confirmation changed", "evaluationId", id, "confirmed", confirm, "actor", actor)
	return out, nil
}

func (s *Service) GetFinal(ctx context.Context, id string) (FinalEvaluation, error) {
	if err := validateEvaluationID(id); err != nil {
		return FinalEvaluation{}, err
	}
	return NewStore(s.conn).GetFinal(ctx, id)
}
