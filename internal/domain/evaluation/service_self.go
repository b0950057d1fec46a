package evaluation

import (
	"context"
	"log/slog"
	"time"

	"github.com/GTD-web/ems-backend-sub025/internal/domain/apperr"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/assignment"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/entity"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/period"
	"github.com/GTD-web/ems-backend-sub025/internal/platform/db"
)

// UpsertSelf writes self-evaluation content for an assigned WBS item. Content
// is frozen once the record has been submitted to the evaluator.
func (s *Service) UpsertSelf(ctx context.Context, in SelfUpsertInput, actor string) (SelfEvaluation, error) {
	if err := in.Validate(); err != nil {
		return SelfEvaluation{}, err
	}
	var out SelfEvaluation
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		p, err := period.EnsureWritable(ctx, tx, in.PeriodID)
		if err != nil {
			return err
		}
		if err := scoreInRange("selfEvaluationScore", in.Score, p.MaxSelfEvaluationRate); err != nil {
			return err
		}
		if _, err := assignment.FindActiveWbsAssignment(ctx, tx, in.PeriodID, in.EmployeeID, in.WbsItemID); err != nil {
			return err
		}

		store := NewStore(tx)
		e, found, err := store.FindSelf(ctx, in.PeriodID, in.EmployeeID, in.WbsItemID)
		if err != nil {
			return err
		}
		if !found {
			e = SelfEvaluation{
				Meta:       entity.NewMeta(actor, entity.Now()),
				PeriodID:   in.PeriodID,
				EmployeeID: in.EmployeeID,
				WbsItemID:  in.WbsItemID,
			}
			e.merge(in)
			out = e
			return store.InsertSelf(ctx, e)
		}
		if e.SubmittedToEvaluator {
			return apperr.DomainPolicy("SELF_EVALUATION_SUBMITTED", "self evaluation was already submitted to the evaluator",
				"evaluationId", e.ID)
		}
		expected := e.Version
		e.merge(in)
		e.Touch(actor, entity.Now())
		out = e
		return store.UpdateSelf(ctx, e, expected)
	})
	if err != nil {
		return SelfEvaluation{}, err
	}
	return out, nil
}

func submitSelfToEvaluator(e *SelfEvaluation, maxScore int, actor string, now time.Time) error {
	if e.SubmittedToEvaluator {
		return apperr.Conflict("ALREADY_SUBMITTED_TO_EVALUATOR", "self evaluation was already submitted to the evaluator",
			"evaluationId", e.ID)
	}
	var v entity.Violations
	v.Required("selfEvaluationContent", e.Content)
	if e.Score == nil {
		v.Add("selfEvaluationScore", "is required")
	}
	v.IntRange("selfEvaluationScore", e.Score, MinScore, maxScore)
	if err := v.Err(); err != nil {
		return err
	}
	e.SubmittedToEvaluator = true
	e.SubmittedToEvaluatorAt = &now
	e.Touch(actor, now)
	return nil
}

func (s *Service) SubmitSelfToEvaluator(ctx context.Context, id, actor string) (SelfEvaluation, error) {
	if err := validateEvaluationID(id); err != nil {
		return SelfEvaluation{}, err
	}
	var out SelfEvaluation
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		store := NewStore(tx)
		e, err := store.GetSelf(ctx, id)
		if err != nil {
			return err
		}
		p, err := period.EnsureWritable(ctx, tx, e.PeriodID)
		if err != nil {
			return err
		}
		expected := e.Version
		if err := submitSelfToEvaluator(&e, p.MaxSelfEvaluationRate, actor, entity.Now()); err != nil {
			return err
		}
		out = e
		return store.UpdateSelf(ctx, e, expected)
	})
	if err != nil {
		return SelfEvaluation{}, err
	}
	slog.Info("self evaluation submitted to evaluator", "evaluationId", id, "employeeId", out.EmployeeID)
	return out, nil
}

// SubmitAllSelfToEvaluator submits every pending self evaluation of the
// employee in the period, or none of them. Only records on live WBS
// assignments take part.
func (s *Service) SubmitAllSelfToEvaluator(ctx context.Context, periodID, employeeID, actor string) ([]SelfEvaluation, error) {
	var v entity.Violations
	v.ID("periodId", periodID)
	v.ID("employeeId", employeeID)
	if err := v.Err(); err != nil {
		return nil, err
	}
	out := []SelfEvaluation{}
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		p, err := period.EnsureWritable(ctx, tx, periodID)
		if err != nil {
			return err
		}
		store := NewStore(tx)
		records, err := store.ListAssignedSelf(ctx, periodID, employeeID)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return apperr.NotFound("SELF_EVALUATION_NOT_FOUND", "employee has no self evaluations in the period",
				"periodId", periodID, "employeeId", employeeID)
		}
		now := entity.Now()
		for _, e := range records {
			if e.SubmittedToEvaluator {
				continue
			}
			expected := e.Version
			if err := submitSelfToEvaluator(&e, p.MaxSelfEvaluationRate, actor, now); err != nil {
				return err
			}
			if err := store.UpdateSelf(ctx, e, expected); err != nil {
				return err
			}
			out = append(out, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.Info("self evaluations submitted to evaluator", "periodId", periodID, "employeeId", employeeID, "count", len(out))
	return out, nil
}

// SubmitSelfToManager is only possible after the evaluator submission and
// completes the record.
func (s *Service) SubmitSelfToManager(ctx context.Context, id, actor string) (SelfEvaluation, error) {
	if err := validateEvaluationID(id); err != nil {
		return SelfEvaluation{}, err
	}
	var out SelfEvaluation
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		store := NewStore(tx)
		e, err := store.GetSelf(ctx, id)
		if err != nil {
			return err
		}
		if _, err := period.EnsureWritable(ctx, tx, e.PeriodID); err != nil {
			return err
		}
		if !e.SubmittedToEvaluator {
			return apperr.DomainPolicy("NOT_SUBMITTED_TO_EVALUATOR", "self evaluation must be submitted to the evaluator first",
				"evaluationId", id)
		}
		if e.SubmittedToManager {
			return apperr.Conflict("ALREADY_SUBMITTED_TO_MANAGER", "self evaluation was already submitted to the manager",
				"evaluationId", id)
		}
		expected := e.Version
		now := entity.Now()
		e.SubmittedToManager = true
		e.SubmittedToManagerAt = &now
		e.IsCompleted = true
		e.CompletedAt = &now
		e.Touch(actor, now)
		out = e
		return store.UpdateSelf(ctx, e, expected)
	})
	if err != nil {
		return SelfEvaluation{}, err
	}
	slog.Info("self evaluation submitted to manager", "evaluationId", id, "employeeId", out.EmployeeID)
	return out, nil
}

func (s *Service) DeleteSelf(ctx context.Context, id, actor string) error {
	if err := validateEvaluationID(id); err != nil {
		return err
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		store := NewStore(tx)
		e, err := store.GetSelf(ctx, id)
		if err != nil {
			return err
		}
		if _, err := period.EnsureWritable(ctx, tx, e.PeriodID); err != nil {
			return err
		}
		if _, err := store.SoftDelete(ctx, tableSelf, id, actor, entity.Now()); err != nil {
			return err
		}
		slog.Info("self evaluation deleted", "evaluationId", id)
		return nil
	})
}

func (s *Service) GetSelf(ctx context.Context, id string) (SelfEvaluation, error) {
	if err := validateEvaluationID(id); err != nil {
		return SelfEvaluation{}, err
	}
	return NewStore(s.conn).GetSelf(ctx, id)
}

func (s *Service) ListSelf(ctx context.Context, periodID, employeeID string) ([]SelfEvaluation, error) {
	var v entity.Violations
	v.ID("periodId", periodID)
	v.ID("employeeId", employeeID)
	if err := v.Err(); err != nil {
		return nil, err
	}
	return NewStore(s.conn).ListSelf(ctx, periodID, employeeID)
}
