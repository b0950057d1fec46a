package evaluation

import (
	"context"
	"log/slog"

	"github.com/GTD-web/ems-backend-sub025/internal/domain/apperr"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/assignment"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/entity"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/period"
	"github.com/GTD-web/ems-backend-sub025/internal/platform/db"
)

// UpsertDownward writes an evaluator's assessment of one WBS item. Only the
// evaluator bound to the matching evaluation line may write it.
func (s *Service) UpsertDownward(ctx context.Context, in DownwardUpsertInput, actor string) (DownwardEvaluation, error) {
	if err := in.Validate(); err != nil {
		return DownwardEvaluation{}, err
	}
	var out DownwardEvaluation
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		p, err := period.EnsureWritable(ctx, tx, in.PeriodID)
		if err != nil {
			return err
		}
		if err := scoreInRange("downwardEvaluationScore", in.Score, p.MaxSelfEvaluationRate); err != nil {
			return err
		}
		if _, err := assignment.FindActiveWbsAssignment(ctx, tx, in.PeriodID, in.EvaluateeID, in.WbsID); err != nil {
			return err
		}
		if err := assignment.RequireEvaluator(ctx, tx, in.EvaluateeID, in.WbsID, in.EvaluationType, in.EvaluatorID); err != nil {
			return err
		}

		store := NewStore(tx)
		e, found, err := store.FindDownward(ctx, in.PeriodID, in.EvaluateeID, in.EvaluatorID, in.WbsID, in.EvaluationType)
		if err != nil {
			return err
		}
		if !found {
			e = DownwardEvaluation{
				Meta:           entity.NewMeta(actor, entity.Now()),
				PeriodID:       in.PeriodID,
				EmployeeID:     in.EvaluateeID,
				EvaluatorID:    in.EvaluatorID,
				WbsID:          in.WbsID,
				EvaluationType: in.EvaluationType,
			}
			mergeDownward(&e, in)
			out = e
			return store.InsertDownward(ctx, e)
		}
		if e.IsCompleted {
			return apperr.DomainPolicy("DOWNWARD_EVALUATION_COMPLETED", "downward evaluation is already completed",
				"evaluationId", e.ID)
		}
		expected := e.Version
		mergeDownward(&e, in)
		e.Touch(actor, entity.Now())
		out = e
		return store.UpdateDownward(ctx, e, expected)
	})
	if err != nil {
		return DownwardEvaluation{}, err
	}
	return out, nil
}

func mergeDownward(e *DownwardEvaluation, in DownwardUpsertInput) {
	if in.Content != nil {
		e.Content = *in.Content
	}
	if in.Score != nil {
		score := *in.Score
		e.Score = &score
	}
}

// SubmitDownward completes the evaluation on behalf of evaluatorID, who must
// still hold the evaluation line it was written under.
func (s *Service) SubmitDownward(ctx context.Context, id, evaluatorID, actor string) (DownwardEvaluation, error) {
	var v entity.Violations
	v.ID("evaluationId", id)
	v.ID("evaluatorId", evaluatorID)
	if err := v.Err(); err != nil {
		return DownwardEvaluation{}, err
	}
	var out DownwardEvaluation
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		store := NewStore(tx)
		e, err := store.GetDownward(ctx, id)
		if err != nil {
			return err
		}
		if e.EvaluatorID != evaluatorID {
			return apperr.Forbidden("EVALUATOR_MISMATCH", "only the authoring evaluator may submit this evaluation",
				"evaluationId", id, "evaluatorId", evaluatorID)
		}
		p, err := period.EnsureWritable(ctx, tx, e.PeriodID)
		if err != nil {
			return err
		}
		if err := assignment.RequireEvaluator(ctx, tx, e.EmployeeID, e.WbsID, e.EvaluationType, evaluatorID); err != nil {
			return err
		}
		if e.IsCompleted {
			return apperr.Conflict("ALREADY_COMPLETED", "downward evaluation was already submitted", "evaluationId", id)
		}
		var v entity.Violations
		v.Required("downwardEvaluationContent", e.Content)
		if e.Score == nil {
			v.Add("downwardEvaluationScore", "is required")
		}
		v.IntRange("downwardEvaluationScore", e.Score, MinScore, p.MaxSelfEvaluationRate)
		if err := v.Err(); err != nil {
			return err
		}

		expected := e.Version
		now := entity.Now()
		e.IsCompleted = true
		e.CompletedAt = &now
		e.Touch(actor, now)
		out = e
		return store.UpdateDownward(ctx, e, expected)
	})
	if err != nil {
		return DownwardEvaluation{}, err
	}
	slog.Info("downward evaluation submitted", "evaluationId", id, "evaluationType", out.EvaluationType, "evaluatorId", evaluatorID)
	return out, nil
}

func (s *Service) GetDownward(ctx context.Context, id string) (DownwardEvaluation, error) {
	if err := validateEvaluationID(id); err != nil {
		return DownwardEvaluation{}, err
	}
	return NewStore(s.conn).GetDownward(ctx, id)
}

func (s *Service) ListDownward(ctx context.Context, periodID, employeeID string) ([]DownwardEvaluation, error) {
	var v entity.Violations
	v.ID("periodId", periodID)
	v.ID("employeeId", employeeID)
	if err := v.Err(); err != nil {
		return nil, err
	}
	return NewStore(s.conn).ListDownward(ctx, periodID, employeeID)
}
