package evaluation

import (
	"context"
	"log/slog"
	"strings"

	"github.com/GTD-web/ems-backend-sub025/internal/domain/apperr"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/directory"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/entity"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/period"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/target"
	"github.com/GTD-web/ems-backend-sub025/internal/platform/db"
)

// RequestPeer opens (or extends) a peer evaluation of evaluatee by evaluator
// and maps the given questions onto it. Questions already mapped are kept.
func (s *Service) RequestPeer(ctx context.Context, in PeerRequestInput, actor string) (PeerEvaluation, error) {
	if err := in.Validate(); err != nil {
		return PeerEvaluation{}, err
	}
	var out PeerEvaluation
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := period.EnsureWritable(ctx, tx, in.PeriodID); err != nil {
			return err
		}
		dir := directory.NewStore(tx)
		if _, err := dir.GetEmployee(ctx, in.EvaluatorID); err != nil {
			return err
		}
		if err := target.RequireActiveTarget(ctx, tx, in.PeriodID, in.EvaluateeID); err != nil {
			return err
		}
		for _, qid := range in.QuestionIDs {
			if _, err := dir.GetQuestion(ctx, qid); err != nil {
				return err
			}
		}

		store := NewStore(tx)
		e, found, err := store.FindPeer(ctx, in.PeriodID, in.EvaluatorID, in.EvaluateeID)
		if err != nil {
			return err
		}
		now := entity.Now()
		switch {
		case !found:
			e = PeerEvaluation{
				Meta:            entity.NewMeta(actor, now),
				PeriodID:        in.PeriodID,
				EvaluatorID:     in.EvaluatorID,
				EvaluateeID:     in.EvaluateeID,
				Status:          PeerStatusPending,
				RequestDeadline: in.RequestDeadline,
			}
			if err := store.InsertPeer(ctx, e); err != nil {
				return err
			}
		case e.Status == PeerStatusSubmitted:
			return apperr.DomainPolicy("PEER_EVALUATION_SUBMITTED", "peer evaluation was already submitted", "evaluationId", e.ID)
		case in.RequestDeadline != nil:
			expected := e.Version
			e.RequestDeadline = in.RequestDeadline
			e.Touch(actor, now)
			if err := store.UpdatePeer(ctx, e, expected); err != nil {
				return err
			}
		}

		mapped := make(map[string]bool, len(e.Questions))
		for _, q := range e.Questions {
			mapped[q.QuestionID] = true
		}
		order := len(e.Questions)
		for _, qid := range in.QuestionIDs {
			if mapped[qid] {
				continue
			}
			order++
			q := PeerQuestion{
				Meta:             entity.NewMeta(actor, now),
				PeerEvaluationID: e.ID,
				QuestionID:       qid,
				DisplayOrder:     order,
			}
			if err := store.InsertPeerQuestion(ctx, q); err != nil {
				return err
			}
		}
		out, err = store.GetPeer(ctx, e.ID)
		return err
	})
	if err != nil {
		return PeerEvaluation{}, err
	}
	slog.Info("peer evaluation requested", "evaluationId", out.ID, "evaluatorId", in.EvaluatorID, "evaluateeId", in.EvaluateeID)
	return out, nil
}

// AnswerPeer records the evaluator's answers and moves a pending evaluation
// into progress.
func (s *Service) AnswerPeer(ctx context.Context, id, evaluatorID string, answers []PeerAnswerInput, actor string) (PeerEvaluation, error) {
	var v entity.Violations
	v.ID("evaluationId", id)
	v.ID("evaluatorId", evaluatorID)
	if len(answers) == 0 {
		v.Add("answers", "at least one answer is required")
	}
	for _, a := range answers {
		v.ID("questionId", a.QuestionID)
		v.Required("answer", a.Answer)
	}
	if err := v.Err(); err != nil {
		return PeerEvaluation{}, err
	}

	var out PeerEvaluation
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		store := NewStore(tx)
		e, err := store.GetPeer(ctx, id)
		if err != nil {
			return err
		}
		if e.EvaluatorID != evaluatorID {
			return apperr.Forbidden("EVALUATOR_MISMATCH", "only the requested evaluator may answer",
				"evaluationId", id, "evaluatorId", evaluatorID)
		}
		if e.Status == PeerStatusSubmitted {
			return apperr.DomainPolicy("PEER_EVALUATION_SUBMITTED", "peer evaluation was already submitted", "evaluationId", id)
		}
		if _, err := period.EnsureWritable(ctx, tx, e.PeriodID); err != nil {
			return err
		}

		byQuestion := make(map[string]PeerQuestion, len(e.Questions))
		for _, q := range e.Questions {
			byQuestion[q.QuestionID] = q
		}
		dir := directory.NewStore(tx)
		now := entity.Now()
		for _, a := range answers {
			q, ok := byQuestion[a.QuestionID]
			if !ok {
				return apperr.Validation("QUESTION_NOT_MAPPED", "question is not part of this peer evaluation",
					"evaluationId", id, "questionId", a.QuestionID)
			}
			question, err := dir.GetQuestion(ctx, a.QuestionID)
			if err != nil {
				return err
			}
			if err := questionScoreInRange(question, a.Score); err != nil {
				return err
			}
			expected := q.Version
			answer := strings.TrimSpace(a.Answer)
			q.Answer = &answer
			q.Score = a.Score
			q.AnsweredAt = &now
			q.Touch(actor, now)
			if err := store.UpdatePeerAnswer(ctx, q, expected); err != nil {
				return err
			}
			byQuestion[a.QuestionID] = q
		}

		expected := e.Version
		e.Status = PeerStatusInProgress
		e.Touch(actor, now)
		if err := store.UpdatePeer(ctx, e, expected); err != nil {
			return err
		}
		out, err = store.GetPeer(ctx, id)
		return err
	})
	if err != nil {
		return PeerEvaluation{}, err
	}
	return out, nil
}

func questionScoreInRange(q directory.Question, score *int) error {
	if score == nil {
		return nil
	}
	var v entity.Violations
	if q.MinScore != nil && *score < *q.MinScore {
		v.Add("score", "is below the question minimum")
	}
	if q.MaxScore != nil && *score > *q.MaxScore {
		v.Add("score", "is above the question maximum")
	}
	return v.Err()
}

// SubmitPeer closes the evaluation once every mapped question is answered.
// submittedBy is optional; when given it must be the evaluator.
func (s *Service) SubmitPeer(ctx context.Context, id, submittedBy, actor string) (PeerEvaluation, error) {
	var v entity.Violations
	v.ID("evaluationId", id)
	v.OptionalID("submittedBy", submittedBy)
	if err := v.Err(); err != nil {
		return PeerEvaluation{}, err
	}
	var out PeerEvaluation
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		store := NewStore(tx)
		e, err := store.GetPeer(ctx, id)
		if err != nil {
			return err
		}
		if submittedBy != "" && submittedBy != e.EvaluatorID {
			return apperr.Forbidden("EVALUATOR_MISMATCH", "only the requested evaluator may submit",
				"evaluationId", id, "submittedBy", submittedBy)
		}
		if _, err := period.EnsureWritable(ctx, tx, e.PeriodID); err != nil {
			return err
		}
		if e.Status == PeerStatusSubmitted {
			return apperr.Validation("ALREADY_SUBMITTED", "peer evaluation was already submitted", "evaluationId", id)
		}
		if len(e.Questions) == 0 {
			return apperr.Validation("NO_QUESTIONS", "peer evaluation has no questions to answer", "evaluationId", id)
		}
		var missing []string
		for _, q := range e.Questions {
			if !q.Answered() {
				missing = append(missing, q.QuestionID)
			}
		}
		if len(missing) > 0 {
			return apperr.Validation("UNANSWERED_QUESTIONS", "every question must be answered before submitting",
				"evaluationId", id, "questionIds", missing)
		}

		expected := e.Version
		now := entity.Now()
		e.Status = PeerStatusSubmitted
		e.IsCompleted = true
		e.CompletedAt = &now
		e.Touch(actor, now)
		out = e
		return store.UpdatePeer(ctx, e, expected)
	})
	if err != nil {
		return PeerEvaluation{}, err
	}
	slog.Info("peer evaluation submitted", "evaluationId", id, "evaluatorId", out.EvaluatorID)
	return out, nil
}

// CancelPeer withdraws a request that has not been submitted.
func (s *Service) CancelPeer(ctx context.Context, id, actor string) error {
	if err := validateEvaluationID(id); err != nil {
		return err
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		store := NewStore(tx)
		e, err := store.GetPeer(ctx, id)
		if err != nil {
			return err
		}
		if _, err := period.EnsureWritable(ctx, tx, e.PeriodID); err != nil {
			return err
		}
		if e.Status == PeerStatusSubmitted {
			return apperr.DomainPolicy("PEER_EVALUATION_SUBMITTED", "a submitted peer evaluation cannot be cancelled", "evaluationId", id)
		}
		now := entity.Now()
		for _, q := range e.Questions {
			if _, err := store.SoftDelete(ctx, tablePeerQuestions, q.ID, actor, now); err != nil {
				return err
			}
		}
		if _, err := store.SoftDelete(ctx, tablePeer, id, actor, now); err != nil {
			return err
		}
		slog.Info("peer evaluation cancelled", "evaluationId", id)
		return nil
	})
}

func (s *Service) GetPeer(ctx context.Context, id string) (PeerEvaluation, error) {
	if err := validateEvaluationID(id); err != nil {
		return PeerEvaluation{}, err
	}
	return NewStore(s.conn).GetPeer(ctx, id)
}

func (s *Service) ListPeerForEvaluatee(ctx context.Context, periodID, evaluateeID string) ([]PeerEvaluation, error) {
	var v entity.Violations
	v.ID("periodId", periodID)
	v.ID("evaluateeId", evaluateeID)
	if err := v.Err(); err != nil {
		return nil, err
	}
	return NewStore(s.conn).ListPeerForEvaluatee(ctx, periodID, evaluateeID)
}
