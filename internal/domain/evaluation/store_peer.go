package evaluation

import (
	"context"
	"database/sql"
	"errors"

	"github.com/GTD-web/ems-backend-sub025/internal/domain/apperr"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/entity"
	"github.com/GTD-web/ems-backend-sub025/internal/platform/db"
)

const peerColumns = `
    id, period_id, evaluator_id, evaluatee_id, status, is_completed, completed_at, request_deadline,
    created_by, updated_by, created_at, updated_at, version
  `

func scanPeer(row scanner) (PeerEvaluation, error) {
	var (
		e                                       PeerEvaluation
		completedAt, deadline, created, updated db.Timestamp
	)
	if err := row.Scan(&e.ID, &e.PeriodID, &e.EvaluatorID, &e.EvaluateeID, &e.Status, &e.IsCompleted, &completedAt, &deadline,
		&e.CreatedBy, &e.UpdatedBy, &created, &updated, &e.Version); err != nil {
		return PeerEvaluation{}, err
	}
	e.CompletedAt = completedAt.Ptr()
	e.RequestDeadline = deadline.Ptr()
	e.CreatedAt = created.Time
	e.UpdatedAt = updated.Time
	return e, nil
}

func (s *Store) InsertPeer(ctx context.Context, e PeerEvaluation) error {
	_, err := s.DB.ExecContext(ctx, `
    INSERT INTO peer_evaluations (`+peerColumns+`)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
  `, e.ID, e.PeriodID, e.EvaluatorID, e.EvaluateeID, e.Status, e.IsCompleted, db.NullableTime(e.CompletedAt),
		db.NullableTime(e.RequestDeadline), e.CreatedBy, e.UpdatedBy, e.CreatedAt, e.UpdatedAt, e.Version)
	return entity.StoreError(err, "insert peer evaluation", "CONCURRENT_MODIFICATION",
		"periodId", e.PeriodID, "evaluatorId", e.EvaluatorID, "evaluateeId", e.EvaluateeID)
}

// GetPeer loads the evaluation together with its questions.
func (s *Store) GetPeer(ctx context.Context, id string) (PeerEvaluation, error) {
	row := s.DB.QueryRowContext(ctx, "SELECT "+peerColumns+" FROM peer_evaluations WHERE id = $1 AND deleted_at IS NULL", id)
	e, err := scanPeer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return PeerEvaluation{}, apperr.NotFound("PEER_EVALUATION_NOT_FOUND", "peer evaluation not found", "evaluationId", id)
	}
	if err != nil {
		return PeerEvaluation{}, entity.StoreError(err, "load peer evaluation", "")
	}
	if e.Questions, err = s.ListPeerQuestions(ctx, id); err != nil {
		return PeerEvaluation{}, err
	}
	return e, nil
}

func (s *Store) FindPeer(ctx context.Context, periodID, evaluatorID, evaluateeID string) (PeerEvaluation, bool, error) {
	row := s.DB.QueryRowContext(ctx, `
    SELECT `+peerColumns+`
    FROM peer_evaluations
    WHERE period_id = $1 AND evaluator_id = $2 AND evaluatee_id = $3 AND deleted_at IS NULL
  `, periodID, evaluatorID, evaluateeID)
	e, err := scanPeer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return PeerEvaluation{}, false, nil
	}
	if err != nil {
		return PeerEvaluation{}, false, entity.StoreError(err, "load peer evaluation", "")
	}
	if e.Questions, err = s.ListPeerQuestions(ctx, e.ID); err != nil {
		return PeerEvaluation{}, false, err
	}
	return e, true, nil
}

// ListPeerForEvaluatee returns the peer evaluations about evaluateeID, without
// their questions.
func (s *Store) ListPeerForEvaluatee(ctx context.Context, periodID, evaluateeID string) ([]PeerEvaluation, error) {
	rows, err := s.DB.QueryContext(ctx, `
    SELECT `+peerColumns+`
    FROM peer_evaluations
    WHERE period_id = $1 AND evaluatee_id = $2 AND deleted_at IS NULL
    ORDER BY created_at, id
  `, periodID, evaluateeID)
	if err != nil {
		return nil, entity.StoreError(err, "list peer evaluations", "")
	}
	defer rows.Close()

	var out []PeerEvaluation
	for rows.Next() {
		e, err := scanPeer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) UpdatePeer(ctx context.Context, e PeerEvaluation, expectedVersion int) error {
	err := db.ExpectOne(s.DB.ExecContext(ctx, `
    UPDATE peer_evaluations
    SET status = $1, is_completed = $2, completed_at = $3, request_deadline = $4,
        updated_by = $5, updated_at = $6, version = $7
    WHERE id = $8 AND version = $9 AND deleted_at IS NULL
  `, e.Status, e.IsCompleted, db.NullableTime(e.CompletedAt), db.NullableTime(e.RequestDeadline),
		e.UpdatedBy, e.UpdatedAt, e.Version, e.ID, expectedVersion))
	return entity.StoreError(err, "update peer evaluation", "", "evaluationId", e.ID)
}

func scanPeerQuestion(row scanner) (PeerQuestion, error) {
	var (
		q                            PeerQuestion
		answer                       sql.NullString
		score                        sql.NullInt64
		answeredAt, created, updated db.Timestamp
	)
	if err := row.Scan(&q.ID, &q.PeerEvaluationID, &q.QuestionID, &q.QuestionText, &q.DisplayOrder, &answer, &score, &answeredAt,
		&q.CreatedBy, &q.UpdatedBy, &created, &updated, &q.Version); err != nil {
		return PeerQuestion{}, err
	}
	q.Answer = db.StringPtr(answer)
	q.Score = db.IntPtr(score)
	q.AnsweredAt = answeredAt.Ptr()
	q.CreatedAt = created.Time
	q.UpdatedAt = updated.Time
	return q, nil
}

func (s *Store) ListPeerQuestions(ctx context.Context, peerEvaluationID string) ([]PeerQuestion, error) {
	rows, err := s.DB.QueryContext(ctx, `
    SELECT m.id, m.peer_evaluation_id, m.question_id, COALESCE(q.text, ''), m.display_order, m.answer, m.score, m.answered_at,
           m.created_by, m.updated_by, m.created_at, m.updated_at, m.version
    FROM peer_evaluation_question_mappings m
    LEFT JOIN evaluation_questions q ON q.id = m.question_id
    WHERE m.peer_evaluation_id = $1 AND m.deleted_at IS NULL
    ORDER BY m.display_order, m.id
  `, peerEvaluationID)
	if err != nil {
		return nil, entity.StoreError(err, "list peer questions", "")
	}
	defer rows.Close()

	out := []PeerQuestion{}
	for rows.Next() {
		q, err := scanPeerQuestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (s *Store) InsertPeerQuestion(ctx context.Context, q PeerQuestion) error {
	_, err := s.DB.ExecContext(ctx, `
    INSERT INTO peer_evaluation_question_mappings
      (id, peer_evaluation_id, question_id, display_order, answer, score, answered_at,
       created_by, updated_by, created_at, updated_at, version)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
  `, q.ID, q.PeerEvaluationID, q.QuestionID, q.DisplayOrder, db.Nullable(q.Answer), db.Nullable(q.Score),
		db.NullableTime(q.AnsweredAt), q.CreatedBy, q.UpdatedBy, q.CreatedAt, q.UpdatedAt, q.Version)
	return entity.StoreError(err, "insert peer question", "CONCURRENT_MODIFICATION",
		"evaluationId", q.PeerEvaluationID, "questionId", q.QuestionID)
}

func (s *Store) UpdatePeerAnswer(ctx context.Context, q PeerQuestion, expectedVersion int) error {
	err := db.ExpectOne(s.DB.ExecContext(ctx, `
    UPDATE peer_evaluation_question_mappings
    SET answer = $1, score = $2, answered_at = $3, updated_by = $4, updated_at = $5, version = $6
    WHERE id = $7 AND version = $8 AND deleted_at IS NULL
  `, db.Nullable(q.Answer), db.Nullable(q.Score), db.NullableTime(q.AnsweredAt),
		q.UpdatedBy, q.UpdatedAt, q.Version, q.ID, expectedVersion))
	return entity.StoreError(err, "update peer answer", "", "questionMappingId", q.ID)
}
