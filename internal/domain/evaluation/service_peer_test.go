package evaluation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTD-web/ems-backend-sub025/internal/domain/apperr"
	"github.com/GTD-web/ems-backend-sub025/internal/testutil"
)

func (f fixture) requestPeer(t *testing.T, evaluator string, questions ...string) PeerEvaluation {
	t.Helper()
	e, err := f.svc.RequestPeer(context.Background(), PeerRequestInput{
		PeriodID: f.periodID, EvaluatorID: evaluator, EvaluateeID: f.employee, QuestionIDs: questions,
	}, "hr")
	require.NoError(t, err)
	return e
}

func TestRequestPeerValidation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.RequestPeer(ctx, PeerRequestInput{PeriodID: f.periodID, EvaluatorID: f.employee, EvaluateeID: f.employee}, "hr")
	assert.True(t, apperr.IsValidation(err), "self review is not a peer review")

	colleague := testutil.InsertEmployee(t, f.db, "Colleague")
	outsider := testutil.InsertEmployee(t, f.db, "Outsider")
	_, err = f.svc.RequestPeer(ctx, PeerRequestInput{PeriodID: f.periodID, EvaluatorID: colleague, EvaluateeID: outsider}, "hr")
	assert.True(t, apperr.IsDomainPolicy(err), "evaluatee must be a target")
}

func TestRequestPeerAddsOnlyNewQuestions(t *testing.T) {
	f := setup(t)
	colleague := testutil.InsertEmployee(t, f.db, "Colleague")
	q1 := testutil.InsertQuestion(t, f.db, "Collaboration?")
	q2 := testutil.InsertQuestion(t, f.db, "Ownership?")

	first := f.requestPeer(t, colleague, q1)
	assert.Equal(t, PeerStatusPending, first.Status)
	require.Len(t, first.Questions, 1)

	second := f.requestPeer(t, colleague, q1, q2)
	assert.Equal(t, first.ID, second.ID)
	require.Len(t, second.Questions, 2)
	assert.Equal(t, q1, second.Questions[0].QuestionID)
	assert.Equal(t, "Ownership?", second.Questions[1].QuestionText)
}

func TestPeerSubmissionCoverage(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	colleague := testutil.InsertEmployee(t, f.db, "Colleague")
	stranger := testutil.InsertEmployee(t, f.db, "Stranger")
	q1 := testutil.InsertQuestion(t, f.db, "Collaboration?")
	q2 := testutil.InsertQuestion(t, f.db, "Ownership?")
	e := f.requestPeer(t, colleague, q1, q2)

	_, err := f.svc.SubmitPeer(ctx, e.ID, "", "colleague")
	requireCode(t, err, apperr.KindValidation, "UNANSWERED_QUESTIONS")

	_, err = f.svc.AnswerPeer(ctx, e.ID, stranger, []PeerAnswerInput{{QuestionID: q1, Answer: "great"}}, "stranger")
	assert.True(t, apperr.IsForbidden(err))

	answered, err := f.svc.AnswerPeer(ctx, e.ID, colleague, []PeerAnswerInput{{QuestionID: q1, Answer: "great", Score: intPtr(4)}}, "colleague")
	require.NoError(t, err)
	assert.Equal(t, PeerStatusInProgress, answered.Status)

	_, err = f.svc.SubmitPeer(ctx, e.ID, colleague, "colleague")
	requireCode(t, err, apperr.KindValidation, "UNANSWERED_QUESTIONS")

	_, err = f.svc.AnswerPeer(ctx, e.ID, colleague, []PeerAnswerInput{{QuestionID: q2, Answer: "owns it", Score: intPtr(9)}}, "colleague")
	assert.True(t, apperr.IsValidation(err), "score above question maximum")
	_, err = f.svc.AnswerPeer(ctx, e.ID, colleague, []PeerAnswerInput{{QuestionID: q2, Answer: "owns it"}}, "colleague")
	require.NoError(t, err)

	_, err = f.svc.SubmitPeer(ctx, e.ID, stranger, "stranger")
	assert.True(t, apperr.IsForbidden(err))

	done, err := f.svc.SubmitPeer(ctx, e.ID, colleague, "colleague")
	require.NoError(t, err)
	assert.Equal(t, PeerStatusSubmitted, done.Status)
	assert.True(t, done.IsCompleted)
	require.NotNil(t, done.CompletedAt)

	_, err = f.svc.SubmitPeer(ctx, e.ID, "", "colleague")
	requireCode(t, err, apperr.KindValidation, "ALREADY_SUBMITTED")
	assert.True(t, apperr.IsDomainPolicy(f.svc.CancelPeer(ctx, e.ID, "hr")))
}

func TestPeerWithoutQuestions(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	colleague := testutil.InsertEmployee(t, f.db, "Colleague")
	e := f.requestPeer(t, colleague)

	_, err := f.svc.SubmitPeer(ctx, e.ID, "", "colleague")
	requireCode(t, err, apperr.KindValidation, "NO_QUESTIONS")

	_, err = f.svc.AnswerPeer(ctx, e.ID, colleague, []PeerAnswerInput{{QuestionID: testutil.InsertQuestion(t, f.db, "?"), Answer: "x"}}, "colleague")
	requireCode(t, err, apperr.KindValidation, "QUESTION_NOT_MAPPED")

	require.NoError(t, f.svc.CancelPeer(ctx, e.ID, "hr"))
	_, err = f.svc.GetPeer(ctx, e.ID)
	assert.True(t, apperr.IsNotFound(err))

	list, err := f.svc.ListPeerForEvaluatee(ctx, f.periodID, f.employee)
	require.NoError(t, err)
	assert.Empty(t, list)
}
