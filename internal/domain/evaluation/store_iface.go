package evaluation

import (
	"context"
	"time"
)

type StoreAPI interface {
	InsertSelf(ctx context.Context, e SelfEvaluation) error
	GetSelf(ctx context.Context, id string) (SelfEvaluation, error)
	FindSelf(ctx context.Context, periodID, employeeID, wbsItemID string) (SelfEvaluation, bool, error)
	ListSelf(ctx context.Context, periodID, employeeID string) ([]SelfEvaluation, error)
	ListAssignedSelf(ctx context.Context, periodID, employeeID string) ([]SelfEvaluation, error)
	UpdateSelf(ctx context.Context, e SelfEvaluation, expectedVersion int) error

	InsertDownward(ctx context.Context, e DownwardEvaluation) error
	GetDownward(ctx context.Context, id string) (DownwardEvaluation, error)
	FindDownward(ctx context.Context, periodID, employeeID, evaluatorID, wbsID, evaluationType string) (DownwardEvaluation, bool, error)
	ListDownward(ctx context.Context, periodID, employeeID string) ([]DownwardEvaluation, error)
	UpdateDownward(ctx context.Context, e DownwardEvaluation, expectedVersion int) error

	InsertPeer(ctx context.Context, e PeerEvaluation) error
	GetPeer(ctx context.Context, id string) (PeerEvaluation, error)
	FindPeer(ctx context.Context, periodID, evaluatorID, evaluateeID string) (PeerEvaluation, bool, error)
	ListPeerForEvaluatee(ctx context.Context, periodID, evaluateeID string) ([]PeerEvaluation, error)
	UpdatePeer(ctx context.Context, e PeerEvaluation, expectedVersion int) error
	ListPeerQuestions(ctx context.Context, peerEvaluationID string) ([]PeerQuestion, error)
	InsertPeerQuestion(ctx context.Context, q PeerQuestion) error
	UpdatePeerAnswer(ctx context.Context, q PeerQuestion, expectedVersion int) error

	InsertFinal(ctx context.Context, e FinalEvaluation) error
	GetFinal(ctx context.Context, id string) (FinalEvaluation, error)
	FindFinal(ctx context.Context, periodID, employeeID string) (FinalEvaluation, bool, error)
	UpdateFinal(ctx context.Context, e FinalEvaluation, expectedVersion int) error

	SoftDelete(ctx context.Context, table, id, actor string, now time.Time) (bool, error)
}

var _ StoreAPI = (*Store)(nil)
