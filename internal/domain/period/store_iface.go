package period

import (
	"context"
	"time"
)

type StoreAPI interface {
	Insert(ctx context.Context, p Period) error
	Get(ctx context.Context, id string) (Period, error)
	List(ctx context.Context) ([]Period, error)
	NameTaken(ctx context.Context, name, exceptID string) (bool, error)
	Update(ctx context.Context, p Period, expectedVersion int) error
	SoftDelete(ctx context.Context, id, actor string, now time.Time) (bool, error)
}

var _ StoreAPI = (*Store)(nil)
