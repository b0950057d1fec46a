package criteria

import (
	"context"
	"time"
)

type StoreAPI interface {
	Insert(ctx context.Context, c Criteria) error
	Get(ctx context.Context, id string) (Criteria, error)
	ListByWbsItems(ctx context.Context, wbsItemIDs []string) ([]Criteria, error)
	Update(ctx context.Context, c Criteria, expectedVersion int) error
	SoftDelete(ctx context.Context, id, actor string, now time.Time) (bool, error)
}

var _ StoreAPI = (*Store)(nil)
