package target

import (
	"context"
	"time"
)

type StoreAPI interface {
	Insert(ctx context.Context, m Membership) error
	Find(ctx context.Context, periodID, employeeID string) (Membership, bool, error)
	Update(ctx context.Context, m Membership, expectedVersion int) error
	List(ctx context.Context, periodID string, includeExcluded, excludedOnly bool) ([]Target, error)
	SoftDelete(ctx context.Context, id, actor string, now time.Time) (bool, error)
}

var _ StoreAPI = (*Store)(nil)
