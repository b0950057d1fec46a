package evaluation

import (
	"context"
	"time"

	"github.com/GTD-web/ems-backend-sub025/internal/domain/entity"
	"github.com/GTD-web/ems-backend-sub025/internal/platform/db"
)

type Store struct {
	DB db.DBTX
}

func NewStore(q db.DBTX) *Store {
	return &Store{DB: q}
}

type scanner interface{ Scan(...any) error }

func (s *Store) SoftDelete(ctx context.Context, table, id, actor string, now time.Time) (bool, error) {
	ok, err := db.SoftDelete(ctx, s.DB, table, id, actor, now)
	if err != nil {
		return false, entity.StoreError(err, "delete "+table, "")
	}
	return ok, nil
}
