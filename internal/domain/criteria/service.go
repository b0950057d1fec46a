package criteria

import (
	"context"
	"log/slog"
	"strings"

	"github.com/GTD-web/ems-backend-sub025/internal/domain/apperr"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/directory"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/entity"
	"github.com/GTD-web/ems-backend-sub025/internal/platform/db"
)

type Service struct {
	conn db.DBTX
	uow  db.UnitOfWork
}

func NewService(conn db.DBTX, uow db.UnitOfWork) *Service {
	return &Service{conn: conn, uow: uow}
}

func (s *Service) Create(ctx context.Context, in CreateInput, actor string) (Criteria, error) {
	if err := in.Validate(); err != nil {
		return Criteria{}, err
	}
	importance := DefaultImportance
	if in.Importance != nil {
		importance = *in.Importance
	}
	c := Criteria{
		Meta:       entity.NewMeta(actor, entity.Now()),
		WbsItemID:  in.WbsItemID,
		Criteria:   strings.TrimSpace(in.Criteria),
		Importance: importance,
	}
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := directory.NewStore(tx).GetWbsItem(ctx, in.WbsItemID); err != nil {
			return err
		}
		return NewStore(tx).Insert(ctx, c)
	})
	if err != nil {
		return Criteria{}, err
	}
	slog.Info("wbs criteria created", "criteriaId", c.ID, "wbsItemId", c.WbsItemID)
	return c, nil
}

func (s *Service) List(ctx context.Context, wbsItemID string) ([]Criteria, error) {
	var v entity.Violations
	v.ID("wbsItemId", wbsItemID)
	if err := v.Err(); err != nil {
		return nil, err
	}
	return NewStore(s.conn).ListByWbsItems(ctx, []string{wbsItemID})
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput, actor string) (Criteria, error) {
	if err := validateID(id); err != nil {
		return Criteria{}, err
	}
	if err := in.Validate(); err != nil {
		return Criteria{}, err
	}
	var out Criteria
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		store := NewStore(tx)
		c, err := store.Get(ctx, id)
		if err != nil {
			return err
		}
		expected := c.Version
		if in.Criteria != nil {
			c.Criteria = strings.TrimSpace(*in.Criteria)
		}
		if in.Importance != nil {
			c.Importance = *in.Importance
		}
		c.Touch(actor, entity.Now())
		if err := store.Update(ctx, c, expected); err != nil {
			return err
		}
		out = c
		return nil
	})
	return out, err
}

func (s *Service) Delete(ctx context.Context, id, actor string) error {
	if err := validateID(id); err != nil {
		return err
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		ok, err := NewStore(tx).SoftDelete(ctx, id, actor, entity.Now())
		if err != nil {
			return err
		}
		if !ok {
			return apperr.NotFound("CRITERIA_NOT_FOUND", "evaluation criteria not found", "criteriaId", id)
		}
		slog.Info("wbs criteria deleted", "criteriaId", id)
		return nil
	})
}

func validateID(id string) error {
	var v entity.Violations
	v.ID("criteriaId", id)
	return v.Err()
}
