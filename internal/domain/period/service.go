package period

import (
	"context"
	"log/slog"
	"strings"

	"github.com/GTD-web/ems-backend-sub025/internal/domain/apperr"
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

func (s *Service) Create(ctx context.Context, in CreateInput, actor string) (Period, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := in.Validate(); err != nil {
		return Period{}, err
	}

	rate := DefaultMaxSelfEvaluationRate
	if in.MaxSelfEvaluationRate != nil {
		rate = *in.MaxSelfEvaluationRate
	}
	p := Period{
		Meta:                          entity.NewMeta(actor, entity.Now()),
		Name:                          in.Name,
		Description:                   in.Description,
		StartDate:                     in.StartDate.UTC(),
		EndDate:                       in.EndDate.UTC(),
		Status:                        StatusWaiting,
		CriteriaSettingEnabled:        in.CriteriaSettingEnabled,
		SelfEvaluationSettingEnabled:  in.SelfEvaluationSettingEnabled,
		FinalEvaluationSettingEnabled: in.FinalEvaluationSettingEnabled,
		MaxSelfEvaluationRate:         rate,
	}

	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		store := NewStore(tx)
		taken, err := store.NameTaken(ctx, p.Name, "")
		if err != nil {
			return err
		}
		if taken {
			return apperr.Conflict("PERIOD_NAME_TAKEN", "an evaluation period with this name already exists", "name", p.Name)
		}
		return store.Insert(ctx, p)
	})
	if err != nil {
		return Period{}, err
	}
	slog.Info("evaluation period created", "periodId", p.ID, "name", p.Name)
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (Period, error) {
	if err := validateID(id); err != nil {
		return Period{}, err
	}
	return NewStore(s.conn).Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Period, error) {
	return NewStore(s.conn).List(ctx)
}

// Start moves a waiting period into progress.
func (s *Service) Start(ctx context.Context, id, actor string) (Period, error) {
	return s.transition(ctx, id, StatusWaiting, StatusInProgress, actor)
}

// Complete closes an in-progress period. Completed periods reject every
// further assignment and evaluation write.
func (s *Service) Complete(ctx context.Context, id, actor string) (Period, error) {
	return s.transition(ctx, id, StatusInProgress, StatusCompleted, actor)
}

func (s *Service) transition(ctx context.Context, id, from, to, actor string) (Period, error) {
	if err := validateID(id); err != nil {
		return Period{}, err
	}
	var out Period
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		store := NewStore(tx)
		p, err := store.Get(ctx, id)
		if err != nil {
			return err
		}
		if p.Status != from {
			return apperr.DomainPolicy("INVALID_PERIOD_TRANSITION", "evaluation period cannot move to "+to,
				"periodId", id, "status", p.Status, "target", to)
		}
		expected := p.Version
		p.Status = to
		p.Touch(actor, entity.Now())
		if err := store.Update(ctx, p, expected); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return Period{}, err
	}
	slog.Info("evaluation period status changed", "periodId", id, "from", from, "to", to)
	return out, nil
}

func (s *Service) UpdateSettings(ctx context.Context, id string, in SettingsInput, actor string) (Period, error) {
	if err := validateID(id); err != nil {
		return Period{}, err
	}
	if err := in.Validate(); err != nil {
		return Period{}, err
	}
	var out Period
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		p, err := EnsureWritable(ctx, tx, id)
		if err != nil {
			return err
		}
		expected := p.Version
		if in.CriteriaSettingEnabled != nil {
			p.CriteriaSettingEnabled = *in.CriteriaSettingEnabled
		}
		if in.SelfEvaluationSettingEnabled != nil {
			p.SelfEvaluationSettingEnabled = *in.SelfEvaluationSettingEnabled
		}
		if in.FinalEvaluationSettingEnabled != nil {
			p.FinalEvaluationSettingEnabled = *in.FinalEvaluationSettingEnabled
		}
		if in.MaxSelfEvaluationRate != nil {
			p.MaxSelfEvaluationRate = *in.MaxSelfEvaluationRate
		}
		p.Touch(actor, entity.Now())
		if err := NewStore(tx).Update(ctx, p, expected); err != nil {
			return err
		}
		out = p
		return nil
	})
	return out, err
}

// Delete tombstones a period that has not started yet.
func (s *Service) Delete(ctx context.Context, id, actor string) error {
	if err := validateID(id); err != nil {
		return err
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		store := NewStore(tx)
		p, err := store.Get(ctx, id)
		if err != nil {
			return err
		}
		if p.Status != StatusWaiting {
			return apperr.DomainPolicy("PERIOD_NOT_DELETABLE", "only waiting evaluation periods can be deleted",
				"periodId", id, "status", p.Status)
		}
		if _, err := store.SoftDelete(ctx, id, actor, entity.Now()); err != nil {
			return err
		}
		slog.Info("evaluation period deleted", "periodId", id)
		return nil
	})
}

func validateID(id string) error {
	var v entity.Violations
	v.ID("periodId", id)
	return v.Err()
}
