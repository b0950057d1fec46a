package target

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/GTD-web/ems-backend-sub025/internal/domain/apperr"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/directory"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/entity"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/period"
	"github.com/GTD-web/ems-backend-sub025/internal/platform/db"
)

type Service struct {
	conn db.DBTX
	uow  db.UnitOfWork
}

func NewService(conn db.DBTX, uow db.UnitOfWork) *Service {
	return &Service{conn: conn, uow: uow}
}

func validatePair(periodID, employeeID string) error {
	var v entity.Violations
	v.ID("periodId", periodID)
	v.ID("employeeId", employeeID)
	return v.Err()
}

// Register adds employeeID to the period as an active target.
func (s *Service) Register(ctx context.Context, periodID, employeeID, actor string) (Membership, error) {
	if err := validatePair(periodID, employeeID); err != nil {
		return Membership{}, err
	}
	var out Membership
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := period.EnsureWritable(ctx, tx, periodID); err != nil {
			return err
		}
		m, err := register(ctx, tx, periodID, employeeID, actor)
		out = m
		return err
	})
	if err != nil {
		return Membership{}, err
	}
	slog.Info("evaluation target registered", "periodId", periodID, "employeeId", employeeID)
	return out, nil
}

// RegisterBulk registers every employee or none. All identifiers are checked
// before anything is written.
func (s *Service) RegisterBulk(ctx context.Context, periodID string, employeeIDs []string, actor string) ([]Membership, error) {
	var v entity.Violations
	v.ID("periodId", periodID)
	if err := v.Err(); err != nil {
		return nil, err
	}
	if len(employeeIDs) == 0 {
		return nil, apperr.Validation("EMPLOYEE_IDS_REQUIRED", "at least one employee id is required")
	}
	seen := make(map[string]struct{}, len(employeeIDs))
	for i, id := range employeeIDs {
		if !entity.IsID(id) {
			return nil, apperr.Validation("INVALID_EMPLOYEE_ID", "malformed employee id at index "+strconv.Itoa(i)+": "+id,
				"employeeId", id, "index", i)
		}
		if _, dup := seen[id]; dup {
			return nil, apperr.Validation("DUPLICATE_EMPLOYEE_ID", "employee id listed twice: "+id,
				"employeeId", id, "index", i)
		}
		seen[id] = struct{}{}
	}

	out := make([]Membership, 0, len(employeeIDs))
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := period.EnsureWritable(ctx, tx, periodID); err != nil {
			return err
		}
		for _, id := range employeeIDs {
			m, err := register(ctx, tx, periodID, id, actor)
			if err != nil {
				return err
			}
			out = append(out, m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.Info("evaluation targets registered", "periodId", periodID, "count", len(out))
	return out, nil
}

func register(ctx context.Context, tx db.DBTX, periodID, employeeID, actor string) (Membership, error) {
	if _, err := directory.NewStore(tx).GetEmployee(ctx, employeeID); err != nil {
		return Membership{}, err
	}
	store := NewStore(tx)
	if _, found, err := store.Find(ctx, periodID, employeeID); err != nil {
		return Membership{}, err
	} else if found {
		return Membership{}, apperr.Conflict("TARGET_ALREADY_REGISTERED", "employee is already registered for the period",
			"periodId", periodID, "employeeId", employeeID)
	}
	m := Membership{
		Meta:       entity.NewMeta(actor, entity.Now()),
		PeriodID:   periodID,
		EmployeeID: employeeID,
	}
	return m, store.Insert(ctx, m)
}

func (s *Service) Exclude(ctx context.Context, periodID, employeeID, reason, actor string) (Membership, error) {
	var v entity.Violations
	v.ID("periodId", periodID)
	v.ID("employeeId", employeeID)
	v.Required("excludeReason", reason)
	if err := v.Err(); err != nil {
		return Membership{}, err
	}
	reason = strings.TrimSpace(reason)
	return s.mutate(ctx, periodID, employeeID, func(m *Membership) error {
		if m.IsExcluded {
			return apperr.Conflict("TARGET_ALREADY_EXCLUDED", "employee is already excluded from the period",
				"periodId", periodID, "employeeId", employeeID)
		}
		m.exclude(reason, actor, entity.Now())
		return nil
	})
}

func (s *Service) Include(ctx context.Context, periodID, employeeID, actor string) (Membership, error) {
	if err := validatePair(periodID, employeeID); err != nil {
		return Membership{}, err
	}
	return s.mutate(ctx, periodID, employeeID, func(m *Membership) error {
		if !m.IsExcluded {
			return apperr.Conflict("TARGET_NOT_EXCLUDED", "employee is not excluded from the period",
				"periodId", periodID, "employeeId", employeeID)
		}
		m.include(actor, entity.Now())
		return nil
	})
}

func (s *Service) mutate(ctx context.Context, periodID, employeeID string, apply func(*Membership) error) (Membership, error) {
	var out Membership
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := period.EnsureWritable(ctx, tx, periodID); err != nil {
			return err
		}
		store := NewStore(tx)
		m, found, err := store.Find(ctx, periodID, employeeID)
		if err != nil {
			return err
		}
		if !found {
			return notRegistered(periodID, employeeID)
		}
		expected := m.Version
		if err := apply(&m); err != nil {
			return err
		}
		if err := store.Update(ctx, m, expected); err != nil {
			return err
		}
		out = m
		return nil
	})
	if err != nil {
		return Membership{}, err
	}
	slog.Info("evaluation target updated", "periodId", periodID, "employeeId", employeeID, "excluded", out.IsExcluded)
	return out, nil
}

// Unregister tombstones the membership.
func (s *Service) Unregister(ctx context.Context, periodID, employeeID, actor string) error {
	if err := validatePair(periodID, employeeID); err != nil {
		return err
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := period.EnsureWritable(ctx, tx, periodID); err != nil {
			return err
		}
		store := NewStore(tx)
		m, found, err := store.Find(ctx, periodID, employeeID)
		if err != nil {
			return err
		}
		if !found {
			return notRegistered(periodID, employeeID)
		}
		_, err = store.SoftDelete(ctx, m.ID, actor, entity.Now())
		return err
	})
}

func (s *Service) GetMembership(ctx context.Context, periodID, employeeID string) (Membership, error) {
	if err := validatePair(periodID, employeeID); err != nil {
		return Membership{}, err
	}
	m, found, err := NewStore(s.conn).Find(ctx, periodID, employeeID)
	if err != nil {
		return Membership{}, err
	}
	if !found {
		return Membership{}, notRegistered(periodID, employeeID)
	}
	return m, nil
}

func (s *Service) ListTargets(ctx context.Context, periodID string, includeExcluded bool) ([]Target, error) {
	if err := s.requirePeriod(ctx, periodID); err != nil {
		return nil, err
	}
	return NewStore(s.conn).List(ctx, periodID, includeExcluded, false)
}

func (s *Service) ListExcluded(ctx context.Context, periodID string) ([]Target, error) {
	if err := s.requirePeriod(ctx, periodID); err != nil {
		return nil, err
	}
	return NewStore(s.conn).List(ctx, periodID, true, true)
}

// IsTarget is false both for unregistered and for excluded employees.
func (s *Service) IsTarget(ctx context.Context, periodID, employeeID string) (bool, error) {
	if err := validatePair(periodID, employeeID); err != nil {
		return false, err
	}
	m, found, err := NewStore(s.conn).Find(ctx, periodID, employeeID)
	if err != nil {
		return false, err
	}
	return found && !m.IsExcluded, nil
}

func (s *Service) requirePeriod(ctx context.Context, periodID string) error {
	var v entity.Violations
	v.ID("periodId", periodID)
	if err := v.Err(); err != nil {
		return err
	}
	_, err := period.Load(ctx, s.conn, periodID)
	return err
}

func notRegistered(periodID, employeeID string) error {
	return apperr.NotFound("TARGET_NOT_FOUND", "employee is not registered for the period",
		"periodId", periodID, "employeeId", employeeID)
}
