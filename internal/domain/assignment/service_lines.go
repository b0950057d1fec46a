package assignment

import (
	"context"
	"log/slog"

	"github.com/GTD-web/ems-backend-sub025/internal/domain/apperr"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/directory"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/entity"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/period"
	"github.com/GTD-web/ems-backend-sub025/internal/platform/db"
)

// ensureLine returns the live line for role, creating it on first use.
func ensureLine(ctx context.Context, store *Store, role, actor string) (Line, error) {
	line, found, err := store.FindLine(ctx, role)
	if err != nil || found {
		return line, err
	}
	order, required := lineDefaults(role)
	line = Line{
		Meta:           entity.NewMeta(actor, entity.Now()),
		EvaluatorType:  role,
		Order:          order,
		IsRequired:     required,
		IsAutoAssigned: true,
	}
	return line, store.InsertLine(ctx, line)
}

// provisionLines makes sure one mapping per role exists for the employee and
// WBS item. Calling it again creates nothing and never touches an evaluator.
func provisionLines(ctx context.Context, tx db.DBTX, employeeID, wbsItemID, actor string) ([]LineMapping, error) {
	store := NewStore(tx)
	out := make([]LineMapping, 0, len(Roles))
	for _, role := range Roles {
		line, err := ensureLine(ctx, store, role, actor)
		if err != nil {
			return nil, err
		}
		m, found, err := store.FindMapping(ctx, employeeID, wbsItemID, line.ID)
		if err != nil {
			return nil, err
		}
		if !found {
			m = LineMapping{
				Meta:             entity.NewMeta(actor, entity.Now()),
				EmployeeID:       employeeID,
				WbsItemID:        wbsItemID,
				EvaluationLineID: line.ID,
				EvaluatorType:    role,
			}
			if err := store.InsertMapping(ctx, m); err != nil {
				return nil, err
			}
		}
		out = append(out, m)
	}
	return out, nil
}

// SetEvaluator binds evaluatorID to the employee's WBS item for role. The
// mapping is updated in place when it exists and created otherwise.
func (s *Service) SetEvaluator(ctx context.Context, in SetEvaluatorInput, actor string) (LineMapping, error) {
	if err := in.Validate(); err != nil {
		return LineMapping{}, err
	}
	var out LineMapping
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := period.EnsureWritable(ctx, tx, in.PeriodID); err != nil {
			return err
		}
		if _, err := FindActiveWbsAssignment(ctx, tx, in.PeriodID, in.EmployeeID, in.WbsItemID); err != nil {
			return err
		}
		if _, err := directory.NewStore(tx).GetEmployee(ctx, in.EvaluatorID); err != nil {
			return err
		}

		store := NewStore(tx)
		line, err := ensureLine(ctx, store, in.Role, actor)
		if err != nil {
			return err
		}
		m, found, err := store.FindMapping(ctx, in.EmployeeID, in.WbsItemID, line.ID)
		if err != nil {
			return err
		}
		if found {
			if err := store.SetMappingEvaluator(ctx, m.ID, in.EvaluatorID, actor, entity.Now()); err != nil {
				return err
			}
		} else {
			evaluator := in.EvaluatorID
			m = LineMapping{
				Meta:             entity.NewMeta(actor, entity.Now()),
				EmployeeID:       in.EmployeeID,
				WbsItemID:        in.WbsItemID,
				EvaluationLineID: line.ID,
				EvaluatorType:    in.Role,
				EvaluatorID:      &evaluator,
			}
			if err := store.InsertMapping(ctx, m); err != nil {
				return err
			}
		}
		out, _, err = store.FindMapping(ctx, in.EmployeeID, in.WbsItemID, line.ID)
		return err
	})
	if err != nil {
		return LineMapping{}, err
	}
	slog.Info("evaluator set", "role", in.Role, "employeeId", in.EmployeeID, "wbsItemId", in.WbsItemID, "evaluatorId", in.EvaluatorID)
	return out, nil
}

func (s *Service) ListLineMappings(ctx context.Context, employeeID, wbsItemID string) ([]LineMapping, error) {
	var v entity.Violations
	v.ID("employeeId", employeeID)
	v.OptionalID("wbsItemId", wbsItemID)
	if err := v.Err(); err != nil {
		return nil, err
	}
	return NewStore(s.conn).ListMappings(ctx, employeeID, wbsItemID, "")
}

func (s *Service) ListByEvaluator(ctx context.Context, evaluatorID string) ([]LineMapping, error) {
	var v entity.Violations
	v.ID("evaluatorId", evaluatorID)
	if err := v.Err(); err != nil {
		return nil, err
	}
	return NewStore(s.conn).ListMappings(ctx, "", "", evaluatorID)
}

// FindMappingForRole returns the live mapping for the employee, WBS item and
// role, if provisioned.
func FindMappingForRole(ctx context.Context, q db.DBTX, employeeID, wbsItemID, role string) (LineMapping, bool, error) {
	store := NewStore(q)
	line, found, err := store.FindLine(ctx, role)
	if err != nil || !found {
		return LineMapping{}, false, err
	}
	return store.FindMapping(ctx, employeeID, wbsItemID, line.ID)
}

// RequireEvaluator rejects evaluatorID unless it holds the mapping for role.
func RequireEvaluator(ctx context.Context, q db.DBTX, employeeID, wbsItemID, role, evaluatorID string) error {
	m, found, err := FindMappingForRole(ctx, q, employeeID, wbsItemID, role)
	if err != nil {
		return err
	}
	if !found || m.EvaluatorID == nil || *m.EvaluatorID != evaluatorID {
		return apperr.Forbidden("EVALUATOR_NOT_ASSIGNED", "evaluator is not assigned to this evaluation line",
			"employeeId", employeeID, "wbsItemId", wbsItemID, "role", role, "evaluatorId", evaluatorID)
	}
	return nil
}
