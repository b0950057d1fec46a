package assignment

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/GTD-web/ems-backend-sub025/internal/domain/apperr"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/directory"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/entity"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/period"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/target"
	"github.com/GTD-web/ems-backend-sub025/internal/platform/db"
)

const (
	tableProjectAssignments = "evaluation_project_assignments"
	tableWbsAssignments     = "evaluation_wbs_assignments"
)

type Service struct {
	conn db.DBTX
	uow  db.UnitOfWork
}

func NewService(conn db.DBTX, uow db.UnitOfWork) *Service {
	return &Service{conn: conn, uow: uow}
}

func (s *Service) AssignProject(ctx context.Context, periodID string, in ProjectInput, actor string) (ProjectAssignment, error) {
	var v entity.Violations
	v.ID("periodId", periodID)
	v.ID("employeeId", in.EmployeeID)
	v.ID("projectId", in.ProjectID)
	if err := v.Err(); err != nil {
		return ProjectAssignment{}, err
	}
	var out ProjectAssignment
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := period.EnsureWritable(ctx, tx, periodID); err != nil {
			return err
		}
		a, err := assignProject(ctx, tx, periodID, in, actor)
		out = a
		return err
	})
	if err != nil {
		return ProjectAssignment{}, err
	}
	slog.Info("project assigned", "periodId", periodID, "employeeId", in.EmployeeID, "projectId", in.ProjectID)
	return out, nil
}

// AssignProjectBulk creates every assignment or none.
func (s *Service) AssignProjectBulk(ctx context.Context, periodID string, items []ProjectInput, actor string) ([]ProjectAssignment, error) {
	var v entity.Violations
	v.ID("periodId", periodID)
	if err := v.Err(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperr.Validation("ASSIGNMENTS_REQUIRED", "at least one assignment is required")
	}
	for i, item := range items {
		if !entity.IsID(item.EmployeeID) || !entity.IsID(item.ProjectID) {
			return nil, apperr.Validation("INVALID_ASSIGNMENT", "malformed identifier in assignment at index "+strconv.Itoa(i),
				"index", i, "employeeId", item.EmployeeID, "projectId", item.ProjectID)
		}
	}

	out := make([]ProjectAssignment, 0, len(items))
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := period.EnsureWritable(ctx, tx, periodID); err != nil {
			return err
		}
		for _, item := range items {
			a, err := assignProject(ctx, tx, periodID, item, actor)
			if err != nil {
				return err
			}
			out = append(out, a)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.Info("projects assigned", "periodId", periodID, "count", len(out))
	return out, nil
}

func assignProject(ctx context.Context, tx db.DBTX, periodID string, in ProjectInput, actor string) (ProjectAssignment, error) {
	project, err := directory.NewStore(tx).GetProject(ctx, in.ProjectID)
	if err != nil {
		return ProjectAssignment{}, err
	}
	if err := target.RequireActiveTarget(ctx, tx, periodID, in.EmployeeID); err != nil {
		return ProjectAssignment{}, err
	}
	store := NewStore(tx)
	if _, found, err := store.FindProjectAssignment(ctx, periodID, in.EmployeeID, in.ProjectID); err != nil {
		return ProjectAssignment{}, err
	} else if found {
		return ProjectAssignment{}, apperr.Conflict("PROJECT_ALREADY_ASSIGNED", "project is already assigned to the employee",
			"periodId", periodID, "employeeId", in.EmployeeID, "projectId", in.ProjectID)
	}
	now := entity.Now()
	a := ProjectAssignment{
		Meta:         entity.NewMeta(actor, now),
		PeriodID:     periodID,
		EmployeeID:   in.EmployeeID,
		ProjectID:    in.ProjectID,
		ProjectName:  project.Name,
		AssignedBy:   actor,
		AssignedDate: now,
	}
	return a, store.InsertProjectAssignment(ctx, a)
}

// CancelProject tombstones a project assignment that no longer carries live
// WBS assignments.
func (s *Service) CancelProject(ctx context.Context, assignmentID, actor string) error {
	if err := validateAssignmentID(assignmentID); err != nil {
		return err
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		store := NewStore(tx)
		a, found, err := store.GetProjectAssignment(ctx, assignmentID)
		if err != nil {
			return err
		}
		if !found {
			return apperr.NotFound("PROJECT_ASSIGNMENT_NOT_FOUND", "project assignment not found", "assignmentId", assignmentID)
		}
		if _, err := period.EnsureWritable(ctx, tx, a.PeriodID); err != nil {
			return err
		}
		n, err := store.CountActiveWbsUnderProject(ctx, a.PeriodID, a.EmployeeID, a.ProjectID)
		if err != nil {
			return err
		}
		if n > 0 {
			return apperr.DomainPolicy("PROJECT_HAS_WBS_ASSIGNMENTS", "cancel the project's wbs assignments first",
				"assignmentId", assignmentID, "wbsAssignments", n)
		}
		if _, err := store.SoftDelete(ctx, tableProjectAssignments, assignmentID, actor, entity.Now()); err != nil {
			return err
		}
		slog.Info("project assignment cancelled", "assignmentId", assignmentID)
		return nil
	})
}

// AssignWbs assigns a WBS item and, in the same transaction, guarantees that
// exactly one primary and one secondary line mapping exist for the employee
// and item. Existing mappings and their evaluators are left alone.
func (s *Service) AssignWbs(ctx context.Context, in WbsInput, actor string) (AssignWbsResult, error) {
	if err := in.Validate(); err != nil {
		return AssignWbsResult{}, err
	}
	var out AssignWbsResult
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := period.EnsureWritable(ctx, tx, in.PeriodID); err != nil {
			return err
		}
		item, err := directory.NewStore(tx).GetWbsItem(ctx, in.WbsItemID)
		if err != nil {
			return err
		}
		if item.ProjectID != in.ProjectID {
			return apperr.Validation("WBS_NOT_IN_PROJECT", "wbs item does not belong to the project",
				"wbsItemId", in.WbsItemID, "projectId", in.ProjectID)
		}
		if err := target.RequireActiveTarget(ctx, tx, in.PeriodID, in.EmployeeID); err != nil {
			return err
		}
		store := NewStore(tx)
		if _, found, err := store.FindProjectAssignment(ctx, in.PeriodID, in.EmployeeID, in.ProjectID); err != nil {
			return err
		} else if !found {
			return apperr.DomainPolicy("PROJECT_NOT_ASSIGNED", "employee is not assigned to the project in this period",
				"periodId", in.PeriodID, "employeeId", in.EmployeeID, "projectId", in.ProjectID)
		}
		if _, found, err := store.FindWbsAssignment(ctx, in.PeriodID, in.EmployeeID, in.WbsItemID); err != nil {
			return err
		} else if found {
			return apperr.Conflict("WBS_ALREADY_ASSIGNED", "wbs item is already assigned to the employee",
				"periodId", in.PeriodID, "employeeId", in.EmployeeID, "wbsItemId", in.WbsItemID)
		}

		now := entity.Now()
		a := WbsAssignment{
			Meta:         entity.NewMeta(actor, now),
			PeriodID:     in.PeriodID,
			EmployeeID:   in.EmployeeID,
			ProjectID:    in.ProjectID,
			WbsItemID:    in.WbsItemID,
			AssignedBy:   actor,
			AssignedDate: now,
		}
		if err := store.InsertWbsAssignment(ctx, a); err != nil {
			return err
		}
		mappings, err := provisionLines(ctx, tx, in.EmployeeID, in.WbsItemID, actor)
		if err != nil {
			return err
		}
		out = AssignWbsResult{Assignment: a, Mappings: mappings}
		return nil
	})
	if err != nil {
		return AssignWbsResult{}, err
	}
	slog.Info("wbs assigned", "periodId", in.PeriodID, "employeeId", in.EmployeeID, "wbsItemId", in.WbsItemID)
	return out, nil
}

// Cancel tombstones the WBS assignment only. Line mappings and evaluation
// records stay as history.
func (s *Service) Cancel(ctx context.Context, assignmentID, actor string) error {
	if err := validateAssignmentID(assignmentID); err != nil {
		return err
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		store := NewStore(tx)
		a, found, err := store.GetWbsAssignment(ctx, assignmentID)
		if err != nil {
			return err
		}
		if !found {
			return apperr.NotFound("WBS_ASSIGNMENT_NOT_FOUND", "wbs assignment not found", "assignmentId", assignmentID)
		}
		if _, err := period.EnsureWritable(ctx, tx, a.PeriodID); err != nil {
			return err
		}
		if _, err := store.SoftDelete(ctx, tableWbsAssignments, assignmentID, actor, entity.Now()); err != nil {
			return err
		}
		slog.Info("wbs assignment cancelled", "assignmentId", assignmentID, "wbsItemId", a.WbsItemID)
		return nil
	})
}

// ListUnassigned returns the project's WBS items nobody (or, when employeeID
// is set, that employee) holds in the period.
func (s *Service) ListUnassigned(ctx context.Context, projectID, periodID, employeeID string) ([]directory.WbsItem, error) {
	var v entity.Violations
	v.ID("projectId", projectID)
	v.ID("periodId", periodID)
	v.OptionalID("employeeId", employeeID)
	if err := v.Err(); err != nil {
		return nil, err
	}
	if _, err := period.Load(ctx, s.conn, periodID); err != nil {
		return nil, err
	}
	if _, err := directory.NewStore(s.conn).GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	return NewStore(s.conn).ListUnassignedWbs(ctx, projectID, periodID, employeeID)
}

func (s *Service) ListProjectAssignments(ctx context.Context, periodID, employeeID string) ([]ProjectAssignment, error) {
	if err := validatePeriodEmployee(periodID, employeeID); err != nil {
		return nil, err
	}
	return NewStore(s.conn).ListProjectAssignments(ctx, periodID, employeeID)
}

func (s *Service) ListWbsAssignments(ctx context.Context, periodID, employeeID string) ([]WbsAssignment, error) {
	if err := validatePeriodEmployee(periodID, employeeID); err != nil {
		return nil, err
	}
	return NewStore(s.conn).ListWbsAssignments(ctx, periodID, employeeID, "")
}

// FindActiveWbsAssignment returns the live assignment for the triple or
// NotFound.
func FindActiveWbsAssignment(ctx context.Context, q db.DBTX, periodID, employeeID, wbsItemID string) (WbsAssignment, error) {
	a, found, err := NewStore(q).FindWbsAssignment(ctx, periodID, employeeID, wbsItemID)
	if err != nil {
		return WbsAssignment{}, err
	}
	if !found {
		return WbsAssignment{}, apperr.NotFound("WBS_ASSIGNMENT_NOT_FOUND", "no active wbs assignment for the employee",
			"periodId", periodID, "employeeId", employeeID, "wbsItemId", wbsItemID)
	}
	return a, nil
}

func validateAssignmentID(id string) error {
	var v entity.Violations
	v.ID("assignmentId", id)
	return v.Err()
}

func validatePeriodEmployee(periodID, employeeID string) error {
	var v entity.Violations
	v.ID("periodId", periodID)
	v.ID("employeeId", employeeID)
	return v.Err()
}
