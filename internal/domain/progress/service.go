package progress

import (
	"context"

	"github.com/GTD-web/ems-backend-sub025/internal/domain/entity"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/period"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/target"
	"github.com/GTD-web/ems-backend-sub025/internal/platform/db"
)

type Service struct {
	conn db.DBTX
}

func NewService(conn db.DBTX) *Service {
	return &Service{conn: conn}
}

func validatePair(periodID, employeeID string) error {
	var v entity.Violations
	v.ID("periodId", periodID)
	v.ID("employeeId", employeeID)
	return v.Err()
}

// GetEmployeeAssignedData returns the nested period, project and WBS view of
// everything assigned to the employee.
func (s *Service) GetEmployeeAssignedData(ctx context.Context, periodID, employeeID string) (AssignedData, error) {
	if err := validatePair(periodID, employeeID); err != nil {
		return AssignedData{}, err
	}
	snap, err := loadSnapshot(ctx, s.conn, periodID, employeeID)
	if err != nil {
		return AssignedData{}, err
	}
	return buildAssignedData(snap), nil
}

func (s *Service) GetEmployeeStatus(ctx context.Context, periodID, employeeID string) (EmployeeStatus, error) {
	if err := validatePair(periodID, employeeID); err != nil {
		return EmployeeStatus{}, err
	}
	snap, err := loadSnapshot(ctx, s.conn, periodID, employeeID)
	if err != nil {
		return EmployeeStatus{}, err
	}
	return buildStatus(snap), nil
}

// ListPeriodStatuses returns the status of every registered target,
// excluded ones included.
func (s *Service) ListPeriodStatuses(ctx context.Context, periodID string) ([]EmployeeStatus, error) {
	var v entity.Violations
	v.ID("periodId", periodID)
	if err := v.Err(); err != nil {
		return nil, err
	}
	if _, err := period.Load(ctx, s.conn, periodID); err != nil {
		return nil, err
	}
	targets, err := target.NewStore(s.conn).List(ctx, periodID, true, false)
	if err != nil {
		return nil, err
	}
	out := make([]EmployeeStatus, 0, len(targets))
	for _, t := range targets {
		snap, err := loadSnapshot(ctx, s.conn, periodID, t.EmployeeID)
		if err != nil {
			return nil, err
		}
		out = append(out, buildStatus(snap))
	}
	return out, nil
}

func (s *Service) Report(ctx context.Context, periodID, employeeID string) (Report, error) {
	if err := validatePair(periodID, employeeID); err != nil {
		return Report{}, err
	}
	snap, err := loadSnapshot(ctx, s.conn, periodID, employeeID)
	if err != nil {
		return Report{}, err
	}
	return Report{Data: buildAssignedData(snap), Status: buildStatus(snap)}, nil
}
