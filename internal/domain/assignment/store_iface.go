package assignment

import (
	"context"
	"time"

	"github.com/GTD-web/ems-backend-sub025/internal/domain/directory"
)

type StoreAPI interface {
	InsertProjectAssignment(ctx context.Context, a ProjectAssignment) error
	GetProjectAssignment(ctx context.Context, id string) (ProjectAssignment, bool, error)
	FindProjectAssignment(ctx context.Context, periodID, employeeID, projectID string) (ProjectAssignment, bool, error)
	ListProjectAssignments(ctx context.Context, periodID, employeeID string) ([]ProjectAssignment, error)
	InsertWbsAssignment(ctx context.Context, a WbsAssignment) error
	GetWbsAssignment(ctx context.Context, id string) (WbsAssignment, bool, error)
	FindWbsAssignment(ctx context.Context, periodID, employeeID, wbsItemID string) (WbsAssignment, bool, error)
	ListWbsAssignments(ctx context.Context, periodID, employeeID, projectID string) ([]WbsAssignment, error)
	ListUnassignedWbs(ctx context.Context, projectID, periodID, employeeID string) ([]directory.WbsItem, error)
	CountActiveWbsUnderProject(ctx context.Context, periodID, employeeID, projectID string) (int, error)
	SoftDelete(ctx context.Context, table, id, actor string, now time.Time) (bool, error)

	FindLine(ctx context.Context, role string) (Line, bool, error)
	InsertLine(ctx context.Context, l Line) error
	FindMapping(ctx context.Context, employeeID, wbsItemID, lineID string) (LineMapping, bool, error)
	InsertMapping(ctx context.Context, m LineMapping) error
	SetMappingEvaluator(ctx context.Context, id, evaluatorID, actor string, now time.Time) error
	ListMappings(ctx context.Context, employeeID, wbsItemID, evaluatorID string) ([]LineMapping, error)
}

var _ StoreAPI = (*Store)(nil)
