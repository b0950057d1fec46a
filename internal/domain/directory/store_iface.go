package directory

import "context"

type StoreAPI interface {
	GetEmployee(ctx context.Context, id string) (Employee, error)
	ListEmployees(ctx context.Context, ids []string) ([]Employee, error)
	GetProject(ctx context.Context, id string) (Project, error)
	GetWbsItem(ctx context.Context, id string) (WbsItem, error)
	ListWbsItemsByProject(ctx context.Context, projectID string) ([]WbsItem, error)
	ListDeliverables(ctx context.Context, wbsItemIDs []string, employeeID string) ([]Deliverable, error)
	GetQuestion(ctx context.Context, id string) (Question, error)
}

var _ StoreAPI = (*Store)(nil)
