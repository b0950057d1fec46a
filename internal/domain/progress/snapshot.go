package progress

import (
	"context"

	"github.com/GTD-web/ems-backend-sub025/internal/domain/apperr"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/assignment"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/criteria"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/directory"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/evaluation"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/period"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/target"
	"github.com/GTD-web/ems-backend-sub025/internal/platform/db"
)

// snapshot holds every row one employee's progress is derived from.
type snapshot struct {
	period       period.Period
	employee     directory.Employee
	membership   target.Membership
	projects     []assignment.ProjectAssignment
	projectInfo  map[string]directory.Project
	wbs          []assignment.WbsAssignment
	wbsInfo      map[string]directory.WbsItem
	criteria     map[string][]criteria.Criteria
	self         map[string]evaluation.SelfEvaluation
	downward     map[string][]evaluation.DownwardEvaluation
	mappings     map[string]map[string]assignment.LineMapping
	peers        []evaluation.PeerEvaluation
	final        *evaluation.FinalEvaluation
	deliverables map[string][]directory.Deliverable
}

func (s snapshot) assignedWbsIDs() []string {
	ids := make([]string, 0, len(s.wbs))
	for _, a := range s.wbs {
		ids = append(ids, a.WbsItemID)
	}
	return ids
}

func loadSnapshot(ctx context.Context, q db.DBTX, periodID, employeeID string) (snapshot, error) {
	var (
		s   snapshot
		err error
	)
	if s.period, err = period.Load(ctx, q, periodID); err != nil {
		return snapshot{}, err
	}
	dir := directory.NewStore(q)
	if s.employee, err = dir.GetEmployee(ctx, employeeID); err != nil {
		return snapshot{}, err
	}
	membership, found, err := target.NewStore(q).Find(ctx, periodID, employeeID)
	if err != nil {
		return snapshot{}, err
	}
	if !found {
		return snapshot{}, apperr.NotFound("TARGET_NOT_FOUND", "employee is not registered in the evaluation period",
			"periodId", periodID, "employeeId", employeeID)
	}
	s.membership = membership

	assignments := assignment.NewStore(q)
	if s.projects, err = assignments.ListProjectAssignments(ctx, periodID, employeeID); err != nil {
		return snapshot{}, err
	}
	s.projectInfo = make(map[string]directory.Project, len(s.projects))
	for _, a := range s.projects {
		p, err := dir.GetProject(ctx, a.ProjectID)
		if err != nil && !apperr.IsNotFound(err) {
			return snapshot{}, err
		}
		s.projectInfo[a.ProjectID] = p
	}
	if s.wbs, err = assignments.ListWbsAssignments(ctx, periodID, employeeID, ""); err != nil {
		return snapshot{}, err
	}
	s.wbsInfo = make(map[string]directory.WbsItem, len(s.wbs))
	for _, a := range s.wbs {
		item, err := dir.GetWbsItem(ctx, a.WbsItemID)
		if err != nil && !apperr.IsNotFound(err) {
			return snapshot{}, err
		}
		s.wbsInfo[a.WbsItemID] = item
	}
	wbsIDs := s.assignedWbsIDs()

	rows, err := criteria.NewStore(q).ListByWbsItems(ctx, wbsIDs)
	if err != nil {
		return snapshot{}, err
	}
	s.criteria = make(map[string][]criteria.Criteria)
	for _, c := range rows {
		s.criteria[c.WbsItemID] = append(s.criteria[c.WbsItemID], c)
	}

	mappings, err := assignments.ListMappings(ctx, employeeID, "", "")
	if err != nil {
		return snapshot{}, err
	}
	s.mappings = make(map[string]map[string]assignment.LineMapping)
	for _, m := range mappings {
		if s.mappings[m.WbsItemID] == nil {
			s.mappings[m.WbsItemID] = make(map[string]assignment.LineMapping)
		}
		s.mappings[m.WbsItemID][m.EvaluatorType] = m
	}

	evaluations := evaluation.NewStore(q)
	selfRows, err := evaluations.ListSelf(ctx, periodID, employeeID)
	if err != nil {
		return snapshot{}, err
	}
	s.self = make(map[string]evaluation.SelfEvaluation, len(selfRows))
	for _, e := range selfRows {
		s.self[e.WbsItemID] = e
	}
	downRows, err := evaluations.ListDownward(ctx, periodID, employeeID)
	if err != nil {
		return snapshot{}, err
	}
	s.downward = make(map[string][]evaluation.DownwardEvaluation)
	for _, e := range downRows {
		s.downward[e.WbsID] = append(s.downward[e.WbsID], e)
	}
	if s.peers, err = evaluations.ListPeerForEvaluatee(ctx, periodID, employeeID); err != nil {
		return snapshot{}, err
	}
	final, found, err := evaluations.FindFinal(ctx, periodID, employeeID)
	if err != nil {
		return snapshot{}, err
	}
	if found {
		s.final = &final
	}

	deliverables, err := dir.ListDeliverables(ctx, wbsIDs, employeeID)
	if err != nil {
		return snapshot{}, err
	}
	s.deliverables = make(map[string][]directory.Deliverable)
	for _, d := range deliverables {
		s.deliverables[d.WbsItemID] = append(s.deliverables[d.WbsItemID], d)
	}
	return s, nil
}
