package progress

import (
	"github.com/GTD-web/ems-backend-sub025/internal/domain/assignment"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/criteria"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/directory"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/evaluation"
)

func buildAssignedData(s snapshot) AssignedData {
	out := AssignedData{
		Period: PeriodInfo{
			ID:                    s.period.ID,
			Name:                  s.period.Name,
			Status:                s.period.Status,
			StartDate:             s.period.StartDate,
			EndDate:               s.period.EndDate,
			MaxSelfEvaluationRate: s.period.MaxSelfEvaluationRate,
		},
		Employee: s.employee,
		Projects: []ProjectData{},
		Summary:  buildSummary(s),
	}

	byProject := make(map[string][]WbsData)
	for _, a := range s.wbs {
		byProject[a.ProjectID] = append(byProject[a.ProjectID], buildWbs(s, a))
	}
	for _, p := range s.projects {
		wbsList := byProject[p.ProjectID]
		if wbsList == nil {
			wbsList = []WbsData{}
		}
		out.Projects = append(out.Projects, ProjectData{
			ProjectID:    p.ProjectID,
			ProjectName:  p.ProjectName,
			ProjectCode:  s.projectInfo[p.ProjectID].Code,
			AssignedDate: p.AssignedDate,
			WbsList:      wbsList,
		})
	}
	return out
}

func buildWbs(s snapshot, a assignment.WbsAssignment) WbsData {
	item := s.wbsInfo[a.WbsItemID]
	w := WbsData{
		WbsItemID:         a.WbsItemID,
		WbsCode:           item.WbsCode,
		Title:             item.Title,
		AssignedDate:      a.AssignedDate,
		Criteria:          s.criteria[a.WbsItemID],
		PrimaryDownward:   downwardState(s, a.WbsItemID, assignment.RolePrimary),
		SecondaryDownward: downwardState(s, a.WbsItemID, assignment.RoleSecondary),
		Deliverables:      s.deliverables[a.WbsItemID],
	}
	if w.Criteria == nil {
		w.Criteria = []criteria.Criteria{}
	}
	if w.Deliverables == nil {
		w.Deliverables = []directory.Deliverable{}
	}
	if e, ok := s.self[a.WbsItemID]; ok {
		w.SelfEvaluation = &SelfState{
			EvaluationID:           e.ID,
			Score:                  e.Score,
			SubmittedToEvaluator:   e.SubmittedToEvaluator,
			SubmittedToEvaluatorAt: e.SubmittedToEvaluatorAt,
			SubmittedToManager:     e.SubmittedToManager,
			SubmittedToManagerAt:   e.SubmittedToManagerAt,
			IsCompleted:            e.IsCompleted,
		}
	}
	return w
}

// currentDownward returns the evaluation that speaks for the tier. Once an
// evaluator is bound to the line only that evaluator's record counts, so a
// record left by a replaced evaluator stops counting after a rebind. An
// unbound line falls back to the first record of the tier.
func currentDownward(s snapshot, wbsItemID, role string) (*evaluation.DownwardEvaluation, *string) {
	var evaluatorID *string
	if m, ok := s.mappings[wbsItemID][role]; ok {
		evaluatorID = m.EvaluatorID
	}
	rows := s.downward[wbsItemID]
	for i := range rows {
		if rows[i].EvaluationType != role {
			continue
		}
		if evaluatorID == nil || rows[i].EvaluatorID == *evaluatorID {
			return &rows[i], evaluatorID
		}
	}
	return nil, evaluatorID
}

func downwardState(s snapshot, wbsItemID, role string) DownwardState {
	chosen, evaluatorID := currentDownward(s, wbsItemID, role)
	state := DownwardState{EvaluatorID: evaluatorID}
	if chosen != nil {
		state.EvaluationID = chosen.ID
		state.Score = chosen.Score
		state.IsCompleted = chosen.IsCompleted
		state.CompletedAt = chosen.CompletedAt
	}
	return state
}

func completedDownward(s snapshot, wbsItemID, role string) bool {
	chosen, _ := currentDownward(s, wbsItemID, role)
	return chosen != nil && chosen.IsCompleted
}

// buildSummary counts each stage over the assigned set. Records attached to
// cancelled assignments are not counted, and an employee with no assignments
// reports zero for every stage.
func buildSummary(s snapshot) Summary {
	var toEvaluator, toManager, primary, secondary int
	for _, a := range s.wbs {
		if e, ok := s.self[a.WbsItemID]; ok {
			if e.SubmittedToEvaluator {
				toEvaluator++
			}
			if e.SubmittedToManager {
				toManager++
			}
		}
		if completedDownward(s, a.WbsItemID, assignment.RolePrimary) {
			primary++
		}
		if completedDownward(s, a.WbsItemID, assignment.RoleSecondary) {
			secondary++
		}
	}

	// Peer requests only count once the employee has work in the period.
	peersTotal, peersDone := 0, 0
	if len(s.wbs) > 0 {
		peersTotal = len(s.peers)
		for _, p := range s.peers {
			if p.IsCompleted {
				peersDone++
			}
		}
	}

	finalTotal, finalDone := 0, 0
	if len(s.wbs) > 0 {
		finalTotal = 1
		if s.final != nil && s.final.IsConfirmed {
			finalDone = 1
		}
	}

	total := len(s.wbs)
	return Summary{
		TotalProjects:     len(s.projects),
		TotalWbs:          total,
		SelfToEvaluator:   Stage(toEvaluator, total),
		SelfToManager:     Stage(toManager, total),
		DownwardPrimary:   Stage(primary, total),
		DownwardSecondary: Stage(secondary, total),
		Peer:              Stage(peersDone, peersTotal),
		Final:             Stage(finalDone, finalTotal),
	}
}

func buildStatus(s snapshot) EmployeeStatus {
	withCriteria := make(map[string]bool, len(s.criteria))
	for id, rows := range s.criteria {
		withCriteria[id] = len(rows) > 0
	}

	line := LineConfig{PrimaryEvaluatorIDs: []string{}, SecondaryEvaluatorIDs: []string{}}
	seen := map[string]bool{}
	for _, a := range s.wbs {
		for _, role := range assignment.Roles {
			m, ok := s.mappings[a.WbsItemID][role]
			if !ok || m.EvaluatorID == nil || seen[role+*m.EvaluatorID] {
				continue
			}
			seen[role+*m.EvaluatorID] = true
			if role == assignment.RolePrimary {
				line.HasPrimaryEvaluator = true
				line.PrimaryEvaluatorIDs = append(line.PrimaryEvaluatorIDs, *m.EvaluatorID)
			} else {
				line.HasSecondaryEvaluator = true
				line.SecondaryEvaluatorIDs = append(line.SecondaryEvaluatorIDs, *m.EvaluatorID)
			}
		}
	}

	return EmployeeStatus{
		PeriodID:           s.period.ID,
		EmployeeID:         s.employee.ID,
		EmployeeName:       s.employee.Name,
		IsEvaluationTarget: !s.membership.IsExcluded,
		IsExcluded:         s.membership.IsExcluded,
		ExcludeReason:      s.membership.ExcludeReason,
		EvaluationLine:     line,
		WbsCriteria:        CriteriaStatusOf(s.assignedWbsIDs(), withCriteria),
		Summary:            buildSummary(s),
	}
}
