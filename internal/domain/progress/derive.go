package progress

// StageStatus is none until something is completed and complete once every
// expected record is.
func StageStatus(completed, total int) string {
	switch {
	case completed == 0:
		return StatusNone
	case total > 0 && completed >= total:
		return StatusComplete
	default:
		return StatusInProgress
	}
}

func Stage(completed, total int) StageSummary {
	if completed > total {
		completed = total
	}
	return StageSummary{
		Status:       StageStatus(completed, total),
		Total:        total,
		Completed:    completed,
		AllSubmitted: total > 0 && completed == total,
	}
}

// CriteriaStatusOf counts the assigned WBS items that carry at least one
// criteria row. Items outside assigned are ignored.
func CriteriaStatusOf(assigned []string, withCriteria map[string]bool) CriteriaStatus {
	seen := make(map[string]bool, len(assigned))
	count := 0
	for _, id := range assigned {
		if seen[id] {
			continue
		}
		seen[id] = true
		if withCriteria[id] {
			count++
		}
	}
	return CriteriaStatus{
		Status:               StageStatus(count, len(seen)),
		TotalWbsCount:        len(seen),
		WbsWithCriteriaCount: count,
	}
}
