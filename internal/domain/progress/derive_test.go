package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStage(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		total     int
		want      StageSummary
	}{
		{"nothing expected", 0, 0, StageSummary{Status: StatusNone}},
		{"nothing done", 0, 3, StageSummary{Status: StatusNone, Total: 3}},
		{"partly done", 2, 3, StageSummary{Status: StatusInProgress, Total: 3, Completed: 2}},
		{"all done", 3, 3, StageSummary{Status: StatusComplete, Total: 3, Completed: 3, AllSubmitted: true}},
		{"capped at total", 2, 1, StageSummary{Status: StatusComplete, Total: 1, Completed: 1, AllSubmitted: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Stage(tt.completed, tt.total))
		})
	}
}

func TestCriteriaStatusOf(t *testing.T) {
	assigned := []string{"w1", "w2", "w3"}
	tests := []struct {
		name         string
		withCriteria map[string]bool
		wantStatus   string
		wantCount    int
	}{
		{"none", map[string]bool{}, StatusNone, 0},
		{"one", map[string]bool{"w1": true}, StatusInProgress, 1},
		{"two", map[string]bool{"w1": true, "w3": true}, StatusInProgress, 2},
		{"all", map[string]bool{"w1": true, "w2": true, "w3": true}, StatusComplete, 3},
		{"unassigned items ignored", map[string]bool{"w9": true}, StatusNone, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CriteriaStatusOf(assigned, tt.withCriteria)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantCount, got.WbsWithCriteriaCount)
			assert.Equal(t, 3, got.TotalWbsCount)
		})
	}

	empty := CriteriaStatusOf(nil, map[string]bool{"w1": true})
	assert.Equal(t, CriteriaStatus{Status: StatusNone}, empty)
}
