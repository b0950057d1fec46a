package evaluation

const (
	TypePrimary   = "primary"
	TypeSecondary = "secondary"
)

const (
	PeerStatusPending    = "pending"
	PeerStatusInProgress = "in_progress"
	PeerStatusSubmitted  = "submitted"
)

var (
	JobGrades         = []string{"T1", "T2", "T3"}
	JobDetailedGrades = []string{"u", "n", "a"}
)

// MinScore is the lowest score a self or downward evaluation may carry. The
// upper bound comes from the period's maxSelfEvaluationRate.
const MinScore = 0

const (
	tableSelf          = "wbs_self_evaluations"
	tableDownward      = "downward_evaluations"
	tablePeer          = "peer_evaluations"
	tablePeerQuestions = "peer_evaluation_question_mappings"
	tableFinal         = "final_evaluations"
)
