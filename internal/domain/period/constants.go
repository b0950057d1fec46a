package period

const (
	StatusWaiting    = "waiting"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"

	DefaultMaxSelfEvaluationRate = 120
	MinSelfEvaluationRate        = 1
	MaxSelfEvaluationRate        = 200
)
