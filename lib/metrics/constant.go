package metrics

const (
	Namespace           = "govern"
	GovernanceSubsystem = "governance"
)

const (
	LabelVote   = "vote"
	LabelStatus = "status"
)
