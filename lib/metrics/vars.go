package metrics

var (
	Governance = NopGovernanceMetrics()
)
