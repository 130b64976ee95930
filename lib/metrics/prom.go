package metrics

import (
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

// InitPrometheusMetrics replaces the nop metrics with the prometheus metrics
// registered to `registerer`.
func InitPrometheusMetrics(registerer stdprometheus.Registerer) {
	Version = PromVersion(registerer)
	Governance = PromGovernanceMetrics(registerer)
}
