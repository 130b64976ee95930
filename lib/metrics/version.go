package metrics

import (
	"runtime"

	"boscoin.io/govern/lib/version"

	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"

	prometheus "github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

var Version metrics.Gauge = discard.NewGauge()

func PromVersion(registerer stdprometheus.Registerer) metrics.Gauge {
	gv := stdprometheus.NewGaugeVec(stdprometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "version",
		Help:      "Version of the governance engine.",
	}, []string{"version", "git_commit", "go_version"})
	registerer.MustRegister(gv)

	return prometheus.NewGauge(gv)
}

func SetVersion() {
	Version.With(
		"version", version.Version,
		"git_commit", version.GitCommit,
		"go_version", runtime.Version()).Set(1)
}
