package metrics

import (
	"os"

	"github.com/pkg/errors"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// WriteTextfile writes the gathered metrics in the prometheus text format,
// which can be collected by the textfile collector of node exporter.
func WriteTextfile(path string, gatherer stdprometheus.Gatherer) error {
	families, err := gatherer.Gather()
	if err != nil {
		return errors.Wrap(err, "failed to gather metrics")
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return errors.Wrapf(err, "failed to create metrics file, %q", tmp)
	}

	for _, mf := range families {
		if _, err = expfmt.MetricFamilyToText(f, mf); err != nil {
			f.Close()
			return errors.Wrap(err, "failed to write metrics")
		}
	}

	if err = f.Close(); err != nil {
		return errors.Wrap(err, "failed to close metrics file")
	}

	return errors.Wrap(os.Rename(tmp, path), "failed to move metrics file")
}
