package report

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"gopkg.in/yaml.v3"
)

const metricsNamespace = "walscope"

func (r *Report) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return errors.Wrap(err, "encode yaml report")
	}
	return enc.Close()
}

func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(r), "encode json report")
}

// WriteMetrics stores the report counters at path in the Prometheus text
// format read by the node exporter's textfile collector.
func (r *Report) WriteMetrics(path string) error {
	reg := prometheus.NewRegistry()
	labels := prometheus.Labels{"root": r.Root}

	gauge := func(name, help string, v int) {
		g := prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   metricsNamespace,
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		})
		g.Set(float64(v))
		reg.MustRegister(g)
	}
	gauge("entries", "Non-empty metadata slots decoded.", len(r.Results))
	gauge("padding_bugs", "Entries whose payload starts with unexpected filler bytes.", r.PaddingBugs)
	gauge("cross_page_entries", "Entries spanning more than one page file.", r.CrossPageEntries())
	gauge("filler_bytes", "Leading filler bytes summed over flagged entries.", r.FillerBytes())
	gauge("metadata_slots", "Complete slots in the metadata file.", r.SlotCapacity)
	gauge("data_pages", "Page files present in the data directory.", r.PageCount)
	gauge("page_issues", "Gaps and wrongly sized page files.", len(r.PageIssues))

	return errors.Wrapf(prometheus.WriteToTextfile(path, reg), "write metrics to %s", path)
}
