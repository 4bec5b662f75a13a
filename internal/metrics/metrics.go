// Package metrics records per-action outcomes for the node_exporter textfile
// collector. The agent is a one-shot process, so there is nothing to scrape;
// instead each invocation rewrites a textfile with the last result, duration
// and completion time per action. Gauges, not counters: a counter that resets
// every invocation is noise to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder owns a private registry so agent metrics never collide with
// anything else feeding the same textfile directory. A nil Recorder is a
// no-op, as is one with no textfile path configured.
type Recorder struct {
	path string
	reg  *prometheus.Registry

	lastResult    *prometheus.GaugeVec
	lastDuration  *prometheus.GaugeVec
	lastCompleted *prometheus.GaugeVec
}

// New builds a Recorder writing to path; empty path disables recording.
func New(path string) *Recorder {
	if path == "" {
		return nil
	}
	r := &Recorder{
		path: path,
		reg:  prometheus.NewRegistry(),
		lastResult: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "svcagent",
			Subsystem: "action",
			Name:      "last_result",
			Help:      "Result code of the most recent invocation of the action.",
		}, []string{"resource", "action"}),
		lastDuration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "svcagent",
			Subsystem: "action",
			Name:      "last_duration_seconds",
			Help:      "Wall-clock duration of the most recent invocation of the action.",
		}, []string{"resource", "action"}),
		lastCompleted: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "svcagent",
			Subsystem: "action",
			Name:      "last_completed_timestamp_seconds",
			Help:      "Unix time at which the action last completed.",
		}, []string{"resource", "action"}),
	}
	r.reg.MustRegister(r.lastResult, r.lastDuration, r.lastCompleted)
	return r
}

// Observe records one completed action.
func (r *Recorder) Observe(resource, action string, code int, d time.Duration) {
	if r == nil {
		return
	}
	r.lastResult.WithLabelValues(resource, action).Set(float64(code))
	r.lastDuration.WithLabelValues(resource, action).Set(d.Seconds())
	r.lastCompleted.WithLabelValues(resource, action).SetToCurrentTime()
}

// Flush writes the textfile. Failures are returned for logging; they never
// affect the action result.
func (r *Recorder) Flush() error {
	if r == nil {
		return nil
	}
	return prometheus.WriteToTextfile(r.path, r.reg)
}
