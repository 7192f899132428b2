// Package metrics records generation counters and durations in a private
// Prometheus registry. Every method is safe on a nil *Recorder, which is how
// callers opt out.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Phase labels.
const (
	PhaseForeignKeys = "foreign_keys"
	PhaseDescribe    = "describe"
	PhaseRender      = "render"
	PhaseWrite       = "write"
)

type Recorder struct {
	reg *prometheus.Registry

	tables   *prometheus.CounterVec   // autoseq_tables_total
	duration *prometheus.HistogramVec // autoseq_phase_duration_seconds
	runs     *prometheus.CounterVec   // autoseq_runs_total
}

// New creates a recorder with its own registry.
func New() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		tables: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "autoseq_tables_total",
				Help: "Per-table phase outcomes, partitioned by phase and status.",
			},
			[]string{"phase", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "autoseq_phase_duration_seconds",
				Help:    "Wall time of each generation phase across all tables.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"phase"},
		),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "autoseq_runs_total",
				Help: "Generation passes, partitioned by status.",
			},
			[]string{"status"},
		),
	}
	r.reg.MustRegister(r.tables, r.duration, r.runs)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.reg
}

// Table counts one table finishing phase.
func (r *Recorder) Table(phase string, err error) {
	if r == nil {
		return
	}
	r.tables.WithLabelValues(phase, status(err)).Inc()
}

// Phase observes the time elapsed since start.
func (r *Recorder) Phase(phase string, start time.Time) {
	if r == nil {
		return
	}
	r.duration.WithLabelValues(phase).Observe(time.Since(start).Seconds())
}

// Run counts a finished pass.
func (r *Recorder) Run(err error) {
	if r == nil {
		return
	}
	r.runs.WithLabelValues(status(err)).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
