// internal/scheduler/metrics.go
package scheduler

import "github.com/prometheus/client_golang/prometheus"

// metrics exposes pool health. All collectors are labeled by category so
// analysis and simulation load can be read separately.
type metrics struct {
	live       *prometheus.GaugeVec
	busy       *prometheus.GaugeVec
	created    *prometheus.CounterVec
	terminated *prometheus.CounterVec
	overflow   *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		live: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "genoscope",
			Subsystem: "pool",
			Name:      "contexts_live",
			Help:      "Live execution contexts.",
		}, []string{"category"}),
		busy: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "genoscope",
			Subsystem: "pool",
			Name:      "contexts_busy",
			Help:      "Execution contexts currently running a task.",
		}, []string{"category"}),
		created: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "genoscope",
			Subsystem: "pool",
			Name:      "contexts_created_total",
			Help:      "Execution contexts created.",
		}, []string{"category"}),
		terminated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "genoscope",
			Subsystem: "pool",
			Name:      "contexts_terminated_total",
			Help:      "Execution contexts terminated (eviction, error, idle reclaim).",
		}, []string{"category"}),
		overflow: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "genoscope",
			Subsystem: "pool",
			Name:      "contexts_overflow_total",
			Help:      "Contexts created past the soft cap.",
		}, []string{"category"}),
	}
	if reg != nil {
		reg.MustRegister(m.live, m.busy, m.created, m.terminated, m.overflow)
	}
	return m
}
