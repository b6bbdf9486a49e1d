package cache

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kozaktomas/facegate/internal/constants"
)

// Lookup outcomes recorded by Metrics.
const (
	resultHit   = "hit"
	resultMiss  = "miss"
	resultError = "error"
	resultOK    = "ok"
)

// Metrics counts cache traffic. A nil *Metrics records nothing.
type Metrics struct {
	lookups       *prometheus.CounterVec
	populates     *prometheus.CounterVec
	invalidations *prometheus.CounterVec
}

// NewMetrics creates the cache counters and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		lookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: constants.MetricsNamespace,
				Subsystem: "cache",
				Name:      "lookups_total",
				Help:      "Cache lookups by outcome (hit, miss, error)",
			},
			[]string{"result"},
		),
		populates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: constants.MetricsNamespace,
				Subsystem: "cache",
				Name:      "populates_total",
				Help:      "Cache writes after a recomputation, by outcome",
			},
			[]string{"result"},
		),
		invalidations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: constants.MetricsNamespace,
				Subsystem: "cache",
				Name:      "invalidations_total",
				Help:      "Invalidations issued after backing-store mutations, by mutation kind",
			},
			[]string{"mutation"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.lookups, m.populates, m.invalidations)
	}
	return m
}

func (m *Metrics) lookup(result string) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(result).Inc()
}

func (m *Metrics) populate(result string) {
	if m == nil {
		return
	}
	m.populates.WithLabelValues(result).Inc()
}

func (m *Metrics) invalidation(kind MutationKind) {
	if m == nil {
		return
	}
	m.invalidations.WithLabelValues(kind.String()).Inc()
}
