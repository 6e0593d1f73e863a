package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the collectors the refresh pipeline reports to.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	providerFetches *prometheus.CounterVec
	cycleDuration   prometheus.Histogram
	ensembleSize    prometheus.Gauge
	cyclesSkipped   prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		providerFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather",
			Name:      "provider_fetch_total",
			Help:      "Fetches per source, labelled by outcome.",
		}, []string{"source", "outcome"}),
		cycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weather",
			Name:      "cycle_duration_seconds",
			Help:      "Wall time of a full refresh cycle.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		}),
		ensembleSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weather",
			Name:      "ensemble_size",
			Help:      "Providers contributing to the latest consensus reading.",
		}),
		cyclesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather",
			Name:      "cycles_skipped_total",
			Help:      "Refresh requests ignored because a cycle was already running.",
		}),
	}
	reg.MustRegister(m.providerFetches, m.cycleDuration, m.ensembleSize, m.cyclesSkipped)
	return m
}

// ObserveFetch counts one settled fetch. Outcome is "ok" or a failure kind.
func (m *Metrics) ObserveFetch(source, outcome string) {
	if m == nil {
		return
	}
	m.providerFetches.WithLabelValues(source, outcome).Inc()
}

// ObserveCycle records a completed cycle.
func (m *Metrics) ObserveCycle(seconds float64, contributors int) {
	if m == nil {
		return
	}
	m.cycleDuration.Observe(seconds)
	m.ensembleSize.Set(float64(contributors))
}

// CycleSkipped counts a refresh rejected by the reentrancy guard.
func (m *Metrics) CycleSkipped() {
	if m == nil {
		return
	}
	m.cyclesSkipped.Inc()
}
