package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects comparison-loop counters for scraping. They are mostly
// useful on long-lived CI workers that run many comparisons per process.
type Metrics struct {
	RoundsTotal        *prometheus.CounterVec
	InvocationsTotal   *prometheus.CounterVec
	ClassifiedTotal    *prometheus.CounterVec
	PendingBenchmarks  *prometheus.GaugeVec
	ComparisonDuration *prometheus.HistogramVec

	registry *prometheus.Registry
}

// NewMetrics creates and registers the metric set on its own registry.
func NewMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.RoundsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "benchdelta_rounds_total",
			Help: "Comparison rounds executed",
		},
		[]string{"opt_level"},
	)
	m.InvocationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "benchdelta_invocations_total",
			Help: "Benchmark binary invocations",
		},
		[]string{"opt_level", "side"},
	)
	m.ClassifiedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "benchdelta_classified_total",
			Help: "Benchmarks classified, by final classification",
		},
		[]string{"opt_level", "classification"},
	)
	m.PendingBenchmarks = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "benchdelta_pending_benchmarks",
			Help: "Benchmarks still pending after the latest round",
		},
		[]string{"opt_level"},
	)
	m.ComparisonDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "benchdelta_comparison_duration_seconds",
			Help:    "Wall time of one opt-level comparison",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
		[]string{"opt_level"},
	)

	m.registry.MustRegister(
		m.RoundsTotal,
		m.InvocationsTotal,
		m.ClassifiedTotal,
		m.PendingBenchmarks,
		m.ComparisonDuration,
	)
	return m
}

// ObserveRound records one completed convergence round.
func (m *Metrics) ObserveRound(optLevel string, added, removed, settled, pending int) {
	m.RoundsTotal.WithLabelValues(optLevel).Inc()
	m.InvocationsTotal.WithLabelValues(optLevel, "old").Inc()
	m.InvocationsTotal.WithLabelValues(optLevel, "new").Inc()
	m.ClassifiedTotal.WithLabelValues(optLevel, "added").Add(float64(added))
	m.ClassifiedTotal.WithLabelValues(optLevel, "removed").Add(float64(removed))
	m.ClassifiedTotal.WithLabelValues(optLevel, "settled").Add(float64(settled))
	m.PendingBenchmarks.WithLabelValues(optLevel).Set(float64(pending))
}

// Handler exposes the registry for an optional /metrics listener.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve starts a blocking /metrics HTTP server on addr.
func (m *Metrics) Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	return http.ListenAndServe(addr, mux)
}
