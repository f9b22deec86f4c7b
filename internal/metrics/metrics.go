// Package metrics holds the prometheus collectors for estimate computation.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MikeSquared-Agency/Bellwether/internal/scoring"
)

type Metrics struct {
	EstimatesTotal  *prometheus.CounterVec
	ComputeSeconds  prometheus.Histogram
	MissingColumns  *prometheus.CounterVec
	SanityFailures  *prometheus.CounterVec
	OverrideChanges *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		EstimatesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bellwether",
			Name:      "estimates_total",
			Help:      "Share computations by period.",
		}, []string{"period"}),
		ComputeSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bellwether",
			Name:      "compute_duration_seconds",
			Help:      "Time spent in one share computation.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
		MissingColumns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bellwether",
			Name:      "missing_columns_total",
			Help:      "Categories that contributed zero population because their column was missing or malformed.",
		}, []string{"column"}),
		SanityFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bellwether",
			Name:      "sanity_failures_total",
			Help:      "All-maximum override computations whose share was not 1.",
		}, []string{"period"}),
		OverrideChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bellwether",
			Name:      "override_changes_total",
			Help:      "Override updates by dimension.",
		}, []string{"dimension"}),
	}
	reg.MustRegister(m.EstimatesTotal, m.ComputeSeconds, m.MissingColumns, m.SanityFailures, m.OverrideChanges)
	return m
}

// ObserveEstimate records one computation.
func (m *Metrics) ObserveEstimate(r scoring.Result, took time.Duration) {
	m.EstimatesTotal.WithLabelValues(r.Period).Inc()
	m.ComputeSeconds.Observe(took.Seconds())
	for _, col := range r.MissingColumns() {
		m.MissingColumns.WithLabelValues(col).Inc()
	}
}

func (m *Metrics) ReportViolation(v scoring.SanityViolation) {
	m.SanityFailures.WithLabelValues(v.Period).Inc()
}
