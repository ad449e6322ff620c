// Package flagmetrics exposes the Prometheus counters the Evaluation and
// Admin APIs update, grounded on the pack's metrics package shape (a package
// of package-level vars registered in init, a Handler() for mounting
// promhttp).
package flagmetrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	EvaluationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flagrant_evaluations_total",
			Help: "Total number of feature evaluations by outcome",
		},
		[]string{"outcome"},
	)

	EvaluationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "flagrant_evaluation_duration_seconds",
			Help:    "Evaluation request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	VariantHitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flagrant_variant_hits_total",
			Help: "Total number of times a variant was chosen by the distributor",
		},
		[]string{"feature", "variant_kind"},
	)

	AdminRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flagrant_admin_requests_total",
			Help: "Total number of Admin API requests by method and status",
		},
		[]string{"method", "status"},
	)
)

func init() {
	prometheus.MustRegister(EvaluationsTotal)
	prometheus.MustRegister(EvaluationDuration)
	prometheus.MustRegister(VariantHitsTotal)
	prometheus.MustRegister(AdminRequestsTotal)
}

// Handler returns the Prometheus scrape endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer times one operation and records it against a labeled histogram.
type Timer struct {
	start time.Time
}

// NewTimer starts a timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDurationVec records the elapsed time against histogram with labels.
func (t *Timer) ObserveDurationVec(histogram *prometheus.HistogramVec, labels ...string) {
	histogram.WithLabelValues(labels...).Observe(time.Since(t.start).Seconds())
}
