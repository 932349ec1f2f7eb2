// Package prometheus exposes batch run metrics.
package prometheus

import (
	"github.com/boldstep/coursefetch"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for batch runs.
type Metrics struct {
	ExtractionsTotal   *prometheus.CounterVec
	ExtractionDuration prometheus.Histogram
	BatchesTotal       prometheus.Counter
}

// NewMetrics registers run metrics with the given registerer. Pass
// prometheus.DefaultRegisterer outside of tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ExtractionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "coursefetch_extractions_total",
			Help: "The total number of URL extractions by outcome.",
		}, []string{"outcome"}),
		ExtractionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "coursefetch_extraction_duration_seconds",
			Help:    "Duration of single URL extractions.",
			Buckets: []float64{1, 5, 10, 15, 30, 60, 120},
		}),
		BatchesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "coursefetch_batches_total",
			Help: "The total number of batch runs started.",
		}),
	}
}

// ObserveOutcome records one per-URL outcome.
func (m *Metrics) ObserveOutcome(out coursefetch.Outcome) {
	m.ExtractionsTotal.WithLabelValues(string(out.Kind)).Inc()
	m.ExtractionDuration.Observe(out.Elapsed.Seconds())
}

// EventFunc returns an event callback that records every outcome and chains
// to next, which may be nil.
func (m *Metrics) EventFunc(next coursefetch.EventFunc) coursefetch.EventFunc {
	m.BatchesTotal.Inc()
	return func(ev coursefetch.Event) {
		m.ObserveOutcome(ev.Outcome)
		if next != nil {
			next(ev)
		}
	}
}
