package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// threat aggregation service.
type Metrics struct {
	AssessmentsTotal   prometheus.Counter
	AssessmentDuration prometheus.Histogram

	// Source fetch metrics.
	SourceFetches      *prometheus.CounterVec   // labels: source, outcome={success,error}
	SourceFetchSeconds *prometheus.HistogramVec // labels: source
	CacheLookups       *prometheus.CounterVec   // labels: source, result={hit,miss}

	// Assessment publishing metrics.
	PublishErrors    prometheus.Counter
	PublisherEnabled prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.AssessmentsTotal,
		m.AssessmentDuration,
		m.SourceFetches,
		m.SourceFetchSeconds,
		m.CacheLookups,
		m.PublishErrors,
		m.PublisherEnabled,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, so
// parallel tests avoid "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		AssessmentsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_threat",
			Name:      "assessments_total",
			Help:      "Total threat assessments computed.",
		}),
		AssessmentDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "storm_threat",
			Name:      "assessment_duration_seconds",
			Help:      "Wall-clock duration of a full assess call, all sources joined.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 20, 30},
		}),
		SourceFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storm_threat",
			Name:      "source_fetches_total",
			Help:      "Upstream fetches by source and outcome.",
		}, []string{"source", "outcome"}),
		SourceFetchSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "storm_threat",
			Name:      "source_fetch_duration_seconds",
			Help:      "Upstream fetch duration by source, cache misses only.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		}, []string{"source"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storm_threat",
			Name:      "cache_lookups_total",
			Help:      "Source cache lookups by result.",
		}, []string{"source", "result"}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_threat",
			Name:      "publish_errors_total",
			Help:      "Failed assessment publishes to the sink topic.",
		}),
		PublisherEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "storm_threat",
			Name:      "publisher_enabled",
			Help:      "1 when assessment publishing is enabled, 0 otherwise.",
		}),
	}
}
