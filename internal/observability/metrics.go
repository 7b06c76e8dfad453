package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// prediction service.
type Metrics struct {
	Predictions        *prometheus.CounterVec // labels: outcome={ok,validation_error,internal_error}
	ValidationFailures *prometheus.CounterVec // labels: field
	PredictionDuration prometheus.Histogram
	BatchSize          prometheus.Histogram

	// Prediction cache metrics.
	CacheLookups *prometheus.CounterVec // labels: result={hit,miss}

	// Prediction event publishing metrics.
	EventsPublished prometheus.Counter
	PublishFailures prometheus.Counter

	ModelLoaded prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.Predictions,
		m.ValidationFailures,
		m.PredictionDuration,
		m.BatchSize,
		m.CacheLookups,
		m.EventsPublished,
		m.PublishFailures,
		m.ModelLoaded,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "maize_api",
			Name:      "predictions_total",
			Help:      "Prediction requests by outcome.",
		}, []string{"outcome"}),
		ValidationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "maize_api",
			Name:      "validation_failures_total",
			Help:      "Rejected requests by offending field.",
		}, []string{"field"}),
		PredictionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "maize_api",
			Name:      "prediction_duration_seconds",
			Help:      "Duration of a complete validate-encode-predict cycle.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "maize_api",
			Name:      "batch_size",
			Help:      "Number of items per batch prediction request.",
			Buckets:   []float64{1, 2, 5, 10, 20, 50, 100},
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "maize_api",
			Name:      "cache_lookups_total",
			Help:      "Prediction cache lookups by result.",
		}, []string{"result"}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "maize_api",
			Name:      "events_published_total",
			Help:      "Prediction events written to the audit topic.",
		}),
		PublishFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "maize_api",
			Name:      "publish_failures_total",
			Help:      "Prediction event publish failures.",
		}),
		ModelLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "maize_api",
			Name:      "model_loaded",
			Help:      "1 when the model artifacts are loaded.",
		}),
	}
}
