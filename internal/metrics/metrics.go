// Package metrics provides Prometheus metrics collection for the hiring
// assistant. It covers candidate evaluations, hiring decisions and model
// loading, exposed via the Prometheus metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the hiring assistant.
type Metrics struct {
	// Evaluation metrics
	EvaluationsTotal   prometheus.Counter     // Total number of successful evaluations
	EvaluationFailures *prometheus.CounterVec // Failed evaluations by error kind
	EvaluationLatency  *prometheus.HistogramVec
	PerformanceScores  prometheus.Histogram   // Distribution of predicted performance scores
	Decisions          *prometheus.CounterVec // Decisions by model and label

	// Model registry metrics
	ModelsLoaded      prometheus.Gauge     // Models available in the registry
	ModelsUnavailable prometheus.Gauge     // Models that failed to load
	ModelLoads        prometheus.Counter   // Successful model loads
	ModelLoadFailures prometheus.Counter   // Failed model loads
	ModelLoadLatency  prometheus.Histogram // Time to load one model

	// Session metrics
	WSSessions prometheus.Gauge // Open WebSocket evaluation sessions
}

// New creates and registers all Prometheus metrics using the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates metrics with a custom registry (useful for testing).
func NewWithRegistry(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	return &Metrics{
		EvaluationsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "evaluations_total",
			Help: "Total number of successful candidate evaluations",
		}),
		EvaluationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "evaluation_failures_total",
			Help: "Total number of failed evaluations by error kind",
		}, []string{"kind"}),
		EvaluationLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "evaluation_latency_seconds",
			Help:    "End-to-end evaluation latency in seconds by classifier",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"model"}),
		PerformanceScores: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "performance_score",
			Help:    "Distribution of predicted performance scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		}),
		Decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "decisions_total",
			Help: "Hiring decisions by classifier and label",
		}, []string{"model", "decision"}),
		ModelsLoaded: factory.NewGauge(prometheus.GaugeOpts{
			Name: "models_loaded",
			Help: "Number of models available in the registry",
		}),
		ModelsUnavailable: factory.NewGauge(prometheus.GaugeOpts{
			Name: "models_unavailable",
			Help: "Number of configured models that failed to load",
		}),
		ModelLoads: factory.NewCounter(prometheus.CounterOpts{
			Name: "model_loads_total",
			Help: "Total number of successful model loads",
		}),
		ModelLoadFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "model_load_failures_total",
			Help: "Total number of failed model loads",
		}),
		ModelLoadLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "model_load_latency_seconds",
			Help:    "Time to load a single model in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15),
		}),
		WSSessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ws_sessions",
			Help: "Number of open WebSocket evaluation sessions",
		}),
	}
}

// UpdateRegistry sets the registry gauges from the loaded and failed model counts.
func (m *Metrics) UpdateRegistry(loaded, unavailable int) {
	m.ModelsLoaded.Set(float64(loaded))
	m.ModelsUnavailable.Set(float64(unavailable))
}
