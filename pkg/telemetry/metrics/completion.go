package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CompletionMetrics tracks gateway completions.
type CompletionMetrics struct {
	total         *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	responseBytes *prometheus.HistogramVec
	errors        *prometheus.CounterVec
}

// NewCompletionMetrics creates and registers completion metrics.
func NewCompletionMetrics(cfg Config, registry *prometheus.Registry) *CompletionMetrics {
	cm := &CompletionMetrics{
		total: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "completions_total",
				Help:      "Total number of completion attempts",
			},
			[]string{"provider", "model", "status"},
		),

		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "completion_duration_seconds",
				Help:      "Provider round-trip time of completions in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"provider", "model"},
		),

		responseBytes: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "completion_response_bytes",
				Help:      "Size of completion content in bytes",
				Buckets:   prometheus.ExponentialBuckets(64, 2, 10), // 64B to 32KB
			},
			[]string{"provider"},
		),

		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "provider_errors_total",
				Help:      "Total number of failed completions by error kind",
			},
			[]string{"provider", "kind"},
		),
	}

	registry.MustRegister(cm.total, cm.duration, cm.responseBytes, cm.errors)
	return cm
}

// RecordCompletion records one completion attempt.
func (cm *CompletionMetrics) RecordCompletion(provider, model, status string, duration time.Duration, responseBytes int) {
	cm.total.WithLabelValues(provider, model, status).Inc()
	cm.duration.WithLabelValues(provider, model).Observe(duration.Seconds())
	if status == "success" {
		cm.responseBytes.WithLabelValues(provider).Observe(float64(responseBytes))
	}
}

// RecordError records a failed completion.
func (cm *CompletionMetrics) RecordError(provider, kind string) {
	cm.errors.WithLabelValues(provider, kind).Inc()
}
