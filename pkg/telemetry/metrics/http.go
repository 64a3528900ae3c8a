package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics tracks the API server.
type HTTPMetrics struct {
	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	inFlight    prometheus.Gauge
	rateLimited prometheus.Counter
}

// NewHTTPMetrics creates and registers HTTP metrics.
func NewHTTPMetrics(cfg Config, registry *prometheus.Registry) *HTTPMetrics {
	hm := &HTTPMetrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests served",
			},
			[]string{"method", "route", "code"},
		),

		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"method", "route"},
		),

		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests being served",
		}),

		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Total number of requests rejected by the rate limiter",
		}),
	}

	registry.MustRegister(hm.requests, hm.duration, hm.inFlight, hm.rateLimited)
	return hm
}

// RecordRequest records one served request.
func (hm *HTTPMetrics) RecordRequest(method, route string, code int, duration time.Duration) {
	hm.requests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	hm.duration.WithLabelValues(method, route).Observe(duration.Seconds())
}
