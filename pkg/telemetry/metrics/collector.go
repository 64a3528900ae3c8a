package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"mercator-hq/textstudio/pkg/gateway"
	"mercator-hq/textstudio/pkg/providers"
)

// Config configures a Collector.
type Config struct {
	Enabled bool

	// Namespace prefixes every metric name. Default: "textstudio"
	Namespace string

	// DurationBuckets are the histogram buckets for completion latency.
	// Default: 0.1s to 60s, shaped for LLM round trips.
	DurationBuckets []float64

	// MaxModelLabels caps distinct model label values. Default: 500
	MaxModelLabels int

	// ProcessMetrics registers the Go runtime and process collectors.
	ProcessMetrics bool
}

// OtherModel replaces model labels beyond the cardinality limit.
const OtherModel = "other"

// Collector records completion and HTTP metrics into its own registry.
type Collector struct {
	config   Config
	registry *prometheus.Registry

	completions *CompletionMetrics
	http        *HTTPMetrics

	models *CardinalityLimiter
}

var _ gateway.Observer = (*Collector)(nil)

// NewCollector creates a Collector. A nil registry creates a fresh one.
func NewCollector(cfg Config, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "textstudio"
	}
	if len(cfg.DurationBuckets) == 0 {
		cfg.DurationBuckets = []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60}
	}
	if cfg.MaxModelLabels <= 0 {
		cfg.MaxModelLabels = 500
	}

	if cfg.ProcessMetrics {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	return &Collector{
		config:      cfg,
		registry:    registry,
		completions: NewCompletionMetrics(cfg, registry),
		http:        NewHTTPMetrics(cfg, registry),
		models:      NewCardinalityLimiter(cfg.MaxModelLabels),
	}
}

// ObserveCompletion implements gateway.Observer.
func (c *Collector) ObserveCompletion(_ context.Context, outcome gateway.Outcome) {
	if !c.config.Enabled {
		return
	}

	model := outcome.Model
	if model == "" {
		model = "default"
	}
	if !c.models.Allow(model) {
		model = OtherModel
	}

	status := "success"
	if outcome.Err != nil {
		status = "error"
		c.completions.RecordError(outcome.Provider, providers.ErrorKind(outcome.Err))
	}

	var responseBytes int
	if outcome.Result != nil {
		responseBytes = len(outcome.Result.Content)
	}

	c.completions.RecordCompletion(outcome.Provider, model, status, outcome.Duration, responseBytes)
}

// RecordHTTPRequest records one served HTTP request.
func (c *Collector) RecordHTTPRequest(method, route string, code int, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.http.RecordRequest(method, route, code, duration)
}

// InFlight adjusts the in-flight request gauge by delta.
func (c *Collector) InFlight(delta float64) {
	if !c.config.Enabled {
		return
	}
	c.http.inFlight.Add(delta)
}

// RecordRateLimited counts a request rejected by the rate limiter.
func (c *Collector) RecordRateLimited() {
	if !c.config.Enabled {
		return
	}
	c.http.rateLimited.Inc()
}

// Registry returns the Prometheus registry used by the collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Enabled reports whether the collector records anything.
func (c *Collector) Enabled() bool {
	return c.config.Enabled
}

// CardinalityLimiter bounds the number of distinct label values.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a limiter admitting at most maxCardinality values.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow reports whether value is already known or still fits under the limit.
func (cl *CardinalityLimiter) Allow(value string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[value]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	if _, exists := cl.current[value]; exists {
		return true
	}
	if len(cl.current) >= cl.maxCardinality {
		return false
	}
	cl.current[value] = struct{}{}
	return true
}

// Count returns the number of admitted values.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
