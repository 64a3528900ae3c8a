// Package metrics exposes Prometheus metrics for textstudio.
//
// # Metrics
//
// Completion metrics (recorded through the gateway.Observer interface):
//   - textstudio_completions_total{provider,model,status}
//   - textstudio_completion_duration_seconds{provider,model}
//   - textstudio_completion_response_bytes{provider}
//   - textstudio_provider_errors_total{provider,kind}
//
// HTTP metrics (recorded by the server middleware):
//   - textstudio_http_requests_total{method,route,code}
//   - textstudio_http_request_duration_seconds{method,route}
//   - textstudio_http_requests_in_flight
//   - textstudio_http_rate_limited_total
//
// # Usage
//
//	collector := metrics.NewCollector(metrics.Config{Enabled: true}, nil)
//	gw.AddObserver(collector)
//	mux.Handle("/metrics", collector.Handler())
//
// Each Collector owns its registry, so tests can create independent
// collectors without duplicate-registration panics. Model labels are
// bounded by a CardinalityLimiter because custom model names are free text.
package metrics
