// Package telemetry groups textstudio's observability packages.
//
//   - logging: slog setup with provider credential redaction
//   - metrics: Prometheus completion and HTTP metrics
//   - health: dependency checks served on /health
//
// Metrics and the completion journal attach to the gateway as observers:
//
//	collector := metrics.NewCollector(metrics.Config{Enabled: true}, nil)
//	gw := gateway.New(factory, gateway.Options{Observers: []gateway.Observer{collector}})
package telemetry
