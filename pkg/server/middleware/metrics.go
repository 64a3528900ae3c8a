package middleware

import (
	"net/http"
	"time"

	"mercator-hq/textstudio/pkg/telemetry/metrics"
)

// unmatchedRoute labels requests no route pattern matched.
const unmatchedRoute = "unmatched"

// MetricsMiddleware records request count and latency per route pattern.
// It must wrap the ServeMux directly: the mux sets r.Pattern on the request
// it receives, and the label is read from it after the handler returns.
func MetricsMiddleware(collector *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if collector == nil || !collector.Enabled() {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := newResponseWriter(w)

			collector.InFlight(1)
			defer collector.InFlight(-1)

			next.ServeHTTP(rw, r)

			route := r.Pattern
			if route == "" {
				route = unmatchedRoute
			}
			collector.RecordHTTPRequest(r.Method, route, rw.statusCode, time.Since(start))
		})
	}
}
