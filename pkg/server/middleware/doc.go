// Package middleware provides the HTTP middleware chain of the textstudio API.
//
// The chain, outermost first:
//
//	RecoveryMiddleware      panics become 500 JSON errors
//	RequestIDMiddleware     X-Request-ID, propagated to slog via the context
//	LoggingMiddleware       one structured line per request
//	CORSMiddleware          browser origins
//	RateLimitMiddleware     per-client token bucket (golang.org/x/time/rate)
//	MaxBodyMiddleware       request body cap
//	MetricsMiddleware       Prometheus request counters, keyed by route pattern
//
// Error bodies use the same envelope as the API handlers:
//
//	{"error": {"message": "...", "type": "rate_limit_exceeded"}}
package middleware
