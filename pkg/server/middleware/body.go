package middleware

import (
	"net/http"
)

// MaxBodyMiddleware caps request bodies at limit bytes. Requests that
// declare a larger Content-Length are rejected with 413 before the handler
// runs; others fail on read once the limit is crossed.
func MaxBodyMiddleware(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limit <= 0 {
				next.ServeHTTP(w, r)
				return
			}
			if r.ContentLength > limit {
				writeError(w, http.StatusRequestEntityTooLarge, ErrorTypeRequestSize, "Request body too large.")
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
