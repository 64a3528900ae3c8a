package middleware

import (
	"encoding/json"
	"net/http"
)

// Error types carried in middleware error bodies.
const (
	ErrorTypeServer      = "server_error"
	ErrorTypeRateLimit   = "rate_limit_exceeded"
	ErrorTypeRequestSize = "request_too_large"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// writeError writes a JSON error envelope.
func writeError(w http.ResponseWriter, status int, errType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Error: errorDetail{Message: message, Type: errType}})
}
