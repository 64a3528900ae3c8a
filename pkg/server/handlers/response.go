package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"mercator-hq/textstudio/pkg/gateway"
)

// Error types.
const (
	ErrorTypeInvalidRequest = "invalid_request_error"
	ErrorTypeProvider       = "provider_error"
	ErrorTypeServer         = "server_error"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries either gateway error fields or a plain message.
type ErrorDetail struct {
	Provider      string `json:"provider,omitempty"`
	Model         string `json:"model,omitempty"`
	OriginalError string `json:"originalError,omitempty"`
	Content       string `json:"content,omitempty"`
	Message       string `json:"message,omitempty"`
	Type          string `json:"type"`
}

// writeJSON writes v with status.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(r.Context(), "failed to write response", "error", err)
	}
}

// writeBadRequest writes a 400 with message.
func writeBadRequest(w http.ResponseWriter, r *http.Request, message string) {
	writeJSON(w, r, http.StatusBadRequest, ErrorResponse{Error: ErrorDetail{
		Message: message,
		Type:    ErrorTypeInvalidRequest,
	}})
}

// writeServerError writes a 500 and logs err.
func writeServerError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	slog.ErrorContext(r.Context(), msg, "error", err)
	writeJSON(w, r, http.StatusInternalServerError, ErrorResponse{Error: ErrorDetail{
		Message: msg,
		Type:    ErrorTypeServer,
	}})
}

// writeGatewayError writes a 502 carrying the structured fields of err.
func writeGatewayError(w http.ResponseWriter, r *http.Request, err error) {
	details := gateway.ParseError(err)
	writeJSON(w, r, http.StatusBadGateway, ErrorResponse{Error: ErrorDetail{
		Provider:      details.Provider,
		Model:         details.Model,
		OriginalError: details.OriginalError,
		Content:       details.Content,
		Type:          ErrorTypeProvider,
	}})
}

// decodeJSON decodes the request body into v. Unknown fields are ignored.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return fmt.Errorf("request body exceeds %d bytes", maxErr.Limit)
		case errors.Is(err, io.EOF):
			return errors.New("request body is empty")
		default:
			return fmt.Errorf("invalid JSON body: %w", err)
		}
	}
	return nil
}
