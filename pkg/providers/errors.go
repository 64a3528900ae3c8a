package providers

import (
	"errors"
	"fmt"
)

// ConfigError represents a provider configuration error.
// It occurs when a required credential, endpoint or model is missing for the
// selected provider and is always returned before any network call is made.
type ConfigError struct {
	// Provider is the provider with invalid configuration
	Provider ProviderID

	// Field is the configuration field that is invalid (token, endpoint, model)
	Field string

	// Message describes the configuration error
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s configuration error: %s", e.Provider, e.Message)
}

// TransportError represents a network failure where no response was received.
type TransportError struct {
	// Provider is the provider the request was sent to
	Provider ProviderID

	// Message is the provider-specific description of the failure
	Message string

	// Cause is the underlying network error
	Cause error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

// Unwrap returns the underlying error for error chain support.
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// VendorError represents a non-2xx HTTP response that has no more specific meaning.
// Message carries the vendor-supplied error detail when present, else the HTTP status text.
type VendorError struct {
	// Provider is the provider that returned the error
	Provider ProviderID

	// StatusCode is the HTTP status code
	StatusCode int

	// Message is the vendor error message or status text
	Message string
}

// Error implements the error interface.
func (e *VendorError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, e.Message)
}

// AuthError represents an authentication failure (HTTP 401).
// Guidance carries actionable, provider-specific advice.
type AuthError struct {
	// Provider is the provider that rejected authentication
	Provider ProviderID

	// Guidance explains how to obtain a valid credential
	Guidance string

	// Message is the error message from the vendor, if any
	Message string
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	msg := fmt.Sprintf("%s authentication failed: %s", e.Provider, e.Guidance)
	if e.Message != "" {
		msg += " (" + e.Message + ")"
	}
	return msg
}

// ModelNotFoundError represents an unknown model identifier (HTTP 404).
type ModelNotFoundError struct {
	// Provider is the provider that does not know the model
	Provider ProviderID

	// Model is the requested model identifier
	Model string
}

// Error implements the error interface.
func (e *ModelNotFoundError) Error() string {
	return fmt.Sprintf("%s: model %q not found, check the model name", e.Provider, e.Model)
}

// UnavailableError represents a model that is not currently loaded (HTTP 503).
type UnavailableError struct {
	// Provider is the provider serving the model
	Provider ProviderID

	// Model is the requested model identifier
	Model string
}

// Error implements the error interface.
func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s: model %q is loading or not currently available, try again later", e.Provider, e.Model)
}

// ParseError represents a response parsing failure.
// It occurs when the vendor returns a 2xx response whose body is malformed.
type ParseError struct {
	// Provider is the provider that returned the malformed response
	Provider ProviderID

	// RawResponse is the raw response body that failed to parse
	RawResponse string

	// Cause is the underlying parse error
	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s response parse error: %v", e.Provider, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Error kind labels returned by ErrorKind.
const (
	KindConfig      = "config"
	KindTransport   = "transport"
	KindVendor      = "vendor"
	KindAuth        = "auth"
	KindNotFound    = "not_found"
	KindUnavailable = "unavailable"
	KindParse       = "parse"
	KindCanceled    = "canceled"
	KindUnknown     = "unknown"
)

// ErrorKind returns a stable, low-cardinality label for err.
// It is used as a metric label and stored in the completion journal.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}

	var (
		configErr      *ConfigError
		transportErr   *TransportError
		vendorErr      *VendorError
		authErr        *AuthError
		notFoundErr    *ModelNotFoundError
		unavailableErr *UnavailableError
		parseErr       *ParseError
	)

	switch {
	case errors.As(err, &configErr):
		return KindConfig
	case errors.As(err, &authErr):
		return KindAuth
	case errors.As(err, &notFoundErr):
		return KindNotFound
	case errors.As(err, &unavailableErr):
		return KindUnavailable
	case errors.As(err, &vendorErr):
		return KindVendor
	case errors.As(err, &parseErr):
		return KindParse
	case errors.As(err, &transportErr):
		return KindTransport
	case isContextError(err):
		return KindCanceled
	default:
		return KindUnknown
	}
}
