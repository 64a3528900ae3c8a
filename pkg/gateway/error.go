package gateway

import (
	"errors"
	"fmt"
)

// FallbackContent is the user-facing message carried by every gateway error.
const FallbackContent = "An error occurred while communicating with the API."

// Error is the structured failure returned by CreateCompletion.
// It carries provider-specific detail natively; errors.As on the wrapped
// error reaches the provider error type.
type Error struct {
	// Provider is the configured provider identifier
	Provider string `json:"provider"`

	// Model is the configured model, resolved through customModel
	Model string `json:"model"`

	// OriginalError is the provider error message
	OriginalError string `json:"originalError"`

	// Content is the user-facing fallback message
	Content string `json:"content"`

	// Err is the provider error
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("%s (%s): %s", e.Provider, e.Model, e.OriginalError)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.OriginalError)
}

// Unwrap returns the underlying provider error.
func (e *Error) Unwrap() error {
	return e.Err
}

// newError wraps a provider failure.
func newError(provider, model string, err error) *Error {
	return &Error{
		Provider:      provider,
		Model:         model,
		OriginalError: err.Error(),
		Content:       FallbackContent,
		Err:           err,
	}
}

// Details are the fields a caller renders for a failed completion.
type Details struct {
	Provider      string `json:"provider,omitempty"`
	Model         string `json:"model,omitempty"`
	OriginalError string `json:"originalError"`
	Content       string `json:"content"`

	// Structured reports whether err carried a gateway *Error
	Structured bool `json:"-"`
}

// ParseError recovers the structured fields of err.
// When err is not a gateway error the raw message is returned as OriginalError.
func ParseError(err error) Details {
	if err == nil {
		return Details{}
	}

	var gwErr *Error
	if errors.As(err, &gwErr) {
		return Details{
			Provider:      gwErr.Provider,
			Model:         gwErr.Model,
			OriginalError: gwErr.OriginalError,
			Content:       gwErr.Content,
			Structured:    true,
		}
	}

	return Details{
		OriginalError: err.Error(),
		Content:       err.Error(),
	}
}
