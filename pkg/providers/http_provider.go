package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// HTTPProvider is the base implementation for HTTP-based provider adapters.
// It issues exactly one request per call and never retries; timeouts are those
// of the supplied *http.Client (none by default).
//
// Concrete provider implementations embed this struct and implement GetCompletions.
type HTTPProvider struct {
	// id identifies the provider in errors and logs
	id ProviderID

	// client is the HTTP client shared by all requests
	client *http.Client

	// logger is the provider's component logger
	logger *slog.Logger
}

// NewHTTPProvider creates a new base HTTP provider.
// A nil client selects a client without a timeout.
func NewHTTPProvider(id ProviderID, client *http.Client) *HTTPProvider {
	if client == nil {
		client = &http.Client{}
	}

	return &HTTPProvider{
		id:     id,
		client: client,
		logger: slog.Default().With("component", "provider", "provider", string(id)),
	}
}

// ID returns the provider identifier.
func (p *HTTPProvider) ID() ProviderID {
	return p.id
}

// Logger returns the provider's component logger.
func (p *HTTPProvider) Logger() *slog.Logger {
	return p.logger
}

// Response is a fully read HTTP response.
// Non-2xx responses are returned as a Response, not as an error, so adapters can
// apply their own status mapping.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
}

// OK reports whether the status code is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// StatusText returns the HTTP status text, e.g. "Unauthorized".
func (r *Response) StatusText() string {
	if text := http.StatusText(r.StatusCode); text != "" {
		return text
	}
	return r.Status
}

// DoRequest performs a single HTTP request.
// reqBody is JSON-encoded when non-nil. Network failures are returned as *TransportError
// carrying transportMsg; context cancellation is returned unwrapped.
func (p *HTTPProvider) DoRequest(ctx context.Context, method, url string, reqBody any, headers map[string]string, transportMsg string) (*Response, error) {
	// Marshal request body
	var bodyReader io.Reader
	if reqBody != nil {
		bodyBytes, err := json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	// Create request
	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, &TransportError{Provider: p.id, Message: transportMsg, Cause: err}
	}

	// Set headers
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	if req.Header.Get("Content-Type") == "" && reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	p.logger.Debug("sending request to provider", "method", method, "url", url)

	// Perform request
	resp, err := p.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		p.logger.Warn("request failed", "error", err)
		return nil, &TransportError{Provider: p.id, Message: transportMsg, Cause: err}
	}
	defer resp.Body.Close()

	// Read response body
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Provider: p.id, Message: transportMsg, Cause: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		p.logger.Warn("provider returned error status", "status", resp.StatusCode)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// DecodeJSON decodes a successful response body into out.
// Malformed bodies are reported as *ParseError.
func (p *HTTPProvider) DecodeJSON(resp *Response, out any) error {
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return &ParseError{
			Provider:    p.id,
			RawResponse: string(resp.Body),
			Cause:       fmt.Errorf("failed to unmarshal response: %w", err),
		}
	}
	return nil
}

// VendorErrorMessage extracts the vendor-supplied error detail from an error body.
// It understands {"error":{"message":"..."}}, {"error":"..."} and {"message":"..."};
// when none is present the HTTP status text is returned.
func VendorErrorMessage(resp *Response) string {
	var envelope struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(resp.Body, &envelope); err == nil {
		if len(envelope.Error) > 0 {
			var detail struct {
				Message string `json:"message"`
			}
			if err := json.Unmarshal(envelope.Error, &detail); err == nil && detail.Message != "" {
				return detail.Message
			}
			var plain string
			if err := json.Unmarshal(envelope.Error, &plain); err == nil && plain != "" {
				return plain
			}
		}
		if envelope.Message != "" {
			return envelope.Message
		}
	}
	return resp.StatusText()
}

// BodySnippet returns the response body as trimmed text for error messages.
func BodySnippet(resp *Response) string {
	text := strings.TrimSpace(string(resp.Body))
	const maxSnippet = 512
	if len(text) > maxSnippet {
		text = text[:maxSnippet] + "..."
	}
	return text
}

// RequireToken returns the trimmed token or a *ConfigError when it is empty.
func RequireToken(id ProviderID, cfg ProviderConfig, message string) (string, error) {
	token := cfg.TrimmedToken()
	if token == "" {
		return "", &ConfigError{Provider: id, Field: "token", Message: message}
	}
	return token, nil
}

// FirstNonEmpty returns the first non-empty argument after trimming.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
