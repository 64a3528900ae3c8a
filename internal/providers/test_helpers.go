package providers

import (
	"errors"
	"strings"
	"testing"

	"mercator-hq/textstudio/pkg/providers"
)

// TestConfig returns a test provider configuration.
func TestConfig(id providers.ProviderID, endpoint string) providers.ProviderConfig {
	return providers.ProviderConfig{
		Provider: string(id),
		Token:    "test-key",
		Endpoint: endpoint,
	}
}

// TestMessages returns a system + user conversation.
func TestMessages(system, user string) []providers.Message {
	return []providers.Message{
		{Role: providers.RoleSystem, Content: system},
		{Role: providers.RoleUser, Content: user},
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertErrorAs fails the test if err does not match target via errors.As.
// target must be a pointer to an error type, e.g. new(*providers.AuthError).
func AssertErrorAs(t *testing.T, err error, target interface{}) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.As(err, target) {
		t.Fatalf("expected %T, got %T: %v", target, err, err)
	}
}

// AssertContains fails the test if haystack doesn't contain needle.
func AssertContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected %q to contain %q", haystack, needle)
	}
}

// AssertNoRequests fails the test if the server received any request.
func AssertNoRequests(t *testing.T, ms *MockServer) {
	t.Helper()
	if n := ms.GetRequestCount(); n != 0 {
		t.Fatalf("expected no requests, got %d", n)
	}
}

// AssertHeader fails the test if the recorded request lacks the header value.
func AssertHeader(t *testing.T, r RecordedRequest, key, value string) {
	t.Helper()
	if got := r.Header.Get(key); got != value {
		t.Fatalf("header %q mismatch: expected %q, got %q", key, value, got)
	}
}
