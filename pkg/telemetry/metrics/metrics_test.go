package metrics

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"mercator-hq/textstudio/pkg/gateway"
	"mercator-hq/textstudio/pkg/providers"
)

func TestCollector_ObserveCompletion(t *testing.T) {
	c := NewCollector(Config{Enabled: true}, nil)

	c.ObserveCompletion(context.Background(), gateway.Outcome{
		Provider: "openai",
		Model:    "gpt-4o",
		Duration: 1500 * time.Millisecond,
		Result:   &providers.CompletionResult{Content: "hello"},
	})
	c.ObserveCompletion(context.Background(), gateway.Outcome{
		Provider: "openai",
		Model:    "gpt-4o",
		Err:      &providers.AuthError{Provider: providers.ProviderOpenAI, Message: "bad key"},
	})

	if got := testutil.ToFloat64(c.completions.total.WithLabelValues("openai", "gpt-4o", "success")); got != 1 {
		t.Errorf("expected 1 success, got %v", got)
	}
	if got := testutil.ToFloat64(c.completions.total.WithLabelValues("openai", "gpt-4o", "error")); got != 1 {
		t.Errorf("expected 1 error, got %v", got)
	}
	if got := testutil.ToFloat64(c.completions.errors.WithLabelValues("openai", providers.KindAuth)); got != 1 {
		t.Errorf("expected 1 auth error, got %v", got)
	}
}

func TestCollector_Disabled(t *testing.T) {
	c := NewCollector(Config{Enabled: false}, nil)
	c.ObserveCompletion(context.Background(), gateway.Outcome{Provider: "mock", Err: errors.New("x")})
	c.RecordHTTPRequest("GET", "/health", 200, time.Millisecond)

	if n := testutil.CollectAndCount(c.completions.total); n != 0 {
		t.Errorf("expected no series when disabled, got %d", n)
	}
}

func TestCollector_ModelCardinality(t *testing.T) {
	c := NewCollector(Config{Enabled: true, MaxModelLabels: 2}, nil)

	for _, model := range []string{"a", "b", "c", "d"} {
		c.ObserveCompletion(context.Background(), gateway.Outcome{Provider: "github", Model: model})
	}

	if got := testutil.ToFloat64(c.completions.total.WithLabelValues("github", OtherModel, "success")); got != 2 {
		t.Errorf("expected 2 completions folded into %q, got %v", OtherModel, got)
	}
	if c.models.Count() != 2 {
		t.Errorf("expected 2 admitted models, got %d", c.models.Count())
	}
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector(Config{Enabled: true}, nil)
	c.RecordHTTPRequest("POST", "/api/format", 200, 20*time.Millisecond)
	c.RecordRateLimited()
	c.InFlight(1)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		"textstudio_http_requests_total",
		`route="/api/format"`,
		"textstudio_http_rate_limited_total",
		"textstudio_http_requests_in_flight",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("expected %q in metrics output", want)
		}
	}
}

func TestCollectors_IndependentRegistries(t *testing.T) {
	// Two collectors must not panic on duplicate registration
	NewCollector(Config{Enabled: true}, nil)
	NewCollector(Config{Enabled: true}, nil)
}
