package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mercator-hq/textstudio/pkg/gateway"
	"mercator-hq/textstudio/pkg/providerfactory"
	"mercator-hq/textstudio/pkg/providers"
	"mercator-hq/textstudio/pkg/providers/mock"
	"mercator-hq/textstudio/pkg/settings"
	"mercator-hq/textstudio/pkg/studio"
)

type stubChecker struct {
	model, token string
}

func (s *stubChecker) CheckModelAvailability(_ context.Context, model, token string) providers.ModelAvailability {
	s.model, s.token = model, token
	return providers.ModelAvailability{Available: true}
}

type stubLister struct {
	err error
}

func (s *stubLister) GetAvailableModels(context.Context, string) ([]providers.RemoteModel, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []providers.RemoteModel{{Value: "openai/gpt-4o", DisplayName: "GPT-4o"}}, nil
}

type testAPI struct {
	handler  http.Handler
	gateway  *gateway.Gateway
	settings *settings.Settings
	format   *studio.Formatter
	checker  *stubChecker
	lister   *stubLister
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	var noDelay time.Duration
	factory := providerfactory.New(providerfactory.Options{MockDelay: &noDelay})
	gw := gateway.New(factory, gateway.Options{})

	book := studio.NewPromptBook()
	store := settings.New(settings.NewMemoryStore())
	t.Cleanup(func() { _ = store.Store().Close() })

	ta := &testAPI{
		gateway:  gw,
		settings: store,
		format:   studio.NewFormatter(gw, book),
		checker:  &stubChecker{},
		lister:   &stubLister{},
	}

	api := New(Options{
		Gateway:      gw,
		Formatter:    ta.format,
		Generator:    studio.NewGenerator(gw, book),
		Prompts:      book,
		Settings:     store,
		ModelChecker: ta.checker,
		ModelLister:  ta.lister,
	})

	mux := http.NewServeMux()
	api.Register(mux)
	ta.handler = mux
	return ta
}

func (ta *testAPI) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	ta.handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestFormat(t *testing.T) {
	ta := newTestAPI(t)

	w := ta.do(http.MethodPost, "/api/format", `{"text": "hello world", "style": "blog"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := decode[CompletionResponse](t, w)
	if resp.Role != providers.RoleAssistant {
		t.Errorf("unexpected role %q", resp.Role)
	}
	if resp.Content != mock.FormattingSample {
		t.Errorf("expected formatting sample, got %q", resp.Content)
	}
	if !strings.Contains(resp.HTML, "<h1") {
		t.Errorf("expected rendered heading, got %q", resp.HTML)
	}
	if ta.format.History().Len() != 2 {
		t.Errorf("expected user + assistant in history, got %d", ta.format.History().Len())
	}
}

func TestGenerate(t *testing.T) {
	ta := newTestAPI(t)

	w := ta.do(http.MethodPost, "/api/generate", `{"keywords": "autumn, rain", "style": "story", "language": "custom", "customLanguage": "Latin"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := decode[CompletionResponse](t, w)
	if resp.Content != mock.GenerationSample {
		t.Errorf("expected generation sample, got %q", resp.Content)
	}
}

func TestCompletionBadRequests(t *testing.T) {
	ta := newTestAPI(t)

	tests := []struct {
		name string
		path string
		body string
	}{
		{name: "empty text", path: "/api/format", body: `{"text": "  "}`},
		{name: "empty keywords", path: "/api/generate", body: `{"keywords": ""}`},
		{name: "malformed json", path: "/api/format", body: `{"text":`},
		{name: "no messages", path: "/v1/chat/completions", body: `{"messages": []}`},
		{name: "bad role", path: "/v1/chat/completions", body: `{"messages": [{"role": "tool", "content": "x"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ta.do(http.MethodPost, tt.path, tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
			resp := decode[ErrorResponse](t, w)
			if resp.Error.Type != ErrorTypeInvalidRequest || resp.Error.Message == "" {
				t.Errorf("unexpected error body %+v", resp.Error)
			}
		})
	}
}

func TestFormat_GatewayError(t *testing.T) {
	ta := newTestAPI(t)

	// OpenAI without a token fails before any network call
	openai := string(providers.ProviderOpenAI)
	model := "gpt-4o"
	ta.gateway.Configure(gateway.ConfigUpdate{Provider: &openai, Model: &model})

	w := ta.do(http.MethodPost, "/api/format", `{"text": "hello"}`)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}

	resp := decode[ErrorResponse](t, w)
	if resp.Error.Provider != "openai" || resp.Error.Model != "gpt-4o" {
		t.Errorf("unexpected provider fields %+v", resp.Error)
	}
	if resp.Error.Content != gateway.FallbackContent {
		t.Errorf("expected fallback content, got %q", resp.Error.Content)
	}
	if !strings.Contains(strings.ToLower(resp.Error.OriginalError), "token") {
		t.Errorf("expected token in original error, got %q", resp.Error.OriginalError)
	}
}

func TestChatCompletions(t *testing.T) {
	ta := newTestAPI(t)

	w := ta.do(http.MethodPost, "/v1/chat/completions", `{"messages": [{"role": "system", "content": "s"}, {"role": "user", "content": "write about a topic or keywords"}]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := decode[ChatCompletionResponse](t, w)
	if resp.Object != "chat.completion" || len(resp.Choices) != 1 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.Choices[0].Message.Content != mock.GenerationSample {
		t.Errorf("unexpected content %q", resp.Choices[0].Message.Content)
	}
	if resp.Model != "mock" {
		t.Errorf("expected provider name as model, got %q", resp.Model)
	}
}

func TestConfig_GetAndPut(t *testing.T) {
	ta := newTestAPI(t)

	w := ta.do(http.MethodPut, "/api/config", `{"provider": "openai", "token": "  sk-abcdefghijklmnop  ", "model": "gpt-4o"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := decode[ConfigResponse](t, w)
	if resp.Provider != "openai" || resp.Model != "gpt-4o" {
		t.Errorf("unexpected config %+v", resp)
	}
	if strings.Contains(resp.Token, "abcdefghijklmnop") {
		t.Errorf("token not masked: %q", resp.Token)
	}
	if !resp.Connection.Success {
		t.Errorf("expected connection success, got %+v", resp.Connection)
	}

	// Gateway holds the trimmed token
	if got := ta.gateway.Config().Token; got != "sk-abcdefghijklmnop" {
		t.Errorf("expected trimmed token, got %q", got)
	}

	// Persisted
	stored, found, err := ta.settings.ProviderConfig(context.Background())
	if err != nil || !found {
		t.Fatalf("expected stored config, found=%v err=%v", found, err)
	}
	if stored.Provider != "openai" || stored.Token != "sk-abcdefghijklmnop" {
		t.Errorf("unexpected stored config %+v", stored)
	}

	// Partial update keeps the other fields
	w = ta.do(http.MethodPut, "/api/config", `{"model": "gpt-4o-mini"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if cfg := ta.gateway.Config(); cfg.Provider != "openai" || cfg.Model != "gpt-4o-mini" {
		t.Errorf("unexpected merged config %+v", cfg)
	}

	w = ta.do(http.MethodGet, "/api/config", "")
	got := decode[ConfigResponse](t, w)
	if got.Model != "gpt-4o-mini" {
		t.Errorf("GET returned %+v", got)
	}
}

func TestConfig_PutUnknownProvider(t *testing.T) {
	ta := newTestAPI(t)

	w := ta.do(http.MethodPut, "/api/config", `{"provider": "skynet"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if ta.gateway.Config().Provider != "mock" {
		t.Error("config changed by rejected update")
	}
}

func TestConfig_Test(t *testing.T) {
	ta := newTestAPI(t)

	w := ta.do(http.MethodPost, "/api/config/test", `{"provider": "anthropic", "model": "claude-3-haiku-20240307"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	result := decode[gateway.ConnectionResult](t, w)
	if result.Success {
		t.Errorf("expected failure without token, got %+v", result)
	}
}

func TestConfig_TestMergesOverCurrentConfig(t *testing.T) {
	ta := newTestAPI(t)
	provider, token := "openai", "sk-test-1234567890"
	ta.gateway.Configure(gateway.ConfigUpdate{Provider: &provider, Token: &token})

	w := ta.do(http.MethodPost, "/api/config/test", `{"model": "gpt-4"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	result := decode[gateway.ConnectionResult](t, w)
	if !result.Success {
		t.Errorf("expected success with the configured provider and token, got %+v", result)
	}

	w = ta.do(http.MethodPost, "/api/config/test", `{"token": "   "}`)
	if result := decode[gateway.ConnectionResult](t, w); result.Success {
		t.Errorf("expected blank token override to fail, got %+v", result)
	}

	if cfg := ta.gateway.Config(); cfg.Model != "" || cfg.Token != token {
		t.Errorf("tested overrides were applied to the gateway: %+v", cfg)
	}
}

func TestConfig_TestEmptyBodyUsesCurrentConfig(t *testing.T) {
	ta := newTestAPI(t)
	provider := "anthropic"
	ta.gateway.Configure(gateway.ConfigUpdate{Provider: &provider})

	w := ta.do(http.MethodPost, "/api/config/test", "")
	result := decode[gateway.ConnectionResult](t, w)
	if result.Success || !strings.Contains(result.Message, "token") {
		t.Errorf("expected missing token failure for anthropic, got %+v", result)
	}
}

func TestProviders(t *testing.T) {
	ta := newTestAPI(t)

	w := ta.do(http.MethodGet, "/api/providers", "")
	entries := decode[[]providers.CatalogEntry](t, w)
	if len(entries) != len(providers.Catalog()) {
		t.Errorf("expected %d entries, got %d", len(providers.Catalog()), len(entries))
	}
}

func TestHuggingFaceAvailability(t *testing.T) {
	ta := newTestAPI(t)
	token := "hf_abc"
	ta.gateway.Configure(gateway.ConfigUpdate{Token: &token})

	if w := ta.do(http.MethodGet, "/api/providers/huggingface/availability", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without model, got %d", w.Code)
	}

	w := ta.do(http.MethodGet, "/api/providers/huggingface/availability?model=gpt2", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ta.checker.model != "gpt2" || ta.checker.token != "hf_abc" {
		t.Errorf("checker called with %q %q", ta.checker.model, ta.checker.token)
	}
}

func TestGitHubModels(t *testing.T) {
	ta := newTestAPI(t)

	w := ta.do(http.MethodGet, "/api/providers/github/models", "")
	models := decode[[]providers.RemoteModel](t, w)
	if len(models) != 1 || models[0].Value != "openai/gpt-4o" {
		t.Errorf("unexpected models %+v", models)
	}

	ta.lister.err = errors.New("catalog down")
	w = ta.do(http.MethodGet, "/api/providers/github/models", "")
	if w.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", w.Code)
	}
}

func TestPrompts(t *testing.T) {
	ta := newTestAPI(t)

	w := ta.do(http.MethodPut, "/api/prompts", `{"format": {"social": "Make it loud:"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	templates := decode[studio.Templates](t, w)
	if templates.Format[studio.StyleSocial] != "Make it loud:" {
		t.Errorf("override not applied: %q", templates.Format[studio.StyleSocial])
	}
	if templates.Generate[studio.StyleNews] == "" {
		t.Error("generate templates lost")
	}

	stored, err := ta.settings.Prompts(context.Background())
	if err != nil {
		t.Fatalf("Prompts: %v", err)
	}
	if stored.Format[studio.StyleSocial] != "Make it loud:" || stored.Generate != nil {
		t.Errorf("unexpected stored prompts %+v", stored)
	}

	if w := ta.do(http.MethodPut, "/api/prompts", `{}`); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty update, got %d", w.Code)
	}
}

func TestResetConversations(t *testing.T) {
	ta := newTestAPI(t)
	ta.do(http.MethodPost, "/api/format", `{"text": "hello"}`)

	if w := ta.do(http.MethodPost, "/api/conversations/reset?feature=bogus", ""); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}

	w := ta.do(http.MethodPost, "/api/conversations/reset?feature=format", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ta.format.History().Len() != 0 {
		t.Errorf("expected empty history, got %d", ta.format.History().Len())
	}
}
