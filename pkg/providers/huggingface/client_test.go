package huggingface

import (
	"context"
	"net/http"
	"strings"
	"testing"

	testhelpers "mercator-hq/textstudio/internal/providers"
	"mercator-hq/textstudio/pkg/providers"
)

func newTestProvider(mock *testhelpers.MockServer) *Provider {
	p := NewProvider(mock.Client())
	p.BaseURL = mock.URL()
	return p
}

func TestHuggingFaceProvider_GetCompletions(t *testing.T) {
	mock := testhelpers.NewMockServer()
	defer mock.Close()

	mock.SetResponse("/models/"+DefaultModel, testhelpers.MockResponse{
		StatusCode: http.StatusOK,
		Body:       testhelpers.MockHuggingFaceResponse("System: s\n\nUser: u\n\nAssistant: # Reply"),
	})

	provider := newTestProvider(mock)
	cfg := testhelpers.TestConfig(providers.ProviderHuggingFace, "")
	cfg.Token = " hf_test "

	result, err := provider.GetCompletions(context.Background(), testhelpers.TestMessages("s", "u"), cfg)
	if err != nil {
		t.Fatalf("GetCompletions failed: %v", err)
	}
	if result.Content != "# Reply" {
		t.Errorf("expected %q, got %q", "# Reply", result.Content)
	}

	req, _ := mock.LastRequest()
	testhelpers.AssertHeader(t, req, "Authorization", "Bearer hf_test")

	body := req.JSON()
	if body["inputs"] != "System: s\n\nUser: u\n\nAssistant: " {
		t.Errorf("unexpected inputs %q", body["inputs"])
	}
	params, _ := body["parameters"].(map[string]interface{})
	if params["max_new_tokens"] != float64(1024) || params["top_p"] != 0.9 || params["do_sample"] != true || params["temperature"] != 0.7 {
		t.Errorf("unexpected parameters %v", params)
	}
}

func TestHuggingFaceProvider_ObjectResponse(t *testing.T) {
	mock := testhelpers.NewMockServer()
	defer mock.Close()

	mock.SetResponse("/custom", testhelpers.MockResponse{
		StatusCode: http.StatusOK,
		Body:       map[string]interface{}{"generated_text": "plain answer"},
	})

	provider := newTestProvider(mock)
	cfg := testhelpers.TestConfig(providers.ProviderHuggingFace, mock.URL()+"/custom")

	result, err := provider.GetCompletions(context.Background(), testhelpers.TestMessages("s", "u"), cfg)
	if err != nil {
		t.Fatalf("GetCompletions failed: %v", err)
	}
	if result.Content != "plain answer" {
		t.Errorf("expected %q, got %q", "plain answer", result.Content)
	}
}

func TestHuggingFaceProvider_CustomModel(t *testing.T) {
	mock := testhelpers.NewMockServer()
	defer mock.Close()

	mock.SetResponse("/models/org/my-model", testhelpers.MockResponse{
		StatusCode: http.StatusOK,
		Body:       testhelpers.MockHuggingFaceResponse("ok"),
	})

	provider := newTestProvider(mock)
	cfg := testhelpers.TestConfig(providers.ProviderHuggingFace, "")
	cfg.Model = providers.ModelCustom
	cfg.CustomModel = "org/my-model"

	if _, err := provider.GetCompletions(context.Background(), testhelpers.TestMessages("s", "u"), cfg); err != nil {
		t.Fatalf("GetCompletions failed: %v", err)
	}
}

func TestHuggingFaceProvider_MissingToken(t *testing.T) {
	mock := testhelpers.NewMockServer()
	defer mock.Close()

	provider := newTestProvider(mock)
	cfg := testhelpers.TestConfig(providers.ProviderHuggingFace, "")
	cfg.Token = ""

	_, err := provider.GetCompletions(context.Background(), testhelpers.TestMessages("s", "u"), cfg)
	testhelpers.AssertErrorAs(t, err, new(*providers.ConfigError))
	testhelpers.AssertContains(t, err.Error(), "token")
	testhelpers.AssertNoRequests(t, mock)
}

func TestHuggingFaceProvider_Errors(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		wantType     interface{}
		wantContains []string
	}{
		{
			name:         "unauthorized",
			status:       http.StatusUnauthorized,
			wantType:     new(*providers.AuthError),
			wantContains: []string{"authentication", "Inference API token"},
		},
		{
			name:         "not found",
			status:       http.StatusNotFound,
			wantType:     new(*providers.ModelNotFoundError),
			wantContains: []string{"foo/bar", "not found"},
		},
		{
			name:         "unavailable",
			status:       http.StatusServiceUnavailable,
			wantType:     new(*providers.UnavailableError),
			wantContains: []string{"foo/bar", "not currently available", "loading"},
		},
		{
			name:         "other",
			status:       http.StatusInternalServerError,
			wantType:     new(*providers.VendorError),
			wantContains: []string{"500", "boom"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := testhelpers.NewMockServer()
			defer mock.Close()

			mock.SetResponse("/models/foo/bar", testhelpers.MockPlainError(tt.status, "boom"))

			provider := newTestProvider(mock)
			cfg := testhelpers.TestConfig(providers.ProviderHuggingFace, "")
			cfg.Model = "foo/bar"

			_, err := provider.GetCompletions(context.Background(), testhelpers.TestMessages("s", "u"), cfg)
			testhelpers.AssertErrorAs(t, err, tt.wantType)
			for _, want := range tt.wantContains {
				testhelpers.AssertContains(t, err.Error(), want)
			}
		})
	}
}

func TestHuggingFaceProvider_CheckModelAvailability(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		token         string
		wantAvailable bool
		wantMessage   string
	}{
		{name: "available", status: http.StatusOK, token: "hf", wantAvailable: true},
		{name: "unauthorized", status: http.StatusUnauthorized, token: "hf", wantMessage: "Inference API token"},
		{name: "not found", status: http.StatusNotFound, token: "hf", wantMessage: "not found"},
		{name: "unavailable", status: http.StatusServiceUnavailable, token: "hf", wantMessage: "loading"},
		{name: "other", status: http.StatusTeapot, token: "hf", wantMessage: "error checking model: 418"},
		{name: "no token", status: http.StatusOK, token: "  ", wantMessage: "required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := testhelpers.NewMockServer()
			defer mock.Close()

			mock.SetResponse("/models/foo/bar", testhelpers.MockPlainError(tt.status, "{}"))

			provider := newTestProvider(mock)
			got := provider.CheckModelAvailability(context.Background(), "foo/bar", tt.token)

			if got.Available != tt.wantAvailable {
				t.Errorf("expected available=%v, got %v (%s)", tt.wantAvailable, got.Available, got.Message)
			}
			if !strings.Contains(got.Message, tt.wantMessage) {
				t.Errorf("expected message to contain %q, got %q", tt.wantMessage, got.Message)
			}
			if got.Available {
				req, _ := mock.LastRequest()
				if req.Method != http.MethodGet {
					t.Errorf("expected GET, got %s", req.Method)
				}
			}
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	tests := []struct {
		name     string
		messages []providers.Message
		want     string
	}{
		{
			name:     "single user message",
			messages: []providers.Message{{Role: "user", Content: "hi"}},
			want:     "User: hi\n\nAssistant: ",
		},
		{
			name: "system and history",
			messages: []providers.Message{
				{Role: "system", Content: "sys"},
				{Role: "user", Content: "a"},
				{Role: "assistant", Content: "b"},
				{Role: "user", Content: "c"},
			},
			want: "System: sys\n\nUser: a\n\nAssistant: b\n\nUser: c\n\nAssistant: ",
		},
		{
			name:     "empty",
			messages: nil,
			want:     "User: \n\nAssistant: ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildPrompt(tt.messages); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestStripPrompt(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "User: x\n\nAssistant: reply", want: "reply"},
		{in: "no cue here", want: "no cue here"},
		{in: "User: x\n\nAssistant: ", want: "User: x\n\nAssistant: "},
		{in: "Assistant: one Assistant: two", want: "two"},
	}

	for _, tt := range tests {
		if got := StripPrompt(tt.in); got != tt.want {
			t.Errorf("StripPrompt(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
