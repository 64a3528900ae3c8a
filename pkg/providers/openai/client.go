package openai

import (
	"context"
	"net/http"

	"mercator-hq/textstudio/pkg/providers"
)

const (
	// DefaultEndpoint is the OpenAI chat completions URL
	DefaultEndpoint = "https://api.openai.com/v1/chat/completions"

	// DefaultModel is used when no model is configured
	DefaultModel = "gpt-3.5-turbo"
)

// Provider is the OpenAI provider adapter.
// It implements the providers.Provider interface for OpenAI's Chat Completions API.
type Provider struct {
	*providers.HTTPProvider
}

// NewProvider creates a new OpenAI provider instance.
// A nil client selects a default client without timeout.
func NewProvider(client *http.Client) *Provider {
	return &Provider{
		HTTPProvider: providers.NewHTTPProvider(providers.ProviderOpenAI, client),
	}
}

// GetCompletions sends the full message list to OpenAI.
func (p *Provider) GetCompletions(ctx context.Context, messages []providers.Message, cfg providers.ProviderConfig) (*providers.CompletionResult, error) {
	// Validate credentials before any network call
	token, err := providers.RequireToken(p.ID(), cfg, "OpenAI API token is required")
	if err != nil {
		return nil, err
	}

	model := providers.FirstNonEmpty(cfg.ResolvedModel(), DefaultModel)
	url := providers.FirstNonEmpty(cfg.Endpoint, DefaultEndpoint)

	// Prepare request
	req := NewChatRequest(model, messages)
	headers := map[string]string{
		"Authorization": "Bearer " + token,
		"Content-Type":  "application/json",
	}

	// Send request
	resp, err := p.DoRequest(ctx, http.MethodPost, url, req, headers, "failed to reach the OpenAI API")
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, MapError(p.ID(), resp, "invalid OpenAI API key, check your credentials")
	}

	var chatResp ChatResponse
	if err := p.DecodeJSON(resp, &chatResp); err != nil {
		return nil, err
	}

	p.Logger().Debug("completion request succeeded",
		"model", model,
		"tokens", chatResp.Usage.TotalTokens,
	)

	return TransformResponse(&chatResp), nil
}
