package anthropic

import (
	"context"
	"net/http"

	"mercator-hq/textstudio/pkg/providers"
	"mercator-hq/textstudio/pkg/providers/openai"
)

const (
	// DefaultAnthropicVersion is the API version to use
	DefaultAnthropicVersion = "2023-06-01"

	// DefaultEndpoint is the Anthropic Messages API URL
	DefaultEndpoint = "https://api.anthropic.com/v1/messages"

	// DefaultModel is used when no model is configured
	DefaultModel = "claude-2"
)

// Provider is the Anthropic provider adapter.
// It implements the providers.Provider interface for Anthropic's Messages API.
type Provider struct {
	*providers.HTTPProvider
}

// NewProvider creates a new Anthropic provider instance.
func NewProvider(client *http.Client) *Provider {
	return &Provider{
		HTTPProvider: providers.NewHTTPProvider(providers.ProviderAnthropic, client),
	}
}

// GetCompletions sends a completion request to Anthropic.
func (p *Provider) GetCompletions(ctx context.Context, messages []providers.Message, cfg providers.ProviderConfig) (*providers.CompletionResult, error) {
	token, err := providers.RequireToken(p.ID(), cfg, "Anthropic API token is required")
	if err != nil {
		return nil, err
	}

	model := providers.FirstNonEmpty(cfg.ResolvedModel(), DefaultModel)

	// Transform to Anthropic format
	anthropicReq := transformRequest(model, messages)

	// Prepare request
	url := providers.FirstNonEmpty(cfg.Endpoint, DefaultEndpoint)
	headers := map[string]string{
		"x-api-key":         token,
		"anthropic-version": DefaultAnthropicVersion,
		"Content-Type":      "application/json",
	}

	// Send request
	resp, err := p.DoRequest(ctx, http.MethodPost, url, anthropicReq, headers, "failed to reach the Anthropic API")
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		// Anthropic uses the same {"error":{"message"}} envelope
		return nil, openai.MapError(p.ID(), resp, "invalid Anthropic API key, check your credentials")
	}

	var anthropicResp AnthropicResponse
	if err := p.DecodeJSON(resp, &anthropicResp); err != nil {
		return nil, err
	}

	p.Logger().Debug("completion request succeeded",
		"model", model,
		"input_tokens", anthropicResp.Usage.InputTokens,
		"output_tokens", anthropicResp.Usage.OutputTokens,
	)

	return transformResponse(&anthropicResp), nil
}
