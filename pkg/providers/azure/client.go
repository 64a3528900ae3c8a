// Package azure implements the Azure OpenAI provider adapter.
//
// Azure hosts OpenAI models behind per-resource deployments:
//
//	POST {endpoint}/openai/deployments/{deployment}/chat/completions?api-version=2023-05-15
//	api-key: {token}
//
// Token, endpoint and deployment (the configured model) are all required. Request
// and response bodies reuse the openai package wire types, without the model field.
package azure

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"mercator-hq/textstudio/pkg/providers"
	"mercator-hq/textstudio/pkg/providers/openai"
)

// APIVersion is the Azure OpenAI REST API version sent as a query parameter.
const APIVersion = "2023-05-15"

// Provider is the Azure OpenAI provider adapter.
type Provider struct {
	*providers.HTTPProvider
}

// NewProvider creates a new Azure OpenAI provider instance.
func NewProvider(client *http.Client) *Provider {
	return &Provider{
		HTTPProvider: providers.NewHTTPProvider(providers.ProviderAzure, client),
	}
}

// GetCompletions sends the full message list to the configured deployment.
func (p *Provider) GetCompletions(ctx context.Context, messages []providers.Message, cfg providers.ProviderConfig) (*providers.CompletionResult, error) {
	// Token and endpoint are hard preconditions
	token := cfg.TrimmedToken()
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if token == "" || endpoint == "" {
		field := "token"
		if token != "" {
			field = "endpoint"
		}
		return nil, &providers.ConfigError{
			Provider: p.ID(),
			Field:    field,
			Message:  "Azure OpenAI requires both an API token and an endpoint",
		}
	}

	deployment := cfg.ResolvedModel()
	if deployment == "" {
		return nil, &providers.ConfigError{
			Provider: p.ID(),
			Field:    "model",
			Message:  "Azure OpenAI requires a deployment name as the model",
		}
	}

	// The deployment is addressed by URL, so the body carries no model
	req := openai.NewChatRequest("", messages)
	headers := map[string]string{
		"api-key":      token,
		"Content-Type": "application/json",
	}

	resp, err := p.DoRequest(ctx, http.MethodPost, DeploymentURL(endpoint, deployment), req, headers, "failed to reach the Azure OpenAI endpoint")
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, openai.MapError(p.ID(), resp, "invalid Azure OpenAI API key, check the key of your Azure resource")
	}

	var chatResp openai.ChatResponse
	if err := p.DecodeJSON(resp, &chatResp); err != nil {
		return nil, err
	}

	return openai.TransformResponse(&chatResp), nil
}

// DeploymentURL builds the chat completions URL of a deployment.
func DeploymentURL(endpoint, deployment string) string {
	return strings.TrimRight(endpoint, "/") +
		"/openai/deployments/" + url.PathEscape(deployment) +
		"/chat/completions?api-version=" + APIVersion
}
