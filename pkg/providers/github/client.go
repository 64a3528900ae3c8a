// Package github implements the GitHub Models provider adapter.
//
// Completions are posted to the fixed GitHub Models inference endpoint with bearer
// authentication and the GitHub REST headers:
//
//	Accept: application/vnd.github+json
//	X-GitHub-Api-Version: 2022-11-28
//
// The request and response bodies are OpenAI-shaped. GetAvailableModels lists
// the public model catalog for configuration UIs; it is not used on the
// completion path.
package github

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"mercator-hq/textstudio/pkg/providers"
	"mercator-hq/textstudio/pkg/providers/openai"
)

const (
	// DefaultBaseURL is the GitHub Models API host
	DefaultBaseURL = "https://models.github.ai"

	// DefaultModel is used when no model is configured
	DefaultModel = "openai/gpt-4o-mini"

	// APIVersion is sent as X-GitHub-Api-Version
	APIVersion = "2022-11-28"

	authGuidance = "check your GitHub token, it may be invalid or expired"
)

// Provider is the GitHub Models provider adapter.
// It implements providers.Provider and providers.ModelLister.
type Provider struct {
	*providers.HTTPProvider

	// BaseURL is the API host; the configured endpoint is not used
	BaseURL string
}

// NewProvider creates a new GitHub Models provider instance.
func NewProvider(client *http.Client) *Provider {
	return &Provider{
		HTTPProvider: providers.NewHTTPProvider(providers.ProviderGitHub, client),
		BaseURL:      DefaultBaseURL,
	}
}

// CatalogModel is a raw entry of the GitHub Models catalog.
type CatalogModel struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Publisher string   `json:"publisher"`
	Summary   string   `json:"summary"`
	Tags      []string `json:"tags"`
}

// GetCompletions sends the full message list to GitHub Models.
func (p *Provider) GetCompletions(ctx context.Context, messages []providers.Message, cfg providers.ProviderConfig) (*providers.CompletionResult, error) {
	token, err := providers.RequireToken(p.ID(), cfg, "GitHub API token is required")
	if err != nil {
		return nil, err
	}

	model := providers.FirstNonEmpty(cfg.ResolvedModel(), DefaultModel)
	req := openai.NewChatRequest(model, messages)

	resp, err := p.DoRequest(ctx, http.MethodPost, p.url("/inference/chat/completions"), req, p.headers(token, true),
		"connection error reaching the GitHub API, check your network connection")
	if err != nil {
		return nil, err
	}

	if !resp.OK() {
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return nil, &providers.AuthError{
				Provider: p.ID(),
				Guidance: authGuidance,
				Message:  fmt.Sprintf("status %d", resp.StatusCode),
			}
		case http.StatusNotFound:
			return nil, &providers.ModelNotFoundError{Provider: p.ID(), Model: model}
		default:
			return nil, &providers.VendorError{
				Provider:   p.ID(),
				StatusCode: resp.StatusCode,
				Message:    providers.FirstNonEmpty(providers.BodySnippet(resp), resp.StatusText()),
			}
		}
	}

	var chatResp openai.ChatResponse
	if err := p.DecodeJSON(resp, &chatResp); err != nil {
		return nil, err
	}

	p.Logger().Debug("completion request succeeded", "model", model)

	return openai.TransformResponse(&chatResp), nil
}

// GetAvailableModels fetches the GitHub Models catalog and normalizes it.
// The display name falls back to the model id.
func (p *Provider) GetAvailableModels(ctx context.Context, token string) ([]providers.RemoteModel, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, &providers.ConfigError{Provider: p.ID(), Field: "token", Message: "GitHub API token is required"}
	}

	resp, err := p.DoRequest(ctx, http.MethodGet, p.url("/catalog/models"), nil, p.headers(token, false),
		"connection error reaching the GitHub API, check your network connection")
	if err != nil {
		return nil, err
	}

	if !resp.OK() {
		if resp.StatusCode == http.StatusUnauthorized {
			return nil, &providers.AuthError{Provider: p.ID(), Guidance: "invalid GitHub token, check your credentials"}
		}
		return nil, &providers.VendorError{
			Provider:   p.ID(),
			StatusCode: resp.StatusCode,
			Message:    "check that the token and settings are correct",
		}
	}

	var catalog []CatalogModel
	if err := p.DecodeJSON(resp, &catalog); err != nil {
		return nil, err
	}

	models := make([]providers.RemoteModel, 0, len(catalog))
	for _, m := range catalog {
		models = append(models, providers.RemoteModel{
			Value:       m.ID,
			DisplayName: providers.FirstNonEmpty(m.Name, m.ID),
			Publisher:   m.Publisher,
			Summary:     m.Summary,
			Tags:        m.Tags,
		})
	}

	return models, nil
}

func (p *Provider) url(path string) string {
	return strings.TrimRight(p.BaseURL, "/") + path
}

func (p *Provider) headers(token string, withBody bool) map[string]string {
	headers := map[string]string{
		"Accept":               "application/vnd.github+json",
		"Authorization":        "Bearer " + token,
		"X-GitHub-Api-Version": APIVersion,
	}
	if withBody {
		headers["Content-Type"] = "application/json"
	}
	return headers
}
