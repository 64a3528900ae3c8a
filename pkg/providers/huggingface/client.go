package huggingface

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"mercator-hq/textstudio/pkg/providers"
)

const (
	// DefaultBaseURL is the Hugging Face Inference API host
	DefaultBaseURL = "https://api-inference.huggingface.co"

	// DefaultModel is used when no model is configured
	DefaultModel = "mistralai/Mistral-7B-Instruct-v0.2"

	authGuidance = "make sure you are using a Hugging Face Inference API token, not a standard user access token"
)

// Provider is the Hugging Face Inference API adapter.
// It implements providers.Provider and providers.ModelAvailabilityChecker.
type Provider struct {
	*providers.HTTPProvider

	// BaseURL is the inference host used for default endpoints and availability checks
	BaseURL string
}

// NewProvider creates a new Hugging Face provider instance.
func NewProvider(client *http.Client) *Provider {
	return &Provider{
		HTTPProvider: providers.NewHTTPProvider(providers.ProviderHuggingFace, client),
		BaseURL:      DefaultBaseURL,
	}
}

// GetCompletions flattens the conversation into a single prompt and runs text generation.
func (p *Provider) GetCompletions(ctx context.Context, messages []providers.Message, cfg providers.ProviderConfig) (*providers.CompletionResult, error) {
	token, err := providers.RequireToken(p.ID(), cfg, "Hugging Face API token is required")
	if err != nil {
		return nil, err
	}

	model := providers.FirstNonEmpty(cfg.ResolvedModel(), DefaultModel)
	url := providers.FirstNonEmpty(cfg.Endpoint, p.modelURL(model))

	req := &GenerationRequest{
		Inputs:     BuildPrompt(messages),
		Parameters: DefaultParameters(),
	}
	headers := map[string]string{
		"Authorization": "Bearer " + token,
		"Content-Type":  "application/json",
	}

	p.Logger().Debug("using model endpoint", "endpoint", url, "model", model)

	resp, err := p.DoRequest(ctx, http.MethodPost, url, req, headers, "failed to reach the Hugging Face Inference API")
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, p.mapError(resp, model)
	}

	text, err := p.extractGeneratedText(resp)
	if err != nil {
		return nil, err
	}

	return &providers.CompletionResult{
		Role:    providers.RoleAssistant,
		Content: text,
	}, nil
}

// CheckModelAvailability performs a lightweight GET against the inference host
// and maps the status to an availability verdict. It never returns an error;
// failures are reported in the verdict message.
func (p *Provider) CheckModelAvailability(ctx context.Context, modelID, token string) providers.ModelAvailability {
	modelID = strings.TrimSpace(modelID)
	token = strings.TrimSpace(token)
	if modelID == "" || token == "" {
		return providers.ModelAvailability{Message: "model ID and token are required"}
	}

	headers := map[string]string{
		"Authorization": "Bearer " + token,
	}

	resp, err := p.DoRequest(ctx, http.MethodGet, p.modelURL(modelID), nil, headers, "failed to check model")
	if err != nil {
		return providers.ModelAvailability{Message: fmt.Sprintf("error while checking the model: %v", err)}
	}
	if resp.OK() {
		return providers.ModelAvailability{Available: true}
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return providers.ModelAvailability{Message: "invalid Inference API token: " + authGuidance}
	case http.StatusNotFound:
		return providers.ModelAvailability{Message: fmt.Sprintf("model %q not found, check that the model ID is correct", modelID)}
	case http.StatusServiceUnavailable:
		return providers.ModelAvailability{Message: fmt.Sprintf("model %q is not currently available, it may be loading or no longer supported", modelID)}
	default:
		return providers.ModelAvailability{Message: fmt.Sprintf("error checking model: %d", resp.StatusCode)}
	}
}

func (p *Provider) modelURL(model string) string {
	return strings.TrimRight(p.BaseURL, "/") + "/models/" + model
}

// mapError distinguishes failure causes by HTTP status.
func (p *Provider) mapError(resp *providers.Response, model string) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return &providers.AuthError{
			Provider: p.ID(),
			Guidance: authGuidance,
			Message:  fmt.Sprintf("%d %s", resp.StatusCode, providers.BodySnippet(resp)),
		}
	case http.StatusNotFound:
		return &providers.ModelNotFoundError{Provider: p.ID(), Model: model}
	case http.StatusServiceUnavailable:
		return &providers.UnavailableError{Provider: p.ID(), Model: model}
	default:
		return &providers.VendorError{
			Provider:   p.ID(),
			StatusCode: resp.StatusCode,
			Message:    providers.FirstNonEmpty(providers.BodySnippet(resp), resp.StatusText()),
		}
	}
}

// extractGeneratedText reads generated_text from an array or object response
// and isolates the reply after the last assistant cue.
func (p *Provider) extractGeneratedText(resp *providers.Response) (string, error) {
	body := strings.TrimSpace(string(resp.Body))

	var generated string
	if strings.HasPrefix(body, "[") {
		var items []GenerationResponse
		if err := p.DecodeJSON(resp, &items); err != nil {
			return "", err
		}
		if len(items) > 0 {
			generated = items[0].GeneratedText
		}
	} else {
		var item GenerationResponse
		if err := p.DecodeJSON(resp, &item); err != nil {
			return "", err
		}
		generated = item.GeneratedText
	}

	return StripPrompt(generated), nil
}
