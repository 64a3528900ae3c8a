package providers

import "fmt"

// ModelOption is a selectable model of a catalog entry.
type ModelOption struct {
	Value       string `json:"value"`
	DisplayName string `json:"displayName"`
}

// CatalogEntry is static reference metadata describing a provider's
// auth and model requirements. It drives configuration validity checks and UI,
// never runtime dispatch.
type CatalogEntry struct {
	ID               ProviderID    `json:"id"`
	DisplayName      string        `json:"displayName"`
	Description      string        `json:"description"`
	TokenRequired    bool          `json:"tokenRequired"`
	EndpointRequired bool          `json:"endpointRequired"`
	ModelOptions     []ModelOption `json:"modelOptions"`
	TokenHelpURL     string        `json:"tokenHelpUrl,omitempty"`
	TokenTip         string        `json:"tokenTip,omitempty"`
}

var catalog = []CatalogEntry{
	{
		ID:           ProviderMock,
		DisplayName:  "Demo Mode (No API)",
		Description:  "Uses pre-defined mock responses for demonstration purposes.",
		ModelOptions: []ModelOption{},
	},
	{
		ID:            ProviderHuggingFace,
		DisplayName:   "Hugging Face",
		Description:   "Connect to Hugging Face's Inference API with your token.",
		TokenRequired: true,
		ModelOptions: []ModelOption{
			{Value: "mistralai/Mistral-7B-Instruct-v0.2", DisplayName: "Mistral 7B Instruct"},
			{Value: "meta-llama/Llama-2-7b-chat-hf", DisplayName: "Meta Llama 2 7B Chat"},
			{Value: "tiiuae/falcon-7b-instruct", DisplayName: "Falcon 7B Instruct"},
			{Value: "gpt2", DisplayName: "GPT-2"},
			{Value: ModelCustom, DisplayName: "Custom model"},
		},
		TokenHelpURL: "https://huggingface.co/settings/tokens",
		TokenTip:     "Use an access token with the Inference permission",
	},
	{
		ID:            ProviderOpenAI,
		DisplayName:   "OpenAI",
		Description:   "Access to OpenAI's models like GPT-3.5 and GPT-4.",
		TokenRequired: true,
		ModelOptions: []ModelOption{
			{Value: "gpt-3.5-turbo", DisplayName: "GPT-3.5 Turbo"},
			{Value: "gpt-4", DisplayName: "GPT-4"},
			{Value: "gpt-4-turbo", DisplayName: "GPT-4 Turbo"},
		},
		TokenHelpURL: "https://platform.openai.com/api-keys",
	},
	{
		ID:               ProviderAzure,
		DisplayName:      "Azure OpenAI",
		Description:      "Microsoft Azure's OpenAI service with your own deployment.",
		TokenRequired:    true,
		EndpointRequired: true,
		ModelOptions: []ModelOption{
			{Value: "your-deployment-name", DisplayName: "Your Azure OpenAI Deployment"},
		},
		TokenHelpURL: "https://portal.azure.com/",
		TokenTip:     "Use the key and endpoint of your Azure OpenAI resource",
	},
	{
		ID:            ProviderAnthropic,
		DisplayName:   "Anthropic Claude",
		Description:   "Anthropic's Claude models for text generation.",
		TokenRequired: true,
		ModelOptions: []ModelOption{
			{Value: "claude-2", DisplayName: "Claude 2"},
			{Value: "claude-instant-1", DisplayName: "Claude Instant"},
		},
		TokenHelpURL: "https://console.anthropic.com/settings/keys",
	},
	{
		ID:            ProviderGitHub,
		DisplayName:   "GitHub Models",
		Description:   "Models hosted by GitHub Models, authenticated with a GitHub token.",
		TokenRequired: true,
		ModelOptions: []ModelOption{
			{Value: "openai/gpt-4o-mini", DisplayName: "OpenAI GPT-4o mini"},
			{Value: "openai/gpt-4o", DisplayName: "OpenAI GPT-4o"},
			{Value: "meta/Llama-3.3-70B-Instruct", DisplayName: "Llama 3.3 70B Instruct"},
			{Value: "mistral-ai/Mistral-Large-2411", DisplayName: "Mistral Large"},
			{Value: ModelCustom, DisplayName: "Custom model"},
		},
		TokenHelpURL: "https://github.com/settings/tokens",
		TokenTip:     "Create a fine-grained personal access token with the models:read permission",
	},
}

// Catalog returns a copy of every catalog entry in display order.
func Catalog() []CatalogEntry {
	out := make([]CatalogEntry, len(catalog))
	for i, entry := range catalog {
		out[i] = entry.clone()
	}
	return out
}

// LookupCatalog returns the catalog entry for id.
func LookupCatalog(id ProviderID) (CatalogEntry, bool) {
	for _, entry := range catalog {
		if entry.ID == id {
			return entry.clone(), true
		}
	}
	return CatalogEntry{}, false
}

// Validate reports the first requirement of the entry that cfg does not satisfy.
// It performs no network call.
func (e CatalogEntry) Validate(cfg ProviderConfig) error {
	if e.TokenRequired && cfg.TrimmedToken() == "" {
		return &ConfigError{
			Provider: e.ID,
			Field:    "token",
			Message:  fmt.Sprintf("%s requires an API token", e.DisplayName),
		}
	}
	if e.EndpointRequired && cfg.Endpoint == "" {
		return &ConfigError{
			Provider: e.ID,
			Field:    "endpoint",
			Message:  fmt.Sprintf("%s requires an endpoint URL", e.DisplayName),
		}
	}
	if cfg.Model == ModelCustom && cfg.ResolvedModel() == "" {
		return &ConfigError{
			Provider: e.ID,
			Field:    "customModel",
			Message:  "a custom model name is required when model is \"custom\"",
		}
	}
	return nil
}

func (e CatalogEntry) clone() CatalogEntry {
	options := make([]ModelOption, len(e.ModelOptions))
	copy(options, e.ModelOptions)
	e.ModelOptions = options
	return e
}
