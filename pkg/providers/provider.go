package providers

import "context"

// Provider is the core interface that all LLM provider adapters must implement.
// It provides a single chat-completion capability over heterogeneous vendor APIs
// (Hugging Face, OpenAI, Azure OpenAI, Anthropic, GitHub Models, or the offline mock).
//
// Implementations must:
//   - never mutate the messages slice passed in
//   - reject missing credentials with a *ConfigError before any network call
//   - return a typed error (see errors.go) when the remote call fails
//   - return empty content only for a genuinely empty successful vendor response
//
// The configuration is passed on every call rather than held by the provider, so a
// single instance can serve any configuration snapshot.
//
// Example usage:
//
//	provider := factory.GetProvider("openai")
//	result, err := provider.GetCompletions(ctx, []providers.Message{
//	    {Role: providers.RoleSystem, Content: "You are an expert formatter."},
//	    {Role: providers.RoleUser, Content: "Format: Hello world"},
//	}, cfg)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Content)
type Provider interface {
	// ID returns the provider identifier.
	ID() ProviderID

	// GetCompletions sends messages to the provider and returns the assistant reply.
	// Exactly one network attempt is made; errors are never retried.
	GetCompletions(ctx context.Context, messages []Message, cfg ProviderConfig) (*CompletionResult, error)
}

// ModelAvailabilityChecker is implemented by providers that can pre-validate a model
// choice without running a completion.
type ModelAvailabilityChecker interface {
	CheckModelAvailability(ctx context.Context, modelID, token string) ModelAvailability
}

// ModelLister is implemented by providers that expose a live model catalog.
type ModelLister interface {
	GetAvailableModels(ctx context.Context, token string) ([]RemoteModel, error)
}

// ModelAvailability is the verdict of a model availability check.
type ModelAvailability struct {
	// Available reports whether the model can serve requests right now
	Available bool `json:"available"`

	// Message explains why the model is unavailable (empty when available)
	Message string `json:"message,omitempty"`
}

// RemoteModel is a normalized entry of a vendor model catalog.
type RemoteModel struct {
	Value       string   `json:"value"`
	DisplayName string   `json:"displayName"`
	Publisher   string   `json:"publisher,omitempty"`
	Summary     string   `json:"summary,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}
