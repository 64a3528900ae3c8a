package providers

import "strings"

// Message represents a single turn in a conversation.
// It is provider-agnostic and is reshaped into vendor formats by each adapter.
// Messages are values: a new Message is appended, never mutated in place.
type Message struct {
	// Role identifies the message author (system, user, assistant)
	Role string `json:"role"`

	// Content is the message text content
	Content string `json:"content"`
}

// CompletionResult is the normalized shape every provider returns on success.
type CompletionResult struct {
	// Role is always RoleAssistant
	Role string `json:"role"`

	// Content is the generated markdown text
	Content string `json:"content"`
}

// ProviderID identifies one of the supported provider adapters.
// The set is closed; unknown identifiers are resolved to ProviderMock by the factory.
type ProviderID string

// Supported provider identifiers.
const (
	ProviderMock        ProviderID = "mock"
	ProviderHuggingFace ProviderID = "huggingface"
	ProviderOpenAI      ProviderID = "openai"
	ProviderAzure       ProviderID = "azure"
	ProviderAnthropic   ProviderID = "anthropic"
	ProviderGitHub      ProviderID = "github"
)

// AllProviderIDs lists every supported provider in catalog order.
var AllProviderIDs = []ProviderID{
	ProviderMock,
	ProviderHuggingFace,
	ProviderOpenAI,
	ProviderAzure,
	ProviderAnthropic,
	ProviderGitHub,
}

// ParseProviderID converts a raw identifier into a ProviderID.
// The second return value reports whether the identifier is known.
func ParseProviderID(s string) (ProviderID, bool) {
	id := ProviderID(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllProviderIDs {
		if id == known {
			return id, true
		}
	}
	return "", false
}

// String implements fmt.Stringer.
func (id ProviderID) String() string {
	return string(id)
}

// ProviderConfig is the user-facing configuration of the active provider.
// The same structure is persisted by the settings store and accepted by the
// gateway, so field names follow the stored JSON layout.
type ProviderConfig struct {
	// Provider is the provider identifier (mock, huggingface, openai, ...)
	Provider string `json:"provider" yaml:"provider" toml:"provider"`

	// Token is the API credential. May be empty for providers that do not require auth.
	Token string `json:"token" yaml:"token" toml:"token"`

	// Model is the model identifier, or ModelCustom to use CustomModel
	Model string `json:"model" yaml:"model" toml:"model"`

	// Endpoint optionally overrides the provider's default URL
	Endpoint string `json:"endpoint" yaml:"endpoint" toml:"endpoint"`

	// CustomModel is used when Model is ModelCustom
	CustomModel string `json:"customModel,omitempty" yaml:"custom_model" toml:"custom_model"`
}

// DefaultProviderConfig returns the configuration used before anything is configured.
func DefaultProviderConfig() ProviderConfig {
	return ProviderConfig{Provider: string(ProviderMock)}
}

// ResolvedModel returns the model that should be sent to the provider.
// When Model is ModelCustom the trimmed CustomModel is returned instead.
func (c ProviderConfig) ResolvedModel() string {
	if c.Model == ModelCustom {
		return strings.TrimSpace(c.CustomModel)
	}
	return strings.TrimSpace(c.Model)
}

// TrimmedToken returns the token without surrounding whitespace.
func (c ProviderConfig) TrimmedToken() string {
	return strings.TrimSpace(c.Token)
}

// MaskedToken returns a display-safe version of the token.
func (c ProviderConfig) MaskedToken() string {
	token := c.TrimmedToken()
	if token == "" {
		return ""
	}
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "****" + token[len(token)-4:]
}

// Message role constants
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ModelCustom is the model option value that selects ProviderConfig.CustomModel.
const ModelCustom = "custom"

// NoResponseContent is returned when a vendor answers successfully without content.
const NoResponseContent = "No response generated"

// Shared sampling defaults sent by every network-backed provider.
const (
	DefaultMaxTokens   = 1024
	DefaultTemperature = 0.7
)

// CloneMessages returns a copy of messages so adapters never alias the caller's slice.
func CloneMessages(messages []Message) []Message {
	out := make([]Message, len(messages))
	copy(out, messages)
	return out
}

// SystemMessage returns the first system message, if any.
func SystemMessage(messages []Message) (Message, bool) {
	for _, msg := range messages {
		if msg.Role == RoleSystem {
			return msg, true
		}
	}
	return Message{}, false
}

// LastUserMessage returns the most recent user message.
// If no user message exists, the last message of any role is returned.
func LastUserMessage(messages []Message) (Message, bool) {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser {
			return messages[i], true
		}
	}
	if len(messages) > 0 {
		return messages[len(messages)-1], true
	}
	return Message{}, false
}
