package openai

import (
	"net/http"

	"mercator-hq/textstudio/pkg/providers"
)

// OpenAI chat completion wire types.
// Azure OpenAI and GitHub Models speak the same shape, so these are exported.

// ChatRequest represents an OpenAI chat completion request.
// Model is omitted for Azure, where the deployment is part of the URL.
type ChatRequest struct {
	Model       string        `json:"model,omitempty"`
	Messages    []ChatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

// ChatMessage represents a message in OpenAI format.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatResponse represents an OpenAI chat completion response.
type ChatResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []ChatChoice `json:"choices"`
	Usage   ChatUsage    `json:"usage"`
}

// ChatChoice represents a completion choice in OpenAI format.
type ChatChoice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// ChatUsage represents token usage in OpenAI format.
type ChatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// NewChatRequest builds a request with the shared sampling defaults.
// The caller's messages are copied, never aliased.
func NewChatRequest(model string, messages []providers.Message) *ChatRequest {
	return &ChatRequest{
		Model:       model,
		Messages:    TransformMessages(messages),
		MaxTokens:   providers.DefaultMaxTokens,
		Temperature: providers.DefaultTemperature,
	}
}

// TransformMessages converts provider-agnostic messages to OpenAI format.
// The OpenAI chat format matches the internal Message shape one to one.
func TransformMessages(messages []providers.Message) []ChatMessage {
	out := make([]ChatMessage, len(messages))
	for i, msg := range messages {
		out[i] = ChatMessage{Role: msg.Role, Content: msg.Content}
	}
	return out
}

// TransformResponse normalizes a chat completion response.
// Missing or empty content yields providers.NoResponseContent.
func TransformResponse(resp *ChatResponse) *providers.CompletionResult {
	content := ""
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
	}
	if content == "" {
		content = providers.NoResponseContent
	}

	return &providers.CompletionResult{
		Role:    providers.RoleAssistant,
		Content: content,
	}
}

// MapError converts a non-2xx OpenAI-shaped response into a typed error.
// 401 becomes *providers.AuthError with guidance; everything else is a
// *providers.VendorError carrying the vendor error.message or the status text.
func MapError(id providers.ProviderID, resp *providers.Response, authGuidance string) error {
	message := providers.VendorErrorMessage(resp)

	if resp.StatusCode == http.StatusUnauthorized {
		return &providers.AuthError{
			Provider: id,
			Guidance: authGuidance,
			Message:  message,
		}
	}

	return &providers.VendorError{
		Provider:   id,
		StatusCode: resp.StatusCode,
		Message:    message,
	}
}
