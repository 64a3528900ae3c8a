package anthropic

import (
	"mercator-hq/textstudio/pkg/providers"
)

// Anthropic API request/response types

// AnthropicRequest represents an Anthropic messages request.
type AnthropicRequest struct {
	Model     string             `json:"model"`
	Messages  []AnthropicMessage `json:"messages"`
	System    string             `json:"system,omitempty"`
	MaxTokens int                `json:"max_tokens"`
}

// AnthropicMessage represents a message in Anthropic format.
type AnthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ContentBlock represents a content block in Anthropic format.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// AnthropicResponse represents an Anthropic messages response.
type AnthropicResponse struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Role       string         `json:"role"`
	Content    []ContentBlock `json:"content"`
	Model      string         `json:"model"`
	StopReason string         `json:"stop_reason"`
	Usage      AnthropicUsage `json:"usage"`
}

// AnthropicUsage represents token usage in Anthropic format.
type AnthropicUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// transformRequest transforms provider-agnostic messages to Anthropic format.
// The first system message becomes the top-level system field; the remaining
// messages keep their order, with every non-assistant role sent as user.
func transformRequest(model string, messages []providers.Message) *AnthropicRequest {
	req := &AnthropicRequest{
		Model:     model,
		Messages:  make([]AnthropicMessage, 0, len(messages)),
		MaxTokens: providers.DefaultMaxTokens,
	}

	if system, ok := providers.SystemMessage(messages); ok {
		req.System = system.Content
	}

	for _, msg := range messages {
		if msg.Role == providers.RoleSystem {
			continue
		}

		role := providers.RoleUser
		if msg.Role == providers.RoleAssistant {
			role = providers.RoleAssistant
		}
		req.Messages = append(req.Messages, AnthropicMessage{
			Role:    role,
			Content: msg.Content,
		})
	}

	return req
}

// transformResponse reads the first content block.
// A missing or empty block yields providers.NoResponseContent.
func transformResponse(resp *AnthropicResponse) *providers.CompletionResult {
	content := ""
	if len(resp.Content) > 0 {
		content = resp.Content[0].Text
	}
	if content == "" {
		content = providers.NoResponseContent
	}

	return &providers.CompletionResult{
		Role:    providers.RoleAssistant,
		Content: content,
	}
}
