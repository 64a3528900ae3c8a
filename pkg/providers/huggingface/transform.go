package huggingface

import (
	"strings"

	"mercator-hq/textstudio/pkg/providers"
)

// AssistantCue is the marker that ends the flattened prompt.
const AssistantCue = "Assistant: "

// GenerationRequest is the text-generation request body.
type GenerationRequest struct {
	Inputs     string               `json:"inputs"`
	Parameters GenerationParameters `json:"parameters"`
}

// GenerationParameters are the sampling parameters of a text-generation request.
type GenerationParameters struct {
	MaxNewTokens int     `json:"max_new_tokens"`
	Temperature  float64 `json:"temperature"`
	TopP         float64 `json:"top_p"`
	DoSample     bool    `json:"do_sample"`
}

// GenerationResponse is one text-generation result.
type GenerationResponse struct {
	GeneratedText string `json:"generated_text"`
}

// DefaultParameters returns the sampling parameters sent with every request.
func DefaultParameters() GenerationParameters {
	return GenerationParameters{
		MaxNewTokens: providers.DefaultMaxTokens,
		Temperature:  providers.DefaultTemperature,
		TopP:         0.9,
		DoSample:     true,
	}
}

// BuildPrompt flattens a conversation into a single completion prompt:
//
//	System: {first system message}
//
//	User: ...
//
//	Assistant: ...
//
//	User: {last message}
//
//	Assistant:
//
// The last message is always rendered as the user turn.
func BuildPrompt(messages []providers.Message) string {
	var b strings.Builder

	if system, ok := providers.SystemMessage(messages); ok {
		b.WriteString("System: " + system.Content + "\n\n")
	}

	for i := 0; i < len(messages)-1; i++ {
		msg := messages[i]
		if msg.Role == providers.RoleSystem {
			continue
		}
		label := "Assistant"
		if msg.Role == providers.RoleUser {
			label = "User"
		}
		b.WriteString(label + ": " + msg.Content + "\n\n")
	}

	last := ""
	if len(messages) > 0 {
		last = messages[len(messages)-1].Content
	}
	b.WriteString("User: " + last + "\n\n" + AssistantCue)

	return b.String()
}

// StripPrompt keeps the text after the last assistant cue.
// If nothing follows the cue the full text is returned.
//
// Models that echo the cue mid-generation lose everything before the echo;
// the behavior is kept as-is.
func StripPrompt(generated string) string {
	idx := strings.LastIndex(generated, AssistantCue)
	if idx < 0 {
		return generated
	}
	if reply := generated[idx+len(AssistantCue):]; reply != "" {
		return reply
	}
	return generated
}
