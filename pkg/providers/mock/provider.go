// Package mock implements the offline provider.
//
// The mock makes no network call. After a simulated delay it returns a canned
// markdown sample: a generation sample when the last user message looks like a
// keyword-style generation prompt, otherwise a formatting sample. It is the
// default provider and the fallback for unknown provider identifiers.
package mock

import (
	"context"
	"strings"
	"time"

	"mercator-hq/textstudio/pkg/providers"
)

// DefaultDelay is the simulated latency of a completion.
const DefaultDelay = 2 * time.Second

// GenerationMarker identifies generation prompts. Every generation template
// asks for a text "based on the following topic or keywords".
const GenerationMarker = "topic or keywords"

// GenerationSample is returned for generation prompts.
const GenerationSample = `# Generated Content

This is a generated response based on your keywords.

## Main Points

- First point about your topic
- Second important consideration
- Third interesting aspect

## Further Information

Here's more detailed information about what you requested. This is a mock response but in a real implementation, this would be generated by an AI model.`

// FormattingSample is returned for every other prompt.
const FormattingSample = `# Formatted Text

This is your text after formatting.

## Highlights

- Made it more concise
- Improved readability
- Added structure

The actual formatting would depend on the style you selected (social, blog, or minimal).`

// Provider is the offline mock provider.
type Provider struct {
	delay time.Duration
}

// NewProvider creates a mock provider with the given simulated delay.
// A negative delay is treated as zero.
func NewProvider(delay time.Duration) *Provider {
	if delay < 0 {
		delay = 0
	}
	return &Provider{delay: delay}
}

// ID returns providers.ProviderMock.
func (p *Provider) ID() providers.ProviderID {
	return providers.ProviderMock
}

// Delay returns the simulated delay.
func (p *Provider) Delay() time.Duration {
	return p.delay
}

// GetCompletions returns a canned sample after the simulated delay.
// It fails only when ctx is done before the delay elapses.
func (p *Provider) GetCompletions(ctx context.Context, messages []providers.Message, _ providers.ProviderConfig) (*providers.CompletionResult, error) {
	if p.delay > 0 {
		timer := time.NewTimer(p.delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	content := FormattingSample
	if last, ok := providers.LastUserMessage(messages); ok && IsGenerationPrompt(last.Content) {
		content = GenerationSample
	}

	return &providers.CompletionResult{
		Role:    providers.RoleAssistant,
		Content: content,
	}, nil
}

// IsGenerationPrompt reports whether content contains the generation marker.
func IsGenerationPrompt(content string) bool {
	return strings.Contains(strings.ToLower(content), GenerationMarker)
}
