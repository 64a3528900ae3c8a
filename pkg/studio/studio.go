// Package studio builds formatting and generation requests for the gateway.
//
// A Formatter and a Generator each own a conversation History. Every request
// is sent as the feature's system prompt followed by the trailing history;
// the user turn is recorded before the call and the assistant reply after a
// successful one.
package studio

import (
	"context"
	"errors"
	"strings"

	"mercator-hq/textstudio/pkg/providers"
)

// ErrEmptyInput is returned when the text or keywords are blank.
var ErrEmptyInput = errors.New("input text is empty")

// Completer sends a message list to the active provider.
// *gateway.Gateway implements it.
type Completer interface {
	CreateCompletion(ctx context.Context, messages []providers.Message) (*providers.CompletionResult, error)
}

// Formatter reformats user text in a selected style.
type Formatter struct {
	completer Completer
	prompts   *PromptBook
	history   *History
}

// NewFormatter creates a Formatter.
func NewFormatter(completer Completer, prompts *PromptBook) *Formatter {
	return &Formatter{
		completer: completer,
		prompts:   prompts,
		history:   NewHistory(),
	}
}

// Format sends text with the template of style.
func (f *Formatter) Format(ctx context.Context, text, style string) (*providers.CompletionResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyInput
	}

	prompt := f.prompts.FormatPrompt(style)
	return complete(ctx, f.completer, f.history, FormatterSystemPrompt, prompt+"\n\n"+text)
}

// History returns the formatter's conversation history.
func (f *Formatter) History() *History {
	return f.history
}

// GenerateRequest describes a generation.
type GenerateRequest struct {
	Keywords       string `json:"keywords"`
	Style          string `json:"style"`
	Language       string `json:"language"`
	CustomLanguage string `json:"customLanguage"`
}

// Generator produces prose from keywords in a selected style and language.
type Generator struct {
	completer Completer
	prompts   *PromptBook
	history   *History
}

// NewGenerator creates a Generator.
func NewGenerator(completer Completer, prompts *PromptBook) *Generator {
	return &Generator{
		completer: completer,
		prompts:   prompts,
		history:   NewHistory(),
	}
}

// Generate sends the keywords with the template of req.Style and a language instruction.
func (g *Generator) Generate(ctx context.Context, req GenerateRequest) (*providers.CompletionResult, error) {
	keywords := strings.TrimSpace(req.Keywords)
	if keywords == "" {
		return nil, ErrEmptyInput
	}

	prompt := g.prompts.GeneratePrompt(req.Style)
	instruction := LanguageInstruction(req.Language, req.CustomLanguage)
	return complete(ctx, g.completer, g.history, GeneratorSystemPrompt, prompt+"\n\n"+keywords+"\n\n"+instruction)
}

// History returns the generator's conversation history.
func (g *Generator) History() *History {
	return g.history
}

func complete(ctx context.Context, completer Completer, history *History, system, content string) (*providers.CompletionResult, error) {
	history.Append(providers.Message{Role: providers.RoleUser, Content: content})

	messages := append([]providers.Message{{Role: providers.RoleSystem, Content: system}}, history.Messages()...)

	result, err := completer.CreateCompletion(ctx, messages)
	if err != nil {
		return nil, err
	}

	history.Append(providers.Message{Role: providers.RoleAssistant, Content: result.Content})
	return result, nil
}
