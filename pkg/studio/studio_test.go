package studio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"mercator-hq/textstudio/pkg/providers"
)

type recordingCompleter struct {
	mu    sync.Mutex
	calls [][]providers.Message
	err   error
}

func (r *recordingCompleter) CreateCompletion(_ context.Context, messages []providers.Message) (*providers.CompletionResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = append(r.calls, messages)
	if r.err != nil {
		return nil, r.err
	}
	return &providers.CompletionResult{Role: providers.RoleAssistant, Content: fmt.Sprintf("reply %d", len(r.calls))}, nil
}

func TestHistory_Window(t *testing.T) {
	h := NewHistory()
	for i := 1; i <= 7; i++ {
		h.Append(providers.Message{Role: providers.RoleUser, Content: fmt.Sprintf("m%d", i)})
	}

	got := h.Messages()
	if len(got) != HistoryLimit {
		t.Fatalf("expected %d messages, got %d", HistoryLimit, len(got))
	}
	for i, msg := range got {
		want := fmt.Sprintf("m%d", i+3)
		if msg.Content != want {
			t.Errorf("position %d: expected %s, got %s", i, want, msg.Content)
		}
	}

	// Returned slice is a copy
	got[0].Content = "changed"
	if h.Messages()[0].Content != "m3" {
		t.Error("history mutated through returned slice")
	}

	h.Reset()
	if h.Len() != 0 {
		t.Errorf("expected empty history after reset, got %d", h.Len())
	}
}

func TestFormatter_Format(t *testing.T) {
	completer := &recordingCompleter{}
	f := NewFormatter(completer, NewPromptBook())

	result, err := f.Format(context.Background(), "  Hello world  ", StyleBlog)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if result.Content != "reply 1" {
		t.Errorf("unexpected content %q", result.Content)
	}

	msgs := completer.calls[0]
	if len(msgs) != 2 {
		t.Fatalf("expected system + user, got %d messages", len(msgs))
	}
	if msgs[0].Role != providers.RoleSystem || msgs[0].Content != FormatterSystemPrompt {
		t.Errorf("unexpected system message %+v", msgs[0])
	}
	wantUser := DefaultFormatPrompts()[StyleBlog] + "\n\nHello world"
	if msgs[1].Content != wantUser {
		t.Errorf("expected user content %q, got %q", wantUser, msgs[1].Content)
	}

	// Assistant reply is recorded for the next turn
	if f.History().Len() != 2 {
		t.Errorf("expected 2 history entries, got %d", f.History().Len())
	}
	if _, err := f.Format(context.Background(), "again", StyleBlog); err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if got := len(completer.calls[1]); got != 4 {
		t.Errorf("expected system + 3 history messages, got %d", got)
	}
}

func TestFormatter_HistoryCappedAcrossCalls(t *testing.T) {
	completer := &recordingCompleter{}
	f := NewFormatter(completer, NewPromptBook())

	for i := 0; i < 6; i++ {
		if _, err := f.Format(context.Background(), fmt.Sprintf("text %d", i), StyleSocial); err != nil {
			t.Fatalf("Format failed: %v", err)
		}
	}

	last := completer.calls[len(completer.calls)-1]
	if len(last) != 1+HistoryLimit {
		t.Errorf("expected system + %d history messages, got %d", HistoryLimit, len(last))
	}
	if last[len(last)-1].Role != providers.RoleUser {
		t.Errorf("expected last message to be the new user turn, got %s", last[len(last)-1].Role)
	}
}

func TestFormatter_UnknownStyleFallsBack(t *testing.T) {
	completer := &recordingCompleter{}
	f := NewFormatter(completer, NewPromptBook())

	if _, err := f.Format(context.Background(), "x", "brutalist"); err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if !strings.HasPrefix(completer.calls[0][1].Content, DefaultFormatPrompts()[StyleSocial]) {
		t.Errorf("expected social template, got %q", completer.calls[0][1].Content)
	}
}

func TestFormatter_EmptyInput(t *testing.T) {
	completer := &recordingCompleter{}
	f := NewFormatter(completer, NewPromptBook())

	if _, err := f.Format(context.Background(), "   ", StyleSocial); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
	if len(completer.calls) != 0 {
		t.Error("expected no completion call")
	}
}

func TestFormatter_ErrorKeepsUserTurn(t *testing.T) {
	completer := &recordingCompleter{err: errors.New("provider down")}
	f := NewFormatter(completer, NewPromptBook())

	if _, err := f.Format(context.Background(), "x", StyleSocial); err == nil {
		t.Fatal("expected error")
	}
	msgs := f.History().Messages()
	if len(msgs) != 1 || msgs[0].Role != providers.RoleUser {
		t.Errorf("expected only the user turn in history, got %+v", msgs)
	}
}

func TestGenerator_Generate(t *testing.T) {
	tests := []struct {
		name            string
		req             GenerateRequest
		wantTemplate    string
		wantInstruction string
	}{
		{
			name:            "defaults",
			req:             GenerateRequest{Keywords: "go, channels"},
			wantTemplate:    DefaultGeneratePrompts()[StyleNews],
			wantInstruction: "Response should be in Italian.",
		},
		{
			name:            "story in english",
			req:             GenerateRequest{Keywords: "go, channels", Style: StyleStory, Language: "english"},
			wantTemplate:    DefaultGeneratePrompts()[StyleStory],
			wantInstruction: "Response should be in English.",
		},
		{
			name:            "custom language",
			req:             GenerateRequest{Keywords: "go, channels", Style: StyleDiary, Language: "custom", CustomLanguage: "Klingon"},
			wantTemplate:    DefaultGeneratePrompts()[StyleDiary],
			wantInstruction: "Response should be in Klingon.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer := &recordingCompleter{}
			g := NewGenerator(completer, NewPromptBook())

			if _, err := g.Generate(context.Background(), tt.req); err != nil {
				t.Fatalf("Generate failed: %v", err)
			}

			msgs := completer.calls[0]
			if msgs[0].Content != GeneratorSystemPrompt {
				t.Errorf("unexpected system prompt %q", msgs[0].Content)
			}
			want := tt.wantTemplate + "\n\ngo, channels\n\n" + tt.wantInstruction
			if msgs[1].Content != want {
				t.Errorf("expected %q, got %q", want, msgs[1].Content)
			}
		})
	}
}

func TestLanguageInstruction(t *testing.T) {
	tests := []struct {
		language string
		custom   string
		want     string
	}{
		{language: "", want: "Response should be in Italian."},
		{language: "German", want: "Response should be in German."},
		{language: "klingon", want: "Response should be in Italian."},
		{language: "custom", custom: " Latin ", want: "Response should be in Latin."},
		{language: "custom", custom: "", want: "Response should be in Italian."},
	}

	for _, tt := range tests {
		if got := LanguageInstruction(tt.language, tt.custom); got != tt.want {
			t.Errorf("LanguageInstruction(%q, %q) = %q, want %q", tt.language, tt.custom, got, tt.want)
		}
	}
}

func TestPromptBook_Set(t *testing.T) {
	book := NewPromptBook()
	book.Set(Templates{Format: map[string]string{StyleSocial: "custom social:", "poster": "poster:"}})

	if got := book.FormatPrompt(StyleSocial); got != "custom social:" {
		t.Errorf("expected override, got %q", got)
	}
	if got := book.FormatPrompt("poster"); got != "poster:" {
		t.Errorf("expected new style, got %q", got)
	}
	if got := book.FormatPrompt(StyleMinimal); got != DefaultFormatPrompts()[StyleMinimal] {
		t.Errorf("expected default minimal template, got %q", got)
	}
	if got := book.GeneratePrompt(StyleEssay); got != DefaultGeneratePrompts()[StyleEssay] {
		t.Errorf("generate prompts should be unchanged, got %q", got)
	}

	snapshot := book.Templates()
	snapshot.Format[StyleSocial] = "mutated"
	if book.FormatPrompt(StyleSocial) == "mutated" {
		t.Error("prompt book mutated through snapshot")
	}
}
