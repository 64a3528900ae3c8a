package mock

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"mercator-hq/textstudio/pkg/providers"
)

func TestMockProvider_GetCompletions(t *testing.T) {
	tests := []struct {
		name     string
		messages []providers.Message
		want     string
	}{
		{
			name: "formatting prompt",
			messages: []providers.Message{
				{Role: providers.RoleSystem, Content: "You are an expert formatter..."},
				{Role: providers.RoleUser, Content: "Format: Hello world"},
			},
			want: FormattingSample,
		},
		{
			name: "generation prompt",
			messages: []providers.Message{
				{Role: providers.RoleUser, Content: "Write a news article based on the following Topic or Keywords:\n\ngo, concurrency"},
			},
			want: GenerationSample,
		},
		{
			name: "marker only in earlier turn",
			messages: []providers.Message{
				{Role: providers.RoleUser, Content: "topic or keywords"},
				{Role: providers.RoleAssistant, Content: "..."},
				{Role: providers.RoleUser, Content: "now format this"},
			},
			want: FormattingSample,
		},
		{
			name:     "no messages",
			messages: nil,
			want:     FormattingSample,
		},
	}

	provider := NewProvider(0)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := provider.GetCompletions(context.Background(), tt.messages, providers.ProviderConfig{})
			if err != nil {
				t.Fatalf("GetCompletions failed: %v", err)
			}
			if result.Role != providers.RoleAssistant {
				t.Errorf("expected role assistant, got %s", result.Role)
			}
			if result.Content != tt.want {
				t.Errorf("unexpected content %q", result.Content)
			}
			if !strings.HasPrefix(result.Content, "# ") {
				t.Errorf("expected a heading, got %q", result.Content)
			}
		})
	}
}

func TestMockProvider_Delay(t *testing.T) {
	provider := NewProvider(20 * time.Millisecond)

	start := time.Now()
	if _, err := provider.GetCompletions(context.Background(), nil, providers.ProviderConfig{}); err != nil {
		t.Fatalf("GetCompletions failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("expected at least 20ms delay, got %s", elapsed)
	}
}

func TestMockProvider_Cancelled(t *testing.T) {
	provider := NewProvider(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := provider.GetCompletions(ctx, nil, providers.ProviderConfig{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNewProvider_NegativeDelay(t *testing.T) {
	if d := NewProvider(-time.Second).Delay(); d != 0 {
		t.Errorf("expected zero delay, got %s", d)
	}
}
