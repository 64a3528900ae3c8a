package render

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// DefaultWordWrap is the terminal wrap width.
const DefaultWordWrap = 80

// TerminalRenderer styles markdown for a terminal.
type TerminalRenderer struct {
	mu       sync.Mutex
	renderer *glamour.TermRenderer
}

// NewTerminalRenderer creates a renderer wrapping at width columns.
// If glamour cannot be initialized, Render returns its input unchanged.
func NewTerminalRenderer(width int) *TerminalRenderer {
	if width <= 0 {
		width = DefaultWordWrap
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		r = nil
	}
	return &TerminalRenderer{renderer: r}
}

// Render returns the styled markdown, or the original text if rendering fails.
func (t *TerminalRenderer) Render(markdown string) string {
	if t == nil || t.renderer == nil {
		return markdown
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	out, err := t.renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return out
}
