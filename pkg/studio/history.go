package studio

import (
	"sync"

	"mercator-hq/textstudio/pkg/providers"
)

// HistoryLimit is the number of most recent messages kept as context.
const HistoryLimit = 5

// History is a bounded, ordered record of prior turns.
// Appending beyond HistoryLimit drops the oldest entries first.
type History struct {
	mu       sync.Mutex
	messages []providers.Message
	limit    int
}

// NewHistory creates an empty history capped at HistoryLimit.
func NewHistory() *History {
	return &History{limit: HistoryLimit}
}

// Append adds msg and trims the window.
func (h *History) Append(msg providers.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.messages = append(h.messages, msg)
	if over := len(h.messages) - h.limit; over > 0 {
		// Copy so the backing array does not grow without bound
		trimmed := make([]providers.Message, h.limit)
		copy(trimmed, h.messages[over:])
		h.messages = trimmed
	}
}

// Messages returns a copy of the history in insertion order.
func (h *History) Messages() []providers.Message {
	h.mu.Lock()
	defer h.mu.Unlock()

	return providers.CloneMessages(h.messages)
}

// Len returns the number of messages held.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.messages)
}

// Reset clears the history.
func (h *History) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.messages = nil
}
