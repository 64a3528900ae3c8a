package cli

import (
	"fmt"
	"io"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a label while a completion is in flight.
// It draws nothing when its writer is not a terminal.
type Spinner struct {
	mu       sync.Mutex
	w        io.Writer
	label    string
	interval time.Duration
	enabled  bool
	started  time.Time
	stop     chan struct{}
	done     chan struct{}
}

// NewSpinner creates a Spinner writing to w.
func NewSpinner(w io.Writer, label string) *Spinner {
	return &Spinner{
		w:        w,
		label:    label,
		interval: 100 * time.Millisecond,
		enabled:  IsTerminal(w),
	}
}

// Start begins the animation. Calling Start on a running spinner is a no-op.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stop != nil {
		return
	}
	s.started = time.Now()
	if !s.enabled {
		return
	}

	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.run(s.stop, s.done)
}

func (s *Spinner) run(stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for frame := 0; ; frame++ {
		fmt.Fprintf(s.w, "\r%s %s (%.1fs)", spinnerFrames[frame%len(spinnerFrames)], s.label, time.Since(s.started).Seconds())

		select {
		case <-stop:
			fmt.Fprint(s.w, "\r\033[K")
			return
		case <-ticker.C:
		}
	}
}

// Stop ends the animation, clears the line and returns the elapsed time.
func (s *Spinner) Stop() time.Duration {
	s.mu.Lock()
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	elapsed := time.Since(s.started)
	s.mu.Unlock()

	if stop != nil {
		close(stop)
		<-done
	}
	return elapsed
}
