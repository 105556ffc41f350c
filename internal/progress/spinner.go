// Package progress provides a textual activity indicator for long scans.
package progress

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// DefaultInterval is the default delay between two spinner frames.
const DefaultInterval = 250 * time.Millisecond

//nolint:gochecknoglobals // Frame table
var frames = []string{"|", "/", "-", `\`}

// Spinner draws a rotating frame after a prefix until it is stopped.
//
// The drawing goroutine shares nothing with the caller except the completion
// signal sent by Stop. A nil *Spinner is valid and does nothing.
type Spinner struct {
	w        io.Writer
	prefix   string
	interval time.Duration

	mu       sync.Mutex
	done     chan struct{}
	finished chan struct{}
}

// New creates a spinner writing to w. A non-positive interval selects DefaultInterval.
func New(w io.Writer, prefix string, interval time.Duration) *Spinner {
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &Spinner{
		w:        w,
		prefix:   prefix,
		interval: interval,
	}
}

// Start launches the drawing goroutine. Calling Start on a running spinner has no effect.
func (s *Spinner) Start() {
	if s == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done != nil {
		return
	}

	s.done = make(chan struct{})
	s.finished = make(chan struct{})

	go s.run(s.done, s.finished)
}

func (s *Spinner) run(done <-chan struct{}, finished chan<- struct{}) {
	defer close(finished)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for frame := 0; ; frame = (frame + 1) % len(frames) {
		fmt.Fprintf(s.w, "\r\033[2K%s%s", s.prefix, frames[frame])

		select {
		case <-ticker.C:
		case <-done:
			// Clear the status line
			fmt.Fprint(s.w, "\r\033[2K\r")

			return
		}
	}
}

// Stop signals completion and waits until the spinner has cleared its line.
// It is safe to call Stop more than once, and before Start.
func (s *Spinner) Stop() {
	if s == nil {
		return
	}

	s.mu.Lock()
	done, finished := s.done, s.finished

	if done != nil {
		select {
		case <-done:
		default:
			close(done)
		}
	}
	s.mu.Unlock()

	if finished != nil {
		<-finished
	}
}
