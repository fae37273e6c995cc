package activity

import (
	"context"
	"sync"
)

// CaptureHook collects every event it is notified with so tests can assert
// on the exact sequence a session emitted. Set Err to simulate a failing
// sink.
type CaptureHook struct {
	mu     sync.Mutex
	Events []Event
	Err    error
}

// Notify appends the normalized event and returns the configured error.
func (h *CaptureHook) Notify(_ context.Context, event Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Events = append(h.Events, NormalizeEvent(event))
	return h.Err
}

// Last returns the most recently captured event.
func (h *CaptureHook) Last() (Event, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.Events) == 0 {
		return Event{}, false
	}
	return h.Events[len(h.Events)-1], true
}
