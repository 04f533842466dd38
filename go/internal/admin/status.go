package admin

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// SaveStatus is the transient feedback signal for operator writes.
type SaveStatus string

const (
	SaveStatusIdle    SaveStatus = "idle"
	SaveStatusSaving  SaveStatus = "saving"
	SaveStatusSuccess SaveStatus = "success"
	SaveStatusError   SaveStatus = "error"
)

// statusClearAfter is how long a resolved status stays visible.
const statusClearAfter = 1200 * time.Millisecond

// StatusTracker tracks the save state of one live game's write pipeline.
// A write in flight shows saving; a resolved write shows success or error
// briefly, then clears back to idle.
type StatusTracker struct {
	clock clockwork.Clock

	mu     sync.Mutex
	status SaveStatus
	gen    int
}

// NewStatusTracker returns an idle tracker.
func NewStatusTracker(clock clockwork.Clock) *StatusTracker {
	return &StatusTracker{clock: clock, status: SaveStatusIdle}
}

// Saving marks a write as in flight. Cancels any pending clear.
func (t *StatusTracker) Saving() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gen++
	t.status = SaveStatusSaving
}

// Resolve records the outcome of the in-flight write and schedules the
// auto-clear.
func (t *StatusTracker) Resolve(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		t.status = SaveStatusError
	} else {
		t.status = SaveStatusSuccess
	}
	t.gen++
	gen := t.gen
	t.clock.AfterFunc(statusClearAfter, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		// A newer write superseded this clear.
		if t.gen == gen {
			t.status = SaveStatusIdle
		}
	})
}

// Status returns the current signal.
func (t *StatusTracker) Status() SaveStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}
