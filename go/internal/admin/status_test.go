package admin

import (
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestStatusTrackerLifecycle(t *testing.T) {
	fc := clockwork.NewFakeClock()
	tr := NewStatusTracker(fc)

	if s := tr.Status(); s != SaveStatusIdle {
		t.Fatalf("fresh tracker = %s, want idle", s)
	}

	tr.Saving()
	if s := tr.Status(); s != SaveStatusSaving {
		t.Fatalf("after Saving = %s, want saving", s)
	}

	tr.Resolve(nil)
	if s := tr.Status(); s != SaveStatusSuccess {
		t.Fatalf("after Resolve(nil) = %s, want success", s)
	}

	// Shy of the clear window the signal is still visible.
	fc.Advance(time.Second)
	if s := tr.Status(); s != SaveStatusSuccess {
		t.Fatalf("before clear window = %s, want success", s)
	}

	fc.Advance(300 * time.Millisecond)
	if s := tr.Status(); s != SaveStatusIdle {
		t.Fatalf("after clear window = %s, want idle", s)
	}
}

func TestStatusTrackerError(t *testing.T) {
	fc := clockwork.NewFakeClock()
	tr := NewStatusTracker(fc)

	tr.Saving()
	tr.Resolve(errors.New("write failed"))
	if s := tr.Status(); s != SaveStatusError {
		t.Fatalf("after Resolve(err) = %s, want error", s)
	}

	fc.Advance(2 * time.Second)
	if s := tr.Status(); s != SaveStatusIdle {
		t.Fatalf("error did not clear, got %s", s)
	}
}

func TestStatusTrackerNewerWriteSupersedesClear(t *testing.T) {
	fc := clockwork.NewFakeClock()
	tr := NewStatusTracker(fc)

	tr.Saving()
	tr.Resolve(nil)

	// A new write lands before the old clear fires; the stale clear must not
	// knock the fresh saving state back to idle.
	tr.Saving()
	fc.Advance(2 * time.Second)
	if s := tr.Status(); s != SaveStatusSaving {
		t.Fatalf("stale clear overrode in-flight save: %s", s)
	}
}
