package gameclock

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/narayan-iyengar/sahil-basketball-stats-sub000/go/internal/models"
)

const (
	// coarseInterval is the re-evaluation cadence while more than a minute
	// remains; fineInterval kicks in for the final minute so tenths stay
	// accurate on screen.
	coarseInterval = time.Second
	fineInterval   = 100 * time.Millisecond
	fineThreshold  = 60
)

// Ticker re-evaluates a clock projection on a local cadence. Evaluation never
// touches the network: each tick projects the current checkpoint against the
// injected clock's now. The loop stops when its context is cancelled, and a
// checkpoint push replaces the projected source via Update.
type Ticker struct {
	clock  clockwork.Clock
	onTick func(Projection)

	mu sync.RWMutex
	cp models.ClockCheckpoint
}

// NewTicker creates a ticker over an initial checkpoint. onTick is invoked
// from the ticker goroutine on every re-evaluation, including the first.
func NewTicker(clock clockwork.Clock, cp models.ClockCheckpoint, onTick func(Projection)) *Ticker {
	return &Ticker{
		clock:  clock,
		onTick: onTick,
		cp:     cp,
	}
}

// Update replaces the checkpoint the ticker projects from. Takes effect on
// the next tick.
func (t *Ticker) Update(cp models.ClockCheckpoint) {
	t.mu.Lock()
	t.cp = cp
	t.mu.Unlock()
}

func (t *Ticker) checkpoint() models.ClockCheckpoint {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cp
}

// Run loops until ctx is cancelled. Call from its own goroutine.
func (t *Ticker) Run(ctx context.Context) {
	for {
		p := Project(t.checkpoint(), t.clock.Now())
		t.onTick(p)

		interval := coarseInterval
		if p.SecondsRemaining <= fineThreshold {
			interval = fineInterval
		}

		timer := t.clock.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.Chan():
		}
	}
}
