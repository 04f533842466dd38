package gameclock

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/narayan-iyengar/sahil-basketball-stats-sub000/go/internal/models"
)

func startTicker(t *testing.T, fc *clockwork.FakeClock, cp models.ClockCheckpoint) (*Ticker, <-chan Projection) {
	t.Helper()
	ticks := make(chan Projection, 64)
	tk := NewTicker(fc, cp, func(p Projection) { ticks <- p })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go tk.Run(ctx)
	return tk, ticks
}

func waitTick(t *testing.T, ticks <-chan Projection) Projection {
	t.Helper()
	select {
	case p := <-ticks:
		return p
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for tick")
		return Projection{}
	}
}

func TestTickerCoarseCadence(t *testing.T) {
	fc := clockwork.NewFakeClock()
	start := fc.Now()
	_, ticks := startTicker(t, fc, models.ClockCheckpoint{
		IsRunning:      true,
		ClockStartTime: start.UnixMilli(),
		ClockAtStart:   600,
	})

	if p := waitTick(t, ticks); p.SecondsRemaining != 600 {
		t.Fatalf("initial tick = %d, want 600", p.SecondsRemaining)
	}

	// Above the final minute the ticker re-evaluates every second.
	fc.BlockUntil(1)
	fc.Advance(time.Second)
	if p := waitTick(t, ticks); p.SecondsRemaining != 599 {
		t.Fatalf("tick after 1s = %d, want 599", p.SecondsRemaining)
	}
}

func TestTickerFineCadenceInFinalMinute(t *testing.T) {
	fc := clockwork.NewFakeClock()
	start := fc.Now()
	_, ticks := startTicker(t, fc, models.ClockCheckpoint{
		IsRunning:      true,
		ClockStartTime: start.UnixMilli(),
		ClockAtStart:   45,
	})

	if p := waitTick(t, ticks); p.SecondsRemaining != 45 {
		t.Fatalf("initial tick = %d, want 45", p.SecondsRemaining)
	}

	// At or below 60 seconds the cadence drops to 100ms so tenths move.
	fc.BlockUntil(1)
	fc.Advance(100 * time.Millisecond)
	if p := waitTick(t, ticks); p.TenthsRemaining != 449 {
		t.Fatalf("tick after 100ms: TenthsRemaining = %v, want 449", p.TenthsRemaining)
	}
}

func TestTickerUpdateSwapsCheckpoint(t *testing.T) {
	fc := clockwork.NewFakeClock()
	tk, ticks := startTicker(t, fc, models.ClockCheckpoint{Clock: 300})

	if p := waitTick(t, ticks); p.SecondsRemaining != 300 {
		t.Fatalf("initial tick = %d, want 300", p.SecondsRemaining)
	}

	tk.Update(models.ClockCheckpoint{Clock: 25})
	fc.BlockUntil(1)
	fc.Advance(time.Second)
	if p := waitTick(t, ticks); p.SecondsRemaining != 25 {
		t.Fatalf("tick after update = %d, want 25", p.SecondsRemaining)
	}
}

func TestTickerStopsOnCancel(t *testing.T) {
	fc := clockwork.NewFakeClock()
	ticks := make(chan Projection, 64)
	tk := NewTicker(fc, models.ClockCheckpoint{Clock: 300}, func(p Projection) { ticks <- p })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		tk.Run(ctx)
		close(done)
	}()

	waitTick(t, ticks)
	fc.BlockUntil(1)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("ticker did not stop after cancel")
	}
}
