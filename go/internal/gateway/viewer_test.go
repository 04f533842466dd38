package gateway

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/narayan-iyengar/sahil-basketball-stats-sub000/go/internal/gameclock"
	"github.com/narayan-iyengar/sahil-basketball-stats-sub000/go/internal/models"
)

type fakeBroadcaster struct {
	mu     sync.Mutex
	frames []*Frame
	ch     chan *Frame
}

func newFakeBroadcaster() *fakeBroadcaster {
	return &fakeBroadcaster{ch: make(chan *Frame, 64)}
}

func (b *fakeBroadcaster) BroadcastToGame(gameID string, frame *Frame) {
	b.mu.Lock()
	b.frames = append(b.frames, frame)
	b.mu.Unlock()
	b.ch <- frame
}

func (b *fakeBroadcaster) wait(t *testing.T) *Frame {
	t.Helper()
	select {
	case f := <-b.ch:
		return f
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for frame")
		return nil
	}
}

func decodeTick(t *testing.T, f *Frame) ClockTickData {
	t.Helper()
	if f.Type != FrameTypeClockTick {
		t.Fatalf("frame type = %s, want clock_tick", f.Type)
	}
	var data ClockTickData
	if err := json.Unmarshal(f.Data, &data); err != nil {
		t.Fatalf("decode tick: %v", err)
	}
	return data
}

func TestViewerHubBroadcastsTicks(t *testing.T) {
	fc := clockwork.NewFakeClock()
	bc := newFakeBroadcaster()
	hub := NewViewerHub(fc, bc)
	defer hub.StopAll()

	hub.Watch("g1", models.ClockCheckpoint{
		IsRunning:      true,
		ClockStartTime: fc.Now().UnixMilli(),
		ClockAtStart:   300,
	})

	f := bc.wait(t)
	if f.GameID != "g1" {
		t.Errorf("game id = %s, want g1", f.GameID)
	}
	if tick := decodeTick(t, f); tick.SecondsRemaining != 300 {
		t.Errorf("SecondsRemaining = %d, want 300", tick.SecondsRemaining)
	}

	fc.BlockUntil(1)
	fc.Advance(time.Second)
	if tick := decodeTick(t, bc.wait(t)); tick.SecondsRemaining != 299 {
		t.Errorf("SecondsRemaining after 1s = %d, want 299", tick.SecondsRemaining)
	}
}

func TestViewerHubWatchIsIdempotent(t *testing.T) {
	fc := clockwork.NewFakeClock()
	bc := newFakeBroadcaster()
	hub := NewViewerHub(fc, bc)
	defer hub.StopAll()

	hub.Watch("g1", models.ClockCheckpoint{Clock: 300})
	bc.wait(t)

	// A second Watch swaps the checkpoint instead of starting another session.
	hub.Watch("g1", models.ClockCheckpoint{Clock: 120})
	fc.BlockUntil(1)
	fc.Advance(time.Second)
	if tick := decodeTick(t, bc.wait(t)); tick.SecondsRemaining != 120 {
		t.Errorf("SecondsRemaining after rewatch = %d, want 120", tick.SecondsRemaining)
	}
}

func TestViewerHubUpdateCheckpoint(t *testing.T) {
	fc := clockwork.NewFakeClock()
	bc := newFakeBroadcaster()
	hub := NewViewerHub(fc, bc)
	defer hub.StopAll()

	hub.Watch("g1", models.ClockCheckpoint{Clock: 300})
	bc.wait(t)

	hub.UpdateCheckpoint("g1", models.ClockCheckpoint{Clock: 45})
	fc.BlockUntil(1)
	fc.Advance(time.Second)
	if tick := decodeTick(t, bc.wait(t)); tick.SecondsRemaining != 45 {
		t.Errorf("SecondsRemaining after push = %d, want 45", tick.SecondsRemaining)
	}

	// Updates for unwatched games are dropped.
	hub.UpdateCheckpoint("g2", models.ClockCheckpoint{Clock: 10})
}

func TestSnapshotFrame(t *testing.T) {
	g := models.NewLiveGame("g1", "Wildcats", "Hawks", models.GameFormatHalves, 20, time.Unix(0, 0))
	g.HomeScore = 12

	f := snapshotFrame(g, gameclock.Projection{SecondsRemaining: 1200, TenthsRemaining: 12000})
	if f.Type != FrameTypeSnapshot || f.GameID != "g1" {
		t.Fatalf("frame = %+v", f)
	}

	var data SnapshotData
	if err := json.Unmarshal(f.Data, &data); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if data.Game.HomeScore != 12 {
		t.Errorf("HomeScore = %d, want 12", data.Game.HomeScore)
	}
	if data.ClockDisplay != "20:00" {
		t.Errorf("ClockDisplay = %q, want 20:00", data.ClockDisplay)
	}
}
