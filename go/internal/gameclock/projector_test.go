package gameclock

import (
	"testing"
	"time"

	"github.com/narayan-iyengar/sahil-basketball-stats-sub000/go/internal/models"
)

func TestProjectPaused(t *testing.T) {
	now := time.Now()
	cp := models.ClockCheckpoint{Clock: 300}

	p := Project(cp, now)
	if p.SecondsRemaining != 300 {
		t.Errorf("SecondsRemaining = %d, want 300", p.SecondsRemaining)
	}
	if p.TenthsRemaining != 3000 {
		t.Errorf("TenthsRemaining = %v, want 3000", p.TenthsRemaining)
	}

	// Paused projection ignores wall-clock time entirely.
	later := Project(cp, now.Add(10*time.Minute))
	if later != p {
		t.Errorf("projection changed while paused: %+v vs %+v", later, p)
	}
}

func TestProjectRunning(t *testing.T) {
	start := time.UnixMilli(1_700_000_000_000)
	cp := models.ClockCheckpoint{
		IsRunning:      true,
		Clock:          600,
		ClockStartTime: start.UnixMilli(),
		ClockAtStart:   600,
	}

	tests := []struct {
		name        string
		elapsed     time.Duration
		wantSeconds int
		wantTenths  float64
	}{
		{"at start", 0, 600, 6000},
		{"mid period", 90 * time.Second, 510, 5100},
		{"sub-second elapsed floors", 1500 * time.Millisecond, 599, 5985},
		{"exactly exhausted", 600 * time.Second, 0, 0},
		{"past exhaustion clamps", 700 * time.Second, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Project(cp, start.Add(tt.elapsed))
			if p.SecondsRemaining != tt.wantSeconds {
				t.Errorf("SecondsRemaining = %d, want %d", p.SecondsRemaining, tt.wantSeconds)
			}
			if p.TenthsRemaining != tt.wantTenths {
				t.Errorf("TenthsRemaining = %v, want %v", p.TenthsRemaining, tt.wantTenths)
			}
		})
	}
}

func TestProjectIsDeterministic(t *testing.T) {
	start := time.UnixMilli(1_700_000_000_000)
	cp := models.ClockCheckpoint{
		IsRunning:      true,
		ClockStartTime: start.UnixMilli(),
		ClockAtStart:   120,
	}
	now := start.Add(37*time.Second + 400*time.Millisecond)

	first := Project(cp, now)
	for i := 0; i < 5; i++ {
		if got := Project(cp, now); got != first {
			t.Fatalf("projection not deterministic: %+v vs %+v", got, first)
		}
	}
}

func TestProjectionFormat(t *testing.T) {
	tests := []struct {
		name string
		p    Projection
		want string
	}{
		{"minutes and seconds", Projection{SecondsRemaining: 525, TenthsRemaining: 5250}, "08:45"},
		{"exactly one minute", Projection{SecondsRemaining: 60, TenthsRemaining: 600}, "01:00"},
		{"under a minute shows tenths", Projection{SecondsRemaining: 59, TenthsRemaining: 599}, "59.9"},
		{"final seconds", Projection{SecondsRemaining: 3, TenthsRemaining: 32}, "3.2"},
		{"zero", Projection{}, "0.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Format(); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}
