package gameclock

import (
	"fmt"
	"time"

	"github.com/narayan-iyengar/sahil-basketball-stats-sub000/go/internal/models"
)

// Projection is the live remaining time derived from a checkpoint and a
// caller-supplied wall-clock instant.
type Projection struct {
	SecondsRemaining int
	TenthsRemaining  float64
}

// Project maps a persisted clock checkpoint plus "now" to the remaining time.
// While paused the stored clock value is authoritative; while running the
// remaining time is clockAtStart minus the wall-clock elapsed since
// clockStartTime, floored at zero. Pure and deterministic: the only time
// dependency is the now argument.
func Project(cp models.ClockCheckpoint, now time.Time) Projection {
	if !cp.IsRunning {
		return Projection{
			SecondsRemaining: cp.Clock,
			TenthsRemaining:  float64(cp.Clock) * 10,
		}
	}

	elapsedMs := now.UnixMilli() - cp.ClockStartTime
	seconds := cp.ClockAtStart - int(elapsedMs/1000)
	if seconds < 0 {
		seconds = 0
	}

	remainingMs := int64(cp.ClockAtStart)*1000 - elapsedMs
	if remainingMs < 0 {
		remainingMs = 0
	}

	return Projection{
		SecondsRemaining: seconds,
		TenthsRemaining:  float64(remainingMs) / 100,
	}
}

// Remaining is a shorthand for the projected whole seconds.
func Remaining(cp models.ClockCheckpoint, now time.Time) int {
	return Project(cp, now).SecondsRemaining
}

// Format renders a projection for display: under a minute the clock shows
// tenths ("12.3"), otherwise zero-padded minutes and seconds ("08:45").
func (p Projection) Format() string {
	if p.SecondsRemaining >= 60 {
		return fmt.Sprintf("%02d:%02d", p.SecondsRemaining/60, p.SecondsRemaining%60)
	}
	tenths := int(p.TenthsRemaining)
	return fmt.Sprintf("%d.%d", tenths/10, tenths%10)
}
