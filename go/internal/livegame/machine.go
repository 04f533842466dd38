package livegame

import (
	"time"

	"github.com/narayan-iyengar/sahil-basketball-stats-sub000/go/internal/gameclock"
	"github.com/narayan-iyengar/sahil-basketball-stats-sub000/go/internal/models"
)

// State is the derived position of a live game in its lifecycle. A period
// ending below the final period immediately lands back in StatePaused at the
// next period, so only the terminal expiry is a distinct observable state.
type State string

const (
	StatePaused    State = "PAUSED"
	StateRunning   State = "RUNNING"
	StateGameEnded State = "GAME_ENDED"
)

// StateOf derives the machine state from a persisted document.
func StateOf(g *models.LiveGame) State {
	if IsEnded(g) {
		return StateGameEnded
	}
	if g.IsRunning {
		return StateRunning
	}
	return StatePaused
}

// IsEnded reports the terminal condition: final period, clock exhausted,
// clock stopped. The only valid action from here is finalization.
func IsEnded(g *models.LiveGame) bool {
	return g.Period >= g.MaxPeriod() && !g.IsRunning && g.Clock == 0
}

// StartClock transitions Paused → Running. The remaining seconds at the
// moment of starting are captured as the new checkpoint origin.
func StartClock(g *models.LiveGame, now time.Time) Patch {
	remaining := gameclock.Remaining(g.ClockCheckpoint, now)
	return Patch{Set: map[string]any{
		"isRunning":      true,
		"clockStartTime": now.UnixMilli(),
		"clockAtStart":   remaining,
	}}
}

// PauseClock transitions Running → Paused, folding the elapsed wall-clock
// time into the authoritative clock value and clearing the start fields.
func PauseClock(g *models.LiveGame, now time.Time) Patch {
	remaining := gameclock.Remaining(g.ClockCheckpoint, now)
	return Patch{Set: map[string]any{
		"isRunning":      false,
		"clock":          remaining,
		"clockStartTime": int64(0),
		"clockAtStart":   0,
	}}
}

// ToggleClock flips between the two clock regimes.
func ToggleClock(g *models.LiveGame, now time.Time) Patch {
	if g.IsRunning {
		return PauseClock(g, now)
	}
	return StartClock(g, now)
}

// AutoStart returns the start transition when the clock is paused, so any
// scoring or stat action gets the game moving, and an empty patch otherwise.
func AutoStart(g *models.LiveGame, now time.Time) Patch {
	if g.IsRunning || IsEnded(g) {
		return Patch{}
	}
	return StartClock(g, now)
}

// AdvancePeriod is the operator-triggered advance. It reports false at the
// final period, where the action means end-of-game and the caller finalizes
// instead of transitioning.
func AdvancePeriod(g *models.LiveGame) (Patch, bool) {
	if g.Period >= g.MaxPeriod() {
		return Patch{}, false
	}
	return nextPeriodPatch(g), true
}

// ExpireClock handles a client-observed zero crossing while running. Below
// the final period the game auto-advances; at the final period the clock
// stops at zero pending operator confirmation (terminal=true). Either way the
// write carries a compare-and-swap on the period observed at read time, so a
// second observer racing on the same expiry writes nothing.
func ExpireClock(g *models.LiveGame) (Patch, bool) {
	if g.Period < g.MaxPeriod() {
		p := nextPeriodPatch(g)
		p.RequirePeriod = g.Period
		return p, false
	}
	return Patch{
		Set: map[string]any{
			"isRunning":      false,
			"clock":          0,
			"clockStartTime": int64(0),
			"clockAtStart":   0,
		},
		RequirePeriod: g.Period,
	}, true
}

func nextPeriodPatch(g *models.LiveGame) Patch {
	return Patch{Set: map[string]any{
		"period":         g.Period + 1,
		"clock":          g.PeriodLength * 60,
		"isRunning":      false,
		"clockStartTime": int64(0),
		"clockAtStart":   0,
	}}
}
