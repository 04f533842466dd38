// Package stats is the single authority for shooting-stat bookkeeping: it
// clamps counters at zero, keeps every made count at or below its attempt
// count, and owns the "made shot changes the score" side effect so no other
// call site can drift from it.
package stats

import (
	"errors"
	"fmt"

	"github.com/narayan-iyengar/sahil-basketball-stats-sub000/go/internal/models"
)

// ErrUnknownStat is returned for a stat key outside the tracked counters.
var ErrUnknownStat = errors.New("unknown stat")

// attemptFor couples each made-shot counter to its attempt counter.
var attemptFor = map[string]string{
	"fg2m": "fg2a",
	"fg3m": "fg3a",
	"ftm":  "fta",
}

// madeFor is the inverse coupling, attempt counter to made counter.
var madeFor = map[string]string{
	"fg2a": "fg2m",
	"fg3a": "fg3m",
	"fta":  "ftm",
}

// pointValue is the score awarded per made shot of each kind.
var pointValue = map[string]int{
	"fg2m": 2,
	"fg3m": 3,
	"ftm":  1,
}

// Patch is the outcome of applying one stat delta: the counters that changed
// with their new absolute values, plus the realized home-score change. The
// score delta is computed from the applied counter change, not the requested
// delta, so a decrement clamped at zero never moves the score.
type Patch struct {
	Fields     map[string]int
	ScoreDelta int
}

// IsEmpty reports whether the delta changed nothing.
func (p Patch) IsEmpty() bool {
	return len(p.Fields) == 0
}

// ApplyDelta computes the counter patch for a single ±1 stat change against
// the current stats. Counters clamp at zero; made/attempt pairs are kept
// consistent in the same patch:
//
//   - incrementing a made count raises its attempt count in lock-step
//   - decrementing a made count drags attempts down only as far as the makes
//   - decrementing an attempt count forces makes down to the new attempts
func ApplyDelta(s models.PlayerStats, name string, delta int) (Patch, error) {
	old, ok := s.Value(name)
	if !ok {
		return Patch{}, fmt.Errorf("%w: %q", ErrUnknownStat, name)
	}

	newValue := old + delta
	if newValue < 0 {
		newValue = 0
	}
	realized := newValue - old
	if realized == 0 {
		return Patch{}, nil
	}

	patch := Patch{Fields: map[string]int{name: newValue}}

	if attempt, isMade := attemptFor[name]; isMade {
		oldAttempts, _ := s.Value(attempt)
		if realized > 0 {
			// Every made shot counts as an attempt.
			patch.Fields[attempt] = oldAttempts + realized
		} else {
			// Attempts follow the removed make down but never below makes.
			newAttempts := oldAttempts + realized
			if newAttempts < newValue {
				newAttempts = newValue
			}
			if newAttempts != oldAttempts {
				patch.Fields[attempt] = newAttempts
			}
		}
		patch.ScoreDelta = realized * pointValue[name]
		return patch, nil
	}

	if made, isAttempt := madeFor[name]; isAttempt && realized < 0 {
		oldMade, _ := s.Value(made)
		if oldMade > newValue {
			// Makes never exceed attempts; the forced-down makes also give
			// points back.
			patch.Fields[made] = newValue
			patch.ScoreDelta = (newValue - oldMade) * pointValue[made]
		}
	}

	return patch, nil
}
