package livegame

import (
	"github.com/narayan-iyengar/sahil-basketball-stats-sub000/go/internal/models"
)

// Patch is one atomic update to a live game document: absolute field sets and
// atomic increments, addressed by the store's dot-path syntax. A single
// operator action always lands as a single patch so the checkpoint and stat
// invariants hold after every individual write.
type Patch struct {
	Set map[string]any
	Inc map[string]int

	// RequirePeriod, when non-zero, conditions the write on the persisted
	// period still matching. Used by the zero-crossing advance so two
	// observers racing on the same expiry cannot double-advance.
	RequirePeriod int
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return len(p.Set) == 0 && len(p.Inc) == 0
}

// Merge folds another patch into this one. Later sets win on key collision.
func (p Patch) Merge(other Patch) Patch {
	out := Patch{
		Set:           map[string]any{},
		Inc:           map[string]int{},
		RequirePeriod: p.RequirePeriod,
	}
	for k, v := range p.Set {
		out.Set[k] = v
	}
	for k, v := range other.Set {
		out.Set[k] = v
	}
	for k, v := range p.Inc {
		out.Inc[k] += v
	}
	for k, v := range other.Inc {
		out.Inc[k] += v
	}
	if other.RequirePeriod != 0 {
		out.RequirePeriod = other.RequirePeriod
	}
	return out
}

// ApplyTo mirrors the store's $set/$inc semantics onto an in-memory document,
// so the writer can publish the post-write snapshot without a second read.
func (p Patch) ApplyTo(g *models.LiveGame) {
	for k, v := range p.Set {
		applySet(g, k, v)
	}
	for k, d := range p.Inc {
		applyInc(g, k, d)
	}
}

func applySet(g *models.LiveGame, path string, v any) {
	switch path {
	case "isRunning":
		if b, ok := v.(bool); ok {
			g.IsRunning = b
		}
	case "clock":
		g.Clock = asInt(v)
	case "clockStartTime":
		switch t := v.(type) {
		case int64:
			g.ClockStartTime = t
		case int:
			g.ClockStartTime = int64(t)
		}
	case "clockAtStart":
		g.ClockAtStart = asInt(v)
	case "period":
		g.Period = asInt(v)
	case "homeScore":
		g.HomeScore = asInt(v)
	case "awayScore":
		g.AwayScore = asInt(v)
	default:
		if name, ok := statPath(path); ok {
			g.PlayerStats.SetValue(name, asInt(v))
		}
	}
}

func applyInc(g *models.LiveGame, path string, d int) {
	switch path {
	case "homeScore":
		g.HomeScore += d
	case "awayScore":
		g.AwayScore += d
	default:
		if name, ok := statPath(path); ok {
			if cur, known := g.PlayerStats.Value(name); known {
				g.PlayerStats.SetValue(name, cur+d)
			}
		}
	}
}

func statPath(path string) (string, bool) {
	const prefix = "playerStats."
	if len(path) > len(prefix) && path[:len(prefix)] == prefix {
		return path[len(prefix):], true
	}
	return "", false
}

func asInt(v any) int {
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	}
	return 0
}

// StatPatch converts a stat-rules patch into a store patch: absolute values
// for the coupled counters, an atomic increment for the realized score.
func StatPatch(sp map[string]int, scoreDelta int) Patch {
	p := Patch{Set: map[string]any{}, Inc: map[string]int{}}
	for name, v := range sp {
		p.Set["playerStats."+name] = v
	}
	if scoreDelta != 0 {
		p.Inc["homeScore"] = scoreDelta
	}
	return p
}
