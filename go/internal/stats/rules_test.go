package stats

import (
	"errors"
	"reflect"
	"testing"

	"github.com/narayan-iyengar/sahil-basketball-stats-sub000/go/internal/models"
)

func TestApplyDeltaUnknownStat(t *testing.T) {
	_, err := ApplyDelta(models.PlayerStats{}, "dunks", 1)
	if !errors.Is(err, ErrUnknownStat) {
		t.Fatalf("err = %v, want ErrUnknownStat", err)
	}
}

func TestApplyDelta(t *testing.T) {
	tests := []struct {
		name       string
		stats      models.PlayerStats
		stat       string
		delta      int
		wantFields map[string]int
		wantScore  int
	}{
		{
			name:       "made two raises attempts and score",
			stats:      models.PlayerStats{},
			stat:       "fg2m",
			delta:      1,
			wantFields: map[string]int{"fg2m": 1, "fg2a": 1},
			wantScore:  2,
		},
		{
			name:       "made three is worth three",
			stats:      models.PlayerStats{FG3M: 1, FG3A: 2},
			stat:       "fg3m",
			delta:      1,
			wantFields: map[string]int{"fg3m": 2, "fg3a": 3},
			wantScore:  3,
		},
		{
			name:       "free throw is worth one",
			stats:      models.PlayerStats{},
			stat:       "ftm",
			delta:      1,
			wantFields: map[string]int{"ftm": 1, "fta": 1},
			wantScore:  1,
		},
		{
			name:       "plain counter has no score effect",
			stats:      models.PlayerStats{Rebounds: 3},
			stat:       "rebounds",
			delta:      1,
			wantFields: map[string]int{"rebounds": 4},
			wantScore:  0,
		},
		{
			name:       "attempt increment alone",
			stats:      models.PlayerStats{FG2M: 1, FG2A: 1},
			stat:       "fg2a",
			delta:      1,
			wantFields: map[string]int{"fg2a": 2},
			wantScore:  0,
		},
		{
			name:       "made decrement gives points back",
			stats:      models.PlayerStats{FG2M: 2, FG2A: 2},
			stat:       "fg2m",
			delta:      -1,
			wantFields: map[string]int{"fg2m": 1, "fg2a": 1},
			wantScore:  -2,
		},
		{
			name:       "made decrement leaves extra attempts alone",
			stats:      models.PlayerStats{FG2M: 2, FG2A: 5},
			stat:       "fg2m",
			delta:      -1,
			wantFields: map[string]int{"fg2m": 1, "fg2a": 4},
			wantScore:  -2,
		},
		{
			name:       "attempt decrement forces makes down",
			stats:      models.PlayerStats{FG3M: 2, FG3A: 2},
			stat:       "fg3a",
			delta:      -1,
			wantFields: map[string]int{"fg3a": 1, "fg3m": 1},
			wantScore:  -3,
		},
		{
			name:       "attempt decrement above makes leaves them",
			stats:      models.PlayerStats{FTM: 1, FTA: 3},
			stat:       "fta",
			delta:      -1,
			wantFields: map[string]int{"fta": 2},
			wantScore:  0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ApplyDelta(tt.stats, tt.stat, tt.delta)
			if err != nil {
				t.Fatalf("ApplyDelta: %v", err)
			}
			if !reflect.DeepEqual(p.Fields, tt.wantFields) {
				t.Errorf("Fields = %v, want %v", p.Fields, tt.wantFields)
			}
			if p.ScoreDelta != tt.wantScore {
				t.Errorf("ScoreDelta = %d, want %d", p.ScoreDelta, tt.wantScore)
			}
		})
	}
}

func TestApplyDeltaClampedDecrementIsNoOp(t *testing.T) {
	for _, stat := range models.StatNames() {
		p, err := ApplyDelta(models.PlayerStats{}, stat, -1)
		if err != nil {
			t.Fatalf("ApplyDelta(%s): %v", stat, err)
		}
		if !p.IsEmpty() {
			t.Errorf("decrement of zeroed %s produced patch %v, want empty", stat, p.Fields)
		}
		if p.ScoreDelta != 0 {
			t.Errorf("decrement of zeroed %s moved score by %d", stat, p.ScoreDelta)
		}
	}
}
