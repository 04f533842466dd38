package models

import "testing"

func TestOutcomeOf(t *testing.T) {
	tests := []struct {
		home, away int
		want       Outcome
	}{
		{30, 20, OutcomeWin},
		{18, 40, OutcomeLoss},
		{22, 22, OutcomeTie},
		{0, 0, OutcomeTie},
	}
	for _, tt := range tests {
		if got := OutcomeOf(tt.home, tt.away); got != tt.want {
			t.Errorf("OutcomeOf(%d, %d) = %s, want %s", tt.home, tt.away, got, tt.want)
		}
	}
}

func TestPointsFromStats(t *testing.T) {
	s := PlayerStats{FG2M: 4, FG2A: 9, FG3M: 2, FG3A: 5, FTM: 3, FTA: 4, Rebounds: 7}
	if got := PointsFromStats(s); got != 17 {
		t.Errorf("PointsFromStats = %d, want 17", got)
	}
	if got := PointsFromStats(PlayerStats{}); got != 0 {
		t.Errorf("PointsFromStats(zero) = %d, want 0", got)
	}
}

func TestGameFormatMaxPeriod(t *testing.T) {
	if got := GameFormatHalves.MaxPeriod(); got != 2 {
		t.Errorf("halves MaxPeriod = %d, want 2", got)
	}
	if got := GameFormatPeriods.MaxPeriod(); got != 4 {
		t.Errorf("periods MaxPeriod = %d, want 4", got)
	}
}
