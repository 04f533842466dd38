package models

import (
	"time"

	"github.com/google/uuid"
)

// Outcome classifies a finalized game from the home team's perspective.
type Outcome string

const (
	OutcomeWin  Outcome = "W"
	OutcomeLoss Outcome = "L"
	OutcomeTie  Outcome = "T"
)

// GameRecord is the immutable historical record produced when a live game is
// finalized. The live document is deleted in the same operation.
type GameRecord struct {
	ID          uuid.UUID   `json:"id"`
	TeamName    string      `json:"team_name"`
	Opponent    string      `json:"opponent"`
	HomeScore   int         `json:"home_score"`
	AwayScore   int         `json:"away_score"`
	Outcome     Outcome     `json:"outcome"`
	Points      int         `json:"points"`
	Stats       PlayerStats `json:"stats"`
	FinalizedAt time.Time   `json:"finalized_at"`
	FinalizedBy string      `json:"finalized_by"`
}

// CareerTotals aggregates every finalized game into one line.
type CareerTotals struct {
	Games  int         `json:"games"`
	Wins   int         `json:"wins"`
	Losses int         `json:"losses"`
	Ties   int         `json:"ties"`
	Points int         `json:"points"`
	Stats  PlayerStats `json:"stats"`
}

// OutcomeOf classifies a final score from the home side.
func OutcomeOf(homeScore, awayScore int) Outcome {
	switch {
	case homeScore > awayScore:
		return OutcomeWin
	case homeScore < awayScore:
		return OutcomeLoss
	default:
		return OutcomeTie
	}
}

// PointsFromStats derives the made-shot point total from the stat counters.
func PointsFromStats(s PlayerStats) int {
	return 2*s.FG2M + 3*s.FG3M + s.FTM
}
