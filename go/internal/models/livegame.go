package models

import (
	"time"
)

// GameFormat controls how many periods a game has.
type GameFormat string

const (
	GameFormatHalves  GameFormat = "halves"
	GameFormatPeriods GameFormat = "periods"
)

// MaxPeriod returns the final period number for the format.
func (f GameFormat) MaxPeriod() int {
	if f == GameFormatHalves {
		return 2
	}
	return 4
}

// PlayerStats is the canonical nested counter record for a live game.
// Every counter is clamped at zero; made counts never exceed attempts.
type PlayerStats struct {
	FG2M      int `bson:"fg2m" json:"fg2m"`
	FG2A      int `bson:"fg2a" json:"fg2a"`
	FG3M      int `bson:"fg3m" json:"fg3m"`
	FG3A      int `bson:"fg3a" json:"fg3a"`
	FTM       int `bson:"ftm" json:"ftm"`
	FTA       int `bson:"fta" json:"fta"`
	Rebounds  int `bson:"rebounds" json:"rebounds"`
	Assists   int `bson:"assists" json:"assists"`
	Steals    int `bson:"steals" json:"steals"`
	Blocks    int `bson:"blocks" json:"blocks"`
	Fouls     int `bson:"fouls" json:"fouls"`
	Turnovers int `bson:"turnovers" json:"turnovers"`
}

// StatNames lists every counter key in PlayerStats.
func StatNames() []string {
	return []string{
		"fg2m", "fg2a", "fg3m", "fg3a", "ftm", "fta",
		"rebounds", "assists", "steals", "blocks", "fouls", "turnovers",
	}
}

// Value returns the counter for a stat key, and whether the key is known.
func (s PlayerStats) Value(name string) (int, bool) {
	switch name {
	case "fg2m":
		return s.FG2M, true
	case "fg2a":
		return s.FG2A, true
	case "fg3m":
		return s.FG3M, true
	case "fg3a":
		return s.FG3A, true
	case "ftm":
		return s.FTM, true
	case "fta":
		return s.FTA, true
	case "rebounds":
		return s.Rebounds, true
	case "assists":
		return s.Assists, true
	case "steals":
		return s.Steals, true
	case "blocks":
		return s.Blocks, true
	case "fouls":
		return s.Fouls, true
	case "turnovers":
		return s.Turnovers, true
	}
	return 0, false
}

// SetValue sets the counter for a stat key. Unknown keys are ignored.
func (s *PlayerStats) SetValue(name string, v int) {
	switch name {
	case "fg2m":
		s.FG2M = v
	case "fg2a":
		s.FG2A = v
	case "fg3m":
		s.FG3M = v
	case "fg3a":
		s.FG3A = v
	case "ftm":
		s.FTM = v
	case "fta":
		s.FTA = v
	case "rebounds":
		s.Rebounds = v
	case "assists":
		s.Assists = v
	case "steals":
		s.Steals = v
	case "blocks":
		s.Blocks = v
	case "fouls":
		s.Fouls = v
	case "turnovers":
		s.Turnovers = v
	}
}

// ClockCheckpoint is the persisted tuple from which every observer derives
// the remaining game time. Exactly one regime holds at a time: paused, where
// Clock is authoritative, or running, where ClockStartTime/ClockAtStart are
// set and remaining time is a projection against wall-clock now.
type ClockCheckpoint struct {
	IsRunning      bool  `bson:"isRunning" json:"is_running"`
	Clock          int   `bson:"clock" json:"clock"`
	ClockStartTime int64 `bson:"clockStartTime" json:"clock_start_time"`
	ClockAtStart   int   `bson:"clockAtStart" json:"clock_at_start"`
}

// LiveGame is the single shared mutable document for an in-progress game.
type LiveGame struct {
	ID              string      `bson:"_id" json:"id"`
	TeamName        string      `bson:"teamName" json:"team_name"`
	Opponent        string      `bson:"opponent" json:"opponent"`
	HomeScore       int         `bson:"homeScore" json:"home_score"`
	AwayScore       int         `bson:"awayScore" json:"away_score"`
	PlayerStats     PlayerStats `bson:"playerStats" json:"player_stats"`
	Period          int         `bson:"period" json:"period"`
	GameFormat      GameFormat  `bson:"gameFormat" json:"game_format"`
	PeriodLength    int         `bson:"periodLength" json:"period_length"`
	ClockCheckpoint `bson:",inline"`
	CreatedAt       time.Time `bson:"createdAt" json:"created_at"`
}

// MaxPeriod returns the final period number for this game.
func (g *LiveGame) MaxPeriod() int {
	return g.GameFormat.MaxPeriod()
}

// NewLiveGame builds the initial document for a freshly created live game:
// all counters zero, first period, full clock, paused.
func NewLiveGame(id, teamName, opponent string, format GameFormat, periodLength int, createdAt time.Time) *LiveGame {
	return &LiveGame{
		ID:           id,
		TeamName:     teamName,
		Opponent:     opponent,
		Period:       1,
		GameFormat:   format,
		PeriodLength: periodLength,
		ClockCheckpoint: ClockCheckpoint{
			Clock: periodLength * 60,
		},
		CreatedAt: createdAt,
	}
}
