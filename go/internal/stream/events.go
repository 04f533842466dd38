package stream

import (
	"encoding/json"
	"time"

	"github.com/narayan-iyengar/sahil-basketball-stats-sub000/go/internal/models"
)

// EventType identifies a live game stream event.
type EventType string

const (
	// EventTypeGameUpdated carries the full post-write document snapshot.
	// Every committed write produces one, so subscribers converge on the
	// latest checkpoint without reading the store.
	EventTypeGameUpdated EventType = "GameUpdated"

	// EventTypeGameEnded signals finalization; the live document is gone.
	EventTypeGameEnded EventType = "GameEnded"
)

// Event is the envelope published per committed live game change.
type Event struct {
	ID        string          `json:"event_id"`
	GameID    string          `json:"game_id"`
	Type      EventType       `json:"event_type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// GameUpdatedPayload is the payload for a GameUpdated event.
type GameUpdatedPayload struct {
	Game models.LiveGame `json:"game"`
}

// GameEndedPayload is the payload for a GameEnded event.
type GameEndedPayload struct {
	GameID    string         `json:"game_id"`
	RecordID  string         `json:"record_id"`
	HomeScore int            `json:"home_score"`
	AwayScore int            `json:"away_score"`
	Outcome   models.Outcome `json:"outcome"`
	EndedAt   time.Time      `json:"ended_at"`
}
