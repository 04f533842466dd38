package gateway

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/narayan-iyengar/sahil-basketball-stats-sub000/go/internal/gameclock"
	"github.com/narayan-iyengar/sahil-basketball-stats-sub000/go/internal/livegame"
	"github.com/narayan-iyengar/sahil-basketball-stats-sub000/go/internal/models"
)

// FrameType identifies a WebSocket frame sent to viewers.
type FrameType string

const (
	// FrameTypeSnapshot carries the full game document plus its projected
	// clock. Sent on attach and after every committed write.
	FrameTypeSnapshot FrameType = "snapshot"

	// FrameTypeClockTick is a purely local re-projection of the latest
	// checkpoint; no store traffic is involved.
	FrameTypeClockTick FrameType = "clock_tick"

	// FrameTypeGameEnded tells viewers the live document was finalized.
	FrameTypeGameEnded FrameType = "game_ended"

	// FrameTypeNotFound tells a viewer the game does not exist (either it
	// never did or it ended before they attached).
	FrameTypeNotFound FrameType = "not_found"
)

// Frame is the envelope for every viewer-bound message.
type Frame struct {
	Type   FrameType       `json:"type"`
	GameID string          `json:"game_id"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// SnapshotData is the payload of a snapshot frame.
type SnapshotData struct {
	Game             models.LiveGame `json:"game"`
	State            livegame.State  `json:"state"`
	SecondsRemaining int             `json:"seconds_remaining"`
	ClockDisplay     string          `json:"clock_display"`
}

// ClockTickData is the payload of a clock_tick frame.
type ClockTickData struct {
	SecondsRemaining int     `json:"seconds_remaining"`
	TenthsRemaining  float64 `json:"tenths_remaining"`
	ClockDisplay     string  `json:"clock_display"`
}

func newFrame(frameType FrameType, gameID string, payload any) *Frame {
	frame := &Frame{Type: frameType, GameID: gameID}
	if payload == nil {
		return frame
	}
	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("frame_type", string(frameType)).Msg("failed to marshal frame payload")
		return frame
	}
	frame.Data = data
	return frame
}

func snapshotFrame(g *models.LiveGame, p gameclock.Projection) *Frame {
	return newFrame(FrameTypeSnapshot, g.ID, SnapshotData{
		Game:             *g,
		State:            livegame.StateOf(g),
		SecondsRemaining: p.SecondsRemaining,
		ClockDisplay:     p.Format(),
	})
}

func clockTickFrame(gameID string, p gameclock.Projection) *Frame {
	return newFrame(FrameTypeClockTick, gameID, ClockTickData{
		SecondsRemaining: p.SecondsRemaining,
		TenthsRemaining:  p.TenthsRemaining,
		ClockDisplay:     p.Format(),
	})
}
