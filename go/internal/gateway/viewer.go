package gateway

import (
	"context"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/narayan-iyengar/sahil-basketball-stats-sub000/go/internal/gameclock"
	"github.com/narayan-iyengar/sahil-basketball-stats-sub000/go/internal/models"
)

// broadcaster is what the hub needs to push frames to viewers.
type broadcaster interface {
	BroadcastToGame(gameID string, frame *Frame)
}

// ViewerHub runs one read-only projection session per watched game. Each
// session re-runs the clock projector against the latest pushed checkpoint on
// the display cadence and never writes anything. Sessions end when the last
// viewer leaves or the game is finalized.
type ViewerHub struct {
	clock clockwork.Clock
	bc    broadcaster

	mu       sync.Mutex
	sessions map[string]*viewerSession
}

type viewerSession struct {
	ticker *gameclock.Ticker
	cancel context.CancelFunc
}

// NewViewerHub creates the hub.
func NewViewerHub(clock clockwork.Clock, bc broadcaster) *ViewerHub {
	return &ViewerHub{
		clock:    clock,
		bc:       bc,
		sessions: make(map[string]*viewerSession),
	}
}

// Watch ensures a projection session exists for the game. Idempotent; a
// second call refreshes the checkpoint instead.
func (h *ViewerHub) Watch(gameID string, cp models.ClockCheckpoint) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if s, ok := h.sessions[gameID]; ok {
		s.ticker.Update(cp)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	ticker := gameclock.NewTicker(h.clock, cp, func(p gameclock.Projection) {
		h.bc.BroadcastToGame(gameID, clockTickFrame(gameID, p))
	})
	h.sessions[gameID] = &viewerSession{ticker: ticker, cancel: cancel}
	go ticker.Run(ctx)

	log.Debug().Str("game_id", gameID).Msg("viewer projection session started")
}

// UpdateCheckpoint replaces the checkpoint a running session projects from.
// No-op when nobody is watching.
func (h *ViewerHub) UpdateCheckpoint(gameID string, cp models.ClockCheckpoint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if s, ok := h.sessions[gameID]; ok {
		s.ticker.Update(cp)
	}
}

// Stop tears down the projection session for a game.
func (h *ViewerHub) Stop(gameID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if s, ok := h.sessions[gameID]; ok {
		s.cancel()
		delete(h.sessions, gameID)
		log.Debug().Str("game_id", gameID).Msg("viewer projection session stopped")
	}
}

// StopAll tears down every session.
func (h *ViewerHub) StopAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, s := range h.sessions {
		s.cancel()
		delete(h.sessions, id)
	}
}
