package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/narayan-iyengar/sahil-basketball-stats-sub000/go/internal/gameclock"
	"github.com/narayan-iyengar/sahil-basketball-stats-sub000/go/internal/livegame"
	"github.com/narayan-iyengar/sahil-basketball-stats-sub000/go/internal/models"
)

// StateProvider loads the current live game document for the initial frame.
type StateProvider interface {
	Get(ctx context.Context, gameID string) (*models.LiveGame, error)
}

// PresenceRegistry records which game a viewer is watching. Entries carry a
// TTL so a crashed gateway cannot leave viewers marked online forever.
type PresenceRegistry interface {
	SetViewing(ctx context.Context, userID, gameID string) error
	ClearViewing(ctx context.Context, userID string) error
	Viewers(ctx context.Context, gameID string) ([]string, error)
}

// WebSocketHandler attaches viewers to games. After the upgrade it sends one
// snapshot (or not_found) and hands the connection to the manager; everything
// after that is push-only.
type WebSocketHandler struct {
	manager  *ConnectionManager
	hub      *ViewerHub
	state    StateProvider
	presence PresenceRegistry
	clock    clockwork.Clock
}

// NewWebSocketHandler creates the viewer attach handler. presence may be nil.
func NewWebSocketHandler(manager *ConnectionManager, hub *ViewerHub, state StateProvider, presence PresenceRegistry, clock clockwork.Clock) *WebSocketHandler {
	h := &WebSocketHandler{
		manager:  manager,
		hub:      hub,
		state:    state,
		presence: presence,
		clock:    clock,
	}
	manager.SetOnDisconnect(h.handleDisconnect)
	return h
}

// RegisterRoutes registers the viewer-facing routes.
func (h *WebSocketHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /ws/game", h.HandleGameConnection)
	mux.HandleFunc("GET /ws/stats", h.HandleStats)
	mux.HandleFunc("GET /api/live/{id}/viewers", h.HandleViewers)
	log.Info().Msg("gateway routes registered")
}

// HandleGameConnection upgrades a viewer WebSocket for a single game.
// Viewers may be anonymous; no identity is required to watch.
func (h *WebSocketHandler) HandleGameConnection(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("game_id")
	if gameID == "" {
		http.Error(w, "game_id query parameter required", http.StatusBadRequest)
		return
	}
	userID := r.URL.Query().Get("uid")
	if userID == "" {
		userID = "anonymous"
	}

	conn, err := h.manager.UpgradeConnection(w, r, userID, gameID)
	if err != nil {
		log.Error().
			Err(err).
			Str("game_id", gameID).
			Msg("failed to upgrade viewer connection")
		return
	}

	if h.presence != nil && userID != "anonymous" {
		if err := h.presence.SetViewing(r.Context(), userID, gameID); err != nil {
			log.Warn().
				Err(err).
				Str("user_id", userID).
				Msg("failed to record viewer presence")
		}
	}

	h.sendInitialFrame(r.Context(), conn, gameID)
}

func (h *WebSocketHandler) sendInitialFrame(ctx context.Context, conn *Connection, gameID string) {
	g, err := h.state.Get(ctx, gameID)
	if err != nil {
		if errors.Is(err, livegame.ErrNotFound) {
			h.send(conn, newFrame(FrameTypeNotFound, gameID, nil))
			return
		}
		log.Error().
			Err(err).
			Str("game_id", gameID).
			Msg("failed to load game for initial snapshot")
		return
	}

	p := gameclock.Project(g.ClockCheckpoint, h.clock.Now())
	h.send(conn, snapshotFrame(g, p))
	h.hub.Watch(gameID, g.ClockCheckpoint)
}

func (h *WebSocketHandler) send(conn *Connection, frame *Frame) {
	data, err := json.Marshal(frame)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal initial frame")
		return
	}
	select {
	case conn.Send <- data:
	default:
		log.Warn().
			Str("connection_id", conn.ID).
			Msg("send buffer full on attach")
	}
}

func (h *WebSocketHandler) handleDisconnect(conn *Connection) {
	if h.presence == nil || conn.UserID == "anonymous" {
		return
	}
	if err := h.presence.ClearViewing(context.Background(), conn.UserID); err != nil {
		log.Warn().
			Err(err).
			Str("user_id", conn.UserID).
			Msg("failed to clear viewer presence")
	}
}

// HandleViewers reports who is watching a game: the live WebSocket count plus
// the signed-in viewers recorded in presence. Anonymous viewers show up in the
// count but not the list.
func (h *WebSocketHandler) HandleViewers(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")

	resp := struct {
		GameID      string   `json:"gameId"`
		Connections int      `json:"connections"`
		Viewers     []string `json:"viewers"`
	}{
		GameID:      gameID,
		Connections: h.manager.ViewerCount(gameID),
		Viewers:     []string{},
	}

	if h.presence != nil {
		viewers, err := h.presence.Viewers(r.Context(), gameID)
		if err != nil {
			log.Error().
				Err(err).
				Str("game_id", gameID).
				Msg("failed to list viewers")
			http.Error(w, "failed to list viewers", http.StatusInternalServerError)
			return
		}
		if viewers != nil {
			resp.Viewers = viewers
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error().Err(err).Msg("failed to encode viewers response")
	}
}

// HandleStats reports connection counts, handy during games with the whole
// family watching.
func (h *WebSocketHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.manager.Stats()); err != nil {
		log.Error().Err(err).Msg("failed to encode gateway stats")
	}
}
