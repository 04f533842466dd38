package admin

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/narayan-iyengar/sahil-basketball-stats-sub000/go/internal/gameclock"
	"github.com/narayan-iyengar/sahil-basketball-stats-sub000/go/internal/livegame"
	"github.com/narayan-iyengar/sahil-basketball-stats-sub000/go/internal/models"
)

// Handler exposes the operator actions over HTTP. Scoring actions are
// fire-and-forget: they respond immediately and surface failure only through
// the save-status endpoint, keeping the rapid-fire scoring flow snappy.
type Handler struct {
	controller *Controller
	clock      clockwork.Clock
}

// NewHandler creates the admin HTTP handler.
func NewHandler(controller *Controller, clock clockwork.Clock) *Handler {
	return &Handler{controller: controller, clock: clock}
}

// RegisterRoutes registers the live-scoring routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/live", h.handleCreateGame)
	mux.HandleFunc("GET /api/live/{id}/state", h.handleGameState)
	mux.HandleFunc("GET /api/live/{id}/status", h.handleSaveStatus)
	mux.HandleFunc("POST /api/live/{id}/score", h.handleChangeScore)
	mux.HandleFunc("POST /api/live/{id}/stat", h.handleChangeStat)
	mux.HandleFunc("POST /api/live/{id}/clock", h.handleToggleClock)
	mux.HandleFunc("POST /api/live/{id}/period", h.handleAdvancePeriod)
	mux.HandleFunc("POST /api/live/{id}/end", h.handleEndGame)
	log.Info().Msg("admin routes registered")
}

func (h *Handler) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	g, err := h.controller.CreateGame(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

// GameStateResponse is the snapshot served to a freshly attached client.
type GameStateResponse struct {
	Game             *models.LiveGame `json:"game"`
	State            livegame.State   `json:"state"`
	SecondsRemaining int              `json:"seconds_remaining"`
	ClockDisplay     string           `json:"clock_display"`
}

func (h *Handler) handleGameState(w http.ResponseWriter, r *http.Request) {
	g, err := h.controller.GetGame(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	p := gameclock.Project(g.ClockCheckpoint, h.clock.Now())
	writeJSON(w, http.StatusOK, GameStateResponse{
		Game:             g,
		State:            livegame.StateOf(g),
		SecondsRemaining: p.SecondsRemaining,
		ClockDisplay:     p.Format(),
	})
}

func (h *Handler) handleSaveStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]SaveStatus{
		"status": h.controller.SaveStatus(r.PathValue("id")),
	})
}

func (h *Handler) handleChangeScore(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Side  string `json:"side"`
		Delta int    `json:"delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	gameID := r.PathValue("id")
	if err := h.controller.ChangeScore(r.Context(), gameID, req.Side, req.Delta); err != nil {
		h.writeActionError(w, gameID, err)
		return
	}
	h.writeAccepted(w, gameID)
}

func (h *Handler) handleChangeStat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Stat  string `json:"stat"`
		Delta int    `json:"delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Delta != 1 && req.Delta != -1 {
		http.Error(w, "delta must be +1 or -1", http.StatusBadRequest)
		return
	}

	gameID := r.PathValue("id")
	if err := h.controller.ChangeStat(r.Context(), gameID, req.Stat, req.Delta); err != nil {
		h.writeActionError(w, gameID, err)
		return
	}
	h.writeAccepted(w, gameID)
}

func (h *Handler) handleToggleClock(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	if err := h.controller.ToggleClock(r.Context(), gameID); err != nil {
		h.writeActionError(w, gameID, err)
		return
	}
	h.writeAccepted(w, gameID)
}

func (h *Handler) handleAdvancePeriod(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	if err := h.controller.AdvancePeriod(r.Context(), gameID, userFromRequest(r)); err != nil {
		h.writeActionError(w, gameID, err)
		return
	}
	h.writeAccepted(w, gameID)
}

func (h *Handler) handleEndGame(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	if err := h.controller.EndGame(r.Context(), gameID, userFromRequest(r)); err != nil {
		h.writeActionError(w, gameID, err)
		return
	}
	h.writeAccepted(w, gameID)
}

func (h *Handler) writeAccepted(w http.ResponseWriter, gameID string) {
	writeJSON(w, http.StatusAccepted, map[string]SaveStatus{
		"status": h.controller.SaveStatus(gameID),
	})
}

// writeActionError keeps operator-input mistakes loud and everything else
// quiet: store failures already resolved into the status signal.
func (h *Handler) writeActionError(w http.ResponseWriter, gameID string, err error) {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, livegame.ErrNotFound):
		http.Error(w, "live game not found", http.StatusNotFound)
	default:
		h.writeAccepted(w, gameID)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, livegame.ErrNotFound):
		http.Error(w, "live game not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// userFromRequest extracts the opaque identity the auth layer attaches.
// Anonymous when no identity headers are present.
func userFromRequest(r *http.Request) models.User {
	uid := r.Header.Get("X-User-Id")
	return models.User{
		UID:         uid,
		DisplayName: r.Header.Get("X-User-Name"),
		Email:       r.Header.Get("X-User-Email"),
		IsAnonymous: uid == "",
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
