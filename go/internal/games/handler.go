package games

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/narayan-iyengar/sahil-basketball-stats-sub000/go/internal/models"
)

// Handler serves the finalized game history.
type Handler struct {
	repo *Repository
}

// NewHandler creates the game history HTTP handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// RegisterRoutes registers the game history routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/games", h.handleList)
	mux.HandleFunc("GET /api/games/career", h.handleCareer)
	log.Info().Msg("game history routes registered")
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	records, err := h.repo.List(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("failed to list game records")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []models.GameRecord{}
	}
	writeJSON(w, records)
}

func (h *Handler) handleCareer(w http.ResponseWriter, r *http.Request) {
	totals, err := h.repo.CareerTotals(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to aggregate career totals")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, totals)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
