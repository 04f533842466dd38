package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jonboulle/clockwork"

	"github.com/narayan-iyengar/sahil-basketball-stats-sub000/go/internal/livegame"
	"github.com/narayan-iyengar/sahil-basketball-stats-sub000/go/internal/models"
)

type fakeState struct {
	games map[string]*models.LiveGame
}

func (s *fakeState) Get(ctx context.Context, gameID string) (*models.LiveGame, error) {
	g, ok := s.games[gameID]
	if !ok {
		return nil, livegame.ErrNotFound
	}
	return g, nil
}

type fakePresence struct {
	viewing map[string]string
	failure error
}

func newFakePresence() *fakePresence {
	return &fakePresence{viewing: make(map[string]string)}
}

func (p *fakePresence) SetViewing(ctx context.Context, userID, gameID string) error {
	p.viewing[userID] = gameID
	return nil
}

func (p *fakePresence) ClearViewing(ctx context.Context, userID string) error {
	delete(p.viewing, userID)
	return nil
}

func (p *fakePresence) Viewers(ctx context.Context, gameID string) ([]string, error) {
	if p.failure != nil {
		return nil, p.failure
	}
	var viewers []string
	for userID, g := range p.viewing {
		if g == gameID {
			viewers = append(viewers, userID)
		}
	}
	return viewers, nil
}

func newTestHandler(presence PresenceRegistry) (*WebSocketHandler, *ConnectionManager) {
	fc := clockwork.NewFakeClock()
	cm := NewConnectionManager(DefaultConnectionConfig())
	hub := NewViewerHub(fc, cm)
	state := &fakeState{games: map[string]*models.LiveGame{}}
	return NewWebSocketHandler(cm, hub, state, presence, fc), cm
}

func TestHandleViewers(t *testing.T) {
	presence := newFakePresence()
	presence.viewing["mom"] = "g1"
	presence.viewing["grandpa"] = "g1"
	presence.viewing["uncle"] = "g2"

	h, cm := newTestHandler(presence)
	cm.registerConnection(newTestConnection(cm, "a", "g1"))
	cm.registerConnection(newTestConnection(cm, "b", "g1"))
	cm.registerConnection(newTestConnection(cm, "c", "g1"))

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodGet, "/api/live/g1/viewers", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp struct {
		GameID      string   `json:"gameId"`
		Connections int      `json:"connections"`
		Viewers     []string `json:"viewers"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.GameID != "g1" {
		t.Errorf("gameId = %q, want g1", resp.GameID)
	}
	if resp.Connections != 3 {
		t.Errorf("connections = %d, want 3", resp.Connections)
	}
	if len(resp.Viewers) != 2 {
		t.Errorf("viewers = %v, want mom and grandpa", resp.Viewers)
	}
	for _, v := range resp.Viewers {
		if v != "mom" && v != "grandpa" {
			t.Errorf("unexpected viewer %q", v)
		}
	}
}

func TestHandleViewersWithoutPresence(t *testing.T) {
	h, _ := newTestHandler(nil)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodGet, "/api/live/g9/viewers", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp struct {
		Connections int      `json:"connections"`
		Viewers     []string `json:"viewers"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Connections != 0 {
		t.Errorf("connections = %d, want 0", resp.Connections)
	}
	if resp.Viewers == nil || len(resp.Viewers) != 0 {
		t.Errorf("viewers = %v, want empty list", resp.Viewers)
	}
}

func TestHandleViewersPresenceFailure(t *testing.T) {
	presence := newFakePresence()
	presence.failure = errors.New("redis down")

	h, _ := newTestHandler(presence)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodGet, "/api/live/g1/viewers", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}
