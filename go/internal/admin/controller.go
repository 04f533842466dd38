package admin

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/narayan-iyengar/sahil-basketball-stats-sub000/go/internal/gameclock"
	"github.com/narayan-iyengar/sahil-basketball-stats-sub000/go/internal/livegame"
	"github.com/narayan-iyengar/sahil-basketball-stats-sub000/go/internal/models"
	"github.com/narayan-iyengar/sahil-basketball-stats-sub000/go/internal/stats"
	"github.com/narayan-iyengar/sahil-basketball-stats-sub000/go/internal/stream"
)

// LiveGameStore defines what the controller needs from the live document
// store.
type LiveGameStore interface {
	Create(ctx context.Context, g *models.LiveGame) error
	Get(ctx context.Context, id string) (*models.LiveGame, error)
	ApplyPatch(ctx context.Context, id string, p livegame.Patch) error
	Delete(ctx context.Context, id string) error
}

// RecordStore persists finalized game records.
type RecordStore interface {
	Insert(ctx context.Context, rec *models.GameRecord) error
}

// EventPublisher pushes committed changes to every subscriber.
type EventPublisher interface {
	PublishGameUpdated(ctx context.Context, game *models.LiveGame) error
	PublishGameEnded(ctx context.Context, payload stream.GameEndedPayload) error
}

// ErrInvalidRequest marks operator input the controller refuses outright.
var ErrInvalidRequest = errors.New("invalid request")

// Controller translates operator intents into single atomic document patches.
// Each action reads the document fresh, computes the combined checkpoint and
// stat patch, writes it once, then publishes the post-write snapshot. Store
// failures are absorbed here and surface only through the save-status signal.
type Controller struct {
	store     LiveGameStore
	records   RecordStore
	publisher EventPublisher
	clock     clockwork.Clock

	mu       sync.Mutex
	trackers map[string]*StatusTracker
	watchers map[string]*clockWatcher
}

type clockWatcher struct {
	ticker *gameclock.Ticker
	cancel context.CancelFunc
}

// NewController creates an admin controller.
func NewController(store LiveGameStore, records RecordStore, publisher EventPublisher, clock clockwork.Clock) *Controller {
	return &Controller{
		store:     store,
		records:   records,
		publisher: publisher,
		clock:     clock,
		trackers:  map[string]*StatusTracker{},
		watchers:  map[string]*clockWatcher{},
	}
}

// CreateGameRequest is the operator input for starting a live game.
type CreateGameRequest struct {
	TeamName     string            `json:"team_name"`
	Opponent     string            `json:"opponent"`
	GameFormat   models.GameFormat `json:"game_format"`
	PeriodLength int               `json:"period_length"`
}

// CreateGame inserts the initial live document and announces it.
func (c *Controller) CreateGame(ctx context.Context, req CreateGameRequest) (*models.LiveGame, error) {
	if req.TeamName == "" || req.Opponent == "" {
		return nil, fmt.Errorf("%w: team and opponent are required", ErrInvalidRequest)
	}
	if req.GameFormat != models.GameFormatHalves && req.GameFormat != models.GameFormatPeriods {
		return nil, fmt.Errorf("%w: unknown game format %q", ErrInvalidRequest, req.GameFormat)
	}
	if req.PeriodLength <= 0 {
		return nil, fmt.Errorf("%w: period length must be positive", ErrInvalidRequest)
	}

	g := models.NewLiveGame(uuid.New().String(), req.TeamName, req.Opponent, req.GameFormat, req.PeriodLength, c.clock.Now())
	if err := c.store.Create(ctx, g); err != nil {
		return nil, err
	}
	c.publishUpdated(ctx, g)

	log.Info().
		Str("game_id", g.ID).
		Str("team", g.TeamName).
		Str("opponent", g.Opponent).
		Str("format", string(g.GameFormat)).
		Msg("live game created")
	return g, nil
}

// GetGame returns the current live document.
func (c *Controller) GetGame(ctx context.Context, gameID string) (*models.LiveGame, error) {
	return c.store.Get(ctx, gameID)
}

// SaveStatus returns the transient write feedback signal for a game.
func (c *Controller) SaveStatus(gameID string) SaveStatus {
	return c.tracker(gameID).Status()
}

// ChangeScore applies a manual score change. Decrements are clamped at zero:
// only the realized portion is written, and a fully clamped decrement is a
// no-op. Any applied change auto-starts a paused clock in the same patch.
func (c *Controller) ChangeScore(ctx context.Context, gameID, side string, delta int) error {
	field := ""
	switch side {
	case "home":
		field = "homeScore"
	case "away":
		field = "awayScore"
	default:
		return fmt.Errorf("%w: unknown side %q", ErrInvalidRequest, side)
	}

	return c.save(ctx, gameID, func(g *models.LiveGame) (livegame.Patch, error) {
		score := g.HomeScore
		if side == "away" {
			score = g.AwayScore
		}
		newScore := score + delta
		if newScore < 0 {
			newScore = 0
		}
		realized := newScore - score
		if realized == 0 {
			return livegame.Patch{}, nil
		}
		patch := livegame.Patch{Inc: map[string]int{field: realized}}
		return patch.Merge(livegame.AutoStart(g, c.clock.Now())), nil
	})
}

// ChangeStat applies one ±1 stat change through the consistency rules, with
// the made-shot score side effect and the clock auto-start folded into the
// same write.
func (c *Controller) ChangeStat(ctx context.Context, gameID, name string, delta int) error {
	return c.save(ctx, gameID, func(g *models.LiveGame) (livegame.Patch, error) {
		sp, err := stats.ApplyDelta(g.PlayerStats, name, delta)
		if err != nil {
			return livegame.Patch{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		if sp.IsEmpty() {
			return livegame.Patch{}, nil
		}
		patch := livegame.StatPatch(sp.Fields, sp.ScoreDelta)
		return patch.Merge(livegame.AutoStart(g, c.clock.Now())), nil
	})
}

// ToggleClock flips the clock between paused and running.
func (c *Controller) ToggleClock(ctx context.Context, gameID string) error {
	return c.save(ctx, gameID, func(g *models.LiveGame) (livegame.Patch, error) {
		return livegame.ToggleClock(g, c.clock.Now()), nil
	})
}

// AdvancePeriod moves to the next period, or finalizes the game when already
// at the final period.
func (c *Controller) AdvancePeriod(ctx context.Context, gameID string, by models.User) error {
	t := c.tracker(gameID)
	t.Saving()
	g, err := c.store.Get(ctx, gameID)
	if err != nil {
		log.Error().Err(err).Str("game_id", gameID).Msg("advance period: read failed")
		t.Resolve(err)
		return err
	}
	patch, ok := livegame.AdvancePeriod(g)
	if !ok {
		return c.EndGame(ctx, gameID, by)
	}
	return c.save(ctx, gameID, func(g *models.LiveGame) (livegame.Patch, error) {
		_ = g
		return patch, nil
	})
}

// EndGame finalizes a live game: computes the outcome and point total, copies
// the stat line into an immutable historical record stamped with the acting
// admin, deletes the live document, and announces the ending. A missing live
// document means a racing caller already finalized; that is logged and
// treated as success.
func (c *Controller) EndGame(ctx context.Context, gameID string, by models.User) error {
	t := c.tracker(gameID)
	t.Saving()

	g, err := c.store.Get(ctx, gameID)
	if errors.Is(err, livegame.ErrNotFound) {
		log.Warn().Str("game_id", gameID).Msg("end game: live document already gone")
		c.stopWatcher(gameID)
		t.Resolve(nil)
		return nil
	}
	if err != nil {
		log.Error().Err(err).Str("game_id", gameID).Msg("end game: read failed")
		t.Resolve(err)
		return err
	}

	rec := &models.GameRecord{
		ID:          uuid.New(),
		TeamName:    g.TeamName,
		Opponent:    g.Opponent,
		HomeScore:   g.HomeScore,
		AwayScore:   g.AwayScore,
		Outcome:     models.OutcomeOf(g.HomeScore, g.AwayScore),
		Points:      models.PointsFromStats(g.PlayerStats),
		Stats:       g.PlayerStats,
		FinalizedAt: c.clock.Now(),
		FinalizedBy: by.DisplayName,
	}
	if err := c.records.Insert(ctx, rec); err != nil {
		log.Error().Err(err).Str("game_id", gameID).Msg("end game: record insert failed")
		t.Resolve(err)
		return err
	}

	if err := c.store.Delete(ctx, gameID); err != nil && !errors.Is(err, livegame.ErrNotFound) {
		log.Error().Err(err).Str("game_id", gameID).Msg("end game: live document delete failed")
		t.Resolve(err)
		return err
	}
	c.stopWatcher(gameID)

	if err := c.publisher.PublishGameEnded(ctx, stream.GameEndedPayload{
		GameID:    gameID,
		RecordID:  rec.ID.String(),
		HomeScore: rec.HomeScore,
		AwayScore: rec.AwayScore,
		Outcome:   rec.Outcome,
		EndedAt:   rec.FinalizedAt,
	}); err != nil {
		log.Error().Err(err).Str("game_id", gameID).Msg("end game: publish failed")
	}

	log.Info().
		Str("game_id", gameID).
		Str("record_id", rec.ID.String()).
		Str("outcome", string(rec.Outcome)).
		Str("finalized_by", rec.FinalizedBy).
		Msg("game finalized")
	t.Resolve(nil)
	return nil
}

// save runs one read-compute-write cycle under the status tracker.
func (c *Controller) save(ctx context.Context, gameID string, compute func(*models.LiveGame) (livegame.Patch, error)) error {
	t := c.tracker(gameID)
	t.Saving()

	g, err := c.store.Get(ctx, gameID)
	if err != nil {
		log.Error().Err(err).Str("game_id", gameID).Msg("save: read failed")
		t.Resolve(err)
		return err
	}

	patch, err := compute(g)
	if err != nil {
		t.Resolve(err)
		return err
	}
	if patch.IsEmpty() {
		t.Resolve(nil)
		return nil
	}

	if err := c.store.ApplyPatch(ctx, gameID, patch); err != nil {
		log.Error().Err(err).Str("game_id", gameID).Msg("save: write failed")
		t.Resolve(err)
		return err
	}

	patch.ApplyTo(g)
	c.syncWatcher(g)
	c.publishUpdated(ctx, g)
	t.Resolve(nil)
	return nil
}

func (c *Controller) publishUpdated(ctx context.Context, g *models.LiveGame) {
	if err := c.publisher.PublishGameUpdated(ctx, g); err != nil {
		// Subscribers converge on the next successful push.
		log.Error().Err(err).Str("game_id", g.ID).Msg("snapshot publish failed")
	}
}

func (c *Controller) tracker(gameID string) *StatusTracker {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.trackers[gameID]
	if !ok {
		t = NewStatusTracker(c.clock)
		c.trackers[gameID] = t
	}
	return t
}

// syncWatcher keeps exactly one zero-crossing watcher running per game with a
// running clock, projecting the latest written checkpoint.
func (c *Controller) syncWatcher(g *models.LiveGame) {
	if !g.IsRunning {
		c.stopWatcher(g.ID)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if w, ok := c.watchers[g.ID]; ok {
		w.ticker.Update(g.ClockCheckpoint)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	gameID := g.ID
	ticker := gameclock.NewTicker(c.clock, g.ClockCheckpoint, func(p gameclock.Projection) {
		if p.SecondsRemaining > 0 {
			return
		}
		cancel()
		c.handleClockExpiry(context.Background(), gameID)
	})
	c.watchers[gameID] = &clockWatcher{ticker: ticker, cancel: cancel}
	go ticker.Run(ctx)
}

func (c *Controller) stopWatcher(gameID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if w, ok := c.watchers[gameID]; ok {
		w.cancel()
		delete(c.watchers, gameID)
	}
}

// handleClockExpiry is the client-observed zero crossing. It re-reads the
// document, verifies the clock really is exhausted while running, and writes
// the period transition conditioned on the period it read. A stale write
// means another observer got there first; the next snapshot is the source of
// truth either way.
func (c *Controller) handleClockExpiry(ctx context.Context, gameID string) {
	c.stopWatcher(gameID)

	g, err := c.store.Get(ctx, gameID)
	if err != nil {
		if !errors.Is(err, livegame.ErrNotFound) {
			log.Error().Err(err).Str("game_id", gameID).Msg("clock expiry: read failed")
		}
		return
	}
	if !g.IsRunning {
		return
	}
	if gameclock.Remaining(g.ClockCheckpoint, c.clock.Now()) > 0 {
		// Checkpoint moved since the tick fired; keep watching.
		c.syncWatcher(g)
		return
	}

	patch, terminal := livegame.ExpireClock(g)
	err = c.store.ApplyPatch(ctx, gameID, patch)
	if errors.Is(err, livegame.ErrStale) {
		log.Debug().Str("game_id", gameID).Msg("clock expiry: period already advanced elsewhere")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("game_id", gameID).Msg("clock expiry: write failed")
		return
	}

	patch.ApplyTo(g)
	c.publishUpdated(ctx, g)

	if terminal {
		log.Info().Str("game_id", gameID).Msg("final period expired, awaiting end-of-game confirmation")
	} else {
		log.Info().Str("game_id", gameID).Int("period", g.Period).Msg("period advanced on clock expiry")
	}
}

// Close stops every clock watcher.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, w := range c.watchers {
		w.cancel()
		delete(c.watchers, id)
	}
}
