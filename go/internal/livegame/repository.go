package livegame

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/narayan-iyengar/sahil-basketball-stats-sub000/go/internal/models"
)

var (
	// ErrNotFound means the live document does not exist (never created, or
	// already finalized and deleted).
	ErrNotFound = errors.New("live game not found")

	// ErrStale means a conditional patch found the document in a different
	// period than the one observed at read time.
	ErrStale = errors.New("live game changed since read")
)

// Repository is the document store for live games. All mutation goes through
// partial-field patches so a single operator action is one atomic write.
type Repository struct {
	collection *mongo.Collection
}

// NewRepository creates a live game repository over a mongo collection.
func NewRepository(collection *mongo.Collection) *Repository {
	return &Repository{collection: collection}
}

// Create inserts the initial document for a new live game.
func (r *Repository) Create(ctx context.Context, g *models.LiveGame) error {
	if _, err := r.collection.InsertOne(ctx, g); err != nil {
		return fmt.Errorf("failed to create live game %s: %w", g.ID, err)
	}
	return nil
}

// Get retrieves a live game, normalizing documents written by legacy clients
// (flattened top-level counters) into the canonical nested stats shape.
func (r *Repository) Get(ctx context.Context, id string) (*models.LiveGame, error) {
	var doc liveGameDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get live game %s: %w", id, err)
	}
	return doc.toModel(), nil
}

// ApplyPatch issues one partial update combining $set paths and atomic $inc
// counters. When the patch carries RequirePeriod the update filter includes
// the period, making the write a compare-and-swap that loses cleanly to a
// racing writer.
func (r *Repository) ApplyPatch(ctx context.Context, id string, p Patch) error {
	if p.IsEmpty() {
		return nil
	}

	filter := bson.M{"_id": id}
	if p.RequirePeriod != 0 {
		filter["period"] = p.RequirePeriod
	}

	update := bson.M{}
	if len(p.Set) > 0 {
		update["$set"] = bson.M(p.Set)
	}
	if len(p.Inc) > 0 {
		inc := bson.M{}
		for k, v := range p.Inc {
			inc[k] = v
		}
		update["$inc"] = inc
	}

	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to patch live game %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		if p.RequirePeriod != 0 {
			return ErrStale
		}
		return ErrNotFound
	}
	return nil
}

// Delete removes the live document, typically as the second half of
// finalization.
func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete live game %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// liveGameDoc is the persistence shape. Documents created by the legacy web
// client stored the stat counters flattened at the top level; current
// documents nest them under playerStats. Decoding accepts both and toModel
// produces only the canonical nested shape.
type liveGameDoc struct {
	ID           string              `bson:"_id"`
	TeamName     string              `bson:"teamName"`
	Opponent     string              `bson:"opponent"`
	HomeScore    int                 `bson:"homeScore"`
	AwayScore    int                 `bson:"awayScore"`
	PlayerStats  *models.PlayerStats `bson:"playerStats"`
	Period       int                 `bson:"period"`
	GameFormat   models.GameFormat   `bson:"gameFormat"`
	PeriodLength int                 `bson:"periodLength"`

	IsRunning      bool  `bson:"isRunning"`
	Clock          int   `bson:"clock"`
	ClockStartTime int64 `bson:"clockStartTime"`
	ClockAtStart   int   `bson:"clockAtStart"`

	CreatedAt primitive.DateTime `bson:"createdAt"`

	legacyCounters `bson:",inline"`
}

type legacyCounters struct {
	FG2M      *int `bson:"fg2m"`
	FG2A      *int `bson:"fg2a"`
	FG3M      *int `bson:"fg3m"`
	FG3A      *int `bson:"fg3a"`
	FTM       *int `bson:"ftm"`
	FTA       *int `bson:"fta"`
	Rebounds  *int `bson:"rebounds"`
	Assists   *int `bson:"assists"`
	Steals    *int `bson:"steals"`
	Blocks    *int `bson:"blocks"`
	Fouls     *int `bson:"fouls"`
	Turnovers *int `bson:"turnovers"`
}

func (d liveGameDoc) toModel() *models.LiveGame {
	g := &models.LiveGame{
		ID:           d.ID,
		TeamName:     d.TeamName,
		Opponent:     d.Opponent,
		HomeScore:    d.HomeScore,
		AwayScore:    d.AwayScore,
		Period:       d.Period,
		GameFormat:   d.GameFormat,
		PeriodLength: d.PeriodLength,
		ClockCheckpoint: models.ClockCheckpoint{
			IsRunning:      d.IsRunning,
			Clock:          d.Clock,
			ClockStartTime: d.ClockStartTime,
			ClockAtStart:   d.ClockAtStart,
		},
		CreatedAt: d.CreatedAt.Time(),
	}
	if d.PlayerStats != nil {
		g.PlayerStats = *d.PlayerStats
		return g
	}
	g.PlayerStats = d.legacyCounters.toStats()
	return g
}

func (l legacyCounters) toStats() models.PlayerStats {
	var s models.PlayerStats
	set := func(name string, v *int) {
		if v != nil {
			s.SetValue(name, *v)
		}
	}
	set("fg2m", l.FG2M)
	set("fg2a", l.FG2A)
	set("fg3m", l.FG3M)
	set("fg3a", l.FG3A)
	set("ftm", l.FTM)
	set("fta", l.FTA)
	set("rebounds", l.Rebounds)
	set("assists", l.Assists)
	set("steals", l.Steals)
	set("blocks", l.Blocks)
	set("fouls", l.Fouls)
	set("turnovers", l.Turnovers)
	return s
}
