package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/narayan-iyengar/sahil-basketball-stats-sub000/go/internal/dbconfig"
	"github.com/narayan-iyengar/sahil-basketball-stats-sub000/go/internal/games"
	"github.com/narayan-iyengar/sahil-basketball-stats-sub000/go/internal/models"
)

// seedRecord matches the JSON export of previously tracked games. FinalizedAt
// is a string to match the export layout.
type seedRecord struct {
	TeamName    string             `json:"team_name"`
	Opponent    string             `json:"opponent"`
	HomeScore   int                `json:"home_score"`
	AwayScore   int                `json:"away_score"`
	Stats       models.PlayerStats `json:"stats"`
	FinalizedAt string             `json:"finalized_at"`
	FinalizedBy string             `json:"finalized_by"`
}

func main() {
	ctx := context.Background()

	path := "game_records.json"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read %s: %v\n", path, err)
		os.Exit(1)
	}
	var seeds []seedRecord
	if err := json.Unmarshal(data, &seeds); err != nil {
		fmt.Fprintf(os.Stderr, "unmarshal records: %v\n", err)
		os.Exit(1)
	}

	cfg := dbconfig.NewConfigFromEnv()
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	repo := games.NewRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "ensure schema: %v\n", err)
		os.Exit(1)
	}

	for i, seed := range seeds {
		finalizedAt, err := time.Parse(time.RFC3339, seed.FinalizedAt)
		if err != nil {
			fmt.Fprintf(os.Stderr, "record %d: bad finalized_at %q: %v\n", i, seed.FinalizedAt, err)
			os.Exit(1)
		}
		rec := &models.GameRecord{
			ID:          uuid.New(),
			TeamName:    seed.TeamName,
			Opponent:    seed.Opponent,
			HomeScore:   seed.HomeScore,
			AwayScore:   seed.AwayScore,
			Outcome:     models.OutcomeOf(seed.HomeScore, seed.AwayScore),
			Points:      models.PointsFromStats(seed.Stats),
			Stats:       seed.Stats,
			FinalizedAt: finalizedAt,
			FinalizedBy: seed.FinalizedBy,
		}
		if err := repo.Insert(ctx, rec); err != nil {
			fmt.Fprintf(os.Stderr, "insert record %d: %v\n", i, err)
			os.Exit(1)
		}
	}

	fmt.Printf("seeded %d game records\n", len(seeds))
}
