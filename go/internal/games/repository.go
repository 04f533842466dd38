package games

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/narayan-iyengar/sahil-basketball-stats-sub000/go/internal/models"
)

// Repository persists finalized game records in Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a game record repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// EnsureSchema creates the game_records table if it does not exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS game_records (
			id UUID PRIMARY KEY,
			team_name TEXT NOT NULL,
			opponent TEXT NOT NULL,
			home_score INT NOT NULL,
			away_score INT NOT NULL,
			outcome TEXT NOT NULL,
			points INT NOT NULL,
			fg2m INT NOT NULL DEFAULT 0,
			fg2a INT NOT NULL DEFAULT 0,
			fg3m INT NOT NULL DEFAULT 0,
			fg3a INT NOT NULL DEFAULT 0,
			ftm INT NOT NULL DEFAULT 0,
			fta INT NOT NULL DEFAULT 0,
			rebounds INT NOT NULL DEFAULT 0,
			assists INT NOT NULL DEFAULT 0,
			steals INT NOT NULL DEFAULT 0,
			blocks INT NOT NULL DEFAULT 0,
			fouls INT NOT NULL DEFAULT 0,
			turnovers INT NOT NULL DEFAULT 0,
			finalized_at TIMESTAMPTZ NOT NULL,
			finalized_by TEXT NOT NULL DEFAULT ''
		)`)
	if err != nil {
		return fmt.Errorf("ensure game_records schema: %w", err)
	}
	return nil
}

// Insert writes one finalized game record.
func (r *Repository) Insert(ctx context.Context, rec *models.GameRecord) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO game_records (
			id, team_name, opponent, home_score, away_score, outcome, points,
			fg2m, fg2a, fg3m, fg3a, ftm, fta,
			rebounds, assists, steals, blocks, fouls, turnovers,
			finalized_at, finalized_by
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19,
			$20, $21
		)`,
		rec.ID, rec.TeamName, rec.Opponent, rec.HomeScore, rec.AwayScore,
		rec.Outcome, rec.Points,
		rec.Stats.FG2M, rec.Stats.FG2A, rec.Stats.FG3M, rec.Stats.FG3A,
		rec.Stats.FTM, rec.Stats.FTA,
		rec.Stats.Rebounds, rec.Stats.Assists, rec.Stats.Steals,
		rec.Stats.Blocks, rec.Stats.Fouls, rec.Stats.Turnovers,
		rec.FinalizedAt, rec.FinalizedBy,
	)
	if err != nil {
		return fmt.Errorf("insert game record: %w", err)
	}
	return nil
}

// List returns finalized games newest first.
func (r *Repository) List(ctx context.Context, limit int) ([]models.GameRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx, `
		SELECT
			id, team_name, opponent, home_score, away_score, outcome, points,
			fg2m, fg2a, fg3m, fg3a, ftm, fta,
			rebounds, assists, steals, blocks, fouls, turnovers,
			finalized_at, finalized_by
		FROM game_records
		ORDER BY finalized_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list game records: %w", err)
	}
	defer rows.Close()

	var records []models.GameRecord
	for rows.Next() {
		var rec models.GameRecord
		if err := rows.Scan(
			&rec.ID, &rec.TeamName, &rec.Opponent, &rec.HomeScore, &rec.AwayScore,
			&rec.Outcome, &rec.Points,
			&rec.Stats.FG2M, &rec.Stats.FG2A, &rec.Stats.FG3M, &rec.Stats.FG3A,
			&rec.Stats.FTM, &rec.Stats.FTA,
			&rec.Stats.Rebounds, &rec.Stats.Assists, &rec.Stats.Steals,
			&rec.Stats.Blocks, &rec.Stats.Fouls, &rec.Stats.Turnovers,
			&rec.FinalizedAt, &rec.FinalizedBy,
		); err != nil {
			return nil, fmt.Errorf("scan game record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate game records: %w", err)
	}
	return records, nil
}

// CareerTotals aggregates every finalized game into one line.
func (r *Repository) CareerTotals(ctx context.Context) (*models.CareerTotals, error) {
	var t models.CareerTotals
	err := r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE outcome = 'W'),
			COUNT(*) FILTER (WHERE outcome = 'L'),
			COUNT(*) FILTER (WHERE outcome = 'T'),
			COALESCE(SUM(points), 0),
			COALESCE(SUM(fg2m), 0), COALESCE(SUM(fg2a), 0),
			COALESCE(SUM(fg3m), 0), COALESCE(SUM(fg3a), 0),
			COALESCE(SUM(ftm), 0), COALESCE(SUM(fta), 0),
			COALESCE(SUM(rebounds), 0), COALESCE(SUM(assists), 0),
			COALESCE(SUM(steals), 0), COALESCE(SUM(blocks), 0),
			COALESCE(SUM(fouls), 0), COALESCE(SUM(turnovers), 0)
		FROM game_records`).Scan(
		&t.Games, &t.Wins, &t.Losses, &t.Ties, &t.Points,
		&t.Stats.FG2M, &t.Stats.FG2A, &t.Stats.FG3M, &t.Stats.FG3A,
		&t.Stats.FTM, &t.Stats.FTA,
		&t.Stats.Rebounds, &t.Stats.Assists, &t.Stats.Steals,
		&t.Stats.Blocks, &t.Stats.Fouls, &t.Stats.Turnovers,
	)
	if err != nil {
		return nil, fmt.Errorf("aggregate career totals: %w", err)
	}
	return &t, nil
}
