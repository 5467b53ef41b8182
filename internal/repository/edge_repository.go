package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/gridiron-edge/internal/database"
	"github.com/yourusername/gridiron-edge/internal/models"
)

const errScanEdge = "failed to scan edge result: %w"

const edgeColumns = `id, game_key, season, week, home_team, away_team, side,
       model_prob, market_price, market_prob, edge, stake_fraction, created_at`

// PostgresEdgeRepository implements EdgeRepository for PostgreSQL
type PostgresEdgeRepository struct {
	db *database.DB
}

// NewPostgresEdgeRepository creates a new edge repository
func NewPostgresEdgeRepository(db *database.DB) EdgeRepository {
	return &PostgresEdgeRepository{db: db}
}

// SaveSheet replaces the stored pick sheet for the weeks covered by the new
// results. A sheet is regenerated whole, so partial overlap means stale rows.
func (r *PostgresEdgeRepository) SaveSheet(ctx context.Context, results []*models.EdgeResult) error {
	if len(results) == 0 {
		return nil
	}

	weeks := map[[2]int]bool{}
	for _, result := range results {
		weeks[[2]int{result.Season, result.Week}] = true
	}

	return r.db.WithTransaction(ctx, func(ctx context.Context) error {
		for week := range weeks {
			_, err := r.db.GetPool().Exec(ctx,
				"DELETE FROM edge_results WHERE season = $1 AND week = $2", week[0], week[1])
			if err != nil {
				return fmt.Errorf("failed to clear previous sheet: %w", err)
			}
		}

		query := `
			INSERT INTO edge_results (id, game_key, season, week, home_team, away_team, side,
				model_prob, market_price, market_prob, edge, stake_fraction, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
		`
		for _, result := range results {
			_, err := r.db.GetPool().Exec(ctx, query,
				result.ID, result.GameKey, result.Season, result.Week,
				result.HomeTeam, result.AwayTeam, string(result.Side), result.ModelProb,
				result.MarketPrice, result.MarketProb, result.Edge, result.StakeFraction,
			)
			if err != nil {
				return fmt.Errorf("failed to insert edge result: %w", err)
			}
		}
		return nil
	})
}

// GetByWeek retrieves the stored pick sheet for one week
func (r *PostgresEdgeRepository) GetByWeek(ctx context.Context, season, week int) ([]*models.EdgeResult, error) {
	query := `
		SELECT ` + edgeColumns + `
		FROM edge_results
		WHERE season = $1 AND week = $2
		ORDER BY game_key ASC, side ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to query edge results by week: %w", err)
	}
	defer rows.Close()

	return scanEdgeResults(rows)
}

// GetLatest retrieves the most recently generated edge results
func (r *PostgresEdgeRepository) GetLatest(ctx context.Context, limit int) ([]*models.EdgeResult, error) {
	query := `
		SELECT ` + edgeColumns + `
		FROM edge_results
		ORDER BY created_at DESC, game_key ASC
		LIMIT $1
	`

	rows, err := r.db.GetPool().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest edge results: %w", err)
	}
	defer rows.Close()

	return scanEdgeResults(rows)
}

func scanEdgeResults(rows pgx.Rows) ([]*models.EdgeResult, error) {
	var results []*models.EdgeResult
	for rows.Next() {
		result := &models.EdgeResult{}
		var side string
		err := rows.Scan(
			&result.ID, &result.GameKey, &result.Season, &result.Week,
			&result.HomeTeam, &result.AwayTeam, &side, &result.ModelProb,
			&result.MarketPrice, &result.MarketProb, &result.Edge, &result.StakeFraction,
			&result.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanEdge, err)
		}
		result.Side = models.Side(side)
		results = append(results, result)
	}

	return results, rows.Err()
}
