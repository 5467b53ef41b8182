package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/gridiron-edge/internal/database"
	"github.com/yourusername/gridiron-edge/internal/models"
)

const errScanGame = "failed to scan game: %w"

const gameColumns = `id, game_id, season, week, gameday, home_team, away_team,
       home_score, away_score, created_at, updated_at`

// PostgresGameRepository implements GameRepository for PostgreSQL
type PostgresGameRepository struct {
	db *database.DB
}

// NewPostgresGameRepository creates a new game repository
func NewPostgresGameRepository(db *database.DB) GameRepository {
	return &PostgresGameRepository{db: db}
}

// Upsert inserts a game or refreshes its scores if the game ID already exists.
// Schedule feeds re-serve the full season every run, so insert-or-update is the
// only sane write path.
func (r *PostgresGameRepository) Upsert(ctx context.Context, game *models.GameRecord) error {
	query := `
		INSERT INTO games (id, game_id, season, week, gameday, home_team, away_team, home_score, away_score, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		ON CONFLICT (game_id) DO UPDATE SET
			gameday = EXCLUDED.gameday,
			home_score = EXCLUDED.home_score,
			away_score = EXCLUDED.away_score,
			updated_at = NOW()
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		game.ID, game.Key(), game.Season, game.Week, game.Gameday,
		game.HomeTeam, game.AwayTeam, game.HomeScore, game.AwayScore,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert game: %w", err)
	}

	return nil
}

// UpsertBatch upserts a full schedule fetch in one transaction.
func (r *PostgresGameRepository) UpsertBatch(ctx context.Context, games []*models.GameRecord) error {
	if len(games) == 0 {
		return nil
	}

	return r.db.WithTransaction(ctx, func(ctx context.Context) error {
		for _, game := range games {
			if err := r.Upsert(ctx, game); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetByKey retrieves a game by its external game ID
func (r *PostgresGameRepository) GetByKey(ctx context.Context, gameKey string) (*models.GameRecord, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE game_id = $1`

	game := &models.GameRecord{}
	err := r.db.GetPool().QueryRow(ctx, query, gameKey).Scan(
		&game.ID, &game.GameID, &game.Season, &game.Week, &game.Gameday,
		&game.HomeTeam, &game.AwayTeam, &game.HomeScore, &game.AwayScore,
		&game.CreatedAt, &game.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// GetBySeason retrieves all games of one season in schedule order
func (r *PostgresGameRepository) GetBySeason(ctx context.Context, season int) ([]*models.GameRecord, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE season = $1
		ORDER BY week ASC, gameday ASC, game_id ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("failed to query games by season: %w", err)
	}
	defer rows.Close()

	return scanGames(rows)
}

// GetSeasonRange retrieves all games between two seasons inclusive, the
// training corpus for a model fit.
func (r *PostgresGameRepository) GetSeasonRange(ctx context.Context, firstSeason, lastSeason int) ([]*models.GameRecord, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE season >= $1 AND season <= $2
		ORDER BY season ASC, week ASC, gameday ASC, game_id ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, firstSeason, lastSeason)
	if err != nil {
		return nil, fmt.Errorf("failed to query games by season range: %w", err)
	}
	defer rows.Close()

	return scanGames(rows)
}

// GetUpcoming retrieves the unplayed games of one week
func (r *PostgresGameRepository) GetUpcoming(ctx context.Context, season, week int) ([]*models.GameRecord, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE season = $1 AND week = $2 AND home_score IS NULL
		ORDER BY gameday ASC, game_id ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to query upcoming games: %w", err)
	}
	defer rows.Close()

	return scanGames(rows)
}

func scanGames(rows pgx.Rows) ([]*models.GameRecord, error) {
	var games []*models.GameRecord
	for rows.Next() {
		game := &models.GameRecord{}
		err := rows.Scan(
			&game.ID, &game.GameID, &game.Season, &game.Week, &game.Gameday,
			&game.HomeTeam, &game.AwayTeam, &game.HomeScore, &game.AwayScore,
			&game.CreatedAt, &game.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanGame, err)
		}
		games = append(games, game)
	}

	return games, rows.Err()
}
