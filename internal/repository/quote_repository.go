package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/gridiron-edge/internal/database"
	"github.com/yourusername/gridiron-edge/internal/models"
)

const errScanQuote = "failed to scan quote: %w"

// PostgresQuoteRepository implements QuoteRepository for PostgreSQL
type PostgresQuoteRepository struct {
	db *database.DB
}

// NewPostgresQuoteRepository creates a new quote repository
func NewPostgresQuoteRepository(db *database.DB) QuoteRepository {
	return &PostgresQuoteRepository{db: db}
}

// InsertBatch inserts a full odds board fetch using high-performance batch insert
func (r *PostgresQuoteRepository) InsertBatch(ctx context.Context, quotes []*models.MarketQuote) error {
	if len(quotes) == 0 {
		return nil
	}

	// Use COPY for bulk insert, a board fetch yields hundreds of rows
	columns := []string{"game_key", "book", "market_type", "side", "price", "point", "fetched_at"}

	copyFromSource := make([][]interface{}, len(quotes))
	for i, q := range quotes {
		copyFromSource[i] = []interface{}{
			q.GameKey, q.Book, string(q.MarketType), string(q.Side), q.Price, q.Point, q.FetchedAt,
		}
	}

	count, err := r.db.GetPool().CopyFrom(ctx, pgx.Identifier{"market_quotes"}, columns, pgx.CopyFromRows(copyFromSource))
	if err != nil {
		return fmt.Errorf("failed to batch insert quotes: %w", err)
	}

	if count != int64(len(quotes)) {
		return fmt.Errorf("inserted %d rows, expected %d", count, len(quotes))
	}

	return nil
}

// GetByGameKey retrieves all quotes recorded for one game, newest first
func (r *PostgresQuoteRepository) GetByGameKey(ctx context.Context, gameKey string) ([]*models.MarketQuote, error) {
	query := `
		SELECT game_key, book, market_type, side, price, point, fetched_at
		FROM market_quotes
		WHERE game_key = $1
		ORDER BY fetched_at DESC, book ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, gameKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query quotes by game: %w", err)
	}
	defer rows.Close()

	return scanQuotes(rows)
}

// GetFetchedSince retrieves every quote recorded at or after the given time,
// the working set for consensus building.
func (r *PostgresQuoteRepository) GetFetchedSince(ctx context.Context, since time.Time) ([]*models.MarketQuote, error) {
	query := `
		SELECT game_key, book, market_type, side, price, point, fetched_at
		FROM market_quotes
		WHERE fetched_at >= $1
		ORDER BY game_key ASC, market_type ASC, book ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent quotes: %w", err)
	}
	defer rows.Close()

	return scanQuotes(rows)
}

// DeleteOlderThan prunes stale board snapshots and returns the row count
func (r *PostgresQuoteRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	commandTag, err := r.db.GetPool().Exec(ctx, "DELETE FROM market_quotes WHERE fetched_at < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune quotes: %w", err)
	}
	return commandTag.RowsAffected(), nil
}

func scanQuotes(rows pgx.Rows) ([]*models.MarketQuote, error) {
	var quotes []*models.MarketQuote
	for rows.Next() {
		quote := &models.MarketQuote{}
		var marketType, side string
		err := rows.Scan(
			&quote.GameKey, &quote.Book, &marketType, &side,
			&quote.Price, &quote.Point, &quote.FetchedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanQuote, err)
		}
		quote.MarketType = models.MarketType(marketType)
		quote.Side = models.Side(side)
		quotes = append(quotes, quote)
	}

	return quotes, rows.Err()
}
