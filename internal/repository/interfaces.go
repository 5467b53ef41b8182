package repository

import (
	"context"
	"time"

	"github.com/yourusername/gridiron-edge/internal/models"
)

// GameRepository defines the interface for game schedule data access
type GameRepository interface {
	Upsert(ctx context.Context, game *models.GameRecord) error
	UpsertBatch(ctx context.Context, games []*models.GameRecord) error
	GetByKey(ctx context.Context, gameKey string) (*models.GameRecord, error)
	GetBySeason(ctx context.Context, season int) ([]*models.GameRecord, error)
	GetSeasonRange(ctx context.Context, firstSeason, lastSeason int) ([]*models.GameRecord, error)
	GetUpcoming(ctx context.Context, season, week int) ([]*models.GameRecord, error)
}

// QuoteRepository defines the interface for market quote data access
type QuoteRepository interface {
	InsertBatch(ctx context.Context, quotes []*models.MarketQuote) error
	GetByGameKey(ctx context.Context, gameKey string) ([]*models.MarketQuote, error)
	GetFetchedSince(ctx context.Context, since time.Time) ([]*models.MarketQuote, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// EdgeRepository defines the interface for pick sheet persistence
type EdgeRepository interface {
	SaveSheet(ctx context.Context, results []*models.EdgeResult) error
	GetByWeek(ctx context.Context, season, week int) ([]*models.EdgeResult, error)
	GetLatest(ctx context.Context, limit int) ([]*models.EdgeResult, error)
}

// ModelRepository defines the interface for fitted model persistence
type ModelRepository interface {
	Save(ctx context.Context, name string, model *models.FittedModel) error
	GetLatest(ctx context.Context, name string) (*models.FittedModel, error)
}
