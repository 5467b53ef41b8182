package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/datasource"
	"github.com/yourusername/gridiron-edge/internal/metrics"
	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/odds"
	"github.com/yourusername/gridiron-edge/internal/repository"
	"github.com/yourusername/gridiron-edge/internal/teams"
)

// IngestionService pulls schedules and odds boards from the data sources and
// persists them through the repositories.
type IngestionService struct {
	schedule  datasource.ScheduleSource
	oddsBoard datasource.OddsSource
	gameRepo  repository.GameRepository
	quoteRepo repository.QuoteRepository
	resolver  *teams.Resolver
	metrics   *IngestionMetrics
	logger    *logrus.Logger
}

// NewIngestionService creates a new ingestion service
func NewIngestionService(
	schedule datasource.ScheduleSource,
	oddsBoard datasource.OddsSource,
	gameRepo repository.GameRepository,
	quoteRepo repository.QuoteRepository,
	resolver *teams.Resolver,
	logger *logrus.Logger,
) *IngestionService {
	if logger == nil {
		logger = logrus.New()
	}
	return &IngestionService{
		schedule:  schedule,
		oddsBoard: oddsBoard,
		gameRepo:  gameRepo,
		quoteRepo: quoteRepo,
		resolver:  resolver,
		metrics:   NewIngestionMetrics(),
		logger:    logger,
	}
}

// IngestSeasons fetches and stores every season in [firstSeason, lastSeason].
// A failed season aborts the run; a completed season stays stored.
func (s *IngestionService) IngestSeasons(ctx context.Context, firstSeason, lastSeason int) (*IngestionMetrics, error) {
	if firstSeason > lastSeason {
		return nil, fmt.Errorf("invalid season range %d-%d", firstSeason, lastSeason)
	}

	s.metrics.Reset()
	startTime := time.Now()
	skipsBefore := s.resolver.Skips()

	for season := firstSeason; season <= lastSeason; season++ {
		games, err := s.schedule.FetchSeason(ctx, season)
		if err != nil {
			s.metrics.RecordError()
			return s.metrics, fmt.Errorf("failed to fetch season %d: %w", season, err)
		}

		batch := make([]*models.GameRecord, len(games))
		for i := range games {
			batch[i] = &games[i]
		}
		if err := s.gameRepo.UpsertBatch(ctx, batch); err != nil {
			s.metrics.RecordError()
			return s.metrics, fmt.Errorf("failed to store season %d: %w", season, err)
		}

		s.metrics.RecordSeason(len(games), len(batch))
		metrics.RecordGamesIngested(len(batch))
		s.logger.WithFields(logrus.Fields{
			"season": season,
			"games":  len(batch),
		}).Info("Season ingested")
	}

	// The resolver count is cumulative across the process; the counter only
	// gets this run's share.
	if skips := s.resolver.Skips() - skipsBefore; skips > 0 {
		metrics.RecordTeamCodeSkips(skips)
	}

	s.metrics.Duration = time.Since(startTime)
	metrics.RecordIngestDuration(s.metrics.Duration.Seconds())
	s.logger.Info(s.metrics.String())

	return s.metrics, nil
}

// IngestOdds fetches the current odds board and stores the raw per-book quote
// rows. Returns the number of quote rows stored.
func (s *IngestionService) IngestOdds(ctx context.Context) (int, error) {
	if s.oddsBoard == nil {
		return 0, fmt.Errorf("no odds source configured")
	}

	events, err := s.oddsBoard.FetchEvents(ctx)
	if err != nil {
		s.metrics.RecordError()
		return 0, fmt.Errorf("failed to fetch odds board: %w", err)
	}

	quotes := odds.ExtractQuotes(events, s.resolver)
	if len(quotes) == 0 {
		s.logger.Warn("Odds board yielded no usable quotes")
		return 0, nil
	}

	batch := make([]*models.MarketQuote, len(quotes))
	for i := range quotes {
		batch[i] = &quotes[i]
	}
	if err := s.quoteRepo.InsertBatch(ctx, batch); err != nil {
		s.metrics.RecordError()
		return 0, fmt.Errorf("failed to store quotes: %w", err)
	}

	s.metrics.RecordQuotes(len(batch))
	metrics.RecordQuotesIngested(len(batch))
	s.logger.WithField("quotes", len(batch)).Info("Odds board ingested")

	return len(batch), nil
}

// GetMetrics returns current ingestion metrics
func (s *IngestionService) GetMetrics() *IngestionMetrics {
	return s.metrics
}
