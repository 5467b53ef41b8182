package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/config"
	"github.com/yourusername/gridiron-edge/internal/datasource"
	"github.com/yourusername/gridiron-edge/internal/edge"
	"github.com/yourusername/gridiron-edge/internal/logger"
	"github.com/yourusername/gridiron-edge/internal/metrics"
	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/odds"
	"github.com/yourusername/gridiron-edge/internal/pipeline"
	"github.com/yourusername/gridiron-edge/internal/rating"
	"github.com/yourusername/gridiron-edge/internal/repository"
	"github.com/yourusername/gridiron-edge/internal/teams"
)

// marginModelName is the persistence key for the fitted margin regression.
const marginModelName = "margin"

// EdgeService runs the full train-and-pick workflow: load the stored game
// history, retrain both models, join the current odds board, and persist the
// resulting pick sheet.
type EdgeService struct {
	gameRepo    repository.GameRepository
	edgeRepo    repository.EdgeRepository
	modelRepo   repository.ModelRepository
	oddsBoard   datasource.OddsSource
	resolver    *teams.Resolver
	normalizer  *odds.Normalizer
	trainer     *pipeline.Trainer
	features    pipeline.FeatureConfig
	calc        *edge.Calculator
	probClip    float64
	firstSeason int
	logger      *logrus.Logger
	plog        *logger.PipelineLogger
}

// NewEdgeService creates the service from configuration.
func NewEdgeService(
	cfg *config.Config,
	repos *repository.Repositories,
	oddsBoard datasource.OddsSource,
	resolver *teams.Resolver,
	log *logrus.Logger,
) *EdgeService {
	if log == nil {
		log = logrus.New()
	}

	trainerCfg := pipeline.TrainerConfig{
		Window:        cfg.Model.RollingWindow,
		Alpha:         cfg.Model.RidgeAlpha,
		FallbackSigma: cfg.Model.FallbackSigma,
		Rating: rating.Config{
			InitialRating: cfg.Model.EloInitialRating,
			KFactor:       cfg.Model.EloKFactor,
			HomeAdvantage: cfg.Model.EloHomeAdvantage,
		},
		Features:          pipeline.DefaultFeatureConfig(),
		IncludeRestTravel: cfg.Model.IncludeRestTravel,
	}

	features := pipeline.DefaultFeatureConfig()
	if cfg.Model.IncludeRestTravel {
		features = features.WithRestTravel()
	}

	return &EdgeService{
		gameRepo:    repos.Game,
		edgeRepo:    repos.Edge,
		modelRepo:   repos.Model,
		oddsBoard:   oddsBoard,
		resolver:    resolver,
		normalizer:  odds.NewNormalizer(cfg.DataSource.PreferredBooks, log),
		trainer:     pipeline.NewTrainer(trainerCfg, log),
		features:    features,
		calc:        edge.NewCalculator(cfg.Staking.KellyCap, log),
		probClip:    cfg.Model.MinProbClip,
		firstSeason: cfg.Ingestion.FirstSeason,
		logger:      log,
		plog:        logger.NewPipelineLogger(log),
	}
}

// RefreshSheet retrains on the stored history through the given season and
// builds the pick sheet for one week. week 0 means every unplayed game of the
// season. The sheet replaces any previously stored sheet for the same weeks.
func (s *EdgeService) RefreshSheet(ctx context.Context, season, week int) ([]models.EdgeResult, error) {
	trainStart := time.Now()

	stored, err := s.gameRepo.GetSeasonRange(ctx, s.firstSeason, season)
	if err != nil {
		return nil, fmt.Errorf("failed to load game history: %w", err)
	}
	if len(stored) == 0 {
		return nil, fmt.Errorf("no games stored for seasons %d-%d", s.firstSeason, season)
	}

	games := make([]models.GameRecord, len(stored))
	for i, g := range stored {
		games[i] = *g
	}

	result, err := s.trainer.Train(games, nil)
	if err != nil {
		return nil, err
	}
	trainDuration := time.Since(trainStart)
	metrics.RecordTrainingDuration(trainDuration.Seconds())
	metrics.ModelSigma.Set(result.Margin.Sigma)
	metrics.RatedTeams.Set(float64(len(result.Elo.Ratings())))
	s.plog.LogTraining(result.Margin.Samples, result.Margin.Sigma, result.Margin.Degenerate,
		result.Elo.TrainedGames(), float64(trainDuration.Milliseconds()))

	if err := s.modelRepo.Save(ctx, marginModelName, result.Margin); err != nil {
		return nil, fmt.Errorf("failed to persist fitted model: %w", err)
	}

	consensus := s.fetchConsensus(ctx)

	var upcoming []models.GameRecord
	for i := range games {
		g := &games[i]
		if g.Season != season || g.Completed() {
			continue
		}
		if week > 0 && g.Week != week {
			continue
		}
		upcoming = append(upcoming, *g)
	}
	if len(upcoming) == 0 {
		return nil, fmt.Errorf("no upcoming games for season %d week %d", season, week)
	}

	buildStart := time.Now()
	prober := &pipeline.MarginProber{Model: result.Margin, Features: s.features, Index: result.Index}
	builder := pipeline.NewSheetBuilder(prober, s.normalizer, s.calc, s.probClip, s.logger)
	sheet, err := builder.Build(upcoming, consensus)
	if err != nil {
		return nil, err
	}

	batch := make([]*models.EdgeResult, len(sheet))
	withoutMarket := 0
	for i := range sheet {
		batch[i] = &sheet[i]
		if !sheet[i].HasMarket() {
			withoutMarket++
		}
	}
	if err := s.edgeRepo.SaveSheet(ctx, batch); err != nil {
		return nil, fmt.Errorf("failed to persist pick sheet: %w", err)
	}

	buildDuration := time.Since(buildStart)
	metrics.RecordPickSheetBuild(buildDuration.Seconds(), len(sheet))
	s.plog.LogPickSheet(len(sheet), withoutMarket, float64(buildDuration.Milliseconds()))

	return sheet, nil
}

// fetchConsensus pulls the current board and reduces it per game. A board
// failure degrades to model-only output instead of aborting the sheet.
func (s *EdgeService) fetchConsensus(ctx context.Context) map[string]models.ConsensusQuote {
	if s.oddsBoard == nil {
		return map[string]models.ConsensusQuote{}
	}

	events, err := s.oddsBoard.FetchEvents(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("Odds board unavailable, building model-only sheet")
		return map[string]models.ConsensusQuote{}
	}
	return s.normalizer.ConsensusByGame(events, s.resolver)
}
