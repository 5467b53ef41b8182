package pipeline

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/gamelog"
	"github.com/yourusername/gridiron-edge/internal/metrics"
	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/rating"
	"github.com/yourusername/gridiron-edge/internal/regression"
	"github.com/yourusername/gridiron-edge/internal/rollup"
)

// TrainerConfig parameterizes one training run.
type TrainerConfig struct {
	Window            int
	Alpha             float64
	FallbackSigma     float64
	Rating            rating.Config
	Features          FeatureConfig
	IncludeRestTravel bool
}

// DefaultTrainerConfig returns the standard parameterization.
func DefaultTrainerConfig() TrainerConfig {
	return TrainerConfig{
		Window:        rollup.DefaultWindow,
		Alpha:         regression.DefaultAlpha,
		FallbackSigma: regression.DefaultFallbackSigma,
		Rating:        rating.DefaultConfig(),
		Features:      DefaultFeatureConfig(),
	}
}

// TrainResult carries both fitted models plus the rollup index needed to build
// prediction-time features for upcoming games in the same input.
type TrainResult struct {
	Elo    *rating.Model
	Margin *models.FittedModel

	Rollups []models.RollupRow
	Index   RollupIndex

	// SkippedGames counts completed games excluded from the regression
	// training set for missing rollup sides or metrics.
	SkippedGames int
}

// Trainer runs the full feature-and-fit pipeline over a game history.
type Trainer struct {
	cfg    TrainerConfig
	logger *logrus.Logger
}

// NewTrainer creates a trainer.
func NewTrainer(cfg TrainerConfig, logger *logrus.Logger) *Trainer {
	if cfg.Window < 1 {
		cfg.Window = rollup.DefaultWindow
	}
	if len(cfg.Features.Names()) == 0 {
		cfg.Features = DefaultFeatureConfig()
	}
	if cfg.IncludeRestTravel {
		cfg.Features = cfg.Features.WithRestTravel()
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Trainer{cfg: cfg, logger: logger}
}

// Train builds team-game rows for every input game (upcoming games included,
// so their rollup rows exist for prediction), fits the margin regression on
// completed games, and replays the same games through the rating model.
// playMetrics optionally joins per-team-per-game efficiency metrics by
// (game key, team); pass nil when none are available.
func (t *Trainer) Train(games []models.GameRecord, playMetrics map[gamelog.MetricKey]map[string]float64) (*TrainResult, error) {
	if len(games) == 0 {
		return nil, fmt.Errorf("%w: no games to train on", models.ErrMissingColumn)
	}

	rows := gamelog.Build(games)
	if playMetrics != nil {
		gamelog.AttachMetrics(rows, playMetrics)
	}
	if t.cfg.IncludeRestTravel {
		AttachRestTravel(rows)
	}

	engine := rollup.NewEngine(t.cfg.Window, t.logger)
	rollups := engine.Rollup(rows)
	idx := IndexRollups(rollups)

	features, margins, skipped := t.cfg.Features.TrainingSet(games, idx)
	if skipped > 0 {
		metrics.TrainingGamesSkipped.Add(float64(skipped))
		t.logger.WithField("skipped", skipped).Warn("Games excluded from training set")
	}

	fitted, err := regression.Fit(features, margins, t.cfg.Features.Names(), regression.Config{
		Alpha:         t.cfg.Alpha,
		FallbackSigma: t.cfg.FallbackSigma,
		Logger:        t.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fit margin model: %w", err)
	}
	if fitted.Degenerate {
		metrics.DegenerateFits.Inc()
	}

	elo := rating.New(t.cfg.Rating, t.logger)
	elo.Train(games)

	t.logger.WithFields(logrus.Fields{
		"samples":   fitted.Samples,
		"sigma":     fitted.Sigma,
		"elo_games": elo.TrainedGames(),
	}).Info("Training complete")

	return &TrainResult{
		Elo:          elo,
		Margin:       fitted,
		Rollups:      rollups,
		Index:        idx,
		SkippedGames: skipped,
	}, nil
}
