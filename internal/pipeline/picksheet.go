package pipeline

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/edge"
	"github.com/yourusername/gridiron-edge/internal/metrics"
	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/odds"
	"github.com/yourusername/gridiron-edge/internal/rating"
	"github.com/yourusername/gridiron-edge/internal/regression"
)

// Prober produces a model probability that the home side wins a game.
type Prober interface {
	HomeWinProb(game *models.GameRecord) (float64, error)
}

// EloProber scores games with the rating model. It never errors: unseen teams
// default to the initial rating.
type EloProber struct {
	Model *rating.Model
}

func (p *EloProber) HomeWinProb(game *models.GameRecord) (float64, error) {
	return p.Model.HomeWinProb(game.HomeTeam, game.AwayTeam), nil
}

// MarginProber scores games with the fitted margin regression, building the
// differential features from the rollup index recorded at training time.
type MarginProber struct {
	Model    *models.FittedModel
	Features FeatureConfig
	Index    RollupIndex
}

func (p *MarginProber) HomeWinProb(game *models.GameRecord) (float64, error) {
	home, away, err := p.Index.Sides(game)
	if err != nil {
		return 0, err
	}
	fm, ok := p.Features.GameFeatures(home, away)
	if !ok {
		return 0, fmt.Errorf("%w: incomplete features for game %s", models.ErrFeatureMismatch, game.Key())
	}
	margin, err := regression.Predict(p.Model, fm)
	if err != nil {
		return 0, err
	}
	return regression.MarginToProb(margin, p.Model.Sigma), nil
}

// SheetBuilder joins model probabilities with market fair probabilities into
// per-side edge rows, the pipeline's externally consumed artifact.
type SheetBuilder struct {
	prober     Prober
	normalizer *odds.Normalizer
	calc       *edge.Calculator
	probClip   float64
	logger     *logrus.Logger
}

// NewSheetBuilder creates a builder. probClip, when positive, clamps model
// probabilities into [clip, 1-clip] so a runaway fit never claims certainty.
func NewSheetBuilder(prober Prober, normalizer *odds.Normalizer, calc *edge.Calculator, probClip float64, logger *logrus.Logger) *SheetBuilder {
	if logger == nil {
		logger = logrus.New()
	}
	return &SheetBuilder{
		prober:     prober,
		normalizer: normalizer,
		calc:       calc,
		probClip:   probClip,
		logger:     logger,
	}
}

// Build emits two EdgeResults per upcoming game, one per side. Games without a
// usable market quote are still emitted with nil market fields so consumers see
// best-effort output for every game. A prober failure is fatal: feature
// misalignment must surface, never be papered over.
func (b *SheetBuilder) Build(games []models.GameRecord, consensus map[string]models.ConsensusQuote) ([]models.EdgeResult, error) {
	now := time.Now().UTC()
	var sheet []models.EdgeResult

	for i := range games {
		g := &games[i]
		if g.Completed() {
			continue
		}

		pHome, err := b.prober.HomeWinProb(g)
		if err != nil {
			return nil, fmt.Errorf("failed to score game %s: %w", g.Key(), err)
		}
		pHome = b.clip(pHome)

		homeRow := models.EdgeResult{
			ID:        uuid.New(),
			GameKey:   g.Key(),
			Season:    g.Season,
			Week:      g.Week,
			HomeTeam:  g.HomeTeam,
			AwayTeam:  g.AwayTeam,
			Side:      models.SideHome,
			ModelProb: pHome,
			CreatedAt: now,
		}
		awayRow := homeRow
		awayRow.ID = uuid.New()
		awayRow.Side = models.SideAway
		awayRow.ModelProb = 1 - pHome

		quote, ok := consensus[odds.Matchup(g.HomeTeam, g.AwayTeam)]
		if ok {
			fairHome, fairAway := b.normalizer.FairProbs(quote)
			homeRow.MarketPrice = quote.HomePrice
			homeRow.MarketProb = fairHome
			awayRow.MarketPrice = quote.AwayPrice
			awayRow.MarketProb = fairAway
			b.calc.Evaluate(&homeRow)
			b.calc.Evaluate(&awayRow)
		}
		if !homeRow.HasMarket() {
			metrics.GamesWithoutConsensus.Inc()
			b.logger.WithField("game", g.Key()).Warn("No usable market quote, emitting model-only row")
		}

		sheet = append(sheet, homeRow, awayRow)
	}
	return sheet, nil
}

func (b *SheetBuilder) clip(p float64) float64 {
	if b.probClip <= 0 {
		return p
	}
	if p < b.probClip {
		return b.probClip
	}
	if p > 1-b.probClip {
		return 1 - b.probClip
	}
	return p
}
