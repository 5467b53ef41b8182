package backtest

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/edge"
	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/odds"
	"github.com/yourusername/gridiron-edge/internal/pipeline"
)

// Config parameterizes a walk-forward run.
type Config struct {
	Trainer pipeline.TrainerConfig

	// MinTrainGames is the completed-game count required before a week is
	// evaluated; earlier weeks only feed the training history.
	MinTrainGames int

	// EdgeThreshold is the minimum positive edge required to simulate a bet.
	EdgeThreshold float64

	KellyCap float64
	ProbClip float64
	Bankroll float64

	// PreferredBooks feeds the consensus normalizer for the quote join.
	PreferredBooks []string
}

// DefaultConfig returns the standard parameterization
func DefaultConfig() Config {
	return Config{
		Trainer:       pipeline.DefaultTrainerConfig(),
		MinTrainGames: 64,
		EdgeThreshold: 0.02,
		KellyCap:      edge.DefaultKellyCap,
		ProbClip:      0.02,
		Bankroll:      1000,
	}
}

// SimulatedBet is one settled bet in the simulation.
type SimulatedBet struct {
	GameKey string      `json:"game_key"`
	Side    models.Side `json:"side"`
	Price   float64     `json:"price"`
	Edge    float64     `json:"edge"`
	Stake   float64     `json:"stake"`
	Won     bool        `json:"won"`
	Profit  float64     `json:"profit"`
}

// WeekResult is the forecast and betting outcome of one evaluated week.
type WeekResult struct {
	Season     int
	Week       int
	Games      int
	Correct    int
	BrierSum   float64
	LogLossSum float64
	Bets       []SimulatedBet
}

// Result is the full walk-forward output.
type Result struct {
	Weeks   []WeekResult
	Curve   EquityCurve
	Metrics Metrics
}

// Engine replays a stored history week by week: each evaluated week's models
// are trained only on games played before it, so every forecast is
// out-of-sample.
type Engine struct {
	cfg        Config
	features   pipeline.FeatureConfig
	normalizer *odds.Normalizer
	logger     *logrus.Logger
}

// NewEngine creates a walk-forward engine
func NewEngine(cfg Config, logger *logrus.Logger) *Engine {
	if logger == nil {
		logger = logrus.New()
	}
	if cfg.Bankroll <= 0 {
		cfg.Bankroll = DefaultConfig().Bankroll
	}
	if cfg.KellyCap <= 0 {
		cfg.KellyCap = edge.DefaultKellyCap
	}

	features := cfg.Trainer.Features
	if len(features.Names()) == 0 {
		features = pipeline.DefaultFeatureConfig()
	}
	if cfg.Trainer.IncludeRestTravel {
		features = features.WithRestTravel()
	}

	return &Engine{
		cfg:        cfg,
		features:   features,
		normalizer: odds.NewNormalizer(cfg.PreferredBooks, logger),
		logger:     logger,
	}
}

type seasonWeek struct {
	season int
	week   int
}

// Run walks the completed games of the input chronologically. quotes maps
// odds.Matchup keys to historical consensus quotes; pass nil to score
// forecasts without the betting simulation.
func (e *Engine) Run(ctx context.Context, games []models.GameRecord, quotes map[string]models.ConsensusQuote) (*Result, error) {
	var completed []models.GameRecord
	for i := range games {
		if games[i].Completed() {
			completed = append(completed, games[i])
		}
	}
	if len(completed) == 0 {
		return nil, fmt.Errorf("no completed games to replay")
	}

	byWeek := map[seasonWeek][]models.GameRecord{}
	for _, g := range completed {
		key := seasonWeek{g.Season, g.Week}
		byWeek[key] = append(byWeek[key], g)
	}
	order := make([]seasonWeek, 0, len(byWeek))
	for key := range byWeek {
		order = append(order, key)
	}
	sort.Slice(order, func(i, j int) bool {
		if order[i].season != order[j].season {
			return order[i].season < order[j].season
		}
		return order[i].week < order[j].week
	})

	trainer := pipeline.NewTrainer(e.cfg.Trainer, e.logger)
	bankroll := e.cfg.Bankroll
	result := &Result{}
	var history []models.GameRecord

	for _, key := range order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		weekGames := byWeek[key]

		if len(history) < e.cfg.MinTrainGames {
			history = append(history, weekGames...)
			continue
		}

		week, err := e.evaluateWeek(trainer, history, weekGames, quotes, &bankroll)
		if err != nil {
			return nil, fmt.Errorf("failed to evaluate %d week %d: %w", key.season, key.week, err)
		}
		result.Weeks = append(result.Weeks, *week)
		result.Curve = append(result.Curve, e.equityPoint(key, bankroll, result.Curve))

		history = append(history, weekGames...)
	}

	if len(result.Weeks) == 0 {
		return nil, fmt.Errorf("history too short: %d completed games, %d required before evaluation",
			len(completed), e.cfg.MinTrainGames)
	}

	result.Metrics = CalculateMetrics(result.Weeks, result.Curve, e.cfg.Bankroll)
	e.logger.WithFields(logrus.Fields{
		"weeks":    result.Metrics.Weeks,
		"games":    result.Metrics.GamesScored,
		"brier":    result.Metrics.BrierScore,
		"accuracy": result.Metrics.Accuracy,
		"bets":     result.Metrics.TotalBets,
		"return":   result.Metrics.TotalReturn,
	}).Info("Walk-forward run complete")

	return result, nil
}

// evaluateWeek trains on the history, forecasts one week, and settles any
// simulated bets against the actual outcomes.
func (e *Engine) evaluateWeek(
	trainer *pipeline.Trainer,
	history, weekGames []models.GameRecord,
	quotes map[string]models.ConsensusQuote,
	bankroll *float64,
) (*WeekResult, error) {
	// The week under evaluation enters training blind: scores stripped, so
	// its rollup rows exist for feature building but never leak outcomes.
	input := make([]models.GameRecord, 0, len(history)+len(weekGames))
	input = append(input, history...)
	for _, g := range weekGames {
		blind := g
		blind.HomeScore = nil
		blind.AwayScore = nil
		input = append(input, blind)
	}

	trained, err := trainer.Train(input, nil)
	if err != nil {
		return nil, err
	}
	prober := &pipeline.MarginProber{Model: trained.Margin, Features: e.features, Index: trained.Index}

	week := &WeekResult{Season: weekGames[0].Season, Week: weekGames[0].Week}
	for i := range weekGames {
		g := &weekGames[i]
		pHome, err := prober.HomeWinProb(g)
		if err != nil {
			return nil, err
		}
		pHome = clamp(pHome, e.cfg.ProbClip)

		y := 0.0
		if g.HomeWon() {
			y = 1.0
		}
		week.Games++
		week.BrierSum += (pHome - y) * (pHome - y)
		week.LogLossSum += -(y*math.Log(pHome) + (1-y)*math.Log(1-pHome))
		if (pHome > 0.5) == g.HomeWon() {
			week.Correct++
		}

		if quotes != nil {
			if bet, ok := e.simulateBet(g, pHome, quotes, *bankroll); ok {
				*bankroll += bet.Profit
				week.Bets = append(week.Bets, bet)
			}
		}
	}
	return week, nil
}

// simulateBet places at most one bet per game, on the side with the larger
// positive edge over the vig-free market probability.
func (e *Engine) simulateBet(g *models.GameRecord, pHome float64, quotes map[string]models.ConsensusQuote, bankroll float64) (SimulatedBet, bool) {
	quote, ok := quotes[odds.Matchup(g.HomeTeam, g.AwayTeam)]
	if !ok || !quote.Complete() {
		return SimulatedBet{}, false
	}

	fairHome, fairAway := e.normalizer.FairProbs(quote)
	if fairHome == nil || fairAway == nil {
		return SimulatedBet{}, false
	}

	homeEdge := edge.Edge(pHome, *fairHome)
	awayEdge := edge.Edge(1-pHome, *fairAway)

	side := models.SideHome
	prob := pHome
	price := *quote.HomePrice
	betEdge := homeEdge
	if awayEdge > homeEdge {
		side = models.SideAway
		prob = 1 - pHome
		price = *quote.AwayPrice
		betEdge = awayEdge
	}
	if betEdge < e.cfg.EdgeThreshold {
		return SimulatedBet{}, false
	}

	fraction := edge.KellyFraction(prob, price, e.cfg.KellyCap)
	if fraction <= 0 {
		return SimulatedBet{}, false
	}
	stake := fraction * bankroll

	won := g.HomeWon() == (side == models.SideHome)
	profit := -stake
	if won {
		profit = stake * edge.DecimalPayout(price)
	}

	return SimulatedBet{
		GameKey: g.Key(),
		Side:    side,
		Price:   price,
		Edge:    betEdge,
		Stake:   stake,
		Won:     won,
		Profit:  profit,
	}, true
}

func (e *Engine) equityPoint(key seasonWeek, bankroll float64, curve EquityCurve) EquityPoint {
	prev := e.cfg.Bankroll
	peak := e.cfg.Bankroll
	for _, p := range curve {
		if p.Value > peak {
			peak = p.Value
		}
	}
	if len(curve) > 0 {
		prev = curve[len(curve)-1].Value
	}
	if bankroll > peak {
		peak = bankroll
	}

	drawdown := 0.0
	if peak > 0 {
		drawdown = (peak - bankroll) / peak
	}
	return EquityPoint{
		Season:   key.season,
		Week:     key.week,
		Value:    bankroll,
		Drawdown: drawdown,
		WeekPnL:  bankroll - prev,
	}
}

func clamp(p, clip float64) float64 {
	if clip <= 0 {
		clip = 1e-6
	}
	if p < clip {
		return clip
	}
	if p > 1-clip {
		return 1 - clip
	}
	return p
}
