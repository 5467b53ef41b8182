// Package main provides the walk-forward backtest command.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/gridiron-edge/internal/backtest"
	"github.com/yourusername/gridiron-edge/internal/config"
	"github.com/yourusername/gridiron-edge/internal/database"
	"github.com/yourusername/gridiron-edge/internal/logger"
	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/odds"
	"github.com/yourusername/gridiron-edge/internal/pipeline"
	"github.com/yourusername/gridiron-edge/internal/rating"
	"github.com/yourusername/gridiron-edge/internal/repository"
	"github.com/yourusername/gridiron-edge/internal/scheduler"
)

var (
	configFile    string
	firstSeason   int
	lastSeason    int
	minTrainGames int
	edgeThreshold float64
	curveOut      string
	appLog        *logrus.Logger
	cfg           *config.Config
	db            *database.DB
	repos         *repository.Repositories
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().IntVar(&firstSeason, "first-season", 0, "First season to replay (default: configured)")
	rootCmd.Flags().IntVar(&lastSeason, "last-season", 0, "Last season to replay (default: current)")
	rootCmd.Flags().IntVar(&minTrainGames, "min-train-games", 64, "Completed games required before evaluation starts")
	rootCmd.Flags().Float64Var(&edgeThreshold, "edge-threshold", 0.02, "Minimum edge to simulate a bet")
	rootCmd.Flags().StringVar(&curveOut, "equity-csv", "", "Write the equity curve to this CSV file")
}

var rootCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Replay the stored history with out-of-sample forecasts",
	Long: `Walks the stored game history week by week, training the models only on
games already played, and reports forecast quality plus a simulated betting
run against stored market quotes.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadWithDefaults(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		appLog = logger.NewLogger(cfg.App.LogLevel)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		db, err = database.Initialize(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		repos, err = repository.NewRepositories(db)
		if err != nil {
			return fmt.Errorf("failed to initialize repositories: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		defer db.Close()
		return runBacktest()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func runBacktest() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	first := firstSeason
	if first == 0 {
		first = cfg.Ingestion.FirstSeason
	}
	last := lastSeason
	if last == 0 {
		last = scheduler.CurrentSeason(time.Now().UTC())
	}

	stored, err := repos.Game.GetSeasonRange(ctx, first, last)
	if err != nil {
		return fmt.Errorf("failed to load game history: %w", err)
	}
	if len(stored) == 0 {
		return fmt.Errorf("no games stored for seasons %d-%d, run ingestion first", first, last)
	}

	games := make([]models.GameRecord, len(stored))
	for i, g := range stored {
		games[i] = *g
	}

	engineCfg := backtest.Config{
		Trainer: pipeline.TrainerConfig{
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
		},
		MinTrainGames:  minTrainGames,
		EdgeThreshold:  edgeThreshold,
		KellyCap:       cfg.Staking.KellyCap,
		ProbClip:       cfg.Model.MinProbClip,
		Bankroll:       cfg.Staking.Bankroll,
		PreferredBooks: cfg.DataSource.PreferredBooks,
	}

	engine := backtest.NewEngine(engineCfg, appLog)
	result, err := engine.Run(ctx, games, loadStoredConsensus(ctx))
	if err != nil {
		return err
	}

	printMetrics(result.Metrics, first, last)

	if curveOut != "" {
		if err := os.WriteFile(curveOut, []byte(result.Curve.ToCSV()), 0o644); err != nil {
			return fmt.Errorf("failed to write equity curve: %w", err)
		}
		fmt.Printf("\nEquity curve written to %s\n", curveOut)
	}

	return nil
}

// loadStoredConsensus reduces every stored per-book quote to one consensus
// quote per game. Returns nil when no quotes are stored, which limits the run
// to forecast scoring.
func loadStoredConsensus(ctx context.Context) map[string]models.ConsensusQuote {
	rows, err := repos.Quote.GetFetchedSince(ctx, time.Time{})
	if err != nil {
		appLog.WithError(err).Warn("Failed to load stored quotes, skipping betting simulation")
		return nil
	}
	if len(rows) == 0 {
		return nil
	}

	flat := make([]models.MarketQuote, len(rows))
	for i, q := range rows {
		flat[i] = *q
	}

	normalizer := odds.NewNormalizer(cfg.DataSource.PreferredBooks, appLog)
	consensus := map[string]models.ConsensusQuote{}
	for gameKey, byType := range odds.GroupQuotes(flat) {
		moneyline, ok := byType[models.MarketTypeMoneyline]
		if !ok {
			continue
		}
		quote := normalizer.Consensus(moneyline)
		quote.GameKey = gameKey
		consensus[gameKey] = quote
	}
	return consensus
}

func printMetrics(m backtest.Metrics, first, last int) {
	fmt.Printf("Walk-forward replay %d-%d\n\n", first, last)
	fmt.Printf("Forecast quality (%d games over %d weeks):\n", m.GamesScored, m.Weeks)
	fmt.Printf("  Brier score: %.4f\n", m.BrierScore)
	fmt.Printf("  Log loss:    %.4f\n", m.LogLoss)
	fmt.Printf("  Accuracy:    %.1f%%\n", m.Accuracy*100)

	if m.TotalBets == 0 {
		fmt.Println("\nNo market quotes stored for the replayed window, betting simulation skipped")
		return
	}

	fmt.Printf("\nBetting simulation (%d bets):\n", m.TotalBets)
	fmt.Printf("  Win rate:      %.1f%%\n", m.WinRate*100)
	fmt.Printf("  Total return:  %+.1f%%\n", m.TotalReturn*100)
	fmt.Printf("  Max drawdown:  %.1f%%\n", m.MaxDrawdown*100)
	fmt.Printf("  Profit factor: %.2f\n", m.ProfitFactor)
	fmt.Printf("  Final bankroll: $%.2f (from $%.2f)\n", m.FinalBankroll, m.StartBankroll)
}
