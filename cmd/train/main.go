// Package main provides the model training command.
package main

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/gridiron-edge/internal/config"
	"github.com/yourusername/gridiron-edge/internal/database"
	"github.com/yourusername/gridiron-edge/internal/logger"
	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/pipeline"
	"github.com/yourusername/gridiron-edge/internal/rating"
	"github.com/yourusername/gridiron-edge/internal/repository"
	"github.com/yourusername/gridiron-edge/internal/scheduler"
)

var (
	configFile string
	lastSeason int
	appLog     *logrus.Logger
	cfg        *config.Config
	db         *database.DB
	repos      *repository.Repositories
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().IntVar(&lastSeason, "season", 0, "Last season to train through (default: current)")
}

var rootCmd = &cobra.Command{
	Use:   "train",
	Short: "Retrain the forecasting models on the stored game history",
	Long: `Rebuilds the rolling team form rollups, fits the margin regression, replays
the rating model over the stored history, and persists the fitted margin model.`,
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
		return runTraining()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func runTraining() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	season := lastSeason
	if season == 0 {
		season = scheduler.CurrentSeason(time.Now().UTC())
	}

	stored, err := repos.Game.GetSeasonRange(ctx, cfg.Ingestion.FirstSeason, season)
	if err != nil {
		return fmt.Errorf("failed to load game history: %w", err)
	}
	if len(stored) == 0 {
		return fmt.Errorf("no games stored for seasons %d-%d, run ingestion first", cfg.Ingestion.FirstSeason, season)
	}

	games := make([]models.GameRecord, len(stored))
	for i, g := range stored {
		games[i] = *g
	}

	trainer := pipeline.NewTrainer(pipeline.TrainerConfig{
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
	}, appLog)

	result, err := trainer.Train(games, nil)
	if err != nil {
		return err
	}

	if err := repos.Model.Save(ctx, "margin", result.Margin); err != nil {
		return fmt.Errorf("failed to persist fitted model: %w", err)
	}

	fmt.Printf("Trained on %d games (%d-%d)\n", len(games), cfg.Ingestion.FirstSeason, season)
	fmt.Printf("  Margin model: %d samples, sigma=%.2f", result.Margin.Samples, result.Margin.Sigma)
	if result.Margin.Degenerate {
		fmt.Print(" (degenerate fit, fallback sigma)")
	}
	fmt.Println()
	fmt.Printf("  Rating model: %d games replayed\n", result.Elo.TrainedGames())
	if result.SkippedGames > 0 {
		fmt.Printf("  Skipped %d games with incomplete features\n", result.SkippedGames)
	}

	fmt.Println("\nTop rated teams:")
	printTopRatings(result.Elo, 5)

	return nil
}

func printTopRatings(elo *rating.Model, n int) {
	type teamRating struct {
		team   string
		rating float64
	}
	ratings := elo.Ratings()
	sorted := make([]teamRating, 0, len(ratings))
	for team, r := range ratings {
		sorted = append(sorted, teamRating{team, r})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].rating != sorted[j].rating {
			return sorted[i].rating > sorted[j].rating
		}
		return sorted[i].team < sorted[j].team
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	for i := 0; i < n; i++ {
		fmt.Printf("  %2d. %-3s %7.1f\n", i+1, sorted[i].team, sorted[i].rating)
	}
}
