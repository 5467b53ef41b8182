// Package main provides the pick sheet command.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/gridiron-edge/internal/config"
	"github.com/yourusername/gridiron-edge/internal/database"
	"github.com/yourusername/gridiron-edge/internal/datasource"
	"github.com/yourusername/gridiron-edge/internal/logger"
	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/repository"
	"github.com/yourusername/gridiron-edge/internal/scheduler"
	"github.com/yourusername/gridiron-edge/internal/service"
	"github.com/yourusername/gridiron-edge/internal/teams"
)

var (
	configFile string
	season     int
	week       int
	bankroll   float64
	appLog     *logrus.Logger
	cfg        *config.Config
	db         *database.DB
	repos      *repository.Repositories
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().IntVar(&season, "season", 0, "Season to build picks for (default: current)")
	rootCmd.Flags().IntVar(&week, "week", 0, "Week to build picks for (default: every unplayed game)")
	rootCmd.Flags().Float64Var(&bankroll, "bankroll", 0, "Bankroll for stake sizing (default: configured)")
}

var rootCmd = &cobra.Command{
	Use:   "picks",
	Short: "Build and print the betting pick sheet",
	Long: `Retrains the models on the stored history, joins the current odds board,
and prints per-side edges and capped Kelly stakes for upcoming games.`,
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
		return runPicks()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func runPicks() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if season == 0 {
		season = scheduler.CurrentSeason(time.Now().UTC())
	}

	resolver := teams.NewResolver(appLog)
	factory := datasource.NewFactory(cfg.DataSource, appLog)
	httpClient := factory.NewHTTPClient()
	defer httpClient.Close()

	oddsSrc, err := factory.NewOddsSource(httpClient)
	if err != nil {
		appLog.WithError(err).Warn("Odds source unavailable, building model-only sheet")
		oddsSrc = nil
	}

	svc := service.NewEdgeService(cfg, repos, oddsSrc, resolver, appLog)
	sheet, err := svc.RefreshSheet(ctx, season, week)
	if err != nil {
		return err
	}

	roll := decimal.NewFromFloat(cfg.Staking.Bankroll)
	if bankroll > 0 {
		roll = decimal.NewFromFloat(bankroll)
	}

	printSheet(sheet, roll)
	return nil
}

func printSheet(sheet []models.EdgeResult, bankroll decimal.Decimal) {
	fmt.Printf("%-22s %-4s %7s %8s %8s %7s %10s\n",
		"GAME", "SIDE", "MODEL", "MARKET", "EDGE", "KELLY", "STAKE")

	for i := range sheet {
		row := &sheet[i]
		if !row.HasMarket() {
			fmt.Printf("%-22s %-4s %6.1f%% %8s %8s %7s %10s\n",
				row.GameKey, row.Side, row.ModelProb*100, "-", "-", "-", "-")
			continue
		}
		fmt.Printf("%-22s %-4s %6.1f%% %7.1f%% %+7.3f %6.3f %10s\n",
			row.GameKey, row.Side, row.ModelProb*100, *row.MarketProb*100,
			*row.Edge, *row.StakeFraction, "$"+row.StakeAmount(bankroll).StringFixed(2))
	}
}
