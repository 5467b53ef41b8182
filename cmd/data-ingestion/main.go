// Package main provides the entry point for the data ingestion service.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/config"
	"github.com/yourusername/gridiron-edge/internal/database"
	"github.com/yourusername/gridiron-edge/internal/datasource"
	"github.com/yourusername/gridiron-edge/internal/health"
	"github.com/yourusername/gridiron-edge/internal/logger"
	"github.com/yourusername/gridiron-edge/internal/metrics"
	"github.com/yourusername/gridiron-edge/internal/repository"
	"github.com/yourusername/gridiron-edge/internal/scheduler"
	"github.com/yourusername/gridiron-edge/internal/service"
	"github.com/yourusername/gridiron-edge/internal/teams"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadWithDefaults(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLog := logger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"version":     Version,
		"commit":      GitCommit,
	}).Info("Gridiron Edge ingestion service starting")

	metrics.InitRegistry()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()
	appLog.Info("Database connection established")

	repos, err := repository.NewRepositories(db)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize repositories")
	}

	resolver := teams.NewResolver(appLog)
	factory := datasource.NewFactory(cfg.DataSource, appLog)
	httpClient := factory.NewHTTPClient()
	defer httpClient.Close()

	scheduleSrc, err := factory.NewScheduleSource(httpClient, resolver)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to create schedule source")
	}

	oddsSrc, err := factory.NewOddsSource(httpClient)
	if err != nil {
		appLog.WithError(err).Warn("Odds source unavailable, running schedule-only")
		oddsSrc = nil
	}

	ingestionSvc := service.NewIngestionService(scheduleSrc, oddsSrc, repos.Game, repos.Quote, resolver, appLog)
	edgeSvc := service.NewEdgeService(cfg, repos, oddsSrc, resolver, appLog)

	sched := scheduler.NewScheduler(ingestionSvc, edgeSvc, appLog)
	if err := sched.ScheduleIngest(cfg.Ingestion.Schedule, cfg.Ingestion.FirstSeason); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule ingest job")
	}
	if err := sched.ScheduleSheetRefresh(cfg.Ingestion.Schedule); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule sheet refresh job")
	}
	if err := sched.Start(); err != nil {
		appLog.WithError(err).Fatal("Failed to start scheduler")
	}

	var metricsHandler = metrics.Handler()
	if !cfg.Metrics.Enabled {
		metricsHandler = nil
	}
	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Port:        fmt.Sprintf("%d", cfg.Metrics.Port),
		Logger:      appLog,
		DB:          db,
		Metrics:     metricsHandler,
		Details: func() map[string]string {
			d := map[string]string{"scheduler": "stopped"}
			if sched.IsRunning() {
				d["scheduler"] = "running"
				if next := sched.GetNextRun(); !next.IsZero() {
					d["next_run"] = next.UTC().Format(time.RFC3339)
				}
			}
			return d
		},
	})
	if err := healthServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}
	healthServer.SetReady(true)

	if cfg.Ingestion.RunOnStart {
		go func() {
			season := scheduler.CurrentSeason(time.Now().UTC())
			if _, err := ingestionSvc.IngestSeasons(ctx, cfg.Ingestion.FirstSeason, season); err != nil {
				appLog.WithError(err).Error("Startup ingest failed")
				return
			}
			if oddsSrc != nil {
				if _, err := ingestionSvc.IngestOdds(ctx); err != nil {
					appLog.WithError(err).Error("Startup odds ingest failed")
				}
			}
		}()
	}

	appLog.WithField("next_run", sched.GetNextRun()).Info("Ingestion service running")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	cancel()
	if err := sched.Stop(); err != nil {
		appLog.WithError(err).Error("Error stopping scheduler")
	}
	if err := healthServer.Shutdown(); err != nil {
		appLog.WithError(err).Error("Error stopping health server")
	}

	appLog.Info("Ingestion service shut down")
}
