// Package logger provides structured logging for the forecasting pipeline.
package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger creates a configured logger. Invalid levels fall back to info so a
// bad config value never silences the process.
func NewLogger(logLevel string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		log.Warnf("Invalid log level '%s', defaulting to info", logLevel)
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	// JSON in production for log aggregation, colored text for development.
	if os.Getenv("ENVIRONMENT") == "production" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	return log
}

// PipelineLogger provides dedicated logging for pipeline runs.
type PipelineLogger struct {
	*logrus.Entry
}

// NewPipelineLogger creates a new pipeline logger.
func NewPipelineLogger(baseLogger *logrus.Logger) *PipelineLogger {
	return &PipelineLogger{
		Entry: baseLogger.WithField("component", "pipeline"),
	}
}

// LogIngestRun logs a data ingestion run.
func (pl *PipelineLogger) LogIngestRun(gamesIngested, quotesIngested, teamCodeSkips int, durationMs float64) {
	pl.WithFields(logrus.Fields{
		"games_ingested":  gamesIngested,
		"quotes_ingested": quotesIngested,
		"team_code_skips": teamCodeSkips,
		"duration_ms":     durationMs,
	}).Info("Data ingestion run completed")
}

// LogTraining logs a model training run.
func (pl *PipelineLogger) LogTraining(samples int, sigma float64, degenerate bool, eloGames int, durationMs float64) {
	pl.WithFields(logrus.Fields{
		"samples":     samples,
		"sigma":       sigma,
		"degenerate":  degenerate,
		"elo_games":   eloGames,
		"duration_ms": durationMs,
	}).Info("Model training completed")
}

// LogDegenerateFit logs a residual-spread fallback; the condition is recovered
// but must never be silent.
func (pl *PipelineLogger) LogDegenerateFit(sigma, fallback float64, samples int) {
	pl.WithFields(logrus.Fields{
		"sigma":    sigma,
		"fallback": fallback,
		"samples":  samples,
	}).Warn("Degenerate fit recovered with fallback sigma")
}

// LogPickSheet logs a pick-sheet build.
func (pl *PipelineLogger) LogPickSheet(picks, withoutMarket int, durationMs float64) {
	pl.WithFields(logrus.Fields{
		"picks":          picks,
		"without_market": withoutMarket,
		"duration_ms":    durationMs,
	}).Info("Pick sheet built")
}

// LogPick logs one recommended pick.
func (pl *PipelineLogger) LogPick(gameKey, side string, modelProb, marketProb, edge, stakeFraction float64) {
	pl.WithFields(logrus.Fields{
		"game_key":       gameKey,
		"side":           side,
		"model_prob":     modelProb,
		"market_prob":    marketProb,
		"edge":           edge,
		"stake_fraction": stakeFraction,
	}).Info("Pick recommended")
}
