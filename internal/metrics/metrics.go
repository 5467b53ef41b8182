// Package metrics provides the centralized Prometheus metrics registry for the
// forecasting pipeline.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	GamesIngested = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gridiron_edge",
		Name:      "games_ingested_total",
		Help:      "Total number of game records ingested",
	})
	QuotesIngested = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gridiron_edge",
		Name:      "quotes_ingested_total",
		Help:      "Total number of market quotes ingested",
	})
	TeamCodeSkips = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gridiron_edge",
		Name:      "team_code_skips_total",
		Help:      "Total number of records dropped for unresolvable team codes",
	})
	DegenerateFits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gridiron_edge",
		Name:      "degenerate_fits_total",
		Help:      "Total number of model fits whose residual spread fell back to the configured constant",
	})
	TrainingGamesSkipped = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gridiron_edge",
		Name:      "training_games_skipped_total",
		Help:      "Total number of completed games excluded from training for missing features",
	})
	GamesWithoutConsensus = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gridiron_edge",
		Name:      "games_without_consensus_total",
		Help:      "Total number of pick-sheet games emitted without a usable market quote",
	})
	PicksGenerated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gridiron_edge",
		Name:      "picks_generated_total",
		Help:      "Total number of edge rows written to the pick sheet",
	})
)

// Gauge metrics
var (
	ModelSigma = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "gridiron_edge",
		Name:      "model_residual_sigma",
		Help:      "Residual standard deviation of the last fitted margin model",
	})
	RatedTeams = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "gridiron_edge",
		Name:      "rated_teams",
		Help:      "Number of teams with a trained rating",
	})
	LastIngestTimestamp = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "gridiron_edge",
		Name:      "last_ingest_timestamp_seconds",
		Help:      "Unix time of the last successful data ingestion",
	})
)

// Histogram metrics
var (
	IngestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "gridiron_edge",
		Name:      "ingest_duration_seconds",
		Help:      "Duration of data ingestion runs in seconds",
		Buckets:   []float64{0.5, 1, 5, 10, 30, 60, 300},
	})
	TrainingDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "gridiron_edge",
		Name:      "training_duration_seconds",
		Help:      "Duration of model training runs in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	PickSheetDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "gridiron_edge",
		Name:      "pick_sheet_duration_seconds",
		Help:      "Duration of pick-sheet builds in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(GamesIngested)
		registry.MustRegister(QuotesIngested)
		registry.MustRegister(TeamCodeSkips)
		registry.MustRegister(DegenerateFits)
		registry.MustRegister(TrainingGamesSkipped)
		registry.MustRegister(GamesWithoutConsensus)
		registry.MustRegister(PicksGenerated)

		// Register gauge metrics
		registry.MustRegister(ModelSigma)
		registry.MustRegister(RatedTeams)
		registry.MustRegister(LastIngestTimestamp)

		// Register histogram metrics
		registry.MustRegister(IngestDuration)
		registry.MustRegister(TrainingDuration)
		registry.MustRegister(PickSheetDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordGamesIngested records a batch of ingested game records.
func RecordGamesIngested(count int) {
	GamesIngested.Add(float64(count))
}

// RecordQuotesIngested records a batch of ingested market quotes.
func RecordQuotesIngested(count int) {
	QuotesIngested.Add(float64(count))
}

// RecordTeamCodeSkips records records dropped for unresolvable team codes.
func RecordTeamCodeSkips(count int) {
	TeamCodeSkips.Add(float64(count))
}

// RecordIngestDuration records the duration of an ingestion run.
func RecordIngestDuration(durationSeconds float64) {
	IngestDuration.Observe(durationSeconds)
}

// RecordTrainingDuration records the duration of a training run.
func RecordTrainingDuration(durationSeconds float64) {
	TrainingDuration.Observe(durationSeconds)
}

// RecordPickSheetBuild records a pick-sheet build and its output size.
func RecordPickSheetBuild(durationSeconds float64, picks int) {
	PickSheetDuration.Observe(durationSeconds)
	PicksGenerated.Add(float64(picks))
}
