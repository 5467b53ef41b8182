package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistry(t *testing.T) {
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
}

func TestRegistryIsSingleton(t *testing.T) {
	assert.Same(t, InitRegistry(), InitRegistry())
	assert.Same(t, GetRegistry(), InitRegistry())
}

func TestRecordHelpers(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordGamesIngested(285)
		RecordQuotesIngested(1200)
		RecordTeamCodeSkips(2)
		RecordIngestDuration(1.2)
		RecordTrainingDuration(0.4)
		RecordPickSheetBuild(0.1, 32)
		DegenerateFits.Inc()
		GamesWithoutConsensus.Inc()
		ModelSigma.Set(13.5)
		RatedTeams.Set(32)
	})
}

func TestHandlerServesMetrics(t *testing.T) {
	InitRegistry()
	RecordGamesIngested(1)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "gridiron_edge_games_ingested_total")
}
