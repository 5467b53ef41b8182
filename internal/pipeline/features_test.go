package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/gridiron-edge/internal/models"
)

func rollupRow(gameKey, team string, trailing map[string]float64) models.RollupRow {
	return models.RollupRow{
		TeamGameRow: models.TeamGameRow{GameKey: gameKey, Team: team},
		Trailing:    trailing,
	}
}

func TestFeatureNamesOrdered(t *testing.T) {
	cfg := DefaultFeatureConfig().WithRestTravel()
	assert.Equal(t, []string{
		"diff_points_for",
		"diff_points_against",
		"diff_margin",
		"diff_rest_days",
		"diff_travel_km",
	}, cfg.Names())
}

func TestGameFeaturesDifferentials(t *testing.T) {
	cfg := FeatureConfig{TrailingMetrics: []string{models.BaseMetricMargin}}
	home := rollupRow("g1", "BUF", map[string]float64{models.BaseMetricMargin: 6})
	away := rollupRow("g1", "NYJ", map[string]float64{models.BaseMetricMargin: -2})

	fm, ok := cfg.GameFeatures(&home, &away)
	require.True(t, ok)
	assert.Equal(t, 8.0, fm["diff_margin"])
}

func TestGameFeaturesMissingMetric(t *testing.T) {
	cfg := FeatureConfig{TrailingMetrics: []string{models.BaseMetricMargin}}
	home := rollupRow("g1", "BUF", map[string]float64{models.BaseMetricMargin: 6})
	away := rollupRow("g1", "NYJ", nil)

	_, ok := cfg.GameFeatures(&home, &away)
	assert.False(t, ok, "missing metric must not be zero-filled")
}

func TestRollupIndexSides(t *testing.T) {
	rows := []models.RollupRow{
		rollupRow("2024_05_NYJ_BUF", "BUF", nil),
		rollupRow("2024_05_NYJ_BUF", "NYJ", nil),
	}
	idx := IndexRollups(rows)

	game := models.GameRecord{GameID: "2024_05_NYJ_BUF", HomeTeam: "BUF", AwayTeam: "NYJ"}
	home, away, err := idx.Sides(&game)
	require.NoError(t, err)
	assert.Equal(t, "BUF", home.Team)
	assert.Equal(t, "NYJ", away.Team)

	missing := models.GameRecord{GameID: "2024_05_MIA_NE", HomeTeam: "NE", AwayTeam: "MIA"}
	_, _, err = idx.Sides(&missing)
	assert.Error(t, err)
}

func TestTrainingSetSkipsIncompleteGames(t *testing.T) {
	cfg := FeatureConfig{TrailingMetrics: []string{models.BaseMetricMargin}}

	hs, as := 24.0, 17.0
	games := []models.GameRecord{
		{GameID: "g1", HomeTeam: "BUF", AwayTeam: "NYJ", HomeScore: &hs, AwayScore: &as},
		{GameID: "g2", HomeTeam: "MIA", AwayTeam: "NE", HomeScore: &hs, AwayScore: &as}, // no rollup rows
		{GameID: "g3", HomeTeam: "BUF", AwayTeam: "MIA"},                               // future game
	}
	idx := IndexRollups([]models.RollupRow{
		rollupRow("g1", "BUF", map[string]float64{models.BaseMetricMargin: 3}),
		rollupRow("g1", "NYJ", map[string]float64{models.BaseMetricMargin: -1}),
	})

	X, y, skipped := cfg.TrainingSet(games, idx)
	require.Len(t, X, 1)
	assert.Equal(t, []float64{4}, X[0])
	assert.Equal(t, []float64{7}, y)
	assert.Equal(t, 1, skipped, "future games are not skips, missing rollups are")
}
