package gamelog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/gridiron-edge/internal/models"
)

func fp(v float64) *float64 { return &v }

func TestBuildEmitsTwoPerspectives(t *testing.T) {
	games := []models.GameRecord{
		{Season: 2024, Week: 1, HomeTeam: "BUF", AwayTeam: "NYJ", HomeScore: fp(27), AwayScore: fp(20)},
	}

	rows := Build(games)
	require.Len(t, rows, 2)

	byTeam := map[string]models.TeamGameRow{}
	for _, r := range rows {
		byTeam[r.Team] = r
	}

	home := byTeam["BUF"]
	assert.True(t, home.Home)
	assert.Equal(t, "NYJ", home.Opponent)
	require.NotNil(t, home.PointsFor)
	assert.Equal(t, 27.0, *home.PointsFor)
	assert.Equal(t, 20.0, *home.PointsAgainst)
	assert.Equal(t, 7.0, *home.Margin)
	assert.True(t, home.Played)

	away := byTeam["NYJ"]
	assert.False(t, away.Home)
	assert.Equal(t, 20.0, *away.PointsFor)
	assert.Equal(t, -7.0, *away.Margin)
	assert.Equal(t, home.GameKey, away.GameKey)
}

func TestBuildFutureGameHasNilScores(t *testing.T) {
	games := []models.GameRecord{
		{Season: 2025, Week: 3, HomeTeam: "KC", AwayTeam: "DEN"},
	}

	rows := Build(games)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.Nil(t, r.PointsFor)
		assert.Nil(t, r.PointsAgainst)
		assert.Nil(t, r.Margin)
		assert.False(t, r.Played)
	}
}

func TestAttachMetrics(t *testing.T) {
	games := []models.GameRecord{
		{Season: 2024, Week: 1, HomeTeam: "BUF", AwayTeam: "NYJ", HomeScore: fp(27), AwayScore: fp(20)},
	}
	rows := Build(games)
	key := games[0].Key()

	AttachMetrics(rows, map[MetricKey]map[string]float64{
		{GameKey: key, Team: "BUF"}: {"epa_per_play": 0.12, "success_rate": 0.48},
	})

	for _, r := range rows {
		if r.Team == "BUF" {
			assert.Equal(t, 0.12, r.Metrics["epa_per_play"])
			assert.Equal(t, 0.48, r.Metrics["success_rate"])
		} else {
			_, ok := r.Metric("epa_per_play")
			assert.False(t, ok)
		}
	}
}

func TestSortChronologicalFallsBackToSeasonWeek(t *testing.T) {
	d1 := time.Date(2024, 9, 8, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 9, 15, 0, 0, 0, 0, time.UTC)

	rows := []models.TeamGameRow{
		{Team: "BUF", Season: 2024, Week: 2, Gameday: &d2, Opponent: "MIA"},
		{Team: "BUF", Season: 2024, Week: 1, Gameday: &d1, Opponent: "NYJ"},
		{Team: "ATL", Season: 2024, Week: 5, Opponent: "TB"},
		{Team: "ATL", Season: 2024, Week: 4, Opponent: "NO"},
	}

	SortChronological(rows)

	assert.Equal(t, "ATL", rows[0].Team)
	assert.Equal(t, 4, rows[0].Week)
	assert.Equal(t, 5, rows[1].Week)
	assert.Equal(t, "BUF", rows[2].Team)
	assert.Equal(t, 1, rows[2].Week)
	assert.Equal(t, 2, rows[3].Week)
}
