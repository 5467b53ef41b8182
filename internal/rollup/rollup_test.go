package rollup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/gridiron-edge/internal/models"
)

func playedRow(team string, season, week int, pf, pa float64) models.TeamGameRow {
	margin := pf - pa
	return models.TeamGameRow{
		Team:          team,
		Opponent:      "OPP",
		Season:        season,
		Week:          week,
		PointsFor:     &pf,
		PointsAgainst: &pa,
		Margin:        &margin,
		Played:        true,
	}
}

func find(rows []models.RollupRow, team string, season, week int) *models.RollupRow {
	for i := range rows {
		if rows[i].Team == team && rows[i].Season == season && rows[i].Week == week {
			return &rows[i]
		}
	}
	return nil
}

func TestTrailingMeanExcludesCurrentGame(t *testing.T) {
	engine := NewEngine(3, nil)
	rows := []models.TeamGameRow{
		playedRow("BUF", 2024, 1, 10, 0),
		playedRow("BUF", 2024, 2, 20, 0),
		playedRow("BUF", 2024, 3, 30, 0),
		playedRow("BUF", 2024, 4, 40, 0),
		playedRow("BUF", 2024, 5, 50, 0),
	}

	out := engine.Rollup(rows)

	// Week 2 sees only week 1.
	w2 := find(out, "BUF", 2024, 2)
	require.NotNil(t, w2)
	assert.InDelta(t, 10.0, w2.Trailing[models.BaseMetricPointsFor], 1e-9)

	// Week 5 sees weeks 2-4 only: (20+30+40)/3.
	w5 := find(out, "BUF", 2024, 5)
	require.NotNil(t, w5)
	assert.InDelta(t, 30.0, w5.Trailing[models.BaseMetricPointsFor], 1e-9)

	// Season-to-date at week 5 is (10+20+30+40)/4 with 4 prior games.
	assert.InDelta(t, 25.0, w5.SeasonToDate[models.BaseMetricPointsFor], 1e-9)
	assert.Equal(t, 4, w5.PriorGames)
	assert.False(t, w5.LeagueFilled)
}

func TestNoLeakageFromLaterGames(t *testing.T) {
	engine := NewEngine(4, nil)
	base := []models.TeamGameRow{
		playedRow("KC", 2024, 1, 21, 14),
		playedRow("KC", 2024, 2, 28, 10),
		playedRow("KC", 2024, 3, 17, 20),
		playedRow("KC", 2024, 4, 31, 3),
	}

	full := engine.Rollup(base)
	week3Full := find(full, "KC", 2024, 3)
	require.NotNil(t, week3Full)

	// Mutating the week-4 game must not change week 3's rollups.
	mutated := make([]models.TeamGameRow, len(base))
	copy(mutated, base)
	mutated[3] = playedRow("KC", 2024, 4, 99, 0)

	week3Mutated := find(engine.Rollup(mutated), "KC", 2024, 3)
	require.NotNil(t, week3Mutated)
	assert.Equal(t, week3Full.Trailing, week3Mutated.Trailing)
	assert.Equal(t, week3Full.SeasonToDate, week3Mutated.SeasonToDate)

	// Removing the week-4 game must not change week 3 either.
	week3Truncated := find(engine.Rollup(base[:3]), "KC", 2024, 3)
	require.NotNil(t, week3Truncated)
	assert.Equal(t, week3Full.Trailing, week3Truncated.Trailing)
}

func TestFirstGameFallsBackToLeagueAverage(t *testing.T) {
	engine := NewEngine(5, nil)
	rows := []models.TeamGameRow{
		playedRow("BUF", 2024, 1, 30, 10),
		playedRow("MIA", 2024, 1, 10, 30),
		playedRow("NYJ", 2024, 1, 20, 20),
	}

	out := engine.Rollup(rows)

	// Cross-team league average of points_for is (30+10+20)/3 = 20, not zero
	// and not null.
	first := find(out, "BUF", 2024, 1)
	require.NotNil(t, first)
	assert.True(t, first.LeagueFilled)
	assert.InDelta(t, 20.0, first.Trailing[models.BaseMetricPointsFor], 1e-9)
	assert.InDelta(t, 20.0, first.SeasonToDate[models.BaseMetricPointsFor], 1e-9)
	assert.InDelta(t, 0.0, first.Trailing[models.BaseMetricMargin], 1e-9)
	assert.Equal(t, 0, first.PriorGames)
}

func TestAbsentMetricIsOmittedNotZeroFilled(t *testing.T) {
	engine := NewEngine(5, nil)
	rows := []models.TeamGameRow{
		playedRow("BUF", 2024, 1, 30, 10),
		playedRow("BUF", 2024, 2, 24, 17),
	}
	rows[0].Metrics = map[string]float64{"epa_per_play": 0.2}
	rows[1].Metrics = map[string]float64{"epa_per_play": 0.1}

	out := engine.Rollup(rows)
	w2 := find(out, "BUF", 2024, 2)
	require.NotNil(t, w2)

	_, ok := w2.TrailingMetric("epa_per_play")
	assert.True(t, ok)
	_, ok = w2.TrailingMetric("success_rate")
	assert.False(t, ok, "untracked metric must be absent, not zero")
}

func TestSeasonToDateResetsAcrossSeasons(t *testing.T) {
	engine := NewEngine(3, nil)
	rows := []models.TeamGameRow{
		playedRow("DAL", 2023, 17, 40, 0),
		playedRow("DAL", 2023, 18, 40, 0),
		playedRow("DAL", 2024, 1, 10, 0),
		playedRow("DAL", 2024, 2, 10, 0),
	}

	out := engine.Rollup(rows)

	// Trailing window spans seasons: 2024 week 2 sees (40+40+10)/3.
	w2 := find(out, "DAL", 2024, 2)
	require.NotNil(t, w2)
	assert.InDelta(t, 30.0, w2.Trailing[models.BaseMetricPointsFor], 1e-9)

	// Season-to-date does not: it sees only 2024 week 1.
	assert.InDelta(t, 10.0, w2.SeasonToDate[models.BaseMetricPointsFor], 1e-9)
	assert.Equal(t, 1, w2.PriorGames)
}

func TestRollupDeterministic(t *testing.T) {
	engine := NewEngine(4, nil)
	rows := []models.TeamGameRow{
		playedRow("SEA", 2024, 1, 17, 13),
		playedRow("SF", 2024, 1, 13, 17),
		playedRow("SEA", 2024, 2, 20, 27),
		playedRow("SF", 2024, 2, 27, 20),
	}

	a := engine.Rollup(rows)
	b := engine.Rollup(rows)
	assert.Equal(t, a, b)
}
