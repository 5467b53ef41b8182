package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/gridiron-edge/internal/models"
)

func day(s string) *time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &d
}

func TestHaversineKm(t *testing.T) {
	assert.Equal(t, 0.0, HaversineKm(42.7738, -78.7870, 42.7738, -78.7870))

	buf, mia := stadiumCoords["BUF"], stadiumCoords["MIA"]
	d := HaversineKm(buf.lat, buf.lon, mia.lat, mia.lon)
	assert.InDelta(t, d, HaversineKm(mia.lat, mia.lon, buf.lat, buf.lon), 1e-9)
	assert.Greater(t, d, 1500.0)
	assert.Less(t, d, 2500.0)
}

func TestAttachRestTravel(t *testing.T) {
	rows := []models.TeamGameRow{
		{GameKey: "g1", Season: 2024, Week: 1, Gameday: day("2024-09-08"), Team: "BUF", Opponent: "NYJ", Home: true},
		{GameKey: "g2", Season: 2024, Week: 2, Gameday: day("2024-09-15"), Team: "BUF", Opponent: "MIA", Home: false},
		{GameKey: "g3", Season: 2024, Week: 4, Gameday: day("2024-09-29"), Team: "BUF", Opponent: "NE", Home: true},
	}
	AttachRestTravel(rows)

	// Week 1 at home: default rest, no travel from the home stadium.
	rest, ok := rows[0].Metric(MetricRestDays)
	require.True(t, ok)
	assert.Equal(t, DefaultRestDays, rest)
	travel, ok := rows[0].Metric(MetricTravelKm)
	require.True(t, ok)
	assert.Equal(t, 0.0, travel)

	// Week 2 away at Miami: seven days of rest, a long flight south.
	rest, _ = rows[1].Metric(MetricRestDays)
	assert.Equal(t, 7.0, rest)
	travel, _ = rows[1].Metric(MetricTravelKm)
	assert.Greater(t, travel, 1500.0)

	// Week 4 home after a bye: fourteen days of rest, flying back north.
	rest, _ = rows[2].Metric(MetricRestDays)
	assert.Equal(t, 14.0, rest)
	travel, _ = rows[2].Metric(MetricTravelKm)
	assert.Greater(t, travel, 1500.0)
}

func TestAttachRestTravelSeasonBoundary(t *testing.T) {
	rows := []models.TeamGameRow{
		{GameKey: "g1", Season: 2023, Week: 18, Gameday: day("2024-01-07"), Team: "BUF", Opponent: "MIA", Home: false},
		{GameKey: "g2", Season: 2024, Week: 1, Gameday: day("2024-09-08"), Team: "BUF", Opponent: "NYJ", Home: true},
	}
	AttachRestTravel(rows)

	// The opener of a new season is a normal week off, never the offseason gap.
	rest, ok := rows[1].Metric(MetricRestDays)
	require.True(t, ok)
	assert.Equal(t, DefaultRestDays, rest)

	// And the team starts from its own stadium, not last January's venue.
	travel, ok := rows[1].Metric(MetricTravelKm)
	require.True(t, ok)
	assert.Equal(t, 0.0, travel)
}

func TestAttachRestTravelUnknownTeamLeftUntouched(t *testing.T) {
	rows := []models.TeamGameRow{
		{GameKey: "g1", Season: 2024, Week: 1, Gameday: day("2024-09-08"), Team: "XXX", Opponent: "BUF", Home: false},
	}
	AttachRestTravel(rows)
	_, ok := rows[0].Metric(MetricRestDays)
	assert.False(t, ok)
}
