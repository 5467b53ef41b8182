package models

import "time"

// TeamGameRow is one team's perspective of a GameRecord. Every game yields two
// rows, one per side. Points and margin are nil when the game has no scores.
type TeamGameRow struct {
	GameKey       string     `json:"game_key"`
	Season        int        `json:"season"`
	Week          int        `json:"week"`
	Gameday       *time.Time `json:"gameday"`
	Team          string     `json:"team"`
	Opponent      string     `json:"opponent"`
	Home          bool       `json:"home"`
	PointsFor     *float64   `json:"points_for"`
	PointsAgainst *float64   `json:"points_against"`
	Margin        *float64   `json:"margin"`
	Played        bool       `json:"played"`

	// Metrics holds per-game efficiency metrics joined from play-level
	// aggregation (e.g. "epa_per_play", "success_rate"), keyed by metric name.
	Metrics map[string]float64 `json:"metrics,omitempty"`
}

// Metric returns the named efficiency metric and whether it is present.
func (r *TeamGameRow) Metric(name string) (float64, bool) {
	if r.Metrics == nil {
		return 0, false
	}
	v, ok := r.Metrics[name]
	return v, ok
}

// BaseMetricPointsFor and friends are the metric names the rollup engine always
// tracks when scores exist.
const (
	BaseMetricPointsFor     = "points_for"
	BaseMetricPointsAgainst = "points_against"
	BaseMetricMargin        = "margin"
)
