package models

// RollupRow augments a TeamGameRow with leakage-safe aggregates: trailing-window
// means over the team's previous games and season-to-date means over strictly
// earlier games in the same season. A metric entirely absent from the input is
// absent from the maps, not zero-filled, so callers can detect missing inputs.
type RollupRow struct {
	TeamGameRow

	// Trailing holds last-N means keyed by metric name; N is the engine window.
	Trailing map[string]float64 `json:"trailing"`

	// SeasonToDate holds expanding means within the row's season.
	SeasonToDate map[string]float64 `json:"season_to_date"`

	// PriorGames is the count of games the team played earlier in the season.
	PriorGames int `json:"prior_games"`

	// LeagueFilled marks rows whose aggregates fell back to the season's
	// cross-team league average because the team had no prior history.
	LeagueFilled bool `json:"league_filled"`
}

// TrailingMetric returns the trailing mean for a metric and whether it exists.
func (r *RollupRow) TrailingMetric(name string) (float64, bool) {
	v, ok := r.Trailing[name]
	return v, ok
}

// SeasonMetric returns the season-to-date mean for a metric and whether it exists.
func (r *RollupRow) SeasonMetric(name string) (float64, bool) {
	v, ok := r.SeasonToDate[name]
	return v, ok
}
