// Package pipeline glues the modeling stages together: team-game rows flow
// through rollups into differential features, the fitted models score upcoming
// games, and market quotes are joined on to produce the weekly pick sheet.
package pipeline

import (
	"fmt"

	"github.com/yourusername/gridiron-edge/internal/models"
)

// Metric names for the situational features attached by AttachRestTravel.
const (
	MetricRestDays = "rest_days"
	MetricTravelKm = "travel_km"
)

const featurePrefix = "diff_"

// FeatureConfig selects which metrics become home-minus-away differential
// features. Trailing metrics read the rollup's trailing-window mean; direct
// metrics read the row's own per-game value, which is only sound for
// quantities known before kickoff (rest days, travel distance).
type FeatureConfig struct {
	TrailingMetrics []string
	DirectMetrics   []string
}

// DefaultFeatureConfig tracks the base scoring metrics.
func DefaultFeatureConfig() FeatureConfig {
	return FeatureConfig{
		TrailingMetrics: []string{
			models.BaseMetricPointsFor,
			models.BaseMetricPointsAgainst,
			models.BaseMetricMargin,
		},
	}
}

// WithRestTravel adds rest and travel differentials as direct features.
func (c FeatureConfig) WithRestTravel() FeatureConfig {
	c.DirectMetrics = append(append([]string{}, c.DirectMetrics...), MetricRestDays, MetricTravelKm)
	return c
}

// Names returns the ordered feature names, trailing metrics first. This order
// is recorded on the fitted model and must match at prediction time.
func (c FeatureConfig) Names() []string {
	names := make([]string, 0, len(c.TrailingMetrics)+len(c.DirectMetrics))
	for _, m := range c.TrailingMetrics {
		names = append(names, featurePrefix+m)
	}
	for _, m := range c.DirectMetrics {
		names = append(names, featurePrefix+m)
	}
	return names
}

type rollupKey struct {
	gameKey string
	team    string
}

// RollupIndex resolves the two sides of a game to their rollup rows.
type RollupIndex map[rollupKey]*models.RollupRow

// IndexRollups builds a lookup keyed by (game, team).
func IndexRollups(rows []models.RollupRow) RollupIndex {
	idx := make(RollupIndex, len(rows))
	for i := range rows {
		idx[rollupKey{rows[i].GameKey, rows[i].Team}] = &rows[i]
	}
	return idx
}

// Sides returns the home and away rollup rows for a game, or an error naming
// the missing side.
func (idx RollupIndex) Sides(game *models.GameRecord) (*models.RollupRow, *models.RollupRow, error) {
	home, ok := idx[rollupKey{game.Key(), game.HomeTeam}]
	if !ok {
		return nil, nil, fmt.Errorf("%w: no rollup row for %s in game %s", models.ErrMissingColumn, game.HomeTeam, game.Key())
	}
	away, ok := idx[rollupKey{game.Key(), game.AwayTeam}]
	if !ok {
		return nil, nil, fmt.Errorf("%w: no rollup row for %s in game %s", models.ErrMissingColumn, game.AwayTeam, game.Key())
	}
	return home, away, nil
}

// GameFeatures builds the home-minus-away differential map for one game.
// Returns false when any configured metric is absent on either side, so the
// caller can count and skip rather than silently zero-fill.
func (c FeatureConfig) GameFeatures(home, away *models.RollupRow) (map[string]float64, bool) {
	out := make(map[string]float64, len(c.TrailingMetrics)+len(c.DirectMetrics))
	for _, m := range c.TrailingMetrics {
		hv, hok := home.TrailingMetric(m)
		av, aok := away.TrailingMetric(m)
		if !hok || !aok {
			return nil, false
		}
		out[featurePrefix+m] = hv - av
	}
	for _, m := range c.DirectMetrics {
		hv, hok := home.Metric(m)
		av, aok := away.Metric(m)
		if !hok || !aok {
			return nil, false
		}
		out[featurePrefix+m] = hv - av
	}
	return out, true
}

// TrainingSet assembles the design matrix and margin targets over completed
// games. Games missing a rollup side or a configured metric are skipped and
// counted; one sparse game must not block a season's worth of training rows.
func (c FeatureConfig) TrainingSet(games []models.GameRecord, idx RollupIndex) (features [][]float64, margins []float64, skipped int) {
	names := c.Names()
	for i := range games {
		g := &games[i]
		margin := g.Margin()
		if margin == nil {
			continue
		}
		home, away, err := idx.Sides(g)
		if err != nil {
			skipped++
			continue
		}
		fm, ok := c.GameFeatures(home, away)
		if !ok {
			skipped++
			continue
		}
		row := make([]float64, len(names))
		for j, name := range names {
			row[j] = fm[name]
		}
		features = append(features, row)
		margins = append(margins, *margin)
	}
	return features, margins, skipped
}
