// Package rollup computes leakage-safe trailing-window and season-to-date
// aggregates over team-game rows. The value attached to a team's k-th game is
// a function only of that team's strictly earlier games.
package rollup

import (
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/gridiron-edge/internal/gamelog"
	"github.com/yourusername/gridiron-edge/internal/models"
)

// DefaultWindow is the trailing-window length when none is configured.
const DefaultWindow = 5

// Engine computes rollups with a fixed trailing window.
type Engine struct {
	window int
	logger *logrus.Logger
}

// NewEngine creates a rollup engine. Window values below 1 fall back to
// DefaultWindow.
func NewEngine(window int, logger *logrus.Logger) *Engine {
	if window < 1 {
		window = DefaultWindow
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Engine{window: window, logger: logger}
}

// Window returns the configured trailing-window length.
func (e *Engine) Window() int {
	return e.window
}

// Rollup computes, for every row, trailing means over the team's previous
// window games and expanding means over strictly earlier games in the same
// season. A team's first game with no history is filled with the season's
// cross-team league average so downstream consumers never see missing data for
// metrics that exist at all; metrics entirely absent from the input are
// omitted, not zero-filled. Output is deterministic for identical input.
func (e *Engine) Rollup(rows []models.TeamGameRow) []models.RollupRow {
	sorted := make([]models.TeamGameRow, len(rows))
	copy(sorted, rows)
	gamelog.SortChronological(sorted)

	metrics := trackedMetrics(sorted)
	league := leagueAverages(sorted, metrics)

	out := make([]models.RollupRow, 0, len(sorted))
	for start := 0; start < len(sorted); {
		end := start
		for end < len(sorted) && sorted[end].Team == sorted[start].Team {
			end++
		}
		e.rollTeam(sorted[start:end], metrics, league, &out)
		start = end
	}
	return out
}

// rollTeam processes one team's chronologically ordered games.
func (e *Engine) rollTeam(games []models.TeamGameRow, metrics []string, league map[seasonMetric]float64, out *[]models.RollupRow) {
	for k := range games {
		row := models.RollupRow{
			TeamGameRow:  games[k],
			Trailing:     make(map[string]float64, len(metrics)),
			SeasonToDate: make(map[string]float64, len(metrics)),
		}

		lo := k - e.window
		if lo < 0 {
			lo = 0
		}

		seasonStart := k
		for seasonStart > 0 && games[seasonStart-1].Season == games[k].Season {
			seasonStart--
		}
		for i := seasonStart; i < k; i++ {
			if games[i].Played {
				row.PriorGames++
			}
		}

		for _, name := range metrics {
			trail, trailOK := windowMean(games[lo:k], name)
			szn, sznOK := windowMean(games[seasonStart:k], name)

			if !trailOK || !sznOK {
				fallback, ok := league[seasonMetric{games[k].Season, name}]
				if !ok {
					// Metric never observed this season; leave it out.
					continue
				}
				row.LeagueFilled = true
				if !trailOK {
					trail = fallback
				}
				if !sznOK {
					szn = fallback
				}
			}
			row.Trailing[name] = trail
			row.SeasonToDate[name] = szn
		}

		*out = append(*out, row)
	}
}

// windowMean averages a metric over the given prior rows, skipping rows where
// the metric is absent. Returns false when no row contributed.
func windowMean(prior []models.TeamGameRow, metric string) (float64, bool) {
	var sum float64
	var n int
	for i := range prior {
		if v, ok := metricValue(&prior[i], metric); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// metricValue reads a base scoring metric or an attached efficiency metric.
func metricValue(row *models.TeamGameRow, metric string) (float64, bool) {
	switch metric {
	case models.BaseMetricPointsFor:
		if row.PointsFor == nil {
			return 0, false
		}
		return *row.PointsFor, true
	case models.BaseMetricPointsAgainst:
		if row.PointsAgainst == nil {
			return 0, false
		}
		return *row.PointsAgainst, true
	case models.BaseMetricMargin:
		if row.Margin == nil {
			return 0, false
		}
		return *row.Margin, true
	default:
		return row.Metric(metric)
	}
}

// trackedMetrics returns the base metrics plus every attached metric name seen
// in the input, in deterministic order.
func trackedMetrics(rows []models.TeamGameRow) []string {
	seen := map[string]struct{}{}
	for i := range rows {
		for name := range rows[i].Metrics {
			seen[name] = struct{}{}
		}
	}
	extra := make([]string, 0, len(seen))
	for name := range seen {
		extra = append(extra, name)
	}
	sort.Strings(extra)

	metrics := []string{models.BaseMetricPointsFor, models.BaseMetricPointsAgainst, models.BaseMetricMargin}
	return append(metrics, extra...)
}

type seasonMetric struct {
	season int
	metric string
}

// leagueAverages computes the cross-team mean of each metric per season, used
// to fill rows with no prior history. Never zero: a metric with no observed
// values in a season simply has no entry.
func leagueAverages(rows []models.TeamGameRow, metrics []string) map[seasonMetric]float64 {
	sums := map[seasonMetric]float64{}
	counts := map[seasonMetric]int{}
	for i := range rows {
		for _, name := range metrics {
			if v, ok := metricValue(&rows[i], name); ok {
				key := seasonMetric{rows[i].Season, name}
				sums[key] += v
				counts[key]++
			}
		}
	}
	avgs := make(map[seasonMetric]float64, len(sums))
	for key, sum := range sums {
		avgs[key] = sum / float64(counts[key])
	}
	return avgs
}
