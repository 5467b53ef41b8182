// Package gamelog reshapes game-level records into team-perspective rows, the
// substrate for all rolling statistics.
package gamelog

import (
	"sort"

	"github.com/yourusername/gridiron-edge/internal/models"
)

// Build emits two TeamGameRows per GameRecord, one per perspective. Records
// without scores pass through with nil points and Played=false; future games
// legitimately lack scores, so nothing is rejected here. Output order is
// unspecified; consumers sort before use.
func Build(games []models.GameRecord) []models.TeamGameRow {
	rows := make([]models.TeamGameRow, 0, len(games)*2)
	for i := range games {
		g := &games[i]
		rows = append(rows, perspective(g, true), perspective(g, false))
	}
	return rows
}

func perspective(g *models.GameRecord, home bool) models.TeamGameRow {
	row := models.TeamGameRow{
		GameKey: g.Key(),
		Season:  g.Season,
		Week:    g.Week,
		Gameday: g.Gameday,
		Home:    home,
	}
	if home {
		row.Team = g.HomeTeam
		row.Opponent = g.AwayTeam
	} else {
		row.Team = g.AwayTeam
		row.Opponent = g.HomeTeam
	}

	if g.Completed() {
		pf, pa := *g.HomeScore, *g.AwayScore
		if !home {
			pf, pa = pa, pf
		}
		margin := pf - pa
		row.PointsFor = &pf
		row.PointsAgainst = &pa
		row.Margin = &margin
		row.Played = true
	}
	return row
}

// AttachMetrics joins play-level efficiency metrics onto team-game rows by
// (game key, team). Rows without a matching entry are left untouched.
func AttachMetrics(rows []models.TeamGameRow, metrics map[MetricKey]map[string]float64) {
	for i := range rows {
		key := MetricKey{GameKey: rows[i].GameKey, Team: rows[i].Team}
		m, ok := metrics[key]
		if !ok {
			continue
		}
		if rows[i].Metrics == nil {
			rows[i].Metrics = make(map[string]float64, len(m))
		}
		for name, v := range m {
			rows[i].Metrics[name] = v
		}
	}
}

// MetricKey identifies the team side of a game for metric joins.
type MetricKey struct {
	GameKey string
	Team    string
}

// SortChronological orders rows by (team, gameday) falling back to
// (team, season, week) when dates are absent, with (opponent) as the final
// tie-break so identical keys still sort deterministically.
func SortChronological(rows []models.TeamGameRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := &rows[i], &rows[j]
		if a.Team != b.Team {
			return a.Team < b.Team
		}
		if a.Gameday != nil && b.Gameday != nil && !a.Gameday.Equal(*b.Gameday) {
			return a.Gameday.Before(*b.Gameday)
		}
		if a.Season != b.Season {
			return a.Season < b.Season
		}
		if a.Week != b.Week {
			return a.Week < b.Week
		}
		return a.Opponent < b.Opponent
	})
}
