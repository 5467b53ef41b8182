package pipeline

import (
	"math"
	"sort"

	"github.com/yourusername/gridiron-edge/internal/models"
)

// DefaultRestDays is assumed when a row has no prior game or no dates to
// difference, matching a standard week between games.
const DefaultRestDays = 7.0

const earthRadiusKm = 6371.0

type coord struct {
	lat float64
	lon float64
}

// stadiumCoords maps canonical team codes to home-stadium coordinates. Teams
// sharing a stadium carry the same point.
var stadiumCoords = map[string]coord{
	"ARI": {33.5276, -112.2626},
	"ATL": {33.7554, -84.4010},
	"BAL": {39.2780, -76.6227},
	"BUF": {42.7738, -78.7870},
	"CAR": {35.2258, -80.8528},
	"CHI": {41.8623, -87.6167},
	"CIN": {39.0955, -84.5161},
	"CLE": {41.5061, -81.6995},
	"DAL": {32.7473, -97.0945},
	"DEN": {39.7439, -105.0201},
	"DET": {42.3400, -83.0456},
	"GB":  {44.5013, -88.0622},
	"HOU": {29.6847, -95.4107},
	"IND": {39.7601, -86.1639},
	"JAX": {30.3240, -81.6373},
	"KC":  {39.0489, -94.4839},
	"LAC": {33.9535, -118.3392},
	"LAR": {33.9535, -118.3392},
	"LV":  {36.0909, -115.1833},
	"MIA": {25.9580, -80.2389},
	"MIN": {44.9735, -93.2575},
	"NE":  {42.0909, -71.2643},
	"NO":  {29.9511, -90.0812},
	"NYG": {40.8135, -74.0745},
	"NYJ": {40.8135, -74.0745},
	"PHI": {39.9008, -75.1675},
	"PIT": {40.4468, -80.0158},
	"SEA": {47.5952, -122.3316},
	"SF":  {37.4030, -121.9700},
	"TB":  {27.9759, -82.5033},
	"TEN": {36.1665, -86.7713},
	"WAS": {38.9076, -76.8645},
}

// HaversineKm returns the great-circle distance between two points.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const degToRad = math.Pi / 180.0
	dLat := (lat2 - lat1) * degToRad
	dLon := (lon2 - lon1) * degToRad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*degToRad)*math.Cos(lat2*degToRad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}

// AttachRestTravel annotates every row with rest days since the team's previous
// game and travel distance from the previous venue to the current one. Both are
// known before kickoff, so they are safe as direct (non-trailing) features. A
// team's first row of each season gets the default rest and the distance from
// its own stadium; the offseason gap never counts as rest.
func AttachRestTravel(rows []models.TeamGameRow) {
	byTeam := map[string][]int{}
	for i := range rows {
		byTeam[rows[i].Team] = append(byTeam[rows[i].Team], i)
	}

	for team, idxs := range byTeam {
		if _, ok := stadiumCoords[team]; !ok {
			continue
		}
		sortIndicesChronological(rows, idxs)

		prevVenue := stadiumCoords[team]
		var prevDay *models.TeamGameRow
		for _, i := range idxs {
			row := &rows[i]
			venue, ok := venueOf(row)
			if !ok {
				continue
			}

			// A season opener restarts from home with a normal week off.
			if prevDay != nil && prevDay.Season != row.Season {
				prevDay = nil
				prevVenue = stadiumCoords[team]
			}

			rest := DefaultRestDays
			if prevDay != nil && prevDay.Gameday != nil && row.Gameday != nil {
				rest = row.Gameday.Sub(*prevDay.Gameday).Hours() / 24.0
			}
			travel := HaversineKm(prevVenue.lat, prevVenue.lon, venue.lat, venue.lon)

			if row.Metrics == nil {
				row.Metrics = make(map[string]float64, 2)
			}
			row.Metrics[MetricRestDays] = rest
			row.Metrics[MetricTravelKm] = travel

			prevVenue = venue
			prevDay = row
		}
	}
}

// venueOf resolves a row's stadium: the home side plays at its own stadium,
// the away side at the opponent's.
func venueOf(row *models.TeamGameRow) (coord, bool) {
	host := row.Team
	if !row.Home {
		host = row.Opponent
	}
	c, ok := stadiumCoords[host]
	return c, ok
}

func sortIndicesChronological(rows []models.TeamGameRow, idxs []int) {
	sort.SliceStable(idxs, func(x, y int) bool {
		a, b := &rows[idxs[x]], &rows[idxs[y]]
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
