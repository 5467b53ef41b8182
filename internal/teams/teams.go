// Package teams canonicalizes NFL team abbreviations. Schedules, play-by-play
// and odds feeds disagree on historical codes, so every ingestion boundary must
// resolve team identity through this package before joining across sources.
package teams

import (
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/gridiron-edge/internal/models"
)

// legacy maps retired or alternate abbreviations to the modern code.
var legacy = map[string]string{
	"LA":  "LAR", // pre-2020 Rams code in nflverse data
	"STL": "LAR",
	"SD":  "LAC",
	"OAK": "LV",
	"WSH": "WAS",
	"JAC": "JAX",
}

// canonical is the set of current franchise codes.
var canonical = map[string]struct{}{
	"ARI": {}, "ATL": {}, "BAL": {}, "BUF": {}, "CAR": {}, "CHI": {}, "CIN": {},
	"CLE": {}, "DAL": {}, "DEN": {}, "DET": {}, "GB": {}, "HOU": {}, "IND": {},
	"JAX": {}, "KC": {}, "LAC": {}, "LAR": {}, "LV": {}, "MIA": {}, "MIN": {},
	"NE": {}, "NO": {}, "NYG": {}, "NYJ": {}, "PHI": {}, "PIT": {}, "SEA": {},
	"SF": {}, "TB": {}, "TEN": {}, "WAS": {},
}

// fullNames maps the full team names used by odds feeds to codes.
var fullNames = map[string]string{
	"ARIZONA CARDINALS":    "ARI",
	"ATLANTA FALCONS":      "ATL",
	"BALTIMORE RAVENS":     "BAL",
	"BUFFALO BILLS":        "BUF",
	"CAROLINA PANTHERS":    "CAR",
	"CHICAGO BEARS":        "CHI",
	"CINCINNATI BENGALS":   "CIN",
	"CLEVELAND BROWNS":     "CLE",
	"DALLAS COWBOYS":       "DAL",
	"DENVER BRONCOS":       "DEN",
	"DETROIT LIONS":        "DET",
	"GREEN BAY PACKERS":    "GB",
	"HOUSTON TEXANS":       "HOU",
	"INDIANAPOLIS COLTS":   "IND",
	"JACKSONVILLE JAGUARS": "JAX",
	"KANSAS CITY CHIEFS":   "KC",
	"LAS VEGAS RAIDERS":    "LV",
	"LOS ANGELES CHARGERS": "LAC",
	"LOS ANGELES RAMS":     "LAR",
	"MIAMI DOLPHINS":       "MIA",
	"MINNESOTA VIKINGS":    "MIN",
	"NEW ENGLAND PATRIOTS": "NE",
	"NEW ORLEANS SAINTS":   "NO",
	"NEW YORK GIANTS":      "NYG",
	"NEW YORK JETS":        "NYJ",
	"PHILADELPHIA EAGLES":  "PHI",
	"PITTSBURGH STEELERS":  "PIT",
	"SAN FRANCISCO 49ERS":  "SF",
	"SEATTLE SEAHAWKS":     "SEA",
	"TAMPA BAY BUCCANEERS": "TB",
	"TENNESSEE TITANS":     "TEN",
	"WASHINGTON COMMANDERS": "WAS",
	"WASHINGTON FOOTBALL TEAM": "WAS",
	"WASHINGTON REDSKINS":  "WAS",
}

// Canonical resolves a team code or full team name to its canonical
// abbreviation. Returns ErrUnknownTeam when the input cannot be mapped.
func Canonical(team string) (string, error) {
	t := strings.ToUpper(strings.TrimSpace(team))
	if t == "" {
		return "", fmt.Errorf("%w: empty team", models.ErrUnknownTeam)
	}
	if fixed, ok := legacy[t]; ok {
		return fixed, nil
	}
	if _, ok := canonical[t]; ok {
		return t, nil
	}
	if code, ok := fullNames[t]; ok {
		return code, nil
	}
	return "", fmt.Errorf("%w: %q", models.ErrUnknownTeam, team)
}

// Resolver canonicalizes team codes and counts records it had to drop. One bad
// row must not block the rest of a week's games, so callers skip-and-count
// instead of aborting.
type Resolver struct {
	logger *logrus.Logger
	mu     sync.Mutex
	skips  int
}

// NewResolver creates a resolver that logs dropped records.
func NewResolver(logger *logrus.Logger) *Resolver {
	if logger == nil {
		logger = logrus.New()
	}
	return &Resolver{logger: logger}
}

// Resolve canonicalizes a team code, recording a skip on failure.
func (r *Resolver) Resolve(team string) (string, bool) {
	code, err := Canonical(team)
	if err != nil {
		r.mu.Lock()
		r.skips++
		r.mu.Unlock()
		r.logger.WithField("team", team).Warn("Dropping record with unresolvable team code")
		return "", false
	}
	return code, true
}

// ResolvePair canonicalizes both sides of a matchup.
func (r *Resolver) ResolvePair(home, away string) (string, string, bool) {
	h, ok := r.Resolve(home)
	if !ok {
		return "", "", false
	}
	a, ok := r.Resolve(away)
	if !ok {
		return "", "", false
	}
	return h, a, true
}

// Skips returns the number of records dropped so far.
func (r *Resolver) Skips() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.skips
}
