// Package rating implements an iterative pairwise team-strength estimator.
// Ratings are updated sequentially from completed games in chronological order;
// the update is strictly ordered and must not be parallelized across games.
package rating

import (
	"math"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/gridiron-edge/internal/models"
)

// Defaults mirroring typical NFL calibrations.
const (
	DefaultInitialRating = 1500.0
	DefaultKFactor       = 20.0
	DefaultHomeAdvantage = 55.0
)

// Config holds rating model parameters.
type Config struct {
	InitialRating float64
	KFactor       float64
	HomeAdvantage float64
}

// DefaultConfig returns the standard parameterization.
func DefaultConfig() Config {
	return Config{
		InitialRating: DefaultInitialRating,
		KFactor:       DefaultKFactor,
		HomeAdvantage: DefaultHomeAdvantage,
	}
}

// Model owns one rating per team. There is no process-wide rating state;
// training rebuilds the mapping from scratch on every run.
type Model struct {
	cfg     Config
	ratings map[string]float64
	trained int
	skipped int
	logger  *logrus.Logger
}

// New creates a rating model with empty ratings.
func New(cfg Config, logger *logrus.Logger) *Model {
	if cfg.InitialRating == 0 {
		cfg.InitialRating = DefaultInitialRating
	}
	if cfg.KFactor == 0 {
		cfg.KFactor = DefaultKFactor
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Model{
		cfg:     cfg,
		ratings: make(map[string]float64),
		logger:  logger,
	}
}

// ExpectedHomeWinProb returns the logistic expectation for the home side, with
// the home-field advantage added to the home rating before differencing.
func ExpectedHomeWinProb(ratingHome, ratingAway, homeAdvantage float64) float64 {
	diff := (ratingHome + homeAdvantage) - ratingAway
	return 1.0 / (1.0 + math.Pow(10, -diff/400.0))
}

// Update applies one game result and returns the new rating pair. The update is
// zero-sum: the home delta is the exact negative of the away delta.
func Update(ratingHome, ratingAway float64, homeWon bool, kFactor, homeAdvantage float64) (float64, float64) {
	expected := ExpectedHomeWinProb(ratingHome, ratingAway, homeAdvantage)
	outcome := 0.0
	if homeWon {
		outcome = 1.0
	}
	delta := kFactor * (outcome - expected)
	return ratingHome + delta, ratingAway - delta
}

// Rating returns a team's current rating. Teams never seen before default to
// the initial rating; that is policy, not an error.
func (m *Model) Rating(team string) float64 {
	if r, ok := m.ratings[team]; ok {
		return r
	}
	return m.cfg.InitialRating
}

// Ratings returns a copy of the rating table.
func (m *Model) Ratings() map[string]float64 {
	out := make(map[string]float64, len(m.ratings))
	for team, r := range m.ratings {
		out[team] = r
	}
	return out
}

// Train rebuilds ratings from scratch by replaying completed games in
// chronological order. Games without scores are skipped. Later games see only
// ratings reflecting strictly earlier games.
func (m *Model) Train(games []models.GameRecord) {
	m.ratings = make(map[string]float64)
	m.trained = 0
	m.skipped = 0

	ordered := make([]models.GameRecord, len(games))
	copy(ordered, games)
	sortChronological(ordered)

	for i := range ordered {
		g := &ordered[i]
		if !g.Completed() {
			m.skipped++
			continue
		}
		home, away := m.Rating(g.HomeTeam), m.Rating(g.AwayTeam)
		newHome, newAway := Update(home, away, g.HomeWon(), m.cfg.KFactor, m.cfg.HomeAdvantage)
		m.ratings[g.HomeTeam] = newHome
		m.ratings[g.AwayTeam] = newAway
		m.trained++
	}

	m.logger.WithFields(logrus.Fields{
		"games_trained": m.trained,
		"games_skipped": m.skipped,
		"teams":         len(m.ratings),
	}).Info("Elo training complete")
}

// HomeWinProb returns the model probability that the home team beats the away
// team under the configured home-field advantage.
func (m *Model) HomeWinProb(homeTeam, awayTeam string) float64 {
	return ExpectedHomeWinProb(m.Rating(homeTeam), m.Rating(awayTeam), m.cfg.HomeAdvantage)
}

// TrainedGames returns the number of games applied during the last Train call.
func (m *Model) TrainedGames() int {
	return m.trained
}

// sortChronological orders games by date when present, falling back to
// (season, week), with (home, away) codes as a deterministic tie-break.
func sortChronological(games []models.GameRecord) {
	sort.SliceStable(games, func(i, j int) bool {
		a, b := &games[i], &games[j]
		if a.Gameday != nil && b.Gameday != nil && !a.Gameday.Equal(*b.Gameday) {
			return a.Gameday.Before(*b.Gameday)
		}
		if a.Season != b.Season {
			return a.Season < b.Season
		}
		if a.Week != b.Week {
			return a.Week < b.Week
		}
		if a.HomeTeam != b.HomeTeam {
			return a.HomeTeam < b.HomeTeam
		}
		return a.AwayTeam < b.AwayTeam
	})
}
