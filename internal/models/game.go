package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GameRecord represents one scheduled or completed game. Scores are nil for
// games that have not been played yet.
type GameRecord struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	GameID    string     `db:"game_id" json:"game_id"` // external identifier, e.g. "2024_01_BUF_NYJ"
	Season    int        `db:"season" json:"season" validate:"required,gt=0"`
	Week      int        `db:"week" json:"week" validate:"required,gt=0"`
	Gameday   *time.Time `db:"gameday" json:"gameday"`
	HomeTeam  string     `db:"home_team" json:"home_team" validate:"required"`
	AwayTeam  string     `db:"away_team" json:"away_team" validate:"required"`
	HomeScore *float64   `db:"home_score" json:"home_score"`
	AwayScore *float64   `db:"away_score" json:"away_score"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// Key returns a stable identity for the game. The external game ID wins when
// present; otherwise identity is (season, week, home, away).
func (g *GameRecord) Key() string {
	if g.GameID != "" {
		return g.GameID
	}
	return fmt.Sprintf("%d_%02d_%s_%s", g.Season, g.Week, g.AwayTeam, g.HomeTeam)
}

// Completed reports whether the game has final scores.
func (g *GameRecord) Completed() bool {
	return g.HomeScore != nil && g.AwayScore != nil
}

// HomeWon reports whether the home team won. Only meaningful for completed games.
func (g *GameRecord) HomeWon() bool {
	return g.Completed() && *g.HomeScore > *g.AwayScore
}

// Margin returns home score minus away score, or nil for future games.
func (g *GameRecord) Margin() *float64 {
	if !g.Completed() {
		return nil
	}
	m := *g.HomeScore - *g.AwayScore
	return &m
}
