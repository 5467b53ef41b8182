package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EdgeResult is the externally consumed artifact of the pipeline: for one side
// of one game, the model probability, the market's vig-free probability, the
// signed edge between them, and a capped Kelly stake fraction. Market fields
// are nil when no usable quote exists; the game is still emitted so consumers
// see best-effort output for every game.
type EdgeResult struct {
	ID        uuid.UUID `db:"id" json:"id"`
	GameKey   string    `db:"game_key" json:"game_key"`
	Season    int       `db:"season" json:"season"`
	Week      int       `db:"week" json:"week"`
	HomeTeam  string    `db:"home_team" json:"home_team"`
	AwayTeam  string    `db:"away_team" json:"away_team"`
	Side      Side      `db:"side" json:"side"`
	ModelProb float64   `db:"model_prob" json:"model_prob"`

	MarketPrice   *float64 `db:"market_price" json:"market_price"`
	MarketProb    *float64 `db:"market_prob" json:"market_prob"` // vig-removed
	Edge          *float64 `db:"edge" json:"edge"`
	StakeFraction *float64 `db:"stake_fraction" json:"stake_fraction"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// HasMarket reports whether a market quote was available for this side.
func (e *EdgeResult) HasMarket() bool {
	return e.MarketPrice != nil && e.MarketProb != nil
}

// StakeAmount converts the stake fraction into a currency amount for the given
// bankroll, rounded to cents. Zero when no market exists.
func (e *EdgeResult) StakeAmount(bankroll decimal.Decimal) decimal.Decimal {
	if e.StakeFraction == nil {
		return decimal.Zero
	}
	return bankroll.Mul(decimal.NewFromFloat(*e.StakeFraction)).Round(2)
}
