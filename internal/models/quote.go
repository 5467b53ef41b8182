package models

import "time"

// MarketType represents the type of betting market.
type MarketType string

const (
	MarketTypeMoneyline MarketType = "moneyline"
	MarketTypeSpread    MarketType = "spread"
)

// Side represents the side of a two-way market.
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

// MarketQuote is one book's price for one side of one market of one game.
// Price is in American odds; Point is the handicap for spread markets.
type MarketQuote struct {
	GameKey    string     `db:"game_key" json:"game_key"`
	Book       string     `db:"book" json:"book"`
	MarketType MarketType `db:"market_type" json:"market_type"`
	Side       Side       `db:"side" json:"side"`
	Price      float64    `db:"price" json:"price"`
	Point      *float64   `db:"point" json:"point"`
	FetchedAt  time.Time  `db:"fetched_at" json:"fetched_at"`
}

// ConsensusQuote reduces all books' quotes for one market of one game to a
// single price pair. Nil prices mean no book quoted that side; a nil price must
// never be treated as a price of zero.
type ConsensusQuote struct {
	GameKey    string     `json:"game_key"`
	HomeTeam   string     `json:"home_team"`
	AwayTeam   string     `json:"away_team"`
	MarketType MarketType `json:"market_type"`
	HomePrice  *float64   `json:"home_price"`
	AwayPrice  *float64   `json:"away_price"`
	HomePoint  *float64   `json:"home_point"` // spread markets only, home line
	Book       string     `json:"book"`       // preferred book key, or "consensus"
}

// Complete reports whether both sides of the market have a price.
func (q *ConsensusQuote) Complete() bool {
	return q.HomePrice != nil && q.AwayPrice != nil
}
