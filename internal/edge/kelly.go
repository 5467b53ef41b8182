// Package edge combines a model probability with the market's fair probability
// to produce a signed edge and a capped fractional Kelly stake.
package edge

import (
	"math"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/gridiron-edge/internal/models"
)

// DefaultKellyCap bounds the stake fraction well below the theoretical Kelly
// optimum to hedge model estimation error.
const DefaultKellyCap = 0.05

// Edge is the signed difference between the model's probability and the
// market's vig-free probability for the same side.
func Edge(modelProb, marketFairProb float64) float64 {
	return modelProb - marketFairProb
}

// DecimalPayout converts an American price to net fractional payout per unit
// staked (the Kelly "b"). Zero for a price of 0, which no book quotes.
func DecimalPayout(price float64) float64 {
	if price > 0 {
		return price / 100.0
	}
	if price < 0 {
		return 100.0 / -price
	}
	return 0
}

// KellyFraction returns the bankroll fraction maximizing long-run log growth
// for a win probability and an American price, clipped to [0, cap]. Negative
// expectation yields 0, never a short stake.
func KellyFraction(prob, price, cap float64) float64 {
	if cap <= 0 || prob <= 0 || prob >= 1 {
		return 0
	}
	b := DecimalPayout(price)
	if b <= 0 {
		return 0
	}
	f := (prob*(b+1) - 1) / b
	return math.Min(math.Max(f, 0), cap)
}

// Calculator carries the stake cap so callers evaluate many games against one
// policy.
type Calculator struct {
	cap    float64
	logger *logrus.Logger
}

// NewCalculator creates a calculator. A non-positive cap falls back to the
// default.
func NewCalculator(cap float64, logger *logrus.Logger) *Calculator {
	if cap <= 0 {
		cap = DefaultKellyCap
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Calculator{cap: cap, logger: logger}
}

// Cap returns the configured stake-fraction cap.
func (c *Calculator) Cap() float64 {
	return c.cap
}

// Evaluate fills the market-dependent fields of a pick: edge and capped stake
// fraction. When the market probability or price is nil the fields stay nil,
// so games without a usable quote still flow through with best-effort output.
func (c *Calculator) Evaluate(result *models.EdgeResult) {
	if result.MarketProb == nil || result.MarketPrice == nil {
		return
	}
	e := Edge(result.ModelProb, *result.MarketProb)
	f := KellyFraction(result.ModelProb, *result.MarketPrice, c.cap)
	result.Edge = &e
	result.StakeFraction = &f
}
