package edge

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/gridiron-edge/internal/models"
)

func fp(v float64) *float64 { return &v }

func TestEdge(t *testing.T) {
	assert.InDelta(t, 0.05, Edge(0.60, 0.55), 1e-12)
	assert.InDelta(t, -0.05, Edge(0.55, 0.60), 1e-12)
}

func TestDecimalPayout(t *testing.T) {
	assert.InDelta(t, 1.5, DecimalPayout(150), 1e-12)
	assert.InDelta(t, 100.0/150.0, DecimalPayout(-150), 1e-12)
	assert.InDelta(t, 1.0, DecimalPayout(100), 1e-12)
	assert.Equal(t, 0.0, DecimalPayout(0))
}

func TestKellyFractionBreakEvenFavorite(t *testing.T) {
	// 0.60 at -150 is exactly break-even: b = 2/3, f* = (0.60*(5/3) - 1)/(2/3) = 0.
	assert.InDelta(t, 0.0, KellyFraction(0.60, -150, 1.0), 1e-9)
}

func TestKellyFractionUnderdogCapped(t *testing.T) {
	// Model prob 0.60 on a +150 underdog: b = 1.5,
	// f* = (0.60*2.5 - 1)/1.5 = 0.333, clipped to the 0.05 cap.
	assert.InDelta(t, 1.0/3.0, KellyFraction(0.60, 150, 1.0), 1e-9)
	assert.Equal(t, 0.05, KellyFraction(0.60, 150, 0.05))
}

func TestKellyFractionNegativeExpectationIsZero(t *testing.T) {
	// 0.50 at -150 loses money long run; no stake, never a short.
	assert.Equal(t, 0.0, KellyFraction(0.50, -150, 0.05))
}

func TestKellyFractionBounds(t *testing.T) {
	const cap = 0.05
	probs := []float64{0, 0.01, 0.25, 0.5, 0.55, 0.6, 0.75, 0.99, 1}
	prices := []float64{-10000, -300, -150, -110, 100, 110, 150, 300, 10000}
	for _, p := range probs {
		for _, price := range prices {
			f := KellyFraction(p, price, cap)
			assert.GreaterOrEqual(t, f, 0.0, "prob %v price %v", p, price)
			assert.LessOrEqual(t, f, cap, "prob %v price %v", p, price)
		}
	}
}

func TestCalculatorEvaluate(t *testing.T) {
	c := NewCalculator(0.05, nil)

	result := &models.EdgeResult{
		GameKey:     "NYJ@BUF",
		Side:        models.SideHome,
		ModelProb:   0.60,
		MarketProb:  fp(0.55),
		MarketPrice: fp(150),
	}
	c.Evaluate(result)

	require.NotNil(t, result.Edge)
	assert.InDelta(t, 0.05, *result.Edge, 1e-12)
	require.NotNil(t, result.StakeFraction)
	assert.Equal(t, 0.05, *result.StakeFraction)

	stake := result.StakeAmount(decimal.NewFromInt(1000))
	assert.True(t, stake.Equal(decimal.NewFromInt(50)), "stake %s", stake)
}

func TestCalculatorEvaluateNoMarket(t *testing.T) {
	c := NewCalculator(0, nil)
	assert.Equal(t, DefaultKellyCap, c.Cap())

	result := &models.EdgeResult{ModelProb: 0.60}
	c.Evaluate(result)
	assert.Nil(t, result.Edge)
	assert.Nil(t, result.StakeFraction)
	assert.False(t, result.HasMarket())
	assert.True(t, result.StakeAmount(decimal.NewFromInt(1000)).IsZero())
}
