package regression

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/gridiron-edge/internal/models"
)

func TestFitRecoversLinearRelationship(t *testing.T) {
	// margin = 3 + 2*x with no noise; OLS should recover it closely.
	var X [][]float64
	var y []float64
	for _, x := range []float64{-4, -2, -1, 0.5, 1, 2, 3, 5} {
		X = append(X, []float64{x})
		y = append(y, 3+2*x)
	}

	model, err := Fit(X, y, []string{"diff_margin"}, Config{Alpha: 0, FallbackSigma: 13.5})
	require.NoError(t, err)

	assert.InDelta(t, 3.0, model.Bias(), 1e-6)
	assert.InDelta(t, 2.0, model.Weights[1], 1e-6)
	// A perfect fit has no residual spread; fallback must kick in.
	assert.True(t, model.Degenerate)
	assert.Equal(t, 13.5, model.Sigma)
}

func TestFitRidgeShrinksWeights(t *testing.T) {
	var X [][]float64
	var y []float64
	for _, x := range []float64{-3, -2, -1, 1, 2, 3} {
		X = append(X, []float64{x})
		y = append(y, 4*x)
	}

	ols, err := Fit(X, y, []string{"f"}, Config{Alpha: 0})
	require.NoError(t, err)
	ridge, err := Fit(X, y, []string{"f"}, Config{Alpha: 10})
	require.NoError(t, err)

	assert.Less(t, math.Abs(ridge.Weights[1]), math.Abs(ols.Weights[1]))
}

func TestFitExcludesAllZeroRows(t *testing.T) {
	X := [][]float64{
		{0, 0}, // no rolling history, must not bias the intercept
		{1, 0},
		{0, 1},
		{1, 1},
		{2, 1},
		{1, 2},
	}
	y := []float64{50, 3, 5, 8, 11, 13}

	model, err := Fit(X, y, []string{"a", "b"}, Config{Alpha: 0.1})
	require.NoError(t, err)
	assert.Equal(t, 5, model.Samples)
	// The wild all-zero row was excluded; bias stays near the true intercept.
	assert.InDelta(t, 0.0, model.Bias(), 1.5)
}

func TestFitNotEnoughRows(t *testing.T) {
	_, err := Fit([][]float64{{1}}, []float64{2}, []string{"f"}, Config{})
	assert.Error(t, err)
}

func TestPredictFailsFastOnMissingFeature(t *testing.T) {
	model := &models.FittedModel{
		Weights:  []float64{1.0, 2.0, -1.0},
		Features: []string{"a", "b"},
		Sigma:    13.5,
	}

	margin, err := Predict(model, map[string]float64{"a": 2, "b": 3})
	require.NoError(t, err)
	assert.InDelta(t, 1+4-3, margin, 1e-12)

	_, err = Predict(model, map[string]float64{"a": 2})
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrFeatureMismatch))
}

func TestMarginToProb(t *testing.T) {
	assert.InDelta(t, 0.5, MarginToProb(0, 13.5), 1e-12)
	assert.Greater(t, MarginToProb(7, 13.5), 0.5)
	assert.Less(t, MarginToProb(-7, 13.5), 0.5)

	// Symmetry: P(margin) + P(-margin) = 1.
	p := MarginToProb(4.5, 13.5)
	q := MarginToProb(-4.5, 13.5)
	assert.InDelta(t, 1.0, p+q, 1e-12)

	// One standard deviation: Φ(1) ≈ 0.8413.
	assert.InDelta(t, 0.8413, MarginToProb(13.5, 13.5), 0.0005)
}
