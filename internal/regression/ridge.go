// Package regression fits a regularized linear margin model over feature
// differentials and converts predicted margins into win probabilities.
package regression

import (
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/yourusername/gridiron-edge/internal/models"
)

// DefaultFallbackSigma is a typical NFL scoring-margin standard deviation,
// substituted when a fit's residual spread is degenerate.
const DefaultFallbackSigma = 13.5

// DefaultAlpha is the default ridge penalty.
const DefaultAlpha = 5.0

// Config holds fit parameters.
type Config struct {
	// Alpha is the ridge penalty; zero means ordinary least squares.
	Alpha float64

	// FallbackSigma replaces a non-finite or non-positive residual spread.
	FallbackSigma float64

	Logger *logrus.Logger
}

// Fit solves the ridge-regularized normal equations (XᵗX + αI)w = Xᵗy with an
// explicit bias column of ones prepended to X. Rows whose feature vectors are
// all zero (earliest-season games with no rolling history) are excluded so
// they do not bias the intercept. The residual spread uses a degrees-of-freedom
// adjustment of max(1, n_features); a degenerate spread is replaced with the
// configured fallback and flagged on the returned model.
func Fit(features [][]float64, margins []float64, featureNames []string, cfg Config) (*models.FittedModel, error) {
	if len(features) != len(margins) {
		return nil, fmt.Errorf("feature rows (%d) and margins (%d) differ in length", len(features), len(margins))
	}
	nFeat := len(featureNames)
	if nFeat == 0 {
		return nil, fmt.Errorf("%w: no feature columns", models.ErrMissingColumn)
	}
	if cfg.FallbackSigma <= 0 {
		cfg.FallbackSigma = DefaultFallbackSigma
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.New()
	}

	// Drop all-zero rows, keep alignment with margins.
	var rows [][]float64
	var y []float64
	for i, row := range features {
		if len(row) != nFeat {
			return nil, fmt.Errorf("row %d has %d features, want %d", i, len(row), nFeat)
		}
		if allZero(row) {
			continue
		}
		rows = append(rows, row)
		y = append(y, margins[i])
	}
	n := len(rows)
	cols := nFeat + 1 // bias first
	if n < cols {
		return nil, fmt.Errorf("not enough training rows: have %d, need at least %d", n, cols)
	}

	design := mat.NewDense(n, cols, nil)
	for i, row := range rows {
		design.Set(i, 0, 1.0)
		for j, v := range row {
			design.Set(i, j+1, v)
		}
	}
	target := mat.NewVecDense(n, y)

	// Normal equations: A = XᵗX + αI, b = Xᵗy.
	var a mat.Dense
	a.Mul(design.T(), design)
	for j := 0; j < cols; j++ {
		a.Set(j, j, a.At(j, j)+cfg.Alpha)
	}
	var b mat.VecDense
	b.MulVec(design.T(), target)

	var w mat.VecDense
	if err := w.SolveVec(&a, &b); err != nil {
		return nil, fmt.Errorf("failed to solve normal equations: %w", err)
	}

	weights := make([]float64, cols)
	for j := 0; j < cols; j++ {
		weights[j] = w.AtVec(j)
	}

	sigma := residualStdDev(design, target, &w, nFeat)
	degenerate := false
	if math.IsNaN(sigma) || math.IsInf(sigma, 0) || sigma <= 0 {
		logger.WithFields(logrus.Fields{
			"sigma":    sigma,
			"fallback": cfg.FallbackSigma,
			"samples":  n,
		}).Warn("Degenerate residual spread, substituting fallback")
		sigma = cfg.FallbackSigma
		degenerate = true
	}

	names := make([]string, nFeat)
	copy(names, featureNames)

	return &models.FittedModel{
		Weights:    weights,
		Features:   names,
		Sigma:      sigma,
		Degenerate: degenerate,
		Alpha:      cfg.Alpha,
		Samples:    n,
		TrainedAt:  time.Now().UTC(),
	}, nil
}

// Predict computes the margin prediction for one game's feature map using the
// feature ordering recorded at fit time. A feature present in training but
// absent here is an error: silent zero-filling caused inconsistencies between
// historical model variants, so callers must impute upstream explicitly.
func Predict(model *models.FittedModel, features map[string]float64) (float64, error) {
	if model == nil || len(model.Weights) != len(model.Features)+1 {
		return 0, fmt.Errorf("invalid fitted model")
	}
	margin := model.Weights[0]
	for j, name := range model.Features {
		v, ok := features[name]
		if !ok {
			return 0, fmt.Errorf("%w: missing feature %q", models.ErrFeatureMismatch, name)
		}
		margin += model.Weights[j+1] * v
	}
	return margin, nil
}

// MarginToProb converts a predicted home margin into a home win probability
// via the standard normal CDF of margin/sigma.
func MarginToProb(margin, sigma float64) float64 {
	if sigma < 1e-6 {
		sigma = 1e-6
	}
	return distuv.UnitNormal.CDF(margin / sigma)
}

// residualStdDev computes the sample standard deviation of y - Xw with a
// degrees-of-freedom adjustment of max(1, nFeatures).
func residualStdDev(design *mat.Dense, target, w *mat.VecDense, nFeatures int) float64 {
	n, _ := design.Dims()
	var fitted mat.VecDense
	fitted.MulVec(design, w)

	residuals := make([]float64, n)
	var sum float64
	for i := 0; i < n; i++ {
		residuals[i] = target.AtVec(i) - fitted.AtVec(i)
		sum += residuals[i]
	}
	mean := sum / float64(n)

	ddof := nFeatures
	if ddof < 1 {
		ddof = 1
	}
	if n <= ddof {
		return math.NaN()
	}
	var ss float64
	for _, r := range residuals {
		d := r - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-ddof))
}

func allZero(row []float64) bool {
	for _, v := range row {
		if v != 0 {
			return false
		}
	}
	return true
}
