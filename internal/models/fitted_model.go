package models

import (
	"encoding/json"
	"time"
)

// FittedModel is the immutable result of a regression fit: one weight per
// feature plus a bias term, the residual spread of the training margins, and
// the ordered feature list used so prediction-time alignment is unambiguous.
type FittedModel struct {
	// Weights holds the bias term first, then one weight per feature in the
	// order of Features.
	Weights  []float64 `json:"weights"`
	Features []string  `json:"features"`

	// Sigma is the sample standard deviation of training residuals, floored by
	// the configured fallback when the fit is degenerate.
	Sigma float64 `json:"sigma"`

	// Degenerate marks fits whose residual spread was non-finite or non-positive
	// and was replaced with the fallback constant.
	Degenerate bool `json:"degenerate"`

	Alpha     float64   `json:"alpha"`
	Samples   int       `json:"samples"`
	TrainedAt time.Time `json:"trained_at"`
}

// Bias returns the intercept term.
func (m *FittedModel) Bias() float64 {
	if len(m.Weights) == 0 {
		return 0
	}
	return m.Weights[0]
}

// ToJSON serializes the model for persistence.
func (m *FittedModel) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// FittedModelFromJSON deserializes a persisted model.
func FittedModelFromJSON(data []byte) (*FittedModel, error) {
	var m FittedModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
