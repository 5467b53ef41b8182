package models

import "errors"

// Custom errors
var (
	// ErrMissingColumn indicates a required field is absent from an input
	// record set. Fatal for the computation that needed it.
	ErrMissingColumn = errors.New("required column missing from input")

	// ErrFeatureMismatch indicates the prediction-time feature set does not
	// match the training-time feature set. Fail fast rather than zero-fill.
	ErrFeatureMismatch = errors.New("feature set does not match fitted model")

	// ErrUnknownTeam indicates a team code that cannot be mapped to canonical
	// form. The affected record is dropped and counted, not fatal.
	ErrUnknownTeam = errors.New("unresolvable team code")

	// ErrNoQuotes indicates no market quotes exist for a requested side.
	ErrNoQuotes = errors.New("no market quotes available")

	ErrNotFound     = errors.New("record not found")
	ErrDuplicateKey = errors.New("duplicate key violation")
)
