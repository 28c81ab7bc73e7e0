package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidParams indicates calculation parameters failed validation.
	// The wrapped message lists the offending fields.
	ErrInvalidParams = errors.New("invalid calculation parameters")

	// ErrUnknownSetting indicates a settings key that changegear does not recognise.
	ErrUnknownSetting = errors.New("unknown setting")

	// ErrCalculationCancelled indicates the caller stopped a calculation before it completed.
	ErrCalculationCancelled = errors.New("calculation cancelled")

	// ErrRunFinished indicates a calculation run was already finalised.
	ErrRunFinished = errors.New("calculation run already finished")
)
