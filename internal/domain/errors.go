package domain

import "errors"

var (
	// ErrInvalidInput marks requests with out-of-bounds coordinates or bad dimensions.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidState marks operations rejected by the current state of an entity.
	ErrInvalidState = errors.New("invalid state")
	// ErrNoFeasibleCourier is returned when every courier was excluded from dispatch.
	ErrNoFeasibleCourier = errors.New("no feasible courier")
	ErrNotFound          = errors.New("not found")
)
