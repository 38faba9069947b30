package lake

import "errors"

// Domain errors shared by the forcing accessors and the run loop.
var (
	// ErrMissingForcing indicates a configured forcing could not produce a
	// value for the requested timestamp. Fatal for the enclosing run.
	ErrMissingForcing = errors.New("lake: forcing has no value for the requested timestamp")

	// ErrUnknownMode indicates a mode tag outside the closed set for the
	// forcing family.
	ErrUnknownMode = errors.New("lake: unknown forcing mode")

	// ErrInvalidSeries indicates a series that cannot support the
	// configured mode (for example a time_varying forcing with no samples).
	ErrInvalidSeries = errors.New("lake: series cannot support the configured mode")
)
