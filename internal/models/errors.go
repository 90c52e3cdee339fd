package models

import "errors"

// Error taxonomy for the calculation chain. Translators are total functions
// and never fail; everything else surfaces one of these sentinels, wrapped
// with context at the call site.
var (
	// ErrEphemerisUnavailable means the precise ephemeris backend cannot
	// serve queries. Recoverable: the position calculator retries the query
	// on the approximate built-in provider.
	ErrEphemerisUnavailable = errors.New("ephemeris provider unavailable")

	// ErrNoDaylightBoundary means sunrise or sunset is undefined for the
	// requested date and location (polar day or polar night). Fatal to the
	// hour table for that date.
	ErrNoDaylightBoundary = errors.New("no daylight boundary: sun does not rise or set")

	// ErrUnknownImbalance means the window search was given an imbalance
	// category outside the known set. Caller error.
	ErrUnknownImbalance = errors.New("unknown imbalance category")

	// ErrEmptyInput means an aggregation was requested over zero snapshots.
	// Caller error.
	ErrEmptyInput = errors.New("at least one snapshot is required")
)
