package cache

import "errors"

var (
	// ErrInvalidConfiguration is returned by New when capacity or timeout
	// is negative. A cache is never constructed in that case.
	ErrInvalidConfiguration = errors.New("cache: capacity and timeout must be non-negative")

	// ErrNotFound is returned by Get when no entry with the requested
	// identifier exists, either because it was never stored or because it
	// expired or was evicted. Use errors.Is() to check.
	ErrNotFound = errors.New("cache: entry not found")
)
