package core

import "errors"

// Error taxonomy for an aborted render pass. Every render failure wraps
// exactly one of these sentinels so callers can classify with errors.Is.
var (
	// ErrConfiguration covers missing or malformed data, accessors,
	// series specs and color assignment.
	ErrConfiguration = errors.New("invalid chart configuration")

	// ErrDomain covers values the scales cannot work with: zero time
	// values, non-finite series values, degenerate plotting areas.
	ErrDomain = errors.New("invalid chart domain")

	// ErrResource covers an unusable drawing surface or a missing
	// external resource such as a stored dataset or output file.
	ErrResource = errors.New("unavailable resource")
)
