package spot

import "errors"

var (
	// ErrEmptySeries is returned when an analytic needs at least one point.
	// It marks a "no data" state, not a fault, callers map it to an
	// unavailable result.
	ErrEmptySeries = errors.New("price series has no points")

	// ErrInvalidHourIndex is returned when a raw quote uses an hour index
	// outside the day's actual interval count (23, 24 or 25).
	ErrInvalidHourIndex = errors.New("hour index out of range")

	// ErrNonContiguousSeries is returned when two series cannot be joined
	// because their timestamps are not strictly increasing at the boundary.
	ErrNonContiguousSeries = errors.New("series are not contiguous")

	// ErrInvalidBlockLength flags a misconfigured cheapest block request.
	// It is never silently clamped.
	ErrInvalidBlockLength = errors.New("block length must be at least 1")
)
