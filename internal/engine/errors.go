package engine

import "errors"

// Operation errors. Each is detected at the boundary of the operation
// that triggers it and returned synchronously; nothing is retried
// internally. A stale or absent vehicle fix is not an error.
var (
	// ErrInvalidDate marks an unparseable calendar date. The
	// triggering operation performs no state mutation.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidTime marks an unparseable departure time.
	ErrInvalidTime = errors.New("invalid time of day")

	// ErrUnknownDirection marks a direction outside the two route
	// orientations.
	ErrUnknownDirection = errors.New("unknown direction")

	// ErrUnknownDayType marks a day type that carries no editable
	// timetable.
	ErrUnknownDayType = errors.New("unknown day type")

	// ErrInvariantViolation marks a broken internal invariant. It is
	// a programming error, not recoverable by the caller.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrStorageUnavailable marks a failed load or save against the
	// schedule store. The operation aborts without partial effect and
	// the caller may resubmit the whole operation.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
