package pipeline

import "errors"

// ErrInvalidPayload is returned when the payload is missing or empty;
// Encode aborts rather than produce a partial output record.
var ErrInvalidPayload = errors.New("pipeline: payload must be non-empty")

// FatalInvariantError marks an implementation bug rather than a bad input,
// e.g. a negative length or an out-of-range index surviving clamping.
// cmd/stegoenc recovers these at main and reports them as internal errors,
// never as a warning.
type FatalInvariantError struct {
	Reason string
}

// Error implements the error interface.
func (e FatalInvariantError) Error() string {
	return "pipeline: fatal invariant violation: " + e.Reason
}
