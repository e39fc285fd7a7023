package collector

import (
	"errors"
	"fmt"
)

// ErrWriteFailed indicates a batch was rejected by the write transport.
// Every *BatchError matches it with errors.Is.
var ErrWriteFailed = errors.New("collector: write failed")

// BatchError describes one failed batch.
//
// It unwraps to both ErrWriteFailed and the transport error, so callers can
// test for either with errors.Is.
type BatchError struct {
	// Measurement is the series the batch belonged to.
	Measurement string

	// Points is the number of points in the failed batch.
	Points int

	// Dropped is the number of queued points of the same series that were
	// discarded after the failure.
	Dropped int

	// Err is the error returned by the transport.
	Err error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("%v: series %q: %d points (%d dropped): %v",
		ErrWriteFailed, e.Measurement, e.Points, e.Dropped, e.Err)
}

func (e *BatchError) Unwrap() []error {
	return []error{ErrWriteFailed, e.Err}
}
