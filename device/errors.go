package device

import "errors"

// package errors
var (
	// ErrUnsatisfiableRequest means no queue family on the device meets a
	// request's capability and presentation constraints. Resolution is
	// all-or-nothing, so a single unsatisfiable request fails the lot.
	ErrUnsatisfiableRequest = errors.New("no queue family satisfies request")

	// ErrQueueQuotaExceeded means the queues requested from one family,
	// summed over all requests that resolved to it, exceed the number of
	// queues the family advertises.
	ErrQueueQuotaExceeded = errors.New("queue family quota exceeded")
)

// DriverCallError reports a non-success result from an underlying
// driver call, keeping the name of the call that failed.
type DriverCallError struct {
	Call string
	Err  error
}

func (e *DriverCallError) Error() string {
	return e.Call + "(): " + e.Err.Error()
}

func (e *DriverCallError) Unwrap() error {
	return e.Err
}
