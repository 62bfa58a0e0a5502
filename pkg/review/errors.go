package review

import (
	"errors"
	"fmt"
)

var (
	// ErrNetworkUnavailable indicates the backend could not be reached.
	ErrNetworkUnavailable = errors.New("backend unreachable")
	// ErrBackend indicates the backend answered with a non-success status or shape.
	ErrBackend = errors.New("backend error")
	// ErrValidation indicates a decision was rejected before any network call.
	ErrValidation = errors.New("invalid decision")
	// ErrMalformedResponse indicates a listing body that is not a JSON array.
	ErrMalformedResponse = errors.New("malformed product listing")
	// ErrBusy indicates a load or submission is already in flight.
	ErrBusy = errors.New("operation already in flight")
	// ErrNothingToReview indicates the loaded queue is empty.
	ErrNothingToReview = errors.New("nothing to review")
	// ErrNotReady indicates the queue has not been loaded successfully.
	ErrNotReady = errors.New("review queue not loaded")
)

// BackendError carries the status and body of a non-success backend response.
// It matches ErrBackend under errors.Is.
type BackendError struct {
	Status int
	Body   string
}

func (e *BackendError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend error: status %d", e.Status)
	}
	return fmt.Sprintf("backend error: status %d: %s", e.Status, e.Body)
}

func (e *BackendError) Unwrap() error {
	return ErrBackend
}

// Retryable reports whether err leaves the controller in a state where the same
// operation can be issued again unchanged.
func Retryable(err error) bool {
	return errors.Is(err, ErrNetworkUnavailable) || errors.Is(err, ErrBackend)
}
