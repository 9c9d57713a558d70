package booking

import (
	"errors"
	"fmt"
)

// FetchError means seat status or a display-name lookup failed. The session
// keeps its previous data; the caller decides when to retry.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("fetch failed: %v", e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ValidationError is the local rejection of a submit with the wrong seat
// count. It never reaches the network.
type ValidationError struct {
	Required int
	Selected int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("exactly %d seat(s) required, %d selected", e.Required, e.Selected)
}

// SubmissionError means the backend rejected a mutation or the network
// failed during it. Message carries the server's text verbatim when the
// backend provided one.
type SubmissionError struct {
	Message string
	Err     error
}

func (e *SubmissionError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("submit failed: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// CleanupError wraps a failed exit-time seat release. It is logged by the
// session, never returned, since the user has already left the flow.
type CleanupError struct {
	Err error
}

func (e *CleanupError) Error() string {
	return fmt.Sprintf("seat release on exit failed: %v", e.Err)
}

func (e *CleanupError) Unwrap() error { return e.Err }

func IsFetch(err error) bool {
	var target *FetchError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsSubmission(err error) bool {
	var target *SubmissionError
	return errors.As(err, &target)
}
