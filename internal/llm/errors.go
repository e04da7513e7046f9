package llm

import (
	"errors"
	"fmt"
)

var (
	ErrRemoteUnavailable = errors.New("remote grader unavailable")
	ErrRemoteRejected    = errors.New("remote grader rejected request")
	ErrRemoteMalformed   = errors.New("remote grader returned malformed response")
)

// RejectedError is a non-success status from the remote grader. It matches
// ErrRemoteRejected under errors.Is.
type RejectedError struct {
	StatusCode int
	Message    string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("remote grader rejected request (status %d): %s", e.StatusCode, e.Message)
}

func (e *RejectedError) Is(target error) bool {
	return target == ErrRemoteRejected
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
}

func malformed(detail string) error {
	return fmt.Errorf("%w: %s", ErrRemoteMalformed, detail)
}

// Kind names the recoverable class of a remote failure.
type Kind string

const (
	KindNone        Kind = ""
	KindUnavailable Kind = "unavailable"
	KindRejected    Kind = "rejected"
	KindMalformed   Kind = "malformed"
)

// Classify maps err to its Kind. Errors of unknown origin count as
// unavailable.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrRemoteRejected):
		return KindRejected
	case errors.Is(err, ErrRemoteMalformed):
		return KindMalformed
	default:
		return KindUnavailable
	}
}
