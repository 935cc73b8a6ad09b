// Package apperr holds the error kinds shared by the services and mapped to
// HTTP status codes by the handlers.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks a referenced entity that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrPrecondition marks an operation invoked from a state that forbids it.
	ErrPrecondition = errors.New("precondition failed")
	// ErrMalformedAIResponse marks model output that could not be parsed into the expected structure.
	ErrMalformedAIResponse = errors.New("malformed AI response")
)

// NotFound wraps ErrNotFound with the kind of entity that was missing.
func NotFound(entity string) error {
	return fmt.Errorf("%s %w", entity, ErrNotFound)
}

// Precondition wraps ErrPrecondition with a user-facing message.
func Precondition(msg string) error {
	return &PreconditionError{Msg: msg}
}

// PreconditionError carries the message shown to the caller.
type PreconditionError struct {
	Msg string
}

func (e *PreconditionError) Error() string { return e.Msg }

func (e *PreconditionError) Unwrap() error { return ErrPrecondition }

// RemoteError is a failure talking to the hosting platform or the model API.
type RemoteError struct {
	Service string
	Op      string
	Err     error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Service, e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// Remote wraps err as a RemoteError, leaving nil untouched.
func Remote(service, op string, err error) error {
	if err == nil {
		return nil
	}
	return &RemoteError{Service: service, Op: op, Err: err}
}

// MalformedAIResponse reports unparseable model output as a remote failure.
func MalformedAIResponse(op string, detail error) error {
	if detail == nil {
		return Remote("llm", op, ErrMalformedAIResponse)
	}
	return Remote("llm", op, fmt.Errorf("%w: %v", ErrMalformedAIResponse, detail))
}

// IsRemote reports whether err came from an external service.
func IsRemote(err error) bool {
	var re *RemoteError
	return errors.As(err, &re)
}
