package manifold

import (
	"errors"
	"fmt"
)

// Common errors returned by the parser, classifier and client.
var (
	// ErrInvalidInput is returned when the API rejects a SMILES string (status 422).
	ErrInvalidInput = errors.New("invalid input")

	// ErrRateLimited is returned when the API answers with a "detail" body.
	ErrRateLimited = errors.New("rate limited")

	// ErrMalformedResponse is returned when a response body has an unknown shape.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrInvalidArgument is returned for caller errors such as a non-positive batch size.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrMissingField is returned when a required field of a sub-record is absent.
	ErrMissingField = errors.New("missing field")
)

// ErrorKind classifies a Manifold error.
type ErrorKind string

const (
	// KindInvalidInput represents a rejected SMILES string.
	KindInvalidInput ErrorKind = "invalid_input"

	// KindRateLimited represents a throttled request.
	KindRateLimited ErrorKind = "rate_limited"

	// KindMalformedResponse represents a response that matched no known shape.
	KindMalformedResponse ErrorKind = "malformed_response"

	// KindInvalidArgument represents a precondition violation by the caller.
	KindInvalidArgument ErrorKind = "invalid_argument"
)

// Error is a classified Manifold error with additional context.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("manifold %s error", e.Kind)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Message)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel matching e.Kind.
func (e *Error) Is(target error) bool {
	return kindSentinel(e.Kind) == target
}

func kindSentinel(kind ErrorKind) error {
	switch kind {
	case KindInvalidInput:
		return ErrInvalidInput
	case KindRateLimited:
		return ErrRateLimited
	case KindMalformedResponse:
		return ErrMalformedResponse
	case KindInvalidArgument:
		return ErrInvalidArgument
	default:
		return nil
	}
}

// MissingFieldError names the record and field that were absent.
type MissingFieldError struct {
	Record string
	Field  string
}

// Error implements the error interface.
func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: %s %q", e.Record, ErrMissingField, e.Field)
}

// Is matches ErrMissingField.
func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

func invalidArgument(format string, args ...any) error {
	return &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

func malformed(format string, args ...any) error {
	return &Error{Kind: KindMalformedResponse, Message: fmt.Sprintf(format, args...)}
}
