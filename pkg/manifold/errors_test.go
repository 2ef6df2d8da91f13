package manifold

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name: "invalid input with status",
			err: &Error{
				Kind:       KindInvalidInput,
				StatusCode: 422,
				Message:    "bad smiles",
			},
			expected: "manifold invalid_input error (status 422): bad smiles",
		},
		{
			name: "rate limited",
			err: &Error{
				Kind:       KindRateLimited,
				StatusCode: 429,
				Message:    "throttled",
			},
			expected: "manifold rate_limited error (status 429): throttled",
		},
		{
			name: "malformed without status",
			err: &Error{
				Kind:    KindMalformedResponse,
				Message: "no score",
			},
			expected: "manifold malformed_response error: no score",
		},
		{
			name: "wrapped error",
			err: &Error{
				Kind:    KindInvalidArgument,
				Message: "bad size",
				Err:     errors.New("size 0"),
			},
			expected: "manifold invalid_argument error: bad size: size 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestError_Is(t *testing.T) {
	tests := []struct {
		kind     ErrorKind
		sentinel error
	}{
		{KindInvalidInput, ErrInvalidInput},
		{KindRateLimited, ErrRateLimited},
		{KindMalformedResponse, ErrMalformedResponse},
		{KindInvalidArgument, ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			err := fmt.Errorf("batch 2/3: %w", &Error{Kind: tt.kind})
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false, want true", err, tt.sentinel)
			}
			for _, other := range tests {
				if other.kind != tt.kind && errors.Is(err, other.sentinel) {
					t.Errorf("errors.Is(%v, %v) = true, want false", err, other.sentinel)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	inner := errors.New("inner")
	err := &Error{Kind: KindMalformedResponse, Err: inner}
	if !errors.Is(err, inner) {
		t.Error("Unwrap should expose the wrapped error")
	}
}

func TestMissingFieldError(t *testing.T) {
	err := &MissingFieldError{Record: "inchikeyMatches", Field: "connectivity"}

	if got, want := err.Error(), `inchikeyMatches: missing field "connectivity"`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrMissingField) {
		t.Error("MissingFieldError should match ErrMissingField")
	}
	if errors.Is(err, ErrMalformedResponse) {
		t.Error("MissingFieldError should not match ErrMalformedResponse")
	}
}
