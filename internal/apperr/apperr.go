// Package apperr normalizes every failure the storefront core can produce into
// one of a few reasons the UI knows how to render.
package apperr

import (
	"context"
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation         Kind = "validation"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindNotFound           Kind = "not_found"
	KindFailed             Kind = "failed"
)

var (
	ErrValidation         = errors.New("validation")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("not found")
	ErrFailed             = errors.New("request failed")

	// ErrUnauthenticated is returned by operations that need a session when there is none.
	ErrUnauthenticated = fmt.Errorf("not logged in: %w", ErrInvalidCredentials)
	// ErrInFlight is returned when the same mutating operation is already running.
	ErrInFlight = fmt.Errorf("operation already in progress: %w", ErrFailed)
)

// Error is the normalized failure description handed to the render layer.
// Field is set only for validation errors attributable to one input.
type Error struct {
	Kind    Kind   `json:"kind"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	switch target {
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrInvalidCredentials:
		return e.Kind == KindInvalidCredentials
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrFailed:
		return e.Kind == KindFailed
	}
	return false
}

func Validation(field, message string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

func InvalidCredentials(message string) *Error {
	if message == "" {
		message = "invalid credentials"
	}
	return &Error{Kind: KindInvalidCredentials, Message: message}
}

func NotFound(message string) *Error {
	if message == "" {
		message = "not found"
	}
	return &Error{Kind: KindNotFound, Message: message}
}

func Failed(message string, err error) *Error {
	if message == "" {
		message = "request failed"
	}
	return &Error{Kind: KindFailed, Message: message, Err: err}
}

// Normalize maps any error onto an *Error. Unknown errors become KindFailed with a
// generic message so transport details never leak into the UI.
func Normalize(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return &Error{Kind: KindInvalidCredentials, Message: "please log in to continue", Err: err}
	case errors.Is(err, ErrInFlight):
		return &Error{Kind: KindFailed, Message: "please wait, the previous request is still running", Err: err}
	case errors.Is(err, ErrValidation):
		return &Error{Kind: KindValidation, Message: err.Error(), Err: err}
	case errors.Is(err, ErrInvalidCredentials):
		return &Error{Kind: KindInvalidCredentials, Message: err.Error(), Err: err}
	case errors.Is(err, ErrNotFound):
		return &Error{Kind: KindNotFound, Message: err.Error(), Err: err}
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return &Error{Kind: KindFailed, Message: "request timed out", Err: err}
	case errors.Is(err, ErrFailed):
		return &Error{Kind: KindFailed, Message: err.Error(), Err: err}
	}
	return &Error{Kind: KindFailed, Message: "something went wrong, please try again", Err: err}
}

func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	return Normalize(err).Kind
}
