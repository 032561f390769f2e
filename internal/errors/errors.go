package errors

import (
	"context"
	stderrors "errors"
	"fmt"
)

// Kind classifies an application error
type Kind int

const (
	ErrInternal Kind = iota
	// ErrInput: a client-side precondition failed before any network call
	ErrInput
	// ErrValidation: payload was well-formed JSON but had the wrong shape
	ErrValidation
	// ErrTransport: network-level failure, no HTTP status available
	ErrTransport
	// ErrStatus: the service answered with a non-2xx status
	ErrStatus
)

// Error is an application-level error with a kind for classification.
// Status is set only for ErrStatus.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error // underlying error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Constructor functions for common error types

func Input(msg string) *Error {
	return &Error{Kind: ErrInput, Message: msg}
}

func Inputf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrInput, Message: fmt.Sprintf(format, args...)}
}

func Validation(msg string) *Error {
	return &Error{Kind: ErrValidation, Message: msg}
}

func Validationf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

// Transport wraps a network-level failure, keeping the underlying error
// reachable through Unwrap so context cancellation stays detectable.
func Transport(err error) *Error {
	return &Error{Kind: ErrTransport, Message: "request failed", Err: err}
}

func Status(status int, msg string) *Error {
	return &Error{Kind: ErrStatus, Status: status, Message: msg}
}

func Internal(err error) *Error {
	return &Error{Kind: ErrInternal, Message: "internal error", Err: err}
}

// Wrap wraps an error with additional context
func Wrap(err error, kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf reports the kind of err, or ErrInternal when err is not an *Error.
func KindOf(err error) Kind {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	return ErrInternal
}

// StatusOf returns the HTTP status carried by err, or 0 when none is set.
func StatusOf(err error) int {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr.Status
	}
	return 0
}

// IsCanceled reports whether err stems from a cancelled operation.
// Cancelled operations are withdrawn, not failed, and must not surface.
func IsCanceled(err error) bool {
	return stderrors.Is(err, context.Canceled)
}
