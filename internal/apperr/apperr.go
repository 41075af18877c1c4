// Package apperr defines the error kinds shared by the domain packages, the services and the HTTP layer.
// Handlers translate a kind into a status code with errors.Is, so the message stays free-form.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
)

// Error carries a kind for errors.Is matching and a message meant for the API caller.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// New builds an error of the given kind.
func New(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf is New with formatting.
func Newf(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFound(message string) *Error   { return New(ErrNotFound, message) }
func Conflict(message string) *Error   { return New(ErrConflict, message) }
func Forbidden(message string) *Error  { return New(ErrForbidden, message) }
func Validation(message string) *Error { return New(ErrValidation, message) }

// Message returns the caller-facing message of err if it is an *Error, otherwise fallback.
func Message(err error, fallback string) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return fallback
}
