// Package apperr defines the error taxonomy shared by the service layer and
// translated into HTTP statuses at the boundary.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error.
type Kind int

const (
	// Internal is an unexpected fault (persistence, programming error).
	Internal Kind = iota
	// Validation is a client-correctable input error, usually per-field.
	Validation
	// NotFound means the referenced entity does not exist.
	NotFound
	// Conflict is a uniqueness or state collision.
	Conflict
	// Expired marks a time-boxed token or link past its expiry.
	Expired
	// Unauthorized means no or invalid session/credentials.
	Unauthorized
	// Delivery is an outbound email or remote-call failure.
	Delivery
)

// Error is the application error type. Fields carries per-field validation
// messages when the error is client-correctable.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
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

// StatusCode maps the error kind to an HTTP status.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case Validation:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case Expired:
		return http.StatusGone
	case Unauthorized:
		return http.StatusUnauthorized
	case Delivery, Internal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// New creates an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an Error of the given kind with an underlying cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// NewValidation creates a Validation error carrying a per-field message map.
func NewValidation(fields map[string]string) *Error {
	return &Error{Kind: Validation, Message: "validation failed", Fields: fields}
}

// Is reports whether err is an application error of the given kind.
func Is(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// From extracts the application error from err, downgrading anything else to
// Internal so raw persistence faults never reach the client.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return &Error{Kind: Internal, Message: "internal server error", Err: err}
}
