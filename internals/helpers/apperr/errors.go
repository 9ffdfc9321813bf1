// Package apperr carries the error taxonomy shared by services and HTTP handlers.
package apperr

import (
	"context"
	"database/sql/driver"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
)

type Kind string

const (
	KindValidation Kind = "validation"
	KindCapacity   Kind = "capacity"
	KindNotFound   Kind = "not_found"
	KindConflict   Kind = "conflict"
	KindForbidden  Kind = "forbidden"
	KindTransient  Kind = "transient"
)

type Error struct {
	Kind    Kind
	Message string
	Fields  map[string][]string
	cause   error
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.cause }

// Is matches any *Error of the same kind, so errors.Is(err, ErrCapacity) works
// regardless of the message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrValidation = &Error{Kind: KindValidation, Message: "validation failed"}
	ErrCapacity   = &Error{Kind: KindCapacity, Message: "the event is full"}
	ErrNotFound   = &Error{Kind: KindNotFound, Message: "not found"}
	ErrConflict   = &Error{Kind: KindConflict, Message: "conflict"}
	ErrForbidden  = &Error{Kind: KindForbidden, Message: "organizer role required"}
	ErrTransient  = &Error{Kind: KindTransient, Message: "storage temporarily unavailable, please retry"}
)

func Validation(msg string) error { return &Error{Kind: KindValidation, Message: msg} }
func NotFound(msg string) error   { return &Error{Kind: KindNotFound, Message: msg} }
func Conflict(msg string) error   { return &Error{Kind: KindConflict, Message: msg} }

// ValidationFields carries per-field messages for form re-display.
func ValidationFields(fields map[string][]string) error {
	return &Error{Kind: KindValidation, Message: "validation failed", Fields: fields}
}

// KindOf returns the taxonomy kind of err, classifying raw storage errors on the way.
// The zero Kind means an unexpected internal failure.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	if IsTransient(err) {
		return KindTransient
	}
	return ""
}

// IsTransient reports connection level failures the caller may retry.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if pgconn.Timeout(err) {
		return true
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// Storage wraps an unexpected storage error with context, promoting connection
// failures to ErrTransient.
func Storage(err error, msg string) error {
	if err == nil {
		return nil
	}
	if IsTransient(err) {
		return &Error{Kind: KindTransient, Message: ErrTransient.Message, cause: errors.Wrap(err, msg)}
	}
	return errors.Wrap(err, msg)
}
