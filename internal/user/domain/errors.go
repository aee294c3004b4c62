package domain

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies an Error so transports can pick a status.
type Kind string

const (
	KindNotFound         Kind = "not_found"
	KindConflict         Kind = "conflict"
	KindInvalidOperation Kind = "invalid_operation"
	KindForbidden        Kind = "forbidden"
	KindUnavailable      Kind = "unavailable"
	KindTimeout          Kind = "timeout"
	KindInvalid          Kind = "invalid"
	KindUnauthenticated  Kind = "unauthenticated"
)

// Error is the typed failure returned by use cases.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound)
// holds for every not-found failure regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// Sentinels for errors.Is checks.
var (
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrConflict         = &Error{Kind: KindConflict}
	ErrInvalidOperation = &Error{Kind: KindInvalidOperation}
	ErrForbidden        = &Error{Kind: KindForbidden}
	ErrUnavailable      = &Error{Kind: KindUnavailable}
	ErrTimeout          = &Error{Kind: KindTimeout}
	ErrInvalid          = &Error{Kind: KindInvalid}
	ErrUnauthenticated  = &Error{Kind: KindUnauthenticated}
)

// NewError creates an error of the given kind.
func NewError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NewUserNotFoundError creates an error for a missing user
func NewUserNotFoundError(id uint) *Error {
	return NewError(KindNotFound, "user with id %d not found", id)
}

// NewFavoriteNotFoundError creates an error for a missing favorite edge
func NewFavoriteNotFoundError(ownerID, targetID uint) *Error {
	return NewError(KindNotFound, "user %d has not favorited user %d", ownerID, targetID)
}

// NewValidationError creates an error for invalid input
func NewValidationError(message string) *Error {
	return &Error{Kind: KindInvalid, Message: message}
}

// KindOf returns the kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// StoreError normalises an error returned by a repository. Typed errors pass
// through unchanged; deadline expiry becomes KindTimeout and anything else
// (including cancellation) becomes KindUnavailable.
func StoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Message: op + " timed out", Cause: err}
	}
	return &Error{Kind: KindUnavailable, Message: op + " failed", Cause: err}
}
