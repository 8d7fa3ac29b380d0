// Package apperr defines the error taxonomy shared by the auth and ledger
// services. Callers match error kinds with errors.Is against the sentinels and
// read the user-facing text with Message.
package apperr

import "errors"

var (
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
	ErrNotFound   = errors.New("not found")
	ErrAuth       = errors.New("unauthorized")
	ErrStore      = errors.New("store error")
)

// Error carries a kind sentinel, a message safe to show to API clients and an
// optional underlying cause.
type Error struct {
	kind  error
	msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() []error {
	if e.cause != nil {
		return []error{e.kind, e.cause}
	}
	return []error{e.kind}
}

func Validation(msg string) error {
	return &Error{kind: ErrValidation, msg: msg}
}

func Conflict(msg string) error {
	return &Error{kind: ErrConflict, msg: msg}
}

func NotFound(msg string) error {
	return &Error{kind: ErrNotFound, msg: msg}
}

func Auth(msg string) error {
	return &Error{kind: ErrAuth, msg: msg}
}

// Store wraps a persistence failure. The cause is kept for logs; Message only
// exposes msg.
func Store(msg string, cause error) error {
	return &Error{kind: ErrStore, msg: msg, cause: cause}
}

// Message returns the client-facing message of err. Errors outside the
// taxonomy yield fallback.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) {
		return e.msg
	}
	return fallback
}
