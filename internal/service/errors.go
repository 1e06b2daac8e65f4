package service

import (
	"errors"
)

// Kind classifies a service error. The API layer maps each kind to an HTTP
// status code.
type Kind int

const (
	// KindInternal covers persistence and other unexpected failures.
	KindInternal Kind = iota
	// KindValidation is missing or malformed input.
	KindValidation
	// KindAuthentication is a missing/invalid token or bad credentials.
	KindAuthentication
	// KindAuthorization is an authenticated caller acting on something they don't own.
	KindAuthorization
	// KindNotFound is an unknown group or user.
	KindNotFound
	// KindConflict is a duplicate signup email.
	KindConflict
	// KindFederation is any failure of the federated login callback.
	KindFederation
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindFederation:
		return "federation"
	default:
		return "internal"
	}
}

// Error is the error type returned by every service operation.
// Msg is safe to show to the caller; Err carries the underlying cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of err, or KindInternal if err is not an *Error.
func KindOf(err error) Kind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindInternal
}

// MessageOf returns the caller-facing message of err.
func MessageOf(err error) string {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Msg
	}
	return "Internal server error"
}

func newError(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: cause}
}

func validationError(msg string, cause error) *Error {
	return newError(KindValidation, msg, cause)
}

func notFoundError(msg string, cause error) *Error {
	return newError(KindNotFound, msg, cause)
}

func internalError(msg string, cause error) *Error {
	return newError(KindInternal, msg, cause)
}
