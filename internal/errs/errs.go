// Package errs defines the error kinds shared by the service layer and the
// HTTP boundary.
package errs

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Application error codes.
const (
	ENOTFOUND     = "not_found"
	EINVALID      = "invalid"
	ECONFLICT     = "conflict"
	EUNAUTHORIZED = "unauthorized"
	EFORBIDDEN    = "forbidden"
	ETIMEDOUT     = "timed_out"
	EINTERNAL     = "internal"
)

// Error carries a code and a message that is safe to show to API clients.
type Error struct {
	Code    string
	Message string
	// Err is the underlying cause. It is never exposed to clients.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode returns the code of the root error, if available. Otherwise returns EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage returns the client-facing message of err. Errors that are not
// *Error are reported with a generic message.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// FromStore translates a storage error. notFound is the message used when the
// record does not exist.
func FromStore(err error, notFound string) error {
	var e *Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &e):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &Error{Code: ENOTFOUND, Message: notFound, Err: err}
	case errors.Is(err, context.DeadlineExceeded):
		return &Error{Code: ETIMEDOUT, Message: "The operation timed out.", Err: err}
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &Error{Code: EINVALID, Message: "The record already exists.", Err: err}
	default:
		return &Error{Code: EINTERNAL, Message: "Internal error.", Err: err}
	}
}
