// Package errs defines the application error codes that are shared between the service layer
// and the HTTP layer. The service layer classifies failures into these codes; the HTTP layer
// maps each code to a status and never looks at the underlying cause.
package errs

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	ECONFLICT      = "conflict"
	EINTERNAL      = "internal"
	EINVALID       = "invalid"
	ENOTFOUND      = "not_found"
	EUNAUTHORIZED  = "unauthorized"
	EUNPROCESSABLE = "unprocessable"
	ERATELIMITED   = "rate_limited"
)

// internalMessage is shown to callers instead of the message of an internal error.
const internalMessage = "Internal server error. Please contact support."

// Error represents an application-specific error. Err optionally keeps the cause for logging.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("application error: code=%s message=%s", e.Code, e.Message)
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

// Wrap returns an Error with the given code and message that keeps err as its cause.
func Wrap(code string, err error, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ErrorCode unwraps an application error and returns its code. Non-application errors always
// return EINTERNAL. A nil error returns an empty string.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message. Non-application errors
// and internal errors return a generic message so that no detail leaks to the caller.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) && e.Code != EINTERNAL {
		return e.Message
	}
	return internalMessage
}
