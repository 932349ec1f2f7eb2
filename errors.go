package coursefetch

import (
	"errors"
	"fmt"
)

// Application error codes. These map domain failures onto a small, stable
// taxonomy that callers can branch on without string matching.
const (
	EINVALID      = "invalid"      // validation failed (bad URL, bad schema)
	ENOTFOUND     = "not_found"    // entity does not exist
	ETIMEOUT      = "timeout"      // operation exceeded its deadline
	EUNAUTHORIZED = "unauthorized" // missing or rejected credential
	EUNAVAILABLE  = "unavailable"  // provider or transport unavailable
	EINTERNAL     = "internal"     // unexpected internal error
)

// Error represents an application error with a machine-readable code and a
// human-readable message.
type Error struct {
	// Code is one of the application error code constants above.
	Code string

	// Message is a human-readable description of the error.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("coursefetch error: code=%s message=%s", e.Code, e.Message)
}

// Errorf constructs an Error with the given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors return EINTERNAL; nil returns the empty string.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors return their Error() string so that transport and
// provider failures keep a useful reason; nil returns the empty string.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
