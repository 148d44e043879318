// Package errors carries the coded errors that jsongraph surfaces to users.
//
// Every failure a user can act on has a [Code]. The CLI prints
// [UserMessage], the explorer shows it as a toast and the HTTP API returns
// the code next to the message so clients can branch on it:
//
//	_, err := jsonvalue.ParseString(text)
//	if errors.Is(err, errors.ErrCodeInvalidJSON) {
//	    fmt.Println(errors.UserMessage(err)) // Invalid JSON: unexpected end of input
//	}
//
// Codes prefixed INVALID_ reject input, *_NOT_FOUND codes name a missing
// resource, LAYOUT_FAILED and TIMEOUT come from layout engines. Anything
// without a code is internal.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code is a machine-readable error code.
type Code string

const (
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeEmptyInput       Code = "EMPTY_INPUT"
	ErrCodeInvalidJSON      Code = "INVALID_JSON"
	ErrCodeInvalidQuery     Code = "INVALID_QUERY"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidDirection Code = "INVALID_DIRECTION"
	ErrCodeInvalidEngine    Code = "INVALID_ENGINE"
	ErrCodeInvalidConfig    Code = "INVALID_CONFIG"
	ErrCodeInvalidGraph     Code = "INVALID_GRAPH"

	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"

	ErrCodeLayout  Code = "LAYOUT_FAILED"
	ErrCodeTimeout Code = "TIMEOUT"

	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a coded error. Message is safe to show to users; Cause is not.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error formats as "CODE: message", appending the cause unless the message
// already contains it.
func (e *Error) Error() string {
	if e.Cause == nil || strings.Contains(e.Message, e.Cause.Error()) {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an *Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is [New] with a cause kept for errors.Is and errors.As.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func as(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether the first *Error in err's chain has code.
func Is(err error, code Code) bool {
	e, ok := as(err)
	return ok && e.Code == code
}

// GetCode returns the code of the first *Error in err's chain, or "".
func GetCode(err error) Code {
	if e, ok := as(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without the code prefix, or err.Error()
// for uncoded errors.
func UserMessage(err error) string {
	if e, ok := as(err); ok {
		return e.Message
	}
	return err.Error()
}

// Detail is [UserMessage] followed by the cause, unless the message already
// includes it. It is the text returned to API clients.
func Detail(err error) string {
	e, ok := as(err)
	if !ok {
		return err.Error()
	}
	if e.Cause == nil || strings.Contains(e.Message, e.Cause.Error()) {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

// InvalidJSON builds the error raised when input text does not parse.
// The message is shown to the user verbatim, prefixed with "Invalid JSON: ".
func InvalidJSON(cause error) *Error {
	return Wrap(ErrCodeInvalidJSON, cause, "Invalid JSON: %s", cause.Error())
}
