// Package errors defines the coded errors shared by the citegraph service,
// HTTP API and CLI.
//
// A coded error carries a machine-readable [Code], a message safe to show
// to users and an optional cause:
//
//	err := errors.New(errors.ErrCodeInvalidInput, "depth %d exceeds %d", depth, max)
//	err = errors.Wrap(errors.ErrCodeNetwork, cause, "paper lookup failed")
//
//	if errors.Is(err, errors.ErrCodeNetwork) { ... }
//
// The outermost coded error in a chain decides the code. [HTTPStatus] maps
// it to the status the API answers with.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error category.
type Code string

const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"  // request validation
	ErrCodeInvalidFormat Code = "INVALID_FORMAT" // undecodable document or unknown format
	ErrCodeNotFound      Code = "NOT_FOUND"      // no current graph, unknown vertex or task
	ErrCodeConflict      Code = "CONFLICT"       // not applicable in the current state
	ErrCodeInProgress    Code = "IN_PROGRESS"    // task result requested before it finished
	ErrCodeNetwork       Code = "NETWORK_ERROR"  // provider unreachable or failing
	ErrCodeRateLimited   Code = "RATE_LIMITED"   // provider throttling
	ErrCodeUnsupported   Code = "UNSUPPORTED"    // known but unwired provider or kind
	ErrCodeInternal      Code = "INTERNAL_ERROR"
)

var statusByCode = map[Code]int{
	ErrCodeInvalidInput:  http.StatusBadRequest,
	ErrCodeInvalidFormat: http.StatusBadRequest,
	ErrCodeConflict:      http.StatusBadRequest,
	ErrCodeUnsupported:   http.StatusBadRequest,
	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeInProgress:    http.StatusAccepted,
	ErrCodeRateLimited:   http.StatusTooManyRequests,
	ErrCodeNetwork:       http.StatusBadGateway,
	ErrCodeInternal:      http.StatusInternalServerError,
}

// Error is a coded error.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns a coded error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return Wrap(code, nil, format, args...)
}

// Wrap returns a coded error with a formatted message around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func outermost(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether the outermost coded error in err's chain has code.
func Is(err error, code Code) bool {
	e, ok := outermost(err)
	return ok && e.Code == code
}

// GetCode returns the code of the outermost coded error, or "".
func GetCode(err error) Code {
	if e, ok := outermost(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage returns the coded message without code or cause, or the
// plain error text for uncoded errors.
func UserMessage(err error) string {
	if e, ok := outermost(err); ok {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus returns the response status for err. Uncoded errors are 500.
func HTTPStatus(err error) int {
	if s, ok := statusByCode[GetCode(err)]; ok {
		return s
	}
	return http.StatusInternalServerError
}
