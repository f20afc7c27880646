// Package errors defines the coded errors shared by archdeck's packages.
//
// Every failure that reaches a user carries a [Code]. The same codes name
// the non-fatal diagnostics a layout reports (UNKNOWN_NODE, CYCLE_DETECTED),
// so a warning in the CLI, a field in an API response and an inline error
// panel all use one vocabulary.
//
//	err := errors.New(errors.ErrCodeInvalidSpec, "unsupported format %q", format)
//	if errors.Is(err, errors.ErrCodeInvalidSpec) {
//	    ...
//	}
//
//	err = errors.Wrap(errors.ErrCodeRenderFailed, cause, "render %s", id)
//
// [HTTPStatus] maps a code to the status the API answers with.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error code.
type Code string

// Input that cannot be decoded or is malformed.
const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidSpec   Code = "INVALID_SPEC"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeInvalidID     Code = "INVALID_ID"
)

// Diagram conditions. Apart from EMPTY_GRAPH these are reported as
// diagnostics and never returned as errors.
const (
	ErrCodeEmptyGraph    Code = "EMPTY_GRAPH"
	ErrCodeUnknownNode   Code = "UNKNOWN_NODE"
	ErrCodeCycleDetected Code = "CYCLE_DETECTED"
	ErrCodeDuplicateNode Code = "DUPLICATE_NODE"
	ErrCodeLayoutMode    Code = "LAYOUT_MODE"
)

// Resource, API and internal failures.
const (
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeRateLimited  Code = "RATE_LIMITED"
	ErrCodeUnsupported  Code = "UNSUPPORTED"
	ErrCodeRenderFailed Code = "RENDER_FAILED"
	ErrCodeInternal     Code = "INTERNAL_ERROR"
)

var statuses = map[Code]int{
	ErrCodeInvalidInput:  http.StatusBadRequest,
	ErrCodeInvalidSpec:   http.StatusBadRequest,
	ErrCodeInvalidConfig: http.StatusBadRequest,
	ErrCodeInvalidFormat: http.StatusBadRequest,
	ErrCodeInvalidPath:   http.StatusBadRequest,
	ErrCodeInvalidID:     http.StatusBadRequest,
	ErrCodeEmptyGraph:    http.StatusBadRequest,
	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeRateLimited:   http.StatusTooManyRequests,
	ErrCodeUnsupported:   http.StatusServiceUnavailable,
}

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an Error with a formatted message around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// coder is implemented by error types that carry a code without being an
// *Error, such as [RateLimitedError].
type coder interface {
	error
	Code() Code
}

// GetCode returns the first code found in err's chain, or "" if none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}
	return ""
}

// Is reports whether err carries code.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// HTTPStatus returns the response status for err. Uncoded and internal
// errors map to 500.
func HTTPStatus(err error) int {
	if s, ok := statuses[GetCode(err)]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// UserMessage returns err's text without code prefixes, for error panels
// and CLI output.
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + UserMessage(e.Cause)
}

// RateLimitedError is returned when a client exceeds the request budget.
type RateLimitedError struct {
	RetryAfter int // seconds
	Message    string
}

func (e *RateLimitedError) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.RetryAfter > 0:
		return fmt.Sprintf("rate limited: retry after %d seconds", e.RetryAfter)
	}
	return "rate limited"
}

func (e *RateLimitedError) Code() Code { return ErrCodeRateLimited }
