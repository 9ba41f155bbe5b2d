// Package errors provides the coded errors shared by every dashgrid package.
//
// An [*Error] carries a [Code] next to its message, so callers branch on
// what went wrong without matching strings. The CLI turns codes into exit
// statuses ([ExitCode]) and the HTTP surface into response statuses.
//
// Codes fall into three groups:
//   - INVALID_* and UNKNOWN_KIND: the caller sent something unusable
//   - NOT_FOUND: a dashboard or widget reference does not resolve
//   - STORAGE, UNSUPPORTED, INTERNAL_ERROR: the engine or its backend failed
//
// Usage:
//
//	err := errors.New(errors.ErrCodeInvalidBreakpoint, "unknown breakpoint %q", bp)
//	if errors.Is(err, errors.ErrCodeInvalidBreakpoint) {
//	    ...
//	}
//
//	err = errors.Wrap(errors.ErrCodeStorage, cause, "write snapshot %s", key)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code is a machine-readable error category.
type Code string

const (
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidBreakpoint Code = "INVALID_BREAKPOINT"
	ErrCodeInvalidSize       Code = "INVALID_SIZE"
	ErrCodeInvalidConfig     Code = "INVALID_CONFIG"
	ErrCodeInvalidLayout     Code = "INVALID_LAYOUT"
	ErrCodeUnknownKind       Code = "UNKNOWN_KIND"

	ErrCodeNotFound Code = "NOT_FOUND"

	ErrCodeStorage     Code = "STORAGE"
	ErrCodeUnsupported Code = "UNSUPPORTED"
	ErrCodeInternal    Code = "INTERNAL_ERROR"
)

// Input reports whether c blames the caller rather than the engine.
func (c Code) Input() bool {
	return strings.HasPrefix(string(c), "INVALID_") || c == ErrCodeUnknownKind
}

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an error with the given code that keeps cause in its chain.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the first *Error in err's chain has the given code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode returns the code of the first *Error in err's chain, or "" if
// there is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns err's message without the code prefix.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Exit statuses returned by [ExitCode].
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// ExitCode maps err to a process exit status: 0 for nil, 2 when the
// caller's input was at fault and 1 otherwise.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case GetCode(err).Input():
		return ExitUsage
	default:
		return ExitFailure
	}
}
