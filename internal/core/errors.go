// internal/core/errors.go
package core

import (
	"errors"
	"fmt"
)

// Error represents a structured error with code and optional cause.
type Error struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is matching by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WrapError creates a new error with the same code but with a cause.
func WrapError(base *Error, cause error) *Error {
	return &Error{
		Code:    base.Code,
		Message: base.Message,
		Cause:   cause,
	}
}

// Errorf wraps base with a formatted cause.
func Errorf(base *Error, format string, args ...any) *Error {
	return WrapError(base, fmt.Errorf(format, args...))
}

// Predefined errors
var (
	// Input errors
	ErrMissingColumn       = &Error{Code: "MISSING_COLUMN", Message: "required price column missing"}
	ErrEmptySeries         = &Error{Code: "EMPTY_SERIES", Message: "price series is empty"}
	ErrUnorderedSeries     = &Error{Code: "UNORDERED_SERIES", Message: "price series dates must be strictly increasing"}
	ErrInvalidInput        = &Error{Code: "INVALID_INPUT", Message: "price series value could not be parsed"}
	ErrUnsupportedStrategy = &Error{Code: "UNSUPPORTED_STRATEGY", Message: "strategy is not supported"}
	ErrInvalidParams       = &Error{Code: "INVALID_PARAMS", Message: "invalid strategy parameters"}

	// Result errors
	ErrNoTrades     = &Error{Code: "NO_TRADES", Message: "no completed trades to aggregate"}
	ErrInvalidTrade = &Error{Code: "INVALID_TRADE", Message: "trade has a non-positive buy price"}

	// Storage errors
	ErrResultExists = &Error{Code: "RESULT_EXISTS", Message: "result already recorded"}
	ErrNotFound     = &Error{Code: "NOT_FOUND", Message: "record not found"}

	// Config errors
	ErrConfigInvalid = &Error{Code: "CONFIG_INVALID", Message: "configuration invalid"}
	ErrConfigMissing = &Error{Code: "CONFIG_MISSING", Message: "required configuration missing"}
)

var inputErrors = []*Error{
	ErrMissingColumn,
	ErrEmptySeries,
	ErrUnorderedSeries,
	ErrInvalidInput,
	ErrUnsupportedStrategy,
	ErrInvalidParams,
}

// IsInputError reports whether err is caused by bad caller input.
// Input errors are never retried.
func IsInputError(err error) bool {
	for _, base := range inputErrors {
		if errors.Is(err, base) {
			return true
		}
	}
	return false
}
