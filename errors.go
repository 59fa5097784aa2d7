package prettycolors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error category. The CLI maps each code to its
// own process exit status.
type Code string

const (
	ErrCodeConfig       Code = "INVALID_CONFIG"
	ErrCodeTemplate     Code = "INVALID_TEMPLATE"
	ErrCodeAllocGrid    Code = "ALLOC_GRID"
	ErrCodeAllocPalette Code = "ALLOC_PALETTE"
	ErrCodeAllocMask    Code = "ALLOC_MASK"
	ErrCodeOutput       Code = "OUTPUT"
	ErrCodeInternal     Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
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

func (e *Error) Unwrap() error {
	return e.Cause
}

// Errorf creates an *Error with a formatted message.
func Errorf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrapf creates an *Error that wraps cause.
func Wrapf(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// IsCode reports whether the first *Error in err's chain carries code.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}

// CodeOf returns the code of the first *Error in err's chain, or "" if there is none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
