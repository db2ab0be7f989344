// Package errors provides structured error types for varbridge.
//
// Every failure that crosses a component boundary (document parsing, import,
// export, command dispatch) carries a machine-readable [Code] so that the
// command layer can turn it into a structured response for the UI without
// inspecting message text.
//
// # Error Codes
//
// The codes mirror the conversion engine's failure taxonomy:
//   - INVALID_DOCUMENT: the portable document has the wrong shape
//   - UNSUPPORTED_VARIABLE_TYPE: a type string outside BOOLEAN/COLOR/FLOAT/STRING/ALIAS
//   - MALFORMED_COLOR_VALUE: a color is not a 6-digit #RRGGBB string
//   - UNKNOWN_COLLECTION, UNKNOWN_VARIABLE, UNKNOWN_MODE: a name did not resolve
//   - CYCLIC_ALIAS_REFERENCE: an alias chain loops back on itself
//   - HOST_MUTATION_FAILURE: the host store rejected a create or set call
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownCollection, "collection %q not found", name)
//	if errors.Is(err, errors.ErrCodeUnknownCollection) {
//	    // Handle missing alias target
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeHostMutation, storeErr, "create variable %q", name)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidDocument  Code = "INVALID_DOCUMENT"
	ErrCodeUnsupportedType  Code = "UNSUPPORTED_VARIABLE_TYPE"
	ErrCodeMalformedColor   Code = "MALFORMED_COLOR_VALUE"
	ErrCodeInvalidName      Code = "INVALID_NAME"
	ErrCodeInvalidWorkspace Code = "INVALID_WORKSPACE"

	// Resolution errors
	ErrCodeNotFound          Code = "NOT_FOUND"
	ErrCodeUnknownCollection Code = "UNKNOWN_COLLECTION"
	ErrCodeUnknownVariable   Code = "UNKNOWN_VARIABLE"
	ErrCodeUnknownMode       Code = "UNKNOWN_MODE"
	ErrCodeCyclicAlias       Code = "CYCLIC_ALIAS_REFERENCE"

	// Host errors
	ErrCodeHostMutation Code = "HOST_MUTATION_FAILURE"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for the outermost *Error and compares
// its code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// Has reports whether any *Error in the chain of err carries code.
// Unlike [Is], it keeps unwrapping past coded errors, so a
// HOST_MUTATION_FAILURE wrapping an UNKNOWN_MODE matches both codes.
func Has(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix, followed
// by the user message of the cause when there is one.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return e.Message + ": " + UserMessage(e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// Annotate wraps err with a context message, keeping the code of err.
// Errors without a code get fallback.
func Annotate(err error, fallback Code, format string, args ...any) *Error {
	code := GetCode(err)
	if code == "" {
		code = fallback
	}
	return Wrap(code, err, format, args...)
}
