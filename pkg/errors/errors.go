// Package errors provides coded errors for bntaxonomy.
//
// Codes separate mistakes the user can fix (a bad flag, a missing group
// directory, a malformed configuration) from failures at the tool boundary.
// The CLI prints [UserMessage] and exits with [ExitCode].
//
// # Error Codes
//
//   - INVALID_*: input, configuration and path problems
//   - *_NOT_FOUND: unknown tools or instances
//   - TOOL_*: failures at the collaborator-tool boundary
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidPath, "instance group is not a directory: %s", path)
//	if errors.Is(err, errors.ErrCodeInvalidPath) {
//	    // report and exit
//	}
//
//	err := errors.Wrap(errors.ErrCodeInvalidConfig, origErr, "load %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

const (
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidConfig    Code = "INVALID_CONFIG"
	ErrCodeInvalidPath      Code = "INVALID_PATH"
	ErrCodeInvalidAlgorithm Code = "INVALID_ALGORITHM"

	ErrCodeToolNotFound     Code = "TOOL_NOT_FOUND"
	ErrCodeInstanceNotFound Code = "INSTANCE_NOT_FOUND"

	// Tool errors are per (instance, tool) pair and never abort a run.
	ErrCodeToolFailed Code = "TOOL_FAILED"
	ErrCodeToolOutput Code = "TOOL_OUTPUT"
)

// Exit codes returned by [ExitCode].
const (
	ExitFailure = 1
	ExitUsage   = 2
)

// Error carries a code, a message for the user and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

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

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// ExitCode maps err to a process exit status: [ExitUsage] for problems
// the user can fix in flags, configuration or paths, [ExitFailure]
// otherwise, and 0 for nil.
func ExitCode(err error) int {
	switch GetCode(err) {
	case "":
		if err == nil {
			return 0
		}
		return ExitFailure
	case ErrCodeInvalidInput, ErrCodeInvalidConfig, ErrCodeInvalidPath,
		ErrCodeInvalidAlgorithm, ErrCodeToolNotFound:
		return ExitUsage
	default:
		return ExitFailure
	}
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
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}
