// Package errors provides the structured errors pkgsmith reports.
//
// Every failure surfaced to the user carries a machine-readable Code, so
// CI jobs can branch on the kind of failure, and optionally a Hint with
// the next command to try. Codes group by prefix:
//   - INVALID_*: input validation failures
//   - *_NOT_FOUND: missing files, commands, or registry entries
//   - BUILD_FAILED, NO_ARTIFACTS, PROCESS_FAILED: build pipeline failures
//   - NETWORK_*, TIMEOUT, RATE_LIMITED: registry lookup failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidManifest, "invalid manifest: %s", path)
//	if errors.Is(err, errors.ErrCodeInvalidManifest) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "failed to fetch %s", url)
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
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidManifest Code = "INVALID_MANIFEST"
	ErrCodeMissingField    Code = "MISSING_FIELD"
	ErrCodeInvalidPackage  Code = "INVALID_PACKAGE"
	ErrCodeInvalidPath     Code = "INVALID_PATH"
	ErrCodeInvalidConfig   Code = "CONFIG_INVALID"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"
	ErrCodeCommandNotFound Code = "COMMAND_NOT_FOUND"

	// Process and build errors
	ErrCodeProcessFailed Code = "PROCESS_FAILED"
	ErrCodeBuildFailed   Code = "BUILD_FAILED"
	ErrCodeNoArtifacts   Code = "NO_ARTIFACTS"

	// Network errors
	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeRateLimited Code = "RATE_LIMITED"

	// Internal errors
	ErrCodeCache       Code = "CACHE_ERROR"
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code, an optional hint for the
// user, and an optional cause.
type Error struct {
	Code    Code
	Message string
	Hint    string
	Cause   error
}

// Error formats as "CODE: message" with the cause appended when present.
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

// WithHint attaches a suggestion to the error and returns it. The hint
// is printed separately from the error message, so it should read as a
// standalone instruction ("pass the PKGBUILD path explicitly").
func (e *Error) WithHint(format string, args ...any) *Error {
	e.Hint = fmt.Sprintf(format, args...)
	return e
}

// New creates an Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates an Error with the given code around an existing cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code. It unwraps the error
// chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error. Returns the empty
// string when no *Error is in the chain.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Hint extracts the suggestion attached to an error, if any.
func Hint(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Hint
	}
	return ""
}

// UserMessage returns the message without the code prefix for *Error
// types, and the plain error string for anything else.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// RateLimitedError reports a registry response that asked us to slow
// down, with the server's Retry-After when it sent one.
type RateLimitedError struct {
	RetryAfter int // Seconds to wait before retrying
	Message    string
}

func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: retry after %d seconds", e.RetryAfter)
	}
	return "rate limited"
}

// Code returns ErrCodeRateLimited.
func (e *RateLimitedError) Code() Code {
	return ErrCodeRateLimited
}
