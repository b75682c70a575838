// Package errors defines the stable error code system for bootstrap.
package errors

import (
	"errors"
	"fmt"
	"io"
)

// Code is a stable error code string.
type Code string

// Error codes. The set is a stable public contract: scripts wrapping
// bootstrap may match on these.
const (
	EUsage Code = "E_USAGE"

	// Input validation
	ENameRequired Code = "E_NAME_REQUIRED"
	EInvalidName  Code = "E_INVALID_NAME"

	// Repository / metadata state
	ENoRepo            Code = "E_NO_REPO"
	EGitFailed         Code = "E_GIT_FAILED"
	EPyprojectInvalid  Code = "E_PYPROJECT_INVALID"
	ESectionMissing    Code = "E_SECTION_MISSING"
	ETargetExists      Code = "E_TARGET_EXISTS"
	ECheckpointCorrupt Code = "E_CHECKPOINT_CORRUPT"
	EPersistFailed     Code = "E_PERSIST_FAILED"

	// Downstream failures
	EPromptFailed Code = "E_PROMPT_FAILED"
	EVerifyFailed Code = "E_VERIFY_FAILED"
	EInternal     Code = "E_INTERNAL"
)

// BootstrapError is the standard error type for bootstrap errors.
type BootstrapError struct {
	Code    Code
	Msg     string
	Cause   error
	Details map[string]string // optional structured context
}

// Error returns the stable error format: "CODE: message".
func (e *BootstrapError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *BootstrapError) Unwrap() error {
	return e.Cause
}

// New creates a new BootstrapError with the given code and message.
func New(code Code, msg string) error {
	return &BootstrapError{Code: code, Msg: msg}
}

// NewWithDetails creates a new BootstrapError with code, message, and details.
// Details map is defensively copied (nil if empty).
func NewWithDetails(code Code, msg string, details map[string]string) error {
	return &BootstrapError{Code: code, Msg: msg, Details: copyDetails(details)}
}

// Wrap creates a new BootstrapError wrapping an underlying error.
func Wrap(code Code, msg string, err error) error {
	return &BootstrapError{Code: code, Msg: msg, Cause: err}
}

// WrapWithDetails creates a new BootstrapError wrapping an underlying error with details.
// Details map is defensively copied (nil if empty).
func WrapWithDetails(code Code, msg string, err error, details map[string]string) error {
	return &BootstrapError{Code: code, Msg: msg, Cause: err, Details: copyDetails(details)}
}

// GetCode extracts the error code from an error, or empty string if not a BootstrapError.
func GetCode(err error) Code {
	var be *BootstrapError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

// AsBootstrapError returns (*BootstrapError, true) if err is or wraps a BootstrapError.
func AsBootstrapError(err error) (*BootstrapError, bool) {
	var be *BootstrapError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

// copyDetails returns a defensive copy of the details map, or nil if empty/nil.
func copyDetails(details map[string]string) map[string]string {
	if len(details) == 0 {
		return nil
	}
	cp := make(map[string]string, len(details))
	for k, v := range details {
		cp[k] = v
	}
	return cp
}

// ExitCode returns the appropriate exit code for an error.
// Returns 0 if err is nil, 2 for E_USAGE, 1 for all other errors.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if GetCode(err) == EUsage {
		return 2
	}
	return 1
}

// Print writes the error to w in the stable stderr format:
//
//	error_code: <CODE>
//	<message>
func Print(w io.Writer, err error) {
	if err == nil {
		return
	}
	var be *BootstrapError
	if errors.As(err, &be) {
		fmt.Fprintf(w, "error_code: %s\n", be.Code)
		fmt.Fprintln(w, be.Msg)
	} else {
		// Fallback for non-BootstrapError errors (should not happen in practice)
		fmt.Fprintln(w, err.Error())
	}
}
