package apierrors

import (
	"errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// AssemblyLoadFailed indicates an API surface could not be loaded
	AssemblyLoadFailed ErrorCode = "ASSEMBLY_LOAD_FAILED"
	// ConfigInvalid indicates the configuration could not be loaded or validated
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// ComparisonFailed indicates the comparison itself failed fatally
	ComparisonFailed ErrorCode = "COMPARISON_FAILED"
	// SnapshotNotFound indicates a snapshot reference did not resolve
	SnapshotNotFound ErrorCode = "SNAPSHOT_NOT_FOUND"
	// InvalidInput indicates a precondition violation by the caller
	InvalidInput ErrorCode = "INVALID_INPUT"
	// InternalError indicates an unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// Process exit codes owned by the CLI layer
const (
	// ExitOK means the comparison completed with no breaking changes
	ExitOK = 0
	// ExitBreakingChanges means the comparison found breaking changes
	ExitBreakingChanges = 1
	// ExitComparisonError means loading or comparing failed
	ExitComparisonError = 2
	// ExitConfigError means the configuration was invalid
	ExitConfigError = 3
)

// DiffError is an error with a stable code for exit-code mapping
type DiffError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	cause   error
}

// New creates a new DiffError
func New(code ErrorCode, message string, cause error) *DiffError {
	return &DiffError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Errorf creates a new DiffError with a formatted message
func Errorf(code ErrorCode, format string, args ...interface{}) *DiffError {
	return &DiffError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface
func (e *DiffError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DiffError) Unwrap() error {
	return e.cause
}

// CodeOf extracts the error code from an error chain, or InternalError
func CodeOf(err error) ErrorCode {
	var de *DiffError
	if errors.As(err, &de) {
		return de.Code
	}
	return InternalError
}

// ExitCode maps an error to the process exit code the CLI should use
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	switch CodeOf(err) {
	case ConfigInvalid:
		return ExitConfigError
	default:
		return ExitComparisonError
	}
}
