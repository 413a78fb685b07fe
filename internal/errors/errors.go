// Package errors defines the error taxonomy for rigctl.
package errors

import (
	"errors"
	"fmt"
)

// Exit codes for rigctl
const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitConfigError  = 6
)

// Kind classifies an error within the reconciliation taxonomy.
type Kind string

const (
	KindConfig Kind = "config" // fatal: aborts the run
	KindProbe  Kind = "probe"  // best-effort: defaulted, never fatal
	KindPlan   Kind = "plan"   // domain-local: plan empty/partial, run continues
	KindApply  Kind = "apply"  // change-local: remaining changes still attempt
	KindSecret Kind = "secret" // vault failure: identity falls back to manual path
)

// RigError is the base error type for rigctl
type RigError struct {
	Code    int
	Kind    Kind
	Message string
	Cause   error
}

func (e *RigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *RigError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the exit code for this error
func (e *RigError) ExitCode() int {
	return e.Code
}

// New creates a new RigError
func New(code int, kind Kind, message string) *RigError {
	return &RigError{
		Code:    code,
		Kind:    kind,
		Message: message,
	}
}

// Wrap wraps an existing error with a RigError
func Wrap(code int, kind Kind, message string, cause error) *RigError {
	return &RigError{
		Code:    code,
		Kind:    kind,
		Message: message,
		Cause:   cause,
	}
}

// Common error constructors

// ConfigNotFound returns an error for a missing configuration file
func ConfigNotFound(path string, cause error) *RigError {
	return Wrap(ExitConfigError, KindConfig, fmt.Sprintf("configuration file not found: %s", path), cause)
}

// ConfigParse returns an error for malformed configuration
func ConfigParse(path string, cause error) *RigError {
	return Wrap(ExitConfigError, KindConfig, fmt.Sprintf("failed to parse configuration: %s", path), cause)
}

// ConfigInvalid returns an error for configuration that fails validation
func ConfigInvalid(message string, cause error) *RigError {
	return Wrap(ExitConfigError, KindConfig, message, cause)
}

// ProbeFailed returns an error for a failed state probe.
// Probe errors are logged and defaulted, never propagated to the operator.
func ProbeFailed(probe string, cause error) *RigError {
	return Wrap(ExitGeneralError, KindProbe, fmt.Sprintf("probe %s failed", probe), cause)
}

// PlanFailed returns an error for a domain (or step) that cannot be planned
func PlanFailed(step string, message string) *RigError {
	return New(ExitGeneralError, KindPlan, fmt.Sprintf("%s: %s", step, message))
}

// ApplyFailed returns an error for a change that failed to apply
func ApplyFailed(change string, cause error) *RigError {
	return Wrap(ExitGeneralError, KindApply, fmt.Sprintf("failed to apply: %s", change), cause)
}

// SecretNotFound returns an error for a vault item that could not be resolved
func SecretNotFound(item, field string) *RigError {
	return New(ExitGeneralError, KindSecret, fmt.Sprintf("secret not found: %s/%s", item, field))
}

// SecretUnavailable returns an error when the vault is unauthenticated
func SecretUnavailable(cause error) *RigError {
	return Wrap(ExitGeneralError, KindSecret, "secrets vault unavailable", cause)
}

// ValidationError returns an error for input validation failures
func ValidationError(message string) *RigError {
	return New(ExitGeneralError, KindConfig, message)
}

// GetExitCode extracts the exit code from an error
func GetExitCode(err error) int {
	var rigErr *RigError
	if errors.As(err, &rigErr) {
		return rigErr.ExitCode()
	}
	return ExitGeneralError
}

// KindOf returns the taxonomy kind of an error, or "" for foreign errors.
func KindOf(err error) Kind {
	var rigErr *RigError
	if errors.As(err, &rigErr) {
		return rigErr.Kind
	}
	return ""
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
