// Package errors provides centralized error definitions and error handling
// utilities for the Salus client. It defines domain-specific errors, semantic
// error types, error constructors with context wrapping, and classification
// helpers.
//
// The package provides two categories of errors:
//
// Domain-specific errors represent errors from specific subsystems:
//   - APIError: errors from backend HTTP endpoints
//   - IntakeError: errors from the conversational intake flow
//   - CapabilityError: a platform capability (passkey, voice) is unavailable
//
// Semantic errors represent common error conditions:
//   - NotFoundError: resource not found
//   - ValidationError: invalid input or state
//
// Checking errors:
//
//	if errors.Is(err, errors.ErrProfileNotFound) { ... }
//
//	var apiErr *errors.APIError
//	if errors.As(err, &apiErr) { ... }
//
//	if errors.IsRetryable(err) { ... }
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Profile and session sentinel errors
var (
	// ErrProfileNotFound indicates the backend has no stored profile for the user.
	ErrProfileNotFound = New("profile not found")
	// ErrProfileIncomplete indicates a required profile field is missing.
	ErrProfileIncomplete = New("profile incomplete")
	// ErrAnalysisNotSettled indicates results were requested before the analysis finished.
	ErrAnalysisNotSettled = New("analysis not settled")
	// ErrIllegalTransition indicates a view transition outside the legal table.
	ErrIllegalTransition = New("illegal view transition")
)

// Intake sentinel errors
var (
	// ErrNoDocument indicates a chat turn was attempted before any upload.
	ErrNoDocument = New("no document uploaded")
	// ErrDocumentPresent indicates a second upload was attempted in one session.
	ErrDocumentPresent = New("document already uploaded")
	// ErrEmptyMessage indicates an empty or whitespace-only chat message.
	ErrEmptyMessage = New("empty message")
	// ErrRequestInFlight indicates a chat turn is still awaiting its reply.
	ErrRequestInFlight = New("request in flight")
)

// General sentinel errors
var (
	// ErrTimeout indicates that an operation timed out.
	ErrTimeout = New("operation timed out")
	// ErrCanceled indicates that an operation was canceled.
	ErrCanceled = New("operation canceled")
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
)

// -----------------------------------------------------------------------------
// Base Error Implementation
// -----------------------------------------------------------------------------

// SalusError is the base interface for all Salus errors. It extends the
// standard error interface with classification methods.
type SalusError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsRetryable returns true if the error is transient and the operation
	// may succeed on retry.
	IsRetryable() bool

	// IsUserFacing returns true if the error message is safe to display
	// to end users.
	IsUserFacing() bool
}

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	retryable  bool
	userFacing bool
}

func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *baseError) Unwrap() error { return e.cause }

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

func (e *baseError) Severity() Severity { return e.severity }
func (e *baseError) IsRetryable() bool  { return e.retryable }
func (e *baseError) IsUserFacing() bool { return e.userFacing }

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// APIError represents a failure talking to a backend HTTP endpoint.
//
// Example:
//
//	err := errors.NewAPIError("analyze request failed", cause).
//		WithEndpoint("/api/analyze").WithStatus(502)
type APIError struct {
	baseError
	Endpoint string
	Status   int
}

// NewAPIError creates a new APIError. API failures are retryable by default:
// the session continues and the user may simply try again.
func NewAPIError(message string, cause error) *APIError {
	return &APIError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityWarning,
			retryable:  true,
			userFacing: true,
		},
	}
}

// WithEndpoint records the endpoint path the request was sent to.
func (e *APIError) WithEndpoint(endpoint string) *APIError {
	e.Endpoint = endpoint
	return e
}

// WithStatus records the HTTP status code of the response. Client errors
// (4xx) other than 429 are marked non-retryable; repeating the same request
// cannot help.
func (e *APIError) WithStatus(status int) *APIError {
	e.Status = status
	if status >= http.StatusBadRequest && status < http.StatusInternalServerError &&
		status != http.StatusTooManyRequests {
		e.retryable = false
	}
	return e
}

// Error returns the formatted error message.
func (e *APIError) Error() string {
	var parts []string
	if e.Endpoint != "" {
		parts = append(parts, fmt.Sprintf("endpoint=%s", e.Endpoint))
	}
	if e.Status != 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.Status))
	}

	prefix := "api error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("api error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *APIError) Is(target error) bool {
	if _, ok := target.(*APIError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// IntakeError represents errors from the conversational intake flow.
type IntakeError struct {
	baseError
	PolicyID string
}

// NewIntakeError creates a new IntakeError.
func NewIntakeError(message string, cause error) *IntakeError {
	return &IntakeError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
	}
}

// WithPolicyID adds the session policy id to the error context.
func (e *IntakeError) WithPolicyID(id string) *IntakeError {
	e.PolicyID = id
	return e
}

// Error returns the formatted error message.
func (e *IntakeError) Error() string {
	prefix := "intake error"
	if e.PolicyID != "" {
		prefix = fmt.Sprintf("intake error [policy=%s]", e.PolicyID)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *IntakeError) Is(target error) bool {
	if _, ok := target.(*IntakeError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// CapabilityError indicates a platform capability is unavailable. These are
// informational: the flow degrades to an alternate path instead of failing.
type CapabilityError struct {
	baseError
	Capability string
}

// NewCapabilityError creates a new CapabilityError for the named capability
// ("passkey", "voice", ...).
func NewCapabilityError(capability string, cause error) *CapabilityError {
	return &CapabilityError{
		baseError: baseError{
			message:    fmt.Sprintf("capability %q unavailable", capability),
			cause:      cause,
			severity:   SeverityInfo,
			retryable:  false,
			userFacing: true,
		},
		Capability: capability,
	}
}

// Is checks if this error matches the target.
func (e *CapabilityError) Is(target error) bool {
	if _, ok := target.(*CapabilityError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// NotFoundError indicates that a resource could not be found.
type NotFoundError struct {
	baseError
	Resource string
	ID       string
}

// NewNotFoundError creates a new NotFoundError for the given resource and id.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{
			message:    fmt.Sprintf("%s %q not found", resource, id),
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
		Resource: resource,
		ID:       id,
	}
}

// Is checks if this error matches the target.
func (e *NotFoundError) Is(target error) bool {
	if _, ok := target.(*NotFoundError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// ValidationError indicates that user input failed validation.
type ValidationError struct {
	baseError
	Field string
}

// NewValidationError creates a new ValidationError for the given field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			cause:      ErrInvalidInput,
			severity:   SeverityInfo,
			retryable:  false,
			userFacing: true,
		},
		Field: field,
	}
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error [field=%s]: %s", e.Field, e.message)
	}
	return fmt.Sprintf("validation error: %s", e.message)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Classification Helpers
// -----------------------------------------------------------------------------

// IsRetryable reports whether the error is transient and the operation may
// succeed on retry. Unknown error types are treated as non-retryable.
func IsRetryable(err error) bool {
	var se SalusError
	if errors.As(err, &se) {
		return se.IsRetryable()
	}
	return false
}

// IsUserFacing reports whether the error message is safe to show users.
// Unknown error types are treated as internal.
func IsUserFacing(err error) bool {
	var se SalusError
	if errors.As(err, &se) {
		return se.IsUserFacing()
	}
	return false
}

// SeverityOf returns the severity of the error, or SeverityError for
// unknown error types.
func SeverityOf(err error) Severity {
	var se SalusError
	if errors.As(err, &se) {
		return se.Severity()
	}
	return SeverityError
}
