// Package errors provides centralized error definitions for the bridge host.
//
// The bridge core is in-memory coordination and almost never fails; the
// errors here cover the outer surfaces: looking up a bridge by ID, opening a
// view while no UI is attached, prompting a bridge with no interaction
// handler, and posting to a dispatcher that was torn down. Programming
// contract violations (for example passing a nil bridge to the manager) are
// not errors; they panic.
//
// # Usage
//
//	err := errors.NewBridgeError("open view", errors.ErrBridgeNotFound).WithBridgeID(id)
//
//	if errors.Is(err, errors.ErrBridgeNotFound) { ... }
//
//	var bridgeErr *errors.BridgeError
//	if errors.As(err, &bridgeErr) { ... }
//
//	if errors.IsUserFacing(err) { ... }
package errors

import (
	"errors"
	"fmt"
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
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
	SeverityCritical
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
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

var (
	// ErrBridgeNotFound indicates that no live bridge has the given ID.
	ErrBridgeNotFound = New("bridge not found")
	// ErrNotAttached indicates that an operation needs an attached UI surface.
	ErrNotAttached = New("no UI surface attached")
	// ErrNoPromptHandler indicates that a bridge has no interaction handler,
	// usually because the UI detached.
	ErrNoPromptHandler = New("no prompt handler attached")
	// ErrDispatcherClosed indicates that the UI dispatcher was torn down.
	ErrDispatcherClosed = New("dispatcher closed")
	// ErrSimulatorRunning indicates that the session simulator was already started.
	ErrSimulatorRunning = New("simulator already running")
)

// -----------------------------------------------------------------------------
// Typed Errors
// -----------------------------------------------------------------------------

// BridgeError wraps a failure that concerns a single bridge.
//
// Example:
//
//	err := errors.NewBridgeError("open view", errors.ErrBridgeNotFound).WithBridgeID("42")
//	fmt.Println(err) // "bridge error [bridge=42]: open view: bridge not found"
type BridgeError struct {
	Op       string
	BridgeID string
	cause    error
	severity Severity
}

// NewBridgeError creates a new BridgeError for the named operation.
func NewBridgeError(op string, cause error) *BridgeError {
	return &BridgeError{
		Op:       op,
		cause:    cause,
		severity: SeverityWarning,
	}
}

// WithBridgeID adds the bridge ID to the error context.
func (e *BridgeError) WithBridgeID(id string) *BridgeError {
	e.BridgeID = id
	return e
}

// WithSeverity sets the error severity.
func (e *BridgeError) WithSeverity(s Severity) *BridgeError {
	e.severity = s
	return e
}

// Error returns the formatted error message.
func (e *BridgeError) Error() string {
	prefix := "bridge error"
	if e.BridgeID != "" {
		prefix = fmt.Sprintf("bridge error [bridge=%s]", e.BridgeID)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Op, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Op)
}

// Unwrap returns the underlying error.
func (e *BridgeError) Unwrap() error {
	return e.cause
}

// Severity returns the error severity.
func (e *BridgeError) Severity() Severity {
	return e.severity
}

// NotFoundError represents a resource that could not be found.
//
// Example:
//
//	err := errors.NewNotFoundError("bridge", "abc123")
//	fmt.Println(err) // "bridge 'abc123' not found"
type NotFoundError struct {
	ResourceType string
	ResourceID   string
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resourceType, resourceID string) *NotFoundError {
	return &NotFoundError{ResourceType: resourceType, ResourceID: resourceID}
}

// Error returns the formatted error message.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' not found", e.ResourceType, e.ResourceID)
}

// Is makes a bridge NotFoundError match ErrBridgeNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrBridgeNotFound && e.ResourceType == "bridge"
}

// -----------------------------------------------------------------------------
// Classification
// -----------------------------------------------------------------------------

// IsUserFacing returns true if the error message is safe to display in the UI
// status line. Typed errors and the package sentinels qualify; anything else
// is treated as internal.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	var bridgeErr *BridgeError
	var notFound *NotFoundError
	if As(err, &bridgeErr) || As(err, &notFound) {
		return true
	}

	for _, sentinel := range []error{ErrBridgeNotFound, ErrNotAttached, ErrNoPromptHandler, ErrDispatcherClosed, ErrSimulatorRunning} {
		if Is(err, sentinel) {
			return true
		}
	}
	return false
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that carry no severity.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	var bridgeErr *BridgeError
	if As(err, &bridgeErr) {
		return bridgeErr.Severity()
	}
	var notFound *NotFoundError
	if As(err, &notFound) {
		return SeverityWarning
	}
	return SeverityError
}

// Wrap wraps an error with additional context message.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
