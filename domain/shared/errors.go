/*
Package shared holds the building blocks common to every subdomain: the Money
value object, sentinel errors with stack capture, the aggregate root contract
and the unit-of-work abstraction.

Error design:
 1. Subdomains define sentinel errors for errors.Is() checks.
 2. Structured domain errors capture the stack at creation but format it
    lazily, only when a log line actually needs it.
 3. Domain errors carry no transport concepts (no HTTP status codes).
*/
package shared

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// Sentinel errors shared across subdomains. Used with errors.Is(); they carry
// no context on their own.
var (
	// ErrNotFound a referenced entity does not resolve.
	ErrNotFound = errors.New("not found")

	// ErrConflict concurrent modification or unique-constraint violation.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput a request failed validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotAvailable a catalog item or reward is disabled or exhausted.
	ErrNotAvailable = errors.New("not available")
)

// DomainError is a structured business-rule violation carrying the sentinel
// it specializes, the entity it concerns and the stack of its creation site.
type DomainError struct {
	// Err is the underlying sentinel, reachable via errors.Is().
	Err error

	// Entity names the aggregate or record involved ("order", "product", ...).
	Entity string

	// Message is the human-readable description.
	Message string

	// Field optionally names the offending field for validation errors.
	Field string

	stack []uintptr
}

func (e *DomainError) Error() string { return e.Message }

func (e *DomainError) Unwrap() error { return e.Err }

// Stack formats the captured frames on demand.
func (e *DomainError) Stack() []string { return FormatStack(e.stack) }

// CaptureStack records the current call stack. skip is the number of frames
// to drop (usually 3: Callers, CaptureStack, the constructor).
func CaptureStack(skip int) []uintptr {
	var pcs [32]uintptr
	n := runtime.Callers(skip, pcs[:])
	return pcs[:n]
}

// FormatStack renders captured frames, filtering runtime internals and
// keeping at most 10 frames.
func FormatStack(stack []uintptr) []string {
	if len(stack) == 0 {
		return nil
	}
	frames := runtime.CallersFrames(stack)
	var result []string
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			result = append(result, fmt.Sprintf("%s:%d %s", frame.File, frame.Line, frame.Function))
		}
		if !more || len(result) > 10 {
			break
		}
	}
	return result
}

// NewNotFoundError creates a "not found" domain error for an entity.
func NewNotFoundError(entity, message string) error {
	return &DomainError{
		Err:     ErrNotFound,
		Entity:  entity,
		Message: message,
		stack:   CaptureStack(3),
	}
}

// NewConflictError creates a conflict domain error.
func NewConflictError(entity, message string) error {
	return &DomainError{
		Err:     ErrConflict,
		Entity:  entity,
		Message: message,
		stack:   CaptureStack(3),
	}
}

// NewValidationError creates a validation domain error for a field.
func NewValidationError(entity, field, reason string) error {
	return &DomainError{
		Err:     ErrInvalidInput,
		Entity:  entity,
		Field:   field,
		Message: reason,
		stack:   CaptureStack(3),
	}
}

// NewNotAvailableError creates a "not available" domain error.
func NewNotAvailableError(entity, message string) error {
	return &DomainError{
		Err:     ErrNotAvailable,
		Entity:  entity,
		Message: message,
		stack:   CaptureStack(3),
	}
}

// Stacker is implemented by errors that captured their creation stack; the
// API layer uses it to enrich error logs.
type Stacker interface {
	Stack() []string
}
