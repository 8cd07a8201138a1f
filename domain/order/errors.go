package order

import (
	"errors"
	"fmt"

	"cafeledger/domain/shared"
)

// Sentinel errors of the order subdomain, for errors.Is checks.
var (
	// ErrOrderNotFound the order id does not resolve.
	ErrOrderNotFound = errors.New("order not found")

	// ErrConcurrentModification the order was modified by another
	// transaction between read and write; the unit of work retries on it.
	ErrConcurrentModification = errors.New("order was modified by another transaction")

	// ErrInvalidStatusTransition the requested transition is not in the
	// state table.
	ErrInvalidStatusTransition = errors.New("invalid order status transition")

	// ErrEmptyOrderItems an order needs at least one line item.
	ErrEmptyOrderItems = errors.New("order must have at least one item")

	// ErrInvalidQuantity line item and extra quantities must be positive.
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

// NewOrderNotFoundError creates an order-not-found error with stack.
func NewOrderNotFoundError(orderID int64) error {
	return &orderError{
		sentinel: ErrOrderNotFound,
		message:  fmt.Sprintf("order %d not found", orderID),
		stack:    shared.CaptureStack(3),
	}
}

// NewConcurrentModificationError creates an optimistic-lock conflict error.
func NewConcurrentModificationError(orderNumber string) error {
	return &orderError{
		sentinel: ErrConcurrentModification,
		message:  fmt.Sprintf("order %s was modified by another transaction, please retry", orderNumber),
		stack:    shared.CaptureStack(3),
	}
}

// InvalidStatusTransitionError reports a transition rejected by the state
// table, carrying both endpoints for callers and tests.
type InvalidStatusTransitionError struct {
	From  Status
	To    Status
	stack []uintptr
}

// NewInvalidStatusTransitionError creates the rejection for a (from, to) pair.
func NewInvalidStatusTransitionError(from, to Status) error {
	return &InvalidStatusTransitionError{From: from, To: to, stack: shared.CaptureStack(3)}
}

func (e *InvalidStatusTransitionError) Error() string {
	return fmt.Sprintf("cannot transition order from %s to %s", e.From, e.To)
}

func (e *InvalidStatusTransitionError) Unwrap() error { return ErrInvalidStatusTransition }

// Stack implements shared.Stacker.
func (e *InvalidStatusTransitionError) Stack() []string { return shared.FormatStack(e.stack) }

// orderError is the shared shape of order domain errors: a sentinel for
// classification, a message with context, and the creation-site stack.
type orderError struct {
	sentinel error
	message  string
	stack    []uintptr
}

func (e *orderError) Error() string   { return e.message }
func (e *orderError) Unwrap() error   { return e.sentinel }
func (e *orderError) Stack() []string { return shared.FormatStack(e.stack) }
