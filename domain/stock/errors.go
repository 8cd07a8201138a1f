package stock

import (
	"errors"
	"fmt"

	"cafeledger/domain/shared"
)

// ErrInsufficientStock is the sentinel for deductions exceeding the tracked
// quantity. Use errors.Is for classification and errors.As with
// *InsufficientStockError for the figures.
var ErrInsufficientStock = errors.New("insufficient stock")

// InsufficientStockError reports a rejected deduction. The requested and
// available quantities are kept as fields so callers and tests can assert on
// them instead of parsing the message.
type InsufficientStockError struct {
	ItemName  string
	Requested int
	Available int
	stack     []uintptr
}

// NewInsufficientStockError builds the rejection for an item by name.
func NewInsufficientStockError(itemName string, requested, available int) error {
	return &InsufficientStockError{
		ItemName:  itemName,
		Requested: requested,
		Available: available,
		stack:     shared.CaptureStack(3),
	}
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: requested %d, available %d",
		e.ItemName, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// Stack implements shared.Stacker.
func (e *InsufficientStockError) Stack() []string { return shared.FormatStack(e.stack) }
