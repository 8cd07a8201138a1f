package order

import "context"

// Repository persists the Order aggregate.
type Repository interface {
	// Save inserts a new order (assigning its numeric id) or updates an
	// existing one guarded by the optimistic-lock version; a stale version
	// fails with ErrConcurrentModification and nothing is written.
	Save(ctx context.Context, o *Order) error

	// FindByID loads the aggregate with its items and extras, or
	// ErrOrderNotFound.
	FindByID(ctx context.Context, id int64) (*Order, error)

	// FindByCustomer lists a customer's orders, newest first.
	FindByCustomer(ctx context.Context, customerID string) ([]*Order, error)

	// FindByStatus lists orders in one status, newest first.
	FindByStatus(ctx context.Context, status Status) ([]*Order, error)

	// FindActive lists orders that still need staff attention
	// (pending, confirmed, preparing, ready), oldest first.
	FindActive(ctx context.Context) ([]*Order, error)

	// FindToday lists orders created since local midnight, newest first.
	FindToday(ctx context.Context) ([]*Order, error)

	// Delete removes an order with its items and extras.
	Delete(ctx context.Context, id int64) error
}
