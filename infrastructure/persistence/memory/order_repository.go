package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"cafeledger/domain/order"
)

// OrderRepository in-memory order store with optimistic version checks, so
// service-level concurrency behavior matches the MySQL layer.
type OrderRepository struct {
	mu     sync.RWMutex
	orders map[int64]*order.Order
	nextID int64
}

// NewOrderRepository creates an empty order store.
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		orders: make(map[int64]*order.Order),
	}
}

// Save inserts or updates the aggregate. Updates are guarded by the stored
// version; a stale aggregate fails with ErrConcurrentModification.
func (r *OrderRepository) Save(_ context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if o.IsNew() {
		r.nextID++
		o.AssignID(r.nextID)
		r.orders[o.ID()] = cloneOrder(o)
		o.ClearNewFlag()
		return nil
	}

	stored, exists := r.orders[o.ID()]
	if !exists {
		return order.NewOrderNotFoundError(o.ID())
	}
	if stored.Version() != o.Version() {
		return order.NewConcurrentModificationError(o.OrderNumber())
	}
	o.IncrementVersionForSave()
	r.orders[o.ID()] = cloneOrder(o)
	return nil
}

// FindByID loads one order.
func (r *OrderRepository) FindByID(_ context.Context, id int64) (*order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, exists := r.orders[id]
	if !exists {
		return nil, order.NewOrderNotFoundError(id)
	}
	return cloneOrder(stored), nil
}

// FindByCustomer lists a customer's orders, newest first.
func (r *OrderRepository) FindByCustomer(_ context.Context, customerID string) ([]*order.Order, error) {
	return r.filter(func(o *order.Order) bool {
		return o.CustomerID() == customerID
	}, newestFirst), nil
}

// FindByStatus lists orders in one status, newest first.
func (r *OrderRepository) FindByStatus(_ context.Context, status order.Status) ([]*order.Order, error) {
	return r.filter(func(o *order.Order) bool {
		return o.Status() == status
	}, newestFirst), nil
}

// FindActive lists orders that still need staff attention, oldest first.
func (r *OrderRepository) FindActive(_ context.Context) ([]*order.Order, error) {
	return r.filter(func(o *order.Order) bool {
		return o.Status().IsActive()
	}, oldestFirst), nil
}

// FindToday lists orders created since local midnight, newest first.
func (r *OrderRepository) FindToday(_ context.Context) ([]*order.Order, error) {
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return r.filter(func(o *order.Order) bool {
		return !o.CreatedAt().Before(midnight)
	}, newestFirst), nil
}

// Delete removes an order.
func (r *OrderRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.orders[id]; !exists {
		return order.NewOrderNotFoundError(id)
	}
	delete(r.orders, id)
	return nil
}

func newestFirst(a, b *order.Order) bool { return a.CreatedAt().After(b.CreatedAt()) }
func oldestFirst(a, b *order.Order) bool { return a.CreatedAt().Before(b.CreatedAt()) }

func (r *OrderRepository) filter(keep func(*order.Order) bool, less func(a, b *order.Order) bool) []*order.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]*order.Order, 0)
	for _, stored := range r.orders {
		if keep(stored) {
			orders = append(orders, cloneOrder(stored))
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		return less(orders[i], orders[j])
	})
	return orders
}

// cloneOrder deep-copies the aggregate through its reconstruction DTOs so the
// store never shares mutable state with callers.
func cloneOrder(o *order.Order) *order.Order {
	items := o.Items()
	cloned := make([]order.LineItem, len(items))
	for i, item := range items {
		cloned[i] = order.RebuildItemFromDTO(order.ItemReconstructionDTO{
			ID:           item.ID(),
			ProductID:    item.ProductID(),
			ProductName:  item.ProductName(),
			Quantity:     item.Quantity(),
			UnitPrice:    item.UnitPrice(),
			Instructions: item.Instructions(),
			Extras:       item.Extras(),
			Subtotal:     item.Subtotal(),
		})
	}
	return order.RebuildFromDTO(order.ReconstructionDTO{
		ID:          o.ID(),
		OrderNumber: o.OrderNumber(),
		CustomerID:  o.CustomerID(),
		Status:      o.Status(),
		Items:       cloned,
		TotalAmount: o.TotalAmount(),
		Notes:       o.Notes(),
		TableNumber: o.TableNumber(),
		Version:     o.Version(),
		CreatedAt:   o.CreatedAt(),
		UpdatedAt:   o.UpdatedAt(),
		ConfirmedAt: o.ConfirmedAt(),
		ReadyAt:     o.ReadyAt(),
		DeliveredAt: o.DeliveredAt(),
	})
}

var _ order.Repository = (*OrderRepository)(nil)
