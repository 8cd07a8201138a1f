/*
Package order contains the Order aggregate: the consistency boundary around
an order, its line items and their extras. Prices are snapshotted into the
aggregate at creation; the total invariant (total == sum of line subtotals)
is established by the factory and never recomputed from the catalog.

All state changes go through aggregate methods. The status state machine is
the data-driven table in status.go; TransitionTo is the only way to move an
order along it.
*/
package order

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"cafeledger/domain/shared"

	"github.com/google/uuid"
)

// Order is the aggregate root. The numeric id is assigned by the store on
// first save; the order number identifies the aggregate from birth.
type Order struct {
	id          int64
	orderNumber string
	customerID  string
	status      Status
	items       []LineItem
	totalAmount shared.Money
	notes       string
	tableNumber string
	version     int
	createdAt   time.Time
	updatedAt   time.Time
	confirmedAt *time.Time
	readyAt     *time.Time
	deliveredAt *time.Time

	events []shared.DomainEvent
	isNew  bool
}

// LineItem is one product entry within an order. It lives only inside the
// aggregate; external code reads copies through Order.Items().
type LineItem struct {
	id           string
	productID    int64
	productName  string
	quantity     int
	unitPrice    shared.Money
	instructions string
	extras       []LineExtra
	subtotal     shared.Money
}

// LineExtra is an extra selection attached to a line item.
type LineExtra struct {
	extraID   int64
	extraName string
	quantity  int
	unitPrice shared.Money
	subtotal  shared.Money
}

// NewLineExtra builds an extra selection with its price snapshot.
func NewLineExtra(extraID int64, extraName string, quantity int, unitPrice shared.Money) (LineExtra, error) {
	if quantity <= 0 {
		return LineExtra{}, ErrInvalidQuantity
	}
	subtotal, err := unitPrice.MulInt(quantity)
	if err != nil {
		return LineExtra{}, err
	}
	return LineExtra{
		extraID:   extraID,
		extraName: extraName,
		quantity:  quantity,
		unitPrice: unitPrice,
		subtotal:  subtotal,
	}, nil
}

// NewLineItem builds a line item with its price snapshot and extras.
// Subtotal = unit price × quantity + sum of extra subtotals.
func NewLineItem(productID int64, productName string, quantity int, unitPrice shared.Money, instructions string, extras []LineExtra) (LineItem, error) {
	if quantity <= 0 {
		return LineItem{}, ErrInvalidQuantity
	}
	subtotal, err := unitPrice.MulInt(quantity)
	if err != nil {
		return LineItem{}, err
	}
	for _, extra := range extras {
		subtotal, err = subtotal.Add(extra.subtotal)
		if err != nil {
			return LineItem{}, err
		}
	}
	id, err := uuid.NewV7()
	if err != nil {
		return LineItem{}, fmt.Errorf("failed to generate line item id: %w", err)
	}
	item := LineItem{
		id:           id.String(),
		productID:    productID,
		productName:  productName,
		quantity:     quantity,
		unitPrice:    unitPrice,
		instructions: instructions,
		subtotal:     subtotal,
	}
	item.extras = make([]LineExtra, len(extras))
	copy(item.extras, extras)
	return item, nil
}

// NewOrder creates a pending order from assembled line items. This is the
// only construction path for new orders; it establishes the total invariant
// and records the placement event. No stock moves at creation time.
func NewOrder(customerID string, items []LineItem, notes, tableNumber string) (*Order, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, shared.NewValidationError("order", "customerID", "customer reference is required")
	}
	if len(items) == 0 {
		return nil, ErrEmptyOrderItems
	}

	total := shared.NewMoney(0, shared.EUR)
	var err error
	for _, item := range items {
		total, err = total.Add(item.subtotal)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now()
	o := &Order{
		orderNumber: generateOrderNumber(now),
		customerID:  customerID,
		status:      StatusPending,
		items:       items,
		totalAmount: total,
		notes:       notes,
		tableNumber: tableNumber,
		version:     0,
		createdAt:   now,
		updatedAt:   now,
		events:      make([]shared.DomainEvent, 0),
		isNew:       true,
	}
	o.events = append(o.events, NewOrderPlacedEvent(o.orderNumber, customerID, total))
	return o, nil
}

// generateOrderNumber produces the human-readable unique order code,
// e.g. ORD-20260830-3F9A1C07.
func generateOrderNumber(now time.Time) string {
	buf := make([]byte, 4)
	_, _ = rand.Read(buf)
	return "ORD-" + now.Format("20060102") + "-" + strings.ToUpper(hex.EncodeToString(buf))
}

// TransitionTo moves the order along the status state machine, stamping the
// status-specific timestamp and recording the change event. Callers must hold
// the freshly persisted state of the order (the orchestrator re-reads it
// inside the transaction) so the table is checked against current status.
func (o *Order) TransitionTo(newStatus Status) error {
	if !o.status.CanTransitionTo(newStatus) {
		return NewInvalidStatusTransitionError(o.status, newStatus)
	}

	from := o.status
	now := time.Now()
	o.status = newStatus
	o.updatedAt = now

	switch newStatus {
	case StatusConfirmed:
		o.confirmedAt = &now
	case StatusReady:
		o.readyAt = &now
	case StatusDelivered:
		o.deliveredAt = &now
	}

	o.events = append(o.events, NewOrderStatusChangedEvent(o.orderNumber, from, newStatus))
	return nil
}

// ReconstructionDTO rebuilds an Order from the store. Repository use only.
type ReconstructionDTO struct {
	ID          int64
	OrderNumber string
	CustomerID  string
	Status      Status
	Items       []LineItem
	TotalAmount shared.Money
	Notes       string
	TableNumber string
	Version     int
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ConfirmedAt *time.Time
	ReadyAt     *time.Time
	DeliveredAt *time.Time
}

// RebuildFromDTO reconstructs an Order aggregate from persisted state.
func RebuildFromDTO(dto ReconstructionDTO) *Order {
	return &Order{
		id:          dto.ID,
		orderNumber: dto.OrderNumber,
		customerID:  dto.CustomerID,
		status:      dto.Status,
		items:       dto.Items,
		totalAmount: dto.TotalAmount,
		notes:       dto.Notes,
		tableNumber: dto.TableNumber,
		version:     dto.Version,
		createdAt:   dto.CreatedAt,
		updatedAt:   dto.UpdatedAt,
		confirmedAt: dto.ConfirmedAt,
		readyAt:     dto.ReadyAt,
		deliveredAt: dto.DeliveredAt,
		isNew:       false,
	}
}

// ItemReconstructionDTO rebuilds a LineItem from the store.
type ItemReconstructionDTO struct {
	ID           string
	ProductID    int64
	ProductName  string
	Quantity     int
	UnitPrice    shared.Money
	Instructions string
	Extras       []LineExtra
	Subtotal     shared.Money
}

// RebuildItemFromDTO reconstructs a LineItem from persisted state.
func RebuildItemFromDTO(dto ItemReconstructionDTO) LineItem {
	return LineItem{
		id:           dto.ID,
		productID:    dto.ProductID,
		productName:  dto.ProductName,
		quantity:     dto.Quantity,
		unitPrice:    dto.UnitPrice,
		instructions: dto.Instructions,
		extras:       dto.Extras,
		subtotal:     dto.Subtotal,
	}
}

// RebuildExtra reconstructs a LineExtra from persisted state.
func RebuildExtra(extraID int64, extraName string, quantity int, unitPrice, subtotal shared.Money) LineExtra {
	return LineExtra{
		extraID:   extraID,
		extraName: extraName,
		quantity:  quantity,
		unitPrice: unitPrice,
		subtotal:  subtotal,
	}
}

// AssignID stores the numeric identity generated by the store on first save.
// Repository use only; assigning twice is a programming error.
func (o *Order) AssignID(id int64) {
	if o.id == 0 {
		o.id = id
	}
}

// IncrementVersionForSave bumps the optimistic-lock version after a
// successful guarded update. Called by the repository, never by business
// code.
func (o *Order) IncrementVersionForSave() {
	o.version++
	o.isNew = false
}

// ClearNewFlag marks the aggregate as persisted after the first insert.
func (o *Order) ClearNewFlag() { o.isNew = false }

func (o *Order) ID() int64                { return o.id }
func (o *Order) OrderNumber() string      { return o.orderNumber }
func (o *Order) CustomerID() string       { return o.customerID }
func (o *Order) Status() Status           { return o.status }
func (o *Order) TotalAmount() shared.Money { return o.totalAmount }
func (o *Order) Notes() string            { return o.notes }
func (o *Order) TableNumber() string      { return o.tableNumber }
func (o *Order) Version() int             { return o.version }
func (o *Order) CreatedAt() time.Time     { return o.createdAt }
func (o *Order) UpdatedAt() time.Time     { return o.updatedAt }
func (o *Order) IsNew() bool              { return o.isNew }

func (o *Order) ConfirmedAt() *time.Time { return copyTime(o.confirmedAt) }
func (o *Order) ReadyAt() *time.Time     { return copyTime(o.readyAt) }
func (o *Order) DeliveredAt() *time.Time { return copyTime(o.deliveredAt) }

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// AggregateID implements shared.AggregateRoot using the order number, which
// is unique and exists before the store assigns the numeric id.
func (o *Order) AggregateID() string { return o.orderNumber }

// Items returns a copy of the line items; aggregate internals cannot be
// mutated from outside.
func (o *Order) Items() []LineItem {
	items := make([]LineItem, len(o.items))
	copy(items, o.items)
	return items
}

// PullEvents returns and clears the recorded domain events. The unit of work
// calls this once per transaction to fill the outbox.
func (o *Order) PullEvents() []shared.DomainEvent {
	events := make([]shared.DomainEvent, len(o.events))
	copy(events, o.events)
	o.events = o.events[:0]
	return events
}

func (item LineItem) ID() string                 { return item.id }
func (item LineItem) ProductID() int64           { return item.productID }
func (item LineItem) ProductName() string        { return item.productName }
func (item LineItem) Quantity() int              { return item.quantity }
func (item LineItem) UnitPrice() shared.Money    { return item.unitPrice }
func (item LineItem) Instructions() string       { return item.instructions }
func (item LineItem) Subtotal() shared.Money     { return item.subtotal }

// Extras returns a copy of the extra selections.
func (item LineItem) Extras() []LineExtra {
	extras := make([]LineExtra, len(item.extras))
	copy(extras, item.extras)
	return extras
}

func (e LineExtra) ExtraID() int64           { return e.extraID }
func (e LineExtra) ExtraName() string        { return e.extraName }
func (e LineExtra) Quantity() int            { return e.quantity }
func (e LineExtra) UnitPrice() shared.Money  { return e.unitPrice }
func (e LineExtra) Subtotal() shared.Money   { return e.subtotal }

var _ shared.AggregateRoot = (*Order)(nil)
