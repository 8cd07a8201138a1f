package order

import (
	"time"

	"cafeledger/domain/shared"
)

// baseEvent carries the fields every order event shares.
type baseEvent struct {
	name        string
	aggregateID string
	occurredOn  time.Time
}

func (e baseEvent) EventName() string     { return e.name }
func (e baseEvent) AggregateID() string   { return e.aggregateID }
func (e baseEvent) OccurredOn() time.Time { return e.occurredOn }

// OrderPlacedEvent records the creation of a pending order.
type OrderPlacedEvent struct {
	baseEvent
	customerID  string
	totalAmount shared.Money
}

// NewOrderPlacedEvent creates the placement event for an order number.
func NewOrderPlacedEvent(orderNumber, customerID string, totalAmount shared.Money) OrderPlacedEvent {
	return OrderPlacedEvent{
		baseEvent:   baseEvent{name: "order.placed", aggregateID: orderNumber, occurredOn: time.Now()},
		customerID:  customerID,
		totalAmount: totalAmount,
	}
}

func (e OrderPlacedEvent) CustomerID() string         { return e.customerID }
func (e OrderPlacedEvent) TotalAmount() shared.Money  { return e.totalAmount }

// Payload implements shared.DomainEvent.
func (e OrderPlacedEvent) Payload() map[string]any {
	return map[string]any{
		"order_number": e.aggregateID,
		"customer_id":  e.customerID,
		"total_amount": e.totalAmount.String(),
	}
}

// OrderStatusChangedEvent records one transition of the status state machine.
type OrderStatusChangedEvent struct {
	baseEvent
	from Status
	to   Status
}

// NewOrderStatusChangedEvent creates the transition event.
func NewOrderStatusChangedEvent(orderNumber string, from, to Status) OrderStatusChangedEvent {
	return OrderStatusChangedEvent{
		baseEvent: baseEvent{name: "order.status_changed", aggregateID: orderNumber, occurredOn: time.Now()},
		from:      from,
		to:        to,
	}
}

func (e OrderStatusChangedEvent) From() Status { return e.from }
func (e OrderStatusChangedEvent) To() Status   { return e.to }

// Payload implements shared.DomainEvent.
func (e OrderStatusChangedEvent) Payload() map[string]any {
	return map[string]any{
		"order_number": e.aggregateID,
		"from":         string(e.from),
		"to":           string(e.to),
	}
}

var (
	_ shared.DomainEvent = OrderPlacedEvent{}
	_ shared.DomainEvent = OrderStatusChangedEvent{}
)
