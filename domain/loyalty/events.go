package loyalty

import (
	"strconv"
	"time"

	"cafeledger/domain/shared"
)

type baseEvent struct {
	name        string
	aggregateID string
	occurredOn  time.Time
}

func (e baseEvent) EventName() string     { return e.name }
func (e baseEvent) AggregateID() string   { return e.aggregateID }
func (e baseEvent) OccurredOn() time.Time { return e.occurredOn }

// PointsAwardedEvent records a point credit for a delivered order.
type PointsAwardedEvent struct {
	baseEvent
	orderNumber string
	points      int
	balance     int
}

// NewPointsAwardedEvent creates the award event; balance is the post-credit
// balance.
func NewPointsAwardedEvent(customerID, orderNumber string, points, balance int) PointsAwardedEvent {
	return PointsAwardedEvent{
		baseEvent:   baseEvent{name: "loyalty.points_awarded", aggregateID: customerID, occurredOn: time.Now()},
		orderNumber: orderNumber,
		points:      points,
		balance:     balance,
	}
}

func (e PointsAwardedEvent) OrderNumber() string { return e.orderNumber }
func (e PointsAwardedEvent) Points() int         { return e.points }
func (e PointsAwardedEvent) Balance() int        { return e.balance }

// Payload implements shared.DomainEvent.
func (e PointsAwardedEvent) Payload() map[string]any {
	return map[string]any{
		"customer_id":  e.aggregateID,
		"order_number": e.orderNumber,
		"points":       strconv.Itoa(e.points),
		"balance":      strconv.Itoa(e.balance),
	}
}

// TierUpgradedEvent records a purchased tier upgrade.
type TierUpgradedEvent struct {
	baseEvent
	from Tier
	to   Tier
	cost int
}

// NewTierUpgradedEvent creates the upgrade event; cost is the point price
// paid.
func NewTierUpgradedEvent(customerID string, from, to Tier, cost int) TierUpgradedEvent {
	return TierUpgradedEvent{
		baseEvent: baseEvent{name: "loyalty.tier_upgraded", aggregateID: customerID, occurredOn: time.Now()},
		from:      from,
		to:        to,
		cost:      cost,
	}
}

func (e TierUpgradedEvent) From() Tier { return e.from }
func (e TierUpgradedEvent) To() Tier   { return e.to }
func (e TierUpgradedEvent) Cost() int  { return e.cost }

// Payload implements shared.DomainEvent.
func (e TierUpgradedEvent) Payload() map[string]any {
	return map[string]any{
		"customer_id": e.aggregateID,
		"from":        string(e.from),
		"to":          string(e.to),
		"cost":        strconv.Itoa(e.cost),
	}
}

var (
	_ shared.DomainEvent = PointsAwardedEvent{}
	_ shared.DomainEvent = TierUpgradedEvent{}
)
