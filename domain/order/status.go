package order

import "fmt"

// Status is the lifecycle state of an order.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// transitions is the full state machine. A pair absent from this table is an
// illegal transition, including self-transitions. delivered and cancelled are
// terminal.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady, StatusCancelled},
	StatusReady:     {StatusDelivered},
	StatusDelivered: {},
	StatusCancelled: {},
}

// AllStatuses lists every order status in lifecycle order.
func AllStatuses() []Status {
	return []Status{
		StatusPending, StatusConfirmed, StatusPreparing,
		StatusReady, StatusDelivered, StatusCancelled,
	}
}

// ActiveStatuses lists the statuses that still need staff attention, in
// lifecycle order.
func ActiveStatuses() []Status {
	all := AllStatuses()
	active := make([]Status, 0, len(all))
	for _, s := range all {
		if s.IsActive() {
			active = append(active, s)
		}
	}
	return active
}

// ParseStatus validates a raw status string.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if _, ok := transitions[status]; !ok {
		return "", fmt.Errorf("unknown order status %q", s)
	}
	return status, nil
}

// CanTransitionTo consults the transition table.
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// NextStatuses returns the legal successors of s.
func (s Status) NextStatuses() []Status {
	next := make([]Status, len(transitions[s]))
	copy(next, transitions[s])
	return next
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool { return len(transitions[s]) == 0 }

// IsActive reports whether the order still needs staff attention
// (anything before delivery that is not cancelled).
func (s Status) IsActive() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReady:
		return true
	}
	return false
}

func (s Status) String() string { return string(s) }
