package shared

import "time"

// AggregateRoot is the entry point of a consistency boundary. All mutation
// goes through its methods; repositories persist it as a whole and the unit
// of work collects the events it recorded.
type AggregateRoot interface {
	// AggregateID returns the globally unique identity as a string, usable
	// before and after persistence assigns numeric keys.
	AggregateID() string

	// Version returns the optimistic-lock version counter.
	Version() int

	// PullEvents returns and clears the recorded domain events.
	PullEvents() []DomainEvent
}

// DomainEvent is a fact recorded by an aggregate. Events are persisted to the
// outbox table in the same transaction as the state change that produced them.
type DomainEvent interface {
	EventName() string
	OccurredOn() time.Time
	AggregateID() string

	// Payload returns the event-specific data serialized into the outbox row.
	Payload() map[string]any
}
