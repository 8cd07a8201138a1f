package memory

import (
	"context"
	"sync"
	"time"

	"cafeledger/domain/shared"
)

// StoredEvent is one drained domain event, kept with the same envelope fields
// the MySQL outbox persists.
type StoredEvent struct {
	EventName   string
	AggregateID string
	OccurredOn  time.Time
	Payload     map[string]any
}

// OutboxRepository collects drained events in memory.
type OutboxRepository struct {
	mu     sync.Mutex
	events []StoredEvent
}

// NewOutboxRepository creates the in-memory outbox.
func NewOutboxRepository() *OutboxRepository {
	return &OutboxRepository{}
}

// SaveEvent appends one event.
func (r *OutboxRepository) SaveEvent(_ context.Context, event shared.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, StoredEvent{
		EventName:   event.EventName(),
		AggregateID: event.AggregateID(),
		OccurredOn:  event.OccurredOn(),
		Payload:     event.Payload(),
	})
	return nil
}

// Events returns a copy of everything drained so far.
func (r *OutboxRepository) Events() []StoredEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	events := make([]StoredEvent, len(r.events))
	copy(events, r.events)
	return events
}

var _ shared.OutboxRepository = (*OutboxRepository)(nil)
