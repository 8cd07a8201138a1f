package shared

import "context"

// UnitOfWork manages the transactional boundary of one business operation.
// Execute runs fn inside a store transaction carried through the context;
// registered aggregates have their events drained into the outbox before
// commit. Implementations retry fn on optimistic-concurrency conflicts, so fn
// must be safe to run more than once.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
	RegisterNew(aggregate AggregateRoot)
	RegisterDirty(aggregate AggregateRoot)
}

// UnitOfWorkFactory produces a fresh UnitOfWork per request. Units of work
// accumulate registered aggregates and must not be shared across operations.
type UnitOfWorkFactory interface {
	New() UnitOfWork
}

// OutboxRepository persists domain events transactionally alongside the state
// change that produced them.
type OutboxRepository interface {
	SaveEvent(ctx context.Context, event DomainEvent) error
}
