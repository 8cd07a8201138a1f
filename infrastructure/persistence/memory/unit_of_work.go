/*
Package memory provides in-memory implementations of the repositories and the
unit of work. They back the "mock" database type for local development and
serve as fixtures in service-level tests. Semantics mirror the MySQL layer:
optimistic version checks on aggregate saves, events drained into an in-memory
outbox at the end of each unit of work.
*/
package memory

import (
	"context"

	"cafeledger/domain/shared"
)

// UnitOfWork runs the business function without a real transaction but keeps
// the same contract: registered aggregates have their events drained into the
// outbox after fn succeeds.
type UnitOfWork struct {
	outbox     *OutboxRepository
	aggregates []shared.AggregateRoot
}

// NewUnitOfWork creates an in-memory unit of work. outbox may be nil, in
// which case events are dropped.
func NewUnitOfWork(outbox *OutboxRepository) *UnitOfWork {
	return &UnitOfWork{
		outbox:     outbox,
		aggregates: make([]shared.AggregateRoot, 0),
	}
}

// Execute runs fn and drains the registered aggregates' events. There is no
// rollback: repositories only mutate their stores on successful saves, and a
// failing fn leaves earlier writes in place, which is acceptable for the
// development store.
func (u *UnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	u.aggregates = u.aggregates[:0]

	if err := fn(ctx); err != nil {
		return err
	}

	for _, aggregate := range u.aggregates {
		for _, event := range aggregate.PullEvents() {
			if u.outbox != nil {
				if err := u.outbox.SaveEvent(ctx, event); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// RegisterNew registers a newly created aggregate for event draining.
func (u *UnitOfWork) RegisterNew(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

// RegisterDirty registers a modified aggregate for event draining.
func (u *UnitOfWork) RegisterDirty(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

var _ shared.UnitOfWork = (*UnitOfWork)(nil)

// UnitOfWorkFactory produces in-memory units of work sharing one outbox.
type UnitOfWorkFactory struct {
	outbox *OutboxRepository
}

// NewUnitOfWorkFactory creates the factory.
func NewUnitOfWorkFactory(outbox *OutboxRepository) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{outbox: outbox}
}

// New returns a fresh unit of work.
func (f *UnitOfWorkFactory) New() shared.UnitOfWork {
	return NewUnitOfWork(f.outbox)
}

var _ shared.UnitOfWorkFactory = (*UnitOfWorkFactory)(nil)
