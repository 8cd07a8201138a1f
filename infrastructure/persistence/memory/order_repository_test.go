package memory

import (
	"context"
	"testing"

	"cafeledger/domain/order"
	"cafeledger/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func placedOrder(t *testing.T) *order.Order {
	t.Helper()
	item, err := order.NewLineItem(1, "Cappuccino", 1, shared.NewMoney(450, shared.EUR), "", nil)
	require.NoError(t, err)
	o, err := order.NewOrder("customer-1", []order.LineItem{item}, "", "")
	require.NoError(t, err)
	return o
}

func TestSaveAssignsIDAndClearsNewFlag(t *testing.T) {
	repo := NewOrderRepository()
	o := placedOrder(t)

	require.NoError(t, repo.Save(context.Background(), o))
	assert.Equal(t, int64(1), o.ID())
	assert.False(t, o.IsNew())

	loaded, err := repo.FindByID(context.Background(), o.ID())
	require.NoError(t, err)
	assert.Equal(t, o.OrderNumber(), loaded.OrderNumber())
	assert.Equal(t, 0, loaded.Version())
}

func TestSaveDetectsConcurrentModification(t *testing.T) {
	repo := NewOrderRepository()
	seed := placedOrder(t)
	require.NoError(t, repo.Save(context.Background(), seed))

	first, err := repo.FindByID(context.Background(), seed.ID())
	require.NoError(t, err)
	second, err := repo.FindByID(context.Background(), seed.ID())
	require.NoError(t, err)

	require.NoError(t, first.TransitionTo(order.StatusConfirmed))
	require.NoError(t, repo.Save(context.Background(), first))

	require.NoError(t, second.TransitionTo(order.StatusCancelled))
	err = repo.Save(context.Background(), second)
	assert.ErrorIs(t, err, order.ErrConcurrentModification, "the second writer holds a stale version")

	stored, err := repo.FindByID(context.Background(), seed.ID())
	require.NoError(t, err)
	assert.Equal(t, order.StatusConfirmed, stored.Status())
	assert.Equal(t, 1, stored.Version())
}

func TestFindByIDReturnsACopy(t *testing.T) {
	repo := NewOrderRepository()
	seed := placedOrder(t)
	require.NoError(t, repo.Save(context.Background(), seed))

	loaded, err := repo.FindByID(context.Background(), seed.ID())
	require.NoError(t, err)
	require.NoError(t, loaded.TransitionTo(order.StatusConfirmed))

	stored, err := repo.FindByID(context.Background(), seed.ID())
	require.NoError(t, err)
	assert.Equal(t, order.StatusPending, stored.Status(), "mutating a loaded aggregate never leaks into the store")
}

func TestDeleteMissingOrder(t *testing.T) {
	repo := NewOrderRepository()

	err := repo.Delete(context.Background(), 99)
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}
