package order

import (
	"regexp"
	"testing"

	"cafeledger/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLineItem(t *testing.T, productID int64, name string, qty int, priceCents int64, extras []LineExtra) LineItem {
	t.Helper()
	item, err := NewLineItem(productID, name, qty, shared.NewMoney(priceCents, shared.EUR), "", extras)
	require.NoError(t, err)
	return item
}

func TestNewOrderTotalsWithExtras(t *testing.T) {
	// 2 × cappuccino 4.50 + 1 extra shot 0.50 per unit = 2×4.50 + 2×0.50 = 10.00?
	// No: the extra quantity is per line, snapshotted once; subtotal is
	// unit×qty + extra subtotals. One extra shot at 0.50 on a 2-cup line
	// contributes 0.50 to the line subtotal.
	shot, err := NewLineExtra(1, "Extra shot", 1, shared.NewMoney(50, shared.EUR))
	require.NoError(t, err)

	item := mustLineItem(t, 2, "Cappuccino", 2, 450, []LineExtra{shot})
	assert.Equal(t, "9.50", item.Subtotal().String())

	o, err := NewOrder("customer-1", []LineItem{item}, "", "")
	require.NoError(t, err)

	assert.Equal(t, "9.50", o.TotalAmount().String())
	assert.Equal(t, StatusPending, o.Status())
	assert.True(t, o.IsNew())
	assert.Equal(t, 0, o.Version())
}

func TestNewOrderMultipleItems(t *testing.T) {
	a := mustLineItem(t, 1, "Espresso", 2, 250, nil)
	b := mustLineItem(t, 3, "Croissant", 1, 320, nil)

	o, err := NewOrder("customer-1", []LineItem{a, b}, "to go", "12")
	require.NoError(t, err)

	assert.Equal(t, "8.20", o.TotalAmount().String())
	assert.Equal(t, "to go", o.Notes())
	assert.Equal(t, "12", o.TableNumber())
	assert.Len(t, o.Items(), 2)
}

func TestNewOrderValidation(t *testing.T) {
	item := mustLineItem(t, 1, "Espresso", 1, 250, nil)

	_, err := NewOrder("", []LineItem{item}, "", "")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = NewOrder("customer-1", nil, "", "")
	assert.ErrorIs(t, err, ErrEmptyOrderItems)

	_, err = NewLineItem(1, "Espresso", 0, shared.NewMoney(250, shared.EUR), "", nil)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = NewLineExtra(1, "Extra shot", -1, shared.NewMoney(50, shared.EUR))
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestOrderNumberFormat(t *testing.T) {
	item := mustLineItem(t, 1, "Espresso", 1, 250, nil)
	o, err := NewOrder("customer-1", []LineItem{item}, "", "")
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^ORD-\d{8}-[0-9A-F]{8}$`), o.OrderNumber())
}

func TestOrderPlacedEventRecorded(t *testing.T) {
	item := mustLineItem(t, 1, "Espresso", 1, 250, nil)
	o, err := NewOrder("customer-1", []LineItem{item}, "", "")
	require.NoError(t, err)

	events := o.PullEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "order.placed", events[0].EventName())
	assert.Equal(t, o.OrderNumber(), events[0].AggregateID())

	assert.Empty(t, o.PullEvents(), "events are drained once")
}

func TestTransitionToStampsTimestamps(t *testing.T) {
	item := mustLineItem(t, 1, "Espresso", 1, 250, nil)
	o, err := NewOrder("customer-1", []LineItem{item}, "", "")
	require.NoError(t, err)
	o.PullEvents()

	require.NoError(t, o.TransitionTo(StatusConfirmed))
	require.NotNil(t, o.ConfirmedAt())
	assert.Nil(t, o.ReadyAt())

	require.NoError(t, o.TransitionTo(StatusPreparing))
	require.NoError(t, o.TransitionTo(StatusReady))
	require.NotNil(t, o.ReadyAt())

	require.NoError(t, o.TransitionTo(StatusDelivered))
	require.NotNil(t, o.DeliveredAt())

	events := o.PullEvents()
	require.Len(t, events, 4)
	for _, e := range events {
		assert.Equal(t, "order.status_changed", e.EventName())
	}
}

func TestTransitionToRejectsIllegalMove(t *testing.T) {
	item := mustLineItem(t, 1, "Espresso", 1, 250, nil)
	o, err := NewOrder("customer-1", []LineItem{item}, "", "")
	require.NoError(t, err)

	err = o.TransitionTo(StatusDelivered)
	require.ErrorIs(t, err, ErrInvalidStatusTransition)

	var transitionErr *InvalidStatusTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, StatusPending, transitionErr.From)
	assert.Equal(t, StatusDelivered, transitionErr.To)

	// The failed transition left the order untouched.
	assert.Equal(t, StatusPending, o.Status())
	assert.Nil(t, o.DeliveredAt())
}

func TestCancelledIsTerminal(t *testing.T) {
	item := mustLineItem(t, 1, "Espresso", 1, 250, nil)
	o, err := NewOrder("customer-1", []LineItem{item}, "", "")
	require.NoError(t, err)

	require.NoError(t, o.TransitionTo(StatusCancelled))
	assert.ErrorIs(t, o.TransitionTo(StatusConfirmed), ErrInvalidStatusTransition)
}

func TestRebuildFromDTO(t *testing.T) {
	item := mustLineItem(t, 1, "Espresso", 2, 250, nil)
	original, err := NewOrder("customer-1", []LineItem{item}, "", "")
	require.NoError(t, err)
	original.AssignID(7)

	rebuilt := RebuildFromDTO(ReconstructionDTO{
		ID:          original.ID(),
		OrderNumber: original.OrderNumber(),
		CustomerID:  original.CustomerID(),
		Status:      original.Status(),
		Items:       original.Items(),
		TotalAmount: original.TotalAmount(),
		Version:     3,
		CreatedAt:   original.CreatedAt(),
		UpdatedAt:   original.UpdatedAt(),
	})

	assert.Equal(t, int64(7), rebuilt.ID())
	assert.Equal(t, original.OrderNumber(), rebuilt.OrderNumber())
	assert.Equal(t, 3, rebuilt.Version())
	assert.False(t, rebuilt.IsNew())
	assert.True(t, rebuilt.TotalAmount().Equals(original.TotalAmount()))
	assert.Empty(t, rebuilt.PullEvents(), "reconstruction records no events")
}

func TestAssignIDOnlyOnce(t *testing.T) {
	item := mustLineItem(t, 1, "Espresso", 1, 250, nil)
	o, err := NewOrder("customer-1", []LineItem{item}, "", "")
	require.NoError(t, err)

	o.AssignID(5)
	o.AssignID(9)
	assert.Equal(t, int64(5), o.ID())
}
