package order

import (
	"context"
	"testing"
	"time"

	loyaltyapp "cafeledger/application/loyalty"
	"cafeledger/domain/catalog"
	"cafeledger/domain/loyalty"
	domainorder "cafeledger/domain/order"
	"cafeledger/domain/shared"
	"cafeledger/domain/stock"
	"cafeledger/infrastructure/persistence/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	service      *Service
	orders       *memory.OrderRepository
	products     *memory.ProductRepository
	extras       *memory.ExtraRepository
	accounts     *memory.AccountRepository
	transactions *memory.TransactionRepository
	outbox       *memory.OutboxRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	now := time.Now()
	intp := func(v int) *int { return &v }

	products := memory.NewProductRepository()
	products.Seed([]catalog.ProductDTO{
		{
			ID: 1, Name: "Cappuccino", Category: "coffee",
			Price: shared.NewMoney(450, shared.EUR), Available: true,
			StockQuantity: intp(10), LowStockThreshold: 2,
			CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: 2, Name: "Espresso", Category: "coffee",
			Price: shared.NewMoney(250, shared.EUR), Available: true,
			StockQuantity: nil, LowStockThreshold: 10,
			CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: 3, Name: "Day-old scone", Category: "bakery",
			Price: shared.NewMoney(100, shared.EUR), Available: false,
			StockQuantity: intp(5), LowStockThreshold: 1,
			CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: 4, Name: "Croissant", Category: "bakery",
			Price: shared.NewMoney(320, shared.EUR), Available: true,
			StockQuantity: intp(5), LowStockThreshold: 1,
			CreatedAt: now, UpdatedAt: now,
		},
	})

	extras := memory.NewExtraRepository()
	extras.Seed([]catalog.ExtraDTO{
		{
			ID: 1, Name: "Extra shot",
			Price: shared.NewMoney(50, shared.EUR), Available: true,
			StockQuantity: 10, LowStockThreshold: 2,
			CreatedAt: now, UpdatedAt: now,
		},
	})

	links := memory.NewProductExtraRepository()
	links.Seed(1, 1, 3) // extra shots allowed on cappuccino, max 3 per line

	orders := memory.NewOrderRepository()
	accounts := memory.NewAccountRepository()
	transactions := memory.NewTransactionRepository()
	rewards := memory.NewRewardRepository()
	outbox := memory.NewOutboxRepository()
	uowFactory := memory.NewUnitOfWorkFactory(outbox)

	ledger := stock.NewLedger(products, extras)
	loyaltyService := loyaltyapp.NewService(accounts, transactions, rewards, uowFactory, zap.NewNop())
	service := NewService(orders, products, extras, links, ledger, loyaltyService, uowFactory, zap.NewNop())

	return &fixture{
		service:      service,
		orders:       orders,
		products:     products,
		extras:       extras,
		accounts:     accounts,
		transactions: transactions,
		outbox:       outbox,
	}
}

func (f *fixture) productStock(t *testing.T, id int64) *int {
	t.Helper()
	product, err := f.products.FindByID(context.Background(), id)
	require.NoError(t, err)
	return product.StockQuantity()
}

func (f *fixture) extraStock(t *testing.T, id int64) int {
	t.Helper()
	extra, err := f.extras.FindByID(context.Background(), id)
	require.NoError(t, err)
	return extra.StockQuantity()
}

func (f *fixture) placeOrder(t *testing.T, cmd CreateOrderCommand) *OrderResult {
	t.Helper()
	result, err := f.service.CreateOrder(context.Background(), cmd)
	require.NoError(t, err)
	return result
}

func cappuccinoOrder(qty, shots int) CreateOrderCommand {
	item := CreateOrderItem{ProductID: 1, Quantity: qty}
	if shots > 0 {
		item.Extras = []CreateOrderExtra{{ExtraID: 1, Quantity: shots}}
	}
	return CreateOrderCommand{
		CustomerID: "customer-1",
		Items:      []CreateOrderItem{item},
	}
}

func TestCreateOrderSnapshotsPricesAndTotals(t *testing.T) {
	f := newFixture(t)

	result := f.placeOrder(t, cappuccinoOrder(2, 1))

	assert.Equal(t, "pending", result.Status)
	assert.Equal(t, "9.50", result.TotalAmount)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "4.50", result.Items[0].UnitPrice)
	assert.Equal(t, "9.50", result.Items[0].Subtotal)
	require.Len(t, result.Items[0].Extras, 1)
	assert.Equal(t, "0.50", result.Items[0].Extras[0].UnitPrice)

	// Placement never moves stock.
	require.NotNil(t, f.productStock(t, 1))
	assert.Equal(t, 10, *f.productStock(t, 1))
	assert.Equal(t, 10, f.extraStock(t, 1))
}

func TestCreateOrderRejectsUnavailableProduct(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.CreateOrder(context.Background(), CreateOrderCommand{
		CustomerID: "customer-1",
		Items:      []CreateOrderItem{{ProductID: 3, Quantity: 1}},
	})
	assert.ErrorIs(t, err, shared.ErrNotAvailable)
}

func TestCreateOrderRejectsUnlistedExtra(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.CreateOrder(context.Background(), CreateOrderCommand{
		CustomerID: "customer-1",
		Items: []CreateOrderItem{{
			ProductID: 2, Quantity: 1,
			Extras: []CreateOrderExtra{{ExtraID: 1, Quantity: 1}},
		}},
	})
	assert.ErrorIs(t, err, shared.ErrInvalidInput, "extra shots are not listed for espresso")
}

func TestCreateOrderEnforcesExtraCap(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.CreateOrder(context.Background(), cappuccinoOrder(1, 4))
	assert.ErrorIs(t, err, shared.ErrInvalidInput, "cap is 3 shots per line")
}

func TestCreateOrderInsufficientStockPersistsNothing(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.CreateOrder(context.Background(), cappuccinoOrder(11, 0))
	require.ErrorIs(t, err, stock.ErrInsufficientStock)

	var stockErr *stock.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 11, stockErr.Requested)
	assert.Equal(t, 10, stockErr.Available)

	today, listErr := f.service.ListToday(context.Background())
	require.NoError(t, listErr)
	assert.Empty(t, today, "the rejected order was not persisted")
	assert.Equal(t, 10, *f.productStock(t, 1))
}

func TestCreateOrderChecksExtraStockPerUnit(t *testing.T) {
	f := newFixture(t)

	// 4 cups × 3 shots = 12 shots needed, only 10 in stock.
	_, err := f.service.CreateOrder(context.Background(), cappuccinoOrder(4, 3))
	require.ErrorIs(t, err, stock.ErrInsufficientStock)

	var stockErr *stock.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Extra shot", stockErr.ItemName)
	assert.Equal(t, 12, stockErr.Requested)
}

func TestConfirmDeductsStock(t *testing.T) {
	f := newFixture(t)
	created := f.placeOrder(t, cappuccinoOrder(4, 1))

	result, err := f.service.UpdateOrderStatus(context.Background(), created.ID, domainorder.StatusConfirmed)
	require.NoError(t, err)

	assert.Equal(t, "confirmed", result.Status)
	require.NotNil(t, result.ConfirmedAt)
	assert.Equal(t, 6, *f.productStock(t, 1))
	assert.Equal(t, 6, f.extraStock(t, 1), "extras deduct per unit of the line item")
}

func TestCancelAfterConfirmRestoresStock(t *testing.T) {
	f := newFixture(t)
	created := f.placeOrder(t, cappuccinoOrder(4, 1))

	_, err := f.service.UpdateOrderStatus(context.Background(), created.ID, domainorder.StatusConfirmed)
	require.NoError(t, err)
	require.Equal(t, 6, *f.productStock(t, 1))

	result, err := f.service.CancelOrder(context.Background(), created.ID)
	require.NoError(t, err)

	assert.Equal(t, "cancelled", result.Status)
	assert.Equal(t, 10, *f.productStock(t, 1))
	assert.Equal(t, 10, f.extraStock(t, 1))
}

func TestCancelPendingLeavesStockAlone(t *testing.T) {
	f := newFixture(t)
	created := f.placeOrder(t, cappuccinoOrder(4, 0))

	_, err := f.service.CancelOrder(context.Background(), created.ID)
	require.NoError(t, err)

	assert.Equal(t, 10, *f.productStock(t, 1), "pending orders never touched the counters")
}

func TestDeliveryAwardsLoyaltyPoints(t *testing.T) {
	f := newFixture(t)
	created := f.placeOrder(t, cappuccinoOrder(2, 1)) // total 9.50

	for _, status := range []domainorder.Status{
		domainorder.StatusConfirmed,
		domainorder.StatusPreparing,
		domainorder.StatusReady,
		domainorder.StatusDelivered,
	} {
		_, err := f.service.UpdateOrderStatus(context.Background(), created.ID, status)
		require.NoError(t, err)
	}

	account, err := f.accounts.FindByCustomer(context.Background(), "customer-1")
	require.NoError(t, err)
	assert.Equal(t, 9, account.Points(), "9.50 at bronze floors to 9 points")
	assert.Equal(t, loyalty.TierBronze, account.Tier())

	history, err := f.transactions.FindByAccount(context.Background(), account.ID(), 10)
	require.NoError(t, err)
	require.Len(t, history, 1, "exactly one earn entry per delivery")
	assert.Equal(t, loyalty.TransactionEarn, history[0].Type())
	assert.Equal(t, 9, history[0].Points())

	// Delivered is terminal; a second delivery attempt cannot re-award.
	_, err = f.service.UpdateOrderStatus(context.Background(), created.ID, domainorder.StatusDelivered)
	require.ErrorIs(t, err, domainorder.ErrInvalidStatusTransition)
	history, err = f.transactions.FindByAccount(context.Background(), account.ID(), 10)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestUpdateStatusRejectsIllegalTransition(t *testing.T) {
	f := newFixture(t)
	created := f.placeOrder(t, cappuccinoOrder(1, 0))

	_, err := f.service.UpdateOrderStatus(context.Background(), created.ID, domainorder.StatusDelivered)
	assert.ErrorIs(t, err, domainorder.ErrInvalidStatusTransition)

	loaded, err := f.service.GetOrder(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "pending", loaded.Status)
}

func TestConfirmFailsWhenStockWasTakenMeanwhile(t *testing.T) {
	f := newFixture(t)

	first := f.placeOrder(t, cappuccinoOrder(6, 0))
	second := f.placeOrder(t, cappuccinoOrder(6, 0))

	_, err := f.service.UpdateOrderStatus(context.Background(), first.ID, domainorder.StatusConfirmed)
	require.NoError(t, err)
	require.Equal(t, 4, *f.productStock(t, 1))

	_, err = f.service.UpdateOrderStatus(context.Background(), second.ID, domainorder.StatusConfirmed)
	require.ErrorIs(t, err, stock.ErrInsufficientStock)

	loaded, err := f.service.GetOrder(context.Background(), second.ID)
	require.NoError(t, err)
	assert.Equal(t, "pending", loaded.Status, "the failed confirmation did not move the order")
	assert.Equal(t, 4, *f.productStock(t, 1))
}

func TestFailedConfirmationUnwindsEarlierDeductions(t *testing.T) {
	f := newFixture(t)

	// The croissant line will fail once another order has eaten into its
	// stock; the cappuccino line before it must not stay deducted.
	mixed := f.placeOrder(t, CreateOrderCommand{
		CustomerID: "customer-1",
		Items: []CreateOrderItem{
			{ProductID: 1, Quantity: 4},
			{ProductID: 4, Quantity: 5},
		},
	})
	small := f.placeOrder(t, CreateOrderCommand{
		CustomerID: "customer-2",
		Items:      []CreateOrderItem{{ProductID: 4, Quantity: 1}},
	})

	_, err := f.service.UpdateOrderStatus(context.Background(), small.ID, domainorder.StatusConfirmed)
	require.NoError(t, err)
	require.Equal(t, 4, *f.productStock(t, 4))

	_, err = f.service.UpdateOrderStatus(context.Background(), mixed.ID, domainorder.StatusConfirmed)
	require.ErrorIs(t, err, stock.ErrInsufficientStock)

	assert.Equal(t, 10, *f.productStock(t, 1), "the cappuccino deduction was unwound")
	assert.Equal(t, 4, *f.productStock(t, 4))

	loaded, err := f.service.GetOrder(context.Background(), mixed.ID)
	require.NoError(t, err)
	assert.Equal(t, "pending", loaded.Status)
}

func TestFailedExtraDeductionUnwindsProductDeduction(t *testing.T) {
	f := newFixture(t)

	first := f.placeOrder(t, cappuccinoOrder(2, 3)) // 6 shots needed
	second := f.placeOrder(t, cappuccinoOrder(2, 3))

	_, err := f.service.UpdateOrderStatus(context.Background(), first.ID, domainorder.StatusConfirmed)
	require.NoError(t, err)
	require.Equal(t, 4, f.extraStock(t, 1))
	require.Equal(t, 8, *f.productStock(t, 1))

	_, err = f.service.UpdateOrderStatus(context.Background(), second.ID, domainorder.StatusConfirmed)
	require.ErrorIs(t, err, stock.ErrInsufficientStock)

	assert.Equal(t, 8, *f.productStock(t, 1), "the cup deduction was unwound when the shots ran out")
	assert.Equal(t, 4, f.extraStock(t, 1))
}

func TestDeleteOrderRequiresTerminalStatus(t *testing.T) {
	f := newFixture(t)
	created := f.placeOrder(t, cappuccinoOrder(1, 0))

	err := f.service.DeleteOrder(context.Background(), created.ID)
	require.ErrorIs(t, err, shared.ErrConflict)

	_, err = f.service.CancelOrder(context.Background(), created.ID)
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteOrder(context.Background(), created.ID))

	_, err = f.service.GetOrder(context.Background(), created.ID)
	assert.ErrorIs(t, err, domainorder.ErrOrderNotFound)
}

func TestListQueries(t *testing.T) {
	f := newFixture(t)
	first := f.placeOrder(t, cappuccinoOrder(1, 0))
	second := f.placeOrder(t, CreateOrderCommand{
		CustomerID: "customer-2",
		Items:      []CreateOrderItem{{ProductID: 2, Quantity: 1}},
	})

	_, err := f.service.CancelOrder(context.Background(), second.ID)
	require.NoError(t, err)

	active, err := f.service.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, first.ID, active[0].ID)

	today, err := f.service.ListToday(context.Background())
	require.NoError(t, err)
	assert.Len(t, today, 2)

	mine, err := f.service.ListByCustomer(context.Background(), "customer-2")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, second.ID, mine[0].ID)

	cancelled, err := f.service.ListByStatus(context.Background(), "cancelled")
	require.NoError(t, err)
	assert.Len(t, cancelled, 1)

	_, err = f.service.ListByStatus(context.Background(), "bogus")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestEventsReachTheOutbox(t *testing.T) {
	f := newFixture(t)
	created := f.placeOrder(t, cappuccinoOrder(1, 0))

	_, err := f.service.UpdateOrderStatus(context.Background(), created.ID, domainorder.StatusConfirmed)
	require.NoError(t, err)

	events := f.outbox.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "order.placed", events[0].EventName)
	assert.Equal(t, "order.status_changed", events[1].EventName)
	assert.Equal(t, created.OrderNumber, events[0].AggregateID)
}
