package stock

import (
	"context"
	"testing"
	"time"

	"cafeledger/domain/catalog"
	"cafeledger/domain/shared"
	"cafeledger/domain/stock"
	"cafeledger/infrastructure/persistence/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(t *testing.T) *Service {
	t.Helper()
	now := time.Now()
	lowStock := 4

	products := memory.NewProductRepository()
	products.Seed([]catalog.ProductDTO{
		{
			ID: 1, Name: "Espresso", Category: "coffee",
			Price: shared.NewMoney(250, shared.EUR), Available: true,
			StockQuantity: nil, LowStockThreshold: 10,
			CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: 2, Name: "Cheesecake", Category: "bakery",
			Price: shared.NewMoney(480, shared.EUR), Available: true,
			StockQuantity: &lowStock, LowStockThreshold: 5,
			CreatedAt: now, UpdatedAt: now,
		},
	})

	extras := memory.NewExtraRepository()
	extras.Seed([]catalog.ExtraDTO{
		{
			ID: 1, Name: "Oat milk",
			Price: shared.NewMoney(40, shared.EUR), Available: true,
			StockQuantity: 1, LowStockThreshold: 2,
			CreatedAt: now, UpdatedAt: now,
		},
	})

	ledger := stock.NewLedger(products, extras)
	uowFactory := memory.NewUnitOfWorkFactory(memory.NewOutboxRepository())
	return NewService(products, extras, ledger, uowFactory, zap.NewNop())
}

func TestRestockProductStartsTracking(t *testing.T) {
	s := newService(t)

	level, err := s.RestockProduct(context.Background(), 1, 30)
	require.NoError(t, err)
	require.NotNil(t, level.StockQuantity)
	assert.Equal(t, 30, *level.StockQuantity, "restocking an untracked product starts the counter")
	assert.False(t, level.LowStock)
}

func TestRestockProductValidation(t *testing.T) {
	s := newService(t)

	_, err := s.RestockProduct(context.Background(), 2, 0)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = s.RestockProduct(context.Background(), 99, 10)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestRestockExtra(t *testing.T) {
	s := newService(t)

	level, err := s.RestockExtra(context.Background(), 1, 9)
	require.NoError(t, err)
	require.NotNil(t, level.StockQuantity)
	assert.Equal(t, 10, *level.StockQuantity)
	assert.False(t, level.LowStock)

	_, err = s.RestockExtra(context.Background(), 1, -1)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestLowStockQueries(t *testing.T) {
	s := newService(t)

	products, err := s.LowStockProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1, "the untracked espresso never alerts")
	assert.Equal(t, "Cheesecake", products[0].Name)
	assert.True(t, products[0].LowStock)

	extras, err := s.LowStockExtras(context.Background())
	require.NoError(t, err)
	require.Len(t, extras, 1)
	assert.Equal(t, "Oat milk", extras[0].Name)

	// Restocking above the threshold clears the alert.
	_, err = s.RestockProduct(context.Background(), 2, 20)
	require.NoError(t, err)
	products, err = s.LowStockProducts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)
}
