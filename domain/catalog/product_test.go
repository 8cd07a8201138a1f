package catalog

import (
	"testing"
	"time"

	"cafeledger/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trackedProduct(t *testing.T, qty int) *Product {
	t.Helper()
	now := time.Now()
	return RebuildProduct(ProductDTO{
		ID: 1, Name: "Croissant", Category: "bakery",
		Price: shared.NewMoney(320, shared.EUR), Available: true,
		StockQuantity: &qty, LowStockThreshold: 5,
		CreatedAt: now, UpdatedAt: now,
	})
}

func untrackedProduct(t *testing.T) *Product {
	t.Helper()
	now := time.Now()
	return RebuildProduct(ProductDTO{
		ID: 2, Name: "Espresso", Category: "coffee",
		Price: shared.NewMoney(250, shared.EUR), Available: true,
		StockQuantity: nil, LowStockThreshold: 10,
		CreatedAt: now, UpdatedAt: now,
	})
}

func TestUntrackedProductStock(t *testing.T) {
	p := untrackedProduct(t)

	assert.False(t, p.TracksStock())
	assert.True(t, p.CanFulfill(1000), "untracked stock always fulfills")
	assert.True(t, p.DeductStock(1000), "deduction is a no-op")
	assert.Nil(t, p.StockQuantity())
	assert.False(t, p.IsLowStock(), "untracked stock never alerts")

	p.RestoreStock(5)
	assert.Nil(t, p.StockQuantity(), "restore does not start tracking")
}

func TestDeductStockRejectsNotClamps(t *testing.T) {
	p := trackedProduct(t, 3)

	assert.False(t, p.DeductStock(5))
	require.NotNil(t, p.StockQuantity())
	assert.Equal(t, 3, *p.StockQuantity(), "failed deduction leaves the counter untouched")

	assert.True(t, p.DeductStock(3))
	assert.Equal(t, 0, *p.StockQuantity())

	assert.False(t, p.DeductStock(1), "zero stock cannot go negative")
}

func TestRestockStartsTracking(t *testing.T) {
	p := untrackedProduct(t)

	p.Restock(20)
	require.NotNil(t, p.StockQuantity())
	assert.Equal(t, 20, *p.StockQuantity())

	p.Restock(5)
	assert.Equal(t, 25, *p.StockQuantity())
}

func TestProductLowStock(t *testing.T) {
	p := trackedProduct(t, 6)
	assert.False(t, p.IsLowStock())

	require.True(t, p.DeductStock(1))
	assert.True(t, p.IsLowStock(), "at the threshold counts as low")
}

func TestExtraStockAlwaysTracked(t *testing.T) {
	now := time.Now()
	e := RebuildExtra(ExtraDTO{
		ID: 1, Name: "Extra shot",
		Price: shared.NewMoney(50, shared.EUR), Available: true,
		StockQuantity: 2, LowStockThreshold: 1,
		CreatedAt: now, UpdatedAt: now,
	})

	assert.True(t, e.CanFulfill(2))
	assert.False(t, e.CanFulfill(3))

	assert.False(t, e.DeductStock(3))
	assert.Equal(t, 2, e.StockQuantity())

	assert.True(t, e.DeductStock(2))
	assert.Equal(t, 0, e.StockQuantity())
	assert.True(t, e.IsLowStock())

	e.RestoreStock(2)
	assert.Equal(t, 2, e.StockQuantity())
}

func TestProductExtraMaxQuantityDefault(t *testing.T) {
	link := NewProductExtra(1, 2, 0)
	assert.Equal(t, 5, link.MaxQuantity())

	link = NewProductExtra(1, 2, 3)
	assert.Equal(t, 3, link.MaxQuantity())
}
