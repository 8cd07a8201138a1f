package memory

import (
	"context"
	"testing"
	"time"

	"cafeledger/domain/catalog"
	"cafeledger/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededProductRepo(t *testing.T, stock *int) *ProductRepository {
	t.Helper()
	now := time.Now()
	repo := NewProductRepository()
	repo.Seed([]catalog.ProductDTO{{
		ID: 1, Name: "Cappuccino", Category: "coffee",
		Price: shared.NewMoney(450, shared.EUR), Available: true,
		StockQuantity: stock, LowStockThreshold: 2,
		CreatedAt: now, UpdatedAt: now,
	}})
	return repo
}

func TestProductSaveStockRejectsStaleCounter(t *testing.T) {
	ten := 10
	repo := seededProductRepo(t, &ten)
	ctx := context.Background()

	first, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)

	require.True(t, first.DeductStock(4))
	require.NoError(t, repo.SaveStock(ctx, first))

	// The second aggregate still carries the pre-deduction counter; its
	// write must not overwrite the one that already landed.
	require.True(t, second.DeductStock(4))
	err = repo.SaveStock(ctx, second)
	require.ErrorIs(t, err, shared.ErrConflict)

	stored, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, stored.StockQuantity())
	assert.Equal(t, 6, *stored.StockQuantity())
}

func TestProductSaveStockMovesBaselineForward(t *testing.T) {
	ten := 10
	repo := seededProductRepo(t, &ten)
	ctx := context.Background()

	product, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)

	require.True(t, product.DeductStock(4))
	require.NoError(t, repo.SaveStock(ctx, product))

	// A second save of the same aggregate compares against the counter it
	// just wrote, not the original load.
	product.RestoreStock(4)
	require.NoError(t, repo.SaveStock(ctx, product))

	stored, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 10, *stored.StockQuantity())
}

func TestProductSaveStockUntrackedCounter(t *testing.T) {
	repo := seededProductRepo(t, nil)
	ctx := context.Background()

	product, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)

	product.Restock(25)
	require.NoError(t, repo.SaveStock(ctx, product))

	stored, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, stored.StockQuantity())
	assert.Equal(t, 25, *stored.StockQuantity())
}

func TestExtraSaveStockRejectsStaleCounter(t *testing.T) {
	now := time.Now()
	repo := NewExtraRepository()
	repo.Seed([]catalog.ExtraDTO{{
		ID: 1, Name: "Extra shot",
		Price: shared.NewMoney(50, shared.EUR), Available: true,
		StockQuantity: 10, LowStockThreshold: 2,
		CreatedAt: now, UpdatedAt: now,
	}})
	ctx := context.Background()

	first, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)

	require.True(t, first.DeductStock(3))
	require.NoError(t, repo.SaveStock(ctx, first))

	require.True(t, second.DeductStock(3))
	err = repo.SaveStock(ctx, second)
	require.ErrorIs(t, err, shared.ErrConflict)

	stored, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 7, stored.StockQuantity())
}
