package stock

import (
	"context"
	"testing"
	"time"

	"cafeledger/domain/catalog"
	"cafeledger/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingProductRepo captures SaveStock calls; reads are not used by the
// ledger itself.
type recordingProductRepo struct {
	catalog.ProductRepository
	saved []*catalog.Product
}

func (r *recordingProductRepo) SaveStock(_ context.Context, p *catalog.Product) error {
	r.saved = append(r.saved, p)
	return nil
}

type recordingExtraRepo struct {
	catalog.ExtraRepository
	saved []*catalog.Extra
}

func (r *recordingExtraRepo) SaveStock(_ context.Context, e *catalog.Extra) error {
	r.saved = append(r.saved, e)
	return nil
}

func ledgerFixture() (*Ledger, *recordingProductRepo, *recordingExtraRepo) {
	products := &recordingProductRepo{}
	extras := &recordingExtraRepo{}
	return NewLedger(products, extras), products, extras
}

func buildProduct(stock *int) *catalog.Product {
	now := time.Now()
	return catalog.RebuildProduct(catalog.ProductDTO{
		ID: 1, Name: "Croissant",
		Price: shared.NewMoney(320, shared.EUR), Available: true,
		StockQuantity: stock, LowStockThreshold: 5,
		CreatedAt: now, UpdatedAt: now,
	})
}

func buildExtra(stock int) *catalog.Extra {
	now := time.Now()
	return catalog.RebuildExtra(catalog.ExtraDTO{
		ID: 1, Name: "Extra shot",
		Price: shared.NewMoney(50, shared.EUR), Available: true,
		StockQuantity: stock, LowStockThreshold: 2,
		CreatedAt: now, UpdatedAt: now,
	})
}

func TestDeductProductStock(t *testing.T) {
	ledger, products, _ := ledgerFixture()
	stock := 10
	product := buildProduct(&stock)

	require.NoError(t, ledger.DeductProductStock(context.Background(), product, 4))
	require.NotNil(t, product.StockQuantity())
	assert.Equal(t, 6, *product.StockQuantity())
	assert.Len(t, products.saved, 1)
}

func TestDeductProductStockInsufficient(t *testing.T) {
	ledger, products, _ := ledgerFixture()
	stock := 2
	product := buildProduct(&stock)

	err := ledger.DeductProductStock(context.Background(), product, 10)
	require.ErrorIs(t, err, ErrInsufficientStock)

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Croissant", stockErr.ItemName)
	assert.Equal(t, 10, stockErr.Requested)
	assert.Equal(t, 2, stockErr.Available)

	assert.Equal(t, 2, *product.StockQuantity(), "rejected deduction leaves the counter untouched")
	assert.Empty(t, products.saved, "nothing is persisted on rejection")
}

func TestDeductUntrackedProductIsNoOp(t *testing.T) {
	ledger, products, _ := ledgerFixture()
	product := buildProduct(nil)

	require.NoError(t, ledger.DeductProductStock(context.Background(), product, 100))
	assert.Nil(t, product.StockQuantity())
	assert.Empty(t, products.saved, "untracked stock writes nothing")
}

func TestRestoreProductStock(t *testing.T) {
	ledger, products, _ := ledgerFixture()
	stock := 6
	product := buildProduct(&stock)

	require.NoError(t, ledger.RestoreProductStock(context.Background(), product, 4))
	assert.Equal(t, 10, *product.StockQuantity())
	assert.Len(t, products.saved, 1)
}

func TestRestockProductStartsTracking(t *testing.T) {
	ledger, products, _ := ledgerFixture()
	product := buildProduct(nil)

	require.NoError(t, ledger.RestockProduct(context.Background(), product, 12))
	require.NotNil(t, product.StockQuantity())
	assert.Equal(t, 12, *product.StockQuantity())
	assert.Len(t, products.saved, 1)
}

func TestExtraStockMovements(t *testing.T) {
	ledger, _, extras := ledgerFixture()
	extra := buildExtra(5)

	assert.True(t, ledger.CheckExtraAvailability(extra, 5))
	assert.False(t, ledger.CheckExtraAvailability(extra, 6))

	require.NoError(t, ledger.DeductExtraStock(context.Background(), extra, 3))
	assert.Equal(t, 2, extra.StockQuantity())

	err := ledger.DeductExtraStock(context.Background(), extra, 3)
	require.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 2, extra.StockQuantity())

	require.NoError(t, ledger.RestoreExtraStock(context.Background(), extra, 3))
	assert.Equal(t, 5, extra.StockQuantity())

	assert.Len(t, extras.saved, 2)
}
