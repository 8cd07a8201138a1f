/*
Package stock is the stock ledger: the single owner of inventory deduction
and restoration for products and extras. Order logic never assigns stock
counters directly; it goes through Ledger operations so the
never-negative invariant lives in exactly one place.
*/
package stock

import (
	"context"

	"cafeledger/domain/catalog"
)

// Ledger mutates catalog stock counters through their repositories. All
// operations are expected to run inside the caller's unit of work so a failed
// multi-item movement rolls back as a whole.
type Ledger struct {
	products catalog.ProductRepository
	extras   catalog.ExtraRepository
}

// NewLedger creates a stock ledger over the catalog repositories.
func NewLedger(products catalog.ProductRepository, extras catalog.ExtraRepository) *Ledger {
	return &Ledger{products: products, extras: extras}
}

// CheckProductAvailability reports whether qty units of the product can be
// fulfilled. Untracked (nil) stock is always available.
func (l *Ledger) CheckProductAvailability(product *catalog.Product, qty int) bool {
	return product.CanFulfill(qty)
}

// DeductProductStock removes qty units from the product's counter and
// persists the new quantity. Untracked stock is a no-op. Deduction beyond the
// available quantity fails with InsufficientStockError, leaving the counter
// untouched.
func (l *Ledger) DeductProductStock(ctx context.Context, product *catalog.Product, qty int) error {
	if !product.TracksStock() {
		return nil
	}
	if !product.DeductStock(qty) {
		return NewInsufficientStockError(product.Name(), qty, product.AvailableStock())
	}
	return l.products.SaveStock(ctx, product)
}

// RestoreProductStock returns qty units to the product's counter, the exact
// inverse of a prior deduction. Untracked stock is a no-op.
func (l *Ledger) RestoreProductStock(ctx context.Context, product *catalog.Product, qty int) error {
	if !product.TracksStock() {
		return nil
	}
	product.RestoreStock(qty)
	return l.products.SaveStock(ctx, product)
}

// RestockProduct adds qty units from a delivery, starting tracking if the
// counter was untracked.
func (l *Ledger) RestockProduct(ctx context.Context, product *catalog.Product, qty int) error {
	product.Restock(qty)
	return l.products.SaveStock(ctx, product)
}

// CheckExtraAvailability reports whether qty units of the extra can be
// fulfilled. Extra stock is always tracked.
func (l *Ledger) CheckExtraAvailability(extra *catalog.Extra, qty int) bool {
	return extra.CanFulfill(qty)
}

// DeductExtraStock removes qty units from the extra's counter and persists
// the new quantity, failing with InsufficientStockError on underflow.
func (l *Ledger) DeductExtraStock(ctx context.Context, extra *catalog.Extra, qty int) error {
	if !extra.DeductStock(qty) {
		return NewInsufficientStockError(extra.Name(), qty, extra.StockQuantity())
	}
	return l.extras.SaveStock(ctx, extra)
}

// RestoreExtraStock returns qty units to the extra's counter.
func (l *Ledger) RestoreExtraStock(ctx context.Context, extra *catalog.Extra, qty int) error {
	extra.RestoreStock(qty)
	return l.extras.SaveStock(ctx, extra)
}

// RestockExtra adds qty units from a delivery.
func (l *Ledger) RestockExtra(ctx context.Context, extra *catalog.Extra, qty int) error {
	extra.Restock(qty)
	return l.extras.SaveStock(ctx, extra)
}

// LowStockProducts lists tracked products at or below their alert threshold.
// Alert-only: low stock never blocks ordering.
func (l *Ledger) LowStockProducts(ctx context.Context) ([]*catalog.Product, error) {
	return l.products.FindLowStock(ctx)
}

// LowStockExtras lists extras at or below their alert threshold.
func (l *Ledger) LowStockExtras(ctx context.Context) ([]*catalog.Extra, error) {
	return l.extras.FindLowStock(ctx)
}
