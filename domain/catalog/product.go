/*
Package catalog models the read-only catalog records the ordering core
consumes: products, extras and the product↔extra allow-list. Catalog CRUD is
owned elsewhere; this core only reads prices/availability and mutates the
stock counters, and that mutation happens exclusively through the stock
ledger (domain/stock).
*/
package catalog

import (
	"time"

	"cafeledger/domain/shared"
)

// Product is a sellable catalog item. A nil stock quantity means stock is not
// tracked for this product and availability checks always pass.
type Product struct {
	id                int64
	name              string
	description       string
	category          string
	price             shared.Money
	available         bool
	alaCarte          bool
	stockQuantity     *int
	lowStockThreshold int
	createdAt         time.Time
	updatedAt         time.Time

	// loadedStockQuantity is the counter as it was read from the store,
	// the compare value for guarded stock writes.
	loadedStockQuantity *int
}

// ProductDTO rebuilds a Product from the store. Repository use only.
type ProductDTO struct {
	ID                int64
	Name              string
	Description       string
	Category          string
	Price             shared.Money
	Available         bool
	AlaCarte          bool
	StockQuantity     *int
	LowStockThreshold int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// RebuildProduct reconstructs a Product from persisted state.
func RebuildProduct(dto ProductDTO) *Product {
	return &Product{
		id:                  dto.ID,
		name:                dto.Name,
		description:         dto.Description,
		category:            dto.Category,
		price:               dto.Price,
		available:           dto.Available,
		alaCarte:            dto.AlaCarte,
		stockQuantity:       dto.StockQuantity,
		lowStockThreshold:   dto.LowStockThreshold,
		createdAt:           dto.CreatedAt,
		updatedAt:           dto.UpdatedAt,
		loadedStockQuantity: copyStock(dto.StockQuantity),
	}
}

func copyStock(q *int) *int {
	if q == nil {
		return nil
	}
	c := *q
	return &c
}

func (p *Product) ID() int64            { return p.id }
func (p *Product) Name() string         { return p.name }
func (p *Product) Description() string  { return p.description }
func (p *Product) Category() string     { return p.category }
func (p *Product) Price() shared.Money  { return p.price }
func (p *Product) IsAvailable() bool    { return p.available }
func (p *Product) IsAlaCarte() bool     { return p.alaCarte }
func (p *Product) CreatedAt() time.Time { return p.createdAt }
func (p *Product) UpdatedAt() time.Time { return p.updatedAt }

// StockQuantity returns a copy of the tracked quantity, or nil when stock is
// untracked.
func (p *Product) StockQuantity() *int {
	if p.stockQuantity == nil {
		return nil
	}
	q := *p.stockQuantity
	return &q
}

// LoadedStockQuantity returns the counter as it was read from the store,
// nil when it was untracked. Repository use only: it guards stock writes
// against a concurrent writer.
func (p *Product) LoadedStockQuantity() *int { return copyStock(p.loadedStockQuantity) }

// MarkStockSaved moves the guarded-write baseline to the current counter
// after a successful stock write. Called by the repositories, never by
// business code.
func (p *Product) MarkStockSaved() { p.loadedStockQuantity = copyStock(p.stockQuantity) }

// TracksStock reports whether this product has a managed stock counter.
func (p *Product) TracksStock() bool { return p.stockQuantity != nil }

// AvailableStock returns the quantity usable in error messages; 0 when
// untracked (callers must check TracksStock first for availability logic).
func (p *Product) AvailableStock() int {
	if p.stockQuantity == nil {
		return 0
	}
	return *p.stockQuantity
}

// CanFulfill reports whether qty units can be taken from stock. Untracked
// stock always fulfills.
func (p *Product) CanFulfill(qty int) bool {
	if p.stockQuantity == nil {
		return true
	}
	return *p.stockQuantity >= qty
}

// DeductStock removes qty units from the counter. It returns false when the
// tracked quantity is insufficient; deduction is rejected, never clamped.
// A no-op returning true for untracked stock.
func (p *Product) DeductStock(qty int) bool {
	if p.stockQuantity == nil {
		return true
	}
	if *p.stockQuantity < qty {
		return false
	}
	q := *p.stockQuantity - qty
	p.stockQuantity = &q
	p.updatedAt = time.Now()
	return true
}

// RestoreStock returns qty units to the counter. No-op for untracked stock.
func (p *Product) RestoreStock(qty int) {
	if p.stockQuantity == nil {
		return
	}
	q := *p.stockQuantity + qty
	p.stockQuantity = &q
	p.updatedAt = time.Now()
}

// Restock adds qty units from a delivery. Unlike RestoreStock it starts
// tracking at qty if the counter was previously untracked, matching the
// admin restock behavior.
func (p *Product) Restock(qty int) {
	current := 0
	if p.stockQuantity != nil {
		current = *p.stockQuantity
	}
	q := current + qty
	p.stockQuantity = &q
	p.updatedAt = time.Now()
}

// IsLowStock reports whether the tracked quantity fell to the alert
// threshold. Never true for untracked stock.
func (p *Product) IsLowStock() bool {
	if p.stockQuantity == nil {
		return false
	}
	return *p.stockQuantity <= p.lowStockThreshold
}

func (p *Product) LowStockThreshold() int { return p.lowStockThreshold }
