package catalog

import (
	"time"

	"cafeledger/domain/shared"
)

// Extra is an add-on that can accompany a product (extra shot, syrup, ...).
// Extra stock is always tracked, defaulting to zero.
type Extra struct {
	id                int64
	name              string
	description       string
	price             shared.Money
	available         bool
	stockQuantity     int
	lowStockThreshold int
	createdAt         time.Time
	updatedAt         time.Time

	// loadedStockQuantity is the counter as it was read from the store,
	// the compare value for guarded stock writes.
	loadedStockQuantity int
}

// ExtraDTO rebuilds an Extra from the store. Repository use only.
type ExtraDTO struct {
	ID                int64
	Name              string
	Description       string
	Price             shared.Money
	Available         bool
	StockQuantity     int
	LowStockThreshold int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// RebuildExtra reconstructs an Extra from persisted state.
func RebuildExtra(dto ExtraDTO) *Extra {
	return &Extra{
		id:                  dto.ID,
		name:                dto.Name,
		description:         dto.Description,
		price:               dto.Price,
		available:           dto.Available,
		stockQuantity:       dto.StockQuantity,
		lowStockThreshold:   dto.LowStockThreshold,
		createdAt:           dto.CreatedAt,
		updatedAt:           dto.UpdatedAt,
		loadedStockQuantity: dto.StockQuantity,
	}
}

func (e *Extra) ID() int64              { return e.id }
func (e *Extra) Name() string           { return e.name }
func (e *Extra) Description() string    { return e.description }
func (e *Extra) Price() shared.Money    { return e.price }
func (e *Extra) IsAvailable() bool      { return e.available }
func (e *Extra) StockQuantity() int     { return e.stockQuantity }
func (e *Extra) LowStockThreshold() int { return e.lowStockThreshold }
func (e *Extra) CreatedAt() time.Time   { return e.createdAt }
func (e *Extra) UpdatedAt() time.Time   { return e.updatedAt }

// LoadedStockQuantity returns the counter as it was read from the store.
// Repository use only: it guards stock writes against a concurrent writer.
func (e *Extra) LoadedStockQuantity() int { return e.loadedStockQuantity }

// MarkStockSaved moves the guarded-write baseline to the current counter
// after a successful stock write. Called by the repositories, never by
// business code.
func (e *Extra) MarkStockSaved() { e.loadedStockQuantity = e.stockQuantity }

// CanFulfill reports whether qty units can be taken from stock.
func (e *Extra) CanFulfill(qty int) bool { return e.stockQuantity >= qty }

// DeductStock removes qty units, returning false when stock is insufficient.
func (e *Extra) DeductStock(qty int) bool {
	if e.stockQuantity < qty {
		return false
	}
	e.stockQuantity -= qty
	e.updatedAt = time.Now()
	return true
}

// RestoreStock returns qty units to the counter.
func (e *Extra) RestoreStock(qty int) {
	e.stockQuantity += qty
	e.updatedAt = time.Now()
}

// Restock adds qty units from a delivery.
func (e *Extra) Restock(qty int) {
	e.stockQuantity += qty
	e.updatedAt = time.Now()
}

// IsLowStock reports whether the quantity fell to the alert threshold.
func (e *Extra) IsLowStock() bool { return e.stockQuantity <= e.lowStockThreshold }

// ProductExtra is an allow-list entry stating that an extra may be added to a
// product, capped at MaxQuantity units per order line item.
type ProductExtra struct {
	productID   int64
	extraID     int64
	maxQuantity int
}

// NewProductExtra builds an allow-list entry. maxQuantity defaults to 5 when
// not positive, matching the catalog default.
func NewProductExtra(productID, extraID int64, maxQuantity int) *ProductExtra {
	if maxQuantity <= 0 {
		maxQuantity = 5
	}
	return &ProductExtra{productID: productID, extraID: extraID, maxQuantity: maxQuantity}
}

func (pe *ProductExtra) ProductID() int64 { return pe.productID }
func (pe *ProductExtra) ExtraID() int64   { return pe.extraID }
func (pe *ProductExtra) MaxQuantity() int { return pe.maxQuantity }
