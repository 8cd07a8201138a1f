package memory

import (
	"context"
	"sort"
	"sync"

	"cafeledger/domain/catalog"
	"cafeledger/domain/shared"
)

// ProductRepository in-memory product store. State lives in reconstruction
// DTOs; every read rebuilds a fresh aggregate.
type ProductRepository struct {
	mu       sync.RWMutex
	products map[int64]catalog.ProductDTO
}

// NewProductRepository creates an empty product store.
func NewProductRepository() *ProductRepository {
	return &ProductRepository{
		products: make(map[int64]catalog.ProductDTO),
	}
}

// Seed loads catalog rows, replacing entries with the same id.
func (r *ProductRepository) Seed(dtos []catalog.ProductDTO) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, dto := range dtos {
		r.products[dto.ID] = cloneProductDTO(dto)
	}
}

// FindByID loads one product.
func (r *ProductRepository) FindByID(_ context.Context, id int64) (*catalog.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dto, exists := r.products[id]
	if !exists {
		return nil, shared.NewNotFoundError("product", "product not found")
	}
	return catalog.RebuildProduct(cloneProductDTO(dto)), nil
}

// FindLowStock lists tracked products at or below their alert threshold,
// lowest stock first.
func (r *ProductRepository) FindLowStock(_ context.Context) ([]*catalog.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]*catalog.Product, 0)
	for _, dto := range r.products {
		product := catalog.RebuildProduct(cloneProductDTO(dto))
		if product.IsLowStock() {
			products = append(products, product)
		}
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].AvailableStock() < products[j].AvailableStock()
	})
	return products, nil
}

// SaveStock writes back the stock counter and update timestamp only. Like
// the GORM repository it compares the stored counter with the value the
// aggregate was loaded from and rejects the write as a conflict when another
// writer got there first.
func (r *ProductRepository) SaveStock(_ context.Context, product *catalog.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	dto, exists := r.products[product.ID()]
	if !exists {
		return shared.NewNotFoundError("product", "product not found")
	}
	if !stockMatches(dto.StockQuantity, product.LoadedStockQuantity()) {
		return shared.NewConflictError("product", "product stock was modified by another transaction, please retry")
	}
	dto.StockQuantity = product.StockQuantity()
	dto.UpdatedAt = product.UpdatedAt()
	r.products[product.ID()] = dto
	product.MarkStockSaved()
	return nil
}

func stockMatches(stored, loaded *int) bool {
	if stored == nil || loaded == nil {
		return stored == nil && loaded == nil
	}
	return *stored == *loaded
}

func cloneProductDTO(dto catalog.ProductDTO) catalog.ProductDTO {
	if dto.StockQuantity != nil {
		q := *dto.StockQuantity
		dto.StockQuantity = &q
	}
	return dto
}

var _ catalog.ProductRepository = (*ProductRepository)(nil)

// ExtraRepository in-memory extra store.
type ExtraRepository struct {
	mu     sync.RWMutex
	extras map[int64]catalog.ExtraDTO
}

// NewExtraRepository creates an empty extra store.
func NewExtraRepository() *ExtraRepository {
	return &ExtraRepository{
		extras: make(map[int64]catalog.ExtraDTO),
	}
}

// Seed loads extra rows, replacing entries with the same id.
func (r *ExtraRepository) Seed(dtos []catalog.ExtraDTO) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, dto := range dtos {
		r.extras[dto.ID] = dto
	}
}

// FindByID loads one extra.
func (r *ExtraRepository) FindByID(_ context.Context, id int64) (*catalog.Extra, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dto, exists := r.extras[id]
	if !exists {
		return nil, shared.NewNotFoundError("extra", "extra not found")
	}
	return catalog.RebuildExtra(dto), nil
}

// FindLowStock lists extras at or below their alert threshold, lowest stock
// first.
func (r *ExtraRepository) FindLowStock(_ context.Context) ([]*catalog.Extra, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	extras := make([]*catalog.Extra, 0)
	for _, dto := range r.extras {
		extra := catalog.RebuildExtra(dto)
		if extra.IsLowStock() {
			extras = append(extras, extra)
		}
	}
	sort.Slice(extras, func(i, j int) bool {
		return extras[i].StockQuantity() < extras[j].StockQuantity()
	})
	return extras, nil
}

// SaveStock writes back the stock counter and update timestamp only, guarded
// on the counter value the aggregate was loaded from.
func (r *ExtraRepository) SaveStock(_ context.Context, extra *catalog.Extra) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	dto, exists := r.extras[extra.ID()]
	if !exists {
		return shared.NewNotFoundError("extra", "extra not found")
	}
	if dto.StockQuantity != extra.LoadedStockQuantity() {
		return shared.NewConflictError("extra", "extra stock was modified by another transaction, please retry")
	}
	dto.StockQuantity = extra.StockQuantity()
	dto.UpdatedAt = extra.UpdatedAt()
	r.extras[extra.ID()] = dto
	extra.MarkStockSaved()
	return nil
}

var _ catalog.ExtraRepository = (*ExtraRepository)(nil)

// ProductExtraRepository in-memory allow-list.
type ProductExtraRepository struct {
	mu    sync.RWMutex
	links map[[2]int64]int // (productID, extraID) -> max quantity
}

// NewProductExtraRepository creates an empty allow-list.
func NewProductExtraRepository() *ProductExtraRepository {
	return &ProductExtraRepository{
		links: make(map[[2]int64]int),
	}
}

// Seed allows extraID on productID capped at maxQuantity per line item.
func (r *ProductExtraRepository) Seed(productID, extraID int64, maxQuantity int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.links[[2]int64{productID, extraID}] = maxQuantity
}

// FindByProductAndExtra resolves one allow-list entry, nil without error when
// the pairing is not allowed.
func (r *ProductExtraRepository) FindByProductAndExtra(_ context.Context, productID, extraID int64) (*catalog.ProductExtra, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	maxQuantity, exists := r.links[[2]int64{productID, extraID}]
	if !exists {
		return nil, nil
	}
	return catalog.NewProductExtra(productID, extraID, maxQuantity), nil
}

var _ catalog.ProductExtraRepository = (*ProductExtraRepository)(nil)
