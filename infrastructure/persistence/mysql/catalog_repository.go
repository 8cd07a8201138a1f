package mysql

import (
	"context"
	"errors"

	"cafeledger/domain/catalog"
	"cafeledger/domain/shared"
	"cafeledger/infrastructure/persistence"
	"cafeledger/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
)

// ProductRepository GORM implementation of the product repository. This core
// only reads products and writes their stock counters; catalog CRUD lives
// outside it.
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository creates the product repository.
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// FindByID loads one product.
func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*catalog.Product, error) {
	var productPO po.ProductPO
	result := r.getDB(ctx).First(&productPO, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("product", "product not found")
		}
		return nil, result.Error
	}
	return productPO.ToDomain(), nil
}

// FindLowStock lists tracked products at or below their alert threshold.
func (r *ProductRepository) FindLowStock(ctx context.Context) ([]*catalog.Product, error) {
	var productPOs []po.ProductPO
	if err := r.getDB(ctx).
		Where("stock_quantity IS NOT NULL AND stock_quantity <= low_stock_threshold").
		Order("stock_quantity ASC").
		Find(&productPOs).Error; err != nil {
		return nil, err
	}
	products := make([]*catalog.Product, len(productPOs))
	for i := range productPOs {
		products[i] = productPOs[i].ToDomain()
	}
	return products, nil
}

// SaveStock writes back the stock counter and update timestamp only. The
// update is guarded on the counter value that was loaded, so two
// transactions working from the same snapshot cannot overwrite each other;
// the loser gets a retryable conflict.
func (r *ProductRepository) SaveStock(ctx context.Context, product *catalog.Product) error {
	query := r.getDB(ctx).Model(&po.ProductPO{}).Where("id = ?", product.ID())
	if loaded := product.LoadedStockQuantity(); loaded == nil {
		query = query.Where("stock_quantity IS NULL")
	} else {
		query = query.Where("stock_quantity = ?", *loaded)
	}
	result := query.Updates(map[string]interface{}{
		"stock_quantity": product.StockQuantity(),
		"updated_at":     product.UpdatedAt(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.getDB(ctx).Model(&po.ProductPO{}).Where("id = ?", product.ID()).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return shared.NewNotFoundError("product", "product not found")
		}
		return shared.NewConflictError("product", "product stock was modified by another transaction, please retry")
	}
	product.MarkStockSaved()
	return nil
}

var _ catalog.ProductRepository = (*ProductRepository)(nil)

// ExtraRepository GORM implementation of the extra repository.
type ExtraRepository struct {
	db *gorm.DB
}

// NewExtraRepository creates the extra repository.
func NewExtraRepository(db *gorm.DB) *ExtraRepository {
	return &ExtraRepository{db: db}
}

func (r *ExtraRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// FindByID loads one extra.
func (r *ExtraRepository) FindByID(ctx context.Context, id int64) (*catalog.Extra, error) {
	var extraPO po.ExtraPO
	result := r.getDB(ctx).First(&extraPO, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("extra", "extra not found")
		}
		return nil, result.Error
	}
	return extraPO.ToDomain(), nil
}

// FindLowStock lists extras at or below their alert threshold.
func (r *ExtraRepository) FindLowStock(ctx context.Context) ([]*catalog.Extra, error) {
	var extraPOs []po.ExtraPO
	if err := r.getDB(ctx).
		Where("stock_quantity <= low_stock_threshold").
		Order("stock_quantity ASC").
		Find(&extraPOs).Error; err != nil {
		return nil, err
	}
	extras := make([]*catalog.Extra, len(extraPOs))
	for i := range extraPOs {
		extras[i] = extraPOs[i].ToDomain()
	}
	return extras, nil
}

// SaveStock writes back the stock counter and update timestamp only,
// guarded on the counter value that was loaded.
func (r *ExtraRepository) SaveStock(ctx context.Context, extra *catalog.Extra) error {
	result := r.getDB(ctx).Model(&po.ExtraPO{}).
		Where("id = ? AND stock_quantity = ?", extra.ID(), extra.LoadedStockQuantity()).
		Updates(map[string]interface{}{
			"stock_quantity": extra.StockQuantity(),
			"updated_at":     extra.UpdatedAt(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.getDB(ctx).Model(&po.ExtraPO{}).Where("id = ?", extra.ID()).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return shared.NewNotFoundError("extra", "extra not found")
		}
		return shared.NewConflictError("extra", "extra stock was modified by another transaction, please retry")
	}
	extra.MarkStockSaved()
	return nil
}

var _ catalog.ExtraRepository = (*ExtraRepository)(nil)

// ProductExtraRepository GORM implementation of the allow-list lookup.
type ProductExtraRepository struct {
	db *gorm.DB
}

// NewProductExtraRepository creates the allow-list repository.
func NewProductExtraRepository(db *gorm.DB) *ProductExtraRepository {
	return &ProductExtraRepository{db: db}
}

func (r *ProductExtraRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// FindByProductAndExtra resolves one allow-list entry, nil without error when
// the pairing is not allowed.
func (r *ProductExtraRepository) FindByProductAndExtra(ctx context.Context, productID, extraID int64) (*catalog.ProductExtra, error) {
	var linkPO po.ProductExtraPO
	result := r.getDB(ctx).First(&linkPO, "product_id = ? AND extra_id = ?", productID, extraID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return linkPO.ToDomain(), nil
}

var _ catalog.ProductExtraRepository = (*ProductExtraRepository)(nil)
