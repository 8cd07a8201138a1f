package catalog

import "context"

// ProductRepository reads products and persists stock counter changes.
// SaveStock writes only the stock quantity and update timestamp; all other
// product fields are owned by the catalog CRUD outside this core.
type ProductRepository interface {
	FindByID(ctx context.Context, id int64) (*Product, error)
	FindLowStock(ctx context.Context) ([]*Product, error)
	SaveStock(ctx context.Context, product *Product) error
}

// ExtraRepository reads extras and persists stock counter changes.
type ExtraRepository interface {
	FindByID(ctx context.Context, id int64) (*Extra, error)
	FindLowStock(ctx context.Context) ([]*Extra, error)
	SaveStock(ctx context.Context, extra *Extra) error
}

// ProductExtraRepository resolves allow-list entries.
type ProductExtraRepository interface {
	// FindByProductAndExtra returns nil without error when no allow-list
	// entry exists for the pairing.
	FindByProductAndExtra(ctx context.Context, productID, extraID int64) (*ProductExtra, error)
}
