package po

import (
	"time"

	"cafeledger/domain/catalog"
	"cafeledger/domain/shared"
)

// ProductPO product row mapping. StockQuantity is nullable: NULL means the
// product's stock is not tracked.
type ProductPO struct {
	ID                int64     `gorm:"primaryKey;autoIncrement"`
	Name              string    `gorm:"size:255;not null"`
	Description       string    `gorm:"size:500"`
	Category          string    `gorm:"size:50;index;not null"`
	Price             int64     `gorm:"not null"`
	Currency          string    `gorm:"size:3;not null"`
	Available         bool      `gorm:"default:true;not null"`
	AlaCarte          bool      `gorm:"default:true;not null"`
	StockQuantity     *int      `gorm:""`
	LowStockThreshold int       `gorm:"default:5;not null"`
	CreatedAt         time.Time `gorm:"not null"`
	UpdatedAt         time.Time `gorm:"not null"`
}

func (ProductPO) TableName() string { return "products" }

// ToDomain converts the row to the catalog entity.
func (p *ProductPO) ToDomain() *catalog.Product {
	return catalog.RebuildProduct(catalog.ProductDTO{
		ID:                p.ID,
		Name:              p.Name,
		Description:       p.Description,
		Category:          p.Category,
		Price:             shared.NewMoney(p.Price, p.Currency),
		Available:         p.Available,
		AlaCarte:          p.AlaCarte,
		StockQuantity:     p.StockQuantity,
		LowStockThreshold: p.LowStockThreshold,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	})
}

// ExtraPO extra row mapping. Extra stock is always tracked.
type ExtraPO struct {
	ID                int64     `gorm:"primaryKey;autoIncrement"`
	Name              string    `gorm:"size:255;not null"`
	Description       string    `gorm:"size:500"`
	Price             int64     `gorm:"not null"`
	Currency          string    `gorm:"size:3;not null"`
	Available         bool      `gorm:"default:true;not null"`
	StockQuantity     int       `gorm:"default:0;not null"`
	LowStockThreshold int       `gorm:"default:10;not null"`
	CreatedAt         time.Time `gorm:"not null"`
	UpdatedAt         time.Time `gorm:"not null"`
}

func (ExtraPO) TableName() string { return "extras" }

// ToDomain converts the row to the catalog entity.
func (p *ExtraPO) ToDomain() *catalog.Extra {
	return catalog.RebuildExtra(catalog.ExtraDTO{
		ID:                p.ID,
		Name:              p.Name,
		Description:       p.Description,
		Price:             shared.NewMoney(p.Price, p.Currency),
		Available:         p.Available,
		StockQuantity:     p.StockQuantity,
		LowStockThreshold: p.LowStockThreshold,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	})
}

// ProductExtraPO allow-list row mapping.
type ProductExtraPO struct {
	ProductID   int64 `gorm:"primaryKey;autoIncrement:false"`
	ExtraID     int64 `gorm:"primaryKey;autoIncrement:false"`
	MaxQuantity int   `gorm:"default:5;not null"`
}

func (ProductExtraPO) TableName() string { return "product_extras" }

// ToDomain converts the row to the allow-list entry.
func (p *ProductExtraPO) ToDomain() *catalog.ProductExtra {
	return catalog.NewProductExtra(p.ProductID, p.ExtraID, p.MaxQuantity)
}
