// Package stock implements the admin-facing stock use cases: restocking from
// deliveries and the low-stock alert queries.
package stock

import (
	"context"

	"cafeledger/domain/catalog"
	"cafeledger/domain/shared"
	"cafeledger/domain/stock"

	"go.uber.org/zap"
)

// Service exposes the stock application operations.
type Service struct {
	products   catalog.ProductRepository
	extras     catalog.ExtraRepository
	ledger     *stock.Ledger
	uowFactory shared.UnitOfWorkFactory
	logger     *zap.Logger
}

// NewService wires the stock service.
func NewService(
	products catalog.ProductRepository,
	extras catalog.ExtraRepository,
	ledger *stock.Ledger,
	uowFactory shared.UnitOfWorkFactory,
	logger *zap.Logger,
) *Service {
	return &Service{
		products:   products,
		extras:     extras,
		ledger:     ledger,
		uowFactory: uowFactory,
		logger:     logger,
	}
}

// StockLevel is the read model of one tracked counter.
type StockLevel struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	StockQuantity *int   `json:"stock_quantity"`
	Threshold     int    `json:"low_stock_threshold"`
	LowStock      bool   `json:"low_stock"`
}

// RestockProduct adds qty units to a product's counter, starting tracking if
// the product was untracked.
func (s *Service) RestockProduct(ctx context.Context, productID int64, qty int) (*StockLevel, error) {
	if qty <= 0 {
		return nil, shared.NewValidationError("product", "quantity", "restock quantity must be positive")
	}
	var product *catalog.Product
	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(txCtx context.Context) error {
		var err error
		product, err = s.products.FindByID(txCtx, productID)
		if err != nil {
			return err
		}
		return s.ledger.RestockProduct(txCtx, product, qty)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("product restocked",
		zap.Int64("product_id", productID),
		zap.Int("quantity", qty))
	return productLevel(product), nil
}

// RestockExtra adds qty units to an extra's counter.
func (s *Service) RestockExtra(ctx context.Context, extraID int64, qty int) (*StockLevel, error) {
	if qty <= 0 {
		return nil, shared.NewValidationError("extra", "quantity", "restock quantity must be positive")
	}
	var extra *catalog.Extra
	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(txCtx context.Context) error {
		var err error
		extra, err = s.extras.FindByID(txCtx, extraID)
		if err != nil {
			return err
		}
		return s.ledger.RestockExtra(txCtx, extra, qty)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("extra restocked",
		zap.Int64("extra_id", extraID),
		zap.Int("quantity", qty))
	return extraLevel(extra), nil
}

// LowStockProducts lists tracked products at or below their alert threshold.
func (s *Service) LowStockProducts(ctx context.Context) ([]*StockLevel, error) {
	products, err := s.ledger.LowStockProducts(ctx)
	if err != nil {
		return nil, err
	}
	levels := make([]*StockLevel, len(products))
	for i, p := range products {
		levels[i] = productLevel(p)
	}
	return levels, nil
}

// LowStockExtras lists extras at or below their alert threshold.
func (s *Service) LowStockExtras(ctx context.Context) ([]*StockLevel, error) {
	extras, err := s.ledger.LowStockExtras(ctx)
	if err != nil {
		return nil, err
	}
	levels := make([]*StockLevel, len(extras))
	for i, e := range extras {
		levels[i] = extraLevel(e)
	}
	return levels, nil
}

func productLevel(p *catalog.Product) *StockLevel {
	return &StockLevel{
		ID:            p.ID(),
		Name:          p.Name(),
		StockQuantity: p.StockQuantity(),
		Threshold:     p.LowStockThreshold(),
		LowStock:      p.IsLowStock(),
	}
}

func extraLevel(e *catalog.Extra) *StockLevel {
	q := e.StockQuantity()
	return &StockLevel{
		ID:            e.ID(),
		Name:          e.Name(),
		StockQuantity: &q,
		Threshold:     e.LowStockThreshold(),
		LowStock:      e.IsLowStock(),
	}
}
