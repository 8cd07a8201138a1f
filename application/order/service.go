/*
Package order implements the order use cases: placement with price
snapshotting and availability checks, the status transitions with their stock
and loyalty side effects, and the staff-facing queries. Status transitions
run inside a unit of work so an order update, its stock movements and any
loyalty credit commit or roll back as one.
*/
package order

import (
	"context"
	"fmt"
	"time"

	"cafeledger/domain/catalog"
	"cafeledger/domain/order"
	"cafeledger/domain/shared"
	"cafeledger/domain/stock"

	loyaltyapp "cafeledger/application/loyalty"

	"go.uber.org/zap"
)

// Service exposes the order application operations.
type Service struct {
	orders        order.Repository
	products      catalog.ProductRepository
	extras        catalog.ExtraRepository
	productExtras catalog.ProductExtraRepository
	ledger        *stock.Ledger
	loyalty       *loyaltyapp.Service
	uowFactory    shared.UnitOfWorkFactory
	logger        *zap.Logger
}

// NewService wires the order service.
func NewService(
	orders order.Repository,
	products catalog.ProductRepository,
	extras catalog.ExtraRepository,
	productExtras catalog.ProductExtraRepository,
	ledger *stock.Ledger,
	loyalty *loyaltyapp.Service,
	uowFactory shared.UnitOfWorkFactory,
	logger *zap.Logger,
) *Service {
	return &Service{
		orders:        orders,
		products:      products,
		extras:        extras,
		productExtras: productExtras,
		ledger:        ledger,
		loyalty:       loyalty,
		uowFactory:    uowFactory,
		logger:        logger,
	}
}

// CreateOrderCommand is the placement request.
type CreateOrderCommand struct {
	CustomerID  string
	Notes       string
	TableNumber string
	Items       []CreateOrderItem
}

// CreateOrderItem is one requested line item.
type CreateOrderItem struct {
	ProductID    int64
	Quantity     int
	Instructions string
	Extras       []CreateOrderExtra
}

// CreateOrderExtra is one requested extra on a line item.
type CreateOrderExtra struct {
	ExtraID  int64
	Quantity int
}

// OrderResult is the read model of an order.
type OrderResult struct {
	ID          int64        `json:"id"`
	OrderNumber string       `json:"order_number"`
	CustomerID  string       `json:"customer_id"`
	Status      string       `json:"status"`
	TotalAmount string       `json:"total_amount"`
	Notes       string       `json:"notes,omitempty"`
	TableNumber string       `json:"table_number,omitempty"`
	Items       []ItemResult `json:"items"`
	CreatedAt   string       `json:"created_at"`
	ConfirmedAt *string      `json:"confirmed_at,omitempty"`
	ReadyAt     *string      `json:"ready_at,omitempty"`
	DeliveredAt *string      `json:"delivered_at,omitempty"`
}

// ItemResult is the read model of one line item.
type ItemResult struct {
	ProductID    int64         `json:"product_id"`
	ProductName  string        `json:"product_name"`
	Quantity     int           `json:"quantity"`
	UnitPrice    string        `json:"unit_price"`
	Instructions string        `json:"instructions,omitempty"`
	Subtotal     string        `json:"subtotal"`
	Extras       []ExtraResult `json:"extras,omitempty"`
}

// ExtraResult is the read model of one extra selection.
type ExtraResult struct {
	ExtraID   int64  `json:"extra_id"`
	ExtraName string `json:"extra_name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Subtotal  string `json:"subtotal"`
}

// CreateOrder places a pending order. Catalog prices are snapshotted into
// the line items, the allow-list and per-line caps gate the extras, and
// availability is verified for every item — but no stock moves until the
// order is confirmed.
func (s *Service) CreateOrder(ctx context.Context, cmd CreateOrderCommand) (*OrderResult, error) {
	if len(cmd.Items) == 0 {
		return nil, order.ErrEmptyOrderItems
	}

	items := make([]order.LineItem, 0, len(cmd.Items))
	for _, itemCmd := range cmd.Items {
		item, err := s.assembleLineItem(ctx, itemCmd)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	o, err := order.NewOrder(cmd.CustomerID, items, cmd.Notes, cmd.TableNumber)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.New()
	err = uow.Execute(ctx, func(txCtx context.Context) error {
		uow.RegisterNew(o)
		return s.orders.Save(txCtx, o)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order created",
		zap.String("order_number", o.OrderNumber()),
		zap.String("customer_id", o.CustomerID()),
		zap.String("total", o.TotalAmount().String()),
		zap.Int("items", len(items)))
	return toOrderResult(o), nil
}

// assembleLineItem resolves one requested item against the catalog: product
// availability and stock, extra allow-list, per-line quantity caps, extra
// stock for the multiplied quantity, and the price snapshots.
func (s *Service) assembleLineItem(ctx context.Context, itemCmd CreateOrderItem) (order.LineItem, error) {
	if itemCmd.Quantity <= 0 {
		return order.LineItem{}, order.ErrInvalidQuantity
	}

	product, err := s.products.FindByID(ctx, itemCmd.ProductID)
	if err != nil {
		return order.LineItem{}, err
	}
	if !product.IsAvailable() {
		return order.LineItem{}, shared.NewNotAvailableError("product",
			fmt.Sprintf("product %s is not available", product.Name()))
	}
	if !s.ledger.CheckProductAvailability(product, itemCmd.Quantity) {
		return order.LineItem{}, stock.NewInsufficientStockError(product.Name(), itemCmd.Quantity, product.AvailableStock())
	}

	lineExtras := make([]order.LineExtra, 0, len(itemCmd.Extras))
	for _, extraCmd := range itemCmd.Extras {
		if extraCmd.Quantity <= 0 {
			return order.LineItem{}, order.ErrInvalidQuantity
		}
		extra, err := s.extras.FindByID(ctx, extraCmd.ExtraID)
		if err != nil {
			return order.LineItem{}, err
		}
		if !extra.IsAvailable() {
			return order.LineItem{}, shared.NewNotAvailableError("extra",
				fmt.Sprintf("extra %s is not available", extra.Name()))
		}

		link, err := s.productExtras.FindByProductAndExtra(ctx, product.ID(), extra.ID())
		if err != nil {
			return order.LineItem{}, err
		}
		if link == nil {
			return order.LineItem{}, shared.NewValidationError("order", "extras",
				fmt.Sprintf("extra %s cannot be added to %s", extra.Name(), product.Name()))
		}
		if extraCmd.Quantity > link.MaxQuantity() {
			return order.LineItem{}, shared.NewValidationError("order", "extras",
				fmt.Sprintf("extra %s is limited to %d per item", extra.Name(), link.MaxQuantity()))
		}

		// The extra is consumed per unit of the line item.
		needed := extraCmd.Quantity * itemCmd.Quantity
		if !s.ledger.CheckExtraAvailability(extra, needed) {
			return order.LineItem{}, stock.NewInsufficientStockError(extra.Name(), needed, extra.StockQuantity())
		}

		lineExtra, err := order.NewLineExtra(extra.ID(), extra.Name(), extraCmd.Quantity, extra.Price())
		if err != nil {
			return order.LineItem{}, err
		}
		lineExtras = append(lineExtras, lineExtra)
	}

	return order.NewLineItem(product.ID(), product.Name(), itemCmd.Quantity, product.Price(), itemCmd.Instructions, lineExtras)
}

// UpdateOrderStatus moves an order along the state machine with its side
// effects: confirming deducts stock for every item and extra, cancelling
// after confirmation restores it, delivery credits loyalty points. The order
// is re-read inside the transaction so the transition and its side effects
// apply to current state; a conflicting writer triggers a retry of the whole
// function.
func (s *Service) UpdateOrderStatus(ctx context.Context, orderID int64, newStatus order.Status) (*OrderResult, error) {
	var o *order.Order
	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(txCtx context.Context) error {
		var err error
		o, err = s.orders.FindByID(txCtx, orderID)
		if err != nil {
			return err
		}

		previous := o.Status()
		if err := o.TransitionTo(newStatus); err != nil {
			return err
		}

		switch {
		case newStatus == order.StatusConfirmed:
			if err := s.deductStockForOrder(txCtx, o); err != nil {
				return err
			}
		case newStatus == order.StatusCancelled && stockWasDeducted(previous):
			if err := s.restoreStockForOrder(txCtx, o); err != nil {
				return err
			}
		case newStatus == order.StatusDelivered:
			if _, err := s.loyalty.AwardPointsForOrder(txCtx, uow, o.CustomerID(), o.OrderNumber(), o.ID(), o.TotalAmount()); err != nil {
				return err
			}
		}

		uow.RegisterDirty(o)
		return s.orders.Save(txCtx, o)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order status updated",
		zap.String("order_number", o.OrderNumber()),
		zap.String("status", string(newStatus)))
	return toOrderResult(o), nil
}

// stockWasDeducted reports whether an order in this status holds deducted
// stock. Pending orders have not touched the counters yet.
func stockWasDeducted(status order.Status) bool {
	return status == order.StatusConfirmed || status == order.StatusPreparing
}

// deductStockForOrder takes stock for every item and extra of the order. A
// failure part way through unwinds the deductions already applied, so a
// rejected confirmation never leaves a partial stock movement behind even on
// stores without transactional rollback.
func (s *Service) deductStockForOrder(ctx context.Context, o *order.Order) (err error) {
	var undo []func() error
	defer func() {
		if err == nil {
			return
		}
		for i := len(undo) - 1; i >= 0; i-- {
			if undoErr := undo[i](); undoErr != nil {
				s.logger.Error("failed to unwind stock deduction",
					zap.String("order_number", o.OrderNumber()),
					zap.Error(undoErr))
			}
		}
	}()

	for _, item := range o.Items() {
		product, err := s.products.FindByID(ctx, item.ProductID())
		if err != nil {
			return err
		}
		qty := item.Quantity()
		if err := s.ledger.DeductProductStock(ctx, product, qty); err != nil {
			return err
		}
		undo = append(undo, func() error {
			return s.ledger.RestoreProductStock(ctx, product, qty)
		})
		for _, lineExtra := range item.Extras() {
			extra, err := s.extras.FindByID(ctx, lineExtra.ExtraID())
			if err != nil {
				return err
			}
			needed := lineExtra.Quantity() * item.Quantity()
			if err := s.ledger.DeductExtraStock(ctx, extra, needed); err != nil {
				return err
			}
			undo = append(undo, func() error {
				return s.ledger.RestoreExtraStock(ctx, extra, needed)
			})
		}
	}
	return nil
}

func (s *Service) restoreStockForOrder(ctx context.Context, o *order.Order) error {
	for _, item := range o.Items() {
		product, err := s.products.FindByID(ctx, item.ProductID())
		if err != nil {
			return err
		}
		if err := s.ledger.RestoreProductStock(ctx, product, item.Quantity()); err != nil {
			return err
		}
		for _, lineExtra := range item.Extras() {
			extra, err := s.extras.FindByID(ctx, lineExtra.ExtraID())
			if err != nil {
				return err
			}
			if err := s.ledger.RestoreExtraStock(ctx, extra, lineExtra.Quantity()*item.Quantity()); err != nil {
				return err
			}
		}
	}
	return nil
}

// CancelOrder is UpdateOrderStatus sugar for the cancellation path.
func (s *Service) CancelOrder(ctx context.Context, orderID int64) (*OrderResult, error) {
	return s.UpdateOrderStatus(ctx, orderID, order.StatusCancelled)
}

// GetOrder loads one order with its items.
func (s *Service) GetOrder(ctx context.Context, orderID int64) (*OrderResult, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return toOrderResult(o), nil
}

// ListActive lists orders that still need staff attention, oldest first.
func (s *Service) ListActive(ctx context.Context) ([]*OrderResult, error) {
	orders, err := s.orders.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	return toOrderResults(orders), nil
}

// ListToday lists orders created since local midnight, newest first.
func (s *Service) ListToday(ctx context.Context) ([]*OrderResult, error) {
	orders, err := s.orders.FindToday(ctx)
	if err != nil {
		return nil, err
	}
	return toOrderResults(orders), nil
}

// ListByCustomer lists a customer's orders, newest first.
func (s *Service) ListByCustomer(ctx context.Context, customerID string) ([]*OrderResult, error) {
	orders, err := s.orders.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return toOrderResults(orders), nil
}

// ListByStatus lists orders in one status, newest first.
func (s *Service) ListByStatus(ctx context.Context, rawStatus string) ([]*OrderResult, error) {
	status, err := order.ParseStatus(rawStatus)
	if err != nil {
		return nil, shared.NewValidationError("order", "status", err.Error())
	}
	orders, err := s.orders.FindByStatus(ctx, status)
	if err != nil {
		return nil, err
	}
	return toOrderResults(orders), nil
}

// DeleteOrder removes a finished order. Only terminal orders can be deleted;
// active orders must be cancelled first so their stock side effects are
// unwound through the state machine.
func (s *Service) DeleteOrder(ctx context.Context, orderID int64) error {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if !o.Status().IsTerminal() {
		return shared.NewConflictError("order",
			fmt.Sprintf("order %s is still %s; cancel it before deleting", o.OrderNumber(), o.Status()))
	}
	if err := s.orders.Delete(ctx, orderID); err != nil {
		return err
	}
	s.logger.Info("order deleted",
		zap.String("order_number", o.OrderNumber()))
	return nil
}

const timeLayout = "2006-01-02 15:04:05"

func toOrderResult(o *order.Order) *OrderResult {
	items := o.Items()
	result := &OrderResult{
		ID:          o.ID(),
		OrderNumber: o.OrderNumber(),
		CustomerID:  o.CustomerID(),
		Status:      string(o.Status()),
		TotalAmount: o.TotalAmount().String(),
		Notes:       o.Notes(),
		TableNumber: o.TableNumber(),
		Items:       make([]ItemResult, len(items)),
		CreatedAt:   o.CreatedAt().Format(timeLayout),
		ConfirmedAt: formatTime(o.ConfirmedAt()),
		ReadyAt:     formatTime(o.ReadyAt()),
		DeliveredAt: formatTime(o.DeliveredAt()),
	}
	for i, item := range items {
		extras := item.Extras()
		itemResult := ItemResult{
			ProductID:    item.ProductID(),
			ProductName:  item.ProductName(),
			Quantity:     item.Quantity(),
			UnitPrice:    item.UnitPrice().String(),
			Instructions: item.Instructions(),
			Subtotal:     item.Subtotal().String(),
		}
		if len(extras) > 0 {
			itemResult.Extras = make([]ExtraResult, len(extras))
			for j, e := range extras {
				itemResult.Extras[j] = ExtraResult{
					ExtraID:   e.ExtraID(),
					ExtraName: e.ExtraName(),
					Quantity:  e.Quantity(),
					UnitPrice: e.UnitPrice().String(),
					Subtotal:  e.Subtotal().String(),
				}
			}
		}
		result.Items[i] = itemResult
	}
	return result
}

func toOrderResults(orders []*order.Order) []*OrderResult {
	results := make([]*OrderResult, len(orders))
	for i, o := range orders {
		results[i] = toOrderResult(o)
	}
	return results
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(timeLayout)
	return &s
}
