// Package po holds the persistence objects: plain row mappings with no
// business logic and no GORM associations, so aggregate boundaries stay in
// the repositories.
package po

import (
	"time"

	"cafeledger/domain/order"
	"cafeledger/domain/shared"
)

// OrderPO order row mapping.
type OrderPO struct {
	ID            int64      `gorm:"primaryKey;autoIncrement"`
	OrderNumber   string     `gorm:"size:32;uniqueIndex;not null"`
	CustomerID    string     `gorm:"size:64;index;not null"`
	Status        string     `gorm:"size:20;index;not null"`
	TotalAmount   int64      `gorm:"not null"`
	TotalCurrency string     `gorm:"size:3;not null"`
	Notes         string     `gorm:"size:500"`
	TableNumber   string     `gorm:"size:10"`
	Version       int        `gorm:"default:0;not null"`
	CreatedAt     time.Time  `gorm:"index;not null"`
	UpdatedAt     time.Time  `gorm:"not null"`
	ConfirmedAt   *time.Time `gorm:""`
	ReadyAt       *time.Time `gorm:""`
	DeliveredAt   *time.Time `gorm:""`
}

func (OrderPO) TableName() string { return "orders" }

// OrderItemPO order line item row mapping. Stores the price snapshot, never
// joined back to products.
type OrderItemPO struct {
	ID            string `gorm:"primaryKey;size:64"`
	OrderID       int64  `gorm:"index;not null"`
	ProductID     int64  `gorm:"not null"`
	ProductName   string `gorm:"size:255;not null"`
	Quantity      int    `gorm:"not null"`
	UnitPrice     int64  `gorm:"not null"`
	UnitCurrency  string `gorm:"size:3;not null"`
	Instructions  string `gorm:"size:500"`
	Subtotal      int64  `gorm:"not null"`
	SubtotalCurr  string `gorm:"size:3;not null"`
}

func (OrderItemPO) TableName() string { return "order_items" }

// OrderItemExtraPO extra selection row mapping, keyed by the owning line
// item.
type OrderItemExtraPO struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	OrderItemID  string `gorm:"size:64;index;not null"`
	ExtraID      int64  `gorm:"not null"`
	ExtraName    string `gorm:"size:255;not null"`
	Quantity     int    `gorm:"not null"`
	UnitPrice    int64  `gorm:"not null"`
	UnitCurrency string `gorm:"size:3;not null"`
	Subtotal     int64  `gorm:"not null"`
	SubtotalCurr string `gorm:"size:3;not null"`
}

func (OrderItemExtraPO) TableName() string { return "order_item_extras" }

// FromOrderDomain converts the aggregate to its row mappings. Item and extra
// rows carry the aggregate's ids so the delete-then-insert save strategy can
// rebuild them.
func FromOrderDomain(o *order.Order) (*OrderPO, []OrderItemPO, []OrderItemExtraPO) {
	orderPO := &OrderPO{
		ID:            o.ID(),
		OrderNumber:   o.OrderNumber(),
		CustomerID:    o.CustomerID(),
		Status:        string(o.Status()),
		TotalAmount:   o.TotalAmount().Amount(),
		TotalCurrency: o.TotalAmount().Currency(),
		Notes:         o.Notes(),
		TableNumber:   o.TableNumber(),
		Version:       o.Version(),
		CreatedAt:     o.CreatedAt(),
		UpdatedAt:     o.UpdatedAt(),
		ConfirmedAt:   o.ConfirmedAt(),
		ReadyAt:       o.ReadyAt(),
		DeliveredAt:   o.DeliveredAt(),
	}

	items := o.Items()
	itemPOs := make([]OrderItemPO, len(items))
	var extraPOs []OrderItemExtraPO
	for i, item := range items {
		itemPOs[i] = OrderItemPO{
			ID:           item.ID(),
			OrderID:      o.ID(),
			ProductID:    item.ProductID(),
			ProductName:  item.ProductName(),
			Quantity:     item.Quantity(),
			UnitPrice:    item.UnitPrice().Amount(),
			UnitCurrency: item.UnitPrice().Currency(),
			Instructions: item.Instructions(),
			Subtotal:     item.Subtotal().Amount(),
			SubtotalCurr: item.Subtotal().Currency(),
		}
		for _, extra := range item.Extras() {
			extraPOs = append(extraPOs, OrderItemExtraPO{
				OrderItemID:  item.ID(),
				ExtraID:      extra.ExtraID(),
				ExtraName:    extra.ExtraName(),
				Quantity:     extra.Quantity(),
				UnitPrice:    extra.UnitPrice().Amount(),
				UnitCurrency: extra.UnitPrice().Currency(),
				Subtotal:     extra.Subtotal().Amount(),
				SubtotalCurr: extra.Subtotal().Currency(),
			})
		}
	}

	return orderPO, itemPOs, extraPOs
}

// ToDomain converts the rows back to the aggregate. extrasByItem groups the
// extra rows by their owning line item id.
func (p *OrderPO) ToDomain(itemPOs []OrderItemPO, extrasByItem map[string][]OrderItemExtraPO) *order.Order {
	items := make([]order.LineItem, len(itemPOs))
	for i, itemPO := range itemPOs {
		extraPOs := extrasByItem[itemPO.ID]
		extras := make([]order.LineExtra, len(extraPOs))
		for j, extraPO := range extraPOs {
			extras[j] = order.RebuildExtra(
				extraPO.ExtraID,
				extraPO.ExtraName,
				extraPO.Quantity,
				shared.NewMoney(extraPO.UnitPrice, extraPO.UnitCurrency),
				shared.NewMoney(extraPO.Subtotal, extraPO.SubtotalCurr),
			)
		}
		items[i] = order.RebuildItemFromDTO(order.ItemReconstructionDTO{
			ID:           itemPO.ID,
			ProductID:    itemPO.ProductID,
			ProductName:  itemPO.ProductName,
			Quantity:     itemPO.Quantity,
			UnitPrice:    shared.NewMoney(itemPO.UnitPrice, itemPO.UnitCurrency),
			Instructions: itemPO.Instructions,
			Extras:       extras,
			Subtotal:     shared.NewMoney(itemPO.Subtotal, itemPO.SubtotalCurr),
		})
	}

	return order.RebuildFromDTO(order.ReconstructionDTO{
		ID:          p.ID,
		OrderNumber: p.OrderNumber,
		CustomerID:  p.CustomerID,
		Status:      order.Status(p.Status),
		Items:       items,
		TotalAmount: shared.NewMoney(p.TotalAmount, p.TotalCurrency),
		Notes:       p.Notes,
		TableNumber: p.TableNumber,
		Version:     p.Version,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		ConfirmedAt: p.ConfirmedAt,
		ReadyAt:     p.ReadyAt,
		DeliveredAt: p.DeliveredAt,
	})
}
