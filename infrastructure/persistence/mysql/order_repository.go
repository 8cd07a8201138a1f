// Package mysql implements the repositories over GORM. Repositories manage
// their aggregate's rows by hand; GORM associations are not used so the
// aggregate boundary stays in this layer, not in the schema mapping.
package mysql

import (
	"context"
	"errors"
	"time"

	"cafeledger/domain/order"
	"cafeledger/infrastructure/persistence"
	"cafeledger/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
)

// OrderRepository GORM implementation of the order repository.
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates the order repository.
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// getDB returns the transaction from context if available, otherwise the
// default db handle.
func (r *OrderRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// Save inserts a new order or applies a version-guarded update. Line items
// and extras are replaced wholesale (delete then insert); they are immutable
// after placement so this only ever rewrites identical rows.
func (r *OrderRepository) Save(ctx context.Context, o *order.Order) error {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return r.saveWithTx(tx, o)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.saveWithTx(tx, o)
	})
}

func (r *OrderRepository) saveWithTx(tx *gorm.DB, o *order.Order) error {
	orderPO, itemPOs, extraPOs := po.FromOrderDomain(o)

	if o.IsNew() {
		if err := tx.Create(orderPO).Error; err != nil {
			return err
		}
		o.AssignID(orderPO.ID)
		for i := range itemPOs {
			itemPOs[i].OrderID = orderPO.ID
		}
		if err := r.insertLines(tx, itemPOs, extraPOs); err != nil {
			return err
		}
		o.ClearNewFlag()
		return nil
	}

	expectedVersion := o.Version()
	result := tx.Model(&po.OrderPO{}).
		Where("id = ? AND version = ?", o.ID(), expectedVersion).
		Updates(map[string]interface{}{
			"status":       orderPO.Status,
			"notes":        orderPO.Notes,
			"table_number": orderPO.TableNumber,
			"version":      expectedVersion + 1,
			"updated_at":   orderPO.UpdatedAt,
			"confirmed_at": orderPO.ConfirmedAt,
			"ready_at":     orderPO.ReadyAt,
			"delivered_at": orderPO.DeliveredAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&po.OrderPO{}).Where("id = ?", o.ID()).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return order.NewOrderNotFoundError(o.ID())
		}
		return order.NewConcurrentModificationError(o.OrderNumber())
	}

	itemIDs := make([]string, len(itemPOs))
	for i, itemPO := range itemPOs {
		itemIDs[i] = itemPO.ID
	}
	if len(itemIDs) > 0 {
		if err := tx.Where("order_item_id IN ?", itemIDs).Delete(&po.OrderItemExtraPO{}).Error; err != nil {
			return err
		}
	}
	if err := tx.Where("order_id = ?", o.ID()).Delete(&po.OrderItemPO{}).Error; err != nil {
		return err
	}
	if err := r.insertLines(tx, itemPOs, extraPOs); err != nil {
		return err
	}

	o.IncrementVersionForSave()
	return nil
}

func (r *OrderRepository) insertLines(tx *gorm.DB, itemPOs []po.OrderItemPO, extraPOs []po.OrderItemExtraPO) error {
	if len(itemPOs) > 0 {
		if err := tx.Create(&itemPOs).Error; err != nil {
			return err
		}
	}
	if len(extraPOs) > 0 {
		if err := tx.Create(&extraPOs).Error; err != nil {
			return err
		}
	}
	return nil
}

// FindByID loads the aggregate with its items and extras.
func (r *OrderRepository) FindByID(ctx context.Context, id int64) (*order.Order, error) {
	db := r.getDB(ctx)

	var orderPO po.OrderPO
	result := db.First(&orderPO, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, order.NewOrderNotFoundError(id)
		}
		return nil, result.Error
	}

	return r.loadAggregate(db, &orderPO)
}

// loadAggregate fetches the line item and extra rows for one order row.
// Preload is deliberately not used; the aggregate is assembled by hand.
func (r *OrderRepository) loadAggregate(db *gorm.DB, orderPO *po.OrderPO) (*order.Order, error) {
	var itemPOs []po.OrderItemPO
	if err := db.Where("order_id = ?", orderPO.ID).Find(&itemPOs).Error; err != nil {
		return nil, err
	}

	extrasByItem := make(map[string][]po.OrderItemExtraPO)
	if len(itemPOs) > 0 {
		itemIDs := make([]string, len(itemPOs))
		for i, itemPO := range itemPOs {
			itemIDs[i] = itemPO.ID
		}
		var extraPOs []po.OrderItemExtraPO
		if err := db.Where("order_item_id IN ?", itemIDs).Find(&extraPOs).Error; err != nil {
			return nil, err
		}
		for _, extraPO := range extraPOs {
			extrasByItem[extraPO.OrderItemID] = append(extrasByItem[extraPO.OrderItemID], extraPO)
		}
	}

	return orderPO.ToDomain(itemPOs, extrasByItem), nil
}

func (r *OrderRepository) loadAll(db *gorm.DB, orderPOs []po.OrderPO) ([]*order.Order, error) {
	orders := make([]*order.Order, len(orderPOs))
	for i := range orderPOs {
		o, err := r.loadAggregate(db, &orderPOs[i])
		if err != nil {
			return nil, err
		}
		orders[i] = o
	}
	return orders, nil
}

// FindByCustomer lists a customer's orders, newest first.
func (r *OrderRepository) FindByCustomer(ctx context.Context, customerID string) ([]*order.Order, error) {
	db := r.getDB(ctx)
	var orderPOs []po.OrderPO
	if err := db.Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&orderPOs).Error; err != nil {
		return nil, err
	}
	return r.loadAll(db, orderPOs)
}

// FindByStatus lists orders in one status, newest first.
func (r *OrderRepository) FindByStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	db := r.getDB(ctx)
	var orderPOs []po.OrderPO
	if err := db.Where("status = ?", string(status)).
		Order("created_at DESC").
		Find(&orderPOs).Error; err != nil {
		return nil, err
	}
	return r.loadAll(db, orderPOs)
}

// FindActive lists orders in the non-terminal statuses, oldest first, so the
// barista queue shows the longest-waiting order on top.
func (r *OrderRepository) FindActive(ctx context.Context) ([]*order.Order, error) {
	active := order.ActiveStatuses()
	statuses := make([]string, 0, len(active))
	for _, s := range active {
		statuses = append(statuses, string(s))
	}

	db := r.getDB(ctx)
	var orderPOs []po.OrderPO
	if err := db.Where("status IN ?", statuses).
		Order("created_at ASC").
		Find(&orderPOs).Error; err != nil {
		return nil, err
	}
	return r.loadAll(db, orderPOs)
}

// FindToday lists orders created since local midnight, newest first.
func (r *OrderRepository) FindToday(ctx context.Context) ([]*order.Order, error) {
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	db := r.getDB(ctx)
	var orderPOs []po.OrderPO
	if err := db.Where("created_at >= ?", midnight).
		Order("created_at DESC").
		Find(&orderPOs).Error; err != nil {
		return nil, err
	}
	return r.loadAll(db, orderPOs)
}

// Delete removes an order with its items and extras.
func (r *OrderRepository) Delete(ctx context.Context, id int64) error {
	db := r.getDB(ctx)

	var itemPOs []po.OrderItemPO
	if err := db.Where("order_id = ?", id).Find(&itemPOs).Error; err != nil {
		return err
	}
	if len(itemPOs) > 0 {
		itemIDs := make([]string, len(itemPOs))
		for i, itemPO := range itemPOs {
			itemIDs[i] = itemPO.ID
		}
		if err := db.Where("order_item_id IN ?", itemIDs).Delete(&po.OrderItemExtraPO{}).Error; err != nil {
			return err
		}
		if err := db.Where("order_id = ?", id).Delete(&po.OrderItemPO{}).Error; err != nil {
			return err
		}
	}

	result := db.Delete(&po.OrderPO{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return order.NewOrderNotFoundError(id)
	}
	return nil
}

var _ order.Repository = (*OrderRepository)(nil)
