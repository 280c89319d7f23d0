package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/carloszaep/my-prostore/internal/model"
)

type SalesEntry struct {
	Month      string          `json:"month"`
	TotalSales decimal.Decimal `json:"totalSales"`
}

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *model.Order) error
	CreateOrderItems(ctx context.Context, tx *gorm.DB, items []model.OrderItem) error
	FindByID(ctx context.Context, orderID string) (*model.Order, error)
	// FindByIDForUpdate locks the order row inside tx so concurrent paid
	// transitions serialize on it.
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, orderID string) (*model.Order, error)
	// Updates writes the named columns from values. Updates must go through
	// a typed struct: gorm's json serializer only runs on struct-field
	// writes, a map value would hand the raw struct to the driver.
	Updates(ctx context.Context, tx *gorm.DB, orderID string, values *model.Order, columns []string) error
	ListByUser(ctx context.Context, userID string, page, limit int) ([]*model.Order, int64, error)
	ListAll(ctx context.Context, userQuery string, page, limit int) ([]*model.Order, int64, error)
	Latest(ctx context.Context, limit int) ([]*model.Order, error)
	Delete(ctx context.Context, orderID string) error
	// DeleteUnpaidBefore removes unpaid orders created before the cutoff and
	// reports how many went.
	DeleteUnpaidBefore(ctx context.Context, cutoff time.Time) (int64, error)
	Count(ctx context.Context) (int64, error)
	TotalSales(ctx context.Context) (decimal.Decimal, error)
	MonthlySales(ctx context.Context) ([]SalesEntry, error)
	// HasDeliveredProduct reports whether the user has a delivered order
	// containing the product; gates verified-purchase reviews.
	HasDeliveredProduct(ctx context.Context, userID, productID string) (bool, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{db: db}
}

func (r *orderRepoImpl) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return tx.WithContext(ctx).Omit("Items").Create(order).Error
}

func (r *orderRepoImpl) CreateOrderItems(ctx context.Context, tx *gorm.DB, items []model.OrderItem) error {
	return tx.WithContext(ctx).Create(&items).Error
}

func (r *orderRepoImpl) FindByID(ctx context.Context, orderID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, orderID string) (*model.Order, error) {
	// sqlite locks the whole database per write transaction and has no
	// FOR UPDATE syntax
	q := tx.WithContext(ctx)
	if tx.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var order model.Order
	err := q.Where("id = ?", orderID).First(&order).Error
	if err != nil {
		return nil, err
	}

	err = tx.WithContext(ctx).Where("order_id = ?", orderID).Find(&order.Items).Error
	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) Updates(ctx context.Context, tx *gorm.DB, orderID string, values *model.Order, columns []string) error {
	result := tx.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Select(columns).
		Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *orderRepoImpl) ListByUser(ctx context.Context, userID string, page, limit int) ([]*model.Order, int64, error) {
	db := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("user_id = ? AND is_paid = ?", userID, true)

	var count int64
	if err := db.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var orders []*model.Order
	err := db.Order("created_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}

	return orders, count, nil
}

func (r *orderRepoImpl) ListAll(ctx context.Context, userQuery string, page, limit int) ([]*model.Order, int64, error) {
	db := r.db.WithContext(ctx).Model(&model.Order{})
	if userQuery != "" && userQuery != "all" {
		db = db.Joins("JOIN users ON users.id = orders.user_id").
			Where("users.name LIKE ?", "%"+userQuery+"%")
	}

	var count int64
	if err := db.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var orders []*model.Order
	err := db.Order("orders.created_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}

	return orders, count, nil
}

func (r *orderRepoImpl) Latest(ctx context.Context, limit int) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Order("created_at desc").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepoImpl) Delete(ctx context.Context, orderID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", orderID).Delete(&model.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Order{}, "id = ?", orderID).Error
	})
}

func (r *orderRepoImpl) DeleteUnpaidBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []string
		err := tx.Model(&model.Order{}).
			Where("is_paid = ? AND created_at < ?", false, cutoff).
			Pluck("id", &ids).Error
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}

		if err := tx.Where("order_id IN ?", ids).Delete(&model.OrderItem{}).Error; err != nil {
			return err
		}

		result := tx.Where("id IN ?", ids).Delete(&model.Order{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected
		return nil
	})

	return deleted, err
}

func (r *orderRepoImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).Count(&count).Error
	return count, err
}

func (r *orderRepoImpl) TotalSales(ctx context.Context) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("COALESCE(SUM(total_price), 0) as total").
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}

	return row.Total, nil
}

func (r *orderRepoImpl) MonthlySales(ctx context.Context) ([]SalesEntry, error) {
	monthExpr := "to_char(created_at, 'MM/YY')"
	if r.db.Dialector.Name() == "sqlite" {
		monthExpr = "strftime('%m/%y', created_at)"
	}

	var entries []SalesEntry
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select(monthExpr + " as month, SUM(total_price) as total_sales").
		Group("month").
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *orderRepoImpl) HasDeliveredProduct(ctx context.Context, userID, productID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Joins("JOIN order_items ON order_items.order_id = orders.id").
		Where("orders.user_id = ? AND orders.is_delivered = ? AND order_items.product_id = ?",
			userID, true, productID).
		Count(&count).Error

	return count > 0, err
}
