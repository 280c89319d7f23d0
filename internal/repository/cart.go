package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/carloszaep/my-prostore/internal/model"
)

type CartRepository interface {
	Create(ctx context.Context, cart *model.Cart) error
	FindBySessionID(ctx context.Context, sessionCartID string) (*model.Cart, error)
	FindByUserID(ctx context.Context, userID string) (*model.Cart, error)
	// SaveItems replaces the cart's line items and totals in one transaction.
	SaveItems(ctx context.Context, cart *model.Cart, items []model.CartItem) error
	// Clear zeroes the cart inside the caller's transaction: items deleted,
	// all derived totals reset.
	Clear(ctx context.Context, tx *gorm.DB, cartID string) error
	// AssignUser moves the cart to a signed-in user and drops any cart the
	// user had before.
	AssignUser(ctx context.Context, cartID, userID string) error
	AssignGuest(ctx context.Context, cartID, guestID string) error
	Delete(ctx context.Context, cartID string) error
}

type cartRepoImpl struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepoImpl{db: db}
}

func (r *cartRepoImpl) Create(ctx context.Context, cart *model.Cart) error {
	return r.db.WithContext(ctx).Create(cart).Error
}

func (r *cartRepoImpl) FindBySessionID(ctx context.Context, sessionCartID string) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("session_cart_id = ?", sessionCartID).
		First(&cart).Error
	if err != nil {
		return nil, err
	}

	return &cart, nil
}

func (r *cartRepoImpl) FindByUserID(ctx context.Context, userID string) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		return nil, err
	}

	return &cart, nil
}

func (r *cartRepoImpl) SaveItems(ctx context.Context, cart *model.Cart, items []model.CartItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}

		for i := range items {
			items[i].ID = 0
			items[i].CartID = cart.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}

		return tx.Model(&model.Cart{}).
			Where("id = ?", cart.ID).
			Updates(map[string]interface{}{
				"items_price":    cart.ItemsPrice,
				"shipping_price": cart.ShippingPrice,
				"tax_price":      cart.TaxPrice,
				"total_price":    cart.TotalPrice,
			}).Error
	})
}

func (r *cartRepoImpl) Clear(ctx context.Context, tx *gorm.DB, cartID string) error {
	if err := tx.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&model.CartItem{}).Error; err != nil {
		return err
	}

	zero := decimal.Zero
	return tx.WithContext(ctx).Model(&model.Cart{}).
		Where("id = ?", cartID).
		Updates(map[string]interface{}{
			"items_price":    zero,
			"shipping_price": zero,
			"tax_price":      zero,
			"total_price":    zero,
		}).Error
}

func (r *cartRepoImpl) AssignUser(ctx context.Context, cartID, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stale []model.Cart
		if err := tx.Where("user_id = ? AND id <> ?", userID, cartID).Find(&stale).Error; err != nil {
			return err
		}
		for _, c := range stale {
			if err := tx.Where("cart_id = ?", c.ID).Delete(&model.CartItem{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&model.Cart{}, "id = ?", c.ID).Error; err != nil {
				return err
			}
		}

		return tx.Model(&model.Cart{}).
			Where("id = ?", cartID).
			Updates(map[string]interface{}{"user_id": userID, "guest_id": nil}).Error
	})
}

func (r *cartRepoImpl) AssignGuest(ctx context.Context, cartID, guestID string) error {
	return r.db.WithContext(ctx).Model(&model.Cart{}).
		Where("id = ?", cartID).
		Update("guest_id", guestID).Error
}

func (r *cartRepoImpl) Delete(ctx context.Context, cartID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cartID).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Cart{}, "id = ?", cartID).Error
	})
}
