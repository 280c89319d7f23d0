package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/carloszaep/my-prostore/internal/config"
	"github.com/carloszaep/my-prostore/internal/model"
	"github.com/carloszaep/my-prostore/internal/repository"
)

type CheckoutService interface {
	// PlaceOrder turns the session's cart into an order. It requires a
	// non-empty cart, a shipping address, and a payment method when more
	// than one is configured; order + items + cart zeroing commit in one
	// transaction.
	PlaceOrder(ctx context.Context, userID, sessionCartID string) (*model.Order, error)
}

type checkoutService struct {
	db        *gorm.DB
	cartRepo  repository.CartRepository
	userRepo  repository.UserRepository
	guestRepo repository.GuestUserRepository
	orderRepo repository.OrderRepository
	store     config.Store
}

func NewCheckoutService(
	db *gorm.DB,
	cartRepo repository.CartRepository,
	userRepo repository.UserRepository,
	guestRepo repository.GuestUserRepository,
	orderRepo repository.OrderRepository,
	store config.Store,
) CheckoutService {
	return &checkoutService{
		db:        db,
		cartRepo:  cartRepo,
		userRepo:  userRepo,
		guestRepo: guestRepo,
		orderRepo: orderRepo,
		store:     store,
	}
}

func (s *checkoutService) PlaceOrder(ctx context.Context, userID, sessionCartID string) (*model.Order, error) {
	cart, err := s.resolveCart(ctx, userID, sessionCartID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrCartEmpty
	}

	var (
		address       *model.ShippingAddress
		paymentMethod string
		guestID       *string
	)
	if userID != "" {
		user, err := s.userRepo.FindByID(ctx, userID)
		if err != nil {
			return nil, ErrUserNotFound
		}
		address = user.Address
		paymentMethod = user.PaymentMethod
	} else {
		if cart.GuestID == nil {
			return nil, ErrNoShippingAddress
		}
		guest, err := s.guestRepo.FindByID(ctx, *cart.GuestID)
		if err != nil {
			return nil, ErrUserNotFound
		}
		address = guest.Address
		paymentMethod = guest.PaymentMethod
		guestID = cart.GuestID
	}

	if address == nil {
		return nil, ErrNoShippingAddress
	}
	if paymentMethod == "" {
		if len(s.store.PaymentMethods) > 1 {
			return nil, ErrNoPaymentMethod
		}
		paymentMethod = s.store.DefaultPaymentMethod
	}

	order := &model.Order{
		ShippingAddress: *address,
		PaymentMethod:   paymentMethod,
		ItemsPrice:      cart.ItemsPrice,
		ShippingPrice:   cart.ShippingPrice,
		TaxPrice:        cart.TaxPrice,
		TotalPrice:      cart.TotalPrice,
	}
	if userID != "" {
		order.UserID = &userID
	}
	order.GuestID = guestID

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		items := make([]model.OrderItem, 0, len(cart.Items))
		for _, it := range cart.Items {
			items = append(items, model.OrderItem{
				OrderID:   order.ID,
				ProductID: it.ProductID,
				Name:      it.Name,
				Slug:      it.Slug,
				Image:     it.Image,
				Size:      it.Size,
				Price:     it.Price,
				Qty:       it.Qty,
			})
		}
		if err := s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
			return fmt.Errorf("create order items: %w", err)
		}
		order.Items = items

		return s.cartRepo.Clear(ctx, tx, cart.ID)
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

func (s *checkoutService) resolveCart(ctx context.Context, userID, sessionCartID string) (*model.Cart, error) {
	cart, err := s.cartRepo.FindBySessionID(ctx, sessionCartID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if userID != "" {
		if cart, err := s.cartRepo.FindByUserID(ctx, userID); err == nil {
			return cart, nil
		}
	}

	return nil, ErrCartEmpty
}
