package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/carloszaep/my-prostore/internal/model"
	"github.com/carloszaep/my-prostore/internal/repository"
)

// FulfillmentService owns the order state machine:
// Created → Paid → Shipped (tracking set) → Delivered. Tracking removal
// regresses Shipped to Paid; nothing leaves Delivered.
type FulfillmentService interface {
	// MarkPaid transitions the order to paid and decrements stock per item
	// in one transaction. The order row is locked before the isPaid check,
	// so an order can be marked paid at most once.
	MarkPaid(ctx context.Context, orderID string, result *model.PaymentResult) error
	MarkDelivered(ctx context.Context, orderID string) error
	SetTrackingNumber(ctx context.Context, orderID, trackingNumber string) error
	RemoveTrackingNumber(ctx context.Context, orderID string) error
}

type fulfillmentService struct {
	db          *gorm.DB
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	guestRepo   repository.GuestUserRepository
	email       EmailService
	logger      zerolog.Logger
}

func NewFulfillmentService(
	db *gorm.DB,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	guestRepo repository.GuestUserRepository,
	email EmailService,
	logger zerolog.Logger,
) FulfillmentService {
	return &fulfillmentService{
		db:          db,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		guestRepo:   guestRepo,
		email:       email,
		logger:      logger,
	}
}

func (s *fulfillmentService) MarkPaid(ctx context.Context, orderID string, result *model.PaymentResult) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.FindByIDForUpdate(ctx, tx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if order.IsPaid {
			return ErrAlreadyPaid
		}

		for _, item := range order.Items {
			if err := s.productRepo.DecrementStock(ctx, tx, item.ProductID, item.Qty); err != nil {
				return fmt.Errorf("decrement stock: %w", err)
			}
		}

		now := time.Now()
		return s.orderRepo.Updates(ctx, tx, orderID,
			&model.Order{IsPaid: true, PaidAt: &now, PaymentResult: result},
			[]string{"is_paid", "paid_at", "payment_result"})
	})
	if err != nil {
		return err
	}

	// receipt is best-effort, payment already committed
	s.notify(ctx, orderID, func(name, email string, order *model.Order) error {
		return s.email.SendPurchaseReceipt(name, email, order)
	})

	return nil
}

func (s *fulfillmentService) MarkDelivered(ctx context.Context, orderID string) error {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return ErrOrderNotFound
	}
	if !order.IsPaid {
		return ErrNotPaid
	}

	now := time.Now()
	return s.orderRepo.Updates(ctx, s.db, orderID,
		&model.Order{IsDelivered: true, DeliveredAt: &now},
		[]string{"is_delivered", "delivered_at"})
}

func (s *fulfillmentService) SetTrackingNumber(ctx context.Context, orderID, trackingNumber string) error {
	if trackingNumber == "" {
		return fmt.Errorf("tracking number is required")
	}

	err := s.orderRepo.Updates(ctx, s.db, orderID,
		&model.Order{TrackingNumber: &trackingNumber},
		[]string{"tracking_number"})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return err
	}

	s.notify(ctx, orderID, func(name, email string, order *model.Order) error {
		return s.email.SendOrderShipped(name, email, order)
	})

	return nil
}

func (s *fulfillmentService) RemoveTrackingNumber(ctx context.Context, orderID string) error {
	// zero values under Select clear tracking and regress delivered
	err := s.orderRepo.Updates(ctx, s.db, orderID, &model.Order{},
		[]string{"tracking_number", "is_delivered", "delivered_at"})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrOrderNotFound
	}

	return err
}

// notify resolves the order's recipient (account holder or guest) and sends
// fire-and-forget; failures are logged, never surfaced.
func (s *fulfillmentService) notify(ctx context.Context, orderID string, send func(name, email string, order *model.Order) error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		s.logger.Warn().Err(err).Str("order_id", orderID).Msg("load order for notification")
		return
	}

	name, email := s.recipient(ctx, order)
	if email == "" {
		s.logger.Warn().Str("order_id", orderID).Msg("order has no notification recipient")
		return
	}

	if err := send(name, email, order); err != nil {
		s.logger.Warn().Err(err).Str("order_id", orderID).Msg("send order email")
	}
}

func (s *fulfillmentService) recipient(ctx context.Context, order *model.Order) (string, string) {
	if order.UserID != nil {
		if user, err := s.userRepo.FindByID(ctx, *order.UserID); err == nil {
			return user.Name, user.Email
		}
	}
	if order.GuestID != nil {
		if guest, err := s.guestRepo.FindByID(ctx, *order.GuestID); err == nil {
			return guest.Name, guest.Email
		}
	}

	return order.ShippingAddress.FullName, order.ShippingAddress.GuestEmail
}
