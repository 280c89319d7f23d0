package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v81"
	"gorm.io/gorm"

	"github.com/carloszaep/my-prostore/internal/client"
	"github.com/carloszaep/my-prostore/internal/model"
	"github.com/carloszaep/my-prostore/internal/repository"
)

type PaymentService interface {
	// CreatePayPalOrder opens a provider order for the internal order's
	// total and stores its id as the pending payment result.
	CreatePayPalOrder(ctx context.Context, orderID string) (string, error)
	// ApprovePayPalOrder captures an approved provider order. The capture
	// only counts when the provider order id matches the stored pending id
	// and the captured status is COMPLETED; this guards against
	// client-side tampering.
	ApprovePayPalOrder(ctx context.Context, orderID, providerOrderID string) error
	// CreateStripeIntent opens a payment intent for the order total and
	// returns the client secret for the front end.
	CreateStripeIntent(ctx context.Context, orderID string) (string, error)
	// HandleStripeWebhook reconciles payment_intent.succeeded events into
	// the paid transition, deduplicated by event id.
	HandleStripeWebhook(ctx context.Context, payload []byte, signature string) error
}

type paymentService struct {
	db           *gorm.DB
	paypalClient client.PaypalClient
	stripeClient client.StripeClient
	orderRepo    repository.OrderRepository
	webhookRepo  repository.WebhookEventRepository
	fulfillment  FulfillmentService
	logger       zerolog.Logger
}

func NewPaymentService(
	db *gorm.DB,
	paypalClient client.PaypalClient,
	stripeClient client.StripeClient,
	orderRepo repository.OrderRepository,
	webhookRepo repository.WebhookEventRepository,
	fulfillment FulfillmentService,
	logger zerolog.Logger,
) PaymentService {
	return &paymentService{
		db:           db,
		paypalClient: paypalClient,
		stripeClient: stripeClient,
		orderRepo:    orderRepo,
		webhookRepo:  webhookRepo,
		fulfillment:  fulfillment,
		logger:       logger,
	}
}

func (s *paymentService) CreatePayPalOrder(ctx context.Context, orderID string) (string, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return "", ErrOrderNotFound
	}
	if order.IsPaid {
		return "", ErrAlreadyPaid
	}

	providerOrder, err := s.paypalClient.CreateOrder(ctx, order.TotalPrice)
	if err != nil {
		return "", fmt.Errorf("paypal create order: %w", err)
	}

	pending := &model.PaymentResult{ID: providerOrder.ID}
	err = s.orderRepo.Updates(ctx, s.db, orderID,
		&model.Order{PaymentResult: pending}, []string{"payment_result"})
	if err != nil {
		return "", fmt.Errorf("store pending payment result: %w", err)
	}

	return providerOrder.ID, nil
}

func (s *paymentService) ApprovePayPalOrder(ctx context.Context, orderID, providerOrderID string) error {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return ErrOrderNotFound
	}

	captured, err := s.paypalClient.CaptureOrder(ctx, providerOrderID)
	if err != nil {
		return fmt.Errorf("paypal capture: %w", err)
	}

	if order.PaymentResult == nil ||
		captured.ID != order.PaymentResult.ID ||
		captured.Status != "COMPLETED" {
		return ErrPaymentMismatch
	}

	result := &model.PaymentResult{
		ID:           captured.ID,
		Status:       captured.Status,
		EmailAddress: captured.Payer.Email,
		PricePaid:    capturedAmount(captured),
	}

	return s.fulfillment.MarkPaid(ctx, orderID, result)
}

func (s *paymentService) CreateStripeIntent(ctx context.Context, orderID string) (string, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return "", ErrOrderNotFound
	}
	if order.IsPaid {
		return "", ErrAlreadyPaid
	}

	intent, err := s.stripeClient.CreatePaymentIntent(ctx, orderID, order.TotalPrice)
	if err != nil {
		return "", err
	}

	pending := &model.PaymentResult{ID: intent.ID}
	err = s.orderRepo.Updates(ctx, s.db, orderID,
		&model.Order{PaymentResult: pending}, []string{"payment_result"})
	if err != nil {
		return "", fmt.Errorf("store pending payment result: %w", err)
	}

	return intent.ClientSecret, nil
}

func (s *paymentService) HandleStripeWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.stripeClient.ConstructWebhookEvent(payload, signature)
	if err != nil {
		return err
	}

	processed, err := s.webhookRepo.IsProcessed(ctx, event.ID)
	if err != nil {
		return err
	}
	if processed {
		return nil
	}

	switch event.Type {
	case "payment_intent.succeeded":
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return fmt.Errorf("decode payment intent: %w", err)
		}

		orderID := intent.Metadata["orderId"]
		if orderID == "" {
			return fmt.Errorf("payment intent %s has no orderId metadata", intent.ID)
		}

		result := &model.PaymentResult{
			ID:           intent.ID,
			Status:       "COMPLETED",
			EmailAddress: intent.ReceiptEmail,
			PricePaid:    decimal.NewFromInt(intent.AmountReceived).Div(decimal.NewFromInt(100)).StringFixed(2),
		}

		err := s.fulfillment.MarkPaid(ctx, orderID, result)
		if err != nil && !errors.Is(err, ErrAlreadyPaid) {
			return err
		}
	default:
		s.logger.Debug().Str("event_type", string(event.Type)).Msg("ignoring stripe event")
	}

	return s.webhookRepo.MarkProcessed(ctx, s.db, event.ID, string(event.Type))
}

func capturedAmount(result *model.PaypalOrderResult) string {
	for _, pu := range result.PurchaseUnits {
		for _, c := range pu.Payments.Captures {
			return c.Amount.Value
		}
	}
	return ""
}
