package client

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/paymentintent"
	"github.com/stripe/stripe-go/v81/webhook"

	"github.com/carloszaep/my-prostore/internal/config"
)

type StripeClient interface {
	// CreatePaymentIntent opens an intent sized from the order total. The
	// client secret goes to the front end; the order id rides in metadata
	// so the webhook can find the order back.
	CreatePaymentIntent(ctx context.Context, orderID string, total decimal.Decimal) (*stripe.PaymentIntent, error)
	// ConstructWebhookEvent verifies the signature header and decodes the
	// event payload.
	ConstructWebhookEvent(payload []byte, signature string) (stripe.Event, error)
}

type stripeClientImpl struct {
	webhookSecret string
}

func NewStripeClient(stripeCfg *config.Stripe) StripeClient {
	stripe.Key = stripeCfg.SecretKey
	return &stripeClientImpl{
		webhookSecret: stripeCfg.WebhookSecret,
	}
}

func (c *stripeClientImpl) CreatePaymentIntent(ctx context.Context, orderID string, total decimal.Decimal) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(total.Mul(decimal.NewFromInt(100)).IntPart()),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
		Metadata: map[string]string{"orderId": orderID},
	}
	params.Context = ctx

	intent, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe create payment intent: %w", err)
	}

	return intent, nil
}

func (c *stripeClientImpl) ConstructWebhookEvent(payload []byte, signature string) (stripe.Event, error) {
	event, err := webhook.ConstructEvent(payload, signature, c.webhookSecret)
	if err != nil {
		return stripe.Event{}, fmt.Errorf("verify stripe webhook signature: %w", err)
	}

	return event, nil
}
