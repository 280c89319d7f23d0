package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/stripe/stripe-go/v81"
	"gorm.io/gorm"

	"github.com/carloszaep/my-prostore/internal/model"
	"github.com/carloszaep/my-prostore/internal/repository"
)

type PaymentServiceTestSuite struct {
	suite.Suite
	db          *gorm.DB
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	paypal      *fakePaypal
	stripeFake  *fakeStripe
	svc         PaymentService
	ctx         context.Context
}

func (s *PaymentServiceTestSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.orderRepo = repository.NewOrderRepository(s.db)
	s.productRepo = repository.NewProductRepository(s.db)
	s.paypal = &fakePaypal{}
	s.stripeFake = &fakeStripe{}

	fulfillment := NewFulfillmentService(
		s.db,
		s.orderRepo,
		s.productRepo,
		repository.NewUserRepository(s.db),
		repository.NewGuestUserRepository(s.db),
		&fakeEmail{},
		testLogger(),
	)
	s.svc = NewPaymentService(
		s.db,
		s.paypal,
		s.stripeFake,
		s.orderRepo,
		repository.NewWebhookEventRepository(s.db),
		fulfillment,
		testLogger(),
	)
	s.ctx = context.Background()
}

func (s *PaymentServiceTestSuite) seedOrderWithStock() (*model.Order, *model.Product) {
	product := seedProduct(s.T(), s.db, "Polo Shirt", "polo-shirt", "25.50", 5)
	address := testAddress()
	user := seedUser(s.T(), s.db, "jane@example.com", &address, model.PaymentMethodPayPal)

	order := seedOrder(s.T(), s.db, &user.ID, []model.OrderItem{{
		ProductID: product.ID,
		Name:      product.Name,
		Slug:      product.Slug,
		Price:     product.Price,
		Qty:       2,
	}})
	return order, product
}

func (s *PaymentServiceTestSuite) TestCreatePayPalOrderStoresPendingResult() {
	order, _ := s.seedOrderWithStock()
	s.paypal.createResult = &model.PaypalOrderResult{ID: "PP-123", Status: "CREATED"}

	providerID, err := s.svc.CreatePayPalOrder(s.ctx, order.ID)
	require.NoError(s.T(), err)
	require.Equal(s.T(), "PP-123", providerID)
	require.Len(s.T(), s.paypal.created, 1)
	require.True(s.T(), s.paypal.created[0].Equal(order.TotalPrice))

	got, err := s.orderRepo.FindByID(s.ctx, order.ID)
	require.NoError(s.T(), err)
	require.Equal(s.T(), "PP-123", got.PaymentResult.ID)
	require.False(s.T(), got.IsPaid, "creating a provider order never pays it")
}

func (s *PaymentServiceTestSuite) TestApprovePayPalOrderMarksPaid() {
	order, product := s.seedOrderWithStock()
	s.paypal.createResult = &model.PaypalOrderResult{ID: "PP-123", Status: "CREATED"}
	_, err := s.svc.CreatePayPalOrder(s.ctx, order.ID)
	require.NoError(s.T(), err)

	s.paypal.captureResult = &model.PaypalOrderResult{
		ID:     "PP-123",
		Status: "COMPLETED",
		Payer:  model.Payer{Email: "payer@example.com"},
		PurchaseUnits: []model.PurchaseUnit{{
			Payments: model.Payments{Captures: []model.Capture{{
				ID:     "CAP-1",
				Status: "COMPLETED",
				Amount: model.Amount{Currency: "USD", Value: "51.00"},
			}}},
		}},
	}

	require.NoError(s.T(), s.svc.ApprovePayPalOrder(s.ctx, order.ID, "PP-123"))

	got, err := s.orderRepo.FindByID(s.ctx, order.ID)
	require.NoError(s.T(), err)
	require.True(s.T(), got.IsPaid)
	require.Equal(s.T(), "payer@example.com", got.PaymentResult.EmailAddress)
	require.Equal(s.T(), "51.00", got.PaymentResult.PricePaid)

	p, err := s.productRepo.FindByID(s.ctx, product.ID)
	require.NoError(s.T(), err)
	require.Equal(s.T(), 3, p.Stock)
}

func (s *PaymentServiceTestSuite) TestApproveRejectsMismatchedProviderOrder() {
	order, _ := s.seedOrderWithStock()
	s.paypal.createResult = &model.PaypalOrderResult{ID: "PP-123", Status: "CREATED"}
	_, err := s.svc.CreatePayPalOrder(s.ctx, order.ID)
	require.NoError(s.T(), err)

	// the client hands over some other provider order id
	s.paypal.captureResult = &model.PaypalOrderResult{ID: "PP-999", Status: "COMPLETED"}

	err = s.svc.ApprovePayPalOrder(s.ctx, order.ID, "PP-999")
	require.ErrorIs(s.T(), err, ErrPaymentMismatch)

	got, err := s.orderRepo.FindByID(s.ctx, order.ID)
	require.NoError(s.T(), err)
	require.False(s.T(), got.IsPaid)
}

func (s *PaymentServiceTestSuite) TestApproveRejectsIncompleteCapture() {
	order, _ := s.seedOrderWithStock()
	s.paypal.createResult = &model.PaypalOrderResult{ID: "PP-123", Status: "CREATED"}
	_, err := s.svc.CreatePayPalOrder(s.ctx, order.ID)
	require.NoError(s.T(), err)

	s.paypal.captureResult = &model.PaypalOrderResult{ID: "PP-123", Status: "PENDING"}

	err = s.svc.ApprovePayPalOrder(s.ctx, order.ID, "PP-123")
	require.ErrorIs(s.T(), err, ErrPaymentMismatch)
}

func (s *PaymentServiceTestSuite) TestCreatePayPalOrderForPaidOrder() {
	order, _ := s.seedOrderWithStock()
	now := s.db.NowFunc()
	require.NoError(s.T(), s.db.Model(&model.Order{}).
		Where("id = ?", order.ID).
		Updates(map[string]interface{}{"is_paid": true, "paid_at": now}).Error)

	_, err := s.svc.CreatePayPalOrder(s.ctx, order.ID)
	require.ErrorIs(s.T(), err, ErrAlreadyPaid)
}

func (s *PaymentServiceTestSuite) stripeSucceededEvent(eventID, orderID string) stripe.Event {
	intent := map[string]interface{}{
		"id":              "pi_123",
		"amount_received": 5100,
		"receipt_email":   "payer@example.com",
		"metadata":        map[string]string{"orderId": orderID},
	}
	raw, err := json.Marshal(intent)
	require.NoError(s.T(), err)

	return stripe.Event{
		ID:   eventID,
		Type: "payment_intent.succeeded",
		Data: &stripe.EventData{Raw: raw},
	}
}

func (s *PaymentServiceTestSuite) TestStripeWebhookMarksPaidOnce() {
	order, product := s.seedOrderWithStock()
	s.stripeFake.event = s.stripeSucceededEvent("evt_1", order.ID)

	require.NoError(s.T(), s.svc.HandleStripeWebhook(s.ctx, []byte("{}"), "sig"))

	got, err := s.orderRepo.FindByID(s.ctx, order.ID)
	require.NoError(s.T(), err)
	require.True(s.T(), got.IsPaid)
	require.Equal(s.T(), "pi_123", got.PaymentResult.ID)
	require.Equal(s.T(), "51.00", got.PaymentResult.PricePaid)

	// redelivery of the same event is a no-op
	require.NoError(s.T(), s.svc.HandleStripeWebhook(s.ctx, []byte("{}"), "sig"))

	p, err := s.productRepo.FindByID(s.ctx, product.ID)
	require.NoError(s.T(), err)
	require.Equal(s.T(), 3, p.Stock, "redelivered event must not decrement stock again")
}

func (s *PaymentServiceTestSuite) TestStripeWebhookIgnoresOtherEvents() {
	order, _ := s.seedOrderWithStock()
	s.stripeFake.event = stripe.Event{
		ID:   "evt_2",
		Type: "payment_intent.created",
		Data: &stripe.EventData{Raw: []byte("{}")},
	}

	require.NoError(s.T(), s.svc.HandleStripeWebhook(s.ctx, []byte("{}"), "sig"))

	got, err := s.orderRepo.FindByID(s.ctx, order.ID)
	require.NoError(s.T(), err)
	require.False(s.T(), got.IsPaid)
}

func TestPaymentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentServiceTestSuite))
}
