package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/carloszaep/my-prostore/internal/model"
	"github.com/carloszaep/my-prostore/internal/repository"
)

type FulfillmentServiceTestSuite struct {
	suite.Suite
	db          *gorm.DB
	svc         FulfillmentService
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	email       *fakeEmail
	ctx         context.Context
}

func (s *FulfillmentServiceTestSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.orderRepo = repository.NewOrderRepository(s.db)
	s.productRepo = repository.NewProductRepository(s.db)
	s.email = &fakeEmail{}
	s.svc = NewFulfillmentService(
		s.db,
		s.orderRepo,
		s.productRepo,
		repository.NewUserRepository(s.db),
		repository.NewGuestUserRepository(s.db),
		s.email,
		testLogger(),
	)
	s.ctx = context.Background()
}

func (s *FulfillmentServiceTestSuite) seedPaidableOrder(stock int) (*model.Order, *model.Product) {
	product := seedProduct(s.T(), s.db, "Polo Shirt", "polo-shirt", "25.50", stock)
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

func (s *FulfillmentServiceTestSuite) TestMarkPaidDecrementsStockOnce() {
	order, product := s.seedPaidableOrder(5)

	result := &model.PaymentResult{ID: "cap-1", Status: "COMPLETED", PricePaid: "51.00"}
	require.NoError(s.T(), s.svc.MarkPaid(s.ctx, order.ID, result))

	got, err := s.orderRepo.FindByID(s.ctx, order.ID)
	require.NoError(s.T(), err)
	require.True(s.T(), got.IsPaid)
	require.NotNil(s.T(), got.PaidAt)
	require.Equal(s.T(), "cap-1", got.PaymentResult.ID)

	p, err := s.productRepo.FindByID(s.ctx, product.ID)
	require.NoError(s.T(), err)
	require.Equal(s.T(), 3, p.Stock)

	require.Equal(s.T(), 1, s.email.receipts)

	// marking again must not double-decrement
	err = s.svc.MarkPaid(s.ctx, order.ID, result)
	require.ErrorIs(s.T(), err, ErrAlreadyPaid)

	p, err = s.productRepo.FindByID(s.ctx, product.ID)
	require.NoError(s.T(), err)
	require.Equal(s.T(), 3, p.Stock)
}

func (s *FulfillmentServiceTestSuite) TestMarkPaidPersistsFullPaymentResult() {
	order, _ := s.seedPaidableOrder(5)

	result := &model.PaymentResult{
		ID:           "cap-9",
		Status:       "COMPLETED",
		EmailAddress: "payer@example.com",
		PricePaid:    "51.00",
	}
	require.NoError(s.T(), s.svc.MarkPaid(s.ctx, order.ID, result))

	// every field must survive the json column round-trip
	got, err := s.orderRepo.FindByID(s.ctx, order.ID)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), got.PaymentResult)
	require.Equal(s.T(), *result, *got.PaymentResult)
}

func (s *FulfillmentServiceTestSuite) TestMarkPaidRollsBackOnInsufficientStock() {
	order, product := s.seedPaidableOrder(1)

	err := s.svc.MarkPaid(s.ctx, order.ID, nil)
	require.Error(s.T(), err)

	got, err := s.orderRepo.FindByID(s.ctx, order.ID)
	require.NoError(s.T(), err)
	require.False(s.T(), got.IsPaid, "failed payment must not mark the order paid")

	p, err := s.productRepo.FindByID(s.ctx, product.ID)
	require.NoError(s.T(), err)
	require.Equal(s.T(), 1, p.Stock, "stock must be untouched after rollback")
}

func (s *FulfillmentServiceTestSuite) TestMarkPaidUnknownOrder() {
	err := s.svc.MarkPaid(s.ctx, "no-such-order", nil)
	require.ErrorIs(s.T(), err, ErrOrderNotFound)
}

func (s *FulfillmentServiceTestSuite) TestMarkDeliveredRequiresPaid() {
	order, _ := s.seedPaidableOrder(5)

	err := s.svc.MarkDelivered(s.ctx, order.ID)
	require.ErrorIs(s.T(), err, ErrNotPaid)

	require.NoError(s.T(), s.svc.MarkPaid(s.ctx, order.ID, nil))
	require.NoError(s.T(), s.svc.MarkDelivered(s.ctx, order.ID))

	got, err := s.orderRepo.FindByID(s.ctx, order.ID)
	require.NoError(s.T(), err)
	require.True(s.T(), got.IsDelivered)
	require.NotNil(s.T(), got.DeliveredAt)
}

func (s *FulfillmentServiceTestSuite) TestTrackingNumberLifecycle() {
	order, _ := s.seedPaidableOrder(5)
	require.NoError(s.T(), s.svc.MarkPaid(s.ctx, order.ID, nil))

	require.NoError(s.T(), s.svc.SetTrackingNumber(s.ctx, order.ID, "TRACK-123"))
	require.Equal(s.T(), 1, s.email.shipped)

	got, err := s.orderRepo.FindByID(s.ctx, order.ID)
	require.NoError(s.T(), err)
	require.Equal(s.T(), "TRACK-123", *got.TrackingNumber)

	require.NoError(s.T(), s.svc.MarkDelivered(s.ctx, order.ID))

	// pulling the tracking number regresses the order to paid
	require.NoError(s.T(), s.svc.RemoveTrackingNumber(s.ctx, order.ID))

	got, err = s.orderRepo.FindByID(s.ctx, order.ID)
	require.NoError(s.T(), err)
	require.Nil(s.T(), got.TrackingNumber)
	require.False(s.T(), got.IsDelivered)
	require.Nil(s.T(), got.DeliveredAt)
	require.True(s.T(), got.IsPaid, "removing tracking never unpays the order")
}

func (s *FulfillmentServiceTestSuite) TestMarkPaidTotalUntouched() {
	order, _ := s.seedPaidableOrder(5)
	total := order.TotalPrice

	require.NoError(s.T(), s.svc.MarkPaid(s.ctx, order.ID, nil))

	got, err := s.orderRepo.FindByID(s.ctx, order.ID)
	require.NoError(s.T(), err)
	require.True(s.T(), got.TotalPrice.Equal(total))
	require.True(s.T(), got.TotalPrice.Equal(decimal.RequireFromString("51.00")))
}

func TestFulfillmentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(FulfillmentServiceTestSuite))
}
