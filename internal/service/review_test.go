package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/carloszaep/my-prostore/internal/dto"
	"github.com/carloszaep/my-prostore/internal/model"
	"github.com/carloszaep/my-prostore/internal/repository"
)

type ReviewServiceTestSuite struct {
	suite.Suite
	db          *gorm.DB
	svc         ReviewService
	productRepo repository.ProductRepository
	ctx         context.Context
}

func (s *ReviewServiceTestSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.productRepo = repository.NewProductRepository(s.db)
	s.svc = NewReviewService(
		s.db,
		repository.NewReviewRepository(s.db),
		repository.NewOrderRepository(s.db),
		s.productRepo,
	)
	s.ctx = context.Background()
}

func (s *ReviewServiceTestSuite) seedDeliveredOrder(userID, productID string) {
	now := time.Now()
	order := &model.Order{
		UserID:          &userID,
		ShippingAddress: testAddress(),
		PaymentMethod:   model.PaymentMethodPayPal,
		ItemsPrice:      dec(s.T(), "25.50"),
		ShippingPrice:   dec(s.T(), "10"),
		TaxPrice:        dec(s.T(), "3.83"),
		TotalPrice:      dec(s.T(), "39.33"),
		IsPaid:          true,
		PaidAt:          &now,
		IsDelivered:     true,
		DeliveredAt:     &now,
		Items: []model.OrderItem{{
			ProductID: productID,
			Name:      "Polo Shirt",
			Slug:      "polo-shirt",
			Price:     dec(s.T(), "25.50"),
			Qty:       1,
		}},
	}
	require.NoError(s.T(), s.db.Create(order).Error)
}

func (s *ReviewServiceTestSuite) TestReviewRequiresDeliveredPurchase() {
	product := seedProduct(s.T(), s.db, "Polo Shirt", "polo-shirt", "25.50", 10)
	user := seedUser(s.T(), s.db, "jane@example.com", nil, "")

	_, err := s.svc.CreateOrUpdate(s.ctx, user.ID, dto.ReviewRequest{
		ProductID:   product.ID,
		Rating:      5,
		Title:       "Great shirt",
		Description: "Fits well",
	})
	require.ErrorIs(s.T(), err, ErrReviewNotAllowed)
}

func (s *ReviewServiceTestSuite) TestVerifiedReviewUpdatesAggregate() {
	product := seedProduct(s.T(), s.db, "Polo Shirt", "polo-shirt", "25.50", 10)
	jane := seedUser(s.T(), s.db, "jane@example.com", nil, "")
	john := seedUser(s.T(), s.db, "john@example.com", nil, "")
	s.seedDeliveredOrder(jane.ID, product.ID)
	s.seedDeliveredOrder(john.ID, product.ID)

	review, err := s.svc.CreateOrUpdate(s.ctx, jane.ID, dto.ReviewRequest{
		ProductID:   product.ID,
		Rating:      5,
		Title:       "Great shirt",
		Description: "Fits well",
	})
	require.NoError(s.T(), err)
	require.True(s.T(), review.IsVerifiedPurchase)

	_, err = s.svc.CreateOrUpdate(s.ctx, john.ID, dto.ReviewRequest{
		ProductID:   product.ID,
		Rating:      2,
		Title:       "Shrunk in the wash",
		Description: "Disappointed",
	})
	require.NoError(s.T(), err)

	got, err := s.productRepo.FindByID(s.ctx, product.ID)
	require.NoError(s.T(), err)
	require.Equal(s.T(), 2, got.NumReviews)
	require.True(s.T(), got.Rating.Equal(dec(s.T(), "3.5")), "rating: %s", got.Rating)
}

func (s *ReviewServiceTestSuite) TestSecondReviewReplacesFirst() {
	product := seedProduct(s.T(), s.db, "Polo Shirt", "polo-shirt", "25.50", 10)
	jane := seedUser(s.T(), s.db, "jane@example.com", nil, "")
	s.seedDeliveredOrder(jane.ID, product.ID)

	_, err := s.svc.CreateOrUpdate(s.ctx, jane.ID, dto.ReviewRequest{
		ProductID:   product.ID,
		Rating:      2,
		Title:       "Meh",
		Description: "First impression",
	})
	require.NoError(s.T(), err)

	_, err = s.svc.CreateOrUpdate(s.ctx, jane.ID, dto.ReviewRequest{
		ProductID:   product.ID,
		Rating:      4,
		Title:       "Better after a wash",
		Description: "Changed my mind",
	})
	require.NoError(s.T(), err)

	reviews, err := s.svc.ListByProduct(s.ctx, product.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), reviews, 1, "one review per user per product")
	require.Equal(s.T(), 4, reviews[0].Rating)

	got, err := s.productRepo.FindByID(s.ctx, product.ID)
	require.NoError(s.T(), err)
	require.Equal(s.T(), 1, got.NumReviews)
	require.True(s.T(), got.Rating.Equal(dec(s.T(), "4")))
}

func (s *ReviewServiceTestSuite) TestUnknownProduct() {
	user := seedUser(s.T(), s.db, "jane@example.com", nil, "")

	_, err := s.svc.CreateOrUpdate(s.ctx, user.ID, dto.ReviewRequest{
		ProductID:   "no-such-product",
		Rating:      4,
		Title:       "x",
		Description: "y",
	})
	require.ErrorIs(s.T(), err, ErrProductNotFound)
}

func TestReviewServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReviewServiceTestSuite))
}
