package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/carloszaep/my-prostore/internal/model"
	"github.com/carloszaep/my-prostore/internal/repository"
)

type UserServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	svc     UserService
	cartSvc CartService
	ctx     context.Context
}

func (s *UserServiceTestSuite) SetupTest() {
	s.db = newTestDB(s.T())
	cartRepo := repository.NewCartRepository(s.db)
	s.svc = NewUserService(
		repository.NewUserRepository(s.db),
		repository.NewGuestUserRepository(s.db),
		cartRepo,
		testStore(),
	)
	s.cartSvc = NewCartService(cartRepo, repository.NewProductRepository(s.db), testPolicy(s.T()))
	s.ctx = context.Background()
}

func (s *UserServiceTestSuite) TestUpdatePaymentMethodValidation() {
	user := seedUser(s.T(), s.db, "jane@example.com", nil, "")

	require.NoError(s.T(), s.svc.UpdatePaymentMethod(s.ctx, user.ID, model.PaymentMethodStripe))

	err := s.svc.UpdatePaymentMethod(s.ctx, user.ID, "Barter")
	require.ErrorIs(s.T(), err, ErrInvalidPayMethod)
}

func (s *UserServiceTestSuite) TestUpdateAddressRoundTrips() {
	user := seedUser(s.T(), s.db, "jane@example.com", nil, "")

	address := testAddress()
	require.NoError(s.T(), s.svc.UpdateAddress(s.ctx, user.ID, address))

	got, err := s.svc.GetByID(s.ctx, user.ID)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), got.Address)
	require.Equal(s.T(), address, *got.Address)
}

func (s *UserServiceTestSuite) TestCheckoutInfoForSignedInUser() {
	address := testAddress()
	user := seedUser(s.T(), s.db, "jane@example.com", &address, model.PaymentMethodPayPal)

	info, err := s.svc.CheckoutInfo(s.ctx, user.ID, "")
	require.NoError(s.T(), err)
	require.True(s.T(), info.IsSignedIn)
	require.Equal(s.T(), model.PaymentMethodPayPal, info.PaymentMethod)
	require.Equal(s.T(), address, *info.Address)
}

func (s *UserServiceTestSuite) TestGuestAddressUpsertsByEmail() {
	sessionID := uuid.NewString()
	_, err := s.cartSvc.Get(s.ctx, sessionID, "")
	require.NoError(s.T(), err)

	address := testAddress()
	address.GuestEmail = "guest@example.com"
	require.NoError(s.T(), s.svc.CreateGuestWithAddress(s.ctx, sessionID, address))

	// same email from another session reuses the guest identity
	otherSession := uuid.NewString()
	_, err = s.cartSvc.Get(s.ctx, otherSession, "")
	require.NoError(s.T(), err)

	address.City = "Shelbyville"
	require.NoError(s.T(), s.svc.CreateGuestWithAddress(s.ctx, otherSession, address))

	var count int64
	require.NoError(s.T(), s.db.Model(&model.GuestUser{}).Count(&count).Error)
	require.Equal(s.T(), int64(1), count)

	info, err := s.svc.CheckoutInfo(s.ctx, "", otherSession)
	require.NoError(s.T(), err)
	require.False(s.T(), info.IsSignedIn)
	require.Equal(s.T(), "Shelbyville", info.Address.City)
}

func (s *UserServiceTestSuite) TestGuestAddressRequiresEmail() {
	sessionID := uuid.NewString()
	_, err := s.cartSvc.Get(s.ctx, sessionID, "")
	require.NoError(s.T(), err)

	err = s.svc.CreateGuestWithAddress(s.ctx, sessionID, testAddress())
	require.Error(s.T(), err)
}

func (s *UserServiceTestSuite) TestCheckoutInfoEmptyForFreshSession() {
	info, err := s.svc.CheckoutInfo(s.ctx, "", uuid.NewString())
	require.NoError(s.T(), err)
	require.False(s.T(), info.IsSignedIn)
	require.Nil(s.T(), info.Address)
	require.Empty(s.T(), info.PaymentMethod)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
