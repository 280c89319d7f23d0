package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/carloszaep/my-prostore/internal/client"
	"github.com/carloszaep/my-prostore/internal/config"
	"github.com/carloszaep/my-prostore/internal/dto"
	"github.com/carloszaep/my-prostore/internal/middleware"
	"github.com/carloszaep/my-prostore/internal/model"
	"github.com/carloszaep/my-prostore/internal/repository"
	"github.com/carloszaep/my-prostore/internal/service"
)

type OrderHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *OrderHandler
	cartSvc service.CartService
}

func (s *OrderHandlerTestSuite) SetupTest() {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(s.T(), err)
	require.NoError(s.T(), client.Migrate(db))
	s.db = db

	store := config.Store{
		PaymentMethods:       []string{model.PaymentMethodPayPal, model.PaymentMethodStripe},
		DefaultPaymentMethod: model.PaymentMethodPayPal,
		FreeShippingMin:      "100",
		ShippingPrice:        "10",
		TaxRate:              "0.15",
		PageSize:             12,
	}
	policy, err := service.ParsePolicy(store)
	require.NoError(s.T(), err)

	userRepo := repository.NewUserRepository(db)
	guestRepo := repository.NewGuestUserRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	s.cartSvc = service.NewCartService(cartRepo, repository.NewProductRepository(db), policy)
	checkoutSvc := service.NewCheckoutService(db, cartRepo, userRepo, guestRepo, orderRepo, store)
	orderSvc := service.NewOrderService(orderRepo, guestRepo, store.PageSize)
	s.handler = NewOrderHandler(checkoutSvc, orderSvc)
}

func (s *OrderHandlerTestSuite) placeOrder(userID, sessionCartID string) (*httptest.ResponseRecorder, dto.Result) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/checkout/place-order", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.SessionCartKey, sessionCartID)
	if userID != "" {
		c.Set(middleware.UserIDKey, userID)
	}

	require.NoError(s.T(), s.handler.PlaceOrder(c))

	var result dto.Result
	require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &result))
	return rec, result
}

func (s *OrderHandlerTestSuite) seedUser(address *model.ShippingAddress, paymentMethod string) *model.User {
	user := &model.User{
		Name:          "Jane Buyer",
		Email:         "jane@example.com",
		Password:      "x",
		Role:          model.RoleUser,
		Address:       address,
		PaymentMethod: paymentMethod,
	}
	require.NoError(s.T(), s.db.Create(user).Error)
	return user
}

func (s *OrderHandlerTestSuite) fillCart(sessionID, userID string) {
	product := &model.Product{
		Name:     "Polo Shirt",
		Slug:     "polo-shirt",
		Category: "Shirts",
		Brand:    "Acme",
		Price:    testPrice(s.T(), "25.50"),
		Stock:    10,
	}
	require.NoError(s.T(), s.db.Create(product).Error)

	_, err := s.cartSvc.AddItem(context.Background(), sessionID, userID, product.ID, 1)
	require.NoError(s.T(), err)
}

func testPrice(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	require.NoError(t, err)
	return d
}

func (s *OrderHandlerTestSuite) TestEmptyCartRedirectsToCart() {
	user := s.seedUser(nil, "")

	rec, result := s.placeOrder(user.ID, uuid.NewString())
	require.Equal(s.T(), http.StatusBadRequest, rec.Code)
	require.False(s.T(), result.Success)
	require.Equal(s.T(), "/cart", result.RedirectTo)
}

func (s *OrderHandlerTestSuite) TestMissingAddressRedirectsToShipping() {
	user := s.seedUser(nil, "")
	sessionID := uuid.NewString()
	s.fillCart(sessionID, user.ID)

	rec, result := s.placeOrder(user.ID, sessionID)
	require.Equal(s.T(), http.StatusBadRequest, rec.Code)
	require.Equal(s.T(), "/shipping-address", result.RedirectTo)
}

func (s *OrderHandlerTestSuite) TestMissingPaymentMethodRedirects() {
	address := model.ShippingAddress{
		FullName:      "Jane Buyer",
		StreetAddress: "1 Main St",
		City:          "Springfield",
		PostalCode:    "12345",
		Country:       "US",
	}
	user := s.seedUser(&address, "")
	sessionID := uuid.NewString()
	s.fillCart(sessionID, user.ID)

	rec, result := s.placeOrder(user.ID, sessionID)
	require.Equal(s.T(), http.StatusBadRequest, rec.Code)
	require.Equal(s.T(), "/payment-method", result.RedirectTo)
}

func (s *OrderHandlerTestSuite) TestPlaceOrderRedirectsToOrderPage() {
	address := model.ShippingAddress{
		FullName:      "Jane Buyer",
		StreetAddress: "1 Main St",
		City:          "Springfield",
		PostalCode:    "12345",
		Country:       "US",
	}
	user := s.seedUser(&address, model.PaymentMethodPayPal)
	sessionID := uuid.NewString()
	s.fillCart(sessionID, user.ID)

	rec, result := s.placeOrder(user.ID, sessionID)
	require.Equal(s.T(), http.StatusOK, rec.Code)
	require.True(s.T(), result.Success)
	require.Contains(s.T(), result.RedirectTo, "/order/")
}

func TestOrderHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(OrderHandlerTestSuite))
}
