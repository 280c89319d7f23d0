package server

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/carloszaep/my-prostore/internal/handler"
	"github.com/carloszaep/my-prostore/internal/middleware"
	"github.com/carloszaep/my-prostore/internal/service"
)

type Services struct {
	Auth        service.AuthService
	User        service.UserService
	Product     service.ProductService
	Cart        service.CartService
	Checkout    service.CheckoutService
	Order       service.OrderService
	Payment     service.PaymentService
	Fulfillment service.FulfillmentService
	Review      service.ReviewService
	Admin       service.AdminService
}

type Server struct {
	echo *echo.Echo

	authHandler    *handler.AuthHandler
	userHandler    *handler.UserHandler
	productHandler *handler.ProductHandler
	cartHandler    *handler.CartHandler
	orderHandler   *handler.OrderHandler
	paymentHandler *handler.PaymentHandler
	reviewHandler  *handler.ReviewHandler
	adminHandler   *handler.AdminHandler

	authService service.AuthService
}

func NewServer(svcs Services, sessionMaxAge int, logger zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			logger.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Msg("request")
			return nil
		},
	}))
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(middleware.SessionCart())

	s := &Server{
		echo:           e,
		authHandler:    handler.NewAuthHandler(svcs.Auth, svcs.Cart, sessionMaxAge),
		userHandler:    handler.NewUserHandler(svcs.User),
		productHandler: handler.NewProductHandler(svcs.Product),
		cartHandler:    handler.NewCartHandler(svcs.Cart),
		orderHandler:   handler.NewOrderHandler(svcs.Checkout, svcs.Order),
		paymentHandler: handler.NewPaymentHandler(svcs.Payment, logger),
		reviewHandler:  handler.NewReviewHandler(svcs.Review),
		adminHandler:   handler.NewAdminHandler(svcs.Admin, svcs.Product, svcs.Fulfillment),
		authService:    svcs.Auth,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// -------- auth --------
	auth := api.Group("/auth")
	auth.POST("/sign-up", s.authHandler.SignUp)
	auth.POST("/sign-in", s.authHandler.SignIn)
	auth.POST("/sign-out", s.authHandler.SignOut)
	auth.POST("/forgot-password", s.authHandler.ForgotPassword)
	auth.POST("/reset-password", s.authHandler.ResetPassword)

	// -------- catalog --------
	products := api.Group("/products")
	products.GET("/latest", s.productHandler.Latest)
	products.GET("/featured", s.productHandler.Featured)
	products.GET("/categories", s.productHandler.Categories)
	products.GET("/sizes", s.productHandler.Sizes)
	products.GET("/search", s.productHandler.Search)
	products.GET("/slug/:slug", s.productHandler.BySlug)
	products.GET("/:productId", s.productHandler.ByID)
	products.GET("/:productId/reviews", s.reviewHandler.ListByProduct)

	// -------- cart (works signed-in or anonymous) --------
	cart := api.Group("/cart", middleware.OptionalAuth(s.authService))
	cart.GET("", s.cartHandler.Get)
	cart.POST("/items", s.cartHandler.AddItem)
	cart.DELETE("/items", s.cartHandler.RemoveItem)

	// -------- checkout --------
	checkout := api.Group("/checkout", middleware.OptionalAuth(s.authService))
	checkout.GET("", s.userHandler.CheckoutInfo)
	checkout.PUT("/shipping-address", s.userHandler.UpdateAddress)
	checkout.PUT("/payment-method", s.userHandler.UpdatePaymentMethod)
	checkout.POST("/place-order", s.orderHandler.PlaceOrder)

	// -------- orders --------
	orders := api.Group("/orders")
	orders.POST("/find", s.orderHandler.FindOrder)
	orders.GET("/mine", s.orderHandler.MyOrders, middleware.Auth(s.authService))
	orders.GET("/:id", s.orderHandler.GetByID, middleware.OptionalAuth(s.authService))

	// -------- payments --------
	payments := api.Group("/orders/:id")
	payments.POST("/paypal", s.paymentHandler.CreatePayPalOrder)
	payments.POST("/paypal/capture", s.paymentHandler.ApprovePayPalOrder)
	payments.POST("/stripe-intent", s.paymentHandler.CreateStripeIntent)
	api.POST("/webhooks/stripe", s.paymentHandler.StripeWebhook)

	// -------- profile --------
	profile := api.Group("/profile", middleware.Auth(s.authService))
	profile.GET("", s.userHandler.Me)
	profile.PUT("", s.userHandler.UpdateProfile)

	// -------- reviews --------
	api.POST("/reviews", s.reviewHandler.CreateOrUpdate, middleware.Auth(s.authService))

	// -------- admin --------
	admin := api.Group("/admin", middleware.Auth(s.authService), middleware.AdminOnly())
	admin.GET("/summary", s.adminHandler.Summary)
	admin.GET("/orders", s.adminHandler.ListOrders)
	admin.DELETE("/orders/unpaid", s.adminHandler.DeleteUnpaidOrders)
	admin.DELETE("/orders/:id", s.adminHandler.DeleteOrder)
	admin.PUT("/orders/:id/pay", s.adminHandler.MarkPaid)
	admin.PUT("/orders/:id/deliver", s.adminHandler.MarkDelivered)
	admin.PUT("/orders/:id/tracking", s.adminHandler.SetTrackingNumber)
	admin.DELETE("/orders/:id/tracking", s.adminHandler.RemoveTrackingNumber)
	admin.GET("/users", s.adminHandler.ListUsers)
	admin.PUT("/users/:id", s.adminHandler.EditUser)
	admin.DELETE("/users/:id", s.adminHandler.DeleteUser)
	admin.GET("/products", s.adminHandler.ListProducts)
	admin.POST("/products", s.adminHandler.CreateProduct)
	admin.PUT("/products/:id", s.adminHandler.UpdateProduct)
	admin.DELETE("/products/:id", s.adminHandler.DeleteProduct)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
