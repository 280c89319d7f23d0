package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"github.com/carloszaep/my-prostore/internal/client"
	"github.com/carloszaep/my-prostore/internal/config"
	"github.com/carloszaep/my-prostore/internal/logger"
	"github.com/carloszaep/my-prostore/internal/repository"
	"github.com/carloszaep/my-prostore/internal/server"
	"github.com/carloszaep/my-prostore/internal/service"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log)

	db, err := client.InitPostgresClient(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("init database")
	}

	paypalClient := client.NewPaypalClient(&cfg.Paypal)
	stripeClient := client.NewStripeClient(&cfg.Stripe)

	userRepo := repository.NewUserRepository(db)
	guestRepo := repository.NewGuestUserRepository(db)
	cartRepo := repository.NewCartRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	webhookEventRepo := repository.NewWebhookEventRepository(db)

	policy, err := service.ParsePolicy(cfg.Store)
	if err != nil {
		log.Fatal().Err(err).Msg("parse store policy")
	}

	emailService := service.NewEmailService(cfg.SMTP)
	authService := service.NewAuthService(userRepo, cartRepo, emailService, cfg.Auth, cfg.BaseURL)
	userService := service.NewUserService(userRepo, guestRepo, cartRepo, cfg.Store)
	productService := service.NewProductService(productRepo, cfg.Store.PageSize)
	cartService := service.NewCartService(cartRepo, productRepo, policy)
	checkoutService := service.NewCheckoutService(db, cartRepo, userRepo, guestRepo, orderRepo, cfg.Store)
	fulfillmentService := service.NewFulfillmentService(db, orderRepo, productRepo, userRepo, guestRepo, emailService, log)
	paymentService := service.NewPaymentService(db, paypalClient, stripeClient, orderRepo, webhookEventRepo, fulfillmentService, log)
	orderService := service.NewOrderService(orderRepo, guestRepo, cfg.Store.PageSize)
	reviewService := service.NewReviewService(db, reviewRepo, orderRepo, productRepo)
	adminService := service.NewAdminService(orderRepo, userRepo, productRepo, cfg.Store.PageSize)

	srv := server.NewServer(server.Services{
		Auth:        authService,
		User:        userService,
		Product:     productService,
		Cart:        cartService,
		Checkout:    checkoutService,
		Order:       orderService,
		Payment:     paymentService,
		Fulfillment: fulfillmentService,
		Review:      reviewService,
		Admin:       adminService,
	}, cfg.Auth.SessionMaxAge, log)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	log.Info().Str("addr", serverAddr).Str("env", cfg.Environment.Name).Msg("starting HTTP server")
	go func() {
		if err := srv.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Info().Msg("signal received, starting graceful shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("HTTP server shutdown error")
	}
}
