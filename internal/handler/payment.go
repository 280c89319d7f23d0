package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/carloszaep/my-prostore/internal/dto"
	"github.com/carloszaep/my-prostore/internal/service"
)

type PaymentHandler struct {
	paymentService service.PaymentService
	logger         zerolog.Logger
}

func NewPaymentHandler(paymentService service.PaymentService, logger zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		logger:         logger,
	}
}

func (h *PaymentHandler) CreatePayPalOrder(c echo.Context) error {
	ctx := c.Request().Context()

	providerOrderID, err := h.paymentService.CreatePayPalOrder(ctx, c.Param("id"))
	if err != nil {
		return failResult(c, err)
	}

	return ok(c, "PayPal order created", map[string]string{"orderID": providerOrderID})
}

func (h *PaymentHandler) ApprovePayPalOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ApprovePayPalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	if err := h.paymentService.ApprovePayPalOrder(ctx, c.Param("id"), req.OrderID); err != nil {
		return failResult(c, err)
	}

	return ok(c, "Your order has been paid", nil)
}

func (h *PaymentHandler) CreateStripeIntent(c echo.Context) error {
	ctx := c.Request().Context()

	clientSecret, err := h.paymentService.CreateStripeIntent(ctx, c.Param("id"))
	if err != nil {
		return failResult(c, err)
	}

	return c.JSON(http.StatusOK, dto.StripeIntentResponse{ClientSecret: clientSecret})
}

// StripeWebhook reconciles asynchronous payment events. The raw body is
// needed for signature verification, so no binding here. Stripe retries on
// non-2xx, so processing failures return 500 on purpose.
func (h *PaymentHandler) StripeWebhook(c echo.Context) error {
	ctx := c.Request().Context()

	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.NoContent(http.StatusBadRequest)
	}

	err = h.paymentService.HandleStripeWebhook(ctx, payload, c.Request().Header.Get("Stripe-Signature"))
	if err != nil {
		h.logger.Error().Err(err).Msg("stripe webhook")
		return c.NoContent(http.StatusInternalServerError)
	}

	return c.NoContent(http.StatusOK)
}
