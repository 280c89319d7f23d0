package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carloszaep/my-prostore/internal/dto"
	"github.com/carloszaep/my-prostore/internal/middleware"
	"github.com/carloszaep/my-prostore/internal/service"
)

type CartHandler struct {
	cartService service.CartService
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

func (h *CartHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()

	cart, err := h.cartService.Get(ctx, middleware.SessionCartID(c), middleware.UserID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) AddItem(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.AddToCartRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.ProductID == "" {
		return fail(c, http.StatusBadRequest, "productId is required")
	}
	if req.Qty < 1 {
		req.Qty = 1
	}

	cart, err := h.cartService.AddItem(ctx, middleware.SessionCartID(c), middleware.UserID(c), req.ProductID, req.Qty)
	if err != nil {
		return failResult(c, err)
	}

	return ok(c, "Item added to cart", cart)
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.RemoveFromCartRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	cart, err := h.cartService.RemoveItem(ctx, middleware.SessionCartID(c), req.ProductID)
	if err != nil {
		return failResult(c, err)
	}

	return ok(c, "Item removed from cart", cart)
}
