package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carloszaep/my-prostore/internal/dto"
	"github.com/carloszaep/my-prostore/internal/middleware"
	"github.com/carloszaep/my-prostore/internal/service"
)

type OrderHandler struct {
	checkoutService service.CheckoutService
	orderService    service.OrderService
}

func NewOrderHandler(checkoutService service.CheckoutService, orderService service.OrderService) *OrderHandler {
	return &OrderHandler{
		checkoutService: checkoutService,
		orderService:    orderService,
	}
}

// PlaceOrder turns the session's cart into an order. Validation gaps come
// back with a RedirectTo pointing at the checkout step to fix.
func (h *OrderHandler) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()

	order, err := h.checkoutService.PlaceOrder(ctx, middleware.UserID(c), middleware.SessionCartID(c))
	if err != nil {
		return failResult(c, err)
	}

	return c.JSON(http.StatusOK, dto.Result{
		Success:    true,
		Message:    "Order created",
		RedirectTo: "/order/" + order.ID,
		Data:       order,
	})
}

func (h *OrderHandler) GetByID(c echo.Context) error {
	ctx := c.Request().Context()

	order, err := h.orderService.GetByID(ctx, c.Param("id"), middleware.UserID(c), middleware.UserRole(c))
	if err != nil {
		return failResult(c, err)
	}

	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) MyOrders(c echo.Context) error {
	ctx := c.Request().Context()

	page, err := h.orderService.MyOrders(ctx, middleware.UserID(c), atoiOrDefault(c.QueryParam("page"), 1))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, page)
}

// FindOrder is the guest order lookup: order id plus the email used at
// checkout. Both must match or the order stays hidden.
func (h *OrderHandler) FindOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.FindOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.OrderID == "" || req.Email == "" {
		return fail(c, http.StatusBadRequest, "order id and email are required")
	}

	order, err := h.orderService.FindGuestOrder(ctx, req.OrderID, req.Email)
	if err != nil {
		return failResult(c, err)
	}

	return c.JSON(http.StatusOK, order)
}
