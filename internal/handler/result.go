package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carloszaep/my-prostore/internal/dto"
	"github.com/carloszaep/my-prostore/internal/service"
)

func ok(c echo.Context, message string, data any) error {
	return c.JSON(http.StatusOK, dto.Result{Success: true, Message: message, Data: data})
}

func fail(c echo.Context, status int, message string) error {
	return c.JSON(status, dto.Result{Success: false, Message: message})
}

// failResult converts service errors into the inline form-result shape.
// Checkout validation errors carry the step the client should go back to.
func failResult(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrCartEmpty), errors.Is(err, service.ErrCartNotFound):
		return c.JSON(http.StatusBadRequest, dto.Result{
			Success: false, Message: "Cart is empty", RedirectTo: "/cart",
		})
	case errors.Is(err, service.ErrNoShippingAddress):
		return c.JSON(http.StatusBadRequest, dto.Result{
			Success: false, Message: "No shipping address", RedirectTo: "/shipping-address",
		})
	case errors.Is(err, service.ErrNoPaymentMethod):
		return c.JSON(http.StatusBadRequest, dto.Result{
			Success: false, Message: "No payment method", RedirectTo: "/payment-method",
		})
	case errors.Is(err, service.ErrOrderNotFound), errors.Is(err, service.ErrProductNotFound):
		return fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNotAuthorized):
		return fail(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrAlreadyPaid),
		errors.Is(err, service.ErrInvalidPayMethod),
		errors.Is(err, service.ErrNotPaid),
		errors.Is(err, service.ErrPaymentMismatch),
		errors.Is(err, service.ErrOutOfStock),
		errors.Is(err, service.ErrReviewNotAllowed),
		errors.Is(err, service.ErrNoUnpaidOrders),
		errors.Is(err, service.ErrEmailExists),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrInvalidToken):
		return fail(c, http.StatusBadRequest, err.Error())
	default:
		return fail(c, http.StatusInternalServerError, "something went wrong")
	}
}
