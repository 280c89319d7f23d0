package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carloszaep/my-prostore/internal/dto"
	"github.com/carloszaep/my-prostore/internal/middleware"
	"github.com/carloszaep/my-prostore/internal/model"
	"github.com/carloszaep/my-prostore/internal/service"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) Me(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := h.userService.GetByID(ctx, middleware.UserID(c))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return fail(c, http.StatusNotFound, err.Error())
		}
		return err
	}

	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.Name == "" {
		return fail(c, http.StatusBadRequest, "name is required")
	}

	if err := h.userService.UpdateProfile(ctx, middleware.UserID(c), req.Name); err != nil {
		return err
	}

	return ok(c, "Profile updated", nil)
}

// UpdateAddress saves the shipping address for the checkout's current
// identity: the signed-in user when there is one, otherwise the guest
// attached to the session cart.
func (h *UserHandler) UpdateAddress(c echo.Context) error {
	ctx := c.Request().Context()

	var address model.ShippingAddress
	if err := c.Bind(&address); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if address.StreetAddress == "" || address.City == "" || address.PostalCode == "" || address.Country == "" {
		return fail(c, http.StatusBadRequest, "street address, city, postal code and country are required")
	}

	if userID := middleware.UserID(c); userID != "" {
		if err := h.userService.UpdateAddress(ctx, userID, address); err != nil {
			return err
		}
		return ok(c, "Address updated", nil)
	}

	err := h.userService.CreateGuestWithAddress(ctx, middleware.SessionCartID(c), address)
	if err != nil {
		return failResult(c, err)
	}

	return ok(c, "Address updated", nil)
}

func (h *UserHandler) UpdatePaymentMethod(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.PaymentMethodRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	var err error
	if userID := middleware.UserID(c); userID != "" {
		err = h.userService.UpdatePaymentMethod(ctx, userID, req.Type)
	} else {
		err = h.userService.UpdateGuestPaymentMethod(ctx, middleware.SessionCartID(c), req.Type)
	}
	if err != nil {
		return failResult(c, err)
	}

	return ok(c, "Payment method updated", nil)
}

func (h *UserHandler) CheckoutInfo(c echo.Context) error {
	ctx := c.Request().Context()

	info, err := h.userService.CheckoutInfo(ctx, middleware.UserID(c), middleware.SessionCartID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, info)
}
