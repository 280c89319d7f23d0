package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carloszaep/my-prostore/internal/dto"
	"github.com/carloszaep/my-prostore/internal/model"
	"github.com/carloszaep/my-prostore/internal/repository"
	"github.com/carloszaep/my-prostore/internal/service"
)

// AdminHandler covers the back office: dashboard summary, order and user
// management, product CRUD, and the manual fulfillment transitions.
type AdminHandler struct {
	adminService       service.AdminService
	productService     service.ProductService
	fulfillmentService service.FulfillmentService
}

func NewAdminHandler(
	adminService service.AdminService,
	productService service.ProductService,
	fulfillmentService service.FulfillmentService,
) *AdminHandler {
	return &AdminHandler{
		adminService:       adminService,
		productService:     productService,
		fulfillmentService: fulfillmentService,
	}
}

func (h *AdminHandler) Summary(c echo.Context) error {
	ctx := c.Request().Context()

	summary, err := h.adminService.Summary(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, summary)
}

func (h *AdminHandler) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	page, err := h.adminService.ListOrders(ctx, queryOrAll(c, "query"), atoiOrDefault(c.QueryParam("page"), 1))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, page)
}

func (h *AdminHandler) DeleteOrder(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.adminService.DeleteOrder(ctx, c.Param("id")); err != nil {
		return failResult(c, err)
	}

	return ok(c, "Order deleted", nil)
}

func (h *AdminHandler) DeleteUnpaidOrders(c echo.Context) error {
	ctx := c.Request().Context()

	deleted, err := h.adminService.DeleteUnpaidOrders(ctx)
	if err != nil {
		return failResult(c, err)
	}

	return ok(c, "Unpaid orders deleted", map[string]int64{"deleted": deleted})
}

// MarkPaid is the cash-on-delivery path: an admin records the payment by
// hand, so there is no provider result to attach.
func (h *AdminHandler) MarkPaid(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.fulfillmentService.MarkPaid(ctx, c.Param("id"), nil); err != nil {
		return failResult(c, err)
	}

	return ok(c, "Order marked as paid", nil)
}

func (h *AdminHandler) MarkDelivered(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.fulfillmentService.MarkDelivered(ctx, c.Param("id")); err != nil {
		return failResult(c, err)
	}

	return ok(c, "Order marked as delivered", nil)
}

func (h *AdminHandler) SetTrackingNumber(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.TrackingNumberRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.TrackingNumber == "" {
		return fail(c, http.StatusBadRequest, "tracking number is required")
	}

	if err := h.fulfillmentService.SetTrackingNumber(ctx, c.Param("id"), req.TrackingNumber); err != nil {
		return failResult(c, err)
	}

	return ok(c, "Tracking number saved", nil)
}

func (h *AdminHandler) RemoveTrackingNumber(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.fulfillmentService.RemoveTrackingNumber(ctx, c.Param("id")); err != nil {
		return failResult(c, err)
	}

	return ok(c, "Tracking number removed", nil)
}

func (h *AdminHandler) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()

	page, err := h.adminService.ListUsers(ctx, queryOrAll(c, "query"), atoiOrDefault(c.QueryParam("page"), 1))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, page)
}

func (h *AdminHandler) EditUser(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.EditUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.Role != model.RoleUser && req.Role != model.RoleAdmin {
		return fail(c, http.StatusBadRequest, "invalid role")
	}

	if err := h.adminService.EditUser(ctx, c.Param("id"), req.Name, req.Role); err != nil {
		return failResult(c, err)
	}

	return ok(c, "User updated", nil)
}

func (h *AdminHandler) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.adminService.DeleteUser(ctx, c.Param("id")); err != nil {
		return failResult(c, err)
	}

	return ok(c, "User deleted", nil)
}

func (h *AdminHandler) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()

	page, err := h.productService.Search(ctx, repository.ProductFilter{
		Query:    queryOrAll(c, "query"),
		Category: queryOrAll(c, "category"),
		Sort:     "newest",
		Page:     atoiOrDefault(c.QueryParam("page"), 1),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, page)
}

func (h *AdminHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.Name == "" || req.Slug == "" {
		return fail(c, http.StatusBadRequest, "name and slug are required")
	}

	product, err := h.productService.Create(ctx, req)
	if err != nil {
		return failResult(c, err)
	}

	return ok(c, "Product created", product)
}

func (h *AdminHandler) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	product, err := h.productService.Update(ctx, c.Param("id"), req)
	if err != nil {
		return failResult(c, err)
	}

	return ok(c, "Product updated", product)
}

func (h *AdminHandler) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.productService.Delete(ctx, c.Param("id")); err != nil {
		return failResult(c, err)
	}

	return ok(c, "Product deleted", nil)
}
