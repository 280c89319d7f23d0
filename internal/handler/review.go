package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carloszaep/my-prostore/internal/dto"
	"github.com/carloszaep/my-prostore/internal/middleware"
	"github.com/carloszaep/my-prostore/internal/service"
)

type ReviewHandler struct {
	reviewService service.ReviewService
}

func NewReviewHandler(reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

func (h *ReviewHandler) CreateOrUpdate(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.ProductID == "" || req.Title == "" || req.Description == "" {
		return fail(c, http.StatusBadRequest, "product, title and description are required")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return fail(c, http.StatusBadRequest, "rating must be between 1 and 5")
	}

	review, err := h.reviewService.CreateOrUpdate(ctx, middleware.UserID(c), req)
	if err != nil {
		return failResult(c, err)
	}

	return ok(c, "Review saved", review)
}

func (h *ReviewHandler) ListByProduct(c echo.Context) error {
	ctx := c.Request().Context()

	reviews, err := h.reviewService.ListByProduct(ctx, c.Param("productId"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, reviews)
}
