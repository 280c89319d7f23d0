package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/carloszaep/my-prostore/internal/repository"
	"github.com/carloszaep/my-prostore/internal/service"
)

type ProductHandler struct {
	productService service.ProductService
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

func (h *ProductHandler) Latest(c echo.Context) error {
	ctx := c.Request().Context()

	products, err := h.productService.Latest(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) Featured(c echo.Context) error {
	ctx := c.Request().Context()

	products, err := h.productService.Featured(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) BySlug(c echo.Context) error {
	ctx := c.Request().Context()

	product, err := h.productService.BySlug(ctx, c.Param("slug"))
	if err != nil {
		return failResult(c, err)
	}

	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) ByID(c echo.Context) error {
	ctx := c.Request().Context()

	product, err := h.productService.ByID(ctx, c.Param("productId"))
	if err != nil {
		return failResult(c, err)
	}

	return c.JSON(http.StatusOK, product)
}

// Sizes lists the sibling size variants carrying the same product name, so
// the product page can link between them.
func (h *ProductHandler) Sizes(c echo.Context) error {
	ctx := c.Request().Context()

	name := c.QueryParam("name")
	if name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing name query param")
	}

	sizes, err := h.productService.SizesByName(ctx, name)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, sizes)
}

func (h *ProductHandler) Categories(c echo.Context) error {
	ctx := c.Request().Context()

	categories, err := h.productService.Categories(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, categories)
}

func (h *ProductHandler) Search(c echo.Context) error {
	ctx := c.Request().Context()

	filter := repository.ProductFilter{
		Query:    queryOrAll(c, "q"),
		Category: queryOrAll(c, "category"),
		Sort:     c.QueryParam("sort"),
		Page:     atoiOrDefault(c.QueryParam("page"), 1),
	}

	// price comes as a "min-max" range, rating as a floor
	if price := c.QueryParam("price"); price != "" && price != "all" {
		min, max, ok := parsePriceRange(price)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid price range")
		}
		filter.PriceMin, filter.PriceMax = min, max
	}
	if rating := c.QueryParam("rating"); rating != "" && rating != "all" {
		r, err := decimal.NewFromString(rating)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid rating")
		}
		filter.RatingMin = &r
	}

	page, err := h.productService.Search(ctx, filter)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, page)
}

func queryOrAll(c echo.Context, name string) string {
	v := c.QueryParam(name)
	if v == "all" {
		return ""
	}
	return v
}

func atoiOrDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}

func parsePriceRange(s string) (min, max *decimal.Decimal, ok bool) {
	lo, hi, found := strings.Cut(s, "-")
	if !found || lo == "" || hi == "" {
		return nil, nil, false
	}
	loDec, err := decimal.NewFromString(lo)
	if err != nil {
		return nil, nil, false
	}
	hiDec, err := decimal.NewFromString(hi)
	if err != nil {
		return nil, nil, false
	}
	return &loDec, &hiDec, true
}
