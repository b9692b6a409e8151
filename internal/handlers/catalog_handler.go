package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/apiclient"
	"github.com/Skotchmaster/storefront/internal/apperr"
	"github.com/Skotchmaster/storefront/internal/search"
	"github.com/Skotchmaster/storefront/internal/util"
)

type CatalogHandler struct {
	API    *apiclient.Client
	Search *search.Searcher
}

func (h *CatalogHandler) Overview(c echo.Context) error {
	out, err := h.API.ShopOverview(c.Request().Context())
	if err != nil {
		return fail(c, "catalog.overview", err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) Products(c echo.Context) error {
	q := apiclient.ProductQuery{
		Search:   c.QueryParam("search"),
		Category: c.QueryParam("category"),
		Ordering: c.QueryParam("ordering"),
		Page:     parseIntDefault(c.QueryParam("page"), 0),
	}
	out, err := h.API.Products(c.Request().Context(), q)
	if err != nil {
		return fail(c, "catalog.products", err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) Product(c echo.Context) error {
	const name = "catalog.product"
	id, err := paramID(c, name, "id")
	if err != nil {
		return err
	}
	out, err := h.API.Product(c.Request().Context(), id)
	if err != nil {
		return fail(c, name, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) SearchProducts(c echo.Context) error {
	const name = "catalog.search"
	if h.Search == nil {
		return fail(c, name, apperr.NotFound("search is not configured"))
	}
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	out, err := h.Search.Search(c.Request().Context(), c.QueryParam("q"), page, size)
	if err != nil {
		return fail(c, name, err)
	}
	return c.JSON(http.StatusOK, out)
}
