package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/apperr"
	"github.com/Skotchmaster/storefront/internal/cart"
	"github.com/Skotchmaster/storefront/internal/models"
)

type ProductLookup interface {
	Product(ctx context.Context, id int64) (models.Product, error)
}

type CartHandler struct {
	Cart    *cart.Store
	Catalog ProductLookup
}

type addItemResponse struct {
	Outcome cart.Outcome  `json:"outcome"`
	Cart    cart.Snapshot `json:"cart"`
}

func (h *CartHandler) Get(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Cart.Snapshot())
}

// AddItem takes the product snapshot from the request. When only an id is sent
// the product is looked up in the catalog first.
func (h *CartHandler) AddItem(c echo.Context) error {
	const name = "cart.add_item"
	ctx := c.Request().Context()

	var p cart.Product
	if err := bind(c, name, &p); err != nil {
		return err
	}

	if p.Price.IsZero() && p.ID != "" && h.Catalog != nil {
		id, err := strconv.ParseInt(p.ID, 10, 64)
		if err != nil {
			return fail(c, name, apperr.Validation("id", "id is not a valid product id"))
		}
		mp, err := h.Catalog.Product(ctx, id)
		if err != nil {
			return fail(c, name, err)
		}
		p = cart.FromModel(mp)
	}

	outcome, err := h.Cart.AddItem(ctx, p)
	if err != nil {
		return fail(c, name, err)
	}
	status := http.StatusCreated
	if outcome == cart.Increased {
		status = http.StatusOK
	}
	return c.JSON(status, addItemResponse{Outcome: outcome, Cart: h.Cart.Snapshot()})
}

func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	const name = "cart.update_quantity"
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := bind(c, name, &req); err != nil {
		return err
	}
	if err := h.Cart.UpdateQuantity(c.Request().Context(), c.Param("id"), req.Quantity); err != nil {
		return fail(c, name, err)
	}
	return c.JSON(http.StatusOK, h.Cart.Snapshot())
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	if err := h.Cart.RemoveItem(c.Request().Context(), c.Param("id")); err != nil {
		return fail(c, "cart.remove_item", err)
	}
	return c.JSON(http.StatusOK, h.Cart.Snapshot())
}

func (h *CartHandler) Clear(c echo.Context) error {
	if err := h.Cart.Clear(c.Request().Context()); err != nil {
		return fail(c, "cart.clear", err)
	}
	return c.NoContent(http.StatusNoContent)
}
