package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/checkout"
)

type CheckoutHandler struct {
	Checkout *checkout.Service
}

func (h *CheckoutHandler) PlaceOrder(c echo.Context) error {
	const name = "checkout.place_order"
	var req checkout.Request
	if err := bind(c, name, &req); err != nil {
		return err
	}
	order, err := h.Checkout.PlaceOrder(c.Request().Context(), req)
	if err != nil {
		return fail(c, name, err)
	}
	return c.JSON(http.StatusCreated, order)
}
