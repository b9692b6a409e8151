package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/apiclient"
	"github.com/Skotchmaster/storefront/internal/apperr"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/session"
)

// account is shared by the customer and shop handlers: both call the backend
// with the session token and drop the session when the backend rejects it.
type account struct {
	API     *apiclient.Client
	Session *session.Manager
}

func (a account) token(c echo.Context, name string) (string, error) {
	tok := a.Session.Token()
	if tok == "" {
		return "", fail(c, name, apperr.ErrUnauthenticated)
	}
	return tok, nil
}

func (a account) remote(c echo.Context, name string, err error) error {
	a.Session.Invalidate(c.Request().Context(), err)
	return fail(c, name, err)
}

// respond runs call with the session token and writes its result as JSON.
func respond[T any](a account, c echo.Context, name string, status int, call func(token string) (T, error)) error {
	tok, err := a.token(c, name)
	if err != nil {
		return err
	}
	out, err := call(tok)
	if err != nil {
		return a.remote(c, name, err)
	}
	return c.JSON(status, out)
}

func respondEmpty(a account, c echo.Context, name string, call func(token string) error) error {
	tok, err := a.token(c, name)
	if err != nil {
		return err
	}
	if err := call(tok); err != nil {
		return a.remote(c, name, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type CustomerHandler struct {
	API     *apiclient.Client
	Session *session.Manager
}

func (h *CustomerHandler) acc() account { return account{API: h.API, Session: h.Session} }

func (h *CustomerHandler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	return respond(h.acc(), c, "customer.dashboard", http.StatusOK, func(tok string) (models.Dashboard, error) {
		return h.API.CustomerDashboard(ctx, tok)
	})
}

func (h *CustomerHandler) Orders(c echo.Context) error {
	ctx := c.Request().Context()
	return respond(h.acc(), c, "customer.orders", http.StatusOK, func(tok string) (models.Page[models.Order], error) {
		return h.API.CustomerOrders(ctx, tok)
	})
}

func (h *CustomerHandler) Order(c echo.Context) error {
	const name = "customer.order"
	id, err := paramID(c, name, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	return respond(h.acc(), c, name, http.StatusOK, func(tok string) (models.Order, error) {
		return h.API.CustomerOrder(ctx, tok, id)
	})
}

func (h *CustomerHandler) Wishlist(c echo.Context) error {
	ctx := c.Request().Context()
	return respond(h.acc(), c, "customer.wishlist", http.StatusOK, func(tok string) (models.Page[models.WishlistEntry], error) {
		return h.API.Wishlist(ctx, tok)
	})
}

func (h *CustomerHandler) AddToWishlist(c echo.Context) error {
	const name = "customer.wishlist_add"
	var req struct {
		Product int64 `json:"product"`
	}
	if err := bind(c, name, &req); err != nil {
		return err
	}
	if req.Product <= 0 {
		return fail(c, name, apperr.Validation("product", "product is required"))
	}
	ctx := c.Request().Context()
	return respond(h.acc(), c, name, http.StatusCreated, func(tok string) (models.WishlistEntry, error) {
		return h.API.AddToWishlist(ctx, tok, req.Product)
	})
}

func (h *CustomerHandler) RemoveFromWishlist(c echo.Context) error {
	const name = "customer.wishlist_remove"
	id, err := paramID(c, name, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	return respondEmpty(h.acc(), c, name, func(tok string) error {
		return h.API.RemoveFromWishlist(ctx, tok, id)
	})
}

func (h *CustomerHandler) Reviews(c echo.Context) error {
	ctx := c.Request().Context()
	return respond(h.acc(), c, "customer.reviews", http.StatusOK, func(tok string) (models.Page[models.Review], error) {
		return h.API.CustomerReviews(ctx, tok)
	})
}

func (h *CustomerHandler) CreateReview(c echo.Context) error {
	const name = "customer.review_create"
	var r models.Review
	if err := bind(c, name, &r); err != nil {
		return err
	}
	if r.Rating < 1 || r.Rating > 5 {
		return fail(c, name, apperr.Validation("rating", "rating must be between 1 and 5"))
	}
	ctx := c.Request().Context()
	return respond(h.acc(), c, name, http.StatusCreated, func(tok string) (models.Review, error) {
		return h.API.CreateReview(ctx, tok, r)
	})
}

func (h *CustomerHandler) DeleteReview(c echo.Context) error {
	const name = "customer.review_delete"
	id, err := paramID(c, name, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	return respondEmpty(h.acc(), c, name, func(tok string) error {
		return h.API.DeleteReview(ctx, tok, id)
	})
}
