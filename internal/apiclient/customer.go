package apiclient

import (
	"context"
	"net/http"

	"github.com/Skotchmaster/storefront/internal/models"
)

func (c *Client) CustomerDashboard(ctx context.Context, token string) (models.Dashboard, error) {
	var out models.Dashboard
	err := c.do(ctx, call{method: http.MethodGet, path: "/customer/dashboard/", token: token}, &out)
	return out, err
}

func (c *Client) CustomerOrders(ctx context.Context, token string) (models.Page[models.Order], error) {
	return getList[models.Order](ctx, c, "/customer/orders/", token, nil)
}

func (c *Client) CustomerOrder(ctx context.Context, token string, id int64) (models.Order, error) {
	var out models.Order
	err := c.do(ctx, call{method: http.MethodGet, path: pathID("/customer/orders/%d/", id), token: token}, &out)
	return out, err
}

// CreateOrder sends idempotencyKey so a retried submit cannot create a second order.
func (c *Client) CreateOrder(ctx context.Context, token string, req models.OrderRequest, idempotencyKey string) (models.Order, error) {
	var out models.Order
	h := http.Header{}
	if idempotencyKey != "" {
		h.Set(headerIdempotencyKey, idempotencyKey)
	}
	err := c.do(ctx, call{method: http.MethodPost, path: "/customer/orders/", token: token, body: req, header: h}, &out)
	return out, err
}

func (c *Client) Wishlist(ctx context.Context, token string) (models.Page[models.WishlistEntry], error) {
	return getList[models.WishlistEntry](ctx, c, "/customer/wishlist/", token, nil)
}

func (c *Client) AddToWishlist(ctx context.Context, token string, productID int64) (models.WishlistEntry, error) {
	var out models.WishlistEntry
	body := map[string]int64{"product": productID}
	err := c.do(ctx, call{method: http.MethodPost, path: "/customer/wishlist/", token: token, body: body}, &out)
	return out, err
}

func (c *Client) RemoveFromWishlist(ctx context.Context, token string, id int64) error {
	return c.do(ctx, call{method: http.MethodDelete, path: pathID("/customer/wishlist/%d/", id), token: token}, nil)
}

func (c *Client) CustomerReviews(ctx context.Context, token string) (models.Page[models.Review], error) {
	return getList[models.Review](ctx, c, "/customer/reviews/", token, nil)
}

func (c *Client) CreateReview(ctx context.Context, token string, r models.Review) (models.Review, error) {
	var out models.Review
	err := c.do(ctx, call{method: http.MethodPost, path: "/customer/reviews/", token: token, body: r}, &out)
	return out, err
}

func (c *Client) DeleteReview(ctx context.Context, token string, id int64) error {
	return c.do(ctx, call{method: http.MethodDelete, path: pathID("/customer/reviews/%d/", id), token: token}, nil)
}
