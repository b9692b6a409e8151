package apiclient

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Skotchmaster/storefront/internal/models"
)

func itoa(n int) string { return strconv.Itoa(n) }

func (c *Client) ShopDashboard(ctx context.Context, token string) (models.Dashboard, error) {
	var out models.Dashboard
	err := c.do(ctx, call{method: http.MethodGet, path: "/shop/dashboard/", token: token}, &out)
	return out, err
}

func (c *Client) ShopAnalytics(ctx context.Context, token string) (models.Analytics, error) {
	var out models.Analytics
	err := c.do(ctx, call{method: http.MethodGet, path: "/shop/analytics/", token: token}, &out)
	return out, err
}

func (c *Client) ShopCategories(ctx context.Context, token string) (models.Page[models.Category], error) {
	return getList[models.Category](ctx, c, "/shop/categories/", token, nil)
}

func (c *Client) CreateCategory(ctx context.Context, token string, cat models.Category) (models.Category, error) {
	var out models.Category
	err := c.do(ctx, call{method: http.MethodPost, path: "/shop/categories/", token: token, body: cat}, &out)
	return out, err
}

func (c *Client) UpdateCategory(ctx context.Context, token string, cat models.Category) (models.Category, error) {
	var out models.Category
	err := c.do(ctx, call{method: http.MethodPatch, path: pathID("/shop/categories/%d/", cat.ID), token: token, body: cat}, &out)
	return out, err
}

func (c *Client) DeleteCategory(ctx context.Context, token string, id int64) error {
	return c.do(ctx, call{method: http.MethodDelete, path: pathID("/shop/categories/%d/", id), token: token}, nil)
}

func (c *Client) ShopProducts(ctx context.Context, token string) (models.Page[models.Product], error) {
	return getList[models.Product](ctx, c, "/shop/products/", token, nil)
}

func (c *Client) CreateProduct(ctx context.Context, token string, p models.Product) (models.Product, error) {
	var out models.Product
	err := c.do(ctx, call{method: http.MethodPost, path: "/shop/products/", token: token, body: p}, &out)
	return out, err
}

func (c *Client) UpdateProduct(ctx context.Context, token string, p models.Product) (models.Product, error) {
	var out models.Product
	err := c.do(ctx, call{method: http.MethodPatch, path: pathID("/shop/products/%d/", p.ID), token: token, body: p}, &out)
	return out, err
}

func (c *Client) DeleteProduct(ctx context.Context, token string, id int64) error {
	return c.do(ctx, call{method: http.MethodDelete, path: pathID("/shop/products/%d/", id), token: token}, nil)
}

func (c *Client) ProductImages(ctx context.Context, token string, productID int64) (models.Page[models.ProductImage], error) {
	return getList[models.ProductImage](ctx, c, pathID("/shop/products/%d/images/", productID), token, nil)
}

func (c *Client) DeleteProductImage(ctx context.Context, token string, productID, imageID int64) error {
	return c.do(ctx, call{method: http.MethodDelete, path: pathID("/shop/products/%d/images/%d/", productID, imageID), token: token}, nil)
}

func (c *Client) StockMovements(ctx context.Context, token string) (models.Page[models.StockMovement], error) {
	return getList[models.StockMovement](ctx, c, "/shop/stock-movements/", token, nil)
}

func (c *Client) CreateStockMovement(ctx context.Context, token string, m models.StockMovement) (models.StockMovement, error) {
	var out models.StockMovement
	err := c.do(ctx, call{method: http.MethodPost, path: "/shop/stock-movements/", token: token, body: m}, &out)
	return out, err
}

func (c *Client) Inventory(ctx context.Context, token string) (models.Page[models.InventoryItem], error) {
	return getList[models.InventoryItem](ctx, c, "/shop/inventory/", token, nil)
}

func (c *Client) ShopOrders(ctx context.Context, token string) (models.Page[models.Order], error) {
	return getList[models.Order](ctx, c, "/shop/orders/", token, nil)
}

func (c *Client) UpdateOrderStatus(ctx context.Context, token string, id int64, status string) (models.Order, error) {
	var out models.Order
	body := map[string]string{"status": status}
	err := c.do(ctx, call{method: http.MethodPatch, path: pathID("/shop/orders/%d/", id), token: token, body: body}, &out)
	return out, err
}

func (c *Client) ShopPayments(ctx context.Context, token string) (models.Page[models.Payment], error) {
	return getList[models.Payment](ctx, c, "/shop/payments/", token, nil)
}

func (c *Client) ShopReviews(ctx context.Context, token string) (models.Page[models.Review], error) {
	return getList[models.Review](ctx, c, "/shop/reviews/", token, nil)
}

func (c *Client) ReplyToReview(ctx context.Context, token string, id int64, reply string) (models.Review, error) {
	var out models.Review
	body := map[string]string{"reply": reply}
	err := c.do(ctx, call{method: http.MethodPatch, path: pathID("/shop/reviews/%d/", id), token: token, body: body}, &out)
	return out, err
}

func (c *Client) DeleteShopReview(ctx context.Context, token string, id int64) error {
	return c.do(ctx, call{method: http.MethodDelete, path: pathID("/shop/reviews/%d/", id), token: token}, nil)
}
