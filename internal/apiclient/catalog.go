package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Skotchmaster/storefront/internal/models"
)

// ProductQuery filters the public product list. Zero values are omitted.
type ProductQuery struct {
	Search   string
	Category string
	Ordering string
	Page     int
}

func (q ProductQuery) values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Ordering != "" {
		v.Set("ordering", q.Ordering)
	}
	if q.Page > 0 {
		v.Set("page", itoa(q.Page))
	}
	return v
}

func (c *Client) ShopOverview(ctx context.Context) (models.ShopOverview, error) {
	var out models.ShopOverview
	err := c.do(ctx, call{method: http.MethodGet, path: "/shop_overview/"}, &out)
	return out, err
}

func (c *Client) Products(ctx context.Context, q ProductQuery) (models.Page[models.Product], error) {
	return getList[models.Product](ctx, c, "/shop_products/", "", q.values())
}

func (c *Client) Product(ctx context.Context, id int64) (models.Product, error) {
	var out models.Product
	err := c.do(ctx, call{method: http.MethodGet, path: pathID("/shop_products/%d/", id)}, &out)
	return out, err
}
