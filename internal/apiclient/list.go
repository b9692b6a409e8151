package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/Skotchmaster/storefront/internal/apperr"
	"github.com/Skotchmaster/storefront/internal/models"
)

// getList reads endpoints that answer either with a bare array or with a
// paginated {"count", "results"} page.
func getList[T any](ctx context.Context, c *Client, path, token string, q url.Values) (models.Page[T], error) {
	var raw json.RawMessage
	if err := c.do(ctx, call{method: http.MethodGet, path: path, token: token, query: q}, &raw); err != nil {
		return models.Page[T]{}, err
	}
	return decodePage[T](raw)
}

func decodePage[T any](raw json.RawMessage) (models.Page[T], error) {
	var items []T
	if err := json.Unmarshal(raw, &items); err == nil {
		if items == nil {
			items = []T{}
		}
		return models.Page[T]{Count: len(items), Results: items}, nil
	}
	var page models.Page[T]
	if err := json.Unmarshal(raw, &page); err != nil {
		return models.Page[T]{}, apperr.Failed("unexpected response from server", err)
	}
	if page.Results == nil {
		page.Results = []T{}
	}
	return page, nil
}
