// Package search runs full-text product queries against Elasticsearch.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/storefront/internal/apperr"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/util"
)

type Results struct {
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Size  int              `json:"size"`
	Items []models.Product `json:"items"`
}

type Searcher struct {
	Client *elasticsearch.Client
	Index  string
}

func buildQuery(query string, from, size int) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"product_name^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}
}

func (s *Searcher) Search(ctx context.Context, rawQuery string, page, size int) (Results, error) {
	q := strings.TrimSpace(rawQuery)
	from, limit := util.Calculate(page, size)
	if page < 1 {
		page = 1
	}
	if q == "" {
		return Results{Page: page, Size: limit, Items: []models.Product{}}, nil
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(buildQuery(q, from, limit)); err != nil {
		return Results{}, apperr.Failed("search failed", fmt.Errorf("encode query: %w", err))
	}

	res, err := s.Client.Search(
		s.Client.Search.WithContext(ctx),
		s.Client.Search.WithIndex(s.Index),
		s.Client.Search.WithBody(&buf),
	)
	if err != nil {
		return Results{}, apperr.Failed("search failed", fmt.Errorf("search: %w", err))
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return Results{}, apperr.Failed("search failed", fmt.Errorf("search %s: %s", res.Status(), body))
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return Results{}, apperr.Failed("search failed", fmt.Errorf("decode search response: %w", err))
	}

	items := make([]models.Product, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		items[i] = hit.Source
	}
	return Results{Total: r.Hits.Total.Value, Page: page, Size: limit, Items: items}, nil
}
