// Package apiclient talks to the storefront REST backend.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/storefront/internal/apperr"
	"github.com/Skotchmaster/storefront/internal/logging"
)

const (
	headerRequestID      = "X-Request-ID"
	headerIdempotencyKey = "Idempotency-Key"
	maxErrorBody         = 64 << 10
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// NewWithHTTPClient lets tests inject httptest clients.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: hc}
}

type requestIDKey struct{}

// WithRequestID makes outgoing calls reuse the id of the inbound request.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey{}).(string); ok && v != "" {
		return v
	}
	return uuid.NewString()
}

type call struct {
	method string
	path   string
	query  url.Values
	token  string
	body   any
	header http.Header
}

func (c *Client) do(ctx context.Context, in call, out any) error {
	var body io.Reader
	if in.body != nil {
		b, err := json.Marshal(in.body)
		if err != nil {
			return apperr.Failed("", fmt.Errorf("encode request: %w", err))
		}
		body = bytes.NewReader(b)
	}

	u := c.baseURL + in.path
	if len(in.query) > 0 {
		u += "?" + in.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, in.method, u, body)
	if err != nil {
		return apperr.Failed("", fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(headerRequestID, requestID(ctx))
	if in.token != "" {
		req.Header.Set("Authorization", "Bearer "+in.token)
	}
	for k, vs := range in.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	l := logging.FromContext(ctx).With("component", "apiclient", "method", in.method, "path", in.path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		l.Warn("api_request_failed", "reason", "transport", "error", err)
		return transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		e := decodeError(resp.StatusCode, raw)
		l.Warn("api_request_failed", "status", resp.StatusCode, "kind", e.Kind, "reason", e.Message)
		return e
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apperr.Failed("unexpected response from server", fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func transportError(err error) *apperr.Error {
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return apperr.Failed("request timed out", fmt.Errorf("do request: %w", err))
	}
	if errors.Is(err, context.Canceled) {
		return apperr.Failed("request cancelled", fmt.Errorf("do request: %w", err))
	}
	return apperr.Failed("could not reach the server", fmt.Errorf("do request: %w", err))
}

func pathID(format string, ids ...int64) string {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return fmt.Sprintf(format, args...)
}
