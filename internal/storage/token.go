package storage

import (
	"context"
	"errors"
	"time"
)

// DefaultTokenTTL mirrors the fixed seven day cookie lifetime of the web client.
const DefaultTokenTTL = 7 * 24 * time.Hour

// TokenStore keeps the bearer token. The expiry is fixed at save time and never slides.
type TokenStore struct {
	Store Store
	TTL   time.Duration
}

func NewTokenStore(s Store, ttl time.Duration) *TokenStore {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenStore{Store: s, TTL: ttl}
}

// Load returns "" without error when no token is stored.
func (t *TokenStore) Load(ctx context.Context) (string, error) {
	b, err := t.Store.Get(ctx, TokenKey)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (t *TokenStore) Save(ctx context.Context, token string) error {
	return t.Store.Set(ctx, TokenKey, []byte(token), t.TTL)
}

func (t *TokenStore) Clear(ctx context.Context) error {
	return t.Store.Delete(ctx, TokenKey)
}
