// Package cache keeps rendered index responses for a short time.
package cache

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

var ErrMiss = errors.New("cache miss")

// Store is a byte-oriented key/value store with expiration. Get returns
// ErrMiss for absent keys.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cache is a read-through cache over a Store. A failing store never fails a
// request: the value is computed and the failure is logged.
type Cache struct {
	store  Store
	ttl    time.Duration
	logger zerolog.Logger
}

// New returns a cache whose entries expire after ttl. Zero ttl means the
// store's default, usually no expiration.
func New(store Store, ttl time.Duration) *Cache {
	return &Cache{
		store:  store,
		ttl:    ttl,
		logger: zerolog.Nop(),
	}
}

func (c *Cache) WithLogger(logger zerolog.Logger) *Cache {
	ret := *c
	ret.logger = logger

	return &ret
}

// Fetch returns the cached value of key, or computes, stores and returns it.
// A nil Cache always computes.
func (c *Cache) Fetch(ctx context.Context, key string, compute func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	if c == nil || c.store == nil {
		return compute(ctx)
	}

	value, err := c.store.Get(ctx, key)
	switch {
	case err == nil:
		c.logger.Debug().Str("key", key).Msg("cache hit")
		return value, nil
	case !errors.Is(err, ErrMiss):
		c.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}

	value, err = compute(ctx)
	if err != nil {
		return nil, err
	}

	if err = c.store.Set(ctx, key, value, c.ttl); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}

	return value, nil
}

// Key builds the cache key of a request: its path and its query parameters
// in canonical (sorted) order.
func Key(path string, query url.Values) string {
	encoded := query.Encode()
	if encoded == "" {
		return path
	}

	return path + "?" + encoded
}
