package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type memoryCache struct {
	store *gocache.Cache
}

// NewMemoryCache returns an in-process cache, used when Redis is not configured
// or unreachable.
func NewMemoryCache(defaultExpiration, cleanupInterval time.Duration) Cache {
	return &memoryCache{store: gocache.New(defaultExpiration, cleanupInterval)}
}

func (m *memoryCache) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	val, ok := m.store.Get(key)
	if !ok {
		return "", ErrCacheMiss
	}
	return val.(string), nil
}

func (m *memoryCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.store.Set(key, value, expiration)
	return nil
}

func (m *memoryCache) Delete(ctx context.Context, key string) error {
	m.store.Delete(key)
	return nil
}

func (m *memoryCache) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return setJSON(ctx, m, key, value, expiration)
}

func (m *memoryCache) GetJSON(ctx context.Context, key string, dest interface{}) error {
	return getJSON(ctx, m, key, dest)
}
