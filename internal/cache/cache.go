// Package cache is a small key/value port with an in-process backend
// (patrickmn/go-cache) and a shared backend (redis).
package cache

import (
	"context"
	"fmt"
	"reflect"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// NoExpiration keeps an entry until it is deleted.
const NoExpiration time.Duration = -1

type Cache interface {
	// Get loads key into dest, which must be a non-nil pointer. It reports
	// false when the key is absent.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// memoryCache stores values as-is, so a hit hands back the very value that
// was stored.
type memoryCache struct {
	c *gocache.Cache
}

func NewMemoryCache(cleanupInterval time.Duration) Cache {
	if cleanupInterval <= 0 {
		cleanupInterval = 10 * time.Minute
	}
	return &memoryCache{c: gocache.New(gocache.NoExpiration, cleanupInterval)}
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return false, nil
	}

	target := reflect.ValueOf(dest)
	if target.Kind() != reflect.Pointer || target.IsNil() {
		return false, fmt.Errorf("cache: destination for %q must be a non-nil pointer", key)
	}
	value := reflect.ValueOf(v)
	if !value.Type().AssignableTo(target.Elem().Type()) {
		return false, fmt.Errorf("cache: cannot load %T into %T", v, dest)
	}
	target.Elem().Set(value)
	return true, nil
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if ttl < 0 {
		ttl = gocache.NoExpiration
	}
	m.c.Set(key, value, ttl)
	return nil
}

func (m *memoryCache) Delete(ctx context.Context, key string) error {
	m.c.Delete(key)
	return nil
}
