package payload

import (
	"context"
	"fmt"

	"github.com/facebookincubator/go-belt/tool/logger"
	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	DefaultRGBFrameCacheSize    = 5
	DefaultDepthFrameCacheSize  = 5
	DefaultObservationCacheSize = 5
)

type cache[K comparable, V any] struct {
	name  string
	items *lru.Cache[K, V]
	load  func(context.Context, K) (V, error)
}

func newCache[K comparable, V any](
	name string,
	size int,
	load func(context.Context, K) (V, error),
) (*cache[K, V], error) {
	if size <= 0 {
		return nil, fmt.Errorf("the size of the %s cache must be positive, got %d", name, size)
	}
	items, err := lru.New[K, V](size)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize the %s cache: %w", name, err)
	}
	return &cache[K, V]{
		name:  name,
		items: items,
		load:  load,
	}, nil
}

// Get returns the cached value or loads it. Errors are not cached.
func (c *cache[K, V]) Get(ctx context.Context, key K) (V, error) {
	if v, ok := c.items.Get(key); ok {
		return v, nil
	}

	logger.Tracef(ctx, "%s cache miss: %+v", c.name, key)
	v, err := c.load(ctx, key)
	if err != nil {
		return v, err
	}
	c.items.Add(key, v)
	return v, nil
}

func (c *cache[K, V]) Len() int {
	return c.items.Len()
}
