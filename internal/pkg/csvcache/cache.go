// Package csvcache holds parsed files for the lifetime of the process.
//
// An entry is populated the first time its key is requested and is never
// refreshed, evicted or invalidated afterwards, even if the file on disk
// changes. Concurrent misses on the same key share a single load, and no
// caller can observe a partially loaded value.
package csvcache

import (
	"context"
	"sync"

	"github.com/ougirez/energy-mock/internal/pkg/metrics"
	"golang.org/x/sync/singleflight"
)

// Loader produces the value for a key on a miss.
type Loader[V any] func(ctx context.Context, key string) (V, error)

type Cache[V any] struct {
	data  map[string]V
	mutex sync.RWMutex
	group singleflight.Group
}

func New[V any]() *Cache[V] {
	return &Cache[V]{data: make(map[string]V)}
}

// Get returns the cached value for key, running load at most once per key.
// Failed loads are not stored, so a later Get retries.
func (c *Cache[V]) Get(ctx context.Context, key string, load Loader[V]) (V, error) {
	if v, ok := c.lookup(key); ok {
		metrics.CSVCacheHits.Inc()
		return v, nil
	}
	metrics.CSVCacheMisses.Inc()

	res, err, _ := c.group.Do(key, func() (interface{}, error) {
		// a load that finished between lookup and Do already published its value
		if v, ok := c.lookup(key); ok {
			return v, nil
		}

		metrics.CSVCacheLoads.Inc()
		v, err := load(ctx, key)
		if err != nil {
			return nil, err
		}

		c.mutex.Lock()
		c.data[key] = v
		c.mutex.Unlock()

		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}

	return res.(V), nil
}

func (c *Cache[V]) lookup(key string) (V, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	v, ok := c.data[key]
	return v, ok
}

// Len returns the number of populated entries.
func (c *Cache[V]) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}
