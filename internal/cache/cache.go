// Package cache provides the per-user, per-month memoization layer in front of
// budget queries.
package cache

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"budgetmaster/internal/month"
)

// Loader fetches the value for a cache miss.
type Loader[T any] func(ctx context.Context) (T, error)

// MonthCache memoizes one value per (user, month) until it is explicitly
// invalidated. There is no TTL.
//
// Concurrent misses on the same key share a single load. A load that was
// started before the key was invalidated still returns its result to its
// callers, but the result is not stored.
type MonthCache[T any] struct {
	mu    sync.Mutex
	items map[string]T
	gens  map[string]uint64
	group singleflight.Group
}

// NewMonthCache creates an empty MonthCache.
func NewMonthCache[T any]() *MonthCache[T] {
	return &MonthCache[T]{
		items: make(map[string]T),
		gens:  make(map[string]uint64),
	}
}

// Key builds the cache key for a user and month.
func Key(userID string, m month.Key) string {
	return userID + "|" + m.String()
}

// Get returns the cached value for key, if any.
func (c *MonthCache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	return v, ok
}

// Delete removes key and marks any in-flight load for it as stale.
func (c *MonthCache[T]) Delete(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.gens[key]++
	c.mu.Unlock()
	c.group.Forget(key)
}

// Invalidate drops the entries for userID in each of the given months.
func (c *MonthCache[T]) Invalidate(userID string, months ...month.Key) {
	for _, m := range months {
		c.Delete(Key(userID, m))
	}
}

// GetOrLoad returns the cached value for (userID, m), calling load on a miss.
// The boolean reports whether the value came from the cache.
func (c *MonthCache[T]) GetOrLoad(ctx context.Context, userID string, m month.Key, load Loader[T]) (T, bool, error) {
	key := Key(userID, m)
	if v, ok := c.Get(key); ok {
		return v, true, nil
	}

	res, err, _ := c.group.Do(key, func() (any, error) {
		gen := c.generation(key)
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		c.storeIfCurrent(key, gen, v)
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, false, err
	}
	return res.(T), false, nil
}

func (c *MonthCache[T]) generation(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[key]
}

func (c *MonthCache[T]) storeIfCurrent(key string, gen uint64, v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[key] != gen {
		return
	}
	c.items[key] = v
}
