// Package cache holds small in-process TTL caches used around upstream calls and the
// headline ingest worker.
package cache

import (
	"sync"
	"time"
)

type entry struct {
	key string
	ts  time.Time
}

type item[V any] struct {
	value V
	ts    time.Time
}

// TTL keeps at most capacity values, each valid for ttl after it was stored.
type TTL[V any] struct {
	mu       sync.Mutex
	items    map[string]item[V]
	order    []entry
	capacity int
	ttl      time.Duration
	now      func() time.Time
}

// NewTTL creates a cache with the provided capacity and ttl.
func NewTTL[V any](capacity int, ttl time.Duration) *TTL[V] {
	if capacity <= 0 {
		capacity = 1
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TTL[V]{
		items:    make(map[string]item[V], capacity),
		order:    make([]entry, 0, capacity),
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns the value stored under key if it has not expired.
func (c *TTL[V]) Get(key string) (V, bool) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if it, ok := c.items[key]; ok && now.Sub(it.ts) <= c.ttl {
		return it.value, true
	}
	var zero V
	return zero, false
}

// Set stores value under key, evicting the oldest entries past capacity or ttl.
func (c *TTL[V]) Set(key string, value V) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = item[V]{value: value, ts: now}
	c.order = append(c.order, entry{key: key, ts: now})
	c.compact(now)
}

// Len reports the number of live keys, expired or not yet compacted ones included.
func (c *TTL[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// TTL returns the configured lifetime.
func (c *TTL[V]) TTL() time.Duration {
	return c.ttl
}

func (c *TTL[V]) compact(now time.Time) {
	cutoff := now.Add(-c.ttl)

	for len(c.order) > 0 && (len(c.items) > c.capacity || c.order[0].ts.Before(cutoff)) {
		oldest := c.order[0]
		c.order = c.order[1:]

		if it, ok := c.items[oldest.key]; ok {
			if it.ts == oldest.ts {
				delete(c.items, oldest.key)
			}
		}
	}
}
