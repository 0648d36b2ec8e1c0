// Package cache provides the in-memory TTL cache behind tenant resolution:
// a Ready session's tenant row is kept warm so a re-bootstrap after sign-out
// skips the remote round trip.
package cache

import (
	"sync"
	"time"
)

type record[T any] struct {
	value    T
	deadline time.Time
}

func (r record[T]) expired(now time.Time) bool { return now.After(r.deadline) }

// InMemory is a thread-safe TTL cache.
type InMemory[T any] struct {
	mu      sync.RWMutex
	records map[string]record[T]
	ttl     time.Duration
}

// New creates a cache whose entries live for ttl. A background sweeper
// reclaims expired records once per ttl interval.
func New[T any](ttl time.Duration) *InMemory[T] {
	c := &InMemory[T]{
		records: make(map[string]record[T]),
		ttl:     ttl,
	}
	go c.sweep()
	return c
}

// Get returns the cached value, or false when missing or expired. An
// expired record is removed on the spot instead of waiting for the sweeper.
func (c *InMemory[T]) Get(key string) (T, bool) {
	var zero T

	c.mu.RLock()
	rec, ok := c.records[key]
	c.mu.RUnlock()
	if !ok {
		return zero, false
	}

	if rec.expired(time.Now()) {
		c.mu.Lock()
		// Re-check under the write lock; a Set may have raced the expiry.
		if cur, ok := c.records[key]; ok && cur.expired(time.Now()) {
			delete(c.records, key)
		}
		c.mu.Unlock()
		return zero, false
	}
	return rec.value, true
}

// Set stores a value, restarting its TTL.
func (c *InMemory[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records[key] = record[T]{value: value, deadline: time.Now().Add(c.ttl)}
}

// Delete removes a value.
func (c *InMemory[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.records, key)
}

func (c *InMemory[T]) sweep() {
	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		c.mu.Lock()
		for k, rec := range c.records {
			if rec.expired(now) {
				delete(c.records, k)
			}
		}
		c.mu.Unlock()
	}
}
