package di

import (
	"context"
	"sync"
	"time"

	"composer2/application/ports"
)

// InMemoryPostCache caches post list results in process memory
type InMemoryPostCache struct {
	mu    sync.RWMutex
	items map[string]cacheItem
}

type cacheItem struct {
	posts     []ports.PersistedPost
	expiresAt time.Time
}

// NewInMemoryPostCache creates a new in-memory post cache
func NewInMemoryPostCache() *InMemoryPostCache {
	cache := &InMemoryPostCache{
		items: make(map[string]cacheItem),
	}

	// Start cleanup goroutine
	go cache.cleanupExpired()

	return cache
}

// Get retrieves a cached list result
func (c *InMemoryPostCache) Get(ctx context.Context, key string) ([]ports.PersistedPost, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, exists := c.items[key]
	if !exists {
		return nil, false
	}

	if time.Now().After(item.expiresAt) {
		return nil, false
	}

	return item.posts, true
}

// Set stores a list result with TTL in seconds
func (c *InMemoryPostCache) Set(ctx context.Context, key string, posts []ports.PersistedPost, ttl int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = cacheItem{
		posts:     posts,
		expiresAt: time.Now().Add(time.Duration(ttl) * time.Second),
	}

	return nil
}

// Delete removes a cached list result
func (c *InMemoryPostCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
	return nil
}

// cleanupExpired periodically removes expired items
func (c *InMemoryPostCache) cleanupExpired() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		now := time.Now()
		for key, item := range c.items {
			if now.After(item.expiresAt) {
				delete(c.items, key)
			}
		}
		c.mu.Unlock()
	}
}
