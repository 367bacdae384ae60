package memory

import (
	"context"
	"sync"
)

// Cache implements ports.ViewCache in memory.
// Safe for concurrent use.
type Cache struct {
	data map[string]string
	mu   sync.RWMutex
}

// NewCache creates an empty in-memory view cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string]string),
	}
}

// Get returns the markup stored under key.
func (c *Cache) Get(ctx context.Context, key string) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	html, ok := c.data[key]
	return html, ok, nil
}

// Set stores html under key.
func (c *Cache) Set(ctx context.Context, key, html string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = html
	return nil
}

// Purge drops every entry.
func (c *Cache) Purge(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.data)
	return nil
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
