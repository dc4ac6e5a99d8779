package utils

import (
	"sync"
	"time"
)

// CacheItem represents a cached item with expiration
type CacheItem struct {
	Value      interface{}
	Expiration time.Time
}

// MemoryCache is an in-memory cache with per-item expiration.
// Items are swept by a background loop started with StartCleanup.
type MemoryCache struct {
	items map[string]*CacheItem
	mu    sync.RWMutex
	now   func() time.Time

	onEvict func(key string, value interface{})
	stop    chan struct{}
	once    sync.Once
}

// NewMemoryCache creates a new, empty cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		items: make(map[string]*CacheItem),
		now:   time.Now,
		stop:  make(chan struct{}),
	}
}

// OnEvict registers a callback run when an expired item is removed
func (c *MemoryCache) OnEvict(fn func(key string, value interface{})) {
	c.mu.Lock()
	c.onEvict = fn
	c.mu.Unlock()
}

// Set stores a value in cache with expiration
func (c *MemoryCache) Set(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = &CacheItem{
		Value:      value,
		Expiration: c.now().Add(ttl),
	}
}

// Get retrieves a value from cache
func (c *MemoryCache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	item, exists := c.items[key]
	c.mu.RUnlock()

	if !exists {
		return nil, false
	}
	if c.now().After(item.Expiration) {
		c.expire(key)
		return nil, false
	}
	return item.Value, true
}

// Touch extends the expiration of an existing item
func (c *MemoryCache) Touch(key string, ttl time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, exists := c.items[key]
	if !exists || c.now().After(item.Expiration) {
		return false
	}
	item.Expiration = c.now().Add(ttl)
	return true
}

// Delete removes an item from cache
func (c *MemoryCache) Delete(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// Clear removes all items from cache
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	c.items = make(map[string]*CacheItem)
	c.mu.Unlock()
}

// StartCleanup sweeps expired items every interval until Stop is called
func (c *MemoryCache) StartCleanup(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.cleanup()
			case <-c.stop:
				return
			}
		}
	}()
}

// Stop ends the cleanup loop
func (c *MemoryCache) Stop() {
	c.once.Do(func() { close(c.stop) })
}

// Done is closed once Stop has been called
func (c *MemoryCache) Done() <-chan struct{} {
	return c.stop
}

func (c *MemoryCache) expire(key string) {
	c.mu.Lock()
	item, exists := c.items[key]
	if !exists || !c.now().After(item.Expiration) {
		c.mu.Unlock()
		return
	}
	delete(c.items, key)
	onEvict := c.onEvict
	c.mu.Unlock()

	if onEvict != nil {
		onEvict(key, item.Value)
	}
}

// cleanup removes expired items
func (c *MemoryCache) cleanup() {
	c.mu.Lock()
	now := c.now()
	var evicted []*CacheItem
	var keys []string
	for key, item := range c.items {
		if now.After(item.Expiration) {
			delete(c.items, key)
			keys = append(keys, key)
			evicted = append(evicted, item)
		}
	}
	onEvict := c.onEvict
	c.mu.Unlock()

	if onEvict != nil {
		for i, key := range keys {
			onEvict(key, evicted[i].Value)
		}
	}
}

// Size returns the number of items in cache
func (c *MemoryCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.items)
}

// Has checks if a key exists in cache
func (c *MemoryCache) Has(key string) bool {
	_, exists := c.Get(key)
	return exists
}

// Keys returns all keys in cache
func (c *MemoryCache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.items))
	for key := range c.items {
		keys = append(keys, key)
	}

	return keys
}
