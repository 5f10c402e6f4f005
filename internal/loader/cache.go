package loader

import (
	"context"
	"sync"
	"time"
)

// Cache stores fetched documents keyed by repo, path and branch.
// A miss returns ok == false and a nil error.
type Cache interface {
	Get(ctx context.Context, key CacheKey) (text string, ok bool, err error)
	Set(ctx context.Context, key CacheKey, text string) error
}

// CacheKey identifies one candidate document.
type CacheKey struct {
	Repo   string
	Path   string
	Branch string
}

func (k CacheKey) String() string {
	return k.Repo + "@" + k.Branch + ":" + k.Path
}

type memoryItem struct {
	text    string
	expires time.Time
}

// MemoryCache is an in-process Cache with a fixed TTL.
type MemoryCache struct {
	ttl time.Duration
	now func() time.Time

	mu    sync.Mutex
	items map[CacheKey]memoryItem
}

// NewMemoryCache creates a MemoryCache. A non-positive ttl keeps entries forever.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:   ttl,
		now:   time.Now,
		items: make(map[CacheKey]memoryItem),
	}
}

// Get returns a live entry for key.
func (c *MemoryCache) Get(_ context.Context, key CacheKey) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	it, ok := c.items[key]
	if !ok {
		return "", false, nil
	}
	if !it.expires.IsZero() && !c.now().Before(it.expires) {
		delete(c.items, key)
		return "", false, nil
	}
	return it.text, true, nil
}

// Set stores text under key.
func (c *MemoryCache) Set(_ context.Context, key CacheKey, text string) error {
	it := memoryItem{text: text}
	if c.ttl > 0 {
		it.expires = c.now().Add(c.ttl)
	}
	c.mu.Lock()
	c.items[key] = it
	c.mu.Unlock()
	return nil
}
