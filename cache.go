package contentapi

import (
	"context"
	"sync"
	"time"
)

// summaryCache is an in-memory cache of the published-post listing with TTL.
// Mutating handlers invalidate it; view increments do not, so listed view
// counts may lag the live counter by up to one TTL.
type summaryCache struct {
	mu      sync.RWMutex
	posts   []BlogSummary
	fetched time.Time
	ttl     time.Duration
	store   *Store
}

func newSummaryCache(s *Store, ttl time.Duration) *summaryCache {
	return &summaryCache{store: s, ttl: ttl}
}

func (c *summaryCache) valid() bool {
	return c.posts != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *summaryCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.mu.Unlock()
}

// List returns cached published summaries, reloading from the store when the
// TTL has lapsed. It tries a read lock first; only takes a write lock if a
// reload is needed.
func (c *summaryCache) List(ctx context.Context) ([]BlogSummary, error) {
	c.mu.RLock()
	if c.valid() {
		posts := c.posts
		c.mu.RUnlock()
		return posts, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.posts, nil
	}
	posts, err := c.store.ListPublished(ctx)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []BlogSummary{}
	}
	c.posts = posts
	c.fetched = time.Now()
	return posts, nil
}
