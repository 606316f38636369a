package retrieval

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// EmbeddingCache memoizes chunk vectors by chunk ID. Concurrent requests
// for the same chunk share one embedding call; failures are returned but
// never cached, so the next request retries.
type EmbeddingCache struct {
	mu      sync.RWMutex
	vectors map[string][]float32
	group   singleflight.Group
}

// NewEmbeddingCache returns an empty cache.
func NewEmbeddingCache() *EmbeddingCache {
	return &EmbeddingCache{vectors: make(map[string][]float32)}
}

// Get returns the cached vector for id, embedding text on a miss.
func (c *EmbeddingCache) Get(ctx context.Context, id, text string, embed EmbedFunc) ([]float32, error) {
	c.mu.RLock()
	vec, ok := c.vectors[id]
	c.mu.RUnlock()
	if ok {
		return vec, nil
	}

	v, err, _ := c.group.Do(id, func() (any, error) {
		// Another caller may have filled the slot while we waited.
		c.mu.RLock()
		vec, ok := c.vectors[id]
		c.mu.RUnlock()
		if ok {
			return vec, nil
		}

		vec, err := embed(ctx, text)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.vectors[id] = vec
		c.mu.Unlock()
		return vec, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]float32), nil
}

// Len returns the number of cached vectors.
func (c *EmbeddingCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.vectors)
}

// Reset drops all cached vectors, typically after a corpus reload.
func (c *EmbeddingCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vectors = make(map[string][]float32)
}
