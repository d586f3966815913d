package domain

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/benmill23/Image-Uploader/internal/ports"
)

// expiryMargin keeps a URL from being handed out right before it dies
// mid-render.
const expiryMargin = 30 * time.Second

type urlEntry struct {
	url       string
	expiresAt time.Time
}

// SignedURLCache hands out time-limited viewing URLs for private
// objects, re-requesting a grant only once the previous one is near
// expiry. Entries are independent per path, so concurrent lookups for
// different images never contend on more than the map.
type SignedURLCache struct {
	storage ports.ObjectStorage
	ttl     time.Duration

	mu      sync.RWMutex
	entries map[string]urlEntry
	now     func() time.Time
}

func NewSignedURLCache(storage ports.ObjectStorage, ttl time.Duration) *SignedURLCache {
	return &SignedURLCache{
		storage: storage,
		ttl:     ttl,
		entries: make(map[string]urlEntry),
		now:     time.Now,
	}
}

func (c *SignedURLCache) DisplayURL(ctx context.Context, storagePath string) (string, error) {
	c.mu.RLock()
	entry, ok := c.entries[storagePath]
	c.mu.RUnlock()

	if ok && c.now().Before(entry.expiresAt.Add(-expiryMargin)) {
		return entry.url, nil
	}

	url, err := c.storage.SignedURL(ctx, storagePath, c.ttl)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrSignedURL, storagePath, err)
	}

	c.mu.Lock()
	c.entries[storagePath] = urlEntry{
		url:       url,
		expiresAt: c.now().Add(c.ttl),
	}
	c.mu.Unlock()

	return url, nil
}

// Invalidate drops the cached grant for a path, e.g. after deletion.
func (c *SignedURLCache) Invalidate(storagePath string) {
	c.mu.Lock()
	delete(c.entries, storagePath)
	c.mu.Unlock()
}
