package assets

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/handspeak/handspeak/internal/platform/kvstore"
)

const failedURLsKey = "assets:failed_urls"

// FailCache remembers asset URLs that failed to play so screens can skip
// them. It is advisory only; losing it costs nothing but a retry.
type FailCache struct {
	kv kvstore.KV

	mu     sync.RWMutex
	failed map[string]time.Time
}

// NewFailCache creates a cache backed by the given durable store.
func NewFailCache(kv kvstore.KV) *FailCache {
	return &FailCache{
		kv:     kv,
		failed: make(map[string]time.Time),
	}
}

// Load populates the cache from durable storage. A missing or unreadable
// entry leaves the cache empty.
func (c *FailCache) Load(ctx context.Context) {
	raw, found, err := c.kv.Get(ctx, failedURLsKey)
	if err != nil {
		slog.Warn("failed-url cache unreadable, starting empty", "error", err)
		return
	}
	if !found {
		return
	}

	failed := make(map[string]time.Time)
	if err := json.Unmarshal([]byte(raw), &failed); err != nil {
		slog.Warn("failed-url cache corrupt, starting empty", "error", err)
		return
	}

	c.mu.Lock()
	c.failed = failed
	c.mu.Unlock()
}

// ReportFailure records that url did not resolve to a playable asset.
func (c *FailCache) ReportFailure(ctx context.Context, url string) {
	if url == "" {
		return
	}

	c.mu.Lock()
	if _, seen := c.failed[url]; seen {
		c.mu.Unlock()
		return
	}
	c.failed[url] = time.Now().UTC()
	data, err := json.Marshal(c.failed)
	c.mu.Unlock()

	if err != nil {
		slog.Warn("marshaling failed-url cache", "error", err)
		return
	}
	if err := c.kv.Set(ctx, failedURLsKey, string(data)); err != nil {
		slog.Warn("persisting failed-url cache", "url", url, "error", err)
	}
}

// HasFailed reports whether url was previously reported as failing.
func (c *FailCache) HasFailed(url string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, seen := c.failed[url]
	return seen
}
