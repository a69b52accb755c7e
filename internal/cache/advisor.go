package cache

import (
	"context"
	"sync"
	"time"
)

// AdvisorCache holds the last model-selection result per workload type. It
// is the only shared mutable state across concurrent pipeline invocations:
// reads are lock-cheap, at most one refresh per workload is in flight at a
// time, and concurrent callers read the stale-but-valid value instead of
// blocking or racing to refresh.
type AdvisorCache struct {
	mu      sync.Mutex
	entries map[string]*advisorEntry
	ttl     time.Duration
	nowFunc func() time.Time
}

type advisorEntry struct {
	modelID     string
	refreshedAt time.Time
	refreshing  bool
}

// NewAdvisorCache creates an AdvisorCache with the given freshness TTL.
func NewAdvisorCache(ttl time.Duration) *AdvisorCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &AdvisorCache{
		entries: make(map[string]*advisorEntry),
		ttl:     ttl,
		nowFunc: time.Now,
	}
}

// GetOrRefresh returns the cached model for the workload, refreshing it via
// refresh when stale. When a refresh is already in flight, the stale value
// is returned immediately. A failed refresh leaves the previous value in
// place; the stale value (or "") is returned.
func (c *AdvisorCache) GetOrRefresh(ctx context.Context, workload string, refresh func(ctx context.Context) (string, error)) string {
	c.mu.Lock()
	entry, ok := c.entries[workload]
	if !ok {
		entry = &advisorEntry{}
		c.entries[workload] = entry
	}

	fresh := !entry.refreshedAt.IsZero() && c.nowFunc().Sub(entry.refreshedAt) < c.ttl
	if fresh || entry.refreshing {
		stale := entry.modelID
		c.mu.Unlock()
		return stale
	}

	entry.refreshing = true
	c.mu.Unlock()

	modelID, err := refresh(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	entry.refreshing = false
	if err != nil {
		return entry.modelID
	}
	entry.modelID = modelID
	entry.refreshedAt = c.nowFunc()
	return modelID
}
