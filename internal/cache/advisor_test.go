package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestAdvisorCache_RefreshOnceWhileFresh(t *testing.T) {
	c := NewAdvisorCache(time.Minute)

	var calls int32
	refresh := func(ctx context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "model-a", nil
	}

	for i := 0; i < 5; i++ {
		if got := c.GetOrRefresh(context.Background(), "clustering", refresh); got != "model-a" {
			t.Fatalf("expected model-a, got %q", got)
		}
	}
	if calls != 1 {
		t.Errorf("expected exactly 1 refresh while fresh, got %d", calls)
	}
}

func TestAdvisorCache_StaleTriggersRefresh(t *testing.T) {
	c := NewAdvisorCache(time.Minute)

	now := time.Unix(1000, 0)
	c.nowFunc = func() time.Time { return now }

	version := 0
	refresh := func(ctx context.Context) (string, error) {
		version++
		if version == 1 {
			return "model-a", nil
		}
		return "model-b", nil
	}

	if got := c.GetOrRefresh(context.Background(), "w", refresh); got != "model-a" {
		t.Fatalf("expected model-a, got %q", got)
	}

	now = now.Add(2 * time.Minute)
	if got := c.GetOrRefresh(context.Background(), "w", refresh); got != "model-b" {
		t.Errorf("expected model-b after TTL expiry, got %q", got)
	}
}

func TestAdvisorCache_FailedRefreshKeepsStaleValue(t *testing.T) {
	c := NewAdvisorCache(time.Minute)

	now := time.Unix(1000, 0)
	c.nowFunc = func() time.Time { return now }

	first := func(ctx context.Context) (string, error) { return "model-a", nil }
	failing := func(ctx context.Context) (string, error) { return "", errors.New("advisor down") }

	c.GetOrRefresh(context.Background(), "w", first)
	now = now.Add(2 * time.Minute)

	if got := c.GetOrRefresh(context.Background(), "w", failing); got != "model-a" {
		t.Errorf("expected stale model-a on failed refresh, got %q", got)
	}
}

func TestAdvisorCache_SingleFlightRefresh(t *testing.T) {
	c := NewAdvisorCache(time.Minute)

	// Seed a stale entry.
	now := time.Unix(1000, 0)
	c.nowFunc = func() time.Time { return now }
	c.GetOrRefresh(context.Background(), "w", func(ctx context.Context) (string, error) {
		return "stale-model", nil
	})
	now = now.Add(time.Hour)

	var inRefresh int32
	release := make(chan struct{})
	slow := func(ctx context.Context) (string, error) {
		atomic.AddInt32(&inRefresh, 1)
		<-release
		return "new-model", nil
	}

	var wg sync.WaitGroup
	results := make([]string, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx] = c.GetOrRefresh(context.Background(), "w", slow)
		}(i)
	}

	// Give the goroutines time to hit the cache before releasing the refresh.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if inRefresh != 1 {
		t.Errorf("expected exactly 1 refresh in flight, got %d", inRefresh)
	}
	for _, r := range results {
		if r != "stale-model" && r != "new-model" {
			t.Errorf("caller saw %q, want stale or refreshed value", r)
		}
	}
}
