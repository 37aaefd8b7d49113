package cache

import (
	"context"
	"testing"
	"time"
)

func TestCache_GetSetExpiry(t *testing.T) {
	ctx := context.Background()
	c := New[string, int](0)
	defer c.Close()

	now := time.Unix(1_700_000_000, 0)
	c.now = func() time.Time { return now }

	c.Set(ctx, "short", 1, time.Second)
	c.Set(ctx, "forever", 2, 0)

	if v, ok := c.Get(ctx, "short"); !ok || v != 1 {
		t.Fatalf("short = %d, %v", v, ok)
	}

	now = now.Add(2 * time.Second)

	if _, ok := c.Get(ctx, "short"); ok {
		t.Errorf("expected short to be expired")
	}
	if v, ok := c.Get(ctx, "forever"); !ok || v != 2 {
		t.Errorf("forever = %d, %v", v, ok)
	}

	c.evictExpired()
	if c.Len() != 1 {
		t.Errorf("Len after eviction = %d, want 1", c.Len())
	}
}

func TestCache_Delete(t *testing.T) {
	ctx := context.Background()
	c := New[string, string](time.Minute)
	defer c.Close()

	c.Set(ctx, "k", "v", time.Minute)
	c.Delete(ctx, "k")
	if _, ok := c.Get(ctx, "k"); ok {
		t.Errorf("expected key to be deleted")
	}

	c.Close()
	c.Close()
}
