package utils

import (
	"testing"
	"time"
)

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache()
	now := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	var evicted []string
	c.OnEvict(func(key string, _ interface{}) { evicted = append(evicted, key) })

	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Hour)

	if v, ok := c.Get("a"); !ok || v.(int) != 1 {
		t.Fatalf("expected a=1, got %v %v", v, ok)
	}

	now = now.Add(2 * time.Minute)
	if _, ok := c.Get("a"); ok {
		t.Error("expected a to be expired")
	}
	if len(evicted) != 1 || evicted[0] != "a" {
		t.Errorf("expected eviction of a, got %v", evicted)
	}

	if !c.Touch("b", time.Hour) {
		t.Error("expected touch on b to succeed")
	}
	now = now.Add(59 * time.Minute)
	if !c.Has("b") {
		t.Error("touch should have extended b")
	}

	now = now.Add(2 * time.Hour)
	c.cleanup()
	if c.Size() != 0 {
		t.Errorf("expected empty cache after cleanup, got %d", c.Size())
	}
	if len(evicted) != 2 {
		t.Errorf("expected 2 evictions, got %v", evicted)
	}
}

func TestMemoryCacheDeleteAndClear(t *testing.T) {
	c := NewMemoryCache()
	c.Set("a", "x", time.Hour)
	c.Set("b", "y", time.Hour)
	c.Delete("a")
	if c.Has("a") || !c.Has("b") {
		t.Error("delete removed the wrong key")
	}
	c.Clear()
	if len(c.Keys()) != 0 {
		t.Error("expected no keys after clear")
	}
}
