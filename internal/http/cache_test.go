package http

import (
	"testing"
	"time"
)

func TestLRUCache_GetSet(t *testing.T) {
	cache := newLRUCache[string](2, time.Minute)

	if _, ok := cache.Get("missing"); ok {
		t.Error("empty cache returned a value")
	}

	cache.Set("a", "1")
	if v, ok := cache.Get("a"); !ok || v != "1" {
		t.Errorf("Get(a) = %q, %v", v, ok)
	}

	cache.Set("a", "2")
	if v, _ := cache.Get("a"); v != "2" {
		t.Errorf("overwrite = %q", v)
	}
}

func TestLRUCache_EvictsOldest(t *testing.T) {
	cache := newLRUCache[int](2, time.Minute)
	cache.Set("a", 1)
	cache.Set("b", 2)

	// Touch a so b becomes the eviction candidate.
	cache.Get("a")
	cache.Set("c", 3)

	if _, ok := cache.Get("b"); ok {
		t.Error("least recently used entry survived")
	}
	if _, ok := cache.Get("a"); !ok {
		t.Error("recently used entry evicted")
	}
	if _, ok := cache.Get("c"); !ok {
		t.Error("new entry missing")
	}
}

func TestLRUCache_TTLExpiry(t *testing.T) {
	cache := newLRUCache[int](10, 10*time.Millisecond)
	cache.Set("a", 1)
	time.Sleep(20 * time.Millisecond)
	if _, ok := cache.Get("a"); ok {
		t.Error("expired entry returned")
	}
}

func TestLRUCache_Clear(t *testing.T) {
	cache := newLRUCache[int](10, time.Minute)
	cache.Set("a", 1)
	cache.Set("b", 2)
	cache.Clear()
	if _, ok := cache.Get("a"); ok {
		t.Error("entry survived Clear")
	}
	// Cache stays usable after Clear.
	cache.Set("c", 3)
	if _, ok := cache.Get("c"); !ok {
		t.Error("cache unusable after Clear")
	}
}
