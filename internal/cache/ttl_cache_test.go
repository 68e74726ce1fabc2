package cache

import (
	"sync"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	cache := New[string, int](5 * time.Minute)

	if cache == nil {
		t.Fatal("New returned nil")
	}
	if cache.entries == nil {
		t.Error("entries map not initialized")
	}
	if cache.Len() != 0 {
		t.Errorf("Len() = %d, want 0", cache.Len())
	}
}

func TestSetAndGet(t *testing.T) {
	cache := New[string, int](1 * time.Minute)

	cache.Set("key1", 42)

	value, ok := cache.Get("key1")
	if !ok {
		t.Fatal("Get returned ok=false for existing key")
	}
	if value != 42 {
		t.Errorf("Get returned wrong value: got %d, want 42", value)
	}

	_, ok = cache.Get("nonexistent")
	if ok {
		t.Error("Get returned ok=true for non-existent key")
	}
}

func TestGetExpired(t *testing.T) {
	cache := New[string, int](50 * time.Millisecond)

	cache.Set("key1", 42)

	value, ok := cache.Get("key1")
	if !ok || value != 42 {
		t.Fatal("initial Get failed")
	}

	time.Sleep(60 * time.Millisecond)

	_, ok = cache.Get("key1")
	if ok {
		t.Error("Get returned ok=true for expired entry")
	}
	if cache.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after lazy removal", cache.Len())
	}
}

func TestPerEntryExpiration(t *testing.T) {
	cache := New[string, int](80 * time.Millisecond)

	cache.Set("old", 1)
	time.Sleep(50 * time.Millisecond)
	cache.Set("fresh", 2)
	time.Sleep(40 * time.Millisecond)

	// "old" is past its TTL, "fresh" is not.
	if _, ok := cache.Get("old"); ok {
		t.Error("old entry still cached after its TTL")
	}
	if v, ok := cache.Get("fresh"); !ok || v != 2 {
		t.Errorf("fresh entry = (%d, %v), want (2, true)", v, ok)
	}
}

func TestSetOverwrite(t *testing.T) {
	cache := New[string, string](1 * time.Minute)

	cache.Set("key", "first")
	cache.Set("key", "second")

	value, ok := cache.Get("key")
	if !ok || value != "second" {
		t.Errorf("Get = (%q, %v), want (second, true)", value, ok)
	}
	if cache.Len() != 1 {
		t.Errorf("Len() = %d, want 1", cache.Len())
	}
}

func TestInvalidate(t *testing.T) {
	cache := New[string, int](1 * time.Minute)

	cache.Set("keep", 1)
	cache.Set("drop", 2)
	cache.Invalidate("drop")

	if _, ok := cache.Get("drop"); ok {
		t.Error("invalidated entry still cached")
	}
	if v, ok := cache.Get("keep"); !ok || v != 1 {
		t.Errorf("kept entry = (%d, %v), want (1, true)", v, ok)
	}
}

func TestClear(t *testing.T) {
	cache := New[string, int](1 * time.Minute)

	cache.Set("a", 1)
	cache.Set("b", 2)
	cache.Clear()

	if cache.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after Clear", cache.Len())
	}
	if _, ok := cache.Get("a"); ok {
		t.Error("entry survived Clear")
	}
}

func TestConcurrentAccess(t *testing.T) {
	cache := New[int, int](1 * time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			cache.Set(n, n*10)
		}(i)
		go func(n int) {
			defer wg.Done()
			cache.Get(n)
		}(i)
	}
	wg.Wait()

	if cache.Len() != 10 {
		t.Errorf("Len() = %d, want 10", cache.Len())
	}
}

func TestZeroValueType(t *testing.T) {
	type result struct {
		heading string
		ok      bool
	}
	cache := New[string, result](1 * time.Minute)

	cache.Set("url", result{heading: "Mercks Wienn", ok: true})

	got, ok := cache.Get("url")
	if !ok {
		t.Fatal("Get returned ok=false")
	}
	if got.heading != "Mercks Wienn" || !got.ok {
		t.Errorf("Get = %+v, want stored struct", got)
	}
}
