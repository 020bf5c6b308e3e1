package lru

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestNewCache(t *testing.T) {
	cache := NewCache[string, int](5)
	if cache.maxItems != 5 {
		t.Errorf("Expected maxItems to be 5, got %d", cache.maxItems)
	}
	if cache.Len() != 0 {
		t.Errorf("Expected empty cache, got %d items", cache.Len())
	}
}

func TestSetAndGet(t *testing.T) {
	cache := NewCache[string, int](3)

	if _, found := cache.Get("a"); found {
		t.Errorf("Expected not to find 'a'")
	}

	cache.Set("a", 1)
	if v, found := cache.Get("a"); !found || v != 1 {
		t.Errorf("Expected to find 'a' with value 1, got %v, %v", v, found)
	}

	cache.Set("a", 2)
	if v, found := cache.Get("a"); !found || v != 2 {
		t.Errorf("Expected to find 'a' with value 2, got %v, %v", v, found)
	}

	cache.Set("b", 3)
	cache.Set("c", 4)
	cache.Set("d", 5) // evicts "a"
	if _, found := cache.Get("a"); found {
		t.Errorf("Expected 'a' to be evicted")
	}
	if cache.Len() != 3 {
		t.Errorf("Expected 3 items, got %d", cache.Len())
	}
}

func TestRecencyOrder(t *testing.T) {
	cache := NewCache[string, int](3)
	cache.Set("a", 1)
	cache.Set("b", 2)
	cache.Set("c", 3)
	cache.Get("a")    // "a" is now most recent
	cache.Set("d", 4) // evicts "b"
	if _, found := cache.Get("b"); found {
		t.Errorf("Expected 'b' to be evicted")
	}
	if _, found := cache.Get("a"); !found {
		t.Errorf("Expected 'a' to still be in cache")
	}
}

func TestDelete(t *testing.T) {
	cache := NewCache[string, int](3)

	cache.Delete("a")
	if cache.Len() != 0 {
		t.Errorf("Expected empty cache after deleting non-existent item")
	}

	cache.Set("a", 1)
	cache.Set("b", 2)
	cache.Delete("a")
	if _, found := cache.Get("a"); found {
		t.Errorf("Expected 'a' to be deleted")
	}
	if cache.Len() != 1 {
		t.Errorf("Expected cache to have 1 item, got %d", cache.Len())
	}
}

func TestGetOrCreate(t *testing.T) {
	cache := NewCache[string, int](2)
	calls := 0
	create := func() (int, error) {
		calls++
		return 7, nil
	}

	for i := 0; i < 3; i++ {
		v, err := cache.GetOrCreate("k", create)
		if err != nil || v != 7 {
			t.Errorf("Expected (7, nil), got (%v, %v)", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("Expected create to run once, ran %d times", calls)
	}

	boom := errors.New("boom")
	_, err := cache.GetOrCreate("bad", func() (int, error) { return 0, boom })
	if !errors.Is(err, boom) {
		t.Errorf("Expected boom, got %v", err)
	}
	if _, found := cache.Get("bad"); found {
		t.Errorf("Expected failed creation not to be cached")
	}
}

func TestEdgeCases(t *testing.T) {
	cache := NewCache[string, int](0)
	cache.Set("a", 1)
	if _, found := cache.Get("a"); found {
		t.Errorf("Expected item not to be stored in size 0 cache")
	}

	cache = NewCache[string, int](1)
	cache.Set("a", 1)
	cache.Set("b", 2)
	if _, found := cache.Get("a"); found {
		t.Errorf("Expected 'a' to be evicted in size 1 cache")
	}
	if v, found := cache.Get("b"); !found || v != 2 {
		t.Errorf("Expected to find 'b' with value 2 in size 1 cache")
	}
}

func TestConcurrency(t *testing.T) {
	cache := NewCache[string, int](100)
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				key := fmt.Sprintf("key%d-%d", id%5, j%200)
				switch j % 4 {
				case 0, 1:
					_, _ = cache.Get(key)
				case 2:
					cache.Set(key, j)
				case 3:
					_, _ = cache.GetOrCreate(key, func() (int, error) { return j, nil })
				}
				if j%9 == 0 {
					cache.Delete(key)
				}
			}
		}(i)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("Test timed out, possible deadlock")
	}

	if cache.Len() > cache.maxItems {
		t.Errorf("Cache exceeded max items: %d > %d", cache.Len(), cache.maxItems)
	}
}
