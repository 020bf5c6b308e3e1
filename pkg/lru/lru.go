// Package lru provides a small, mutex-guarded, fixed-capacity
// least-recently-used cache.
package lru

import (
	"container/list"
	"sync"
)

type entry[K comparable, V any] struct {
	key   K
	value V
}

type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	items    map[K]*list.Element
	order    *list.List
	maxItems int
}

// NewCache returns a cache holding at most maxItems entries. A cache
// with maxItems <= 0 stores nothing.
func NewCache[K comparable, V any](maxItems int) *Cache[K, V] {
	return &Cache[K, V]{
		items:    make(map[K]*list.Element),
		order:    list.New(),
		maxItems: maxItems,
	}
}

func (c *Cache[K, V]) Get(key K) (v V, found bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, found := c.items[key]
	if !found {
		return v, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*entry[K, V]).value, true
}

func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLocked(key, value)
}

// GetOrCreate returns the cached value for key, or calls create and
// caches its result. Errors are returned and not cached. create runs
// under the cache lock, so it must not touch the cache.
func (c *Cache[K, V]) GetOrCreate(key K, create func() (V, error)) (V, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, found := c.items[key]; found {
		c.order.MoveToFront(el)
		return el.Value.(*entry[K, V]).value, nil
	}
	v, err := create()
	if err != nil {
		return v, err
	}
	c.setLocked(key, v)
	return v, nil
}

func (c *Cache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, found := c.items[key]
	if !found {
		return
	}
	delete(c.items, key)
	c.order.Remove(el)
}

func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *Cache[K, V]) setLocked(key K, value V) {
	if c.maxItems <= 0 {
		return
	}
	if el, found := c.items[key]; found {
		el.Value.(*entry[K, V]).value = value
		c.order.MoveToFront(el)
		return
	}
	for c.order.Len() >= c.maxItems {
		c.evictLocked()
	}
	c.items[key] = c.order.PushFront(&entry[K, V]{key: key, value: value})
}

func (c *Cache[K, V]) evictLocked() {
	back := c.order.Back()
	if back == nil {
		return
	}
	delete(c.items, back.Value.(*entry[K, V]).key)
	c.order.Remove(back)
}
