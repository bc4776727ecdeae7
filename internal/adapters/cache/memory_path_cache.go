package cache

import (
	"container/list"
	"context"
	"grid-dispatch-service/internal/domain"
	"sync"
)

const defaultPathCapacity = 4096

type pathEntry struct {
	key string
	val domain.Path
}

// MemoryPathCache is a bounded LRU cache for search results.
// It's safe for concurrent use.
type MemoryPathCache struct {
	mu       sync.Mutex
	m        map[string]*list.Element
	ll       *list.List
	capacity int
	// stats
	gets      int
	hits      int
	evictions int
}

// NewMemoryPathCache returns an LRU cache holding up to capacity paths.
// Non-positive capacity uses the default.
func NewMemoryPathCache(capacity int) *MemoryPathCache {
	if capacity <= 0 {
		capacity = defaultPathCapacity
	}
	return &MemoryPathCache{
		m:        make(map[string]*list.Element, capacity),
		ll:       list.New(),
		capacity: capacity,
	}
}

func (c *MemoryPathCache) Get(_ context.Context, key string) (domain.Path, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gets++
	el, ok := c.m[key]
	if !ok {
		return domain.Path{}, false, nil
	}
	c.hits++
	c.ll.MoveToFront(el)
	return clonePath(el.Value.(pathEntry).val), true, nil
}

func (c *MemoryPathCache) Put(_ context.Context, key string, p domain.Path) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := pathEntry{key: key, val: clonePath(p)}
	if el, ok := c.m[key]; ok {
		el.Value = entry
		c.ll.MoveToFront(el)
		return nil
	}

	c.m[key] = c.ll.PushFront(entry)
	if c.ll.Len() > c.capacity {
		tail := c.ll.Back()
		delete(c.m, tail.Value.(pathEntry).key)
		c.ll.Remove(tail)
		c.evictions++
	}
	return nil
}

func (c *MemoryPathCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

// Stats returns (gets, hits, evictions).
func (c *MemoryPathCache) Stats() (gets, hits, evictions int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gets, c.hits, c.evictions
}

func clonePath(p domain.Path) domain.Path {
	p.Points = append([]domain.Point(nil), p.Points...)
	return p
}
