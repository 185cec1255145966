package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"supportbot/internal/adapter/metrics"
	"supportbot/internal/domain"
)

// MemoryCache is an in-process LRU result cache with a TTL. The most recently
// used entry sits at the front of the recency list.
type MemoryCache struct {
	mu      sync.Mutex
	items   map[string]*list.Element
	recency *list.List
	maxSize int
	ttl     time.Duration
	now     func() time.Time
}

type memoryItem struct {
	key     string
	result  domain.Result
	expires time.Time
}

func NewMemoryCache(maxSize int, ttl time.Duration) *MemoryCache {
	if maxSize <= 0 {
		maxSize = 256
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &MemoryCache{
		items:   make(map[string]*list.Element, maxSize),
		recency: list.New(),
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) (domain.Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return domain.Result{}, false
	}
	item := el.Value.(*memoryItem)
	if c.now().After(item.expires) {
		c.remove(el)
		return domain.Result{}, false
	}

	c.recency.MoveToFront(el)
	metrics.CacheHits.WithLabelValues("memory").Inc()
	return item.result, true
}

func (c *MemoryCache) Put(_ context.Context, key string, result domain.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expires := c.now().Add(c.ttl)
	if el, ok := c.items[key]; ok {
		item := el.Value.(*memoryItem)
		item.result = result
		item.expires = expires
		c.recency.MoveToFront(el)
		return
	}

	for len(c.items) >= c.maxSize {
		c.remove(c.recency.Back())
	}
	c.items[key] = c.recency.PushFront(&memoryItem{key: key, result: result, expires: expires})
}

// Invalidate drops every entry.
func (c *MemoryCache) Invalidate(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*list.Element, c.maxSize)
	c.recency.Init()
}

func (c *MemoryCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// remove must be called with mu held.
func (c *MemoryCache) remove(el *list.Element) {
	c.recency.Remove(el)
	delete(c.items, el.Value.(*memoryItem).key)
}
