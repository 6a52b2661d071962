package memory

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/slidefit/internal/core/domain"
	"github.com/custodia-labs/slidefit/internal/core/ports/driven"
)

// Ensure GeometryCache implements the interface.
var _ driven.GeometryCache = (*GeometryCache)(nil)

// DefaultCacheEntries bounds the cache when no capacity is given.
const DefaultCacheEntries = 256

// GeometryCache is an in-memory LRU cache of analysis results.
// Entries are evicted least-recently-used first once capacity is reached,
// and treated as missing once older than the TTL (0 disables expiry).
type GeometryCache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	order    *list.List
	items    map[string]*list.Element
	now      func() time.Time
}

type cacheEntry struct {
	key      string
	result   domain.AnalysisResult
	storedAt time.Time
}

// NewGeometryCache creates an LRU cache holding at most capacity entries.
func NewGeometryCache(capacity int, ttl time.Duration) *GeometryCache {
	if capacity <= 0 {
		capacity = DefaultCacheEntries
	}
	return &GeometryCache{
		capacity: capacity,
		ttl:      ttl,
		order:    list.New(),
		items:    make(map[string]*list.Element),
		now:      time.Now,
	}
}

// Get returns a copy of a cached result and marks it recently used.
func (c *GeometryCache) Get(_ context.Context, key string) (*domain.AnalysisResult, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[key]
	if !ok {
		return nil, false, nil
	}
	entry := el.Value.(*cacheEntry)
	if c.expired(entry) {
		c.removeElement(el)
		return nil, false, nil
	}
	c.order.MoveToFront(el)
	result := cloneResult(entry.result)
	return &result, true, nil
}

// Put stores a copy of a result, evicting the least recently used entry when full.
func (c *GeometryCache) Put(_ context.Context, key string, result *domain.AnalysisResult) error {
	if result == nil {
		return domain.ErrInvalidInput
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		entry := el.Value.(*cacheEntry)
		entry.result = cloneResult(*result)
		entry.storedAt = c.now()
		c.order.MoveToFront(el)
		return nil
	}
	el := c.order.PushFront(&cacheEntry{key: key, result: cloneResult(*result), storedAt: c.now()})
	c.items[key] = el
	for c.order.Len() > c.capacity {
		c.removeElement(c.order.Back())
	}
	return nil
}

// Delete removes one entry.
func (c *GeometryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		c.removeElement(el)
	}
	return nil
}

// Purge removes every entry.
func (c *GeometryCache) Purge(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.items = make(map[string]*list.Element)
	return nil
}

// Len returns the number of live entries.
func (c *GeometryCache) Len(_ context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for el := c.order.Front(); el != nil; el = el.Next() {
		if !c.expired(el.Value.(*cacheEntry)) {
			n++
		}
	}
	return n, nil
}

func (c *GeometryCache) expired(e *cacheEntry) bool {
	return c.ttl > 0 && c.now().Sub(e.storedAt) > c.ttl
}

func (c *GeometryCache) removeElement(el *list.Element) {
	c.order.Remove(el)
	delete(c.items, el.Value.(*cacheEntry).key)
}

// cloneResult copies the slices and region positions so cached results
// cannot be mutated through a returned pointer.
func cloneResult(r domain.AnalysisResult) domain.AnalysisResult {
	regions := make([]domain.Region, len(r.Regions))
	for i, reg := range r.Regions {
		if reg.Position != nil {
			p := *reg.Position
			reg.Position = &p
		}
		regions[i] = reg
	}
	r.Regions = regions
	if r.Media != nil {
		media := make([]domain.ExtractedMedia, len(r.Media))
		copy(media, r.Media)
		r.Media = media
	}
	return r
}
