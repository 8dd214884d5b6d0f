package snapshot

import (
	"fmt"
	"sync"

	"github.com/minzi-dev/floodwatch/internal/domain"
	"github.com/minzi-dev/floodwatch/internal/observability"
)

// CachedAssessor memoizes risk assessments per snapshot. Keys include the
// snapshot's generation time, so a refresh naturally invalidates old entries
// as they age out of the LRU.
type CachedAssessor struct {
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedAssessor creates a risk assessment cache holding maxEntries results.
func NewCachedAssessor(maxEntries int, metrics *observability.Metrics) *CachedAssessor {
	return &CachedAssessor{
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

// Assess returns the cached assessment for this snapshot, point, and radius,
// computing and storing it on a miss. Coordinates are rounded to four decimal
// places (roughly 11m) so nearby queries share an entry.
func (c *CachedAssessor) Assess(snap *Snapshot, point domain.Coordinate, radiusKm float64) domain.RiskAssessment {
	c.metrics.RiskQueries.Inc()

	key := fmt.Sprintf("%d|%.4f,%.4f|%.1f", snap.GeneratedAt.UnixNano(), point.Lat, point.Lon, radiusKm)
	if result, ok := c.cache.get(key); ok {
		c.metrics.RiskCache.WithLabelValues("hit").Inc()
		return result
	}
	c.metrics.RiskCache.WithLabelValues("miss").Inc()

	result := snap.CheckRisk(point, radiusKm)
	c.cache.put(key, result)
	return result
}

// lruCache is a simple thread-safe LRU cache for risk assessments.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value domain.RiskAssessment
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (domain.RiskAssessment, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return domain.RiskAssessment{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value domain.RiskAssessment) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
