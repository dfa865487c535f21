// Package imagecache is a bounded, process-local URL to image cache.
//
// All operations are serialized on a single mutex so concurrent readers and
// writers observe one total order. When the cache is full, inserting a new
// URL evicts the oldest inserted URL (FIFO). Lookups never reorder entries
// and overwriting an existing URL keeps its position.
package imagecache

import (
	"container/list"
	"image"
	"sync"
)

// DefaultCapacity is the maximum number of images held when no explicit
// capacity is given.
const DefaultCapacity = 50

type entry struct {
	url string
	img image.Image
}

// Cache maps image URLs to decoded images.
type Cache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List // front = oldest insertion
	items    map[string]*list.Element
}

// New returns an empty cache. capacity <= 0 selects DefaultCapacity.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		capacity: capacity,
		order:    list.New(),
		items:    make(map[string]*list.Element, capacity),
	}
}

var (
	sharedOnce sync.Once
	shared     *Cache
)

// Shared returns the process-wide cache with DefaultCapacity.
func Shared() *Cache {
	sharedOnce.Do(func() { shared = New(DefaultCapacity) })
	return shared
}

// Get returns the image stored for url.
func (c *Cache) Get(url string) (image.Image, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[url]
	if !ok {
		missesTotal.Inc()
		return nil, false
	}
	hitsTotal.Inc()
	return el.Value.(*entry).img, true
}

// Set stores img under url. Last write wins.
func (c *Cache) Set(img image.Image, url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[url]; ok {
		el.Value.(*entry).img = img
		return
	}
	if c.order.Len() >= c.capacity {
		oldest := c.order.Front()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*entry).url)
		evictionsTotal.Inc()
	}
	c.items[url] = c.order.PushBack(&entry{url: url, img: img})
	entriesGauge.Set(float64(c.order.Len()))
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.items = make(map[string]*list.Element, c.capacity)
	entriesGauge.Set(0)
}

// Size returns the number of cached images.
func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Capacity returns the maximum number of cached images.
func (c *Cache) Capacity() int { return c.capacity }
