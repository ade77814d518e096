package catalog

import (
	"container/list"
	"context"
	"os"
	"sync"
	"time"
)

// Cache memoizes probe results keyed by path. An entry is valid only while
// the filesystem's reported modification time equals the one recorded at
// insertion; any mismatch forces a re-probe. Writes replace whole entries,
// never individual fields.
//
// With maxEntries == 0 the cache grows with the number of distinct paths
// observed, which is the accepted bound for an interactive drop-folder tool.
// A positive maxEntries enables least-recently-used eviction.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]*list.Element
	order      *list.List // front = most recently used
	maxEntries int
}

type cacheEntry struct {
	path    string
	modTime time.Time
	meta    Metadata
}

// NewCache builds a cache. maxEntries of 0 disables eviction.
func NewCache(maxEntries int) *Cache {
	if maxEntries < 0 {
		maxEntries = 0
	}
	return &Cache{
		entries:    make(map[string]*list.Element),
		order:      list.New(),
		maxEntries: maxEntries,
	}
}

// Get returns the cached snapshot for path when its recorded modification
// time matches modTime exactly.
func (c *Cache) Get(path string, modTime time.Time) (Metadata, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	element, ok := c.entries[path]
	if !ok {
		return Metadata{}, false
	}
	entry := element.Value.(*cacheEntry)
	if !entry.modTime.Equal(modTime) {
		return Metadata{}, false
	}
	c.order.MoveToFront(element)
	return entry.meta, true
}

// Put records a snapshot for path, replacing any previous entry.
func (c *Cache) Put(path string, meta Metadata) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if element, ok := c.entries[path]; ok {
		element.Value = &cacheEntry{path: path, modTime: meta.ModTime, meta: meta}
		c.order.MoveToFront(element)
		return
	}
	c.entries[path] = c.order.PushFront(&cacheEntry{path: path, modTime: meta.ModTime, meta: meta})

	if c.maxEntries > 0 {
		for c.order.Len() > c.maxEntries {
			oldest := c.order.Back()
			if oldest == nil {
				break
			}
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*cacheEntry).path)
		}
	}
}

// Invalidate drops the entry for path if present.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if element, ok := c.entries[path]; ok {
		c.order.Remove(element)
		delete(c.entries, path)
	}
}

// Reset drops every entry.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*list.Element)
	c.order.Init()
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// CachingProber wraps a Prober with the cache: a hit short-circuits probing
// entirely, a miss probes and records the fresh snapshot.
type CachingProber struct {
	inner Prober
	cache *Cache
}

// NewCachingProber builds a cache-backed prober.
func NewCachingProber(inner Prober, cache *Cache) *CachingProber {
	if cache == nil {
		cache = NewCache(0)
	}
	return &CachingProber{inner: inner, cache: cache}
}

// Cache exposes the underlying cache for invalidation and reset.
func (p *CachingProber) Cache() *Cache {
	return p.cache
}

// Probe implements Prober.
func (p *CachingProber) Probe(ctx context.Context, path string) (Metadata, error) {
	if info, err := os.Stat(path); err == nil {
		if meta, ok := p.cache.Get(path, info.ModTime()); ok {
			return meta, nil
		}
	}
	meta, err := p.inner.Probe(ctx, path)
	if err != nil {
		return Metadata{}, err
	}
	p.cache.Put(path, meta)
	return meta, nil
}
