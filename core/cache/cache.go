// Package cache provides a thread-safe LRU cache and a specialisation that
// memoises parsed unit expressions.
package cache

import (
	"container/list"
	"sync"

	"github.com/FocuswithJustin/unitconv/core/units"
)

// Cache is a generic LRU cache.
type Cache[K comparable, V any] interface {
	// Get retrieves a value and marks it most recently used.
	Get(key K) (V, bool)

	// Put stores a value, evicting the least recently used entry when full.
	Put(key K, value V)

	// Clear drops every entry. Counters are kept.
	Clear()

	// Len returns the number of entries.
	Len() int

	// Stats returns a snapshot of the counters.
	Stats() Stats
}

// Stats contains cache counters.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int
	MaxSize   int
}

// HitRate returns the fraction of lookups that hit, or 0 before any lookup.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Config contains cache configuration options.
type Config struct {
	// MaxSize is the maximum number of entries (0 = unlimited).
	MaxSize int
}

// DefaultConfig returns the configuration used for expression caches.
func DefaultConfig() Config {
	return Config{MaxSize: 256}
}

type entry[K comparable, V any] struct {
	key   K
	value V
}

type lruCache[K comparable, V any] struct {
	mu      sync.Mutex
	config  Config
	entries map[K]*list.Element
	order   *list.List
	stats   Stats
}

// NewLRUCache creates a new LRU cache with the given configuration.
func NewLRUCache[K comparable, V any](config Config) Cache[K, V] {
	if config.MaxSize < 0 {
		config.MaxSize = 0
	}
	return &lruCache[K, V]{
		config:  config,
		entries: make(map[K]*list.Element),
		order:   list.New(),
	}
}

func (c *lruCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		c.stats.Misses++
		var zero V
		return zero, false
	}
	c.order.MoveToFront(el)
	c.stats.Hits++
	return el.Value.(*entry[K, V]).value, true
}

func (c *lruCache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value.(*entry[K, V]).value = value
		c.order.MoveToFront(el)
		return
	}

	c.entries[key] = c.order.PushFront(&entry[K, V]{key: key, value: value})
	if c.config.MaxSize > 0 && c.order.Len() > c.config.MaxSize {
		if oldest := c.order.Back(); oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*entry[K, V]).key)
			c.stats.Evictions++
		}
	}
}

func (c *lruCache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[K]*list.Element)
	c.order.Init()
}

func (c *lruCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *lruCache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.stats
	s.Size = c.order.Len()
	s.MaxSize = c.config.MaxSize
	return s
}

// ExpressionCache memoises units parsed from expression strings.
type ExpressionCache struct {
	cache Cache[string, units.Unit]
}

// NewExpressionCache creates an expression cache holding up to maxSize units.
// A maxSize of zero or less disables caching: every Resolve parses afresh.
func NewExpressionCache(maxSize int) *ExpressionCache {
	if maxSize <= 0 {
		return &ExpressionCache{}
	}
	config := DefaultConfig()
	config.MaxSize = maxSize
	return &ExpressionCache{cache: NewLRUCache[string, units.Unit](config)}
}

// Enabled reports whether the cache stores anything.
func (c *ExpressionCache) Enabled() bool {
	return c != nil && c.cache != nil
}

// Resolve returns the unit cached for expr, calling parse and caching its
// result on a miss. Failed parses are not cached.
func (c *ExpressionCache) Resolve(expr string, parse func(string) (units.Unit, error)) (u units.Unit, hit bool, err error) {
	if !c.Enabled() {
		u, err = parse(expr)
		return u, false, err
	}
	if u, ok := c.cache.Get(expr); ok {
		return u, true, nil
	}
	u, err = parse(expr)
	if err != nil {
		return nil, false, err
	}
	c.cache.Put(expr, u)
	return u, false, nil
}

// Purge drops every cached unit. Registries call it after each mutation.
func (c *ExpressionCache) Purge() {
	if c.Enabled() {
		c.cache.Clear()
	}
}

// Len returns the number of cached units.
func (c *ExpressionCache) Len() int {
	if !c.Enabled() {
		return 0
	}
	return c.cache.Len()
}

// Stats returns cache statistics.
func (c *ExpressionCache) Stats() Stats {
	if !c.Enabled() {
		return Stats{}
	}
	return c.cache.Stats()
}
