// Package cache is a size- and time-bounded store for lookup results keyed by
// (domain, identifier). Expiry is lazy: stale entries are dropped when read
// or when an insert overflows the capacity.
package cache

import (
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	DefaultMaxItems = 50
	DefaultTrim     = 10
	DefaultTTL      = 10 * time.Minute

	WeatherTTL = 10 * time.Minute
	NewsTTL    = 15 * time.Minute
)

type entry[V any] struct {
	value     V
	createdAt time.Time
	expiresAt time.Time
	seq       uint64
}

type Cache[V any] struct {
	mu         sync.Mutex
	entries    map[string]*entry[V]
	ttls       map[string]time.Duration
	defaultTTL time.Duration
	maxItems   int
	trim       int
	now        func() time.Time
	seq        uint64
}

type Option func(*options)

type options struct {
	ttls       map[string]time.Duration
	defaultTTL time.Duration
	maxItems   int
	trim       int
	now        func() time.Time
}

func WithTTL(domain string, ttl time.Duration) Option {
	return func(o *options) {
		o.ttls[strings.ToLower(domain)] = ttl
	}
}

func WithDefaultTTL(ttl time.Duration) Option {
	return func(o *options) {
		o.defaultTTL = ttl
	}
}

func WithMaxItems(n int) Option {
	return func(o *options) {
		o.maxItems = n
	}
}

// WithTrim sets how far below capacity an overflow eviction shrinks the store.
func WithTrim(n int) Option {
	return func(o *options) {
		o.trim = n
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func New[V any](opts ...Option) *Cache[V] {
	o := &options{
		ttls: map[string]time.Duration{
			"weather": WeatherTTL,
			"news":    NewsTTL,
		},
		defaultTTL: DefaultTTL,
		maxItems:   DefaultMaxItems,
		trim:       DefaultTrim,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.maxItems <= 0 {
		o.maxItems = DefaultMaxItems
	}
	if o.trim < 0 {
		o.trim = 0
	}

	return &Cache[V]{
		entries:    make(map[string]*entry[V]),
		ttls:       o.ttls,
		defaultTTL: o.defaultTTL,
		maxItems:   o.maxItems,
		trim:       o.trim,
		now:        o.now,
	}
}

// Key builds the normalized storage key. Identifiers are case-folded so
// "New York" and "new york" share an entry.
func Key(domain, identifier string) string {
	return strings.ToLower(strings.TrimSpace(domain)) + ":" + strings.ToLower(strings.TrimSpace(identifier))
}

func (c *Cache[V]) TTL(domain string) time.Duration {
	if ttl, ok := c.ttls[strings.ToLower(strings.TrimSpace(domain))]; ok {
		return ttl
	}
	return c.defaultTTL
}

func (c *Cache[V]) Set(domain, identifier string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := Key(domain, identifier)
	now := c.now()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxItems {
		c.evict(now)
	}

	c.seq++
	c.entries[key] = &entry[V]{
		value:     value,
		createdAt: now,
		expiresAt: now.Add(c.TTL(domain)),
		seq:       c.seq,
	}
}

func (c *Cache[V]) Get(domain, identifier string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.live(Key(domain, identifier))
	if !ok {
		var zero V
		return zero, false
	}
	return e.value, true
}

func (c *Cache[V]) Has(domain, identifier string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.live(Key(domain, identifier))
	return ok
}

// Age returns how long ago a live entry was stored.
func (c *Cache[V]) Age(domain, identifier string) (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.live(Key(domain, identifier))
	if !ok {
		return 0, false
	}
	return c.now().Sub(e.createdAt), true
}

func (c *Cache[V]) Remove(domain, identifier string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := Key(domain, identifier)
	_, ok := c.entries[key]
	delete(c.entries, key)
	return ok
}

// ForceRefresh drops the entry so the next Get misses regardless of its TTL.
func (c *Cache[V]) ForceRefresh(domain, identifier string) {
	c.Remove(domain, identifier)
}

func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*entry[V])
}

// Len counts stored entries, including expired ones not yet collected.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Keys lists stored keys from oldest to newest.
func (c *Cache[V]) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.keysByAge()
}

// live must be called with mu held. Stale entries are deleted on the way.
func (c *Cache[V]) live(key string) (*entry[V], bool) {
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e, true
}

// evict must be called with mu held. It purges expired entries first and,
// if the store is still full, drops the oldest until maxItems-trim remain.
func (c *Cache[V]) evict(now time.Time) {
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}

	if len(c.entries) < c.maxItems {
		return
	}

	target := c.maxItems - c.trim
	if target < 0 {
		target = 0
	}
	if target >= c.maxItems {
		target = c.maxItems - 1
	}

	for _, key := range c.keysByAge() {
		if len(c.entries) <= target {
			break
		}
		delete(c.entries, key)
	}
}

func (c *Cache[V]) keysByAge() []string {
	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := c.entries[keys[i]], c.entries[keys[j]]
		if !a.createdAt.Equal(b.createdAt) {
			return a.createdAt.Before(b.createdAt)
		}
		return a.seq < b.seq
	})
	return keys
}
