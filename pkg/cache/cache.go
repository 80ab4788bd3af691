package cache

import (
	"sync"
	"time"
)

// Default construction values, used by NewDefault.
const (
	DefaultCapacity = 32
	DefaultTimeout  = time.Hour
)

// Identifiable is the minimal contract a cached value must satisfy: a
// deterministic, stable identifier used for lookup, deduplication and
// equality. The identifier must not change while the value is cached.
type Identifiable interface {
	ID() string
}

// Option configures optional cache behavior.
type Option func(*options)

type options struct {
	clock func() time.Time
}

// WithClock substitutes the time source used for all freshness and recency
// decisions. Intended for deterministic tests; the default is time.Now.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// entry wraps one cached value with its two timestamps, both stored as
// offsets from the cache's creation instant. lastUpdated drives expiry,
// lastAccessed drives eviction; they advance independently.
type entry[T Identifiable] struct {
	value        T
	lastUpdated  time.Duration
	lastAccessed time.Duration
}

// Cache is a bounded in-memory cache with recency-based eviction and
// timeout-based expiry. The zero value is not usable; construct with New
// or NewDefault. All methods are safe for concurrent use.
type Cache[T Identifiable] struct {
	mu       sync.Mutex
	capacity int
	timeout  time.Duration
	clock    func() time.Time
	origin   time.Time
	entries  map[string]*entry[T]
}

// New creates a cache holding at most capacity entries, expiring entries
// that go unrefreshed for longer than timeout. A timeout of zero expires
// entries immediately unless they are continuously touched or updated.
// Returns ErrInvalidConfiguration if either argument is negative.
func New[T Identifiable](capacity int, timeout time.Duration, opts ...Option) (*Cache[T], error) {
	if capacity < 0 || timeout < 0 {
		return nil, ErrInvalidConfiguration
	}

	o := options{clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	return &Cache[T]{
		capacity: capacity,
		timeout:  timeout,
		clock:    o.clock,
		origin:   o.clock(),
		entries:  make(map[string]*entry[T]),
	}, nil
}

// NewDefault creates a cache with DefaultCapacity and DefaultTimeout.
func NewDefault[T Identifiable](opts ...Option) *Cache[T] {
	c, err := New[T](DefaultCapacity, DefaultTimeout, opts...)
	if err != nil {
		// Unreachable: the defaults are non-negative.
		panic(err)
	}
	return c
}

// Put stores v under its identifier. If an entry with the same identifier
// already exists the call behaves as Update and returns its result:
// content and freshness are replaced, recency is preserved, and no new
// entry is created. If the cache is full the least recently accessed
// entry is evicted to make room. A zero-capacity cache always returns
// false and stores nothing.
func (c *Cache[T]) Put(v T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.expire()

	id := v.ID()
	if _, ok := c.entries[id]; ok {
		return c.update(v)
	}

	if len(c.entries) >= c.capacity {
		c.removeLeastRecentlyAccessed()
		if c.capacity == 0 {
			return false
		}
	}

	now := c.elapsed()
	c.entries[id] = &entry[T]{value: v, lastUpdated: now, lastAccessed: now}
	return true
}

// Get returns the value stored under id and marks it as accessed. This is
// the only operation that advances recency. Returns ErrNotFound if the
// identifier is absent or its entry has expired.
func (c *Cache[T]) Get(id string) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.expire()

	if e, ok := c.entries[id]; ok {
		e.lastAccessed = c.elapsed()
		return e.value, nil
	}

	var zero T
	return zero, ErrNotFound
}

// Update replaces the content stored under v's identifier, stamping a new
// freshness time while preserving the entry's recency: an update is
// explicitly not an access. Returns false if no such entry exists; Update
// never inserts.
func (c *Cache[T]) Update(v T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.expire()

	return c.update(v)
}

// Touch refreshes only the freshness clock of the entry with the given
// identifier, leaving its content and recency untouched. It keeps an entry
// alive without reading or rewriting it. Returns false if no such entry
// exists.
func (c *Cache[T]) Touch(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.expire()

	e, ok := c.entries[id]
	if !ok {
		return false
	}
	e.lastUpdated = c.elapsed()
	return true
}

// Len reports the number of entries currently stored, including entries
// that are stale but have not been swept yet.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// update must be called with the lock held and expiry already run.
func (c *Cache[T]) update(v T) bool {
	e, ok := c.entries[v.ID()]
	if !ok {
		return false
	}
	e.value = v
	e.lastUpdated = c.elapsed()
	return true
}

// expire removes every entry whose freshness time plus the timeout is
// strictly before now. Must be called with the lock held.
func (c *Cache[T]) expire() {
	now := c.elapsed()
	for id, e := range c.entries {
		if e.lastUpdated+c.timeout < now {
			delete(c.entries, id)
		}
	}
}

// removeLeastRecentlyAccessed evicts the entry with the minimum last-access
// time; ties go to the first minimum encountered, which map iteration makes
// arbitrary. No-op on an empty cache. Must be called with the lock held.
func (c *Cache[T]) removeLeastRecentlyAccessed() {
	if len(c.entries) == 0 {
		return
	}

	var victim string
	least := time.Duration(1<<63 - 1)
	for id, e := range c.entries {
		if e.lastAccessed < least {
			least = e.lastAccessed
			victim = id
		}
	}
	delete(c.entries, victim)
}

// elapsed returns the monotonic time since the cache was created.
func (c *Cache[T]) elapsed() time.Duration {
	return c.clock().Sub(c.origin)
}
