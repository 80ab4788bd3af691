// Package cache provides a generic, bounded, time-aware in-memory cache
// keyed by value identity.
//
// Values stored in the cache must implement the Identifiable interface: a
// stable string identifier that determines equality and deduplication
// regardless of the rest of the value's content. Two values with the same
// identifier occupy the same cache slot.
//
// The cache enforces two independent removal policies:
//
//   - Eviction: when a Put would exceed the configured capacity, the entry
//     with the oldest last-access time is removed. Only Get advances an
//     entry's last-access time.
//
//   - Expiry: an entry whose freshness clock has not been advanced within
//     the configured timeout is removed. Put, Update and Touch advance the
//     freshness clock; Get does not. Expiry is lazy: stale entries are
//     swept at the start of the next call into the cache, never by a
//     background goroutine.
//
// All operations are serialized by a single mutex, so the cache behaves as
// a linearizable object: each call observes the fully-completed state left
// by the previous one. Operations are O(n) in the number of entries and
// never block on I/O.
//
// # Usage
//
//	type page struct {
//		Title string
//		Text  string
//	}
//
//	func (p page) ID() string { return p.Title }
//
//	c, err := cache.New[page](128, 10*time.Minute)
//	if err != nil {
//		// negative capacity or timeout
//	}
//
//	c.Put(page{Title: "Canada", Text: body})
//
//	p, err := c.Get("Canada")
//	if errors.Is(err, cache.ErrNotFound) {
//		// absent or expired; fall back to the expensive source
//	}
//
// Time is read through an injectable clock (see WithClock), so expiry and
// eviction behavior can be tested deterministically without sleeping.
//
// Callers must not mutate a value after handing it to Put or Update: the
// cache hands the same value back from Get, and mutating it would race
// with other readers. Replace content wholesale via Update instead.
package cache
