// Package wikimediator is the service layer between the request protocol
// and the remote search source.
//
// A Mediator answers search and page lookups, serving repeated requests
// for the same key from a bounded in-memory cache instead of calling the
// expensive remote source again. Request keys are normalized (Unicode
// case folding, whitespace trimming) before they are used as cache
// identities, so "Canada " and "canada" share one slot. Concurrent misses
// for the same key are collapsed into a single remote call.
//
// The mediator also keeps request statistics: the most frequent lookup
// keys ever (Zeitgeist), the most frequent in the trailing window
// (Trending), and the busiest window seen so far (PeakLoad30s).
package wikimediator
