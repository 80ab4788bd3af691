package wikimediator

import (
	"sort"
	"sync"
	"time"
)

// DefaultStatsWindow is the trailing window used for trending and peak
// load reporting.
const DefaultStatsWindow = 30 * time.Second

// event is one recorded request. Lookup requests carry their normalized
// key; statistics requests carry an empty key and count toward load only.
type event struct {
	key string
	at  time.Time
}

// Stats records request activity for the mediator. All methods are safe
// for concurrent use.
type Stats struct {
	mu     sync.Mutex
	clock  func() time.Time
	window time.Duration
	counts map[string]int
	recent []event
	peak   int
}

// NewStats creates a recorder with the given trailing window. A
// non-positive window falls back to DefaultStatsWindow; a nil clock falls
// back to time.Now.
func NewStats(window time.Duration, clock func() time.Time) *Stats {
	if window <= 0 {
		window = DefaultStatsWindow
	}
	if clock == nil {
		clock = time.Now
	}
	return &Stats{
		clock:  clock,
		window: window,
		counts: make(map[string]int),
	}
}

// Record notes one request. key is the normalized lookup key, or empty
// for requests that count toward load but not toward key frequency.
func (s *Stats) Record(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	s.prune(now)

	if key != "" {
		s.counts[key]++
	}
	s.recent = append(s.recent, event{key: key, at: now})
	if len(s.recent) > s.peak {
		s.peak = len(s.recent)
	}
}

// TopAllTime returns up to limit keys ordered by all-time request count,
// most frequent first. Ties are broken lexicographically so the order is
// deterministic.
func (s *Stats) TopAllTime(limit int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return topKeys(s.counts, limit)
}

// TopRecent returns up to limit keys ordered by request count within the
// trailing window, most frequent first.
func (s *Stats) TopRecent(limit int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prune(s.clock())

	counts := make(map[string]int, len(s.recent))
	for _, e := range s.recent {
		if e.key != "" {
			counts[e.key]++
		}
	}
	return topKeys(counts, limit)
}

// Peak returns the maximum number of requests observed in any single
// trailing window since the recorder was created.
func (s *Stats) Peak() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.peak
}

// prune drops events that have fallen out of the trailing window. Must be
// called with the lock held.
func (s *Stats) prune(now time.Time) {
	cutoff := now.Add(-s.window)
	i := 0
	for i < len(s.recent) && !s.recent[i].at.After(cutoff) {
		i++
	}
	if i > 0 {
		s.recent = append(s.recent[:0:0], s.recent[i:]...)
	}
}

func topKeys(counts map[string]int, limit int) []string {
	if limit <= 0 {
		return nil
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})

	if len(keys) > limit {
		keys = keys[:limit]
	}
	return keys
}
