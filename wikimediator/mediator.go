package wikimediator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/text/cases"

	"github.com/mgkim990427/wikimediator/pkg/cache"
	"github.com/mgkim990427/wikimediator/pkg/logger"
	"github.com/mgkim990427/wikimediator/search"
)

// Config holds mediator settings with environment variable mapping.
type Config struct {
	CacheCapacity int           `env:"MEDIATOR_CACHE_CAPACITY" envDefault:"256"`
	CacheTimeout  time.Duration `env:"MEDIATOR_CACHE_TIMEOUT" envDefault:"1h"`
	StatsWindow   time.Duration `env:"MEDIATOR_STATS_WINDOW" envDefault:"30s"`
}

// Option configures optional mediator behavior.
type Option func(*options)

type options struct {
	clock func() time.Time
	log   *slog.Logger
}

// WithClock substitutes the time source used for cache expiry and request
// statistics. Intended for deterministic tests.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithLogger supplies a logger for cache-miss diagnostics. If nil, logs
// are discarded.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// record is the cached payload: either a list of search results or a
// page's text, keyed by the normalized request key.
type record struct {
	id      string
	results []string
	text    string
}

func (r record) ID() string { return r.id }

// Mediator answers lookups against a remote source, caching results by
// normalized request key. All methods are safe for concurrent use.
type Mediator struct {
	source search.Source
	cache  *cache.Cache[record]
	stats  *Stats
	sf     singleflight.Group
	log    *slog.Logger
}

// New creates a mediator in front of source. Returns an error if the
// cache configuration is invalid.
func New(source search.Source, cfg Config, opts ...Option) (*Mediator, error) {
	o := options{clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	c, err := cache.New[record](cfg.CacheCapacity, cfg.CacheTimeout, cache.WithClock(o.clock))
	if err != nil {
		return nil, err
	}

	log := o.log
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Mediator{
		source: source,
		cache:  c,
		stats:  NewStats(cfg.StatsWindow, o.clock),
		log:    log,
	}, nil
}

// SimpleSearch returns up to limit page titles matching query, serving
// repeated queries from the cache.
func (m *Mediator) SimpleSearch(ctx context.Context, query string, limit int) ([]string, error) {
	key := normalize(query)
	m.stats.Record(key)

	id := fmt.Sprintf("search/%d/%s", limit, key)
	if hit, err := m.cache.Get(id); err == nil {
		return hit.results, nil
	} else if !errors.Is(err, cache.ErrNotFound) {
		return nil, err
	}

	m.log.DebugContext(ctx, "search cache miss", logger.Query(query))

	v, err, _ := m.sf.Do(id, func() (any, error) {
		titles, err := m.source.Search(ctx, query, limit)
		if err != nil {
			return nil, err
		}
		m.cache.Put(record{id: id, results: titles})
		return titles, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

// GetPage returns the text of the page with the given title, serving
// repeated titles from the cache.
func (m *Mediator) GetPage(ctx context.Context, title string) (string, error) {
	key := normalize(title)
	m.stats.Record(key)

	id := "page/" + key
	if hit, err := m.cache.Get(id); err == nil {
		return hit.text, nil
	} else if !errors.Is(err, cache.ErrNotFound) {
		return "", err
	}

	m.log.DebugContext(ctx, "page cache miss", logger.Query(title))

	v, err, _ := m.sf.Do(id, func() (any, error) {
		text, err := m.source.PageText(ctx, title)
		if err != nil {
			return nil, err
		}
		m.cache.Put(record{id: id, text: text})
		return text, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Zeitgeist returns up to limit lookup keys ordered by all-time request
// frequency, most common first.
func (m *Mediator) Zeitgeist(limit int) []string {
	m.stats.Record("")
	return m.stats.TopAllTime(limit)
}

// Trending returns up to limit lookup keys ordered by request frequency
// within the trailing stats window.
func (m *Mediator) Trending(limit int) []string {
	m.stats.Record("")
	return m.stats.TopRecent(limit)
}

// PeakLoad30s returns the maximum number of requests, this one included,
// observed in any single trailing window since the mediator was created.
func (m *Mediator) PeakLoad30s() int {
	m.stats.Record("")
	return m.stats.Peak()
}

// normalize derives the cache identity from a request key: surrounding
// whitespace is dropped and the rest is Unicode case folded.
func normalize(key string) string {
	return cases.Fold().String(strings.TrimSpace(key))
}
