package querycache

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Status is the lifecycle state of a cache entry.
type Status uint8

const (
	StatusIdle Status = iota
	StatusLoading
	StatusFresh
	StatusStale
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusFresh:
		return "fresh"
	case StatusStale:
		return "stale"
	case StatusError:
		return "error"
	}
	return "unknown"
}

// Entry is a cached query result. The value is retained through the stale
// state so views can keep displaying it while a refetch is in flight.
type Entry struct {
	Value     any
	FetchedAt time.Time
	Status    Status
	Err       error
}

// FetchFunc loads a value from the remote service.
type FetchFunc func(ctx context.Context) (any, error)

// Subscriber observes entry transitions for one fingerprint. Callbacks run
// synchronously on the goroutine driving the transition and must not call
// back into the cache's subscription methods.
type Subscriber func(fp Fingerprint, entry Entry)

// DefaultStalenessWindow is used when no per-family window matches.
const DefaultStalenessWindow = 30 * time.Second

// Cache is the keyed store of fetched results shared by all views. Reads
// are deduplicated per fingerprint (at most one concurrent fetch for the
// same key); successful mutations mark the declared families stale.
type Cache struct {
	graph         *Graph
	windows       map[Family]time.Duration
	defaultWindow time.Duration
	log           zerolog.Logger
	metrics       *Metrics
	nowTime       func() time.Time

	mu      sync.RWMutex
	entries map[Fingerprint]Entry

	flight singleflight.Group

	subsMu  sync.RWMutex
	subs    map[Fingerprint]map[int]Subscriber
	nextSub int
}

// CacheOption defines a function type to modify the Cache instance.
type CacheOption func(*Cache)

// WithStalenessWindow sets the staleness window for a fingerprint family.
// The longest matching family prefix wins.
func WithStalenessWindow(family Family, window time.Duration) CacheOption {
	return func(c *Cache) {
		c.windows[family] = window
	}
}

// WithDefaultStaleness overrides the fallback staleness window.
func WithDefaultStaleness(window time.Duration) CacheOption {
	return func(c *Cache) {
		c.defaultWindow = window
	}
}

// WithLogger sets the cache logger. Defaults to a no-op logger.
func WithLogger(log zerolog.Logger) CacheOption {
	return func(c *Cache) {
		c.log = log
	}
}

// WithMetrics sets the metrics collection for the cache.
func WithMetrics(m *Metrics) CacheOption {
	return func(c *Cache) {
		c.metrics = m
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) CacheOption {
	return func(c *Cache) {
		c.nowTime = nowFunc
	}
}

// NewCache creates a query cache consulting the given invalidation graph.
func NewCache(graph *Graph, options ...CacheOption) (*Cache, error) {
	if graph == nil {
		return nil, errors.New("[NewCache] invalidation graph is required")
	}

	c := &Cache{
		graph:         graph,
		windows:       make(map[Family]time.Duration),
		defaultWindow: DefaultStalenessWindow,
		log:           zerolog.Nop(),
		nowTime:       time.Now,
		entries:       make(map[Fingerprint]Entry),
		subs:          make(map[Fingerprint]map[int]Subscriber),
	}
	for _, opt := range options {
		opt(c)
	}
	if c.metrics == nil {
		c.metrics = NewMetrics(nil)
	}
	return c, nil
}

// Read returns the cached value for fp when the entry is fresh and younger
// than the staleness window; otherwise it invokes fetch, stores the result,
// and returns it. Concurrent reads of the same fingerprint collapse into a
// single fetch whose result every caller shares. A window of zero selects
// the configured per-family window.
func (c *Cache) Read(ctx context.Context, fp Fingerprint, window time.Duration, fetch FetchFunc) (any, error) {
	if window <= 0 {
		window = c.WindowFor(fp)
	}

	if entry, ok := c.Get(fp); ok && c.isFresh(entry, window) {
		c.metrics.Hits.Inc()
		return entry.Value, nil
	}
	c.metrics.Misses.Inc()

	value, err, _ := c.flight.Do(string(fp), func() (any, error) {
		// An overlapping flight may have refreshed the entry between the
		// caller's check and this one.
		if entry, ok := c.Get(fp); ok && c.isFresh(entry, window) {
			return entry.Value, nil
		}

		c.setLoading(fp)
		c.metrics.Fetches.Inc()

		// The fetch outlives any single caller: a view that goes away
		// must not cancel the network call other subscribers share.
		value, fetchErr := fetch(context.WithoutCancel(ctx))
		if fetchErr != nil {
			c.setError(fp, fetchErr)
			return nil, fetchErr
		}
		c.setFresh(fp, value)
		return value, nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Mutate executes a write against the remote service. On success it marks
// every entry in the mutation's declared invalidation families stale and
// returns the result; on failure nothing is invalidated.
func (c *Cache) Mutate(ctx context.Context, kind MutationKind, args map[string]string, fetch FetchFunc) (any, error) {
	value, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	stale := c.InvalidateMutation(kind, args)
	c.log.Debug().Str("mutation", string(kind)).Int("stale_entries", stale).
		Msg("mutation applied, dependent entries invalidated")
	return value, nil
}

// InvalidateMutation marks every entry in the mutation's families stale and
// reports how many entries changed.
func (c *Cache) InvalidateMutation(kind MutationKind, args map[string]string) int {
	total := 0
	for _, family := range c.graph.Families(kind, args) {
		total += c.InvalidateFamily(family)
	}
	return total
}

// InvalidateFamily marks every entry whose fingerprint matches the family
// stale. Values are retained for instant display while views refetch.
func (c *Cache) InvalidateFamily(family Family) int {
	changed := make([]Fingerprint, 0)

	c.mu.Lock()
	for fp, entry := range c.entries {
		if !family.Matches(fp) || entry.Status == StatusLoading || entry.Status == StatusStale {
			continue
		}
		entry.Status = StatusStale
		c.entries[fp] = entry
		changed = append(changed, fp)
	}
	c.mu.Unlock()

	for _, fp := range changed {
		c.metrics.Invalidations.Inc()
		c.notify(fp)
	}
	return len(changed)
}

// Get returns a snapshot of the entry for fp.
func (c *Cache) Get(fp Fingerprint) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[fp]
	return entry, ok
}

// Subscribe registers a callback for entry transitions of fp and returns
// the unsubscribe function. After unsubscribe returns, the callback is
// never invoked again, even if a fetch started earlier is still in flight.
func (c *Cache) Subscribe(fp Fingerprint, fn Subscriber) func() {
	c.subsMu.Lock()
	id := c.nextSub
	c.nextSub++
	if c.subs[fp] == nil {
		c.subs[fp] = make(map[int]Subscriber)
	}
	c.subs[fp][id] = fn
	c.subsMu.Unlock()

	return func() {
		c.subsMu.Lock()
		defer c.subsMu.Unlock()
		if subs, ok := c.subs[fp]; ok {
			delete(subs, id)
			if len(subs) == 0 {
				delete(c.subs, fp)
			}
		}
	}
}

// WindowFor resolves the staleness window for a fingerprint: the longest
// configured family prefix wins, else the default.
func (c *Cache) WindowFor(fp Fingerprint) time.Duration {
	window := c.defaultWindow
	best := -1
	for family, w := range c.windows {
		if family.Matches(fp) && len(family) > best {
			best = len(family)
			window = w
		}
	}
	return window
}

func (c *Cache) isFresh(entry Entry, window time.Duration) bool {
	return entry.Status == StatusFresh && c.nowTime().Sub(entry.FetchedAt) < window
}

func (c *Cache) setLoading(fp Fingerprint) {
	c.mu.Lock()
	entry := c.entries[fp]
	entry.Status = StatusLoading
	entry.Err = nil
	c.entries[fp] = entry
	c.mu.Unlock()
	c.notify(fp)
}

func (c *Cache) setFresh(fp Fingerprint, value any) {
	c.mu.Lock()
	c.entries[fp] = Entry{
		Value:     value,
		FetchedAt: c.nowTime(),
		Status:    StatusFresh,
	}
	c.mu.Unlock()
	c.notify(fp)
}

func (c *Cache) setError(fp Fingerprint, err error) {
	c.mu.Lock()
	entry := c.entries[fp]
	entry.Status = StatusError
	entry.Err = err
	c.entries[fp] = entry
	c.mu.Unlock()
	c.notify(fp)
}

func (c *Cache) notify(fp Fingerprint) {
	entry, ok := c.Get(fp)
	if !ok {
		return
	}

	// Dispatch under the read lock so an unsubscribe that returned can
	// never see a later callback.
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	for _, fn := range c.subs[fp] {
		fn(fp, entry)
	}
}
