package cache

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

var (
	ErrItemNotInCache   = errors.New("item not in cache")
	ErrItemTypeMismatch = errors.New("cached item has a different type")
	ErrClosed           = errors.New("cache is closed")
	ErrInvalidDuration  = errors.New("duration must be positive")
)

// Stats is a snapshot of the cache counters.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Renewals  int64
}

// Cache maps keys to expiring values. It is safe for concurrent use.
// Close stops the background sweep.
type Cache[K comparable] struct {
	mu       sync.RWMutex
	items    map[K]*entry
	lifespan time.Duration
	interval time.Duration
	flight   singleflight.Group
	opts     options
	metrics  *metrics

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
	renewals  atomic.Int64

	closed atomic.Bool
	stop   chan struct{}
	done   chan struct{}
}

// New creates a cache whose entries live for lifespan unless told otherwise,
// swept every interval.
func New[K comparable](lifespan, interval time.Duration, opts ...Option) (*Cache[K], error) {
	if lifespan <= 0 {
		return nil, fmt.Errorf("%w: lifespan %s", ErrInvalidDuration, lifespan)
	}

	if interval <= 0 {
		return nil, fmt.Errorf("%w: sweep interval %s", ErrInvalidDuration, interval)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	m, err := newMetrics(o.meterProvider, o.name)
	if err != nil {
		return nil, fmt.Errorf("cache metrics: %w", err)
	}

	c := &Cache[K]{
		items:    make(map[K]*entry),
		lifespan: lifespan,
		interval: interval,
		opts:     o,
		metrics:  m,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	go c.run()

	return c, nil
}

// Lifespan is the default entry lifespan.
func (c *Cache[K]) Lifespan() time.Duration { return c.lifespan }

// SweepInterval is the period of the background sweep.
func (c *Cache[K]) SweepInterval() time.Duration { return c.interval }

// Set stores value under key, replacing any previous entry.
// An auto-renewing entry set this way renews to the same value.
func (c *Cache[K]) Set(key K, value any, opts ...SetOption) error {
	return c.SetFunc(key, func() (any, error) { return value, nil }, opts...)
}

// SetFunc stores the result of produce under key. produce is kept as the
// renewal function of auto-renewing entries.
func (c *Cache[K]) SetFunc(key K, produce Producer, opts ...SetOption) error {
	if c.closed.Load() {
		return ErrClosed
	}

	o, err := c.setOptions(opts)
	if err != nil {
		return err
	}

	v, err := produce()
	if err != nil {
		return err
	}

	c.store(key, newEntry(v, c.opts.now(), o.lifespan, o.policy, produce))

	return nil
}

// SetItems stores every pair of items with the same options.
func (c *Cache[K]) SetItems(items map[K]any, opts ...SetOption) error {
	for k, v := range items {
		if err := c.Set(k, v, opts...); err != nil {
			return err
		}
	}

	return nil
}

// Get returns the live value of key, or an error wrapping ErrItemNotInCache.
func (c *Cache[K]) Get(key K) (any, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}

	e, ok := c.live(key)
	if !ok {
		c.miss()
		return nil, fmt.Errorf("%w: %v", ErrItemNotInCache, key)
	}

	c.hit()

	return c.read(key, e), nil
}

// GetAs returns the live value of key as a T. A value of another type gives
// an error wrapping ErrItemTypeMismatch.
func GetAs[T any, K comparable](c *Cache[K], key K) (T, error) {
	var zero T

	v, err := c.Get(key)
	if err != nil {
		return zero, err
	}

	if v == nil {
		if nillable(reflect.TypeFor[T]()) {
			return zero, nil
		}

		return zero, fmt.Errorf("%w: %v holds nil, want %s", ErrItemTypeMismatch, key, reflect.TypeFor[T]())
	}

	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %v holds %T, want %s", ErrItemTypeMismatch, key, v, reflect.TypeFor[T]())
	}

	return t, nil
}

// GetOrSet returns the live value of key, or stores and returns the result
// of produce. Concurrent callers missing the same key share one produce call.
// A live entry whose refresh policy differs from the requested one is stored
// again under the requested policy, keeping its value.
func (c *Cache[K]) GetOrSet(key K, produce Producer, opts ...SetOption) (any, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}

	o, err := c.setOptions(opts)
	if err != nil {
		return nil, err
	}

	if e, ok := c.live(key); ok {
		c.hit()

		v := c.read(key, e)
		if e.policy != o.policy {
			c.store(key, newEntry(v, c.opts.now(), o.lifespan, o.policy, produce))
		}

		return v, nil
	}

	c.miss()

	v, err, _ := c.flight.Do(flightKey(key), func() (any, error) {
		if e, ok := c.live(key); ok {
			return c.read(key, e), nil
		}

		v, err := produce()
		if err != nil {
			return nil, err
		}

		c.store(key, newEntry(v, c.opts.now(), o.lifespan, o.policy, produce))

		return v, nil
	})
	if err != nil {
		return nil, err
	}

	// flight keys are textual, so two keys may share a call
	if _, ok := c.live(key); !ok {
		if v, err = produce(); err != nil {
			return nil, err
		}

		c.store(key, newEntry(v, c.opts.now(), o.lifespan, o.policy, produce))
	}

	return v, nil
}

// IsCached reports whether key holds a live entry.
func (c *Cache[K]) IsCached(key K) bool {
	_, ok := c.live(key)
	return ok
}

// Remove deletes key, returning the value it held.
func (c *Cache[K]) Remove(key K) (any, bool) {
	c.mu.Lock()
	e, ok := c.items[key]
	delete(c.items, key)
	c.mu.Unlock()

	if !ok {
		return nil, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return e.value, true
}

// Items returns a copy of every live entry.
func (c *Cache[K]) Items() map[K]any {
	c.sweep()

	c.mu.RLock()
	live := maps.Clone(c.items)
	c.mu.RUnlock()

	result := make(map[K]any, len(live))
	for k, e := range live {
		result[k] = c.read(k, e)
	}

	return result
}

// Len is the number of live entries.
func (c *Cache[K]) Len() int {
	now := c.opts.now()

	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for _, e := range c.items {
		if !e.expired(now) {
			n++
		}
	}

	return n
}

// Clear removes every entry.
func (c *Cache[K]) Clear() {
	c.mu.Lock()
	clear(c.items)
	c.mu.Unlock()
}

// Stats returns the counters accumulated since New.
func (c *Cache[K]) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Renewals:  c.renewals.Load(),
	}
}

// Close stops the sweep and drops every entry. Later calls return ErrClosed.
func (c *Cache[K]) Close() error {
	if c.closed.Swap(true) {
		return ErrClosed
	}

	close(c.stop)
	<-c.done
	c.Clear()

	return nil
}

func (c *Cache[K]) run() {
	defer close(c.done)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

// sweep removes every expired entry.
func (c *Cache[K]) sweep() int {
	now := c.opts.now()

	c.mu.Lock()

	n := 0
	for k, e := range c.items {
		if e.expired(now) {
			delete(c.items, k)
			n++
		}
	}

	c.mu.Unlock()

	if n > 0 {
		c.evictions.Add(int64(n))
		c.metrics.add(c.metrics.evictions, int64(n))
		c.opts.logger.Debug("swept expired cache entries",
			slog.String("cache", c.opts.name),
			slog.Int("count", n),
		)
	}

	return n
}

// live returns the entry of key unless it has expired, in which case it is
// removed.
func (c *Cache[K]) live(key K) (*entry, bool) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if !e.expired(c.opts.now()) {
		return e, true
	}

	c.mu.Lock()
	if c.items[key] == e {
		delete(c.items, key)
		c.evictions.Add(1)
		c.metrics.add(c.metrics.evictions, 1)
	}
	c.mu.Unlock()

	return nil, false
}

func (c *Cache[K]) read(key K, e *entry) any {
	v, renewed, err := e.read(c.opts.now())
	if err != nil {
		c.opts.logger.Warn("cache entry renewal failed, keeping previous value",
			slog.String("cache", c.opts.name),
			slog.Any("key", key),
			slog.Any("error", err),
		)

		return v
	}

	if renewed {
		c.renewals.Add(1)
		c.metrics.add(c.metrics.renewals, 1)
		c.opts.logger.Debug("renewed cache entry",
			slog.String("cache", c.opts.name),
			slog.Any("key", key),
		)
	}

	return v
}

func (c *Cache[K]) store(key K, e *entry) {
	c.mu.Lock()
	c.items[key] = e
	c.mu.Unlock()
}

func (c *Cache[K]) hit() {
	c.hits.Add(1)
	c.metrics.add(c.metrics.hits, 1)
}

func (c *Cache[K]) miss() {
	c.misses.Add(1)
	c.metrics.add(c.metrics.misses, 1)
}

func flightKey[K comparable](key K) string {
	return fmt.Sprintf("%T:%v", key, key)
}

func nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	default:
		return false
	}
}
