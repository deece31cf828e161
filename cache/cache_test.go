package cache

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// newManual returns a cache driven by clock whose sweep never fires on its own.
func newManual(t *testing.T, clock *fakeClock, opts ...Option) *Cache[string] {
	t.Helper()

	c, err := New[string](time.Minute, time.Hour, append(opts, WithClock(clock.Now))...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	return c
}

func counter(n *atomic.Int64) Producer {
	return func() (any, error) {
		return int(n.Add(1)), nil
	}
}

func TestNewRejectsNonPositiveDurations(t *testing.T) {
	t.Parallel()

	_, err := New[string](0, time.Second)
	require.ErrorIs(t, err, ErrInvalidDuration)

	_, err = New[string](time.Second, -time.Second)
	require.ErrorIs(t, err, ErrInvalidDuration)

	c, err := New[string](time.Second, time.Second)
	require.NoError(t, err)
	defer c.Close()

	require.ErrorIs(t, c.Set("a", 1, WithLifespan(0)), ErrInvalidDuration)
}

func TestExpiry(t *testing.T) {
	t.Parallel()

	c, err := New[string](50*time.Millisecond, 10*time.Millisecond)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Set("key", "value"))
	assert.True(t, c.IsCached("key"))

	v, err := c.Get("key")
	require.NoError(t, err)
	assert.Equal(t, "value", v)

	time.Sleep(80 * time.Millisecond)

	_, err = c.Get("key")
	require.ErrorIs(t, err, ErrItemNotInCache)
	assert.False(t, c.IsCached("key"))

	require.Eventually(t, func() bool {
		c.mu.RLock()
		defer c.mu.RUnlock()

		return len(c.items) == 0
	}, time.Second, 10*time.Millisecond)
}

func TestSweepRemovesExpired(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := newManual(t, clock)

	require.NoError(t, c.Set("short", 1, WithLifespan(time.Second)))
	require.NoError(t, c.Set("long", 2))

	clock.Advance(2 * time.Second)

	assert.Equal(t, 1, c.sweep())
	assert.Equal(t, 0, c.sweep())
	assert.Equal(t, int64(1), c.Stats().Evictions)
	assert.Equal(t, map[string]any{"long": 2}, c.Items())
}

func TestGetOrSetKeepsFirstValue(t *testing.T) {
	t.Parallel()

	c := newManual(t, newFakeClock())

	first, err := c.GetOrSet("key", func() (any, error) { return "first", nil })
	require.NoError(t, err)

	second, err := c.GetOrSet("key", func() (any, error) { return "second", nil })
	require.NoError(t, err)

	assert.Equal(t, "first", first)
	assert.Equal(t, "first", second)
	assert.Equal(t, Stats{Hits: 1, Misses: 1}, c.Stats())
}

func TestGetOrSetProducerError(t *testing.T) {
	t.Parallel()

	c := newManual(t, newFakeClock())
	boom := errors.New("boom")

	_, err := c.GetOrSet("key", func() (any, error) { return nil, boom })
	require.ErrorIs(t, err, boom)
	assert.False(t, c.IsCached("key"))
}

func TestGetOrSetConcurrent(t *testing.T) {
	t.Parallel()

	c := newManual(t, newFakeClock())

	var (
		calls atomic.Int64
		wg    sync.WaitGroup
	)

	results := make([]any, 16)
	for i := range results {
		wg.Add(1)

		go func() {
			defer wg.Done()

			v, err := c.GetOrSet("key", func() (any, error) {
				time.Sleep(20 * time.Millisecond)
				return int(calls.Add(1)), nil
			})
			assert.NoError(t, err)

			results[i] = v
		}()
	}

	wg.Wait()

	assert.Equal(t, int64(1), calls.Load())
	for _, v := range results {
		assert.Equal(t, 1, v)
	}
}

func TestAutoRenew(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := newManual(t, clock)

	var n atomic.Int64
	require.NoError(t, c.SetFunc("key", counter(&n), WithAutoRenew()))

	v, err := c.Get("key")
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	clock.Advance(2 * time.Minute)

	assert.True(t, c.IsCached("key"))
	assert.Zero(t, c.sweep())

	v, err = c.Get("key")
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	v, err = c.Get("key")
	require.NoError(t, err)
	assert.Equal(t, 2, v, "renewed entry is fresh again")
	assert.Equal(t, int64(1), c.Stats().Renewals)
}

func TestAutoRenewFailureKeepsValue(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	clock := newFakeClock()
	c := newManual(t, clock, WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	calls := 0
	produce := func() (any, error) {
		calls++
		if calls > 1 {
			return nil, errors.New("source unavailable")
		}

		return "cached", nil
	}

	require.NoError(t, c.SetFunc("key", produce, WithAutoRenew()))
	clock.Advance(2 * time.Minute)

	v, err := c.Get("key")
	require.NoError(t, err)
	assert.Equal(t, "cached", v)
	assert.Contains(t, buf.String(), "renewal failed")
	assert.Contains(t, buf.String(), "source unavailable")
}

func TestGetOrSetChangesPolicy(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := newManual(t, clock)

	require.NoError(t, c.Set("key", "plain"))

	v, err := c.GetOrSet("key", func() (any, error) { return "renewed", nil }, WithAutoRenew())
	require.NoError(t, err)
	assert.Equal(t, "plain", v)

	clock.Advance(2 * time.Minute)

	v, err = c.Get("key")
	require.NoError(t, err)
	assert.Equal(t, "renewed", v)

	// back to a plain entry: it expires again
	_, err = c.GetOrSet("key", func() (any, error) { return "unused", nil })
	require.NoError(t, err)
	clock.Advance(2 * time.Minute)
	assert.False(t, c.IsCached("key"))
}

func TestGetAs(t *testing.T) {
	t.Parallel()

	c := newManual(t, newFakeClock())

	require.NoError(t, c.SetItems(map[string]any{
		"n":   42,
		"nil": nil,
	}))

	n, err := GetAs[int](c, "n")
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	_, err = GetAs[string](c, "n")
	require.ErrorIs(t, err, ErrItemTypeMismatch)
	assert.EqualError(t, err, "cached item has a different type: n holds int, want string")

	p, err := GetAs[*int](c, "nil")
	require.NoError(t, err)
	assert.Nil(t, p)

	_, err = GetAs[int](c, "nil")
	require.ErrorIs(t, err, ErrItemTypeMismatch)

	_, err = GetAs[int](c, "missing")
	require.ErrorIs(t, err, ErrItemNotInCache)
	assert.NotErrorIs(t, err, ErrItemTypeMismatch)
}

func TestRemoveAndClear(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := newManual(t, clock)

	require.NoError(t, c.SetItems(map[string]any{"a": 1, "b": 2, "c": 3}))
	require.NoError(t, c.Set("d", 4, WithLifespan(time.Second)))
	assert.Equal(t, 4, c.Len())

	clock.Advance(2 * time.Second)
	assert.Equal(t, 3, c.Len())

	v, ok := c.Remove("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = c.Remove("a")
	assert.False(t, ok)

	assert.Equal(t, map[string]any{"b": 2, "c": 3}, c.Items())

	c.Clear()
	assert.Zero(t, c.Len())
	assert.Empty(t, c.Items())
}

func TestClose(t *testing.T) {
	t.Parallel()

	c, err := New[int](time.Minute, time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, c.Set(1, "one"))

	require.NoError(t, c.Close())
	require.ErrorIs(t, c.Close(), ErrClosed)

	_, err = c.Get(1)
	require.ErrorIs(t, err, ErrClosed)
	require.ErrorIs(t, c.Set(2, "two"), ErrClosed)

	_, err = c.GetOrSet(3, func() (any, error) { return "three", nil })
	require.ErrorIs(t, err, ErrClosed)
}

func TestMetrics(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	clock := newFakeClock()
	c := newManual(t, clock, WithMeterProvider(mp), WithName("paths"))

	require.NoError(t, c.Set("a", 1, WithLifespan(time.Second)))
	_, _ = c.Get("a")
	_, _ = c.Get("b")
	clock.Advance(2 * time.Second)
	c.sweep()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	totals := make(map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}

			for _, dp := range sum.DataPoints {
				name, ok := dp.Attributes.Value("cache")
				require.True(t, ok)
				assert.Equal(t, "paths", name.AsString())

				totals[m.Name] += dp.Value
			}
		}
	}

	assert.Equal(t, map[string]int64{
		"cache_hits_total":      1,
		"cache_misses_total":    1,
		"cache_evictions_total": 1,
	}, totals)
}

func TestRefreshPolicyString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "None", RefreshNone.String())
	assert.Equal(t, "OnRead", RefreshOnRead.String())
	assert.Equal(t, "RefreshPolicy(7)", RefreshPolicy(7).String())
}
