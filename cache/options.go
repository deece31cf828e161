package cache

import (
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

type options struct {
	name          string
	logger        *slog.Logger
	meterProvider metric.MeterProvider
	now           func() time.Time
}

func defaultOptions() options {
	return options{
		name:          "default",
		logger:        slog.Default(),
		meterProvider: otel.GetMeterProvider(),
		now:           time.Now,
	}
}

// Option configures a Cache.
type Option func(*options)

// WithName labels the cache in logs and metrics.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithLogger sets the logger used for sweep and renewal events.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMeterProvider sets the provider the cache counters are created from.
// The global provider is used by default.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) {
		if mp != nil {
			o.meterProvider = mp
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

type setOptions struct {
	lifespan time.Duration
	policy   RefreshPolicy
}

// SetOption configures a single entry.
type SetOption func(*setOptions)

// WithLifespan overrides the cache lifespan for one entry.
func WithLifespan(d time.Duration) SetOption {
	return func(o *setOptions) {
		o.lifespan = d
	}
}

// WithAutoRenew stores the entry with RefreshOnRead.
func WithAutoRenew() SetOption {
	return WithPolicy(RefreshOnRead)
}

// WithPolicy sets the refresh policy of one entry.
func WithPolicy(p RefreshPolicy) SetOption {
	return func(o *setOptions) {
		o.policy = p
	}
}

func (c *Cache[K]) setOptions(opts []SetOption) (setOptions, error) {
	o := setOptions{lifespan: c.lifespan, policy: RefreshNone}
	for _, opt := range opts {
		opt(&o)
	}

	if o.lifespan <= 0 {
		return o, fmt.Errorf("%w: lifespan %s", ErrInvalidDuration, o.lifespan)
	}

	return o, nil
}
