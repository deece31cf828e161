package reflector

import (
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"pathreflect/access"
)

const (
	DefaultLifespan      = 60 * time.Minute
	DefaultSweepInterval = 15 * time.Minute
)

type settings struct {
	suffix         string
	lifespan       time.Duration
	interval       time.Duration
	logger         *slog.Logger
	accessor       []access.Option
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

func defaultSettings() settings {
	return settings{
		lifespan:       DefaultLifespan,
		interval:       DefaultSweepInterval,
		logger:         slog.Default(),
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
	}
}

// Option configures a Reflector.
type Option func(*settings)

// WithCollectionSuffix sets the marker extracted paths put after sequence
// segments, e.g. "[]".
func WithCollectionSuffix(suffix string) Option {
	return func(s *settings) {
		s.suffix = suffix
	}
}

// WithCache sets the lifespan and sweep interval of memoized paths.
func WithCache(lifespan, interval time.Duration) Option {
	return func(s *settings) {
		s.lifespan = lifespan
		s.interval = interval
	}
}

// WithLogger sets the logger shared by the reflector, its cache and accessor.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAccessorOptions configures the accessor behind Get, Set and Hydrate.
func WithAccessorOptions(opts ...access.Option) Option {
	return func(s *settings) {
		s.accessor = append(s.accessor, opts...)
	}
}

// WithTracerProvider sets the provider for enumeration spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *settings) {
		if tp != nil {
			s.tracerProvider = tp
		}
	}
}

// WithMeterProvider sets the provider for cache metrics.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(s *settings) {
		if mp != nil {
			s.meterProvider = mp
		}
	}
}
