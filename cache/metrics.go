package cache

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "pathreflect/cache"

type metrics struct {
	hits      metric.Int64Counter
	misses    metric.Int64Counter
	evictions metric.Int64Counter
	renewals  metric.Int64Counter
	attrs     metric.MeasurementOption
}

func newMetrics(mp metric.MeterProvider, name string) (*metrics, error) {
	meter := mp.Meter(meterName)

	var (
		m   = &metrics{attrs: metric.WithAttributes(attribute.String("cache", name))}
		err error
	)

	m.hits, err = meter.Int64Counter(
		"cache_hits_total",
		metric.WithDescription("Total number of cache hits"),
	)
	if err != nil {
		return nil, err
	}

	m.misses, err = meter.Int64Counter(
		"cache_misses_total",
		metric.WithDescription("Total number of cache misses"),
	)
	if err != nil {
		return nil, err
	}

	m.evictions, err = meter.Int64Counter(
		"cache_evictions_total",
		metric.WithDescription("Total number of expired entries removed"),
	)
	if err != nil {
		return nil, err
	}

	m.renewals, err = meter.Int64Counter(
		"cache_renewals_total",
		metric.WithDescription("Total number of auto-renewed entries"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (m *metrics) add(counter metric.Int64Counter, n int64) {
	if n > 0 {
		counter.Add(context.Background(), n, m.attrs)
	}
}
