package reflector

import (
	"fmt"
	"log/slog"
	"reflect"

	"go.opentelemetry.io/otel/trace"

	"pathreflect/access"
	"pathreflect/cache"
	"pathreflect/expr"
	"pathreflect/member"
)

const tracerName = "pathreflect/reflector"

// Reflector resolves, extracts, builds and walks property paths.
type Reflector struct {
	suffix   string
	accessor *access.Accessor
	paths    *cache.Cache[string]
	tracer   trace.Tracer
	logger   *slog.Logger
}

// New creates a Reflector.
func New(opts ...Option) (*Reflector, error) {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}

	paths, err := cache.New[string](s.lifespan, s.interval,
		cache.WithName("reflector"),
		cache.WithLogger(s.logger),
		cache.WithMeterProvider(s.meterProvider),
	)
	if err != nil {
		return nil, fmt.Errorf("reflector cache: %w", err)
	}

	accessorOpts := append([]access.Option{access.WithLogger(s.logger)}, s.accessor...)

	return &Reflector{
		suffix:   s.suffix,
		accessor: access.New(accessorOpts...),
		paths:    paths,
		tracer:   s.tracerProvider.Tracer(tracerName),
		logger:   s.logger,
	}, nil
}

// Close releases the path cache.
func (r *Reflector) Close() error {
	return r.paths.Close()
}

// CollectionSuffix is the marker used by Path and Paths.
func (r *Reflector) CollectionSuffix() string {
	return r.suffix
}

// Resolve returns the member path leads to on t.
func (r *Reflector) Resolve(t reflect.Type, path string) (member.Descriptor, bool) {
	return member.Resolve(t, path)
}

// IsValidPath reports whether path resolves on t.
func (r *Reflector) IsValidPath(t reflect.Type, path string) bool {
	return member.IsValidPath(t, path)
}

// FixPathCase rewrites path with the declared member casing.
func (r *Reflector) FixPathCase(t reflect.Type, path string) (string, bool) {
	return member.FixPathCase(t, path)
}

// Path returns the first path referenced by n.
func (r *Reflector) Path(n expr.Node) (string, error) {
	return expr.Extract(n, r.suffix)
}

// Paths returns every path referenced by n.
func (r *Reflector) Paths(n expr.Node) ([]string, error) {
	return expr.ExtractAll(n, r.suffix)
}

// Build returns a lambda from root to the value at path, converted to target
// when needed.
func (r *Reflector) Build(root, target reflect.Type, path string) (*expr.Lambda, error) {
	return expr.Build(root, target, path)
}

// Get returns the value at path on src.
func (r *Reflector) Get(src any, path string) (any, error) {
	return r.accessor.Get(src, path)
}

// Set stores value at path on src, creating nil intermediates unless told
// otherwise.
func (r *Reflector) Set(src any, path string, value any, opts ...access.SetOption) (bool, error) {
	return r.accessor.Set(src, path, value, opts...)
}

// Hydrate fills the nil members along path on src.
func (r *Reflector) Hydrate(src any, path string) (bool, error) {
	return r.accessor.Hydrate(src, path)
}
