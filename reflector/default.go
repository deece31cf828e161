package reflector

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// ErrUnreachable is returned by Hydrate when a nil member on a path cannot be filled.
var ErrUnreachable = errors.New("path cannot be hydrated")

var (
	defaultMu        sync.Mutex
	defaultReflector *Reflector
)

// Default returns the process-wide Reflector, creating it with default
// options on first use.
func Default() *Reflector {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultReflector == nil {
		r, err := New()
		if err != nil {
			panic(fmt.Sprintf("reflector: default instance: %v", err))
		}

		defaultReflector = r
	}

	return defaultReflector
}

// Init replaces the process-wide Reflector with one built from opts.
// The previous instance is closed.
func Init(opts ...Option) error {
	r, err := New(opts...)
	if err != nil {
		return err
	}

	defaultMu.Lock()
	previous := defaultReflector
	defaultReflector = r
	defaultMu.Unlock()

	if previous != nil {
		return previous.Close()
	}

	return nil
}

// Shutdown closes the process-wide Reflector. A later Default call starts
// a new one.
func Shutdown() error {
	defaultMu.Lock()
	previous := defaultReflector
	defaultReflector = nil
	defaultMu.Unlock()

	if previous == nil {
		return nil
	}

	return previous.Close()
}

// Hydrate returns a new T whose nil members along every enumerated path
// have been filled, using the default reflector. Nullable scalars stay nil.
// A path whose intermediate member cannot be created fails with ErrUnreachable.
func Hydrate[T any](ctx context.Context) (*T, error) {
	return HydrateWith[T](ctx, Default())
}

// HydrateWith is Hydrate on r.
func HydrateWith[T any](ctx context.Context, r *Reflector) (*T, error) {
	v := new(T)

	paths, err := r.AllPaths(ctx, reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}

	for _, path := range paths {
		ok, err := r.Hydrate(v, path)
		if err != nil {
			return nil, fmt.Errorf("hydrate %s: %w", path, err)
		}

		if !ok {
			return nil, fmt.Errorf("%w: %s on %s", ErrUnreachable, path, reflect.TypeFor[T]())
		}
	}

	return v, nil
}
