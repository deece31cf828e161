package access

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"pathreflect/convert"
	"pathreflect/member"
	"pathreflect/primitive"
)

var ErrNotAddressable = errors.New("value must be a non-nil pointer")

// Accessor walks property paths on live values.
type Accessor struct {
	registry *convert.Registry
	factory  *Factory
	allowed  primitive.CategoryEnum
	logger   *slog.Logger
}

type Option func(*Accessor)

// WithRegistry sets the converter registry consulted by Set.
func WithRegistry(r *convert.Registry) Option {
	return func(a *Accessor) {
		a.registry = r
	}
}

// WithFactory sets the factory used to fill nil intermediates.
func WithFactory(f *Factory) Option {
	return func(a *Accessor) {
		a.factory = f
	}
}

// WithCategories limits the built-in conversions Set falls back to.
func WithCategories(allowed primitive.CategoryEnum) Option {
	return func(a *Accessor) {
		a.allowed = allowed
	}
}

// WithLogger sets the logger for debug events.
func WithLogger(l *slog.Logger) Option {
	return func(a *Accessor) {
		a.logger = l
	}
}

// New returns an Accessor. By default it uses the process-wide converter
// registry and factory, and allows every conversion category.
func New(opts ...Option) *Accessor {
	a := &Accessor{
		registry: convert.Default(),
		factory:  DefaultFactory(),
		allowed:  primitive.CategoryAll,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

type setConfig struct {
	create bool
}

type SetOption func(*setConfig)

// SkipNestedNil makes Set fail instead of creating nil intermediates.
func SkipNestedNil() SetOption {
	return func(c *setConfig) {
		c.create = false
	}
}

// Get returns the value at path. A nil value anywhere on the way, the root
// included, gives (nil, nil); a segment naming no member gives a *member.NotFoundError.
func (a *Accessor) Get(src any, path string) (any, error) {
	segments, err := split(path)
	if err != nil {
		return nil, err
	}

	w, err := a.walk(reflect.ValueOf(src), segments, true, false)
	if err != nil {
		return nil, err
	}

	if !w.reached || isNil(w.value) {
		return nil, nil
	}

	if !w.value.CanInterface() {
		return nil, fmt.Errorf("%w: %s", member.ErrInaccessible, w.member)
	}

	return w.value.Interface(), nil
}

// Set converts value to the type of the member at path and stores it.
// Missing intermediates are created unless SkipNestedNil is given.
//
// It returns false without error when the member is not writable, an
// intermediate stayed nil, or the value cannot be converted.
func (a *Accessor) Set(src any, path string, value any, opts ...SetOption) (bool, error) {
	cfg := setConfig{create: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	root, err := pointerRoot(src)
	if err != nil {
		return false, err
	}

	segments, err := split(path)
	if err != nil {
		return false, err
	}

	w, err := a.walk(root, segments, false, cfg.create)
	if err != nil {
		return false, err
	}

	if !w.reached || !w.member.CanWrite {
		return false, nil
	}

	converted, ok, err := a.convert(value, w.member)
	if err != nil || !ok {
		return false, err
	}

	if err := w.member.Set(w.previous, converted); err != nil {
		if errors.Is(err, member.ErrInaccessible) || errors.Is(err, member.ErrReadOnly) {
			return false, nil
		}

		return false, fmt.Errorf("set %s: %w", path, err)
	}

	return true, nil
}

// Hydrate fills every nil member along path, the last one included.
// It reports whether the walk reached the last member.
func (a *Accessor) Hydrate(src any, path string) (bool, error) {
	root, err := pointerRoot(src)
	if err != nil {
		return false, err
	}

	segments, err := split(path)
	if err != nil {
		return false, err
	}

	w, err := a.walk(root, segments, true, true)
	if err != nil {
		return false, err
	}

	return w.reached, nil
}

func pointerRoot(src any) (reflect.Value, error) {
	root := reflect.ValueOf(src)
	if root.Kind() != reflect.Pointer || root.IsNil() {
		return reflect.Value{}, fmt.Errorf("%w: got %T", ErrNotAddressable, src)
	}

	return root, nil
}

func split(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", member.ErrInvalidPath)
	}

	segments := strings.Split(path, ".")
	for _, s := range segments {
		if s == "" {
			return nil, fmt.Errorf("%w %q: empty segment", member.ErrInvalidPath, path)
		}
	}

	return segments, nil
}

var defaultAccessor = New()

// Get calls Get on an Accessor with default options.
func Get(src any, path string) (any, error) {
	return defaultAccessor.Get(src, path)
}

// Set calls Set on an Accessor with default options.
func Set(src any, path string, value any, opts ...SetOption) (bool, error) {
	return defaultAccessor.Set(src, path, value, opts...)
}

// Hydrate calls Hydrate on an Accessor with default options.
func Hydrate(src any, path string) (bool, error) {
	return defaultAccessor.Hydrate(src, path)
}
