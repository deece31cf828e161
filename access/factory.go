package access

import (
	"fmt"
	"reflect"
	"sync"
)

// Factory creates the values used to fill nil members.
type Factory struct {
	mu    sync.RWMutex
	ctors map[reflect.Type]func() any
}

// NewFactory returns a factory with no registered constructors.
func NewFactory() *Factory {
	return &Factory{ctors: make(map[reflect.Type]func() any)}
}

var defaultFactory = NewFactory()

// DefaultFactory returns the process-wide factory.
func DefaultFactory() *Factory {
	return defaultFactory
}

// Register makes Create call fn for t. The value fn returns must be assignable to t.
func (f *Factory) Register(t reflect.Type, fn func() any) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.ctors[t] = fn
}

// RegisterFunc registers a typed constructor.
func RegisterFunc[T any](f *Factory, fn func() T) {
	f.Register(reflect.TypeFor[T](), func() any { return fn() })
}

// Create returns a new non-nil value of type t: a registered constructor's result,
// a pointer to a zero value, an empty map or an empty slice.
// Interfaces, functions and channels cannot be created.
func (f *Factory) Create(t reflect.Type) (reflect.Value, error) {
	f.mu.RLock()
	ctor, ok := f.ctors[t]
	f.mu.RUnlock()

	if ok {
		raw := ctor()

		v := reflect.ValueOf(raw)
		if !v.IsValid() || !v.Type().AssignableTo(t) {
			return reflect.Value{}, fmt.Errorf("constructor for %s returned %T", t, raw)
		}

		out := reflect.New(t).Elem()
		out.Set(v)

		return out, nil
	}

	switch t.Kind() {
	case reflect.Pointer:
		return reflect.New(t.Elem()), nil
	case reflect.Map:
		return reflect.MakeMap(t), nil
	case reflect.Slice:
		return reflect.MakeSlice(t, 0, 0), nil
	case reflect.Interface, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return reflect.Value{}, fmt.Errorf("cannot create a value of type %s", t)
	default:
		return reflect.New(t).Elem(), nil
	}
}
