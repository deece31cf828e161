package member

import (
	"errors"
	"fmt"
	"reflect"
)

// Kind tells how a member is read and written.
type Kind int

const (
	_ Kind = iota

	KindField
	KindProperty
)

func (k Kind) String() string {
	switch k {
	case KindField:
		return "field"
	case KindProperty:
		return "property"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

var (
	// ErrInaccessible is returned for members that cannot be read or written by value:
	// unexported fields and setters on non-addressable containers.
	ErrInaccessible = errors.New("member is not accessible")
	// ErrReadOnly is returned when setting a property that has no setter.
	ErrReadOnly = errors.New("member is read-only")
)

// Descriptor describes a resolved member. It is immutable once returned.
type Descriptor struct {
	// Owner is the declaring type with pointers removed.
	Owner reflect.Type
	// Name is the declared name.
	Name string
	// Type is the member value type.
	Type reflect.Type
	Kind Kind

	Exported bool
	CanRead  bool
	CanWrite bool

	// Index is the field index sequence, as for reflect.Value.FieldByIndex.
	Index []int
	// Getter and Setter name the property methods.
	Getter string
	Setter string

	// Converter names a registered converter, taken from the `convert` struct tag.
	Converter string
}

// String returns "Owner.Name".
func (d Descriptor) String() string {
	if d.Owner == nil {
		return d.Name
	}

	return d.Owner.String() + "." + d.Name
}

// IsZero reports whether d describes nothing.
func (d Descriptor) IsZero() bool {
	return d.Kind == 0
}

// Get reads the member from container, the dereferenced owner value.
// An invalid value with a nil error means the member is unreachable
// because of a nil embedded pointer.
func (d Descriptor) Get(container reflect.Value) (reflect.Value, error) {
	switch d.Kind {
	case KindField:
		v, err := container.FieldByIndexErr(d.Index)
		if err != nil {
			return reflect.Value{}, nil // nil embedded pointer reads as absent
		}

		return v, nil
	case KindProperty:
		if !container.CanInterface() {
			return reflect.Value{}, fmt.Errorf("%w: %s", ErrInaccessible, d)
		}

		out := methodOf(container, d.Getter).Call(nil)

		return out[0], nil
	default:
		return reflect.Value{}, fmt.Errorf("%w: %s", ErrInaccessible, d)
	}
}

// Set writes value, which must be assignable to d.Type, into container.
// Nil embedded pointers on the way to a promoted field are allocated.
func (d Descriptor) Set(container, value reflect.Value) error {
	switch d.Kind {
	case KindField:
		f, ok := fieldByIndex(container, d.Index)
		if !ok || !f.CanSet() {
			return fmt.Errorf("%w: %s", ErrInaccessible, d)
		}

		f.Set(value)

		return nil
	case KindProperty:
		if d.Setter == "" {
			return fmt.Errorf("%w: %s", ErrReadOnly, d)
		}

		if !container.CanAddr() || !container.CanInterface() {
			return fmt.Errorf("%w: %s", ErrInaccessible, d)
		}

		out := container.Addr().MethodByName(d.Setter).Call([]reflect.Value{value})
		if len(out) == 1 && !out[0].IsNil() {
			return out[0].Interface().(error)
		}

		return nil
	default:
		return fmt.Errorf("%w: %s", ErrInaccessible, d)
	}
}

func methodOf(container reflect.Value, name string) reflect.Value {
	if container.CanAddr() {
		if m := container.Addr().MethodByName(name); m.IsValid() {
			return m
		}
	}

	if m := container.MethodByName(name); m.IsValid() {
		return m
	}

	// pointer receiver on a non-addressable value
	p := reflect.New(container.Type())
	p.Elem().Set(container)

	return p.MethodByName(name)
}

func fieldByIndex(v reflect.Value, index []int) (reflect.Value, bool) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				if !v.CanSet() {
					return reflect.Value{}, false
				}

				v.Set(reflect.New(v.Type().Elem()))
			}

			v = v.Elem()
		}

		v = v.Field(x)
	}

	return v, true
}
