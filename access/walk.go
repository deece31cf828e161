package access

import (
	"fmt"
	"reflect"

	"pathreflect/member"
	"pathreflect/primitive"
)

// walkState is the state of one traversal.
type walkState struct {
	// previous is the container of the current member.
	previous reflect.Value
	// value is the current member's value, or previous when it was not retrieved.
	value  reflect.Value
	member member.Descriptor
	// reached is set once the last segment has been processed.
	reached bool
}

// walk follows segments from root. Every member but the last is retrieved;
// the last one only when getValue is set. With create, nil retrieved members
// are replaced by new values from the factory.
func (a *Accessor) walk(root reflect.Value, segments []string, getValue, create bool) (walkState, error) {
	w := walkState{value: root}

	for i, segment := range segments {
		container, ok := indirect(w.value)
		if !ok {
			return w, nil
		}

		w.previous = container

		d, found := member.Lookup(container.Type(), segment)
		if !found {
			return walkState{}, member.NewNotFoundError(container.Type(), segment)
		}

		w.member = d
		w.value = container

		if getValue || i+1 != len(segments) {
			v, err := a.retrieve(container, d, create)
			if err != nil {
				return walkState{}, err
			}

			w.value = v
		}

		w.reached = i+1 == len(segments)
	}

	return w, nil
}

func (a *Accessor) retrieve(container reflect.Value, d member.Descriptor, create bool) (reflect.Value, error) {
	v, err := d.Get(container)
	if err != nil {
		return reflect.Value{}, err
	}

	// nullable scalars stay nil
	if !create || !d.CanWrite || !isNil(v) || primitive.IsScalar(member.Indirect(d.Type)) {
		return v, nil
	}

	created, err := a.factory.Create(d.Type)
	if err != nil {
		a.logger.Debug("cannot fill nil member", "member", d.String(), "error", err)
		return v, nil
	}

	if err := d.Set(container, created); err != nil {
		return reflect.Value{}, fmt.Errorf("fill %s: %w", d, err)
	}

	a.logger.Debug("filled nil member", "member", d.String(), "type", d.Type.String())

	return created, nil
}

// indirect strips pointers and interfaces, reporting false on nil.
func indirect(v reflect.Value) (reflect.Value, bool) {
	for {
		if isNil(v) {
			return reflect.Value{}, false
		}

		if v.Kind() != reflect.Pointer && v.Kind() != reflect.Interface {
			return v, true
		}

		v = v.Elem()
	}
}

func isNil(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}
