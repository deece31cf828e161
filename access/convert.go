package access

import (
	"errors"
	"reflect"

	"pathreflect/convert"
	"pathreflect/member"
	"pathreflect/primitive"
)

// convert turns value into a value of d.Type. In order it tries direct
// assignment, assignment through a new pointer, the member's named converter
// or the target type's converter, and finally the built-in conversions.
// A nil value never converts. Only converter errors other than
// convert.ErrFormat are returned.
func (a *Accessor) convert(value any, d member.Descriptor) (reflect.Value, bool, error) {
	target := d.Type

	if value == nil {
		return reflect.Value{}, false, nil
	}

	v := reflect.ValueOf(value)
	if out, ok := assign(v, target); ok {
		return out, true, nil
	}

	if c, ok := a.converterFor(d, target); ok && c.CanConvertFrom(v.Type()) {
		converted, err := c.ConvertFrom(value)
		if err != nil {
			if errors.Is(err, convert.ErrFormat) {
				a.logger.Debug("converter rejected value", "member", d.String(), "error", err)
				return reflect.Value{}, false, nil
			}

			return reflect.Value{}, false, err
		}

		if converted == nil {
			return reflect.Value{}, false, nil
		}

		out, ok := assign(reflect.ValueOf(converted), target)

		return out, ok, nil
	}

	base := target
	if base.Kind() == reflect.Pointer {
		base = base.Elem()
	}

	out, err := primitive.Convert(v, base, a.allowed)
	if err != nil {
		a.logger.Debug("conversion failed", "member", d.String(), "from", v.Type().String(), "error", err)
		return reflect.Value{}, false, nil
	}

	out, ok := assign(out, target)

	return out, ok, nil
}

// converterFor looks up the named converter of d, then one registered for target
// or, for pointers, its element type.
func (a *Accessor) converterFor(d member.Descriptor, target reflect.Type) (convert.Converter, bool) {
	if c, ok := a.registry.Resolve(d.Converter, target); ok {
		return c, true
	}

	if target.Kind() == reflect.Pointer {
		return a.registry.Lookup(target.Elem())
	}

	return nil, false
}

// assign copies v into a new value of type target, allocating a pointer when
// v fits the pointer's element type.
func assign(v reflect.Value, target reflect.Type) (reflect.Value, bool) {
	if v.Type().AssignableTo(target) {
		out := reflect.New(target).Elem()
		out.Set(v)

		return out, true
	}

	if target.Kind() == reflect.Pointer && v.Type().AssignableTo(target.Elem()) {
		p := reflect.New(target.Elem())
		p.Elem().Set(v)

		return p, true
	}

	return reflect.Value{}, false
}
