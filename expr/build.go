package expr

import (
	"fmt"
	"reflect"
	"strings"

	"pathreflect/member"
)

// Build returns the lambda over root that reads path.
//
// Segments after a sequence-valued member are read inside a Select whose
// parameter ranges over the element type, so "Orders.OrderID" on Employee builds
//
//	employee => employee.Orders.Select(order => order.OrderID)
//
// When target is a concrete type and a member chain yields a different
// non-reference type, the body is wrapped in a Convert to target.
func Build(root, target reflect.Type, path string) (*Lambda, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: nil root type", member.ErrInvalidPath)
	}

	segments := strings.Split(path, ".")
	for _, s := range segments {
		if s == "" {
			return nil, fmt.Errorf("%w %q: empty segment", member.ErrInvalidPath, path)
		}
	}

	names := newStem()
	param := ParamOf(root, names.take(paramName(root)))

	body, err := buildChain(param, segments, names)
	if err != nil {
		return nil, err
	}

	if m, ok := body.(*MemberAccess); ok && needsConversion(m.Type(), target) {
		if !m.Type().ConvertibleTo(target) {
			return nil, fmt.Errorf("build %s.%s: %s is not convertible to %s", root, path, m.Type(), target)
		}

		body = Convert(m, target)
	}

	return NewLambda(body, param), nil
}

// BuildFor is Build with the root and target given as type parameters.
func BuildFor[S, P any](path string) (*Lambda, error) {
	return Build(reflect.TypeFor[S](), reflect.TypeFor[P](), path)
}

func buildChain(current Node, segments []string, names *stem) (Node, error) {
	for i, segment := range segments {
		if member.IsSequence(current.Type()) {
			elem := member.ElemOf(current.Type())
			p := ParamOf(elem, names.take(paramName(elem)))

			body, err := buildChain(p, segments[i:], names)
			if err != nil {
				return nil, err
			}

			return Select(current, NewLambda(body, p)), nil
		}

		m, err := Access(current, segment)
		if err != nil {
			return nil, err
		}

		current = m
	}

	return current, nil
}

func needsConversion(from, to reflect.Type) bool {
	if to == nil || from == to || to.Kind() == reflect.Interface {
		return false
	}

	switch from.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return false
	default:
		return true
	}
}

// paramName is the lowercased name of t without pointers, "x" for unnamed types.
func paramName(t reflect.Type) string {
	name := member.Indirect(t).Name()
	if name == "" {
		return "x"
	}

	return strings.ToLower(name)
}
