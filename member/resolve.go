package member

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"pathreflect/internal/match"
)

var (
	ErrMemberNotFound = errors.New("member not found")
	ErrInvalidPath    = errors.New("invalid property path")
)

// NotFoundError reports a path segment that does not exist on Type.
type NotFoundError struct {
	Type        reflect.Type
	Member      string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("member %q not found on %s", e.Member, e.Type)
	if len(e.Suggestions) > 0 {
		msg += " (did you mean " + strings.Join(e.Suggestions, ", ") + "?)"
	}

	return msg
}

// Is makes errors.Is(err, ErrMemberNotFound) hold.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrMemberNotFound
}

// NewNotFoundError builds a NotFoundError with suggestions taken from the members of t.
func NewNotFoundError(t reflect.Type, name string) *NotFoundError {
	return &NotFoundError{
		Type:        t,
		Member:      name,
		Suggestions: match.Suggest(name, Names(t), 3),
	}
}

// Lookup finds the member name on t (pointers are dereferenced).
func Lookup(t reflect.Type, name string) (Descriptor, bool) {
	t = Indirect(t)
	if t == nil || name == "" {
		return Descriptor{}, false
	}

	return tableOf(t).lookup(name)
}

// Members returns all members of t, properties first, then fields in declaration order.
func Members(t reflect.Type) []Descriptor {
	t = Indirect(t)
	if t == nil {
		return nil
	}

	members := tableOf(t).members
	result := make([]Descriptor, len(members))
	copy(result, members)

	return result
}

// Names returns the declared names of all members of t.
func Names(t reflect.Type) []string {
	t = Indirect(t)
	if t == nil {
		return nil
	}

	return tableOf(t).names()
}

// Chain resolves every segment of path, returning one descriptor per segment.
// It fails with ErrInvalidPath for empty segments and a *NotFoundError
// for unknown ones.
func Chain(t reflect.Type, path string) ([]Descriptor, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	segments := strings.Split(path, ".")
	chain := make([]Descriptor, 0, len(segments))
	current := t

	for i, segment := range segments {
		if segment == "" {
			return nil, fmt.Errorf("%w %q: empty segment", ErrInvalidPath, path)
		}

		d, ok := Lookup(current, segment)
		if !ok {
			return nil, NewNotFoundError(Indirect(current), segment)
		}

		chain = append(chain, d)

		if i+1 < len(segments) {
			current = TraversalType(d.Type)
		}
	}

	return chain, nil
}

// Resolve returns the terminal member of path on t.
// Any unresolvable or empty segment gives false, never a panic.
func Resolve(t reflect.Type, path string) (Descriptor, bool) {
	chain, err := Chain(t, path)
	if err != nil {
		return Descriptor{}, false
	}

	return chain[len(chain)-1], true
}

// IsValidPath reports whether path resolves on t.
func IsValidPath(t reflect.Type, path string) bool {
	_, ok := Resolve(t, path)
	return ok
}

// FixPathCase rewrites path using the declared casing of every member.
func FixPathCase(t reflect.Type, path string) (string, bool) {
	chain, err := Chain(t, strings.TrimSpace(path))
	if err != nil {
		return "", false
	}

	names := make([]string, len(chain))
	for i, d := range chain {
		names[i] = d.Name
	}

	return strings.Join(names, "."), true
}

// TraversalType is the type the next segment is looked up on:
// the element type for sequences, t itself otherwise.
func TraversalType(t reflect.Type) reflect.Type {
	if IsSequence(t) {
		return ElemOf(t)
	}

	return t
}

// IsSequence reports whether t (after dereferencing) is a slice, array or map.
// Strings are never sequences.
func IsSequence(t reflect.Type) bool {
	t = Indirect(t)
	if t == nil {
		return false
	}

	switch t.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return true
	default:
		return false
	}
}

// ElemOf returns the element type of a sequence, or nil.
func ElemOf(t reflect.Type) reflect.Type {
	if !IsSequence(t) {
		return nil
	}

	return Indirect(t).Elem()
}
