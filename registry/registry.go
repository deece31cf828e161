// Package registry names Go types so they can be picked by string, e.g. from
// command line arguments.
package registry

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"pathreflect/internal/common"
	"pathreflect/internal/match"
)

var (
	ErrTypeNotFound = errors.New("type not registered")
	ErrAmbiguous    = errors.New("ambiguous type name")
	ErrUnnamed      = errors.New("type has no name")
)

// ID identifies a named type by import path and name.
type ID struct {
	PkgPath string
	Name    string
}

// IDOf returns the ID of t after stripping pointers.
func IDOf(t reflect.Type) ID {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t == nil {
		return ID{}
	}

	return ID{PkgPath: t.PkgPath(), Name: t.Name()}
}

// String is the full form, "pathreflect/examples/blog.Blog".
func (id ID) String() string {
	if id.PkgPath == "" {
		return id.Name
	}

	return id.PkgPath + "." + id.Name
}

// Short is the form used in Go source, "blog.Blog".
func (id ID) Short() string {
	if id.PkgPath == "" {
		return id.Name
	}

	return common.PkgAlias(id.PkgPath) + "." + id.Name
}

// Entry is one registered type.
type Entry struct {
	ID   ID
	Type reflect.Type
}

// Registry is a set of named types. The zero value is not usable; use New.
type Registry struct {
	mu    sync.RWMutex
	types map[ID]reflect.Type
}

func New() *Registry {
	return &Registry{types: make(map[ID]reflect.Type)}
}

// Register adds types, stripping pointers. Registering a type twice is a no-op.
func (r *Registry) Register(types ...reflect.Type) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range types {
		id := IDOf(t)
		if id.Name == "" {
			return fmt.Errorf("%w: %v", ErrUnnamed, t)
		}

		for t.Kind() == reflect.Pointer {
			t = t.Elem()
		}

		r.types[id] = t
	}

	return nil
}

// RegisterType registers T.
func RegisterType[T any](r *Registry) error {
	return r.Register(reflect.TypeFor[T]())
}

// Lookup resolves a type ID given as
//   - "pathreflect/examples/blog.Blog" (full)
//   - "blog.Blog" (short, any import path ending in blog)
//   - "Blog" (name only).
//
// Short and name-only forms matching more than one type fail with ErrAmbiguous.
func (r *Registry) Lookup(id string) (reflect.Type, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: empty id", ErrTypeNotFound)
	}

	pkg, name := "", id
	if lastDot := strings.LastIndex(id, "."); lastDot >= 0 {
		pkg, name = id[:lastDot], id[lastDot+1:]
		if pkg == "" || name == "" {
			return nil, fmt.Errorf("%w: %q", ErrTypeNotFound, id)
		}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if t, ok := r.types[ID{PkgPath: pkg, Name: name}]; ok {
		return t, nil
	}

	var found []Entry

	for candidate, t := range r.types {
		if candidate.Name != name {
			continue
		}

		if pkg == "" || candidate.PkgPath == pkg || strings.HasSuffix(candidate.PkgPath, "/"+pkg) {
			found = append(found, Entry{ID: candidate, Type: t})
		}
	}

	switch len(found) {
	case 0:
		return nil, r.notFound(id, name)
	case 1:
		return found[0].Type, nil
	default:
		ids := make([]string, len(found))
		for i, e := range found {
			ids[i] = e.ID.String()
		}

		slices.Sort(ids)

		return nil, fmt.Errorf("%w %q: %s", ErrAmbiguous, id, strings.Join(ids, ", "))
	}
}

func (r *Registry) notFound(id, name string) error {
	names := make([]string, 0, len(r.types))
	for candidate := range r.types {
		names = append(names, candidate.Name)
	}

	slices.Sort(names)

	if suggestions := match.Suggest(name, slices.Compact(names), 3); len(suggestions) > 0 {
		return fmt.Errorf("%w: %q (did you mean %s?)", ErrTypeNotFound, id, strings.Join(suggestions, ", "))
	}

	return fmt.Errorf("%w: %q", ErrTypeNotFound, id)
}

// Entries returns every registered type sorted by full ID.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]Entry, 0, len(r.types))
	for id, t := range r.types {
		entries = append(entries, Entry{ID: id, Type: t})
	}

	slices.SortFunc(entries, func(a, b Entry) int {
		return strings.Compare(a.ID.String(), b.ID.String())
	})

	return entries
}

// Count is the number of registered types.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.types)
}

// Reset removes every type.
func (r *Registry) Reset() {
	r.mu.Lock()
	clear(r.types)
	r.mu.Unlock()
}
