package convert

import (
	"reflect"
	"sort"
	"sync"
)

// Entry is one registered converter in a Registry snapshot.
type Entry struct {
	// Type is set for converters registered by target type.
	Type reflect.Type
	// Name is set for named converters.
	Name      string
	Converter Converter
}

// Registry maps target types and names to converters. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	byType map[reflect.Type]Converter
	byName map[string]Converter
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byType: make(map[reflect.Type]Converter),
		byName: make(map[string]Converter),
	}
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry
}

// Register sets the default converter for target, replacing any previous one.
func (r *Registry) Register(target reflect.Type, c Converter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byType[target] = c
}

// RegisterNamed makes c available to members tagged `convert:"name"`.
func (r *Registry) RegisterNamed(name string, c Converter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byName[name] = c
}

// Register is a typed shorthand for r.Register(reflect.TypeFor[T](), c).
func Register[T any](r *Registry, c Converter) {
	r.Register(reflect.TypeFor[T](), c)
}

// Lookup returns the converter registered for target, falling back to a text
// converter when *target implements encoding.TextUnmarshaler.
func (r *Registry) Lookup(target reflect.Type) (Converter, bool) {
	r.mu.RLock()
	c, ok := r.byType[target]
	r.mu.RUnlock()

	if ok {
		return c, true
	}

	return Text(target)
}

// Named returns the converter registered under name.
func (r *Registry) Named(name string) (Converter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byName[name]

	return c, ok
}

// Resolve picks the converter for a member: the named one if name is set and
// registered, otherwise the default for target.
func (r *Registry) Resolve(name string, target reflect.Type) (Converter, bool) {
	if name != "" {
		if c, ok := r.Named(name); ok {
			return c, true
		}
	}

	return r.Lookup(target)
}

// Entries returns a snapshot: named converters sorted by name, then typed ones sorted by type.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]Entry, 0, len(r.byName)+len(r.byType))
	for name, c := range r.byName {
		entries = append(entries, Entry{Name: name, Converter: c})
	}

	for t, c := range r.byType {
		entries = append(entries, Entry{Type: t, Converter: c})
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if (a.Type == nil) != (b.Type == nil) {
			return a.Type == nil
		}

		if a.Type == nil {
			return a.Name < b.Name
		}

		return a.Type.String() < b.Type.String()
	})

	return entries
}

// Count returns the number of registered converters.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.byName) + len(r.byType)
}

// Reset removes every registered converter.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	clear(r.byType)
	clear(r.byName)
}
