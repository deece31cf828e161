package reflector

import (
	"context"
	"encoding"
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"pathreflect/member"
	"pathreflect/primitive"
)

// pathsKey is the cache bucket holding paths by type.
const pathsKey = "all-paths"

var textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()

// AllPaths returns every leaf path of t: exported fields in declaration
// order followed by read-write properties, descending into nested structs.
// Scalars, sequences and types already being enumerated end a path.
// Results are memoized per type.
func (r *Reflector) AllPaths(ctx context.Context, t reflect.Type) ([]string, error) {
	t = member.Indirect(t)
	if t == nil {
		return nil, fmt.Errorf("%w: nil type", member.ErrInvalidPath)
	}

	bucket, err := r.paths.GetOrSet(pathsKey, func() (any, error) {
		return new(sync.Map), nil
	})
	if err != nil {
		return nil, err
	}

	byType := bucket.(*sync.Map)
	if paths, ok := byType.Load(t); ok {
		return slices.Clone(paths.([]string)), nil
	}

	_, span := r.tracer.Start(ctx, "reflector.AllPaths",
		trace.WithAttributes(attribute.String("type", t.String())),
	)
	defer span.End()

	paths := enumerate(t)
	span.SetAttributes(attribute.Int("paths", len(paths)))
	r.logger.Debug("enumerated paths", slog.String("type", t.String()), slog.Int("count", len(paths)))

	stored, _ := byType.LoadOrStore(t, paths)

	return slices.Clone(stored.([]string)), nil
}

// AllPathsOf is AllPaths for T on the default reflector.
func AllPathsOf[T any](ctx context.Context) ([]string, error) {
	return Default().AllPaths(ctx, reflect.TypeFor[T]())
}

func enumerate(root reflect.Type) []string {
	var (
		paths  []string
		seen   = make(map[string]bool)
		active = make(map[reflect.Type]bool)
	)

	var visit func(t reflect.Type, prefix string)
	visit = func(t reflect.Type, prefix string) {
		active[t] = true
		defer delete(active, t)

		for _, d := range enumerable(t) {
			path := d.Name
			if prefix != "" {
				path = prefix + "." + d.Name
			}

			next := member.Indirect(d.Type)
			if isLeaf(next) || active[next] {
				if !seen[path] {
					seen[path] = true
					paths = append(paths, path)
				}

				continue
			}

			visit(next, path)
		}
	}

	visit(root, "")

	return paths
}

// enumerable lists the exported fields of t, skipping embedded ones whose
// members are promoted, then the properties that have a setter.
func enumerable(t reflect.Type) []member.Descriptor {
	var fields, props []member.Descriptor

	for _, d := range member.Members(t) {
		switch {
		case d.Kind == member.KindProperty && d.CanWrite:
			props = append(props, d)
		case d.Kind == member.KindField && d.Exported && !t.FieldByIndex(d.Index).Anonymous:
			fields = append(fields, d)
		}
	}

	return append(fields, props...)
}

func isLeaf(t reflect.Type) bool {
	if primitive.IsScalar(t) || member.IsSequence(t) {
		return true
	}

	if t.Implements(textMarshalerType) || reflect.PointerTo(t).Implements(textMarshalerType) {
		return true
	}

	return t.Kind() != reflect.Struct
}
