package member

import (
	"reflect"
	"strings"
	"sync"
)

var errorType = reflect.TypeFor[error]()

// table is the member set of one type.
type table struct {
	members []Descriptor
	// byFold maps lowercased names to member positions, properties first.
	byFold map[string][]int
}

var tables sync.Map // map[reflect.Type]*table

// Indirect strips pointer levels from t.
func Indirect(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return t
}

func tableOf(t reflect.Type) *table {
	if tbl, ok := tables.Load(t); ok {
		return tbl.(*table)
	}

	tbl, _ := tables.LoadOrStore(t, buildTable(t))

	return tbl.(*table)
}

func buildTable(t reflect.Type) *table {
	tbl := &table{byFold: make(map[string][]int)}

	// properties come first so they win over fields with the same folded name
	tbl.members = append(tbl.members, properties(t)...)
	tbl.members = append(tbl.members, fields(t)...)

	for i, d := range tbl.members {
		key := strings.ToLower(d.Name)
		tbl.byFold[key] = append(tbl.byFold[key], i)
	}

	return tbl
}

func fields(t reflect.Type) []Descriptor {
	if t.Kind() != reflect.Struct {
		return nil
	}

	var result []Descriptor

	for _, f := range reflect.VisibleFields(t) {
		result = append(result, Descriptor{
			Owner:     t,
			Name:      f.Name,
			Type:      f.Type,
			Kind:      KindField,
			Exported:  f.IsExported(),
			CanRead:   f.IsExported(),
			CanWrite:  f.IsExported(),
			Index:     f.Index,
			Converter: f.Tag.Get("convert"),
		})
	}

	return result
}

func properties(t reflect.Type) []Descriptor {
	methodSet := t
	receiver := 1

	switch t.Kind() {
	case reflect.Interface:
		receiver = 0
	case reflect.Pointer:
		return nil
	default:
		methodSet = reflect.PointerTo(t)
	}

	var result []Descriptor

	for i := range methodSet.NumMethod() {
		m := methodSet.Method(i)
		if !m.IsExported() || m.Type.NumIn() != receiver || m.Type.NumOut() != 1 {
			continue
		}

		d := Descriptor{
			Owner:    t,
			Name:     m.Name,
			Type:     m.Type.Out(0),
			Kind:     KindProperty,
			Exported: true,
			CanRead:  true,
			Getter:   m.Name,
		}

		if setter, ok := methodSet.MethodByName("Set" + m.Name); ok && isSetter(setter.Type, receiver, d.Type) {
			d.Setter = setter.Name
			d.CanWrite = true
		}

		result = append(result, d)
	}

	return result
}

func isSetter(mt reflect.Type, receiver int, value reflect.Type) bool {
	if mt.NumIn() != receiver+1 || !value.AssignableTo(mt.In(receiver)) {
		return false
	}

	switch mt.NumOut() {
	case 0:
		return true
	case 1:
		return mt.Out(0) == errorType
	default:
		return false
	}
}

// lookup finds name in the table: exact-case property, folded property,
// exact-case field, folded field.
func (tbl *table) lookup(name string) (Descriptor, bool) {
	candidates := tbl.byFold[strings.ToLower(name)]
	if len(candidates) == 0 {
		return Descriptor{}, false
	}

	for _, kind := range []Kind{KindProperty, KindField} {
		found := -1

		for _, i := range candidates {
			d := tbl.members[i]
			if d.Kind != kind {
				continue
			}

			if d.Name == name {
				return d, true
			}

			if found < 0 {
				found = i
			}
		}

		if found >= 0 {
			return tbl.members[found], true
		}
	}

	return Descriptor{}, false
}

func (tbl *table) names() []string {
	names := make([]string, len(tbl.members))
	for i, d := range tbl.members {
		names[i] = d.Name
	}

	return names
}
