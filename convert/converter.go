package convert

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
)

// ErrFormat marks an input that has the right type but an unparseable value.
// Callers treat it as an ordinary failed conversion rather than a fault.
var ErrFormat = errors.New("invalid format")

// Converter converts values into one target type.
type Converter interface {
	// CanConvertFrom reports whether values of src are accepted.
	CanConvertFrom(src reflect.Type) bool
	// ConvertFrom converts value. Unparseable input is reported with ErrFormat.
	ConvertFrom(value any) (any, error)
}

// Func adapts a typed function into a Converter accepting values assignable to S.
func Func[S, T any](fn func(S) (T, error)) Converter {
	return funcConverter[S, T]{fn: fn}
}

type funcConverter[S, T any] struct {
	fn func(S) (T, error)
}

func (c funcConverter[S, T]) CanConvertFrom(src reflect.Type) bool {
	return src != nil && src.AssignableTo(reflect.TypeFor[S]())
}

func (c funcConverter[S, T]) ConvertFrom(value any) (any, error) {
	s, ok := value.(S)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not %s", ErrFormat, value, reflect.TypeFor[S]())
	}

	return c.fn(s)
}

var textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()

// textConverter parses strings and byte slices with UnmarshalText.
type textConverter struct {
	target reflect.Type
}

// Text returns a converter for target if *target implements encoding.TextUnmarshaler.
func Text(target reflect.Type) (Converter, bool) {
	if target == nil || !reflect.PointerTo(target).Implements(textUnmarshalerType) {
		return nil, false
	}

	return textConverter{target: target}, true
}

func (c textConverter) CanConvertFrom(src reflect.Type) bool {
	if src == nil {
		return false
	}

	return src.Kind() == reflect.String ||
		(src.Kind() == reflect.Slice && src.Elem().Kind() == reflect.Uint8)
}

func (c textConverter) ConvertFrom(value any) (any, error) {
	v := reflect.ValueOf(value)

	var text []byte

	switch v.Kind() {
	case reflect.String:
		text = []byte(v.String())
	case reflect.Slice:
		text = v.Bytes()
	default:
		return nil, fmt.Errorf("%w: %T is not text", ErrFormat, value)
	}

	p := reflect.New(c.target)
	if err := p.Interface().(encoding.TextUnmarshaler).UnmarshalText(text); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}

	return p.Elem().Interface(), nil
}
