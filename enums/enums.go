// Package enums attaches display strings to the constants of Go enum types
// and parses them back.
//
//	enums.Register(
//		enums.Pair[Status]{Value: StatusDraft, Text: "draft"},
//		enums.Pair[Status]{Value: StatusPublished, Text: "published"},
//	)
//
//	enums.StringValue(StatusDraft)              // "draft", true
//	enums.Parse[Status]("PUBLISHED", true)      // StatusPublished, true
package enums

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"pathreflect/convert"
)

// Pair binds one enum constant to its string value.
type Pair[E comparable] struct {
	Value E
	Text  string
}

type set[E comparable] struct {
	pairs  []Pair[E]
	byText map[string]E
	byFold map[string]E
	byVal  map[E]string
}

var sets sync.Map // map[reflect.Type]*set[E]

// Register declares the string values of E, in declaration order.
// A later call for the same type replaces the earlier one.
func Register[E comparable](pairs ...Pair[E]) {
	s := &set[E]{
		pairs:  append([]Pair[E](nil), pairs...),
		byText: make(map[string]E, len(pairs)),
		byFold: make(map[string]E, len(pairs)),
		byVal:  make(map[E]string, len(pairs)),
	}

	for _, p := range pairs {
		s.byText[p.Text] = p.Value

		if _, ok := s.byFold[strings.ToLower(p.Text)]; !ok {
			s.byFold[strings.ToLower(p.Text)] = p.Value
		}

		if _, ok := s.byVal[p.Value]; !ok {
			s.byVal[p.Value] = p.Text
		}
	}

	sets.Store(reflect.TypeFor[E](), s)
}

func lookup[E comparable]() *set[E] {
	s, ok := sets.Load(reflect.TypeFor[E]())
	if !ok {
		return nil
	}

	return s.(*set[E])
}

// StringValue returns the string value registered for e.
func StringValue[E comparable](e E) (string, bool) {
	s := lookup[E]()
	if s == nil {
		return "", false
	}

	text, ok := s.byVal[e]

	return text, ok
}

// Parse returns the constant whose string value is text.
func Parse[E comparable](text string, ignoreCase bool) (E, bool) {
	var zero E

	s := lookup[E]()
	if s == nil {
		return zero, false
	}

	if e, ok := s.byText[text]; ok {
		return e, true
	}

	if !ignoreCase {
		return zero, false
	}

	e, ok := s.byFold[strings.ToLower(text)]

	return e, ok
}

// IsStringDefined reports whether text is a string value of E.
func IsStringDefined[E comparable](text string, ignoreCase bool) bool {
	_, ok := Parse[E](text, ignoreCase)
	return ok
}

// StringValues returns the string values of E in declaration order.
func StringValues[E comparable]() []string {
	s := lookup[E]()
	if s == nil {
		return nil
	}

	texts := make([]string, len(s.pairs))
	for i, p := range s.pairs {
		texts[i] = p.Text
	}

	return texts
}

// ListValues returns the registered pairs of E in declaration order.
func ListValues[E comparable]() []Pair[E] {
	s := lookup[E]()
	if s == nil {
		return nil
	}

	return append([]Pair[E](nil), s.pairs...)
}

// Converter parses string values of E, ignoring case.
func Converter[E comparable]() convert.Converter {
	return convert.Func(func(text string) (E, error) {
		e, ok := Parse[E](text, true)
		if !ok {
			return e, fmt.Errorf("%w: %q is not a %s", convert.ErrFormat, text, reflect.TypeFor[E]())
		}

		return e, nil
	})
}
