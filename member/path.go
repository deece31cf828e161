package member

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"
)

// DefaultCollectionSuffix marks a segment that traverses a sequence, as in "Posts[].Author".
const DefaultCollectionSuffix = "[]"

// Segment is one member name of a path.
type Segment struct {
	Name    string
	IsSlice bool
}

// Path is a parsed property path.
type Path struct {
	Segments []Segment
}

// ParsePath parses a property path string.
// Supports: "Name", "Admin.Address.State", "Posts[]", "Posts[].Comments[].Member".
// An empty suffix means DefaultCollectionSuffix.
func ParsePath(path, suffix string) (Path, error) {
	if path == "" {
		return Path{}, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	if suffix == "" {
		suffix = DefaultCollectionSuffix
	}

	var segments []Segment

	for part := range strings.SplitSeq(path, ".") {
		if part == "" {
			return Path{}, fmt.Errorf("%w %q: empty segment", ErrInvalidPath, path)
		}

		name, isSlice := strings.CutSuffix(part, suffix)
		if isSlice && name == "" {
			return Path{}, fmt.Errorf("%w %q: collection marker without member name", ErrInvalidPath, path)
		}

		if !isValidIdent(name) {
			return Path{}, fmt.Errorf("%w %q: invalid identifier %q", ErrInvalidPath, path, name)
		}

		segments = append(segments, Segment{Name: name, IsSlice: isSlice})
	}

	return Path{Segments: segments}, nil
}

// MustParsePath is ParsePath with DefaultCollectionSuffix that panics on error.
func MustParsePath(path string) Path {
	p, err := ParsePath(path, "")
	if err != nil {
		panic(err)
	}

	return p
}

// Len returns the number of segments.
func (p Path) Len() int {
	return len(p.Segments)
}

// Names returns the segment names without collection markers.
func (p Path) Names() []string {
	names := make([]string, len(p.Segments))
	for i, s := range p.Segments {
		names[i] = s.Name
	}

	return names
}

// Dotted joins the segment names with ".", dropping collection markers.
func (p Path) Dotted() string {
	return strings.Join(p.Names(), ".")
}

// Format joins the segments, appending suffix to sequence segments.
func (p Path) Format(suffix string) string {
	var sb strings.Builder

	for i, s := range p.Segments {
		if i > 0 {
			sb.WriteByte('.')
		}

		sb.WriteString(s.Name)

		if s.IsSlice {
			sb.WriteString(suffix)
		}
	}

	return sb.String()
}

// String formats the path with DefaultCollectionSuffix.
func (p Path) String() string {
	return p.Format(DefaultCollectionSuffix)
}

// Mark returns the path with IsSlice set on every segment whose member is a
// sequence on t. The terminal segment is marked too.
func Mark(t reflect.Type, path string) (Path, error) {
	chain, err := Chain(t, path)
	if err != nil {
		return Path{}, err
	}

	segments := make([]Segment, len(chain))
	for i, d := range chain {
		segments[i] = Segment{Name: d.Name, IsSlice: IsSequence(d.Type)}
	}

	return Path{Segments: segments}, nil
}

// isValidIdent checks if a string is a valid Go identifier.
func isValidIdent(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		if i == 0 && !unicode.IsLetter(r) && r != '_' {
			return false
		}

		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}

	return true
}
