package expr

import (
	"reflect"
	"strconv"

	"pathreflect/member"
)

// MemberName returns the name of the member n reads: the body of a lambda,
// the operand of a conversion and the left operand of + are looked through.
// It returns "" when n reads no member.
func MemberName(n Node) string {
	switch n := unwrap(n).(type) {
	case *MemberAccess:
		return n.Member.Name
	case *Call:
		return n.Method
	default:
		return ""
	}
}

// MemberNames returns MemberName for every lambda.
func MemberNames(lambdas ...*Lambda) []string {
	names := make([]string, len(lambdas))
	for i, l := range lambdas {
		names[i] = MemberName(l)
	}

	return names
}

// MemberOf returns the descriptor of the member n reads.
func MemberOf(n Node) (member.Descriptor, bool) {
	m, ok := unwrap(n).(*MemberAccess)
	if !ok {
		return member.Descriptor{}, false
	}

	return m.Member, true
}

func unwrap(n Node) Node {
	for {
		switch v := n.(type) {
		case *Lambda:
			n = v.Body
		case *Unary:
			if v.Op != OpConvert {
				return n
			}

			n = v.Operand
		case *Binary:
			if v.Op != OpAdd {
				return n
			}

			n = v.Left
		default:
			return n
		}
	}
}

// stem hands out parameter names that are unique within one built expression.
type stem struct {
	taken map[string]struct{}
}

func newStem() *stem {
	return &stem{taken: make(map[string]struct{})}
}

// take returns name if it is free, otherwise name followed by the first free number.
func (s *stem) take(name string) string {
	candidate := name

	for i := 1; ; i++ {
		if _, ok := s.taken[candidate]; !ok {
			s.taken[candidate] = struct{}{}
			return candidate
		}

		candidate = name + strconv.Itoa(i)
	}
}

// Equal reports whether a and b have the same structure. Parameters match by
// name and type, constants by value.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if a.Type() != b.Type() {
		return false
	}

	switch x := a.(type) {
	case *Parameter:
		y, ok := b.(*Parameter)
		return ok && x.Name == y.Name
	case *MemberAccess:
		y, ok := b.(*MemberAccess)
		return ok && x.Member.Name == y.Member.Name && x.Member.Owner == y.Member.Owner && Equal(x.Target, y.Target)
	case *Call:
		y, ok := b.(*Call)
		return ok && x.Method == y.Method && Equal(x.Target, y.Target) && allEqual(x.Args, y.Args)
	case *Project:
		y, ok := b.(*Project)
		return ok && x.Many == y.Many && Equal(x.Source, y.Source) && Equal(x.Selector, y.Selector)
	case *Binary:
		y, ok := b.(*Binary)
		return ok && x.Op == y.Op && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	case *Unary:
		y, ok := b.(*Unary)
		return ok && x.Op == y.Op && Equal(x.Operand, y.Operand)
	case *Constant:
		y, ok := b.(*Constant)
		return ok && reflect.DeepEqual(x.Value, y.Value)
	case *Construct:
		y, ok := b.(*Construct)
		if !ok || len(x.Fields) != len(y.Fields) {
			return false
		}

		for i := range x.Fields {
			if x.Fields[i].Name != y.Fields[i].Name || !Equal(x.Fields[i].Value, y.Fields[i].Value) {
				return false
			}
		}

		return true
	case *Index:
		y, ok := b.(*Index)
		return ok && Equal(x.Target, y.Target) && Equal(x.Key, y.Key)
	case *Lambda:
		y, ok := b.(*Lambda)
		if !ok || len(x.Params) != len(y.Params) {
			return false
		}

		for i := range x.Params {
			if !Equal(x.Params[i], y.Params[i]) {
				return false
			}
		}

		return Equal(x.Body, y.Body)
	default:
		return false
	}
}

func allEqual(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}

	return true
}
