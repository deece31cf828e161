package expr

import (
	"errors"
	"reflect"
	"slices"
	"strings"
)

var ErrUnsupportedExpression = errors.New("expression not supported")

// UnsupportedExpressionError names the sub-expression the Extractor cannot interpret.
type UnsupportedExpressionError struct {
	Node Node
}

func (e *UnsupportedExpressionError) Error() string {
	return ErrUnsupportedExpression.Error() + ": " + e.Node.String()
}

func (e *UnsupportedExpressionError) Is(target error) bool {
	return target == ErrUnsupportedExpression
}

// Extractor collects the property paths read by one or more expressions.
//
// Every member chain that starts at a lambda parameter becomes one path.
// Inside a Select or SelectMany selector, paths are prefixed with the path of the
// projected sequence, followed by CollectionSuffix.
// A path already covered by a longer one is dropped, and a longer path
// replaces the shorter one it extends, so the result keeps discovery order.
type Extractor struct {
	// CollectionSuffix is appended to segments that project over a sequence, for example "[]".
	CollectionSuffix string

	root  reflect.Type
	paths []string
}

// Visit walks n and accumulates its paths. The root type is taken from the
// first lambda visited. On error the accumulated paths are left unchanged.
func (e *Extractor) Visit(n Node) error {
	if l, ok := n.(*Lambda); ok && e.root == nil && len(l.Params) > 0 {
		e.root = l.Params[0].ParamType
	}

	saved := slices.Clone(e.paths)

	w := walker{e: e, prefix: make(map[*Parameter]string)}
	if err := w.visit(n); err != nil {
		e.paths = saved
		return err
	}

	return nil
}

// Paths returns the accumulated paths in discovery order.
func (e *Extractor) Paths() []string {
	return slices.Clone(e.paths)
}

// Root returns the parameter type of the first lambda visited, or nil.
func (e *Extractor) Root() reflect.Type {
	return e.root
}

// Reset forgets all paths and the root type.
func (e *Extractor) Reset() {
	e.paths = nil
	e.root = nil
}

// ExtractAll returns every path read by n.
func ExtractAll(n Node, suffix string) ([]string, error) {
	e := Extractor{CollectionSuffix: suffix}
	if err := e.Visit(n); err != nil {
		return nil, err
	}

	return e.Paths(), nil
}

// Extract returns the first path read by n, or "" when n reads none.
func Extract(n Node, suffix string) (string, error) {
	paths, err := ExtractAll(n, suffix)
	if err != nil || len(paths) == 0 {
		return "", err
	}

	return paths[0], nil
}

func (e *Extractor) add(path string) {
	for i, existing := range e.paths {
		if e.covers(existing, path) {
			return
		}

		if e.covers(path, existing) {
			e.paths[i] = path
			e.paths = slices.DeleteFunc(e.paths, func(other string) bool {
				return other != path && e.covers(path, other)
			})

			return
		}
	}

	e.paths = append(e.paths, path)
}

// covers reports whether long equals short or extends it at a segment boundary.
func (e *Extractor) covers(long, short string) bool {
	if long == short || strings.HasPrefix(long, short+".") {
		return true
	}

	return e.CollectionSuffix != "" && strings.HasPrefix(long, short+e.CollectionSuffix+".")
}

type walker struct {
	e *Extractor
	// prefix maps selector parameters to the path of the sequence they range over.
	prefix map[*Parameter]string
}

func (w walker) visit(n Node) error {
	switch n := n.(type) {
	case nil, *Parameter, *Constant:
		return nil
	case *Lambda:
		return w.visit(n.Body)
	case *MemberAccess:
		w.addChain(n)
		return w.visit(n.Target)
	case *Call:
		if n.Target != nil {
			w.addChain(n)

			if err := w.visit(n.Target); err != nil {
				return err
			}
		}

		for _, arg := range n.Args {
			if err := w.visit(arg); err != nil {
				return err
			}
		}

		return nil
	case *Project:
		if !hasParam(n.Selector) {
			return &UnsupportedExpressionError{Node: n}
		}

		if err := w.visit(n.Source); err != nil {
			return err
		}

		param := n.Selector.Params[0]
		if source, ok := w.pathOf(n.Source); ok && source != "" {
			w.prefix[param] = source + w.e.CollectionSuffix
			defer delete(w.prefix, param)
		}

		return w.visit(n.Selector.Body)
	case *Binary:
		if err := w.visit(n.Left); err != nil {
			return err
		}

		return w.visit(n.Right)
	case *Unary:
		return w.visit(n.Operand)
	case *Construct:
		for _, f := range n.Fields {
			if err := w.visit(f.Value); err != nil {
				return err
			}
		}

		return nil
	default:
		return &UnsupportedExpressionError{Node: n}
	}
}

func (w walker) addChain(n Node) {
	if path, ok := w.pathOf(n); ok && path != "" {
		w.e.add(path)
	}
}

// pathOf returns the path of a member chain that bottoms out at a parameter.
func (w walker) pathOf(n Node) (string, bool) {
	switch n := n.(type) {
	case *Parameter:
		return w.prefix[n], true
	case *MemberAccess:
		return w.extend(n.Target, n.Member.Name)
	case *Call:
		if n.Target == nil {
			return "", false
		}

		return w.extend(n.Target, n.Method)
	case *Unary:
		if n.Op != OpConvert {
			return "", false
		}

		return w.pathOf(n.Operand)
	case *Project:
		source, ok := w.pathOf(n.Source)
		if !ok || !hasParam(n.Selector) {
			return "", false
		}

		param := n.Selector.Params[0]
		inner := walker{e: w.e, prefix: map[*Parameter]string{param: source + w.e.CollectionSuffix}}

		for p, s := range w.prefix {
			if p != param {
				inner.prefix[p] = s
			}
		}

		path, ok := inner.pathOf(n.Selector.Body)
		if !ok {
			return "", false
		}

		// Select(p => p) projects the sequence itself
		if path == source+w.e.CollectionSuffix {
			return source, true
		}

		return path, true
	default:
		return "", false
	}
}

func (w walker) extend(target Node, name string) (string, bool) {
	base, ok := w.pathOf(target)
	if !ok {
		return "", false
	}

	if base == "" {
		return name, true
	}

	return base + "." + name, true
}

func hasParam(l *Lambda) bool {
	return l != nil && len(l.Params) > 0
}
