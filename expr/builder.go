package expr

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"pathreflect/member"
)

// Param declares a parameter of type T.
func Param[T any](name string) *Parameter {
	return ParamOf(reflect.TypeFor[T](), name)
}

// ParamOf declares a parameter of type t.
func ParamOf(t reflect.Type, name string) *Parameter {
	if t == nil {
		panic("parameter type cannot be nil")
	}

	return &Parameter{Name: name, ParamType: t}
}

// Access reads the member name of target.
func Access(target Node, name string) (*MemberAccess, error) {
	d, ok := member.Lookup(target.Type(), name)
	if !ok {
		return nil, member.NewNotFoundError(member.Indirect(target.Type()), name)
	}

	return &MemberAccess{Target: target, Member: d}, nil
}

// Prop is Access that panics when the member does not exist.
func Prop(target Node, name string) *MemberAccess {
	m, err := Access(target, name)
	if err != nil {
		panic(err)
	}

	return m
}

// Chain reads a dotted member chain from target. It does not project over
// sequences; see Build for that.
func Chain(target Node, path string) (Node, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", member.ErrInvalidPath)
	}

	current := target

	for name := range strings.SplitSeq(path, ".") {
		if name == "" {
			return nil, fmt.Errorf("%w %q: empty segment", member.ErrInvalidPath, path)
		}

		m, err := Access(current, name)
		if err != nil {
			return nil, err
		}

		current = m
	}

	return current, nil
}

// Method calls the method name of target. Pointer receiver methods are allowed.
// A method returning (T, error) yields T and fails evaluation on error.
func Method(target Node, name string, args ...Node) *Call {
	mt, ok := methodType(target.Type(), name)
	if !ok {
		panic(fmt.Sprintf("method %s not found on %s", name, target.Type()))
	}

	checkResults(name, mt)

	return &Call{Target: target, Method: name, Args: args, ResultType: mt.Out(0)}
}

// Func calls the Go function fn, shown as name.
func Func(name string, fn any, args ...Node) *Call {
	fv := reflect.ValueOf(fn)
	if fv.Kind() != reflect.Func {
		panic(fmt.Sprintf("%s: %T is not a function", name, fn))
	}

	checkResults(name, fv.Type())

	return &Call{Method: name, Args: args, ResultType: fv.Type().Out(0), fn: fv}
}

// Select projects every element of source through selector.
func Select(source Node, selector *Lambda) *Project {
	checkProjection(source, selector, false)
	return &Project{Source: source, Selector: selector}
}

// SelectMany projects every element of source to a sequence and flattens the result.
func SelectMany(source Node, selector *Lambda) *Project {
	checkProjection(source, selector, true)
	return &Project{Source: source, Selector: selector, Many: true}
}

// Bin combines two operands.
func Bin(op BinaryOp, left, right Node) *Binary {
	return &Binary{Op: op, Left: left, Right: right}
}

// Convert converts n to type to.
func Convert(n Node, to reflect.Type) *Unary {
	return &Unary{Op: OpConvert, Operand: n, To: to}
}

// Not negates a bool.
func Not(n Node) *Unary {
	return &Unary{Op: OpNot, Operand: n}
}

// Neg negates a number.
func Neg(n Node) *Unary {
	return &Unary{Op: OpNegate, Operand: n}
}

// Const wraps a literal. A nil literal has type any.
func Const(v any) *Constant {
	t := reflect.TypeOf(v)
	if t == nil {
		t = anyType
	}

	return &Constant{Value: v, ValueType: t}
}

// At reads target[key].
func At(target, key Node) *Index {
	return &Index{Target: target, Key: key}
}

// Field initializes a field named after the member n reads, as in new { x.Name }.
func Field(n Node) FieldInit {
	return FieldInit{Name: MemberName(n), Value: n}
}

// Named initializes the field name with n.
func Named(name string, n Node) FieldInit {
	return FieldInit{Name: name, Value: n}
}

// New builds an anonymous struct. Field names must be exported identifiers.
func New(fields ...FieldInit) *Construct {
	sf := make([]reflect.StructField, len(fields))

	for i, f := range fields {
		if r, _ := utf8.DecodeRuneInString(f.Name); !unicode.IsUpper(r) {
			panic(fmt.Sprintf("field name %q is not exported", f.Name))
		}

		sf[i] = reflect.StructField{Name: f.Name, Type: f.Value.Type()}
	}

	return &Construct{Fields: fields, StructType: reflect.StructOf(sf)}
}

// NewLambda builds a lambda from an already built body.
func NewLambda(body Node, params ...*Parameter) *Lambda {
	return &Lambda{Params: params, Body: body}
}

// Fn builds a one-parameter lambda over T.
func Fn[T any](name string, body func(*Parameter) Node) *Lambda {
	return FnOf(reflect.TypeFor[T](), name, body)
}

// FnOf builds a one-parameter lambda over t.
func FnOf(t reflect.Type, name string, body func(*Parameter) Node) *Lambda {
	p := ParamOf(t, name)
	return &Lambda{Params: []*Parameter{p}, Body: body(p)}
}

func methodType(t reflect.Type, name string) (reflect.Type, bool) {
	if t.Kind() == reflect.Interface {
		m, ok := t.MethodByName(name)
		if !ok {
			return nil, false
		}

		return m.Type, true
	}

	m, ok := reflect.PointerTo(member.Indirect(t)).MethodByName(name)
	if !ok {
		return nil, false
	}

	// drop the receiver
	in := make([]reflect.Type, m.Type.NumIn()-1)
	for i := range in {
		in[i] = m.Type.In(i + 1)
	}

	out := make([]reflect.Type, m.Type.NumOut())
	for i := range out {
		out[i] = m.Type.Out(i)
	}

	return reflect.FuncOf(in, out, m.Type.IsVariadic()), true
}

func checkResults(name string, ft reflect.Type) {
	switch {
	case ft.NumOut() == 1:
	case ft.NumOut() == 2 && ft.Out(1) == errorType:
	default:
		panic(fmt.Sprintf("%s must return one value, optionally followed by an error", name))
	}
}

func checkProjection(source Node, selector *Lambda, many bool) {
	if !member.IsSequence(source.Type()) {
		panic(fmt.Sprintf("%s is not a sequence", source))
	}

	if len(selector.Params) != 1 {
		panic(fmt.Sprintf("selector %s must take exactly one parameter", selector))
	}

	elem := member.ElemOf(source.Type())
	if !elem.AssignableTo(selector.Params[0].ParamType) {
		panic(fmt.Sprintf("selector %s does not accept %s", selector, elem))
	}

	if many && !member.IsSequence(selector.Body.Type()) {
		panic(fmt.Sprintf("selector %s does not yield a sequence", selector))
	}
}

var errorType = reflect.TypeFor[error]()
