package expr

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"pathreflect/member"
)

// Node is one expression. The concrete types are the exported structs of this package.
type Node interface {
	// Type is the static type of the value the node produces.
	Type() reflect.Type
	String() string

	node()
}

// Parameter is a lambda parameter.
type Parameter struct {
	Name      string
	ParamType reflect.Type
}

// MemberAccess reads a field or property of Target.
type MemberAccess struct {
	Target Node
	Member member.Descriptor
}

// Call invokes Method on Target, or the free function fn when Target is nil.
type Call struct {
	Target     Node
	Method     string
	Args       []Node
	ResultType reflect.Type

	fn reflect.Value
}

// Project maps every element of Source through Selector.
// With Many set, the selector yields sequences which are flattened.
type Project struct {
	Source   Node
	Selector *Lambda
	Many     bool
}

// Binary applies Op to Left and Right.
type Binary struct {
	Op    BinaryOp
	Left  Node
	Right Node
}

// Unary applies Op to Operand. To is the target type of OpConvert.
type Unary struct {
	Op      UnaryOp
	Operand Node
	To      reflect.Type
}

// Constant is a literal value.
type Constant struct {
	Value     any
	ValueType reflect.Type
}

// FieldInit is one field of a Construct.
type FieldInit struct {
	Name  string
	Value Node
}

// Construct builds an anonymous struct value.
type Construct struct {
	Fields     []FieldInit
	StructType reflect.Type
}

// Index reads Target[Key].
type Index struct {
	Target Node
	Key    Node
}

// Lambda is a function literal.
type Lambda struct {
	Params []*Parameter
	Body   Node
}

type BinaryOp int

const (
	_ BinaryOp = iota

	OpAdd
	OpSub
	OpMul
	OpDiv
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
)

var binarySymbols = [...]string{
	OpAdd: "+",
	OpSub: "-",
	OpMul: "*",
	OpDiv: "/",
	OpEq:  "==",
	OpNe:  "!=",
	OpLt:  "<",
	OpLe:  "<=",
	OpGt:  ">",
	OpGe:  ">=",
	OpAnd: "&&",
	OpOr:  "||",
}

func (op BinaryOp) String() string {
	if op <= 0 || int(op) >= len(binarySymbols) {
		return "BinaryOp(" + strconv.Itoa(int(op)) + ")"
	}

	return binarySymbols[op]
}

// IsComparison reports whether op yields a bool from two operands of the same type.
func (op BinaryOp) IsComparison() bool {
	return op >= OpEq && op <= OpGe
}

// IsLogical reports whether op combines two bools.
func (op BinaryOp) IsLogical() bool {
	return op == OpAnd || op == OpOr
}

type UnaryOp int

const (
	_ UnaryOp = iota

	OpConvert
	OpNot
	OpNegate
)

func (op UnaryOp) String() string {
	switch op {
	case OpConvert:
		return "Convert"
	case OpNot:
		return "Not"
	case OpNegate:
		return "Negate"
	default:
		return "UnaryOp(" + strconv.Itoa(int(op)) + ")"
	}
}

var (
	boolType   = reflect.TypeFor[bool]()
	stringType = reflect.TypeFor[string]()
	anyType    = reflect.TypeFor[any]()
)

func (p *Parameter) Type() reflect.Type { return p.ParamType }
func (p *Parameter) String() string     { return p.Name }

func (m *MemberAccess) Type() reflect.Type { return m.Member.Type }
func (m *MemberAccess) String() string     { return m.Target.String() + "." + m.Member.Name }

func (c *Call) Type() reflect.Type { return c.ResultType }

func (c *Call) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}

	call := c.Method + "(" + strings.Join(args, ", ") + ")"
	if c.Target == nil {
		return call
	}

	return c.Target.String() + "." + call
}

func (p *Project) Type() reflect.Type {
	elem := p.Selector.Body.Type()
	if p.Many {
		elem = member.ElemOf(elem)
	}

	return reflect.SliceOf(elem)
}

func (p *Project) String() string {
	selector := "<nil>"
	if p.Selector != nil {
		selector = p.Selector.String()
	}

	return p.Source.String() + "." + p.Operator() + "(" + selector + ")"
}

// Operator names the projection: Select or SelectMany.
func (p *Project) Operator() string {
	if p.Many {
		return "SelectMany"
	}

	return "Select"
}

func (b *Binary) Type() reflect.Type {
	switch {
	case b.Op.IsComparison(), b.Op.IsLogical():
		return boolType
	case b.Op == OpAdd && (isString(b.Left.Type()) || isString(b.Right.Type())):
		return stringType
	default:
		return b.Left.Type()
	}
}

func (b *Binary) String() string {
	return "(" + b.Left.String() + " " + b.Op.String() + " " + b.Right.String() + ")"
}

func (u *Unary) Type() reflect.Type {
	if u.Op == OpConvert {
		return u.To
	}

	return u.Operand.Type()
}

func (u *Unary) String() string {
	switch u.Op {
	case OpConvert:
		return "Convert(" + u.Operand.String() + ", " + u.To.String() + ")"
	case OpNegate:
		return "-" + u.Operand.String()
	default:
		return u.Op.String() + "(" + u.Operand.String() + ")"
	}
}

func (c *Constant) Type() reflect.Type { return c.ValueType }

func (c *Constant) String() string {
	switch v := c.Value.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(v)
	default:
		return fmt.Sprint(v)
	}
}

func (c *Construct) Type() reflect.Type { return c.StructType }

func (c *Construct) String() string {
	fields := make([]string, len(c.Fields))
	for i, f := range c.Fields {
		fields[i] = f.Name + " = " + f.Value.String()
	}

	return "new {" + strings.Join(fields, ", ") + "}"
}

func (i *Index) Type() reflect.Type {
	t := member.Indirect(i.Target.Type())
	if t.Kind() == reflect.String {
		return reflect.TypeFor[byte]()
	}

	return t.Elem()
}

func (i *Index) String() string { return i.Target.String() + "[" + i.Key.String() + "]" }

func (l *Lambda) Type() reflect.Type {
	in := make([]reflect.Type, len(l.Params))
	for i, p := range l.Params {
		in[i] = p.ParamType
	}

	return reflect.FuncOf(in, []reflect.Type{l.Body.Type()}, false)
}

func (l *Lambda) String() string {
	var params string

	switch len(l.Params) {
	case 1:
		params = l.Params[0].Name
	default:
		names := make([]string, len(l.Params))
		for i, p := range l.Params {
			names[i] = p.Name
		}

		params = "(" + strings.Join(names, ", ") + ")"
	}

	return params + " => " + l.Body.String()
}

func (*Parameter) node()    {}
func (*MemberAccess) node() {}
func (*Call) node()         {}
func (*Project) node()      {}
func (*Binary) node()       {}
func (*Unary) node()        {}
func (*Constant) node()     {}
func (*Construct) node()    {}
func (*Index) node()        {}
func (*Lambda) node()       {}

func isString(t reflect.Type) bool {
	return t != nil && t.Kind() == reflect.String
}
