package expr

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"pathreflect/primitive"
)

var (
	ErrNilReference = errors.New("nil reference")
	ErrEvaluation   = errors.New("cannot evaluate expression")
)

// Eval runs the lambda with args bound to its parameters.
func (l *Lambda) Eval(args ...any) (any, error) {
	if len(args) != len(l.Params) {
		return nil, fmt.Errorf("%w: %s takes %d arguments, got %d", ErrEvaluation, l, len(l.Params), len(args))
	}

	env := make(map[*Parameter]reflect.Value, len(args))

	for i, p := range l.Params {
		v, err := argValue(args[i], p.ParamType)
		if err != nil {
			return nil, fmt.Errorf("argument %s: %w", p.Name, err)
		}

		env[p] = v
	}

	v, err := evaluator{env: env}.eval(l.Body)
	if err != nil {
		return nil, err
	}

	if !v.IsValid() || !v.CanInterface() {
		return nil, nil
	}

	return v.Interface(), nil
}

func argValue(arg any, t reflect.Type) (reflect.Value, error) {
	if arg == nil {
		return reflect.Zero(t), nil
	}

	v := reflect.ValueOf(arg)
	if !v.Type().AssignableTo(t) {
		return reflect.Value{}, fmt.Errorf("%w: %s is not assignable to %s", ErrEvaluation, v.Type(), t)
	}

	out := reflect.New(t).Elem()
	out.Set(v)

	return out, nil
}

type evaluator struct {
	env map[*Parameter]reflect.Value
}

func (ev evaluator) eval(n Node) (reflect.Value, error) {
	switch n := n.(type) {
	case *Parameter:
		v, ok := ev.env[n]
		if !ok {
			return reflect.Value{}, fmt.Errorf("%w: unbound parameter %s", ErrEvaluation, n.Name)
		}

		return v, nil
	case *Constant:
		if n.Value == nil {
			return reflect.Zero(n.ValueType), nil
		}

		return reflect.ValueOf(n.Value), nil
	case *MemberAccess:
		return ev.memberAccess(n)
	case *Call:
		return ev.call(n)
	case *Project:
		return ev.project(n)
	case *Binary:
		return ev.binary(n)
	case *Unary:
		return ev.unary(n)
	case *Construct:
		out := reflect.New(n.StructType).Elem()

		for i, f := range n.Fields {
			v, err := ev.eval(f.Value)
			if err != nil {
				return reflect.Value{}, err
			}

			if v.IsValid() {
				out.Field(i).Set(v)
			}
		}

		return out, nil
	case *Index:
		return ev.index(n)
	default:
		return reflect.Value{}, fmt.Errorf("%w: %s", ErrEvaluation, n)
	}
}

func (ev evaluator) memberAccess(n *MemberAccess) (reflect.Value, error) {
	target, err := ev.eval(n.Target)
	if err != nil {
		return reflect.Value{}, err
	}

	container, err := deref(target, n.Target)
	if err != nil {
		return reflect.Value{}, err
	}

	v, err := n.Member.Get(container)
	if err != nil {
		return reflect.Value{}, err
	}

	if !v.IsValid() {
		return reflect.Zero(n.Member.Type), nil
	}

	return v, nil
}

func (ev evaluator) call(n *Call) (reflect.Value, error) {
	fn := n.fn

	if n.Target != nil {
		target, err := ev.eval(n.Target)
		if err != nil {
			return reflect.Value{}, err
		}

		if fn, err = boundMethod(target, n); err != nil {
			return reflect.Value{}, err
		}
	}

	if !fn.IsValid() {
		return reflect.Value{}, fmt.Errorf("%w: %s has no function", ErrEvaluation, n)
	}

	args := make([]reflect.Value, len(n.Args))

	for i, a := range n.Args {
		v, err := ev.eval(a)
		if err != nil {
			return reflect.Value{}, err
		}

		args[i] = v
	}

	out := fn.Call(args)
	if len(out) == 2 && !out[1].IsNil() {
		return reflect.Value{}, fmt.Errorf("%s: %w", n, out[1].Interface().(error))
	}

	return out[0], nil
}

func boundMethod(target reflect.Value, n *Call) (reflect.Value, error) {
	if isNil(target) {
		return reflect.Value{}, fmt.Errorf("%w: %s", ErrNilReference, n.Target)
	}

	if m := target.MethodByName(n.Method); m.IsValid() {
		return m, nil
	}

	for target.Kind() == reflect.Pointer || target.Kind() == reflect.Interface {
		target = target.Elem()
	}

	if !target.CanAddr() {
		p := reflect.New(target.Type())
		p.Elem().Set(target)
		target = p.Elem()
	}

	if m := target.Addr().MethodByName(n.Method); m.IsValid() {
		return m, nil
	}

	return reflect.Value{}, fmt.Errorf("%w: method %s not found on %s", ErrEvaluation, n.Method, target.Type())
}

func (ev evaluator) project(n *Project) (reflect.Value, error) {
	if !hasParam(n.Selector) {
		return reflect.Value{}, fmt.Errorf("%w: %s selector takes no element", ErrEvaluation, n.Operator())
	}

	source, err := ev.eval(n.Source)
	if err != nil {
		return reflect.Value{}, err
	}

	out := reflect.MakeSlice(n.Type(), 0, 0)
	if isNil(source) {
		return out, nil
	}

	for source.Kind() == reflect.Pointer {
		source = source.Elem()
	}

	param := n.Selector.Params[0]
	inner := evaluator{env: make(map[*Parameter]reflect.Value, len(ev.env)+1)}

	for p, v := range ev.env {
		inner.env[p] = v
	}

	for _, elem := range elements(source) {
		inner.env[param] = elem

		v, err := inner.eval(n.Selector.Body)
		if err != nil {
			return reflect.Value{}, err
		}

		if !n.Many {
			out = reflect.Append(out, v)
			continue
		}

		if !isNil(v) {
			out = reflect.Append(out, elements(reflect.Indirect(v))...)
		}
	}

	return out, nil
}

func elements(seq reflect.Value) []reflect.Value {
	var result []reflect.Value

	switch seq.Kind() {
	case reflect.Slice, reflect.Array:
		for i := range seq.Len() {
			result = append(result, seq.Index(i))
		}
	case reflect.Map:
		iter := seq.MapRange()
		for iter.Next() {
			result = append(result, iter.Value())
		}
	}

	return result
}

func (ev evaluator) binary(n *Binary) (reflect.Value, error) {
	left, err := ev.eval(n.Left)
	if err != nil {
		return reflect.Value{}, err
	}

	if n.Op.IsLogical() {
		if left.Kind() != reflect.Bool {
			return reflect.Value{}, fmt.Errorf("%w: %s is not a bool", ErrEvaluation, n.Left)
		}

		// short circuit
		if left.Bool() == (n.Op == OpOr) {
			return reflect.ValueOf(left.Bool()), nil
		}
	}

	right, err := ev.eval(n.Right)
	if err != nil {
		return reflect.Value{}, err
	}

	switch {
	case n.Op.IsLogical():
		if right.Kind() != reflect.Bool {
			return reflect.Value{}, fmt.Errorf("%w: %s is not a bool", ErrEvaluation, n.Right)
		}

		return reflect.ValueOf(right.Bool()), nil
	case n.Op == OpEq || n.Op == OpNe:
		eq, err := equalValues(left, right)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%s: %w", n, err)
		}

		return reflect.ValueOf(eq == (n.Op == OpEq)), nil
	case n.Op == OpAdd && (isString(n.Left.Type()) || isString(n.Right.Type())):
		return reflect.ValueOf(text(left) + text(right)), nil
	case n.Op.IsComparison():
		c, err := compare(left, right)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%s: %w", n, err)
		}

		return reflect.ValueOf(ordered(n.Op, c)), nil
	default:
		v, err := arithmetic(n.Op, left, right)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%s: %w", n, err)
		}

		return v, nil
	}
}

func (ev evaluator) unary(n *Unary) (reflect.Value, error) {
	v, err := ev.eval(n.Operand)
	if err != nil {
		return reflect.Value{}, err
	}

	switch n.Op {
	case OpNot:
		if v.Kind() != reflect.Bool {
			return reflect.Value{}, fmt.Errorf("%w: %s is not a bool", ErrEvaluation, n.Operand)
		}

		return reflect.ValueOf(!v.Bool()), nil
	case OpNegate:
		return arithmetic(OpSub, reflect.Zero(v.Type()), v)
	case OpConvert:
		return convertValue(v, n.To)
	default:
		return reflect.Value{}, fmt.Errorf("%w: %s", ErrEvaluation, n)
	}
}

func (ev evaluator) index(n *Index) (reflect.Value, error) {
	target, err := ev.eval(n.Target)
	if err != nil {
		return reflect.Value{}, err
	}

	key, err := ev.eval(n.Key)
	if err != nil {
		return reflect.Value{}, err
	}

	target, err = deref(target, n.Target)
	if err != nil {
		return reflect.Value{}, err
	}

	switch target.Kind() {
	case reflect.Map:
		k, err := convertValue(key, target.Type().Key())
		if err != nil {
			return reflect.Value{}, err
		}

		if v := target.MapIndex(k); v.IsValid() {
			return v, nil
		}

		return reflect.Zero(target.Type().Elem()), nil
	case reflect.Slice, reflect.Array, reflect.String:
		if !key.CanInt() {
			return reflect.Value{}, fmt.Errorf("%w: index %s is not an integer", ErrEvaluation, n.Key)
		}

		i := int(key.Int())
		if i < 0 || i >= target.Len() {
			return reflect.Value{}, fmt.Errorf("%w: index %d out of range in %s", ErrEvaluation, i, n)
		}

		return target.Index(i), nil
	default:
		return reflect.Value{}, fmt.Errorf("%w: %s cannot be indexed", ErrEvaluation, n.Target)
	}
}

// deref strips pointers and interfaces from a member container.
func deref(v reflect.Value, n Node) (reflect.Value, error) {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}, fmt.Errorf("%w: %s", ErrNilReference, n)
		}

		v = v.Elem()
	}

	return v, nil
}

func convertValue(v reflect.Value, to reflect.Type) (reflect.Value, error) {
	switch {
	case !v.IsValid():
		return reflect.Zero(to), nil
	case v.Type().AssignableTo(to):
		out := reflect.New(to).Elem()
		out.Set(v)

		return out, nil
	case primitive.IsScalar(v.Type()) && primitive.IsScalar(to):
		return primitive.Convert(v, to, primitive.CategoryAll)
	case v.Type().ConvertibleTo(to):
		return v.Convert(to), nil
	default:
		return reflect.Value{}, fmt.Errorf("%w: %s to %s", primitive.ErrNotConvertible, v.Type(), to)
	}
}

func isNil(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}

func text(v reflect.Value) string {
	if isNil(v) {
		return ""
	}

	return fmt.Sprint(v.Interface())
}

func equalValues(a, b reflect.Value) (bool, error) {
	if isNil(a) || isNil(b) {
		return isNil(a) && isNil(b), nil
	}

	if a.Type() != b.Type() {
		converted, err := convertValue(b, a.Type())
		if err != nil {
			return false, err
		}

		b = converted
	}

	if !a.Comparable() {
		return reflect.DeepEqual(a.Interface(), b.Interface()), nil
	}

	return a.Equal(b), nil
}

func compare(a, b reflect.Value) (int, error) {
	switch {
	case a.CanInt() && b.CanInt():
		return cmp3(a.Int(), b.Int()), nil
	case a.CanUint() && b.CanUint():
		return cmp3(a.Uint(), b.Uint()), nil
	case isNumber(a) && isNumber(b):
		return cmp3(toFloat(a), toFloat(b)), nil
	case a.Kind() == reflect.String && b.Kind() == reflect.String:
		return strings.Compare(a.String(), b.String()), nil
	default:
		return 0, fmt.Errorf("%w: cannot order %s and %s", ErrEvaluation, a.Type(), b.Type())
	}
}

func cmp3[T int64 | uint64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func ordered(op BinaryOp, c int) bool {
	switch op {
	case OpLt:
		return c < 0
	case OpLe:
		return c <= 0
	case OpGt:
		return c > 0
	default:
		return c >= 0
	}
}

func arithmetic(op BinaryOp, a, b reflect.Value) (reflect.Value, error) {
	if !isNumber(a) || !isNumber(b) {
		return reflect.Value{}, fmt.Errorf("%w: %s needs numbers", ErrEvaluation, op)
	}

	if b.Type() != a.Type() {
		converted, err := convertValue(b, a.Type())
		if err != nil {
			return reflect.Value{}, err
		}

		b = converted
	}

	out := reflect.New(a.Type()).Elem()

	switch {
	case a.CanInt():
		x, y := a.Int(), b.Int()
		if op == OpDiv && y == 0 {
			return reflect.Value{}, fmt.Errorf("%w: division by zero", ErrEvaluation)
		}

		out.SetInt(applyOp(op, x, y))
	case a.CanUint():
		x, y := a.Uint(), b.Uint()
		if op == OpDiv && y == 0 {
			return reflect.Value{}, fmt.Errorf("%w: division by zero", ErrEvaluation)
		}

		out.SetUint(applyOp(op, x, y))
	default:
		out.SetFloat(applyOp(op, a.Float(), b.Float()))
	}

	return out, nil
}

func applyOp[T int64 | uint64 | float64](op BinaryOp, x, y T) T {
	switch op {
	case OpAdd:
		return x + y
	case OpSub:
		return x - y
	case OpMul:
		return x * y
	default:
		return x / y
	}
}

func isNumber(v reflect.Value) bool {
	return v.CanInt() || v.CanUint() || v.CanFloat()
}

func toFloat(v reflect.Value) float64 {
	switch {
	case v.CanInt():
		return float64(v.Int())
	case v.CanUint():
		return float64(v.Uint())
	default:
		return v.Float()
	}
}
