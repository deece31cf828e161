package expr_test

import (
	"fmt"
	"reflect"

	"pathreflect/examples/foo"
	"pathreflect/expr"
)

var (
	anyType = reflect.TypeFor[any]()
	fooType = reflect.TypeFor[foo.Foo]()
)

func mustChain(target expr.Node, path string) expr.Node {
	n, err := expr.Chain(target, path)
	if err != nil {
		panic(err)
	}

	return n
}

func fmtValue(v any) string {
	return fmt.Sprint(v)
}
