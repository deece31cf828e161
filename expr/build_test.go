package expr_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathreflect/examples/blog"
	"pathreflect/examples/foo"
	"pathreflect/examples/northwind"
	"pathreflect/expr"
	"pathreflect/member"
)

func TestBuild(t *testing.T) {
	t.Parallel()

	fn, err := expr.BuildFor[foo.Foo, any]("Bar.Name")
	require.NoError(t, err)
	assert.Equal(t, "foo => foo.Bar.Name", fn.String())

	path, err := expr.Extract(fn, "")
	require.NoError(t, err)
	assert.Equal(t, "Bar.Name", path)
}

func TestBuildProjection(t *testing.T) {
	t.Parallel()

	built, err := expr.BuildFor[northwind.Employee, any]("Orders.OrderId")
	require.NoError(t, err)

	want := expr.Fn[northwind.Employee]("employee", func(e *expr.Parameter) expr.Node {
		return expr.Select(expr.Prop(e, "Orders"), expr.Fn[*northwind.Order]("order", func(o *expr.Parameter) expr.Node {
			return expr.Prop(o, "OrderID")
		}))
	})

	assert.True(t, expr.Equal(want, built), "built %s", built)
	assert.Equal(t, want.String(), built.String())
	assert.Equal(t, "employee => employee.Orders.Select(order => order.OrderID)", built.String())
	assert.Equal(t, reflect.TypeFor[[]int](), built.Body.Type())

	path, err := expr.Extract(built, "")
	require.NoError(t, err)
	assert.Equal(t, "Orders.OrderID", path)

	path, err = expr.Extract(built, "[]")
	require.NoError(t, err)
	assert.Equal(t, "Orders[].OrderID", path)
}

func TestBuildRoundTrip(t *testing.T) {
	t.Parallel()

	blogType := reflect.TypeFor[blog.Blog]()

	for _, path := range []string{
		"Name",
		"Admin",
		"Admin.Address.State",
		"Admin.Nickname",
		"Posts",
		"Posts.Title",
		"Posts.Comments.Member.UserName",
		"Posts.Author.Address.Zip",
	} {
		fn, err := expr.Build(blogType, nil, path)
		require.NoError(t, err, path)

		got, err := expr.Extract(fn, "")
		require.NoError(t, err, path)
		assert.Equal(t, path, got)
	}
}

func TestBuildUniqueParameterNames(t *testing.T) {
	t.Parallel()

	fn, err := expr.BuildFor[northwind.Employee, any]("Employees.Employees.City")
	require.NoError(t, err)
	assert.Equal(t,
		"employee => employee.Employees.Select(employee1 => employee1.Employees.Select(employee2 => employee2.City))",
		fn.String())
}

func TestBuildConversion(t *testing.T) {
	t.Parallel()

	fn, err := expr.BuildFor[foo.Foo, float32]("UnitPrice")
	require.NoError(t, err)
	assert.Equal(t, "foo => Convert(foo.UnitPrice, float32)", fn.String())

	v, err := fn.Eval(foo.Foo{UnitPrice: 2.5})
	require.NoError(t, err)
	assert.Equal(t, float32(2.5), v)

	fn, err = expr.BuildFor[foo.Foo, float64]("UnitPrice")
	require.NoError(t, err)
	assert.Equal(t, "foo => foo.UnitPrice", fn.String(), "same type needs no conversion")

	fn, err = expr.BuildFor[foo.Foo, any]("Bar")
	require.NoError(t, err)
	assert.Equal(t, "foo => foo.Bar", fn.String(), "pointers are never converted")

	_, err = expr.BuildFor[foo.Foo, int]("Name")
	require.Error(t, err, "string is not convertible to int")
}

func TestBuildErrors(t *testing.T) {
	t.Parallel()

	_, err := expr.BuildFor[foo.Foo, any]("Bar.Wasp")
	require.ErrorIs(t, err, member.ErrMemberNotFound)

	_, err = expr.BuildFor[foo.Foo, any]("Bar..Name")
	require.ErrorIs(t, err, member.ErrInvalidPath)

	_, err = expr.BuildFor[foo.Foo, any]("")
	require.ErrorIs(t, err, member.ErrInvalidPath)

	_, err = expr.Build(nil, nil, "Name")
	require.ErrorIs(t, err, member.ErrInvalidPath)
}

func TestMemberName(t *testing.T) {
	t.Parallel()

	name := expr.Fn[foo.Foo]("x", func(x *expr.Parameter) expr.Node { return mustChain(x, "Bar.Name") })
	price := expr.Fn[foo.Foo]("x", func(x *expr.Parameter) expr.Node {
		return expr.Convert(expr.Prop(x, "UnitPrice"), anyType)
	})
	concat := expr.Fn[foo.Foo]("x", func(x *expr.Parameter) expr.Node {
		return expr.Bin(expr.OpAdd, expr.Prop(x, "LastName"), expr.Const("!"))
	})
	constant := expr.Fn[foo.Foo]("x", func(*expr.Parameter) expr.Node { return expr.Const(1) })

	assert.Equal(t, []string{"Name", "UnitPrice", "LastName", ""}, expr.MemberNames(name, price, concat, constant))

	d, ok := expr.MemberOf(price)
	require.True(t, ok)
	assert.Equal(t, fooType, d.Owner)

	_, ok = expr.MemberOf(constant)
	assert.False(t, ok)
}
