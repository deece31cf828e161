package reflector_test

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"pathreflect/access"
	"pathreflect/cache"
	"pathreflect/examples/blog"
	"pathreflect/examples/foo"
	"pathreflect/examples/northwind"
	"pathreflect/expr"
	"pathreflect/reflector"
)

type Product struct {
	ProductName  string
	ProductPrice *float64
	Category     *Category
}

type Category struct {
	Name    string
	Code    int
	Details *Details
}

type Details struct {
	Summary  string
	Rating   float32
	Modified time.Time
}

type Person struct {
	MyClassProp *MyClass
	Name        string
}

type MyClass struct {
	MyProp string
	Bee    *foo.Bee
	Stub   *Stub
}

type Stub struct {
	Bee  *foo.Bee
	Bees []foo.Bee
}

type Shelf struct {
	Box *Box
}

type Box struct {
	Label string
}

func newReflector(t *testing.T, opts ...reflector.Option) *reflector.Reflector {
	t.Helper()

	r, err := reflector.New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	return r
}

func TestAllPathsFlattensBranches(t *testing.T) {
	t.Parallel()

	r := newReflector(t)

	paths, err := r.AllPaths(context.Background(), reflect.TypeFor[Product]())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"ProductName",
		"ProductPrice",
		"Category.Name",
		"Category.Code",
		"Category.Details.Summary",
		"Category.Details.Rating",
		"Category.Details.Modified",
	}, paths)
}

func TestAllPathsNorthwind(t *testing.T) {
	t.Parallel()

	r := newReflector(t)

	paths, err := r.AllPaths(context.Background(), reflect.TypeFor[*northwind.Product]())
	require.NoError(t, err)

	assert.Len(t, paths, 27)
	assert.Subset(t, paths, []string{
		"ProductName",
		"UnitPrice",
		"Supplier.Fax",
		"Supplier.Products",
		"Category.Picture",
		"OrderDetails",
		"EntityProp",
	})
	assert.NotContains(t, paths, "Supplier")
	assert.NotContains(t, paths, "Category")
}

func TestAllPathsStopsAtCycles(t *testing.T) {
	t.Parallel()

	r := newReflector(t)

	paths, err := r.AllPaths(context.Background(), reflect.TypeFor[northwind.Employee]())
	require.NoError(t, err)

	assert.Len(t, paths, 12)
	assert.Contains(t, paths, "ReportsTo")

	orders, err := r.AllPaths(context.Background(), reflect.TypeFor[northwind.Order]())
	require.NoError(t, err)
	assert.Contains(t, orders, "Employee.ReportsTo")
	assert.Contains(t, orders, "Customer.Orders")
	assert.NotContains(t, orders, "Employee.ReportsTo.LastName")
}

func TestAllPathsIncludesProperties(t *testing.T) {
	t.Parallel()

	r := newReflector(t)

	paths, err := r.AllPaths(context.Background(), reflect.TypeFor[blog.Author]())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Name",
		"UserName",
		"Email",
		"Address.Street",
		"Address.City",
		"Address.State",
		"Address.Zip",
		"Nickname",
	}, paths)
}

func TestAllPathsMemoized(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	r := newReflector(t, reflector.WithTracerProvider(tp))

	first, err := r.AllPaths(context.Background(), reflect.TypeFor[foo.Foo]())
	require.NoError(t, err)
	first[0] = "changed"

	second, err := r.AllPaths(context.Background(), reflect.TypeFor[*foo.Foo]())
	require.NoError(t, err)
	assert.Equal(t, "LastName", second[0])

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "reflector.AllPaths", spans[0].Name())
}

func TestAllPathsAfterClose(t *testing.T) {
	t.Parallel()

	r, err := reflector.New()
	require.NoError(t, err)
	require.NoError(t, r.Close())

	_, err = r.AllPaths(context.Background(), reflect.TypeFor[foo.Foo]())
	require.ErrorIs(t, err, cache.ErrClosed)
}

func TestNewRejectsInvalidCache(t *testing.T) {
	t.Parallel()

	_, err := reflector.New(reflector.WithCache(0, time.Second))
	require.ErrorIs(t, err, cache.ErrInvalidDuration)
}

func TestFacade(t *testing.T) {
	t.Parallel()

	r := newReflector(t, reflector.WithCollectionSuffix("[]"))
	blogType := reflect.TypeFor[blog.Blog]()

	d, ok := r.Resolve(blogType, "posts.comments.member.name")
	require.True(t, ok)
	assert.Equal(t, "Name", d.Name)
	assert.True(t, r.IsValidPath(blogType, "Admin.Address.Zip"))
	assert.False(t, r.IsValidPath(blogType, "Admin.Adress"))

	fixed, ok := r.FixPathCase(blogType, "posts.author.username")
	require.True(t, ok)
	assert.Equal(t, "Posts.Author.UserName", fixed)

	fn := expr.Fn[blog.Blog]("b", func(b *expr.Parameter) expr.Node {
		return expr.Select(expr.Prop(b, "Posts"), expr.Fn[*blog.Post]("p", func(p *expr.Parameter) expr.Node {
			return expr.Prop(p, "Title")
		}))
	})

	path, err := r.Path(fn)
	require.NoError(t, err)
	assert.Equal(t, "Posts[].Title", path)

	built, err := r.Build(blogType, nil, "Admin.Email")
	require.NoError(t, err)
	assert.Equal(t, "blog => blog.Admin.Email", built.String())

	paths, err := r.Paths(built)
	require.NoError(t, err)
	assert.Equal(t, []string{"Admin.Email"}, paths)

	b := &blog.Blog{}
	ok, err = r.Set(b, "Admin.Email", "ann@example.com")
	require.NoError(t, err)
	require.True(t, ok)

	v, err := r.Get(b, "admin.email")
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", v)

	ok, err = r.Hydrate(b, "Admin.Address")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotNil(t, b.Admin.Address)
}

func TestHydrateWith(t *testing.T) {
	t.Parallel()

	r := newReflector(t)

	person, err := reflector.HydrateWith[Person](context.Background(), r)
	require.NoError(t, err)

	require.NotNil(t, person.MyClassProp)
	assert.NotNil(t, person.MyClassProp.Bee)
	require.NotNil(t, person.MyClassProp.Stub)
	assert.NotNil(t, person.MyClassProp.Stub.Bee)
	assert.NotNil(t, person.MyClassProp.Stub.Bees)
	assert.Empty(t, person.MyClassProp.Stub.Bees)
}

func TestHydrateWithKeepsNullableScalars(t *testing.T) {
	t.Parallel()

	r := newReflector(t)

	product, err := reflector.HydrateWith[Product](context.Background(), r)
	require.NoError(t, err)

	assert.Nil(t, product.ProductPrice)
	require.NotNil(t, product.Category)
	assert.NotNil(t, product.Category.Details)
}

func TestHydrateWithUnreachablePath(t *testing.T) {
	t.Parallel()

	factory := access.NewFactory()
	factory.Register(reflect.TypeFor[*Box](), func() any { return "not a box" })

	r := newReflector(t, reflector.WithAccessorOptions(access.WithFactory(factory)))

	shelf, err := reflector.HydrateWith[Shelf](context.Background(), r)
	require.ErrorIs(t, err, reflector.ErrUnreachable)
	assert.ErrorContains(t, err, "Box.Label")
	assert.Nil(t, shelf)
}
