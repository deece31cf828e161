package registry_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathreflect/examples/blog"
	"pathreflect/examples/northwind"
	"pathreflect/registry"
)

type Product struct {
	Name string
}

func newRegistry(t *testing.T) *registry.Registry {
	t.Helper()

	r := registry.New()
	require.NoError(t, r.Register(
		reflect.TypeFor[blog.Blog](),
		reflect.TypeFor[*northwind.Product](),
		reflect.TypeFor[northwind.Category](),
	))
	require.NoError(t, registry.RegisterType[Product](r))

	return r
}

func TestLookup(t *testing.T) {
	t.Parallel()

	r := newRegistry(t)

	tests := []struct {
		id   string
		want reflect.Type
	}{
		{"pathreflect/examples/blog.Blog", reflect.TypeFor[blog.Blog]()},
		{"blog.Blog", reflect.TypeFor[blog.Blog]()},
		{"Blog", reflect.TypeFor[blog.Blog]()},
		{"examples/northwind.Product", reflect.TypeFor[northwind.Product]()},
		{"northwind.Product", reflect.TypeFor[northwind.Product]()},
		{" Category ", reflect.TypeFor[northwind.Category]()},
		{"registry_test.Product", reflect.TypeFor[Product]()},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			t.Parallel()

			got, err := r.Lookup(tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLookupErrors(t *testing.T) {
	t.Parallel()

	r := newRegistry(t)

	_, err := r.Lookup("Product")
	require.ErrorIs(t, err, registry.ErrAmbiguous)
	assert.ErrorContains(t, err, "pathreflect/examples/northwind.Product, pathreflect/registry_test.Product")

	_, err = r.Lookup("blog.Blogg")
	require.ErrorIs(t, err, registry.ErrTypeNotFound)
	assert.ErrorContains(t, err, "did you mean Blog?")

	_, err = r.Lookup("store.Blog")
	require.ErrorIs(t, err, registry.ErrTypeNotFound)

	for _, id := range []string{"", ".Blog", "blog."} {
		_, err = r.Lookup(id)
		require.ErrorIs(t, err, registry.ErrTypeNotFound, "id %q", id)
	}
}

func TestRegister(t *testing.T) {
	t.Parallel()

	r := newRegistry(t)
	assert.Equal(t, 4, r.Count())

	require.NoError(t, registry.RegisterType[blog.Blog](r))
	assert.Equal(t, 4, r.Count())

	err := r.Register(reflect.TypeFor[[]string]())
	require.ErrorIs(t, err, registry.ErrUnnamed)

	entries := r.Entries()
	require.Len(t, entries, 4)
	assert.Equal(t, "pathreflect/examples/blog.Blog", entries[0].ID.String())
	assert.Equal(t, "blog.Blog", entries[0].ID.Short())
	assert.Equal(t, "northwind.Category", entries[1].ID.Short())
	assert.Equal(t, "registry_test.Product", entries[3].ID.Short())

	r.Reset()
	assert.Zero(t, r.Count())
	assert.Empty(t, r.Entries())
}

func TestIDOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, registry.ID{PkgPath: "pathreflect/examples/blog", Name: "Post"}, registry.IDOf(reflect.TypeFor[**blog.Post]()))
	assert.Equal(t, "int", registry.IDOf(reflect.TypeFor[int]()).String())
	assert.Equal(t, registry.ID{}, registry.IDOf(nil))
}
