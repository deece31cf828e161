package member_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathreflect/examples/blog"
	"pathreflect/member"
)

type gauge struct {
	level int
}

func (g gauge) Level() int { return g.level }

func (g *gauge) SetLevel(level int) error {
	if level < 0 {
		return errors.New("negative level")
	}

	g.level = level

	return nil
}

type panel struct {
	*gauge

	Label string
}

func TestDescriptorField(t *testing.T) {
	t.Parallel()

	d, ok := member.Lookup(reflect.TypeFor[blog.Author](), "Email")
	require.True(t, ok)

	a := &blog.Author{Email: "a@b.c"}
	v, err := d.Get(reflect.ValueOf(a).Elem())
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", v.Interface())

	require.NoError(t, d.Set(reflect.ValueOf(a).Elem(), reflect.ValueOf("x@y.z")))
	assert.Equal(t, "x@y.z", a.Email)

	err = d.Set(reflect.ValueOf(*a), reflect.ValueOf("no"))
	assert.ErrorIs(t, err, member.ErrInaccessible, "a copy is not settable")
}

func TestDescriptorProperty(t *testing.T) {
	t.Parallel()

	d, ok := member.Lookup(reflect.TypeFor[gauge](), "level")
	require.True(t, ok)
	assert.Equal(t, member.KindProperty, d.Kind)
	assert.Equal(t, "Level", d.Getter)
	assert.Equal(t, "SetLevel", d.Setter)

	g := &gauge{level: 3}
	container := reflect.ValueOf(g).Elem()

	v, err := d.Get(container)
	require.NoError(t, err)
	assert.Equal(t, 3, v.Interface())

	require.NoError(t, d.Set(container, reflect.ValueOf(7)))
	assert.Equal(t, 7, g.level)

	require.EqualError(t, d.Set(container, reflect.ValueOf(-1)), "negative level")

	v, err = d.Get(reflect.ValueOf(gauge{level: 9}))
	require.NoError(t, err)
	assert.Equal(t, 9, v.Interface(), "getters work on copies")

	err = d.Set(reflect.ValueOf(gauge{}), reflect.ValueOf(1))
	assert.ErrorIs(t, err, member.ErrInaccessible)
}

func TestDescriptorPromotedThroughNilPointer(t *testing.T) {
	t.Parallel()

	d, ok := member.Lookup(reflect.TypeFor[panel](), "level")
	require.True(t, ok, "promoted field through the embedded pointer")
	assert.Equal(t, member.KindProperty, d.Kind)

	f, ok := member.Lookup(reflect.TypeFor[panel](), "Label")
	require.True(t, ok)

	p := &panel{}
	v, err := f.Get(reflect.ValueOf(p).Elem())
	require.NoError(t, err)
	assert.Empty(t, v.Interface())

	nested, ok := member.Lookup(reflect.TypeFor[panel](), "gauge")
	require.True(t, ok)
	assert.False(t, nested.Exported)
}

func TestDescriptorReadOnly(t *testing.T) {
	t.Parallel()

	d, ok := member.Lookup(reflect.TypeFor[shadow](), "NAME")
	require.True(t, ok)

	err := d.Set(reflect.ValueOf(&shadow{}).Elem(), reflect.ValueOf("x"))
	assert.ErrorIs(t, err, member.ErrReadOnly)
	assert.Equal(t, "property", member.KindProperty.String())
	assert.Equal(t, "Kind(9)", member.Kind(9).String())
}
