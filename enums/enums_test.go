package enums_test

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathreflect/convert"
	"pathreflect/enums"
)

type season int

const (
	winter season = iota
	spring
	summer
	autumn
)

func init() {
	enums.Register(
		enums.Pair[season]{Value: winter, Text: "Winter"},
		enums.Pair[season]{Value: spring, Text: "Spring"},
		enums.Pair[season]{Value: summer, Text: "Summer"},
		enums.Pair[season]{Value: autumn, Text: "Fall"},
		enums.Pair[season]{Value: autumn, Text: "Autumn"},
	)
}

func ExampleParse() {
	s, ok := enums.Parse[season]("fall", true)
	fmt.Println(s, ok)

	text, _ := enums.StringValue(s)
	fmt.Println(text)
	// Output:
	// 3 true
	// Fall
}

func TestStringValues(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"Winter", "Spring", "Summer", "Fall", "Autumn"}, enums.StringValues[season]())
	assert.Len(t, enums.ListValues[season](), 5)

	_, ok := enums.StringValue(season(42))
	assert.False(t, ok)

	_, ok = enums.Parse[season]("summer", false)
	assert.False(t, ok)

	s, ok := enums.Parse[season]("Autumn", false)
	require.True(t, ok)
	assert.Equal(t, autumn, s)

	assert.True(t, enums.IsStringDefined[season]("SPRING", true))
	assert.False(t, enums.IsStringDefined[season]("Monsoon", true))

	type unregistered int
	assert.Nil(t, enums.StringValues[unregistered]())
	assert.False(t, enums.IsStringDefined[unregistered]("x", true))
}

func TestConverter(t *testing.T) {
	t.Parallel()

	c := enums.Converter[season]()
	assert.True(t, c.CanConvertFrom(reflect.TypeFor[string]()))

	v, err := c.ConvertFrom("winter")
	require.NoError(t, err)
	assert.Equal(t, winter, v)

	_, err = c.ConvertFrom("monsoon")
	assert.ErrorIs(t, err, convert.ErrFormat)
}
