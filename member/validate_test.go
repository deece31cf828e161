package member_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathreflect/examples/blog"
	"pathreflect/member"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	diags := member.Validate(reflect.TypeFor[blog.Blog](),
		"Name",
		"Admin.Adress.City",
		"Posts..Title",
		"Admin.nickname",
	)

	require.Len(t, diags.Errors, 2)
	assert.Equal(t, member.CodeMemberNotFound, diags.Errors[0].Code)
	assert.Equal(t, "Admin.Adress.City", diags.Errors[0].Path)
	assert.Equal(t, "blog.Blog", diags.Errors[0].TypeName)
	assert.Contains(t, diags.Errors[0].Suggestions, "Address")
	assert.Equal(t, member.CodeInvalidPath, diags.Errors[1].Code)

	assert.Empty(t, diags.Warnings, "Admin.nickname resolves to the read-write Nickname property")
	assert.False(t, diags.IsValid())
	assert.Error(t, diags.Error())

	diags = member.Validate(reflect.TypeFor[shadow](), "NAME", "name")
	assert.True(t, diags.IsValid())
	require.Len(t, diags.Warnings, 2)
	assert.Equal(t, member.CodeReadOnly, diags.Warnings[0].Code)
}
