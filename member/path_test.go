package member_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathreflect/examples/blog"
	"pathreflect/member"
)

func TestParsePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path   string
		suffix string
		want   []member.Segment
	}{
		{"Name", "", []member.Segment{{Name: "Name"}}},
		{"Admin.Address.State", "", []member.Segment{{Name: "Admin"}, {Name: "Address"}, {Name: "State"}}},
		{"Posts[]", "", []member.Segment{{Name: "Posts", IsSlice: true}}},
		{
			"Posts[].Comments[].Member", "",
			[]member.Segment{{Name: "Posts", IsSlice: true}, {Name: "Comments", IsSlice: true}, {Name: "Member"}},
		},
		{"Posts*.Title", "*", []member.Segment{{Name: "Posts", IsSlice: true}, {Name: "Title"}}},
		{"Größe", "", []member.Segment{{Name: "Größe"}}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			p, err := member.ParsePath(tt.path, tt.suffix)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Segments)
			assert.Equal(t, len(tt.want), p.Len())

			suffix := tt.suffix
			if suffix == "" {
				suffix = member.DefaultCollectionSuffix
			}

			assert.Equal(t, tt.path, p.Format(suffix))
		})
	}
}

func TestParsePathErrors(t *testing.T) {
	t.Parallel()

	for _, path := range []string{"", ".", "A..B", "A.", "[]", "A.[]", "1st", "A-B", "A[]x"} {
		_, err := member.ParsePath(path, "")
		assert.ErrorIs(t, err, member.ErrInvalidPath, "path %q", path)
	}

	assert.Panics(t, func() { member.MustParsePath("A..B") })
}

func TestPathFormatting(t *testing.T) {
	t.Parallel()

	p := member.MustParsePath("Posts[].Comments[].Member")

	assert.Equal(t, "Posts.Comments.Member", p.Dotted())
	assert.Equal(t, []string{"Posts", "Comments", "Member"}, p.Names())
	assert.Equal(t, "Posts[].Comments[].Member", p.String())
	assert.Equal(t, "Posts/.Comments/.Member", p.Format("/"))
}

func TestMark(t *testing.T) {
	t.Parallel()

	p, err := member.Mark(reflect.TypeFor[blog.Blog](), "posts.comments.member.name")
	require.NoError(t, err)
	assert.Equal(t, "Posts[].Comments[].Member.Name", p.String())

	p, err = member.Mark(reflect.TypeFor[blog.Blog](), "Tags")
	require.NoError(t, err)
	assert.Equal(t, "Tags[]", p.String())

	_, err = member.Mark(reflect.TypeFor[blog.Blog](), "Posts.Nope")
	assert.ErrorIs(t, err, member.ErrMemberNotFound)
}
