package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer

	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestTypes(t *testing.T) {
	out, err := run(t, "types")
	require.NoError(t, err)

	assert.Contains(t, out, "northwind.Product")
	assert.Contains(t, out, " 27 paths  pathreflect/examples/northwind.Product")
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 15)
}

func TestPaths(t *testing.T) {
	out, err := run(t, "paths", "Product")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 27)
	assert.Equal(t, "ProductID", lines[0])
	assert.Contains(t, lines, "Supplier.Fax")

	_, err = run(t, "paths", "Prodcut")
	require.Error(t, err)
	assert.ErrorContains(t, err, "did you mean Product")
}

func TestResolve(t *testing.T) {
	out, err := run(t, "resolve", "blog.Blog", "posts.comments.member.name")
	require.NoError(t, err)

	assert.Contains(t, out, "blog.Post.Comments")
	assert.Contains(t, out, "path: Posts.Comments.Member.Name\n")

	_, err = run(t, "resolve", "blog.Author", "Adress.City")
	require.Error(t, err)
	assert.ErrorContains(t, err, "did you mean Address")
}

func TestCheck(t *testing.T) {
	out, err := run(t, "check", "blog.Author", "name", "Nickname", "Adress")
	require.Error(t, err)
	assert.EqualError(t, err, "1 invalid path(s)")

	assert.Contains(t, out, "ok Name\n")
	assert.Contains(t, out, "ok Nickname\n")
	assert.Contains(t, out, "error [blog.Author] Adress: [member-not-found]")

	out, err = run(t, "check", "blog.Author", "nickname")
	require.NoError(t, err)
	assert.Equal(t, "ok Nickname\n", out)
}

func TestExpr(t *testing.T) {
	out, err := run(t, "expr", "northwind.Employee", "orders.orderid", "--suffix", "[]")
	require.NoError(t, err)

	assert.Equal(t, "employee => employee.Orders.Select(order => order.OrderID)\npath: Orders[].OrderID\n", out)
}

func TestExprWithConfig(t *testing.T) {
	cfg := writeFile(t, "pathreflect.yaml", "collection_suffix: \"[]\"\nlog_level: warn\n")

	out, err := run(t, "--config", cfg, "expr", "blog.Blog", "Posts.Comments.Likes")
	require.NoError(t, err)
	assert.Contains(t, out, "path: Posts[].Comments[].Likes\n")

	_, err = run(t, "--config", cfg, "--log-level", "loud", "types")
	require.Error(t, err)
	assert.ErrorContains(t, err, "invalid config")
}

func TestGet(t *testing.T) {
	doc := writeFile(t, "blog.yaml", `
name: Notes
admin:
  name: Ann
  email: ann@example.com
  address:
    city: Oslo
`)

	out, err := run(t, "get", "blog.Blog", "admin.email", "--file", doc)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com\n", out)

	out, err = run(t, "get", "blog.Blog", "Admin.Address", "-f", doc)
	require.NoError(t, err)
	assert.Contains(t, out, "city: Oslo\n")

	out, err = run(t, "get", "blog.Blog", "Admin.Address.Zip")
	require.NoError(t, err)
	assert.Equal(t, "<nil>\n", out)

	out, err = run(t, "get", "blog.Blog", "Admin.Name", "--file", doc, "--dump")
	require.NoError(t, err)
	assert.Equal(t, "(string) (len=3) \"Ann\"\n", out)
}

func TestSet(t *testing.T) {
	out, err := run(t, "set", "blog.Blog", "Admin.Address.City", "Oslo")
	require.NoError(t, err)
	assert.Contains(t, out, "city: Oslo\n")

	out, err = run(t, "set", "blog.Post", "Status", "published")
	require.NoError(t, err)
	assert.Contains(t, out, "status: 2\n")

	out, err = run(t, "set", "northwind.Product", "UnitsInStock", "12", "-q")
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = run(t, "set", "northwind.Product", "UnitsInStock", "many")
	require.Error(t, err)
	assert.EqualError(t, err, `cannot set UnitsInStock to "many"`)

	_, err = run(t, "set", "blog.Blog", "Admin.Name", "Ann", "--skip-nil")
	require.Error(t, err)
}
