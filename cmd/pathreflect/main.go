// Command pathreflect inspects and edits Go values through property paths.
//
//	pathreflect types
//	pathreflect paths northwind.Product
//	pathreflect resolve blog.Blog posts.comments.member.name
//	pathreflect check blog.Blog Admin.Name Admin.Adress
//	pathreflect expr northwind.Employee Orders.OrderID --suffix '[]'
//	pathreflect get blog.Blog Admin.Email --file blog.yaml
//	pathreflect set blog.Blog Admin.Address.City Oslo --file blog.yaml
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
