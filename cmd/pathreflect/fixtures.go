package main

import (
	"reflect"

	"pathreflect/examples/blog"
	"pathreflect/examples/foo"
	"pathreflect/examples/northwind"
	"pathreflect/registry"
)

// knownTypes is every type the command can name.
func knownTypes() (*registry.Registry, error) {
	r := registry.New()

	err := r.Register(
		reflect.TypeFor[blog.Blog](),
		reflect.TypeFor[blog.Author](),
		reflect.TypeFor[blog.Address](),
		reflect.TypeFor[blog.Post](),
		reflect.TypeFor[blog.Comment](),
		reflect.TypeFor[foo.Foo](),
		reflect.TypeFor[foo.Bar](),
		reflect.TypeFor[foo.Bee](),
		reflect.TypeFor[northwind.Employee](),
		reflect.TypeFor[northwind.Order](),
		reflect.TypeFor[northwind.Customer](),
		reflect.TypeFor[northwind.OrderDetail](),
		reflect.TypeFor[northwind.Product](),
		reflect.TypeFor[northwind.Supplier](),
		reflect.TypeFor[northwind.Category](),
	)
	if err != nil {
		return nil, err
	}

	return r, nil
}
