// Package convert holds the converters used when a value of one type is
// written into a member of another type.
//
// A converter is looked up by name, when the member carries a `convert:"name"`
// struct tag, or by target type. Types whose pointer implements
// encoding.TextUnmarshaler get a text converter without registration.
package convert
