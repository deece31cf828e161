// Package member resolves property paths such as "Orders.Customer.City"
// against Go types.
//
// A member is either a struct field or a property. A property is an exported
// method with no arguments and one result (the getter), optionally paired with
// an exported Set<Name> method taking one argument (the setter). Lookups are
// case-insensitive: properties are preferred over fields and an exact-case
// match is preferred over a folded one.
//
// When an intermediate segment is a slice, array or map, resolution continues
// on its element type, so "Orders.OrderID" is valid on a type whose Orders
// member is []Order.
package member
