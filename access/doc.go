// Package access reads and writes values by property path on live object graphs.
//
//	b := &blog.Blog{}
//	ok, err := access.Set(b, "Admin.Address.City", "Oslo") // creates Admin and Address
//	city, err := access.Get(b, "admin.address.city")       // "Oslo"
//
// Path segments are matched case-insensitively against the runtime type of each
// value, properties first. A nil intermediate ends a Get with a nil result; Set
// and Hydrate allocate it instead, writing the new value back into its container.
package access
