// Package reflector puts member resolution, path extraction, accessor
// building and value access behind one object, and enumerates every leaf
// path of a type.
//
// A Reflector owns a cache for enumerated paths; close it when done. The
// package-level Default instance is created on first use and replaced or
// released with Init and Shutdown.
package reflector
