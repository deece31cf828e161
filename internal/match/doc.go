// Package match ranks member names by similarity so that unknown path
// segments can be reported together with the closest declared names.
package match
