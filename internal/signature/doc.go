// Package signature compacts the overloads of a method into a short
// notation built from sequences, choices and optional groups.
//
// Compact infers one parameter order for all overloads, encodes each
// overload as a presence vector over that order and recursively factors
// the vectors: constant positions become plain leaves, independent ranges
// are compacted on their own, an empty alternative becomes an Option, and
// whatever is left is split into a Choice by exhaustive partition search.
// Flattening the result always yields exactly the input overload set.
//
// Render produces the canonical text form consumed by every exporter:
//
//	(Vector self, [number scale])
//	(number x, number y | Vector v)
package signature
