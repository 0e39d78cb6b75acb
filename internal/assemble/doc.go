// Package assemble builds the type graph from directive blocks.
//
// Blocks are fed one at a time with Block; Finish applies the deferred
// overload extensions and runs the post passes: root normalization,
// undocumented type, cycle and registration diagnostics, trailing optional
// expansion, signature compaction and the method body check. Every rule
// violation becomes a diagnostic and assembly always continues.
package assemble
