// Package extract turns C-like source text into directive blocks.
//
// It recognizes `/** ... */` blocks and runs of `///` lines, splits them into
// `@command token...` directives, locates the brace-delimited body that
// follows a method block and synthesizes `register` blocks from calls that
// match a configured registration pattern. It does no C++ parsing beyond
// skipping comments, string and character literals.
package extract
