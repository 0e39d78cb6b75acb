// Package diag defines the diagnostic model shared by all pipeline phases.
//
// # Purpose
//
//   - Provide deterministic data structures that capture findings produced
//     by extraction, model assembly and signature compaction.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to storage or formatting.
//
// Package diag does not format for humans; rendering lives in
// internal/diagfmt.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning, Error.
//   - Code – numeric identifier with a stable string form (ANN/TYP/SIG/IO/PRJ/OBS).
//   - Message – short, actionable text.
//   - Primary – the source.Span the finding is about.
//   - Notes – secondary spans, e.g. further references to an unresolved type.
//   - Fixes – suggested edits, e.g. the closest known type name.
//
// # Emitting diagnostics
//
// Phases receive a Reporter. Use ReportError/ReportWarning/ReportInfo to
// build a record, chain WithNote/WithFix and call Emit. BagReporter
// collects into a Bag; Bag is mutex-guarded, so workers may share it.
//
// Non-fatal problems never cross component boundaries as Go errors: they
// are reported here and the pipeline continues.
package diag
