package diag

import (
	"bindoc/internal/source"
)

// Note adds secondary context to a diagnostic.
type Note struct {
	Span source.Span
	Msg  string
}

// FixEdit replaces the text under Span with NewText.
type FixEdit struct {
	Span    source.Span
	NewText string
	OldText string
}

// Fix is a suggested correction, e.g. the best fuzzy match for an
// unresolved type name.
type Fix struct {
	Title string
	Edits []FixEdit
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Fixes    []Fix
}
