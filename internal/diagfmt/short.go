package diagfmt

import (
	"io"

	"bindoc/internal/diag"
	"bindoc/internal/source"
)

// Short prints one line per diagnostic in the golden format:
// "<severity> <CODE> <path>:<line>:<col> <message>".
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, includeNotes bool) error {
	out := diag.FormatShortDiagnostics(bag.Items(), fs, includeNotes)
	if out == "" {
		return nil
	}
	_, err := io.WriteString(w, out+"\n")
	return err
}
