package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"bindoc/internal/diag"
	"bindoc/internal/source"
)

type palette struct {
	sev   map[diag.Severity]*color.Color
	path  *color.Color
	caret *color.Color
	note  *color.Color
	fix   *color.Color
	gut   *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		sev: map[diag.Severity]*color.Color{
			diag.SevError:   color.New(color.FgRed, color.Bold),
			diag.SevWarning: color.New(color.FgYellow, color.Bold),
			diag.SevInfo:    color.New(color.FgCyan, color.Bold),
		},
		path:  color.New(color.Bold),
		caret: color.New(color.FgGreen, color.Bold),
		note:  color.New(color.FgBlue),
		fix:   color.New(color.FgGreen),
		gut:   color.New(color.FgBlue),
	}
	all := []*color.Color{p.path, p.caret, p.note, p.fix, p.gut}
	for _, c := range p.sev {
		all = append(all, c)
	}
	for _, c := range all {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes и Fixes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	for _, d := range bag.Items() {
		prettyOne(w, &d, fs, opts, pal)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	sev := pal.sev[d.Severity]
	if sev == nil {
		sev = pal.sev[diag.SevInfo]
	}
	head := sev.Sprintf("%s %s", d.Severity, d.Code.ID()) + ": " + d.Message

	f := fs.Get(d.Primary.File)
	if f == nil {
		fmt.Fprintln(w, head)
	} else {
		start, _ := fs.Resolve(d.Primary)
		loc := fmt.Sprintf("%s:%d:%d", formatPath(f, fs, opts.PathMode), start.Line, start.Col)
		fmt.Fprintf(w, "%s: %s\n", pal.path.Sprint(loc), head)
		snippet(w, f, fs, d.Primary, opts, pal)
	}

	if opts.ShowNotes {
		for _, n := range d.Notes {
			nf := fs.Get(n.Span.File)
			if nf == nil || n.Span == (source.Span{}) {
				fmt.Fprintf(w, "  %s %s\n", pal.note.Sprint("note:"), n.Msg)
				continue
			}
			start, _ := fs.Resolve(n.Span)
			fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", pal.note.Sprint("note:"),
				formatPath(nf, fs, opts.PathMode), start.Line, start.Col, n.Msg)
		}
	}
	if opts.ShowFixes {
		for i, fx := range d.Fixes {
			fmt.Fprintf(w, "  %s %s\n", pal.fix.Sprintf("fix #%d:", i+1), fx.Title)
			for _, e := range fx.Edits {
				start, _ := fs.Resolve(e.Span)
				fmt.Fprintf(w, "    %d:%d apply=%q\n", start.Line, start.Col, e.NewText)
			}
		}
	}
}

// snippet prints the context lines and the primary line with a caret
// underline. Columns are measured in display cells.
func snippet(w io.Writer, f *source.File, fs *source.FileSet, sp source.Span, opts PrettyOpts, pal palette) {
	start, end := fs.Resolve(sp)
	if start.Line == 0 {
		return
	}
	first := start.Line
	if ctx := uint32(max(opts.Context, 0)); ctx < first {
		first = start.Line - ctx
	} else {
		first = 1
	}
	gutter := len(fmt.Sprint(start.Line))

	for ln := first; ln <= start.Line; ln++ {
		text := clip(expandTabs(f.GetLine(ln)), opts.Width)
		fmt.Fprintf(w, " %s %s\n", pal.gut.Sprintf("%*d |", gutter, ln), text)
	}

	line := f.GetLine(start.Line)
	col := int(start.Col) - 1
	col = min(max(col, 0), len(line))
	stop := len(line)
	if end.Line == start.Line {
		stop = min(max(int(end.Col)-1, col), len(line))
	}
	pad := runewidth.StringWidth(expandTabs(line[:col]))
	width := max(runewidth.StringWidth(expandTabs(line[col:stop])), 1)
	if opts.Width > 0 && pad+width > int(opts.Width) {
		width = max(int(opts.Width)-pad, 1)
	}
	mark := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, " %s %s%s\n", pal.gut.Sprintf("%*s |", gutter, ""), strings.Repeat(" ", pad), pal.caret.Sprint(mark))
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}

func clip(s string, width uint8) string {
	if width == 0 || runewidth.StringWidth(s) <= int(width) {
		return s
	}
	return runewidth.Truncate(s, int(width), "…")
}
