package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// printer remembers the first write error so writers can print freely.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) line(s string) {
	p.printf("%s\n", s)
}

// table renders rows with columns padded to their display width, so that
// CJK and other wide text in descriptions stays aligned.
type table struct {
	header []string
	rows   [][]string
}

func (t *table) add(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) widths() []int {
	w := make([]int, len(t.header))
	for i, h := range t.header {
		w[i] = runewidth.StringWidth(h)
	}
	for _, r := range t.rows {
		for i := range w {
			if i < len(r) {
				w[i] = max(w[i], runewidth.StringWidth(r[i]))
			}
		}
	}
	return w
}

// markdown prints a pipe table.
func (t *table) markdown(p *printer) {
	if len(t.rows) == 0 {
		return
	}
	w := t.widths()
	row := func(cells []string) {
		var b strings.Builder
		b.WriteString("|")
		for i := range w {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			b.WriteString(" ")
			b.WriteString(runewidth.FillRight(cell, w[i]))
			b.WriteString(" |")
		}
		p.line(b.String())
	}
	row(t.header)
	var sep strings.Builder
	sep.WriteString("|")
	for i := range w {
		sep.WriteString(strings.Repeat("-", w[i]+2))
		sep.WriteString("|")
	}
	p.line(sep.String())
	for _, r := range t.rows {
		row(r)
	}
	p.line("")
}

// wiki prints a MediaWiki table.
func (t *table) wiki(p *printer) {
	if len(t.rows) == 0 {
		return
	}
	p.line(`{| class="wikitable"`)
	p.line("! " + strings.Join(t.header, " !! "))
	for _, r := range t.rows {
		p.line("|-")
		p.line("| " + strings.Join(r, " || "))
	}
	p.line("|}")
	p.line("")
}

// oneLine folds a multi-line description for table cells.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
