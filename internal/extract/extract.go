package extract

import (
	"fmt"
	"regexp"
	"sort"

	"fortio.org/safecast"

	"bindoc/internal/diag"
	"bindoc/internal/directive"
	"bindoc/internal/source"
)

// Options configures extraction.
type Options struct {
	// Registration matches calls that expose a class to the scripting
	// runtime. nil disables register blocks.
	Registration *regexp.Regexp
}

// Result is the extraction output of one file.
type Result struct {
	Path          string
	File          source.FileID
	Blocks        []directive.Block
	Comments      int
	Bodies        int
	Registrations int
}

type spanMaker func(start, end int) source.Span

// File extracts the directive blocks of f. Problems with the comment text
// itself are reported to rep; extraction never fails.
func File(f *source.File, opts Options, rep diag.Reporter) Result {
	if rep == nil {
		rep = diag.NopReporter{}
	}
	mk := func(start, end int) source.Span {
		s, err := safecast.Conv[uint32](start)
		if err != nil {
			panic(fmt.Errorf("span start overflow: %w", err))
		}
		e, err := safecast.Conv[uint32](end)
		if err != nil {
			panic(fmt.Errorf("span end overflow: %w", err))
		}
		return source.Span{File: f.ID, Start: s, End: e}
	}

	sc := scan(f.Content)
	res := Result{Path: f.Path, File: f.ID, Comments: len(sc.comments)}

	for i := range sc.comments {
		c := &sc.comments[i]
		if !c.closed {
			diag.ReportWarning(rep, diag.AnnoUnterminatedComment, mk(c.start, c.start+3),
				"documentation comment is not closed before end of file").Emit()
		}
		dirs := parseDirectives(c, mk)
		if len(dirs) == 0 {
			continue
		}
		block := directive.Block{
			File:       f.ID,
			Path:       f.Path,
			Span:       mk(c.start, c.end),
			Directives: dirs,
		}
		if block.Has(directive.CmdMethod) || block.Has(directive.CmdOverload) {
			limit := len(sc.code)
			if i+1 < len(sc.comments) {
				limit = sc.comments[i+1].start
			}
			if s, e, ok := locateBody(sc.code, c.end, limit); ok {
				block.Body = &directive.BodyEvent{Span: mk(s, e), Text: string(f.Content[s:e])}
				res.Bodies++
			}
		}
		res.Blocks = append(res.Blocks, block)
	}

	for _, r := range findRegistrations(sc.code, opts.Registration) {
		sp := mk(r.start, r.end)
		res.Blocks = append(res.Blocks, directive.Block{
			File: f.ID,
			Path: f.Path,
			Span: sp,
			Directives: []directive.Directive{
				{Command: directive.CmdRegister, Tokens: []string{r.name}, Span: sp},
			},
		})
		res.Registrations++
	}

	sort.SliceStable(res.Blocks, func(i, j int) bool {
		return res.Blocks[i].Span.Start < res.Blocks[j].Span.Start
	})
	return res
}
