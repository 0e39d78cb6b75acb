package testkit

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"bindoc/internal/directive"
	"bindoc/internal/signature"
	"bindoc/internal/source"
)

// CheckBlockSpans runs a minimal set of span invariants on extracted blocks:
// 1) every block, directive and body span points at sf and lies within its content
// 2) every directive span is contained in its block span
// 3) bodies start after their block and blocks are ordered by start offset
func CheckBlockSpans(blocks []directive.Block, sf *source.File) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	size, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	inFile := func(what string, sp source.Span) error {
		if sp.File != sf.ID {
			return fmt.Errorf("%s span points to different file id: got=%d want=%d", what, sp.File, sf.ID)
		}
		if sp.Start > sp.End || sp.End > size {
			return fmt.Errorf("%s span %v outside content of %d bytes", what, sp, size)
		}
		return nil
	}

	var prev uint32
	for i := range blocks {
		b := &blocks[i]
		if err := inFile(fmt.Sprintf("block %d", i), b.Span); err != nil {
			return err
		}
		if b.Span.Start < prev {
			return fmt.Errorf("block %d starts at %d before previous block at %d", i, b.Span.Start, prev)
		}
		prev = b.Span.Start
		for j, d := range b.Directives {
			what := fmt.Sprintf("block %d directive %d (@%s)", i, j, d.Command)
			if err := inFile(what, d.Span); err != nil {
				return err
			}
			if d.Span.Start < b.Span.Start || d.Span.End > b.Span.End {
				return fmt.Errorf("%s span %v escapes block span %v", what, d.Span, b.Span)
			}
		}
		if b.Body != nil {
			if err := inFile(fmt.Sprintf("block %d body", i), b.Body.Span); err != nil {
				return err
			}
			if b.Body.Span.Start < b.Span.End {
				return fmt.Errorf("block %d body %v starts inside its comment %v", i, b.Body.Span, b.Span)
			}
		}
	}
	return nil
}

// CheckCoverage verifies that the compacted node accepts every overload it
// was built from and that each pattern it accepts uses only known parameters.
func CheckCoverage(overloads [][]signature.Param, node signature.Node) error {
	accepted := make(map[string]bool)
	known := make(map[signature.Param]bool)
	for _, ov := range overloads {
		for _, p := range ov {
			known[p] = true
		}
	}
	for _, pattern := range signature.Flatten(node) {
		for _, p := range pattern {
			if !known[p] {
				return fmt.Errorf("pattern uses unknown parameter %q", p.String())
			}
		}
		accepted[key(pattern)] = true
	}
	for i, ov := range overloads {
		if !accepted[key(ov)] {
			return fmt.Errorf("overload %d (%s) is not accepted by the compacted form", i, key(ov))
		}
	}
	return nil
}

func key(ps []signature.Param) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = p.String()
	}
	return strings.Join(parts, ", ")
}
