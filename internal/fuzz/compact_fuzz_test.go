package fuzztests

import (
	"strings"
	"testing"

	"bindoc/internal/signature"
	"bindoc/internal/testkit"
)

// Разбиение экспоненциально, держим входы маленькими.
const (
	maxOverloads = 6
	maxParams    = 6
)

func FuzzCompact(f *testing.F) {
	for _, seed := range overloadSeeds {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, input string) {
		lines := strings.Split(input, "\n")
		if len(lines) > maxOverloads {
			lines = lines[:maxOverloads]
		}
		overloads := make([][]signature.Param, 0, len(lines))
		distinct := make(map[signature.Param]bool)
		for _, line := range lines {
			params, err := signature.ParseParams(line)
			if err != nil {
				return
			}
			for _, p := range params {
				distinct[p] = true
			}
			overloads = append(overloads, params)
		}
		if len(distinct) > maxParams {
			return
		}

		node, err := signature.Compact(overloads)
		if err != nil {
			// порядок или дубликаты: ожидаемый отказ
			return
		}
		if err := testkit.CheckCoverage(overloads, node); err != nil {
			t.Fatalf("coverage: %v\nrendered: %s", err, signature.Render(node, signature.RenderOptions{ShowNames: true}))
		}
		again, err := signature.Compact(overloads)
		if err != nil || !signature.Equal(node, again) {
			t.Fatalf("compaction is not deterministic")
		}
	})
}
