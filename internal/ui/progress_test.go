package ui

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"bindoc/internal/driver"
)

func newTestModel(files ...string) *progressModel {
	return NewProgressModel("bindoc check", files, nil).(*progressModel)
}

func TestApplyEventTracksExtraction(t *testing.T) {
	m := newTestModel("a.cpp", "b.cpp", "c.cpp")
	m.applyEvent(driver.Event{File: "a.cpp", Stage: driver.StageLoad, Status: driver.StatusQueued})
	m.applyEvent(driver.Event{File: "a.cpp", Stage: driver.StageExtract, Status: driver.StatusWorking})
	m.applyEvent(driver.Event{File: "b.cpp", Stage: driver.StageExtract, Status: driver.StatusDone, Elapsed: 3 * time.Millisecond})
	m.applyEvent(driver.Event{File: "c.cpp", Stage: driver.StageExtract, Status: driver.StatusError})
	m.applyEvent(driver.Event{File: "ghost.cpp", Stage: driver.StageExtract, Status: driver.StatusDone})

	if m.rows[0].state != fileExtracting || m.rows[1].state != fileExtracted || m.rows[2].state != fileFailed {
		t.Fatalf("rows = %+v", m.rows)
	}
	if got := m.phaseLabel(); got != "extracted 2/3, 1 failed" {
		t.Fatalf("phase label = %q", got)
	}
	want := extractShare * 2 / 3
	if got := m.percent(); got < want-1e-9 || got > want+1e-9 {
		t.Fatalf("percent = %v, want %v", got, want)
	}
	view := m.View()
	for _, s := range []string{"bindoc check: extracted 2/3", "extracting a.cpp", "done b.cpp (3ms)", "error c.cpp"} {
		if !strings.Contains(view, s) {
			t.Fatalf("view lacks %q:\n%s", s, view)
		}
	}
}

func TestAssemblePhaseFillsBar(t *testing.T) {
	m := newTestModel("a.cpp")
	m.applyEvent(driver.Event{Stage: driver.StageAssemble, Status: driver.StatusWorking})
	if m.percent() != extractShare || m.phaseLabel() != "assembling model" {
		t.Fatalf("assembling: percent=%v label=%q", m.percent(), m.phaseLabel())
	}
	m.applyEvent(driver.Event{Stage: driver.StageAssemble, Status: driver.StatusDone})
	if m.percent() != 1 || m.phaseLabel() != "model ready" {
		t.Fatalf("assembled: percent=%v label=%q", m.percent(), m.phaseLabel())
	}
}

func TestVisibleRowsHidesExtractedFiles(t *testing.T) {
	var files []string
	for i := range maxRows + 5 {
		files = append(files, fmt.Sprintf("f%02d.cpp", i))
	}
	m := newTestModel(files...)
	for _, f := range files[:6] {
		m.applyEvent(driver.Event{File: f, Stage: driver.StageExtract, Status: driver.StatusDone})
	}
	m.applyEvent(driver.Event{File: files[6], Stage: driver.StageExtract, Status: driver.StatusError})
	rows, hidden := m.visibleRows()
	if len(rows) != maxRows-1 || hidden != 6 {
		t.Fatalf("rows=%d hidden=%d", len(rows), hidden)
	}
	if rows[0].path != "f06.cpp" || rows[0].state != fileFailed {
		t.Fatalf("first visible = %+v", rows[0])
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("src/very/long/path.cpp", 10); got != "src/ver..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("日本語.cpp", 6); got != "日..." {
		t.Fatalf("wide truncate = %q", got)
	}
}
