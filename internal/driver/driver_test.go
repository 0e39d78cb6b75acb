package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"bindoc/internal/diag"
	"bindoc/internal/project"
	"bindoc/internal/signature"
	"bindoc/internal/source"
)

const shapeSrc = `#pragma once

/**
 * @class Shape
 * @brief Base of all shapes.
 */

/**
 * @method Shape:area
 * @brief Returns the area.
 * @param Shape self
 * @return number area
 */
int l_area(lua_State* L) {
    return 1;
}
`

const circleSrc = `#include "shape.h"

/**
 * @class Circle
 * @brief A circle.
 * @base Shape
 */

/**
 * @method Circle:radius
 * @brief Gets or scales the radius.
 * @param Circle self
 * @param number [scale] Optional factor.
 * @return number
 */
int l_radius(lua_State* L) {
    return 1;
}

/** @method Circle:bad
 * @brief Broken.
 * @param Circle self
 * @return Vectr
 */
`

const vendoredSrc = `/** @class Vendored
 * @brief Must be excluded.
 */
`

func writeProject(t *testing.T, manifest string) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		project.ManifestName:           manifest,
		"src/shape.h":                  shapeSrc,
		"src/circle.cpp":               circleSrc,
		"src/notes.txt":                "/** @class Ignored */",
		"src/third_party/vendored.cpp": vendoredSrc,
	}
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

const baseManifest = `[project]
name = "shapes"
sources = ["src"]
exclude = ["src/third_party/"]
`

func loadProject(t *testing.T, manifest string) *project.Manifest {
	t.Helper()
	m, err := project.Load(writeProject(t, manifest))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return m
}

func TestListSources(t *testing.T) {
	m := loadProject(t, baseManifest)
	files, err := ListSources(m)
	if err != nil {
		t.Fatal(err)
	}
	var rel []string
	for _, f := range files {
		r, _ := filepath.Rel(m.Root, f)
		rel = append(rel, filepath.ToSlash(r))
	}
	if got, want := strings.Join(rel, ","), "src/circle.cpp,src/shape.h"; got != want {
		t.Fatalf("sources = %s, want %s", got, want)
	}
}

func TestRunBuildsGraph(t *testing.T) {
	m := loadProject(t, baseManifest)
	res, err := Run(context.Background(), m, OptionsFromManifest(m))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Files) != 2 {
		t.Fatalf("files = %d", len(res.Files))
	}
	circle, ok := res.Graph.Lookup("Circle")
	if !ok || !circle.IsDocumented {
		t.Fatal("Circle missing")
	}
	shape, _ := res.Graph.Lookup("Shape")
	if len(circle.BaseTypes) != 1 || circle.BaseTypes[0] != shape {
		t.Fatalf("Circle bases = %v", circle.BaseTypes)
	}
	if len(shape.BaseTypes) != 1 || shape.BaseTypes[0] != res.Graph.Root() {
		t.Fatalf("Shape must derive from root")
	}
	mem, ok := circle.Member("radius")
	if !ok {
		t.Fatal("radius missing")
	}
	methods := circle.Methods()
	if len(methods) != 2 || methods[0] != mem {
		t.Fatalf("methods = %v", methods)
	}
	in := methods[0].RenderInput(signature.RenderOptions{ShowNames: true})
	if in != "(Circle self, [number scale])" {
		t.Fatalf("input = %q", in)
	}
	if res.Summary.Methods != 3 || res.Summary.Failed != 0 {
		t.Fatalf("summary = %+v", res.Summary)
	}
	if _, ok := res.Graph.Lookup("Vendored"); ok {
		t.Fatal("excluded file was processed")
	}

	items := res.Bag.Items()
	if len(items) != 1 || items[0].Code != diag.TypeUnresolved || items[0].Severity != diag.SevWarning {
		t.Fatalf("diagnostics = %v", items)
	}
	if res.HasErrors() {
		t.Fatal("warnings only expected")
	}
	if res.Digest == (project.Digest{}) {
		t.Fatal("digest not computed")
	}
}

func TestRunIsDeterministicAcrossJobs(t *testing.T) {
	m := loadProject(t, baseManifest)
	var first string
	for _, jobs := range []int{1, 2, 8} {
		opts := OptionsFromManifest(m)
		opts.Jobs = jobs
		res, err := Run(context.Background(), m, opts)
		if err != nil {
			t.Fatal(err)
		}
		got := diag.FormatShortDiagnostics(res.Bag.Items(), res.FileSet, true)
		var names []string
		for _, ty := range res.Graph.Types() {
			names = append(names, ty.Name)
		}
		got += "\n" + strings.Join(names, ",")
		if first == "" {
			first = got
		} else if got != first {
			t.Fatalf("jobs=%d diverged:\n%s\nvs\n%s", jobs, got, first)
		}
	}
}

func TestWarningsAsErrors(t *testing.T) {
	m := loadProject(t, baseManifest+"\n[diagnostics]\nwarnings_as_errors = true\n")
	res, err := Run(context.Background(), m, OptionsFromManifest(m))
	if err != nil {
		t.Fatal(err)
	}
	if !res.HasErrors() {
		t.Fatal("warning must be promoted")
	}
}

func TestFinalizeBag(t *testing.T) {
	all := diag.NewBag(0)
	for i, sev := range []diag.Severity{diag.SevWarning, diag.SevInfo, diag.SevWarning} {
		all.Add(diag.Diagnostic{
			Severity: sev,
			Code:     diag.TypeUnresolved,
			Message:  fmt.Sprintf("m%d", i),
			Primary:  source.Span{Start: uint32(10 - i)},
		})
	}
	all.Add(all.Items()[0]) // дубликат

	out := finalizeBag(all, Options{MaxDiagnostics: 2, WarningsAsErrors: true})
	if out.Len() != 2 || out.Dropped() != 1 {
		t.Fatalf("len=%d dropped=%d", out.Len(), out.Dropped())
	}
	items := out.Items()
	if items[0].Message != "m2" || items[0].Severity != diag.SevError {
		t.Fatalf("first = %+v", items[0])
	}
	if items[1].Severity != diag.SevInfo {
		t.Fatalf("info must stay info: %+v", items[1])
	}
}

func TestBadRegistrationPattern(t *testing.T) {
	m := loadProject(t, baseManifest+"\n[model]\nregistration = \"no_group\"\n")
	_, err := Run(context.Background(), m, OptionsFromManifest(m))
	if err == nil || !strings.Contains(err.Error(), "[model].registration") {
		t.Fatalf("err = %v", err)
	}
}

func TestMissingSourcesIsLayoutError(t *testing.T) {
	m := loadProject(t, "[project]\nsources = [\"nope\"]\n")
	_, err := Run(context.Background(), m, Options{})
	if !errors.Is(err, project.ErrLayout) {
		t.Fatalf("err = %v", err)
	}
}

func TestCancelledContext(t *testing.T) {
	m := loadProject(t, baseManifest)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, m, Options{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

func TestProgressEvents(t *testing.T) {
	m := loadProject(t, baseManifest)
	events := make(chan Event, 64)
	opts := OptionsFromManifest(m)
	opts.Progress = ChannelSink{Ch: events}
	if _, err := Run(context.Background(), m, opts); err != nil {
		t.Fatal(err)
	}
	close(events)
	done := map[string]bool{}
	var assembled bool
	for ev := range events {
		if ev.Stage == StageExtract && ev.Status == StatusDone {
			done[filepath.Base(ev.File)] = true
		}
		if ev.File == "" && ev.Stage == StageAssemble && ev.Status == StatusDone {
			assembled = true
		}
	}
	if !done["shape.h"] || !done["circle.cpp"] || !assembled {
		t.Fatalf("events: done=%v assembled=%v", done, assembled)
	}
}

func TestTimings(t *testing.T) {
	var tm Timings
	if tm.Has(StageLoad) || tm.Duration(StageLoad) != 0 {
		t.Fatal("zero Timings must be empty")
	}
	tm.Set(StageLoad, 2*time.Millisecond)
	tm.Set(StageExtract, 3*time.Millisecond)
	if tm.Sum(StageLoad, StageExtract, StageAssemble) != 5*time.Millisecond {
		t.Fatalf("sum = %v", tm.Sum(StageLoad, StageExtract))
	}
	r := tm.Report("", 6*time.Millisecond)
	if got, want := r.String(), "timings (pipeline): total 6.00 ms [load 2.00 ms, extract 3.00 ms]"; got != want {
		t.Fatalf("report = %q, want %q", got, want)
	}
	if !strings.Contains(r.JSON(), `"total_ms":6`) {
		t.Fatalf("json = %s", r.JSON())
	}
}
