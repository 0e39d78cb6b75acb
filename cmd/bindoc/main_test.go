package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bindoc/internal/project"
	"bindoc/internal/version"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--ui=off", "--color=off"}, args...))
	err := rootCmd.Execute()
	profileCleanup()
	traceCleanup()
	return out.String(), err
}

func TestReadUIMode(t *testing.T) {
	cases := map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, " on ": uiModeOn, "off": uiModeOff}
	for in, want := range cases {
		got, err := readUIMode(in)
		if err != nil {
			t.Fatalf("readUIMode(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("readUIMode(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Error("expected error for invalid mode")
	}
}

func TestSignatureCommand(t *testing.T) {
	out, err := execute(t, "signature", "--names=true", "--grouping=inline", "TypeX self", "TypeX self, number radius")
	if err != nil {
		t.Fatalf("signature: %v", err)
	}
	if got := strings.TrimSpace(out); got != "(TypeX self, [number radius])" {
		t.Errorf("output = %q", got)
	}

	out, err = execute(t, "signature", "--names=false", "--grouping=inline", "TypeX self", "TypeX self, number radius")
	if err != nil {
		t.Fatalf("signature: %v", err)
	}
	if got := strings.TrimSpace(out); got != "(TypeX, [number])" {
		t.Errorf("output without names = %q", got)
	}
}

func TestSignatureCommandRejectsBadParam(t *testing.T) {
	_, err := execute(t, "signature", "--names=true", "--grouping=inline", "number a b c")
	if err == nil || !strings.Contains(err.Error(), "overload 1") {
		t.Fatalf("expected overload error, got %v", err)
	}
}

func TestInitCommand(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "demo")
	if _, err := execute(t, "init", "--force=false", "--name=", dir); err != nil {
		t.Fatalf("init: %v", err)
	}
	m, err := project.LoadFile(filepath.Join(dir, project.ManifestName))
	if err != nil {
		t.Fatalf("load generated manifest: %v", err)
	}
	if m.Config.Project.Name != "demo" {
		t.Errorf("name = %q, want demo", m.Config.Project.Name)
	}
	if _, err := execute(t, "init", "--force=false", "--name=", dir); err == nil {
		t.Error("expected error when the manifest already exists")
	}
}

func TestCheckAndExportCommands(t *testing.T) {
	dir := t.TempDir()
	if _, err := project.WriteTemplate(dir, "demo", false); err != nil {
		t.Fatal(err)
	}
	src := `/**
 * @class Shape
 * @brief Base of all shapes.
 */

/**
 * @method Shape:area
 * @brief Returns the area.
 * @param Shape self
 * @return number area
 */
`
	if err := os.MkdirAll(filepath.Join(dir, "src"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "src", "shape.h"), []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "check", "--format=short", dir); err != nil {
		t.Fatalf("check: %v", err)
	}

	out, err := execute(t, "export", "--format=yaml", "--stdout=true", "--names=true", dir)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out, "name: Shape") || !strings.Contains(out, "area") {
		t.Errorf("yaml export missing the class:\n%s", out)
	}
}

func TestCheckMissingManifest(t *testing.T) {
	if _, err := execute(t, "check", "--format=short", t.TempDir()); err == nil {
		t.Fatal("expected error without bindoc.toml")
	}
}

func TestRenderVersionJSON(t *testing.T) {
	var buf bytes.Buffer
	info := version.Info{Version: "1.2.3", GoVersion: "go1.25.1"}
	if err := renderVersionJSON(&buf, info, versionOptions{format: "json", showHash: true}); err != nil {
		t.Fatal(err)
	}
	var payload versionPayload
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if payload.Tool != "bindoc" || payload.Version != "1.2.3" {
		t.Errorf("payload = %+v", payload)
	}
	if payload.GitCommit != "unknown" {
		t.Errorf("GitCommit = %q, want unknown", payload.GitCommit)
	}
	if payload.BuildDate != "" {
		t.Errorf("BuildDate should be omitted, got %q", payload.BuildDate)
	}
}

func TestFixCommand(t *testing.T) {
	dir := t.TempDir()
	if _, err := project.WriteTemplate(dir, "demo", false); err != nil {
		t.Fatal(err)
	}
	src := `/**
 * @class Vector
 * @brief A vector.
 */

/**
 * @method Vector:add
 * @brief Adds.
 * @param Vector self
 * @param Vectr other
 */
`
	path := filepath.Join(dir, "src", "vector.h")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "fix", "--all=true", "--once=false", "--id=", "--dry-run=false", dir)
	if err != nil {
		t.Fatalf("fix: %v\n%s", err, out)
	}
	if !strings.Contains(out, "did you mean 'Vector'?") {
		t.Errorf("output:\n%s", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), " * @param Vector other\n") {
		t.Errorf("file not fixed:\n%s", data)
	}
}

func TestExampleProject(t *testing.T) {
	root := filepath.Join("..", "..", "testdata", "example")
	if _, err := execute(t, "check", "--format=short", root); err != nil {
		t.Fatalf("check example: %v", err)
	}
	out, err := execute(t, "export", "--format=markdown", "--stdout=true", "--names=true", root)
	if err != nil {
		t.Fatalf("export example: %v", err)
	}
	for _, want := range []string{"# geometry API", "## Circle", "## Vector", "#### scale"} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown export missing %q", want)
		}
	}
}

func TestBlocksCommand(t *testing.T) {
	root := filepath.Join("..", "..", "testdata", "example")
	out, err := execute(t, "blocks", "--kind=method", root)
	if err != nil {
		t.Fatalf("blocks: %v", err)
	}
	if !strings.Contains(out, "vector.cpp#") || !strings.Contains(out, "Block summary: 5 total") {
		t.Errorf("blocks output:\n%s", out)
	}
}
