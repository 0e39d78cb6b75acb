package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("test.cpp", []byte("hello world"), 0)
	if id1 != 0 {
		t.Errorf("Expected first FileID to be 0, got %d", id1)
	}

	latestID, exists := fs.GetLatest("test.cpp")
	if !exists || latestID != id1 {
		t.Fatalf("Expected latest ID %d, got %d (exists=%v)", id1, latestID, exists)
	}

	// Тот же путь с новым содержимым получает новый ID
	id2 := fs.Add("test.cpp", []byte("hello universe"), 0)
	if id2 != 1 {
		t.Errorf("Expected second FileID to be 1, got %d", id2)
	}
	latestID, _ = fs.GetLatest("test.cpp")
	if latestID != id2 {
		t.Errorf("Expected latest ID to be %d, got %d", id2, latestID)
	}

	if got := string(fs.Get(id1).Content); got != "hello world" {
		t.Errorf("Expected first file content to be 'hello world', got %q", got)
	}
	if got := string(fs.Get(id2).Content); got != "hello universe" {
		t.Errorf("Expected second file content to be 'hello universe', got %q", got)
	}
	if fs.Get(42) != nil {
		t.Errorf("Expected nil for unknown FileID")
	}
}

func TestFileSetResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.h", []byte("ab\ncd\n\nef"))

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{Line: 1, Col: 1}},
		{1, LineCol{Line: 1, Col: 2}},
		{2, LineCol{Line: 1, Col: 3}}, // сам перевод строки
		{3, LineCol{Line: 2, Col: 1}},
		{6, LineCol{Line: 3, Col: 1}},
		{7, LineCol{Line: 4, Col: 1}},
		{8, LineCol{Line: 4, Col: 2}},
	}
	for _, tt := range tests {
		start, _ := fs.Resolve(Span{File: id, Start: tt.off, End: tt.off})
		if start != tt.want {
			t.Errorf("offset %d: got %+v, want %+v", tt.off, start, tt.want)
		}
	}
}

func TestFileGetLine(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("x.cpp", []byte("first\nsecond\nthird")))

	for i, want := range []string{"", "first", "second", "third", ""} {
		if got := f.GetLine(uint32(i)); got != want {
			t.Errorf("GetLine(%d) = %q, want %q", i, got, want)
		}
	}
}

func TestFileSetLoadNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bom.cpp")
	// BOM + CRLF + decomposed "é"
	content := []byte("\xEF\xBB\xBFe\u0301\r\nx")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	fs := NewFileSetWithBase(dir)
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if got, want := string(f.Content), "\u00e9\nx"; got != want {
		t.Errorf("content = %q, want %q", got, want)
	}
	for _, flag := range []FileFlags{FileHadBOM, FileNormalizedCRLF, FileNormalizedNFC} {
		if f.Flags&flag == 0 {
			t.Errorf("expected flag %b to be set, flags=%b", flag, f.Flags)
		}
	}
	if got := f.FormatPath("relative", dir); got != "bom.cpp" {
		t.Errorf("relative path = %q", got)
	}
}

func TestFileText(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("t.cpp", []byte("0123456789")))
	if got := f.Text(Span{Start: 2, End: 5}); got != "234" {
		t.Errorf("Text = %q", got)
	}
	if got := f.Text(Span{Start: 8, End: 50}); got != "89" {
		t.Errorf("clamped Text = %q", got)
	}
	if got := f.Text(Span{Start: 5, End: 5}); got != "" {
		t.Errorf("empty Text = %q", got)
	}
}
