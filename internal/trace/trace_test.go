package trace

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestStreamTracerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)

	span := Begin(tr, ScopePass, "assemble", 0)
	Point(tr, ScopeFile, "file:a.cpp", "skipped at phase level", span.ID())
	span.WithExtra("types", "3").End("ok")

	out := buf.String()
	if !strings.Contains(out, "→ assemble") || !strings.Contains(out, "← assemble (ok)") {
		t.Fatalf("missing span events:\n%s", out)
	}
	if strings.Contains(out, "file:a.cpp") {
		t.Fatalf("file scope must be filtered at phase level:\n%s", out)
	}
	if !strings.Contains(out, "{types=3}") {
		t.Fatalf("missing extra fields:\n%s", out)
	}
}

func TestErrorEventsAlwaysEmitted(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelError, FormatNDJSON)
	Begin(tr, ScopeDriver, "check", 0).End("")
	Error(tr, "load", errors.New("boom"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected only the error event, got %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], `"kind":"error"`) || !strings.Contains(lines[0], `"detail":"boom"`) {
		t.Fatalf("unexpected ndjson: %s", lines[0])
	}
}

func TestNewOffIsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if tr.Enabled() {
		t.Fatalf("off tracer must be disabled")
	}
	if span := Begin(tr, ScopeDriver, "x", 0); span.ID() != 0 {
		t.Fatalf("nop span must have zero id")
	}
}

func TestContextPropagation(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatText)
	ctx := WithTracer(context.Background(), tr)
	if FromContext(ctx) != Tracer(tr) {
		t.Fatalf("tracer not propagated")
	}
	if FromContext(context.Background()) != Nop {
		t.Fatalf("missing tracer must fall back to Nop")
	}
	span := Begin(tr, ScopeDriver, "root", 0)
	ctx = WithSpan(ctx, span)
	if CurrentSpan(ctx) != span.ID() {
		t.Fatalf("span id not propagated")
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{"off": LevelOff, "PHASE": LevelPhase, "debug": LevelDebug} {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Errorf("expected error for unknown level")
	}
}
