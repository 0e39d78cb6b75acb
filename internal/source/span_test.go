package source

import (
	"testing"
)

func TestSpanCover(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Span
		expected Span
	}{
		{"disjoint", Span{File: 1, Start: 10, End: 20}, Span{File: 1, Start: 30, End: 40}, Span{File: 1, Start: 10, End: 40}},
		{"nested", Span{File: 1, Start: 10, End: 40}, Span{File: 1, Start: 15, End: 20}, Span{File: 1, Start: 10, End: 40}},
		{"other file ignored", Span{File: 1, Start: 10, End: 20}, Span{File: 2, Start: 0, End: 99}, Span{File: 1, Start: 10, End: 20}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Cover(tt.b); got != tt.expected {
				t.Errorf("Cover() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSpanLess(t *testing.T) {
	a := Span{File: 0, Start: 5, End: 6}
	b := Span{File: 0, Start: 5, End: 9}
	c := Span{File: 1, Start: 0, End: 1}
	if !a.Less(b) || b.Less(a) {
		t.Errorf("expected a < b")
	}
	if !b.Less(c) || c.Less(a) {
		t.Errorf("file must order first")
	}
	if a.Less(a) {
		t.Errorf("span must not be less than itself")
	}
}

func TestSpanLenEmpty(t *testing.T) {
	s := Span{Start: 3, End: 3}
	if !s.Empty() || s.Len() != 0 {
		t.Errorf("expected empty span")
	}
	if got := (Span{File: 2, Start: 1, End: 4}).String(); got != "2:1-4" {
		t.Errorf("String() = %q", got)
	}
}
