package textfmt

import (
	"strings"
	"testing"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"Hello World", 5, "Hello..."},
		{"Hi", 5, "Hi"},
		{"   padded   ", 6, "padded"},
		{"", 3, ""},
		{"árvíztűrő", 3, "árv..."},
		{"exact", 5, "exact"},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("Truncate(%q, %d): expected %q, got %q", tt.in, tt.max, tt.want, got)
		}
	}
}

func TestFormatJSON(t *testing.T) {
	got := FormatJSON(map[string]int{"a": 1})
	if got != "{\n  \"a\": 1\n}" {
		t.Errorf("unexpected JSON: %q", got)
	}
	if got := FormatJSON(make(chan int)); !strings.HasPrefix(got, "error formatting object") {
		t.Errorf("expected error string for unsupported value, got %q", got)
	}
}

func TestHighlightHTML(t *testing.T) {
	got := HighlightHTML(`<a href="x">`)
	if !strings.Contains(got, `&lt;a</span>`) {
		t.Errorf("expected highlighted tag, got %q", got)
	}
	if !strings.Contains(got, `--attribute-color)">href</span>`) {
		t.Errorf("expected highlighted attribute, got %q", got)
	}
	if strings.Contains(got, "<a ") {
		t.Errorf("expected raw markup to be escaped, got %q", got)
	}
}
