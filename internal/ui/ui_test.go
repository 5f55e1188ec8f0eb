package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dgallion1/domview/internal/status"
	"github.com/fatih/color"
)

func init() {
	color.NoColor = true
}

func TestForSeverity(t *testing.T) {
	cases := map[status.Severity]*color.Color{
		status.Success: Good,
		status.Warning: Warn,
		status.Error:   Bad,
		status.Info:    Info,
	}
	for sev, want := range cases {
		if got := ForSeverity(sev); got != want {
			t.Errorf("ForSeverity(%q) returned the wrong color", sev)
		}
	}
}

func TestStatus(t *testing.T) {
	var buf bytes.Buffer
	Status(&buf, status.Message{Text: "DOM tree rendered", Severity: status.Success})
	if buf.String() != "DOM tree rendered\n" {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	Table(&buf, []string{"NAME", "SIZE"}, [][]string{{"simple", "12"}, {"nested", "345"}})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header, separator and 2 rows, got %d lines:\n%s", len(lines), buf.String())
	}
	if lines[2] != "  simple  12" {
		t.Errorf("unexpected row %q", lines[2])
	}
}

func TestTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	Table(&buf, []string{"A"}, nil)
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}
