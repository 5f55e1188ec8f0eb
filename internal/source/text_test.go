package source

import (
	"strings"
	"testing"
)

func TestTextLoader_BasicParagraphSplitting(t *testing.T) {
	input := "First paragraph line one.\nFirst paragraph line two.\n\nSecond paragraph.\n\nThird paragraph."
	got, err := (&TextLoader{}).Load(strings.NewReader(input), "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `<article data-source="notes.txt">` +
		`<p>First paragraph line one.<br>First paragraph line two.</p>` +
		`<p>Second paragraph.</p>` +
		`<p>Third paragraph.</p>` +
		`</article>`
	if got != want {
		t.Errorf("unexpected markup:\n got: %s\nwant: %s", got, want)
	}
}

func TestTextLoader_EmptyInput(t *testing.T) {
	got, err := (&TextLoader{}).Load(strings.NewReader(""), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `<article data-source="empty.txt"></article>` {
		t.Errorf("expected empty article, got %s", got)
	}
}

func TestTextLoader_EscapesMarkup(t *testing.T) {
	got, err := (&TextLoader{}).Load(strings.NewReader("if a < b && c > d"), "code.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "<p>if a &lt; b &amp;&amp; c &gt; d</p>") {
		t.Errorf("expected escaped text, got %s", got)
	}
}

func TestTextLoader_MultipleBlankLines(t *testing.T) {
	input := "Para one.\n\n\n\nPara two.\n\n"
	got, err := (&TextLoader{}).Load(strings.NewReader(input), "spaced.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := strings.Count(got, "<p>"); n != 2 {
		t.Errorf("expected 2 paragraphs, got %d in %s", n, got)
	}
}
