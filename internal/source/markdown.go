package source

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownLoader renders Markdown with goldmark. Headings become nested
// sections so the document outline shows in the tree.
type MarkdownLoader struct{}

func (l *MarkdownLoader) Load(r io.Reader, filename string) (string, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	out := newOutline(filename)
	var block bytes.Buffer
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			out.heading(h.Level, headingText(h, src))
			continue
		}
		block.Reset()
		if err := md.Renderer().Render(&block, src, n); err != nil {
			return "", fmt.Errorf("render markdown: %w", err)
		}
		out.raw(strings.TrimSpace(block.String()))
	}
	return out.String(), nil
}

// headingText collects the literal text of a heading's inline children.
func headingText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte(' ')
			}
			continue
		}
		buf.WriteString(headingText(c, src))
	}
	return strings.TrimSpace(buf.String())
}
