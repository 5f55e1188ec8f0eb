package examples

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Snapshot limits.
const (
	snapshotDepth = 3
	snapshotAttrs = 3
)

// Snapshot renders a simplified copy of a page: the title and the body
// content, cut off below three levels under <body> and with at most three
// attributes per tag.
// Comments are kept and text is trimmed.
func Snapshot(page string) (string, error) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("parse page: %w", err)
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	b.WriteString("    <title>" + html.EscapeString(findText(doc, atom.Title)) + "</title>\n")
	b.WriteString("</head>\n<body>\n")
	if body := find(doc, atom.Body); body != nil {
		for c := body.FirstChild; c != nil; c = c.NextSibling {
			simplify(&b, c, 1)
		}
	}
	b.WriteString("</body>\n</html>")
	return b.String(), nil
}

func simplify(b *strings.Builder, n *html.Node, level int) {
	indent := "    " + strings.Repeat("  ", level)
	if level > snapshotDepth {
		b.WriteString(indent + "<!-- ... -->\n")
		return
	}

	switch n.Type {
	case html.ElementNode:
		b.WriteString(indent + "<" + n.Data)
		for i, a := range n.Attr {
			if i == snapshotAttrs {
				b.WriteString(" ...")
				break
			}
			b.WriteString(" " + a.Key + `="` + html.EscapeString(a.Val) + `"`)
		}
		b.WriteString(">\n")
		if voidElements[n.Data] {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			simplify(b, c, level+1)
		}
		b.WriteString(indent + "</" + n.Data + ">\n")
	case html.TextNode:
		if text := strings.TrimSpace(n.Data); text != "" {
			b.WriteString(indent + html.EscapeString(text) + "\n")
		}
	case html.CommentNode:
		b.WriteString(indent + "<!-- " + n.Data + " -->\n")
	}
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

func find(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, a); found != nil {
			return found
		}
	}
	return nil
}

func findText(n *html.Node, a atom.Atom) string {
	el := find(n, a)
	if el == nil {
		return ""
	}
	var buf strings.Builder
	for c := el.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			buf.WriteString(c.Data)
		}
	}
	return strings.TrimSpace(buf.String())
}
