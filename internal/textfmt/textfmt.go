// Package textfmt holds the small text helpers shared by the renderer and
// the inspectors.
package textfmt

import (
	"encoding/json"
	"html"
	"regexp"
	"strings"
)

// Ellipsis marks truncated text.
const Ellipsis = "..."

// Truncate trims surrounding whitespace and cuts text to maxLen runes,
// appending an ellipsis when anything was dropped.
func Truncate(text string, maxLen int) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	if maxLen < 0 {
		maxLen = 0
	}
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen]) + Ellipsis
}

// FormatJSON pretty-prints v with two-space indentation.
func FormatJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "error formatting object: " + err.Error()
	}
	return string(data)
}

var (
	tagPattern  = regexp.MustCompile(`&lt;(/?[a-zA-Z][a-zA-Z0-9]*)`)
	attrPattern = regexp.MustCompile(`([a-zA-Z-]+)=&#34;([^&]*)&#34;`)
)

// HighlightHTML escapes markup for display and wraps tag names and
// attributes in colored spans.
func HighlightHTML(s string) string {
	if s == "" {
		return ""
	}
	s = html.EscapeString(s)
	s = tagPattern.ReplaceAllString(s, `<span style="color:var(--element-color)">&lt;$1</span>`)
	s = attrPattern.ReplaceAllString(s,
		`<span style="color:var(--attribute-color)">$1</span>=&#34;<span style="color:var(--text-node-color)">$2</span>&#34;`)
	return s
}
