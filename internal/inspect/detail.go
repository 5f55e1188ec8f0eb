// Package inspect renders single nodes and whole trees as text for the side
// panels: the detail view of one node and the diagnostic debug view.
package inspect

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/dgallion1/domview/internal/domtree"
	"github.com/dgallion1/domview/internal/textfmt"
)

// previewLength bounds the text content shown in the property list.
const previewLength = 100

var ErrNoNode = errors.New("no node selected")

// DetailError reports a failure while formatting a node's detail view.
type DetailError struct {
	NodeID int
	Err    error
}

func (e *DetailError) Error() string {
	return fmt.Sprintf("node %d details: %v", e.NodeID, e.Err)
}

func (e *DetailError) Unwrap() error { return e.Err }

// Property is one name/value row of the property list.
type Property struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Detail is the content of the detail panel.
type Detail struct {
	NodeID     int        `json:"node_id"`
	Title      string     `json:"title"`
	Body       string     `json:"body"`
	BodyHTML   string     `json:"body_html"` // Body escaped, tags and attributes highlighted
	Properties []Property `json:"properties"`
}

// DetailInspector keeps the detail panel's content and visibility. Hiding
// the panel keeps the last content.
type DetailInspector struct {
	mu      sync.Mutex
	current *Detail
	visible bool
	log     *slog.Logger
}

func NewDetailInspector(log *slog.Logger) *DetailInspector {
	if log == nil {
		log = slog.Default()
	}
	return &DetailInspector{log: log}
}

// Show formats n and reveals the panel. On error the panel is unchanged.
func (d *DetailInspector) Show(n *domtree.TreeNode) (*Detail, error) {
	detail, err := Format(n)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	d.current = detail
	d.visible = true
	d.mu.Unlock()

	d.log.Debug("detail shown", "node_id", n.ID, "kind", n.Kind.String())
	return detail, nil
}

// Hide hides the panel without dropping its content.
func (d *DetailInspector) Hide() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.visible = false
}

// Current returns the last shown detail and whether the panel is visible.
func (d *DetailInspector) Current() (*Detail, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current, d.visible
}

// Format builds the detail view of n.
func Format(n *domtree.TreeNode) (*Detail, error) {
	if n == nil {
		return nil, &DetailError{Err: ErrNoNode}
	}
	d := &Detail{NodeID: n.ID}
	id := strconv.Itoa(n.ID)

	switch n.Kind {
	case domtree.KindElement:
		if n.Name == "" {
			return nil, &DetailError{NodeID: n.ID, Err: errors.New("element without tag name")}
		}
		d.Title = "<" + n.Name + "> element details"
		d.Body = OpenTag(n) + "\n  ...\n</" + n.Name + ">"
		d.Properties = []Property{
			{Name: "Type", Value: "Element"},
			{Name: "Tag", Value: n.Name},
			{Name: "Unique ID", Value: id},
		}
		if len(n.Attributes) > 0 {
			lines := make([]string, len(n.Attributes))
			for i, a := range n.Attributes {
				lines[i] = a.Name + `="` + a.Value + `"`
			}
			d.Properties = append(d.Properties, Property{Name: "Attributes", Value: strings.Join(lines, "\n")})
		}
		if len(n.Children) > 0 {
			d.Properties = append(d.Properties, Property{Name: "Children", Value: strconv.Itoa(len(n.Children))})
		}

	case domtree.KindText:
		d.Title = "Text node details"
		d.Body = n.Text
		d.Properties = []Property{
			{Name: "Type", Value: "Text"},
			{Name: "Unique ID", Value: id},
			{Name: "Length", Value: characters(n.Text)},
		}
		if runes := []rune(n.Text); len(runes) > previewLength {
			d.Properties = append(d.Properties, Property{
				Name:  fmt.Sprintf("Content (first %d characters)", previewLength),
				Value: string(runes[:previewLength]) + "...",
			})
		} else {
			d.Properties = append(d.Properties, Property{Name: "Content", Value: n.Text})
		}

	case domtree.KindComment:
		d.Title = "Comment details"
		d.Body = "<!-- " + n.Text + " -->"
		d.Properties = []Property{
			{Name: "Type", Value: "Comment"},
			{Name: "Unique ID", Value: id},
			{Name: "Length", Value: characters(n.Text)},
		}

	default:
		kind := domtree.KindName(n.Kind)
		d.Title = "Node details (type: " + kind + ")"
		d.Body = "Node type: " + kind + ", Name: " + n.Name
		d.Properties = []Property{
			{Name: "Type", Value: kind},
			{Name: "Unique ID", Value: id},
		}
	}
	d.BodyHTML = textfmt.HighlightHTML(d.Body)
	return d, nil
}

// OpenTag reconstructs an element's opening tag with all attributes in
// source order.
func OpenTag(n *domtree.TreeNode) string {
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(n.Name)
	for _, a := range n.Attributes {
		fmt.Fprintf(&b, ` %s="%s"`, a.Name, a.Value)
	}
	b.WriteString(">")
	return b.String()
}

func characters(s string) string {
	return strconv.Itoa(utf8.RuneCountInString(s)) + " characters"
}
