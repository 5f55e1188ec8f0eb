package render

import (
	"strings"

	"github.com/dgallion1/domview/internal/domtree"
	"github.com/dgallion1/domview/internal/textfmt"
	"github.com/mattn/go-runewidth"
)

// Box geometry.
const (
	minBoxWidth       = 30
	nameCharWidth     = 8
	attrCharWidth     = 6
	textCharWidth     = 7
	heightWithAttrs   = 40
	heightElement     = 30
	heightTextComment = 25
	boxTop            = -15
	attrLineOffset    = 15
)

// encoding is the visual form of one node under a view.
type encoding struct {
	label    string
	attrLine string
	width    float64
	height   float64
	class    string
}

func encode(n *domtree.TreeNode, view ViewConfig, opts Options) encoding {
	var e encoding
	switch n.Kind {
	case domtree.KindElement:
		e.label = "<" + n.Name + ">"
		e.class = "node element-node"
	case domtree.KindText:
		if view.ShowTextNodes {
			e.label = `"` + textfmt.Truncate(n.Text, opts.MaxTextLength) + `"`
		}
		e.class = "node text-node"
	case domtree.KindComment:
		if view.ShowComments {
			e.label = "<!-- " + textfmt.Truncate(n.Text, opts.MaxTextLength) + " -->"
		}
		e.class = "node comment-node"
	default:
		e.label = n.Name
		e.class = "node other-node"
	}

	showAttrs := n.IsElement() && view.ShowAttributes && len(n.Attributes) > 0
	if showAttrs {
		e.attrLine = attrLine(n.Attributes, opts.MaxAttrsShown)
	}

	nameWidth := float64(runewidth.StringWidth(e.label)) * nameCharWidth
	if showAttrs {
		nameWidth += float64(runewidth.StringWidth(e.attrLine)) * attrCharWidth
	}
	textWidth := 0.0
	if (n.Kind == domtree.KindText && view.ShowTextNodes) || (n.Kind == domtree.KindComment && view.ShowComments) {
		textWidth = float64(runewidth.StringWidth(textfmt.Truncate(n.Text, opts.MaxTextLength))) * textCharWidth
	}
	e.width = max(nameWidth, textWidth, minBoxWidth)

	switch {
	case showAttrs:
		e.height = heightWithAttrs
	case n.IsElement():
		e.height = heightElement
	default:
		e.height = heightTextComment
	}
	return e
}

// attrLine renders up to limit attributes as name="value" pairs, with an
// ellipsis when some were left out.
func attrLine(attrs []domtree.Attribute, limit int) string {
	var b strings.Builder
	for i, a := range attrs {
		if i > 0 {
			b.WriteByte(' ')
		}
		if i >= limit {
			b.WriteString(textfmt.Ellipsis)
			break
		}
		b.WriteString(a.Name)
		b.WriteString(`="`)
		b.WriteString(a.Value)
		b.WriteByte('"')
	}
	return b.String()
}

// tooltipText describes a node for the hover label.
func tooltipText(n *domtree.TreeNode) string {
	switch n.Kind {
	case domtree.KindElement:
		text := "<" + n.Name + ">"
		if len(n.Attributes) > 0 {
			text += " (double-click for details)"
		}
		return text
	case domtree.KindText:
		return "Text node"
	case domtree.KindComment:
		return "Comment"
	default:
		return n.Name
	}
}
