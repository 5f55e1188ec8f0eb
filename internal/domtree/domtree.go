package domtree

import "fmt"

// Kind identifies the type of a parsed markup node. Values follow the
// W3C DOM nodeType numbering so they read the same in debug output.
type Kind int

const (
	KindOther    Kind = -1 // synthetic sentinel inserted past the depth limit
	KindElement  Kind = 1
	KindText     Kind = 3
	KindComment  Kind = 8
	KindDocument Kind = 9
	KindDoctype  Kind = 10
	KindFragment Kind = 11
)

// Fixed names for non-element nodes.
const (
	TextName     = "#text"
	CommentName  = "#comment"
	SentinelName = "MAX_NESTING_LEVEL"
)

// KindName returns a human-readable label for a node kind.
// Unknown kinds render as UNKNOWN_TYPE(n).
func KindName(k Kind) string {
	switch k {
	case KindElement:
		return "ELEMENT_NODE"
	case KindText:
		return "TEXT_NODE"
	case KindComment:
		return "COMMENT_NODE"
	case KindDocument:
		return "DOCUMENT_NODE"
	case KindDoctype:
		return "DOCTYPE_NODE"
	case KindFragment:
		return "DOCUMENT_FRAGMENT_NODE"
	case KindOther:
		return "OTHER_NODE"
	default:
		return fmt.Sprintf("UNKNOWN_TYPE(%d)", int(k))
	}
}

func (k Kind) String() string { return KindName(k) }

// Attribute is a single name="value" pair on an element.
type Attribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// TreeNode is one node of a parsed markup tree. A tree is immutable once
// the builder hands it out; visibility and layout live elsewhere, keyed by ID.
type TreeNode struct {
	Kind       Kind        `json:"kind"`
	Name       string      `json:"name"`                 // lowercase tag name, or a fixed label
	Text       string      `json:"text"`                 // full, untruncated text content
	Attributes []Attribute `json:"attributes,omitempty"` // elements only, in source order
	ID         int         `json:"id"`                   // unique within one parse
	Children   []*TreeNode `json:"children,omitempty"`
}

// IsElement reports whether n is an element node.
func (n *TreeNode) IsElement() bool { return n != nil && n.Kind == KindElement }

// HasChildren reports whether n has at least one child.
func (n *TreeNode) HasChildren() bool { return n != nil && len(n.Children) > 0 }

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the children of the visited node.
func Walk(n *TreeNode, fn func(node *TreeNode, depth int) bool) {
	var walk func(*TreeNode, int)
	walk = func(node *TreeNode, depth int) {
		if node == nil {
			return
		}
		if !fn(node, depth) {
			return
		}
		for _, c := range node.Children {
			walk(c, depth+1)
		}
	}
	walk(n, 0)
}

// Count returns the number of nodes in the tree rooted at n.
func Count(n *TreeNode) int {
	total := 0
	Walk(n, func(*TreeNode, int) bool {
		total++
		return true
	})
	return total
}

// Depth returns the number of levels in the tree rooted at n.
func Depth(n *TreeNode) int {
	deepest := 0
	Walk(n, func(_ *TreeNode, depth int) bool {
		if depth+1 > deepest {
			deepest = depth + 1
		}
		return true
	})
	return deepest
}

// Find returns the node with the given ID, or nil.
func Find(n *TreeNode, id int) *TreeNode {
	var found *TreeNode
	Walk(n, func(node *TreeNode, _ int) bool {
		if found != nil {
			return false
		}
		if node.ID == id {
			found = node
			return false
		}
		return true
	})
	return found
}

// Equal reports whether a and b have the same structure: kind, name, text,
// attributes and child order. IDs are parse-local and not compared.
func Equal(a, b *TreeNode) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind || a.Name != b.Name || a.Text != b.Text {
		return false
	}
	if len(a.Attributes) != len(b.Attributes) || len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Attributes {
		if a.Attributes[i] != b.Attributes[i] {
			return false
		}
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}
