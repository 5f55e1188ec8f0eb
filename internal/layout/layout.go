// Package layout positions the nodes of a rooted tree for drawing. It knows
// nothing about markup: callers build a Node tree holding only the nodes
// they want placed.
package layout

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Mode selects the placement strategy.
type Mode string

const (
	Vertical   Mode = "vertical"
	Horizontal Mode = "horizontal"
	Radial     Mode = "radial"
)

// ParseMode maps a configured layout name to a Mode. "tree" is accepted as
// an alias for vertical.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "vertical", "tree", "":
		return Vertical, nil
	case "horizontal":
		return Horizontal, nil
	case "radial":
		return Radial, nil
	default:
		return "", fmt.Errorf("unknown layout mode %q", s)
	}
}

// Node is one placed node. X and Y are drawing coordinates with the root at
// the origin. Angle (radians, clockwise from twelve o'clock) and Radius are
// set only by the radial mode.
type Node struct {
	ID       int
	Children []*Node
	Depth    int

	X, Y          float64
	Angle, Radius float64

	breadth float64
}

// Options parameterizes Apply.
type Options struct {
	Mode Mode
	// NodeDistance is the spacing unit for tree modes: siblings sit
	// 2.5 units apart across the tree and levels one unit apart for
	// vertical, the reverse for horizontal.
	NodeDistance float64
	// Separation scales the gap between adjacent subtrees. Zero means 1.
	Separation float64
	// RadialRadius is the radius at which radial leaves are placed.
	RadialRadius float64
}

var ErrNilRoot = errors.New("layout: nil root")

// Apply assigns coordinates to every node reachable from root.
func Apply(root *Node, opts Options) error {
	if root == nil {
		return ErrNilRoot
	}
	sep := opts.Separation
	if sep <= 0 {
		sep = 1
	}

	setDepth(root, 0)

	switch opts.Mode {
	case Vertical, Horizontal:
		if opts.NodeDistance <= 0 {
			return fmt.Errorf("layout: node distance must be positive, got %v", opts.NodeDistance)
		}
		tidy(root, sep)
		across, down := opts.NodeDistance*2.5, opts.NodeDistance
		if opts.Mode == Horizontal {
			across, down = opts.NodeDistance, opts.NodeDistance*2.5
		}
		walk(root, func(n *Node) {
			b, d := n.breadth*across, float64(n.Depth)*down
			if opts.Mode == Horizontal {
				n.X, n.Y = d, b
			} else {
				n.X, n.Y = b, d
			}
		})
	case Radial:
		if opts.RadialRadius <= 0 {
			return fmt.Errorf("layout: radial radius must be positive, got %v", opts.RadialRadius)
		}
		cluster(root, opts.RadialRadius)
	default:
		return fmt.Errorf("layout: unknown mode %q", opts.Mode)
	}
	return nil
}

// Polar converts an angle measured clockwise from twelve o'clock and a
// radius into drawing coordinates.
func Polar(angle, radius float64) (x, y float64) {
	return radius * math.Cos(angle-math.Pi/2), radius * math.Sin(angle-math.Pi/2)
}

func setDepth(n *Node, depth int) {
	n.Depth = depth
	for _, c := range n.Children {
		setDepth(c, depth+1)
	}
}

func walk(n *Node, fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		walk(c, fn)
	}
}
