package layout

import "math"

// cluster places all leaves on the outer circle at even angular steps in
// document order. Internal nodes take the mean angle of their children and
// a radius proportional to their distance from the leaves.
func cluster(root *Node, radius float64) {
	var leaves []*Node
	heights := make(map[*Node]int)

	var measure func(n *Node) int
	measure = func(n *Node) int {
		if len(n.Children) == 0 {
			leaves = append(leaves, n)
			heights[n] = 0
			return 0
		}
		h := 0
		for _, c := range n.Children {
			if ch := measure(c) + 1; ch > h {
				h = ch
			}
		}
		heights[n] = h
		return h
	}
	rootHeight := measure(root)

	step := 2 * math.Pi / float64(len(leaves))
	for i, leaf := range leaves {
		leaf.Angle = (float64(i) + 0.5) * step
	}

	var angle func(n *Node) float64
	angle = func(n *Node) float64 {
		if len(n.Children) == 0 {
			return n.Angle
		}
		sum := 0.0
		for _, c := range n.Children {
			sum += angle(c)
		}
		n.Angle = sum / float64(len(n.Children))
		return n.Angle
	}
	angle(root)

	walk(root, func(n *Node) {
		if rootHeight == 0 {
			n.Radius = 0
		} else {
			n.Radius = float64(rootHeight-heights[n]) / float64(rootHeight) * radius
		}
		n.X, n.Y = Polar(n.Angle, n.Radius)
	})
}
