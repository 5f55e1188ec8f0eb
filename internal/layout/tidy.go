package layout

// tidy sets breadth on every node: subtrees are packed left to right as
// tightly as their contours allow, each parent is centered over its first
// and last child, and the root ends up at breadth 0.
func tidy(root *Node, sep float64) {
	offsets := make(map[*Node]float64)
	pack(root, sep, offsets)

	var place func(n *Node, at float64)
	place = func(n *Node, at float64) {
		n.breadth = at
		for _, c := range n.Children {
			place(c, at+offsets[c])
		}
	}
	place(root, 0)
}

// contour holds the leftmost and rightmost breadth per level of a subtree,
// relative to its root.
type contour struct {
	left, right []float64
}

// pack lays out the subtree under n relative to n and records each child's
// offset from its parent.
func pack(n *Node, sep float64, offsets map[*Node]float64) contour {
	if len(n.Children) == 0 {
		return contour{left: []float64{0}, right: []float64{0}}
	}

	pos := make([]float64, len(n.Children))
	var acc contour
	for i, c := range n.Children {
		sub := pack(c, sep, offsets)
		if i == 0 {
			acc = contour{
				left:  append([]float64(nil), sub.left...),
				right: append([]float64(nil), sub.right...),
			}
			continue
		}

		shift := acc.right[0] - sub.left[0] + sep
		for d := 1; d < len(sub.left) && d < len(acc.right); d++ {
			if s := acc.right[d] - sub.left[d] + sep; s > shift {
				shift = s
			}
		}
		pos[i] = shift

		for d := range sub.right {
			if d < len(acc.right) {
				acc.right[d] = sub.right[d] + shift
			} else {
				acc.right = append(acc.right, sub.right[d]+shift)
			}
		}
		for d := len(acc.left); d < len(sub.left); d++ {
			acc.left = append(acc.left, sub.left[d]+shift)
		}
	}

	mid := (pos[0] + pos[len(pos)-1]) / 2
	for i, c := range n.Children {
		offsets[c] = pos[i] - mid
	}

	out := contour{
		left:  make([]float64, 0, len(acc.left)+1),
		right: make([]float64, 0, len(acc.right)+1),
	}
	out.left = append(out.left, 0)
	out.right = append(out.right, 0)
	for _, v := range acc.left {
		out.left = append(out.left, v-mid)
	}
	for _, v := range acc.right {
		out.right = append(out.right, v-mid)
	}
	return out
}
