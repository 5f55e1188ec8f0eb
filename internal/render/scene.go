package render

import (
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"
	"text/template"

	"github.com/dgallion1/domview/internal/domtree"
	"github.com/dgallion1/domview/internal/layout"
)

// SceneNode is the render node: one visible tree node with its layout
// coordinates and visual encoding. It is rebuilt on every draw.
type SceneNode struct {
	ID        int          `json:"id"`
	Kind      domtree.Kind `json:"kind"`
	Label     string       `json:"label"`
	AttrLine  string       `json:"attr_line,omitempty"`
	Class     string       `json:"class"`
	X         float64      `json:"x"`
	Y         float64      `json:"y"`
	Width     float64      `json:"width"`
	Height    float64      `json:"height"`
	Collapsed bool         `json:"collapsed"`
	Clickable bool         `json:"clickable"`
}

// Link is the edge between a visible parent and child.
type Link struct {
	Source int    `json:"source"`
	Target int    `json:"target"`
	Path   string `json:"path"`
}

// Scene is a complete drawing. Scenes are never mutated once handed out.
type Scene struct {
	Width     float64     `json:"width"`
	Height    float64     `json:"height"`
	Layout    layout.Mode `json:"layout"`
	Transform Transform   `json:"transform"`
	Nodes     []SceneNode `json:"nodes"`
	Links     []Link      `json:"links"`
}

// NodeIDs returns the IDs of all drawn nodes in drawing order.
func (s *Scene) NodeIDs() []int {
	ids := make([]int, len(s.Nodes))
	for i, n := range s.Nodes {
		ids[i] = n.ID
	}
	return ids
}

// nodeAt maps a screen point through the inverse transform and returns the
// topmost node whose box contains it.
func (s *Scene) nodeAt(x, y float64) *SceneNode {
	if s.Transform.Scale == 0 {
		return nil
	}
	lx := (x - s.Transform.X) / s.Transform.Scale
	ly := (y - s.Transform.Y) / s.Transform.Scale
	for i := len(s.Nodes) - 1; i >= 0; i-- {
		n := &s.Nodes[i]
		left, top := n.X-n.Width/2, n.Y+boxTop
		if lx >= left && lx <= left+n.Width && ly >= top && ly <= top+n.Height {
			return n
		}
	}
	return nil
}

func (r *Renderer) draw(tree *domtree.TreeNode, view ViewConfig, collapsed map[int]bool, t Transform) (*Scene, error) {
	byID := make(map[int]*domtree.TreeNode)
	var build func(n *domtree.TreeNode) *layout.Node
	build = func(n *domtree.TreeNode) *layout.Node {
		byID[n.ID] = n
		ln := &layout.Node{ID: n.ID}
		if collapsed[n.ID] {
			return ln
		}
		for _, c := range n.Children {
			ln.Children = append(ln.Children, build(c))
		}
		return ln
	}
	root := build(tree)

	err := layout.Apply(root, layout.Options{
		Mode:         view.Layout,
		NodeDistance: view.NodeDistance,
		Separation:   r.opts.Separation,
		RadialRadius: r.opts.RadialRadius,
	})
	if err != nil {
		return nil, err
	}

	scene := &Scene{
		Width:     r.width,
		Height:    r.height,
		Layout:    view.Layout,
		Transform: t,
	}
	var visit func(ln *layout.Node)
	visit = func(ln *layout.Node) {
		n := byID[ln.ID]
		e := encode(n, view, r.opts)
		scene.Nodes = append(scene.Nodes, SceneNode{
			ID:        n.ID,
			Kind:      n.Kind,
			Label:     e.label,
			AttrLine:  e.attrLine,
			Class:     e.class,
			X:         ln.X,
			Y:         ln.Y,
			Width:     e.width,
			Height:    e.height,
			Collapsed: collapsed[n.ID] && n.HasChildren(),
			Clickable: clickable(n),
		})
		for _, c := range ln.Children {
			scene.Links = append(scene.Links, Link{
				Source: ln.ID,
				Target: c.ID,
				Path:   linkPath(view.Layout, ln, c),
			})
			visit(c)
		}
	}
	visit(root)
	return scene, nil
}

// linkPath is a cubic curve from parent to child. Tree modes bend along the
// depth axis; radial links bend vertically in drawing space.
func linkPath(mode layout.Mode, src, dst *layout.Node) string {
	if mode == layout.Horizontal {
		mx := (src.X + dst.X) / 2
		return fmt.Sprintf("M%s,%sC%s,%s %s,%s %s,%s",
			num(src.X), num(src.Y), num(mx), num(src.Y), num(mx), num(dst.Y), num(dst.X), num(dst.Y))
	}
	my := (src.Y + dst.Y) / 2
	return fmt.Sprintf("M%s,%sC%s,%s %s,%s %s,%s",
		num(src.X), num(src.Y), num(src.X), num(my), num(dst.X), num(my), num(dst.X), num(dst.Y))
}

// num formats a coordinate with at most two decimals.
func num(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimSuffix(strings.TrimRight(s, "0"), ".")
	if s == "-0" {
		return "0"
	}
	return s
}

var svgTemplate = template.Must(template.New("scene").Funcs(template.FuncMap{
	"num":  num,
	"esc":  html.EscapeString,
	"left": func(width float64) float64 { return -width / 2 },
}).Parse(`<svg xmlns="http://www.w3.org/2000/svg" class="dom-tree layout-{{.Layout}}" width="{{num .Width}}" height="{{num .Height}}">
<g class="transform-group" transform="{{.Transform}}">
{{- range .Links}}
<path class="link" data-source="{{.Source}}" data-target="{{.Target}}" d="{{.Path}}"/>
{{- end}}
{{- range .Nodes}}
<g class="{{.Class}}{{if .Collapsed}} collapsed{{end}}{{if .Clickable}} clickable{{end}}" data-node-id="{{.ID}}" transform="translate({{num .X}},{{num .Y}})">
<rect x="{{num (left .Width)}}" y="-15" width="{{num .Width}}" height="{{num .Height}}"/>
<text dy="0" text-anchor="middle">{{esc .Label}}</text>
{{- if .AttrLine}}
<text class="node-attrs" dy="15" text-anchor="middle">{{esc .AttrLine}}</text>
{{- end}}
</g>
{{- end}}
</g>
</svg>
`))

// WriteSVG writes the scene as a standalone SVG document. Each node group
// carries a data-node-id attribute for event correlation.
func (s *Scene) WriteSVG(w io.Writer) error {
	return svgTemplate.Execute(w, s)
}

// SVG returns the scene as an SVG string.
func (s *Scene) SVG() (string, error) {
	var b strings.Builder
	if err := s.WriteSVG(&b); err != nil {
		return "", err
	}
	return b.String(), nil
}
