// Package render turns a domtree into a drawable scene and owns all the
// interactive state of one diagram: collapse flags, pan and zoom.
package render

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgallion1/domview/internal/config"
	"github.com/dgallion1/domview/internal/domtree"
	"github.com/dgallion1/domview/internal/layout"
)

// topMargin is the vertical offset of the root after centering.
const topMargin = 50

var (
	ErrNoTree       = errors.New("no tree rendered")
	ErrUnknownNode  = errors.New("unknown node")
	ErrNotClickable = errors.New("node has no children to toggle")
)

// RenderError reports a failure while laying out or drawing.
type RenderError struct {
	Op  string
	Err error
}

func (e *RenderError) Error() string { return "render " + e.Op + ": " + e.Err.Error() }

func (e *RenderError) Unwrap() error { return e.Err }

// ViewConfig holds the user-adjustable drawing controls.
type ViewConfig struct {
	Layout         layout.Mode `json:"layout"`
	NodeDistance   float64     `json:"node_distance"`
	ShowAttributes bool        `json:"show_attributes"`
	ShowTextNodes  bool        `json:"show_text_nodes"`
	ShowComments   bool        `json:"show_comments"`
}

// DefaultView derives the initial controls from configuration. An invalid
// configured layout falls back to vertical.
func DefaultView(cfg config.Config) ViewConfig {
	mode, err := layout.ParseMode(cfg.Layout.Default)
	if err != nil {
		mode = layout.Vertical
	}
	return ViewConfig{
		Layout:         mode,
		NodeDistance:   cfg.Layout.NodeDistance,
		ShowAttributes: cfg.Node.ShowAttributes,
		ShowTextNodes:  cfg.Node.ShowTextNodes,
		ShowComments:   cfg.Node.ShowComments,
	}
}

// normalize resolves layout aliases and rejects unusable controls.
func (v ViewConfig) normalize() (ViewConfig, error) {
	mode, err := layout.ParseMode(string(v.Layout))
	if err != nil {
		return v, err
	}
	v.Layout = mode
	if v.NodeDistance <= 0 {
		return v, fmt.Errorf("node distance must be positive, got %v", v.NodeDistance)
	}
	return v, nil
}

// Options are the static drawing constants.
type Options struct {
	MaxTextLength int
	MaxAttrsShown int
	RadialRadius  float64
	Separation    float64
	ZoomFactor    float64
	Width         float64
	Height        float64
}

func OptionsFrom(cfg config.Config) Options {
	return Options{
		MaxTextLength: cfg.Node.MaxTextLength,
		MaxAttrsShown: cfg.Node.MaxAttrsShown,
		RadialRadius:  cfg.Layout.RadialRadius,
		Separation:    cfg.Layout.SeparationFactor,
		ZoomFactor:    cfg.Animation.ZoomFactor,
		Width:         cfg.Layout.CanvasWidth,
		Height:        cfg.Layout.CanvasHeight,
	}
}

// Transform is the pan and zoom applied uniformly to the whole drawing.
type Transform struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Scale float64 `json:"scale"`
}

func (t Transform) String() string {
	return fmt.Sprintf("translate(%s,%s) scale(%s)", num(t.X), num(t.Y), num(t.Scale))
}

// Tooltip is the floating hover label.
type Tooltip struct {
	NodeID int     `json:"node_id"`
	Text   string  `json:"text"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// Renderer draws one tree at a time. It is not safe for concurrent use;
// callers serialize access.
type Renderer struct {
	opts      Options
	view      ViewConfig
	width     float64
	height    float64
	tree      *domtree.TreeNode
	collapsed map[int]bool
	transform Transform
	scene     *Scene
	tooltip   *Tooltip
	log       *slog.Logger
}

func New(opts Options, view ViewConfig, log *slog.Logger) *Renderer {
	if log == nil {
		log = slog.Default()
	}
	if opts.ZoomFactor <= 1 {
		opts.ZoomFactor = 1.2
	}
	r := &Renderer{
		opts:      opts,
		view:      view,
		width:     opts.Width,
		height:    opts.Height,
		collapsed: make(map[int]bool),
		transform: Transform{Scale: 1},
		log:       log,
	}
	r.center()
	return r
}

func (r *Renderer) center() {
	r.transform.X = r.width / 2
	r.transform.Y = topMargin
}

// Render installs tree as the current diagram, clears all collapse state,
// centers the view and draws. On error nothing changes.
func (r *Renderer) Render(tree *domtree.TreeNode, view ViewConfig) (*Scene, error) {
	if tree == nil {
		return nil, &RenderError{Op: "render", Err: ErrNoTree}
	}
	view, err := view.normalize()
	if err != nil {
		return nil, &RenderError{Op: "render", Err: err}
	}

	collapsed := make(map[int]bool)
	t := r.transform
	t.X, t.Y = r.width/2, topMargin
	scene, err := r.draw(tree, view, collapsed, t)
	if err != nil {
		return nil, &RenderError{Op: "render", Err: err}
	}

	r.tree, r.view, r.collapsed, r.transform = tree, view, collapsed, t
	r.tooltip = nil
	return r.commit(scene), nil
}

// Update redraws the current tree with the current collapse and zoom state.
func (r *Renderer) Update() (*Scene, error) {
	return r.redraw("update")
}

// Replace swaps in a rebuilt version of the current tree and keeps pan, zoom
// and collapse state. Collapse flags follow elements by their position among
// element siblings, since rebuilt trees carry fresh IDs. Without a current
// tree it behaves like Render.
func (r *Renderer) Replace(tree *domtree.TreeNode) (*Scene, error) {
	if tree == nil {
		return nil, &RenderError{Op: "replace", Err: ErrNoTree}
	}
	if r.tree == nil {
		return r.Render(tree, r.view)
	}

	oldPaths := elementPaths(r.tree)
	newIDs := make(map[string]int)
	for id, path := range elementPaths(tree) {
		newIDs[path] = id
	}
	collapsed := make(map[int]bool)
	for id := range r.collapsed {
		path, ok := oldPaths[id]
		if !ok {
			continue
		}
		if nid, ok := newIDs[path]; ok && clickable(domtree.Find(tree, nid)) {
			collapsed[nid] = true
		}
	}

	scene, err := r.draw(tree, r.view, collapsed, r.transform)
	if err != nil {
		return nil, &RenderError{Op: "replace", Err: err}
	}
	r.tree, r.collapsed = tree, collapsed
	r.tooltip = nil
	return r.commit(scene), nil
}

// elementPaths maps each element's ID to its path of element-sibling indexes
// from the root.
func elementPaths(root *domtree.TreeNode) map[int]string {
	paths := make(map[int]string)
	var walk func(n *domtree.TreeNode, path string)
	walk = func(n *domtree.TreeNode, path string) {
		paths[n.ID] = path
		i := 0
		for _, c := range n.Children {
			if !c.IsElement() {
				continue
			}
			walk(c, fmt.Sprintf("%s/%d", path, i))
			i++
		}
	}
	if root.IsElement() {
		walk(root, "")
	}
	return paths
}

// SetView changes the drawing controls. Without a tree the view is only
// stored.
func (r *Renderer) SetView(view ViewConfig) (*Scene, error) {
	view, err := view.normalize()
	if err != nil {
		return nil, &RenderError{Op: "view", Err: err}
	}
	if r.tree == nil {
		r.view = view
		return nil, nil
	}
	scene, err := r.draw(r.tree, view, r.collapsed, r.transform)
	if err != nil {
		return nil, &RenderError{Op: "view", Err: err}
	}
	r.view = view
	return r.commit(scene), nil
}

func (r *Renderer) redraw(op string) (*Scene, error) {
	if r.tree == nil {
		return nil, &RenderError{Op: op, Err: ErrNoTree}
	}
	scene, err := r.draw(r.tree, r.view, r.collapsed, r.transform)
	if err != nil {
		return nil, &RenderError{Op: op, Err: err}
	}
	return r.commit(scene), nil
}

func (r *Renderer) commit(scene *Scene) *Scene {
	r.scene = scene
	r.log.Debug("scene drawn", "nodes", len(scene.Nodes), "layout", string(scene.Layout))
	return scene
}

// Toggle flips the collapse state of the element with the given id.
func (r *Renderer) Toggle(id int) (*Scene, error) {
	if r.tree == nil {
		return nil, &RenderError{Op: "toggle", Err: ErrNoTree}
	}
	n := domtree.Find(r.tree, id)
	if n == nil {
		return nil, &RenderError{Op: "toggle", Err: fmt.Errorf("%w: %d", ErrUnknownNode, id)}
	}
	if !clickable(n) {
		return nil, &RenderError{Op: "toggle", Err: ErrNotClickable}
	}

	prev := r.collapsed[id]
	if prev {
		delete(r.collapsed, id)
	} else {
		r.collapsed[id] = true
	}
	scene, err := r.redraw("toggle")
	if err != nil {
		if prev {
			r.collapsed[id] = true
		} else {
			delete(r.collapsed, id)
		}
		return nil, err
	}
	return scene, nil
}

// ExpandAll makes every subtree visible again.
func (r *Renderer) ExpandAll() (*Scene, error) {
	if r.tree == nil {
		return nil, &RenderError{Op: "expand-all", Err: ErrNoTree}
	}
	prev := r.collapsed
	r.collapsed = make(map[int]bool)
	scene, err := r.redraw("expand-all")
	if err != nil {
		r.collapsed = prev
		return nil, err
	}
	return scene, nil
}

// CollapseAll collapses the root's clickable children, so the root and its
// direct children stay visible. Deeper collapse flags are cleared, so
// reopening a child shows its whole subtree.
func (r *Renderer) CollapseAll() (*Scene, error) {
	if r.tree == nil {
		return nil, &RenderError{Op: "collapse-all", Err: ErrNoTree}
	}
	prev := r.collapsed
	next := make(map[int]bool)
	domtree.Walk(r.tree, func(n *domtree.TreeNode, depth int) bool {
		if depth == 1 && clickable(n) {
			next[n.ID] = true
		}
		return depth < 1
	})
	r.collapsed = next
	scene, err := r.redraw("collapse-all")
	if err != nil {
		r.collapsed = prev
		return nil, err
	}
	return scene, nil
}

// Resize sets the drawing surface size and redraws in place. Pan and zoom
// are kept.
func (r *Renderer) Resize(width, height float64) (*Scene, error) {
	if width <= 0 || height <= 0 {
		return nil, &RenderError{Op: "resize", Err: fmt.Errorf("invalid size %vx%v", width, height)}
	}
	r.width, r.height = width, height
	if r.tree == nil {
		return nil, nil
	}
	return r.redraw("resize")
}

// Pan moves the view by (dx, dy) screen pixels.
func (r *Renderer) Pan(dx, dy float64) *Scene {
	r.transform.X += dx
	r.transform.Y += dy
	return r.retransform()
}

// Zoom multiplies the scale by factor.
func (r *Renderer) Zoom(factor float64) (*Scene, error) {
	if factor <= 0 {
		return nil, &RenderError{Op: "zoom", Err: fmt.Errorf("invalid zoom factor %v", factor)}
	}
	r.transform.Scale *= factor
	return r.retransform(), nil
}

func (r *Renderer) ZoomIn() *Scene {
	s, _ := r.Zoom(r.opts.ZoomFactor)
	return s
}

func (r *Renderer) ZoomOut() *Scene {
	s, _ := r.Zoom(1 / r.opts.ZoomFactor)
	return s
}

// ResetZoom restores scale 1 and the centered position.
func (r *Renderer) ResetZoom() *Scene {
	r.transform.Scale = 1
	r.center()
	return r.retransform()
}

// retransform swaps the transform on the current scene without a new layout.
func (r *Renderer) retransform() *Scene {
	if r.scene == nil {
		return nil
	}
	s := *r.scene
	s.Transform = r.transform
	r.scene = &s
	return r.scene
}

// HitTest returns the topmost node under the screen point, or nil.
func (r *Renderer) HitTest(x, y float64) *SceneNode {
	if r.scene == nil {
		return nil
	}
	return r.scene.nodeAt(x, y)
}

// Click toggles the clickable node under the point. Clicks on empty canvas
// or on nodes without children change nothing.
func (r *Renderer) Click(x, y float64) (*Scene, error) {
	hit := r.HitTest(x, y)
	if hit == nil || !hit.Clickable {
		return r.scene, nil
	}
	return r.Toggle(hit.ID)
}

// Hover updates the tooltip for the point. It returns nil when the pointer
// is over no node.
func (r *Renderer) Hover(x, y float64) *Tooltip {
	hit := r.HitTest(x, y)
	if hit == nil {
		r.tooltip = nil
		return nil
	}
	n := domtree.Find(r.tree, hit.ID)
	if n == nil {
		r.tooltip = nil
		return nil
	}
	r.tooltip = &Tooltip{NodeID: hit.ID, Text: tooltipText(n), X: x + 10, Y: y - 20}
	return r.tooltip
}

// DoubleClick returns the tree node under the point for the detail view.
// Collapse state is not touched.
func (r *Renderer) DoubleClick(x, y float64) *domtree.TreeNode {
	hit := r.HitTest(x, y)
	if hit == nil {
		return nil
	}
	return domtree.Find(r.tree, hit.ID)
}

// Drag pans by (dx, dy) when the gesture started on empty canvas. A drag
// that starts on a node never reaches the canvas and reports false.
func (r *Renderer) Drag(startX, startY, dx, dy float64) (*Scene, bool) {
	if r.HitTest(startX, startY) != nil {
		return r.scene, false
	}
	return r.Pan(dx, dy), true
}

func (r *Renderer) Tree() *domtree.TreeNode { return r.tree }

func (r *Renderer) Scene() *Scene { return r.scene }

func (r *Renderer) View() ViewConfig { return r.view }

func (r *Renderer) Transform() Transform { return r.transform }

func (r *Renderer) Tooltip() *Tooltip { return r.tooltip }

// Collapsed reports whether the node's subtree is hidden.
func (r *Renderer) Collapsed(id int) bool { return r.collapsed[id] }

// Size returns the drawing surface dimensions.
func (r *Renderer) Size() (width, height float64) { return r.width, r.height }

func clickable(n *domtree.TreeNode) bool {
	return n.IsElement() && n.HasChildren()
}
