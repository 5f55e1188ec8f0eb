// Package viewer ties the builder, renderer, inspectors and status notifier
// together into one interactive session. All operations on an App are
// serialized; failures surface as status messages and leave prior state
// untouched.
package viewer

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dgallion1/domview/internal/config"
	"github.com/dgallion1/domview/internal/domtree"
	"github.com/dgallion1/domview/internal/inspect"
	"github.com/dgallion1/domview/internal/parser"
	"github.com/dgallion1/domview/internal/render"
	"github.com/dgallion1/domview/internal/stats"
	"github.com/dgallion1/domview/internal/status"
)

var _ parser.Observer = (*inspect.DebugInspector)(nil)

// User-facing status texts.
const (
	MsgEmptyMarkup   = "Please enter HTML markup!"
	MsgRendered      = "DOM tree rendered"
	MsgDebugHint     = "Debug mode is enabled! Open the debug panel for details."
	labelProcess     = "Error processing the DOM tree"
	labelDetail      = "Error showing node details"
	labelView        = "Error applying view settings"
	labelToggle      = "Error toggling node"
	labelExpand      = "Error expanding nodes"
	labelCollapse    = "Error collapsing nodes"
	labelResize      = "Error resizing the diagram"
	debugHintTimeout = 10 * time.Second
)

// ErrMissingCollaborator is returned by New when a required part is nil.
var ErrMissingCollaborator = errors.New("missing collaborator")

// Deps are the collaborators of an App. Debug and Stats are optional.
type Deps struct {
	Builder  *parser.Builder
	Renderer *render.Renderer
	Detail   *inspect.DetailInspector
	Debug    *inspect.DebugInspector
	Status   *status.Notifier
	Stats    *stats.Recorder
	Log      *slog.Logger
}

// State is what a client needs to redraw after an operation.
type State struct {
	Status   status.Message    `json:"status"`
	Messages []status.Message  `json:"messages,omitempty"` // shown during this operation, oldest first
	Scene    *render.Scene     `json:"-"`
	Tooltip  *render.Tooltip   `json:"tooltip,omitempty"`
	Detail   *inspect.Detail   `json:"detail,omitempty"`
	View     render.ViewConfig `json:"view"`
}

// App is one viewer session.
type App struct {
	mu       sync.Mutex
	builder  *parser.Builder
	renderer *render.Renderer
	detail   *inspect.DetailInspector
	debug    *inspect.DebugInspector
	status   *status.Notifier
	stats    *stats.Recorder
	log      *slog.Logger
	markup   string
}

// New wires an App. When the debug inspector is enabled it observes built
// trees and receives all status traffic.
func New(d Deps) (*App, error) {
	switch {
	case d.Builder == nil:
		return nil, fmt.Errorf("viewer: %w: builder", ErrMissingCollaborator)
	case d.Renderer == nil:
		return nil, fmt.Errorf("viewer: %w: renderer", ErrMissingCollaborator)
	case d.Detail == nil:
		return nil, fmt.Errorf("viewer: %w: detail inspector", ErrMissingCollaborator)
	case d.Status == nil:
		return nil, fmt.Errorf("viewer: %w: status notifier", ErrMissingCollaborator)
	}
	if d.Log == nil {
		d.Log = slog.Default()
	}

	a := &App{
		builder:  d.Builder,
		renderer: d.Renderer,
		detail:   d.Detail,
		debug:    d.Debug,
		status:   d.Status,
		stats:    d.Stats,
		log:      d.Log,
	}
	if a.debugOn() {
		a.builder.Subscribe(a.debug)
		a.status.SetSink(a.debug)
	}
	return a, nil
}

// NewFromConfig builds an App with collaborators derived from cfg.
func NewFromConfig(cfg config.Config, rec *stats.Recorder, log *slog.Logger) (*App, error) {
	if log == nil {
		log = slog.Default()
	}
	return New(Deps{
		Builder:  parser.NewBuilder(parser.OptionsFrom(cfg), log),
		Renderer: render.New(render.OptionsFrom(cfg), render.DefaultView(cfg), log),
		Detail:   inspect.NewDetailInspector(log),
		Debug:    inspect.NewDebugInspector(cfg.Debug, cfg.Node.MaxTextLength),
		Status: status.NewNotifier(log, status.Options{
			LogToConsole:       cfg.LogToConsole,
			ShowDetailedErrors: cfg.Errors.ShowDetailedErrors,
		}),
		Stats: rec,
		Log:   log,
	})
}

func (a *App) debugOn() bool { return a.debug != nil && a.debug.Enabled() }

// Visualize builds and draws markup. Empty markup and build or render
// failures only produce a status message.
func (a *App) Visualize(markup string) State {
	a.mu.Lock()
	defer a.mu.Unlock()
	seq := a.status.Current().Seq

	if strings.TrimSpace(markup) == "" {
		a.status.Show(MsgEmptyMarkup, status.Error, status.DefaultTimeout)
		return a.stateSince(seq)
	}
	if a.visualize(markup) {
		a.status.Show(MsgRendered, status.Success, status.DefaultTimeout)
	}
	return a.stateSince(seq)
}

// visualize builds and renders markup with the current view. The error text
// is always shown, regardless of the detailed-errors setting.
func (a *App) visualize(markup string) bool {
	a.builder.SetShowComments(a.renderer.View().ShowComments)

	var failure error
	_, ok := status.Guard(a.status, labelProcess, false, func() (*render.Scene, error) {
		tree, err := a.build(markup)
		if err != nil {
			failure = err
			return nil, err
		}
		done := a.timer(stats.Render)
		scene, err := a.renderer.Render(tree, a.renderer.View())
		done(err)
		if err != nil {
			failure = err
			return nil, err
		}
		return scene, nil
	})
	if ok {
		a.markup = markup
		a.detail.Hide()
		return true
	}

	text := labelProcess
	if failure != nil {
		text += ": " + failure.Error()
	}
	a.status.Show(text, status.Error, status.DefaultTimeout)
	if a.debugOn() {
		a.status.Show(MsgDebugHint, status.Warning, debugHintTimeout)
	}
	return false
}

func (a *App) build(markup string) (*domtree.TreeNode, error) {
	done := a.timer(stats.Parse)
	tree, err := a.builder.Build(markup)
	done(err)
	return tree, err
}

func (a *App) timer(op stats.Op) func(error) {
	if a.stats == nil {
		return func(error) {}
	}
	return a.stats.Start(op)
}

// SetView applies new drawing controls. Switching comment visibility
// rebuilds the current markup since comments are filtered at build time; pan,
// zoom and collapse state survive the rebuild. A failed rebuild restores the
// previous controls.
func (a *App) SetView(view render.ViewConfig) State {
	a.mu.Lock()
	defer a.mu.Unlock()
	seq := a.status.Current().Seq

	prev := a.renderer.View()
	_, ok := status.Guard(a.status, labelView, true, func() (*render.Scene, error) {
		return a.renderer.SetView(view)
	})
	if !ok || prev.ShowComments == view.ShowComments || a.markup == "" {
		return a.stateSince(seq)
	}

	a.builder.SetShowComments(view.ShowComments)
	_, ok = status.Guard(a.status, labelView, true, func() (*render.Scene, error) {
		tree, err := a.build(a.markup)
		if err != nil {
			return nil, err
		}
		return a.renderer.Replace(tree)
	})
	if !ok {
		a.builder.SetShowComments(prev.ShowComments)
		if _, err := a.renderer.SetView(prev); err != nil {
			a.log.Warn("restoring view failed", "error", err)
		}
	}
	return a.stateSince(seq)
}

// Click toggles the node under the screen point.
func (a *App) Click(x, y float64) State {
	return a.withTree(func() {
		status.Guard(a.status, labelToggle, true, func() (*render.Scene, error) {
			return a.renderer.Click(x, y)
		})
	})
}

// Hover updates the tooltip for the screen point.
func (a *App) Hover(x, y float64) State {
	return a.withTree(func() { a.renderer.Hover(x, y) })
}

// DoubleClick opens the detail view for the node under the screen point.
// Collapse state is left alone.
func (a *App) DoubleClick(x, y float64) State {
	return a.withTree(func() {
		n := a.renderer.DoubleClick(x, y)
		if n == nil {
			return
		}
		var failure error
		_, ok := status.Guard(a.status, labelDetail, false, func() (*inspect.Detail, error) {
			d, err := a.detail.Show(n)
			failure = err
			return d, err
		})
		if !ok {
			text := labelDetail
			if failure != nil {
				text += ": " + failure.Error()
			}
			a.status.Show(text, status.Error, status.DefaultTimeout)
		}
	})
}

// Drag pans the view when the gesture started on empty canvas.
func (a *App) Drag(startX, startY, dx, dy float64) State {
	return a.withTree(func() { a.renderer.Drag(startX, startY, dx, dy) })
}

// ZoomIn scales the view up by the configured factor.
func (a *App) ZoomIn() State {
	return a.withTree(func() { a.renderer.ZoomIn() })
}

// ZoomOut scales the view down by the configured factor.
func (a *App) ZoomOut() State {
	return a.withTree(func() { a.renderer.ZoomOut() })
}

// ResetZoom restores scale 1 and the default centering.
func (a *App) ResetZoom() State {
	return a.withTree(func() { a.renderer.ResetZoom() })
}

// ExpandAll shows every node.
func (a *App) ExpandAll() State {
	return a.withTree(func() {
		status.Guard(a.status, labelExpand, true, a.renderer.ExpandAll)
	})
}

// CollapseAll hides the subtrees of every clickable node below the root.
func (a *App) CollapseAll() State {
	return a.withTree(func() {
		status.Guard(a.status, labelCollapse, true, a.renderer.CollapseAll)
	})
}

// Resize changes the drawing surface. Without a tree the new size is kept
// for the next render.
func (a *App) Resize(width, height float64) State {
	a.mu.Lock()
	defer a.mu.Unlock()
	seq := a.status.Current().Seq
	status.Guard(a.status, labelResize, true, func() (*render.Scene, error) {
		return a.renderer.Resize(width, height)
	})
	return a.stateSince(seq)
}

// HideDetail closes the detail view.
func (a *App) HideDetail() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detail.Hide()
	return a.stateSince(a.status.Current().Seq)
}

// Status returns the current status message.
func (a *App) Status() status.Message {
	return a.status.Current()
}

// State returns the current state without changing anything.
func (a *App) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stateSince(a.status.Current().Seq)
}

// Scene returns the last drawn scene, or nil before the first render.
func (a *App) Scene() *render.Scene {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.renderer.Scene()
}

// Tree returns the tree currently on display, or nil.
func (a *App) Tree() *domtree.TreeNode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.renderer.Tree()
}

// Debug returns the debug snapshot. It reports false when debug mode is off.
func (a *App) Debug() (inspect.DebugSnapshot, bool) {
	if !a.debugOn() {
		return inspect.DebugSnapshot{}, false
	}
	return a.debug.Snapshot(), true
}

// ClearDebugLog empties the debug log.
func (a *App) ClearDebugLog() bool {
	if !a.debugOn() {
		return false
	}
	a.debug.Clear()
	return true
}

// Close stops pending status timers.
func (a *App) Close() {
	a.status.Stop()
}

// withTree runs fn under the lock when a tree is on display. Without a tree
// interaction events are ignored.
func (a *App) withTree(fn func()) State {
	a.mu.Lock()
	defer a.mu.Unlock()
	seq := a.status.Current().Seq
	if a.renderer.Tree() != nil {
		fn()
	}
	return a.stateSince(seq)
}

func (a *App) stateSince(seq uint64) State {
	st := State{
		Status:   a.status.Current(),
		Messages: a.status.Since(seq),
		Scene:    a.renderer.Scene(),
		Tooltip:  a.renderer.Tooltip(),
		View:     a.renderer.View(),
	}
	if d, ok := a.detail.Current(); ok {
		st.Detail = d
	}
	return st
}
