package viewer

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/domview/internal/config"
	"github.com/dgallion1/domview/internal/inspect"
	"github.com/dgallion1/domview/internal/parser"
	"github.com/dgallion1/domview/internal/render"
	"github.com/dgallion1/domview/internal/stats"
	"github.com/dgallion1/domview/internal/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const sampleMarkup = `<div id="main"><p>Hi</p><ul><li>a</li><li>b</li></ul></div>`

// switchNative delegates to x/net/html until fail is set.
type switchNative struct{ fail bool }

var errUnexpected = errors.New("unexpected token at line 3")

func (s *switchNative) ParseDocument(r io.Reader) (*html.Node, error) {
	if s.fail {
		return nil, errUnexpected
	}
	return html.Parse(r)
}

func (s *switchNative) ParseFragment(r io.Reader, context *html.Node) ([]*html.Node, error) {
	if s.fail {
		return nil, errUnexpected
	}
	return html.ParseFragment(r, context)
}

type fixture struct {
	app    *App
	native *switchNative
	rec    *stats.Recorder
	debug  *inspect.DebugInspector
}

func newFixture(t *testing.T, debug bool) *fixture {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Default()
	cfg.Debug = debug

	native := &switchNative{}
	rec := stats.New(time.Hour)
	dbg := inspect.NewDebugInspector(debug, cfg.Node.MaxTextLength)
	app, err := New(Deps{
		Builder:  parser.NewBuilder(parser.OptionsFrom(cfg), log).WithNative(native),
		Renderer: render.New(render.OptionsFrom(cfg), render.DefaultView(cfg), log),
		Detail:   inspect.NewDetailInspector(log),
		Debug:    dbg,
		Status:   status.NewNotifier(log, status.Options{ShowDetailedErrors: true}),
		Stats:    rec,
		Log:      log,
	})
	require.NoError(t, err)
	t.Cleanup(app.Close)
	return &fixture{app: app, native: native, rec: rec, debug: dbg}
}

// screenPoint returns the screen coordinates of a node's anchor.
func screenPoint(t *testing.T, s *render.Scene, id int) (float64, float64) {
	t.Helper()
	for _, n := range s.Nodes {
		if n.ID == id {
			return s.Transform.X + n.X*s.Transform.Scale, s.Transform.Y + n.Y*s.Transform.Scale
		}
	}
	t.Fatalf("node %d not in scene", id)
	return 0, 0
}

func TestNew_MissingCollaborator(t *testing.T) {
	_, err := New(Deps{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingCollaborator))
	assert.Contains(t, err.Error(), "builder")
}

func TestVisualize_Success(t *testing.T) {
	f := newFixture(t, false)

	st := f.app.Visualize(sampleMarkup)
	assert.Equal(t, MsgRendered, st.Status.Text)
	assert.Equal(t, status.Success, st.Status.Severity)
	require.NotNil(t, st.Scene)
	assert.Len(t, st.Scene.Nodes, 8)
	assert.Equal(t, 1, f.rec.Op(stats.Parse).Count)
	assert.Equal(t, 1, f.rec.Op(stats.Render).Count)
}

func TestVisualize_EmptyKeepsScene(t *testing.T) {
	f := newFixture(t, false)
	first := f.app.Visualize(sampleMarkup)

	st := f.app.Visualize("   \n\t")
	assert.Equal(t, MsgEmptyMarkup, st.Status.Text)
	assert.Equal(t, status.Error, st.Status.Severity)
	assert.Same(t, first.Scene, st.Scene)
	assert.Equal(t, 1, f.rec.Op(stats.Parse).Count, "empty input must not reach the builder")
}

func TestVisualize_ParseFailureKeepsScene(t *testing.T) {
	f := newFixture(t, false)
	first := f.app.Visualize(sampleMarkup)

	f.native.fail = true
	st := f.app.Visualize("<p>broken")
	assert.Equal(t, status.Error, st.Status.Severity)
	assert.True(t, strings.HasPrefix(st.Status.Text, labelProcess+": "))
	assert.Contains(t, st.Status.Text, errUnexpected.Error())
	assert.Same(t, first.Scene, st.Scene)
	assert.Equal(t, 1, f.rec.Op(stats.Parse).Failures)
}

func TestVisualize_DebugHint(t *testing.T) {
	f := newFixture(t, true)
	f.native.fail = true

	st := f.app.Visualize("<p>broken")
	require.Len(t, st.Messages, 2)
	assert.Equal(t, status.Error, st.Messages[0].Severity)
	assert.Contains(t, st.Messages[0].Text, errUnexpected.Error())
	assert.Equal(t, MsgDebugHint, st.Status.Text)
	assert.Equal(t, status.Warning, st.Status.Severity)

	snap, ok := f.app.Debug()
	require.True(t, ok)
	var sawError bool
	for _, e := range snap.Log {
		if strings.HasPrefix(e.Message, "Error: ") && strings.Contains(e.Message, errUnexpected.Error()) {
			sawError = true
		}
	}
	assert.True(t, sawError, "debug log should carry the parse error")
}

func TestDebug_ObservesTree(t *testing.T) {
	f := newFixture(t, true)
	f.app.Visualize(sampleMarkup)

	snap, ok := f.app.Debug()
	require.True(t, ok)
	assert.NotEmpty(t, snap.Outline)
	assert.Len(t, snap.Entries, 8)
	require.NotNil(t, f.debug.Tree())
	assert.Equal(t, "div", f.debug.Tree().Name)

	assert.True(t, f.app.ClearDebugLog())
	snap, _ = f.app.Debug()
	assert.Empty(t, snap.Log)
}

func TestDebug_Disabled(t *testing.T) {
	f := newFixture(t, false)
	_, ok := f.app.Debug()
	assert.False(t, ok)
	assert.False(t, f.app.ClearDebugLog())
}

func TestClick_TogglesSubtree(t *testing.T) {
	f := newFixture(t, false)
	st := f.app.Visualize(sampleMarkup)
	x, y := screenPoint(t, st.Scene, 1)

	st = f.app.Click(x, y)
	assert.Len(t, st.Scene.Nodes, 1)

	st = f.app.Click(x, y)
	assert.Len(t, st.Scene.Nodes, 8)
}

func TestEvents_IgnoredWithoutTree(t *testing.T) {
	f := newFixture(t, false)

	st := f.app.Click(600, 50)
	assert.Nil(t, st.Scene)
	assert.Empty(t, st.Messages)

	st = f.app.ExpandAll()
	assert.Nil(t, st.Scene)
	assert.Empty(t, st.Messages)
}

func TestDoubleClick_ShowsDetail(t *testing.T) {
	f := newFixture(t, false)
	st := f.app.Visualize(sampleMarkup)
	x, y := screenPoint(t, st.Scene, 1)

	st = f.app.DoubleClick(x, y)
	require.NotNil(t, st.Detail)
	assert.Equal(t, "<div> element details", st.Detail.Title)
	assert.Len(t, st.Scene.Nodes, 8, "double-click must not toggle")

	st = f.app.HideDetail()
	assert.Nil(t, st.Detail)
}

func TestHover_Tooltip(t *testing.T) {
	f := newFixture(t, false)
	st := f.app.Visualize(sampleMarkup)
	x, y := screenPoint(t, st.Scene, 1)

	st = f.app.Hover(x, y)
	require.NotNil(t, st.Tooltip)
	assert.Equal(t, "<div> (double-click for details)", st.Tooltip.Text)

	st = f.app.Hover(5, 790)
	assert.Nil(t, st.Tooltip)
}

func TestCollapseAndExpandAll(t *testing.T) {
	f := newFixture(t, false)
	f.app.Visualize(sampleMarkup)

	st := f.app.CollapseAll()
	assert.Len(t, st.Scene.Nodes, 3) // div, p, ul

	st = f.app.ExpandAll()
	assert.Len(t, st.Scene.Nodes, 8)
}

func TestZoomAndDrag(t *testing.T) {
	f := newFixture(t, false)
	f.app.Visualize(sampleMarkup)

	st := f.app.ZoomIn()
	assert.InDelta(t, 1.2, st.Scene.Transform.Scale, 1e-9)

	before := st.Scene.Transform
	st = f.app.Drag(5, 790, 30, -10)
	assert.InDelta(t, before.X+30, st.Scene.Transform.X, 1e-9)
	assert.InDelta(t, before.Y-10, st.Scene.Transform.Y, 1e-9)

	st = f.app.ResetZoom()
	assert.InDelta(t, 1, st.Scene.Transform.Scale, 1e-9)
	assert.InDelta(t, 600, st.Scene.Transform.X, 1e-9)
}

func TestSetView_CommentsRebuild(t *testing.T) {
	f := newFixture(t, false)
	st := f.app.Visualize(`<div><!-- note --><p>x</p></div>`)
	assert.Len(t, st.Scene.Nodes, 3)

	view := st.View
	view.ShowComments = true
	st = f.app.SetView(view)
	assert.Len(t, st.Scene.Nodes, 4)
	assert.True(t, st.View.ShowComments)
}

func TestSetView_CommentsRebuildKeepsView(t *testing.T) {
	f := newFixture(t, false)
	st := f.app.Visualize(`<div><p><b>x</b></p><!-- note --><ul><li>a</li></ul></div>`)
	x, y := screenPoint(t, st.Scene, 2)
	f.app.Click(x, y) // collapse <p>
	st = f.app.ZoomIn()
	before := st.Scene.Transform
	hidden := len(st.Scene.Nodes)

	view := st.View
	view.ShowComments = true
	st = f.app.SetView(view)
	assert.Equal(t, before, st.Scene.Transform)
	assert.Len(t, st.Scene.Nodes, hidden+1, "comment added, <p> still collapsed")
}

func TestSetView_CommentsRebuildFailure(t *testing.T) {
	f := newFixture(t, false)
	first := f.app.Visualize(`<div><!--a--><p>Hi</p><!--b--></div>`)
	require.Len(t, first.Scene.Nodes, 3)

	f.native.fail = true
	view := first.View
	view.ShowComments = true
	st := f.app.SetView(view)

	require.NotEmpty(t, st.Messages)
	last := st.Messages[len(st.Messages)-1]
	assert.Equal(t, status.Error, last.Severity)
	assert.True(t, strings.HasPrefix(last.Text, labelView+": "))
	assert.Contains(t, last.Text, errUnexpected.Error())
	assert.False(t, st.View.ShowComments, "controls roll back")
	assert.Len(t, st.Scene.Nodes, 3)

	f.native.fail = false
	st = f.app.Visualize(`<div><!--a--><p>Hi</p><!--b--></div>`)
	assert.Len(t, st.Scene.Nodes, 3, "builder still filters comments")
}

func TestSetView_Layout(t *testing.T) {
	f := newFixture(t, false)
	st := f.app.Visualize(sampleMarkup)

	view := st.View
	view.Layout = "radial"
	st = f.app.SetView(view)
	assert.Equal(t, "radial", string(st.Scene.Layout))
	assert.Len(t, st.Scene.Nodes, 8)
}

func TestSetView_InvalidLayout(t *testing.T) {
	f := newFixture(t, false)
	first := f.app.Visualize(sampleMarkup)

	view := first.View
	view.Layout = "spiral"
	st := f.app.SetView(view)
	assert.Equal(t, status.Error, st.Status.Severity)
	assert.Same(t, first.Scene, st.Scene)
}

func TestResize(t *testing.T) {
	f := newFixture(t, false)
	f.app.Visualize(sampleMarkup)

	st := f.app.Resize(800, 600)
	assert.InDelta(t, 800, st.Scene.Width, 1e-9)
	assert.InDelta(t, 600, st.Scene.Height, 1e-9)
}
