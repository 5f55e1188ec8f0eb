package parser

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/domview/internal/domtree"
	"golang.org/x/net/html"
)

func testOptions() Options {
	return Options{
		SkipWhitespace:  true,
		ShowComments:    false,
		MaxNestingLevel: 100,
		Timeout:         5 * time.Second,
	}
}

func newTestBuilder(opts Options) *Builder {
	return NewBuilder(opts, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestBuild_CommentDroppedByDefault(t *testing.T) {
	tree, err := newTestBuilder(testOptions()).Build(`<div><p>Hi</p><!--note--></div>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tree.Kind != domtree.KindElement || tree.Name != "div" {
		t.Fatalf("expected root <div>, got %s %q", tree.Kind, tree.Name)
	}
	if len(tree.Children) != 1 {
		t.Fatalf("expected 1 child, got %d", len(tree.Children))
	}
	p := tree.Children[0]
	if p.Name != "p" || len(p.Children) != 1 {
		t.Fatalf("expected <p> with one child, got %q with %d", p.Name, len(p.Children))
	}
	text := p.Children[0]
	if text.Kind != domtree.KindText || text.Text != "Hi" || text.Name != domtree.TextName {
		t.Errorf("expected text node %q, got %+v", "Hi", text)
	}
	if text.Attributes != nil {
		t.Error("text nodes must not carry attributes")
	}
}

func TestBuild_CommentKeptWhenEnabled(t *testing.T) {
	opts := testOptions()
	opts.ShowComments = true
	tree, err := newTestBuilder(opts).Build(`<div><p>Hi</p><!--note--></div>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tree.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(tree.Children))
	}
	c := tree.Children[1]
	if c.Kind != domtree.KindComment || c.Text != "note" {
		t.Errorf("expected comment %q, got %+v", "note", c)
	}
}

func TestBuild_WhitespaceFilter(t *testing.T) {
	input := "<ul>\n  <li>a</li>\n</ul>"

	tree, err := newTestBuilder(testOptions()).Build(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tree.Children) != 1 {
		t.Fatalf("expected whitespace dropped, got %d children", len(tree.Children))
	}

	opts := testOptions()
	opts.SkipWhitespace = false
	tree, err = newTestBuilder(opts).Build(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tree.Children) != 3 {
		t.Fatalf("expected 3 children with whitespace kept, got %d", len(tree.Children))
	}
	if tree.Children[0].Kind != domtree.KindText || tree.Children[0].Text != "\n  " {
		t.Errorf("expected original whitespace text, got %q", tree.Children[0].Text)
	}
}

func TestBuild_IDsArePreOrderAndReset(t *testing.T) {
	b := newTestBuilder(testOptions())
	input := `<section><h1>T</h1><p>a <em>b</em></p></section>`

	first, err := b.Build(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 1
	domtree.Walk(first, func(n *domtree.TreeNode, _ int) bool {
		if n.ID != want {
			t.Errorf("expected id %d for %q, got %d", want, n.Name, n.ID)
		}
		want++
		return true
	})

	second, err := b.Build(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.ID != 1 {
		t.Errorf("expected id counter to reset, root id %d", second.ID)
	}
	if !domtree.Equal(first, second) {
		t.Error("expected identical input to give structurally equal trees")
	}
	if first == second {
		t.Error("expected a fresh tree per build")
	}
}

func TestBuild_CountMatchesIncludedNodes(t *testing.T) {
	// div + (h1, text) + (ul, li, text, li, text) = 8
	tree, err := newTestBuilder(testOptions()).Build(`<div><h1>x</h1><ul><li>a</li><li>b</li></ul></div>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := domtree.Count(tree); n != 8 {
		t.Errorf("expected 8 nodes, got %d", n)
	}
}

func TestBuild_DepthGuardInsertsSingleSentinel(t *testing.T) {
	opts := testOptions()
	opts.MaxNestingLevel = 2
	tree, err := newTestBuilder(opts).Build(`<div><div><div><span>deep</span><span>deeper</span></div></div></div>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cut := tree.Children[0].Children[0]
	if len(cut.Children) != 1 {
		t.Fatalf("expected exactly one sentinel at the cutoff, got %d children", len(cut.Children))
	}
	s := cut.Children[0]
	if s.Kind != domtree.KindOther || s.Name != domtree.SentinelName {
		t.Errorf("expected sentinel node, got %+v", s)
	}
	if len(s.Children) != 0 {
		t.Error("sentinel must be a leaf")
	}
	if !strings.Contains(s.Text, "2") {
		t.Errorf("expected sentinel text to name the limit, got %q", s.Text)
	}
	if d := domtree.Depth(tree); d != 4 {
		t.Errorf("expected depth 4 including sentinel, got %d", d)
	}
}

func TestBuild_TimeoutDiscardsTree(t *testing.T) {
	opts := testOptions()
	opts.Timeout = 2500 * time.Millisecond
	b := newTestBuilder(opts)

	var calls int
	base := time.Unix(0, 0)
	b.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls-1) * time.Second)
	}
	var notified bool
	b.Subscribe(ObserverFunc(func(*domtree.TreeNode) { notified = true }))

	tree, err := b.Build(`<div><p>a</p><p>b</p></div>`)
	if tree != nil {
		t.Error("expected no partial tree on timeout")
	}
	var te *TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("expected TimeoutError, got %v", err)
	}
	if te.Limit != opts.Timeout {
		t.Errorf("expected limit %v, got %v", opts.Timeout, te.Limit)
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		t.Error("timeout must be distinct from ParseError")
	}
	if notified {
		t.Error("observers must not see failed builds")
	}
}

func TestBuild_NodeLimit(t *testing.T) {
	opts := testOptions()
	opts.MaxNodes = 3
	_, err := newTestBuilder(opts).Build(`<ul><li>a</li><li>b</li></ul>`)
	var le *NodeLimitError
	if !errors.As(err, &le) {
		t.Fatalf("expected NodeLimitError, got %v", err)
	}
	if le.Limit != 3 {
		t.Errorf("expected limit 3, got %d", le.Limit)
	}
}

type failingNative struct{ err error }

func (f failingNative) ParseDocument(io.Reader) (*html.Node, error) { return nil, f.err }

func (f failingNative) ParseFragment(io.Reader, *html.Node) ([]*html.Node, error) {
	return nil, f.err
}

func TestBuild_NativeErrorBecomesParseError(t *testing.T) {
	b := newTestBuilder(testOptions()).WithNative(failingNative{err: errors.New("unexpected EOF in tag")})

	for _, input := range []string{"<div>", "<!DOCTYPE html><html>"} {
		_, err := b.Build(input)
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Fatalf("%q: expected ParseError, got %v", input, err)
		}
		if !strings.Contains(err.Error(), "unexpected EOF in tag") {
			t.Errorf("%q: expected native text in error, got %q", input, err.Error())
		}
	}
}

func TestBuild_EmptyMarkup(t *testing.T) {
	_, err := newTestBuilder(testOptions()).Build("   \n\t ")
	if !errors.Is(err, ErrEmptyMarkup) {
		t.Fatalf("expected ErrEmptyMarkup, got %v", err)
	}
}

func TestBuild_DocumentRootIsHTML(t *testing.T) {
	input := `<!DOCTYPE html><html><head><title>T</title></head><body><p>x</p></body></html>`
	tree, err := newTestBuilder(testOptions()).Build(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Name != "html" {
		t.Fatalf("expected root html, got %q", tree.Name)
	}
	if len(tree.Children) != 2 || tree.Children[0].Name != "head" || tree.Children[1].Name != "body" {
		t.Errorf("expected head and body children, got %d", len(tree.Children))
	}
	if tree.Text != "Tx" {
		t.Errorf("expected element text content %q, got %q", "Tx", tree.Text)
	}
}

func TestBuild_FragmentWithSeveralRootsUsesBody(t *testing.T) {
	tree, err := newTestBuilder(testOptions()).Build(`<p>a</p><p>b</p>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Name != "body" || len(tree.Children) != 2 {
		t.Fatalf("expected synthetic body with 2 children, got %q with %d", tree.Name, len(tree.Children))
	}
}

func TestBuild_AttributesInOrderAndLowercaseTag(t *testing.T) {
	tree, err := newTestBuilder(testOptions()).Build(`<DIV ID="main" class="box" data-x="1"></DIV>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Name != "div" {
		t.Errorf("expected lowercase tag, got %q", tree.Name)
	}
	want := []domtree.Attribute{
		{Name: "id", Value: "main"},
		{Name: "class", Value: "box"},
		{Name: "data-x", Value: "1"},
	}
	if len(tree.Attributes) != len(want) {
		t.Fatalf("expected %d attributes, got %d", len(want), len(tree.Attributes))
	}
	for i := range want {
		if tree.Attributes[i] != want[i] {
			t.Errorf("attr %d: expected %+v, got %+v", i, want[i], tree.Attributes[i])
		}
	}
}

func TestBuild_ObserverReceivesTree(t *testing.T) {
	b := newTestBuilder(testOptions())
	var got *domtree.TreeNode
	b.Subscribe(ObserverFunc(func(tree *domtree.TreeNode) { got = tree }))

	tree, err := b.Build(`<b>x</b>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != tree {
		t.Error("expected observer to receive the built tree")
	}
}
