// Package parser converts markup text into an immutable domtree.TreeNode
// tree. Tokenizing and tree construction are delegated to x/net/html; this
// package filters, converts and bounds the result.
package parser

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/dgallion1/domview/internal/config"
	"github.com/dgallion1/domview/internal/domtree"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Options bound and filter a build.
type Options struct {
	SkipWhitespace  bool
	ShowComments    bool
	MaxNestingLevel int
	Timeout         time.Duration
	MaxNodes        int // 0 disables the node-count guard
}

// OptionsFrom derives builder options from the application configuration.
func OptionsFrom(cfg config.Config) Options {
	return Options{
		SkipWhitespace:  cfg.Parser.SkipWhitespace,
		ShowComments:    cfg.Node.ShowComments,
		MaxNestingLevel: cfg.Parser.MaxNestingLevel,
		Timeout:         cfg.Parser.Timeout,
		MaxNodes:        cfg.Parser.MaxNodes,
	}
}

// NativeParser structures markup into x/net/html nodes.
type NativeParser interface {
	ParseDocument(r io.Reader) (*html.Node, error)
	ParseFragment(r io.Reader, context *html.Node) ([]*html.Node, error)
}

type htmlParser struct{}

func (htmlParser) ParseDocument(r io.Reader) (*html.Node, error) { return html.Parse(r) }

func (htmlParser) ParseFragment(r io.Reader, context *html.Node) ([]*html.Node, error) {
	return html.ParseFragment(r, context)
}

// Observer is notified of every successfully built tree.
type Observer interface {
	OnTree(tree *domtree.TreeNode)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(tree *domtree.TreeNode)

func (f ObserverFunc) OnTree(tree *domtree.TreeNode) { f(tree) }

// Builder turns markup into trees. A Builder holds no per-parse state, so
// node IDs restart at 1 on every Build.
type Builder struct {
	opts      Options
	native    NativeParser
	observers []Observer
	now       func() time.Time
	log       *slog.Logger
}

func NewBuilder(opts Options, log *slog.Logger) *Builder {
	if log == nil {
		log = slog.Default()
	}
	return &Builder{
		opts:   opts,
		native: htmlParser{},
		now:    time.Now,
		log:    log,
	}
}

// WithNative replaces the x/net/html parser.
func (b *Builder) WithNative(p NativeParser) *Builder {
	b.native = p
	return b
}

// Subscribe registers an observer for produced trees.
func (b *Builder) Subscribe(o Observer) {
	b.observers = append(b.observers, o)
}

// Options returns the options in effect.
func (b *Builder) Options() Options { return b.opts }

// SetShowComments toggles comment inclusion for subsequent builds.
func (b *Builder) SetShowComments(show bool) { b.opts.ShowComments = show }

// Build parses markup and converts it into a tree. On any error no tree is
// returned: a *ParseError for native failures, a *TimeoutError or
// *NodeLimitError when a guard trips.
func (b *Builder) Build(markup string) (*domtree.TreeNode, error) {
	if strings.TrimSpace(markup) == "" {
		return nil, &ParseError{Err: ErrEmptyMarkup}
	}

	w := &walker{opts: b.opts, now: b.now, start: b.now()}

	root, err := b.nativeRoot(markup)
	if err != nil {
		return nil, err
	}

	tree, err := w.walk(root, 0)
	if err != nil {
		return nil, err
	}

	b.log.Debug("parsed markup",
		"nodes", w.nextID,
		"duration_ms", b.now().Sub(w.start).Milliseconds(),
	)
	for _, o := range b.observers {
		o.OnTree(tree)
	}
	return tree, nil
}

// nativeRoot picks the native node that becomes the tree root: the document
// element for full documents, otherwise the single top-level element of the
// fragment or a synthetic body holding all fragment nodes.
func (b *Builder) nativeRoot(markup string) (*html.Node, error) {
	if isDocument(markup) {
		doc, err := b.native.ParseDocument(strings.NewReader(markup))
		if err != nil {
			return nil, &ParseError{Err: err}
		}
		for c := doc.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode {
				return c, nil
			}
		}
		return nil, &ParseError{Err: fmt.Errorf("document has no root element")}
	}

	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := b.native.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	var eligible []*html.Node
	for _, n := range nodes {
		if included(n, b.opts) {
			eligible = append(eligible, n)
		}
	}
	if len(eligible) == 1 && eligible[0].Type == html.ElementNode {
		return eligible[0], nil
	}

	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	for _, n := range nodes {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		body.AppendChild(n)
	}
	return body, nil
}

func isDocument(markup string) bool {
	lower := strings.ToLower(markup)
	return strings.Contains(lower, "<html") || strings.Contains(lower, "<!doctype")
}

type walker struct {
	opts   Options
	now    func() time.Time
	start  time.Time
	nextID int
}

func (w *walker) id() int {
	w.nextID++
	return w.nextID
}

func (w *walker) walk(n *html.Node, depth int) (*domtree.TreeNode, error) {
	if elapsed := w.now().Sub(w.start); w.opts.Timeout > 0 && elapsed > w.opts.Timeout {
		return nil, &TimeoutError{Elapsed: elapsed, Limit: w.opts.Timeout}
	}
	if w.opts.MaxNodes > 0 && w.nextID >= w.opts.MaxNodes {
		return nil, &NodeLimitError{Limit: w.opts.MaxNodes}
	}

	node := convert(n, w.id())

	var kids []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if included(c, w.opts) {
			kids = append(kids, c)
		}
	}
	if len(kids) == 0 {
		return node, nil
	}

	if depth >= w.opts.MaxNestingLevel {
		node.Children = []*domtree.TreeNode{{
			Kind: domtree.KindOther,
			Name: domtree.SentinelName,
			Text: fmt.Sprintf("maximum nesting level reached (%d)", w.opts.MaxNestingLevel),
			ID:   w.id(),
		}}
		return node, nil
	}

	node.Children = make([]*domtree.TreeNode, 0, len(kids))
	for _, c := range kids {
		child, err := w.walk(c, depth+1)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}

// included is the inclusion filter applied to every child before recursion.
func included(n *html.Node, opts Options) bool {
	switch n.Type {
	case html.ElementNode:
		return true
	case html.TextNode:
		return !(opts.SkipWhitespace && strings.TrimSpace(n.Data) == "")
	case html.CommentNode:
		return opts.ShowComments
	default:
		return false
	}
}

func convert(n *html.Node, id int) *domtree.TreeNode {
	switch n.Type {
	case html.ElementNode:
		node := &domtree.TreeNode{
			Kind: domtree.KindElement,
			Name: strings.ToLower(n.Data),
			Text: textContent(n),
			ID:   id,
		}
		if len(n.Attr) > 0 {
			node.Attributes = make([]domtree.Attribute, 0, len(n.Attr))
			for _, a := range n.Attr {
				name := a.Key
				if a.Namespace != "" {
					name = a.Namespace + ":" + a.Key
				}
				node.Attributes = append(node.Attributes, domtree.Attribute{Name: name, Value: a.Val})
			}
		}
		return node
	case html.TextNode:
		return &domtree.TreeNode{Kind: domtree.KindText, Name: domtree.TextName, Text: n.Data, ID: id}
	case html.CommentNode:
		return &domtree.TreeNode{Kind: domtree.KindComment, Name: domtree.CommentName, Text: n.Data, ID: id}
	default:
		return &domtree.TreeNode{Kind: domtree.KindOther, Name: n.Data, Text: n.Data, ID: id}
	}
}

// textContent concatenates the data of all descendant text nodes.
func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return buf.String()
}
