package inspect

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/dgallion1/domview/internal/domtree"
	"github.com/dgallion1/domview/internal/status"
	"github.com/dgallion1/domview/internal/textfmt"
	"github.com/xlab/treeprint"
)

var _ status.Sink = (*DebugInspector)(nil)

// LogEntry is one line of the debug console.
type LogEntry struct {
	Time     time.Time       `json:"time"`
	Severity status.Severity `json:"severity"`
	Message  string          `json:"message"`
}

func (e LogEntry) String() string {
	return "[" + e.Time.Format("15:04:05") + "] " + e.Message
}

// OutlineEntry is one row of the expandable structure outline.
type OutlineEntry struct {
	ID         int    `json:"id"`
	Depth      int    `json:"depth"`
	Class      string `json:"class"`
	Text       string `json:"text"`
	Expandable bool   `json:"expandable"`
}

// DebugSnapshot is everything the debug panel shows.
type DebugSnapshot struct {
	Enabled bool           `json:"enabled"`
	Outline string         `json:"outline"`
	Entries []OutlineEntry `json:"entries"`
	Data    string         `json:"data"`
	Log     []LogEntry     `json:"log"`
}

// DebugInspector mirrors built trees and status traffic for diagnosis. It
// observes the builder and acts as the status sink; when disabled every
// method is a no-op.
type DebugInspector struct {
	mu            sync.Mutex
	enabled       bool
	maxTextLength int
	tree          *domtree.TreeNode
	outline       string
	entries       []OutlineEntry
	data          string
	log           []LogEntry
	now           func() time.Time
}

func NewDebugInspector(enabled bool, maxTextLength int) *DebugInspector {
	return &DebugInspector{enabled: enabled, maxTextLength: maxTextLength, now: time.Now}
}

func (d *DebugInspector) Enabled() bool { return d.enabled }

// OnTree records a freshly built tree.
func (d *DebugInspector) OnTree(tree *domtree.TreeNode) {
	if !d.enabled || tree == nil {
		return
	}
	outline := Outline(tree, d.maxTextLength)
	entries := d.outlineEntries(tree)
	data := textfmt.FormatJSON(tree)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.tree = tree
	d.outline = outline
	d.entries = entries
	d.data = data
}

// Log appends a timestamped console line.
func (d *DebugInspector) Log(message string, sev status.Severity) {
	if !d.enabled {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.log = append(d.log, LogEntry{Time: d.now(), Severity: sev, Message: message})
}

// LogError appends an error line, plus the stack when the error came from
// a recovered panic.
func (d *DebugInspector) LogError(err error) {
	if !d.enabled || err == nil {
		return
	}
	d.Log("Error: "+err.Error(), status.Error)
	var pe *status.PanicError
	if errors.As(err, &pe) {
		d.Log("Stack: "+string(pe.Stack), status.Error)
	}
}

// Clear empties the console log. The outline is kept.
func (d *DebugInspector) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.log = nil
}

func (d *DebugInspector) Tree() *domtree.TreeNode {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tree
}

func (d *DebugInspector) Snapshot() DebugSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return DebugSnapshot{
		Enabled: d.enabled,
		Outline: d.outline,
		Entries: append([]OutlineEntry(nil), d.entries...),
		Data:    d.data,
		Log:     append([]LogEntry(nil), d.log...),
	}
}

// Outline renders the tree as an indented text tree.
func Outline(tree *domtree.TreeNode, maxTextLength int) string {
	p := treeprint.New()
	addOutline(p, tree, maxTextLength)
	return p.String()
}

func addOutline(p treeprint.Tree, n *domtree.TreeNode, maxTextLength int) {
	label := outlineLabel(n, maxTextLength)
	if len(n.Children) == 0 {
		p.AddNode(label)
		return
	}
	branch := p.AddBranch(label)
	for _, c := range n.Children {
		addOutline(branch, c, maxTextLength)
	}
}

func (d *DebugInspector) outlineEntries(tree *domtree.TreeNode) []OutlineEntry {
	var entries []OutlineEntry
	domtree.Walk(tree, func(n *domtree.TreeNode, depth int) bool {
		entries = append(entries, OutlineEntry{
			ID:         n.ID,
			Depth:      depth,
			Class:      outlineClass(n),
			Text:       outlineLabel(n, d.maxTextLength),
			Expandable: n.HasChildren(),
		})
		return true
	})
	return entries
}

func outlineLabel(n *domtree.TreeNode, maxTextLength int) string {
	switch n.Kind {
	case domtree.KindElement:
		return OpenTag(n)
	case domtree.KindText:
		return `"` + textfmt.Truncate(n.Text, maxTextLength) + `"`
	case domtree.KindComment:
		return "<!-- " + textfmt.Truncate(n.Text, maxTextLength) + " -->"
	default:
		return strings.TrimSpace(n.Name)
	}
}

func outlineClass(n *domtree.TreeNode) string {
	switch n.Kind {
	case domtree.KindElement:
		return "element"
	case domtree.KindText:
		return "text"
	case domtree.KindComment:
		return "comment"
	default:
		return "other"
	}
}
