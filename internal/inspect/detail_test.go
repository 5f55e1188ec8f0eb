package inspect

import (
	"strings"
	"testing"

	"github.com/dgallion1/domview/internal/domtree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleElement() *domtree.TreeNode {
	return &domtree.TreeNode{
		Kind: domtree.KindElement,
		Name: "a",
		ID:   4,
		Attributes: []domtree.Attribute{
			{Name: "href", Value: "/x"},
			{Name: "class", Value: "nav"},
			{Name: "id", Value: "home"},
			{Name: "title", Value: "Home"},
		},
		Children: []*domtree.TreeNode{
			{Kind: domtree.KindText, Name: domtree.TextName, Text: "Home", ID: 5},
		},
	}
}

func prop(t *testing.T, d *Detail, name string) string {
	t.Helper()
	for _, p := range d.Properties {
		if p.Name == name {
			return p.Value
		}
	}
	t.Fatalf("property %q missing", name)
	return ""
}

func TestFormat_Element(t *testing.T) {
	d, err := Format(sampleElement())
	require.NoError(t, err)

	assert.Equal(t, "<a> element details", d.Title)
	assert.Equal(t, "<a href=\"/x\" class=\"nav\" id=\"home\" title=\"Home\">\n  ...\n</a>", d.Body)
	assert.Contains(t, d.BodyHTML, `<span style="color:var(--element-color)">&lt;a</span>`)
	assert.NotContains(t, d.BodyHTML, "<a ")
	assert.Equal(t, "Element", prop(t, d, "Type"))
	assert.Equal(t, "a", prop(t, d, "Tag"))
	assert.Equal(t, "4", prop(t, d, "Unique ID"))
	assert.Equal(t, "href=\"/x\"\nclass=\"nav\"\nid=\"home\"\ntitle=\"Home\"", prop(t, d, "Attributes"), "all attributes, uncapped")
	assert.Equal(t, "1", prop(t, d, "Children"))
}

func TestFormat_ElementWithoutChildrenOrAttributes(t *testing.T) {
	d, err := Format(&domtree.TreeNode{Kind: domtree.KindElement, Name: "br", ID: 2})
	require.NoError(t, err)
	assert.Equal(t, "<br>\n  ...\n</br>", d.Body)
	assert.Len(t, d.Properties, 3)
}

func TestFormat_Text(t *testing.T) {
	d, err := Format(&domtree.TreeNode{Kind: domtree.KindText, Name: domtree.TextName, Text: "  héllo ", ID: 7})
	require.NoError(t, err)

	assert.Equal(t, "Text node details", d.Title)
	assert.Equal(t, "  héllo ", d.Body, "raw, untrimmed text")
	assert.Equal(t, "8 characters", prop(t, d, "Length"))
	assert.Equal(t, "  héllo ", prop(t, d, "Content"))
}

func TestFormat_LongTextPreview(t *testing.T) {
	long := strings.Repeat("x", 150)
	d, err := Format(&domtree.TreeNode{Kind: domtree.KindText, Name: domtree.TextName, Text: long, ID: 1})
	require.NoError(t, err)

	assert.Equal(t, long, d.Body)
	assert.Equal(t, strings.Repeat("x", 100)+"...", prop(t, d, "Content (first 100 characters)"))
}

func TestFormat_Comment(t *testing.T) {
	d, err := Format(&domtree.TreeNode{Kind: domtree.KindComment, Name: domtree.CommentName, Text: "note", ID: 3})
	require.NoError(t, err)

	assert.Equal(t, "Comment details", d.Title)
	assert.Equal(t, "<!-- note -->", d.Body)
	assert.Equal(t, "Comment", prop(t, d, "Type"))
	assert.Equal(t, "4 characters", prop(t, d, "Length"))
}

func TestFormat_OtherKinds(t *testing.T) {
	d, err := Format(&domtree.TreeNode{Kind: domtree.KindOther, Name: domtree.SentinelName, ID: 9})
	require.NoError(t, err)
	assert.Equal(t, "Node details (type: OTHER_NODE)", d.Title)
	assert.Equal(t, "Node type: OTHER_NODE, Name: MAX_NESTING_LEVEL", d.Body)

	d, err = Format(&domtree.TreeNode{Kind: domtree.Kind(42), Name: "x", ID: 10})
	require.NoError(t, err)
	assert.Contains(t, d.Title, "UNKNOWN_TYPE(42)")
}

func TestFormat_Errors(t *testing.T) {
	_, err := Format(nil)
	assert.ErrorIs(t, err, ErrNoNode)

	_, err = Format(&domtree.TreeNode{Kind: domtree.KindElement, ID: 3})
	var de *DetailError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 3, de.NodeID)
}

func TestDetailInspector_ShowHide(t *testing.T) {
	d := NewDetailInspector(nil)

	cur, visible := d.Current()
	assert.Nil(t, cur)
	assert.False(t, visible)

	shown, err := d.Show(sampleElement())
	require.NoError(t, err)

	d.Hide()
	cur, visible = d.Current()
	assert.False(t, visible)
	assert.Same(t, shown, cur, "hiding keeps the content")

	_, err = d.Show(nil)
	require.Error(t, err)
	cur, visible = d.Current()
	assert.Same(t, shown, cur, "failed show leaves the panel alone")
	assert.False(t, visible)
}
