package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDocumentHasRoot(t *testing.T) {
	doc := NewDocument()
	root := doc.Node(doc.Root())
	require.True(t, root.IsElement())
	assert.Equal(t, "#document", root.Tag)
	assert.Empty(t, root.Children())
}

func TestCreateElementAttaches(t *testing.T) {
	doc := NewDocument()
	html := doc.CreateElement(doc.Root(), "html", nil)
	body := doc.CreateElement(html, "body", map[string]string{"class": "x"})

	assert.Equal(t, []NodeID{html}, doc.Node(doc.Root()).Children())
	assert.Equal(t, []NodeID{body}, doc.Node(html).Children())

	v, ok := doc.Node(body).Attr("class")
	assert.True(t, ok)
	assert.Equal(t, "x", v)
}

func TestCreateTextAndTextContent(t *testing.T) {
	doc := NewDocument()
	p := doc.CreateElement(doc.Root(), "p", nil)
	doc.CreateText(p, "hi ")
	doc.CreateText(p, "there")

	assert.Equal(t, "hi there", doc.TextContent(p))
}

func TestTextNodeHasNoChildren(t *testing.T) {
	doc := NewDocument()
	txt := doc.CreateText(doc.Root(), "x")
	assert.Empty(t, doc.Node(txt).Children())
}

func TestByTagPreservesInsertionOrder(t *testing.T) {
	doc := NewDocument()
	body := doc.CreateElement(doc.Root(), "body", nil)
	p1 := doc.CreateElement(body, "p", nil)
	p2 := doc.CreateElement(body, "p", nil)

	assert.Equal(t, []NodeID{p1, p2}, doc.ByTag("p"))
}

func TestIsVoid(t *testing.T) {
	assert.True(t, IsVoid("br"))
	assert.True(t, IsVoid("img"))
	assert.False(t, IsVoid("div"))
}
