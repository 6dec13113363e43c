package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aldermoss/enginecore/css"
	"github.com/aldermoss/enginecore/dom"
)

// TestBlockFlowStacksMarginBoxes mirrors the parent-width-800 two-child
// scenario: each child has height:100 and margin:10, so child1 sits at
// y=10 and child2 at y=120, and the parent's auto height is 240.
func TestBlockFlowStacksMarginBoxes(t *testing.T) {
	doc := dom.NewDocument()
	html := doc.CreateElement(doc.Root(), "html", nil)
	body := doc.CreateElement(html, "body", nil)
	doc.CreateElement(body, "div", map[string]string{"id": "child1"})
	doc.CreateElement(body, "div", map[string]string{"id": "child2"})

	resolver := css.NewStyleResolver()
	resolver.AddAuthorStylesheet(css.ParseStyleSheet(`
		html { display: block; }
		body {
			display: block;
			width: 800px;
			margin-top: 0; margin-right: 0; margin-bottom: 0; margin-left: 0;
		}
		div {
			display: block;
			height: 100px;
			margin-top: 10px; margin-right: 10px; margin-bottom: 10px; margin-left: 10px;
		}
	`, css.OriginAuthor))

	tree := BuildLayoutTree(doc, resolver, Context{Viewport: Rect{Width: 800, Height: 600}})
	require.NotNil(t, tree)
	require.Len(t, tree.Children, 1) // body

	bodyBox := tree.Children[0]
	require.Len(t, bodyBox.Children, 2)

	child1, child2 := bodyBox.Children[0], bodyBox.Children[1]
	assert.Equal(t, 10.0, child1.Dimensions.Content.Y-bodyBox.Dimensions.Content.Y)
	assert.Equal(t, 120.0, child2.Dimensions.Content.Y-bodyBox.Dimensions.Content.Y)
	assert.Equal(t, 240.0, bodyBox.Dimensions.Content.Height)
}

func TestDisplayNoneProducesNoBox(t *testing.T) {
	doc := dom.NewDocument()
	html := doc.CreateElement(doc.Root(), "html", nil)
	body := doc.CreateElement(html, "body", nil)
	doc.CreateElement(body, "script", nil)
	doc.CreateElement(body, "p", nil)

	resolver := css.NewStyleResolver()
	resolver.SetUserAgentStylesheet(css.GetUserAgentStylesheet())

	tree := BuildLayoutTree(doc, resolver, Context{Viewport: Rect{Width: 800, Height: 600}})
	require.NotNil(t, tree)
	bodyBox := tree.Children[0]
	require.Len(t, bodyBox.Children, 1)
	assert.Equal(t, BlockBox, bodyBox.Children[0].BoxType)
}

func TestAnonymousBlockWrapsInlineRun(t *testing.T) {
	doc := dom.NewDocument()
	html := doc.CreateElement(doc.Root(), "html", nil)
	body := doc.CreateElement(html, "body", nil)
	doc.CreateText(body, "hello ")
	doc.CreateElement(body, "div", nil)

	resolver := css.NewStyleResolver()
	resolver.AddAuthorStylesheet(css.ParseStyleSheet(`
		html { display: block; } body { display: block; } div { display: block; }
	`, css.OriginAuthor))

	tree := BuildLayoutTree(doc, resolver, Context{Viewport: Rect{Width: 800, Height: 600}})
	bodyBox := tree.Children[0]
	require.Len(t, bodyBox.Children, 2)
	assert.Equal(t, AnonymousBlockBox, bodyBox.Children[0].BoxType)
	assert.Equal(t, BlockBox, bodyBox.Children[1].BoxType)
}

func TestImageBoxFallsBackToPlaceholder(t *testing.T) {
	w, h := ImageBox("missing.png", nil)
	assert.Equal(t, 150.0, w)
	assert.Equal(t, 150.0, h)
}

type fakeImages struct{ w, h float64 }

func (f fakeImages) Intrinsics(src string) ImageIntrinsics {
	return ImageIntrinsics{Width: f.w, Height: f.h, Known: true}
}

func TestImageBoxUsesKnownIntrinsics(t *testing.T) {
	w, h := ImageBox("photo.png", fakeImages{w: 640, h: 480})
	assert.Equal(t, 640.0, w)
	assert.Equal(t, 480.0, h)
}

func TestTextEstimateWrapsAtAvailableWidth(t *testing.T) {
	info := estimateTextBlock("abcdefghij", 20, FontMetrics{SizePx: 10, LineHeight: 12})
	assert.Greater(t, len(info.Lines), 1)
	assert.Greater(t, info.Height, 12.0)
}
