// Package layout implements whole-tree block/inline-flow layout: it
// turns a (DOM, computed style) pair into a tree of absolutely
// positioned boxes against a viewport, per CSS2 visual formatting
// model §9 and the CSS Box Model Level 3 box geometry.
package layout

import (
	"strings"

	"github.com/aldermoss/enginecore/css"
	"github.com/aldermoss/enginecore/dom"
)

// Rect is an axis-aligned rectangle in page coordinates.
type Rect struct {
	X, Y, Width, Height float64
}

// EdgeSizes holds the four edge widths of a margin, border, or padding
// box, in that CSS order.
type EdgeSizes struct {
	Top, Right, Bottom, Left float64
}

// Dimensions is a box's content rect plus its three surrounding edges.
type Dimensions struct {
	Content Rect
	Padding EdgeSizes
	Border  EdgeSizes
	Margin  EdgeSizes
}

// MarginBox returns the outermost box (content+padding+border+margin).
func (d Dimensions) MarginBox() Rect {
	b := d.BorderBox()
	return Rect{
		X:      b.X - d.Margin.Left,
		Y:      b.Y - d.Margin.Top,
		Width:  b.Width + d.Margin.Left + d.Margin.Right,
		Height: b.Height + d.Margin.Top + d.Margin.Bottom,
	}
}

// BorderBox returns content+padding+border.
func (d Dimensions) BorderBox() Rect {
	p := d.PaddingBox()
	return Rect{
		X:      p.X - d.Border.Left,
		Y:      p.Y - d.Border.Top,
		Width:  p.Width + d.Border.Left + d.Border.Right,
		Height: p.Height + d.Border.Top + d.Border.Bottom,
	}
}

// PaddingBox returns content+padding.
func (d Dimensions) PaddingBox() Rect {
	c := d.Content
	return Rect{
		X:      c.X - d.Padding.Left,
		Y:      c.Y - d.Padding.Top,
		Width:  c.Width + d.Padding.Left + d.Padding.Right,
		Height: c.Height + d.Padding.Top + d.Padding.Bottom,
	}
}

// BoxType is the box's formatting role. Every box, inline ones included,
// is laid out by block flow (stacked vertically); there is no horizontal
// inline formatting. Inline and InlineBlock boxes differ from Block only
// in that normalizeChildren wraps them in an AnonymousBlock beside block
// siblings. Every other display value (flex/grid/table/...) is a Block.
type BoxType int

const (
	BlockBox BoxType = iota
	InlineBox
	InlineBlockBox
	AnonymousBlockBox
	NoneBox
)

// TextBlockInfo is what a TextShaper returns for one run of inline
// text: its measured extent and, optionally, per-line breaks for
// paint to consume.
type TextBlockInfo struct {
	Width    float64
	Height   float64
	Baseline float64
	Lines    []string
}

// FontMetrics is the subset of a resolved font the shaper needs.
type FontMetrics struct {
	SizePx     float64
	LineHeight float64
	Family     string
}

// TextShaper measures and (optionally) line-breaks a run of text
// within a given content-box width. Layout calls it once per text-only
// node; paint consumes the result. A nil Shaper on LayoutContext falls
// back to a fixed-width-per-rune estimate so layout still produces
// usable dimensions without a real font backend.
type TextShaper func(text string, box Rect, font FontMetrics) TextBlockInfo

// ImageIntrinsics is the natural (unscaled) size of a fetched image, as
// looked up by ImageContext.
type ImageIntrinsics struct {
	Width, Height float64
	Known         bool
}

// ImageContext resolves an <img>'s intrinsic size from whatever has
// already been fetched for this navigation (see the asset package);
// layout only ever reads it.
type ImageContext interface {
	Intrinsics(src string) ImageIntrinsics
}

const defaultImageSize = 150 // CSS2's replaced-element placeholder (§10.3.2)

// LayoutBox is one node of the layout tree. Dimensions.Content is
// always absolute page coordinates; a node's margin box is guaranteed
// contained within the containing block it was laid out against unless
// its own specified width/height forces an overflow.
type LayoutBox struct {
	Node       dom.NodeID // zero for anonymous boxes
	BoxType    BoxType
	Dimensions Dimensions
	Style      *css.ComputedStyle
	Children   []*LayoutBox

	TextContent string
	TextInfo    *TextBlockInfo
}

// Context carries the inputs layout needs beyond the style tree:
// viewport size and the hooks for text shaping and image intrinsics.
type Context struct {
	Viewport Rect
	Shaper   TextShaper
	Images   ImageContext
}

// BuildLayoutTree lays out the full document against ctx.Viewport,
// returning the root LayoutBox (normally the <html> element's box) or
// nil if the document has no box-generating root.
func BuildLayoutTree(doc *dom.Document, resolver *css.StyleResolver, ctx Context) *LayoutBox {
	root := documentElementRoot(doc)
	if root == 0 {
		return nil
	}
	rootStyle := resolver.ResolveStyles(doc, root, nil)
	box := buildBox(doc, root, rootStyle, resolver, ctx)
	if box == nil {
		return nil
	}
	// The containing block's Height doubles as the block-flow cursor in
	// calculateBlockPosition, so the root lays out against a zero-height
	// rect at the viewport origin rather than below the full viewport.
	containing := Dimensions{Content: Rect{
		X: ctx.Viewport.X, Y: ctx.Viewport.Y, Width: ctx.Viewport.Width,
	}}
	layoutBlock(box, containing, ctx)
	return box
}

// documentElementRoot returns the document's root element (normally
// <html>), skipping the synthetic "#document" node dom.Document always
// roots the tree with.
func documentElementRoot(doc *dom.Document) dom.NodeID {
	root := doc.Root()
	node := doc.Node(root)
	if node == nil {
		return 0
	}
	for _, childID := range node.Children() {
		if doc.Node(childID).IsElement() {
			return childID
		}
	}
	return 0
}

// buildBox recursively builds the (unlaid-out) box tree, resolving
// each child's computed style against its parent and wrapping mixed
// inline/block runs in anonymous block boxes.
func buildBox(doc *dom.Document, id dom.NodeID, style *css.ComputedStyle, resolver *css.StyleResolver, ctx Context) *LayoutBox {
	node := doc.Node(id)
	if node == nil {
		return nil
	}

	if node.IsText() {
		text := node.Text
		if strings.TrimSpace(text) == "" {
			return nil
		}
		return &LayoutBox{BoxType: InlineBox, TextContent: text, Style: style}
	}

	display := style.GetComputedStyleProperty("display")
	if display == "none" {
		return nil
	}

	box := &LayoutBox{Node: id, Style: style, BoxType: boxTypeForDisplay(display)}

	for _, childID := range node.Children() {
		childNode := doc.Node(childID)
		var childStyle *css.ComputedStyle
		if childNode.IsElement() {
			childStyle = resolver.ResolveStyles(doc, childID, style)
		} else {
			childStyle = style
		}
		if childBox := buildBox(doc, childID, childStyle, resolver, ctx); childBox != nil {
			box.Children = append(box.Children, childBox)
		}
	}

	normalizeChildren(box)
	return box
}

// boxTypeForDisplay maps a computed `display` to the box types this
// engine actually implements; anything else (flex, grid, table-*,
// list-item) falls back to block per the documented layout scope.
func boxTypeForDisplay(display string) BoxType {
	switch display {
	case "inline":
		return InlineBox
	case "inline-block":
		return InlineBlockBox
	case "none":
		return NoneBox
	default:
		return BlockBox
	}
}

// normalizeChildren wraps runs of inline children in an anonymous block
// box when they are siblings of real block boxes, so a block
// container's immediate children are either all block-level or all
// inline-level (CSS2 §9.2.1.1).
func normalizeChildren(box *LayoutBox) {
	if box.BoxType != BlockBox || len(box.Children) == 0 {
		return
	}
	hasBlock, hasInline := false, false
	for _, c := range box.Children {
		if c.BoxType == BlockBox {
			hasBlock = true
		} else {
			hasInline = true
		}
	}
	if !hasBlock || !hasInline {
		return
	}

	var out []*LayoutBox
	var run []*LayoutBox
	flush := func() {
		if len(run) > 0 {
			out = append(out, &LayoutBox{BoxType: AnonymousBlockBox, Children: run})
			run = nil
		}
	}
	for _, c := range box.Children {
		if c.BoxType == BlockBox {
			flush()
			out = append(out, c)
		} else {
			run = append(run, c)
		}
	}
	flush()
	box.Children = out
}

// layoutBlock computes box.Dimensions against containing, then lays
// out children in normal block flow, stacking their margin boxes
// top-to-bottom and resolving `height: auto` to their sum.
func layoutBlock(box *LayoutBox, containing Dimensions, ctx Context) {
	calculateBlockWidth(box, containing)
	calculateBlockPosition(box, containing)

	if box.TextContent != "" {
		layoutText(box, ctx)
		return
	}

	layoutChildren(box, ctx)
	calculateBlockHeight(box, containing)
}

// calculateBlockWidth resolves margin/border/padding/width per CSS2
// §10.3.3: width:auto fills the containing block minus the horizontal
// margin/border/padding; an explicit width is used as given (no
// over-constrained redistribution, since margin:auto centering is out
// of this engine's scope).
func calculateBlockWidth(box *LayoutBox, containing Dimensions) {
	style := box.Style
	d := &box.Dimensions

	d.Margin.Left = resolveEdge(style, "margin-left", containing.Content.Width)
	d.Margin.Right = resolveEdge(style, "margin-right", containing.Content.Width)
	d.Border.Left = resolveEdge(style, "border-left-width", containing.Content.Width)
	d.Border.Right = resolveEdge(style, "border-right-width", containing.Content.Width)
	d.Padding.Left = resolveEdge(style, "padding-left", containing.Content.Width)
	d.Padding.Right = resolveEdge(style, "padding-right", containing.Content.Width)

	widthVal := style.GetPropertyValue("width")
	if widthVal == nil || widthVal.Keyword == "auto" {
		used := containing.Content.Width - d.Margin.Left - d.Margin.Right -
			d.Border.Left - d.Border.Right - d.Padding.Left - d.Padding.Right
		if used < 0 {
			used = 0
		}
		d.Content.Width = used
	} else {
		d.Content.Width = resolveEdge(style, "width", containing.Content.Width)
	}
}

// calculateBlockPosition places the box's top-left content-box corner
// relative to its containing block and the current block-flow cursor,
// per CSS2 §10.6.3. Margin.Top/Bottom and the two vertical edges are
// resolved here; the horizontal placement is purely margin+border+
// padding offset from the containing block's left edge.
func calculateBlockPosition(box *LayoutBox, containing Dimensions) {
	style := box.Style
	d := &box.Dimensions

	d.Margin.Top = resolveEdge(style, "margin-top", containing.Content.Width)
	d.Margin.Bottom = resolveEdge(style, "margin-bottom", containing.Content.Width)
	d.Border.Top = resolveEdge(style, "border-top-width", containing.Content.Width)
	d.Border.Bottom = resolveEdge(style, "border-bottom-width", containing.Content.Width)
	d.Padding.Top = resolveEdge(style, "padding-top", containing.Content.Width)
	d.Padding.Bottom = resolveEdge(style, "padding-bottom", containing.Content.Width)

	d.Content.X = containing.Content.X + d.Margin.Left + d.Border.Left + d.Padding.Left
	d.Content.Y = containing.Content.Y + containing.Content.Height +
		d.Margin.Top + d.Border.Top + d.Padding.Top
}

// layoutChildren lays out each child box at the current flow position,
// advancing a Y cursor by each child's border-box extent. The child's
// bottom margin does not push the next sibling down (adjacent vertical
// margins overlap), but it still counts toward the parent's auto
// height, which sums full margin boxes.
func layoutChildren(box *LayoutBox, ctx Context) {
	d := box.Dimensions
	flowContaining := Dimensions{Content: Rect{
		X: d.Content.X, Y: d.Content.Y, Width: d.Content.Width, Height: 0,
	}}
	for _, child := range box.Children {
		layoutBlock(child, flowContaining, ctx)
		bb := child.Dimensions.BorderBox()
		consumed := (bb.Y - flowContaining.Content.Y) + bb.Height
		if consumed > flowContaining.Content.Height {
			flowContaining.Content.Height = consumed
		}
	}
}

// calculateBlockHeight resolves `height`: auto is the sum of the
// children's margin-box heights; an explicit height overrides it (the
// box may then overflow its containing block, which is allowed).
func calculateBlockHeight(box *LayoutBox, containing Dimensions) {
	style := box.Style
	heightVal := style.GetPropertyValue("height")
	if heightVal == nil || heightVal.Keyword == "auto" {
		sum := 0.0
		for _, child := range box.Children {
			sum += child.Dimensions.MarginBox().Height
		}
		box.Dimensions.Content.Height = sum
		return
	}
	box.Dimensions.Content.Height = resolveEdge(style, "height", containing.Content.Width)
}

// layoutText invokes the text shaper (or a rune-count fallback) for a
// text-only box and records its measured extent as its dimensions.
func layoutText(box *LayoutBox, ctx Context) {
	font := FontMetrics{SizePx: 16, LineHeight: 19.2, Family: "serif"}
	if box.Style != nil {
		if fs := box.Style.GetLength("font-size"); fs > 0 {
			font.SizePx = fs
		}
		if lh := box.Style.GetLength("line-height"); lh > 0 {
			font.LineHeight = lh
		} else {
			font.LineHeight = font.SizePx * 1.2
		}
	}

	available := Rect{
		X: box.Dimensions.Content.X, Y: box.Dimensions.Content.Y,
		Width: box.Dimensions.Content.Width, Height: 0,
	}

	var info TextBlockInfo
	if ctx.Shaper != nil {
		info = ctx.Shaper(box.TextContent, available, font)
	} else {
		info = estimateTextBlock(box.TextContent, available.Width, font)
	}
	box.TextInfo = &info
	box.Dimensions.Content.Width = info.Width
	box.Dimensions.Content.Height = info.Height
}

// estimateTextBlock is the text-shaper fallback: it assumes a
// monospace-ish average advance of 0.55em per rune and wraps at the
// available width, used when no real text-shaping backend is wired.
func estimateTextBlock(text string, width float64, font FontMetrics) TextBlockInfo {
	advance := font.SizePx * 0.55
	if advance <= 0 || width <= 0 {
		return TextBlockInfo{Width: width, Height: font.LineHeight, Lines: []string{text}}
	}
	runesPerLine := int(width / advance)
	if runesPerLine < 1 {
		runesPerLine = 1
	}
	runes := []rune(text)
	var lines []string
	for i := 0; i < len(runes); i += runesPerLine {
		end := i + runesPerLine
		if end > len(runes) {
			end = len(runes)
		}
		lines = append(lines, string(runes[i:end]))
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	maxLineRunes := 0
	for _, l := range lines {
		if n := len([]rune(l)); n > maxLineRunes {
			maxLineRunes = n
		}
	}
	return TextBlockInfo{
		Width:    float64(maxLineRunes) * advance,
		Height:   float64(len(lines)) * font.LineHeight,
		Baseline: font.SizePx * 0.8,
		Lines:    lines,
	}
}

// resolveEdge reads a resolved length/percentage property in px,
// resolving any remaining box-geometry percentage against
// containingWidth (the only percentages deferred past the cascade are
// the box-geometry ones: width, margins, padding, insets).
func resolveEdge(style *css.ComputedStyle, property string, containingWidth float64) float64 {
	val := style.GetPropertyValue(property)
	if val == nil {
		return 0
	}
	if val.LengthUnit == "%" {
		return val.LengthVal / 100 * containingWidth
	}
	if val.LengthUnit == "calc" && val.Calc != nil {
		return resolveCalcAgainstContainingBlock(val.Calc, containingWidth)
	}
	if val.Keyword == "auto" || val.Keyword == "none" {
		return 0
	}
	return val.Length
}

// resolveCalcAgainstContainingBlock evaluates a calc() expression that
// mixes a percentage leaf, which the cascade leaves unresolved (see
// css.StyleResolver.resolveRelativeValues) because only layout knows the
// containing block's width. Non-percentage leaves here are assumed
// already in px (the common case is `calc(100% - <px>)`); an em/rem/vw
// leaf mixed into the same expression would need font/viewport context
// this call site doesn't carry and resolves as if it were px, a known
// limitation of the whole-tree layout pass.
func resolveCalcAgainstContainingBlock(expr *css.CalcExpr, containingWidth float64) float64 {
	return expr.Eval(func(v float64, unit string) float64 {
		if unit == "%" {
			return v / 100 * containingWidth
		}
		return v
	})
}

// ImageBox computes an <img>'s content-box dimensions: real intrinsics
// when ImageContext knows them, otherwise CSS2's 150x150 placeholder.
func ImageBox(src string, images ImageContext) (width, height float64) {
	if images != nil {
		if in := images.Intrinsics(src); in.Known {
			return in.Width, in.Height
		}
	}
	return defaultImageSize, defaultImageSize
}
