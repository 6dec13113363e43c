package htmltree

import (
	"golang.org/x/net/html/atom"

	"github.com/aldermoss/enginecore/dom"
)

// Collector is invoked for every element the tree builder accepts. A
// navigation uses it to gather <title>, <link rel="stylesheet">, <img src>,
// and favicons without a second tree walk.
type Collector interface {
	Collect(tag string, attributes map[string]string, id dom.NodeID)
}

// CollectorFunc adapts a function to the Collector interface.
type CollectorFunc func(tag string, attributes map[string]string, id dom.NodeID)

func (f CollectorFunc) Collect(tag string, attributes map[string]string, id dom.NodeID) {
	f(tag, attributes, id)
}

// autoCloseTable maps a tag on top of the open-element stack to the set of
// newly-opened tags that force it closed (<p> closes on block opens,
// <li> closes on <li>, table cells/rows close on their kin).
var autoCloseTable = map[string]map[string]bool{
	"p": setOf(
		"address", "article", "aside", "blockquote", "details", "div",
		"dl", "fieldset", "figcaption", "figure", "footer", "form",
		"h1", "h2", "h3", "h4", "h5", "h6", "header", "hr", "main",
		"menu", "nav", "ol", "p", "pre", "section", "table", "ul",
	),
	"li":       setOf("li"),
	"dt":       setOf("dt", "dd"),
	"dd":       setOf("dt", "dd"),
	"tr":       setOf("tr"),
	"td":       setOf("td", "th", "tr"),
	"th":       setOf("td", "th", "tr"),
	"option":   setOf("option"),
	"thead":    setOf("tbody", "tfoot"),
	"tbody":    setOf("tbody", "tfoot"),
}

func setOf(tags ...string) map[string]bool {
	m := make(map[string]bool, len(tags))
	for _, t := range tags {
		m[t] = true
	}
	return m
}

// Builder consumes Tokens and constructs a dom.Document, maintaining an
// open-element stack for auto-closing and end-tag matching.
type Builder struct {
	doc       *dom.Document
	stack     []dom.NodeID // open elements, root at index 0
	collector Collector
}

// NewBuilder creates a Builder writing into a fresh Document.
func NewBuilder(collector Collector) *Builder {
	doc := dom.NewDocument()
	return &Builder{
		doc:       doc,
		stack:     []dom.NodeID{doc.Root()},
		collector: collector,
	}
}

// Document returns the document under construction. Safe to call at any
// point, including mid-parse.
func (b *Builder) Document() *dom.Document { return b.doc }

func (b *Builder) top() dom.NodeID { return b.stack[len(b.stack)-1] }

func (b *Builder) push(id dom.NodeID) { b.stack = append(b.stack, id) }

func (b *Builder) pop() {
	if len(b.stack) > 1 {
		b.stack = b.stack[:len(b.stack)-1]
	}
}

// normalizeTag resolves a tag name through the well-known atom table so
// ~150 standard tags share a canonical spelling; anything else passes
// through unchanged as an "unknown" tag name.
func normalizeTag(name string) string {
	if a := atom.Lookup([]byte(name)); a != 0 {
		return a.String()
	}
	return name
}

// Consume applies a single token to the tree under construction.
func (b *Builder) Consume(tok Token) {
	switch tok.Kind {
	case StartTag:
		b.consumeStartTag(tok)
	case EndTag:
		b.consumeEndTag(tok)
	case Text:
		b.consumeText(tok)
	case Comment, XMLDeclaration, Doctype:
		// Not added to the arena; reserved extension point.
	}
}

func (b *Builder) consumeStartTag(tok Token) {
	tag := normalizeTag(tok.Data)

	if closers, ok := autoCloseTable[b.doc.Node(b.top()).Tag]; ok && closers[tag] {
		b.pop()
	}

	parent := b.top()
	id := b.doc.CreateElement(parent, tag, tok.Attributes)

	if b.collector != nil {
		b.collector.Collect(tag, tok.Attributes, id)
	}

	if !dom.IsVoid(tag) && !tok.SelfClosing {
		b.push(id)
	}
}

func (b *Builder) consumeEndTag(tok Token) {
	tag := normalizeTag(tok.Data)
	if dom.IsVoid(tag) {
		return
	}
	if b.doc.Node(b.top()).Tag == tag {
		b.pop()
		return
	}
	// Mismatched end tags are silently ignored; no reparse.
}

func (b *Builder) consumeText(tok Token) {
	parent := b.top()
	if parent == 0 {
		return
	}
	children := b.doc.Node(parent).Children()
	if n := len(children); n > 0 {
		last := b.doc.Node(children[n-1])
		if last.IsText() {
			b.doc.AppendText(last.ID, tok.Data)
			return
		}
	}
	b.doc.CreateText(parent, tok.Data)
}
