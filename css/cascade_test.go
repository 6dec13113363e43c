package css

import (
	"testing"

	"github.com/aldermoss/enginecore/dom"
	"github.com/stretchr/testify/assert"
)

// assertColorEqual compares a resolved Color against a named CSS color by
// parsing the name, since GetComputedStyleProperty always renders colors
// back out as hex and named colors don't round-trip as names.
func assertColorEqual(t *testing.T, named string, got Color) {
	t.Helper()
	want, ok := ParseColor(named)
	if !ok {
		t.Fatalf("test bug: %q is not a parseable color", named)
	}
	assert.Equal(t, want, got)
}

func TestCascadeSpecificityWins(t *testing.T) {
	// .a{color:red} and #b{color:blue} both match; the ID selector's
	// higher specificity wins regardless of source order.
	doc := dom.NewDocument()
	p := doc.CreateElement(doc.Root(), "p", map[string]string{"class": "a", "id": "b"})

	resolver := NewStyleResolver()
	resolver.AddAuthorStylesheet(ParseStyleSheet(".a { color: red; }", OriginAuthor))
	resolver.AddAuthorStylesheet(ParseStyleSheet("#b { color: blue; }", OriginAuthor))

	cs := resolver.ResolveStyles(doc, p, nil)
	assertColorEqual(t, "blue", cs.GetColor("color"))
}

func TestCascadeImportantReversal(t *testing.T) {
	// .a{color:red !important} beats #b{color:blue} despite the ID's
	// higher specificity.
	doc := dom.NewDocument()
	p := doc.CreateElement(doc.Root(), "p", map[string]string{"class": "a", "id": "b"})

	resolver := NewStyleResolver()
	resolver.AddAuthorStylesheet(ParseStyleSheet(".a { color: red !important; }", OriginAuthor))
	resolver.AddAuthorStylesheet(ParseStyleSheet("#b { color: blue; }", OriginAuthor))

	cs := resolver.ResolveStyles(doc, p, nil)
	assertColorEqual(t, "red", cs.GetColor("color"))
}

func TestCascadeInlineStyleHighestAuthorSpecificity(t *testing.T) {
	// An inline style attribute outranks any author stylesheet rule.
	doc := dom.NewDocument()
	p := doc.CreateElement(doc.Root(), "p", map[string]string{"style": "color:green"})

	resolver := NewStyleResolver()
	resolver.AddAuthorStylesheet(ParseStyleSheet("p { color: red; }", OriginAuthor))

	cs := resolver.ResolveStyles(doc, p, nil)
	assertColorEqual(t, "green", cs.GetColor("color"))
}

func TestCascadeVariableShadowing(t *testing.T) {
	// A child redefining --x observes the new value; a sibling is
	// unaffected.
	doc := dom.NewDocument()
	root := doc.CreateElement(doc.Root(), "html", nil)
	child := doc.CreateElement(root, "div", map[string]string{"class": "child"})
	sibling := doc.CreateElement(root, "div", map[string]string{"class": "sibling"})

	resolver := NewStyleResolver()
	resolver.AddAuthorStylesheet(ParseStyleSheet(`
		html { --x: red; }
		.child { --x: blue; color: var(--x); }
		.sibling { color: var(--x); }
	`, OriginAuthor))

	rootStyle := resolver.ResolveStyles(doc, root, nil)
	childStyle := resolver.ResolveStyles(doc, child, rootStyle)
	siblingStyle := resolver.ResolveStyles(doc, sibling, rootStyle)

	assertColorEqual(t, "blue", childStyle.GetColor("color"))
	assertColorEqual(t, "red", siblingStyle.GetColor("color"))
}

func TestCascadeVariableFallback(t *testing.T) {
	doc := dom.NewDocument()
	p := doc.CreateElement(doc.Root(), "p", nil)

	resolver := NewStyleResolver()
	resolver.AddAuthorStylesheet(ParseStyleSheet("p { color: var(--missing, green); }", OriginAuthor))

	cs := resolver.ResolveStyles(doc, p, nil)
	assertColorEqual(t, "green", cs.GetColor("color"))
}

func TestCascadeVariableCycleFallsBackToFallback(t *testing.T) {
	doc := dom.NewDocument()
	p := doc.CreateElement(doc.Root(), "p", nil)

	resolver := NewStyleResolver()
	resolver.AddAuthorStylesheet(ParseStyleSheet(`
		p {
			--a: var(--b, red);
			--b: var(--a, red);
			color: var(--a, red);
		}
	`, OriginAuthor))

	cs := resolver.ResolveStyles(doc, p, nil)
	assertColorEqual(t, "red", cs.GetColor("color"))
}

func TestCascadeInheritedPropertyPropagates(t *testing.T) {
	doc := dom.NewDocument()
	root := doc.CreateElement(doc.Root(), "html", nil)
	body := doc.CreateElement(root, "body", nil)

	resolver := NewStyleResolver()
	resolver.AddAuthorStylesheet(ParseStyleSheet("html { color: purple; }", OriginAuthor))

	rootStyle := resolver.ResolveStyles(doc, root, nil)
	assertColorEqual(t, "purple", rootStyle.GetColor("color"))

	bodyStyle := resolver.ResolveStyles(doc, body, rootStyle)
	assertColorEqual(t, "purple", bodyStyle.GetColor("color"))
}
