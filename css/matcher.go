package css

import (
	"strconv"
	"strings"

	"github.com/aldermoss/enginecore/dom"
)

// MatchContext carries the state needed to resolve :scope during a
// closest()/matches() style query; nil means :scope falls back to the
// document root.
type MatchContext struct {
	Scope dom.NodeID
}

// Matches reports whether sel matches the element at id within doc.
func Matches(sel *Selector, doc *dom.Document, id dom.NodeID) bool {
	return MatchesWithContext(sel, doc, id, nil)
}

// MatchesWithContext is Matches with an explicit :scope anchor.
func MatchesWithContext(sel *Selector, doc *dom.Document, id dom.NodeID, ctx *MatchContext) bool {
	for _, cs := range sel.ComplexSelectors {
		if matchComplex(cs, doc, id, ctx) {
			return true
		}
	}
	return false
}

func matchComplex(cs *ComplexSelector, doc *dom.Document, id dom.NodeID, ctx *MatchContext) bool {
	if len(cs.Compounds) == 0 {
		return false
	}

	i := len(cs.Compounds) - 1
	current := id
	if !matchCompound(cs.Compounds[i], doc, current, ctx) {
		return false
	}

	for i > 0 {
		combinator := cs.Compounds[i-1].Combinator
		i--

		switch combinator {
		case CombinatorDescendant:
			matched := false
			for anc := parentElement(doc, current); anc != 0; anc = parentElement(doc, anc) {
				if matchCompound(cs.Compounds[i], doc, anc, ctx) {
					current = anc
					matched = true
					break
				}
			}
			if !matched {
				return false
			}

		case CombinatorChild:
			parent := parentElement(doc, current)
			if parent == 0 || !matchCompound(cs.Compounds[i], doc, parent, ctx) {
				return false
			}
			current = parent

		case CombinatorNextSibling:
			prev := previousElementSibling(doc, current)
			if prev == 0 || !matchCompound(cs.Compounds[i], doc, prev, ctx) {
				return false
			}
			current = prev

		case CombinatorSubsequentSibling:
			matched := false
			for prev := previousElementSibling(doc, current); prev != 0; prev = previousElementSibling(doc, prev) {
				if matchCompound(cs.Compounds[i], doc, prev, ctx) {
					current = prev
					matched = true
					break
				}
			}
			if !matched {
				return false
			}

		default:
			return false
		}
	}

	return true
}

func matchCompound(c *CompoundSelector, doc *dom.Document, id dom.NodeID, ctx *MatchContext) bool {
	node := doc.Node(id)
	if !node.IsElement() {
		return false
	}

	if c.TypeSelector != nil && c.TypeSelector.Name != "*" {
		if !strings.EqualFold(node.Tag, c.TypeSelector.Name) {
			return false
		}
	}

	for _, idSel := range c.IDSelectors {
		if v, _ := node.Attr("id"); v != idSel {
			return false
		}
	}

	for _, class := range c.ClassSelectors {
		if !hasClass(node, class) {
			return false
		}
	}

	for _, attr := range c.AttributeMatchers {
		if !matchAttribute(attr, node) {
			return false
		}
	}

	for _, pc := range c.PseudoClasses {
		if !matchPseudoClass(pc, doc, id, ctx) {
			return false
		}
	}

	return true
}

func hasClass(node *dom.Node, class string) bool {
	v, ok := node.Attr("class")
	if !ok {
		return false
	}
	for _, f := range strings.Fields(v) {
		if f == class {
			return true
		}
	}
	return false
}

func matchAttribute(attr *AttributeMatcher, node *dom.Node) bool {
	name := strings.ToLower(attr.Name)
	value, ok := node.Attr(name)
	if !ok {
		return false
	}
	if attr.Operator == AttrExists {
		return true
	}

	have, want := value, attr.Value
	if attr.CaseInsensitive {
		have = strings.ToLower(have)
		want = strings.ToLower(want)
	}

	switch attr.Operator {
	case AttrEquals:
		return have == want
	case AttrIncludes:
		for _, word := range strings.Fields(have) {
			if attr.CaseInsensitive {
				word = strings.ToLower(word)
			}
			if word == want {
				return true
			}
		}
		return false
	case AttrDashMatch:
		return have == want || strings.HasPrefix(have, want+"-")
	case AttrPrefix:
		return strings.HasPrefix(have, want)
	case AttrSuffix:
		return strings.HasSuffix(have, want)
	case AttrSubstring:
		return strings.Contains(have, want)
	}
	return false
}

func matchPseudoClass(pc *PseudoClassSelector, doc *dom.Document, id dom.NodeID, ctx *MatchContext) bool {
	switch pc.Name {
	case "root":
		return id == firstElementChild(doc, doc.Root())

	case "empty":
		return len(doc.Node(id).Children()) == 0

	case "first-child":
		parent := parentElement(doc, id)
		return parent != 0 && firstElementChild(doc, parent) == id

	case "last-child":
		parent := parentElement(doc, id)
		return parent != 0 && lastElementChild(doc, parent) == id

	case "only-child":
		parent := parentElement(doc, id)
		return parent != 0 && firstElementChild(doc, parent) == id && lastElementChild(doc, parent) == id

	case "first-of-type":
		tag := doc.Node(id).Tag
		for prev := previousElementSibling(doc, id); prev != 0; prev = previousElementSibling(doc, prev) {
			if doc.Node(prev).Tag == tag {
				return false
			}
		}
		return true

	case "last-of-type":
		tag := doc.Node(id).Tag
		for next := nextElementSibling(doc, id); next != 0; next = nextElementSibling(doc, next) {
			if doc.Node(next).Tag == tag {
				return false
			}
		}
		return true

	case "only-of-type":
		return matchPseudoClass(&PseudoClassSelector{Name: "first-of-type"}, doc, id, ctx) &&
			matchPseudoClass(&PseudoClassSelector{Name: "last-of-type"}, doc, id, ctx)

	case "nth-child":
		return matchNth(pc.Argument, doc, id, false, false)
	case "nth-last-child":
		return matchNth(pc.Argument, doc, id, true, false)
	case "nth-of-type":
		return matchNth(pc.Argument, doc, id, false, true)
	case "nth-last-of-type":
		return matchNth(pc.Argument, doc, id, true, true)

	case "not":
		if pc.Selector != nil {
			return !MatchesWithContext(pc.Selector, doc, id, ctx)
		}
		return true

	case "is", "where", "matches", "any":
		if pc.Selector != nil {
			return MatchesWithContext(pc.Selector, doc, id, ctx)
		}
		return false

	case "has":
		if pc.Selector != nil {
			return matchHas(doc, id, pc.Selector, ctx)
		}
		return false

	case "lang":
		return matchLang(doc, id, pc.Argument)

	case "dir":
		return matchDir(doc, id, pc.Argument)

	case "scope":
		if ctx != nil && ctx.Scope != 0 {
			return id == ctx.Scope
		}
		return id == firstElementChild(doc, doc.Root())

	// Dynamic UI states (:hover, :focus, :active...) have no meaning
	// outside an interactive viewport; this engine has no pointer/focus
	// model, so they never match.
	case "hover", "active", "focus", "focus-within", "focus-visible", "target", "visited":
		return false

	case "link":
		tag := doc.Node(id).Tag
		if tag != "a" && tag != "area" {
			return false
		}
		_, ok := doc.Node(id).Attr("href")
		return ok

	default:
		return false
	}
}

func matchNth(arg string, doc *dom.Document, id dom.NodeID, fromLast, ofType bool) bool {
	a, b := parseAnPlusB(arg)

	pos := 1
	tag := doc.Node(id).Tag
	if fromLast {
		for next := nextElementSibling(doc, id); next != 0; next = nextElementSibling(doc, next) {
			if !ofType || doc.Node(next).Tag == tag {
				pos++
			}
		}
	} else {
		for prev := previousElementSibling(doc, id); prev != 0; prev = previousElementSibling(doc, prev) {
			if !ofType || doc.Node(prev).Tag == tag {
				pos++
			}
		}
	}

	if a == 0 {
		return pos == b
	}
	diff := pos - b
	if a > 0 {
		return diff >= 0 && diff%a == 0
	}
	return diff <= 0 && diff%a == 0
}

func parseAnPlusB(s string) (int, int) {
	s = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "")
	switch s {
	case "odd":
		return 2, 1
	case "even":
		return 2, 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return 0, n
	}

	nIdx := strings.Index(s, "n")
	if nIdx == -1 {
		return 0, 0
	}

	aStr := s[:nIdx]
	var a int
	switch aStr {
	case "", "+":
		a = 1
	case "-":
		a = -1
	default:
		a, _ = strconv.Atoi(aStr)
	}

	bStr := s[nIdx+1:]
	var b int
	if bStr != "" {
		b, _ = strconv.Atoi(bStr)
	}
	return a, b
}

func matchHas(doc *dom.Document, id dom.NodeID, sel *Selector, ctx *MatchContext) bool {
	for _, child := range doc.Node(id).Children() {
		if doc.Node(child).IsElement() {
			if MatchesWithContext(sel, doc, child, ctx) {
				return true
			}
			if matchHas(doc, child, sel, ctx) {
				return true
			}
		}
	}
	return false
}

func matchLang(doc *dom.Document, id dom.NodeID, lang string) bool {
	lang = strings.ToLower(lang)
	for cur := id; cur != 0; cur = parentElement(doc, cur) {
		if v, ok := doc.Node(cur).Attr("lang"); ok {
			v = strings.ToLower(v)
			return v == lang || strings.HasPrefix(v, lang+"-")
		}
	}
	return false
}

func matchDir(doc *dom.Document, id dom.NodeID, dir string) bool {
	dir = strings.ToLower(dir)
	for cur := id; cur != 0; cur = parentElement(doc, cur) {
		if v, ok := doc.Node(cur).Attr("dir"); ok {
			return strings.ToLower(v) == dir
		}
	}
	return dir == "ltr"
}

// parentElement walks up to the nearest ancestor that is itself an
// element (the arena's root is #document, never matched by a selector).
func parentElement(doc *dom.Document, id dom.NodeID) dom.NodeID {
	node := doc.Node(id)
	if node.Parent == 0 {
		return 0
	}
	if doc.Node(node.Parent).IsElement() {
		return node.Parent
	}
	return 0
}

func firstElementChild(doc *dom.Document, id dom.NodeID) dom.NodeID {
	for _, c := range doc.Node(id).Children() {
		if doc.Node(c).IsElement() {
			return c
		}
	}
	return 0
}

func lastElementChild(doc *dom.Document, id dom.NodeID) dom.NodeID {
	children := doc.Node(id).Children()
	for i := len(children) - 1; i >= 0; i-- {
		if doc.Node(children[i]).IsElement() {
			return children[i]
		}
	}
	return 0
}

func nextElementSibling(doc *dom.Document, id dom.NodeID) dom.NodeID {
	parent := doc.Node(id).Parent
	if parent == 0 {
		return 0
	}
	children := doc.Node(parent).Children()
	for i, c := range children {
		if c == id {
			for j := i + 1; j < len(children); j++ {
				if doc.Node(children[j]).IsElement() {
					return children[j]
				}
			}
			return 0
		}
	}
	return 0
}

func previousElementSibling(doc *dom.Document, id dom.NodeID) dom.NodeID {
	parent := doc.Node(id).Parent
	if parent == 0 {
		return 0
	}
	children := doc.Node(parent).Children()
	for i, c := range children {
		if c == id {
			for j := i - 1; j >= 0; j-- {
				if doc.Node(children[j]).IsElement() {
					return children[j]
				}
			}
			return 0
		}
	}
	return 0
}

// QuerySelector returns the first descendant of root matching selectorStr,
// in document order.
func QuerySelector(doc *dom.Document, root dom.NodeID, selectorStr string) (dom.NodeID, bool) {
	sel, err := ParseSelector(selectorStr)
	if err != nil {
		return 0, false
	}
	return querySelectorInternal(doc, root, sel)
}

// QuerySelectorAll returns every descendant of root matching selectorStr,
// in document order.
func QuerySelectorAll(doc *dom.Document, root dom.NodeID, selectorStr string) []dom.NodeID {
	sel, err := ParseSelector(selectorStr)
	if err != nil {
		return nil
	}
	var results []dom.NodeID
	collectMatches(doc, root, sel, &results)
	return results
}

func querySelectorInternal(doc *dom.Document, id dom.NodeID, sel *Selector) (dom.NodeID, bool) {
	for _, child := range doc.Node(id).Children() {
		if doc.Node(child).IsElement() {
			if MatchesWithContext(sel, doc, child, nil) {
				return child, true
			}
			if found, ok := querySelectorInternal(doc, child, sel); ok {
				return found, true
			}
		}
	}
	return 0, false
}

func collectMatches(doc *dom.Document, id dom.NodeID, sel *Selector, out *[]dom.NodeID) {
	for _, child := range doc.Node(id).Children() {
		if doc.Node(child).IsElement() {
			if MatchesWithContext(sel, doc, child, nil) {
				*out = append(*out, child)
			}
			collectMatches(doc, child, sel, out)
		}
	}
}
