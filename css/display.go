package css

import "strings"

// DisplayOutside is the outer display type: how the box participates in
// its containing block's layout.
type DisplayOutside int

const (
	OutsideNone DisplayOutside = iota
	OutsideBlock
	OutsideInline
)

// DisplayInside is the inner display type: how the box's own children
// are laid out.
type DisplayInside int

const (
	InsideNone DisplayInside = iota
	InsideFlow
	InsideFlowRoot
	InsideTable
	InsideFlex
	InsideGrid
	InsideRuby
)

// Display is a parsed `display` value, per CSS Display Level 3's
// `display-outside || display-inside | display-listitem | display-internal
// | display-box` grammar, reduced to the forms this engine supports: the
// two-token `[outside] [inside]` form, the legacy single-keyword forms,
// `list-item`, and `contents`/`none`.
type Display struct {
	Outside  DisplayOutside
	Inside   DisplayInside
	ListItem bool
	Contents bool
	None     bool
}

// ParseDisplay parses a `display` value's keyword text (already
// extracted from its component values by the caller).
func ParseDisplay(s string) (Display, bool) {
	parts := strings.Fields(strings.ToLower(s))
	switch len(parts) {
	case 0:
		return Display{}, false
	case 1:
		return parseSingleKeywordDisplay(parts[0])
	case 2:
		return parseTwoTokenDisplay(parts[0], parts[1])
	case 3:
		// `display: inline list-item` / `block flow list-item` etc. —
		// list-item combined with an explicit outside/inside pair.
		d, ok := parseTwoTokenDisplay(parts[0], parts[1])
		if !ok || !strings.EqualFold(parts[2], "list-item") {
			return Display{}, false
		}
		d.ListItem = true
		return d, true
	}
	return Display{}, false
}

func parseTwoTokenDisplay(a, b string) (Display, bool) {
	outside, outsideOK := parseOutside(a)
	inside, insideOK := parseInside(b)
	if outsideOK && insideOK {
		return Display{Outside: outside, Inside: inside}, true
	}
	// Order is not fixed by the grammar (`flex inline` is as valid as
	// `inline flex`); try the swapped interpretation.
	outside, outsideOK = parseOutside(b)
	inside, insideOK = parseInside(a)
	if outsideOK && insideOK {
		return Display{Outside: outside, Inside: inside}, true
	}
	if strings.EqualFold(a, "list-item") {
		if outside, ok := parseOutside(b); ok {
			return Display{Outside: outside, Inside: InsideFlow, ListItem: true}, true
		}
	}
	if strings.EqualFold(b, "list-item") {
		if outside, ok := parseOutside(a); ok {
			return Display{Outside: outside, Inside: InsideFlow, ListItem: true}, true
		}
	}
	return Display{}, false
}

func parseOutside(s string) (DisplayOutside, bool) {
	switch s {
	case "block":
		return OutsideBlock, true
	case "inline":
		return OutsideInline, true
	}
	return 0, false
}

func parseInside(s string) (DisplayInside, bool) {
	switch s {
	case "flow":
		return InsideFlow, true
	case "flow-root":
		return InsideFlowRoot, true
	case "table":
		return InsideTable, true
	case "flex":
		return InsideFlex, true
	case "grid":
		return InsideGrid, true
	case "ruby":
		return InsideRuby, true
	}
	return 0, false
}

// parseSingleKeywordDisplay handles the legacy single-keyword display
// values and the bare `list-item`/`contents`/`none` forms, following the
// same keyword table as CSS Display Level 3's legacy-value-mapping table.
func parseSingleKeywordDisplay(kw string) (Display, bool) {
	switch kw {
	case "inline":
		return Display{Outside: OutsideInline, Inside: InsideFlow}, true
	case "inline-block":
		return Display{Outside: OutsideInline, Inside: InsideFlowRoot}, true
	case "inline-table":
		return Display{Outside: OutsideInline, Inside: InsideTable}, true
	case "inline-flex":
		return Display{Outside: OutsideInline, Inside: InsideFlex}, true
	case "inline-grid":
		return Display{Outside: OutsideInline, Inside: InsideGrid}, true
	case "block":
		return Display{Outside: OutsideBlock, Inside: InsideFlow}, true
	case "flow":
		return Display{Outside: OutsideBlock, Inside: InsideFlow}, true
	case "flow-root":
		return Display{Outside: OutsideBlock, Inside: InsideFlowRoot}, true
	case "table":
		return Display{Outside: OutsideBlock, Inside: InsideTable}, true
	case "flex":
		return Display{Outside: OutsideBlock, Inside: InsideFlex}, true
	case "grid":
		return Display{Outside: OutsideBlock, Inside: InsideGrid}, true
	case "ruby":
		return Display{Outside: OutsideInline, Inside: InsideRuby}, true
	case "list-item":
		return Display{Outside: OutsideBlock, Inside: InsideFlow, ListItem: true}, true
	case "contents":
		return Display{Contents: true}, true
	case "none":
		return Display{None: true}, true
	}
	// table-internal / ruby-internal keywords (table-row, table-cell,
	// ruby-base, ...) have no dedicated layout box in this engine (no
	// real table/ruby layout); fall back to block so the element still
	// participates in flow rather than disappearing.
	if strings.HasPrefix(kw, "table-") || strings.HasPrefix(kw, "ruby-") {
		return Display{Outside: OutsideBlock, Inside: InsideFlow}, true
	}
	return Display{}, false
}

// ShorthandString renders a Display back to the single- or two-token
// keyword CSS would accept, matching what GetComputedStyleProperty
// returns for other keyword-backed properties.
func (d Display) ShorthandString() string {
	switch {
	case d.None:
		return "none"
	case d.Contents:
		return "contents"
	case d.Outside == OutsideInline && d.Inside == InsideFlow && !d.ListItem:
		return "inline"
	case d.Outside == OutsideInline && d.Inside == InsideFlowRoot:
		return "inline-block"
	case d.Outside == OutsideBlock && d.Inside == InsideFlow && !d.ListItem:
		return "block"
	case d.Inside == InsideFlex && d.Outside == OutsideInline:
		return "inline-flex"
	case d.Inside == InsideFlex:
		return "flex"
	case d.Inside == InsideGrid && d.Outside == OutsideInline:
		return "inline-grid"
	case d.Inside == InsideGrid:
		return "grid"
	case d.Inside == InsideTable && d.Outside == OutsideInline:
		return "inline-table"
	case d.Inside == InsideTable:
		return "table"
	case d.Inside == InsideFlowRoot:
		return "flow-root"
	case d.ListItem:
		return "list-item"
	}
	return "block"
}
