package css

import (
	"sort"
	"strconv"
	"strings"

	"github.com/aldermoss/enginecore/dom"
)

// MatchedRule is one declaration that matched an element, with the
// metadata the cascade needs to order it against every other match.
// Matching is tracked per declaration, not per rule, so !important can
// reorder individual declarations out of an otherwise-normal block.
type MatchedRule struct {
	Decl        *Declaration
	Origin      Origin
	Important   bool
	Specificity Specificity
	Order       int
}

// StyleResolver resolves computed styles for DOM elements by combining
// a user-agent stylesheet, zero or more user stylesheets, and zero or
// more author stylesheets (one per <style> element or linked sheet).
type StyleResolver struct {
	userAgentSheet *StyleSheet
	userSheets     []*StyleSheet
	authorSheets   []*StyleSheet

	// ViewportWidth/Height resolve vw/vh/vmin/vmax units; 0 defers
	// resolution to 0px, which layout can recompute once it knows the
	// real viewport.
	ViewportWidth  float64
	ViewportHeight float64
}

// NewStyleResolver returns a resolver with a 1024x768 default viewport.
func NewStyleResolver() *StyleResolver {
	return &StyleResolver{ViewportWidth: 1024, ViewportHeight: 768}
}

func (sr *StyleResolver) SetUserAgentStylesheet(ss *StyleSheet) { sr.userAgentSheet = ss }
func (sr *StyleResolver) AddUserStylesheet(ss *StyleSheet)      { sr.userSheets = append(sr.userSheets, ss) }
func (sr *StyleResolver) AddAuthorStylesheet(ss *StyleSheet)    { sr.authorSheets = append(sr.authorSheets, ss) }
func (sr *StyleResolver) ClearAuthorStylesheets()               { sr.authorSheets = nil }

// collectMatchingRules gathers every declaration from every sheet whose
// selector matches id, one MatchedRule per declaration (so !important
// can be tracked per declaration rather than per rule).
func (sr *StyleResolver) collectMatchingRules(doc *dom.Document, id dom.NodeID) []MatchedRule {
	var matched []MatchedRule
	order := 0

	collect := func(sheets []*StyleSheet) {
		for _, ss := range sheets {
			for _, rule := range flattenStyleRules(ss.Rules) {
				sel, err := ParseSelector(rule.SelectorText)
				if err != nil || sel == nil {
					continue
				}
				if !Matches(sel, doc, id) {
					continue
				}
				spec := bestSpecificity(sel, doc, id)
				for _, decl := range rule.Declarations {
					matched = append(matched, MatchedRule{
						Decl:        decl,
						Origin:      ss.Origin,
						Important:   decl.Important,
						Specificity: spec,
						Order:       order,
					})
				}
				order++
			}
		}
	}

	if sr.userAgentSheet != nil {
		collect([]*StyleSheet{sr.userAgentSheet})
	}
	collect(sr.userSheets)
	collect(sr.authorSheets)
	return matched
}

// flattenStyleRules walks past @media/@supports wrappers to the style
// rules they contain. Media queries are not evaluated (this engine has
// no notion of viewport-conditional rule sets beyond the @media grammar
// itself), so every nested style rule is treated as always applying.
func flattenStyleRules(rules []*OMRule) []*OMRule {
	var out []*OMRule
	for _, r := range rules {
		switch r.Type {
		case StyleRuleType:
			out = append(out, r)
		case MediaRuleType, SupportsRuleType:
			out = append(out, flattenStyleRules(r.Children)...)
		}
	}
	return out
}

// bestSpecificity returns the specificity of whichever complex selector
// in sel actually matched id (a selector list takes the specificity of
// its matching branch, not the list as a whole).
func bestSpecificity(sel *Selector, doc *dom.Document, id dom.NodeID) Specificity {
	var best Specificity
	found := false
	for _, cs := range sel.ComplexSelectors {
		if !matchComplex(cs, doc, id, nil) {
			continue
		}
		spec := cs.CalculateSpecificity()
		if !found || spec.Compare(best) > 0 {
			best = spec
			found = true
		}
	}
	return best
}

// sortByPrecedence orders matches lowest-to-highest cascade precedence
// so a straight left-to-right fold (later wins) applies the cascade.
func sortByPrecedence(rules []MatchedRule) {
	sort.SliceStable(rules, func(i, j int) bool {
		a, b := rules[i], rules[j]
		al, bl := cascadeLayer(a.Origin, a.Important), cascadeLayer(b.Origin, b.Important)
		if al != bl {
			return al < bl
		}
		if cmp := a.Specificity.Compare(b.Specificity); cmp != 0 {
			return cmp < 0
		}
		return a.Order < b.Order
	})
}

// cascadeLayer implements CSS Cascade 4 §6's six-tier precedence order:
// important declarations outrank normal ones and invert origin order
// within that tier.
func cascadeLayer(origin Origin, important bool) int {
	if important {
		switch origin {
		case OriginAuthor:
			return 3
		case OriginUser:
			return 4
		case OriginUserAgent:
			return 5
		}
	} else {
		switch origin {
		case OriginUserAgent:
			return 0
		case OriginUser:
			return 1
		case OriginAuthor:
			return 2
		}
	}
	return 0
}

// ComputedValue is one property's resolved value. A property holds
// exactly one of Keyword, a length (LengthVal/LengthUnit, resolved to
// Length once font-size/viewport are known), a Color, or Raw for
// anything the cascade doesn't specifically type (font-family lists,
// gradients, shorthand remainders).
type ComputedValue struct {
	Keyword string

	LengthVal  float64
	LengthUnit string // "", "px", "em", "rem", "%", "pt", "vw", "vh", "vmin", "vmax", "calc", ...
	Length     float64 // resolved px, valid once resolveRelativeValues has run

	// Calc holds a parsed calc() expression when LengthUnit == "calc";
	// resolveRelativeValues evaluates it against the element's font/root
	// context once per resolution pass.
	Calc *CalcExpr

	Color    Color
	HasColor bool
	// ColorIsCurrent marks a not-yet-resolved currentColor value; the
	// cascade resolves it against the element's own computed color once
	// that property itself finishes computing.
	ColorIsCurrent bool

	// Gradient holds a parsed linear-/radial-/conic-gradient() value for
	// background-image/border-image-source, nil otherwise.
	Gradient   *Gradient
	HasGradient bool

	Raw []ComponentValue
}

// ComputedStyle holds every property's resolved value for one element,
// chained to its parent for inheritance.
type ComputedStyle struct {
	values map[string]*ComputedValue
	parent *ComputedStyle

	// variables holds this element's custom-property scope: inherited
	// from the parent unless shadowed by a `--name`
	// declaration on this element.
	variables map[string][]ComponentValue
}

func NewComputedStyle(parent *ComputedStyle) *ComputedStyle {
	cs := &ComputedStyle{values: make(map[string]*ComputedValue), parent: parent}
	cs.variables = make(map[string][]ComponentValue)
	if parent != nil {
		for name, value := range parent.variables {
			cs.variables[name] = value
		}
	}
	return cs
}

// GetPropertyValue returns a property's resolved value, or nil when the
// property is unset or cs itself is nil (anonymous layout boxes carry no
// style of their own).
func (cs *ComputedStyle) GetPropertyValue(property string) *ComputedValue {
	if cs == nil {
		return nil
	}
	return cs.values[strings.ToLower(property)]
}

func (cs *ComputedStyle) SetPropertyValue(property string, value *ComputedValue) {
	cs.values[strings.ToLower(property)] = value
}

// GetVariable returns a custom property's raw component-value list (the
// resolved value in this element's scope, inherited unless shadowed) and
// whether it is defined at all.
func (cs *ComputedStyle) GetVariable(name string) ([]ComponentValue, bool) {
	v, ok := cs.variables[name]
	return v, ok
}

// SetVariable shadows a custom property in this element's scope.
func (cs *ComputedStyle) SetVariable(name string, value []ComponentValue) {
	cs.variables[name] = value
}

// ResolveStyles computes id's style via the seven-step cascade: initial
// values, inheritance, rule matching and sorting, declaration
// application in precedence order, the inline style attribute (highest
// author specificity per CSS Style Attributes), then relative-value
// resolution.
func (sr *StyleResolver) ResolveStyles(doc *dom.Document, id dom.NodeID, parent *ComputedStyle) *ComputedStyle {
	cs := NewComputedStyle(parent)

	applyInitialValues(cs)
	if parent != nil {
		applyInheritedProperties(cs, parent)
	}

	matched := sr.collectMatchingRules(doc, id)

	// The inline style attribute cascades as an author-origin source whose
	// specificity outranks any selector, so it beats every author rule at
	// its own importance level but still loses to !important declarations
	// from stylesheets.
	if node := doc.Node(id); node != nil && node.IsElement() {
		if style, ok := node.Attr("style"); ok && strings.TrimSpace(style) != "" {
			for _, decl := range NewParser(style).ParseDeclarationList() {
				matched = append(matched, MatchedRule{
					Decl:        decl,
					Origin:      OriginAuthor,
					Important:   decl.Important,
					Specificity: Specificity{A: 1 << 20},
					Order:       1 << 30,
				})
			}
		}
	}

	sortByPrecedence(matched)

	// Custom properties cascade like any other property, independent of
	// declaration order relative to the properties that reference them
	// via var(); collect every --name across the whole sorted cascade
	// before resolving any var() use.
	for _, mr := range matched {
		if isCustomProperty(mr.Decl.Property) {
			cs.variables[mr.Decl.Property] = mr.Decl.Value
		}
	}

	for _, mr := range matched {
		if isCustomProperty(mr.Decl.Property) {
			continue
		}
		applyDeclaration(cs, substituteVars(cs, mr.Decl), parent)
	}

	sr.resolveRelativeValues(cs, parent)
	resolveCurrentColor(cs)
	return cs
}

func applyInitialValues(cs *ComputedStyle) {
	for prop, def := range PropertyDefaults {
		cs.values[prop] = valueFromKeyword(prop, def.InitialValue)
	}
}

func applyInheritedProperties(cs *ComputedStyle, parent *ComputedStyle) {
	for prop, def := range PropertyDefaults {
		if !def.Inherited {
			continue
		}
		if pv := parent.values[prop]; pv != nil {
			v := *pv
			// Inheritance passes down the computed value: a parent's 2em
			// is inherited as the pixels it resolved to, not re-resolved
			// against the child's own font size.
			if v.LengthUnit != "" && v.LengthUnit != "calc" {
				v.LengthVal = v.Length
				v.LengthUnit = "px"
			}
			cs.values[prop] = &v
		}
	}
}

// applyDeclaration applies one declaration, expanding box shorthands
// (margin/padding/border-width/border-style/border-color) into their
// four longhands first.
func applyDeclaration(cs *ComputedStyle, decl *Declaration, parent *ComputedStyle) {
	prop := strings.ToLower(decl.Property)

	if longhands, ok := expandBoxShorthand(prop, decl.Value); ok {
		for lp, lv := range longhands {
			applyDeclaration(cs, &Declaration{Property: lp, Value: lv, Important: decl.Important}, parent)
		}
		return
	}

	if kw, ok := singleKeyword(decl.Value); ok {
		switch strings.ToLower(kw) {
		case "inherit":
			if parent != nil {
				if pv := parent.values[prop]; pv != nil {
					v := *pv
					cs.values[prop] = &v
					return
				}
			}
			return
		case "initial":
			if def, ok := PropertyDefaults[prop]; ok {
				cs.values[prop] = valueFromKeyword(prop, def.InitialValue)
			}
			return
		case "unset":
			if def, ok := PropertyDefaults[prop]; ok {
				if def.Inherited && parent != nil {
					if pv := parent.values[prop]; pv != nil {
						v := *pv
						cs.values[prop] = &v
						return
					}
				}
				cs.values[prop] = valueFromKeyword(prop, def.InitialValue)
			}
			return
		case "revert":
			// No user-agent/author layer distinction is tracked per
			// property past this point, so revert falls back to the
			// property's initial value rather than the previous layer.
			if def, ok := PropertyDefaults[prop]; ok {
				cs.values[prop] = valueFromKeyword(prop, def.InitialValue)
			}
			return
		}
	}

	cs.values[prop] = computeValue(prop, decl.Value)
}

func singleKeyword(values []ComponentValue) (string, bool) {
	var tok *Token
	for _, v := range values {
		pt, ok := v.(PreservedToken)
		if !ok {
			return "", false
		}
		if pt.Token.Type == TokenWhitespace {
			continue
		}
		if tok != nil {
			return "", false
		}
		t := pt.Token
		tok = &t
	}
	if tok == nil || tok.Type != TokenIdent {
		return "", false
	}
	return tok.Value, true
}

func valueFromKeyword(prop, keyword string) *ComputedValue {
	if isColorProperty(prop) {
		if strings.EqualFold(keyword, "currentcolor") {
			return &ComputedValue{Keyword: keyword, ColorIsCurrent: true}
		}
		if c, ok := ParseColor(keyword); ok {
			return &ComputedValue{Keyword: keyword, Color: c, HasColor: true}
		}
	}
	return &ComputedValue{Keyword: keyword}
}

var gradientProperties = map[string]bool{
	"background-image": true, "border-image-source": true, "mask-image": true,
}

func isGradientProperty(prop string) bool { return gradientProperties[prop] }

var colorProperties = map[string]bool{
	"color": true, "background-color": true, "border-color": true,
	"border-top-color": true, "border-right-color": true,
	"border-bottom-color": true, "border-left-color": true,
	"outline-color": true, "text-decoration-color": true, "caret-color": true,
}

func isColorProperty(prop string) bool { return colorProperties[prop] }

var lengthProperties = map[string]bool{
	"width": true, "height": true, "min-width": true, "min-height": true,
	"max-width": true, "max-height": true,
	"margin-top": true, "margin-right": true, "margin-bottom": true, "margin-left": true,
	"padding-top": true, "padding-right": true, "padding-bottom": true, "padding-left": true,
	"top": true, "right": true, "bottom": true, "left": true,
	"border-top-width": true, "border-right-width": true,
	"border-bottom-width": true, "border-left-width": true,
	"font-size": true, "line-height": true, "text-indent": true,
	"letter-spacing": true, "word-spacing": true, "border-radius": true, "gap": true,
}

func isLengthProperty(prop string) bool { return lengthProperties[prop] }

// computeValue types a declaration's non-keyword value: a resolved
// Color for color properties, a length for length properties, or the
// raw component values otherwise (font-family lists, gradients,
// transform lists, and anything else layout reparses on demand).
func computeValue(prop string, values []ComponentValue) *ComputedValue {
	text := strings.TrimSpace(componentValuesToText(values))

	if prop == "display" {
		if d, ok := ParseDisplay(text); ok {
			return &ComputedValue{Keyword: d.ShorthandString(), Raw: values}
		}
	}

	if isGradientProperty(prop) {
		if g, ok := ParseGradient(text); ok {
			return &ComputedValue{Gradient: &g, HasGradient: true, Raw: values}
		}
	}

	if isColorProperty(prop) {
		if strings.EqualFold(text, "currentcolor") {
			return &ComputedValue{ColorIsCurrent: true, Raw: values}
		}
		if c, ok := ParseColor(text); ok {
			return &ComputedValue{Color: c, HasColor: true, Raw: values}
		}
	}

	if isLengthProperty(prop) {
		if expr, ok := ParseCalc(values); ok {
			return &ComputedValue{LengthUnit: "calc", Calc: expr, Raw: values}
		}
		if n, unit, ok := singleLength(values); ok {
			return &ComputedValue{LengthVal: n, LengthUnit: unit, Raw: values}
		}
	}

	if kw, ok := singleKeyword(values); ok {
		return &ComputedValue{Keyword: kw, Raw: values}
	}

	return &ComputedValue{Raw: values}
}

// singleLength extracts a bare number/dimension/percentage token's
// magnitude and unit ("" for a unitless number, "%" for a percentage).
func singleLength(values []ComponentValue) (float64, string, bool) {
	var tok *Token
	for _, v := range values {
		pt, ok := v.(PreservedToken)
		if !ok {
			return 0, "", false
		}
		if pt.Token.Type == TokenWhitespace {
			continue
		}
		if tok != nil {
			return 0, "", false
		}
		t := pt.Token
		tok = &t
	}
	if tok == nil {
		return 0, "", false
	}
	switch tok.Type {
	case TokenNumber:
		return tok.NumValue, "", true
	case TokenPercentage:
		return tok.NumValue, "%", true
	case TokenDimension:
		return tok.NumValue, strings.ToLower(tok.Unit), true
	}
	return 0, "", false
}

// boxShorthands maps a shorthand property to its four longhands in
// top/right/bottom/left order.
var boxShorthands = map[string][4]string{
	"margin":       {"margin-top", "margin-right", "margin-bottom", "margin-left"},
	"padding":      {"padding-top", "padding-right", "padding-bottom", "padding-left"},
	"border-width": {"border-top-width", "border-right-width", "border-bottom-width", "border-left-width"},
	"border-style": {"border-top-style", "border-right-style", "border-bottom-style", "border-left-style"},
	"border-color": {"border-top-color", "border-right-color", "border-bottom-color", "border-left-color"},
}

// expandBoxShorthand applies the CSS box model's 1/2/3/4-value syntax:
// one value sets all sides, two set vertical/horizontal, three set
// top/horizontal/bottom, four set top/right/bottom/left.
func expandBoxShorthand(prop string, values []ComponentValue) (map[string][]ComponentValue, bool) {
	longhands, ok := boxShorthands[prop]
	if !ok {
		return nil, false
	}
	parts := splitOnWhitespace(values)
	var top, right, bottom, left []ComponentValue
	switch len(parts) {
	case 1:
		top, right, bottom, left = parts[0], parts[0], parts[0], parts[0]
	case 2:
		top, right, bottom, left = parts[0], parts[1], parts[0], parts[1]
	case 3:
		top, right, bottom, left = parts[0], parts[1], parts[2], parts[1]
	case 4:
		top, right, bottom, left = parts[0], parts[1], parts[2], parts[3]
	default:
		return nil, false
	}
	return map[string][]ComponentValue{
		longhands[0]: top, longhands[1]: right, longhands[2]: bottom, longhands[3]: left,
	}, true
}

func splitOnWhitespace(values []ComponentValue) [][]ComponentValue {
	var parts [][]ComponentValue
	var cur []ComponentValue
	for _, v := range values {
		if pt, ok := v.(PreservedToken); ok && pt.Token.Type == TokenWhitespace {
			if len(cur) > 0 {
				parts = append(parts, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, v)
	}
	if len(cur) > 0 {
		parts = append(parts, cur)
	}
	return parts
}

// resolveRelativeValues converts every length's (LengthVal, LengthUnit)
// pair to absolute pixels now that the element's own font-size and the
// root's font-size are both known.
func (sr *StyleResolver) resolveRelativeValues(cs *ComputedStyle, parent *ComputedStyle) {
	parentFontSize := 16.0
	if parent != nil {
		if pfs := parent.values["font-size"]; pfs != nil && pfs.Length > 0 {
			parentFontSize = pfs.Length
		}
	}

	// The element's own font-size resolves first, against the parent's,
	// so every other em-based length on this element can resolve against
	// the element's own size.
	fontSize := parentFontSize
	if fs := cs.values["font-size"]; fs != nil {
		switch {
		case fs.LengthUnit == "%":
			fontSize = fs.LengthVal / 100 * parentFontSize
		case fs.LengthUnit == "em":
			fontSize = fs.LengthVal * parentFontSize
		case fs.LengthUnit != "" && fs.LengthUnit != "calc":
			fontSize = sr.resolveLength(fs.LengthVal, fs.LengthUnit, parentFontSize, parentFontSize)
		case fs.Keyword != "":
			fontSize = absoluteFontKeyword(fs.Keyword)
		}
		fs.Length = fontSize
	}

	rootFontSize := fontSize
	root := cs
	for root.parent != nil {
		root = root.parent
	}
	if root != cs {
		if rfs := root.values["font-size"]; rfs != nil && rfs.Length > 0 {
			rootFontSize = rfs.Length
		} else {
			rootFontSize = 16
		}
	}

	for prop, val := range cs.values {
		if val == nil || prop == "font-size" {
			continue
		}
		switch val.LengthUnit {
		case "":
			continue
		case "%":
			val.Length = resolvePercentage(val.LengthVal, prop, parent)
		case "calc":
			if val.Calc != nil && !val.Calc.HasPercentage() {
				val.Length = val.Calc.Eval(func(v float64, unit string) float64 {
					return sr.resolveLength(v, unit, fontSize, rootFontSize)
				})
			}
			// calc() expressions mixing in a percentage need the
			// containing block's geometry, which isn't known until
			// layout; layout re-evaluates val.Calc itself in that case
			// (see layout.resolveCalcAgainstContainingBlock).
		default:
			val.Length = sr.resolveLength(val.LengthVal, val.LengthUnit, fontSize, rootFontSize)
		}
	}
}

func absoluteFontKeyword(kw string) float64 {
	switch strings.ToLower(kw) {
	case "xx-small":
		return 9
	case "x-small":
		return 10
	case "small":
		return 13
	case "medium":
		return 16
	case "large":
		return 18
	case "x-large":
		return 24
	case "xx-large":
		return 32
	}
	return 16
}

// resolveLength converts a length in the given CSS unit to pixels,
// using the CSS-defined 96px/in reference and the resolver's viewport
// for vw/vh/vmin/vmax.
func (sr *StyleResolver) resolveLength(value float64, unit string, fontSize, rootFontSize float64) float64 {
	switch unit {
	case "px":
		return value
	case "em":
		return value * fontSize
	case "rem":
		return value * rootFontSize
	case "pt":
		return value * 96 / 72
	case "pc":
		return value * 16
	case "in":
		return value * 96
	case "cm":
		return value * 96 / 2.54
	case "mm":
		return value * 96 / 25.4
	case "q":
		return value * 96 / 101.6
	case "ex", "rex":
		return value * fontSize * 0.5
	case "ch", "rch":
		return value * fontSize * 0.5
	case "cap", "rcap":
		return value * fontSize * 0.7
	case "ic", "ric":
		return value * fontSize
	case "lh", "rlh":
		// Line-height isn't threaded through resolveLength's call sites;
		// CSS Values 4 §6.2.2's ratio to font-size is a documented
		// approximation for the no-line-box-context case.
		return value * fontSize * 1.2
	case "vw", "svw", "lvw", "dvw", "vi", "svi", "lvi", "dvi":
		return value / 100 * sr.ViewportWidth
	case "vh", "svh", "lvh", "dvh", "vb", "svb", "lvb", "dvb":
		return value / 100 * sr.ViewportHeight
	case "vmin", "svmin", "lvmin", "dvmin":
		return value / 100 * minFloat(sr.ViewportWidth, sr.ViewportHeight)
	case "vmax", "svmax", "lvmax", "dvmax":
		return value / 100 * maxFloat(sr.ViewportWidth, sr.ViewportHeight)
	// Container query units fall back to the viewport because this
	// engine has no query-container size-tracking (no @container
	// support).
	case "cqw", "cqi":
		return value / 100 * sr.ViewportWidth
	case "cqh", "cqb":
		return value / 100 * sr.ViewportHeight
	case "cqmin":
		return value / 100 * minFloat(sr.ViewportWidth, sr.ViewportHeight)
	case "cqmax":
		return value / 100 * maxFloat(sr.ViewportWidth, sr.ViewportHeight)
	default:
		return value
	}
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// resolvePercentage resolves percentages whose base is known at style
// time (font-size, line-height); box-geometry percentages (width,
// margins, insets) are left as LengthVal/"%"  and resolved during
// layout against the actual containing block.
func resolvePercentage(percent float64, property string, parent *ComputedStyle) float64 {
	switch property {
	case "font-size":
		base := 16.0
		if parent != nil {
			if pfs := parent.values["font-size"]; pfs != nil && pfs.Length > 0 {
				base = pfs.Length
			}
		}
		return percent / 100 * base
	case "line-height":
		base := 16.0
		if parent != nil {
			if fs := parent.values["font-size"]; fs != nil && fs.Length > 0 {
				base = fs.Length
			}
		}
		return percent / 100 * base
	default:
		return percent
	}
}

// resolveCurrentColor resolves every ColorIsCurrent value against this
// element's own computed `color`, per CSS Color 4 §4.4.
func resolveCurrentColor(cs *ComputedStyle) {
	colorVal := cs.values["color"]
	if colorVal == nil || colorVal.ColorIsCurrent {
		return
	}
	for prop, v := range cs.values {
		if prop == "color" || v == nil || !v.ColorIsCurrent {
			continue
		}
		v.Color = colorVal.Color
		v.HasColor = true
		v.ColorIsCurrent = false
	}
}

// PropertyDefault records a property's initial value and whether it
// participates in inheritance, per the CSS property tables in each
// module's "Initial/Inherited" row.
type PropertyDefault struct {
	InitialValue string
	Inherited    bool
}

// PropertyDefaults covers every property this engine's cascade and
// layout understand; anything absent from this table is accepted by
// the parser (so stylesheets round-trip) but never cascades.
var PropertyDefaults = map[string]PropertyDefault{
	"display":    {InitialValue: "inline", Inherited: false},
	"position":   {InitialValue: "static", Inherited: false},
	"float":      {InitialValue: "none", Inherited: false},
	"clear":      {InitialValue: "none", Inherited: false},
	"overflow":   {InitialValue: "visible", Inherited: false},
	"overflow-x": {InitialValue: "visible", Inherited: false},
	"overflow-y": {InitialValue: "visible", Inherited: false},
	"visibility": {InitialValue: "visible", Inherited: true},
	"z-index":    {InitialValue: "auto", Inherited: false},
	"box-sizing": {InitialValue: "content-box", Inherited: false},

	"width":      {InitialValue: "auto", Inherited: false},
	"height":     {InitialValue: "auto", Inherited: false},
	"min-width":  {InitialValue: "0", Inherited: false},
	"min-height": {InitialValue: "0", Inherited: false},
	"max-width":  {InitialValue: "none", Inherited: false},
	"max-height": {InitialValue: "none", Inherited: false},

	"margin-top": {InitialValue: "0", Inherited: false}, "margin-right": {InitialValue: "0", Inherited: false},
	"margin-bottom": {InitialValue: "0", Inherited: false}, "margin-left": {InitialValue: "0", Inherited: false},

	"padding-top": {InitialValue: "0", Inherited: false}, "padding-right": {InitialValue: "0", Inherited: false},
	"padding-bottom": {InitialValue: "0", Inherited: false}, "padding-left": {InitialValue: "0", Inherited: false},

	"border-top-width": {InitialValue: "medium", Inherited: false}, "border-right-width": {InitialValue: "medium", Inherited: false},
	"border-bottom-width": {InitialValue: "medium", Inherited: false}, "border-left-width": {InitialValue: "medium", Inherited: false},
	"border-top-style": {InitialValue: "none", Inherited: false}, "border-right-style": {InitialValue: "none", Inherited: false},
	"border-bottom-style": {InitialValue: "none", Inherited: false}, "border-left-style": {InitialValue: "none", Inherited: false},
	"border-top-color": {InitialValue: "currentcolor", Inherited: false}, "border-right-color": {InitialValue: "currentcolor", Inherited: false},
	"border-bottom-color": {InitialValue: "currentcolor", Inherited: false}, "border-left-color": {InitialValue: "currentcolor", Inherited: false},
	"border-radius": {InitialValue: "0", Inherited: false},

	"top": {InitialValue: "auto", Inherited: false}, "right": {InitialValue: "auto", Inherited: false},
	"bottom": {InitialValue: "auto", Inherited: false}, "left": {InitialValue: "auto", Inherited: false},

	"color":           {InitialValue: "black", Inherited: true},
	"font-family":     {InitialValue: "serif", Inherited: true},
	"font-size":       {InitialValue: "medium", Inherited: true},
	"font-style":      {InitialValue: "normal", Inherited: true},
	"font-weight":     {InitialValue: "normal", Inherited: true},
	"font-variant":    {InitialValue: "normal", Inherited: true},
	"line-height":     {InitialValue: "normal", Inherited: true},
	"letter-spacing":  {InitialValue: "normal", Inherited: true},
	"word-spacing":    {InitialValue: "normal", Inherited: true},
	"text-align":      {InitialValue: "start", Inherited: true},
	"text-decoration":       {InitialValue: "none", Inherited: false},
	"text-decoration-color": {InitialValue: "currentcolor", Inherited: false},
	"text-transform":  {InitialValue: "none", Inherited: true},
	"text-indent":     {InitialValue: "0", Inherited: true},
	"white-space":     {InitialValue: "normal", Inherited: true},
	"vertical-align":  {InitialValue: "baseline", Inherited: false},
	"direction":       {InitialValue: "ltr", Inherited: true},
	"unicode-bidi":    {InitialValue: "normal", Inherited: false},
	"writing-mode":    {InitialValue: "horizontal-tb", Inherited: true},

	"background-color":      {InitialValue: "transparent", Inherited: false},
	"background-image":      {InitialValue: "none", Inherited: false},
	"background-repeat":     {InitialValue: "repeat", Inherited: false},
	"background-position":   {InitialValue: "0% 0%", Inherited: false},
	"background-attachment": {InitialValue: "scroll", Inherited: false},
	"background-size":       {InitialValue: "auto", Inherited: false},

	"list-style-type":     {InitialValue: "disc", Inherited: true},
	"list-style-position": {InitialValue: "outside", Inherited: true},
	"list-style-image":    {InitialValue: "none", Inherited: true},

	"table-layout":    {InitialValue: "auto", Inherited: false},
	"border-collapse": {InitialValue: "separate", Inherited: true},
	"border-spacing":  {InitialValue: "0", Inherited: true},
	"empty-cells":     {InitialValue: "show", Inherited: true},
	"caption-side":    {InitialValue: "top", Inherited: true},

	"flex-direction":  {InitialValue: "row", Inherited: false},
	"flex-wrap":       {InitialValue: "nowrap", Inherited: false},
	"justify-content": {InitialValue: "flex-start", Inherited: false},
	"align-items":     {InitialValue: "stretch", Inherited: false},
	"align-content":   {InitialValue: "stretch", Inherited: false},
	"flex-grow":       {InitialValue: "0", Inherited: false},
	"flex-shrink":     {InitialValue: "1", Inherited: false},
	"flex-basis":      {InitialValue: "auto", Inherited: false},
	"order":           {InitialValue: "0", Inherited: false},
	"align-self":      {InitialValue: "auto", Inherited: false},

	"grid-template-columns": {InitialValue: "none", Inherited: false},
	"grid-template-rows":    {InitialValue: "none", Inherited: false},
	"grid-column":           {InitialValue: "auto", Inherited: false},
	"grid-row":              {InitialValue: "auto", Inherited: false},
	"gap":                   {InitialValue: "0", Inherited: false},

	"cursor":        {InitialValue: "auto", Inherited: true},
	"opacity":       {InitialValue: "1", Inherited: false},
	"content":       {InitialValue: "normal", Inherited: false},
	"quotes":        {InitialValue: "auto", Inherited: true},
	"counter-reset": {InitialValue: "none", Inherited: false},
	"outline-color": {InitialValue: "currentcolor", Inherited: false},
	"outline-style": {InitialValue: "none", Inherited: false},
	"outline-width": {InitialValue: "medium", Inherited: false},
}

// GetComputedStyleProperty renders a property's computed value the way
// getComputedStyle() would, for debugging and the WPT-style harness.
func (cs *ComputedStyle) GetComputedStyleProperty(property string) string {
	val := cs.GetPropertyValue(property)
	if val == nil {
		return ""
	}
	if val.HasColor {
		return ColorToString(val.Color)
	}
	if val.LengthUnit != "" {
		return strconv.FormatFloat(val.Length, 'g', -1, 64) + "px"
	}
	if val.Keyword != "" {
		return val.Keyword
	}
	return strings.TrimSpace(componentValuesToText(val.Raw))
}

// GetLength returns a property's resolved pixel length (0 if unset or
// not a length).
func (cs *ComputedStyle) GetLength(property string) float64 {
	if val := cs.GetPropertyValue(property); val != nil {
		return val.Length
	}
	return 0
}

// GetColor returns a property's resolved color (zero value if unset or
// not a color).
func (cs *ComputedStyle) GetColor(property string) Color {
	if val := cs.GetPropertyValue(property); val != nil {
		return val.Color
	}
	return Color{}
}

// GetGradient returns a property's parsed gradient and whether one was
// present (false for "none" or a plain <image> url()).
func (cs *ComputedStyle) GetGradient(property string) (Gradient, bool) {
	if val := cs.GetPropertyValue(property); val != nil && val.HasGradient {
		return *val.Gradient, true
	}
	return Gradient{}, false
}
