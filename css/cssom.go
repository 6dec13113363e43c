package css

import "strings"

// RuleType identifies the kind of a CSSOM rule node.
type RuleType int

const (
	UnknownRuleType RuleType = iota
	StyleRuleType
	ImportRuleType
	MediaRuleType
	FontFaceRuleType
	KeyframesRuleType
	KeyframeRuleType
	SupportsRuleType
	NamespaceRuleType
	GenericAtRuleType
)

// OMRule is a single node of the CSSOM rule tree: either a style rule or
// one of the recognized at-rules. Nested at-rules (@media, @supports,
// @keyframes) hold their own child OMRules.
type OMRule struct {
	Type RuleType

	// StyleRuleType / KeyframeRuleType
	SelectorText string // also doubles as KeyframeRule's key text (e.g. "50%")
	Declarations []*Declaration

	// ImportRuleType
	Href string

	// MediaRuleType / SupportsRuleType
	ConditionText string
	Children      []*OMRule

	// FontFaceRuleType has Declarations only.

	// KeyframesRuleType
	Name string

	// NamespaceRuleType
	NamespacePrefix string
	NamespaceURI    string

	// GenericAtRuleType: unrecognized at-rules are kept (not dropped) by
	// name and prelude, but they cascade nothing. CSSText writes them back
	// as `@name prelude;`; a block body the rule carried is not kept, so
	// such a rule does not round-trip.
	AtName    string
	AtPrelude string
}

// CSSText serializes the rule back to CSS syntax.
func (r *OMRule) CSSText() string {
	switch r.Type {
	case StyleRuleType:
		return r.SelectorText + " { " + declsCSSText(r.Declarations) + " }"
	case ImportRuleType:
		return `@import url("` + r.Href + `");`
	case MediaRuleType:
		return "@media " + r.ConditionText + " { " + childrenCSSText(r.Children) + " }"
	case FontFaceRuleType:
		return "@font-face { " + declsCSSText(r.Declarations) + " }"
	case KeyframesRuleType:
		return "@keyframes " + r.Name + " { " + childrenCSSText(r.Children) + " }"
	case KeyframeRuleType:
		return r.SelectorText + " { " + declsCSSText(r.Declarations) + " }"
	case SupportsRuleType:
		return "@supports " + r.ConditionText + " { " + childrenCSSText(r.Children) + " }"
	case NamespaceRuleType:
		if r.NamespacePrefix != "" {
			return "@namespace " + r.NamespacePrefix + ` url("` + r.NamespaceURI + `");`
		}
		return `@namespace url("` + r.NamespaceURI + `");`
	default:
		return "@" + r.AtName + " " + r.AtPrelude + ";"
	}
}

func declsCSSText(decls []*Declaration) string {
	var sb strings.Builder
	for i, d := range decls {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(d.Property)
		sb.WriteString(": ")
		sb.WriteString(componentValuesToText(d.Value))
		if d.Important {
			sb.WriteString(" !important")
		}
		sb.WriteString(";")
	}
	return sb.String()
}

func childrenCSSText(children []*OMRule) string {
	var sb strings.Builder
	for i, c := range children {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(c.CSSText())
	}
	return sb.String()
}

// StyleSheet is the CSSOM rule tree for one parsed stylesheet, plus its
// cascade origin and an order index.
type StyleSheet struct {
	Rules  []*OMRule
	Origin Origin
	// Order is this sheet's position among all sheets applied to a
	// document. The cascade does not read it: collectMatchingRules numbers
	// rules itself, in the order the resolver holds the sheets.
	Order int
}

// Origin is a cascade origin per CSS Cascade Level 4 §6.
type Origin int

const (
	OriginUserAgent Origin = iota
	OriginUser
	OriginAuthor
)

// ParseStyleSheet parses raw CSS text into a StyleSheet of the given
// origin.
func ParseStyleSheet(css string, origin Origin) *StyleSheet {
	rules := NewParser(css).ParseStylesheet()
	sheet := &StyleSheet{Origin: origin}
	for _, r := range rules {
		if om := buildOMRule(r); om != nil {
			sheet.Rules = append(sheet.Rules, om)
		}
	}
	return sheet
}

func buildOMRule(r Rule) *OMRule {
	switch v := r.(type) {
	case *QualifiedRule:
		return &OMRule{
			Type:         StyleRuleType,
			SelectorText: strings.TrimSpace(componentValuesToText(v.Prelude)),
			Declarations: ParseBlockContents(v.Block),
		}
	case *AtRule:
		return buildAtRule(v)
	}
	return nil
}

func buildAtRule(a *AtRule) *OMRule {
	prelude := strings.TrimSpace(componentValuesToText(a.Prelude))

	switch strings.ToLower(a.Name) {
	case "import":
		return &OMRule{Type: ImportRuleType, Href: extractURLOrString(a.Prelude)}

	case "media":
		return &OMRule{Type: MediaRuleType, ConditionText: prelude, Children: buildBlockRules(a.Block)}

	case "font-face":
		return &OMRule{Type: FontFaceRuleType, Declarations: ParseBlockContents(a.Block)}

	case "keyframes":
		kf := &OMRule{Type: KeyframesRuleType, Name: prelude}
		if a.Block != nil {
			inner := NewParser(blockInnerText(a.Block)).ParseStylesheet()
			for _, r := range inner {
				if qr, ok := r.(*QualifiedRule); ok {
					kf.Children = append(kf.Children, &OMRule{
						Type:         KeyframeRuleType,
						SelectorText: strings.TrimSpace(componentValuesToText(qr.Prelude)),
						Declarations: ParseBlockContents(qr.Block),
					})
				}
			}
		}
		return kf

	case "supports":
		return &OMRule{Type: SupportsRuleType, ConditionText: prelude, Children: buildBlockRules(a.Block)}

	case "namespace":
		prefix, uri := "", extractURLOrString(a.Prelude)
		if len(a.Prelude) > 0 {
			if pt, ok := a.Prelude[0].(PreservedToken); ok && pt.Token.Type == TokenIdent {
				prefix = pt.Token.Value
			}
		}
		return &OMRule{Type: NamespaceRuleType, NamespacePrefix: prefix, NamespaceURI: uri}

	default:
		return &OMRule{Type: GenericAtRuleType, AtName: a.Name, AtPrelude: prelude}
	}
}

func buildBlockRules(block *Block) []*OMRule {
	if block == nil {
		return nil
	}
	var children []*OMRule
	for _, r := range NewParser(blockInnerText(block)).ParseStylesheet() {
		if om := buildOMRule(r); om != nil {
			children = append(children, om)
		}
	}
	return children
}

func blockInnerText(b *Block) string {
	var sb strings.Builder
	for _, v := range b.Values {
		sb.WriteString(v.String())
	}
	return sb.String()
}

func extractURLOrString(values []ComponentValue) string {
	for _, v := range values {
		switch cv := v.(type) {
		case PreservedToken:
			if cv.Token.Type == TokenURL || cv.Token.Type == TokenString {
				return cv.Token.Value
			}
		case *Function:
			if strings.EqualFold(cv.Name, "url") {
				return extractURLOrString(cv.Values)
			}
		}
	}
	return ""
}

// InsertRule parses ruleText and inserts it at index, per CSSStyleSheet's
// insertRule() (index clamped into range, like the DOM operation).
func (s *StyleSheet) InsertRule(ruleText string, index int) int {
	p := NewParser(ruleText)
	p.skipWhitespace()

	var parsed Rule
	if p.current().Type == TokenAtKeyword {
		if ar := p.consumeAtRule(); ar != nil {
			parsed = ar
		}
	} else {
		if qr := p.consumeQualifiedRule(); qr != nil {
			parsed = qr
		}
	}
	if parsed == nil {
		return index
	}
	om := buildOMRule(parsed)
	if om == nil {
		return index
	}

	if index < 0 || index > len(s.Rules) {
		index = len(s.Rules)
	}
	rules := make([]*OMRule, 0, len(s.Rules)+1)
	rules = append(rules, s.Rules[:index]...)
	rules = append(rules, om)
	rules = append(rules, s.Rules[index:]...)
	s.Rules = rules
	return index
}

// DeleteRule removes the rule at index, a no-op if out of range.
func (s *StyleSheet) DeleteRule(index int) {
	if index < 0 || index >= len(s.Rules) {
		return
	}
	s.Rules = append(s.Rules[:index], s.Rules[index+1:]...)
}

// CSSText serializes every top-level rule in source order.
func (s *StyleSheet) CSSText() string {
	return childrenCSSText(s.Rules)
}
