package css

import "strings"

// Selector is a selector list: one or more complex selectors separated by
// commas, matching if any complex selector matches.
type Selector struct {
	ComplexSelectors []*ComplexSelector
}

// ComplexSelector is a chain of compound selectors joined by combinators.
type ComplexSelector struct {
	Compounds []*CompoundSelector
}

// CompoundSelector is a sequence of simple selectors applying to one node,
// plus the combinator joining it to the next compound in the chain.
type CompoundSelector struct {
	TypeSelector      *TypeSelector
	IDSelectors       []string
	ClassSelectors    []string
	AttributeMatchers []*AttributeMatcher
	PseudoClasses     []*PseudoClassSelector
	PseudoElement     *PseudoElementSelector
	Combinator        CombinatorType
}

// CombinatorType is the relationship between two compound selectors.
type CombinatorType int

const (
	CombinatorNone       CombinatorType = iota
	CombinatorDescendant                // (whitespace)
	CombinatorChild                     // >
	CombinatorNextSibling               // +
	CombinatorSubsequentSibling         // ~
	CombinatorColumn                    // ||
)

// TypeSelector matches an element's tag name (or "*" for any).
type TypeSelector struct {
	Namespace string
	Name      string
}

// AttributeMatcher is an [attr...] simple selector.
type AttributeMatcher struct {
	Namespace       string
	Name            string
	Operator        AttributeOperator
	Value           string
	CaseInsensitive bool
}

// AttributeOperator is the comparison an attribute selector performs.
type AttributeOperator int

const (
	AttrExists    AttributeOperator = iota // [attr]
	AttrEquals                             // [attr=value]
	AttrIncludes                           // [attr~=value]
	AttrDashMatch                          // [attr|=value]
	AttrPrefix                             // [attr^=value]
	AttrSuffix                             // [attr$=value]
	AttrSubstring                          // [attr*=value]
)

// PseudoClassSelector is a :name or :name(argument) simple selector.
type PseudoClassSelector struct {
	Name     string
	Argument string
	Selector *Selector // for :not(), :is(), :where(), :has()
}

// PseudoElementSelector is a ::name simple selector.
type PseudoElementSelector struct {
	Name     string
	Argument string
}

// ParseSelector parses a selector list from raw CSS text.
func ParseSelector(input string) (*Selector, error) {
	return parseSelectorList(&selScanner{toks: NewTokenizer(input).TokenizeAll()})
}

// ParseSelectorFromTokens parses a selector list from an already-tokenized
// component-value sequence, used for rule preludes captured during at-rule
// parsing.
func ParseSelectorFromTokens(tokens []Token) (*Selector, error) {
	return parseSelectorList(&selScanner{toks: tokens})
}

// selScanner is a cursor over a selector's token stream. Out-of-range
// reads yield EOF tokens, so lookahead never needs bounds checks.
type selScanner struct {
	toks []Token
	i    int
}

func (s *selScanner) tok(k int) Token {
	if p := s.i + k; p >= 0 && p < len(s.toks) {
		return s.toks[p]
	}
	return Token{Type: TokenEOF}
}

// ws skips whitespace tokens, reporting whether any were present.
func (s *selScanner) ws() bool {
	seen := false
	for s.tok(0).Type == TokenWhitespace {
		s.i++
		seen = true
	}
	return seen
}

func (s *selScanner) delimAt(k int, r rune) bool {
	tk := s.tok(k)
	return tk.Type == TokenDelim && tk.Delim == r
}

func parseSelectorList(s *selScanner) (*Selector, error) {
	sel := &Selector{}
	for {
		s.ws()
		cs, err := parseComplex(s)
		if err != nil {
			return nil, err
		}
		if cs != nil && len(cs.Compounds) > 0 {
			sel.ComplexSelectors = append(sel.ComplexSelectors, cs)
		}
		s.ws()
		if s.tok(0).Type != TokenComma {
			return sel, nil
		}
		s.i++
	}
}

func parseComplex(s *selScanner) (*ComplexSelector, error) {
	cs := &ComplexSelector{}
	for {
		c, err := parseCompound(s)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return cs, nil
		}
		cs.Compounds = append(cs.Compounds, c)

		comb, more := readCombinator(s)
		if !more {
			return cs, nil
		}
		c.Combinator = comb
	}
}

// readCombinator consumes the combinator joining the compound just
// parsed to the next one. more=false ends the complex selector (comma,
// EOF, or a rule block follows).
func readCombinator(s *selScanner) (comb CombinatorType, more bool) {
	hadWS := s.ws()

	switch tk := s.tok(0); tk.Type {
	case TokenEOF, TokenComma, TokenOpenCurly:
		return 0, false
	case TokenDelim:
		switch tk.Delim {
		case '>':
			s.i++
			s.ws()
			return CombinatorChild, true
		case '+':
			s.i++
			s.ws()
			return CombinatorNextSibling, true
		case '~':
			s.i++
			s.ws()
			return CombinatorSubsequentSibling, true
		case '|':
			if s.delimAt(1, '|') {
				s.i += 2
				s.ws()
				return CombinatorColumn, true
			}
			return 0, false
		}
	}
	if hadWS {
		return CombinatorDescendant, true
	}
	return 0, false
}

func parseCompound(s *selScanner) (*CompoundSelector, error) {
	c := &CompoundSelector{}
	any := false

	if tk := s.tok(0); tk.Type == TokenIdent || s.delimAt(0, '*') || s.delimAt(0, '|') {
		c.TypeSelector = parseTypeSelector(s)
		any = true
	}

	for {
		consumed, err := parseSimple(s, c)
		if err != nil {
			return nil, err
		}
		if !consumed {
			break
		}
		any = true
	}

	if !any {
		return nil, nil
	}
	return c, nil
}

// parseSimple consumes one non-type simple selector into c, reporting
// whether it consumed anything. Anything it doesn't recognize ends the
// compound.
func parseSimple(s *selScanner, c *CompoundSelector) (bool, error) {
	switch tk := s.tok(0); tk.Type {
	case TokenHash:
		if tk.HashType != HashID {
			return false, nil
		}
		s.i++
		c.IDSelectors = append(c.IDSelectors, tk.Value)
		return true, nil

	case TokenOpenSquare:
		attr, err := parseAttribute(s)
		if err != nil {
			return false, err
		}
		c.AttributeMatchers = append(c.AttributeMatchers, attr)
		return true, nil

	case TokenColon:
		s.i++
		if s.tok(0).Type == TokenColon {
			s.i++
			c.PseudoElement = parsePseudoElement(s)
			return true, nil
		}
		pc, err := parsePseudoClass(s)
		if err != nil {
			return false, err
		}
		c.PseudoClasses = append(c.PseudoClasses, pc)
		return true, nil

	case TokenDelim:
		if tk.Delim == '.' && s.tok(1).Type == TokenIdent {
			c.ClassSelectors = append(c.ClassSelectors, s.tok(1).Value)
			s.i += 2
			return true, nil
		}
		return false, nil

	default:
		return false, nil
	}
}

// parseTypeSelector reads an optional namespace prefix ("ns|", "*|", or
// the default-namespace "|") followed by an element name or "*".
func parseTypeSelector(s *selScanner) *TypeSelector {
	ts := &TypeSelector{}

	switch tk := s.tok(0); {
	case tk.Type == TokenDelim && tk.Delim == '*':
		if !s.delimAt(1, '|') {
			s.i++
			ts.Name = "*"
			return ts
		}
		s.i += 2
		ts.Namespace = "*"
	case tk.Type == TokenDelim && tk.Delim == '|':
		s.i++
	case tk.Type == TokenIdent && s.delimAt(1, '|'):
		ts.Namespace = tk.Value
		s.i += 2
	}

	switch tk := s.tok(0); {
	case tk.Type == TokenIdent:
		s.i++
		ts.Name = strings.ToLower(tk.Value)
	case tk.Type == TokenDelim && tk.Delim == '*':
		s.i++
		ts.Name = "*"
	case ts.Namespace != "":
		ts.Name = "*"
	}
	return ts
}

// attrOps maps the operator's leading delimiter to its comparison; all
// of these must be followed by '=' to take effect.
var attrOps = map[rune]AttributeOperator{
	'~': AttrIncludes,
	'|': AttrDashMatch,
	'^': AttrPrefix,
	'$': AttrSuffix,
	'*': AttrSubstring,
}

func parseAttribute(s *selScanner) (*AttributeMatcher, error) {
	s.i++ // [
	attr := &AttributeMatcher{}
	s.ws()

	// Optional namespace prefix on the attribute name.
	switch tk := s.tok(0); {
	case tk.Type == TokenDelim && tk.Delim == '*':
		s.i++
		if s.delimAt(0, '|') {
			s.i++
			attr.Namespace = "*"
		}
	case tk.Type == TokenDelim && tk.Delim == '|':
		s.i++
	case tk.Type == TokenIdent && s.delimAt(1, '|') && s.tok(2).Type == TokenIdent:
		attr.Namespace = tk.Value
		s.i += 2
	}

	if tk := s.tok(0); tk.Type == TokenIdent {
		s.i++
		attr.Name = strings.ToLower(tk.Value)
	}
	s.ws()

	if s.tok(0).Type == TokenCloseSquare {
		s.i++
		return attr, nil // AttrExists is the zero operator
	}

	if tk := s.tok(0); tk.Type == TokenDelim {
		switch op, twoChar := attrOps[tk.Delim]; {
		case tk.Delim == '=':
			s.i++
			attr.Operator = AttrEquals
		case twoChar:
			s.i++
			if s.delimAt(0, '=') {
				s.i++
				attr.Operator = op
			}
		}
	}

	s.ws()
	if tk := s.tok(0); tk.Type == TokenString || tk.Type == TokenIdent {
		s.i++
		attr.Value = tk.Value
	}
	s.ws()

	// The trailing case-sensitivity flag ([attr=v i] / [attr=v s]).
	if tk := s.tok(0); tk.Type == TokenIdent && len(tk.Value) == 1 {
		switch tk.Value {
		case "i", "I":
			attr.CaseInsensitive = true
			s.i++
			s.ws()
		case "s", "S":
			s.i++
			s.ws()
		}
	}

	if s.tok(0).Type == TokenCloseSquare {
		s.i++
	}
	return attr, nil
}

// selectorArgPseudos are the functional pseudo-classes whose argument is
// itself a selector list.
var selectorArgPseudos = map[string]bool{
	"not": true, "is": true, "where": true, "has": true,
}

func parsePseudoClass(s *selScanner) (*PseudoClassSelector, error) {
	pc := &PseudoClassSelector{}
	switch tk := s.tok(0); tk.Type {
	case TokenIdent:
		s.i++
		pc.Name = strings.ToLower(tk.Value)
	case TokenFunction:
		s.i++
		pc.Name = strings.ToLower(tk.Value)
		s.ws()
		inner := takeBalancedArgs(s)
		if selectorArgPseudos[pc.Name] {
			sel, err := parseSelectorList(&selScanner{toks: inner})
			if err != nil {
				return nil, err
			}
			pc.Selector = sel
		} else {
			pc.Argument = strings.TrimSpace(argText(inner))
		}
	}
	return pc, nil
}

func parsePseudoElement(s *selScanner) *PseudoElementSelector {
	pe := &PseudoElementSelector{}
	switch tk := s.tok(0); tk.Type {
	case TokenIdent:
		s.i++
		pe.Name = strings.ToLower(tk.Value)
	case TokenFunction:
		s.i++
		pe.Name = strings.ToLower(tk.Value)
		pe.Argument = strings.TrimSpace(argText(takeBalancedArgs(s)))
	}
	return pe
}

// takeBalancedArgs consumes tokens through the current function's
// matching close paren and returns the argument tokens inside it.
// Function tokens open their own paren scope, so nested calls like
// :not(:is(a)) balance correctly.
func takeBalancedArgs(s *selScanner) []Token {
	var out []Token
	depth := 1
	for {
		tk := s.tok(0)
		if tk.Type == TokenEOF {
			return out
		}
		s.i++
		switch tk.Type {
		case TokenOpenParen, TokenFunction:
			depth++
		case TokenCloseParen:
			depth--
			if depth == 0 {
				return out
			}
		}
		out = append(out, tk)
	}
}

// argText renders a functional pseudo's argument tokens back to text for
// the argument-string pseudos (:nth-child(2n+1), :lang(en)).
func argText(toks []Token) string {
	var b strings.Builder
	for _, tk := range toks {
		switch tk.Type {
		case TokenWhitespace:
			b.WriteByte(' ')
		case TokenIdent, TokenNumber:
			b.WriteString(tk.Value)
		case TokenDimension:
			b.WriteString(tk.Value)
			b.WriteString(tk.Unit)
		case TokenDelim:
			b.WriteRune(tk.Delim)
		case TokenOpenParen:
			b.WriteByte('(')
		case TokenCloseParen:
			b.WriteByte(')')
		case TokenFunction:
			b.WriteString(tk.Value)
			b.WriteByte('(')
		}
	}
	return b.String()
}

// Specificity is a selector's (ID, class, type) specificity triple.
type Specificity struct {
	A int // ID selectors
	B int // class/attribute selectors, pseudo-classes
	C int // type selectors, pseudo-elements
}

// Compare returns -1, 0, or 1 as s is less than, equal to, or greater
// than other, comparing the three tiers most-significant first.
func (s Specificity) Compare(other Specificity) int {
	tiers := [3][2]int{{s.A, other.A}, {s.B, other.B}, {s.C, other.C}}
	for _, t := range tiers {
		switch {
		case t[0] > t[1]:
			return 1
		case t[0] < t[1]:
			return -1
		}
	}
	return 0
}

func (s Specificity) Less(other Specificity) bool { return s.Compare(other) < 0 }

// CalculateSpecificity computes a complex selector's specificity per
// Selectors Level 4 §17.
func (cs *ComplexSelector) CalculateSpecificity() Specificity {
	var spec Specificity
	for _, c := range cs.Compounds {
		spec.A += len(c.IDSelectors)
		spec.B += len(c.ClassSelectors) + len(c.AttributeMatchers) + len(c.PseudoClasses)
		if c.TypeSelector != nil && c.TypeSelector.Name != "*" {
			spec.C++
		}
		if c.PseudoElement != nil {
			spec.C++
		}
	}
	return spec
}

// CalculateSpecificity returns the highest specificity among the selector
// list's complex selectors (the one that matched, per cascade rules).
func (s *Selector) CalculateSpecificity() Specificity {
	var max Specificity
	for _, cs := range s.ComplexSelectors {
		if spec := cs.CalculateSpecificity(); max.Less(spec) {
			max = spec
		}
	}
	return max
}
