package css

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// The CSSOM round-trips parsed stylesheets back to valid CSS text.
// componentValuesToText used to reconstruct declaration/selector
// text from Token.String()'s debug format (`<IDENT "red">`) instead of real
// CSS source; these assert the fixed Token.CSSText()-backed path.
func TestStyleSheetCSSTextRoundTrips(t *testing.T) {
	sheet := ParseStyleSheet("p.intro { color: red; margin: 4px 2em; }", OriginAuthor)
	assert.Equal(t, `p.intro { color: red; margin: 4px 2em; }`, sheet.CSSText())
}

func TestStyleSheetCSSTextPreservesFunctionArguments(t *testing.T) {
	sheet := ParseStyleSheet("div { background: rgb(1, 2, 3); }", OriginAuthor)
	assert.Equal(t, `div { background: rgb(1, 2, 3); }`, sheet.CSSText())
}

func TestStyleSheetCSSTextImportantSurvives(t *testing.T) {
	sheet := ParseStyleSheet("a { color: blue !important; }", OriginAuthor)
	assert.Equal(t, `a { color: blue !important; }`, sheet.CSSText())
}

func TestOMRuleSelectorTextIsReadableNotDebugFormat(t *testing.T) {
	sheet := ParseStyleSheet(".a > .b { color: red; }", OriginAuthor)
	rules := sheet.Rules
	assert.Len(t, rules, 1)
	assert.Equal(t, ".a > .b", rules[0].SelectorText)
}
