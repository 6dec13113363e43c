package css

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenizeValues(t *testing.T, input string) []ComponentValue {
	t.Helper()
	toks := NewTokenizer(input).TokenizeAll()
	values := make([]ComponentValue, 0, len(toks))
	for _, tok := range toks {
		if tok.Type == TokenEOF {
			continue
		}
		values = append(values, PreservedToken{Token: tok})
	}
	return values
}

func TestParseCalcSimpleAddition(t *testing.T) {
	expr, ok := ParseCalc(tokenizeValues(t, "calc(10px + 5px)"))
	require.True(t, ok)
	px := expr.Eval(func(v float64, unit string) float64 {
		assert.Equal(t, "px", unit)
		return v
	})
	assert.Equal(t, 15.0, px)
}

func TestParseCalcOperatorPrecedence(t *testing.T) {
	// calc(2px + 3px * 4) == 2 + (3*4) == 14px, not (2+3)*4.
	expr, ok := ParseCalc(tokenizeValues(t, "calc(2px + 3px * 4)"))
	require.True(t, ok)
	px := expr.Eval(func(v float64, unit string) float64 { return v })
	assert.Equal(t, 14.0, px)
}

func TestParseCalcNestedParens(t *testing.T) {
	expr, ok := ParseCalc(tokenizeValues(t, "calc((10px + 6px) / 2)"))
	require.True(t, ok)
	px := expr.Eval(func(v float64, unit string) float64 { return v })
	assert.Equal(t, 8.0, px)
}

func TestParseCalcWithPercentage(t *testing.T) {
	expr, ok := ParseCalc(tokenizeValues(t, "calc(100% - 20px)"))
	require.True(t, ok)
	assert.True(t, expr.HasPercentage())

	px := expr.Eval(func(v float64, unit string) float64 {
		if unit == "%" {
			return v / 100 * 800
		}
		return v
	})
	assert.Equal(t, 780.0, px)
}

func TestParseCalcRejectsNonCalcValue(t *testing.T) {
	_, ok := ParseCalc(tokenizeValues(t, "10px"))
	assert.False(t, ok)
}

func TestCascadeResolvesCalcLength(t *testing.T) {
	sr := NewStyleResolver()
	cs := NewComputedStyle(nil)
	applyDeclaration(cs, &Declaration{Property: "width", Value: tokenizeValues(t, "calc(10px + 5px)")}, nil)
	sr.resolveRelativeValues(cs, nil)

	assert.Equal(t, 15.0, cs.GetLength("width"))
}
