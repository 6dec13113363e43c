package css

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDisplayTwoToken(t *testing.T) {
	d, ok := ParseDisplay("inline flex")
	require.True(t, ok)
	assert.Equal(t, OutsideInline, d.Outside)
	assert.Equal(t, InsideFlex, d.Inside)
	assert.Equal(t, "inline-flex", d.ShorthandString())
}

func TestParseDisplayLegacySingleKeyword(t *testing.T) {
	d, ok := ParseDisplay("block")
	require.True(t, ok)
	assert.Equal(t, OutsideBlock, d.Outside)
	assert.Equal(t, InsideFlow, d.Inside)

	d, ok = ParseDisplay("inline-block")
	require.True(t, ok)
	assert.Equal(t, OutsideInline, d.Outside)
	assert.Equal(t, InsideFlowRoot, d.Inside)
}

func TestParseDisplayNoneAndContents(t *testing.T) {
	d, ok := ParseDisplay("none")
	require.True(t, ok)
	assert.True(t, d.None)

	d, ok = ParseDisplay("contents")
	require.True(t, ok)
	assert.True(t, d.Contents)
}

func TestParseDisplayListItem(t *testing.T) {
	d, ok := ParseDisplay("list-item")
	require.True(t, ok)
	assert.True(t, d.ListItem)
	assert.Equal(t, OutsideBlock, d.Outside)

	d, ok = ParseDisplay("inline list-item")
	require.True(t, ok)
	assert.True(t, d.ListItem)
	assert.Equal(t, OutsideInline, d.Outside)
}

func TestCascadeNormalizesDisplayToShorthand(t *testing.T) {
	cs := NewComputedStyle(nil)
	applyDeclaration(cs, &Declaration{Property: "display", Value: tokenizeValues(t, "inline flex")}, nil)
	assert.Equal(t, "inline-flex", cs.GetComputedStyleProperty("display"))
}
