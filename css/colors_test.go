package css

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColorHexEquivalence(t *testing.T) {
	// #f00 == #ff0000 == #ff0000ff
	short, ok := ParseColor("#f00")
	require.True(t, ok)
	long, ok := ParseColor("#ff0000")
	require.True(t, ok)
	withAlpha, ok := ParseColor("#ff0000ff")
	require.True(t, ok)

	assert.Equal(t, short, long)
	assert.Equal(t, long, withAlpha)

	r, g, b, a := short.RGBA8()
	assert.Equal(t, uint8(255), r)
	assert.Equal(t, uint8(0), g)
	assert.Equal(t, uint8(0), b)
	assert.Equal(t, uint8(255), a)
}

func TestParseColorInvalidHexFails(t *testing.T) {
	_, ok := ParseColor("#zzz")
	assert.False(t, ok)

	_, ok = ParseColor("#ff0")
	assert.True(t, ok, "3-digit hex is valid")

	_, ok = ParseColor("#ff")
	assert.False(t, ok, "2-digit hex is not a valid hex-color form")
}

func TestParseColorNamed(t *testing.T) {
	c, ok := ParseColor("red")
	require.True(t, ok)
	r, g, b, _ := c.RGBA8()
	assert.Equal(t, uint8(255), r)
	assert.Equal(t, uint8(0), g)
	assert.Equal(t, uint8(0), b)
}

func TestParseColorRGBFunction(t *testing.T) {
	c, ok := ParseColor("rgb(255, 0, 0)")
	require.True(t, ok)
	r, g, b, a := c.RGBA8()
	assert.Equal(t, uint8(255), r)
	assert.Equal(t, uint8(0), g)
	assert.Equal(t, uint8(0), b)
	assert.Equal(t, uint8(255), a)
}

func TestParseColorCurrentColorIsDeferred(t *testing.T) {
	cv, ok := ParseColorValue("currentColor")
	require.True(t, ok)
	assert.Equal(t, SpecialCurrentColor, cv.Special)

	resolved := cv.Resolve(Color{R: 0.2, G: 0.4, B: 0.6, A: 1}, false)
	assert.Equal(t, Color{R: 0.2, G: 0.4, B: 0.6, A: 1}, resolved)
}

func TestParseColorLightDark(t *testing.T) {
	cv, ok := ParseColorValue("light-dark(#fff, #000)")
	require.True(t, ok)
	assert.Equal(t, SpecialLightDark, cv.Special)

	light := cv.Resolve(Color{}, false)
	dark := cv.Resolve(Color{}, true)

	lr, _, _, _ := light.RGBA8()
	dr, _, _, _ := dark.RGBA8()
	assert.Equal(t, uint8(255), lr)
	assert.Equal(t, uint8(0), dr)
}

func TestParseColorOklabRoundTripsToSRGB(t *testing.T) {
	// oklch(1 0 0) is pure white in OKLCH; its sRGB conversion should
	// land at (1,1,1) within rounding.
	c, ok := ParseColor("oklch(1 0 0)")
	require.True(t, ok)
	r, g, b, _ := c.RGBA8()
	assert.Equal(t, uint8(255), r)
	assert.Equal(t, uint8(255), g)
	assert.Equal(t, uint8(255), b)
}
