package css

import (
	"math"
	"strings"
)

// Color is a resolved color in non-linear sRGB, channels in [0,1].
type Color struct {
	R, G, B, A float64
}

// RGBA8 returns the color as four 0-255 channels, clamped.
func (c Color) RGBA8() (r, g, b, a uint8) {
	return clampTo8(c.R), clampTo8(c.G), clampTo8(c.B), clampTo8(c.A)
}

func clampTo8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 255
	}
	return uint8(math.Round(v * 255))
}

// SpecialColor marks a color value that cannot be resolved without
// context (the element's own `color` for currentColor, the active
// color scheme for light-dark()).
type SpecialColor int

const (
	NotSpecial SpecialColor = iota
	SpecialCurrentColor
	SpecialLightDark
)

// ColorValue is the result of parsing any <color> production. Plain
// colors resolve immediately into Color; currentColor and light-dark()
// defer resolution to the cascade, which has the element's computed
// color and active color scheme.
type ColorValue struct {
	Special   SpecialColor
	Color     Color
	LightVal  *ColorValue // light-dark() first argument
	DarkVal   *ColorValue // light-dark() second argument
}

// Resolve turns a ColorValue into a concrete Color given the
// surrounding context.
func (cv ColorValue) Resolve(currentColor Color, darkMode bool) Color {
	switch cv.Special {
	case SpecialCurrentColor:
		return currentColor
	case SpecialLightDark:
		if darkMode && cv.DarkVal != nil {
			return cv.DarkVal.Resolve(currentColor, darkMode)
		}
		if cv.LightVal != nil {
			return cv.LightVal.Resolve(currentColor, darkMode)
		}
	}
	return cv.Color
}

// NamedColors maps CSS color names (the SVG/CSS named-color set) to
// their sRGB values.
var NamedColors = map[string]Color{
	"black": rgb8(0, 0, 0), "silver": rgb8(192, 192, 192), "gray": rgb8(128, 128, 128),
	"grey": rgb8(128, 128, 128), "white": rgb8(255, 255, 255), "maroon": rgb8(128, 0, 0),
	"red": rgb8(255, 0, 0), "purple": rgb8(128, 0, 128), "fuchsia": rgb8(255, 0, 255),
	"green": rgb8(0, 128, 0), "lime": rgb8(0, 255, 0), "olive": rgb8(128, 128, 0),
	"yellow": rgb8(255, 255, 0), "navy": rgb8(0, 0, 128), "blue": rgb8(0, 0, 255),
	"teal": rgb8(0, 128, 128), "aqua": rgb8(0, 255, 255), "orange": rgb8(255, 165, 0),

	"aliceblue": rgb8(240, 248, 255), "antiquewhite": rgb8(250, 235, 215),
	"aquamarine": rgb8(127, 255, 212), "azure": rgb8(240, 255, 255),
	"beige": rgb8(245, 245, 220), "bisque": rgb8(255, 228, 196),
	"blanchedalmond": rgb8(255, 235, 205), "blueviolet": rgb8(138, 43, 226),
	"brown": rgb8(165, 42, 42), "burlywood": rgb8(222, 184, 135),
	"cadetblue": rgb8(95, 158, 160), "chartreuse": rgb8(127, 255, 0),
	"chocolate": rgb8(210, 105, 30), "coral": rgb8(255, 127, 80),
	"cornflowerblue": rgb8(100, 149, 237), "cornsilk": rgb8(255, 248, 220),
	"crimson": rgb8(220, 20, 60), "cyan": rgb8(0, 255, 255),
	"darkblue": rgb8(0, 0, 139), "darkcyan": rgb8(0, 139, 139),
	"darkgoldenrod": rgb8(184, 134, 11), "darkgray": rgb8(169, 169, 169),
	"darkgreen": rgb8(0, 100, 0), "darkgrey": rgb8(169, 169, 169),
	"darkkhaki": rgb8(189, 183, 107), "darkmagenta": rgb8(139, 0, 139),
	"darkolivegreen": rgb8(85, 107, 47), "darkorange": rgb8(255, 140, 0),
	"darkorchid": rgb8(153, 50, 204), "darkred": rgb8(139, 0, 0),
	"darksalmon": rgb8(233, 150, 122), "darkseagreen": rgb8(143, 188, 143),
	"darkslateblue": rgb8(72, 61, 139), "darkslategray": rgb8(47, 79, 79),
	"darkslategrey": rgb8(47, 79, 79), "darkturquoise": rgb8(0, 206, 209),
	"darkviolet": rgb8(148, 0, 211), "deeppink": rgb8(255, 20, 147),
	"deepskyblue": rgb8(0, 191, 255), "dimgray": rgb8(105, 105, 105),
	"dimgrey": rgb8(105, 105, 105), "dodgerblue": rgb8(30, 144, 255),
	"firebrick": rgb8(178, 34, 34), "floralwhite": rgb8(255, 250, 240),
	"forestgreen": rgb8(34, 139, 34), "gainsboro": rgb8(220, 220, 220),
	"ghostwhite": rgb8(248, 248, 255), "gold": rgb8(255, 215, 0),
	"goldenrod": rgb8(218, 165, 32), "greenyellow": rgb8(173, 255, 47),
	"honeydew": rgb8(240, 255, 240), "hotpink": rgb8(255, 105, 180),
	"indianred": rgb8(205, 92, 92), "indigo": rgb8(75, 0, 130),
	"ivory": rgb8(255, 255, 240), "khaki": rgb8(240, 230, 140),
	"lavender": rgb8(230, 230, 250), "lavenderblush": rgb8(255, 240, 245),
	"lawngreen": rgb8(124, 252, 0), "lemonchiffon": rgb8(255, 250, 205),
	"lightblue": rgb8(173, 216, 230), "lightcoral": rgb8(240, 128, 128),
	"lightcyan": rgb8(224, 255, 255), "lightgoldenrodyellow": rgb8(250, 250, 210),
	"lightgray": rgb8(211, 211, 211), "lightgreen": rgb8(144, 238, 144),
	"lightgrey": rgb8(211, 211, 211), "lightpink": rgb8(255, 182, 193),
	"lightsalmon": rgb8(255, 160, 122), "lightseagreen": rgb8(32, 178, 170),
	"lightskyblue": rgb8(135, 206, 250), "lightslategray": rgb8(119, 136, 153),
	"lightslategrey": rgb8(119, 136, 153), "lightsteelblue": rgb8(176, 196, 222),
	"lightyellow": rgb8(255, 255, 224), "limegreen": rgb8(50, 205, 50),
	"linen": rgb8(250, 240, 230), "magenta": rgb8(255, 0, 255),
	"mediumaquamarine": rgb8(102, 205, 170), "mediumblue": rgb8(0, 0, 205),
	"mediumorchid": rgb8(186, 85, 211), "mediumpurple": rgb8(147, 112, 219),
	"mediumseagreen": rgb8(60, 179, 113), "mediumslateblue": rgb8(123, 104, 238),
	"mediumspringgreen": rgb8(0, 250, 154), "mediumturquoise": rgb8(72, 209, 204),
	"mediumvioletred": rgb8(199, 21, 133), "midnightblue": rgb8(25, 25, 112),
	"mintcream": rgb8(245, 255, 250), "mistyrose": rgb8(255, 228, 225),
	"moccasin": rgb8(255, 228, 181), "navajowhite": rgb8(255, 222, 173),
	"oldlace": rgb8(253, 245, 230), "olivedrab": rgb8(107, 142, 35),
	"orangered": rgb8(255, 69, 0), "orchid": rgb8(218, 112, 214),
	"palegoldenrod": rgb8(238, 232, 170), "palegreen": rgb8(152, 251, 152),
	"paleturquoise": rgb8(175, 238, 238), "palevioletred": rgb8(219, 112, 147),
	"papayawhip": rgb8(255, 239, 213), "peachpuff": rgb8(255, 218, 185),
	"peru": rgb8(205, 133, 63), "pink": rgb8(255, 192, 203),
	"plum": rgb8(221, 160, 221), "powderblue": rgb8(176, 224, 230),
	"rosybrown": rgb8(188, 143, 143), "royalblue": rgb8(65, 105, 225),
	"saddlebrown": rgb8(139, 69, 19), "salmon": rgb8(250, 128, 114),
	"sandybrown": rgb8(244, 164, 96), "seagreen": rgb8(46, 139, 87),
	"seashell": rgb8(255, 245, 238), "sienna": rgb8(160, 82, 45),
	"skyblue": rgb8(135, 206, 235), "slateblue": rgb8(106, 90, 205),
	"slategray": rgb8(112, 128, 144), "slategrey": rgb8(112, 128, 144),
	"snow": rgb8(255, 250, 250), "springgreen": rgb8(0, 255, 127),
	"steelblue": rgb8(70, 130, 180), "tan": rgb8(210, 180, 140),
	"thistle": rgb8(216, 191, 216), "tomato": rgb8(255, 99, 71),
	"turquoise": rgb8(64, 224, 208), "violet": rgb8(238, 130, 238),
	"wheat": rgb8(245, 222, 179), "whitesmoke": rgb8(245, 245, 245),
	"yellowgreen": rgb8(154, 205, 50),

	"transparent": {R: 0, G: 0, B: 0, A: 0},
}

func rgb8(r, g, b int) Color {
	return Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255, A: 1}
}

// systemColors gives every CSS system color keyword a fixed value; this
// engine has no platform theme, so these are a single light-mode
// palette rather than theme-queried.
var systemColors = map[string]Color{
	"canvas": rgb8(255, 255, 255), "canvastext": rgb8(0, 0, 0),
	"linktext": rgb8(0, 0, 238), "visitedtext": rgb8(85, 26, 139),
	"activetext": rgb8(255, 0, 0), "buttonface": rgb8(240, 240, 240),
	"buttontext": rgb8(0, 0, 0), "buttonborder": rgb8(118, 118, 118),
	"field": rgb8(255, 255, 255), "fieldtext": rgb8(0, 0, 0),
	"highlight": rgb8(0, 120, 215), "highlighttext": rgb8(255, 255, 255),
	"graytext": rgb8(109, 109, 109), "mark": rgb8(255, 255, 0),
	"marktext": rgb8(0, 0, 0), "selecteditem": rgb8(0, 120, 215),
	"selecteditemtext": rgb8(255, 255, 255),
}

// ParseColorValue parses any <color> production, including the two
// context-dependent keywords (currentColor and light-dark()) that a
// ColorValue defers resolving until cascade time.
func ParseColorValue(s string) (ColorValue, bool) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "currentcolor") {
		return ColorValue{Special: SpecialCurrentColor}, true
	}
	if low := strings.ToLower(s); strings.HasPrefix(low, "light-dark(") && strings.HasSuffix(low, ")") {
		inner := s[len("light-dark(") : len(s)-1]
		args := splitTopLevelCommas(inner)
		if len(args) == 2 {
			lv, ok1 := ParseColorValue(args[0])
			dv, ok2 := ParseColorValue(args[1])
			if ok1 && ok2 {
				return ColorValue{Special: SpecialLightDark, LightVal: &lv, DarkVal: &dv}, true
			}
		}
		return ColorValue{}, false
	}
	c, ok := ParseColor(s)
	if !ok {
		return ColorValue{}, false
	}
	return ColorValue{Color: c}, true
}

// ParseColor parses a plain (non-contextual) <color>: hex, named,
// system, rgb()/rgba(), hsl()/hsla(), hwb(), lab(), lch(), oklab(),
// oklch(). It does not accept currentColor or light-dark(); use
// ParseColorValue for those.
func ParseColor(s string) (Color, bool) {
	s = strings.TrimSpace(s)
	low := strings.ToLower(s)

	if c, ok := NamedColors[low]; ok {
		return c, true
	}
	if c, ok := systemColors[low]; ok {
		return c, true
	}
	if strings.HasPrefix(s, "#") {
		return parseHashColor(s[1:])
	}

	idx := strings.IndexByte(s, '(')
	if idx < 0 || !strings.HasSuffix(s, ")") {
		return Color{}, false
	}
	fname := strings.ToLower(strings.TrimSpace(s[:idx]))
	args := s[idx+1 : len(s)-1]

	switch fname {
	case "rgb", "rgba":
		return parseRGBArgs(args)
	case "hsl", "hsla":
		return parseHSLArgs(args)
	case "hwb":
		return parseHWBArgs(args)
	case "lab":
		return parseLabArgs(args)
	case "lch":
		return parseLCHArgs(args)
	case "oklab":
		return parseOKLabArgs(args)
	case "oklch":
		return parseOKLCHArgs(args)
	}
	return Color{}, false
}

// ColorToString renders a Color as a #RRGGBB or #RRGGBBAA hex string.
func ColorToString(c Color) string {
	r, g, b, a := c.RGBA8()
	if a == 255 {
		return "#" + hexByte(r) + hexByte(g) + hexByte(b)
	}
	return "#" + hexByte(r) + hexByte(g) + hexByte(b) + hexByte(a)
}

func hexByte(b uint8) string {
	const hex = "0123456789abcdef"
	return string([]byte{hex[b>>4], hex[b&0xf]})
}

func parseHashColor(hex string) (Color, bool) {
	for _, r := range hex {
		if !is(r, classHex) {
			return Color{}, false
		}
	}
	var r, g, b, a uint8 = 0, 0, 0, 255
	switch len(hex) {
	case 3:
		r = parseHexDigit(hex[0]) * 17
		g = parseHexDigit(hex[1]) * 17
		b = parseHexDigit(hex[2]) * 17
	case 4:
		r = parseHexDigit(hex[0]) * 17
		g = parseHexDigit(hex[1]) * 17
		b = parseHexDigit(hex[2]) * 17
		a = parseHexDigit(hex[3]) * 17
	case 6:
		r = parseHexDigit(hex[0])*16 + parseHexDigit(hex[1])
		g = parseHexDigit(hex[2])*16 + parseHexDigit(hex[3])
		b = parseHexDigit(hex[4])*16 + parseHexDigit(hex[5])
	case 8:
		r = parseHexDigit(hex[0])*16 + parseHexDigit(hex[1])
		g = parseHexDigit(hex[2])*16 + parseHexDigit(hex[3])
		b = parseHexDigit(hex[4])*16 + parseHexDigit(hex[5])
		a = parseHexDigit(hex[6])*16 + parseHexDigit(hex[7])
	default:
		return Color{}, false
	}
	return Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255, A: float64(a) / 255}, true
}

func parseHexDigit(c byte) uint8 {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	default:
		return 0
	}
}

// splitTopLevelCommas splits on commas not nested inside parens, used
// for light-dark()'s two color arguments and as a fallback for the
// legacy comma syntax of rgb()/hsl().
func splitTopLevelCommas(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// splitArgs splits a color function's argument text into channel
// fields, alpha field, supporting both the legacy comma syntax
// (`r, g, b[, a]`) and the modern space syntax (`r g b[ / a]`).
func splitArgs(s string) (channels []string, alpha string, hasAlpha bool) {
	if strings.ContainsRune(s, ',') {
		parts := splitTopLevelCommas(s)
		if len(parts) == 4 {
			return parts[:3], parts[3], true
		}
		return parts, "", false
	}
	slash := strings.IndexByte(s, '/')
	main := s
	if slash >= 0 {
		main = s[:slash]
		alpha = strings.TrimSpace(s[slash+1:])
		hasAlpha = true
	}
	channels = strings.Fields(main)
	return channels, alpha, hasAlpha
}

// parsePercentChannel parses a channel given as a number or a percentage.
// A number is returned as written; a percentage maps 0-100% onto
// 0..pctScale.
func parsePercentChannel(tok string, pctScale float64) (float64, bool, bool) {
	tok = strings.TrimSpace(tok)
	if strings.EqualFold(tok, "none") {
		return 0, true, true
	}
	toks := NewTokenizer(tok).TokenizeAllSkipWS()
	if len(toks) != 1 {
		return 0, false, false
	}
	t := toks[0]
	switch t.Type {
	case TokenPercentage:
		return t.NumValue / 100 * pctScale, false, true
	case TokenNumber:
		return t.NumValue, false, true
	}
	return 0, false, false
}

func parseAlpha(tok string, present bool) float64 {
	if !present || tok == "" {
		return 1
	}
	toks := NewTokenizer(tok).TokenizeAllSkipWS()
	if len(toks) != 1 {
		return 1
	}
	t := toks[0]
	switch t.Type {
	case TokenPercentage:
		return clamp01(t.NumValue / 100)
	case TokenNumber:
		return clamp01(t.NumValue)
	}
	if strings.EqualFold(tok, "none") {
		return 1
	}
	return 1
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func parseRGBArgs(args string) (Color, bool) {
	channels, alphaTok, hasAlpha := splitArgs(args)
	if len(channels) != 3 {
		return Color{}, false
	}
	var rgb [3]float64
	for i, ch := range channels {
		v, isNone, ok := parsePercentChannel(ch, 255)
		if !ok {
			return Color{}, false
		}
		if !isNone {
			rgb[i] = v
		}
	}
	a := parseAlpha(alphaTok, hasAlpha)
	return Color{R: clamp01(rgb[0] / 255), G: clamp01(rgb[1] / 255), B: clamp01(rgb[2] / 255), A: a}, true
}

// parseHueChannel parses a hue channel: a bare number is degrees, a
// dimension carries its own angle unit.
func parseHueChannel(tok string) (float64, bool, bool) {
	tok = strings.TrimSpace(tok)
	if strings.EqualFold(tok, "none") {
		return 0, true, true
	}
	toks := NewTokenizer(tok).TokenizeAllSkipWS()
	if len(toks) != 1 {
		return 0, false, false
	}
	t := toks[0]
	switch t.Type {
	case TokenNumber:
		return t.NumValue, false, true
	case TokenDimension:
		switch strings.ToLower(t.Unit) {
		case "deg":
			return t.NumValue, false, true
		case "grad":
			return t.NumValue * 0.9, false, true
		case "rad":
			return t.NumValue * 180 / math.Pi, false, true
		case "turn":
			return t.NumValue * 360, false, true
		}
	}
	return 0, false, false
}

func parseHSLArgs(args string) (Color, bool) {
	channels, alphaTok, hasAlpha := splitArgs(args)
	if len(channels) != 3 {
		return Color{}, false
	}
	h, _, ok := parseHueChannel(channels[0])
	if !ok {
		return Color{}, false
	}
	s, _, ok := parsePercentChannel(channels[1], 100)
	if !ok {
		return Color{}, false
	}
	l, _, ok := parsePercentChannel(channels[2], 100)
	if !ok {
		return Color{}, false
	}
	a := parseAlpha(alphaTok, hasAlpha)
	r, g, b := hslToRGB(h, clamp01(s/100), clamp01(l/100))
	return Color{R: r, G: g, B: b, A: a}, true
}

func hslToRGB(h, s, l float64) (r, g, b float64) {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	h /= 360
	if s == 0 {
		return l, l, l
	}
	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	r = hueToRGB(p, q, h+1.0/3.0)
	g = hueToRGB(p, q, h)
	b = hueToRGB(p, q, h-1.0/3.0)
	return
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	switch {
	case t < 1.0/6.0:
		return p + (q-p)*6*t
	case t < 1.0/2.0:
		return q
	case t < 2.0/3.0:
		return p + (q-p)*(2.0/3.0-t)*6
	default:
		return p
	}
}

// parseHWBArgs implements CSS Color 4 §10's scale-with-sum-clamp: if
// whiteness+blackness exceeds 1 they are scaled down proportionally,
// then the hue's pure RGB is blended toward white/black.
func parseHWBArgs(args string) (Color, bool) {
	channels, alphaTok, hasAlpha := splitArgs(args)
	if len(channels) != 3 {
		return Color{}, false
	}
	h, _, ok := parseHueChannel(channels[0])
	if !ok {
		return Color{}, false
	}
	w, _, ok := parsePercentChannel(channels[1], 100)
	if !ok {
		return Color{}, false
	}
	bl, _, ok := parsePercentChannel(channels[2], 100)
	if !ok {
		return Color{}, false
	}
	a := parseAlpha(alphaTok, hasAlpha)

	wf, blf := clamp01(w/100), clamp01(bl/100)
	if sum := wf + blf; sum > 1 {
		wf /= sum
		blf /= sum
	}
	r, g, b := hslToRGB(h, 1, 0.5)
	r = r*(1-wf-blf) + wf
	g = g*(1-wf-blf) + wf
	b = b*(1-wf-blf) + wf
	return Color{R: clamp01(r), G: clamp01(g), B: clamp01(b), A: a}, true
}

// --- CIE Lab/LCH, via XYZ (D65), per CSS Color 4 §9 ---

const (
	labD65X = 0.9504559270516716
	labD65Y = 1.0
	labD65Z = 1.0890577507598784
)

func labToXYZ(l, a, b float64) (x, y, z float64) {
	fy := (l + 16) / 116
	fx := fy + a/500
	fz := fy - b/200
	finv := func(t float64) float64 {
		if t3 := t * t * t; t3 > 216.0/24389.0 {
			return t3
		}
		return (116*t - 16) / (24389.0 / 27.0)
	}
	if l > 8 {
		y = math.Pow((l+16)/116, 3)
	} else {
		y = l / (24389.0 / 27.0)
	}
	x = finv(fx) * labD65X
	z = finv(fz) * labD65Z
	return
}

func xyzToLinearSRGB(x, y, z float64) (r, g, b float64) {
	r = x*3.2404542 + y*-1.5371385 + z*-0.4985314
	g = x*-0.9692660 + y*1.8760108 + z*0.0415560
	b = x*0.0556434 + y*-0.2040259 + z*1.0572252
	return
}

func linearToSRGB(v float64) float64 {
	if v <= 0.0031308 {
		return 12.92 * v
	}
	if v < 0 {
		return 0
	}
	return 1.055*math.Pow(v, 1/2.4) - 0.055
}

func parseLabArgs(args string) (Color, bool) {
	channels, alphaTok, hasAlpha := splitArgs(args)
	if len(channels) != 3 {
		return Color{}, false
	}
	l, _, ok := parsePercentChannel(channels[0], 100)
	if !ok {
		return Color{}, false
	}
	a, _, ok := parsePercentChannel(channels[1], 125)
	if !ok {
		return Color{}, false
	}
	b, _, ok := parsePercentChannel(channels[2], 125)
	if !ok {
		return Color{}, false
	}
	alpha := parseAlpha(alphaTok, hasAlpha)
	x, y, z := labToXYZ(l, a, b)
	rl, gl, bl := xyzToLinearSRGB(x, y, z)
	return Color{
		R: clamp01(linearToSRGB(rl)), G: clamp01(linearToSRGB(gl)), B: clamp01(linearToSRGB(bl)), A: alpha,
	}, true
}

func parseLCHArgs(args string) (Color, bool) {
	channels, alphaTok, hasAlpha := splitArgs(args)
	if len(channels) != 3 {
		return Color{}, false
	}
	l, _, ok := parsePercentChannel(channels[0], 100)
	if !ok {
		return Color{}, false
	}
	c, _, ok := parsePercentChannel(channels[1], 150)
	if !ok {
		return Color{}, false
	}
	h, _, ok := parseHueChannel(channels[2])
	if !ok {
		return Color{}, false
	}
	alpha := parseAlpha(alphaTok, hasAlpha)
	hr := h * math.Pi / 180
	a := c * math.Cos(hr)
	b := c * math.Sin(hr)
	x, y, z := labToXYZ(l, a, b)
	rl, gl, bl := xyzToLinearSRGB(x, y, z)
	return Color{
		R: clamp01(linearToSRGB(rl)), G: clamp01(linearToSRGB(gl)), B: clamp01(linearToSRGB(bl)), A: alpha,
	}, true
}

// --- OKLab/OKLCH, via the canonical cone-response matrices (Björn
// Ottosson's OKLab definition) ---

func oklabToLinearSRGB(l, a, b float64) (r, g, b2 float64) {
	lp := l + 0.3963377774*a + 0.2158037573*b
	mp := l - 0.1055613458*a - 0.0638541728*b
	sp := l - 0.0894841775*a - 1.2914855480*b

	l3 := lp * lp * lp
	m3 := mp * mp * mp
	s3 := sp * sp * sp

	r = 4.0767416621*l3 - 3.3077115913*m3 + 0.2309699292*s3
	g = -1.2684380046*l3 + 2.6097574011*m3 - 0.3413193965*s3
	b2 = -0.0041960863*l3 - 0.7034186147*m3 + 1.7076147010*s3
	return
}

func parseOKLabArgs(args string) (Color, bool) {
	channels, alphaTok, hasAlpha := splitArgs(args)
	if len(channels) != 3 {
		return Color{}, false
	}
	l, _, ok := parsePercentChannel(channels[0], 1)
	if !ok {
		return Color{}, false
	}
	a, _, ok := parsePercentChannel(channels[1], 0.4)
	if !ok {
		return Color{}, false
	}
	b, _, ok := parsePercentChannel(channels[2], 0.4)
	if !ok {
		return Color{}, false
	}
	alpha := parseAlpha(alphaTok, hasAlpha)
	rl, gl, bl := oklabToLinearSRGB(l, a, b)
	return Color{
		R: clamp01(linearToSRGB(rl)), G: clamp01(linearToSRGB(gl)), B: clamp01(linearToSRGB(bl)), A: alpha,
	}, true
}

func parseOKLCHArgs(args string) (Color, bool) {
	channels, alphaTok, hasAlpha := splitArgs(args)
	if len(channels) != 3 {
		return Color{}, false
	}
	l, _, ok := parsePercentChannel(channels[0], 1)
	if !ok {
		return Color{}, false
	}
	c, _, ok := parsePercentChannel(channels[1], 0.4)
	if !ok {
		return Color{}, false
	}
	h, _, ok := parseHueChannel(channels[2])
	if !ok {
		return Color{}, false
	}
	alpha := parseAlpha(alphaTok, hasAlpha)
	hr := h * math.Pi / 180
	a := c * math.Cos(hr)
	b := c * math.Sin(hr)
	rl, gl, bl := oklabToLinearSRGB(l, a, b)
	return Color{
		R: clamp01(linearToSRGB(rl)), G: clamp01(linearToSRGB(gl)), B: clamp01(linearToSRGB(bl)), A: alpha,
	}, true
}
