package css

import "strings"

// GradientKind distinguishes the three CSS gradient image functions.
type GradientKind int

const (
	LinearGradient GradientKind = iota
	RadialGradient
	ConicGradient
)

// ColorStop is one entry in a gradient's stop list: a color plus an
// optional position and an optional second position for double-position
// stops (`red 10% 20%`), per CSS Images Level 4 §3.4's
// `<linear-color-stop> = <color> <color-stop-length>?`.
//
// PositionUnit is "%" (Position is then a 0-1 fraction of the gradient
// line), "deg" (conic gradients: Position is in degrees), or a length
// unit (Position is the raw value in that unit, resolved against the
// gradient line length by the paint stage, matching how box-geometry
// lengths are carried unresolved out of the cascade).
type ColorStop struct {
	Color        ColorValue
	HasPosition  bool
	Position     float64
	PositionUnit string
	HasPosition2 bool
	Position2    float64
	Position2Unit string
}

// Gradient is a parsed <gradient> value (CSS Images Level 4 §3): one of
// linear-gradient()/radial-gradient()/conic-gradient() and their
// `repeating-` variants.
type Gradient struct {
	Kind    GradientKind
	Repeat  bool
	Angle   float64 // linear-gradient: degrees clockwise from "to top" (0deg = up)
	HasAngle bool
	Side    string // linear-gradient: "to top"/"to bottom right"/... when no explicit angle
	Shape   string // radial-gradient: "circle" | "ellipse" (default "ellipse")
	Extent  string // radial-gradient: "closest-side" | "farthest-side" | "closest-corner" | "farthest-corner" (default "farthest-corner")
	FromAngle float64 // conic-gradient: the `from <angle>` offset, degrees
	AtX, AtY  string  // "at <position>" keywords/lengths, unparsed text (center if empty)
	Stops   []ColorStop
}

// ParseGradient parses a gradient image value from its reconstructed
// source text (e.g. the text computeValue derives from a
// `background-image`/`border-image-source` declaration's raw component
// values). It returns ok=false for anything that isn't a recognized
// gradient function.
func ParseGradient(s string) (Gradient, bool) {
	s = strings.TrimSpace(s)
	low := strings.ToLower(s)

	kind, repeating, ok := classifyGradientFunction(low)
	if !ok {
		return Gradient{}, false
	}
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return Gradient{}, false
	}
	args := s[open+1 : len(s)-1]
	segments := splitTopLevelCommas(args)
	if len(segments) == 0 {
		return Gradient{}, false
	}

	g := Gradient{Kind: kind, Repeat: repeating, Extent: "farthest-corner", Shape: "ellipse"}
	stopStart := 0

	switch kind {
	case LinearGradient:
		first := strings.TrimSpace(segments[0])
		lowFirst := strings.ToLower(first)
		if strings.HasPrefix(lowFirst, "to ") {
			g.Side = lowFirst
			g.Angle = sideToAngle(lowFirst)
			g.HasAngle = true
			stopStart = 1
		} else if deg, ok := parseAngleText(first); ok {
			g.Angle = deg
			g.HasAngle = true
			stopStart = 1
		}
	case RadialGradient:
		stopStart = parseRadialPrelude(&g, segments)
	case ConicGradient:
		stopStart = parseConicPrelude(&g, segments)
	}

	for _, seg := range segments[stopStart:] {
		stop, ok := parseColorStop(strings.TrimSpace(seg), kind == ConicGradient)
		if !ok {
			return Gradient{}, false
		}
		g.Stops = append(g.Stops, stop)
	}
	if len(g.Stops) < 2 {
		return Gradient{}, false
	}
	return g, true
}

func classifyGradientFunction(low string) (GradientKind, bool, bool) {
	repeating := strings.HasPrefix(low, "repeating-")
	if repeating {
		low = low[len("repeating-"):]
	}
	switch {
	case strings.HasPrefix(low, "linear-gradient("):
		return LinearGradient, repeating, true
	case strings.HasPrefix(low, "radial-gradient("):
		return RadialGradient, repeating, true
	case strings.HasPrefix(low, "conic-gradient("):
		return ConicGradient, repeating, true
	}
	return 0, false, false
}

// sideToAngle converts a `to <side-or-corner>` keyword string to the
// equivalent clockwise-from-up angle in degrees for the common cases;
// corners use the CSS-defined diagonal convention of splitting the box
// at its own aspect ratio, approximated here with the 45-degree
// diagonal (paint, which knows the box's actual aspect ratio, may
// refine this further).
func sideToAngle(side string) float64 {
	switch side {
	case "to top":
		return 0
	case "to right":
		return 90
	case "to bottom":
		return 180
	case "to left":
		return 270
	case "to top right", "to right top":
		return 45
	case "to bottom right", "to right bottom":
		return 135
	case "to bottom left", "to left bottom":
		return 225
	case "to top left", "to left top":
		return 315
	}
	return 180
}

// parseAngleText parses a bare `<angle>` token (deg/grad/rad/turn) to
// degrees.
func parseAngleText(s string) (float64, bool) {
	toks := NewTokenizer(s).TokenizeAllSkipWS()
	if len(toks) != 1 || toks[0].Type != TokenDimension {
		return 0, false
	}
	return angleTokenToDegrees(toks[0]), true
}

func angleTokenToDegrees(t Token) float64 {
	switch strings.ToLower(t.Unit) {
	case "deg":
		return t.NumValue
	case "grad":
		return t.NumValue * 0.9
	case "rad":
		return t.NumValue * 180 / 3.141592653589793
	case "turn":
		return t.NumValue * 360
	}
	return t.NumValue
}

// parseRadialPrelude reads radial-gradient()'s optional
// `[<shape>||<size>]? [at <position>]?` prelude segment (the part
// before the comma-separated stop list), returning the index of the
// first stop segment (0 if the prelude segment was itself a stop, i.e.
// there was no prelude at all).
func parseRadialPrelude(g *Gradient, segments []string) int {
	first := strings.TrimSpace(segments[0])
	lowFirst := strings.ToLower(first)
	if !strings.Contains(lowFirst, "at ") && !containsAny(lowFirst, "circle", "ellipse",
		"closest-side", "closest-corner", "farthest-side", "farthest-corner") {
		return 0
	}
	fields := strings.Fields(lowFirst)
	atIdx := -1
	for i, f := range fields {
		if f == "at" {
			atIdx = i
			break
		}
	}
	descriptors := fields
	if atIdx >= 0 {
		descriptors = fields[:atIdx]
		g.AtX = strings.Join(fields[atIdx+1:], " ")
	}
	for _, d := range descriptors {
		switch d {
		case "circle", "ellipse":
			g.Shape = d
		case "closest-side", "closest-corner", "farthest-side", "farthest-corner":
			g.Extent = d
		}
	}
	return 1
}

// parseConicPrelude reads conic-gradient()'s optional
// `[from <angle>]? [at <position>]?` prelude segment.
func parseConicPrelude(g *Gradient, segments []string) int {
	first := strings.TrimSpace(segments[0])
	lowFirst := strings.ToLower(first)
	if !strings.HasPrefix(lowFirst, "from ") && !strings.HasPrefix(lowFirst, "at ") {
		return 0
	}
	rest := first
	if strings.HasPrefix(lowFirst, "from ") {
		rest = strings.TrimSpace(first[len("from "):])
		atPos := strings.Index(strings.ToLower(rest), "at ")
		angleText := rest
		if atPos >= 0 {
			angleText = strings.TrimSpace(rest[:atPos])
			g.AtX = strings.TrimSpace(rest[atPos+3:])
		}
		if deg, ok := parseAngleText(angleText); ok {
			g.FromAngle = deg
		}
	} else {
		g.AtX = strings.TrimSpace(first[len("at "):])
	}
	return 1
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// parseColorStop parses one `<color> [<position> [<position>]]?` stop
// segment. Positions on a conic gradient are angles; elsewhere they are
// lengths/percentages, stored as a 0-1 fraction when a percentage and
// left as-is (paint resolves against the gradient line length) when a
// bare length.
func parseColorStop(seg string, angular bool) (ColorStop, bool) {
	fields := splitStopFields(seg)
	if len(fields) == 0 {
		return ColorStop{}, false
	}
	cv, ok := ParseColorValue(fields[0])
	if !ok {
		return ColorStop{}, false
	}
	stop := ColorStop{Color: cv}
	if len(fields) >= 2 {
		pos, unit, ok := parseStopPosition(fields[1], angular)
		if !ok {
			return ColorStop{}, false
		}
		stop.HasPosition = true
		stop.Position = pos
		stop.PositionUnit = unit
	}
	if len(fields) >= 3 {
		pos, unit, ok := parseStopPosition(fields[2], angular)
		if !ok {
			return ColorStop{}, false
		}
		stop.HasPosition2 = true
		stop.Position2 = pos
		stop.Position2Unit = unit
	}
	return stop, true
}

// splitStopFields splits a stop segment on whitespace that isn't nested
// inside a color function's parens (so `rgb(1 2 3) 10%` splits into two
// fields, not four).
func splitStopFields(seg string) []string {
	var fields []string
	depth := 0
	start := -1
	for i, r := range seg {
		switch {
		case r == '(':
			depth++
		case r == ')':
			depth--
		case r == ' ' && depth == 0:
			if start >= 0 {
				fields = append(fields, seg[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		fields = append(fields, seg[start:])
	}
	return fields
}

// parseStopPosition parses one color-stop position token. For conic
// gradients (angular), a percentage maps onto the full 360-degree
// sweep and the returned unit is "deg". Elsewhere a percentage is
// returned as a 0-1 fraction with unit "%"; a length dimension is
// returned raw with its own unit, left for paint to resolve against
// the actual gradient line length (the same deferred-percentage
// pattern layout.resolveEdge uses for box geometry).
func parseStopPosition(s string, angular bool) (float64, string, bool) {
	toks := NewTokenizer(s).TokenizeAllSkipWS()
	if len(toks) != 1 {
		return 0, "", false
	}
	t := toks[0]
	if angular {
		if t.Type == TokenDimension {
			return angleTokenToDegrees(t), "deg", true
		}
		if t.Type == TokenPercentage {
			return t.NumValue / 100 * 360, "deg", true
		}
		return 0, "", false
	}
	if t.Type == TokenPercentage {
		return t.NumValue / 100, "%", true
	}
	if t.Type == TokenDimension {
		return t.NumValue, t.Unit, true
	}
	return 0, "", false
}
