package htmltree

import (
	"strconv"
	"strings"
)

// namedEntities covers the common named character references seen in real
// documents. It is not the full HTML5 entity table (over 2000 entries);
// unrecognized names pass through unescaped, which is the same leniency
// the tokenizer extends to every other malformed construct.
var namedEntities = map[string]string{
	"amp": "&", "lt": "<", "gt": ">", "quot": "\"", "apos": "'",
	"nbsp": " ", "copy": "©", "reg": "®", "trade": "™",
	"mdash": "—", "ndash": "–", "hellip": "…",
	"lsquo": "‘", "rsquo": "’", "ldquo": "“", "rdquo": "”",
	"laquo": "«", "raquo": "»", "middot": "·",
	"times": "×", "divide": "÷", "deg": "°",
	"plusmn": "±", "sect": "§", "para": "¶",
}

// decodeEntities expands HTML character references in text. It is used for
// Text-token and attribute-value content; raw-text
// bodies (script/style interiors) are intentionally NOT passed through
// this function, matching HTML5's raw-text treatment.
func decodeEntities(s string) string {
	if !strings.ContainsRune(s, '&') {
		return s
	}
	var out strings.Builder
	out.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '&' {
			out.WriteByte(s[i])
			continue
		}
		end := strings.IndexByte(s[i+1:], ';')
		if end < 0 || end > 32 {
			out.WriteByte(s[i])
			continue
		}
		name := s[i+1 : i+1+end]
		if repl, ok := decodeOne(name); ok {
			out.WriteString(repl)
			i += end + 1
			continue
		}
		out.WriteByte(s[i])
	}
	return out.String()
}

func decodeOne(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	if name[0] == '#' {
		return decodeNumeric(name[1:])
	}
	v, ok := namedEntities[name]
	return v, ok
}

func decodeNumeric(rest string) (string, bool) {
	if rest == "" {
		return "", false
	}
	base := 10
	if rest[0] == 'x' || rest[0] == 'X' {
		base = 16
		rest = rest[1:]
	}
	n, err := strconv.ParseInt(rest, base, 32)
	if err != nil || n < 0 || n > 0x10FFFF {
		return "", false
	}
	return string(rune(n)), true
}
