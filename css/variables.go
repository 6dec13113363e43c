package css

import "strings"

// isCustomProperty reports whether prop names a CSS custom property
// (`--name`), which the cascade treats as an opaque value rather than a
// recognized longhand.
func isCustomProperty(prop string) bool {
	return strings.HasPrefix(prop, "--")
}

// Declaration values in this package are flat PreservedToken streams (see
// parser.go's parseDeclarationFromTokens/ParseBlockContents: nested
// Function/Block component values are flattened back to raw tokens before
// a Declaration is built), so var() substitution walks a token stream
// rather than a ComponentValue tree, matching a TokenFunction "var" to
// its balanced TokenCloseParen by paren/bracket depth.

// substituteVars returns a copy of decl with every var() reference in its
// value replaced by the referenced custom property's value (or its
// fallback, or dropped if neither resolves), guarding against a variable
// that transitively references itself. decl itself is never mutated.
func substituteVars(cs *ComputedStyle, decl *Declaration) *Declaration {
	if !containsVarFunction(decl.Value) {
		return decl
	}
	resolved := resolveVarsInValues(cs, decl.Value, map[string]bool{})
	return &Declaration{Property: decl.Property, Value: resolved, Important: decl.Important}
}

func containsVarFunction(values []ComponentValue) bool {
	for _, v := range values {
		if pt, ok := v.(PreservedToken); ok && pt.Token.Type == TokenFunction && strings.EqualFold(pt.Token.Value, "var") {
			return true
		}
	}
	return false
}

// resolveVarsInValues scans a flat token stream for `var(` ... `)` spans
// and substitutes each one's resolved value in place. active tracks
// custom-property names currently being resolved on this call stack, so a
// variable that transitively references itself resolves to its fallback
// (or is dropped) instead of recursing forever.
func resolveVarsInValues(cs *ComputedStyle, values []ComponentValue, active map[string]bool) []ComponentValue {
	out := make([]ComponentValue, 0, len(values))
	i := 0
	for i < len(values) {
		pt, ok := values[i].(PreservedToken)
		if !ok || pt.Token.Type != TokenFunction || !strings.EqualFold(pt.Token.Value, "var") {
			out = append(out, values[i])
			i++
			continue
		}

		// Find the matching close paren for this var(...) call.
		depth := 1
		j := i + 1
		for j < len(values) && depth > 0 {
			if tok, ok := values[j].(PreservedToken); ok {
				switch tok.Token.Type {
				case TokenFunction, TokenOpenParen, TokenOpenSquare, TokenOpenCurly:
					depth++
				case TokenCloseParen, TokenCloseSquare, TokenCloseCurly:
					depth--
				}
			}
			if depth > 0 {
				j++
			}
		}
		// j now indexes the matching TokenCloseParen (or len(values) if
		// the declaration was malformed and never closed).
		args := values[i+1 : minInt(j, len(values))]
		replacement, ok := resolveVarReference(cs, args, active)
		if ok {
			out = append(out, replacement...)
		}
		// A var() that resolves to nothing (no variable, no fallback) is
		// simply omitted; downstream typed parsing of the remaining
		// tokens will see a gap rather than a crafted-looking value.
		i = j + 1
	}
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// resolveVarReference resolves one var(--name[, fallback])'s argument
// token span (the tokens strictly between the function token and its
// closing paren).
func resolveVarReference(cs *ComputedStyle, args []ComponentValue, active map[string]bool) ([]ComponentValue, bool) {
	name, fallback, ok := splitVarArgs(args)
	if !ok {
		return nil, false
	}

	if active[name] {
		// Cycle: a variable that transitively references itself falls
		// back to its declared fallback, or is dropped if none.
		if fallback != nil {
			return resolveVarsInValues(cs, fallback, active), true
		}
		return nil, false
	}

	if value, ok := cs.GetVariable(name); ok {
		nextActive := make(map[string]bool, len(active)+1)
		for k := range active {
			nextActive[k] = true
		}
		nextActive[name] = true
		return resolveVarsInValues(cs, value, nextActive), true
	}

	if fallback != nil {
		return resolveVarsInValues(cs, fallback, active), true
	}

	return nil, false
}

// splitVarArgs splits a var()'s argument tokens into the custom-property
// name and its optional fallback value list (everything after the first
// top-level comma).
func splitVarArgs(values []ComponentValue) (name string, fallback []ComponentValue, ok bool) {
	i := 0
	for i < len(values) && isWhitespaceToken(values[i]) {
		i++
	}
	if i >= len(values) {
		return "", nil, false
	}
	pt, isTok := values[i].(PreservedToken)
	if !isTok || pt.Token.Type != TokenIdent || !strings.HasPrefix(pt.Token.Value, "--") {
		return "", nil, false
	}
	name = pt.Token.Value
	i++

	for i < len(values) {
		if isWhitespaceToken(values[i]) {
			i++
			continue
		}
		if pt, isTok := values[i].(PreservedToken); isTok && pt.Token.Type == TokenComma {
			i++
			break
		}
		return name, nil, true // trailing garbage before any comma: name alone is still valid
	}

	if i < len(values) {
		fallback = values[i:]
	}
	return name, fallback, true
}

func isWhitespaceToken(v ComponentValue) bool {
	pt, ok := v.(PreservedToken)
	return ok && pt.Token.Type == TokenWhitespace
}
