package netsvc

import "strings"

// CSPDirectives is a parsed Content-Security-Policy header: directive name
// (lowercased) to its whitespace-separated source list.
type CSPDirectives map[string][]string

// ParseCSP parses a Content-Security-Policy header value. Multiple
// policies joined by a comma are not split into separate policies, and
// NetworkSession.FetchDocument passes only the first
// Content-Security-Policy header of a response, so one policy is enforced.
func ParseCSP(header string) CSPDirectives {
	directives := make(CSPDirectives)
	for _, directive := range strings.Split(header, ";") {
		fields := strings.Fields(directive)
		if len(fields) == 0 {
			continue
		}
		name := strings.ToLower(fields[0])
		directives[name] = fields[1:]
	}
	return directives
}

// resourceFallbackDirective maps a fetched resource's kind to the
// directive that governs it, per the CSP spec's "fetch directives" table.
var resourceFallbackDirective = map[string]string{
	"script":  "script-src",
	"style":   "style-src",
	"image":   "img-src",
	"media":   "media-src",
	"font":    "font-src",
	"frame":   "frame-src",
	"connect": "connect-src",
}

// IsAllowedByCSP reports whether fetching targetURL as resourceKind is
// permitted under directives, falling back to default-src when the
// specific directive is absent. documentOrigin is the policy's own
// document origin (scheme://host), used to resolve 'self' sources; pass
// "" if unknown, which makes 'self' match nothing rather than everything.
func IsAllowedByCSP(directives CSPDirectives, resourceKind, targetURL, documentOrigin string) bool {
	if len(directives) == 0 {
		return true
	}

	name, ok := resourceFallbackDirective[resourceKind]
	if !ok {
		return true
	}

	sources, ok := directives[name]
	if !ok {
		sources, ok = directives["default-src"]
		if !ok {
			return true
		}
	}

	return sourceListAllows(sources, targetURL, documentOrigin)
}

func sourceListAllows(sources []string, targetURL, documentOrigin string) bool {
	for _, src := range sources {
		normalized := strings.Trim(src, "'")
		switch strings.ToLower(normalized) {
		case "none":
			return false
		case "self":
			if documentOrigin != "" && IsSameOrigin(documentOrigin, targetURL) {
				return true
			}
		case "*":
			return true
		default:
			if matchesCSPSource(src, targetURL) {
				return true
			}
		}
	}
	return len(sources) == 0
}

// matchesCSPSource matches a plain host/scheme source expression
// (e.g. "https://cdn.example.com" or "*.example.com") against a target
// URL's origin. Nonce/hash sources (script-src 'nonce-...'/'sha256-...')
// are out of scope: this engine does not execute page script under CSP
// enforcement, so inline-script allowances have nothing to gate.
func matchesCSPSource(source, targetURL string) bool {
	targetOrigin, err := Origin(targetURL)
	if err != nil {
		return false
	}

	if strings.Contains(source, "://") {
		return strings.EqualFold(source, targetOrigin) || strings.HasPrefix(targetOrigin, strings.TrimSuffix(source, "/"))
	}

	if strings.HasPrefix(source, "*.") {
		suffix := source[1:]
		return strings.HasSuffix(targetOrigin, suffix)
	}

	return strings.Contains(targetOrigin, source)
}
