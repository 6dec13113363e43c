package netsvc

import "strings"

// simpleMethods is the Fetch spec's CORS-safelisted method set.
var simpleMethods = map[string]bool{
	"GET":  true,
	"HEAD": true,
	"POST": true,
}

// simpleHeaders is the CORS-safelisted request-header name set. Of the
// per-header value constraints, only Content-Type's is checked (by
// isSimpleContentType); the other headers' values are not inspected.
var simpleHeaders = map[string]bool{
	"accept":           true,
	"accept-language":  true,
	"content-language": true,
	"content-type":     true,
}

var simpleContentTypes = map[string]bool{
	"application/x-www-form-urlencoded": true,
	"multipart/form-data":               true,
	"text/plain":                        true,
}

// IsSimpleMethod reports whether method never triggers a CORS preflight by
// itself.
func IsSimpleMethod(method string) bool {
	return simpleMethods[strings.ToUpper(method)]
}

// IsSimpleRequest classifies a request as "simple" (no preflight required)
// purely from the caller-supplied headers. This deliberately checks only
// userHeaders and not any browser-injected headers that will also be
// sent — a known ambiguity preserved here rather than silently "fixed",
// since widening the check could change which requests preflight. See
// DESIGN.md.
func IsSimpleRequest(method string, userHeaders map[string]string) bool {
	if !IsSimpleMethod(method) {
		return false
	}
	for name, value := range userHeaders {
		lower := strings.ToLower(name)
		if !simpleHeaders[lower] {
			return false
		}
		if lower == "content-type" && !isSimpleContentType(value) {
			return false
		}
	}
	return true
}

func isSimpleContentType(value string) bool {
	mt, _ := ParseContentType(value)
	return simpleContentTypes[strings.ToLower(mt)]
}
