package netsvc

import (
	"context"
	"net/http"
	"strings"
)

// PreflightRequest builds the OPTIONS request the Fetch spec requires
// before a non-simple cross-origin request.
func PreflightRequest(targetURL, origin, method string, headers map[string]string) *Request {
	headerNames := make([]string, 0, len(headers))
	for name := range headers {
		headerNames = append(headerNames, strings.ToLower(name))
	}

	req := &Request{
		Method: http.MethodOptions,
		URL:    targetURL,
		Headers: map[string]string{
			"Origin":                        origin,
			"Access-Control-Request-Method": method,
		},
	}
	if len(headerNames) > 0 {
		req.Headers["Access-Control-Request-Headers"] = strings.Join(headerNames, ", ")
	}
	return req
}

// IsPreflightAllowed validates a preflight OPTIONS response against the
// request it answers, per the Fetch spec's CORS-preflight fetch algorithm.
func IsPreflightAllowed(resp *Response, origin, method string, headers map[string]string) bool {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false
	}

	allowOrigin := resp.Headers.Get("Access-Control-Allow-Origin")
	if allowOrigin != "*" && !strings.EqualFold(allowOrigin, origin) {
		return false
	}

	allowedMethods := splitCommaList(resp.Headers.Get("Access-Control-Allow-Methods"))
	if !containsFold(allowedMethods, method) && !containsFold(allowedMethods, "*") {
		return false
	}

	allowedHeaders := splitCommaList(resp.Headers.Get("Access-Control-Allow-Headers"))
	for name := range headers {
		if !containsFold(allowedHeaders, name) && !containsFold(allowedHeaders, "*") {
			return false
		}
	}

	return true
}

// IsCORSResponseAllowed validates a simple (non-preflighted) cross-origin
// response's Access-Control-Allow-Origin against the requesting origin.
func IsCORSResponseAllowed(resp *Response, origin string) bool {
	allowOrigin := resp.Headers.Get("Access-Control-Allow-Origin")
	if allowOrigin == "*" {
		return true
	}
	return strings.EqualFold(allowOrigin, origin)
}

func splitCommaList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}

func containsFold(list []string, value string) bool {
	for _, item := range list {
		if strings.EqualFold(item, value) {
			return true
		}
	}
	return false
}

// requiresPreflight reports whether a cross-origin request must be
// preceded by an OPTIONS preflight: it does unless it is both a simple
// method and carries only simple headers.
func requiresPreflight(crossOrigin bool, method string, headers map[string]string) bool {
	return crossOrigin && !IsSimpleRequest(method, headers)
}

// doPreflight runs a preflight exchange through client and reports whether
// the actual request may proceed.
func doPreflight(ctx context.Context, client *Client, targetURL, origin, method string, headers map[string]string) (bool, error) {
	resp, err := client.Do(ctx, PreflightRequest(targetURL, origin, method, headers))
	if err != nil {
		return false, err
	}
	return IsPreflightAllowed(resp, origin, method, headers), nil
}
