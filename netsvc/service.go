package netsvc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"strings"
)

func bytesReader(body []byte) io.Reader { return bytes.NewReader(body) }

// NetworkSession is the engine's per-navigation network front door: it
// merges browser-owned headers over user headers, applies the referrer
// policy, classifies simple vs. preflighted requests, runs CORS, and
// threads cookies through the jar.
type NetworkSession struct {
	client *Client
	jar    *Jar

	browserHeaders map[string]string
	referrer       ReferrerPolicy

	currentURL string // the document driving this session's requests, for referrer/CORS origin
	csp        CSPDirectives
}

// NewNetworkSession creates a session. browserHeaders are headers the
// browser itself controls (User-Agent, Accept, DNT, ...) and always
// override any same-named user header.
func NewNetworkSession(client *Client, jar *Jar, browserHeaders map[string]string) *NetworkSession {
	return &NetworkSession{
		client:         client,
		jar:            jar,
		browserHeaders: browserHeaders,
		referrer:       DefaultReferrerPolicy,
	}
}

// SetCurrentURL records the document URL that subsequent requests are
// issued on behalf of, used for referrer computation and CORS origin.
func (s *NetworkSession) SetCurrentURL(url string) { s.currentURL = url }

// ClearCurrentURL forgets the current document URL.
func (s *NetworkSession) ClearCurrentURL() { s.currentURL = "" }

// SetReferrerPolicy updates the policy applied to outgoing requests,
// typically from a Referrer-Policy response header or a <meta> tag.
func (s *NetworkSession) SetReferrerPolicy(policy ReferrerPolicy) { s.referrer = policy }

// SetCSP installs the Content-Security-Policy directives subsequent
// fetches must honor.
func (s *NetworkSession) SetCSP(directives CSPDirectives) { s.csp = directives }

// Fetch performs method against targetURL carrying userHeaders, running
// the full pipeline: header merge, referrer, simple-request
// classification (decided using ONLY userHeaders, a deliberately
// preserved scope — see DESIGN.md), CORS preflight when required, cookie
// attachment, and Set-Cookie handling on the response.
func (s *NetworkSession) Fetch(ctx context.Context, method, targetURL string, userHeaders map[string]string, body []byte) (*Response, error) {
	if kind := resourceKindForContentNegotiation(userHeaders); s.csp != nil {
		documentOrigin, _ := Origin(s.currentURL)
		if !IsAllowedByCSP(s.csp, kind, targetURL, documentOrigin) {
			return nil, fmt.Errorf("netsvc: request to %s blocked by Content-Security-Policy", targetURL)
		}
	}

	merged := make(map[string]string, len(userHeaders)+len(s.browserHeaders))
	for k, v := range userHeaders {
		merged[k] = v
	}
	for k, v := range s.browserHeaders {
		merged[k] = v // browser headers always win, per the original's header_map.extend ordering
	}

	if s.currentURL != "" {
		if referer := ApplyReferrer(s.referrer, s.currentURL, targetURL); referer != "" {
			merged["Referer"] = referer
		}
	}

	crossOrigin := s.currentURL != "" && !IsSameOrigin(s.currentURL, targetURL)

	if requiresPreflight(crossOrigin, method, userHeaders) {
		origin, err := Origin(s.currentURL)
		if err != nil {
			return nil, fmt.Errorf("netsvc: no current origin set for CORS preflight: %w", err)
		}
		allowed, err := doPreflight(ctx, s.client, targetURL, origin, method, userHeaders)
		if err != nil {
			return nil, fmt.Errorf("netsvc: CORS preflight failed: %w", err)
		}
		if !allowed {
			return nil, fmt.Errorf("netsvc: CORS preflight rejected request to %s", targetURL)
		}
	}

	host, path, secure := requestTarget(targetURL)
	if s.jar != nil {
		if cookieHeader := s.jar.Header(host, path, secure); cookieHeader != "" {
			merged["Cookie"] = cookieHeader
		}
	}

	req := &Request{Method: method, URL: targetURL, Headers: merged}
	if body != nil {
		req.Body = bytesReader(body)
	}

	resp, err := s.client.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	if crossOrigin && !requiresPreflight(crossOrigin, method, userHeaders) {
		origin, _ := Origin(s.currentURL)
		if origin != "" && !IsCORSResponseAllowed(resp, origin) {
			return nil, fmt.Errorf("netsvc: CORS response from %s did not allow origin %s", targetURL, origin)
		}
	}

	s.handleResponseHeaders(resp, host)

	return resp, nil
}

// Get is a Fetch shorthand for a bodyless GET.
func (s *NetworkSession) Get(ctx context.Context, targetURL string, userHeaders map[string]string) (*Response, error) {
	return s.Fetch(ctx, http.MethodGet, targetURL, userHeaders, nil)
}

// FetchDocument performs a top-level document navigation request. It is
// always a GET; any policy state from the previous document (CSP,
// referrer policy, current URL) is cleared first, and on success the
// session adopts the new document's URL, Content-Security-Policy, and
// Referrer-Policy for the subresource fetches that follow.
func (s *NetworkSession) FetchDocument(ctx context.Context, targetURL string, userHeaders map[string]string) (*Response, error) {
	s.currentURL = ""
	s.csp = nil
	s.referrer = DefaultReferrerPolicy

	resp, err := s.Fetch(ctx, http.MethodGet, targetURL, userHeaders, nil)
	if err != nil {
		return nil, err
	}

	s.currentURL = targetURL
	if v := resp.Headers.Get("Content-Security-Policy"); v != "" {
		s.csp = ParseCSP(v)
	}
	if v := resp.Headers.Get("Referrer-Policy"); v != "" {
		s.referrer = ParseReferrerPolicy(v)
	}
	return resp, nil
}

func (s *NetworkSession) handleResponseHeaders(resp *Response, host string) {
	if s.jar == nil {
		return
	}
	for _, setCookie := range resp.Headers.Values("Set-Cookie") {
		// A single malformed Set-Cookie is dropped without affecting the
		// rest of the response's headers.
		_ = s.jar.SetFromHeader(host, setCookie)
	}
}

// requestTarget derives the jar scoping key for a request URL. The key
// keeps an explicit port so two servers on the same host (common with
// loopback test servers) don't observe each other's cookies.
func requestTarget(targetURL string) (host, path string, secure bool) {
	u, err := neturl.Parse(targetURL)
	if err != nil {
		return "", "/", false
	}
	return u.Host, orSlash(u.Path), strings.EqualFold(u.Scheme, "https")
}

func orSlash(path string) string {
	if path == "" {
		return "/"
	}
	return path
}

// resourceKindForContentNegotiation infers the CSP fetch-directive kind
// from an Accept header, when the caller supplied one. A request whose
// Accept header names none of these kinds gets "", which IsAllowedByCSP
// lets through without consulting any directive, default-src included.
func resourceKindForContentNegotiation(headers map[string]string) string {
	accept := headers["Accept"]
	switch {
	case strings.Contains(accept, "text/css"):
		return "style"
	case strings.Contains(accept, "image/"):
		return "image"
	case strings.Contains(accept, "javascript"):
		return "script"
	default:
		return ""
	}
}
