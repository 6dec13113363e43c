package netsvc

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// SameSite mirrors the Set-Cookie SameSite attribute.
type SameSite int

const (
	SameSiteLax SameSite = iota
	SameSiteStrict
	SameSiteNone
)

func parseSameSite(value string) SameSite {
	switch {
	case strings.EqualFold(value, "strict"):
		return SameSiteStrict
	case strings.EqualFold(value, "none"):
		return SameSiteNone
	default:
		return SameSiteLax
	}
}

// CookieParsingError classifies a malformed Set-Cookie field.
// A single malformed cookie is dropped; the rest of the same batch succeeds.
type CookieParsingError struct {
	Kind string // InvalidCookie | DateError | TimeError | Parsing
	Msg  string
}

func (e *CookieParsingError) Error() string {
	if e.Msg == "" {
		return "netsvc: " + e.Kind
	}
	return fmt.Sprintf("netsvc: %s: %s", e.Kind, e.Msg)
}

// Cookie is a single parsed Set-Cookie entry. Expires is the zero Time
// for a session cookie (no Expires/Max-Age).
type Cookie struct {
	Name     string
	Value    string
	Expires  time.Time
	HasMaxAge bool
	Domain   string
	Path     string
	Secure   bool
	HTTPOnly bool
	SameSite SameSite
}

// the three Set-Cookie date formats this engine supports, tried
// in order: RFC 1123 (Sun, 06 Nov 1994 08:49:37 GMT), ANSI C asctime (Sun
// Nov  6 08:49:37 1994), and the old RFC 850 two-digit-year form
// (Sunday, 06-Nov-94 08:49:37 GMT).
var cookieDateLayouts = []string{
	"Mon, 02 Jan 2006 15:04:05 MST",
	"Mon Jan _2 15:04:05 2006",
	"Monday, 02-Jan-06 15:04:05 MST",
}

func parseCookieDate(value string) (time.Time, error) {
	for _, layout := range cookieDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format %q", value)
}

// ParseCookie parses one Set-Cookie header value into a Cookie. Domain
// attributes with a leading "." have the dot stripped and a negative
// Max-Age is clamped to zero.
func ParseCookie(cookieStr string) (*Cookie, error) {
	parts := strings.Split(cookieStr, ";")
	c := &Cookie{SameSite: SameSiteLax}

	nv := strings.SplitN(strings.TrimSpace(parts[0]), "=", 2)
	if len(nv) != 2 {
		return nil, &CookieParsingError{Kind: "InvalidCookie"}
	}
	c.Name = strings.TrimSpace(nv[0])
	c.Value = strings.TrimSpace(nv[1])
	if c.Name == "" {
		return nil, &CookieParsingError{Kind: "InvalidCookie"}
	}

	for _, part := range parts[1:] {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		k, v, hasValue := trimmed, "", false
		if i := strings.Index(trimmed, "="); i != -1 {
			k, v, hasValue = trimmed[:i], strings.TrimSpace(trimmed[i+1:]), true
		}

		switch {
		case strings.EqualFold(k, "expires") && hasValue:
			t, err := parseCookieDate(v)
			if err != nil {
				return nil, &CookieParsingError{Kind: "DateError", Msg: err.Error()}
			}
			c.Expires = t
		case strings.EqualFold(k, "max-age") && hasValue:
			if strings.HasPrefix(v, "-") {
				v = "0"
			}
			seconds, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, &CookieParsingError{Kind: "Parsing", Msg: err.Error()}
			}
			c.HasMaxAge = true
			c.Expires = time.Now().Add(time.Duration(seconds) * time.Second)
		case strings.EqualFold(k, "domain") && hasValue:
			c.Domain = strings.TrimPrefix(v, ".")
		case strings.EqualFold(k, "path") && hasValue:
			c.Path = v
		case strings.EqualFold(k, "samesite") && hasValue:
			c.SameSite = parseSameSite(v)
		case strings.EqualFold(k, "secure"):
			c.Secure = true
		case strings.EqualFold(k, "httponly"):
			c.HTTPOnly = true
		}
	}

	if c.Path == "" {
		c.Path = "/"
	}

	if err := validateCookiePrefix(c); err != nil {
		return nil, err
	}

	return c, nil
}

// validateCookiePrefix enforces the __Host-/__Secure- name prefixes.
func validateCookiePrefix(c *Cookie) error {
	switch {
	case strings.HasPrefix(c.Name, "__Host-"):
		if !c.Secure || c.Domain != "" || c.Path != "/" {
			return &CookieParsingError{Kind: "InvalidCookie", Msg: "__Host- prefix requires Secure, no Domain, Path=/"}
		}
	case strings.HasPrefix(c.Name, "__Secure-"):
		if !c.Secure {
			return &CookieParsingError{Kind: "InvalidCookie", Msg: "__Secure- prefix requires Secure"}
		}
	}
	return nil
}

// IsExpired reports whether the cookie carries a Max-Age or Expires
// attribute and that point in time has passed. A session cookie (neither
// attribute set) is never expired by this check.
func (c *Cookie) IsExpired() bool {
	if !c.HasMaxAge && c.Expires.IsZero() {
		return false
	}
	return time.Now().After(c.Expires)
}

// Jar is the engine's cookie store: a reader/writer lock guarding a
// domain-keyed map, shared across every request issued through a
// NetworkSession: concurrent readers, exclusive writers, with
// acquire-release semantics (a read after a writer releases its lock
// observes every write performed under it).
type Jar struct {
	mu      sync.RWMutex
	byDomain map[string][]*Cookie
}

// NewJar creates an empty cookie jar.
func NewJar() *Jar {
	return &Jar{byDomain: make(map[string][]*Cookie)}
}

// SetFromHeader parses one Set-Cookie header value (receivedDomain is the
// response URL's host, used when the cookie itself carries no Domain
// attribute) and stores it. A malformed cookie is dropped without affecting
// other Set-Cookie headers in the same response.
func (j *Jar) SetFromHeader(receivedDomain, setCookieValue string) error {
	c, err := ParseCookie(setCookieValue)
	if err != nil {
		return err
	}
	if c.Domain == "" {
		c.Domain = receivedDomain
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	existing := j.byDomain[c.Domain]
	filtered := existing[:0]
	for _, e := range existing {
		if e.Name != c.Name || e.Path != c.Path {
			filtered = append(filtered, e)
		}
	}
	if c.IsExpired() {
		j.byDomain[c.Domain] = filtered
		return nil
	}
	j.byDomain[c.Domain] = append(filtered, c)
	return nil
}

// CookiesForURL returns the live (non-expired), domain/path-matching
// cookies to attach to a request for path on host; Secure cookies are
// returned only when secure is true.
func (j *Jar) CookiesForURL(host, path string, secure bool) []*Cookie {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var out []*Cookie
	for domain, cookies := range j.byDomain {
		if !domainMatches(host, domain) {
			continue
		}
		for _, c := range cookies {
			if c.IsExpired() {
				continue
			}
			if c.Secure && !secure {
				continue
			}
			if !pathMatches(path, c.Path) {
				continue
			}
			out = append(out, c)
		}
	}
	return out
}

// Header formats CookiesForURL's result as a request "Cookie" header value.
func (j *Jar) Header(host, path string, secure bool) string {
	cookies := j.CookiesForURL(host, path, secure)
	parts := make([]string, len(cookies))
	for i, c := range cookies {
		parts[i] = c.Name + "=" + c.Value
	}
	return strings.Join(parts, "; ")
}

func domainMatches(host, cookieDomain string) bool {
	host, cookieDomain = strings.ToLower(host), strings.ToLower(cookieDomain)
	if host == cookieDomain {
		return true
	}
	return strings.HasSuffix(host, "."+cookieDomain)
}

func pathMatches(requestPath, cookiePath string) bool {
	if cookiePath == "" || cookiePath == "/" {
		return true
	}
	if requestPath == cookiePath {
		return true
	}
	return strings.HasPrefix(requestPath, cookiePath) &&
		(strings.HasSuffix(cookiePath, "/") || strings.HasPrefix(requestPath[len(cookiePath):], "/"))
}
