package netsvc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCookieDateFormats(t *testing.T) {
	// The three Set-Cookie date formats this engine accepts.
	cases := []string{
		"Sun, 06 Nov 1994 08:49:37 GMT",
		"Sun Nov  6 08:49:37 1994",
		"Sunday, 06-Nov-94 08:49:37 GMT",
	}
	for _, raw := range cases {
		c, err := ParseCookie("a=b; Expires=" + raw)
		require.NoError(t, err, raw)
		assert.Equal(t, 1994, c.Expires.Year())
		assert.Equal(t, time.November, c.Expires.Month())
		assert.Equal(t, 6, c.Expires.Day())
	}
}

func TestParseCookieUnrecognizedDateFails(t *testing.T) {
	_, err := ParseCookie("a=b; Expires=not-a-date")
	require.Error(t, err)
	var parseErr *CookieParsingError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "DateError", parseErr.Kind)
}

func TestParseCookieNegativeMaxAgeClampsToZero(t *testing.T) {
	// Max-Age=-5 is stored as zero.
	before := time.Now()
	c, err := ParseCookie("a=b; Max-Age=-5")
	require.NoError(t, err)
	require.True(t, c.HasMaxAge)
	assert.False(t, c.Expires.After(before.Add(time.Second)))
	assert.True(t, c.IsExpired())
}

func TestParseCookieDomainDotStripped(t *testing.T) {
	// Domain=.example.com is stored as example.com.
	c, err := ParseCookie("a=b; Domain=.example.com")
	require.NoError(t, err)
	assert.Equal(t, "example.com", c.Domain)
}

func TestParseCookieHostPrefixRequiresSecureNoDomainRootPath(t *testing.T) {
	// __Host- requires Secure, no Domain, and Path=/.
	_, err := ParseCookie("__Host-a=b; Secure")
	require.NoError(t, err)

	_, err = ParseCookie("__Host-a=b")
	require.Error(t, err)

	_, err = ParseCookie("__Host-a=b; Secure; Domain=example.com")
	require.Error(t, err)

	_, err = ParseCookie("__Host-a=b; Secure; Path=/sub")
	require.Error(t, err)
}

func TestParseCookieSecurePrefixRequiresSecure(t *testing.T) {
	// __Secure- requires Secure.
	_, err := ParseCookie("__Secure-a=b")
	require.Error(t, err)

	c, err := ParseCookie("__Secure-a=b; Secure")
	require.NoError(t, err)
	assert.True(t, c.Secure)
}

func TestParseCookieMissingNameValueIsInvalid(t *testing.T) {
	_, err := ParseCookie("novalue")
	require.Error(t, err)
	var parseErr *CookieParsingError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "InvalidCookie", parseErr.Kind)
}

func TestJarSetFromHeaderAndCookiesForURL(t *testing.T) {
	jar := NewJar()
	require.NoError(t, jar.SetFromHeader("a.example.com", "session=xyz; Path=/"))

	got := jar.CookiesForURL("a.example.com", "/", false)
	require.Len(t, got, 1)
	assert.Equal(t, "session", got[0].Name)
	assert.Equal(t, "xyz", got[0].Value)
}

func TestJarSetFromHeaderRejectsExpiredMaxAgeImmediately(t *testing.T) {
	jar := NewJar()
	require.NoError(t, jar.SetFromHeader("a.example.com", "stale=1; Max-Age=-5"))

	got := jar.CookiesForURL("a.example.com", "/", false)
	assert.Empty(t, got)
}

func TestJarSecureCookieOmittedFromInsecureRequest(t *testing.T) {
	jar := NewJar()
	require.NoError(t, jar.SetFromHeader("a.example.com", "s=1; Secure"))

	assert.Empty(t, jar.CookiesForURL("a.example.com", "/", false))
	assert.Len(t, jar.CookiesForURL("a.example.com", "/", true), 1)
}

func TestJarDropsMalformedCookieWithoutAffectingOthers(t *testing.T) {
	// A single malformed cookie is dropped; others in the same
	// batch succeed. SetFromHeader is called once per Set-Cookie value, so
	// this exercises that a failure on one call doesn't corrupt the jar for
	// a subsequent successful call.
	jar := NewJar()
	err := jar.SetFromHeader("a.example.com", "__Host-bad=1")
	require.Error(t, err)
	require.NoError(t, jar.SetFromHeader("a.example.com", "good=1"))

	got := jar.CookiesForURL("a.example.com", "/", false)
	require.Len(t, got, 1)
	assert.Equal(t, "good", got[0].Name)
}

func TestJarScopesByHostAndSite(t *testing.T) {
	// Cookies set by one origin aren't attached to requests against a
	// different origin.
	jar := NewJar()
	require.NoError(t, jar.SetFromHeader("a.example.com", "only_a=1"))

	assert.Len(t, jar.CookiesForURL("a.example.com", "/", false), 1)
	assert.Empty(t, jar.CookiesForURL("b.example.com", "/", false))
}

func TestJarHeaderFormatsAsNameValuePairs(t *testing.T) {
	jar := NewJar()
	require.NoError(t, jar.SetFromHeader("a.example.com", "x=1"))
	require.NoError(t, jar.SetFromHeader("a.example.com", "y=2; Path=/"))

	header := jar.Header("a.example.com", "/", false)
	assert.Contains(t, header, "x=1")
	assert.Contains(t, header, "y=2")
}

func TestDomainMatchesSubdomain(t *testing.T) {
	assert.True(t, domainMatches("www.example.com", "example.com"))
	assert.True(t, domainMatches("example.com", "example.com"))
	assert.False(t, domainMatches("notexample.com", "example.com"))
}

func TestPathMatchesPrefix(t *testing.T) {
	assert.True(t, pathMatches("/foo/bar", "/foo"))
	assert.True(t, pathMatches("/foo", "/foo"))
	assert.False(t, pathMatches("/foobar", "/foo"))
	assert.True(t, pathMatches("/anything", "/"))
}
