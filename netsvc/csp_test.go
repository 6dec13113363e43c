package netsvc

import "testing"

func TestParseCSPSplitsDirectivesAndSources(t *testing.T) {
	directives := ParseCSP("default-src 'self'; img-src https://cdn.example.com *.assets.example.com")
	if len(directives["default-src"]) != 1 || directives["default-src"][0] != "'self'" {
		t.Fatalf("unexpected default-src: %v", directives["default-src"])
	}
	if len(directives["img-src"]) != 2 {
		t.Fatalf("unexpected img-src: %v", directives["img-src"])
	}
}

func TestIsAllowedByCSPNoneBlocksEverything(t *testing.T) {
	directives := ParseCSP("script-src 'none'")
	if IsAllowedByCSP(directives, "script", "https://evil.example/x.js", "https://a.example") {
		t.Fatalf("expected 'none' to block script-src")
	}
}

func TestIsAllowedByCSPNoneUnquotedAlsoBlocks(t *testing.T) {
	directives := ParseCSP("script-src none")
	if IsAllowedByCSP(directives, "script", "https://evil.example/x.js", "https://a.example") {
		t.Fatalf("expected unquoted none to also block")
	}
}

func TestIsAllowedByCSPWildcardAllows(t *testing.T) {
	directives := ParseCSP("img-src *")
	if !IsAllowedByCSP(directives, "image", "https://anywhere.example/pic.png", "https://a.example") {
		t.Fatalf("expected wildcard img-src to allow any origin")
	}
}

func TestIsAllowedByCSPFallsBackToDefaultSrc(t *testing.T) {
	directives := ParseCSP("default-src 'none'")
	if IsAllowedByCSP(directives, "style", "https://cdn.example.com/s.css", "https://a.example") {
		t.Fatalf("expected style-src absence to fall back to default-src 'none'")
	}
}

func TestIsAllowedByCSPExplicitOriginMustMatch(t *testing.T) {
	directives := ParseCSP("style-src https://cdn.example.com")
	if IsAllowedByCSP(directives, "style", "https://other.example/s.css", "https://a.example") {
		t.Fatalf("expected mismatched origin to be blocked")
	}
	if !IsAllowedByCSP(directives, "style", "https://cdn.example.com/s.css", "https://a.example") {
		t.Fatalf("expected matching origin to be allowed")
	}
}

func TestIsAllowedByCSPWithNoDirectivesAllowsEverything(t *testing.T) {
	if !IsAllowedByCSP(nil, "script", "https://anything.example/", "https://a.example") {
		t.Fatalf("expected no CSP to allow everything")
	}
}

func TestIsAllowedByCSPSelfMatchesDocumentOrigin(t *testing.T) {
	directives := ParseCSP("script-src 'self'")
	if !IsAllowedByCSP(directives, "script", "https://a.example/app.js", "https://a.example") {
		t.Fatalf("expected 'self' to allow a same-origin fetch")
	}
	if IsAllowedByCSP(directives, "script", "https://evil.example/app.js", "https://a.example") {
		t.Fatalf("expected 'self' to block a cross-origin fetch")
	}
}

func TestIsAllowedByCSPSelfWithUnknownDocumentOriginMatchesNothing(t *testing.T) {
	directives := ParseCSP("script-src 'self'")
	if IsAllowedByCSP(directives, "script", "https://a.example/app.js", "") {
		t.Fatalf("expected 'self' with no known document origin to match nothing")
	}
}
