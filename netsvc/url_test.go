package netsvc

import "testing"

func TestResolveURLRelativePath(t *testing.T) {
	got, err := ResolveURL("https://a.example/dir/page.html", "style.css")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "https://a.example/dir/style.css" {
		t.Fatalf("unexpected resolved URL: %s", got)
	}
}

func TestResolveURLAbsoluteReferenceIgnoresBase(t *testing.T) {
	got, err := ResolveURL("https://a.example/", "https://b.example/x.css")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "https://b.example/x.css" {
		t.Fatalf("unexpected resolved URL: %s", got)
	}
}

func TestResolveURLDataSchemeNeverResolvedAgainstBase(t *testing.T) {
	got, err := ResolveURL("https://a.example/", "data:text/plain,hi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "data:text/plain,hi" {
		t.Fatalf("expected data URL untouched, got %s", got)
	}
}

func TestResolveURLFragmentOnly(t *testing.T) {
	got, err := ResolveURL("https://a.example/page.html", "#section")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "https://a.example/page.html#section" {
		t.Fatalf("unexpected resolved URL: %s", got)
	}
}

func TestNormalizeURLStripsDefaultPortAndLowercasesHost(t *testing.T) {
	got, err := NormalizeURL("HTTPS://A.example:443/Path")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "https://a.example/Path" {
		t.Fatalf("unexpected normalized URL: %s", got)
	}
}

func TestIsSameOriginComparesSchemeHostPort(t *testing.T) {
	if !IsSameOrigin("https://a.example/x", "https://a.example/y") {
		t.Fatalf("expected same origin for matching scheme/host")
	}
	if IsSameOrigin("https://a.example/x", "http://a.example/x") {
		t.Fatalf("expected different origin for differing scheme")
	}
	if IsSameOrigin("https://a.example/x", "https://b.example/x") {
		t.Fatalf("expected different origin for differing host")
	}
}

func TestParseDataURLBase64(t *testing.T) {
	d, err := ParseDataURL("data:text/plain;base64,aGVsbG8=")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.MediaType != "text/plain" || string(d.Data) != "hello" {
		t.Fatalf("unexpected decode: %+v", d)
	}
}

func TestParseDataURLURLEncoded(t *testing.T) {
	d, err := ParseDataURL("data:,hello%20world")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(d.Data) != "hello world" {
		t.Fatalf("unexpected decode: %q", d.Data)
	}
}

func TestParseDataURLRejectsMissingComma(t *testing.T) {
	if _, err := ParseDataURL("data:text/plain"); err == nil {
		t.Fatalf("expected error for missing comma")
	}
}

func TestGuessContentTypeFromExtension(t *testing.T) {
	if got := GuessContentType("https://a.example/s.css"); got != "text/css" {
		t.Fatalf("unexpected content type: %s", got)
	}
	if got := GuessContentType("https://a.example/unknown"); got != "application/octet-stream" {
		t.Fatalf("unexpected default content type: %s", got)
	}
}
