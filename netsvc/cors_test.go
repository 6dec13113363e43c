package netsvc

import (
	"net/http"
	"testing"
)

func TestPreflightRequestCarriesCORSHeaders(t *testing.T) {
	req := PreflightRequest("https://b.example/x", "https://a.example", "PUT", map[string]string{"X-Custom": "1"})
	if req.Method != http.MethodOptions {
		t.Fatalf("expected OPTIONS, got %s", req.Method)
	}
	if req.Headers["Origin"] != "https://a.example" {
		t.Fatalf("unexpected Origin header: %s", req.Headers["Origin"])
	}
	if req.Headers["Access-Control-Request-Method"] != "PUT" {
		t.Fatalf("unexpected ACRM header: %s", req.Headers["Access-Control-Request-Method"])
	}
	if req.Headers["Access-Control-Request-Headers"] != "x-custom" {
		t.Fatalf("unexpected ACRH header: %s", req.Headers["Access-Control-Request-Headers"])
	}
}

func TestIsPreflightAllowedValidatesOriginMethodAndHeaders(t *testing.T) {
	resp := &Response{
		StatusCode: 200,
		Headers: http.Header{
			"Access-Control-Allow-Origin":  {"https://a.example"},
			"Access-Control-Allow-Methods": {"GET, PUT"},
			"Access-Control-Allow-Headers": {"X-Custom"},
		},
	}
	if !IsPreflightAllowed(resp, "https://a.example", "PUT", map[string]string{"X-Custom": "1"}) {
		t.Fatalf("expected preflight to be allowed")
	}
}

func TestIsPreflightAllowedRejectsMismatchedOrigin(t *testing.T) {
	resp := &Response{
		StatusCode: 200,
		Headers: http.Header{
			"Access-Control-Allow-Origin":  {"https://other.example"},
			"Access-Control-Allow-Methods": {"PUT"},
		},
	}
	if IsPreflightAllowed(resp, "https://a.example", "PUT", nil) {
		t.Fatalf("expected preflight to be rejected on origin mismatch")
	}
}

func TestIsPreflightAllowedRejectsDisallowedMethod(t *testing.T) {
	resp := &Response{
		StatusCode: 200,
		Headers: http.Header{
			"Access-Control-Allow-Origin":  {"*"},
			"Access-Control-Allow-Methods": {"GET"},
		},
	}
	if IsPreflightAllowed(resp, "https://a.example", "DELETE", nil) {
		t.Fatalf("expected preflight to be rejected for a disallowed method")
	}
}

func TestIsPreflightAllowedRejectsNonSuccessStatus(t *testing.T) {
	resp := &Response{StatusCode: 403, Headers: http.Header{}}
	if IsPreflightAllowed(resp, "https://a.example", "GET", nil) {
		t.Fatalf("expected a non-2xx preflight response to be rejected")
	}
}

func TestIsCORSResponseAllowedWildcard(t *testing.T) {
	resp := &Response{Headers: http.Header{"Access-Control-Allow-Origin": {"*"}}}
	if !IsCORSResponseAllowed(resp, "https://a.example") {
		t.Fatalf("expected wildcard to allow any origin")
	}
}

func TestIsCORSResponseAllowedExactMatch(t *testing.T) {
	resp := &Response{Headers: http.Header{"Access-Control-Allow-Origin": {"https://a.example"}}}
	if !IsCORSResponseAllowed(resp, "https://a.example") {
		t.Fatalf("expected exact origin match to be allowed")
	}
	if IsCORSResponseAllowed(resp, "https://b.example") {
		t.Fatalf("expected mismatched origin to be rejected")
	}
}
