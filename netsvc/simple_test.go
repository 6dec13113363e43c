package netsvc

import "testing"

func TestIsSimpleRequestGetWithSafelistedHeaders(t *testing.T) {
	if !IsSimpleRequest("GET", map[string]string{"Accept": "text/html", "Content-Type": "text/plain"}) {
		t.Fatalf("expected GET with safelisted headers to be simple")
	}
}

func TestIsSimpleRequestRejectsNonSafelistedHeader(t *testing.T) {
	if IsSimpleRequest("GET", map[string]string{"X-Custom": "1"}) {
		t.Fatalf("expected a custom header to disqualify simple classification")
	}
}

func TestIsSimpleRequestRejectsNonSimpleContentType(t *testing.T) {
	if IsSimpleRequest("POST", map[string]string{"Content-Type": "application/json"}) {
		t.Fatalf("expected application/json to disqualify simple classification")
	}
}

func TestIsSimpleRequestAcceptsSimpleContentTypes(t *testing.T) {
	if !IsSimpleRequest("POST", map[string]string{"Content-Type": "multipart/form-data; boundary=x"}) {
		t.Fatalf("expected multipart/form-data to stay simple")
	}
}

func TestIsSimpleRequestRejectsNonSimpleMethod(t *testing.T) {
	if IsSimpleRequest("DELETE", nil) {
		t.Fatalf("expected DELETE to never be simple")
	}
}

func TestRequiresPreflightOnlyForNonSimpleCrossOrigin(t *testing.T) {
	if requiresPreflight(false, "PUT", nil) {
		t.Fatalf("expected same-origin requests to never require preflight")
	}
	if !requiresPreflight(true, "PUT", nil) {
		t.Fatalf("expected cross-origin PUT to require preflight")
	}
	if requiresPreflight(true, "GET", map[string]string{"Accept": "text/html"}) {
		t.Fatalf("expected cross-origin simple GET to skip preflight")
	}
}
