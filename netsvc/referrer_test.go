package netsvc

import "testing"

func TestApplyReferrerStrictOriginWhenCrossOriginDowngradeStrips(t *testing.T) {
	got := ApplyReferrer(ReferrerPolicyStrictOriginWhenCrossOrigin, "https://a.example/", "http://b.example/")
	if got != "" {
		t.Fatalf("expected no referrer on downgrade, got %q", got)
	}
}

func TestApplyReferrerStrictOriginWhenCrossOriginCrossOriginTrimsToOrigin(t *testing.T) {
	got := ApplyReferrer(ReferrerPolicyStrictOriginWhenCrossOrigin, "https://a.example/page", "https://b.example/other")
	if got != "https://a.example/" {
		t.Fatalf("expected trimmed origin, got %q", got)
	}
}

func TestApplyReferrerStrictOriginWhenCrossOriginSameOriginKeepsFullURL(t *testing.T) {
	got := ApplyReferrer(ReferrerPolicyStrictOriginWhenCrossOrigin, "https://a.example/page?x=1", "https://a.example/other")
	if got != "https://a.example/page?x=1" {
		t.Fatalf("expected full URL for same-origin, got %q", got)
	}
}

func TestApplyReferrerNoReferrerAlwaysEmpty(t *testing.T) {
	got := ApplyReferrer(ReferrerPolicyNoReferrer, "https://a.example/", "https://a.example/other")
	if got != "" {
		t.Fatalf("expected empty referrer, got %q", got)
	}
}

func TestApplyReferrerSameOriginPolicyDropsCrossOrigin(t *testing.T) {
	got := ApplyReferrer(ReferrerPolicySameOrigin, "https://a.example/", "https://b.example/")
	if got != "" {
		t.Fatalf("expected empty referrer for cross-origin under same-origin policy, got %q", got)
	}
}

func TestApplyReferrerUnsafeURLKeepsFullURLCrossOrigin(t *testing.T) {
	got := ApplyReferrer(ReferrerPolicyUnsafeURL, "https://a.example/page", "http://b.example/")
	if got != "https://a.example/page" {
		t.Fatalf("expected full URL preserved, got %q", got)
	}
}

func TestParseReferrerPolicyFallsBackToDefaultOnUnknown(t *testing.T) {
	if got := ParseReferrerPolicy("bogus-value"); got != DefaultReferrerPolicy {
		t.Fatalf("expected default policy fallback, got %v", got)
	}
}

func TestParseReferrerPolicyRecognizesKnownValues(t *testing.T) {
	if got := ParseReferrerPolicy("no-referrer"); got != ReferrerPolicyNoReferrer {
		t.Fatalf("expected no-referrer, got %v", got)
	}
	if got := ParseReferrerPolicy("Origin"); got != ReferrerPolicyOrigin {
		t.Fatalf("expected case-insensitive match to origin, got %v", got)
	}
}
