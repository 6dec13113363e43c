package netsvc

import (
	"net/url"
	"strings"
)

// ReferrerPolicy mirrors the Referrer-Policy header's named values.
type ReferrerPolicy int

const (
	ReferrerPolicyNoReferrer ReferrerPolicy = iota
	ReferrerPolicyNoReferrerWhenDowngrade
	ReferrerPolicyOrigin
	ReferrerPolicyOriginWhenCrossOrigin
	ReferrerPolicySameOrigin
	ReferrerPolicyStrictOrigin
	ReferrerPolicyStrictOriginWhenCrossOrigin
	ReferrerPolicyUnsafeURL
)

// DefaultReferrerPolicy is strict-origin-when-cross-origin, the value a
// fetch uses when no Referrer-Policy header has been observed.
const DefaultReferrerPolicy = ReferrerPolicyStrictOriginWhenCrossOrigin

// ParseReferrerPolicy maps a Referrer-Policy header value to its enum,
// falling back to DefaultReferrerPolicy for anything unrecognized (per the
// Referrer Policy spec's "invalid policy" fallback behavior).
func ParseReferrerPolicy(value string) ReferrerPolicy {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "no-referrer":
		return ReferrerPolicyNoReferrer
	case "no-referrer-when-downgrade":
		return ReferrerPolicyNoReferrerWhenDowngrade
	case "origin":
		return ReferrerPolicyOrigin
	case "origin-when-cross-origin":
		return ReferrerPolicyOriginWhenCrossOrigin
	case "same-origin":
		return ReferrerPolicySameOrigin
	case "strict-origin":
		return ReferrerPolicyStrictOrigin
	case "strict-origin-when-cross-origin":
		return ReferrerPolicyStrictOriginWhenCrossOrigin
	case "unsafe-url":
		return ReferrerPolicyUnsafeURL
	default:
		return DefaultReferrerPolicy
	}
}

func isDowngrade(fromScheme, toScheme string) bool {
	return fromScheme == "https" && toScheme != "https"
}

func originOnly(u *url.URL) string {
	stripped := *u
	stripped.Path, stripped.RawQuery, stripped.Fragment, stripped.User = "/", "", "", nil
	return stripped.String()
}

// ApplyReferrer computes the Referer header value to send with a request
// from requestURL to targetURL under policy:
// no-referrer always strips it; a downgrade (https -> non-https) strips it
// under no-referrer-when-downgrade, strict-origin and
// strict-origin-when-cross-origin, while unsafe-url and the non-strict
// origin policies still send it; cross-origin requests under
// origin-when-cross-origin and strict-origin-when-cross-origin are trimmed
// to the requesting document's origin, and same-origin drops them.
func ApplyReferrer(policy ReferrerPolicy, requestURL, targetURL string) string {
	from, err := url.Parse(requestURL)
	if err != nil || from.Scheme == "" {
		return ""
	}
	to, err := url.Parse(targetURL)
	if err != nil {
		return ""
	}

	if policy == ReferrerPolicyNoReferrer {
		return ""
	}

	crossOrigin := !strings.EqualFold(from.Scheme, to.Scheme) || !strings.EqualFold(from.Host, to.Host)
	downgrade := isDowngrade(from.Scheme, to.Scheme)

	switch policy {
	case ReferrerPolicyNoReferrerWhenDowngrade:
		if downgrade {
			return ""
		}
		return from.String()
	case ReferrerPolicyOrigin:
		return originOnly(from)
	case ReferrerPolicyOriginWhenCrossOrigin:
		if crossOrigin {
			return originOnly(from)
		}
		return from.String()
	case ReferrerPolicySameOrigin:
		if crossOrigin {
			return ""
		}
		return from.String()
	case ReferrerPolicyStrictOrigin:
		if downgrade {
			return ""
		}
		return originOnly(from)
	case ReferrerPolicyStrictOriginWhenCrossOrigin:
		if downgrade {
			return ""
		}
		if crossOrigin {
			return originOnly(from)
		}
		return from.String()
	case ReferrerPolicyUnsafeURL:
		return from.String()
	default:
		return ""
	}
}
