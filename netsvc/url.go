// Package netsvc implements the engine's network service: URL and header
// primitives, the cookie jar, CORS/referrer/CSP middleware, and the on-disk
// and in-memory response caches.
package netsvc

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
)

// ResolveURL resolves a reference URL against a base URL. data:,
// javascript:, and mailto: references are always treated as absolute.
func ResolveURL(base, ref string) (string, error) {
	if ref == "" {
		return base, nil
	}

	lower := strings.ToLower(ref)
	if strings.HasPrefix(lower, "data:") || strings.HasPrefix(lower, "javascript:") || strings.HasPrefix(lower, "mailto:") {
		return ref, nil
	}

	if strings.HasPrefix(ref, "#") {
		baseURL, err := url.Parse(base)
		if err != nil {
			return "", fmt.Errorf("netsvc: invalid base URL: %w", err)
		}
		baseURL.Fragment = ref[1:]
		return baseURL.String(), nil
	}

	refURL, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("netsvc: invalid reference URL: %w", err)
	}
	if refURL.IsAbs() {
		return refURL.String(), nil
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("netsvc: invalid base URL: %w", err)
	}

	return baseURL.ResolveReference(refURL).String(), nil
}

// NormalizeURL lowercases scheme/host, strips default ports, and sorts the
// query string, for use as a cache/comparison key.
func NormalizeURL(urlStr string) (string, error) {
	u, err := url.Parse(urlStr)
	if err != nil {
		return "", err
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)

	if u.Scheme == "http" && strings.HasSuffix(u.Host, ":80") {
		u.Host = u.Host[:len(u.Host)-3]
	} else if u.Scheme == "https" && strings.HasSuffix(u.Host, ":443") {
		u.Host = u.Host[:len(u.Host)-4]
	}

	if u.RawQuery != "" {
		u.RawQuery = u.Query().Encode()
	}

	return u.String(), nil
}

// IsAbsoluteURL reports whether urlStr carries a scheme.
func IsAbsoluteURL(urlStr string) bool {
	u, err := url.Parse(urlStr)
	return err == nil && u.IsAbs()
}

// IsDataURL reports whether urlStr is a data: URL.
func IsDataURL(urlStr string) bool {
	return strings.HasPrefix(strings.ToLower(urlStr), "data:")
}

// DataURL is a parsed data: URL, resolved without a network round trip
// as part of the resource loader's file:/embed:/about:/http(s)/data:
// scheme dispatch.
type DataURL struct {
	MediaType string
	Charset   string
	Base64    bool
	Data      []byte
}

// ParseDataURL parses "data:[<mediatype>][;base64],<data>".
func ParseDataURL(urlStr string) (*DataURL, error) {
	if !IsDataURL(urlStr) {
		return nil, fmt.Errorf("netsvc: not a data URL")
	}

	content := urlStr[len("data:"):]
	comma := strings.Index(content, ",")
	if comma == -1 {
		return nil, fmt.Errorf("netsvc: invalid data URL: missing comma")
	}

	metadata, data := content[:comma], content[comma+1:]
	result := &DataURL{MediaType: "text/plain", Charset: "US-ASCII"}

	if metadata != "" {
		parts := strings.Split(metadata, ";")
		for i, part := range parts {
			switch {
			case i == 0 && !strings.Contains(part, "=") && part != "base64":
				if part != "" {
					result.MediaType = part
				}
			case part == "base64":
				result.Base64 = true
			case strings.HasPrefix(strings.ToLower(part), "charset="):
				result.Charset = part[len("charset="):]
			}
		}
	}

	if result.Base64 {
		decoded, err := base64.StdEncoding.DecodeString(data)
		if err != nil {
			return nil, fmt.Errorf("netsvc: failed to decode base64 data: %w", err)
		}
		result.Data = decoded
	} else {
		decoded, err := url.QueryUnescape(data)
		if err != nil {
			return nil, fmt.Errorf("netsvc: failed to URL-decode data: %w", err)
		}
		result.Data = []byte(decoded)
	}

	return result, nil
}

// Origin returns scheme://host for urlStr.
func Origin(urlStr string) (string, error) {
	u, err := url.Parse(urlStr)
	if err != nil {
		return "", err
	}
	if !u.IsAbs() {
		return "", fmt.Errorf("netsvc: URL is not absolute")
	}
	return u.Scheme + "://" + u.Host, nil
}

// IsSameOrigin reports whether url1 and url2 share an origin.
func IsSameOrigin(url1, url2 string) bool {
	norm1, err1 := NormalizeURL(url1)
	norm2, err2 := NormalizeURL(url2)
	if err1 != nil || err2 != nil {
		return false
	}
	origin1, err1 := Origin(norm1)
	origin2, err2 := Origin(norm2)
	if err1 != nil || err2 != nil {
		return false
	}
	return strings.EqualFold(origin1, origin2)
}

// ExtractExtension returns the lowercased file extension from a URL path.
func ExtractExtension(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	path := u.Path
	if path == "" || strings.HasSuffix(path, "/") {
		return ""
	}
	filename := path
	if i := strings.LastIndex(path, "/"); i != -1 {
		filename = path[i+1:]
	}
	dot := strings.LastIndex(filename, ".")
	if dot == -1 || dot == len(filename)-1 {
		return ""
	}
	return strings.ToLower(filename[dot+1:])
}

// GuessContentType guesses a MIME type from a URL's file extension, used by
// the asset loader when a filesystem/embedded read carries no Content-Type.
func GuessContentType(urlStr string) string {
	switch ExtractExtension(urlStr) {
	case "html", "htm":
		return "text/html"
	case "css":
		return "text/css"
	case "js", "mjs":
		return "text/javascript"
	case "json":
		return "application/json"
	case "xml":
		return "application/xml"
	case "png":
		return "image/png"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	case "svg":
		return "image/svg+xml"
	case "webp":
		return "image/webp"
	case "ico":
		return "image/x-icon"
	case "woff":
		return "font/woff"
	case "woff2":
		return "font/woff2"
	default:
		return "application/octet-stream"
	}
}

// ParseContentType splits a Content-Type header into media type and charset.
func ParseContentType(contentType string) (mediaType string, charset string) {
	if contentType == "" {
		return "application/octet-stream", ""
	}
	parts := strings.Split(contentType, ";")
	mediaType = strings.TrimSpace(parts[0])
	for _, part := range parts[1:] {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(strings.ToLower(part), "charset=") {
			charset = strings.Trim(part[len("charset="):], `"`)
			charset = strings.ToLower(charset)
			break
		}
	}
	return mediaType, charset
}

// IsHTMLContentType reports whether contentType names an HTML document.
func IsHTMLContentType(contentType string) bool {
	mt, _ := ParseContentType(contentType)
	mt = strings.ToLower(mt)
	return mt == "text/html" || mt == "application/xhtml+xml"
}

// IsCSSContentType reports whether contentType names a CSS stylesheet.
func IsCSSContentType(contentType string) bool {
	mt, _ := ParseContentType(contentType)
	return strings.ToLower(mt) == "text/css"
}
