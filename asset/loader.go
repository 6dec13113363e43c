package asset

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aldermoss/enginecore/dom"
	"github.com/aldermoss/enginecore/netsvc"
)

// Kind classifies a fetched resource by how it will be used.
type Kind int

const (
	KindUnknown Kind = iota
	KindDocument
	KindStylesheet
	KindScript
	KindImage
	KindFont
)

// Resource is a loaded asset: its bytes plus enough metadata for the
// caller to decide what to do with it.
type Resource struct {
	URL         string
	Kind        Kind
	Content     []byte
	ContentType string
	Charset     string
	StatusCode  int
	Err         error
}

// IsSuccess reports whether the resource loaded without a transport or
// decode error and carries a successful HTTP status (when one applies).
func (r *Resource) IsSuccess() bool {
	return r.Err == nil && (r.StatusCode == 0 || (r.StatusCode >= 200 && r.StatusCode < 400))
}

// Loader dispatches a URL to the right backend by scheme: data: decodes
// inline, file:/embed: go to a local Backend, about: is answered by the
// loader itself, and http(s): goes through a NetworkSession.
type Loader struct {
	session  *netsvc.NetworkSession
	fs       Backend
	embedded Backend
	baseURL  string

	mu sync.RWMutex
}

// NewLoader creates a Loader. fs and embedded may be nil if the engine is
// never asked to resolve file:/embed: URLs.
func NewLoader(session *netsvc.NetworkSession, fs, embedded Backend) *Loader {
	return &Loader{session: session, fs: fs, embedded: embedded}
}

// SetBaseURL sets the URL relative references resolve against.
func (l *Loader) SetBaseURL(baseURL string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.baseURL = strings.TrimRight(baseURL, "/")
}

// Load fetches urlStr as kind, resolving it against the loader's base URL
// first if it is not already absolute.
func (l *Loader) Load(ctx context.Context, urlStr string, kind Kind) *Resource {
	if netsvc.IsDataURL(urlStr) {
		return l.loadDataURL(urlStr, kind)
	}

	l.mu.RLock()
	baseURL := l.baseURL
	l.mu.RUnlock()

	if baseURL != "" && !netsvc.IsAbsoluteURL(urlStr) {
		resolved, err := netsvc.ResolveURL(baseURL, urlStr)
		if err != nil {
			return &Resource{URL: urlStr, Kind: kind, Err: fmt.Errorf("asset: failed to resolve URL: %w", err)}
		}
		urlStr = resolved
	}

	scheme := schemeOf(urlStr)
	switch scheme {
	case "file":
		return l.loadFromBackend(l.fs, urlStr, kind)
	case "embed":
		return l.loadFromBackend(l.embedded, urlStr, kind)
	case "about":
		return l.loadAbout(urlStr, kind)
	default:
		return l.loadFromHTTP(ctx, urlStr, kind)
	}
}

func schemeOf(urlStr string) string {
	if i := strings.Index(urlStr, ":"); i > 0 {
		return strings.ToLower(urlStr[:i])
	}
	return ""
}

func (l *Loader) loadDataURL(urlStr string, kind Kind) *Resource {
	dataURL, err := netsvc.ParseDataURL(urlStr)
	if err != nil {
		return &Resource{URL: urlStr, Kind: kind, Err: err}
	}
	return &Resource{
		URL:         urlStr,
		Kind:        kind,
		Content:     dataURL.Data,
		ContentType: dataURL.MediaType,
		Charset:     dataURL.Charset,
		StatusCode:  200,
	}
}

func (l *Loader) loadFromBackend(backend Backend, urlStr string, kind Kind) *Resource {
	if backend == nil {
		return &Resource{URL: urlStr, Kind: kind, Err: fmt.Errorf("asset: no backend configured for %q", urlStr)}
	}
	key := assetKey(urlStr)
	data, err := backend.LoadAsset(key)
	if err != nil {
		return &Resource{URL: urlStr, Kind: kind, Err: err}
	}
	return &Resource{
		URL:         urlStr,
		Kind:        kind,
		Content:     data,
		ContentType: netsvc.GuessContentType(urlStr),
		StatusCode:  200,
	}
}

// assetKey strips the scheme and leading slashes so "file:///a/b.css" and
// "embed://a/b.css" both resolve to the backend-relative key "a/b.css".
func assetKey(urlStr string) string {
	if i := strings.Index(urlStr, "://"); i >= 0 {
		return strings.TrimPrefix(urlStr[i+3:], "/")
	}
	if i := strings.Index(urlStr, ":"); i >= 0 {
		return strings.TrimPrefix(urlStr[i+1:], "/")
	}
	return urlStr
}

// loadAbout serves the engine's internal about: pages (currently just
// about:blank, an empty document).
func (l *Loader) loadAbout(urlStr string, kind Kind) *Resource {
	page := strings.TrimPrefix(urlStr, "about:")
	switch page {
	case "blank", "":
		return &Resource{URL: urlStr, Kind: kind, Content: []byte(""), ContentType: "text/html", StatusCode: 200}
	default:
		return &Resource{URL: urlStr, Kind: kind, Err: fmt.Errorf("asset: unknown about: page %q", page)}
	}
}

func (l *Loader) loadFromHTTP(ctx context.Context, urlStr string, kind Kind) *Resource {
	headers := map[string]string{"Accept": acceptHeaderFor(kind)}

	var resp *netsvc.Response
	var err error
	if kind == KindDocument {
		// A document load resets and then installs the session's
		// per-document policy state (URL, CSP, referrer policy).
		resp, err = l.session.FetchDocument(ctx, urlStr, headers)
	} else {
		resp, err = l.session.Get(ctx, urlStr, headers)
	}
	if err != nil {
		return &Resource{URL: urlStr, Kind: kind, Err: err}
	}

	mediaType, charset := netsvc.ParseContentType(resp.ContentType)
	return &Resource{
		URL:         urlStr,
		Kind:        kind,
		Content:     resp.Body,
		ContentType: mediaType,
		Charset:     charset,
		StatusCode:  resp.StatusCode,
	}
}

func acceptHeaderFor(kind Kind) string {
	switch kind {
	case KindDocument:
		return "text/html,application/xhtml+xml"
	case KindStylesheet:
		return "text/css,*/*;q=0.1"
	case KindScript:
		return "application/javascript,text/javascript,*/*;q=0.1"
	case KindImage:
		return "image/*,*/*;q=0.1"
	default:
		return "*/*"
	}
}

// DocumentResources holds every external resource referenced by a parsed
// document, gathered in one pass — stylesheets, scripts-with-src, and
// images.
type DocumentResources struct {
	Stylesheets []*Resource
	Scripts     []*Resource
	Images      []*Resource
}

// LoadDocumentResources walks doc and fetches every stylesheet link,
// external script, and image it finds.
func (l *Loader) LoadDocumentResources(ctx context.Context, doc *dom.Document) *DocumentResources {
	result := &DocumentResources{}

	for _, id := range doc.ByTag("link") {
		n := doc.Node(id)
		if !strings.EqualFold(n.Attributes["rel"], "stylesheet") {
			continue
		}
		href := n.Attributes["href"]
		if href == "" {
			continue
		}
		result.Stylesheets = append(result.Stylesheets, l.Load(ctx, href, KindStylesheet))
	}

	for _, id := range doc.ByTag("script") {
		n := doc.Node(id)
		src := n.Attributes["src"]
		if src == "" {
			continue
		}
		scriptType := n.Attributes["type"]
		if scriptType != "" && scriptType != "text/javascript" && scriptType != "application/javascript" && scriptType != "module" {
			continue
		}
		result.Scripts = append(result.Scripts, l.Load(ctx, src, KindScript))
	}

	for _, id := range doc.ByTag("img") {
		n := doc.Node(id)
		src := n.Attributes["src"]
		if src == "" {
			continue
		}
		result.Images = append(result.Images, l.Load(ctx, src, KindImage))
	}

	return result
}

// ResolvePath returns the filesystem path a FileSystemBackend rooted at
// root would read for key, used by callers that want to pre-check
// existence before loading.
func ResolvePath(root, key string) string {
	return filepath.Join(root, key)
}
