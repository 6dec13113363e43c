package nav

import (
	"bytes"
	"context"
	"fmt"
	"html"

	"github.com/aldermoss/enginecore/asset"
	"github.com/aldermoss/enginecore/css"
	"github.com/aldermoss/enginecore/dom"
	"github.com/aldermoss/enginecore/htmltree"
	"github.com/aldermoss/enginecore/netsvc"
	"github.com/aldermoss/enginecore/script"
)

// Page is the result of a navigation: a styled document ready for layout.
type Page struct {
	Title       string
	DocumentURL string
	Document    *dom.Document
	Stylesheets []*css.StyleSheet
	Scripts     []ExecutedScript
	Favicons    []string
}

// ExecutedScript records one script the navigation ran (or attempted),
// in document order. URL is the resolved source for external scripts
// and empty for inline ones; Err carries the fetch failure of a
// best-effort external script that was skipped.
type ExecutedScript struct {
	URL    string
	Inline bool
	Err    error
}

// ExternalScripts returns the URLs of the external scripts the
// navigation executed, in document order, skipping failed fetches.
func (p *Page) ExternalScripts() []string {
	var out []string
	for _, s := range p.Scripts {
		if !s.Inline && s.Err == nil {
			out = append(out, s.URL)
		}
	}
	return out
}

// NavigationErrorKind classifies why a navigation failed.
type NavigationErrorKind int

const (
	ErrInvalidURL NavigationErrorKind = iota
	ErrRequest
	ErrParser
)

// NavigationError is returned to the command layer on a failed navigation.
type NavigationError struct {
	Kind NavigationErrorKind
	Err  error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("nav: %s", e.Err)
}

func (e *NavigationError) Unwrap() error { return e.Err }

func invalidURL(err error) *NavigationError {
	return &NavigationError{Kind: ErrInvalidURL, Err: fmt.Errorf("invalid url: %w", err)}
}

func requestError(err error) *NavigationError {
	return &NavigationError{Kind: ErrRequest, Err: err}
}

func parserError(err error) *NavigationError {
	return &NavigationError{Kind: ErrParser, Err: fmt.Errorf("parser error: %w", err)}
}

// Navigator drives navigations for a single tab's worth of collaborators:
// a resource loader (which owns the network session for http(s): and
// dispatches file:/embed:/about:/data: URLs) and a script executor.
type Navigator struct {
	Loader   *asset.Loader
	Executor *script.Executor
}

// NewNavigator creates a Navigator over the given resource loader and
// script executor.
func NewNavigator(loader *asset.Loader, executor *script.Executor) *Navigator {
	return &Navigator{Loader: loader, Executor: executor}
}

// Navigate fetches url, parses its body, resolves every script/style
// suspension the streaming parser raises, and returns the resulting Page.
// stylesheets carries forward any sheets already attached to the tab (e.g.
// a user-agent sheet) and is appended to in document order.
func (n *Navigator) Navigate(ctx context.Context, url string, stylesheets []*css.StyleSheet) (*Page, error) {
	if !netsvc.IsAbsoluteURL(url) && !isLocalScheme(url) {
		return nil, invalidURL(fmt.Errorf("url %q is not absolute", url))
	}

	resource := n.Loader.Load(ctx, url, asset.KindDocument)
	if resource.Err != nil {
		return nil, requestError(resource.Err)
	}

	n.Loader.SetBaseURL(url)

	// A response that declares a non-HTML type renders as plain text,
	// the way a browser shows a text/plain document.
	body := resource.Content
	if ct := resource.ContentType; ct != "" && ct != "application/octet-stream" && !netsvc.IsHTMLContentType(ct) {
		body = []byte("<html><head></head><body><pre>" + html.EscapeString(string(resource.Content)) + "</pre></body></html>")
	}

	collector := NewTabCollector()
	parser := htmltree.NewStreamParser(bytes.NewReader(body), collector)

	var scripts []ExecutedScript
	for {
		state := parser.Step()
		switch state {
		case htmltree.Running:
			continue

		case htmltree.Blocked:
			if err := n.resolveBlock(ctx, parser, collector, url, &stylesheets, &scripts); err != nil {
				return nil, err
			}
			parser.Resume()

		case htmltree.Completed:
			doc := parser.Finalize()
			return n.buildPage(doc, collector, url, stylesheets, scripts), nil
		}
	}
}

// resolveBlock handles a single Blocked suspension: fetching or extracting
// whatever the parser is waiting on, feeding it to the script executor or
// CSS pipeline depending on which of the four Blocked reasons it is.
func (n *Navigator) resolveBlock(ctx context.Context, parser *htmltree.StreamParser, collector *TabCollector, baseURL string, stylesheets *[]*css.StyleSheet, scripts *[]ExecutedScript) error {
	reason := parser.Reason()

	switch reason.Kind {
	case htmltree.ReasonScript:
		return n.resolveScript(ctx, parser, reason, baseURL, scripts)

	case htmltree.ReasonStyle:
		content, err := parser.ExtractStyleContent()
		if err != nil {
			return parserError(err)
		}
		*stylesheets = append(*stylesheets, css.ParseStyleSheet(content, css.OriginAuthor))
		return nil

	case htmltree.ReasonResource:
		return n.resolveStyleResource(ctx, reason, baseURL, stylesheets)

	case htmltree.ReasonSVG:
		// SVG content is consumed by the builder already (handleToken
		// attaches the <svg> element); rendering it is out of scope.
		return nil

	default:
		return nil
	}
}

func (n *Navigator) resolveScript(ctx context.Context, parser *htmltree.StreamParser, reason htmltree.Reason, baseURL string, scripts *[]ExecutedScript) error {
	src := reason.Attrs["src"]
	if src == "" {
		content, err := parser.ExtractScriptContent()
		if err != nil {
			return parserError(err)
		}
		*scripts = append(*scripts, ExecutedScript{Inline: true})
		n.Executor.Execute(baseURL, content)
		return nil
	}

	// The raw <script src> text was never emitted to the builder, so the
	// stream still holds it; drain it regardless of fetch outcome so the
	// builder's open-element stack stays balanced.
	resource := n.Loader.Load(ctx, src, asset.KindScript)
	if _, err := parser.ExtractScriptContent(); err != nil {
		return parserError(err)
	}
	*scripts = append(*scripts, ExecutedScript{URL: resource.URL, Err: resource.Err})
	if resource.Err != nil {
		// Script fetch failures are best-effort: the failure is recorded in
		// Page.Scripts above and the navigation moves on rather than failing.
		return nil
	}
	n.Executor.Execute(resource.URL, string(resource.Content))
	return nil
}

func (n *Navigator) resolveStyleResource(ctx context.Context, reason htmltree.Reason, baseURL string, stylesheets *[]*css.StyleSheet) error {
	if reason.ResourceKind != "style" {
		return nil
	}
	resource := n.Loader.Load(ctx, reason.Href, asset.KindStylesheet)
	if resource.Err != nil {
		// A missing stylesheet does not sink the page; skip it.
		return nil
	}
	if ct := resource.ContentType; ct != "" && ct != "application/octet-stream" && !netsvc.IsCSSContentType(ct) {
		// A stylesheet served with a known non-CSS type is dropped.
		return nil
	}
	*stylesheets = append(*stylesheets, css.ParseStyleSheet(string(resource.Content), css.OriginAuthor))
	return nil
}

// isLocalScheme reports whether url carries one of the engine's non-network
// schemes (about:/file:/embed:/data:), which the loader dispatches locally
// and so are exempt from the "must be an absolute http(s) URL" check that
// guards direct network navigation.
func isLocalScheme(url string) bool {
	for _, scheme := range []string{"about:", "file:", "embed:", "data:"} {
		if len(url) >= len(scheme) && url[:len(scheme)] == scheme {
			return true
		}
	}
	return false
}

func (n *Navigator) buildPage(doc *dom.Document, collector *TabCollector, url string, stylesheets []*css.StyleSheet, scripts []ExecutedScript) *Page {
	title := url
	if collector.TitleNodeID != 0 {
		if t := doc.TextContent(collector.TitleNodeID); t != "" {
			title = t
		}
	}
	return &Page{
		Title:       title,
		DocumentURL: url,
		Document:    doc,
		Stylesheets: stylesheets,
		Scripts:     scripts,
		Favicons:    collector.FaviconHrefs,
	}
}
