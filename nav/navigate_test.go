package nav

import (
	"context"
	"testing"

	"github.com/aldermoss/enginecore/asset"
	"github.com/aldermoss/enginecore/netsvc"
	"github.com/aldermoss/enginecore/script"
	"github.com/stretchr/testify/require"
)

func newTestNavigator() *Navigator {
	session := netsvc.NewNetworkSession(netsvc.NewClient(), netsvc.NewJar(), nil)
	loader := asset.NewLoader(session, nil, nil)
	return NewNavigator(loader, script.NewExecutor())
}

// S1 — minimal navigation: about:blank produces an empty body, a title
// equal to the URL, and no stylesheets.
func TestNavigateAboutBlankMinimalDocument(t *testing.T) {
	n := newTestNavigator()
	page, err := n.Navigate(context.Background(), "about:blank", nil)
	require.NoError(t, err)

	require.Equal(t, "about:blank", page.Title)
	require.Equal(t, "about:blank", page.DocumentURL)
	require.Empty(t, page.Stylesheets)

	bodyIDs := page.Document.ByTag("body")
	require.Len(t, bodyIDs, 1)
	require.Empty(t, page.Document.Node(bodyIDs[0]).Children())
}

// S2 — inline <style> feeds the CSS pipeline and the DOM matches the
// expected shape: html > {head, body}, body > one <p> with text "hi".
func TestNavigateInlineStyleAppendsStylesheetAndBuildsDOM(t *testing.T) {
	n := newTestNavigator()
	html := "<!doctype html><html><head><style>p{color:#f00}</style></head>" +
		"<body><p>hi</p></body></html>"

	page, err := n.Navigate(context.Background(), "data:text/html,"+html, nil)
	require.NoError(t, err)

	require.Len(t, page.Stylesheets, 1)
	sheet := page.Stylesheets[0]
	require.Len(t, sheet.Rules, 1)
	require.Equal(t, "p", sheet.Rules[0].SelectorText)

	bodyIDs := page.Document.ByTag("body")
	require.Len(t, bodyIDs, 1)
	pIDs := page.Document.ByTag("p")
	require.Len(t, pIDs, 1)
	require.Equal(t, "hi", page.Document.TextContent(pIDs[0]))
}

func TestNavigateRecordsScriptsInDocumentOrder(t *testing.T) {
	n := newTestNavigator()
	html := "<html><head><script>var a = 1</script></head>" +
		"<body><script src=\"x.js\"></script></body></html>"

	page, err := n.Navigate(context.Background(), "data:text/html,"+html, nil)
	require.NoError(t, err)

	require.Len(t, page.Scripts, 2)
	require.True(t, page.Scripts[0].Inline)
	require.False(t, page.Scripts[1].Inline)
	// The external fetch of x.js against a data: base can't succeed, so
	// it must be recorded as attempted-and-failed, not dropped.
	require.Error(t, page.Scripts[1].Err)
	require.Empty(t, page.ExternalScripts())
}

func TestNavigateRendersNonHTMLDocumentAsText(t *testing.T) {
	n := newTestNavigator()
	page, err := n.Navigate(context.Background(), "data:text/plain,<not html>", nil)
	require.NoError(t, err)

	pres := page.Document.ByTag("pre")
	require.Len(t, pres, 1)
	require.Equal(t, "<not html>", page.Document.TextContent(pres[0]))
}

func TestNavigateRejectsRelativeURL(t *testing.T) {
	n := newTestNavigator()
	_, err := n.Navigate(context.Background(), "not-a-url", nil)
	require.Error(t, err)

	var navErr *NavigationError
	require.ErrorAs(t, err, &navErr)
	require.Equal(t, ErrInvalidURL, navErr.Kind)
}
