// Command enginecore drives one headless navigation end to end — fetch,
// parse, cascade, layout — and prints the resulting box tree. There is no
// windowing or paint loop here: this entry point stops at the layout
// tree, which is as far as the engine core goes.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/aldermoss/enginecore/asset"
	"github.com/aldermoss/enginecore/browser"
	"github.com/aldermoss/enginecore/css"
	"github.com/aldermoss/enginecore/layout"
	"github.com/aldermoss/enginecore/nav"
	"github.com/aldermoss/enginecore/netsvc"
)

func main() {
	width := flag.Float64("width", 1280, "viewport width in px")
	height := flag.Float64("height", 800, "viewport height in px")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: enginecore <url>")
		os.Exit(2)
	}
	url := flag.Arg(0)

	client := netsvc.NewClient()
	jar := netsvc.NewJar()
	session := netsvc.NewNetworkSession(client, jar, map[string]string{
		"User-Agent": "enginecore/0.1 (+https://github.com/aldermoss/enginecore)",
		"Accept":     "text/html,application/xhtml+xml,*/*;q=0.8",
	})
	loader := asset.NewLoader(session, nil, nil)
	navigator := nav.NewNavigator(loader, browser.NewScriptExecutor())
	b := browser.New(navigator, loader)

	added := b.AddTab(browser.AddTabCommand{URL: url})
	success, navErr := b.Navigate(context.Background(), browser.NavigateCommand{TabID: added.TabID, URL: url})
	if navErr != nil {
		log.Fatalf("navigation failed: %v", navErr.Err)
	}

	page := success.Page
	fmt.Printf("title: %s\n", page.Title)
	fmt.Printf("document url: %s\n", page.DocumentURL)
	fmt.Printf("nodes: %d, stylesheets: %d\n", page.Document.Len(), len(page.Stylesheets))
	for i, s := range page.Scripts {
		if s.Inline {
			fmt.Printf("script %d: inline\n", i)
		} else if s.Err != nil {
			fmt.Printf("script %d: %s (failed: %v)\n", i, s.URL, s.Err)
		} else {
			fmt.Printf("script %d: %s\n", i, s.URL)
		}
	}

	// Walk the finished DOM and fetch every stylesheet link, external
	// script and image it references, including ones the streaming pass
	// already fetched. Only the counts are reported; the layout below
	// does not use the fetched results.
	resources := loader.LoadDocumentResources(context.Background(), page.Document)
	fmt.Printf("subresources: %d stylesheets, %d scripts, %d images\n",
		len(resources.Stylesheets), len(resources.Scripts), len(resources.Images))

	resolver := css.NewStyleResolver()
	resolver.SetUserAgentStylesheet(css.GetUserAgentStylesheet())
	for _, sheet := range page.Stylesheets {
		resolver.AddAuthorStylesheet(sheet)
	}

	root := layout.BuildLayoutTree(page.Document, resolver, layout.Context{
		Viewport: layout.Rect{Width: *width, Height: *height},
	})
	if root == nil {
		fmt.Println("(empty document, nothing to lay out)")
		return
	}

	printBox(root, 0)
}

func printBox(box *layout.LayoutBox, depth int) {
	indent := strings.Repeat("  ", depth)
	d := box.Dimensions.Content
	fmt.Printf("%sbox(%g,%g %gx%g)\n", indent, d.X, d.Y, d.Width, d.Height)
	for _, child := range box.Children {
		printBox(child, depth+1)
	}
}
