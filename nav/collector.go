// Package nav implements the navigation orchestrator: the loop that drives
// the streaming HTML parser, fetches subresources it blocks on, and
// produces a styled Page.
package nav

import (
	"strings"

	"github.com/aldermoss/enginecore/dom"
)

// TabCollector gathers the handful of things a navigation needs out of the
// document without a second tree walk: the title element, stylesheet
// hrefs, image srcs, and favicon links, by scanning tags as the tree
// builder accepts them rather than walking the finished DOM afterward.
type TabCollector struct {
	TitleNodeID     dom.NodeID
	StylesheetHrefs []string
	ImageSrcs       []string
	FaviconHrefs    []string
}

// NewTabCollector creates an empty collector.
func NewTabCollector() *TabCollector {
	return &TabCollector{}
}

// Collect implements htmltree.Collector.
func (c *TabCollector) Collect(tag string, attributes map[string]string, id dom.NodeID) {
	switch tag {
	case "title":
		if c.TitleNodeID == 0 {
			c.TitleNodeID = id
		}
	case "link":
		rel := strings.ToLower(attributes["rel"])
		href := attributes["href"]
		if href == "" {
			return
		}
		switch {
		case rel == "stylesheet":
			c.StylesheetHrefs = append(c.StylesheetHrefs, href)
		case strings.Contains(rel, "icon"):
			c.FaviconHrefs = append(c.FaviconHrefs, href)
		}
	case "img":
		if src := attributes["src"]; src != "" {
			c.ImageSrcs = append(c.ImageSrcs, src)
		}
	}
}
