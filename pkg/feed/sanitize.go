package feed

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// ugcPolicy allows basic formatting, used for the rich summary served in
// generated feeds. Built once; bluemonday policies are safe for concurrent
// use.
var ugcPolicy = bluemonday.UGCPolicy()

// SanitizeHTML strips dangerous markup from feed-provided HTML while
// keeping basic formatting
func SanitizeHTML(s string) string {
	return strings.TrimSpace(ugcPolicy.Sanitize(s))
}

// HTMLToText extracts the plain text from an HTML fragment. Feed
// descriptions routinely carry markup; the scoring core works on text only.
func HTMLToText(s string) string {
	if s == "" {
		return ""
	}
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		// not parseable as HTML, treat as already-plain text
		return strings.TrimSpace(s)
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.Join(strings.Fields(b.String()), " ")
}
