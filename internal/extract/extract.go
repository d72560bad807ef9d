package extract

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// Document is the cleaned, whitespace-collapsed text of one fetched page.
type Document struct {
	Title string
	Text  string
}

// Tags whose subtrees never contribute answer text.
var strippedTags = map[string]struct{}{
	"script": {}, "style": {}, "nav": {}, "footer": {}, "header": {},
	"aside": {}, "form": {}, "meta": {}, "link": {}, "noscript": {},
}

// Tags that carry the actual prose of a knowledge page.
var contentTags = map[string]struct{}{
	"p": {}, "h1": {}, "h2": {}, "h3": {}, "li": {},
}

// FromHTML extracts readable text from a page. It collects text from the
// prose tags (p, h1-h3, li) when any are present, otherwise falls back to a
// <main> or <article> element, and finally to the whole <body>. Subtrees of
// navigation and boilerplate tags are skipped entirely, and all whitespace
// runs collapse to single spaces.
func FromHTML(input []byte) Document {
	root, err := html.Parse(bytes.NewReader(input))
	if err != nil || root == nil {
		return Document{}
	}

	title := strings.TrimSpace(findTitle(root))

	var b strings.Builder
	collectFromContentTags(&b, root)
	if strings.TrimSpace(b.String()) == "" {
		b.Reset()
		container := findFirst(root, "main")
		if container == nil {
			container = findFirst(root, "article")
		}
		if container == nil {
			container = findFirst(root, "body")
		}
		if container != nil {
			collectText(&b, container)
		}
	}

	return Document{Title: title, Text: CollapseWhitespace(b.String())}
}

// CollapseWhitespace reduces every whitespace run to a single space and trims
// the ends, matching the shape the validator and synthesizer expect.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func findTitle(n *html.Node) string {
	head := findFirst(n, "head")
	if head == nil {
		return ""
	}
	t := findFirst(head, "title")
	if t == nil || t.FirstChild == nil {
		return ""
	}
	return t.FirstChild.Data
}

func findFirst(n *html.Node, tag string) *html.Node {
	var res *html.Node
	var dfs func(*html.Node)
	dfs = func(cur *html.Node) {
		if res != nil {
			return
		}
		if cur.Type == html.ElementNode && strings.EqualFold(cur.Data, tag) {
			res = cur
			return
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			dfs(c)
			if res != nil {
				return
			}
		}
	}
	dfs(n)
	return res
}

// collectFromContentTags gathers the text of every prose tag in document
// order, skipping stripped subtrees along the way.
func collectFromContentTags(b *strings.Builder, n *html.Node) {
	if n.Type == html.ElementNode {
		name := strings.ToLower(n.Data)
		if _, skip := strippedTags[name]; skip {
			return
		}
		if _, ok := contentTags[name]; ok {
			if b.Len() > 0 {
				b.WriteString(" ")
			}
			collectText(b, n)
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectFromContentTags(b, c)
	}
}

// collectText appends all text nodes under n, skipping stripped subtrees.
func collectText(b *strings.Builder, n *html.Node) {
	if n.Type == html.ElementNode {
		if _, skip := strippedTags[strings.ToLower(n.Data)]; skip {
			return
		}
	}
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		b.WriteString(" ")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(b, c)
	}
}
