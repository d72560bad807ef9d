package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// DuckDuckGo implements Provider against the DuckDuckGo HTML endpoint, which
// needs no API key. Results arrive as an HTML page; hits are the anchors of
// the result list, with redirect wrappers unwrapped back to the target URL.
type DuckDuckGo struct {
	// BaseURL defaults to the public html endpoint; tests point it at a stub.
	BaseURL    string
	HTTPClient *http.Client
	UserAgent  string
	// ProxyAddr, when set, routes this provider's requests through a proxy.
	ProxyAddr string
	// Timeout applies when no HTTPClient is supplied.
	Timeout time.Duration
}

const defaultDuckDuckGoBase = "https://html.duckduckgo.com/html/"

func (d *DuckDuckGo) Name() string { return "duckduckgo" }

// WithProxy returns a copy of the provider whose calls go through addr.
func (d *DuckDuckGo) WithProxy(addr string) Provider {
	cp := *d
	cp.ProxyAddr = addr
	cp.HTTPClient = nil
	return &cp
}

func (d *DuckDuckGo) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	if limit <= 0 {
		limit = 8
	}
	base := d.BaseURL
	if base == "" {
		base = defaultDuckDuckGoBase
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("kl", "de-de")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	if d.UserAgent != "" {
		req.Header.Set("User-Agent", d.UserAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	hc := d.HTTPClient
	if hc == nil {
		timeout := d.Timeout
		if timeout <= 0 {
			timeout = 20 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
		if d.ProxyAddr != "" {
			proxyURL, perr := url.Parse(d.ProxyAddr)
			if perr != nil {
				return nil, fmt.Errorf("parse proxy: %w", perr)
			}
			hc.Transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
		}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("duckduckgo status: %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}
	hits := parseResultPage(body, d.Name())
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// parseResultPage walks the result page and pairs each result anchor
// (class result__a) with the following snippet (class result__snippet).
func parseResultPage(body []byte, source string) []Hit {
	root, err := html.Parse(strings.NewReader(string(body)))
	if err != nil || root == nil {
		return nil
	}
	var hits []Hit
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" && hasClass(n, "result__a") {
			href := attr(n, "href")
			title := strings.TrimSpace(nodeText(n))
			if target := unwrapRedirect(href); target != "" && title != "" {
				hits = append(hits, Hit{Title: title, URL: target, Source: source})
			}
		}
		if n.Type == html.ElementNode && hasClass(n, "result__snippet") && len(hits) > 0 {
			if hits[len(hits)-1].Snippet == "" {
				hits[len(hits)-1].Snippet = strings.TrimSpace(nodeText(n))
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return hits
}

// unwrapRedirect resolves DuckDuckGo's /l/?uddg=<encoded> indirection to the
// real target. Plain absolute URLs pass through untouched.
func unwrapRedirect(href string) string {
	if href == "" {
		return ""
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if target := u.Query().Get("uddg"); target != "" {
		if decoded, err := url.QueryUnescape(target); err == nil {
			return decoded
		}
		return target
	}
	if u.IsAbs() {
		return href
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		if cur.Type == html.TextNode {
			b.WriteString(cur.Data)
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
