// Package whitelist implements the authority-source fallback: when the
// primary search yields nothing usable, a fixed ordered list of trusted
// domains is queried through each domain's own search URL. Collection is
// best-effort and deliberately sequential to avoid bursty traffic.
package whitelist

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/knowseek/knowseek/internal/fetch"
	"github.com/knowseek/knowseek/internal/pace"
)

// Document is one successfully fetched authority page.
type Document struct {
	Title string
	URL   string
	Text  string
}

// DefaultBaseURLs is the curated authority list, in fetch order.
func DefaultBaseURLs() []string {
	return []string{
		"https://de.wikipedia.org/", "https://www.bmbf.de/", "https://www.destatis.de/",
		"https://www.spektrum.de/lexikon/", "https://www.bpb.de/", "https://www.bundestag.de/",
		"https://www.umweltbundesamt.de/", "https://www.mpg.de/", "https://www.helmholtz.de/",
		"https://www.scinexx.de/", "https://www.leibniz-gemeinschaft.de/", "https://en.wikipedia.org/",
		"https://www.nasa.gov/", "https://www.who.int/", "https://www.un.org/en/",
		"https://www.nature.com/", "https://www.sciencemag.org/", "https://www.science.org/",
		"https://www.nih.gov/", "https://www.usgs.gov/", "https://www.journals.elsevier.com/",
		"https://www.sciencedirect.com/", "https://www.plos.org/", "https://www.epa.gov/",
		"https://www.eia.gov/", "https://www.esa.int/", "https://www.cern.ch/",
		"https://docs.python.org/3/",
	}
}

// hosts using the common search?q= pattern.
var searchQHosts = map[string]struct{}{
	"www.nasa.gov": {}, "www.nih.gov": {}, "www.epa.gov": {}, "www.eia.gov": {},
	"www.usgs.gov": {}, "www.nature.com": {}, "www.sciencemag.org": {}, "www.science.org": {},
}

// SearchURL builds the domain-specific search URL for one base URL. The
// dispatch covers encyclopedia search paths, the common government
// search?q= pattern, and a generic German suche?q= default.
func SearchURL(baseURL, query string) string {
	q := url.QueryEscape(query)
	host := ""
	if u, err := url.Parse(baseURL); err == nil {
		host = u.Host
	}
	switch {
	case strings.Contains(baseURL, "wikipedia.org/") && !strings.Contains(baseURL, "/wiki/"):
		return baseURL + "w/index.php?search=" + q
	case strings.Contains(baseURL, "spektrum.de/lexikon"):
		return baseURL + q
	case strings.Contains(baseURL, "docs.python.org/3/"):
		return baseURL + "search.html?q=" + q
	case host == "www.sciencedirect.com":
		return baseURL + "search?qs=" + q
	default:
		if _, ok := searchQHosts[host]; ok {
			return baseURL + "search?q=" + q
		}
		return baseURL + "suche?q=" + q
	}
}

// Engine fetches every whitelisted domain once per query.
type Engine struct {
	Fetcher  *fetch.Client
	BaseURLs []string
	Proxies  fetch.ProxyPool

	// Jitter is the per-domain pause; ProxyProbability as in the searcher.
	Jitter           pace.Jitter
	ProxyProbability float64
}

// NewEngine returns a fallback engine with production timings and the
// default authority list.
func NewEngine(f *fetch.Client) *Engine {
	return &Engine{
		Fetcher:          f,
		BaseURLs:         DefaultBaseURLs(),
		Proxies:          fetch.DefaultProxyPool(),
		Jitter:           pace.Jitter{Min: 1 * time.Second, Max: 2500 * time.Millisecond},
		ProxyProbability: 0.75,
	}
}

// Collect fetches each domain's search page in order and returns every
// extracted document. Rejections and failures are skipped without
// escalation; the only returned error is cancellation, observed at the top
// of each iteration.
func (e *Engine) Collect(ctx context.Context, query string) ([]Document, error) {
	var docs []Document
	for _, base := range e.BaseURLs {
		if err := ctx.Err(); err != nil {
			return docs, err
		}
		target := SearchURL(base, query)
		proxy := e.Proxies.Pick(e.ProxyProbability)
		if err := e.Jitter.Sleep(ctx); err != nil {
			return docs, err
		}
		log.Info().Str("url", target).Msg("fetching whitelist source")
		out := e.Fetcher.Fetch(ctx, target, proxy)
		if !out.Extracted() {
			log.Debug().Str("url", target).Msg("whitelist source skipped")
			continue
		}
		docs = append(docs, Document{
			Title: "Whitelist: " + hostOf(base),
			URL:   target,
			Text:  out.Text,
		})
	}
	return docs, nil
}

func hostOf(baseURL string) string {
	if u, err := url.Parse(baseURL); err == nil && u.Host != "" {
		return u.Host
	}
	return baseURL
}
