// Package fetch implements the anti-block page fetcher: rotating request
// identities, optional per-request proxies, jittered delays and content
// validation, reported as a tagged Outcome instead of raised errors.
package fetch

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"github.com/knowseek/knowseek/internal/extract"
	"github.com/knowseek/knowseek/internal/pace"
	"github.com/knowseek/knowseek/internal/validate"
)

// maxBodyBytes caps how much of a page is read. Knowledge pages of interest
// are far below this; the cap guards against tarpits.
const maxBodyBytes = 4 << 20

// Client fetches and validates one URL at a time. All fields are set before
// first use and shared read-only across workers afterwards.
type Client struct {
	// Timeout bounds each HTTP request.
	Timeout time.Duration
	// Jitter is slept before every request as rate-limiting courtesy.
	Jitter pace.Jitter
	// MinTextLength is the shortest cleaned text accepted as substantial.
	MinTextLength int
	// BlockedPhrases marks redirect/error boilerplate; lowercased.
	BlockedPhrases []string
	// UserAgents is the identity rotation pool.
	UserAgents []string

	// fatal remembers URLs that answered 403/404 so later attempts within
	// the same process skip them without a request.
	fatal *gocache.Cache
}

// NewClient returns a fetcher with the production pools and timings.
func NewClient(timeout time.Duration, minTextLength int) *Client {
	return &Client{
		Timeout:        timeout,
		Jitter:         pace.Jitter{Min: 1500 * time.Millisecond, Max: 3500 * time.Millisecond},
		MinTextLength:  minTextLength,
		BlockedPhrases: validate.DefaultPhrases(),
		UserAgents:     DefaultUserAgents(),
		fatal:          gocache.New(30*time.Minute, 10*time.Minute),
	}
}

// Fetch retrieves one absolute URL, optionally through a proxy address, and
// classifies the result. The jitter pause happens before the request; a
// cancellation during the pause surfaces as a network failure and is acted
// on by the caller's next checkpoint.
func (c *Client) Fetch(ctx context.Context, rawURL string, proxy string) Outcome {
	if c.fatal != nil {
		if v, found := c.fatal.Get(rawURL); found {
			if out, ok := v.(Outcome); ok {
				log.Debug().Str("url", rawURL).Msg("skipping known-fatal url")
				return out
			}
		}
	}

	if err := c.Jitter.Sleep(ctx); err != nil {
		return failedNetwork(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return failedUnknown(err)
	}
	applyIdentity(req, c.UserAgents)

	client := &http.Client{Timeout: c.Timeout}
	if pf := proxyFunc(proxy); pf != nil {
		client.Transport = &http.Transport{Proxy: pf}
	}

	resp, err := client.Do(req)
	if err != nil {
		return failedNetwork(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		out := failedStatus(resp.StatusCode)
		if !out.Retryable && c.fatal != nil {
			c.fatal.Set(rawURL, out, gocache.DefaultExpiration)
		}
		return out
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return failedNetwork(err)
	}

	doc := extract.FromHTML(body)
	text := doc.Text

	if reason := validate.Check(text, c.MinTextLength, c.BlockedPhrases); reason != validate.ReasonNone {
		log.Debug().Str("url", rawURL).Stringer("reason", reason).Msg("content rejected")
		return rejected(doc.Title, text, reason)
	}

	return Outcome{Kind: KindExtracted, Title: doc.Title, Text: text}
}

// NormalizePhrases lowercases a phrase blacklist so configuration may supply
// mixed-case entries; the validator matches on lowercased text.
func NormalizePhrases(phrases []string) []string {
	out := make([]string, 0, len(phrases))
	for _, p := range phrases {
		out = append(out, strings.ToLower(p))
	}
	return out
}
