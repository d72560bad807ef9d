package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/knowseek/knowseek/internal/fetch"
	"github.com/knowseek/knowseek/internal/pace"
	selecter "github.com/knowseek/knowseek/internal/select"
)

// Finding is a successful primary retrieval: the winning hit, its validated
// page text, and the remaining hits of the same result set for attribution.
type Finding struct {
	Hit    Hit
	Text   string
	Others []Hit
}

// Searcher runs the bounded primary search loop: per attempt it picks a
// proxy, waits out a politeness jitter, queries the provider, filters the
// candidates and fetches them in rank order until one extracts. Provider
// exceptions are absorbed into the log; only cancellation is returned as an
// error.
type Searcher struct {
	Provider Provider
	Fetcher  *fetch.Client
	Policy   selecter.Policy
	Proxies  fetch.ProxyPool

	// MaxRetries bounds provider attempts; PageSize is hits per attempt.
	MaxRetries int
	PageSize   int
	// Jitter is the pre-attempt pause; ProxyProbability the chance of
	// routing an attempt through the pool.
	Jitter           pace.Jitter
	ProxyProbability float64

	// Language feeds the effective query's language filter.
	Language string
	// ExcludedDomains become -site: terms; defaults to the filter policy's
	// blocked domains.
	ExcludedDomains []string

	// OnFetchStart, when set, fires before the first candidate fetch of an
	// attempt. The orchestrator uses it to track its stage.
	OnFetchStart func()
}

// NewSearcher wires a production searcher around a provider and fetcher.
func NewSearcher(p Provider, f *fetch.Client, maxRetries int, language string) *Searcher {
	policy := selecter.DefaultPolicy()
	return &Searcher{
		Provider:         p,
		Fetcher:          f,
		Policy:           policy,
		Proxies:          fetch.DefaultProxyPool(),
		MaxRetries:       maxRetries,
		PageSize:         8,
		Jitter:           pace.Jitter{Min: 5 * time.Second, Max: 10 * time.Second},
		ProxyProbability: 0.75,
		Language:         language,
		ExcludedDomains:  policy.BlockedDomains,
	}
}

// Run executes up to MaxRetries attempts. It returns the first finding, the
// cumulative rejection/error log, and a non-nil error only when ctx was
// cancelled at a checkpoint.
func (s *Searcher) Run(ctx context.Context, query string) (*Finding, []string, error) {
	effective := EffectiveQuery(query, s.Language, s.ExcludedDomains)
	var logLines []string

	for attempt := 1; attempt <= s.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, logLines, err
		}

		proxy := s.Proxies.Pick(s.ProxyProbability)
		log.Info().
			Str("provider", s.Provider.Name()).
			Int("attempt", attempt).
			Bool("proxied", proxy != "").
			Msg("search attempt")

		if err := s.Jitter.Sleep(ctx); err != nil {
			return nil, logLines, err
		}

		provider := s.Provider
		if proxy != "" {
			if pc, ok := provider.(ProxyCapable); ok {
				provider = pc.WithProxy(proxy)
			}
		}

		hits, err := provider.Search(ctx, effective, s.PageSize)
		if err != nil {
			if ctx.Err() != nil {
				return nil, logLines, ctx.Err()
			}
			line := fmt.Sprintf("Suchdienst %s ist fehlgeschlagen: %v (Möglicherweise IP-Blockade!)", s.Provider.Name(), err)
			log.Warn().Err(err).Msg("search provider failed; possible IP block")
			logLines = append(logLines, line)
			continue
		}
		if len(hits) == 0 {
			continue
		}

		finding, attemptLog, err := s.tryCandidates(ctx, hits, proxy)
		logLines = append(logLines, attemptLog...)
		if err != nil {
			return nil, logLines, err
		}
		if finding != nil {
			return finding, logLines, nil
		}
	}
	return nil, logLines, nil
}

// tryCandidates fetches surviving hits in order and stops on the first
// extracted page.
func (s *Searcher) tryCandidates(ctx context.Context, hits []Hit, proxy string) (*Finding, []string, error) {
	var lines []string
	fetching := false
	for i, hit := range hits {
		if err := ctx.Err(); err != nil {
			return nil, lines, err
		}
		ok, reason := s.Policy.Allow(strings.ToLower(hit.URL), strings.ToLower(hit.Title))
		if !ok {
			lines = append(lines, fmt.Sprintf("Quelle #%d (%s): Ignoriert (%s).", i+1, hit.URL, reason))
			continue
		}
		if !fetching {
			fetching = true
			if s.OnFetchStart != nil {
				s.OnFetchStart()
			}
		}
		log.Info().Str("url", hit.URL).Int("rank", i+1).Msg("fetching candidate")
		out := s.Fetcher.Fetch(ctx, hit.URL, proxy)
		if out.Extracted() {
			others := make([]Hit, 0, len(hits)-1)
			for _, h := range hits {
				if h.URL != hit.URL {
					others = append(others, h)
				}
			}
			return &Finding{Hit: hit, Text: out.Text, Others: others}, lines, nil
		}
		lines = append(lines, fmt.Sprintf("Quelle #%d (%s): %s", i+1, hit.URL, out.Describe()))
	}
	return nil, lines, nil
}
