// Package app composes the retrieval pipeline: primary web search, per-URL
// anti-block fetching, the whitelist fallback with comparative synthesis,
// translation, and the result cache. One retrieval runs sequentially on its
// own worker; cancellation is cooperative and observed at the loop
// checkpoints of each stage.
package app

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/knowseek/knowseek/internal/cache"
	"github.com/knowseek/knowseek/internal/fetch"
	"github.com/knowseek/knowseek/internal/pace"
	"github.com/knowseek/knowseek/internal/search"
	selecter "github.com/knowseek/knowseek/internal/select"
	"github.com/knowseek/knowseek/internal/synth"
	"github.com/knowseek/knowseek/internal/translate"
	"github.com/knowseek/knowseek/internal/whitelist"
)

// SourceTypeManual tags cache entries written by ManualSave.
const SourceTypeManual = "Manuell gespeichert"

// sourceTypeWhitelist tags comparative-summary results.
const sourceTypeWhitelist = "Whitelist-Quellenvergleich"

// App owns the pipeline components for the process lifetime. All components
// are safe for use by multiple concurrent retrieval workers; only cache
// writes serialize internally.
type App struct {
	cfg        Config
	store      *cache.Store
	searcher   *search.Searcher
	fallback   *whitelist.Engine
	translator *translate.Translator

	state  atomic.Int32
	cancel atomic.Pointer[context.CancelFunc]
}

// New builds the pipeline from cfg. The cache database is opened (and its
// schema applied) eagerly so a broken path fails at startup, not mid-query.
func New(cfg Config) (*App, error) {
	cfg = cfg.normalized()

	store, err := cache.Open(cfg.CachePath, cfg.MaxChars)
	if err != nil {
		return nil, err
	}

	fetcher := fetch.NewClient(cfg.HTTPTimeout, cfg.MinTextLength)
	if len(cfg.UserAgents) > 0 {
		fetcher.UserAgents = cfg.UserAgents
	}
	if len(cfg.BlockedPhrases) > 0 {
		fetcher.BlockedPhrases = fetch.NormalizePhrases(cfg.BlockedPhrases)
	}

	proxies := fetch.DefaultProxyPool()
	if len(cfg.ProxyPool) > 0 {
		proxies = fetch.ProxyPool{Addresses: cfg.ProxyPool}
	}

	var provider search.Provider
	if cfg.FileSearchPath != "" {
		provider = &search.FileProvider{Path: cfg.FileSearchPath}
	} else {
		provider = &search.DuckDuckGo{BaseURL: cfg.SearchBaseURL, Timeout: cfg.HTTPTimeout}
	}

	searcher := search.NewSearcher(provider, fetcher, cfg.MaxRetries, cfg.Language)
	searcher.Proxies = proxies
	if len(cfg.BlockedDomains) > 0 || len(cfg.IrrelevantTitleWords) > 0 {
		policy := selecter.DefaultPolicy()
		if len(cfg.BlockedDomains) > 0 {
			policy.BlockedDomains = cfg.BlockedDomains
		}
		if len(cfg.IrrelevantTitleWords) > 0 {
			policy.IrrelevantTitleWords = cfg.IrrelevantTitleWords
		}
		searcher.Policy = policy
		searcher.ExcludedDomains = policy.BlockedDomains
	}

	fallback := whitelist.NewEngine(fetcher)
	fallback.Proxies = proxies
	if len(cfg.WhitelistURLs) > 0 {
		fallback.BaseURLs = cfg.WhitelistURLs
	}

	if cfg.NoDelay {
		fetcher.Jitter = pace.Jitter{}
		searcher.Jitter = pace.Jitter{}
		fallback.Jitter = pace.Jitter{}
	}

	a := &App{cfg: cfg, store: store, searcher: searcher, fallback: fallback}
	searcher.OnFetchStart = func() { a.setState(StateFetchingPrimary) }

	if cfg.LLMModel != "" {
		tc := openai.DefaultConfig(cfg.LLMAPIKey)
		if cfg.LLMBaseURL != "" {
			tc.BaseURL = cfg.LLMBaseURL
		}
		backend, err := translate.NewOpenAIBackend(openai.NewClientWithConfig(tc), cfg.LLMModel, cfg.Language)
		if err != nil {
			store.Close()
			return nil, err
		}
		a.translator = translate.NewTranslator(backend, cfg.TranslationBlockSize)
		if cfg.NoDelay {
			a.translator.SuccessJitter = pace.Jitter{}
			a.translator.FailureJitter = pace.Jitter{}
		}
	} else {
		log.Warn().Msg("no translation model configured; answers stay in their source language")
	}

	return a, nil
}

// SetTranslator replaces the translation stage; tests plug in stub backends.
func (a *App) SetTranslator(t *translate.Translator) { a.translator = t }

// Close releases the cache database.
func (a *App) Close() {
	if a.store != nil {
		a.store.Close()
	}
}

// State reports the current stage of the running (or last) retrieval.
func (a *App) State() State { return State(a.state.Load()) }

func (a *App) setState(s State) {
	a.state.Store(int32(s))
	log.Info().Stringer("state", s).Msg("pipeline state")
}

// History returns all cache entries, newest first.
func (a *App) History(ctx context.Context) ([]cache.Entry, error) {
	return a.store.ReadAll(ctx)
}

// ManualSave persists a user-supplied result.
func (a *App) ManualSave(ctx context.Context, query, text string) error {
	return a.store.Write(ctx, query, SourceTypeManual, text)
}

// Cancel requests cooperative cancellation of the retrieval started with
// RetrieveAsync. The in-flight HTTP call is not aborted; its result is
// discarded at the next checkpoint.
func (a *App) Cancel() {
	if c := a.cancel.Load(); c != nil {
		(*c)()
	}
}

// RetrieveAsync runs Retrieve on a dedicated worker goroutine and delivers
// the report on the returned channel, keeping the caller's loop responsive.
func (a *App) RetrieveAsync(query string) <-chan string {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel.Store(&cancel)
	out := make(chan string, 1)
	go func() {
		defer cancel()
		out <- a.Retrieve(ctx, query)
		close(out)
	}()
	return out
}

// Retrieve executes one full retrieval and always returns a readable report:
// a primary finding, a comparative summary, a cancellation notice, or an
// exhaustive failure report with similar-query hints. It never panics the
// caller on a stage failure.
func (a *App) Retrieve(ctx context.Context, query string) string {
	log.Info().Str("query", query).Msg("retrieval started")

	a.setState(StateSearching)
	finding, errLog, err := a.searcher.Run(ctx, query)
	if err != nil {
		a.setState(StateCancelled)
		return CancelledReport
	}

	if finding != nil {
		report := a.primaryReport(ctx, query, finding)
		a.setState(StateDone)
		return report
	}

	a.setState(StateFallbackWhitelist)
	log.Info().Msg("primary search exhausted; starting whitelist fallback")
	docs, err := a.fallback.Collect(ctx, query)
	if err != nil {
		a.setState(StateCancelled)
		return CancelledReport
	}

	if len(docs) > 0 {
		report, cancelled := a.comparative(ctx, query, docs)
		if cancelled {
			a.setState(StateCancelled)
			return CancelledReport
		}
		a.setState(StateDone)
		return report
	}

	a.setState(StateFailed)
	matches, merr := a.store.FuzzyMatch(ctx, query, a.cfg.SimilarityCutoff, 5)
	if merr != nil {
		log.Warn().Err(merr).Msg("fuzzy cache lookup failed")
	}
	return failureReport(a.cfg, errLog, matches)
}

// primaryReport translates the single winning document, truncates it to the
// character budget and persists the formatted report.
func (a *App) primaryReport(ctx context.Context, query string, finding *search.Finding) string {
	serviceName := fmt.Sprintf("Websuche (%s, gefiltert)", a.searcher.Provider.Name())

	text := finding.Text
	translationFailed := false
	if a.translator != nil {
		a.setState(StateTranslating)
		translated := a.translator.Translate(ctx, text)
		if isFailureString(translated) {
			translationFailed = true
		} else {
			text = translated
		}
	}

	text = synth.TruncateAtSentence(text, a.cfg.MaxChars, truncationMarker(a.cfg.MaxChars))
	report := successReport(serviceName, text, finding.Hit, finding.Others, translationFailed)
	a.persist(ctx, query, serviceName, report)
	return report
}

// comparative translates every whitelist document, synthesizes the bounded
// summary and persists the formatted report. The bool result reports
// cancellation between documents.
func (a *App) comparative(ctx context.Context, query string, docs []whitelist.Document) (string, bool) {
	sources := make([]synth.Source, 0, len(docs))
	for i, d := range docs {
		if ctx.Err() != nil {
			return "", true
		}
		text := d.Text
		if a.translator != nil {
			a.setState(StateTranslating)
			translated := a.translator.Translate(ctx, text)
			if !isFailureString(translated) {
				text = translated
			}
		}
		sources = append(sources, synth.Source{Index: i + 1, Title: d.Title, URL: d.URL, Text: text})
	}

	a.setState(StateSynthesizing)
	opt := synth.Options{
		MaxLines:         a.cfg.MaxLines,
		MaxChars:         a.cfg.MaxChars,
		PerSourceTop:     5,
		TruncationMarker: truncationMarker(a.cfg.MaxChars),
	}
	summary, attribution := synth.Summarize(sources, query, opt)

	report := comparativeReport(sourceTypeWhitelist, summary, attribution)
	a.persist(ctx, query, sourceTypeWhitelist, report)
	return report, false
}

// persist writes the finished report to the cache. Write errors are logged
// and do not affect the returned report.
func (a *App) persist(ctx context.Context, query, sourceType, report string) {
	if err := a.store.Write(ctx, query, sourceType, report); err != nil {
		log.Warn().Err(err).Msg("cache write failed")
	}
}

func isFailureString(s string) bool {
	return strings.HasPrefix(s, translate.FailurePrefix)
}

func truncationMarker(maxChars int) string {
	return fmt.Sprintf("... (Gekürzt auf %d Zeichen)", maxChars)
}
