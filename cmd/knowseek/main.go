package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/knowseek/knowseek/internal/app"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		configPath     string
		cachePath      string
		language       string
		searchURL      string
		fileSearchPath string
		llmBaseURL     string
		llmModel       string
		llmKey         string
		proxies        string
		outputPDF      string
		showHistory    bool
		verbose        bool
	)

	def := app.DefaultConfig()
	flag.StringVar(&configPath, "config", os.Getenv("KNOWSEEK_CONFIG"), "Path to YAML/JSON config file")
	flag.StringVar(&cachePath, "cache.path", def.CachePath, "SQLite file for the result cache")
	flag.StringVar(&language, "lang", def.Language, "Target language for search filter and translation")
	flag.StringVar(&searchURL, "search.url", os.Getenv("SEARCH_URL"), "Override for the DuckDuckGo HTML endpoint")
	flag.StringVar(&fileSearchPath, "search.file", os.Getenv("SEARCH_FILE"), "Path to JSON file for offline file-based search provider")
	flag.StringVar(&llmBaseURL, "llm.base", os.Getenv("LLM_BASE_URL"), "OpenAI-compatible base URL for translation")
	flag.StringVar(&llmModel, "llm.model", os.Getenv("LLM_MODEL"), "Translation model name (empty disables translation)")
	flag.StringVar(&llmKey, "llm.key", os.Getenv("LLM_API_KEY"), "API key for the translation backend")
	flag.StringVar(&proxies, "proxies", os.Getenv("PROXY_POOL"), "Comma-separated proxy addresses; empty entry means direct")
	flag.StringVar(&outputPDF, "output.pdf", "", "Also write the report to this PDF path")
	flag.BoolVar(&showHistory, "history", false, "Print the cached history and exit")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	cfg := def
	cfg.CachePath = cachePath
	cfg.Language = language
	cfg.SearchBaseURL = searchURL
	cfg.FileSearchPath = fileSearchPath
	cfg.LLMBaseURL = llmBaseURL
	cfg.LLMModel = llmModel
	cfg.LLMAPIKey = llmKey
	cfg.OutputPDFPath = outputPDF
	cfg.Verbose = verbose
	if proxies != "" {
		cfg.ProxyPool = splitList(proxies)
	}

	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", configPath).Msg("load config file")
		}
		app.ApplyFileConfig(&cfg, fc)
	}

	a, err := app.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("init pipeline")
	}
	defer a.Close()

	if showHistory {
		printHistory(a)
		return
	}

	query := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if query == "" {
		fmt.Fprintln(os.Stderr, "usage: knowseek [flags] <query>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	// Ctrl-C requests cooperative cancellation; the worker reports back with
	// a cancellation notice instead of dying mid-stage.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	done := a.RetrieveAsync(query)
	var report string
	select {
	case report = <-done:
	case <-sig:
		log.Warn().Msg("interrupt received; cancelling")
		a.Cancel()
		report = <-done
	}

	fmt.Println(report)
	if err := a.ExportPDF(report); err != nil {
		log.Error().Err(err).Msg("pdf export failed")
	}
}

func printHistory(a *app.App) {
	entries, err := a.History(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("read history")
	}
	for _, e := range entries {
		fmt.Printf("#%d  %s  [%s]  %s\n", e.ID, e.Timestamp.Format("2006-01-02 15:04"), e.SourceType, e.Query)
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}
