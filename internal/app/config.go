package app

import "time"

// Fixed pipeline budgets. These are process-lifetime constants; the Config
// fields below default to them and exist so tests can shrink the budgets.
const (
	DefaultMaxRetries           = 2
	DefaultMaxChars             = 5000
	DefaultMaxLines             = 50
	DefaultSimilarityCutoff     = 50
	DefaultMinTextLength        = 150
	DefaultTranslationBlockSize = 4500
	DefaultHTTPTimeout          = 20 * time.Second
)

// Config holds runtime configuration for the retrieval pipeline. Pools and
// lists are loaded once at startup and treated as read-only afterwards.
type Config struct {
	// CachePath is the SQLite file for the result cache.
	CachePath string

	// Language is the target language for filters and translation, e.g. "de".
	Language string

	// Search
	SearchBaseURL  string // override for the DuckDuckGo HTML endpoint
	FileSearchPath string // offline JSON provider; takes precedence when set

	// Translation backend (OpenAI-compatible)
	LLMBaseURL string
	LLMModel   string
	LLMAPIKey  string

	// Budgets
	MaxRetries           int
	MaxChars             int
	MaxLines             int
	MinTextLength        int
	SimilarityCutoff     int
	TranslationBlockSize int
	HTTPTimeout          time.Duration

	// Static pools. Empty slices fall back to the compiled-in defaults.
	ProxyPool            []string
	UserAgents           []string
	BlockedPhrases       []string
	BlockedDomains       []string
	IrrelevantTitleWords []string
	WhitelistURLs        []string

	// Behavior
	OutputPDFPath string
	Verbose       bool
	// NoDelay disables all politeness jitter. Meant for offline stub runs
	// and tests; live scraping without delays gets blocked quickly.
	NoDelay bool
}

// DefaultConfig returns the production configuration.
func DefaultConfig() Config {
	return Config{
		CachePath:            "wissens_ki_cache.db",
		Language:             "de",
		MaxRetries:           DefaultMaxRetries,
		MaxChars:             DefaultMaxChars,
		MaxLines:             DefaultMaxLines,
		MinTextLength:        DefaultMinTextLength,
		SimilarityCutoff:     DefaultSimilarityCutoff,
		TranslationBlockSize: DefaultTranslationBlockSize,
		HTTPTimeout:          DefaultHTTPTimeout,
	}
}

// normalized fills unset budgets from the defaults so a zero-valued field
// never disables a limit by accident.
func (c Config) normalized() Config {
	if c.Language == "" {
		c.Language = "de"
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.MaxChars <= 0 {
		c.MaxChars = DefaultMaxChars
	}
	if c.MaxLines <= 0 {
		c.MaxLines = DefaultMaxLines
	}
	if c.MinTextLength <= 0 {
		c.MinTextLength = DefaultMinTextLength
	}
	if c.SimilarityCutoff <= 0 {
		c.SimilarityCutoff = DefaultSimilarityCutoff
	}
	if c.TranslationBlockSize <= 0 {
		c.TranslationBlockSize = DefaultTranslationBlockSize
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = DefaultHTTPTimeout
	}
	return c
}
