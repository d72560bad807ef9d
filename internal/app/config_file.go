package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig is the single-file configuration schema. Nested sections map
// naturally to flags; pool lists let operators rotate proxies and user
// agents without a rebuild.
type FileConfig struct {
	Cache struct {
		Path string `yaml:"path" json:"path"`
	} `yaml:"cache" json:"cache"`

	Language string `yaml:"language" json:"language"`

	Search struct {
		URL  string `yaml:"url" json:"url"`
		File string `yaml:"file" json:"file"`
	} `yaml:"search" json:"search"`

	LLM struct {
		BaseURL string `yaml:"base" json:"base"`
		Model   string `yaml:"model" json:"model"`
		APIKey  string `yaml:"key" json:"key"`
	} `yaml:"llm" json:"llm"`

	Limits struct {
		Retries          int           `yaml:"retries" json:"retries"`
		Chars            int           `yaml:"chars" json:"chars"`
		Lines            int           `yaml:"lines" json:"lines"`
		MinTextLength    int           `yaml:"minTextLength" json:"minTextLength"`
		SimilarityCutoff int           `yaml:"similarityCutoff" json:"similarityCutoff"`
		TranslationBlock int           `yaml:"translationBlock" json:"translationBlock"`
		HTTPTimeout      time.Duration `yaml:"httpTimeout" json:"httpTimeout"`
	} `yaml:"limits" json:"limits"`

	Pools struct {
		Proxies        []string `yaml:"proxies" json:"proxies"`
		UserAgents     []string `yaml:"userAgents" json:"userAgents"`
		BlockedPhrases []string `yaml:"blockedPhrases" json:"blockedPhrases"`
		BlockedDomains []string `yaml:"blockedDomains" json:"blockedDomains"`
		IrrelevantTitleWords []string `yaml:"irrelevantTitleWords" json:"irrelevantTitleWords"`
		Whitelist      []string `yaml:"whitelist" json:"whitelist"`
	} `yaml:"pools" json:"pools"`

	OutputPDF string `yaml:"outputPDF" json:"outputPDF"`
	Verbose   bool   `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays file values into cfg for fields still at their
// zero/default value, so explicit flags win over the file.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	def := DefaultConfig()

	if (cfg.CachePath == "" || cfg.CachePath == def.CachePath) && fc.Cache.Path != "" {
		cfg.CachePath = fc.Cache.Path
	}
	if (cfg.Language == "" || cfg.Language == def.Language) && fc.Language != "" {
		cfg.Language = fc.Language
	}
	if cfg.SearchBaseURL == "" && fc.Search.URL != "" {
		cfg.SearchBaseURL = fc.Search.URL
	}
	if cfg.FileSearchPath == "" && fc.Search.File != "" {
		cfg.FileSearchPath = fc.Search.File
	}
	if cfg.LLMBaseURL == "" && fc.LLM.BaseURL != "" {
		cfg.LLMBaseURL = fc.LLM.BaseURL
	}
	if cfg.LLMModel == "" && fc.LLM.Model != "" {
		cfg.LLMModel = fc.LLM.Model
	}
	if cfg.LLMAPIKey == "" && fc.LLM.APIKey != "" {
		cfg.LLMAPIKey = fc.LLM.APIKey
	}

	if (cfg.MaxRetries == 0 || cfg.MaxRetries == def.MaxRetries) && fc.Limits.Retries > 0 {
		cfg.MaxRetries = fc.Limits.Retries
	}
	if (cfg.MaxChars == 0 || cfg.MaxChars == def.MaxChars) && fc.Limits.Chars > 0 {
		cfg.MaxChars = fc.Limits.Chars
	}
	if (cfg.MaxLines == 0 || cfg.MaxLines == def.MaxLines) && fc.Limits.Lines > 0 {
		cfg.MaxLines = fc.Limits.Lines
	}
	if (cfg.MinTextLength == 0 || cfg.MinTextLength == def.MinTextLength) && fc.Limits.MinTextLength > 0 {
		cfg.MinTextLength = fc.Limits.MinTextLength
	}
	if (cfg.SimilarityCutoff == 0 || cfg.SimilarityCutoff == def.SimilarityCutoff) && fc.Limits.SimilarityCutoff > 0 {
		cfg.SimilarityCutoff = fc.Limits.SimilarityCutoff
	}
	if (cfg.TranslationBlockSize == 0 || cfg.TranslationBlockSize == def.TranslationBlockSize) && fc.Limits.TranslationBlock > 0 {
		cfg.TranslationBlockSize = fc.Limits.TranslationBlock
	}
	if (cfg.HTTPTimeout == 0 || cfg.HTTPTimeout == def.HTTPTimeout) && fc.Limits.HTTPTimeout > 0 {
		cfg.HTTPTimeout = fc.Limits.HTTPTimeout
	}

	if len(cfg.ProxyPool) == 0 && len(fc.Pools.Proxies) > 0 {
		cfg.ProxyPool = append([]string{}, fc.Pools.Proxies...)
	}
	if len(cfg.UserAgents) == 0 && len(fc.Pools.UserAgents) > 0 {
		cfg.UserAgents = append([]string{}, fc.Pools.UserAgents...)
	}
	if len(cfg.BlockedPhrases) == 0 && len(fc.Pools.BlockedPhrases) > 0 {
		cfg.BlockedPhrases = append([]string{}, fc.Pools.BlockedPhrases...)
	}
	if len(cfg.BlockedDomains) == 0 && len(fc.Pools.BlockedDomains) > 0 {
		cfg.BlockedDomains = append([]string{}, fc.Pools.BlockedDomains...)
	}
	if len(cfg.IrrelevantTitleWords) == 0 && len(fc.Pools.IrrelevantTitleWords) > 0 {
		cfg.IrrelevantTitleWords = append([]string{}, fc.Pools.IrrelevantTitleWords...)
	}
	if len(cfg.WhitelistURLs) == 0 && len(fc.Pools.Whitelist) > 0 {
		cfg.WhitelistURLs = append([]string{}, fc.Pools.Whitelist...)
	}

	if cfg.OutputPDFPath == "" && fc.OutputPDF != "" {
		cfg.OutputPDFPath = fc.OutputPDF
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
}
