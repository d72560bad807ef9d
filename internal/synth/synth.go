// Package synth builds the comparative summary across multiple fetched
// sources. Sentences are scored against the query, ranked globally,
// deduplicated by exact text and joined under a hard line and character
// budget. The whole pass is deterministic: identical inputs produce the
// identical summary.
package synth

import (
	"fmt"
	"sort"
	"strings"
)

// Source is one translated document feeding the summary. Index is the 1-based
// attribution tag used in the output.
type Source struct {
	Index int
	Title string
	URL   string
	Text  string
}

// Options bounds the summary.
type Options struct {
	// MaxLines caps the number of surviving sentences.
	MaxLines int
	// MaxChars caps the joined summary; truncation ends at a sentence
	// boundary and appends TruncationMarker.
	MaxChars int
	// PerSourceTop keeps only the best-scored sentences of each source
	// before global ranking.
	PerSourceTop int
	// TruncationMarker is appended when MaxChars truncates the summary.
	TruncationMarker string
}

// DefaultOptions mirrors the production budgets.
func DefaultOptions() Options {
	return Options{
		MaxLines:         50,
		MaxChars:         5000,
		PerSourceTop:     5,
		TruncationMarker: "... (Gekürzt auf 5000 Zeichen)",
	}
}

// rankedSentence is ephemeral state of one scoring pass.
type rankedSentence struct {
	tagged string  // "[n] sentence."
	bare   string  // sentence without the source tag
	score  float64
	order  int // arrival order, the deterministic tie-breaker
}

// Summarize produces the bounded comparative summary and the attribution
// block listing every source's display title and URL.
func Summarize(sources []Source, query string, opt Options) (string, string) {
	terms := strings.Fields(strings.ToLower(query))

	var ranked []rankedSentence
	for _, src := range sources {
		ranked = append(ranked, topSentences(src, terms, opt.PerSourceTop)...)
	}
	for i := range ranked {
		ranked[i].order = i
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].order < ranked[j].order
	})

	seen := make(map[string]struct{})
	var lines []string
	for _, rs := range ranked {
		if _, dup := seen[rs.bare]; dup {
			continue
		}
		seen[rs.bare] = struct{}{}
		lines = append(lines, rs.tagged)
		if len(lines) >= opt.MaxLines {
			break
		}
	}

	summary := strings.Join(lines, " ")
	if opt.MaxChars > 0 && len(summary) > opt.MaxChars {
		summary = TruncateAtSentence(summary, opt.MaxChars, opt.TruncationMarker)
	}

	return summary, attributionBlock(sources)
}

// topSentences scores every sentence of one source and keeps the best n.
// Score is length/100 plus 1.0 per query term contained (case-insensitive).
func topSentences(src Source, terms []string, n int) []rankedSentence {
	parts := strings.Split(src.Text, ".")
	scored := make([]rankedSentence, 0, len(parts))
	for _, p := range parts {
		sentence := strings.TrimSpace(p)
		if sentence == "" {
			continue
		}
		score := float64(len(sentence)) / 100
		lower := strings.ToLower(sentence)
		for _, t := range terms {
			if strings.Contains(lower, t) {
				score += 1.0
			}
		}
		scored = append(scored, rankedSentence{
			tagged: fmt.Sprintf("[%d] %s.", src.Index, sentence),
			bare:   sentence + ".",
			score:  score,
		})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })
	if n > 0 && len(scored) > n {
		scored = scored[:n]
	}
	return scored
}

// TruncateAtSentence cuts s to at most maxChars bytes, backing up to the last
// period at or before the limit, and appends marker. Shared with the primary
// answer path, which applies the same budget to single-source text.
func TruncateAtSentence(s string, maxChars int, marker string) string {
	if len(s) <= maxChars {
		return s
	}
	cut := s[:maxChars]
	if idx := strings.LastIndex(cut, "."); idx >= 0 {
		cut = cut[:idx]
	} else {
		// No sentence boundary inside the budget; back up to a rune boundary.
		for len(cut) > 0 && cut[len(cut)-1]&0xC0 == 0x80 {
			cut = cut[:len(cut)-1]
		}
		if len(cut) > 0 && cut[len(cut)-1] >= 0xC0 {
			cut = cut[:len(cut)-1]
		}
	}
	return cut + marker
}

func attributionBlock(sources []Source) string {
	var b strings.Builder
	b.WriteString("\n--- VERGLEICH DER WHITELIST-QUELLEN (Analysiert) ---\n")
	for _, src := range sources {
		title := strings.TrimPrefix(src.Title, "Whitelist: ")
		fmt.Fprintf(&b, "Quelle #%d: **%s**\nURL: %s\n", src.Index, title, src.URL)
	}
	return b.String()
}
