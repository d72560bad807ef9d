// Package translate converts foreign-language page text into the target
// language. Input is chunked into sentence-aligned blocks, each block is
// translated independently, and any block failure degrades to the source
// text for that block. The translator never returns an error to callers.
package translate

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/knowseek/knowseek/internal/pace"
)

// FailurePrefix marks the string returned when no block could be translated.
// The orchestrator checks for it to fall back to the untranslated original.
const FailurePrefix = "[Übersetzungsfehler:"

// Translator chunks and translates text through a pluggable backend.
type Translator struct {
	Backend Backend
	// BlockSize caps block length in bytes; sentences stay whole when they fit.
	BlockSize int
	// SuccessJitter/FailureJitter pace consecutive block calls to avoid
	// upstream rate limiting. Applied only when more than one block exists.
	SuccessJitter pace.Jitter
	FailureJitter pace.Jitter
}

// NewTranslator returns a translator with production pacing.
func NewTranslator(backend Backend, blockSize int) *Translator {
	return &Translator{
		Backend:       backend,
		BlockSize:     blockSize,
		SuccessJitter: pace.Jitter{Min: 500 * time.Millisecond, Max: 1500 * time.Millisecond},
		FailureJitter: pace.Jitter{Min: 500 * time.Millisecond, Max: time.Second},
	}
}

// Translate renders text in the target language. Per-block failures
// substitute the original block and continue; if every block fails, the
// result is a marked failure string embedding the full original text. The
// returned string is non-empty whenever text is non-empty.
func (t *Translator) Translate(ctx context.Context, text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	blocks := SplitBlocks(text, t.BlockSize)
	log.Info().Int("blocks", len(blocks)).Msg("starting block translation")

	parts := make([]string, 0, len(blocks))
	allFailed := true
	for i, block := range blocks {
		if ctx.Err() != nil {
			// Cancelled mid-translation: degrade remaining blocks to source.
			parts = append(parts, blocks[i:]...)
			break
		}
		translated, err := t.Backend.TranslateBlock(ctx, block)
		if err != nil || strings.TrimSpace(translated) == "" {
			log.Warn().Err(err).Int("block", i+1).Msg("translation block failed; using source text")
			parts = append(parts, block)
			if len(blocks) > 1 {
				_ = t.FailureJitter.Sleep(ctx)
			}
			continue
		}
		allFailed = false
		parts = append(parts, translated)
		if len(blocks) > 1 {
			_ = t.SuccessJitter.Sleep(ctx)
		}
	}

	if allFailed {
		return FailurePrefix + " Der gesamte Text konnte nicht übersetzt werden.]\n\nOriginal:\n" + text
	}
	return strings.Join(parts, "")
}

// SplitBlocks segments text into blocks no longer than size bytes, splitting
// on ". " sentence boundaries and keeping sentences whole where possible.
// Oversized single sentences become their own block rather than being cut.
func SplitBlocks(text string, size int) []string {
	flat := strings.ReplaceAll(text, "\n", " ")
	var sentences []string
	for _, s := range strings.Split(flat, ". ") {
		s = strings.TrimSpace(s)
		if s != "" {
			sentences = append(sentences, s)
		}
	}

	var blocks []string
	current := ""
	for _, sentence := range sentences {
		full := sentence + ". "
		if len(current)+len(full) <= size {
			current += full
			continue
		}
		if current != "" {
			blocks = append(blocks, current)
		}
		current = full
	}
	if current != "" {
		blocks = append(blocks, current)
	}
	return blocks
}
