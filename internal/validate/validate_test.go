package validate

import (
	"strings"
	"testing"
)

func TestCheck_TooShort(t *testing.T) {
	if got := Check("short", 150, DefaultPhrases()); got != ReasonTooShort {
		t.Fatalf("expected ReasonTooShort, got %v", got)
	}
}

func TestCheck_BlacklistedPhraseCaseInsensitive(t *testing.T) {
	text := strings.Repeat("Substantial prose. ", 20) + "Click HERE if you are NOT redirected."
	if got := Check(text, 150, DefaultPhrases()); got != ReasonBlacklistedPhrase {
		t.Fatalf("expected ReasonBlacklistedPhrase, got %v", got)
	}
}

func TestCheck_AcceptsCleanText(t *testing.T) {
	text := strings.Repeat("A perfectly ordinary factual sentence. ", 10)
	if got := Check(text, 150, DefaultPhrases()); got != ReasonNone {
		t.Fatalf("expected ReasonNone, got %v", got)
	}
}
