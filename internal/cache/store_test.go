package cache

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
)

func openTestStore(t *testing.T, maxChars int) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "cache.db"), maxChars)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_WriteAndReadAllNewestFirst(t *testing.T) {
	s := openTestStore(t, 5000)
	ctx := context.Background()

	if err := s.Write(ctx, "erste anfrage", "Websuche", "Antwort eins."); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := s.Write(ctx, "zweite anfrage", "Whitelist-Quellenvergleich", "Antwort zwei."); err != nil {
		t.Fatalf("write: %v", err)
	}

	entries, err := s.ReadAll(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Query != "zweite anfrage" || entries[1].Query != "erste anfrage" {
		t.Fatalf("expected newest first, got %q then %q", entries[0].Query, entries[1].Query)
	}
	if entries[0].SourceType != "Whitelist-Quellenvergleich" {
		t.Fatalf("source type lost: %q", entries[0].SourceType)
	}
	if entries[0].ID <= entries[1].ID {
		t.Fatalf("ids must be monotonic: %d then %d", entries[0].ID, entries[1].ID)
	}
	if entries[0].Timestamp.IsZero() {
		t.Fatal("expected a parsed timestamp")
	}
}

func TestStore_WriteTruncatesToBudget(t *testing.T) {
	s := openTestStore(t, 20)
	ctx := context.Background()

	long := strings.Repeat("ä", 30)
	if err := s.Write(ctx, "q", "Websuche", long); err != nil {
		t.Fatalf("write: %v", err)
	}
	entries, err := s.ReadAll(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := entries[0].Text; len(got) > 20 || !strings.HasPrefix(long, got) {
		t.Fatalf("expected rune-safe truncation to 20 bytes, got %d bytes %q", len(got), got)
	}
}

func TestFuzzyMatch_CutoffSortAndLimit(t *testing.T) {
	s := openTestStore(t, 5000)
	ctx := context.Background()

	history := []string{
		"wie funktioniert photosynthese",
		"photosynthese bei pflanzen",
		"geschichte des römischen reiches",
		"was ist photosynthese",
	}
	for _, q := range history {
		if err := s.Write(ctx, q, "Websuche", "text"); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	matches, err := s.FuzzyMatch(ctx, "photosynthese", 50, 2)
	if err != nil {
		t.Fatalf("fuzzy match: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected limit of 2 matches, got %d", len(matches))
	}
	for _, m := range matches {
		if m.Score < 50 {
			t.Fatalf("match below cutoff: %+v", m)
		}
		if !strings.Contains(m.Query, "photosynthese") {
			t.Fatalf("unrelated query matched: %+v", m)
		}
	}
	if matches[0].Score < matches[1].Score {
		t.Fatalf("matches must be sorted descending: %+v", matches)
	}
}

func TestFuzzyMatch_NoHistory(t *testing.T) {
	s := openTestStore(t, 5000)
	matches, err := s.FuzzyMatch(context.Background(), "anything", 50, 5)
	if err != nil {
		t.Fatalf("fuzzy match: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("expected no matches, got %v", matches)
	}
}

func TestFuzzyMatch_DeduplicatesHistory(t *testing.T) {
	s := openTestStore(t, 5000)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := s.Write(ctx, "gleiche anfrage", "Websuche", "text"); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	matches, err := s.FuzzyMatch(ctx, "gleiche anfrage", 50, 5)
	if err != nil {
		t.Fatalf("fuzzy match: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("repeated queries must match once, got %v", matches)
	}
	if matches[0].Score != 100 {
		t.Fatalf("identical query must score 100, got %d", matches[0].Score)
	}
}
