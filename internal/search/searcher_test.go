package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/knowseek/knowseek/internal/fetch"
	"github.com/knowseek/knowseek/internal/pace"
	selecter "github.com/knowseek/knowseek/internal/select"
	"github.com/knowseek/knowseek/internal/validate"
)

type stubProvider struct {
	hits  []Hit
	err   error
	calls int
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Search(_ context.Context, _ string, _ int) ([]Hit, error) {
	s.calls++
	return s.hits, s.err
}

func testSearcher(p Provider) *Searcher {
	s := NewSearcher(p, &fetch.Client{
		Timeout:        5 * time.Second,
		MinTextLength:  150,
		BlockedPhrases: validate.DefaultPhrases(),
		UserAgents:     fetch.DefaultUserAgents(),
	}, 2, "de")
	s.Jitter = pace.Jitter{}
	return s
}

func TestSearcher_FirstExtractedWins(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/bad":
			w.WriteHeader(404)
		default:
			fmt.Fprint(w, "<html><head><title>Good</title></head><body>")
			for i := 0; i < 10; i++ {
				fmt.Fprint(w, "<p>A factual sentence long enough to count toward the minimum. </p>")
			}
			fmt.Fprint(w, "</body></html>")
		}
	}))
	defer srv.Close()

	prov := &stubProvider{hits: []Hit{
		{Title: "Blocked", URL: "https://quora.com/q/1"},
		{Title: "Broken", URL: srv.URL + "/bad"},
		{Title: "Good", URL: srv.URL + "/good"},
		{Title: "Unused", URL: srv.URL + "/unused"},
	}}
	s := testSearcher(prov)

	finding, logLines, err := s.Run(context.Background(), "test query")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if finding == nil {
		t.Fatalf("expected a finding, log: %v", logLines)
	}
	if finding.Hit.URL != srv.URL+"/good" {
		t.Fatalf("wrong winner: %q", finding.Hit.URL)
	}
	if len(finding.Others) != 3 {
		t.Fatalf("expected 3 other hits, got %d", len(finding.Others))
	}
	if prov.calls != 1 {
		t.Fatalf("expected a single provider attempt, got %d", prov.calls)
	}
	// The blacklisted and broken candidates must be in the log.
	joined := strings.Join(logLines, "\n")
	if !strings.Contains(joined, "Ignoriert") || !strings.Contains(joined, "404") {
		t.Fatalf("expected rejection log entries, got:\n%s", joined)
	}
}

func TestSearcher_AllCandidatesBlockedAcrossRetries(t *testing.T) {
	prov := &stubProvider{hits: []Hit{
		{Title: "One", URL: "https://quora.com/1"},
		{Title: "Two", URL: "https://pinterest.com/2"},
	}}
	s := testSearcher(prov)

	finding, logLines, err := s.Run(context.Background(), "q")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if finding != nil {
		t.Fatal("expected no finding")
	}
	if prov.calls != 2 {
		t.Fatalf("expected MaxRetries=2 attempts, got %d", prov.calls)
	}
	if len(logLines) == 0 {
		t.Fatal("expected rejection log entries")
	}
}

func TestSearcher_ProviderErrorLoggedNotRaised(t *testing.T) {
	prov := &stubProvider{err: errors.New("rate limited")}
	s := testSearcher(prov)

	finding, logLines, err := s.Run(context.Background(), "q")
	if err != nil {
		t.Fatalf("provider errors must be absorbed, got %v", err)
	}
	if finding != nil {
		t.Fatal("expected no finding")
	}
	joined := strings.Join(logLines, "\n")
	if !strings.Contains(joined, "IP-Blockade") {
		t.Fatalf("expected possible-IP-block log entry, got:\n%s", joined)
	}
}

func TestSearcher_CancelledBeforeFirstAttempt(t *testing.T) {
	prov := &stubProvider{hits: []Hit{{Title: "X", URL: "https://example.org/x"}}}
	s := testSearcher(prov)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	finding, _, err := s.Run(ctx, "q")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if finding != nil {
		t.Fatal("expected no finding after cancellation")
	}
	if prov.calls != 0 {
		t.Fatalf("no provider call may happen after cancellation, got %d", prov.calls)
	}
}

func TestSearcher_PolicyOverride(t *testing.T) {
	prov := &stubProvider{hits: []Hit{{Title: "Cheap flights to Rome", URL: "https://example.org/x"}}}
	s := testSearcher(prov)
	s.Policy = selecter.Policy{IrrelevantTitleWords: []string{"cheap"}}

	finding, logLines, err := s.Run(context.Background(), "rome")
	if err != nil || finding != nil {
		t.Fatalf("expected filtered-out run, got finding=%v err=%v", finding, err)
	}
	if !strings.Contains(strings.Join(logLines, "\n"), "irrelevant title") {
		t.Fatalf("expected irrelevant-title rejection, got %v", logLines)
	}
}
