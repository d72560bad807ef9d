package whitelist

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
	"github.com/knowseek/knowseek/internal/validate"
)

func TestSearchURL_Dispatch(t *testing.T) {
	cases := []struct {
		base string
		want string
	}{
		{"https://de.wikipedia.org/", "https://de.wikipedia.org/w/index.php?search=wasser+kreislauf"},
		{"https://en.wikipedia.org/", "https://en.wikipedia.org/w/index.php?search=wasser+kreislauf"},
		{"https://www.spektrum.de/lexikon/", "https://www.spektrum.de/lexikon/wasser+kreislauf"},
		{"https://docs.python.org/3/", "https://docs.python.org/3/search.html?q=wasser+kreislauf"},
		{"https://www.sciencedirect.com/", "https://www.sciencedirect.com/search?qs=wasser+kreislauf"},
		{"https://www.nasa.gov/", "https://www.nasa.gov/search?q=wasser+kreislauf"},
		{"https://www.bpb.de/", "https://www.bpb.de/suche?q=wasser+kreislauf"},
	}
	for _, tc := range cases {
		if got := SearchURL(tc.base, "wasser kreislauf"); got != tc.want {
			t.Errorf("SearchURL(%q) = %q, want %q", tc.base, got, tc.want)
		}
	}
}

func testFetcher() *fetch.Client {
	return &fetch.Client{
		Timeout:        5 * time.Second,
		MinTextLength:  150,
		BlockedPhrases: validate.DefaultPhrases(),
		UserAgents:     fetch.DefaultUserAgents(),
	}
}

func TestCollect_KeepsOnlyExtractedSources(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.RawQuery, "q="):
			fmt.Fprint(w, "<html><body>")
			for i := 0; i < 8; i++ {
				fmt.Fprint(w, "<p>An authoritative statement with enough substance to validate. </p>")
			}
			fmt.Fprint(w, "</body></html>")
		default:
			w.WriteHeader(404)
		}
	}))
	defer srv.Close()

	srvBad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(403)
	}))
	defer srvBad.Close()

	e := &Engine{
		Fetcher: testFetcher(),
		BaseURLs: []string{
			srv.URL + "/good/",
			srvBad.URL + "/blocked/",
		},
	}

	docs, err := e.Collect(context.Background(), "substance")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}
	if !strings.HasPrefix(docs[0].Title, "Whitelist: ") {
		t.Fatalf("unexpected title: %q", docs[0].Title)
	}
	if !strings.Contains(docs[0].URL, "q=substance") {
		t.Fatalf("expected search URL, got %q", docs[0].URL)
	}
	if len(docs[0].Text) < 150 {
		t.Fatalf("expected validated text, got %d bytes", len(docs[0].Text))
	}
}

func TestCollect_CancelledBeforeFirstFetch(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer srv.Close()

	e := &Engine{Fetcher: testFetcher(), BaseURLs: []string{srv.URL + "/"}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	docs, err := e.Collect(ctx, "q")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(docs) != 0 || requests != 0 {
		t.Fatalf("expected zero fetches after cancellation, got %d docs / %d requests", len(docs), requests)
	}
}

func TestDefaultBaseURLs_Shape(t *testing.T) {
	urls := DefaultBaseURLs()
	if len(urls) != 28 {
		t.Fatalf("expected 28 authority URLs, got %d", len(urls))
	}
	for _, u := range urls {
		if !strings.HasPrefix(u, "https://") {
			t.Errorf("base URL without https: %q", u)
		}
		if !strings.HasSuffix(u, "/") {
			t.Errorf("base URL without trailing slash: %q", u)
		}
	}
}
