package search

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
)

// FileProvider loads search hits from a local JSON file for offline and test
// use. The file holds an array of objects {"title", "url", "snippet"}.
type FileProvider struct {
	Path string
}

func (f *FileProvider) Name() string { return "file" }

func (f *FileProvider) Search(_ context.Context, query string, limit int) ([]Hit, error) {
	if strings.TrimSpace(f.Path) == "" {
		return nil, errors.New("file provider path is empty")
	}
	b, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, err
	}
	var raw []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Snippet string `json:"snippet"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	// Operator filter tokens would never match file content; match on the
	// bare query only.
	q := strings.ToLower(strings.TrimSpace(bareQuery(query)))
	out := make([]Hit, 0, len(raw))
	for _, r := range raw {
		if r.URL == "" || r.Title == "" {
			continue
		}
		if q == "" || strings.Contains(strings.ToLower(r.Title), q) || strings.Contains(strings.ToLower(r.Snippet), q) {
			out = append(out, Hit{Title: r.Title, URL: r.URL, Snippet: r.Snippet, Source: f.Name()})
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

// bareQuery strips language: and -site: operators appended by EffectiveQuery.
func bareQuery(query string) string {
	fields := strings.Fields(query)
	kept := fields[:0]
	for _, f := range fields {
		if strings.HasPrefix(f, "language:") || strings.HasPrefix(f, "-site:") {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}
