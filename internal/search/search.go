package search

import (
	"context"
	"fmt"
	"strings"
)

// Hit represents a single search result from any provider.
type Hit struct {
	Title   string
	URL     string
	Snippet string
	Source  string // provider name for observability
}

// Provider is a minimal interface for search backends.
type Provider interface {
	Search(ctx context.Context, query string, limit int) ([]Hit, error)
	Name() string
}

// ProxyCapable is an optional capability for providers that can route one
// call through a proxy. Callers detect it with a type assertion.
type ProxyCapable interface {
	WithProxy(addr string) Provider
}

// EffectiveQuery derives the query string actually sent to the backend: the
// original text plus a language filter and a -site: exclusion per unreliable
// domain. youtube.com stays eligible; its rejects are cheap to skip later
// and excluding it too often empties the result set.
func EffectiveQuery(query, language string, excluded []string) string {
	var b strings.Builder
	b.WriteString(query)
	if language != "" {
		fmt.Fprintf(&b, " language:%s", language)
	}
	for _, d := range excluded {
		if d == "youtube.com" {
			continue
		}
		fmt.Fprintf(&b, " -site:%s", d)
	}
	return b.String()
}
