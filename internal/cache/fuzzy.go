package cache

import (
	"context"
	"sort"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// Match is one similar historical query. Score is a 0-100 token-set ratio.
type Match struct {
	Query string
	Score int
}

// FuzzyMatch scores query against every distinct historical query, keeps
// scores >= cutoff, sorts descending and caps the result at limit. Token-set
// scoring is robust to word reordering and partial overlap.
func (s *Store) FuzzyMatch(ctx context.Context, query string, cutoff, limit int) ([]Match, error) {
	candidates, err := s.distinctQueries(ctx)
	if err != nil {
		return nil, err
	}
	matches := make([]Match, 0, len(candidates))
	for _, c := range candidates {
		score := fuzzy.TokenSetRatio(query, c)
		if score >= cutoff {
			matches = append(matches, Match{Query: c, Score: score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}
