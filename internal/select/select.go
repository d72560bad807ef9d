// Package selecter decides which search hits are worth fetching. The checks
// are substring heuristics and deliberately tunable policy, not correctness
// requirements.
package selecter

// Policy holds the candidate-filtering lists. Both checks are substring
// matches on lowercased input.
type Policy struct {
	// BlockedDomains are hosts known to deliver unstructured or irrelevant
	// text; any hit whose URL contains one is skipped.
	BlockedDomains []string
	// IrrelevantTitleWords flags commerce/travel results that outrank
	// knowledge pages for some queries.
	IrrelevantTitleWords []string
}

// DefaultPolicy returns the production filter lists.
func DefaultPolicy() Policy {
	return Policy{
		BlockedDomains: []string{
			"baidu.com", "quora.com", "pinterest.com", "twitter.com",
			"vk.com", "reddit.com/r/", "youtube.com", "amazon.com", "aliexpress.com",
		},
		IrrelevantTitleWords: []string{
			"flüge", "airfare", "cheap", "reisen", "travel", "flights", "points",
		},
	}
}

// Allow reports whether a hit passes the policy. lowerURL and lowerTitle
// must already be lowercased; reason is empty when allowed.
func (p Policy) Allow(lowerURL, lowerTitle string) (bool, string) {
	if lowerURL == "" {
		return false, "no url"
	}
	for _, d := range p.BlockedDomains {
		if contains(lowerURL, d) {
			return false, "blacklisted domain"
		}
	}
	for _, w := range p.IrrelevantTitleWords {
		if contains(lowerTitle, w) {
			return false, "irrelevant title"
		}
	}
	return true, ""
}

func contains(s, sub string) bool {
	if sub == "" {
		return false
	}
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
