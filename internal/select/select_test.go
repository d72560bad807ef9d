package selecter

import "testing"

func TestPolicy_Allow(t *testing.T) {
	p := DefaultPolicy()
	cases := []struct {
		url, title string
		want       bool
		reason     string
	}{
		{"https://de.wikipedia.org/wiki/wasser", "wasser", true, ""},
		{"https://www.quora.com/what-is-water", "what is water", false, "blacklisted domain"},
		{"https://www.reddit.com/r/askscience/", "ask science", false, "blacklisted domain"},
		{"https://example.org/deals", "cheap flights to rome", false, "irrelevant title"},
		{"https://example.org/reise", "billige reisen buchen", false, "irrelevant title"},
		{"", "anything", false, "no url"},
	}
	for _, tc := range cases {
		ok, reason := p.Allow(tc.url, tc.title)
		if ok != tc.want || reason != tc.reason {
			t.Errorf("Allow(%q, %q) = %v/%q, want %v/%q", tc.url, tc.title, ok, reason, tc.want, tc.reason)
		}
	}
}

func TestPolicy_AllowSubdomainAndPathMatches(t *testing.T) {
	p := DefaultPolicy()
	// Substring semantics: blocked domains match anywhere in the URL.
	if ok, _ := p.Allow("https://m.youtube.com/watch?v=x", "video"); ok {
		t.Fatal("expected youtube subdomain to be blocked")
	}
	// reddit outside /r/ stays eligible.
	if ok, _ := p.Allow("https://www.reddit.com/about", "about"); !ok {
		t.Fatal("expected reddit.com outside /r/ to pass")
	}
}

func TestPolicy_ZeroValueAllowsEverything(t *testing.T) {
	var p Policy
	if ok, _ := p.Allow("https://example.org/", "anything"); !ok {
		t.Fatal("empty policy must allow any hit with a url")
	}
}
