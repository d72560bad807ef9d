// Package validate applies the content acceptance heuristics that decide
// whether scraped text is a usable knowledge answer: a minimum length and the
// absence of redirect/error boilerplate phrases.
package validate

import "strings"

// Reason classifies why a text was rejected.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonTooShort
	ReasonBlacklistedPhrase
)

func (r Reason) String() string {
	switch r {
	case ReasonTooShort:
		return "too short"
	case ReasonBlacklistedPhrase:
		return "blacklisted phrase"
	default:
		return "ok"
	}
}

// DefaultPhrases lists boilerplate, redirect and error-page fragments whose
// presence marks a page as unusable. Matching is case-insensitive.
func DefaultPhrases() []string {
	return []string{
		"bitte klicken sie hier",
		"nicht automatisch weitergeleitet",
		"click here if you are not redirected",
		"redirecting",
		"weiterleiten",
		"cookie",
		"404 not found",
		"error page",
		"access denied",
		"robot check",
	}
}

// Check returns ReasonNone when text passes both heuristics. The phrase scan
// operates on the lowercased text; callers pass phrases already lowercased.
func Check(text string, minLength int, phrases []string) Reason {
	if len(text) < minLength {
		return ReasonTooShort
	}
	lower := strings.ToLower(text)
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return ReasonBlacklistedPhrase
		}
	}
	return ReasonNone
}
