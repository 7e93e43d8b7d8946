package lexicon

import (
	"strings"
)

// Matcher counts keyword occurrences in lower-cased text.
type Matcher interface {
	Count(text, keyword string) int
}

// SubstringMatcher counts non-overlapping substring occurrences, so a keyword
// also matches inside longer words ("chase" in "chased", "die" in "studied").
type SubstringMatcher struct{}

// Count implements Matcher.
func (SubstringMatcher) Count(text, keyword string) int {
	if keyword == "" {
		return 0
	}
	return strings.Count(text, keyword)
}

// TokenMatcher counts only whole-token occurrences.
type TokenMatcher struct{}

// Count implements Matcher.
func (TokenMatcher) Count(text, keyword string) int {
	if keyword == "" {
		return 0
	}
	n := 0
	for _, tok := range strings.FieldsFunc(text, func(r rune) bool {
		return !((r >= 'a' && r <= 'z') || r == '\'')
	}) {
		if tok == keyword {
			n++
		}
	}
	return n
}

// MatcherByName returns the matcher registered under name:
// "substring" (also the empty name) or "token".
func MatcherByName(name string) (Matcher, bool) {
	switch name {
	case "", "substring":
		return SubstringMatcher{}, true
	case "token":
		return TokenMatcher{}, true
	}
	return nil, false
}
