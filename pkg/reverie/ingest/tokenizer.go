package ingest

import (
	"strings"
)

// Minimum token lengths for the two tokenizer variants.
const (
	// LexiconMinLen is used for sentiment and emotion scoring.
	LexiconMinLen = 2

	// IndexMinLen is used for vector-space indexing (tokens longer than 2).
	IndexMinLen = 3
)

// Tokenizer splits text into lower-cased runs of ASCII letters and apostrophes.
// Tokens are not stemmed and no stopwords are removed.
type Tokenizer struct {
	minLen int
}

// NewTokenizer creates a tokenizer that drops tokens shorter than minLen.
// Values below 1 are treated as 1.
func NewTokenizer(minLen int) *Tokenizer {
	if minLen < 1 {
		minLen = 1
	}
	return &Tokenizer{minLen: minLen}
}

// MinLen returns the minimum token length.
func (t *Tokenizer) MinLen() int {
	return t.minLen
}

// Tokenize returns the tokens of text in order of appearance.
// It never fails: empty or letter-free input yields an empty slice.
func (t *Tokenizer) Tokenize(text string) []string {
	tokens := make([]string, 0, len(text)/6)
	var current strings.Builder

	flush := func() {
		if current.Len() >= t.minLen {
			tokens = append(tokens, current.String())
		}
		current.Reset()
	}

	for _, r := range strings.ToLower(text) {
		if isTokenRune(r) {
			current.WriteRune(r)
			continue
		}
		if current.Len() > 0 {
			flush()
		}
	}

	// Don't forget the last token
	if current.Len() > 0 {
		flush()
	}

	return tokens
}

func isTokenRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || r == '\''
}

var (
	lexiconTokenizer = NewTokenizer(LexiconMinLen)
	indexTokenizer   = NewTokenizer(IndexMinLen)
)

// LexiconTokens tokenizes text with the lexicon-scoring variant (length >= 2).
func LexiconTokens(text string) []string {
	return lexiconTokenizer.Tokenize(text)
}

// IndexTokens tokenizes text with the vector-space variant (length > 2).
func IndexTokens(text string) []string {
	return indexTokenizer.Tokenize(text)
}
