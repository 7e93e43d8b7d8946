package score

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/cognicore/reverie/pkg/reverie/ingest"
	"github.com/cognicore/reverie/pkg/reverie/internalerr"
	"github.com/cognicore/reverie/pkg/reverie/lexicon"
)

// SentimentSpan is the token count at which the raw sentiment sum is taken
// at face value; longer texts are divided by tokens/SentimentSpan.
const SentimentSpan = 12

// MaxRiskIndex is the upper bound of the risk index.
const MaxRiskIndex = 100

// Bundle is the per-entry score triple persisted by the caller.
type Bundle struct {
	Sentiment float64         `json:"sentiment"`
	Emotion   lexicon.Emotion `json:"emotion_primary"`
	RiskIndex int             `json:"nightmare_index"`
}

// Validate checks the field ranges of a bundle read back from storage or an
// import payload.
func (b Bundle) Validate() error {
	if math.IsNaN(b.Sentiment) || b.Sentiment < -1 || b.Sentiment > 1 {
		return fmt.Errorf("%w: sentiment %v outside [-1, 1]", internalerr.ErrInvalidInput, b.Sentiment)
	}
	if !b.Emotion.Valid() {
		return fmt.Errorf("%w: unknown emotion %q", internalerr.ErrInvalidInput, string(b.Emotion))
	}
	if b.RiskIndex < 0 || b.RiskIndex > MaxRiskIndex {
		return fmt.Errorf("%w: risk index %d outside [0, %d]", internalerr.ErrInvalidInput, b.RiskIndex, MaxRiskIndex)
	}
	return nil
}

// RiskWeights defines the linear weights of the risk index.
type RiskWeights struct {
	NegativeSentiment float64 // per unit of negative sentiment
	FearHit           float64 // per fear keyword hit
	Exclamation       float64 // per '!'
	CapsRatio         float64 // per unit of uppercase ratio
}

// DefaultRiskWeights returns the standard risk weights.
func DefaultRiskWeights() RiskWeights {
	return RiskWeights{
		NegativeSentiment: 40,
		FearHit:           10,
		Exclamation:       5,
		CapsRatio:         30,
	}
}

// Scorer classifies a single text with a fixed lexicon. It holds no mutable
// state and is safe for concurrent use.
type Scorer struct {
	lex     *lexicon.Lexicon
	matcher lexicon.Matcher
	weights RiskWeights
}

// NewScorer creates a scorer. A nil lexicon selects lexicon.Default and a nil
// matcher selects substring matching.
func NewScorer(lex *lexicon.Lexicon, matcher lexicon.Matcher, w RiskWeights) *Scorer {
	if lex == nil {
		lex = lexicon.Default()
	}
	if matcher == nil {
		matcher = lexicon.SubstringMatcher{}
	}
	return &Scorer{lex: lex, matcher: matcher, weights: w}
}

// NewDefaultScorer creates a scorer with the default lexicon, substring
// matching and default risk weights.
func NewDefaultScorer() *Scorer {
	return NewScorer(nil, nil, DefaultRiskWeights())
}

// Lexicon returns the scorer's lexicon.
func (s *Scorer) Lexicon() *lexicon.Lexicon {
	return s.lex
}

// Score computes the full bundle for text.
func (s *Scorer) Score(text string) Bundle {
	return s.Analyze(text).Bundle
}

// Sentiment returns the length-normalized polarity of text in [-1, 1].
func (s *Scorer) Sentiment(text string) float64 {
	return s.sentiment(ingest.LexiconTokens(text))
}

func (s *Scorer) sentiment(tokens []string) float64 {
	raw := 0.0
	for _, tok := range tokens {
		if s.lex.IsPositive(tok) {
			raw++
		}
		if s.lex.IsNegative(tok) {
			raw--
		}
		raw += s.lex.Boost(tok)
	}
	norm := math.Max(1, float64(len(tokens))/SentimentSpan)
	return clamp(raw/norm, -1, 1)
}

// Emotion returns the category with the strictly greatest keyword count.
// Ties for the maximum and texts without any hit are Neutral.
func (s *Scorer) Emotion(text string) lexicon.Emotion {
	emo, _ := s.emotion(strings.ToLower(text))
	return emo
}

func (s *Scorer) emotion(lower string) (lexicon.Emotion, map[lexicon.Emotion]int) {
	counts := make(map[lexicon.Emotion]int, len(lexicon.Categories))
	best, winner, tied := 0, lexicon.Neutral, false
	for _, cat := range lexicon.Categories {
		n := s.countKeywords(lower, cat)
		counts[cat] = n
		switch {
		case n > best:
			best, winner, tied = n, cat, false
		case n == best && n > 0:
			tied = true
		}
	}
	if tied {
		winner = lexicon.Neutral
	}
	return winner, counts
}

// RiskIndex combines fear hits, exclamation marks, the uppercase ratio and
// the negative part of sentiment into an integer in [0, 100].
func (s *Scorer) RiskIndex(text string, sentiment float64) int {
	return s.riskIndex(text, s.countKeywords(strings.ToLower(text), lexicon.Fear), sentiment).value
}

type risk struct {
	value        int
	exclamations int
	capsRatio    float64
}

func (s *Scorer) riskIndex(text string, fearHits int, sentiment float64) risk {
	exclam := strings.Count(text, "!")
	caps := 0
	for i := 0; i < len(text); i++ {
		if text[i] >= 'A' && text[i] <= 'Z' {
			caps++
		}
	}
	length := utf8.RuneCountInString(text)
	if length < 1 {
		length = 1
	}
	capsRatio := float64(caps) / float64(length)
	neg := math.Max(0, -sentiment)

	raw := s.weights.NegativeSentiment*neg +
		s.weights.FearHit*float64(fearHits) +
		s.weights.Exclamation*float64(exclam) +
		s.weights.CapsRatio*capsRatio

	return risk{
		value:        int(clamp(math.Round(raw), 0, MaxRiskIndex)),
		exclamations: exclam,
		capsRatio:    capsRatio,
	}
}

func (s *Scorer) countKeywords(lower string, cat lexicon.Emotion) int {
	n := 0
	for _, kw := range s.lex.Keywords(cat) {
		n += s.matcher.Count(lower, kw)
	}
	return n
}

// Analysis is a bundle together with the intermediate counts it was derived from.
type Analysis struct {
	Bundle
	Tokens        int                     `json:"tokens"`
	EmotionCounts map[lexicon.Emotion]int `json:"emotion_counts"`
	FearHits      int                     `json:"fear_hits"`
	Exclamations  int                     `json:"exclamations"`
	CapsRatio     float64                 `json:"caps_ratio"`
}

// Analyze scores text and reports the intermediate counts.
func (s *Scorer) Analyze(text string) Analysis {
	tokens := ingest.LexiconTokens(text)
	sent := s.sentiment(tokens)
	emo, counts := s.emotion(strings.ToLower(text))
	r := s.riskIndex(text, counts[lexicon.Fear], sent)

	return Analysis{
		Bundle: Bundle{
			Sentiment: sent,
			Emotion:   emo,
			RiskIndex: r.value,
		},
		Tokens:        len(tokens),
		EmotionCounts: counts,
		FearHits:      counts[lexicon.Fear],
		Exclamations:  r.exclamations,
		CapsRatio:     r.capsRatio,
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
