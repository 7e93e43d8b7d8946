package lexicon

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Lexicon holds the fixed word lists used for scoring:
// - Positive / negative sets: +1 / -1 sentiment per matching token
// - Boosters: extra sentiment offsets for specific tokens (negators)
// - Emotion keywords: substring keywords per emotion category
//
// A Lexicon is immutable after construction and safe for concurrent use.
type Lexicon struct {
	positive map[string]struct{}
	negative map[string]struct{}
	boosters map[string]float64
	emotions map[Emotion][]string
}

// Spec is the serialized form of a Lexicon.
//
// Expected YAML format:
//
//	positive: [happy, calm]
//	negative: [scared, monster]
//	boosters:
//	  not: -0.5
//	emotions:
//	  fear: [scared, monster]
//	  joy: [happy]
type Spec struct {
	Positive []string             `yaml:"positive"`
	Negative []string             `yaml:"negative"`
	Boosters map[string]float64   `yaml:"boosters"`
	Emotions map[Emotion][]string `yaml:"emotions"`
}

// New builds a lexicon from spec. Words are lower-cased and trimmed; empty
// words are dropped. Emotion keys must be one of the scored categories.
func New(spec Spec) (*Lexicon, error) {
	lex := &Lexicon{
		positive: toSet(spec.Positive),
		negative: toSet(spec.Negative),
		boosters: make(map[string]float64, len(spec.Boosters)),
		emotions: make(map[Emotion][]string, len(Categories)),
	}

	for w, v := range spec.Boosters {
		w = normalizeWord(w)
		if w == "" {
			continue
		}
		lex.boosters[w] = v
	}

	for emo, words := range spec.Emotions {
		if emo == Neutral || !emo.Valid() {
			return nil, fmt.Errorf("lexicon: %q is not an emotion category", string(emo))
		}
		keywords := make([]string, 0, len(words))
		seen := make(map[string]bool, len(words))
		for _, w := range words {
			w = normalizeWord(w)
			if w == "" || seen[w] {
				continue
			}
			seen[w] = true
			keywords = append(keywords, w)
		}
		lex.emotions[emo] = keywords
	}

	return lex, nil
}

// Parse decodes a YAML lexicon.
func Parse(data []byte) (*Lexicon, error) {
	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("lexicon: parse: %w", err)
	}
	return New(spec)
}

// LoadFromYAML loads a lexicon from a YAML file.
func LoadFromYAML(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Default returns the built-in dream-journal lexicon.
func Default() *Lexicon {
	lex, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("lexicon: embedded default is invalid: %v", err))
	}
	return lex
}

// IsPositive reports whether token is in the positive set.
func (l *Lexicon) IsPositive(token string) bool {
	_, ok := l.positive[token]
	return ok
}

// IsNegative reports whether token is in the negative set.
func (l *Lexicon) IsNegative(token string) bool {
	_, ok := l.negative[token]
	return ok
}

// Boost returns the booster offset for token, or 0.
func (l *Lexicon) Boost(token string) float64 {
	return l.boosters[token]
}

// Keywords returns a copy of the keyword list for an emotion category.
func (l *Lexicon) Keywords(e Emotion) []string {
	kw := l.emotions[e]
	out := make([]string, len(kw))
	copy(out, kw)
	return out
}

// Spec returns the lexicon's contents in serializable form, with sorted word lists.
func (l *Lexicon) Spec() Spec {
	spec := Spec{
		Positive: sortedKeys(l.positive),
		Negative: sortedKeys(l.negative),
		Boosters: make(map[string]float64, len(l.boosters)),
		Emotions: make(map[Emotion][]string, len(l.emotions)),
	}
	for w, v := range l.boosters {
		spec.Boosters[w] = v
	}
	for e := range l.emotions {
		spec.Emotions[e] = l.Keywords(e)
	}
	return spec
}

// Stats returns statistics about the lexicon contents.
func (l *Lexicon) Stats() LexiconStats {
	total := 0
	for _, kw := range l.emotions {
		total += len(kw)
	}
	return LexiconStats{
		Positive:        len(l.positive),
		Negative:        len(l.negative),
		Boosters:        len(l.boosters),
		EmotionKeywords: total,
	}
}

// LexiconStats holds statistics about lexicon contents.
type LexiconStats struct {
	Positive        int
	Negative        int
	Boosters        int
	EmotionKeywords int // across all categories
}

func normalizeWord(w string) string {
	return strings.ToLower(strings.TrimSpace(w))
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = normalizeWord(w)
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for w := range set {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}
