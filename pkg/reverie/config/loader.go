package config

import (
	"fmt"

	"github.com/cognicore/reverie/pkg/reverie/lexicon"
	"github.com/cognicore/reverie/pkg/reverie/rank"
	"github.com/cognicore/reverie/pkg/reverie/score"
)

// Loader constructs the scoring components named by a configuration
type Loader struct {
	Config *Config
}

// Components holds all loaded configuration components
type Components struct {
	Lexicon *lexicon.Lexicon
	Matcher lexicon.Matcher
	Scorer  *score.Scorer
	Weights rank.Weights
}

// Load reads the lexicon file (or the built-in one) and returns initialized
// components.
func (l *Loader) Load() (*Components, error) {
	cfg := l.Config
	if cfg == nil {
		cfg = Default()
	}
	comp := &Components{}

	if cfg.Lexicon.Path != "" {
		lex, err := lexicon.LoadFromYAML(cfg.Lexicon.Path)
		if err != nil {
			return nil, fmt.Errorf("load lexicon: %w", err)
		}
		comp.Lexicon = lex
	} else {
		comp.Lexicon = lexicon.Default()
	}

	matcher, ok := lexicon.MatcherByName(cfg.Lexicon.Matcher)
	if !ok {
		return nil, fmt.Errorf("load matcher: unknown %q", cfg.Lexicon.Matcher)
	}
	comp.Matcher = matcher

	comp.Scorer = score.NewScorer(comp.Lexicon, comp.Matcher, score.DefaultRiskWeights())
	comp.Weights = rank.Weights{
		Cosine: cfg.Search.CosineWeight,
		Fuzzy:  cfg.Search.FuzzyWeight,
	}
	return comp, nil
}
