package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cognicore/reverie/pkg/reverie/internalerr"
	"github.com/cognicore/reverie/pkg/reverie/lexicon"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadNoFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Search.Limit != 20 || cfg.Cluster.MaxK != 5 || cfg.Insights.Window != 5 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, "reverie.yaml", `store:
  driver: memory
search:
  limit: 5
cluster:
  seed: 42
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Driver != DriverMemory {
		t.Errorf("driver = %q, want memory", cfg.Store.Driver)
	}
	if cfg.Search.Limit != 5 {
		t.Errorf("limit = %d, want 5", cfg.Search.Limit)
	}
	if cfg.Search.CosineWeight != 0.85 {
		t.Errorf("unset fields should keep defaults, cosine = %v", cfg.Search.CosineWeight)
	}
	if cfg.Cluster.Seed != 42 {
		t.Errorf("seed = %d, want 42", cfg.Cluster.Seed)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("REVERIE_STORE_PATH", "/tmp/other.db")
	t.Setenv("REVERIE_SEARCH_LIMIT", "7")
	t.Setenv("REVERIE_LOGGING_LEVEL", "debug")
	t.Setenv("REVERIE_CLUSTER_SEED", "not-a-number")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Path != "/tmp/other.db" || cfg.Search.Limit != 7 || cfg.Logging.Level != "debug" {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
	if cfg.Cluster.Seed != 0 {
		t.Errorf("unparsable override should be ignored, seed = %d", cfg.Cluster.Seed)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	path := writeFile(t, "bad.yaml", "search: [unclosed")
	if _, err := Load(path); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("malformed yaml: got %v, want ErrInvalidConfig", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"driver", func(c *Config) { c.Store.Driver = "postgres" }},
		{"sqlite path", func(c *Config) { c.Store.Path = " " }},
		{"matcher", func(c *Config) { c.Lexicon.Matcher = "regex" }},
		{"limit", func(c *Config) { c.Search.Limit = -1 }},
		{"cosine weight", func(c *Config) { c.Search.CosineWeight = 1.5 }},
		{"fuzzy weight", func(c *Config) { c.Search.FuzzyWeight = -0.1 }},
		{"iterations", func(c *Config) { c.Cluster.Iterations = -1 }},
		{"max k", func(c *Config) { c.Cluster.MaxK = 0 }},
		{"window", func(c *Config) { c.Insights.Window = 0 }},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, internalerr.ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestLoaderDefaults(t *testing.T) {
	comp, err := (&Loader{}).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if comp.Lexicon == nil || comp.Scorer == nil || comp.Matcher == nil {
		t.Fatalf("missing components: %+v", comp)
	}
	if _, ok := comp.Matcher.(lexicon.SubstringMatcher); !ok {
		t.Errorf("default matcher = %T, want SubstringMatcher", comp.Matcher)
	}
	if comp.Weights.Cosine != 0.85 || comp.Weights.Fuzzy != 0.15 {
		t.Errorf("weights = %+v", comp.Weights)
	}
}

func TestLoaderCustomLexicon(t *testing.T) {
	path := writeFile(t, "lexicon.yaml", `positive: [sunny]
negative: [gloomy]
emotions:
  joy: [sunny]
`)
	cfg := Default()
	cfg.Lexicon.Path = path
	cfg.Lexicon.Matcher = "token"

	comp, err := (&Loader{Config: cfg}).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := comp.Matcher.(lexicon.TokenMatcher); !ok {
		t.Errorf("matcher = %T, want TokenMatcher", comp.Matcher)
	}
	b := comp.Scorer.Score("a sunny sunny day")
	if b.Emotion != lexicon.Joy || b.Sentiment <= 0 {
		t.Errorf("custom lexicon not used: %+v", b)
	}
}

func TestLoaderMissingLexicon(t *testing.T) {
	cfg := Default()
	cfg.Lexicon.Path = filepath.Join(t.TempDir(), "nope.yaml")
	if _, err := (&Loader{Config: cfg}).Load(); err == nil {
		t.Error("expected error for missing lexicon file")
	}
}
