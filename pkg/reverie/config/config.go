package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/reverie/pkg/reverie/internalerr"
	"github.com/cognicore/reverie/pkg/reverie/lexicon"
)

// Store drivers.
const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Config is the journal configuration file.
type Config struct {
	Store    StoreConfig    `yaml:"store"`
	Lexicon  LexiconConfig  `yaml:"lexicon"`
	Search   SearchConfig   `yaml:"search"`
	Cluster  ClusterConfig  `yaml:"cluster"`
	Insights InsightsConfig `yaml:"insights"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// StoreConfig selects the entry store.
type StoreConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

// LexiconConfig selects the word lists and keyword matching.
type LexiconConfig struct {
	Path    string `yaml:"path"` // empty uses the built-in lexicon
	Matcher string `yaml:"matcher"`
}

// SearchConfig tunes ranking.
type SearchConfig struct {
	Limit        int     `yaml:"limit"`
	CosineWeight float64 `yaml:"cosine_weight"`
	FuzzyWeight  float64 `yaml:"fuzzy_weight"`
}

// ClusterConfig tunes topic clustering.
type ClusterConfig struct {
	Iterations int    `yaml:"iterations"`
	MinEntries int    `yaml:"min_entries"`
	MaxK       int    `yaml:"max_k"`
	Seed       uint64 `yaml:"seed"` // 0 picks a random seed per run
}

// InsightsConfig tunes chart series.
type InsightsConfig struct {
	Window int `yaml:"window"`
}

// LoggingConfig configures the CLI logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Store:   StoreConfig{Driver: DriverSQLite, Path: "reverie.db"},
		Lexicon: LexiconConfig{Matcher: "substring"},
		Search: SearchConfig{
			Limit:        20,
			CosineWeight: 0.85,
			FuzzyWeight:  0.15,
		},
		Cluster: ClusterConfig{
			Iterations: 10,
			MinEntries: 3,
			MaxK:       5,
		},
		Insights: InsightsConfig{Window: 5},
		Logging:  LoggingConfig{Level: "info", Format: "json"},
	}
}

// Load reads path (if not empty) over the defaults, applies REVERIE_*
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: parsing %s: %v", internalerr.ErrInvalidConfig, path, err)
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("REVERIE_STORE_DRIVER"); v != "" {
		cfg.Store.Driver = v
	}
	if v := os.Getenv("REVERIE_STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("REVERIE_LEXICON_PATH"); v != "" {
		cfg.Lexicon.Path = v
	}
	if v := os.Getenv("REVERIE_LEXICON_MATCHER"); v != "" {
		cfg.Lexicon.Matcher = v
	}
	if v := os.Getenv("REVERIE_SEARCH_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Search.Limit = n
		}
	}
	if v := os.Getenv("REVERIE_CLUSTER_SEED"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Cluster.Seed = n
		}
	}
	if v := os.Getenv("REVERIE_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("REVERIE_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}

// Validate checks value ranges and names.
func (c *Config) Validate() error {
	var problems []string
	switch c.Store.Driver {
	case DriverSQLite:
		if strings.TrimSpace(c.Store.Path) == "" {
			problems = append(problems, "store.path is required for sqlite")
		}
	case DriverMemory:
	default:
		problems = append(problems, fmt.Sprintf("unknown store.driver %q", c.Store.Driver))
	}
	if _, ok := lexicon.MatcherByName(c.Lexicon.Matcher); !ok {
		problems = append(problems, fmt.Sprintf("unknown lexicon.matcher %q", c.Lexicon.Matcher))
	}
	if c.Search.Limit < 0 {
		problems = append(problems, "search.limit must not be negative")
	}
	if !unit(c.Search.CosineWeight) || !unit(c.Search.FuzzyWeight) {
		problems = append(problems, "search weights must be within [0, 1]")
	}
	if c.Cluster.Iterations < 0 {
		problems = append(problems, "cluster.iterations must not be negative")
	}
	if c.Cluster.MaxK < 1 {
		problems = append(problems, "cluster.max_k must be at least 1")
	}
	if c.Insights.Window < 1 {
		problems = append(problems, "insights.window must be at least 1")
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		problems = append(problems, fmt.Sprintf("unknown logging.format %q", c.Logging.Format))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", internalerr.ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

func unit(v float64) bool {
	return v >= 0 && v <= 1
}
