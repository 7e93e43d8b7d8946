// Package reverie is the dream-journal engine: it scores entries as they
// are recorded, stores them, and answers search, topic and insight queries
// over the whole journal.
package reverie

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cognicore/reverie/pkg/reverie/cards"
	"github.com/cognicore/reverie/pkg/reverie/cluster"
	"github.com/cognicore/reverie/pkg/reverie/config"
	"github.com/cognicore/reverie/pkg/reverie/ingest"
	"github.com/cognicore/reverie/pkg/reverie/insights"
	"github.com/cognicore/reverie/pkg/reverie/internalerr"
	"github.com/cognicore/reverie/pkg/reverie/rank"
	"github.com/cognicore/reverie/pkg/reverie/score"
	"github.com/cognicore/reverie/pkg/reverie/store"
	"github.com/cognicore/reverie/pkg/reverie/store/memstore"
	"github.com/cognicore/reverie/pkg/reverie/store/sqlite"
)

// Journal is the main dream-journal facade
type Journal struct {
	store   store.Store
	scorer  *score.Scorer
	log     *zap.Logger
	ranker  *rank.Ranker
	cluster ClusterOptions
	window  int
	workers int
	cards   *cards.Builder

	randMu sync.Mutex
	rand   cluster.Source
}

// ClusterOptions tunes topic clustering. Zero fields select defaults.
type ClusterOptions struct {
	Iterations int
	MinEntries int
	MaxK       int
}

// SearchOptions tunes ranking. A zero Weights selects rank.DefaultWeights.
type SearchOptions struct {
	Weights rank.Weights
	Limit   int
}

// Options configures a Journal instance
type Options struct {
	Store   store.Store
	Scorer  *score.Scorer // nil selects score.NewDefaultScorer
	Logger  *zap.Logger   // nil selects zap.NewNop
	Search  SearchOptions
	Cluster ClusterOptions
	// InsightsWindow is the sentiment moving-average window.
	InsightsWindow int
	// Rand seeds topic clustering; nil uses a randomly seeded source.
	Rand cluster.Source
	// Workers bounds Rescore parallelism; 0 uses GOMAXPROCS.
	Workers int
}

// New creates a Journal with the given dependencies
func New(opts Options) *Journal {
	j := &Journal{
		store:   opts.Store,
		scorer:  opts.Scorer,
		log:     opts.Logger,
		cluster: opts.Cluster,
		window:  opts.InsightsWindow,
		workers: opts.Workers,
		cards:   cards.New(),
		rand:    opts.Rand,
	}
	if j.scorer == nil {
		j.scorer = score.NewDefaultScorer()
	}
	if j.log == nil {
		j.log = zap.NewNop()
	}
	weights := opts.Search.Weights
	if weights == (rank.Weights{}) {
		weights = rank.DefaultWeights()
	}
	j.ranker = rank.NewRanker(weights, opts.Search.Limit)
	if j.cluster.Iterations <= 0 {
		j.cluster.Iterations = cluster.DefaultIterations
	}
	if j.cluster.MinEntries <= 0 {
		j.cluster.MinEntries = 3
	}
	if j.cluster.MaxK <= 0 {
		j.cluster.MaxK = 5
	}
	if j.window <= 0 {
		j.window = insights.DefaultWindow
	}
	if j.workers <= 0 {
		j.workers = runtime.GOMAXPROCS(0)
	}
	if j.rand == nil {
		j.rand = cluster.NewSource(uint64(time.Now().UnixNano()))
	}
	return j
}

// Open builds a Journal from configuration: it opens the configured store
// and loads the lexicon and scorer.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Journal, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	comp, err := (&config.Loader{Config: cfg}).Load()
	if err != nil {
		return nil, err
	}

	var st store.Store
	switch cfg.Store.Driver {
	case config.DriverMemory:
		st = memstore.New()
	case config.DriverSQLite:
		if st, err = sqlite.OpenSQLite(ctx, cfg.Store.Path); err != nil {
			return nil, fmt.Errorf("open store %s: %w", cfg.Store.Path, err)
		}
	default:
		return nil, fmt.Errorf("%w: unknown store driver %q", internalerr.ErrInvalidConfig, cfg.Store.Driver)
	}

	var src cluster.Source
	if cfg.Cluster.Seed != 0 {
		src = cluster.NewSource(cfg.Cluster.Seed)
	}

	return New(Options{
		Store:  st,
		Scorer: comp.Scorer,
		Logger: logger,
		Search: SearchOptions{Weights: comp.Weights, Limit: cfg.Search.Limit},
		Cluster: ClusterOptions{
			Iterations: cfg.Cluster.Iterations,
			MinEntries: cfg.Cluster.MinEntries,
			MaxK:       cfg.Cluster.MaxK,
		},
		InsightsWindow: cfg.Insights.Window,
		Rand:           src,
	}), nil
}

// Close cleanly shuts down the Journal instance
func (j *Journal) Close() error {
	return j.store.Close()
}

// Draft is an entry as written by the user, before scoring.
type Draft struct {
	At                     time.Time
	Title                  string
	Text                   string
	Tags                   string
	CaffeineMG             int
	LastMealMinBeforeSleep int
	ScreenMinLastHour      int
	WorkoutMin             int
	Stress                 int
	Lucid                  bool
}

// Record scores the draft's text and stores it as a new entry.
func (j *Journal) Record(ctx context.Context, d Draft) (store.Entry, error) {
	doc := ingest.Doc{Title: d.Title, Text: d.Text, Tags: d.Tags}
	doc.Normalize()
	if err := doc.Validate(); err != nil {
		return store.Entry{}, fmt.Errorf("%w: %v", internalerr.ErrInvalidInput, err)
	}
	if d.At.IsZero() {
		d.At = time.Now()
	}

	e := store.Entry{
		At:                     d.At,
		Title:                  doc.Title,
		Text:                   doc.Text,
		Tags:                   doc.Tags,
		Bundle:                 j.scorer.Score(doc.Text),
		CaffeineMG:             d.CaffeineMG,
		LastMealMinBeforeSleep: d.LastMealMinBeforeSleep,
		ScreenMinLastHour:      d.ScreenMinLastHour,
		WorkoutMin:             d.WorkoutMin,
		Stress:                 d.Stress,
		Lucid:                  d.Lucid,
	}
	saved, err := j.store.AddEntry(ctx, e)
	if err != nil {
		return store.Entry{}, err
	}
	j.log.Debug("Entry recorded",
		zap.String("id", saved.ID),
		zap.String("emotion", saved.Emotion.String()),
		zap.Int("nightmare_index", saved.RiskIndex))
	return saved, nil
}

// Get returns one entry; unknown IDs fail with internalerr.ErrNotFound.
func (j *Journal) Get(ctx context.Context, id string) (store.Entry, error) {
	e, found, err := j.store.GetEntry(ctx, id)
	if err != nil {
		return store.Entry{}, err
	}
	if !found {
		return store.Entry{}, fmt.Errorf("entry %q: %w", id, internalerr.ErrNotFound)
	}
	return e, nil
}

// List returns every entry, newest first.
func (j *Journal) List(ctx context.Context) ([]store.Entry, error) {
	return j.store.ListEntries(ctx)
}

// Score analyzes text without storing anything.
func (j *Journal) Score(text string) score.Analysis {
	return j.scorer.Analyze(text)
}

// Summary is the insights view of the journal.
type Summary struct {
	insights.Report
	Streak          int      `json:"streak_days"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// Insights builds chart series over all entries, the day streak ending at
// now, and suggestions for the newest entry.
func (j *Journal) Insights(ctx context.Context, now time.Time) (Summary, error) {
	entries, err := j.store.ListEntries(ctx)
	if err != nil {
		return Summary{}, err
	}
	s := Summary{
		Report: insights.Build(entries, j.window),
		Streak: insights.Streak(entries, now),
	}
	if len(entries) > 0 {
		s.Recommendations = insights.Recommend(entries[0])
	}
	return s, nil
}
