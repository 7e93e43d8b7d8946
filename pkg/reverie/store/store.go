package store

import (
	"context"
	"crypto/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/reverie/pkg/reverie/ingest"
	"github.com/cognicore/reverie/pkg/reverie/score"
)

// DefaultStress is the stress level of an entry that does not record one.
const DefaultStress = 3

// Store is the main interface for persisting journal entries
type Store interface {
	Close() error

	// AddEntry assigns a fresh ID and persists e.
	AddEntry(ctx context.Context, e Entry) (Entry, error)
	// UpdateEntry replaces the stored entry with e.ID; unknown IDs fail
	// with internalerr.ErrNotFound.
	UpdateEntry(ctx context.Context, e Entry) error
	GetEntry(ctx context.Context, id string) (Entry, bool, error)
	// ListEntries returns every entry, newest first.
	ListEntries(ctx context.Context) ([]Entry, error)
	Clear(ctx context.Context) error
	// Replace swaps the whole collection for entries, each under a fresh
	// ID. On failure the previous collection is left as it was.
	Replace(ctx context.Context, entries []Entry) ([]Entry, error)
}

// Entry is one journal entry with its derived scores and habit fields.
type Entry struct {
	ID    string    `json:"id"`
	At    time.Time `json:"at"`
	Title string    `json:"title"`
	Text  string    `json:"text"`
	Tags  string    `json:"tags"`

	score.Bundle

	CaffeineMG             int  `json:"caffeine_mg"`
	LastMealMinBeforeSleep int  `json:"last_meal_min_before_sleep"`
	ScreenMinLastHour      int  `json:"screen_min_last_hr"`
	WorkoutMin             int  `json:"workout_min"`
	Stress                 int  `json:"stress_1_5"`
	Lucid                  bool `json:"lucid"`
}

// Doc returns the entry's text fields as an ingest document.
func (e Entry) Doc() ingest.Doc {
	return ingest.Doc{Title: e.Title, Text: e.Text, Tags: e.Tags}
}

// Normalize applies field defaults: a zero time becomes now, a blank title
// becomes the default title and a stress level outside 1..5 becomes
// DefaultStress.
func (e *Entry) Normalize() {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	e.Title = strings.TrimSpace(e.Title)
	if e.Title == "" {
		e.Title = ingest.DefaultTitle
	}
	e.Tags = strings.TrimSpace(e.Tags)
	if e.Stress < 1 || e.Stress > 5 {
		e.Stress = DefaultStress
	}
}

// SortNewestFirst orders entries by At descending, ties by ID descending.
func SortNewestFirst(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].At.Equal(entries[j].At) {
			return entries[i].At.After(entries[j].At)
		}
		return entries[i].ID > entries[j].ID
	})
}

// IDSource hands out ULID entry IDs, monotonic within one millisecond.
// It is safe for concurrent use.
type IDSource struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewIDSource creates an ID source backed by crypto/rand.
func NewIDSource() *IDSource {
	return &IDSource{entropy: ulid.Monotonic(rand.Reader, 0)}
}

// Next returns a new ID stamped with the current time.
func (s *IDSource) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Now(), s.entropy).String()
}
