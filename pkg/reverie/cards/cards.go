package cards

import (
	"crypto/rand"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/reverie/pkg/reverie/rank"
	"github.com/cognicore/reverie/pkg/reverie/score"
	"github.com/cognicore/reverie/pkg/reverie/tfidf"
)

// MaxSampleTitles caps the titles shown on a topic card.
const MaxSampleTitles = 6

// DefaultTopTerms is the number of terms listed on a topic card.
const DefaultTopTerms = 5

// Builder constructs explainable result cards
type Builder struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// New creates a new card builder
func New() *Builder {
	return &Builder{
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

func (b *Builder) nextID() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return ulid.MustNew(ulid.Now(), b.entropy).String()
}

// EntryRef points back at a stored entry
type EntryRef struct {
	ID string    `json:"id"`
	At time.Time `json:"at"`
}

// Explain provides transparency into retrieval
type Explain struct {
	QueryTokens   []string `json:"query_tokens"`
	MatchedTokens []string `json:"matched_tokens"`
}

// SearchCard is one ranked search hit.
type SearchCard struct {
	ID             string             `json:"id"`
	Title          string             `json:"title"`
	Entry          EntryRef           `json:"entry"`
	Score          float64            `json:"score"`
	ScoreBreakdown map[string]float64 `json:"score_breakdown"`
	Scores         score.Bundle       `json:"scores"`
	Explain        Explain            `json:"explain"`
}

// ScoredEntry is a ranked entry with the data needed to explain its rank.
type ScoredEntry struct {
	Entry  EntryRef
	Title  string
	Scores score.Bundle
	Vector tfidf.Vector
	Result rank.Result
}

// Search builds the card for one ranked hit.
func (b *Builder) Search(hit ScoredEntry, query rank.Query) SearchCard {
	matched := query.MatchedTokens(hit.Vector)
	if matched == nil {
		matched = []string{}
	}
	return SearchCard{
		ID:    b.nextID(),
		Title: hit.Title,
		Entry: hit.Entry,
		Score: hit.Result.Score,
		ScoreBreakdown: map[string]float64{
			"cosine": hit.Result.Breakdown.Cosine,
			"fuzzy":  hit.Result.Breakdown.Fuzzy,
		},
		Scores: hit.Scores,
		Explain: Explain{
			QueryTokens:   query.Tokens,
			MatchedTokens: matched,
		},
	}
}

// Member is one entry of a topic cluster.
type Member struct {
	Entry  EntryRef
	Title  string
	Vector tfidf.Vector
}

// TopicCard summarizes one cluster.
type TopicCard struct {
	ID       string     `json:"id"`
	Label    string     `json:"label"`
	Size     int        `json:"size"`
	Titles   []string   `json:"titles"`
	TopTerms []string   `json:"top_terms"`
	Entries  []EntryRef `json:"entries"`
}

// Topic builds the card of the cluster at 0-based position index. Up to
// MaxSampleTitles titles are shown, in member order; top terms rank by
// TF-IDF weight summed over the members.
func (b *Builder) Topic(index int, members []Member, terms int) TopicCard {
	if terms <= 0 {
		terms = DefaultTopTerms
	}
	card := TopicCard{
		ID:       b.nextID(),
		Label:    fmt.Sprintf("Topic %d", index+1),
		Size:     len(members),
		Titles:   make([]string, 0, min(len(members), MaxSampleTitles)),
		TopTerms: []string{},
		Entries:  make([]EntryRef, 0, len(members)),
	}

	sums := make(map[string]float64)
	for i, m := range members {
		if i < MaxSampleTitles {
			card.Titles = append(card.Titles, m.Title)
		}
		card.Entries = append(card.Entries, m.Entry)
		for term, w := range m.Vector {
			sums[term] += w
		}
	}

	ranked := make([]string, 0, len(sums))
	for term := range sums {
		ranked = append(ranked, term)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if sums[ranked[i]] != sums[ranked[j]] {
			return sums[ranked[i]] > sums[ranked[j]]
		}
		return ranked[i] < ranked[j]
	})
	if len(ranked) > terms {
		ranked = ranked[:terms]
	}
	card.TopTerms = append(card.TopTerms, ranked...)
	return card
}
