package rank

import (
	"sort"
	"strings"

	"github.com/cognicore/reverie/pkg/reverie/tfidf"
)

// DefaultLimit is the number of results returned when no limit is given.
const DefaultLimit = 20

// Weights defines the scoring weights
type Weights struct {
	Cosine float64 // TF-IDF cosine similarity against the full text
	Fuzzy  float64 // edit-distance bonus against the title
}

// DefaultWeights returns the standard 0.85 / 0.15 blend.
func DefaultWeights() Weights {
	return Weights{Cosine: 0.85, Fuzzy: 0.15}
}

// Ranker scores a document collection against a query.
type Ranker struct {
	weights Weights
	limit   int
}

// NewRanker creates a ranker. A limit of 0 or less selects DefaultLimit.
func NewRanker(w Weights, limit int) *Ranker {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Ranker{weights: w, limit: limit}
}

// ScoreBreakdown provides detailed scoring information
type ScoreBreakdown struct {
	Cosine float64 `json:"cosine"`
	Fuzzy  float64 `json:"fuzzy"`
	Total  float64 `json:"total"`
}

// Result is one ranked document, identified by its position in the input.
type Result struct {
	Index     int            `json:"index"`
	Score     float64        `json:"score"`
	Breakdown ScoreBreakdown `json:"breakdown"`
}

// Rank scores every document of space against query and returns the best
// results, highest score first; equal scores keep input order.
//
// titles[i] is the title of the document behind space.Vectors[i]; a missing
// title counts as empty. The query is vectorized with the space's own IDF.
// A query without indexed terms scores 0 on cosine for every document.
func (r *Ranker) Rank(space *tfidf.Space, titles []string, query string) []Result {
	q := strings.ToLower(strings.TrimSpace(query))
	qv := space.Query(q)

	results := make([]Result, len(space.Vectors))
	for i, dv := range space.Vectors {
		title := ""
		if i < len(titles) {
			title = strings.ToLower(titles[i])
		}
		results[i] = r.score(i, dv, qv, title, q)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > r.limit {
		results = results[:r.limit]
	}
	return results
}

func (r *Ranker) score(index int, doc, query tfidf.Vector, title, q string) Result {
	b := ScoreBreakdown{
		Cosine: r.weights.Cosine * Cosine(doc, query),
		Fuzzy:  r.weights.Fuzzy * Fuzzy(title, q),
	}
	b.Total = b.Cosine + b.Fuzzy
	return Result{Index: index, Score: b.Total, Breakdown: b}
}

// Query holds the tokens of a search query, for explaining matches.
type Query struct {
	Text   string
	Tokens []string
}

// MatchedTokens returns the query tokens present in doc, in query order.
func (q Query) MatchedTokens(doc tfidf.Vector) []string {
	var out []string
	seen := make(map[string]bool, len(q.Tokens))
	for _, t := range q.Tokens {
		if seen[t] {
			continue
		}
		seen[t] = true
		if _, ok := doc[t]; ok {
			out = append(out, t)
		}
	}
	return out
}
