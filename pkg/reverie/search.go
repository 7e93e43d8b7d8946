package reverie

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/cognicore/reverie/pkg/reverie/cards"
	"github.com/cognicore/reverie/pkg/reverie/ingest"
	"github.com/cognicore/reverie/pkg/reverie/internalerr"
	"github.com/cognicore/reverie/pkg/reverie/rank"
	"github.com/cognicore/reverie/pkg/reverie/store"
	"github.com/cognicore/reverie/pkg/reverie/tfidf"
)

// Search ranks every entry against query and returns one card per hit,
// best first.
func (j *Journal) Search(ctx context.Context, query string) ([]cards.SearchCard, error) {
	if strings.TrimSpace(query) == "" {
		return nil, internalerr.ErrEmptyQuery
	}
	entries, err := j.store.ListEntries(ctx)
	if err != nil {
		return nil, err
	}

	space, titles := buildSpace(entries)
	results := j.ranker.Rank(space, titles, query)
	q := rank.Query{
		Text:   query,
		Tokens: ingest.IndexTokens(query),
	}

	out := make([]cards.SearchCard, 0, len(results))
	for _, r := range results {
		e := entries[r.Index]
		out = append(out, j.cards.Search(cards.ScoredEntry{
			Entry:  cards.EntryRef{ID: e.ID, At: e.At},
			Title:  e.Title,
			Scores: e.Bundle,
			Vector: space.Vectors[r.Index],
			Result: r,
		}, q))
	}
	j.log.Debug("Search completed",
		zap.String("query", query),
		zap.Int("entries", len(entries)),
		zap.Int("results", len(out)))
	return out, nil
}

// Filter returns the entries whose title or text contains query and whose
// tags contain tag, case-insensitively. An empty query or tag matches
// everything.
func (j *Journal) Filter(ctx context.Context, query, tag string) ([]store.Entry, error) {
	entries, err := j.store.ListEntries(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	tag = strings.ToLower(tag)

	out := make([]store.Entry, 0, len(entries))
	for _, e := range entries {
		hitQ := q == "" || strings.Contains(strings.ToLower(e.Title), q) || strings.Contains(strings.ToLower(e.Text), q)
		hitT := tag == "" || strings.Contains(strings.ToLower(e.Tags), tag)
		if hitQ && hitT {
			out = append(out, e)
		}
	}
	return out, nil
}

func buildSpace(entries []store.Entry) (*tfidf.Space, []string) {
	docs := make([]string, len(entries))
	titles := make([]string, len(entries))
	for i, e := range entries {
		docs[i] = e.Doc().Searchable()
		titles[i] = e.Title
	}
	return tfidf.Build(docs), titles
}
