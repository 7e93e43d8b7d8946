package rank

import (
	"math"
	"testing"

	"github.com/cognicore/reverie/pkg/reverie/ingest"
	"github.com/cognicore/reverie/pkg/reverie/tfidf"
)

func TestRankCatQuery(t *testing.T) {
	docs := []string{
		"the cat sat on the mat",
		"the dog sat on the log",
		"cats and dogs are pets",
	}
	space := tfidf.Build(docs)
	ranker := NewRanker(DefaultWeights(), 0)

	results := ranker.Rank(space, nil, "cat")
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	pos := make(map[int]int)
	for p, r := range results {
		pos[r.Index] = p
	}
	if pos[0] > pos[1] {
		t.Errorf("document 1 should rank above document 2: %+v", results)
	}
	if results[0].Index != 0 {
		t.Errorf("top result = %d, want 0", results[0].Index)
	}
}

func TestRankStableOnTies(t *testing.T) {
	space := tfidf.Build([]string{"alpha", "beta", "gamma", "delta"})
	ranker := NewRanker(DefaultWeights(), 10)

	results := ranker.Rank(space, nil, "unrelated")
	for i, r := range results {
		if r.Index != i {
			t.Fatalf("tied results should keep input order, got %+v", results)
		}
		if r.Score != 0 {
			t.Errorf("score = %v, want 0", r.Score)
		}
	}
}

func TestRankIdenticalDocumentsKeepInputOrder(t *testing.T) {
	doc := "attic bridge candle door echo forest ghost hallway island jungle key ladder mirror night"
	docs := []string{"quiet meadow", doc, doc, doc, doc, doc, doc}
	space := tfidf.Build(docs)
	ranker := NewRanker(Weights{Cosine: 1}, 0)

	for run := 0; run < 200; run++ {
		results := ranker.Rank(space, nil, "ghost door mirror candle night echo")
		for i := 0; i < 6; i++ {
			if results[i].Index != i+1 {
				t.Fatalf("run %d: identical documents out of input order: %+v", run, results[:6])
			}
		}
	}
}

func TestRankZeroTermQuery(t *testing.T) {
	space := tfidf.Build([]string{"the cat sat", "the dog ran"})
	ranker := NewRanker(Weights{Cosine: 1}, 0)

	for _, r := range ranker.Rank(space, nil, "!!") {
		if r.Score != 0 {
			t.Errorf("zero-term query should score 0, got %+v", r)
		}
	}
}

func TestRankTitleBonus(t *testing.T) {
	space := tfidf.Build([]string{"walking in a forest", "walking in a forest"})
	titles := []string{"Forest", "Lake"}
	ranker := NewRanker(DefaultWeights(), 0)

	results := ranker.Rank(space, titles, "Forest")
	if results[0].Index != 0 {
		t.Fatalf("title match should win the tie: %+v", results)
	}
	if math.Abs(results[0].Breakdown.Fuzzy-0.15) > 1e-12 {
		t.Errorf("fuzzy component = %v, want 0.15", results[0].Breakdown.Fuzzy)
	}
	if results[0].Breakdown.Total != results[0].Breakdown.Cosine+results[0].Breakdown.Fuzzy {
		t.Error("total should equal sum of components")
	}
	if results[0].Score != results[0].Breakdown.Total {
		t.Error("score should equal breakdown total")
	}
}

func TestRankLimit(t *testing.T) {
	docs := make([]string, 30)
	for i := range docs {
		docs[i] = "recurring dream about water"
	}
	space := tfidf.Build(docs)

	if got := len(NewRanker(DefaultWeights(), 0).Rank(space, nil, "water")); got != DefaultLimit {
		t.Errorf("default limit: got %d results, want %d", got, DefaultLimit)
	}
	if got := len(NewRanker(DefaultWeights(), 5).Rank(space, nil, "water")); got != 5 {
		t.Errorf("got %d results, want 5", got)
	}
}

func TestRankEmptySpace(t *testing.T) {
	results := NewRanker(DefaultWeights(), 0).Rank(tfidf.Build(nil), nil, "cat")
	if len(results) != 0 {
		t.Errorf("expected no results, got %v", results)
	}
}

func TestQueryMatchedTokens(t *testing.T) {
	q := Query{Text: "cat cat dog", Tokens: ingest.IndexTokens("cat cat dog bird")}
	doc := tfidf.Vector{"cat": 1, "bird": 0.5}

	got := q.MatchedTokens(doc)
	if len(got) != 2 || got[0] != "cat" || got[1] != "bird" {
		t.Errorf("MatchedTokens = %v, want [cat bird]", got)
	}
}
