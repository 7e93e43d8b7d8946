// Package tfidf builds TF-IDF vector spaces over small document collections.
//
// A Space is a snapshot: its IDF map is computed once from the collection and
// reused for every document vector and every query vector built against it.
// Queries never change the IDF statistics. Vectors from different spaces are
// not comparable; mixing them is a caller error that is not detected.
package tfidf

import (
	"math"
	"sort"

	"github.com/cognicore/reverie/pkg/reverie/ingest"
)

// Vector is a sparse TF-IDF vector. Zero weights are never stored.
type Vector map[string]float64

// Norm returns the L2 norm of v. Squares are summed in term order so the
// result is identical on every call.
func (v Vector) Norm() float64 {
	var sum float64
	for _, term := range v.sortedKeys() {
		w := v[term]
		sum += w * w
	}
	return math.Sqrt(sum)
}

// Dot returns the dot product of v and o, summed in term order over the
// smaller vector. Terms missing from the other side add an exact zero, so
// v.Dot(o) == o.Dot(v).
func (v Vector) Dot(o Vector) float64 {
	if len(o) < len(v) {
		v, o = o, v
	}
	var dot float64
	for _, term := range v.sortedKeys() {
		dot += v[term] * o[term]
	}
	return dot
}

func (v Vector) sortedKeys() []string {
	keys := make([]string, 0, len(v))
	for term := range v {
		keys = append(keys, term)
	}
	sort.Strings(keys)
	return keys
}

// Terms returns the vector's terms sorted by descending weight, ties by term.
func (v Vector) Terms() []string {
	terms := make([]string, 0, len(v))
	for term := range v {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if v[terms[i]] != v[terms[j]] {
			return v[terms[i]] > v[terms[j]]
		}
		return terms[i] < terms[j]
	})
	return terms
}

// IDF maps a term to its inverse document frequency.
type IDF map[string]float64

// Space is the TF-IDF representation of a document collection.
type Space struct {
	IDF     IDF
	Vectors []Vector // one per input document, same order
	DocFreq map[string]int
	N       int
}

// Build tokenizes docs with the index tokenizer and builds their vector space.
func Build(docs []string) *Space {
	tokens := make([][]string, len(docs))
	for i, d := range docs {
		tokens[i] = ingest.IndexTokens(d)
	}
	return BuildTokens(tokens)
}

// BuildTokens builds a vector space from pre-tokenized documents.
//
// idf(t) = ln((N+1)/(df(t)+1)) + 1
// w(t,d) = count(t,d) / max(1, |d|) * idf(t)
func BuildTokens(docs [][]string) *Space {
	tfs := make([]map[string]int, len(docs))
	df := make(map[string]int)
	for i, toks := range docs {
		tf := TermFrequency(toks)
		tfs[i] = tf
		for term := range tf {
			df[term]++
		}
	}

	n := len(docs)
	idf := make(IDF, len(df))
	for term, d := range df {
		idf[term] = SmoothIDF(n, d)
	}

	s := &Space{
		IDF:     idf,
		Vectors: make([]Vector, n),
		DocFreq: df,
		N:       n,
	}
	for i, tf := range tfs {
		s.Vectors[i] = s.weigh(tf)
	}
	return s
}

// SmoothIDF returns ln((n+1)/(df+1)) + 1, positive for every 0 <= df <= n.
func SmoothIDF(n, df int) float64 {
	return math.Log(float64(n+1)/float64(df+1)) + 1
}

// TermFrequency counts token occurrences.
func TermFrequency(tokens []string) map[string]int {
	tf := make(map[string]int, len(tokens))
	for _, t := range tokens {
		tf[t]++
	}
	return tf
}

// Query vectorizes free text against the space's existing IDF.
// Terms unknown to the collection get no weight.
func (s *Space) Query(text string) Vector {
	return s.VectorizeTokens(ingest.IndexTokens(text))
}

// VectorizeTokens weighs tokens against the space's existing IDF.
func (s *Space) VectorizeTokens(tokens []string) Vector {
	return s.weigh(TermFrequency(tokens))
}

func (s *Space) weigh(tf map[string]int) Vector {
	total := 0
	for _, c := range tf {
		total += c
	}
	if total < 1 {
		total = 1
	}

	v := make(Vector, len(tf))
	for term, c := range tf {
		w := float64(c) / float64(total) * s.IDF[term]
		if w > 0 {
			v[term] = w
		}
	}
	return v
}

// Len returns the number of documents in the space.
func (s *Space) Len() int {
	return len(s.Vectors)
}
