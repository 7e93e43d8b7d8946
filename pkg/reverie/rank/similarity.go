package rank

import (
	"math"

	"github.com/cognicore/reverie/pkg/reverie/tfidf"
)

// Cosine returns the cosine similarity of a and b over the union of their
// terms. It is 0 when either vector has zero norm.
func Cosine(a, b tfidf.Vector) float64 {
	na, nb := a.Norm(), b.Norm()
	if na == 0 || nb == 0 {
		return 0
	}
	return a.Dot(b) / (na * nb)
}

// Levenshtein returns the edit distance between a and b counted in runes,
// with unit-cost insertion, deletion and substitution.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) < len(rb) {
		ra, rb = rb, ra
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// Fuzzy turns the edit distance between title and query into a bonus in
// [0, 1]: 1 - lev/max(1, len(query)), floored at 0.
func Fuzzy(title, query string) float64 {
	qlen := len([]rune(query))
	d := Levenshtein(title, query)
	return math.Max(0, 1-float64(d)/math.Max(1, float64(qlen)))
}
