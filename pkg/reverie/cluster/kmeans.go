// Package cluster partitions TF-IDF vectors into topic groups with k-means.
package cluster

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/cognicore/reverie/pkg/reverie/internalerr"
	"github.com/cognicore/reverie/pkg/reverie/tfidf"
)

// DefaultIterations is the fixed number of k-means rounds.
const DefaultIterations = 10

// Source picks center indices. *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
}

// NewSource returns a deterministic source for seed.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// Options configures a clustering run.
type Options struct {
	K          int
	Iterations int
	Rand       Source // nil selects the global, randomly seeded source
}

// KMeans assigns each vector a cluster id in [0, K).
//
// Centers start at K input vectors drawn uniformly with replacement, then
// each of the Iterations rounds assigns every point to its nearest center
// (squared Euclidean distance, lowest center index on ties) and moves every
// non-empty cluster's center to the mean of its points. Empty clusters keep
// their previous center. There is no convergence check.
func KMeans(vectors []tfidf.Vector, opts Options) ([]int, error) {
	if opts.K <= 0 {
		return nil, fmt.Errorf("%w: k=%d", internalerr.ErrInvalidClusterCount, opts.K)
	}
	if opts.Iterations < 0 {
		return nil, fmt.Errorf("%w: iterations=%d", internalerr.ErrInvalidInput, opts.Iterations)
	}
	if len(vectors) == 0 {
		return []int{}, nil
	}
	src := opts.Rand
	if src == nil {
		src = globalSource{}
	}

	a := newArena(vectors, opts.K)
	for c := 0; c < a.k; c++ {
		copy(a.center(c), a.point(src.IntN(a.n)))
	}

	assign := make([]int, a.n)
	for it := 0; it < opts.Iterations; it++ {
		for i := 0; i < a.n; i++ {
			assign[i] = a.nearest(a.point(i))
		}
		a.recenter(assign)
	}
	return assign, nil
}

// arena holds every dense buffer of one clustering run in a single
// allocation: n points, k centers and k running sums, each dim wide.
type arena struct {
	n, k, dim int
	buf       []float64
	counts    []int
}

func newArena(vectors []tfidf.Vector, k int) *arena {
	vocab := Vocabulary(vectors)
	n, dim := len(vectors), len(vocab)
	a := &arena{
		n:      n,
		k:      k,
		dim:    dim,
		buf:    make([]float64, (n+2*k)*dim),
		counts: make([]int, k),
	}
	for i, v := range vectors {
		p := a.point(i)
		for term, w := range v {
			p[vocab[term]] = w
		}
	}
	return a
}

func (a *arena) point(i int) []float64 {
	return a.buf[i*a.dim : (i+1)*a.dim]
}

func (a *arena) center(c int) []float64 {
	off := (a.n + c) * a.dim
	return a.buf[off : off+a.dim]
}

func (a *arena) sum(c int) []float64 {
	off := (a.n + a.k + c) * a.dim
	return a.buf[off : off+a.dim]
}

func (a *arena) nearest(p []float64) int {
	best, bestD := 0, math.Inf(1)
	for c := 0; c < a.k; c++ {
		if d := squaredDistance(p, a.center(c)); d < bestD {
			best, bestD = c, d
		}
	}
	return best
}

func (a *arena) recenter(assign []int) {
	for c := 0; c < a.k; c++ {
		clear(a.sum(c))
		a.counts[c] = 0
	}
	for i, c := range assign {
		a.counts[c]++
		s := a.sum(c)
		for j, x := range a.point(i) {
			s[j] += x
		}
	}
	for c := 0; c < a.k; c++ {
		if a.counts[c] == 0 {
			continue
		}
		center, s := a.center(c), a.sum(c)
		inv := 1 / float64(a.counts[c])
		for j := range center {
			center[j] = s[j] * inv
		}
	}
}

func squaredDistance(a, b []float64) float64 {
	var s float64
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s
}

// Vocabulary assigns every distinct term a dimension index in first-seen
// order across vectors. Terms of one vector are visited in sorted order so
// the layout is reproducible.
func Vocabulary(vectors []tfidf.Vector) map[string]int {
	vocab := make(map[string]int)
	for _, v := range vectors {
		terms := make([]string, 0, len(v))
		for term := range v {
			if _, ok := vocab[term]; !ok {
				terms = append(terms, term)
			}
		}
		sort.Strings(terms)
		for _, term := range terms {
			vocab[term] = len(vocab)
		}
	}
	return vocab
}

// ChooseK picks a cluster count for n documents:
// round(sqrt(n/2)) bounded to [2, maxK].
func ChooseK(n, maxK int) int {
	k := int(math.Round(math.Sqrt(float64(n) / 2)))
	k = max(2, k)
	return min(maxK, k)
}

// Buckets groups input indices by cluster id, preserving input order
// within each bucket. Cluster ids without members are absent.
func Buckets(assign []int) map[int][]int {
	out := make(map[int][]int)
	for i, c := range assign {
		out[c] = append(out[c], i)
	}
	return out
}
