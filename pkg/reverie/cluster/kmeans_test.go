package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/reverie/pkg/reverie/internalerr"
	"github.com/cognicore/reverie/pkg/reverie/tfidf"
)

// scripted replays fixed center picks.
type scripted struct {
	picks []int
	i     int
}

func (s *scripted) IntN(n int) int {
	p := s.picks[s.i%len(s.picks)] % n
	s.i++
	return p
}

func sampleVectors() []tfidf.Vector {
	return []tfidf.Vector{
		{"cat": 1},
		{"cat": 0.9},
		{"dog": 1},
		{"dog": 0.8},
		{"cat": 0.2, "dog": 0.1},
	}
}

func TestKMeansSingleCluster(t *testing.T) {
	got, err := KMeans(sampleVectors(), Options{K: 1, Iterations: DefaultIterations, Rand: NewSource(1)})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 0, 0, 0}, got)
}

func TestKMeansIDsInRange(t *testing.T) {
	vecs := sampleVectors()
	for k := 1; k <= 7; k++ {
		got, err := KMeans(vecs, Options{K: k, Iterations: DefaultIterations, Rand: NewSource(uint64(k))})
		require.NoError(t, err)
		require.Len(t, got, len(vecs))
		for _, id := range got {
			assert.GreaterOrEqual(t, id, 0)
			assert.Less(t, id, k)
		}
	}
}

func TestKMeansSeededDeterminism(t *testing.T) {
	vecs := sampleVectors()
	a, err := KMeans(vecs, Options{K: 3, Iterations: DefaultIterations, Rand: NewSource(7)})
	require.NoError(t, err)
	b, err := KMeans(vecs, Options{K: 3, Iterations: DefaultIterations, Rand: NewSource(7)})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestKMeansSeparatesGroups(t *testing.T) {
	vecs := sampleVectors()[:4]
	got, err := KMeans(vecs, Options{K: 2, Iterations: DefaultIterations, Rand: &scripted{picks: []int{0, 2}}})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 1, 1}, got)
}

func TestKMeansDuplicateCentersTieToLowest(t *testing.T) {
	// Both centers start on the same point; every tie goes to center 0 and
	// center 1 stays empty for the whole run.
	got, err := KMeans(sampleVectors(), Options{K: 2, Iterations: DefaultIterations, Rand: &scripted{picks: []int{0}}})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 0, 0, 0}, got)
}

func TestKMeansZeroIterations(t *testing.T) {
	got, err := KMeans(sampleVectors(), Options{K: 3, Rand: NewSource(3)})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 0, 0, 0}, got)
}

func TestKMeansMoreClustersThanPoints(t *testing.T) {
	vecs := sampleVectors()[:2]
	got, err := KMeans(vecs, Options{K: 5, Iterations: DefaultIterations, Rand: NewSource(9)})
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, id := range got {
		assert.Less(t, id, 5)
	}
}

func TestKMeansEmptyInput(t *testing.T) {
	got, err := KMeans(nil, Options{K: 3, Iterations: DefaultIterations})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestKMeansEmptyVectors(t *testing.T) {
	vecs := []tfidf.Vector{{}, {}, {}}
	got, err := KMeans(vecs, Options{K: 2, Iterations: DefaultIterations, Rand: NewSource(1)})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 0}, got)
}

func TestKMeansInvalidK(t *testing.T) {
	for _, k := range []int{0, -1} {
		_, err := KMeans(sampleVectors(), Options{K: k, Iterations: DefaultIterations})
		assert.ErrorIs(t, err, internalerr.ErrInvalidClusterCount)
	}
}

func TestKMeansNegativeIterations(t *testing.T) {
	_, err := KMeans(sampleVectors(), Options{K: 2, Iterations: -1})
	assert.ErrorIs(t, err, internalerr.ErrInvalidInput)
}

func TestVocabularyOrder(t *testing.T) {
	vocab := Vocabulary([]tfidf.Vector{
		{"zebra": 1, "apple": 1},
		{"apple": 1, "mango": 1},
	})
	assert.Equal(t, map[string]int{"apple": 0, "zebra": 1, "mango": 2}, vocab)
}

func TestChooseK(t *testing.T) {
	cases := []struct {
		n, maxK, want int
	}{
		{3, 5, 2},
		{8, 5, 2},
		{18, 5, 3},
		{32, 5, 4},
		{50, 5, 5},
		{500, 5, 5},
		{500, 8, 8},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ChooseK(tc.n, tc.maxK), "n=%d maxK=%d", tc.n, tc.maxK)
	}
}

func TestBuckets(t *testing.T) {
	got := Buckets([]int{1, 0, 1, 2, 0})
	assert.Equal(t, map[int][]int{0: {1, 4}, 1: {0, 2}, 2: {3}}, got)
}
