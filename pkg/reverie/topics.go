package reverie

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/cognicore/reverie/pkg/reverie/cards"
	"github.com/cognicore/reverie/pkg/reverie/cluster"
	"github.com/cognicore/reverie/pkg/reverie/internalerr"
)

// Topics clusters all entries and returns one card per non-empty cluster,
// in cluster order.
func (j *Journal) Topics(ctx context.Context) ([]cards.TopicCard, error) {
	entries, err := j.store.ListEntries(ctx)
	if err != nil {
		return nil, err
	}
	if len(entries) < j.cluster.MinEntries {
		return nil, fmt.Errorf("%w: have %d, need %d", internalerr.ErrTooFewEntries, len(entries), j.cluster.MinEntries)
	}

	space, _ := buildSpace(entries)
	k := cluster.ChooseK(len(entries), j.cluster.MaxK)

	j.randMu.Lock()
	assign, err := cluster.KMeans(space.Vectors, cluster.Options{
		K:          k,
		Iterations: j.cluster.Iterations,
		Rand:       j.rand,
	})
	j.randMu.Unlock()
	if err != nil {
		return nil, err
	}

	buckets := cluster.Buckets(assign)
	ids := make([]int, 0, len(buckets))
	for id := range buckets {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]cards.TopicCard, 0, len(ids))
	for _, id := range ids {
		members := make([]cards.Member, 0, len(buckets[id]))
		for _, i := range buckets[id] {
			e := entries[i]
			members = append(members, cards.Member{
				Entry:  cards.EntryRef{ID: e.ID, At: e.At},
				Title:  e.Title,
				Vector: space.Vectors[i],
			})
		}
		out = append(out, j.cards.Topic(id, members, cards.DefaultTopTerms))
	}
	j.log.Debug("Topics clustered", zap.Int("entries", len(entries)), zap.Int("k", k), zap.Int("topics", len(out)))
	return out, nil
}
