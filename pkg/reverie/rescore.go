package reverie

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cognicore/reverie/pkg/reverie/store"
)

// Rescore recomputes the score bundle of every stored entry with the
// current scorer and writes back the ones that changed. It returns the
// number of entries updated.
func (j *Journal) Rescore(ctx context.Context) (int, error) {
	entries, err := j.store.ListEntries(ctx)
	if err != nil {
		return 0, err
	}

	var changed atomic.Int64
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(j.workers)
	for _, e := range entries {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			updated, ok := j.rescoreEntry(e)
			if !ok {
				return nil
			}
			if err := j.store.UpdateEntry(egCtx, updated); err != nil {
				return err
			}
			changed.Add(1)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return int(changed.Load()), err
	}

	j.log.Info("Rescore completed",
		zap.Int("entries", len(entries)),
		zap.Int64("updated", changed.Load()))
	return int(changed.Load()), nil
}

func (j *Journal) rescoreEntry(e store.Entry) (store.Entry, bool) {
	b := j.scorer.Score(e.Text)
	if b == e.Bundle {
		return e, false
	}
	e.Bundle = b
	return e, true
}
