// Package storetest holds the behaviour every store.Store implementation
// must share. Implementations call Run from their own tests.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/reverie/pkg/reverie/internalerr"
	"github.com/cognicore/reverie/pkg/reverie/lexicon"
	"github.com/cognicore/reverie/pkg/reverie/score"
	"github.com/cognicore/reverie/pkg/reverie/store"
)

// Run exercises open() with the shared store contract. open must return a
// fresh, empty store; Run closes it.
func Run(t *testing.T, open func(t *testing.T) store.Store) {
	t.Run("AddGet", func(t *testing.T) { testAddGet(t, open(t)) })
	t.Run("Defaults", func(t *testing.T) { testDefaults(t, open(t)) })
	t.Run("Update", func(t *testing.T) { testUpdate(t, open(t)) })
	t.Run("UpdateMissing", func(t *testing.T) { testUpdateMissing(t, open(t)) })
	t.Run("ListOrder", func(t *testing.T) { testListOrder(t, open(t)) })
	t.Run("Clear", func(t *testing.T) { testClear(t, open(t)) })
	t.Run("Replace", func(t *testing.T) { testReplace(t, open(t)) })
	t.Run("ReplaceFailureKeepsEntries", func(t *testing.T) { testReplaceFailureKeepsEntries(t, open(t)) })
}

var base = time.Date(2024, 5, 2, 6, 30, 0, 0, time.UTC)

func sample() store.Entry {
	return store.Entry{
		At:    base,
		Title: "Falling",
		Text:  "I was falling through a dark house",
		Tags:  "falling house",
		Bundle: score.Bundle{
			Sentiment: -0.5,
			Emotion:   lexicon.Fear,
			RiskIndex: 40,
		},
		CaffeineMG:             120,
		LastMealMinBeforeSleep: 90,
		ScreenMinLastHour:      45,
		WorkoutMin:             20,
		Stress:                 4,
		Lucid:                  true,
	}
}

func testAddGet(t *testing.T, st store.Store) {
	defer st.Close()
	ctx := context.Background()

	added, err := st.AddEntry(ctx, sample())
	require.NoError(t, err)
	require.NotEmpty(t, added.ID)

	got, found, err := st.GetEntry(ctx, added.ID)
	require.NoError(t, err)
	require.True(t, found)

	want := sample()
	want.ID = added.ID
	assert.True(t, want.At.Equal(got.At), "At = %v, want %v", got.At, want.At)
	got.At = want.At
	assert.Equal(t, want, got)

	_, found, err = st.GetEntry(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)
}

func testDefaults(t *testing.T, st store.Store) {
	defer st.Close()
	ctx := context.Background()

	added, err := st.AddEntry(ctx, store.Entry{At: base, Text: "quiet night"})
	require.NoError(t, err)

	got, found, err := st.GetEntry(ctx, added.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Untitled", got.Title)
	assert.Equal(t, store.DefaultStress, got.Stress)
}

func testUpdate(t *testing.T, st store.Store) {
	defer st.Close()
	ctx := context.Background()

	added, err := st.AddEntry(ctx, sample())
	require.NoError(t, err)

	added.Bundle = score.Bundle{Sentiment: 0.25, Emotion: lexicon.Joy, RiskIndex: 3}
	added.Lucid = false
	require.NoError(t, st.UpdateEntry(ctx, added))

	got, _, err := st.GetEntry(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, lexicon.Joy, got.Emotion)
	assert.InDelta(t, 0.25, got.Sentiment, 1e-12)
	assert.Equal(t, 3, got.RiskIndex)
	assert.False(t, got.Lucid)
}

func testUpdateMissing(t *testing.T, st store.Store) {
	defer st.Close()
	e := sample()
	e.ID = "01HZZZZZZZZZZZZZZZZZZZZZZZ"
	err := st.UpdateEntry(context.Background(), e)
	assert.ErrorIs(t, err, internalerr.ErrNotFound)
}

func testListOrder(t *testing.T, st store.Store) {
	defer st.Close()
	ctx := context.Background()

	var ids []string
	for _, offset := range []time.Duration{0, 48 * time.Hour, 24 * time.Hour} {
		e := sample()
		e.At = base.Add(offset)
		added, err := st.AddEntry(ctx, e)
		require.NoError(t, err)
		ids = append(ids, added.ID)
	}
	// Same time as the first entry; the later ID sorts first.
	tie, err := st.AddEntry(ctx, sample())
	require.NoError(t, err)

	list, err := st.ListEntries(ctx)
	require.NoError(t, err)
	require.Len(t, list, 4)

	var got []string
	for _, e := range list {
		got = append(got, e.ID)
	}
	assert.Equal(t, []string{ids[1], ids[2], tie.ID, ids[0]}, got)
}

func testClear(t *testing.T, st store.Store) {
	defer st.Close()
	ctx := context.Background()

	for range 3 {
		_, err := st.AddEntry(ctx, sample())
		require.NoError(t, err)
	}
	require.NoError(t, st.Clear(ctx))

	list, err := st.ListEntries(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func testReplace(t *testing.T, st store.Store) {
	defer st.Close()
	ctx := context.Background()

	old, err := st.AddEntry(ctx, sample())
	require.NoError(t, err)

	a, b := sample(), sample()
	a.Title = "Ocean"
	b.Title = ""
	b.At = base.Add(time.Hour)
	stored, err := st.Replace(ctx, []store.Entry{a, b})
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.NotEmpty(t, stored[0].ID)
	assert.NotEqual(t, stored[0].ID, stored[1].ID)
	assert.Equal(t, "Untitled", stored[1].Title)

	_, found, err := st.GetEntry(ctx, old.ID)
	require.NoError(t, err)
	assert.False(t, found)

	list, err := st.ListEntries(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, stored[1].ID, list[0].ID)
	assert.Equal(t, "Ocean", list[1].Title)
}

func testReplaceFailureKeepsEntries(t *testing.T, st store.Store) {
	defer st.Close()

	old, err := st.AddEntry(context.Background(), sample())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = st.Replace(ctx, []store.Entry{sample(), sample()})
	require.Error(t, err)

	list, err := st.ListEntries(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, old.ID, list[0].ID)
}
