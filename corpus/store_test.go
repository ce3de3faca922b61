package corpus

import (
	"context"
	"errors"
	"testing"

	"github.com/phelgetar/docgrep/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	docs []*core.Document
	err  error
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Load(_ context.Context) ([]*core.Document, error) {
	if s.err != nil {
		return nil, s.err
	}
	// Hand out copies so reloads build independent snapshots.
	out := make([]*core.Document, len(s.docs))
	for i, d := range s.docs {
		c := *d
		out[i] = &c
	}
	return out, nil
}

func testDocs() []*core.Document {
	return []*core.Document{
		{Dataset: 1, Filename: "flight_log.pdf", Text: "the island flight log"},
		{Dataset: 2, Filename: "deposition.pdf", Text: "Maxwell visited the island", PageOffsets: []int{12}},
	}
}

func TestNewStore(t *testing.T) {
	t.Run("nil source", func(t *testing.T) {
		_, err := NewStore(nil)
		assert.Equal(t, ErrSourceRequired, err)
	})

	t.Run("snapshot is nil before load", func(t *testing.T) {
		store, err := NewStore(&stubSource{docs: testDocs()})
		require.NoError(t, err)
		assert.Nil(t, store.Snapshot())
		assert.Equal(t, 0, store.Snapshot().Len())
		assert.Empty(t, store.Snapshot().All())
	})
}

func TestStoreLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("loads and indexes documents", func(t *testing.T) {
		store, err := NewStore(&stubSource{docs: testDocs()})
		require.NoError(t, err)
		require.NoError(t, store.Load(ctx))

		snap := store.Snapshot()
		require.NotNil(t, snap)
		assert.Equal(t, 2, snap.Len())
		assert.Equal(t, uint64(1), snap.Generation())

		doc := snap.All()[1]
		assert.NotZero(t, doc.Id)
		assert.Same(t, doc, snap.Get(doc.Id))
		assert.Len(t, snap.Filter(2), 1)
		assert.Empty(t, snap.Filter(99))
	})

	t.Run("unreadable source", func(t *testing.T) {
		store, err := NewStore(&stubSource{err: errors.New("disk gone")})
		require.NoError(t, err)
		err = store.Load(ctx)
		assert.ErrorIs(t, err, ErrUnavailable)
		assert.Nil(t, store.Snapshot())
	})

	t.Run("empty source", func(t *testing.T) {
		store, err := NewStore(&stubSource{})
		require.NoError(t, err)
		assert.ErrorIs(t, store.Load(ctx), ErrUnavailable)
	})

	t.Run("invalid documents are skipped", func(t *testing.T) {
		docs := testDocs()
		docs = append(docs, &core.Document{
			Dataset:     3,
			Filename:    "broken.pdf",
			Text:        "short",
			PageOffsets: []int{100}, // past end of text
		})
		store, err := NewStore(&stubSource{docs: docs})
		require.NoError(t, err)
		require.NoError(t, store.Load(ctx))
		assert.Equal(t, 2, store.Snapshot().Len())
	})
}

func TestStoreReload(t *testing.T) {
	ctx := context.Background()

	t.Run("swaps in a new generation", func(t *testing.T) {
		src := &stubSource{docs: testDocs()}
		store, err := NewStore(src)
		require.NoError(t, err)
		require.NoError(t, store.Load(ctx))

		before := store.Snapshot()
		src.docs = append(testDocs(), &core.Document{
			Dataset: 3, Filename: "new.pdf", Text: "fresh material",
		})
		require.NoError(t, store.Reload(ctx))

		after := store.Snapshot()
		assert.Equal(t, 3, after.Len())
		assert.Greater(t, after.Generation(), before.Generation())

		// The old snapshot is untouched; in-flight queries keep using it.
		assert.Equal(t, 2, before.Len())
	})

	t.Run("failed reload keeps previous snapshot", func(t *testing.T) {
		src := &stubSource{docs: testDocs()}
		store, err := NewStore(src)
		require.NoError(t, err)
		require.NoError(t, store.Load(ctx))

		before := store.Snapshot()
		src.err = errors.New("artifact vanished")
		err = store.Reload(ctx)
		assert.ErrorIs(t, err, ErrUnavailable)
		assert.Same(t, before, store.Snapshot())
	})
}

func TestSnapshotStats(t *testing.T) {
	ctx := context.Background()
	store, err := NewStore(&stubSource{docs: testDocs()})
	require.NoError(t, err)
	require.NoError(t, store.Load(ctx))

	snap := store.Snapshot()
	assert.ElementsMatch(t, []int{1, 2}, snap.Datasets())
	assert.Equal(t, 3, snap.TotalPages()) // 1 page + 2 pages
	assert.False(t, snap.LoadedAt().IsZero())
}
