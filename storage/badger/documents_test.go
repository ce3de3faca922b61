package badger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phelgetar/docgrep/core"
	"github.com/phelgetar/docgrep/storage"
)

func newTestStore(t *testing.T) storage.DocumentRepository {
	t.Helper()
	store, backend, err := NewMemoryDocumentStore()
	require.NoError(t, err)
	t.Cleanup(func() {
		store.Close()
		backend.Close()
	})
	return store
}

func testDocuments() []*core.Document {
	return []*core.Document{
		{
			Id:          1,
			Dataset:     3,
			Filename:    "flight-log.txt",
			Filepath:    "texts/flight-log.txt",
			Pages:       2,
			Text:        "manifest page one\fmanifest page two",
			PageOffsets: []int{18},
		},
		{
			Id:       2,
			Dataset:  3,
			Filename: "deposition.txt",
			Filepath: "texts/deposition.txt",
			Pages:    1,
			Text:     "sworn testimony",
		},
		{
			Id:       3,
			Dataset:  5,
			Filename: "exhibit-a.txt",
			Filepath: "texts/exhibit-a.txt",
			Pages:    1,
			Text:     "photograph of the island",
		},
	}
}

func TestDocumentStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	docs := testDocuments()

	info := storage.BuildInfo{
		SourcePath:    "corpus.json",
		SourceModTime: time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
		BuiltAt:       time.Date(2026, 1, 15, 10, 1, 0, 0, time.UTC),
	}
	require.NoError(t, store.Replace(ctx, docs, info))

	t.Run("load returns documents in insertion order", func(t *testing.T) {
		loaded, err := store.Load(ctx)
		require.NoError(t, err)
		require.Len(t, loaded, 3)
		for i, doc := range docs {
			assert.Equal(t, doc, loaded[i])
		}
	})

	t.Run("count", func(t *testing.T) {
		count, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, count)
	})

	t.Run("info records document count", func(t *testing.T) {
		got, err := store.Info(ctx)
		require.NoError(t, err)
		assert.Equal(t, "corpus.json", got.SourcePath)
		assert.Equal(t, 3, got.Documents)
		assert.True(t, got.SourceModTime.Equal(info.SourceModTime))
	})
}

func TestDocumentStoreNotBuilt(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("load", func(t *testing.T) {
		_, err := store.Load(ctx)
		assert.ErrorIs(t, err, storage.ErrNotBuilt)
	})

	t.Run("info", func(t *testing.T) {
		_, err := store.Info(ctx)
		assert.ErrorIs(t, err, storage.ErrNotBuilt)
	})

	t.Run("count is zero", func(t *testing.T) {
		count, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})
}

func TestDocumentStoreReplaceDropsPrevious(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Replace(ctx, testDocuments(), storage.BuildInfo{SourcePath: "v1.json"}))

	next := []*core.Document{
		{Id: 9, Dataset: 1, Filename: "single.txt", Text: "only record"},
	}
	require.NoError(t, store.Replace(ctx, next, storage.BuildInfo{SourcePath: "v2.json"}))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, core.ID(9), loaded[0].Id)

	info, err := store.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, "v2.json", info.SourcePath)
	assert.Equal(t, 1, info.Documents)
}

func TestDocumentStoreCancelledContext(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Replace(context.Background(), testDocuments(), storage.BuildInfo{}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
