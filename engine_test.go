package docgrep

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phelgetar/docgrep/core"
	"github.com/phelgetar/docgrep/search"
)

type memSource struct {
	docs []*core.Document
}

func (s *memSource) Name() string { return "memory" }

func (s *memSource) Load(ctx context.Context) ([]*core.Document, error) {
	return s.docs, nil
}

func TestEngine(t *testing.T) {
	ctx := context.Background()
	source := &memSource{docs: []*core.Document{
		{Dataset: 1, Filename: "a.txt", Text: "the pilot flew to the island"},
		{Dataset: 1, Filename: "b.txt", Text: "nothing relevant here"},
	}}

	engine, err := NewEngine(ctx, source)
	require.NoError(t, err)
	defer engine.Close()

	t.Run("search", func(t *testing.T) {
		results, err := engine.Search(ctx, "pilot AND island", search.Options{})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "a.txt", results[0].Document.Filename)
	})

	t.Run("stats", func(t *testing.T) {
		stats := engine.Stats()
		assert.Equal(t, 2, stats.Documents)
		assert.Equal(t, []int{1}, stats.Datasets)
		assert.Equal(t, uint64(1), stats.Generation)
		assert.False(t, stats.LoadedAt.IsZero())
	})

	t.Run("reload bumps generation", func(t *testing.T) {
		source.docs = append(source.docs, &core.Document{
			Dataset: 2, Filename: "c.txt", Text: "island again",
		})
		require.NoError(t, engine.Reload(ctx))

		stats := engine.Stats()
		assert.Equal(t, 3, stats.Documents)
		assert.Equal(t, uint64(2), stats.Generation)

		results, err := engine.Search(ctx, "island", search.Options{})
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})
}

func TestNewEngineFailsWhenSourceFails(t *testing.T) {
	_, err := NewEngine(context.Background(), &memSource{})
	assert.Error(t, err)
}
