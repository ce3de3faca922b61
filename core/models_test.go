package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDFromContent(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		a := IDFromContent("3/DOJ-OGR-00001234.pdf")
		b := IDFromContent("3/DOJ-OGR-00001234.pdf")
		assert.Equal(t, a, b)
	})

	t.Run("distinct content yields distinct ids", func(t *testing.T) {
		a := IDFromContent("3/DOJ-OGR-00001234.pdf")
		b := IDFromContent("4/DOJ-OGR-00001234.pdf")
		assert.NotEqual(t, a, b)
	})
}

func TestPageForOffset(t *testing.T) {
	doc := &Document{
		Text:        "page one text\fpage two text\fpage three",
		PageOffsets: []int{14, 28},
	}

	t.Run("offsets before first boundary are page 1", func(t *testing.T) {
		assert.Equal(t, 1, doc.PageForOffset(0))
		assert.Equal(t, 1, doc.PageForOffset(13))
	})

	t.Run("boundary offset starts the next page", func(t *testing.T) {
		assert.Equal(t, 2, doc.PageForOffset(14))
		assert.Equal(t, 3, doc.PageForOffset(28))
	})

	t.Run("offsets past the last boundary stay on the last page", func(t *testing.T) {
		assert.Equal(t, 3, doc.PageForOffset(len(doc.Text)-1))
	})

	t.Run("monotonic in the offset", func(t *testing.T) {
		prev := 0
		for o := 0; o < len(doc.Text); o++ {
			p := doc.PageForOffset(o)
			require.GreaterOrEqual(t, p, prev)
			prev = p
		}
	})

	t.Run("no boundaries means page 1 everywhere", func(t *testing.T) {
		single := &Document{Text: "just one page"}
		assert.Equal(t, 1, single.PageForOffset(0))
		assert.Equal(t, 1, single.PageForOffset(12))
	})
}

func TestPageCount(t *testing.T) {
	t.Run("prefers reported count", func(t *testing.T) {
		doc := &Document{Pages: 7, PageOffsets: []int{10, 20}}
		assert.Equal(t, 7, doc.PageCount())
	})

	t.Run("falls back to offsets", func(t *testing.T) {
		doc := &Document{Text: "abcdefghijklmnopqrstuvwxyz", PageOffsets: []int{10, 20}}
		assert.Equal(t, 3, doc.PageCount())
	})

	t.Run("single page without offsets", func(t *testing.T) {
		doc := &Document{Text: "short"}
		assert.Equal(t, 1, doc.PageCount())
	})
}

func TestParseSortMode(t *testing.T) {
	cases := []struct {
		in   string
		want SortMode
	}{
		{"relevance", SortRelevance},
		{"", SortRelevance},
		{"name", SortName},
		{"filename", SortName},
		{"id", SortId},
		{"dataset", SortId},
	}
	for _, c := range cases {
		got, err := ParseSortMode(c.in)
		require.NoError(t, err)
		assert.Equal(t, c.want, got)
	}

	t.Run("unknown mode", func(t *testing.T) {
		_, err := ParseSortMode("shoe-size")
		assert.ErrorIs(t, err, ErrUnknownSortMode)
	})
}
