package search

import (
	"context"
	"math"
	"testing"

	"github.com/phelgetar/docgrep/core"
	"github.com/phelgetar/docgrep/corpus"
	"github.com/phelgetar/docgrep/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memSource struct {
	docs []*core.Document
}

func (m *memSource) Name() string { return "mem" }

func (m *memSource) Load(_ context.Context) ([]*core.Document, error) {
	out := make([]*core.Document, len(m.docs))
	for i, d := range m.docs {
		c := *d
		out[i] = &c
	}
	return out, nil
}

func newTestSearcher(t *testing.T, docs ...*core.Document) *Searcher {
	t.Helper()
	store, err := corpus.NewStore(&memSource{docs: docs})
	require.NoError(t, err)
	require.NoError(t, store.Load(context.Background()))
	searcher, err := NewSearcher(store)
	require.NoError(t, err)
	t.Cleanup(searcher.Close)
	return searcher
}

func scenarioDocs() []*core.Document {
	return []*core.Document{
		{Dataset: 1, Filename: "flight_log.pdf", Text: "the island flight log"},
		{Dataset: 1, Filename: "deposition.pdf", Text: "Maxwell visited the island", PageOffsets: []int{12}},
	}
}

func filenames(results []*core.SearchResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Document.Filename
	}
	return out
}

func TestNewSearcher(t *testing.T) {
	t.Run("nil store", func(t *testing.T) {
		_, err := NewSearcher(nil)
		assert.Equal(t, ErrStoreRequired, err)
	})

	t.Run("with options", func(t *testing.T) {
		store, err := corpus.NewStore(&memSource{docs: scenarioDocs()})
		require.NoError(t, err)
		searcher, err := NewSearcher(store, WithPoolSize(2), WithSnippetWindow(100), WithLogger(nil))
		require.NoError(t, err)
		defer searcher.Close()
		assert.NotNil(t, searcher)
	})
}

func TestSearchBoolean(t *testing.T) {
	ctx := context.Background()
	s := newTestSearcher(t, scenarioDocs()...)

	t.Run("AND requires both sides", func(t *testing.T) {
		results, err := s.Search(ctx, "island AND Maxwell", Options{})
		require.NoError(t, err)
		assert.Equal(t, []string{"deposition.pdf"}, filenames(results))
	})

	t.Run("OR includes either side", func(t *testing.T) {
		results, err := s.Search(ctx, "island OR flight", Options{})
		require.NoError(t, err)
		// flight_log matches both terms so it scores higher.
		assert.Equal(t, []string{"flight_log.pdf", "deposition.pdf"}, filenames(results))
	})

	t.Run("OR superset of AND superset of intersection", func(t *testing.T) {
		orRes, err := s.Search(ctx, "island OR Maxwell", Options{})
		require.NoError(t, err)
		andRes, err := s.Search(ctx, "island AND Maxwell", Options{})
		require.NoError(t, err)
		assert.Subset(t, filenames(orRes), filenames(andRes))
	})

	t.Run("bare NOT returns the complement", func(t *testing.T) {
		matched, err := s.Search(ctx, "Maxwell", Options{})
		require.NoError(t, err)
		complement, err := s.Search(ctx, "NOT Maxwell", Options{})
		require.NoError(t, err)
		assert.ElementsMatch(t,
			[]string{"flight_log.pdf", "deposition.pdf"},
			append(filenames(matched), filenames(complement)...))
	})

	t.Run("AND NOT excludes", func(t *testing.T) {
		results, err := s.Search(ctx, "island AND NOT Maxwell", Options{})
		require.NoError(t, err)
		assert.Equal(t, []string{"flight_log.pdf"}, filenames(results))
	})

	t.Run("zero matches is success", func(t *testing.T) {
		results, err := s.Search(ctx, `"grand jury"`, Options{})
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("syntax error is not zero results", func(t *testing.T) {
		_, err := s.Search(ctx, `"grand jury`, Options{})
		var serr *query.SyntaxError
		assert.ErrorAs(t, err, &serr)
	})
}

func TestSearchNear(t *testing.T) {
	ctx := context.Background()
	s := newTestSearcher(t, scenarioDocs()...)

	t.Run("distance counts words between", func(t *testing.T) {
		// "Maxwell visited the island": two words between.
		results, err := s.Search(ctx, "Maxwell NEAR/1 island", Options{})
		require.NoError(t, err)
		assert.Empty(t, results)

		results, err = s.Search(ctx, "Maxwell NEAR/2 island", Options{})
		require.NoError(t, err)
		assert.Equal(t, []string{"deposition.pdf"}, filenames(results))
	})

	t.Run("NEAR/0 means adjacent", func(t *testing.T) {
		s := newTestSearcher(t,
			&core.Document{Dataset: 1, Filename: "adjacent.pdf", Text: "the grand jury convened"},
			&core.Document{Dataset: 1, Filename: "apart.pdf", Text: "grand scheme of the jury"},
		)
		results, err := s.Search(ctx, "grand NEAR/0 jury", Options{})
		require.NoError(t, err)
		assert.Equal(t, []string{"adjacent.pdf"}, filenames(results))
	})

	t.Run("either direction", func(t *testing.T) {
		s := newTestSearcher(t,
			&core.Document{Dataset: 1, Filename: "reversed.pdf", Text: "island trips with Maxwell"},
		)
		results, err := s.Search(ctx, "Maxwell NEAR/2 island", Options{})
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})

	t.Run("only satisfying occurrences are reported", func(t *testing.T) {
		s := newTestSearcher(t, &core.Document{
			Dataset:  1,
			Filename: "mixed.pdf",
			Text:     "alpha beta. later in the text alpha appears again far from beta words",
		})
		results, err := s.Search(ctx, "alpha NEAR/0 beta", Options{})
		require.NoError(t, err)
		require.Len(t, results, 1)
		// Only the adjacent pair at the start, not the distant occurrences.
		assert.Equal(t, 2, results[0].MatchCount)
	})

	t.Run("chained NEAR counts the shared term once per document", func(t *testing.T) {
		// "b" is the right operand of the first window and the left operand
		// of the second. It occurs in both documents, so df(b) must be 2,
		// not once per window visit.
		s := newTestSearcher(t,
			&core.Document{Dataset: 1, Filename: "chain.pdf", Text: "a b c"},
			&core.Document{Dataset: 1, Filename: "other.pdf", Text: "x b y"},
		)
		results, err := s.Search(ctx, "a NEAR/0 b NEAR/0 c", Options{})
		require.NoError(t, err)
		require.Len(t, results, 1)

		// df(a)=1, df(b)=2, df(c)=1, scanned=2:
		// 2*log(1+2/1) + log(1+2/2) + 3*0.25
		want := 2*math.Log(3) + math.Log(2) + 3*coverageBonus
		assert.InDelta(t, want, results[0].Score, 1e-9)
	})
}

func TestSearchPhrase(t *testing.T) {
	ctx := context.Background()
	s := newTestSearcher(t,
		&core.Document{Dataset: 1, Filename: "exact.pdf", Text: "the grand jury convened today"},
		&core.Document{Dataset: 1, Filename: "plural.pdf", Text: "several grand juries convened"},
		&core.Document{Dataset: 1, Filename: "split.pdf", Text: "the grand old jury"},
		&core.Document{Dataset: 1, Filename: "superstring.pdf", Text: "the grandest jury ever"},
	)

	results, err := s.Search(ctx, `"grand jury"`, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"exact.pdf"}, filenames(results))
}

func TestSearchOptions(t *testing.T) {
	ctx := context.Background()
	docs := []*core.Document{
		{Dataset: 1, Filename: "a.pdf", Text: "Island paradise", Pages: 3},
		{Dataset: 2, Filename: "b.pdf", Text: "island island island", Pages: 10},
	}
	s := newTestSearcher(t, docs...)

	t.Run("case sensitivity", func(t *testing.T) {
		results, err := s.Search(ctx, "Island", Options{CaseSensitive: true})
		require.NoError(t, err)
		assert.Equal(t, []string{"a.pdf"}, filenames(results))
	})

	t.Run("default is insensitive", func(t *testing.T) {
		results, err := s.Search(ctx, "ISLAND", Options{})
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("dataset filter", func(t *testing.T) {
		results, err := s.Search(ctx, "island", Options{Dataset: 2})
		require.NoError(t, err)
		assert.Equal(t, []string{"b.pdf"}, filenames(results))
	})

	t.Run("unknown dataset matches nothing", func(t *testing.T) {
		results, err := s.Search(ctx, "island", Options{Dataset: 42})
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("page bounds", func(t *testing.T) {
		results, err := s.Search(ctx, "island", Options{MinPages: 5})
		require.NoError(t, err)
		assert.Equal(t, []string{"b.pdf"}, filenames(results))

		results, err = s.Search(ctx, "island", Options{MaxPages: 5})
		require.NoError(t, err)
		assert.Equal(t, []string{"a.pdf"}, filenames(results))
	})

	t.Run("limit", func(t *testing.T) {
		results, err := s.Search(ctx, "island", Options{Limit: 1})
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})

	t.Run("whole word", func(t *testing.T) {
		s := newTestSearcher(t,
			&core.Document{Dataset: 1, Filename: "whole.pdf", Text: "the jury convened"},
			&core.Document{Dataset: 1, Filename: "partial.pdf", Text: "a perjury charge"},
		)
		results, err := s.Search(ctx, "jury", Options{WholeWord: true})
		require.NoError(t, err)
		assert.Equal(t, []string{"whole.pdf"}, filenames(results))
	})

	t.Run("regex mode", func(t *testing.T) {
		s := newTestSearcher(t,
			&core.Document{Dataset: 1, Filename: "hyphen.pdf", Text: "see the flight-log entry"},
			&core.Document{Dataset: 1, Filename: "space.pdf", Text: "see the flight log entry"},
		)
		results, err := s.Search(ctx, `flight[- ]log`, Options{Regex: true})
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})
}

func TestSearchDeterminism(t *testing.T) {
	ctx := context.Background()
	docs := []*core.Document{
		{Dataset: 1, Filename: "a.pdf", Text: "island island Maxwell"},
		{Dataset: 1, Filename: "b.pdf", Text: "Maxwell island flight"},
		{Dataset: 2, Filename: "c.pdf", Text: "island Maxwell Maxwell island"},
	}
	s := newTestSearcher(t, docs...)

	first, err := s.Search(ctx, "island OR Maxwell", Options{})
	require.NoError(t, err)

	for range 5 {
		again, err := s.Search(ctx, "island OR Maxwell", Options{})
		require.NoError(t, err)
		require.Equal(t, len(first), len(again))
		for i := range first {
			assert.Equal(t, first[i].Document.Id, again[i].Document.Id)
			assert.Equal(t, first[i].Matches, again[i].Matches)
			assert.Equal(t, first[i].Score, again[i].Score)
		}
	}
}

func TestSearchUnsetCorpus(t *testing.T) {
	store, err := corpus.NewStore(&memSource{docs: scenarioDocs()})
	require.NoError(t, err)
	// No Load: the store has no snapshot yet.
	searcher, err := NewSearcher(store)
	require.NoError(t, err)
	defer searcher.Close()

	results, err := searcher.Search(context.Background(), "island", Options{})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchCancellation(t *testing.T) {
	s := newTestSearcher(t, scenarioDocs()...)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Search(ctx, "island", Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearchSnippetsAndPages(t *testing.T) {
	ctx := context.Background()
	s := newTestSearcher(t, scenarioDocs()...)

	results, err := s.Search(ctx, "island", Options{Dataset: 1})
	require.NoError(t, err)
	require.Len(t, results, 2)

	for _, r := range results {
		require.NotEmpty(t, r.Snippets)
		for _, snip := range r.Snippets {
			require.NotEmpty(t, snip.Highlights)
			for _, h := range snip.Highlights {
				assert.Equal(t, "island", snip.Text[h.Start:h.End])
			}
		}
	}
}

func TestSearchWithMonitor(t *testing.T) {
	ctx := context.Background()
	s := newTestSearcher(t, scenarioDocs()...)

	mon := &recordingMonitor{}
	results, err := s.SearchWithMonitor(ctx, "island", Options{}, mon)
	require.NoError(t, err)

	assert.Equal(t, "island", mon.started)
	assert.NotNil(t, mon.parsed)
	assert.Equal(t, 2, mon.scanned)
	assert.Equal(t, len(results), mon.matched)
	assert.Equal(t, len(results), mon.finished)
}

type recordingMonitor struct {
	started  string
	parsed   query.Node
	scanned  int
	matched  int
	finished int
}

func (m *recordingMonitor) Start(q string)                          { m.started = q }
func (m *recordingMonitor) Parsed(n query.Node)                     { m.parsed = n }
func (m *recordingMonitor) SnapshotSelected(_ uint64, docs int)     { m.scanned = docs }
func (m *recordingMonitor) DocumentMatched(_ *core.Document, _ int) { m.matched++ }
func (m *recordingMonitor) Finish(r []*core.SearchResult)           { m.finished = len(r) }
