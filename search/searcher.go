package search

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/phelgetar/docgrep/core"
	"github.com/phelgetar/docgrep/corpus"
	"github.com/phelgetar/docgrep/query"
)

// Options carries the per-query settings shared by the CLI and service
// surfaces.
type Options struct {
	CaseSensitive bool
	WholeWord     bool
	Regex         bool

	// Dataset filters to one dataset number; 0 means all datasets. An
	// unknown dataset is not an error, it simply matches nothing.
	Dataset int

	// MinPages/MaxPages filter on document page counts; 0 disables the
	// respective bound.
	MinPages int
	MaxPages int

	Sort core.SortMode

	// Limit truncates the ranked result set; 0 returns everything.
	Limit int
}

// Searcher evaluates queries against the corpus store's active snapshot.
type Searcher struct {
	store  *corpus.Store
	pool   *ants.Pool
	logger *slog.Logger
	window int
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithPoolSize sets the worker pool size for per-document evaluation.
// Default is runtime.NumCPU().
func WithPoolSize(size int) Option {
	return func(s *Searcher) error {
		if size < 1 {
			size = 1
		}
		if s.pool != nil {
			s.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		s.pool = pool
		return nil
	}
}

// WithSnippetWindow sets the context excerpt size in characters.
// Default is 200.
func WithSnippetWindow(chars int) Option {
	return func(s *Searcher) error {
		if chars > 0 {
			s.window = chars
		}
		return nil
	}
}

// NewSearcher creates a searcher over the given corpus store.
func NewSearcher(store *corpus.Store, opts ...Option) (*Searcher, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}

	pool, err := ants.NewPool(runtime.NumCPU())
	if err != nil {
		return nil, err
	}

	s := &Searcher{
		store:  store,
		pool:   pool,
		logger: slog.Default(),
		window: defaultSnippetWindow,
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			s.pool.Release()
			return nil, err
		}
	}
	return s, nil
}

// Close releases the worker pool.
func (s *Searcher) Close() {
	if s.pool != nil {
		s.pool.Release()
	}
}

// Search parses the raw query and runs it against the active snapshot.
// Parse failures surface as *query.SyntaxError or *query.RegexError. An
// empty result set is a successful outcome, including when no corpus has
// been loaded yet.
func (s *Searcher) Search(ctx context.Context, rawQuery string, opts Options) ([]*core.SearchResult, error) {
	return s.SearchWithMonitor(ctx, rawQuery, opts, nil)
}

// SearchWithMonitor runs a query with monitoring callbacks at each stage.
func (s *Searcher) SearchWithMonitor(ctx context.Context, rawQuery string, opts Options, monitor Monitor) ([]*core.SearchResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(rawQuery)

	node, err := query.Parse(rawQuery, query.Options{
		CaseSensitive: opts.CaseSensitive,
		WholeWord:     opts.WholeWord,
		Regex:         opts.Regex,
	})
	if err != nil {
		s.logger.Debug("query rejected", "query", rawQuery, "err", err)
		return nil, err
	}
	monitor.Parsed(node)

	snap := s.store.Snapshot()
	docs := s.candidates(snap, opts)
	monitor.SnapshotSelected(snap.Generation(), len(docs))

	evals, stats, err := s.evaluateAll(ctx, node, docs)
	if err != nil {
		return nil, err
	}
	for _, ev := range evals {
		monitor.DocumentMatched(ev.doc, len(ev.matches))
	}

	results := rank(evals, len(docs), stats.documentFrequencies(), opts.Sort)
	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	for _, r := range results {
		r.Snippets, r.Pages = buildSnippets(r.Document, r.Matches, s.window)
	}

	totalMatches := 0
	for _, r := range results {
		totalMatches += r.MatchCount
	}
	s.logger.Info("search executed",
		"query", rawQuery,
		"documents", len(results),
		"matches", totalMatches,
		"scanned", len(docs),
		"generation", snap.Generation(),
		"sort", opts.Sort.String())

	monitor.Finish(results)
	return results, nil
}

// candidates selects the documents a query runs over: the dataset subset
// when filtered, narrowed by the page-count bounds.
func (s *Searcher) candidates(snap *corpus.Snapshot, opts Options) []*core.Document {
	docs := snap.All()
	if opts.Dataset > 0 {
		docs = snap.Filter(opts.Dataset)
	}
	if opts.MinPages <= 0 && opts.MaxPages <= 0 {
		return docs
	}
	filtered := make([]*core.Document, 0, len(docs))
	for _, doc := range docs {
		pages := doc.PageCount()
		if opts.MinPages > 0 && pages < opts.MinPages {
			continue
		}
		if opts.MaxPages > 0 && pages > opts.MaxPages {
			continue
		}
		filtered = append(filtered, doc)
	}
	return filtered
}

// evaluateAll runs the AST against every candidate document on the worker
// pool. Each worker touches only its own result slot, so no locking is
// needed; cancellation is checked between documents and partially evaluated
// documents are simply discarded.
func (s *Searcher) evaluateAll(ctx context.Context, node query.Node, docs []*core.Document) ([]*docEval, *leafStats, error) {
	stats := newLeafStats(node)
	slots := make([]*docEval, len(docs))

	var wg sync.WaitGroup
	for i, doc := range docs {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		task := func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			found := make(foundLeaves)
			included, matches := evaluate(node, doc, found)
			stats.apply(found)
			if included {
				slots[i] = &docEval{doc: doc, corpusIndex: i, matches: matches}
			}
		}
		if err := s.pool.Submit(task); err != nil {
			// Pool shut down or overloaded: evaluate inline.
			task()
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	evals := make([]*docEval, 0, len(slots))
	for _, ev := range slots {
		if ev != nil {
			evals = append(evals, ev)
		}
	}
	return evals, stats, nil
}
