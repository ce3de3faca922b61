// Copyright 2026 Phelgetar Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package docgrep ties the corpus store and the searcher into one engine
// behind a small facade used by the CLI and the HTTP service.
package docgrep

import (
	"context"
	"log/slog"
	"time"

	"github.com/phelgetar/docgrep/core"
	"github.com/phelgetar/docgrep/corpus"
	"github.com/phelgetar/docgrep/search"
)

// Engine owns the corpus store and searcher lifecycle.
type Engine struct {
	store    *corpus.Store
	searcher *search.Searcher
	logger   *slog.Logger

	snippetWindow int
	poolSize      int
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets the logger for the engine and its components.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		e.logger = logger
		return nil
	}
}

// WithSnippetWindow sets the excerpt width in characters.
func WithSnippetWindow(chars int) Option {
	return func(e *Engine) error {
		e.snippetWindow = chars
		return nil
	}
}

// WithPoolSize caps the evaluation worker pool.
func WithPoolSize(size int) Option {
	return func(e *Engine) error {
		e.poolSize = size
		return nil
	}
}

// NewEngine builds an engine over the given corpus source and loads the
// initial snapshot. A compiled store satisfies corpus.Source directly, so
// either a JSON artifact or a BadgerDB store can back the engine.
func NewEngine(ctx context.Context, source corpus.Source, opts ...Option) (*Engine, error) {
	e := &Engine{logger: slog.Default()}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	store, err := corpus.NewStore(source, corpus.WithLogger(e.logger))
	if err != nil {
		return nil, err
	}
	if err := store.Load(ctx); err != nil {
		return nil, err
	}
	e.store = store

	searchOpts := []search.Option{search.WithLogger(e.logger)}
	if e.snippetWindow > 0 {
		searchOpts = append(searchOpts, search.WithSnippetWindow(e.snippetWindow))
	}
	if e.poolSize > 0 {
		searchOpts = append(searchOpts, search.WithPoolSize(e.poolSize))
	}
	searcher, err := search.NewSearcher(store, searchOpts...)
	if err != nil {
		return nil, err
	}
	e.searcher = searcher

	return e, nil
}

// Search runs a query against the active corpus snapshot.
func (e *Engine) Search(ctx context.Context, rawQuery string, opts search.Options) ([]*core.SearchResult, error) {
	return e.searcher.Search(ctx, rawQuery, opts)
}

// SearchWithMonitor runs a query and reports progress through the monitor.
func (e *Engine) SearchWithMonitor(ctx context.Context, rawQuery string, opts search.Options, monitor search.Monitor) ([]*core.SearchResult, error) {
	return e.searcher.SearchWithMonitor(ctx, rawQuery, opts, monitor)
}

// Reload replaces the corpus snapshot from the source. In-flight searches
// keep the snapshot they started with.
func (e *Engine) Reload(ctx context.Context) error {
	return e.store.Reload(ctx)
}

// Stats describes the active corpus snapshot.
type Stats struct {
	Documents  int       `json:"documents"`
	Datasets   []int     `json:"datasets"`
	TotalPages int       `json:"total_pages"`
	Generation uint64    `json:"generation"`
	LoadedAt   time.Time `json:"loaded_at"`
}

// Stats reports the active corpus snapshot.
func (e *Engine) Stats() Stats {
	snap := e.store.Snapshot()
	return Stats{
		Documents:  snap.Len(),
		Datasets:   snap.Datasets(),
		TotalPages: snap.TotalPages(),
		Generation: snap.Generation(),
		LoadedAt:   snap.LoadedAt(),
	}
}

// Close releases the engine's worker pool.
func (e *Engine) Close() {
	e.searcher.Close()
}
