package corpus

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/phelgetar/docgrep/core"
)

// Source produces the document records for one corpus generation.
type Source interface {
	// Name identifies the source in logs and error messages.
	Name() string
	// Load reads every document record. It is called rarely (startup and
	// explicit reloads) and may block on I/O.
	Load(ctx context.Context) ([]*core.Document, error)
}

// Store owns the active corpus snapshot. All methods are safe for
// concurrent use; readers never block writers and vice versa.
type Store struct {
	source Source
	logger *slog.Logger

	active     atomic.Pointer[Snapshot]
	generation atomic.Uint64
}

// Option configures a Store.
type Option func(*Store) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewStore creates a store over the given source. No documents are read
// until Load is called.
func NewStore(source Source, opts ...Option) (*Store, error) {
	if source == nil {
		return nil, ErrSourceRequired
	}
	s := &Store{
		source: source,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Load reads all documents from the source and installs the first snapshot.
// Records failing validation are skipped with a warning. A source that
// yields no usable documents at all is ErrUnavailable.
func (s *Store) Load(ctx context.Context) error {
	snap, err := s.build(ctx)
	if err != nil {
		return err
	}
	s.active.Store(snap)
	s.logger.Info("corpus loaded",
		"source", s.source.Name(),
		"documents", len(snap.docs),
		"generation", snap.generation)
	return nil
}

// Reload builds a fresh snapshot and swaps it in atomically. In-flight
// queries keep the snapshot they started with. On failure the previous
// snapshot stays active and the error is returned.
func (s *Store) Reload(ctx context.Context) error {
	snap, err := s.build(ctx)
	if err != nil {
		s.logger.Error("corpus reload failed, keeping previous snapshot",
			"source", s.source.Name(), "err", err)
		return err
	}
	s.active.Store(snap)
	s.logger.Info("corpus reloaded",
		"source", s.source.Name(),
		"documents", len(snap.docs),
		"generation", snap.generation)
	return nil
}

// Snapshot returns the active corpus generation, or nil before the first
// successful Load. Snapshot methods tolerate a nil receiver, so callers may
// use the result directly; queries against an unset corpus simply see zero
// documents.
func (s *Store) Snapshot() *Snapshot {
	return s.active.Load()
}

func (s *Store) build(ctx context.Context) (*Snapshot, error) {
	records, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	snap := &Snapshot{
		byId:      make(map[core.ID]*core.Document, len(records)),
		byDataset: make(map[int][]*core.Document),
		loadedAt:  time.Now(),
	}
	for _, doc := range records {
		if err := core.ValidateDocument(doc); err != nil {
			name := ""
			if doc != nil {
				name = doc.Filename
			}
			s.logger.Warn("skipping invalid document",
				"source", s.source.Name(), "filename", name, "err", err)
			continue
		}
		if doc.Id == 0 {
			doc.Id = core.IDFromContent(fmt.Sprintf("%d/%s", doc.Dataset, doc.Filename))
		}
		snap.docs = append(snap.docs, doc)
		snap.byId[doc.Id] = doc
		snap.byDataset[doc.Dataset] = append(snap.byDataset[doc.Dataset], doc)
	}
	if len(snap.docs) == 0 {
		return nil, fmt.Errorf("%w: source %s yielded no documents", ErrUnavailable, s.source.Name())
	}
	snap.generation = s.generation.Add(1)
	return snap, nil
}

// Snapshot is one immutable corpus generation. It must never be mutated
// after construction; Store hands the same snapshot to every concurrent
// reader.
type Snapshot struct {
	docs       []*core.Document
	byId       map[core.ID]*core.Document
	byDataset  map[int][]*core.Document
	generation uint64
	loadedAt   time.Time
}

// All returns every document in stable corpus order. The returned slice
// must not be modified.
func (s *Snapshot) All() []*core.Document {
	if s == nil {
		return nil
	}
	return s.docs
}

// Get returns the document with the given id, or nil.
func (s *Snapshot) Get(id core.ID) *core.Document {
	if s == nil {
		return nil
	}
	return s.byId[id]
}

// Filter returns the documents belonging to one dataset, in corpus order.
// An unknown dataset is not an error; it matches nothing.
func (s *Snapshot) Filter(dataset int) []*core.Document {
	if s == nil {
		return nil
	}
	return s.byDataset[dataset]
}

// Len returns the number of documents in this generation.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.docs)
}

// Generation returns the monotonically increasing generation number, 0 for
// the nil snapshot.
func (s *Snapshot) Generation() uint64 {
	if s == nil {
		return 0
	}
	return s.generation
}

// LoadedAt returns when this generation was built.
func (s *Snapshot) LoadedAt() time.Time {
	if s == nil {
		return time.Time{}
	}
	return s.loadedAt
}

// Datasets returns the distinct dataset numbers present, unordered.
func (s *Snapshot) Datasets() []int {
	if s == nil {
		return nil
	}
	out := make([]int, 0, len(s.byDataset))
	for ds := range s.byDataset {
		out = append(out, ds)
	}
	return out
}

// TotalPages sums the page counts of every document.
func (s *Snapshot) TotalPages() int {
	if s == nil {
		return 0
	}
	total := 0
	for _, doc := range s.docs {
		total += doc.PageCount()
	}
	return total
}
