package storage

import (
	"context"
	"time"

	"github.com/phelgetar/docgrep/core"
)

// BuildInfo records which corpus artifact a compiled store was built from.
// It lets callers detect a stale compile without reading every record.
type BuildInfo struct {
	SourcePath    string    `json:"source_path"`
	SourceModTime time.Time `json:"source_mod_time"`
	Documents     int       `json:"documents"`
	BuiltAt       time.Time `json:"built_at"`
}

// DocumentRepository persists compiled document records. It doubles as a
// corpus source: Load reads every record back in insertion order.
// Implementations must be thread-safe.
type DocumentRepository interface {
	// Name identifies the repository in logs and error messages.
	Name() string

	// Load reads every stored document. Returns ErrNotBuilt when the
	// store has never been populated.
	Load(ctx context.Context) ([]*core.Document, error)

	// Replace atomically swaps the stored corpus for the given documents
	// and records where they came from.
	Replace(ctx context.Context, docs []*core.Document, info BuildInfo) error

	// Info returns the build metadata, or ErrNotBuilt.
	Info(ctx context.Context) (BuildInfo, error)

	// Count returns the number of stored documents.
	Count(ctx context.Context) (int, error)

	// Close releases the repository's resources.
	Close() error
}
