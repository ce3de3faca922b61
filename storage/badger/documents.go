package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/phelgetar/docgrep/core"
	"github.com/phelgetar/docgrep/storage"
)

// DocumentStore is the BadgerDB-backed compiled corpus store. It implements
// storage.DocumentRepository and therefore also serves as a corpus source.
type DocumentStore struct {
	backend *Backend
	name    string
	logger  *slog.Logger
}

var _ storage.DocumentRepository = (*DocumentStore)(nil)

// NewDocumentStore creates a document store on the given backend.
func NewDocumentStore(backend *Backend, name string) (storage.DocumentRepository, error) {
	if backend == nil {
		return nil, storage.ErrBackendRequired
	}
	if name == "" {
		name = "badger"
	}
	return &DocumentStore{
		backend: backend,
		name:    name,
		logger:  slog.Default(),
	}, nil
}

// Name implements storage.DocumentRepository.
func (s *DocumentStore) Name() string { return s.name }

// Load implements storage.DocumentRepository. Documents come back in the
// order Replace stored them.
func (s *DocumentStore) Load(ctx context.Context) ([]*core.Document, error) {
	var docs []*core.Document
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = documentKeyPrefix()
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := iter.Item().Value(func(val []byte) error {
				doc, err := storage.UnmarshalDocument(val)
				if err != nil {
					return err
				}
				docs = append(docs, doc)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, storage.ErrNotBuilt
	}
	return docs, nil
}

// Replace implements storage.DocumentRepository. The previous corpus is
// dropped and the new records written in one pass; the build metadata is
// written last so a partially written store never claims to be complete.
func (s *DocumentStore) Replace(ctx context.Context, docs []*core.Document, info storage.BuildInfo) error {
	if err := s.backend.db.DropPrefix(documentKeyPrefix()); err != nil {
		return fmt.Errorf("dropping previous corpus: %w", err)
	}

	batch := s.backend.db.NewWriteBatch()
	defer batch.Cancel()

	for i, doc := range docs {
		if err := ctx.Err(); err != nil {
			return err
		}
		key := makeDocumentKey(uint64(i), doc.Id)
		if err := batch.Set(key, storage.MarshalDocument(doc)); err != nil {
			return fmt.Errorf("writing document %s: %w", doc.Filename, err)
		}
	}

	info.Documents = len(docs)
	meta, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("%w: %w", storage.ErrSerializationFailed, err)
	}
	if err := batch.Set(buildInfoKey(), meta); err != nil {
		return err
	}

	if err := batch.Flush(); err != nil {
		return fmt.Errorf("flushing compiled corpus: %w", err)
	}

	s.logger.Info("compiled corpus replaced",
		"store", s.name,
		"documents", len(docs),
		"source", info.SourcePath)
	return nil
}

// Info implements storage.DocumentRepository.
func (s *DocumentStore) Info(ctx context.Context) (storage.BuildInfo, error) {
	var info storage.BuildInfo
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(buildInfoKey())
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotBuilt
			}
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &info)
		})
	}, false)
	if err != nil {
		return storage.BuildInfo{}, err
	}
	return info, nil
}

// Count implements storage.DocumentRepository.
func (s *DocumentStore) Count(ctx context.Context) (int, error) {
	count := 0
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = documentKeyPrefix()
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()
		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			count++
		}
		return nil
	}, false)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Close implements storage.DocumentRepository. The backend is shared and
// closed by its owner.
func (s *DocumentStore) Close() error {
	return nil
}
