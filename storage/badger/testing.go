package badger

import "github.com/phelgetar/docgrep/storage"

// NewMemoryDocumentStore creates an in-memory document store for testing.
// The returned backend must be closed by the caller.
func NewMemoryDocumentStore() (storage.DocumentRepository, *Backend, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, nil, err
	}
	store, err := NewDocumentStore(backend, "memory")
	if err != nil {
		backend.Close()
		return nil, nil, err
	}
	return store, backend, nil
}
