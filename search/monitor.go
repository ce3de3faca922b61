package search

import (
	"github.com/phelgetar/docgrep/core"
	"github.com/phelgetar/docgrep/query"
)

// Monitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during a
// query. Callbacks run on the query goroutine, never from pool workers.
type Monitor interface {
	Start(rawQuery string)
	Parsed(node query.Node)
	SnapshotSelected(generation uint64, documents int)
	DocumentMatched(doc *core.Document, matchCount int)
	Finish(results []*core.SearchResult)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                          {}
func (n *noopMonitor) Parsed(_ query.Node)                     {}
func (n *noopMonitor) SnapshotSelected(_ uint64, _ int)        {}
func (n *noopMonitor) DocumentMatched(_ *core.Document, _ int) {}
func (n *noopMonitor) Finish(_ []*core.SearchResult)           {}
