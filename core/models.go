package core

import (
	"encoding/binary"
	"sort"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or assigned by the corpus source.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Document is one extracted document in the corpus: the concatenated text of
// all its pages plus the character offsets where pages after the first begin.
type Document struct {
	Id       ID
	Dataset  int
	Filename string
	Filepath string // Original location of the source file (optional)
	Pages    int    // Page count reported by the extractor (optional)

	Text string

	// PageOffsets holds one strictly increasing character offset into Text
	// per page boundary. Page 1 implicitly starts at offset 0 and is not
	// listed, so a P-page document carries P-1 offsets.
	PageOffsets []int
}

// PageCount returns the number of pages, preferring the extractor-reported
// count and falling back to the page boundary offsets.
func (d *Document) PageCount() int {
	if d.Pages > 0 {
		return d.Pages
	}
	return len(d.PageOffsets) + 1
}

// PageForOffset converts a character offset into Text to a 1-based page
// number: the count of page boundaries at or before the offset, plus one.
func (d *Document) PageForOffset(offset int) int {
	// SearchInts with offset+1 counts boundaries <= offset.
	return sort.SearchInts(d.PageOffsets, offset+1) + 1
}

// Match is a single occurrence of a query term within a document.
// Offsets are character positions into the document text, end exclusive.
type Match struct {
	DocumentId ID
	Start      int
	End        int
	Term       string
}

// Highlight marks a matched span within a snippet, relative to the snippet
// text rather than the document.
type Highlight struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Snippet is a bounded excerpt of document text surrounding one or more
// matches. Overlapping excerpts are merged, so a snippet may carry several
// highlights.
type Snippet struct {
	Text       string
	Start      int // Offset of Text within the document
	Page       int // Page of the first highlight, 0 when the document has no boundaries
	Highlights []Highlight

	// Clipped markers for presentation: true when text continues beyond
	// the respective edge of the excerpt.
	ClippedLeft  bool
	ClippedRight bool
}

// SearchResult is one matched document with its relevance score, match
// positions, resolved page numbers and context snippets.
type SearchResult struct {
	Document   *Document
	Score      float64
	MatchCount int
	Matches    []Match
	Pages      []int
	Snippets   []Snippet
}

// SortMode selects the ordering of a result set.
type SortMode int

const (
	// SortRelevance orders by descending score.
	SortRelevance SortMode = iota + 1
	// SortName orders by filename, lexicographically.
	SortName
	// SortId orders by dataset and then by stable corpus order.
	SortId
)

// ParseSortMode converts a user-supplied sort name to a SortMode.
func ParseSortMode(s string) (SortMode, error) {
	switch s {
	case "relevance", "":
		return SortRelevance, nil
	case "name", "filename":
		return SortName, nil
	case "id", "dataset":
		return SortId, nil
	}
	return 0, ErrUnknownSortMode
}

func (m SortMode) String() string {
	switch m {
	case SortRelevance:
		return "relevance"
	case SortName:
		return "name"
	case SortId:
		return "id"
	}
	return "unknown"
}
