package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/phelgetar/docgrep/core"
)

// documentRecord is the wire shape of one entry in the extractor's JSON
// artifact. Unknown fields are ignored; filepath and pages are auxiliary.
type documentRecord struct {
	Dataset     int      `json:"dataset"`
	Filename    string   `json:"filename"`
	Filepath    string   `json:"filepath"`
	Pages       int      `json:"pages"`
	Text        string   `json:"text"`
	PageOffsets []int    `json:"page_offsets"`
	PageTexts   []string `json:"page_texts"`
}

// JSONSource loads documents from the extractor's JSON artifact: an array
// of records carrying the concatenated text and page boundary offsets, or
// alternatively raw per-page texts which are concatenated here with offset
// tracking.
type JSONSource struct {
	path string
}

var _ Source = (*JSONSource)(nil)

// NewJSONSource creates a source reading the artifact at path.
func NewJSONSource(path string) *JSONSource {
	return &JSONSource{path: path}
}

// Name implements Source.
func (j *JSONSource) Name() string { return j.path }

// Load implements Source.
func (j *JSONSource) Load(ctx context.Context) ([]*core.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(j.path)
	if err != nil {
		return nil, fmt.Errorf("reading corpus artifact: %w", err)
	}
	var records []documentRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decoding corpus artifact %s: %w", j.path, err)
	}

	docs := make([]*core.Document, 0, len(records))
	for _, rec := range records {
		docs = append(docs, rec.document())
	}
	return docs, nil
}

func (rec *documentRecord) document() *core.Document {
	doc := &core.Document{
		Dataset:     rec.Dataset,
		Filename:    rec.Filename,
		Filepath:    rec.Filepath,
		Pages:       rec.Pages,
		Text:        rec.Text,
		PageOffsets: rec.PageOffsets,
	}
	if doc.Text == "" && len(rec.PageTexts) > 0 {
		doc.Text, doc.PageOffsets = joinPages(rec.PageTexts)
		if doc.Pages == 0 {
			doc.Pages = len(rec.PageTexts)
		}
	}
	doc.PageOffsets = normalizeOffsets(doc.PageOffsets)
	return doc
}

// joinPages concatenates per-page texts with form-feed separators, the
// extractor's convention, recording where each page after the first begins.
func joinPages(pages []string) (string, []int) {
	var b strings.Builder
	var offsets []int
	for i, page := range pages {
		if i > 0 {
			b.WriteByte('\f')
			offsets = append(offsets, b.Len())
		}
		b.WriteString(page)
	}
	return b.String(), offsets
}

// normalizeOffsets drops the redundant leading zero written by artifacts
// that record one offset per page including page 1. The in-memory model
// lists boundaries only, so a P-page document keeps P-1 offsets.
func normalizeOffsets(offsets []int) []int {
	if len(offsets) > 0 && offsets[0] == 0 {
		return offsets[1:]
	}
	return offsets
}
