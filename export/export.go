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


// Package export serializes a computed result set to CSV or JSON. Exporting
// is a pure projection: it never re-evaluates the query and has no side
// effects beyond the writer it is handed.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/phelgetar/docgrep/core"
)

// Format names a supported export target.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat converts a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// Write serializes results in the given format.
func Write(w io.Writer, format Format, results []*core.SearchResult) error {
	switch format {
	case FormatCSV:
		return CSV(w, results)
	case FormatJSON:
		return JSON(w, results)
	}
	return fmt.Errorf("unknown export format %q", format)
}

// CSV writes one flat row per result document.
func CSV(w io.Writer, results []*core.SearchResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"filename", "dataset", "pages", "match_count", "score"}); err != nil {
		return err
	}
	for _, r := range results {
		row := []string{
			r.Document.Filename,
			strconv.Itoa(r.Document.Dataset),
			strconv.Itoa(r.Document.PageCount()),
			strconv.Itoa(r.MatchCount),
			strconv.FormatFloat(r.Score, 'f', 4, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Record is the JSON export shape for one result document.
type Record struct {
	Filename   string         `json:"filename"`
	Dataset    int            `json:"dataset"`
	Filepath   string         `json:"filepath,omitempty"`
	Pages      int            `json:"pages"`
	MatchCount int            `json:"match_count"`
	Score      float64        `json:"score"`
	PageHits   []int          `json:"page_hits,omitempty"`
	Snippets   []SnippetBlock `json:"snippets,omitempty"`
}

// SnippetBlock is the JSON export shape of one highlighted excerpt.
type SnippetBlock struct {
	Text       string           `json:"text"`
	Page       int              `json:"page,omitempty"`
	Highlights []core.Highlight `json:"highlights"`
	Clipped    bool             `json:"clipped,omitempty"`
}

// NewRecord builds the export shape for one result.
func NewRecord(r *core.SearchResult) Record {
	rec := Record{
		Filename:   r.Document.Filename,
		Dataset:    r.Document.Dataset,
		Filepath:   r.Document.Filepath,
		Pages:      r.Document.PageCount(),
		MatchCount: r.MatchCount,
		Score:      r.Score,
		PageHits:   r.Pages,
	}
	for _, s := range r.Snippets {
		rec.Snippets = append(rec.Snippets, SnippetBlock{
			Text:       s.Text,
			Page:       s.Page,
			Highlights: s.Highlights,
			Clipped:    s.ClippedLeft || s.ClippedRight,
		})
	}
	return rec
}

// JSON writes the structured record list, indented for readability.
func JSON(w io.Writer, results []*core.SearchResult) error {
	records := make([]Record, len(results))
	for i, r := range results {
		records[i] = NewRecord(r)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}
