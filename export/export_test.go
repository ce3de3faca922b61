package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/phelgetar/docgrep/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResults() []*core.SearchResult {
	return []*core.SearchResult{
		{
			Document: &core.Document{
				Id:       1,
				Dataset:  3,
				Filename: "deposition.pdf",
				Filepath: "pdfs/3/deposition.pdf",
				Pages:    12,
			},
			Score:      4.2917,
			MatchCount: 2,
			Pages:      []int{2, 7},
			Snippets: []core.Snippet{
				{
					Text:       "...visited the island twice...",
					Page:       2,
					Highlights: []core.Highlight{{Start: 12, End: 18}},
					ClippedLeft: true,
				},
			},
		},
		{
			Document:   &core.Document{Id: 2, Dataset: 1, Filename: "log.pdf", Text: "short"},
			Score:      1.05,
			MatchCount: 1,
		},
	}
}

func TestCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSV(&buf, sampleResults()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "filename,dataset,pages,match_count,score", lines[0])
	assert.Equal(t, "deposition.pdf,3,12,2,4.2917", lines[1])
	assert.Equal(t, "log.pdf,1,1,1,1.0500", lines[2])
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, sampleResults()))

	var records []Record
	require.NoError(t, json.Unmarshal(buf.Bytes(), &records))
	require.Len(t, records, 2)

	assert.Equal(t, "deposition.pdf", records[0].Filename)
	assert.Equal(t, "pdfs/3/deposition.pdf", records[0].Filepath)
	assert.Equal(t, []int{2, 7}, records[0].PageHits)
	require.Len(t, records[0].Snippets, 1)
	assert.True(t, records[0].Snippets[0].Clipped)
	assert.Equal(t, 2, records[0].Snippets[0].Page)
	assert.Equal(t, []core.Highlight{{Start: 12, End: 18}}, records[0].Snippets[0].Highlights)

	// Highlight spans serialize lowercase like the rest of the payload.
	assert.Contains(t, buf.String(), `"start": 12`)
	assert.NotContains(t, buf.String(), `"Start"`)

	// Auxiliary fields absent from the second result are omitted, not faked.
	assert.Empty(t, records[1].Filepath)
	assert.Empty(t, records[1].Snippets)
}

func TestWriteDispatch(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, nil))
	assert.Contains(t, buf.String(), "filename")

	buf.Reset()
	require.NoError(t, Write(&buf, FormatJSON, nil))
	assert.Equal(t, "[]\n", buf.String())

	assert.Error(t, Write(&buf, Format("xml"), nil))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("csv")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("yaml")
	assert.Error(t, err)
}
