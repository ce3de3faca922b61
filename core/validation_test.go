package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDocument(t *testing.T) {
	valid := func() *Document {
		return &Document{
			Id:          IDFromContent("1/flight_log.pdf"),
			Dataset:     1,
			Filename:    "flight_log.pdf",
			Text:        "the island flight log\fpage two",
			PageOffsets: []int{22},
		}
	}

	t.Run("valid document", func(t *testing.T) {
		require.NoError(t, ValidateDocument(valid()))
	})

	t.Run("nil document", func(t *testing.T) {
		err := ValidateDocument(nil)
		assert.ErrorIs(t, err, ErrInvalidDocument)
	})

	t.Run("empty filename", func(t *testing.T) {
		doc := valid()
		doc.Filename = ""
		err := ValidateDocument(doc)
		assert.ErrorIs(t, err, ErrEmptyFilename)
	})

	t.Run("no offsets is valid", func(t *testing.T) {
		doc := valid()
		doc.PageOffsets = nil
		require.NoError(t, ValidateDocument(doc))
	})

	t.Run("negative offset", func(t *testing.T) {
		doc := valid()
		doc.PageOffsets = []int{-1}
		assert.ErrorIs(t, ValidateDocument(doc), ErrOffsetOutOfRange)
	})

	t.Run("offset past end of text", func(t *testing.T) {
		doc := valid()
		doc.PageOffsets = []int{len(doc.Text)}
		assert.ErrorIs(t, ValidateDocument(doc), ErrOffsetOutOfRange)
	})

	t.Run("non-monotonic offsets", func(t *testing.T) {
		doc := valid()
		doc.PageOffsets = []int{20, 10}
		assert.ErrorIs(t, ValidateDocument(doc), ErrOffsetsNotIncreasing)
	})

	t.Run("duplicate offsets", func(t *testing.T) {
		doc := valid()
		doc.PageOffsets = []int{10, 10}
		assert.ErrorIs(t, ValidateDocument(doc), ErrOffsetsNotIncreasing)
	})

	t.Run("empty text is valid without offsets", func(t *testing.T) {
		doc := valid()
		doc.Text = ""
		doc.PageOffsets = nil
		require.NoError(t, ValidateDocument(doc))
	})
}
