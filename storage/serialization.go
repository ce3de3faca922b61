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


package storage

import (
	"fmt"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/phelgetar/docgrep/core"
)

// DocumentMUS is the binary codec for compiled document records: varint
// scalars and length-prefixed strings, field order fixed.
var DocumentMUS = documentSer{}

type documentSer struct{}

// Size returns the encoded length of a document.
func (documentSer) Size(doc core.Document) (n int) {
	n = varint.Uint64.Size(uint64(doc.Id))
	n += varint.Int.Size(doc.Dataset)
	n += ord.String.Size(doc.Filename)
	n += ord.String.Size(doc.Filepath)
	n += varint.Int.Size(doc.Pages)
	n += ord.String.Size(doc.Text)
	n += varint.Int.Size(len(doc.PageOffsets))
	for _, off := range doc.PageOffsets {
		n += varint.Int.Size(off)
	}
	return n
}

// Marshal encodes a document into bs, which must be at least Size bytes.
func (s documentSer) Marshal(doc core.Document, bs []byte) (n int) {
	n = varint.Uint64.Marshal(uint64(doc.Id), bs)
	n += varint.Int.Marshal(doc.Dataset, bs[n:])
	n += ord.String.Marshal(doc.Filename, bs[n:])
	n += ord.String.Marshal(doc.Filepath, bs[n:])
	n += varint.Int.Marshal(doc.Pages, bs[n:])
	n += ord.String.Marshal(doc.Text, bs[n:])
	n += varint.Int.Marshal(len(doc.PageOffsets), bs[n:])
	for _, off := range doc.PageOffsets {
		n += varint.Int.Marshal(off, bs[n:])
	}
	return n
}

// Unmarshal decodes a document from bs.
func (s documentSer) Unmarshal(bs []byte) (doc core.Document, n int, err error) {
	var n1 int

	id, n, err := varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	doc.Id = core.ID(id)

	doc.Dataset, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}

	doc.Filename, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}

	doc.Filepath, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}

	doc.Pages, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}

	doc.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}

	count, n1, err := varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if count < 0 || count > len(bs)-n {
		err = fmt.Errorf("%w: page offset count %d", ErrSerializationFailed, count)
		return
	}
	if count > 0 {
		doc.PageOffsets = make([]int, count)
		for i := range count {
			doc.PageOffsets[i], n1, err = varint.Int.Unmarshal(bs[n:])
			n += n1
			if err != nil {
				return
			}
		}
	}
	return
}

// MarshalDocument serializes a Document to bytes.
func MarshalDocument(doc *core.Document) []byte {
	buf := make([]byte, DocumentMUS.Size(*doc))
	DocumentMUS.Marshal(*doc, buf)
	return buf
}

// UnmarshalDocument deserializes a Document from bytes.
func UnmarshalDocument(data []byte) (*core.Document, error) {
	doc, _, err := DocumentMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &doc, nil
}
