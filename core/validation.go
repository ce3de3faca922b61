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


package core

import "fmt"

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - Filename must not be empty
//   - PageOffsets must be strictly increasing
//   - every PageOffset must fall within [0, len(Text))
//
// NOT validated:
//   - Text (an empty extraction is a valid, if useless, document)
//   - Pages (0 means unreported; PageCount falls back to the offsets)
//   - ID (the corpus source derives one when the artifact carries none)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.Filename == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyFilename)
	}

	prev := -1
	for i, off := range doc.PageOffsets {
		if off < 0 || off >= len(doc.Text) {
			return fmt.Errorf("%w: %w: offset %d at index %d, text length %d",
				ErrInvalidDocument, ErrOffsetOutOfRange, off, i, len(doc.Text))
		}
		if off <= prev {
			return fmt.Errorf("%w: %w: offset %d at index %d follows %d",
				ErrInvalidDocument, ErrOffsetsNotIncreasing, off, i, prev)
		}
		prev = off
	}

	return nil
}
