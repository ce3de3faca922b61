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

import "errors"

// Domain validation errors
var (
	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrEmptyFilename indicates the Filename field is empty.
	ErrEmptyFilename = errors.New("filename cannot be empty")

	// ErrOffsetsNotIncreasing indicates page offsets are not strictly increasing.
	ErrOffsetsNotIncreasing = errors.New("page offsets must be strictly increasing")

	// ErrOffsetOutOfRange indicates a page offset falls outside the document text.
	ErrOffsetOutOfRange = errors.New("page offset out of range")

	// ErrUnknownSortMode indicates an unrecognized sort mode name.
	ErrUnknownSortMode = errors.New("unknown sort mode")
)
