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


// Package search evaluates parsed queries against a corpus snapshot and
// produces ranked, highlighted results.
//
// The Searcher type drives the pipeline: parse, evaluate every document of
// the active snapshot on a worker pool, score and order the matches, then
// attach context snippets and page numbers. Evaluation of one document is
// independent of every other, so the worker pool needs no locking on the
// hot path; the only shared writes are per-term document counters used for
// the IDF weighting, which are atomic.
//
// A query holds the snapshot it started with for its whole run. Corpus
// reloads swap in a new snapshot for later queries without disturbing
// in-flight ones.
package search
