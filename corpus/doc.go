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


// Package corpus holds the in-memory document collection the engine
// searches.
//
// A Store owns a sequence of immutable Snapshots. Load and Reload build a
// complete new snapshot and swap it in with a single atomic pointer store,
// so a query that began on one generation finishes on that generation and
// never observes a half-replaced document list. Readers take no locks.
//
// Documents come from a Source. The production sources are the extractor's
// JSON artifact (JSONSource) and the compiled BadgerDB store built by
// "docgrep index" (storage/badger.DocumentStore). Records that violate the
// page-offset invariants are skipped with a logged warning rather than
// failing the load.
package corpus
