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


// Package storage provides the compiled corpus store.
//
// Large corpora arrive as a JSON artifact that is slow to decode on every
// start. "docgrep index" compiles the artifact once into an on-disk store
// of binary document records; subsequent starts read the records straight
// back, skipping the JSON decode entirely. The store remembers which
// artifact it was built from so a stale compile can be detected and
// rebuilt.
//
// Public constructors return the DocumentRepository interface rather than
// the concrete backend type, keeping callers decoupled from BadgerDB.
// Implementations must be safe for concurrent use.
package storage
