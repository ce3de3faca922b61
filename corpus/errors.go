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


package corpus

import "errors"

var (
	// ErrUnavailable is returned when a source cannot produce any documents.
	// A failed reload leaves the previous snapshot active.
	ErrUnavailable = errors.New("corpus unavailable")

	// ErrSourceRequired is returned when a Store is created without a source.
	ErrSourceRequired = errors.New("corpus source required")
)
