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


// Package query parses search expressions into an abstract syntax tree.
//
// The language supports boolean operators (AND, OR, NOT; AND may be
// implicit), quoted phrases, and NEAR/N proximity pairing. Precedence from
// lowest to highest is OR, AND, NEAR, NOT.
//
// Parsing is a pure function of the input string and the query-wide
// matching options. Term and phrase patterns are compiled exactly once, at
// parse time, so evaluation never recompiles a pattern per document and an
// invalid regex surfaces immediately as a *RegexError rather than failing
// mid-search.
package query
