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


package query

import "fmt"

// SyntaxError reports malformed query syntax. Pos is the character position
// of the offending fragment within the original query string.
type SyntaxError struct {
	Pos      int
	Fragment string
	Msg      string
}

func (e *SyntaxError) Error() string {
	if e.Fragment == "" {
		return fmt.Sprintf("query syntax error at position %d: %s", e.Pos, e.Msg)
	}
	return fmt.Sprintf("query syntax error at position %d near %q: %s", e.Pos, e.Fragment, e.Msg)
}

// RegexError reports an invalid pattern in regex mode. It is raised at parse
// time so a bad pattern never reaches evaluation.
type RegexError struct {
	Pattern string
	Pos     int
	Err     error
}

func (e *RegexError) Error() string {
	return fmt.Sprintf("invalid regex pattern %q at position %d: %v", e.Pattern, e.Pos, e.Err)
}

func (e *RegexError) Unwrap() error { return e.Err }

func syntaxErr(pos int, fragment, format string, args ...any) *SyntaxError {
	return &SyntaxError{Pos: pos, Fragment: fragment, Msg: fmt.Sprintf(format, args...)}
}
