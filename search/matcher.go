package search

import (
	"regexp"

	"github.com/phelgetar/docgrep/core"
	"github.com/phelgetar/docgrep/query"
)

// leafMatches returns every occurrence of a term or phrase leaf in the
// document text. Patterns were compiled at parse time and are shared across
// all documents of the query.
func leafMatches(leaf query.Node, doc *core.Document) []core.Match {
	var (
		re    *regexp.Regexp
		label string
	)
	switch v := leaf.(type) {
	case *query.Term:
		re, label = v.Pattern(), v.Text
	case *query.Phrase:
		re, label = v.Pattern(), v.Text
	default:
		return nil
	}

	locs := re.FindAllStringIndex(doc.Text, -1)
	if len(locs) == 0 {
		return nil
	}
	matches := make([]core.Match, len(locs))
	for i, loc := range locs {
		matches[i] = core.Match{
			DocumentId: doc.Id,
			Start:      loc[0],
			End:        loc[1],
			Term:       label,
		}
	}
	return matches
}

// leafLabel returns the text a leaf contributes to match attribution.
func leafLabel(leaf query.Node) string {
	switch v := leaf.(type) {
	case *query.Term:
		return v.Text
	case *query.Phrase:
		return v.Text
	}
	return ""
}
