package search

import (
	"sort"
	"strings"
	"sync/atomic"

	"github.com/phelgetar/docgrep/core"
	"github.com/phelgetar/docgrep/query"
)

// maxNearPairs caps the occurrence pairs collected per document for one
// NEAR clause. Dense documents can otherwise produce a quadratic blowup.
const maxNearPairs = 50

// docEval is the outcome of evaluating the full AST against one document.
type docEval struct {
	doc *core.Document
	// corpusIndex preserves stable corpus order for the id sort mode.
	corpusIndex int
	matches     []core.Match
}

// leafStats counts, per leaf, how many evaluated documents contain at least
// one occurrence. Workers update the counters atomically; the ranker reads
// them after all workers finish.
type leafStats struct {
	counts map[query.Node]*atomic.Int64
}

func newLeafStats(root query.Node) *leafStats {
	s := &leafStats{counts: make(map[query.Node]*atomic.Int64)}
	for _, leaf := range query.Leaves(root) {
		s.counts[leaf] = &atomic.Int64{}
	}
	return s
}

// foundLeaves is the set of leaves with at least one occurrence in a single
// document. Chained NEAR shares a leaf node between two clauses, so the same
// leaf can be visited more than once per document; collecting into a set
// keeps the document-frequency contribution at one.
type foundLeaves map[query.Node]bool

func (f foundLeaves) mark(leaf query.Node) {
	if f != nil {
		f[leaf] = true
	}
}

// apply counts each found leaf once for the document that produced f.
func (s *leafStats) apply(f foundLeaves) {
	if s == nil {
		return
	}
	for leaf := range f {
		if c, ok := s.counts[leaf]; ok {
			c.Add(1)
		}
	}
}

// documentFrequencies resolves the counters to term labels. When the same
// label appears as several leaves the largest count wins.
func (s *leafStats) documentFrequencies() map[string]int64 {
	df := make(map[string]int64, len(s.counts))
	for leaf, c := range s.counts {
		label := leafLabel(leaf)
		if n := c.Load(); n > df[label] {
			df[label] = n
		}
	}
	return df
}

// evaluate walks the AST against one document. It returns whether the
// document is included in the result set and the matches contributing to
// highlighting. A Not contributes inclusion only, never matches.
func evaluate(n query.Node, doc *core.Document, found foundLeaves) (bool, []core.Match) {
	switch v := n.(type) {
	case *query.Term, *query.Phrase:
		matches := leafMatches(n, doc)
		if len(matches) > 0 {
			found.mark(n)
		}
		return len(matches) > 0, matches

	case *query.Not:
		included, _ := evaluate(v.Operand, doc, found)
		return !included, nil

	case *query.And:
		leftIn, leftM := evaluate(v.Left, doc, found)
		rightIn, rightM := evaluate(v.Right, doc, found)
		if !leftIn || !rightIn {
			return false, nil
		}
		return true, mergeMatches(leftM, rightM)

	case *query.Or:
		leftIn, leftM := evaluate(v.Left, doc, found)
		rightIn, rightM := evaluate(v.Right, doc, found)
		if !leftIn && !rightIn {
			return false, nil
		}
		return true, mergeMatches(leftM, rightM)

	case *query.Near:
		return evaluateNear(v, doc, found)
	}
	return false, nil
}

// evaluateNear pairs occurrences of the two operands that lie within the
// word-distance window, in either order. Distance counts the whole words
// strictly between the occurrences, so NEAR/0 means adjacent. Overlapping
// occurrences never pair. Only the satisfying occurrences are reported, not
// every occurrence of either operand.
func evaluateNear(n *query.Near, doc *core.Document, found foundLeaves) (bool, []core.Match) {
	_, leftM := evaluate(n.Left, doc, found)
	_, rightM := evaluate(n.Right, doc, found)
	if len(leftM) == 0 || len(rightM) == 0 {
		return false, nil
	}

	seen := make(map[core.Match]bool)
	var out []core.Match
	pairs := 0

outer:
	for _, lm := range leftM {
		for _, rm := range rightM {
			gapStart := min(lm.End, rm.End)
			gapEnd := max(lm.Start, rm.Start)
			if gapStart >= gapEnd {
				continue // overlapping occurrences
			}
			between := strings.Fields(doc.Text[gapStart:gapEnd])
			if len(between) > n.Distance {
				continue
			}
			pairs++
			if !seen[lm] {
				seen[lm] = true
				out = append(out, lm)
			}
			if !seen[rm] {
				seen[rm] = true
				out = append(out, rm)
			}
			if pairs >= maxNearPairs {
				break outer
			}
		}
	}
	if len(out) == 0 {
		return false, nil
	}
	sortMatches(out)
	return true, out
}

// mergeMatches unions two match lists, ordered by position with exact
// duplicates removed.
func mergeMatches(a, b []core.Match) []core.Match {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	merged := make([]core.Match, 0, len(a)+len(b))
	merged = append(merged, a...)
	merged = append(merged, b...)
	sortMatches(merged)

	out := merged[:1]
	for _, m := range merged[1:] {
		if m != out[len(out)-1] {
			out = append(out, m)
		}
	}
	return out
}

func sortMatches(matches []core.Match) {
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Start != matches[j].Start {
			return matches[i].Start < matches[j].Start
		}
		if matches[i].End != matches[j].End {
			return matches[i].End < matches[j].End
		}
		return matches[i].Term < matches[j].Term
	})
}
