package search

import (
	"math"
	"sort"

	"github.com/phelgetar/docgrep/core"
)

// coverageBonus rewards each distinct matched term, so a document touching
// every query term outranks one repeating a single term.
const coverageBonus = 0.25

// rank scores the evaluated documents and orders them by the requested sort
// mode. scannedDocs is the number of documents the query was evaluated
// against; together with the per-term document frequencies it drives the
// IDF weighting. Ties always break by document id ascending, so identical
// inputs against the same snapshot produce identical orderings.
func rank(evals []*docEval, scannedDocs int, df map[string]int64, mode core.SortMode) []*core.SearchResult {
	results := make([]*core.SearchResult, len(evals))
	for i, ev := range evals {
		results[i] = &core.SearchResult{
			Document:   ev.doc,
			Score:      relevanceScore(ev.matches, scannedDocs, df),
			MatchCount: len(ev.matches),
			Matches:    ev.matches,
		}
	}

	switch mode {
	case core.SortName:
		sort.SliceStable(results, func(i, j int) bool {
			a, b := results[i].Document, results[j].Document
			if a.Filename != b.Filename {
				return a.Filename < b.Filename
			}
			return a.Id < b.Id
		})
	case core.SortId:
		// evals arrive in stable corpus order, so within a dataset the
		// original ordering is preserved.
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Document.Dataset < results[j].Document.Dataset
		})
	default:
		sort.SliceStable(results, func(i, j int) bool {
			if results[i].Score != results[j].Score {
				return results[i].Score > results[j].Score
			}
			return results[i].Document.Id < results[j].Document.Id
		})
	}
	return results
}

// relevanceScore sums, over the distinct terms matched in the document,
// term frequency weighted by an IDF approximation, plus a small bonus per
// distinct term.
func relevanceScore(matches []core.Match, scannedDocs int, df map[string]int64) float64 {
	if len(matches) == 0 {
		return 0
	}
	tf := make(map[string]int)
	for _, m := range matches {
		tf[m.Term]++
	}
	score := 0.0
	for term, freq := range tf {
		containing := df[term]
		if containing < 1 {
			containing = 1
		}
		idf := math.Log(1 + float64(scannedDocs)/float64(containing))
		score += float64(freq) * idf
		score += coverageBonus
	}
	return score
}
