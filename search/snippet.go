package search

import (
	"unicode/utf8"

	"github.com/phelgetar/docgrep/core"
)

// defaultSnippetWindow is the excerpt size in characters, centered on each
// match.
const defaultSnippetWindow = 200

// buildSnippets converts match positions into merged context blocks with
// highlight spans relative to each block, plus the distinct page numbers the
// matches fall on. Matches must be sorted by position, which evaluation
// guarantees.
func buildSnippets(doc *core.Document, matches []core.Match, window int) ([]core.Snippet, []int) {
	if len(matches) == 0 {
		return nil, nil
	}
	if window <= 0 {
		window = defaultSnippetWindow
	}

	type block struct {
		start, end int
		matches    []core.Match
	}

	var blocks []block
	for _, m := range matches {
		mid := (m.Start + m.End) / 2
		ws := runeFloor(doc.Text, max(0, mid-window/2))
		we := runeCeil(doc.Text, min(len(doc.Text), ws+window))
		// the window never truncates its own match
		ws = min(ws, m.Start)
		we = max(we, m.End)

		if n := len(blocks); n > 0 && ws <= blocks[n-1].end {
			if we > blocks[n-1].end {
				blocks[n-1].end = we
			}
			blocks[n-1].matches = append(blocks[n-1].matches, m)
			continue
		}
		blocks = append(blocks, block{start: ws, end: we, matches: []core.Match{m}})
	}

	paged := len(doc.PageOffsets) > 0
	snippets := make([]core.Snippet, len(blocks))
	for i, b := range blocks {
		snip := core.Snippet{
			Text:         doc.Text[b.start:b.end],
			Start:        b.start,
			ClippedLeft:  b.start > 0,
			ClippedRight: b.end < len(doc.Text),
		}
		if paged {
			snip.Page = doc.PageForOffset(b.matches[0].Start)
		}
		for _, m := range b.matches {
			snip.Highlights = append(snip.Highlights, core.Highlight{
				Start: m.Start - b.start,
				End:   m.End - b.start,
			})
		}
		snippets[i] = snip
	}

	return snippets, matchPages(doc, matches)
}

// matchPages resolves the distinct, ascending page numbers the matches land
// on. Documents without page boundaries yield nil.
func matchPages(doc *core.Document, matches []core.Match) []int {
	if len(doc.PageOffsets) == 0 {
		return nil
	}
	var pages []int
	for _, m := range matches {
		p := doc.PageForOffset(m.Start)
		if len(pages) == 0 || pages[len(pages)-1] != p {
			pages = append(pages, p)
		}
	}
	return pages
}

// runeFloor moves a byte offset left to the nearest rune start.
func runeFloor(s string, i int) int {
	for i > 0 && i < len(s) && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}

// runeCeil moves a byte offset right to the nearest rune start or the end
// of the string.
func runeCeil(s string, i int) int {
	for i < len(s) && !utf8.RuneStart(s[i]) {
		i++
	}
	return i
}
