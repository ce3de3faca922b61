package query

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Options carries the query-wide matching flags applied to every leaf.
type Options struct {
	CaseSensitive bool
	WholeWord     bool
	Regex         bool
}

// Parse turns a query string into an AST.
//
// Grammar, lowest precedence first:
//
//	query    := or_expr
//	or_expr  := and_expr ("OR" and_expr)*
//	and_expr := near_expr ("AND"? near_expr)*
//	near_expr:= not_expr ("NEAR/" digits not_expr)*
//	not_expr := "NOT"? atom
//	atom     := phrase | term
//
// Operator words are recognized case-insensitively. Adjacency without an
// explicit AND is an implicit AND. Each NEAR pairs its immediate left and
// right operands only; a chained NEAR pairs the previous right operand with
// the next atom and the pairs combine as an implicit AND.
//
// Term and phrase patterns are compiled here, once per query, and reused
// across every document during evaluation.
func Parse(input string, opts Options) (Node, error) {
	toks, err := lex(input)
	if err != nil {
		return nil, err
	}
	if len(toks) == 0 {
		return nil, syntaxErr(0, "", "empty query")
	}

	p := &parser{toks: toks, opts: opts}
	root, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if tok, ok := p.peek(); ok {
		return nil, syntaxErr(tok.pos, tok.text, "unexpected token")
	}
	return root, nil
}

type tokKind int

const (
	tokWord tokKind = iota
	tokPhrase
	tokAnd
	tokOr
	tokNot
	tokNear
)

type token struct {
	kind tokKind
	text string
	pos  int
	dist int // NEAR distance
}

// lex splits the query on whitespace outside quotes and classifies operator
// words. Quoted phrases keep their punctuation and are never treated as
// operators.
func lex(input string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(input) {
		r, size := utf8.DecodeRuneInString(input[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case r == '"':
			start := i
			end := strings.IndexByte(input[i+1:], '"')
			if end < 0 {
				return nil, syntaxErr(start, input[start:], "unmatched quote")
			}
			text := input[i+1 : i+1+end]
			if strings.TrimSpace(text) == "" {
				return nil, syntaxErr(start, input[start:i+end+2], "empty phrase")
			}
			toks = append(toks, token{kind: tokPhrase, text: text, pos: start})
			i += end + 2
		default:
			start := i
			for i < len(input) {
				r, size := utf8.DecodeRuneInString(input[i:])
				if unicode.IsSpace(r) || r == '"' {
					break
				}
				i += size
			}
			word := input[start:i]
			tok, err := classify(word, start)
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
		}
	}
	return toks, nil
}

func classify(word string, pos int) (token, error) {
	switch strings.ToUpper(word) {
	case "AND":
		return token{kind: tokAnd, text: word, pos: pos}, nil
	case "OR":
		return token{kind: tokOr, text: word, pos: pos}, nil
	case "NOT":
		return token{kind: tokNot, text: word, pos: pos}, nil
	}
	if rest, ok := cutPrefixFold(word, "NEAR/"); ok {
		dist, err := strconv.Atoi(rest)
		if err != nil || dist < 0 {
			return token{}, syntaxErr(pos, word, "NEAR requires a non-negative integer distance")
		}
		return token{kind: tokNear, text: word, pos: pos, dist: dist}, nil
	}
	return token{kind: tokWord, text: word, pos: pos}, nil
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):], true
	}
	return "", false
}

type parser struct {
	toks []token
	pos  int
	opts Options
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.toks) {
		return token{}, false
	}
	return p.toks[p.pos], true
}

func (p *parser) next() (token, bool) {
	tok, ok := p.peek()
	if ok {
		p.pos++
	}
	return tok, ok
}

func (p *parser) parseOr() (Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.peek()
		if !ok || tok.kind != tokOr {
			return left, nil
		}
		p.pos++
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &Or{Left: left, Right: right}
	}
}

func (p *parser) parseAnd() (Node, error) {
	left, err := p.parseNear()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.peek()
		if !ok {
			return left, nil
		}
		switch tok.kind {
		case tokAnd:
			p.pos++
		case tokWord, tokPhrase, tokNot:
			// implicit AND
		default:
			return left, nil
		}
		right, err := p.parseNear()
		if err != nil {
			return nil, err
		}
		left = &And{Left: left, Right: right}
	}
}

func (p *parser) parseNear() (Node, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	var node Node
	for {
		tok, ok := p.peek()
		if !ok || tok.kind != tokNear {
			break
		}
		p.pos++
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		pair := &Near{Left: left, Right: right, Distance: tok.dist}
		if node == nil {
			node = pair
		} else {
			node = &And{Left: node, Right: pair}
		}
		left = right
	}
	if node == nil {
		return left, nil
	}
	return node, nil
}

func (p *parser) parseNot() (Node, error) {
	tok, ok := p.peek()
	if ok && tok.kind == tokNot {
		p.pos++
		operand, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		return &Not{Operand: operand}, nil
	}
	return p.parseAtom()
}

func (p *parser) parseAtom() (Node, error) {
	tok, ok := p.next()
	if !ok {
		last := p.toks[len(p.toks)-1]
		return nil, syntaxErr(last.pos+len(last.text), "", "unexpected end of query, expected a term or phrase")
	}
	switch tok.kind {
	case tokWord:
		term := &Term{
			Text:          tok.text,
			CaseSensitive: p.opts.CaseSensitive,
			WholeWord:     p.opts.WholeWord,
			Regex:         p.opts.Regex,
		}
		if err := compileTerm(term, tok.pos); err != nil {
			return nil, err
		}
		return term, nil
	case tokPhrase:
		phrase := &Phrase{
			Text:          tok.text,
			CaseSensitive: p.opts.CaseSensitive,
		}
		if err := compilePhrase(phrase, tok.pos); err != nil {
			return nil, err
		}
		return phrase, nil
	}
	return nil, syntaxErr(tok.pos, tok.text, "expected a term or phrase")
}

func compileTerm(t *Term, pos int) error {
	var expr string
	if t.Regex {
		expr = t.Text
	} else {
		expr = regexp.QuoteMeta(t.Text)
		if t.WholeWord {
			expr = boundLeft(t.Text) + expr + boundRight(t.Text)
		}
	}
	if !t.CaseSensitive {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return &RegexError{Pattern: t.Text, Pos: pos, Err: err}
	}
	t.pattern = re
	return nil
}

func compilePhrase(p *Phrase, pos int) error {
	words := strings.Fields(p.Text)
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	expr := boundLeft(p.Text) + strings.Join(quoted, `\s+`) + boundRight(p.Text)
	if !p.CaseSensitive {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return &RegexError{Pattern: p.Text, Pos: pos, Err: err}
	}
	p.pattern = re
	return nil
}

// boundLeft and boundRight add word boundaries only when the literal's edge
// is a word character. \b next to punctuation would invert the test.
func boundLeft(literal string) string {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(literal))
	if isWordRune(r) {
		return `\b`
	}
	return ""
}

func boundRight(literal string) string {
	trimmed := strings.TrimSpace(literal)
	r, _ := utf8.DecodeLastRuneInString(trimmed)
	if isWordRune(r) {
		return `\b`
	}
	return ""
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
