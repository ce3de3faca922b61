package query

import (
	"fmt"
	"regexp"
)

// Node is one node of a parsed query. The set of implementations is closed:
// Term, Phrase, Not, And, Or and Near. Evaluation is an exhaustive type
// switch over these six variants.
type Node interface {
	fmt.Stringer
	isNode()
}

// Term is a single-word leaf. In regex mode Text is an RE2 pattern instead
// of a literal.
type Term struct {
	Text          string
	CaseSensitive bool
	WholeWord     bool
	Regex         bool

	pattern *regexp.Regexp
}

// Phrase is a quoted leaf matched as an exact contiguous token sequence.
// Punctuation inside the quotes is preserved.
type Phrase struct {
	Text          string
	CaseSensitive bool

	pattern *regexp.Regexp
}

// Not includes a document only when its operand has no matches there.
type Not struct {
	Operand Node
}

// And includes a document only when both operands match it.
type And struct {
	Left  Node
	Right Node
}

// Or includes a document when either operand matches it.
type Or struct {
	Left  Node
	Right Node
}

// Near includes a document when an occurrence of Left and an occurrence of
// Right lie within Distance words of each other, in either order.
type Near struct {
	Left     Node
	Right    Node
	Distance int
}

func (*Term) isNode()   {}
func (*Phrase) isNode() {}
func (*Not) isNode()    {}
func (*And) isNode()    {}
func (*Or) isNode()     {}
func (*Near) isNode()   {}

// Pattern returns the regular expression compiled for this term at parse
// time. It is shared across every document evaluated for one query.
func (t *Term) Pattern() *regexp.Regexp { return t.pattern }

// Pattern returns the token-sequence expression compiled for this phrase at
// parse time.
func (p *Phrase) Pattern() *regexp.Regexp { return p.pattern }

func (t *Term) String() string   { return t.Text }
func (p *Phrase) String() string { return fmt.Sprintf("%q", p.Text) }
func (n *Not) String() string    { return "NOT " + n.Operand.String() }
func (a *And) String() string    { return "(" + a.Left.String() + " AND " + a.Right.String() + ")" }
func (o *Or) String() string     { return "(" + o.Left.String() + " OR " + o.Right.String() + ")" }
func (n *Near) String() string {
	return fmt.Sprintf("(%s NEAR/%d %s)", n.Left.String(), n.Distance, n.Right.String())
}

// Leaves returns the term and phrase leaves of the tree in left-to-right
// order. The ranker uses this to attribute matches back to query terms.
func Leaves(n Node) []Node {
	var out []Node
	var walk func(Node)
	walk = func(n Node) {
		switch v := n.(type) {
		case *Term, *Phrase:
			out = append(out, n)
		case *Not:
			walk(v.Operand)
		case *And:
			walk(v.Left)
			walk(v.Right)
		case *Or:
			walk(v.Left)
			walk(v.Right)
		case *Near:
			walk(v.Left)
			walk(v.Right)
		}
	}
	walk(n)
	return out
}
