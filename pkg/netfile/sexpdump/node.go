package sexpdump

import "fmt"

// node is a minimal S-expression tree: either an atom (a bare token)
// or a list of child nodes. It exists purely so Load can walk the
// text Dump produced without assuming anything about
// github.com/chewxy/sexp's internal tree shape beyond the read-only
// IsLeaf/LeafCount surface it actually demonstrates.
type node struct {
	atom     string
	children []*node
}

func (n *node) isAtom() bool { return n.children == nil }

// head returns the first element's atom text if n is a list whose
// first child is itself an atom, e.g. head of (device (name A)) is
// "device".
func (n *node) head() (string, bool) {
	if n.isAtom() || len(n.children) == 0 || !n.children[0].isAtom() {
		return "", false
	}
	return n.children[0].atom, true
}

// clauses returns every child list of n whose head equals key.
func (n *node) clauses(key string) []*node {
	var out []*node
	for _, c := range n.children {
		if h, ok := c.head(); ok && h == key {
			out = append(out, c)
		}
	}
	return out
}

// clauseValue returns the value atom of the single clause (key value)
// among n's children, if present.
func (n *node) clauseValue(key string) (string, bool) {
	cs := n.clauses(key)
	if len(cs) == 0 || len(cs[0].children) != 2 || !cs[0].children[1].isAtom() {
		return "", false
	}
	return cs[0].children[1].atom, true
}

type tokenizer struct {
	src []byte
	pos int
}

func (t *tokenizer) skipSpace() {
	for t.pos < len(t.src) {
		c := t.src[t.pos]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			t.pos++
			continue
		}
		break
	}
}

func isSexpDelim(c byte) bool {
	return c == '(' || c == ')' || c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// parseNode parses exactly one top-level S-expression from data and
// reports an error if there is any non-whitespace text left over.
func parseNode(data []byte) (*node, error) {
	t := &tokenizer{src: data}
	n, err := t.parseOne()
	if err != nil {
		return nil, err
	}
	t.skipSpace()
	if t.pos != len(t.src) {
		return nil, fmt.Errorf("unexpected trailing text at offset %d", t.pos)
	}
	return n, nil
}

func (t *tokenizer) parseOne() (*node, error) {
	t.skipSpace()
	if t.pos >= len(t.src) {
		return nil, fmt.Errorf("unexpected end of input")
	}
	if t.src[t.pos] != '(' {
		return t.parseAtom(), nil
	}
	t.pos++ // consume '('
	n := &node{children: []*node{}}
	for {
		t.skipSpace()
		if t.pos >= len(t.src) {
			return nil, fmt.Errorf("unterminated list")
		}
		if t.src[t.pos] == ')' {
			t.pos++
			return n, nil
		}
		child, err := t.parseOne()
		if err != nil {
			return nil, err
		}
		n.children = append(n.children, child)
	}
}

func (t *tokenizer) parseAtom() *node {
	start := t.pos
	for t.pos < len(t.src) && !isSexpDelim(t.src[t.pos]) {
		t.pos++
	}
	return &node{atom: string(t.src[start:t.pos])}
}
