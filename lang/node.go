package lang

import (
	"log/slog"
	"strings"
)

// Node is an expression tree node.
//
// During a build a node owns a shrinking slice of tokens. After a successful
// build every node holds at most one token and is one of:
//
//   - a leaf (numeric, identifier, old-value),
//   - a function call (identifier with one right child per argument),
//   - an operator, relation or boolean with the children its arity requires.
//
// Children are owned exclusively by their parent. The parent link is a plain
// back-reference kept for diagnostics and is never followed by evaluation.
type Node struct {
	tokens []Token
	Left   *Node
	Right  []*Node
	parent *Node
	level  int
}

func newNode(parent *Node, tokens []Token) *Node {
	n := &Node{tokens: tokens, parent: parent}
	if parent != nil {
		n.level = parent.level + 1
	}

	return n
}

// Token returns the single token held by n.
// A node without tokens yields a token of kind [KindNone].
func (n *Node) Token() (Token, error) {
	switch len(n.tokens) {
	case 0:
		return Token{Kind: KindNone}, nil
	case 1:
		return n.tokens[0], nil
	default:
		return Token{}, ErrUnterminatedTokenList.With(
			slog.String("text", n.Text()),
			slog.Int("tokens", len(n.tokens)),
		)
	}
}

// Tokens returns the tokens held by n.
func (n *Node) Tokens() []Token { return n.tokens }

// Parent returns the node that owns n, or nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// Level returns the nesting depth of n.
func (n *Node) Level() int { return n.level }

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool { return n.Left == nil && len(n.Right) == 0 }

// Text joins the token texts held by n.
func (n *Node) Text() string {
	parts := make([]string, len(n.tokens))
	for i, t := range n.tokens {
		parts[i] = t.Text
	}

	return strings.Join(parts, " ")
}

// Path returns the token texts from the root down to n.
func (n *Node) Path() []string {
	var path []string

	for p := n; p != nil; p = p.parent {
		path = append([]string{p.Text()}, path...)
	}

	return path
}
