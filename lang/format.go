package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss/tree"
	"github.com/goccy/go-yaml"
)

// Tree is the expression tree of one statement body.
type Tree struct {
	Root   *Node
	Source string
}

// Build validates, tokenizes and builds text into an expression tree without
// evaluating it. Only the logger and depth options affect the result.
func Build(ctx context.Context, text string, opts ...Option) (*Tree, error) {
	root, err := New(opts...).build(ctx, text, 0)
	if err != nil {
		return nil, err
	}

	return &Tree{Root: root, Source: text}, nil
}

// String returns the canonical form of the expression: every operation is
// parenthesized except the outermost, and tokens are not separated by spaces.
// Building the canonical form again yields an equivalent tree.
func (t *Tree) String() string {
	if t == nil || t.Root == nil {
		return ""
	}

	var b strings.Builder

	writeNode(&b, t.Root, true)

	return b.String()
}

func writeNode(b *strings.Builder, n *Node, top bool) {
	tok, err := n.Token()
	if err != nil {
		b.WriteString(n.Text())

		return
	}

	switch tok.Kind {
	case KindIdentifier:
		b.WriteString(tok.Text)

		if len(n.Right) == 0 {
			return
		}

		b.WriteByte('(')

		for i, arg := range n.Right {
			if i > 0 {
				b.WriteByte(delimiterChar)
			}

			writeNode(b, arg, true)
		}

		b.WriteByte(')')

	case KindOperator, KindRelation, KindBoolean:
		if !top {
			b.WriteByte('(')
		}

		if n.Left != nil {
			writeNode(b, n.Left, false)
		}

		b.WriteString(tok.Text)

		for _, r := range n.Right {
			writeNode(b, r, false)
		}

		if !top {
			b.WriteByte(')')
		}

	default:
		b.WriteString(tok.Text)
	}
}

// Print writes an indented drawing of the tree to w.
func (t *Tree) Print(w io.Writer) error {
	if t == nil || t.Root == nil {
		return nil
	}

	_, err := fmt.Fprintln(w, drawNode(t.Root))

	return err
}

// label describes a single node for drawings.
func label(n *Node) string {
	tok, err := n.Token()
	if err != nil {
		return n.Text()
	}

	if tok.Kind == KindNone {
		return "(empty)"
	}

	return tok.Text + " [" + tok.Kind.String() + "]"
}

func drawNode(n *Node) *tree.Tree {
	t := tree.Root(label(n))

	if n.Left != nil {
		t.Child(drawNode(n.Left))
	}

	for _, r := range n.Right {
		t.Child(drawNode(r))
	}

	return t
}

// nodeView is the serialized form of a [Node].
type nodeView struct {
	Token string      `json:"token"           yaml:"token"`
	Kind  string      `json:"kind"            yaml:"kind"`
	Left  *nodeView   `json:"left,omitempty"  yaml:"left,omitempty"`
	Right []*nodeView `json:"right,omitempty" yaml:"right,omitempty"`
	Level int         `json:"level"           yaml:"level"`
}

func viewNode(n *Node) *nodeView {
	if n == nil {
		return nil
	}

	v := &nodeView{Level: n.level, Kind: KindNone.String()}

	if tok, err := n.Token(); err == nil {
		v.Token, v.Kind = tok.Text, tok.Kind.String()
	} else {
		v.Token = n.Text()
	}

	v.Left = viewNode(n.Left)

	for _, r := range n.Right {
		v.Right = append(v.Right, viewNode(r))
	}

	return v
}

// treeView is the serialized form of a [Tree].
type treeView struct {
	Root      *nodeView `json:"root"      yaml:"root"`
	Source    string    `json:"source"    yaml:"source"`
	Canonical string    `json:"canonical" yaml:"canonical"`
}

func (t *Tree) view() treeView {
	return treeView{
		Root:      viewNode(t.Root),
		Source:    t.Source,
		Canonical: t.String(),
	}
}

// MarshalJSON implements json.Marshaler.
func (t *Tree) MarshalJSON() ([]byte, error) { return json.Marshal(t.view()) }

// MarshalYAML implements yaml.InterfaceMarshaler.
func (t *Tree) MarshalYAML() (any, error) { return t.view(), nil }

// FormatJSON writes the tree as JSON to w.
func (t *Tree) FormatJSON(w io.Writer, indent int) error {
	return FormatJSON(w, t, indent)
}

// FormatYAML writes the tree as YAML to w.
func (t *Tree) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	return FormatYAML(ctx, w, t, indent)
}

// FormatJSON writes v as JSON to w, indented by indent spaces if positive.
func FormatJSON(w io.Writer, v any, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(v, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes v as YAML to w, in block style indented by indent spaces
// if positive, otherwise in flow style.
func FormatYAML(ctx context.Context, w io.Writer, v any, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, v, opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(data))

	return err
}
