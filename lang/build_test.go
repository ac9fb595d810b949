package lang

import (
	"errors"
	"strings"
	"testing"
)

func TestBuild_Canonical(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "leaf", text: "42", want: "42"},
		{name: "empty", text: "", want: ""},
		{name: "left_associative_additive", text: "1-2+3", want: "(1-2)+3"},
		{name: "multiplication_binds_tighter", text: "1+2*3", want: "1+(2*3)"},
		{name: "power_groups_left", text: "2^3^2", want: "(2^3)^2"},
		{name: "division_splits_first", text: "8/2*2", want: "8/(2*2)"},
		{name: "division_groups_left", text: "10/2/5", want: "(10/2)/5"},
		{name: "boolean_ranking", text: "a & b | c", want: "a&(b|c)"},
		{name: "later_relation_wins", text: "1<2=1", want: "(1<2)=1"},
		{name: "boolean_over_relation", text: "a<b & c", want: "(a<b)&c"},
		{name: "surrounding_brackets", text: "((1+2))", want: "1+2"},
		{name: "mixed_brackets", text: "{2*3+[(10+2)/(5+1)]+2}", want: "((2*3)+((10+2)/(5+1)))+2"},
		{name: "partial_brackets_kept", text: "(1+2)*(3+4)", want: "(1+2)*(3+4)"},
		{name: "call", text: "max(1, 2+3, f(4))", want: "max(1,2+3,f(4))"},
		{name: "call_without_arguments", text: "random()", want: "random"},
		{name: "unary_minus", text: "-x", want: "-x"},
		{name: "negation", text: "~(3<2)", want: "~(3<2)"},
		{name: "factorial", text: "3!+1", want: "(3!)+1"},
		{name: "unary_minus_in_sum", text: "-3+5", want: "(-3)+5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tree, err := Build(t.Context(), tt.text)
			if err != nil {
				t.Fatalf("Build(%q) error: %v", tt.text, err)
			}

			if got := tree.String(); got != tt.want {
				t.Errorf("Build(%q).String() = %q, want %q", tt.text, got, tt.want)
			}

			again, err := Build(t.Context(), tree.String())
			if err != nil {
				t.Fatalf("Build(%q) error: %v", tree.String(), err)
			}

			if got := again.String(); got != tt.want {
				t.Errorf("canonical form not stable: %q -> %q", tt.want, got)
			}
		})
	}
}

func TestBuild_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want error
	}{
		{name: "unclosed", text: "(1+2", want: ErrParenthesisMismatch},
		{name: "illegal", text: "1 $ 2", want: ErrIllegalCharacter},
		{name: "adjacent_operands", text: "2 3", want: ErrCompileSyntax},
		{name: "call_without_name", text: "(1)(2)", want: ErrCompileSyntax},
		{name: "empty_argument", text: "f(1,,2)", want: ErrFunctionParse},
		{name: "leading_empty_argument", text: "f(,1)", want: ErrFunctionParse},
		{name: "trailing_empty_argument", text: "f(1,)", want: ErrFunctionParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Build(t.Context(), tt.text)
			if !errors.Is(err, tt.want) {
				t.Errorf("Build(%q) error = %v, want %v", tt.text, err, tt.want)
			}
		})
	}
}

func TestBuild_MaxDepth(t *testing.T) {
	t.Parallel()

	const text = "((((1+2)+3)+4)+5)"

	if _, err := Build(t.Context(), text, WithMaxDepth(3)); !errors.Is(err, ErrMaxDepthExceeded) {
		t.Errorf("Build with depth 3 error = %v, want ErrMaxDepthExceeded", err)
	}

	if _, err := Build(t.Context(), text, WithMaxDepth(4)); err != nil {
		t.Errorf("Build with depth 4 error: %v", err)
	}
}

func TestBuild_MaxDepthSurroundingBrackets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		depth int
		want  error
	}{
		{name: "within", depth: 3},
		{name: "exceeded", depth: 2, want: ErrMaxDepthExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Build(t.Context(), "(((1)))", WithMaxDepth(tt.depth))
			if !errors.Is(err, tt.want) {
				t.Errorf("Build error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBuild_DeepBracketsRejected(t *testing.T) {
	t.Parallel()

	const n = 40000

	text := strings.Repeat("(", n) + "1" + strings.Repeat(")", n)

	if _, err := Build(t.Context(), text); !errors.Is(err, ErrMaxDepthExceeded) {
		t.Errorf("Build error = %v, want ErrMaxDepthExceeded", err)
	}

	s := New()
	s.SetText(text)

	if _, err := s.Value(t.Context()); !errors.Is(err, ErrMaxDepthExceeded) {
		t.Errorf("Value error = %v, want ErrMaxDepthExceeded", err)
	}
}

func TestStripSurrounding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want string
	}{
		{text: "1", want: "1"},
		{text: "()", want: ""},
		{text: "((1+2))", want: "1+2"},
		{text: "(1)+(2)", want: "(1)+(2)"},
		{text: "((1)+(2))", want: "(1)+(2)"},
		{text: "{[(1)]*(2)}", want: "[(1)]*(2)"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()

			tokens, err := Tokenize(tt.text)
			if err != nil {
				t.Fatalf("Tokenize(%q) error: %v", tt.text, err)
			}

			var got strings.Builder
			for _, tok := range stripSurrounding(tokens) {
				got.WriteString(tok.Text)
			}

			if got.String() != tt.want {
				t.Errorf("stripSurrounding(%q) = %q, want %q", tt.text, got.String(), tt.want)
			}
		})
	}
}

func TestBuild_NodeShape(t *testing.T) {
	t.Parallel()

	tree, err := Build(t.Context(), "f(a, b*2)")
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}

	root := tree.Root

	tok, err := root.Token()
	if err != nil {
		t.Fatalf("Token error: %v", err)
	}

	if tok.Text != "f" || tok.Kind != KindIdentifier {
		t.Fatalf("root token = %v, want identifier f", tok)
	}

	if root.Left != nil || len(root.Right) != 2 {
		t.Fatalf("root children = (%v, %d), want (nil, 2)", root.Left, len(root.Right))
	}

	mul := root.Right[1]
	if mul.Parent() != root || mul.Level() != 1 {
		t.Errorf("argument parent/level = (%p, %d), want (%p, 1)", mul.Parent(), mul.Level(), root)
	}

	if mul.Left == nil || len(mul.Right) != 1 || !mul.Right[0].IsLeaf() {
		t.Errorf("argument b*2 has unexpected shape")
	}

	if got := mul.Right[0].Path(); len(got) != 3 || got[0] != "f" || got[1] != "*" || got[2] != "2" {
		t.Errorf("Path() = %v, want [f * 2]", got)
	}
}

func TestNode_TokenUnterminated(t *testing.T) {
	t.Parallel()

	n := &Node{tokens: []Token{{Text: "1", Kind: KindNumeric}, {Text: "2", Kind: KindNumeric}}}

	if _, err := n.Token(); !errors.Is(err, ErrUnterminatedTokenList) {
		t.Errorf("Token() error = %v, want ErrUnterminatedTokenList", err)
	}

	v, err := (&evaluator{session: New()}).eval(t.Context(), n)
	if err != nil || v != 0 {
		t.Errorf("eval of residual node = (%v, %v), want (0, nil)", v, err)
	}
}
