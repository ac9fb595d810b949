package lang

import (
	"context"
	"log/slog"
	"math"

	"github.com/ardnew/fatexpr/log"
)

// Split scores. The lowest score at nesting depth zero becomes the root of a
// token slice; equal scores resolve to the later token, which groups equal
// scores left to right.
var (
	booleanScore = map[string]int{
		"&": 10,
		"|": 20,
		"?": 30,
	}
	operatorScore = map[string]int{
		"/": 10,
		"+": 20,
		"-": 20,
		"*": 30,
		"%": 31,
		"^": 32,
		"~": 40,
		"!": 41,
	}
)

// builder partitions token slices into an expression tree.
type builder struct {
	logger   log.Logger
	source   string
	maxDepth int
}

// build recursively partitions the tokens of n.
func (b *builder) build(ctx context.Context, n *Node) error {
	if n.level > b.maxDepth {
		return ErrMaxDepthExceeded.With(
			slog.Int("depth", n.level),
			slog.Int("max", b.maxDepth),
			slog.String("text", b.source),
		)
	}

	n.tokens = stripSurrounding(n.tokens)

	if len(n.tokens) <= 1 {
		return nil
	}

	i, err := b.split(n.tokens)
	if err != nil {
		return err
	}

	if i >= 0 {
		return b.branch(ctx, n, i)
	}

	return b.call(ctx, n)
}

// branch keeps the token at index i in n and builds the tokens before and
// after it as the left and right children.
func (b *builder) branch(ctx context.Context, n *Node, i int) error {
	tokens := n.tokens

	b.logger.TraceContext(ctx, "split",
		slog.Any("token", tokens[i]),
		slog.Int("index", i),
		slog.Int("level", n.level),
	)

	n.tokens = tokens[i : i+1]

	if i > 0 {
		n.Left = newNode(n, tokens[:i])

		if err := b.build(ctx, n.Left); err != nil {
			return err
		}
	}

	if i < len(tokens)-1 {
		right := newNode(n, tokens[i+1:])
		n.Right = []*Node{right}

		if err := b.build(ctx, right); err != nil {
			return err
		}
	}

	return nil
}

// call parses a function-call shaped token slice: an identifier, an opening
// bracket, arguments separated at depth zero by delimiters, and a closing
// bracket. Each argument becomes a right child of n.
func (b *builder) call(ctx context.Context, n *Node) error {
	tokens := n.tokens
	last := len(tokens) - 1

	if len(tokens) < 3 ||
		tokens[0].Kind != KindIdentifier ||
		tokens[1].Kind != KindParenOpen ||
		tokens[last].Kind != KindParenClose {
		return ErrCompileSyntax.With(
			slog.String("text", b.source),
			slog.String("near", n.Text()),
		)
	}

	interior := tokens[2:last]
	n.tokens = tokens[:1]

	b.logger.TraceContext(ctx, "call",
		slog.String("name", tokens[0].Text),
		slog.Int("level", n.level),
	)

	if len(interior) == 0 {
		return nil
	}

	depth, start := 0, 0

	for j := 0; j <= len(interior); j++ {
		if j < len(interior) {
			switch interior[j].Kind {
			case KindParenOpen:
				depth++

				continue

			case KindParenClose:
				depth--
				if depth < 0 {
					return ErrFunctionParse.With(
						slog.String("name", tokens[0].Text),
						slog.String("text", b.source),
					)
				}

				continue

			case KindDelimiter:
				if depth != 0 {
					continue
				}

			default:
				continue
			}
		}

		if j == start {
			return ErrFunctionParse.With(
				slog.String("name", tokens[0].Text),
				slog.Int("argument", len(n.Right)+1),
				slog.String("reason", "empty argument"),
			)
		}

		arg := newNode(n, interior[start:j])
		n.Right = append(n.Right, arg)

		if err := b.build(ctx, arg); err != nil {
			return err
		}

		start = j + 1
	}

	return nil
}

// split returns the index of the least significant operation token at nesting
// depth zero, or -1 if there is none. Boolean candidates outrank relations,
// which outrank operators.
func (b *builder) split(tokens []Token) (int, error) {
	var (
		depth     int
		boolIdx   = -1
		relIdx    = -1
		opIdx     = -1
		boolScore = math.MaxInt
		opScore   = math.MaxInt
	)

	for i, t := range tokens {
		switch t.Kind {
		case KindParenOpen:
			depth++

		case KindParenClose:
			depth--
			if depth < 0 {
				return -1, ErrParenthesisMismatch.With(
					slog.String("text", b.source),
					slog.Int("token", i),
				)
			}

		case KindBoolean:
			if score := booleanScore[t.Text]; depth == 0 && score <= boolScore {
				boolIdx, boolScore = i, score
			}

		case KindRelation:
			if depth == 0 {
				relIdx = i
			}

		case KindOperator:
			if score := operatorScore[t.Text]; depth == 0 && score <= opScore {
				opIdx, opScore = i, score
			}
		}
	}

	switch {
	case boolIdx >= 0:
		return boolIdx, nil
	case relIdx >= 0:
		return relIdx, nil
	default:
		return opIdx, nil
	}
}

// nesting returns the deepest bracket nesting level of tokens.
func nesting(tokens []Token) int {
	var depth, deepest int

	for _, t := range tokens {
		switch t.Kind {
		case KindParenOpen:
			depth++
			deepest = max(deepest, depth)
		case KindParenClose:
			depth--
		}
	}

	return deepest
}

// stripSurrounding removes pairs of brackets that enclose the entire slice.
// A pair encloses the slice only if the nesting level returns to zero exactly
// at the final token.
func stripSurrounding(tokens []Token) []Token {
	last := len(tokens) - 1
	if last < 1 ||
		tokens[0].Kind != KindParenOpen ||
		tokens[last].Kind != KindParenClose {
		return tokens
	}

	lead := 0
	for lead < len(tokens) && tokens[lead].Kind == KindParenOpen {
		lead++
	}

	// closing[k] is the index of the bracket closing the one opened at k.
	closing := make([]int, lead)
	open := make([]int, 0, lead)

	for i, t := range tokens {
		switch t.Kind {
		case KindParenOpen:
			open = append(open, i)
		case KindParenClose:
			if len(open) == 0 {
				return tokens
			}

			if j := open[len(open)-1]; j < lead {
				closing[j] = i
			}

			open = open[:len(open)-1]
		}
	}

	n := 0
	for n < lead && n < last-n && closing[n] == last-n {
		n++
	}

	return tokens[n : len(tokens)-n]
}
