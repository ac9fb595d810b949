package lang

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strconv"
)

// evaluator computes the value of an expression tree.
//
// The scope holds the parameters of the user function being evaluated and is
// nil for a top-level statement.
type evaluator struct {
	session *Session
	scope   map[string]float64
}

// eval recursively evaluates n. Nothing is cached between calls.
func (e *evaluator) eval(ctx context.Context, n *Node) (float64, error) {
	tok, err := n.Token()
	if err != nil {
		if errors.Is(err, ErrUnterminatedTokenList) {
			e.session.logger.TraceContext(ctx, "unevaluable node",
				slog.Any("error", err),
				slog.Int("level", n.level),
			)

			return 0, nil
		}

		return 0, err
	}

	switch tok.Kind {
	case KindNone:
		return 0, nil

	case KindOldValue:
		return e.session.old, nil

	case KindNumeric:
		// Out of range literals parse to ±Inf.
		v, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return 0, ErrInvalidNumber.With(slog.String("text", tok.Text))
		}

		return v, nil

	case KindIdentifier:
		return e.identifier(ctx, n, tok)

	case KindOperator, KindRelation, KindBoolean:
		return e.operation(ctx, n, tok)

	default:
		return 0, ErrCompileSyntax.With(
			slog.Any("token", tok),
			slog.String("near", n.Text()),
		)
	}
}

// arity reports whether the children of n match the operand contract of tok.
func arity(n *Node, tok Token) bool {
	left, right := n.Left != nil, len(n.Right) == 1

	if len(n.Right) > 1 {
		return false
	}

	if tok.Kind == KindOperator {
		switch tok.Text {
		case unaryMinus:
			return right
		case factorialOp:
			return left && !right
		case negationOp:
			return !left && right
		}
	}

	return left && right
}

// operation evaluates an operator, relation or boolean node.
func (e *evaluator) operation(ctx context.Context, n *Node, tok Token) (float64, error) {
	if !arity(n, tok) {
		return 0, ErrCalculateSyntax.With(
			slog.Any("token", tok),
			slog.Bool("left", n.Left != nil),
			slog.Int("right", len(n.Right)),
		)
	}

	var l, r float64

	if n.Left != nil {
		v, err := e.eval(ctx, n.Left)
		if err != nil {
			return 0, err
		}

		l = v
	}

	if len(n.Right) > 0 {
		v, err := e.eval(ctx, n.Right[0])
		if err != nil {
			return 0, err
		}

		r = v
	}

	switch tok.Kind {
	case KindBoolean:
		return e.boolean(tok.Text, l, r), nil
	case KindRelation:
		return e.relation(tok.Text, l, r), nil
	}

	if tok.Text == unaryMinus && n.Left == nil {
		return -r, nil
	}

	return operate(tok.Text, l, r), nil
}

func operate(op string, l, r float64) float64 {
	switch op {
	case "+":
		return l + r
	case "-":
		return l - r
	case "*":
		return l * r
	case "/":
		return l / r
	case "^":
		return math.Pow(l, r)
	case "%":
		return math.Mod(roundHalfUp(l), roundHalfUp(r))
	case factorialOp:
		return factorial(l)
	case negationOp:
		return truth(roundHalfUp(r) != 1)
	default:
		return 0
	}
}

func (e *evaluator) boolean(op string, l, r float64) float64 {
	switch op {
	case "&":
		return truth(l+r == 2)
	case "|":
		if e.session.corrected {
			return truth(l == 1 || r == 1)
		}

		return truth(l+r == 2)
	case "?":
		return truth(l+r == 1)
	default:
		return 0
	}
}

func (e *evaluator) relation(op string, l, r float64) float64 {
	switch op {
	case ">":
		return truth(l > r)
	case "<":
		return truth(l < r)
	case ">=":
		return truth(l >= r)
	case "<=":
		if e.session.corrected {
			return truth(l <= r)
		}

		return truth(l >= r)
	case "<>":
		return truth(l != r)
	case "=":
		return truth(l == r)
	default:
		return 0
	}
}

// identifier evaluates a boolean literal, a variable reference or a call.
func (e *evaluator) identifier(ctx context.Context, n *Node, tok Token) (float64, error) {
	name := Fold(tok.Text)

	switch name {
	case literalTrue:
		return 1, nil
	case literalFalse:
		return 0, nil
	}

	if n.Left != nil {
		return 0, ErrCalculateSyntax.With(slog.Any("token", tok))
	}

	args := make([]float64, len(n.Right))

	for i, arg := range n.Right {
		v, err := e.eval(ctx, arg)
		if err != nil {
			return 0, err
		}

		args[i] = v
	}

	return e.resolve(ctx, n, name, args)
}

// resolve looks up a folded identifier name. Function parameters shadow every
// other source. The session order then decides whether variables and user
// functions are tried before or after built-ins and external resolvers.
func (e *evaluator) resolve(
	ctx context.Context,
	n *Node,
	name string,
	args []float64,
) (float64, error) {
	if v, ok := e.scope[name]; ok {
		return v, nil
	}

	steps := [2]func(context.Context, *Node, string, []float64) (float64, bool, error){
		e.internal, e.external,
	}

	if e.session.order == EventFirst {
		steps[0], steps[1] = steps[1], steps[0]
	}

	for _, step := range steps {
		v, ok, err := step(ctx, n, name, args)
		if err != nil || ok {
			return v, err
		}
	}

	return 0, ErrUndeclaredIdentifier.With(
		slog.String("name", name),
		slog.Int("args", len(args)),
	)
}

// internal resolves name against the variable table and the user functions.
func (e *evaluator) internal(
	ctx context.Context,
	n *Node,
	name string,
	args []float64,
) (float64, bool, error) {
	if v, ok := e.session.vars[name]; ok {
		return v, true, nil
	}

	f, err := e.session.lookupFunction(name, len(args))
	if err != nil || f == nil {
		return 0, false, err
	}

	v, err := e.invoke(ctx, n, f, args)

	return v, err == nil, err
}

// external resolves name against the built-ins and the external resolvers.
func (e *evaluator) external(
	ctx context.Context,
	_ *Node,
	name string,
	args []float64,
) (float64, bool, error) {
	if b, ok := builtins[name]; ok {
		v, err := b.call(e.session, args)

		return v, err == nil, err
	}

	for _, r := range e.session.resolvers {
		v, ok, err := r.Resolve(ctx, name, args)
		if err != nil {
			if errors.Is(err, ErrResolver) {
				return 0, false, err
			}

			return 0, false, ErrResolver.With(slog.String("name", name)).Wrap(err)
		}

		if ok {
			return v, true, nil
		}
	}

	return 0, false, nil
}

// invoke evaluates the body of f with args bound to its parameters. The body
// is rebuilt on every call one level below the calling node, so recursion
// through user functions counts against the session depth limit.
func (e *evaluator) invoke(
	ctx context.Context,
	n *Node,
	f *Function,
	args []float64,
) (float64, error) {
	if err := context.Cause(ctx); err != nil {
		return 0, err
	}

	scope, err := f.bind(args)
	if err != nil {
		return 0, err
	}

	root, err := e.session.build(ctx, f.body, n.level+1)
	if err != nil {
		return 0, WrapError(err).With(slog.String("function", f.name))
	}

	e.session.logger.TraceContext(ctx, "invoke",
		slog.String("function", f.name),
		slog.Any("args", args),
		slog.Int("level", root.level),
	)

	sub := &evaluator{session: e.session, scope: scope}

	return sub.eval(ctx, root)
}
