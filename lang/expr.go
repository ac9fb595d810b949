package lang

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// ExprResolver is a [Resolver] whose entries are expr-lang programs.
//
// Each program sees the call arguments as "args" ([]float64) and their count
// as "argc" (int). Numeric and boolean results are converted to float64, with
// true as 1 and false as 0.
//
//	r := lang.NewExprResolver()
//	_ = r.Add("hypot", "(args[0]**2 + args[1]**2) ** 0.5")
type ExprResolver struct {
	programs map[string]*vm.Program
	sources  map[string]string
}

// NewExprResolver returns an empty resolver.
func NewExprResolver() *ExprResolver {
	return &ExprResolver{
		programs: make(map[string]*vm.Program),
		sources:  make(map[string]string),
	}
}

// exprEnv returns the environment a program runs in.
func exprEnv(args []float64) map[string]any {
	if args == nil {
		args = []float64{}
	}

	return map[string]any{
		"args": args,
		"argc": len(args),
	}
}

// Add compiles source and registers it under name, replacing any previous
// program with the same name.
func (r *ExprResolver) Add(name, source string) error {
	if !IsIdentifier(name) {
		return ErrResolver.With(
			slog.String("name", name),
			slog.String("reason", "invalid identifier"),
		)
	}

	program, err := expr.Compile(source, expr.Env(exprEnv(nil)))
	if err != nil {
		return ErrResolver.
			With(slog.String("name", name), slog.String("source", source)).
			Wrap(err)
	}

	key := Fold(name)
	r.programs[key] = program
	r.sources[key] = source

	return nil
}

// AddDefinition registers a "name=program" definition.
func (r *ExprResolver) AddDefinition(def string) error {
	name, source, ok := strings.Cut(def, definitionSep)
	if !ok {
		return ErrResolver.With(
			slog.String("definition", def),
			slog.String("reason", "missing "+definitionSep),
		)
	}

	return r.Add(strings.TrimSpace(name), strings.TrimSpace(source))
}

// Names returns the registered names in sorted order.
func (r *ExprResolver) Names() []string {
	return slices.Sorted(maps.Keys(r.programs))
}

// Source returns the program text registered under name.
func (r *ExprResolver) Source(name string) (string, bool) {
	src, ok := r.sources[Fold(name)]

	return src, ok
}

// Resolve implements [Resolver].
func (r *ExprResolver) Resolve(
	_ context.Context,
	name string,
	args []float64,
) (float64, bool, error) {
	program, ok := r.programs[name]
	if !ok {
		return 0, false, nil
	}

	out, err := expr.Run(program, exprEnv(args))
	if err != nil {
		return 0, false, ErrResolver.
			With(slog.String("name", name), slog.Int("args", len(args))).
			Wrap(err)
	}

	value, ok := toFloat(out)
	if !ok {
		return 0, false, ErrResolver.With(
			slog.String("name", name),
			slog.String("result", fmt.Sprintf("%T", out)),
		)
	}

	return value, true, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case bool:
		return truth(n), true
	default:
		return 0, false
	}
}
