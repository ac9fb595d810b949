package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/fatexpr/lang"
	"github.com/ardnew/fatexpr/log"
)

// Engine holds the flags that configure an evaluation session. It is
// embedded in the command line root so that every command, and the
// configuration file, share the same settings.
type Engine struct {
	Var       []string `help:"Set variables (NAME=VALUE, several separated by ';')."                                placeholder:"NAME=VALUE"   sep:"none" short:"v"`
	Func      []string `help:"Define functions (NAME(PARAMS)=BODY, several separated by ';')."                       placeholder:"DEFINITION"   sep:"none" short:"F"`
	Extern    []string `help:"Define an external function as an expr program over args and argc (NAME=PROGRAM)."    placeholder:"NAME=PROGRAM" sep:"none" short:"x"`
	Order     string   `default:"internal"  enum:"${orderEnum}" help:"Resolve user identifiers before (internal) or after (event) built-ins and external functions."`
	MaxDepth  int      `default:"${maxDepth}"                   help:"Maximum nesting depth of expressions and function calls."`
	Prime     float64  `default:"0"                             help:"Value of '_' in the first statement."`
	Corrected bool     `default:"false"                         help:"Treat '|' as a true OR and '<=' as less-or-equal."         negatable:""`
}

// Session returns a new session configured by the flags. The returned
// resolver holds the --extern programs and is nil when there are none.
func (e *Engine) Session(ctx context.Context) (*lang.Session, *lang.ExprResolver, error) {
	order, err := lang.ParseOrder(e.Order)
	if err != nil {
		return nil, nil, err
	}

	s := lang.New(
		lang.WithOrder(order),
		lang.WithMaxDepth(e.MaxDepth),
		lang.WithCorrectedLogic(e.Corrected),
		lang.WithLogger(log.Default().WithGroup("lang")),
	)

	for _, text := range e.Var {
		if err := s.AddVariables(text); err != nil {
			return nil, nil, err
		}
	}

	for _, text := range e.Func {
		s.AddFunctions(text)
	}

	ext, err := e.externs()
	if err != nil {
		return nil, nil, err
	}

	if ext != nil {
		s.AddResolver(ext)
	}

	s.SetOldValue(e.Prime)

	log.DebugContext(ctx, "session configured",
		slog.String("order", order.String()),
		slog.Int("variables", len(s.Variables())),
		slog.Int("functions", len(s.Functions())),
		slog.Int("externs", len(e.Extern)),
	)

	return s, ext, nil
}

func (e *Engine) externs() (*lang.ExprResolver, error) {
	if len(e.Extern) == 0 {
		return nil, nil
	}

	r := lang.NewExprResolver()

	for _, def := range e.Extern {
		if err := r.AddDefinition(def); err != nil {
			return nil, ErrExtern.With(slog.String("definition", def)).Wrap(err)
		}
	}

	return r, nil
}
