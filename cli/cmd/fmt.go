package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ardnew/fatexpr/lang"
)

// Fmt parses a statement chain without evaluating it and prints it in the
// chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as canonical statements (default)."`
	JSON   JSON   `cmd:""                    help:"Format as JSON."`
	YAML   YAML   `cmd:""                    help:"Format as YAML."`
	Tree   Tree   `cmd:""                    help:"Draw the expression trees."`
}

// parseChain builds the statements of the chain given by args and the
// sources in ctx.
func parseChain(
	ctx context.Context,
	eng *Engine,
	args []string,
	format string,
) ([]lang.Statement, error) {
	text, err := readChain(ctx, args)
	if err != nil {
		return nil, err
	}

	s, _, err := eng.Session(ctx)
	if err != nil {
		return nil, err
	}

	s.SetText(text)

	stmts, err := s.Parse(ctx)
	if err != nil {
		return nil, lang.WrapError(err).With(slog.String("format", format))
	}

	return stmts, nil
}

// Native prints each statement in canonical form, one per line. The output
// is itself a valid chain source.
type Native struct {
	Chain []string `arg:"" help:"Statements, each argument holding one or more ';'-separated statements." optional:""`
}

// Run executes the native format command.
func (f *Native) Run(ctx context.Context, eng *Engine) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	stmts, err := parseChain(ctx, eng, f.Chain, "native")
	if err != nil {
		return err
	}

	return writeNative(outputFrom(ctx), stmts)
}

func writeNative(w io.Writer, stmts []lang.Statement) error {
	for _, st := range stmts {
		line := st.Tree.String()
		if st.Target != "" {
			line = st.Target + ":" + line
		}

		if _, err := fmt.Fprintln(w, line); err != nil {
			return ErrOutput.Wrap(err)
		}
	}

	return nil
}

// JSON prints the statement trees as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output" short:"i"`

	Chain []string `arg:"" help:"Statements, each argument holding one or more ';'-separated statements." optional:""`
}

// Run executes the json format command.
func (j *JSON) Run(ctx context.Context, eng *Engine) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	stmts, err := parseChain(ctx, eng, j.Chain, "json")
	if err != nil {
		return err
	}

	if err := lang.FormatJSON(outputFrom(ctx), stmts, j.Indent); err != nil {
		return ErrJSONMarshal.Wrap(err)
	}

	return nil
}

// YAML prints the statement trees as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output; zero selects flow style" short:"i"`

	Chain []string `arg:"" help:"Statements, each argument holding one or more ';'-separated statements." optional:""`
}

// Run executes the yaml format command.
func (y *YAML) Run(ctx context.Context, eng *Engine) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	stmts, err := parseChain(ctx, eng, y.Chain, "yaml")
	if err != nil {
		return err
	}

	if err := lang.FormatYAML(ctx, outputFrom(ctx), stmts, y.Indent); err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	return nil
}

// Tree draws the expression tree of every statement.
type Tree struct {
	Chain []string `arg:"" help:"Statements, each argument holding one or more ';'-separated statements." optional:""`
}

// Run executes the tree format command.
func (t *Tree) Run(ctx context.Context, eng *Engine) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	stmts, err := parseChain(ctx, eng, t.Chain, "tree")
	if err != nil {
		return err
	}

	w := outputFrom(ctx)

	for _, st := range stmts {
		head := st.Tree.Source
		if st.Target != "" {
			head = st.Target + ": " + head
		}

		if _, err := fmt.Fprintln(w, head); err != nil {
			return ErrOutput.Wrap(err)
		}

		if err := st.Tree.Print(w); err != nil {
			return ErrOutput.Wrap(err)
		}
	}

	return nil
}
