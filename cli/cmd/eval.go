package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/ardnew/fatexpr/lang"
	"github.com/ardnew/fatexpr/log"
)

// Eval evaluates a statement chain and prints the value of its last
// statement.
type Eval struct {
	Output string   `default:"value" enum:"value,bool,int,string,json,yaml" help:"Output view: ${enum}."               short:"o"`
	Indent int      `default:"2"                                            help:"Indent width for json and yaml output." short:"i"`
	Chain  []string `arg:""          help:"Statements, each argument holding one or more ';'-separated statements." optional:""`
}

// Result is the structured form of an evaluation printed by the json and
// yaml output views.
type Result struct {
	Chain       string             `json:"chain"       yaml:"chain"`
	Value       float64            `json:"value"       yaml:"value"`
	Bool        bool               `json:"bool"        yaml:"bool"`
	Int         int64              `json:"int"         yaml:"int"`
	String      string             `json:"string"      yaml:"string"`
	Fingerprint string             `json:"fingerprint" yaml:"fingerprint"`
	Variables   map[string]float64 `json:"variables"   yaml:"variables"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context, eng *Engine) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	text, err := readChain(ctx, e.Chain)
	if err != nil {
		return err
	}

	s, _, err := eng.Session(ctx)
	if err != nil {
		return err
	}

	s.SetText(text)

	// The fingerprint covers the variables as given, before assignments.
	fingerprint := strconv.FormatUint(s.Fingerprint(), 16)

	v, err := s.Value(ctx)
	if err != nil {
		return lang.WrapError(err).With(slog.String("command", "eval"))
	}

	log.DebugContext(ctx, "evaluated",
		slog.String("fingerprint", fingerprint),
		slog.Float64("value", v),
	)

	return e.print(ctx, Result{
		Chain:       text,
		Value:       v,
		Bool:        v != 0,
		Int:         lang.IntValue(v),
		String:      lang.FormatValue(v),
		Fingerprint: fingerprint,
		Variables:   s.Variables(),
	})
}

func (e *Eval) print(ctx context.Context, r Result) error {
	w := outputFrom(ctx)

	var err error

	switch e.Output {
	case "bool":
		_, err = fmt.Fprintln(w, r.Bool)
	case "int":
		_, err = fmt.Fprintln(w, r.Int)
	case "string":
		_, err = fmt.Fprintln(w, r.String)
	case "json":
		if err = lang.FormatJSON(w, r, e.Indent); err != nil {
			return ErrJSONMarshal.Wrap(err)
		}
	case "yaml":
		if err = lang.FormatYAML(ctx, w, r, e.Indent); err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}
	default:
		_, err = fmt.Fprintln(w, strconv.FormatFloat(r.Value, 'g', -1, 64))
	}

	if err != nil {
		return ErrOutput.Wrap(err)
	}

	return nil
}
