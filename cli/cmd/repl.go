package cmd

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/fatexpr/cli/cmd/repl"
	"github.com/ardnew/fatexpr/log"
)

// Repl starts an interactive session.
type Repl struct {
	NoHistory bool `help:"Do not read or write the input history." name:"no-history"`
}

// Run executes the repl command. Statements read from --file sources are
// evaluated first so that their assignments are available.
func (r *Repl) Run(ctx context.Context, eng *Engine) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s, ext, err := eng.Session(ctx)
	if err != nil {
		return err
	}

	var opts []tea.ProgramOption

	if src := sourcesFrom(ctx); !src.IsZero() {
		// Standard input is consumed by the sources.
		if src.Stdin() {
			opts = append(opts, tea.WithInputTTY())
		}

		text, err := readChain(ctx, nil)
		if err != nil {
			return err
		}

		s.SetText(text)

		v, err := s.Value(ctx)
		if err != nil {
			return err
		}

		s.SetOldValue(v)
		log.DebugContext(ctx, "sources evaluated", slog.Float64("value", v))
	}

	var externs []string
	if ext != nil {
		externs = ext.Names()
	}

	var cacheDir string

	if ktx := kongContextFrom(ctx); ktx != nil && !r.NoHistory {
		cacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	return repl.Run(ctx, s, externs, cacheDir, log.Default().WithGroup("repl"), opts...)
}
