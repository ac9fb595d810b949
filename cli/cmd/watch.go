package cmd

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ardnew/fatexpr/log"
)

// Watch evaluates a statement chain read from files, and evaluates it again
// whenever one of the files changes.
type Watch struct {
	Output   string        `default:"value" enum:"value,bool,int,string,json,yaml" help:"Output view: ${enum}."                    short:"o"`
	Debounce time.Duration `default:"100ms"                                        help:"Quiet period after a change before re-evaluating."`
	Chain    []string      `arg:"" help:"Statements appended to the file contents." optional:""`
}

// Run executes the watch command until ctx is cancelled.
func (w *Watch) Run(ctx context.Context, eng *Engine) error {
	paths := sourcesFrom(ctx).Paths()
	if len(paths) == 0 {
		return ErrWatch.With(slog.String("reason", "no regular files given with --file"))
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return ErrWatch.Wrap(err)
	}
	defer watcher.Close()

	// Editors often replace a file on save, so watch the directories and
	// filter events by name.
	var dirs []string

	for _, p := range paths {
		dirs = append(dirs, filepath.Dir(p))
	}

	slices.Sort(dirs)

	for _, dir := range slices.Compact(dirs) {
		if err := watcher.Add(dir); err != nil {
			return ErrWatch.With(slog.String("dir", dir)).Wrap(err)
		}
	}

	eval := Eval{Output: w.Output, Indent: 2, Chain: w.Chain}
	w.evaluate(ctx, &eval, eng)

	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if errors.Is(context.Cause(ctx), context.Canceled) {
				return nil
			}

			return context.Cause(ctx)

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !slices.Contains(paths, ev.Name) ||
				!ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}

			log.DebugContext(ctx, "source changed",
				slog.String("file", ev.Name),
				slog.String("op", ev.Op.String()),
			)

			pending = time.After(w.Debounce)

		case <-pending:
			pending = nil

			w.evaluate(ctx, &eval, eng)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			log.WarnContext(ctx, "watch error", slog.Any("error", err))
		}
	}
}

// evaluate runs one evaluation. Failures are logged, not returned, so that a
// broken intermediate save does not stop the watch.
func (w *Watch) evaluate(ctx context.Context, eval *Eval, eng *Engine) {
	if err := eval.Run(ctx, eng); err != nil {
		log.ErrorContext(ctx, "evaluation failed", slog.Any("error", err))
	}
}
