package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/fatexpr/lang"
	"github.com/ardnew/fatexpr/log"
)

const defaultEditor = "vi"

// commentPrefix starts a line ignored by the function editor.
const commentPrefix = "#"

const editHeader = `# One function definition per line, for example: hyp(a, b) = sqrt(a^2 + b^2)
# Lines starting with # are ignored. Save an empty file to cancel.
`

// editFuncsCommand implements [tea.ExecCommand] for the function definition
// edit-parse-retry loop. It writes the current definitions to a temp file,
// opens the user's editor, and validates the result. On a malformed
// definition the user is prompted to re-edit; declining exits the program.
type editFuncsCommand struct {
	ctxFunc func() context.Context
	logger  log.Logger
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	defs    []string
	edited  []string // nil if the edit was cancelled
}

// SetStdin sets the stdin reader for the command.
func (c *editFuncsCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editFuncsCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editFuncsCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-parse-retry loop. If the user declines to re-edit, it
// returns [ErrEditDeclined].
func (c *editFuncsCommand) Run() error {
	ctx := c.ctxFunc()

	f, err := os.CreateTemp(os.TempDir(), "fatexpr-funcs-*.txt")
	if err != nil {
		return err
	}

	tmpPath := f.Name()

	defer os.Remove(tmpPath)

	if err := errors.Join(f.Chmod(0o600), f.Close()); err != nil {
		return err
	}

	content := editHeader + strings.Join(c.defs, "\n") + "\n"

	for {
		if err := os.WriteFile(tmpPath, []byte(content), 0o600); err != nil {
			return err
		}

		if err := runEditor(ctx, c.stdin, c.stdout, c.stderr, tmpPath); err != nil {
			return err
		}

		data, err := os.ReadFile(tmpPath)
		if err != nil {
			return err
		}

		content = string(data)

		defs, parseErr := parseDefinitions(content)
		c.logger.TraceContext(
			ctx,
			"editor parse attempt",
			slog.Int("content_length", len(data)),
			slog.Int("definitions", len(defs)),
			slog.Bool("success", parseErr == nil),
		)

		if parseErr == nil {
			if len(defs) > 0 {
				c.edited = defs
			}

			return nil
		}

		fmt.Fprintf(c.stderr, "\nParse error: %s\n", parseErr)
		fmt.Fprintf(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "n", "no":
			return ErrEditDeclined
		}
	}
}

// parseDefinitions returns the function definitions of text, one per line.
// Blank lines and comments are skipped. Every definition must parse.
func parseDefinitions(text string) ([]string, error) {
	var defs []string

	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, commentPrefix) {
			continue
		}

		if _, err := lang.ParseFunction(line); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}

		defs = append(defs, line)
	}

	return defs, nil
}

// runEditor launches the user's editor on the given file path.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
