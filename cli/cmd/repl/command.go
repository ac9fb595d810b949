package repl

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/ardnew/fatexpr/lang"
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help               Print this cruft
  vars               List variables
  funcs              List user functions
  def   f(a)=expr    Define functions (separate definitions with ;)
  undef name...      Remove functions by name
  order [policy]     Show or set the resolution order (internal, event)
  edit               Edit user functions in external $EDITOR
  reset              Clear variables and the old value
  clear              Clear screen
  quit               Exit REPL

Usage:
  Type a statement chain to evaluate it, for example: a: 2; _ * a
  "_" reads the value of the previous statement, or the previous result
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Space to accept the current candidate
  Press Esc to toggle between eval and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Use Alt+Up/Alt+Down to switch to command mode and navigate command history
    (restores original mode when reaching end of history)
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// commandAction is a side effect a control command asks of the model.
type commandAction int

const (
	actionNone commandAction = iota
	actionQuit
	actionClear
	actionEdit
)

// execCommand runs a control-mode command line against s. It returns the
// text to print and the action the model must perform.
func execCommand(s *lang.Session, line string) (string, commandAction, error) {
	name, args, _ := strings.Cut(strings.TrimSpace(line), " ")
	args = strings.TrimSpace(args)

	switch name {
	case "q", "quit", "exit":
		return "", actionQuit, nil

	case "h", "help":
		return helpMessage(), actionNone, nil

	case "c", "clear":
		return "", actionClear, nil

	case "e", "edit":
		return "", actionEdit, nil

	case "v", "vars":
		return listVariables(s), actionNone, nil

	case "f", "funcs":
		return listFunctions(s), actionNone, nil

	case "def":
		out, err := define(s, args)

		return out, actionNone, err

	case "undef":
		out, err := undefine(s, args)

		return out, actionNone, err

	case "order":
		out, err := order(s, args)

		return out, actionNone, err

	case "reset":
		s.ClearVariables()
		s.SetOldValue(0)

		return "variables cleared", actionNone, nil

	default:
		return "", actionNone, fmt.Errorf("%w: %s (try 'help')", ErrUnknownCommand, name)
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func listVariables(s *lang.Session) string {
	var b strings.Builder

	fmt.Fprintf(&b, "  %s %s\n", "_", hintStyle.Render(formatNumber(s.OldValue())))

	for name, value := range s.Variables().Sorted() {
		fmt.Fprintf(&b, "  %s %s\n", name, hintStyle.Render(formatNumber(value)))
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func listFunctions(s *lang.Session) string {
	defs := s.Functions()
	if len(defs) == 0 {
		return hintStyle.Render("  no functions defined")
	}

	var b strings.Builder

	for _, def := range defs {
		f, err := lang.ParseFunction(def)
		if err != nil {
			fmt.Fprintf(&b, "  %s %s\n", errorStyle.Render(def), hintStyle.Render(err.Error()))

			continue
		}

		fmt.Fprintf(&b, "  %s %s\n", f.Signature(), hintStyle.Render(f.Body()))
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// define adds the ";"-separated definitions of args. Nothing is added unless
// every definition parses.
func define(s *lang.Session, args string) (string, error) {
	var defs []string

	for def := range strings.SplitSeq(args, ";") {
		if def = strings.TrimSpace(def); def == "" {
			continue
		}

		if _, err := lang.ParseFunction(def); err != nil {
			return "", err
		}

		defs = append(defs, def)
	}

	if len(defs) == 0 {
		return "", fmt.Errorf("%w: def name(params) = body", ErrCommandUsage)
	}

	s.AddFunctionList(defs...)

	return fmt.Sprintf("defined %d function(s)", len(defs)), nil
}

func undefine(s *lang.Session, args string) (string, error) {
	names := strings.Fields(args)
	if len(names) == 0 {
		return "", fmt.Errorf("%w: undef name...", ErrCommandUsage)
	}

	removed := 0

	for _, name := range names {
		n := s.RemoveFunction(name)
		if n == 0 {
			return "", fmt.Errorf("%w: %s", ErrUndefinedSymbol, name)
		}

		removed += n
	}

	return fmt.Sprintf("removed %d definition(s)", removed), nil
}

func order(s *lang.Session, args string) (string, error) {
	if args == "" {
		return s.Order().String(), nil
	}

	o, err := lang.ParseOrder(args)
	if err != nil {
		return "", err
	}

	s.SetOrder(o)

	return "order: " + o.String(), nil
}

// commandNames returns ctrlCommands sorted, for stable completion.
func commandNames() []string {
	return slices.Sorted(slices.Values(ctrlCommands))
}
